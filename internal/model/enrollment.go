package model

import "time"

// Enrollment 学生选课记录，ProgressPercent 是缓存的课程完成度，只由进度重算逻辑写入
// swagger:model Enrollment
type Enrollment struct {
	UUIDRecord
	StudentID       string     `gorm:"type:varchar(36);uniqueIndex:idx_student_course;not null" json:"studentId"`
	CourseID        string     `gorm:"type:varchar(36);uniqueIndex:idx_student_course;not null" json:"courseId"`
	ProgressPercent float64    `gorm:"not null;default:0" json:"progressPercent"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
