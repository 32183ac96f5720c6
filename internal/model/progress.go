package model

// LessonProgress 学生在单个课时上的学习记录，(student_id, lesson_id) 唯一
// swagger:model LessonProgress
type LessonProgress struct {
	UUIDRecord
	StudentID        string `gorm:"type:varchar(36);uniqueIndex:idx_student_lesson;not null" json:"studentId"`
	LessonID         string `gorm:"type:varchar(36);uniqueIndex:idx_student_lesson;index;not null" json:"lessonId"`
	Completed        bool   `gorm:"not null" json:"completed"`
	TimeSpentSeconds int    `gorm:"not null;default:0" json:"timeSpentSeconds"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// LessonStatus 课程进度查询的单行结果，不对应数据表
type LessonStatus struct {
	LessonID         string `gorm:"column:lesson_id" json:"lessonId"`
	Title            string `gorm:"column:title" json:"title"`
	Order            int    `gorm:"column:sort_order" json:"order"`
	Completed        bool   `gorm:"column:completed" json:"completed"`
	TimeSpentSeconds int    `gorm:"column:time_spent_seconds" json:"timeSpentSeconds"`
}
