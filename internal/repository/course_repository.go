package repository

import (
	"errors"
	"mlda_backend/internal/model"
	"mlda_backend/internal/util"
	"mlda_backend/pkg/dbctx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) FindByID(dbc dbctx.Context, courseID string) (*model.Course, error) {
	var course model.Course
	err := dbc.DB(r.DB).Where("id = ?", courseID).First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

// FindLesson 查询课时。lock 为 true 时使用共享锁读取
func (r *CourseRepository) FindLesson(dbc dbctx.Context, lessonID string, lock bool) (*model.Lesson, error) {
	var lesson model.Lesson
	q := dbc.DB(r.DB).Where("id = ?", lessonID)
	if lock {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthShare})
	}
	if err := q.First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

func (r *CourseRepository) CountLessons(dbc dbctx.Context, courseID string) (int64, error) {
	var count int64
	err := dbc.DB(r.DB).Model(&model.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

func (r *CourseRepository) FindEnrollment(dbc dbctx.Context, studentID, courseID string) (*model.Enrollment, error) {
	return r.findEnrollment(dbc, studentID, courseID, false)
}

// LockEnrollment 以 SELECT ... FOR UPDATE 读取选课记录，同一学生同一课程的进度重算在这里串行
func (r *CourseRepository) LockEnrollment(dbc dbctx.Context, studentID, courseID string) (*model.Enrollment, error) {
	return r.findEnrollment(dbc, studentID, courseID, true)
}

func (r *CourseRepository) findEnrollment(dbc dbctx.Context, studentID, courseID string, lock bool) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	q := dbc.DB(r.DB).Where("student_id = ? AND course_id = ?", studentID, courseID)
	if lock {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	if err := q.First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

// CreateEnrollment 新建选课记录，已存在时返回 false
func (r *CourseRepository) CreateEnrollment(dbc dbctx.Context, enrollment *model.Enrollment) (bool, error) {
	res := dbc.DB(r.DB).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(enrollment)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CourseRepository) UpdateEnrollmentProgress(dbc dbctx.Context, enrollment *model.Enrollment) error {
	return dbc.DB(r.DB).Model(&model.Enrollment{}).
		Where("id = ?", enrollment.ID).
		Updates(map[string]interface{}{
			"progress_percent": enrollment.ProgressPercent,
			"completed_at":     enrollment.CompletedAt,
		}).Error
}
