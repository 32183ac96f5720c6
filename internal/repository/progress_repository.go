package repository

import (
	"errors"
	"mlda_backend/internal/model"
	"mlda_backend/pkg/dbctx"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// FindLessonProgress 查询学生在某个课时上的记录，不存在时返回 nil, nil
func (r *ProgressRepository) FindLessonProgress(dbc dbctx.Context, studentID, lessonID string) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	err := dbc.DB(r.DB).
		Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
		First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) CreateLessonProgress(dbc dbctx.Context, progress *model.LessonProgress) error {
	return dbc.DB(r.DB).Create(progress).Error
}

// UpdateLessonProgress 覆盖完成状态，学习时长在数据库端累加
func (r *ProgressRepository) UpdateLessonProgress(dbc dbctx.Context, id string, completed bool, timeSpentDelta int) error {
	return dbc.DB(r.DB).Model(&model.LessonProgress{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"completed":          completed,
			"time_spent_seconds": gorm.Expr("time_spent_seconds + ?", timeSpentDelta),
		}).Error
}

// CountCompletedLessons 统计学生在课程内已完成的课时数，已删除的课时不计入
func (r *ProgressRepository) CountCompletedLessons(dbc dbctx.Context, studentID, courseID string) (int64, error) {
	var count int64
	err := dbc.DB(r.DB).Model(&model.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id AND lessons.deleted_at IS NULL").
		Where("lesson_progress.student_id = ? AND lessons.course_id = ? AND lesson_progress.completed = ?",
			studentID, courseID, true).
		Count(&count).Error
	return count, err
}

// ListCourseLessonStatus 按顺序列出课程的全部课时，没有学习记录的课时视为未完成
func (r *ProgressRepository) ListCourseLessonStatus(dbc dbctx.Context, studentID, courseID string) ([]model.LessonStatus, error) {
	statuses := make([]model.LessonStatus, 0)
	err := dbc.DB(r.DB).Table("lessons").
		Select("lessons.id AS lesson_id, lessons.title AS title, lessons.sort_order AS sort_order, "+
			"COALESCE(lp.completed, ?) AS completed, COALESCE(lp.time_spent_seconds, 0) AS time_spent_seconds", false).
		Joins("LEFT JOIN lesson_progress lp ON lp.lesson_id = lessons.id AND lp.student_id = ?", studentID).
		Where("lessons.course_id = ? AND lessons.deleted_at IS NULL", courseID).
		Order("lessons.sort_order ASC, lessons.id ASC").
		Scan(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}
