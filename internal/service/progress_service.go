package service

import (
	"context"
	"errors"
	"fmt"
	"mlda_backend/internal/model"
	"mlda_backend/internal/repository"
	"mlda_backend/internal/util"
	"mlda_backend/pkg/dbctx"
	"mlda_backend/pkg/logger"
	"mlda_backend/pkg/monitoring"
	"mlda_backend/pkg/tracing"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProgressService struct {
	DB           *gorm.DB
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
	Achievements *AchievementService
}

func NewProgressService(
	db *gorm.DB,
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
	achievements *AchievementService,
) *ProgressService {
	return &ProgressService{
		DB:           db,
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
		Achievements: achievements,
	}
}

// LessonProgressResult 课时进度写入后的结果
type LessonProgressResult struct {
	Progress        *model.LessonProgress `json:"progress"`
	CourseID        string                `json:"courseId"`
	ProgressPercent float64               `json:"progressPercent"`
	Achievement     *AwardOutcome         `json:"achievement,omitempty"`
}

// RecordLessonProgress 在一个事务内完成：写入课时进度、重算课程完成度、满 100% 时发放 COURSE_COMPLETED。
// 任一步失败整体回滚。
//
// 选课记录以 FOR UPDATE 锁定后才读取任何进度数据，
// 同一学生同一课程的并发调用因此串行执行，最终完成度对应某个合法的执行顺序。
func (s *ProgressService) RecordLessonProgress(ctx context.Context, studentID, lessonID string, completed bool, timeSpentDelta int) (result *LessonProgressResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "ProgressService.RecordLessonProgress",
		attribute.String("student.id", studentID),
		attribute.String("lesson.id", lessonID),
		attribute.Bool("lesson.completed", completed),
	)
	defer func() { tracing.EndSpan(span, err) }()

	if timeSpentDelta < 0 {
		return nil, util.ErrInvalidTimeSpent
	}

	result = &LessonProgressResult{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.recordInTx(dbctx.WithTx(ctx, tx), studentID, lessonID, completed, timeSpentDelta, result)
	})
	if err != nil {
		return nil, err
	}

	monitoring.LessonProgressUpdates.WithLabelValues(strconv.FormatBool(completed)).Inc()
	if result.Achievement != nil {
		s.Achievements.Publish(ctx, *result.Achievement)
	}

	logger.Log.Debug("Lesson progress recorded",
		zap.String("studentId", studentID),
		zap.String("lessonId", lessonID),
		zap.Bool("completed", completed),
		zap.Float64("progressPercent", result.ProgressPercent),
	)
	return result, nil
}

func (s *ProgressService) recordInTx(dbc dbctx.Context, studentID, lessonID string, completed bool, timeSpentDelta int, result *LessonProgressResult) error {
	// 1. 课时
	lesson, err := s.CourseRepo.FindLesson(dbc, lessonID, true)
	if err != nil {
		return err
	}
	result.CourseID = lesson.CourseID

	// 2. 锁定选课记录
	enrollment, err := s.CourseRepo.LockEnrollment(dbc, studentID, lesson.CourseID)
	if err != nil {
		if errors.Is(err, util.ErrEnrollmentNotFound) {
			return util.ErrNotEnrolled
		}
		return fmt.Errorf("lock enrollment: %w", err)
	}

	// 3. 写入课时进度
	progress, err := s.upsertLessonProgress(dbc, studentID, lessonID, completed, timeSpentDelta)
	if err != nil {
		return err
	}
	result.Progress = progress
	result.ProgressPercent = enrollment.ProgressPercent

	// 4. 课程没有课时时不更新选课记录
	total, err := s.CourseRepo.CountLessons(dbc, lesson.CourseID)
	if err != nil {
		return fmt.Errorf("count lessons: %w", err)
	}
	if total == 0 {
		return nil
	}

	// 5. 已完成课时
	done, err := s.ProgressRepo.CountCompletedLessons(dbc, studentID, lesson.CourseID)
	if err != nil {
		return fmt.Errorf("count completed lessons: %w", err)
	}

	// 6. 更新完成度
	percent := CompletionPercent(done, total)
	enrollment.ProgressPercent = percent
	if percent >= 100 {
		if enrollment.CompletedAt == nil {
			now := time.Now()
			enrollment.CompletedAt = &now
		}
	} else {
		enrollment.CompletedAt = nil
	}
	if err := s.CourseRepo.UpdateEnrollmentProgress(dbc, enrollment); err != nil {
		return fmt.Errorf("update enrollment progress: %w", err)
	}
	result.ProgressPercent = percent

	// 7. 课程完成成就
	if percent >= 100 {
		outcome, err := s.Achievements.Award(dbc, studentID, model.AchievementCourseCompleted)
		if err != nil {
			return err
		}
		result.Achievement = &outcome
	}
	return nil
}

func (s *ProgressService) upsertLessonProgress(dbc dbctx.Context, studentID, lessonID string, completed bool, timeSpentDelta int) (*model.LessonProgress, error) {
	progress, err := s.ProgressRepo.FindLessonProgress(dbc, studentID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("find lesson progress: %w", err)
	}

	if progress == nil {
		progress = &model.LessonProgress{
			StudentID:        studentID,
			LessonID:         lessonID,
			Completed:        completed,
			TimeSpentSeconds: timeSpentDelta,
		}
		if err := s.ProgressRepo.CreateLessonProgress(dbc, progress); err != nil {
			return nil, fmt.Errorf("create lesson progress: %w", err)
		}
		return progress, nil
	}

	if err := s.ProgressRepo.UpdateLessonProgress(dbc, progress.ID, completed, timeSpentDelta); err != nil {
		return nil, fmt.Errorf("update lesson progress: %w", err)
	}
	progress.Completed = completed
	progress.TimeSpentSeconds += timeSpentDelta
	return progress, nil
}

// CompletionPercent 课程完成百分比，total 为 0 时返回 0
func CompletionPercent(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) * 100 / float64(total)
}

// GetCourseProgress 只读：按顺序返回课程内每个课时的完成情况
func (s *ProgressService) GetCourseProgress(ctx context.Context, studentID, courseID string) ([]model.LessonStatus, error) {
	dbc := dbctx.New(ctx)
	if _, err := s.CourseRepo.FindByID(dbc, courseID); err != nil {
		return nil, err
	}
	return s.ProgressRepo.ListCourseLessonStatus(dbc, studentID, courseID)
}

// GetEnrollmentProgress 返回选课记录上缓存的完成度
func (s *ProgressService) GetEnrollmentProgress(ctx context.Context, studentID, courseID string) (*model.Enrollment, error) {
	return s.CourseRepo.FindEnrollment(dbctx.New(ctx), studentID, courseID)
}
