package service

import (
	"context"
	"fmt"
	"mlda_backend/internal/model"
	"mlda_backend/internal/repository"
	"mlda_backend/pkg/dbctx"
	"mlda_backend/pkg/logger"
	"mlda_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EnrollResult string

const (
	Enrolled        EnrollResult = "enrolled"
	AlreadyEnrolled EnrollResult = "already_enrolled"
)

type EnrollmentService struct {
	DB         *gorm.DB
	CourseRepo *repository.CourseRepository
}

func NewEnrollmentService(db *gorm.DB, courseRepo *repository.CourseRepository) *EnrollmentService {
	return &EnrollmentService{DB: db, CourseRepo: courseRepo}
}

// Enroll 选课，重复选课返回已有记录和 AlreadyEnrolled
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) (result EnrollResult, enrollment *model.Enrollment, err error) {
	ctx, span := tracing.StartSpan(ctx, "EnrollmentService.Enroll",
		attribute.String("student.id", studentID),
		attribute.String("course.id", courseID),
	)
	defer func() { tracing.EndSpan(span, err) }()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.WithTx(ctx, tx)
		if _, err := s.CourseRepo.FindByID(dbc, courseID); err != nil {
			return err
		}

		enrollment = &model.Enrollment{StudentID: studentID, CourseID: courseID}
		created, err := s.CourseRepo.CreateEnrollment(dbc, enrollment)
		if err != nil {
			return fmt.Errorf("create enrollment: %w", err)
		}
		if created {
			result = Enrolled
			return nil
		}

		result = AlreadyEnrolled
		enrollment, err = s.CourseRepo.FindEnrollment(dbc, studentID, courseID)
		return err
	})
	if err != nil {
		return "", nil, err
	}

	if result == Enrolled {
		logger.Log.Info("Student enrolled", zap.String("studentId", studentID), zap.String("courseId", courseID))
	}
	return result, enrollment, nil
}
