package service

import (
	"context"
	"errors"
	"mlda_backend/internal/model"
	"mlda_backend/internal/testutil"
	"mlda_backend/internal/util"
	"testing"
)

func TestEnroll(t *testing.T) {
	db := testutil.DB(t)
	svc := newTestServices(t, db)
	ctx := context.Background()
	student := testutil.SeedUser(t, db, model.Student)
	course, _ := testutil.SeedCourse(t, db, 2)

	result, first, err := svc.enrollment.Enroll(ctx, student.ID, course.ID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if result != Enrolled || first.ProgressPercent != 0 {
		t.Fatalf("unexpected first enroll: %s %+v", result, first)
	}

	result, second, err := svc.enrollment.Enroll(ctx, student.ID, course.ID)
	if err != nil {
		t.Fatalf("second Enroll: %v", err)
	}
	if result != AlreadyEnrolled {
		t.Fatalf("result = %s, want %s", result, AlreadyEnrolled)
	}
	if second.ID != first.ID {
		t.Fatalf("second enroll should return the existing row")
	}

	if _, _, err := svc.enrollment.Enroll(ctx, student.ID, "missing"); !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}
