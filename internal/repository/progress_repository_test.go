package repository

import (
	"context"
	"mlda_backend/internal/model"
	"mlda_backend/internal/testutil"
	"mlda_backend/pkg/dbctx"
	"testing"
)

func TestListCourseLessonStatus(t *testing.T) {
	db := testutil.DB(t)
	repo := NewProgressRepository(db)
	dbc := dbctx.New(context.Background())

	student := testutil.SeedUser(t, db, model.Student)
	other := testutil.SeedUser(t, db, model.Student)
	course, lessons := testutil.SeedCourse(t, db, 3)

	rows := []model.LessonProgress{
		{StudentID: student.ID, LessonID: lessons[1].ID, Completed: true, TimeSpentSeconds: 30},
		{StudentID: other.ID, LessonID: lessons[0].ID, Completed: true, TimeSpentSeconds: 99},
	}
	for i := range rows {
		if err := repo.CreateLessonProgress(dbc, &rows[i]); err != nil {
			t.Fatalf("CreateLessonProgress: %v", err)
		}
	}

	statuses, err := repo.ListCourseLessonStatus(dbc, student.ID, course.ID)
	if err != nil {
		t.Fatalf("ListCourseLessonStatus: %v", err)
	}
	if len(statuses) != 3 {
		t.Fatalf("expected 3 lessons, got %d", len(statuses))
	}

	want := []bool{false, true, false}
	for i, s := range statuses {
		if s.LessonID != lessons[i].ID {
			t.Fatalf("lesson %d out of order: got %s want %s", i, s.LessonID, lessons[i].ID)
		}
		if s.Completed != want[i] {
			t.Fatalf("lesson %d completed = %v, want %v", i, s.Completed, want[i])
		}
	}
	if statuses[1].TimeSpentSeconds != 30 {
		t.Fatalf("time spent = %d, want 30", statuses[1].TimeSpentSeconds)
	}
	if statuses[0].TimeSpentSeconds != 0 {
		t.Fatalf("other student's progress leaked: %+v", statuses[0])
	}
}

func TestCountCompletedLessonsScopedToCourse(t *testing.T) {
	db := testutil.DB(t)
	repo := NewProgressRepository(db)
	dbc := dbctx.New(context.Background())

	student := testutil.SeedUser(t, db, model.Student)
	course, lessons := testutil.SeedCourse(t, db, 2)
	_, otherLessons := testutil.SeedCourse(t, db, 1)

	for _, p := range []model.LessonProgress{
		{StudentID: student.ID, LessonID: lessons[0].ID, Completed: true},
		{StudentID: student.ID, LessonID: lessons[1].ID, Completed: false},
		{StudentID: student.ID, LessonID: otherLessons[0].ID, Completed: true},
	} {
		p := p
		if err := repo.CreateLessonProgress(dbc, &p); err != nil {
			t.Fatalf("CreateLessonProgress: %v", err)
		}
	}

	n, err := repo.CountCompletedLessons(dbc, student.ID, course.ID)
	if err != nil {
		t.Fatalf("CountCompletedLessons: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 completed lesson, got %d", n)
	}

	// 删除的课时不再计入
	if err := db.Delete(&lessons[0]).Error; err != nil {
		t.Fatalf("delete lesson: %v", err)
	}
	n, err = repo.CountCompletedLessons(dbc, student.ID, course.ID)
	if err != nil {
		t.Fatalf("CountCompletedLessons: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 completed lessons after delete, got %d", n)
	}
}

func TestUpdateLessonProgressAccumulatesTime(t *testing.T) {
	db := testutil.DB(t)
	repo := NewProgressRepository(db)
	dbc := dbctx.New(context.Background())

	student := testutil.SeedUser(t, db, model.Student)
	_, lessons := testutil.SeedCourse(t, db, 1)

	p := &model.LessonProgress{StudentID: student.ID, LessonID: lessons[0].ID, TimeSpentSeconds: 40}
	if err := repo.CreateLessonProgress(dbc, p); err != nil {
		t.Fatalf("CreateLessonProgress: %v", err)
	}
	if err := repo.UpdateLessonProgress(dbc, p.ID, true, 20); err != nil {
		t.Fatalf("UpdateLessonProgress: %v", err)
	}

	got, err := repo.FindLessonProgress(dbc, student.ID, lessons[0].ID)
	if err != nil {
		t.Fatalf("FindLessonProgress: %v", err)
	}
	if got == nil || !got.Completed || got.TimeSpentSeconds != 60 {
		t.Fatalf("unexpected progress row: %+v", got)
	}

	missing, err := repo.FindLessonProgress(dbc, student.ID, "missing")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing row, got %+v, %v", missing, err)
	}
}
