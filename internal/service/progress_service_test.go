package service

import (
	"context"
	"errors"
	"math"
	"mlda_backend/internal/model"
	"mlda_backend/internal/testutil"
	"mlda_backend/internal/util"
	"testing"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func enrollmentPercent(t *testing.T, db *gorm.DB, studentID, courseID string) *model.Enrollment {
	t.Helper()
	var e model.Enrollment
	if err := db.First(&e, "student_id = ? AND course_id = ?", studentID, courseID).Error; err != nil {
		t.Fatalf("load enrollment: %v", err)
	}
	return &e
}

func TestCourseCompletionScenario(t *testing.T) {
	db := testutil.SeededDB(t)
	svc := newTestServices(t, db)
	ctx := context.Background()

	student := testutil.SeedUser(t, db, model.Student)
	course, lessons := testutil.SeedCourse(t, db, 4)
	testutil.SeedEnrollment(t, db, student.ID, course.ID)

	steps := []struct {
		lesson  int
		percent float64
	}{
		{0, 25},
		{1, 50},
		{2, 75},
		{3, 100},
	}
	for _, step := range steps {
		res, err := svc.progress.RecordLessonProgress(ctx, student.ID, lessons[step.lesson].ID, true, 60)
		if err != nil {
			t.Fatalf("lesson %d: %v", step.lesson+1, err)
		}
		if res.ProgressPercent != step.percent {
			t.Fatalf("after lesson %d percent = %v, want %v", step.lesson+1, res.ProgressPercent, step.percent)
		}
		if got := enrollmentPercent(t, db, student.ID, course.ID).ProgressPercent; got != step.percent {
			t.Fatalf("stored percent = %v, want %v", got, step.percent)
		}
		if step.percent < 100 && res.Achievement != nil {
			t.Fatalf("no award expected below 100%%, got %+v", res.Achievement)
		}
	}

	e := enrollmentPercent(t, db, student.ID, course.ID)
	if e.CompletedAt == nil {
		t.Fatalf("completed_at should be set at 100%%")
	}
	if n := countGrants(t, db, student.ID, model.AchievementCourseCompleted); n != 1 {
		t.Fatalf("expected 1 COURSE_COMPLETED grant, got %d", n)
	}

	// 已完成的课程再次提交进度，不会重复发放
	res, err := svc.progress.RecordLessonProgress(ctx, student.ID, lessons[3].ID, true, 5)
	if err != nil {
		t.Fatalf("repeat lesson: %v", err)
	}
	if res.Achievement == nil || res.Achievement.Result != AwardAlreadyGranted {
		t.Fatalf("repeat completion should report already granted, got %+v", res.Achievement)
	}
	if n := countGrants(t, db, student.ID, model.AchievementCourseCompleted); n != 1 {
		t.Fatalf("expected 1 COURSE_COMPLETED grant, got %d", n)
	}
}

func TestPercentIndependentOfCompletionOrder(t *testing.T) {
	orders := [][]int{
		{0, 1, 2},
		{2, 0, 1},
		{1, 2, 0},
	}
	for _, order := range orders {
		db := testutil.DB(t)
		svc := newTestServices(t, db)
		student := testutil.SeedUser(t, db, model.Student)
		course, lessons := testutil.SeedCourse(t, db, 3)
		testutil.SeedEnrollment(t, db, student.ID, course.ID)

		for i, idx := range order {
			res, err := svc.progress.RecordLessonProgress(context.Background(), student.ID, lessons[idx].ID, true, 0)
			if err != nil {
				t.Fatalf("order %v: %v", order, err)
			}
			want := 100 * float64(i+1) / 3
			if math.Abs(res.ProgressPercent-want) > 1e-9 {
				t.Fatalf("order %v step %d: percent = %v, want %v", order, i, res.ProgressPercent, want)
			}
		}
	}
}

func TestUncompletingLessonLowersPercent(t *testing.T) {
	db := testutil.DB(t)
	svc := newTestServices(t, db)
	ctx := context.Background()
	student := testutil.SeedUser(t, db, model.Student)
	course, lessons := testutil.SeedCourse(t, db, 2)
	testutil.SeedEnrollment(t, db, student.ID, course.ID)

	for _, l := range lessons {
		if _, err := svc.progress.RecordLessonProgress(ctx, student.ID, l.ID, true, 0); err != nil {
			t.Fatalf("complete: %v", err)
		}
	}
	res, err := svc.progress.RecordLessonProgress(ctx, student.ID, lessons[0].ID, false, 0)
	if err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	if res.ProgressPercent != 50 {
		t.Fatalf("percent = %v, want 50", res.ProgressPercent)
	}
	if e := enrollmentPercent(t, db, student.ID, course.ID); e.CompletedAt != nil {
		t.Fatalf("completed_at should be cleared below 100%%")
	}
}

func TestTimeSpentAccumulates(t *testing.T) {
	db := testutil.DB(t)
	svc := newTestServices(t, db)
	ctx := context.Background()
	student := testutil.SeedUser(t, db, model.Student)
	course, lessons := testutil.SeedCourse(t, db, 2)
	testutil.SeedEnrollment(t, db, student.ID, course.ID)

	for _, delta := range []int{30, 45, 0} {
		if _, err := svc.progress.RecordLessonProgress(ctx, student.ID, lessons[0].ID, false, delta); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	res, err := svc.progress.RecordLessonProgress(ctx, student.ID, lessons[0].ID, true, 15)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if res.Progress.TimeSpentSeconds != 90 || !res.Progress.Completed {
		t.Fatalf("unexpected progress: %+v", res.Progress)
	}

	var stored model.LessonProgress
	db.First(&stored, "student_id = ? AND lesson_id = ?", student.ID, lessons[0].ID)
	if stored.TimeSpentSeconds != 90 {
		t.Fatalf("stored time = %d, want 90", stored.TimeSpentSeconds)
	}

	_, err = svc.progress.RecordLessonProgress(ctx, student.ID, lessons[0].ID, true, -1)
	if !errors.Is(err, util.ErrInvalidTimeSpent) {
		t.Fatalf("expected ErrInvalidTimeSpent, got %v", err)
	}
}

func TestNotEnrolledRollsBack(t *testing.T) {
	db := testutil.DB(t)
	svc := newTestServices(t, db)
	student := testutil.SeedUser(t, db, model.Student)
	_, lessons := testutil.SeedCourse(t, db, 1)

	_, err := svc.progress.RecordLessonProgress(context.Background(), student.ID, lessons[0].ID, true, 10)
	if !errors.Is(err, util.ErrNotEnrolled) {
		t.Fatalf("expected ErrNotEnrolled, got %v", err)
	}

	var count int64
	db.Model(&model.LessonProgress{}).Count(&count)
	if count != 0 {
		t.Fatalf("no lesson progress should be written, got %d rows", count)
	}
}

func TestMissingLesson(t *testing.T) {
	db := testutil.DB(t)
	svc := newTestServices(t, db)

	_, err := svc.progress.RecordLessonProgress(context.Background(), "student", "missing", true, 0)
	if !errors.Is(err, util.ErrLessonNotFound) {
		t.Fatalf("expected ErrLessonNotFound, got %v", err)
	}
}

// SQLite 测试库只有一个连接，goroutine 之间不会在事务内交错，这里只验证结果正确；
// 行锁下的并发见 progress_service_integration_test.go（-tags integration）。
func TestConcurrentLessonCompletions(t *testing.T) {
	db := testutil.SeededDB(t)
	svc := newTestServices(t, db)
	student := testutil.SeedUser(t, db, model.Student)
	course, lessons := testutil.SeedCourse(t, db, 5)
	testutil.SeedEnrollment(t, db, student.ID, course.ID)

	g, ctx := errgroup.WithContext(context.Background())
	for _, l := range lessons {
		lessonID := l.ID
		g.Go(func() error {
			_, err := svc.progress.RecordLessonProgress(ctx, student.ID, lessonID, true, 1)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent completions: %v", err)
	}

	if got := enrollmentPercent(t, db, student.ID, course.ID).ProgressPercent; got != 100 {
		t.Fatalf("percent = %v, want 100", got)
	}
	if n := countGrants(t, db, student.ID, model.AchievementCourseCompleted); n != 1 {
		t.Fatalf("expected 1 COURSE_COMPLETED grant, got %d", n)
	}
}

func TestCompletionPercentZeroLessons(t *testing.T) {
	if got := CompletionPercent(0, 0); got != 0 {
		t.Fatalf("CompletionPercent(0, 0) = %v, want 0", got)
	}
	if got := CompletionPercent(3, 4); got != 75 {
		t.Fatalf("CompletionPercent(3, 4) = %v, want 75", got)
	}
}

func TestGetCourseProgress(t *testing.T) {
	db := testutil.DB(t)
	svc := newTestServices(t, db)
	ctx := context.Background()
	student := testutil.SeedUser(t, db, model.Student)
	course, lessons := testutil.SeedCourse(t, db, 3)
	testutil.SeedEnrollment(t, db, student.ID, course.ID)

	if _, err := svc.progress.RecordLessonProgress(ctx, student.ID, lessons[2].ID, true, 0); err != nil {
		t.Fatalf("record: %v", err)
	}

	statuses, err := svc.progress.GetCourseProgress(ctx, student.ID, course.ID)
	if err != nil {
		t.Fatalf("GetCourseProgress: %v", err)
	}
	if len(statuses) != 3 || statuses[0].Completed || statuses[1].Completed || !statuses[2].Completed {
		t.Fatalf("unexpected statuses: %+v", statuses)
	}

	empty, _ := testutil.SeedCourse(t, db, 0)
	statuses, err = svc.progress.GetCourseProgress(ctx, student.ID, empty.ID)
	if err != nil {
		t.Fatalf("GetCourseProgress empty: %v", err)
	}
	if len(statuses) != 0 {
		t.Fatalf("zero-lesson course should have no statuses, got %d", len(statuses))
	}

	_, err = svc.progress.GetCourseProgress(ctx, student.ID, "missing")
	if !errors.Is(err, util.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}
