//go:build integration

package service

import (
	"context"
	"mlda_backend/internal/config"
	"mlda_backend/internal/model"
	"mlda_backend/internal/testutil"
	"mlda_backend/pkg/database"
	"testing"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// integrationDB 连接 DATABASE_* 环境变量指定的 MySQL 或 Postgres。
// 运行方式: DATABASE_DRIVER=postgres DATABASE_HOST=... go test -tags integration ./internal/service/
func integrationDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg, err := config.LoadConfig("../../configs")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Database.Driver != "mysql" && cfg.Database.Driver != "postgres" {
		t.Skipf("row locks need mysql or postgres, got driver %q", cfg.Database.Driver)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		t.Skipf("database unavailable: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := database.SeedAchievements(db); err != nil {
		t.Fatalf("seed achievements: %v", err)
	}
	return db
}

// 多连接下并发完成同一课程的各个课时，选课记录的 FOR UPDATE 锁保证最终完成度为 100 且只发放一次
func TestConcurrentLessonCompletionsWithRowLocks(t *testing.T) {
	db := integrationDB(t)
	svc := newTestServices(t, db)
	student := testutil.SeedUser(t, db, model.Student)
	course, lessons := testutil.SeedCourse(t, db, 8)
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

	e := enrollmentPercent(t, db, student.ID, course.ID)
	if e.ProgressPercent != 100 || e.CompletedAt == nil {
		t.Fatalf("unexpected enrollment: %+v", e)
	}
	if n := countGrants(t, db, student.ID, model.AchievementCourseCompleted); n != 1 {
		t.Fatalf("expected 1 COURSE_COMPLETED grant, got %d", n)
	}
}
