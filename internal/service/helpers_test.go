package service

import (
	"mlda_backend/internal/repository"
	"testing"

	"gorm.io/gorm"
)

type testServices struct {
	achievement *AchievementService
	progress    *ProgressService
	quiz        *QuizService
	enrollment  *EnrollmentService
}

func newTestServices(t *testing.T, db *gorm.DB) *testServices {
	t.Helper()
	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	achievement := NewAchievementService(db, repository.NewAchievementRepository(db), userRepo, nil, 10)
	return &testServices{
		achievement: achievement,
		progress:    NewProgressService(db, courseRepo, repository.NewProgressRepository(db), achievement),
		quiz:        NewQuizService(db, repository.NewQuizRepository(db), achievement),
		enrollment:  NewEnrollmentService(db, courseRepo),
	}
}

func countGrants(t *testing.T, db *gorm.DB, userID, code string) int64 {
	t.Helper()
	n, err := repository.NewAchievementRepository(db).CountGrants(dbcBackground(), userID, code)
	if err != nil {
		t.Fatalf("count grants: %v", err)
	}
	return n
}
