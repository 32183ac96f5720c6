package testutil

import (
	"fmt"
	"mlda_backend/internal/model"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, db *gorm.DB, role model.UserRole) *model.User {
	tb.Helper()
	u := &model.User{
		Name:  "user-" + uuid.NewString()[:8],
		Email: uuid.NewString() + "@example.com",
		Role:  role,
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedAchievement(tb testing.TB, db *gorm.DB, code string, xp int) *model.Achievement {
	tb.Helper()
	a := &model.Achievement{
		Code:     code,
		Name:     code,
		XPReward: xp,
	}
	if err := db.Create(a).Error; err != nil {
		tb.Fatalf("seed achievement: %v", err)
	}
	return a
}

// SeedCourse 创建课程和 lessons 个按顺序排列的课时
func SeedCourse(tb testing.TB, db *gorm.DB, lessons int) (*model.Course, []model.Lesson) {
	tb.Helper()
	c := &model.Course{Title: "course-" + uuid.NewString()[:8]}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}

	out := make([]model.Lesson, 0, lessons)
	for i := 0; i < lessons; i++ {
		l := model.Lesson{
			CourseID: c.ID,
			Title:    fmt.Sprintf("lesson %d", i+1),
			Order:    i + 1,
		}
		if err := db.Create(&l).Error; err != nil {
			tb.Fatalf("seed lesson: %v", err)
		}
		out = append(out, l)
	}
	return c, out
}

func SeedEnrollment(tb testing.TB, db *gorm.DB, studentID, courseID string) *model.Enrollment {
	tb.Helper()
	e := &model.Enrollment{StudentID: studentID, CourseID: courseID}
	if err := db.Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

// SeedQuiz 每个参数对应一道题，值为该题三个选项中正确选项的个数（前 n 个正确）
func SeedQuiz(tb testing.TB, db *gorm.DB, correctPerQuestion ...int) (*model.Quiz, []model.QuizQuestion) {
	tb.Helper()
	q := &model.Quiz{Title: "quiz-" + uuid.NewString()[:8]}
	if err := db.Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}

	questions := make([]model.QuizQuestion, 0, len(correctPerQuestion))
	for i, n := range correctPerQuestion {
		question := model.QuizQuestion{
			QuizID: q.ID,
			Prompt: fmt.Sprintf("question %d", i+1),
			Order:  i + 1,
		}
		if err := db.Create(&question).Error; err != nil {
			tb.Fatalf("seed question: %v", err)
		}
		for j := 0; j < 3; j++ {
			choice := model.QuizChoice{
				QuestionID: question.ID,
				Text:       fmt.Sprintf("choice %d", j+1),
				IsCorrect:  j < n,
			}
			if err := db.Create(&choice).Error; err != nil {
				tb.Fatalf("seed choice: %v", err)
			}
			question.Choices = append(question.Choices, choice)
		}
		questions = append(questions, question)
	}
	return q, questions
}

func CorrectChoice(tb testing.TB, q model.QuizQuestion) string {
	tb.Helper()
	for _, c := range q.Choices {
		if c.IsCorrect {
			return c.ID
		}
	}
	tb.Fatalf("question %s has no correct choice", q.ID)
	return ""
}

func WrongChoice(tb testing.TB, q model.QuizQuestion) string {
	tb.Helper()
	for _, c := range q.Choices {
		if !c.IsCorrect {
			return c.ID
		}
	}
	tb.Fatalf("question %s has no wrong choice", q.ID)
	return ""
}
