package service

import (
	"context"
	"errors"
	"mlda_backend/internal/model"
	"mlda_backend/internal/testutil"
	"mlda_backend/internal/util"
	"testing"
)

func TestQuizScoreBelowThreshold(t *testing.T) {
	db := testutil.SeededDB(t)
	svc := newTestServices(t, db)
	student := testutil.SeedUser(t, db, model.Student)
	quiz, questions := testutil.SeedQuiz(t, db, 1, 1, 1, 1, 1)

	answers := make([]SubmittedAnswer, len(questions))
	for i, q := range questions {
		choice := testutil.CorrectChoice(t, q)
		if i == 4 {
			choice = testutil.WrongChoice(t, q)
		}
		answers[i] = SubmittedAnswer{QuestionID: q.ID, ChoiceID: choice}
	}

	res, err := svc.quiz.SubmitAttempt(context.Background(), student.ID, quiz.ID, answers, 120)
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if res.Score != 80 || res.CorrectAnswers != 4 || res.TotalQuestions != 5 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Answers[4].Correct || !res.Answers[0].Correct {
		t.Fatalf("per-answer correctness wrong: %+v", res.Answers)
	}
	if res.Achievement != nil {
		t.Fatalf("no achievement expected below 100, got %+v", res.Achievement)
	}
	if n := countGrants(t, db, student.ID, model.AchievementPerfectQuizScore); n != 0 {
		t.Fatalf("expected no grant, got %d", n)
	}
}

func TestPerfectScoreWithoutCatalogEntry(t *testing.T) {
	db := testutil.DB(t)
	svc := newTestServices(t, db)
	student := testutil.SeedUser(t, db, model.Student)
	quiz, questions := testutil.SeedQuiz(t, db, 1, 1)

	answers := []SubmittedAnswer{
		{QuestionID: questions[0].ID, ChoiceID: testutil.CorrectChoice(t, questions[0])},
		{QuestionID: questions[1].ID, ChoiceID: testutil.CorrectChoice(t, questions[1])},
	}
	res, err := svc.quiz.SubmitAttempt(context.Background(), student.ID, quiz.ID, answers, 30)
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if res.Score != 100 {
		t.Fatalf("score = %v, want 100", res.Score)
	}
	if res.Achievement == nil || res.Achievement.Result != AwardSkipped {
		t.Fatalf("expected skipped award, got %+v", res.Achievement)
	}

	var count int64
	db.Model(&model.UserAchievement{}).Count(&count)
	if count != 0 {
		t.Fatalf("no grant row expected, got %d", count)
	}
}

func TestPerfectScoreAwardsOnceAcrossAttempts(t *testing.T) {
	db := testutil.SeededDB(t)
	svc := newTestServices(t, db)
	ctx := context.Background()
	student := testutil.SeedUser(t, db, model.Student)
	quiz, questions := testutil.SeedQuiz(t, db, 1)

	answers := []SubmittedAnswer{{QuestionID: questions[0].ID, ChoiceID: testutil.CorrectChoice(t, questions[0])}}
	want := []AwardResult{AwardGranted, AwardAlreadyGranted}
	for i, w := range want {
		res, err := svc.quiz.SubmitAttempt(ctx, student.ID, quiz.ID, answers, 10)
		if err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
		if res.Achievement == nil || res.Achievement.Result != w {
			t.Fatalf("attempt %d award = %+v, want %s", i+1, res.Achievement, w)
		}
	}

	attempts, err := svc.quiz.ListAttempts(ctx, student.ID, quiz.ID)
	if err != nil {
		t.Fatalf("ListAttempts: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempt rows, got %d", len(attempts))
	}
	if n := countGrants(t, db, student.ID, model.AchievementPerfectQuizScore); n != 1 {
		t.Fatalf("expected 1 grant, got %d", n)
	}
}

func TestQuizScoringDenominatorAndDuplicates(t *testing.T) {
	db := testutil.DB(t)
	svc := newTestServices(t, db)
	student := testutil.SeedUser(t, db, model.Student)
	// 第一题两个正确选项，第二题一个：标准答案共 3 对
	quiz, questions := testutil.SeedQuiz(t, db, 2, 1)

	q0 := questions[0]
	answers := []SubmittedAnswer{
		{QuestionID: q0.ID, ChoiceID: q0.Choices[0].ID},
		{QuestionID: q0.ID, ChoiceID: q0.Choices[0].ID},
	}
	res, err := svc.quiz.SubmitAttempt(context.Background(), student.ID, quiz.ID, answers, 0)
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if res.TotalQuestions != 3 || res.CorrectAnswers != 1 {
		t.Fatalf("unexpected counts: %+v", res)
	}
	if res.Score != 100.0/3 {
		t.Fatalf("score = %v, want %v", res.Score, 100.0/3)
	}
}

func TestQuizWithoutCorrectChoicesScoresZero(t *testing.T) {
	db := testutil.DB(t)
	svc := newTestServices(t, db)
	student := testutil.SeedUser(t, db, model.Student)
	quiz, questions := testutil.SeedQuiz(t, db, 0)

	res, err := svc.quiz.SubmitAttempt(context.Background(), student.ID, quiz.ID,
		[]SubmittedAnswer{{QuestionID: questions[0].ID, ChoiceID: questions[0].Choices[0].ID}}, 0)
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if res.Score != 0 || res.TotalQuestions != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSubmitAttemptValidation(t *testing.T) {
	db := testutil.DB(t)
	svc := newTestServices(t, db)
	ctx := context.Background()
	quiz, questions := testutil.SeedQuiz(t, db, 1)
	answer := []SubmittedAnswer{{QuestionID: questions[0].ID, ChoiceID: questions[0].Choices[0].ID}}

	if _, err := svc.quiz.SubmitAttempt(ctx, "s", quiz.ID, nil, 0); !errors.Is(err, util.ErrEmptyAnswers) {
		t.Fatalf("expected ErrEmptyAnswers, got %v", err)
	}
	if _, err := svc.quiz.SubmitAttempt(ctx, "s", quiz.ID, answer, -5); !errors.Is(err, util.ErrInvalidTimeSpent) {
		t.Fatalf("expected ErrInvalidTimeSpent, got %v", err)
	}
	if _, err := svc.quiz.SubmitAttempt(ctx, "s", "missing", answer, 0); !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}

	var count int64
	db.Model(&model.QuizAttempt{}).Count(&count)
	if count != 0 {
		t.Fatalf("rejected submissions must not persist, got %d", count)
	}
}

func TestSubmittingEveryChoiceIsRejected(t *testing.T) {
	db := testutil.SeededDB(t)
	svc := newTestServices(t, db)
	student := testutil.SeedUser(t, db, model.Student)
	quiz, questions := testutil.SeedQuiz(t, db, 1, 1, 1)

	var answers []SubmittedAnswer
	for _, q := range questions {
		for _, c := range q.Choices {
			answers = append(answers, SubmittedAnswer{QuestionID: q.ID, ChoiceID: c.ID})
		}
	}

	res, err := svc.quiz.SubmitAttempt(context.Background(), student.ID, quiz.ID, answers, 30)
	if !errors.Is(err, util.ErrInvalidAnswers) || !util.IsValidation(err) {
		t.Fatalf("expected ErrInvalidAnswers, got %+v %v", res, err)
	}

	var attempts int64
	db.Model(&model.QuizAttempt{}).Count(&attempts)
	if attempts != 0 {
		t.Fatalf("rejected submission must not persist, got %d attempts", attempts)
	}
	if n := countGrants(t, db, student.ID, model.AchievementPerfectQuizScore); n != 0 {
		t.Fatalf("expected no grant, got %d", n)
	}
}

func TestCheckChoiceLimits(t *testing.T) {
	key := []model.AnswerKeyEntry{
		{QuestionID: "q1", ChoiceID: "a"},
		{QuestionID: "q2", ChoiceID: "b"},
		{QuestionID: "q2", ChoiceID: "c"},
	}
	tests := []struct {
		name    string
		answers []SubmittedAnswer
		wantErr bool
	}{
		{"one per single-answer question", []SubmittedAnswer{{"q1", "x"}, {"q2", "b"}}, false},
		{"two on multi-answer question", []SubmittedAnswer{{"q2", "b"}, {"q2", "d"}}, false},
		{"same pair repeated", []SubmittedAnswer{{"q1", "a"}, {"q1", "a"}}, false},
		{"question outside key", []SubmittedAnswer{{"q9", "a"}, {"q9", "b"}}, false},
		{"two on single-answer question", []SubmittedAnswer{{"q1", "a"}, {"q1", "x"}}, true},
		{"three on multi-answer question", []SubmittedAnswer{{"q2", "b"}, {"q2", "c"}, {"q2", "d"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckChoiceLimits(key, tt.answers)
			if tt.wantErr != errors.Is(err, util.ErrInvalidAnswers) {
				t.Fatalf("CheckChoiceLimits = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGradeAnswers(t *testing.T) {
	key := []model.AnswerKeyEntry{
		{QuestionID: "q1", ChoiceID: "a"},
		{QuestionID: "q2", ChoiceID: "b"},
	}
	tests := []struct {
		name    string
		answers []SubmittedAnswer
		correct int
	}{
		{"all correct", []SubmittedAnswer{{"q1", "a"}, {"q2", "b"}}, 2},
		{"wrong choice", []SubmittedAnswer{{"q1", "x"}, {"q2", "b"}}, 1},
		{"choice from another question", []SubmittedAnswer{{"q1", "b"}}, 0},
		{"duplicate counted once", []SubmittedAnswer{{"q1", "a"}, {"q1", "a"}}, 1},
		{"unknown question", []SubmittedAnswer{{"q9", "a"}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, correct := GradeAnswers(key, tt.answers)
			if correct != tt.correct {
				t.Fatalf("correct = %d, want %d", correct, tt.correct)
			}
			if len(results) != len(tt.answers) {
				t.Fatalf("results = %d, want %d", len(results), len(tt.answers))
			}
		})
	}

	if ScorePercent(1, 0) != 0 {
		t.Fatalf("empty key must score 0")
	}
}
