package service

import (
	"context"
	"fmt"
	"mlda_backend/internal/model"
	"mlda_backend/internal/repository"
	"mlda_backend/internal/util"
	"mlda_backend/pkg/dbctx"
	"mlda_backend/pkg/logger"
	"mlda_backend/pkg/monitoring"
	"mlda_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuizService struct {
	DB           *gorm.DB
	QuizRepo     *repository.QuizRepository
	Achievements *AchievementService
}

func NewQuizService(db *gorm.DB, quizRepo *repository.QuizRepository, achievements *AchievementService) *QuizService {
	return &QuizService{
		DB:           db,
		QuizRepo:     quizRepo,
		Achievements: achievements,
	}
}

// SubmittedAnswer 客户端提交的一个作答，只包含题目和所选选项
type SubmittedAnswer struct {
	QuestionID string `json:"questionId" binding:"required"`
	ChoiceID   string `json:"choiceId" binding:"required"`
}

type AnswerResult struct {
	QuestionID string `json:"questionId"`
	ChoiceID   string `json:"choiceId"`
	Correct    bool   `json:"correct"`
}

type AttemptResult struct {
	AttemptID      string         `json:"attemptId"`
	Score          float64        `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	CorrectAnswers int            `json:"correctAnswers"`
	Answers        []AnswerResult `json:"answers"`
	Achievement    *AwardOutcome  `json:"achievement,omitempty"`
}

// SubmitAttempt 服务端判分并保存一次测验作答。
// 正确与否只看数据库中的标准答案，客户端传来的任何判定都不参与计算；
// 满分时在同一事务中发放 PERFECT_QUIZ_SCORE。
func (s *QuizService) SubmitAttempt(ctx context.Context, studentID, quizID string, answers []SubmittedAnswer, timeSpentSeconds int) (result *AttemptResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "QuizService.SubmitAttempt",
		attribute.String("student.id", studentID),
		attribute.String("quiz.id", quizID),
		attribute.Int("quiz.answers", len(answers)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	if len(answers) == 0 {
		return nil, util.ErrEmptyAnswers
	}
	if timeSpentSeconds < 0 {
		return nil, util.ErrInvalidTimeSpent
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.WithTx(ctx, tx)

		if _, err := s.QuizRepo.FindByID(dbc, quizID); err != nil {
			return err
		}

		key, err := s.QuizRepo.FindAnswerKey(dbc, quizID)
		if err != nil {
			return fmt.Errorf("load answer key: %w", err)
		}

		if err := CheckChoiceLimits(key, answers); err != nil {
			return err
		}

		graded, correct := GradeAnswers(key, answers)
		score := ScorePercent(correct, len(key))

		attempt := &model.QuizAttempt{
			StudentID:        studentID,
			QuizID:           quizID,
			Score:            score,
			CorrectAnswers:   correct,
			TotalQuestions:   len(key),
			TimeSpentSeconds: timeSpentSeconds,
			Answers:          make([]model.QuizAttemptAnswer, len(graded)),
		}
		for i, a := range graded {
			attempt.Answers[i] = model.QuizAttemptAnswer{
				QuestionID: a.QuestionID,
				ChoiceID:   a.ChoiceID,
				IsCorrect:  a.Correct,
			}
		}
		if err := s.QuizRepo.CreateAttempt(dbc, attempt); err != nil {
			return fmt.Errorf("create attempt: %w", err)
		}

		result = &AttemptResult{
			AttemptID:      attempt.ID,
			Score:          score,
			TotalQuestions: len(key),
			CorrectAnswers: correct,
			Answers:        graded,
		}

		if score >= 100 {
			outcome, err := s.Achievements.Award(dbc, studentID, model.AchievementPerfectQuizScore)
			if err != nil {
				return err
			}
			result.Achievement = &outcome
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.QuizAttempts.Inc()
	monitoring.QuizScore.Observe(result.Score)
	if result.Achievement != nil {
		s.Achievements.Publish(ctx, *result.Achievement)
	}

	logger.Log.Info("Quiz attempt submitted",
		zap.String("studentId", studentID),
		zap.String("quizId", quizID),
		zap.String("attemptId", result.AttemptID),
		zap.Float64("score", result.Score),
	)
	return result, nil
}

// GradeAnswers 按标准答案逐个判定，返回判定结果和答对的标准答案数。
// 同一个 (题目, 选项) 对重复提交时只计一次。
func GradeAnswers(key []model.AnswerKeyEntry, answers []SubmittedAnswer) ([]AnswerResult, int) {
	keySet := make(map[model.AnswerKeyEntry]struct{}, len(key))
	for _, k := range key {
		keySet[model.AnswerKeyEntry{QuestionID: k.QuestionID, ChoiceID: k.ChoiceID}] = struct{}{}
	}

	counted := make(map[model.AnswerKeyEntry]struct{}, len(key))
	results := make([]AnswerResult, len(answers))
	for i, a := range answers {
		pair := model.AnswerKeyEntry{QuestionID: a.QuestionID, ChoiceID: a.ChoiceID}
		_, ok := keySet[pair]
		results[i] = AnswerResult{
			QuestionID: a.QuestionID,
			ChoiceID:   a.ChoiceID,
			Correct:    ok,
		}
		if ok {
			counted[pair] = struct{}{}
		}
	}
	return results, len(counted)
}

// CheckChoiceLimits 每道题去重后的提交选项数不能超过该题的正确选项数，
// 否则全选所有选项就能拿到满分。没有正确选项的题不限制，提交了也不会计分。
func CheckChoiceLimits(key []model.AnswerKeyEntry, answers []SubmittedAnswer) error {
	limits := make(map[string]int, len(key))
	for _, k := range key {
		limits[k.QuestionID]++
	}

	chosen := make(map[string]map[string]struct{})
	for _, a := range answers {
		limit, ok := limits[a.QuestionID]
		if !ok {
			continue
		}
		set := chosen[a.QuestionID]
		if set == nil {
			set = make(map[string]struct{})
			chosen[a.QuestionID] = set
		}
		set[a.ChoiceID] = struct{}{}
		if len(set) > limit {
			return fmt.Errorf("question %s: %w", a.QuestionID, util.ErrInvalidAnswers)
		}
	}
	return nil
}

// ScorePercent 得分百分比，没有标准答案时为 0
func ScorePercent(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) * 100 / float64(total)
}

// ListAttempts 作答历史，最新的在前
func (s *QuizService) ListAttempts(ctx context.Context, studentID, quizID string) ([]model.QuizAttempt, error) {
	dbc := dbctx.New(ctx)
	if _, err := s.QuizRepo.FindByID(dbc, quizID); err != nil {
		return nil, err
	}
	return s.QuizRepo.ListAttempts(dbc, studentID, quizID)
}
