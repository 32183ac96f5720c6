package repository

import (
	"errors"
	"mlda_backend/internal/model"
	"mlda_backend/internal/util"
	"mlda_backend/pkg/dbctx"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) FindByID(dbc dbctx.Context, quizID string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := dbc.DB(r.DB).Where("id = ?", quizID).First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// FindAnswerKey 读取测验当前的标准答案：所有标记为正确的 (题目, 选项) 对
func (r *QuizRepository) FindAnswerKey(dbc dbctx.Context, quizID string) ([]model.AnswerKeyEntry, error) {
	key := make([]model.AnswerKeyEntry, 0)
	err := dbc.DB(r.DB).Table("quiz_choices").
		Select("quiz_choices.question_id AS question_id, quiz_choices.id AS choice_id").
		Joins("JOIN quiz_questions ON quiz_questions.id = quiz_choices.question_id AND quiz_questions.deleted_at IS NULL").
		Where("quiz_questions.quiz_id = ? AND quiz_choices.is_correct = ? AND quiz_choices.deleted_at IS NULL", quizID, true).
		Scan(&key).Error
	if err != nil {
		return nil, err
	}
	return key, nil
}

// CreateAttempt 连同作答明细一起写入
func (r *QuizRepository) CreateAttempt(dbc dbctx.Context, attempt *model.QuizAttempt) error {
	return dbc.DB(r.DB).Create(attempt).Error
}

func (r *QuizRepository) ListAttempts(dbc dbctx.Context, studentID, quizID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := dbc.DB(r.DB).
		Preload("Answers").
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Order("created_at DESC, id DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
