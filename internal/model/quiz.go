package model

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	CourseID  *string        `gorm:"type:varchar(36);index" json:"courseId,omitempty"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	Questions []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model QuizQuestion
type QuizQuestion struct {
	UUIDBase
	QuizID  string       `gorm:"type:varchar(36);index;not null" json:"quizId"`
	Prompt  string       `gorm:"type:text;not null" json:"prompt"`
	Order   int          `gorm:"column:sort_order;default:0" json:"order"`
	Choices []QuizChoice `gorm:"foreignKey:QuestionID" json:"choices,omitempty"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizChoice 的 IsCorrect 不下发给前端
// swagger:model QuizChoice
type QuizChoice struct {
	UUIDBase
	QuestionID string `gorm:"type:varchar(36);index;not null" json:"questionId"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `gorm:"not null" json:"-"`
}

func (QuizChoice) TableName() string {
	return "quiz_choices"
}

// QuizAttempt 一次提交对应一条记录，创建后不再修改
// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDRecord
	StudentID        string              `gorm:"type:varchar(36);index:idx_attempt_student_quiz;not null" json:"studentId"`
	QuizID           string              `gorm:"type:varchar(36);index:idx_attempt_student_quiz;not null" json:"quizId"`
	Score            float64             `gorm:"not null" json:"score"`
	CorrectAnswers   int                 `gorm:"not null" json:"correctAnswers"`
	TotalQuestions   int                 `gorm:"not null" json:"totalQuestions"`
	TimeSpentSeconds int                 `gorm:"not null;default:0" json:"timeSpentSeconds"`
	Answers          []QuizAttemptAnswer `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// swagger:model QuizAttemptAnswer
type QuizAttemptAnswer struct {
	UUIDRecord
	AttemptID  string `gorm:"type:varchar(36);index;not null" json:"attemptId"`
	QuestionID string `gorm:"type:varchar(36);not null" json:"questionId"`
	ChoiceID   string `gorm:"type:varchar(36);not null" json:"choiceId"`
	IsCorrect  bool   `gorm:"not null" json:"isCorrect"`
}

func (QuizAttemptAnswer) TableName() string {
	return "quiz_attempt_answers"
}

// AnswerKeyEntry 标准答案中的一个 (题目, 正确选项) 对
type AnswerKeyEntry struct {
	QuestionID string `gorm:"column:question_id"`
	ChoiceID   string `gorm:"column:choice_id"`
}
