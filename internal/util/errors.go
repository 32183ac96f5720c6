package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrCourseNotFound      = errors.New("course not found")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrQuizNotFound        = errors.New("quiz not found")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrAchievementNotFound = errors.New("achievement not found")

	// ErrNotEnrolled 课程和课时都存在，但学生没有选课记录
	ErrNotEnrolled = errors.New("student is not enrolled in the course")

	ErrAchievementCodeTaken = errors.New("achievement code already exists")
	ErrEmptyAnswers         = errors.New("answers must not be empty")
	ErrInvalidTimeSpent     = errors.New("time spent must not be negative")
	// ErrInvalidAnswers 某题提交的选项数多于该题的正确选项数
	ErrInvalidAnswers = errors.New("too many choices submitted for a question")
)

// IsNotFound 判断是否为资源不存在类错误
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrLessonNotFound) ||
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrEnrollmentNotFound) ||
		errors.Is(err, ErrAchievementNotFound)
}

// IsValidation 判断是否为请求参数类错误
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyAnswers) ||
		errors.Is(err, ErrInvalidTimeSpent) ||
		errors.Is(err, ErrInvalidAnswers)
}
