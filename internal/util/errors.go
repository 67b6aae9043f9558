package util

import "errors"

var (
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrPermissionDenied = errors.New("permission denied")

	ErrQuizNotFound    = errors.New("quiz not found")
	ErrQuizNoQuestions = errors.New("quiz has no questions")

	ErrQuestionNotFound     = errors.New("question not found")
	ErrQuestionNotInQuiz    = errors.New("question does not belong to this quiz")
	ErrOptionNotFound       = errors.New("option not found")
	ErrQuestionNeedsOptions = errors.New("question needs at least 2 options")
	ErrQuestionNeedsCorrect = errors.New("question needs exactly one correct option")
	ErrQuizHasAttempts      = errors.New("quiz already has attempts and cannot be deleted")

	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrQuizMismatch     = errors.New("attempt does not belong to this quiz")
	ErrAttemptCompleted = errors.New("attempt already completed")
)
