package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrPermissionDenied = errors.New("permission denied")

	ErrCourseNotFound = errors.New("course not found")
	ErrNotEnrolled    = errors.New("user is not enrolled in this course")
	ErrLessonNotFound = errors.New("lesson not found")

	ErrComponentNotFound     = errors.New("component not found")
	ErrTestComponentNotFound = errors.New("test component not found")
	ErrWordNotFound          = errors.New("word not found")
	ErrTestNotFound          = errors.New("test not found")

	ErrAttemptNotFound      = errors.New("attempt not found")
	ErrAttemptLimitReached  = errors.New("maximum number of attempts reached")
	ErrAttemptNotOwned      = errors.New("attempt belongs to another user")
	ErrTestAlreadySubmitted = errors.New("test already submitted")
	ErrUnknownQuestion      = errors.New("answer references an unknown question")
)
