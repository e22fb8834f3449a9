package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks expected input failures the caller should display.
	ErrValidation = errors.New("validation failed")

	ErrUsernameTaken = fmt.Errorf("%w: username already exists", ErrValidation)
	ErrEmailTaken    = fmt.Errorf("%w: email already exists", ErrValidation)
	ErrEmptyTitle    = fmt.Errorf("%w: title must not be empty", ErrValidation)
	ErrEmptyComment  = fmt.Errorf("%w: comment must not be empty", ErrValidation)

	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrSelfDelete       = fmt.Errorf("%w: cannot delete your own account", ErrForbidden)

	ErrUserNotFound       = errors.New("user not found")
	ErrBoardNotFound      = errors.New("board not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrVoiceNotFound      = errors.New("voice message not found")
)

// ValidationError reports the first invalid field of a request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
