package shared

import (
	"errors"
	"net/http"
)

// AppError is the request-boundary error: every failure a handler can
// surface is one of these, carrying the HTTP status and any extra flags
// the client needs (isSuspended, kickOut).
type AppError struct {
	StatusCode int                    `json:"-"`
	Message    string                 `json:"message"`
	Flags      map[string]interface{} `json:"-"`
	Err        error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// GetAppError unwraps err into an *AppError if one is in the chain.
func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Message: message, Err: err}
}

func NewBadRequestError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message, Err: err}
}

func NewUnauthorizedError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusUnauthorized, Message: message, Err: err}
}

func NewForbiddenError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusForbidden, Message: message, Err: err}
}

func NewInternalError(err error, message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message, Err: err}
}

// NewSuspendedError marks a disabled account. The client reads the
// isSuspended flag and forces a logout.
func NewSuspendedError(reason string) *AppError {
	message := "Your account is currently suspended. Please contact support."
	if reason != "" {
		message = reason
	}
	return &AppError{
		StatusCode: http.StatusForbidden,
		Message:    message,
		Flags:      map[string]interface{}{"isSuspended": true},
	}
}

// NewSessionConflictError marks a stale session token: a newer login owns
// the session. The kickOut flag tells the client to log out immediately.
func NewSessionConflictError() *AppError {
	return &AppError{
		StatusCode: http.StatusUnauthorized,
		Message:    "Your account was signed in from another device. Signing out.",
		Flags:      map[string]interface{}{"kickOut": true},
	}
}

// NewAlreadyAttemptedError rejects a second graded attempt against the
// same quiz or lesson.
func NewAlreadyAttemptedError() *AppError {
	return &AppError{
		StatusCode: http.StatusForbidden,
		Message:    "You have already taken this quiz.",
	}
}
