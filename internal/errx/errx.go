package errx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
)

const (
	SystemErrorMessage    = "Something went wrong. Please try again."
	RedisErrorMessage     = "session store unavailable"
	RedisNotFoundMessage  = "session not found"
	ValidationMessage     = "Please check the highlighted fields."
	BackendErrorMessage   = "The service is temporarily unavailable."
	ForbiddenMessage      = "Access denied"
	NotFoundMessage       = "Page not found"
	UnauthorizedMessage   = "Please sign in again."
	UploadRejectedMessage = "The uploaded file was rejected."
)

// AppError wraps an underlying error with an HTTP status and a message safe to show users.
type AppError struct {
	Err     error
	Status  int
	Message string
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

func New(err error, status int, message string) *AppError {
	return &AppError{Err: err, Status: status, Message: message}
}

func Validation(msg string) *AppError {
	if msg == "" {
		msg = ValidationMessage
	}
	return New(nil, http.StatusBadRequest, msg)
}

func Forbidden(err error) *AppError { return New(err, http.StatusForbidden, ForbiddenMessage) }

// WrapRedis maps redis.Nil to 404 and everything else to 502.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return New(err, http.StatusNotFound, RedisNotFoundMessage)
	}
	return New(err, http.StatusBadGateway, RedisErrorMessage)
}

// StatusOf extracts the HTTP status carried by err, defaulting to 500.
func StatusOf(err error) int {
	var ae *AppError
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the user-facing message for err.
func MessageOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return SystemErrorMessage
}
