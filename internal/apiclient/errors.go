package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned for any non-2xx backend response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("apiclient: %s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// EnvelopeError is returned when the backend answers 2xx with isSuccess=false.
type EnvelopeError struct {
	Path    string
	Message string
}

func (e *EnvelopeError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("apiclient: %s: request was not successful", e.Path)
	}
	return fmt.Sprintf("apiclient: %s: %s", e.Path, e.Message)
}

func statusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool { return statusOf(err) == http.StatusNotFound }

func IsUnauthorized(err error) bool {
	code := statusOf(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// Message returns the backend-provided failure text when there is one.
func Message(err error) string {
	var ee *EnvelopeError
	if errors.As(err, &ee) {
		return ee.Message
	}
	return ""
}
