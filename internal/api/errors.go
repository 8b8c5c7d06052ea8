package api

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnavailable indicates the backend could not be reached.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("backend request timed out")

	// ErrInvalidResponse indicates a 2xx body that could not be decoded.
	ErrInvalidResponse = errors.New("invalid backend response")
)

// StatusError is returned for non-2xx responses. Body holds the response
// text, which the backend uses as a short error code (e.g. "need_48_answers").
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return fmt.Sprintf("HTTP %d", e.Code)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
