// Package apierror defines errors that are safe to show to API clients.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is an error with an HTTP status and a client-facing message.
type APIError struct {
	Status  int
	Message string
	// Details holds per-field validation messages.
	Details []string
	err     error
}

func (e *APIError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.err
}

// As extracts an *APIError from the error chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func newError(status int, message string, cause error) *APIError {
	return &APIError{Status: status, Message: message, err: cause}
}

func NewErrValidation(message string, details ...string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message, Details: details}
}

func NewErrInvalidURL() *APIError {
	return newError(http.StatusBadRequest, "invalid YouTube URL", nil)
}

func NewErrVideoIDNotFound() *APIError {
	return newError(http.StatusBadRequest, "video id not found", nil)
}

func NewErrInvalidID(id string) *APIError {
	return newError(http.StatusBadRequest, fmt.Sprintf("invalid id %q", id), nil)
}

func NewErrMissingAuthorizationToken() *APIError {
	return newError(http.StatusUnauthorized, "missing authorization token", nil)
}

func NewErrInvalidAuthorizationToken() *APIError {
	return newError(http.StatusUnauthorized, "invalid authorization token", nil)
}

func NewErrInvalidCredentials() *APIError {
	return newError(http.StatusUnauthorized, "invalid email or password", nil)
}

func NewErrUnauthorized() *APIError {
	return newError(http.StatusUnauthorized, "authentication required", nil)
}

func NewErrForbidden() *APIError {
	return newError(http.StatusForbidden, "access denied", nil)
}

func NewErrUserNotFound() *APIError {
	return newError(http.StatusNotFound, "user not found", nil)
}

func NewErrSummaryNotFound() *APIError {
	return newError(http.StatusNotFound, "summary not found", nil)
}

func NewErrVideoNotFound(videoID string) *APIError {
	return newError(http.StatusNotFound, fmt.Sprintf("video %s not found", videoID), nil)
}

func NewErrArchiveNotFound(videoID string) *APIError {
	return newError(http.StatusNotFound, fmt.Sprintf("no archived output for video %s", videoID), nil)
}

func NewErrEmailIsTaken(email string) *APIError {
	return newError(http.StatusConflict, fmt.Sprintf("email %s is already registered", email), nil)
}

func NewErrUpstream(cause error) *APIError {
	return newError(http.StatusBadGateway, "video metadata service unavailable", cause)
}

func NewErrSummarizationFailed(cause error) *APIError {
	return newError(http.StatusBadGateway, "failed to generate summary", cause)
}
