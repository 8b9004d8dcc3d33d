package model

import "errors"

var (
	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by stores when a unique key is already taken.
	ErrConflict = errors.New("conflict")

	ErrVideoNotFound       = errors.New("video not found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrSummarizationFailed = errors.New("summarization failed")

	ErrInvalidToken = errors.New("invalid token")
)
