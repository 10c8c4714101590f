package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrVideoNotFound       = fmt.Errorf("%w: video not found", ErrInvalidInput)
	ErrUpstreamUnavailable = errors.New("video service unavailable")
	ErrNoTranscript        = errors.New("no transcript available for this video")
	ErrPersistence         = errors.New("storage failure")
)

// Custom errors
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }

// RateLimitError is returned when an admission gate refuses a request.
// RetryAfter is zero when the caller has no useful estimate.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string { return e.Message }

const rateLimitMessage = "Rate limit exceeded. Please try again later."

// ProviderError describes a failed AI attempt. It never leaves the package:
// generators log it and fall back.
type ProviderError struct {
	Op     string
	Reason string
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func persistenceErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrPersistence, err)
}
