package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrJobNotFound is returned by stores when no job matches the id.
	ErrJobNotFound = errors.New("job not found")
	// ErrAccessDenied covers missing/mismatched tokens and unknown ids
	// alike; callers must not distinguish the two.
	ErrAccessDenied = errors.New("access denied")
	// ErrTokenExpired is permanent once the expiry timestamp has passed.
	ErrTokenExpired = errors.New("access token expired")
	// ErrAlreadyProcessed marks a no-op worker invocation on a terminal job.
	ErrAlreadyProcessed = errors.New("job already processed")
	// ErrEntitlementNotFound is returned when no payment is recorded.
	ErrEntitlementNotFound = errors.New("entitlement not found")
)

type ValidationError struct {
	error
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{fmt.Errorf(format, args...)}
}

type StorageError struct {
	error
}

func NewStorageError(err error, op string) *StorageError {
	return &StorageError{errors.Wrap(err, op)}
}

type AnalysisError struct {
	error
}

func NewAnalysisError(err error) *AnalysisError {
	return &AnalysisError{errors.Wrap(err, "analysis failed")}
}
