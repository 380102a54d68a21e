package logpool

import (
	"errors"
	"fmt"
	"strings"
)

// Common logpool errors
var (
	// ErrInvalidArgument is returned when an operation receives an input it
	// cannot act on.
	ErrInvalidArgument = errors.New("logpool: invalid argument")

	// ErrRootHasNoParent is returned when the parent of the root category is
	// requested.
	ErrRootHasNoParent = fmt.Errorf("%w: root category has no parent", ErrInvalidArgument)

	// ErrNotInitialized is returned by the process-wide pool before Initialize.
	ErrNotInitialized = errors.New("logpool: pool not initialized")

	// ErrAlreadyInitialized is returned by Initialize while a live factory exists.
	ErrAlreadyInitialized = errors.New("logpool: pool already initialized")

	// ErrFactoryFinished is returned when a new logger is requested from a
	// factory that has been finished.
	ErrFactoryFinished = errors.New("logpool: factory finished")

	// ErrBackend wraps failures reported by the emitter backend.
	ErrBackend = errors.New("logpool: backend failure")

	// ErrUnknownBackend is returned when the configured backend is not registered.
	ErrUnknownBackend = errors.New("logpool: unknown backend")
)

// CloseFailure records a logger whose emitter failed to flush or close.
type CloseFailure struct {
	Category string
	Err      error
}

// ShutdownError aggregates every failure observed by Finish.
type ShutdownError struct {
	Failures []CloseFailure
}

func (e *ShutdownError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", displayCategory(f.Category), f.Err))
	}
	return fmt.Sprintf("logpool: %d logger(s) failed to close: %s", len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *ShutdownError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// IsInvalidArgumentError checks if the error is a usage error.
func IsInvalidArgumentError(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsNotInitializedError checks if the error comes from using the pool before
// Initialize.
func IsNotInitializedError(err error) bool {
	return errors.Is(err, ErrNotInitialized)
}

// IsBackendError checks if the error was reported by the emitter backend.
func IsBackendError(err error) bool {
	return errors.Is(err, ErrBackend)
}

// AsShutdownError returns the *ShutdownError in err's chain, if any.
func AsShutdownError(err error) (*ShutdownError, bool) {
	var se *ShutdownError
	ok := errors.As(err, &se)
	return se, ok
}

func displayCategory(category string) string {
	if category == RootCategory {
		return "<root>"
	}
	return category
}
