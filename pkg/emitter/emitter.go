package emitter

import "context"

// Emitter is the capability logpool needs from a logging backend.
//
//go:generate mockgen -source=emitter.go -destination=../logpool/mock_emitter_test.go -package=logpool
type Emitter interface {
	// Emit writes a record at the given level. The fields map is owned by the
	// Emitter once passed in and must not be retained by the caller.
	Emit(level Level, fields map[string]any, msg string) error

	// Enabled reports whether records at level would be written.
	Enabled(level Level) bool

	// Child derives a new Emitter that shares the parent's transport unless cfg
	// asks for a different one. cfg is the fully merged effective configuration.
	Child(cfg Config) (Emitter, error)

	// Flush pushes buffered records down to the transport.
	Flush() error

	// Close shuts the underlying transport down and blocks until it signals
	// completion or ctx is done. Closing an already closed transport returns
	// immediately; concurrent callers wait on the same completion signal.
	Close(ctx context.Context) error
}

// Constructor builds a root Emitter from a root configuration.
type Constructor func(cfg Config) (Emitter, error)
