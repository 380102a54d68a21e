// Package zerologemitter is a logpool backend built on rs/zerolog.
//
// zerolog loggers are values; a child is a copy of the parent's logger with a
// different level and the same writer.
package zerologemitter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Aleph-Alpha/logpool/pkg/emitter"
	"github.com/Aleph-Alpha/logpool/pkg/sink"
)

// Emitter is an emitter.Emitter backed by a zerolog.Logger.
type Emitter struct {
	logger    zerolog.Logger
	transport *sink.Transport
	pool      *sink.Pool
}

var _ emitter.Emitter = (*Emitter)(nil)

// New builds a root Emitter from cfg.
func New(cfg emitter.Config) (emitter.Emitter, error) {
	e, err := newEmitter(cfg, sink.NewPool())
	if err != nil {
		return nil, err
	}
	return e, nil
}

func newEmitter(cfg emitter.Config, pool *sink.Pool) (*Emitter, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	transport, err := pool.Open(cfg)
	if err != nil {
		return nil, err
	}

	logger := zerolog.New(transport).
		Level(convertLevel(level)).
		With().Timestamp().Logger()
	return &Emitter{logger: logger, transport: transport, pool: pool}, nil
}

// Emit writes a record. zerolog swallows writer errors, so a closed transport
// is checked up front.
func (e *Emitter) Emit(level emitter.Level, fields map[string]any, msg string) error {
	if !e.Enabled(level) {
		return nil
	}
	if e.transport.Closed() {
		return sink.ErrClosed
	}
	e.logger.WithLevel(convertLevel(level)).Fields(fields).Msg(msg)
	return nil
}

// Enabled reports whether the logger would write at level.
func (e *Emitter) Enabled(level emitter.Level) bool {
	return convertLevel(level) >= e.logger.GetLevel()
}

// Child shares the writer when cfg describes the same destination. Other
// destinations come from the tree's sink pool.
func (e *Emitter) Child(cfg emitter.Config) (emitter.Emitter, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	if sink.Descriptor(cfg) != e.transport.Name() {
		child, err := newEmitter(cfg, e.pool)
		if err != nil {
			return nil, err
		}
		return child, nil
	}
	return &Emitter{logger: e.logger.Level(convertLevel(level)), transport: e.transport, pool: e.pool}, nil
}

// Flush syncs the transport.
func (e *Emitter) Flush() error {
	return e.transport.Sync()
}

// Close closes the transport or waits for a sibling that already started.
func (e *Emitter) Close(ctx context.Context) error {
	return e.transport.Close(ctx)
}

func convertLevel(l emitter.Level) zerolog.Level {
	switch l {
	case emitter.TraceLevel:
		return zerolog.TraceLevel
	case emitter.DebugLevel:
		return zerolog.DebugLevel
	case emitter.InfoLevel:
		return zerolog.InfoLevel
	case emitter.WarnLevel:
		return zerolog.WarnLevel
	case emitter.ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
