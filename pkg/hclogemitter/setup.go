// Package hclogemitter is a logpool backend built on hashicorp/go-hclog.
//
// It is meant for services whose surrounding tooling (raft, memberlist,
// plugins) already logs through hclog. Children are created with With() on an
// hclog logger built with IndependentLevels, so every category keeps its own
// level while sharing the writer.
package hclogemitter

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/Aleph-Alpha/logpool/pkg/emitter"
	"github.com/Aleph-Alpha/logpool/pkg/sink"
)

// KeyFormat selects "json" (default) or "text" output.
const KeyFormat = "format"

// Emitter is an emitter.Emitter backed by an hclog.Logger.
type Emitter struct {
	logger    hclog.Logger
	transport *sink.Transport
	pool      *sink.Pool
	format    string
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

	format := strings.ToLower(cfg.String(KeyFormat, "json"))
	return &Emitter{
		logger: hclog.New(&hclog.LoggerOptions{
			Level:             convertLevel(level),
			Output:            transport,
			JSONFormat:        format != "text",
			TimeFn:            time.Now,
			IndependentLevels: true,
		}),
		transport: transport,
		pool:      pool,
		format:    format,
	}, nil
}

// Emit writes a record. hclog reports write failures to its own output, so
// the only error surfaced here is a closed transport.
func (e *Emitter) Emit(level emitter.Level, fields map[string]any, msg string) error {
	if !e.Enabled(level) {
		return nil
	}
	if e.transport.Closed() {
		return sink.ErrClosed
	}
	e.logger.Log(convertLevel(level), msg, toArgs(fields)...)
	return nil
}

// Enabled reports whether the logger would write at level.
func (e *Emitter) Enabled(level emitter.Level) bool {
	return convertLevel(level) >= e.logger.GetLevel()
}

// Child derives a logger with its own level on the same writer. When cfg points
// somewhere else the writer comes from the tree's sink pool, so siblings with
// the same destination share it.
func (e *Emitter) Child(cfg emitter.Config) (emitter.Emitter, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	format := strings.ToLower(cfg.String(KeyFormat, "json"))
	if sink.Descriptor(cfg) != e.transport.Name() || format != e.format {
		child, err := newEmitter(cfg, e.pool)
		if err != nil {
			return nil, err
		}
		return child, nil
	}

	child := e.logger.With()
	child.SetLevel(convertLevel(level))
	return &Emitter{logger: child, transport: e.transport, pool: e.pool, format: e.format}, nil
}

// Flush syncs the transport.
func (e *Emitter) Flush() error {
	return e.transport.Sync()
}

// Close closes the transport or waits for a sibling that already started.
func (e *Emitter) Close(ctx context.Context) error {
	return e.transport.Close(ctx)
}

func convertLevel(l emitter.Level) hclog.Level {
	switch l {
	case emitter.TraceLevel:
		return hclog.Trace
	case emitter.DebugLevel:
		return hclog.Debug
	case emitter.InfoLevel:
		return hclog.Info
	case emitter.WarnLevel:
		return hclog.Warn
	case emitter.ErrorLevel:
		return hclog.Error
	default:
		return hclog.Info
	}
}

// toArgs flattens fields into hclog's alternating key/value form, sorted by key.
func toArgs(fields map[string]any) []interface{} {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return args
}
