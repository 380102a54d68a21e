package logpool

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/logpool/pkg/emitter"
)

// Keys logpool adds to every record. They replace caller fields of the same
// name.
const (
	FieldCategory = "category"
	FieldCaller   = "caller"
	FieldContext  = "context"
	FieldTraceID  = "trace_id"
	FieldSpanID   = "span_id"
)

// callerSkip is the number of frames between callSite and the code that
// called one of the public emission methods.
const callerSkip = 2

// Logger emits records for one category. It is safe for concurrent use.
type Logger struct {
	factory  *Factory
	category string
	cfg      emitter.Config
	emitter  emitter.Emitter
	caller   bool
	ctx      context.Context
}

func newLogger(f *Factory, category string, cfg emitter.Config, e emitter.Emitter) *Logger {
	return &Logger{
		factory:  f,
		category: category,
		cfg:      cfg.Clone(),
		emitter:  e,
		caller:   cfg.Caller(),
	}
}

// Category returns the dotted category of the logger; "" for the root.
func (l *Logger) Category() string {
	return l.category
}

// Config returns a copy of the effective configuration.
func (l *Logger) Config() emitter.Config {
	return l.cfg.Clone()
}

// WithContext returns a copy of the logger bound to ctx. Records emitted by the
// copy carry the entries added with ContextWithMDC and, when ctx holds a valid
// span, its trace and span ids. The copy is not cached by the factory.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	bound := *l
	bound.ctx = ctx
	return &bound
}

// Trace emits at trace level. When args are given, msg is used as a format.
func (l *Logger) Trace(fields map[string]any, msg string, args ...any) error {
	return l.log(emitter.TraceLevel, fields, msg, args)
}

// Debug emits at debug level.
func (l *Logger) Debug(fields map[string]any, msg string, args ...any) error {
	return l.log(emitter.DebugLevel, fields, msg, args)
}

// Info emits at info level.
func (l *Logger) Info(fields map[string]any, msg string, args ...any) error {
	return l.log(emitter.InfoLevel, fields, msg, args)
}

// Warn emits at warn level.
func (l *Logger) Warn(fields map[string]any, msg string, args ...any) error {
	return l.log(emitter.WarnLevel, fields, msg, args)
}

// Error emits at error level.
func (l *Logger) Error(fields map[string]any, msg string, args ...any) error {
	return l.log(emitter.ErrorLevel, fields, msg, args)
}

// Log emits at level.
func (l *Logger) Log(level emitter.Level, fields map[string]any, msg string, args ...any) error {
	return l.log(level, fields, msg, args)
}

func (l *Logger) log(level emitter.Level, fields map[string]any, msg string, args []any) error {
	if !l.emitter.Enabled(level) {
		return nil
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	record := make(map[string]any, len(fields)+5)
	for k, v := range fields {
		record[k] = v
	}
	record[FieldCategory] = l.category
	if l.caller {
		record[FieldCaller] = callSite(callerSkip)
	}
	record[FieldContext] = l.contextSnapshot()
	if l.ctx != nil {
		if sc := trace.SpanContextFromContext(l.ctx); sc.IsValid() {
			record[FieldTraceID] = sc.TraceID().String()
			record[FieldSpanID] = sc.SpanID().String()
		}
	}

	err := l.emitter.Emit(level, record, msg)
	l.factory.metrics.observeRecord(l.category, level, err)
	if err != nil {
		return fmt.Errorf("%w: category %q: %w", ErrBackend, l.category, err)
	}
	return nil
}

func (l *Logger) contextSnapshot() map[string]any {
	snapshot := l.factory.mdc.Snapshot()
	for k, v := range MDCFromContext(l.ctx) {
		if v == nil {
			delete(snapshot, k)
			continue
		}
		snapshot[k] = v
	}
	return snapshot
}

// IsTraceEnabled reports whether Trace would emit.
func (l *Logger) IsTraceEnabled() bool { return l.emitter.Enabled(emitter.TraceLevel) }

// IsDebugEnabled reports whether Debug would emit.
func (l *Logger) IsDebugEnabled() bool { return l.emitter.Enabled(emitter.DebugLevel) }

// IsInfoEnabled reports whether Info would emit.
func (l *Logger) IsInfoEnabled() bool { return l.emitter.Enabled(emitter.InfoLevel) }

// IsWarnEnabled reports whether Warn would emit.
func (l *Logger) IsWarnEnabled() bool { return l.emitter.Enabled(emitter.WarnLevel) }

// IsErrorEnabled reports whether Error would emit.
func (l *Logger) IsErrorEnabled() bool { return l.emitter.Enabled(emitter.ErrorLevel) }

// SetMdc sets key in the factory-wide diagnostic context. The entry is seen by
// every logger of the factory, not only this one.
func (l *Logger) SetMdc(key string, value any) {
	l.factory.mdc.Set(key, value)
}

// RemoveMdc deletes key from the factory-wide diagnostic context.
func (l *Logger) RemoveMdc(key string) {
	l.factory.mdc.Remove(key)
}
