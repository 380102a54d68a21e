package zapemitter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Aleph-Alpha/logpool/pkg/emitter"
	"github.com/Aleph-Alpha/logpool/pkg/sink"
)

// Emitter is an emitter.Emitter backed by a zapcore.Core.
//
// The core always accepts every level; filtering happens against the
// emitter's own level so children can be more verbose than their parent
// while still writing to the same transport.
type Emitter struct {
	core      zapcore.Core
	level     zapcore.Level
	transport *sink.Transport
	pool      *sink.Pool
	cfg       emitter.Config
	format    string
}

var _ emitter.Emitter = (*Emitter)(nil)

// New builds a root Emitter from cfg. It opens the transport described by the
// sink keys and encodes records as JSON unless format is "console".
//
// Example:
//
//	e, err := zapemitter.New(emitter.Config{
//	    "level":  "info",
//	    "output": "/var/log/app.log",
//	})
func New(cfg emitter.Config) (emitter.Emitter, error) {
	e, err := newEmitter(cfg.Clone(), sink.NewPool())
	if err != nil {
		return nil, err
	}
	return e, nil
}

// NewWithCore builds an Emitter on top of an existing core, typically a
// zaptest/observer core in tests. The core is never closed by the Emitter.
func NewWithCore(core zapcore.Core, cfg emitter.Config) (*Emitter, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	format, err := parseFormat(cfg)
	if err != nil {
		return nil, err
	}
	transport := sink.New(sink.Descriptor(cfg), zapcore.AddSync(nopWriter{}), nil)
	pool := sink.NewPool()
	pool.Add(transport)
	return &Emitter{
		core:      core,
		level:     zapLevel(level),
		transport: transport,
		pool:      pool,
		cfg:       cfg.Clone(),
		format:    format,
	}, nil
}

// newEmitter opens the transport for cfg through pool, reusing one that an
// emitter of the same tree already holds.
func newEmitter(cfg emitter.Config, pool *sink.Pool) (*Emitter, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	format, err := parseFormat(cfg)
	if err != nil {
		return nil, err
	}

	transport, err := pool.Open(cfg)
	if err != nil {
		return nil, err
	}

	return &Emitter{
		core:      newCore(format, transport),
		level:     zapLevel(level),
		transport: transport,
		pool:      pool,
		cfg:       cfg,
		format:    format,
	}, nil
}

// Emit writes one record. Write errors of the transport are returned.
func (e *Emitter) Emit(level emitter.Level, fields map[string]any, msg string) error {
	lvl := zapLevel(level)
	if !e.enabled(lvl) {
		return nil
	}
	if e.transport.Closed() {
		return sink.ErrClosed
	}

	entry := zapcore.Entry{
		Level:   lvl,
		Time:    time.Now(),
		Message: msg,
	}
	return e.core.Write(entry, toZapFields(fields))
}

// Enabled reports whether level passes this emitter's threshold.
func (e *Emitter) Enabled(level emitter.Level) bool {
	return e.enabled(zapLevel(level))
}

func (e *Emitter) enabled(lvl zapcore.Level) bool {
	return lvl >= e.level && e.core.Enabled(lvl)
}

// Child derives an emitter for cfg. The core is shared when cfg describes the
// same destination and format as the parent. Otherwise the child gets its own
// core on the transport the tree already holds for that destination, opening
// it on first use.
func (e *Emitter) Child(cfg emitter.Config) (emitter.Emitter, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	format, err := parseFormat(cfg)
	if err != nil {
		return nil, err
	}

	if sink.Descriptor(cfg) == e.transport.Name() && format == e.format {
		return &Emitter{
			core:      e.core,
			level:     zapLevel(level),
			transport: e.transport,
			cfg:       cfg.Clone(),
			format:    e.format,
		}, nil
	}

	child, err := newEmitter(cfg.Clone(), e.pool)
	if err != nil {
		return nil, err
	}
	return child, nil
}

// Flush syncs the core and the transport.
func (e *Emitter) Flush() error {
	return multierr.Append(e.core.Sync(), e.transport.Sync())
}

// Close flushes pending records and closes the transport, waiting for the
// shutdown of a transport shared with other emitters.
func (e *Emitter) Close(ctx context.Context) error {
	var err error
	if !e.transport.Closed() {
		err = e.core.Sync()
	}
	return multierr.Append(err, e.transport.Close(ctx))
}

// Config returns a copy of the configuration the emitter was built from.
func (e *Emitter) Config() emitter.Config {
	return e.cfg.Clone()
}

// Transport exposes the transport so callers can tell whether two emitters
// share one.
func (e *Emitter) Transport() *sink.Transport {
	return e.transport
}

func parseFormat(cfg emitter.Config) (string, error) {
	format := strings.ToLower(cfg.String(KeyFormat, FormatJSON))
	switch format {
	case FormatJSON, FormatConsole:
		return format, nil
	}
	return "", fmt.Errorf("%w: %s must be %q or %q, got %q", emitter.ErrInvalidOption, KeyFormat, FormatJSON, FormatConsole, format)
}

func newCore(format string, ws zapcore.WriteSyncer) zapcore.Core {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = TimeKey
	encoderCfg.LevelKey = LevelKey
	encoderCfg.MessageKey = MessageKey
	encoderCfg.NameKey = zapcore.OmitKey
	encoderCfg.CallerKey = zapcore.OmitKey
	encoderCfg.StacktraceKey = zapcore.OmitKey
	encoderCfg.EncodeTime = zapcore.EpochTimeEncoder
	encoderCfg.EncodeLevel = encodeLevel
	encoderCfg.EncodeDuration = zapcore.MillisDurationEncoder

	var encoder zapcore.Encoder
	if format == FormatConsole {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	return zapcore.NewCore(encoder, ws, zap.LevelEnablerFunc(func(zapcore.Level) bool {
		return true
	}))
}
