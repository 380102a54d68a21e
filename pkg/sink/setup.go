package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/segmentio/kafka-go"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Aleph-Alpha/logpool/pkg/emitter"
)

// Option customizes Open.
type Option func(*options)

type options struct {
	errorLogger kafka.Logger
}

// WithErrorLogger routes internal errors of network sinks to l.
func WithErrorLogger(l kafka.Logger) Option {
	return func(o *options) {
		o.errorLogger = l
	}
}

// Open builds the transport described by cfg.
//
// Supported outputs:
//   - "stdout", "stderr": process streams, never closed
//   - "discard": drops everything
//   - "kafka": asynchronous kafka producer (kafka_brokers, kafka_topic)
//   - anything else: a file path, rotated by lumberjack (max_size, max_backups,
//     max_age, compress, local_time)
//
// When "buffered" is true the destination is wrapped in a zap
// BufferedWriteSyncer, flushed every flush_interval and on Close.
func Open(cfg emitter.Config, opts ...Option) (*Transport, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	output := strings.TrimSpace(cfg.String(KeyOutput, DefaultOutput))
	desc := Descriptor(cfg)

	var (
		ws            zapcore.WriteSyncer
		closer        func() error
		ignoreSyncErr bool
		err           error
	)

	switch strings.ToLower(output) {
	case OutputStdout, "":
		ws, ignoreSyncErr = zapcore.Lock(os.Stdout), true
	case OutputStderr:
		ws, ignoreSyncErr = zapcore.Lock(os.Stderr), true
	case OutputDiscard:
		ws = zapcore.AddSync(io.Discard)
	case OutputKafka:
		ws, closer, err = openKafka(cfg, o)
	default:
		ws, closer, err = openFile(strings.TrimPrefix(output, "file://"), cfg)
	}
	if err != nil {
		return nil, err
	}

	buffered, err := cfg.Bool(KeyBuffered, false)
	if err != nil {
		return nil, err
	}
	if buffered {
		ws, closer, err = wrapBuffered(ws, closer, cfg)
		if err != nil {
			return nil, err
		}
	}

	t := New(desc, ws, closer)
	t.ignoreSyncErr = ignoreSyncErr
	return t, nil
}

func openFile(path string, cfg emitter.Config) (zapcore.WriteSyncer, func() error, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("%w: empty file path", ErrInvalidConfig)
	}

	var errs error
	maxSize, err := cfg.Int(KeyMaxSize, DefaultMaxSize)
	errs = multierr.Append(errs, err)
	maxBackups, err := cfg.Int(KeyMaxBackups, DefaultMaxBackups)
	errs = multierr.Append(errs, err)
	maxAge, err := cfg.Int(KeyMaxAge, DefaultMaxAge)
	errs = multierr.Append(errs, err)
	compress, err := cfg.Bool(KeyCompress, false)
	errs = multierr.Append(errs, err)
	localTime, err := cfg.Bool(KeyLocalTime, false)
	errs = multierr.Append(errs, err)
	if errs != nil {
		return nil, nil, errs
	}

	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   compress,
		LocalTime:  localTime,
	}
	return zapcore.AddSync(lj), lj.Close, nil
}

func openKafka(cfg emitter.Config, o options) (zapcore.WriteSyncer, func() error, error) {
	brokers, err := cfg.Strings(KeyKafkaBrokers)
	if err != nil {
		return nil, nil, err
	}
	topic := cfg.String(KeyKafkaTopic, "")
	if len(brokers) == 0 || topic == "" {
		return nil, nil, fmt.Errorf("%w: kafka output needs %s and %s", ErrInvalidConfig, KeyKafkaBrokers, KeyKafkaTopic)
	}
	batchTimeout, err := cfg.Duration(KeyKafkaBatchTimeout, DefaultKafkaBatchTimeout)
	if err != nil {
		return nil, nil, err
	}

	errorLogger := o.errorLogger
	if errorLogger == nil {
		errorLogger = kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Printf("KAFKA SINK ERROR: "+msg, args...)
		})
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		Async:        true,
		BatchTimeout: batchTimeout,
		ErrorLogger:  errorLogger,
	}
	return zapcore.AddSync(&kafkaWriter{w: w}), w.Close, nil
}

// kafkaWriter publishes every encoded record as one message.
type kafkaWriter struct {
	w *kafka.Writer
}

func (k *kafkaWriter) Write(p []byte) (int, error) {
	// encoders reuse their buffers once Write returns
	value := bytes.TrimRight(append([]byte(nil), p...), "\n")
	if err := k.w.WriteMessages(context.Background(), kafka.Message{Value: value}); err != nil {
		return 0, err
	}
	return len(p), nil
}

func wrapBuffered(ws zapcore.WriteSyncer, closer func() error, cfg emitter.Config) (zapcore.WriteSyncer, func() error, error) {
	size, err := cfg.Int(KeyBufferSize, DefaultBufferSize)
	if err != nil {
		return nil, nil, err
	}
	interval, err := cfg.Duration(KeyFlushInterval, DefaultFlushInterval)
	if err != nil {
		return nil, nil, err
	}

	bws := &zapcore.BufferedWriteSyncer{
		WS:            ws,
		Size:          size,
		FlushInterval: interval,
	}
	return bws, func() error {
		err := bws.Stop()
		if closer != nil {
			err = multierr.Append(err, closer())
		}
		return err
	}, nil
}
