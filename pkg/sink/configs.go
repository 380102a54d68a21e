package sink

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Aleph-Alpha/logpool/pkg/emitter"
)

// Configuration keys read by Open.
const (
	KeyOutput        = "output"
	KeyBuffered      = "buffered"
	KeyBufferSize    = "buffer_size"
	KeyFlushInterval = "flush_interval"

	KeyMaxSize    = "max_size"
	KeyMaxBackups = "max_backups"
	KeyMaxAge     = "max_age"
	KeyCompress   = "compress"
	KeyLocalTime  = "local_time"

	KeyKafkaBrokers      = "kafka_brokers"
	KeyKafkaTopic        = "kafka_topic"
	KeyKafkaBatchTimeout = "kafka_batch_timeout"
)

// Output names with special meaning. Anything else is a file path.
const (
	OutputStdout  = "stdout"
	OutputStderr  = "stderr"
	OutputDiscard = "discard"
	OutputKafka   = "kafka"
)

const (
	DefaultOutput            = OutputStdout
	DefaultBufferSize        = 256 * 1024
	DefaultFlushInterval     = 30 * time.Second
	DefaultMaxSize           = 100 // megabytes
	DefaultMaxBackups        = 3
	DefaultMaxAge            = 28 // days
	DefaultKafkaBatchTimeout = 100 * time.Millisecond
)

var (
	// ErrClosed is returned by writes to a transport that is shutting down.
	ErrClosed = errors.New("sink: transport closed")

	// ErrInvalidConfig is returned when the sink options are incomplete.
	ErrInvalidConfig = errors.New("sink: invalid config")
)

// transportKeys are the options that identify a transport. Two configurations
// that agree on all of them can share one.
var transportKeys = []string{
	KeyOutput, KeyBuffered, KeyBufferSize, KeyFlushInterval,
	KeyMaxSize, KeyMaxBackups, KeyMaxAge, KeyCompress, KeyLocalTime,
	KeyKafkaBrokers, KeyKafkaTopic, KeyKafkaBatchTimeout,
}

// Descriptor returns a stable string describing the transport cfg asks for.
func Descriptor(cfg emitter.Config) string {
	parts := make([]string, 0, len(transportKeys))
	for _, key := range transportKeys {
		v, ok := cfg[key]
		if !ok || v == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", key, v))
	}
	sort.Strings(parts)
	if len(parts) == 0 {
		return KeyOutput + "=" + DefaultOutput
	}
	return strings.Join(parts, ";")
}
