package zapemitter

import (
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Aleph-Alpha/logpool/pkg/emitter"
)

// zapTraceLevel sits one step below zap's debug level; zap has no trace.
const zapTraceLevel = zapcore.DebugLevel - 1

// zapLevel maps a logpool level onto zap's scale. Both scales place info at 0.
func zapLevel(l emitter.Level) zapcore.Level {
	if l <= emitter.TraceLevel {
		return zapTraceLevel
	}
	return zapcore.Level(l)
}

// encodeLevel writes lowercase labels and knows about the trace level.
func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == zapTraceLevel {
		enc.AppendString(emitter.TraceLevel.String())
		return
	}
	zapcore.LowercaseLevelEncoder(l, enc)
}

// toZapFields converts a record into zap fields, sorted by key so the output
// is stable regardless of map iteration order.
func toZapFields(fields map[string]any) []zapcore.Field {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	zapFields := make([]zapcore.Field, 0, len(keys))
	for _, k := range keys {
		zapFields = append(zapFields, zap.Any(k, fields[k]))
	}
	return zapFields
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) {
	return len(p), nil
}
