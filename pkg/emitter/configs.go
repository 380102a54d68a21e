package emitter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Well-known configuration keys understood by logpool itself. Backends define
// their own keys on top of these.
const (
	KeyLevel  = "level"
	KeyCaller = "caller"
)

var (
	// ErrUnknownLevel is returned when a level string cannot be parsed.
	ErrUnknownLevel = errors.New("emitter: unknown level")

	// ErrInvalidOption is returned when a configuration value has the wrong type.
	ErrInvalidOption = errors.New("emitter: invalid option")
)

// Config is an open key-value configuration scoped to one category.
// Values may be native Go values or strings, as produced by environment
// variables; the typed accessors accept both.
type Config map[string]any

// DefaultConfig returns the built-in minimal root configuration.
func DefaultConfig() Config {
	return Config{KeyLevel: InfoLevel.String()}
}

// Clone returns a shallow copy of c. A nil Config clones to an empty one.
func (c Config) Clone() Config {
	out := make(Config, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Merge returns a new Config holding c overlaid with override. Keys present in
// override replace keys in c; every other key of c is preserved. Neither input
// is modified.
func (c Config) Merge(override Config) Config {
	out := c.Clone()
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Level returns the configured level, defaulting to info when unset.
func (c Config) Level() (Level, error) {
	v, ok := c[KeyLevel]
	if !ok || v == nil {
		return InfoLevel, nil
	}
	switch lv := v.(type) {
	case Level:
		return lv, nil
	case string:
		return ParseLevel(lv)
	case fmt.Stringer:
		return ParseLevel(lv.String())
	}
	return InfoLevel, fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidOption, KeyLevel, v)
}

// Caller reports whether call-site capture is enabled. Anything but a true
// boolean (or its textual form) disables it.
func (c Config) Caller() bool {
	b, err := c.Bool(KeyCaller, false)
	return err == nil && b
}

// String returns the string under key or def when unset.
func (c Config) String(key, def string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Bool returns the boolean under key or def when unset.
func (c Config) Bool(key string, def bool) (bool, error) {
	v, ok := c[key]
	if !ok || v == nil {
		return def, nil
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return def, fmt.Errorf("%w: %s: %v", ErrInvalidOption, key, err)
		}
		return parsed, nil
	}
	return def, fmt.Errorf("%w: %s must be a bool, got %T", ErrInvalidOption, key, v)
}

// Int returns the integer under key or def when unset.
func (c Config) Int(key string, def int) (int, error) {
	v, ok := c[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return def, fmt.Errorf("%w: %s: %v", ErrInvalidOption, key, err)
		}
		return parsed, nil
	}
	return def, fmt.Errorf("%w: %s must be an integer, got %T", ErrInvalidOption, key, v)
}

// Duration returns the duration under key or def when unset. Strings are
// parsed with time.ParseDuration, bare integers are milliseconds.
func (c Config) Duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := c[key]
	if !ok || v == nil {
		return def, nil
	}
	switch d := v.(type) {
	case time.Duration:
		return d, nil
	case int:
		return time.Duration(d) * time.Millisecond, nil
	case int64:
		return time.Duration(d) * time.Millisecond, nil
	case float64:
		return time.Duration(d * float64(time.Millisecond)), nil
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return def, fmt.Errorf("%w: %s: %v", ErrInvalidOption, key, err)
		}
		return parsed, nil
	}
	return def, fmt.Errorf("%w: %s must be a duration, got %T", ErrInvalidOption, key, v)
}

// Strings returns the string list under key. A single string is split on commas.
func (c Config) Strings(key string) ([]string, error) {
	v, ok := c[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch s := v.(type) {
	case []string:
		return append([]string(nil), s...), nil
	case string:
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s must contain strings, got %T", ErrInvalidOption, key, item)
			}
			out = append(out, str)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s must be a list of strings, got %T", ErrInvalidOption, key, v)
}
