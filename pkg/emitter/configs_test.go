package emitter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMergeKeepsInputsIntact(t *testing.T) {
	parent := Config{"level": "info", "caller": true, "format": "json"}
	override := Config{"level": "debug"}

	merged := parent.Merge(override)

	assert.Equal(t, Config{"level": "debug", "caller": true, "format": "json"}, merged)
	assert.Equal(t, "info", parent["level"])
	assert.Len(t, override, 1)
}

func TestConfigMergeNil(t *testing.T) {
	var c Config
	merged := c.Merge(nil)
	require.NotNil(t, merged)
	assert.Empty(t, merged)
}

func TestConfigLevel(t *testing.T) {
	lvl, err := Config{}.Level()
	require.NoError(t, err)
	assert.Equal(t, InfoLevel, lvl)

	lvl, err = Config{"level": WarnLevel}.Level()
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, lvl)

	_, err = Config{"level": 3}.Level()
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestConfigCaller(t *testing.T) {
	assert.False(t, Config{}.Caller())
	assert.True(t, Config{"caller": true}.Caller())
	assert.True(t, Config{"caller": "true"}.Caller())
	assert.False(t, Config{"caller": "maybe"}.Caller())
	assert.False(t, Config{"caller": 1}.Caller())
}

func TestConfigTypedAccessors(t *testing.T) {
	cfg := Config{
		"size":     "42",
		"count":    7,
		"interval": "250ms",
		"wait":     1500,
		"brokers":  "a:9092, b:9092,",
		"topics":   []any{"x", "y"},
		"name":     "svc",
	}

	n, err := cfg.Int("size", 0)
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	n, err = cfg.Int("count", 0)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = cfg.Int("missing", 9)
	require.NoError(t, err)
	assert.Equal(t, 9, n)

	d, err := cfg.Duration("interval", 0)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)

	d, err = cfg.Duration("wait", 0)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	list, err := cfg.Strings("brokers")
	require.NoError(t, err)
	assert.Equal(t, []string{"a:9092", "b:9092"}, list)

	list, err = cfg.Strings("topics")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, list)

	assert.Equal(t, "svc", cfg.String("name", ""))
	assert.Equal(t, "stdout", cfg.String("output", "stdout"))

	_, err = cfg.Int("name", 0)
	assert.ErrorIs(t, err, ErrInvalidOption)
	_, err = cfg.Bool("count", false)
	assert.ErrorIs(t, err, ErrInvalidOption)
}
