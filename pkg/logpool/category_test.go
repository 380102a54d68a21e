package logpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/logpool/pkg/emitter"
)

func TestParentOf(t *testing.T) {
	tests := []struct {
		category string
		parent   string
	}{
		{"a", ""},
		{"a.b", "a"},
		{"a.b.c", "a.b"},
		{"http.client.retry", "http.client"},
		{"a.", "a"},
		{".a", ""},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			parent, err := ParentOf(tt.category)
			require.NoError(t, err)
			assert.Equal(t, tt.parent, parent)
		})
	}
}

func TestParentOfRoot(t *testing.T) {
	_, err := ParentOf(RootCategory)
	assert.ErrorIs(t, err, ErrRootHasNoParent)
	assert.True(t, IsInvalidArgumentError(err))
}

func TestAncestry(t *testing.T) {
	assert.Equal(t, []string{""}, Ancestry(""))
	assert.Equal(t, []string{"", "a", "a.b", "a.b.c"}, Ancestry("a.b.c"))
	assert.Equal(t, []string{"", "a", "a.", "a..b"}, Ancestry("a..b"))
}

func TestEffectiveConfigMergesAlongChain(t *testing.T) {
	r := NewResolver(
		emitter.Config{"level": "info", "caller": false, "output": "stdout"},
		map[string]emitter.Config{
			"a":     {"level": "debug"},
			"a.b.c": {"caller": true},
		},
	)

	assert.Equal(t, emitter.Config{"level": "info", "caller": false, "output": "stdout"}, r.EffectiveConfig(""))
	assert.Equal(t, emitter.Config{"level": "debug", "caller": false, "output": "stdout"}, r.EffectiveConfig("a"))
	// no entry of its own: identical to the parent
	assert.Equal(t, r.EffectiveConfig("a"), r.EffectiveConfig("a.b"))
	assert.Equal(t, emitter.Config{"level": "debug", "caller": true, "output": "stdout"}, r.EffectiveConfig("a.b.c"))
	assert.Equal(t, r.EffectiveConfig("a.b.c"), r.EffectiveConfig("a.b.c.d"))
	assert.Equal(t, r.EffectiveConfig(""), r.EffectiveConfig("z"))
}

func TestResolverDefaultsAndCopies(t *testing.T) {
	categories := map[string]emitter.Config{"x": {"level": "warn"}}
	r := NewResolver(nil, categories)
	assert.Equal(t, emitter.DefaultConfig(), r.EffectiveConfig(""))

	categories["x"]["level"] = "error"
	assert.Equal(t, "warn", r.EffectiveConfig("x")["level"])

	cfg := r.EffectiveConfig("x")
	cfg["level"] = "trace"
	assert.Equal(t, "warn", r.EffectiveConfig("x")["level"])
}

func TestResolverRootEntryInCategories(t *testing.T) {
	r := NewResolver(emitter.Config{"level": "info", "output": "stderr"}, map[string]emitter.Config{
		"": {"level": "error"},
	})
	assert.Equal(t, emitter.Config{"level": "error", "output": "stderr"}, r.EffectiveConfig("any.thing"))
}
