package sink

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/Aleph-Alpha/logpool/pkg/emitter"
)

func TestPoolSharesTransportPerDescriptor(t *testing.T) {
	dir := t.TempDir()
	shared := filepath.Join(dir, "shared.log")
	p := NewPool()

	a, err := p.Open(emitter.Config{KeyOutput: shared, "level": "debug"})
	require.NoError(t, err)
	b, err := p.Open(emitter.Config{KeyOutput: shared, "level": "error"})
	require.NoError(t, err)
	other, err := p.Open(emitter.Config{KeyOutput: filepath.Join(dir, "other.log")})
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, other)

	_, err = a.Write([]byte("from a\n"))
	require.NoError(t, err)
	_, err = b.Write([]byte("from b\n"))
	require.NoError(t, err)
	require.NoError(t, a.Close(context.Background()))
	require.NoError(t, b.Close(context.Background()))
	require.NoError(t, other.Close(context.Background()))

	data, err := os.ReadFile(shared)
	require.NoError(t, err)
	assert.Equal(t, "from a\nfrom b\n", string(data))
}

func TestPoolReplacesClosedTransport(t *testing.T) {
	p := NewPool()
	cfg := emitter.Config{KeyOutput: OutputDiscard}

	first, err := p.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, first.Close(context.Background()))

	second, err := p.Open(cfg)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.False(t, second.Closed())
}

func TestPoolAddKeepsLiveTransport(t *testing.T) {
	p := NewPool()
	cfg := emitter.Config{KeyOutput: OutputDiscard}

	live, err := p.Open(cfg)
	require.NoError(t, err)

	p.Add(New(Descriptor(cfg), zapcore.AddSync(os.Stderr), nil))
	got, err := p.Open(cfg)
	require.NoError(t, err)
	assert.Same(t, live, got)
}
