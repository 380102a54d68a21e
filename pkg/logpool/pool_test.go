package logpool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/logpool/pkg/emitter"
	"github.com/Aleph-Alpha/logpool/pkg/sink"
)

func TestPoolBeforeInitialize(t *testing.T) {
	_, err := Default()
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.True(t, IsNotInitializedError(err))

	_, err = GetLogger("x")
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, SetMdc("k", "v"), ErrNotInitialized)
	assert.ErrorIs(t, RemoveMdc("k"), ErrNotInitialized)
	assert.ErrorIs(t, Shutdown(context.Background()), ErrNotInitialized)
}

func TestPoolLifecycle(t *testing.T) {
	cfg := PoolConfig{Root: emitter.Config{"level": "debug", sink.KeyOutput: sink.OutputDiscard}}

	require.NoError(t, Initialize(cfg))
	t.Cleanup(func() { _ = Shutdown(context.Background()) })

	assert.ErrorIs(t, Initialize(cfg), ErrAlreadyInitialized)

	l, err := GetLogger("job.runner")
	require.NoError(t, err)
	again, err := GetLogger("job.runner")
	require.NoError(t, err)
	assert.Same(t, l, again)

	require.NoError(t, SetMdc("job", 7))
	f, err := Default()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"job": 7}, f.MDC().Snapshot())
	require.NoError(t, RemoveMdc("job"))
	assert.Equal(t, 0, f.MDC().Len())

	require.NoError(t, Shutdown(context.Background()))
	assert.True(t, f.Finished())

	_, err = GetLogger("job.runner")
	assert.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, Initialize(cfg))
	next, err := Default()
	require.NoError(t, err)
	assert.NotSame(t, f, next)
}

func TestPoolInitializeFailureLeavesPoolEmpty(t *testing.T) {
	err := Initialize(PoolConfig{Backend: "nope"})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Default()
	assert.ErrorIs(t, err, ErrNotInitialized)
}
