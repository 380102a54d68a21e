package sink

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap/zapcore"
)

// Transport is a closable write destination shared by every emitter derived
// from the one that opened it.
//
// Close is safe to call from many goroutines: the first call starts the
// shutdown, every call waits on the same completion signal. A transport with
// nothing to close (stdout, stderr) completes immediately.
type Transport struct {
	name          string
	ws            zapcore.WriteSyncer
	closer        func() error
	ignoreSyncErr bool

	closing atomic.Bool
	once    sync.Once
	done    chan struct{}
	err     error
}

// New wraps ws in a Transport. closer may be nil when there is nothing to
// release.
func New(name string, ws zapcore.WriteSyncer, closer func() error) *Transport {
	return &Transport{
		name:   name,
		ws:     ws,
		closer: closer,
		done:   make(chan struct{}),
	}
}

// Name returns the descriptor the transport was opened with.
func (t *Transport) Name() string {
	return t.name
}

// Write implements io.Writer. Writes after Close has started fail with ErrClosed.
func (t *Transport) Write(p []byte) (int, error) {
	if t.closing.Load() {
		return 0, ErrClosed
	}
	return t.ws.Write(p)
}

// Sync flushes the underlying writer.
func (t *Transport) Sync() error {
	if t.closing.Load() {
		return nil
	}
	if err := t.ws.Sync(); err != nil && !t.ignoreSyncErr {
		return err
	}
	return nil
}

// Close starts the shutdown once and waits for it to complete or for ctx to
// end. A caller that gives up on ctx does not cancel the shutdown itself.
func (t *Transport) Close(ctx context.Context) error {
	t.once.Do(func() {
		t.closing.Store(true)
		if t.closer == nil {
			close(t.done)
			return
		}
		go func() {
			t.err = t.closer()
			close(t.done)
		}()
	})

	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the transport has finished shutting down.
func (t *Transport) Done() <-chan struct{} {
	return t.done
}

// Closed reports whether Close has been requested.
func (t *Transport) Closed() bool {
	return t.closing.Load()
}
