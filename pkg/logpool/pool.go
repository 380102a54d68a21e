package logpool

import (
	"context"
	"sync"
)

var (
	poolMu  sync.RWMutex
	current *Factory
)

// Initialize creates the process-wide Factory. It fails with
// ErrAlreadyInitialized while a previous one has not been shut down.
func Initialize(cfg PoolConfig, opts ...Option) error {
	poolMu.Lock()
	defer poolMu.Unlock()

	if current != nil {
		return ErrAlreadyInitialized
	}
	f, err := NewFactory(cfg, opts...)
	if err != nil {
		return err
	}
	current = f
	return nil
}

// Default returns the process-wide Factory.
func Default() (*Factory, error) {
	poolMu.RLock()
	defer poolMu.RUnlock()

	if current == nil {
		return nil, ErrNotInitialized
	}
	return current, nil
}

// GetLogger returns the logger of category from the process-wide Factory.
func GetLogger(category string) (*Logger, error) {
	f, err := Default()
	if err != nil {
		return nil, err
	}
	return f.GetLogger(category)
}

// SetMdc sets key in the diagnostic context of the process-wide Factory.
func SetMdc(key string, value any) error {
	f, err := Default()
	if err != nil {
		return err
	}
	f.SetMdc(key, value)
	return nil
}

// RemoveMdc deletes key from the diagnostic context of the process-wide Factory.
func RemoveMdc(key string) error {
	f, err := Default()
	if err != nil {
		return err
	}
	f.RemoveMdc(key)
	return nil
}

// Shutdown finishes the process-wide Factory and releases it, after which
// Initialize may be called again.
func Shutdown(ctx context.Context) error {
	poolMu.Lock()
	f := current
	current = nil
	poolMu.Unlock()

	if f == nil {
		return ErrNotInitialized
	}
	return f.Finish(ctx)
}
