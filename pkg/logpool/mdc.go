package logpool

import (
	"context"
	"sync"
)

// ContextStore is the mapped diagnostic context shared by every logger of a
// Factory. Readers get copies, so a snapshot never changes after it is taken.
type ContextStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewContextStore returns an empty store.
func NewContextStore() *ContextStore {
	return &ContextStore{values: make(map[string]any)}
}

// Set stores value under key. A nil value removes the key.
func (s *ContextStore) Set(key string, value any) {
	if value == nil {
		s.Remove(key)
		return
	}
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
}

// Remove deletes key. Removing a missing key is a no-op.
func (s *ContextStore) Remove(key string) {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current entries. It is never nil.
func (s *ContextStore) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Len returns the number of entries.
func (s *ContextStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

type mdcKey struct{}

// ContextWithMDC returns a child of ctx carrying key=value on top of any
// entries ctx already carries. Loggers bound with WithContext merge these
// entries over the Factory store, so request-scoped values do not leak into
// concurrent requests. A nil value hides the key for that context.
func ContextWithMDC(ctx context.Context, key string, value any) context.Context {
	prev := MDCFromContext(ctx)
	next := make(map[string]any, len(prev)+1)
	for k, v := range prev {
		next[k] = v
	}
	next[key] = value
	return context.WithValue(ctx, mdcKey{}, next)
}

// MDCFromContext returns the entries attached with ContextWithMDC. The map must
// not be modified.
func MDCFromContext(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	m, _ := ctx.Value(mdcKey{}).(map[string]any)
	return m
}
