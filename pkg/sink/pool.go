package sink

import (
	"sync"

	"github.com/Aleph-Alpha/logpool/pkg/emitter"
)

// Pool hands out one Transport per descriptor, so every emitter of a tree that
// writes to the same destination goes through a single handle. A transport
// that has been closed is replaced on the next Open.
type Pool struct {
	mu         sync.Mutex
	transports map[string]*Transport
	opts       []Option
}

// NewPool returns an empty Pool. opts are passed to every Open.
func NewPool(opts ...Option) *Pool {
	return &Pool{
		transports: make(map[string]*Transport),
		opts:       opts,
	}
}

// Open returns the live transport described by cfg, opening it on first use.
func (p *Pool) Open(cfg emitter.Config) (*Transport, error) {
	desc := Descriptor(cfg)

	p.mu.Lock()
	defer p.mu.Unlock()

	if t, ok := p.transports[desc]; ok && !t.Closed() {
		return t, nil
	}
	t, err := Open(cfg, p.opts...)
	if err != nil {
		return nil, err
	}
	p.transports[desc] = t
	return t, nil
}

// Add registers t under its name unless a live transport already holds it.
func (p *Pool) Add(t *Transport) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cur, ok := p.transports[t.Name()]; ok && !cur.Closed() {
		return
	}
	p.transports[t.Name()] = t
}
