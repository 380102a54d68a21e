package logpool

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Aleph-Alpha/logpool/pkg/emitter"
	"github.com/Aleph-Alpha/logpool/pkg/hclogemitter"
	"github.com/Aleph-Alpha/logpool/pkg/zapemitter"
	"github.com/Aleph-Alpha/logpool/pkg/zerologemitter"
)

var (
	backendsMu sync.RWMutex
	backends   = map[string]emitter.Constructor{
		BackendZap:     zapemitter.New,
		BackendHclog:   hclogemitter.New,
		BackendZerolog: zerologemitter.New,
	}
)

// RegisterBackend makes a backend available under name. Registering an
// existing name replaces it.
func RegisterBackend(name string, constructor emitter.Constructor) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = constructor
}

func lookupBackend(name string) (emitter.Constructor, error) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	constructor, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return constructor, nil
}

// Option customizes a Factory.
type Option func(*factoryOptions)

type factoryOptions struct {
	diagnostics *zap.Logger
	metrics     *Metrics
	root        emitter.Emitter
}

// WithDiagnostics sets the logger that receives messages about the pool
// itself, such as loggers that failed to close. Defaults to a no-op logger.
func WithDiagnostics(l *zap.Logger) Option {
	return func(o *factoryOptions) {
		if l != nil {
			o.diagnostics = l
		}
	}
}

// WithMetrics reports factory activity to m.
func WithMetrics(m *Metrics) Option {
	return func(o *factoryOptions) {
		o.metrics = m
	}
}

// WithRootEmitter uses e as the root emitter instead of building one from the
// configured backend. Every other logger is derived from it.
func WithRootEmitter(e emitter.Emitter) Option {
	return func(o *factoryOptions) {
		o.root = e
	}
}

// Factory owns the loggers of one category tree and the diagnostic context
// they share.
type Factory struct {
	resolver      *Resolver
	mdc           *ContextStore
	diagnostics   *zap.Logger
	metrics       *Metrics
	finishTimeout time.Duration

	mu       sync.RWMutex
	loggers  map[string]*Logger
	finished bool

	finishOnce sync.Once
	finishErr  error
}

// NewFactory builds a Factory and its root logger. The root emitter is created
// eagerly so configuration and backend problems surface here.
//
// Example:
//
//	factory, err := logpool.NewFactory(logpool.PoolConfig{
//	    Root: emitter.Config{"level": "info"},
//	    Categories: map[string]emitter.Config{
//	        "db": {"level": "debug", "caller": true},
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	defer factory.Finish(context.Background())
func NewFactory(cfg PoolConfig, opts ...Option) (*Factory, error) {
	o := factoryOptions{diagnostics: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f := &Factory{
		resolver:      NewResolver(cfg.Root, cfg.Categories),
		mdc:           NewContextStore(),
		diagnostics:   o.diagnostics,
		metrics:       o.metrics,
		finishTimeout: cfg.FinishTimeout,
		loggers:       make(map[string]*Logger),
	}

	rootCfg := f.resolver.EffectiveConfig(RootCategory)
	root := o.root
	if root == nil {
		constructor, err := lookupBackend(cfg.Backend)
		if err != nil {
			return nil, err
		}
		root, err = constructor(rootCfg)
		if err != nil {
			return nil, fmt.Errorf("%w: root logger: %w", ErrBackend, err)
		}
	}

	f.loggers[RootCategory] = newLogger(f, RootCategory, rootCfg, root)
	f.metrics.loggerCreated()
	f.diagnostics.Debug("logpool factory created",
		zap.String("backend", cfg.Backend),
		zap.Int("categories", len(cfg.Categories)),
	)
	return f, nil
}

// GetLogger returns the logger of category, creating it and any missing
// ancestors on first use. Repeated calls return the same *Logger.
func (f *Factory) GetLogger(category string) (*Logger, error) {
	f.mu.RLock()
	l, ok := f.loggers[category]
	f.mu.RUnlock()
	if ok {
		return l, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.finished {
		return nil, ErrFactoryFinished
	}
	return f.getOrCreateLocked(category)
}

// getOrCreateLocked must be called with f.mu held for writing. Recursion depth
// is bounded by the number of separators in category.
func (f *Factory) getOrCreateLocked(category string) (*Logger, error) {
	if l, ok := f.loggers[category]; ok {
		return l, nil
	}

	parentCategory, err := ParentOf(category)
	if err != nil {
		return nil, err
	}
	parent, err := f.getOrCreateLocked(parentCategory)
	if err != nil {
		return nil, err
	}

	cfg := f.resolver.EffectiveConfig(category)
	child, err := parent.emitter.Child(cfg)
	if err != nil {
		f.diagnostics.Warn("failed to derive logger",
			zap.String("category", category),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: category %q: %w", ErrBackend, category, err)
	}

	l := newLogger(f, category, cfg, child)
	f.loggers[category] = l
	f.metrics.loggerCreated()
	return l, nil
}

// Loggers returns the categories with a live logger, sorted.
func (f *Factory) Loggers() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]string, 0, len(f.loggers))
	for category := range f.loggers {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

// SetMdc stores key=value in the diagnostic context shared by every logger of
// the factory.
func (f *Factory) SetMdc(key string, value any) {
	f.mdc.Set(key, value)
}

// RemoveMdc deletes key from the shared diagnostic context.
func (f *Factory) RemoveMdc(key string) {
	f.mdc.Remove(key)
}

// MDC exposes the factory's context store.
func (f *Factory) MDC() *ContextStore {
	return f.mdc
}
