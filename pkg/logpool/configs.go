package logpool

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Aleph-Alpha/logpool/pkg/emitter"
	"github.com/Aleph-Alpha/logpool/pkg/sink"
	"github.com/Aleph-Alpha/logpool/pkg/zapemitter"
)

// Backend names understood by NewFactory.
const (
	BackendZap     = "zap"
	BackendHclog   = "hclog"
	BackendZerolog = "zerolog"
)

// DefaultFinishTimeout bounds Finish when the caller's context has no deadline.
const DefaultFinishTimeout = 10 * time.Second

// ErrEnvVariablesNotValid is returned by LoadEnvConfig when the environment
// cannot be parsed.
var ErrEnvVariablesNotValid = errors.New("logpool: environment variables not valid")

// PoolConfig configures a Factory.
type PoolConfig struct {
	// Backend selects the emitter implementation. Defaults to "zap".
	Backend string `yaml:"backend"`

	// Root is the configuration of the root category. When empty the built-in
	// default {level: info} is used.
	Root emitter.Config `yaml:"root"`

	// Categories holds explicit per-category overrides. Categories without an
	// entry inherit the effective configuration of their parent.
	Categories map[string]emitter.Config `yaml:"categories"`

	// FinishTimeout bounds Finish when its context carries no deadline.
	FinishTimeout time.Duration `yaml:"finish_timeout"`
}

// ApplyDefaults fills unset fields.
func (c *PoolConfig) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendZap
	}
	if len(c.Root) == 0 {
		c.Root = emitter.DefaultConfig()
	}
	if c.FinishTimeout <= 0 {
		c.FinishTimeout = DefaultFinishTimeout
	}
}

// Validate checks the levels of every entry so misconfigurations surface at
// startup rather than on the first emission of a category.
func (c *PoolConfig) Validate() error {
	if _, err := c.Root.Level(); err != nil {
		return fmt.Errorf("%w: root: %w", ErrInvalidArgument, err)
	}
	for category, cfg := range c.Categories {
		if _, err := cfg.Level(); err != nil {
			return fmt.Errorf("%w: category %q: %w", ErrInvalidArgument, category, err)
		}
	}
	if c.FinishTimeout < 0 {
		return fmt.Errorf("%w: finish timeout must not be negative", ErrInvalidArgument)
	}
	return nil
}

// EnvConfig is the environment representation of a PoolConfig.
type EnvConfig struct {
	Backend        string            `env:"LOG_BACKEND" envDefault:"zap"`
	Level          string            `env:"LOG_LEVEL" envDefault:"info"`
	Caller         bool              `env:"LOG_CALLER" envDefault:"false"`
	Format         string            `env:"LOG_FORMAT"`
	Output         string            `env:"LOG_OUTPUT" envDefault:"stdout"`
	FinishTimeout  time.Duration     `env:"LOG_FINISH_TIMEOUT" envDefault:"10s"`
	CategoryLevels map[string]string `env:"LOG_CATEGORY_LEVELS" envKeyValSeparator:"="`
}

// LoadEnvConfig builds a PoolConfig from the LOG_* environment variables.
//
//	LOG_BACKEND=zerolog LOG_LEVEL=warn LOG_CATEGORY_LEVELS=db=debug,http.client=trace
func LoadEnvConfig() (PoolConfig, error) {
	var envVars EnvConfig
	if err := env.Parse(&envVars); err != nil {
		return PoolConfig{}, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}
	return envVars.PoolConfig()
}

// PoolConfig converts the environment values.
func (e EnvConfig) PoolConfig() (PoolConfig, error) {
	root := emitter.Config{
		emitter.KeyLevel:  strings.ToLower(e.Level),
		emitter.KeyCaller: e.Caller,
		sink.KeyOutput:    e.Output,
	}
	if e.Format != "" {
		root[zapemitter.KeyFormat] = e.Format
	}

	cfg := PoolConfig{
		Backend:       strings.ToLower(e.Backend),
		Root:          root,
		FinishTimeout: e.FinishTimeout,
	}
	if len(e.CategoryLevels) > 0 {
		cfg.Categories = make(map[string]emitter.Config, len(e.CategoryLevels))
		for category, level := range e.CategoryLevels {
			cfg.Categories[category] = emitter.Config{emitter.KeyLevel: strings.ToLower(level)}
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return PoolConfig{}, fmt.Errorf("%w: %w", ErrEnvVariablesNotValid, err)
	}
	return cfg, nil
}
