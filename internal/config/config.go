package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gkquad/internal/quad"
)

const (
	DefaultIntegrand = "sin"
	DefaultTolerance = 1e-10
	DefaultWorkers   = 1
)

type Config struct {
	Integrand    string             `yaml:"integrand"`
	Interval     *IntervalConfig    `yaml:"interval,omitempty"`
	Tolerance    float64            `yaml:"tolerance"`
	Params       map[string]float64 `yaml:"params,omitempty"`
	Limits       LimitsConfig       `yaml:"limits"`
	Workers      int                `yaml:"workers"`
	RecordLeaves bool               `yaml:"record_leaves"`
}

// IntervalConfig overrides the integrand's default interval when set.
type IntervalConfig struct {
	Lower float64 `yaml:"lower"`
	Upper float64 `yaml:"upper"`
}

type LimitsConfig struct {
	MaxDepth int     `yaml:"max_depth"`
	MaxEvals int64   `yaml:"max_evals"`
	MinWidth float64 `yaml:"min_width"`
	ZeroTol  float64 `yaml:"zero_tol"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrand: DefaultIntegrand,
		Tolerance: DefaultTolerance,
		Limits: LimitsConfig{
			MaxDepth: quad.DefaultMaxDepth,
			MaxEvals: quad.DefaultMaxEvals,
			ZeroTol:  quad.DefaultZeroTol,
		},
		Workers:      DefaultWorkers,
		RecordLeaves: true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Integrand == "" {
		return fmt.Errorf("integrand must be set")
	}
	if math.IsNaN(c.Tolerance) || c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", c.Tolerance)
	}
	if c.Interval != nil {
		if math.IsNaN(c.Interval.Lower) || math.IsInf(c.Interval.Lower, 0) ||
			math.IsNaN(c.Interval.Upper) || math.IsInf(c.Interval.Upper, 0) {
			return fmt.Errorf("interval bounds must be finite")
		}
	}
	if c.Limits.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive, got %d", c.Limits.MaxDepth)
	}
	if c.Limits.MaxEvals <= 0 {
		return fmt.Errorf("max_evals must be positive, got %d", c.Limits.MaxEvals)
	}
	if c.Limits.MinWidth < 0 || c.Limits.ZeroTol < 0 {
		return fmt.Errorf("min_width and zero_tol must be non-negative")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// Bounds returns the configured interval, falling back to lower and upper.
func (c *Config) Bounds(lower, upper float64) (float64, float64) {
	if c.Interval == nil {
		return lower, upper
	}
	return c.Interval.Lower, c.Interval.Upper
}

func (c *Config) QuadConfig() quad.Config {
	return quad.Config{
		MaxDepth:     c.Limits.MaxDepth,
		MinWidth:     c.Limits.MinWidth,
		MaxEvals:     c.Limits.MaxEvals,
		ZeroTol:      c.Limits.ZeroTol,
		Workers:      c.Workers,
		RecordLeaves: c.RecordLeaves,
	}
}

func (c *Config) Clone() *Config {
	cp := *c
	if c.Interval != nil {
		iv := *c.Interval
		cp.Interval = &iv
	}
	if c.Params != nil {
		cp.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			cp.Params[k] = v
		}
	}
	return &cp
}
