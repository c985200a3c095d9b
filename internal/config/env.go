package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Env holds process-level overrides.
type Env struct {
	Workers   int    `env:"MDIM_WORKERS"`
	Debug     bool   `env:"MDIM_DEBUG"`
	Profile   string `env:"MDIM_PROFILE"`
	OutputDir string `env:"MDIM_OUTPUT_DIR"`
}

// ParseEnv loads Env from the environment.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return e, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Apply overrides the worker count and moves relative outputs under
// OutputDir.
func (e Env) Apply(c *Config) {
	if e.Workers > 0 {
		c.Workers = e.Workers
	}
	if e.OutputDir == "" {
		return
	}
	for _, p := range []*string{&c.Image.Out, &c.Image.GIFOut, &c.Mesh.Out} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(e.OutputDir, *p)
		}
	}
}
