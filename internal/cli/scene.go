package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lukaszgryglicki/mdimension/internal/config"
	"github.com/lukaszgryglicki/mdimension/internal/script"
)

// scene assembles the configuration for one command run.
func (g *globalOpts) scene(ctx context.Context) (*config.Config, error) {
	logger := loggerFromContext(ctx)
	cfg := config.Default()
	if g.config != "" {
		var err error
		if cfg, err = config.Load(g.config); err != nil {
			return nil, err
		}
	}
	g.env.Apply(cfg)
	if g.workers > 0 {
		cfg.Workers = g.workers
	}
	if g.script != "" {
		src, err := os.ReadFile(g.script)
		if err != nil {
			return nil, err
		}
		if err := script.Apply(ctx, string(src), cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", g.script, err)
		}
	}
	for _, kv := range g.sets {
		name, v, err := parseSet(kv)
		if err != nil {
			return nil, err
		}
		if err := cfg.Set(name, v); err != nil {
			return nil, fmt.Errorf("--set %s: %w", kv, err)
		}
	}
	logger.Debug("scene ready",
		"dimension", cfg.Dimension,
		"object", cfg.Object.Kind,
		"fractal", cfg.Fractal != nil,
		"planes", len(cfg.RotDeg),
	)
	return cfg, nil
}

// parseSet splits "name=value".
func parseSet(kv string) (string, float64, error) {
	name, val, ok := strings.Cut(kv, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", 0, fmt.Errorf("--set %q: want name=value", kv)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return "", 0, fmt.Errorf("--set %q: %w", kv, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", 0, fmt.Errorf("--set %q: %w", kv, config.ErrNotFinite)
	}
	return name, v, nil
}

// outputPath prefers the flag value and creates the parent directory.
func outputPath(flag, fallback string) (string, error) {
	path := flag
	if path == "" {
		path = fallback
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	return path, nil
}
