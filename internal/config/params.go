package config

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lukaszgryglicki/mdimension/internal/mdimension"
)

var (
	// ErrUnknownParam is returned by Get/Set for names they do not know.
	ErrUnknownParam = errors.New("unknown parameter")
	// ErrNotFinite is returned for NaN or infinite numbers.
	ErrNotFinite = errors.New("value is not finite")
)

// Upper bounds for integer parameters.
const (
	MaxImageSide     = 16384
	MaxIterationsCap = 1 << 20
	MaxStepsCap      = 1 << 24
)

type scalar struct {
	get func(*Config) float64
	set func(*Config, float64) error
}

// EnsureFractal turns the distance field on with default parameters when
// the scene has none, and returns it.
func (c *Config) EnsureFractal() *FractalCfg {
	if c.Fractal == nil {
		c.Fractal = &FractalCfg{}
		c.Fractal.applyDefaults()
	}
	return c.Fractal
}

func fractalGet(f func(*FractalCfg) float64) func(*Config) float64 {
	return func(c *Config) float64 {
		if c.Fractal == nil {
			return 0
		}
		return f(c.Fractal)
	}
}

// intIn converts v to an int within [lo,hi].
func intIn(name string, v float64, lo, hi int) (int, error) {
	if !(v >= float64(lo) && v <= float64(hi)) {
		return 0, fmt.Errorf("%s must be in [%d,%d], got %g", name, lo, hi, v)
	}
	return int(v), nil
}

func positive(name string, v float64) error {
	if !(v > 0) {
		return fmt.Errorf("%s must be > 0, got %g", name, v)
	}
	return nil
}

var scalars = map[string]scalar{
	"dimension": {
		get: func(c *Config) float64 { return float64(c.Dimension) },
		set: func(c *Config, v float64) error {
			n := int(v)
			if float64(n) != v || n < mdimension.MinDimension || n > mdimension.MaxDimension {
				return fmt.Errorf("%w: %g", mdimension.ErrDimension, v)
			}
			c.Dimension = n
			return nil
		},
	},
	"distance": {
		get: func(c *Config) float64 { return c.Projection.Distance },
		set: func(c *Config, v float64) error {
			if err := positive("distance", v); err != nil {
				return err
			}
			c.Projection.Distance = v
			return nil
		},
	},
	"power": {
		get: fractalGet(func(f *FractalCfg) float64 { return f.Power }),
		set: func(c *Config, v float64) error {
			if !(v >= 2) {
				return fmt.Errorf("%w: got %g", mdimension.ErrPower, v)
			}
			c.EnsureFractal().Power = v
			return nil
		},
	},
	"iterations": {
		get: fractalGet(func(f *FractalCfg) float64 { return float64(f.MaxIterations) }),
		set: func(c *Config, v float64) error {
			n, err := intIn("iterations", v, 1, MaxIterationsCap)
			if err != nil {
				return fmt.Errorf("%w: %v", mdimension.ErrIterations, err)
			}
			c.EnsureFractal().MaxIterations = n
			return nil
		},
	},
	"bailout": {
		get: fractalGet(func(f *FractalCfg) float64 { return f.Bailout }),
		set: func(c *Config, v float64) error {
			if !(v >= 2) {
				return fmt.Errorf("%w: got %g", mdimension.ErrBailout, v)
			}
			c.EnsureFractal().Bailout = v
			return nil
		},
	},
	"trapWeight": {
		get: fractalGet(func(f *FractalCfg) float64 { return f.TrapWeight }),
		set: func(c *Config, v float64) error {
			if v < 0 || v > 1 {
				return fmt.Errorf("trapWeight must be in [0,1], got %g", v)
			}
			c.EnsureFractal().TrapWeight = v
			return nil
		},
	},
	"fov": {
		get: func(c *Config) float64 { return c.Camera.FOV },
		set: func(c *Config, v float64) error {
			if !(v > 0 && v < 180) {
				return fmt.Errorf("fov must be in (0,180), got %g", v)
			}
			c.Camera.FOV = v
			return nil
		},
	},
	"width": {
		get: func(c *Config) float64 { return float64(c.Image.Width) },
		set: func(c *Config, v float64) error {
			n, err := intIn("width", v, 1, MaxImageSide)
			if err != nil {
				return err
			}
			c.Image.Width = n
			return nil
		},
	},
	"height": {
		get: func(c *Config) float64 { return float64(c.Image.Height) },
		set: func(c *Config, v float64) error {
			n, err := intIn("height", v, 1, MaxImageSide)
			if err != nil {
				return err
			}
			c.Image.Height = n
			return nil
		},
	},
	"maxSteps": {
		get: func(c *Config) float64 { return float64(c.March.MaxSteps) },
		set: func(c *Config, v float64) error {
			n, err := intIn("maxSteps", v, 1, MaxStepsCap)
			if err != nil {
				return err
			}
			c.March.MaxSteps = n
			return nil
		},
	},
	"horizonStepScale": {
		get: func(c *Config) float64 { return c.March.HorizonStepScale },
		set: func(c *Config, v float64) error {
			if !(v > 0 && v <= 1) {
				return fmt.Errorf("horizonStepScale must be in (0,1], got %g", v)
			}
			c.March.HorizonStepScale = v
			return nil
		},
	},
}

// Params lists the plain scalar names. Indexed names are also accepted:
// "rot.XW" (degrees), "slice.3", "scale.0" and "julia.2".
func Params() []string {
	out := make([]string, 0, len(scalars))
	for k := range scalars {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Get returns one scalar parameter.
func (c *Config) Get(name string) (float64, error) {
	if s, ok := scalars[name]; ok {
		return s.get(c), nil
	}
	kind, key, ok := strings.Cut(name, ".")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	if kind == "rot" {
		p, err := mdimension.ParsePlane(key)
		if err != nil {
			return 0, err
		}
		return c.rotDeg(p), nil
	}
	if kind == "julia" && c.Fractal == nil {
		return 0, nil
	}
	list, i, err := c.indexed(kind, key)
	if err != nil {
		return 0, err
	}
	if i < len(*list) {
		return (*list)[i], nil
	}
	return 0, nil
}

// Set assigns one scalar parameter after range-checking it.
func (c *Config) Set(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s = %g", ErrNotFinite, name, v)
	}
	if s, ok := scalars[name]; ok {
		return s.set(c, v)
	}
	kind, key, ok := strings.Cut(name, ".")
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	if kind == "rot" {
		p, err := mdimension.ParsePlane(key)
		if err != nil {
			return err
		}
		if p.J >= c.Dimension {
			return fmt.Errorf("%w: %v in dimension %d", mdimension.ErrPlane, p, c.Dimension)
		}
		for k := range c.RotDeg {
			// drop aliases such as "wx" for the same plane
			if q, err := mdimension.ParsePlane(k); err == nil && q == p {
				delete(c.RotDeg, k)
			}
		}
		if c.RotDeg == nil {
			c.RotDeg = make(map[string]float64)
		}
		c.RotDeg[p.String()] = v
		return nil
	}
	list, i, err := c.indexed(kind, key)
	if err != nil {
		return err
	}
	for len(*list) <= i {
		*list = append(*list, 0)
	}
	(*list)[i] = v
	return nil
}

func (c *Config) rotDeg(p mdimension.Plane) float64 {
	sum := 0.0
	for k, v := range c.RotDeg {
		if q, err := mdimension.ParsePlane(k); err == nil && q == p {
			sum += v
		}
	}
	return sum
}

func (c *Config) indexed(kind, key string) (*[]float64, int, error) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= c.Dimension {
		return nil, 0, fmt.Errorf("%w: index %q in dimension %d", mdimension.ErrVectorLength, key, c.Dimension)
	}
	switch kind {
	case "slice":
		return &c.Slice, i, nil
	case "scale":
		return &c.Scales, i, nil
	case "julia":
		f := c.EnsureFractal()
		return &f.Julia, i, nil
	}
	return nil, 0, fmt.Errorf("%w: %q", ErrUnknownParam, kind+"."+key)
}
