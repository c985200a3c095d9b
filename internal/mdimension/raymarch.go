package mdimension

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DistanceField is anything the raymarcher can sphere-trace. *Field
// satisfies it; so does any analytic primitive.
type DistanceField interface {
	Evaluate(p r3.Vec) SDFSample
}

// MarchConfig tunes sphere tracing. Every field is a tuning default, not a
// behavioural guarantee.
type MarchConfig struct {
	MaxSteps       int
	SurfaceEpsilon float64
	MinStep        float64
	MaxStep        float64

	BoundingCenter r3.Vec
	BoundingRadius float64

	// Inside |‖p‖-HorizonRadius| < HorizonBand the step is scaled by
	// HorizonStepScale. A zero band disables the slowdown.
	HorizonRadius    float64
	HorizonBand      float64
	HorizonStepScale float64

	NormalEpsilon   float64
	NormalThreshold float64
}

// DefaultMarchConfig returns the defaults used by the renderer.
func DefaultMarchConfig() MarchConfig {
	return MarchConfig{
		MaxSteps:         DefaultMaxSteps,
		SurfaceEpsilon:   DefaultSurfaceEpsilon,
		MinStep:          DefaultMinStep,
		MaxStep:          DefaultMaxStep,
		BoundingRadius:   DefaultBoundingRadius,
		HorizonRadius:    DefaultHorizonRadius,
		HorizonBand:      DefaultHorizonBand,
		HorizonStepScale: DefaultHorizonStepScale,
		NormalEpsilon:    DefaultNormalEpsilon,
		NormalThreshold:  DefaultNormalThreshold,
	}
}

// Validate reports the first out-of-range field.
func (c MarchConfig) Validate() error {
	switch {
	case c.MaxSteps <= 0:
		return fmt.Errorf("%w: max steps %d", ErrMarchConfig, c.MaxSteps)
	case !(c.SurfaceEpsilon > 0):
		return fmt.Errorf("%w: surface epsilon %g", ErrMarchConfig, c.SurfaceEpsilon)
	case !(c.MinStep > 0) || !(c.MaxStep >= c.MinStep):
		return fmt.Errorf("%w: step range [%g,%g]", ErrMarchConfig, c.MinStep, c.MaxStep)
	case !(c.BoundingRadius > 0) || !isFinite(c.BoundingRadius):
		return fmt.Errorf("%w: bounding radius %g", ErrMarchConfig, c.BoundingRadius)
	case c.HorizonBand < 0 || c.HorizonStepScale < 0 || c.HorizonStepScale > 1:
		return fmt.Errorf("%w: horizon band %g scale %g", ErrMarchConfig, c.HorizonBand, c.HorizonStepScale)
	case !(c.NormalEpsilon > 0):
		return fmt.Errorf("%w: normal epsilon %g", ErrMarchConfig, c.NormalEpsilon)
	}
	return nil
}

// Outcome is the terminal state of one ray.
type Outcome uint8

const (
	Hit        Outcome = iota
	MissBounds         // ray never touches the bounding sphere
	MissFar            // marched past the far side of the bounding sphere
	MissSteps          // step budget exhausted
)

var outcomeNames = [...]string{"hit", "miss_bounds", "miss_far", "miss_steps"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", o)
}

// HitResult describes a marched ray. Position, Normal, OrbitTrap and
// Iterations are only meaningful when Outcome == Hit.
type HitResult struct {
	Outcome    Outcome
	T          float64
	Position   r3.Vec
	Normal     r3.Vec
	OrbitTrap  float64
	Iterations int
	Steps      int
}

// Hit reports whether the ray reached the surface.
func (h HitResult) Hit() bool { return h.Outcome == Hit }

// BoundingSphere returns the entry and exit parameters of the ray against
// the sphere, or ok=false when it misses. dir need not be unit length.
func BoundingSphere(origin, dir, center r3.Vec, radius float64) (tNear, tFar float64, ok bool) {
	oc := r3.Sub(origin, center)
	a := r3.Dot(dir, dir)
	if a == 0 {
		return 0, 0, false
	}
	b := 2 * r3.Dot(oc, dir)
	c := r3.Dot(oc, oc) - radius*radius
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	inv2a := 1 / (2 * a)
	t0 := (-b - sq) * inv2a
	t1 := (-b + sq) * inv2a
	if t1 < 0 {
		return 0, 0, false
	}
	return t0, t1, true
}

// March sphere-traces field along origin + t·dir. dir is normalized here.
// The call is pure; cfg must already be valid.
func March(field DistanceField, origin, dir r3.Vec, cfg MarchConfig) HitResult {
	if r3.Norm(dir) < epsRadius {
		return HitResult{Outcome: MissBounds}
	}
	dir = r3.Unit(dir)
	tNear, tFar, ok := BoundingSphere(origin, dir, cfg.BoundingCenter, cfg.BoundingRadius)
	if !ok {
		return HitResult{Outcome: MissBounds}
	}
	t := math.Max(tNear, 0)
	for step := 0; step < cfg.MaxSteps; step++ {
		p := r3.Add(origin, r3.Scale(t, dir))
		s := field.Evaluate(p)
		if s.Distance < cfg.SurfaceEpsilon {
			return HitResult{
				Outcome:    Hit,
				T:          t,
				Position:   p,
				Normal:     Normal(field, p, cfg.NormalEpsilon, cfg.NormalThreshold),
				OrbitTrap:  s.OrbitTrap,
				Iterations: s.IterationsUsed,
				Steps:      step + 1,
			}
		}
		t += clamp(s.Distance*cfg.stepScale(p), cfg.MinStep, cfg.MaxStep)
		if t > tFar {
			return HitResult{Outcome: MissFar, T: t, Steps: step + 1}
		}
	}
	return HitResult{Outcome: MissSteps, T: t, Steps: cfg.MaxSteps}
}

func (c MarchConfig) stepScale(p r3.Vec) float64 {
	if c.HorizonBand <= 0 {
		return 1
	}
	if math.Abs(r3.Norm(r3.Sub(p, c.BoundingCenter))-c.HorizonRadius) < c.HorizonBand {
		return c.HorizonStepScale
	}
	return 1
}

// tetrahedral sampling offsets
var tetra = [4]r3.Vec{
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: -1, Z: 1},
	{X: -1, Y: 1, Z: -1},
	{X: 1, Y: 1, Z: 1},
}

// Up is the normal reported where the gradient vanishes.
var Up = r3.Vec{Y: 1}

// Normal estimates the unit surface normal at p from four tetrahedral
// samples. Gradients shorter than threshold return Up.
func Normal(field DistanceField, p r3.Vec, eps, threshold float64) r3.Vec {
	var g r3.Vec
	for _, k := range tetra {
		d := field.Evaluate(r3.Add(p, r3.Scale(eps, k))).Distance
		g = r3.Add(g, r3.Scale(d, k))
	}
	l := r3.Norm(g)
	if !(l > threshold) || !isFinite(l) {
		return Up
	}
	return r3.Scale(1/l, g)
}

// AmbientOcclusion samples the field at `samples` increasing offsets along n
// and returns an occlusion multiplier in [0,1] (1 = fully open).
func AmbientOcclusion(field DistanceField, p, n r3.Vec, samples int, step float64) float64 {
	if samples <= 0 || step <= 0 {
		return 1
	}
	occ, w := 0.0, 1.0
	for i := 1; i <= samples; i++ {
		h := step * float64(i)
		d := field.Evaluate(r3.Add(p, r3.Scale(h, n))).Distance
		occ += w * math.Max(h-d, 0)
		w *= 0.5
	}
	return clamp(1-occ/step, 0, 1)
}

// Raymarch builds the fractal field and marches one ray through it.
// Renderers marching many rays should build the Field once and call March.
func Raymarch(origin, dir r3.Vec, params FractalParams, cfg MarchConfig) (HitResult, error) {
	if err := cfg.Validate(); err != nil {
		return HitResult{}, err
	}
	f, err := NewField(params)
	if err != nil {
		return HitResult{}, err
	}
	return March(f, origin, dir, cfg), nil
}
