package mdimension

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// IterationMode selects which of z and c the sample point seeds.
type IterationMode int

const (
	// Mandelbulb: z starts at 0, c is the sample point.
	Mandelbulb IterationMode = iota
	// Julia: z starts at the sample point, c is FractalParams.JuliaConstant.
	Julia
)

func (m IterationMode) String() string {
	if m == Julia {
		return "julia"
	}
	return "mandelbulb"
}

// ParseIterationMode accepts "mandelbulb" or "julia".
func ParseIterationMode(s string) (IterationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mandelbulb", "mandelbrot":
		return Mandelbulb, nil
	case "julia":
		return Julia, nil
	}
	return Mandelbulb, fmt.Errorf("unknown iteration mode %q", s)
}

// Formula selects the power map.
type Formula int

const (
	// Hyperspherical multiplies every hyperspherical angle by the power.
	// Works for any dimension in [4,11].
	Hyperspherical Formula = iota
	// Quaternion raises z to the power as a quaternion. Dimension 4 only.
	Quaternion
)

func (f Formula) String() string {
	if f == Quaternion {
		return "quaternion"
	}
	return "hyperspherical"
}

// ParseFormula accepts "hyperspherical" or "quaternion".
func ParseFormula(s string) (Formula, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hyperspherical", "bulb":
		return Hyperspherical, nil
	case "quaternion", "quat":
		return Quaternion, nil
	}
	return Hyperspherical, fmt.Errorf("unknown formula %q", s)
}

// FractalParams configures one distance field. Origin and the three basis
// vectors embed a 3-D sample into the n-D parameter space; they need not be
// orthonormal. Empty Origin/Basis default to zero and the X, Y, Z axes.
type FractalParams struct {
	Dimension     int
	Power         float64
	MaxIterations int
	BailoutRadius float64

	Origin NDVector
	BasisX NDVector
	BasisY NDVector
	BasisZ NDVector

	Mode          IterationMode
	JuliaConstant NDVector

	Formula Formula
	// NoFastPath forces the trigonometric quaternion path even for integer
	// powers 2..8.
	NoFastPath bool

	// MaxDistance caps the returned distance; 0 means DefaultMaxDistance.
	MaxDistance float64
	// TrapWeight blends orbit trap vs escape fraction; 0 means DefaultTrapWeight.
	TrapWeight float64
}

// DefaultFractalParams returns a power-8 Mandelbulb slice in dimension n.
func DefaultFractalParams(n int) FractalParams {
	return FractalParams{
		Dimension:     n,
		Power:         DefaultPower,
		MaxIterations: DefaultMaxIterations,
		BailoutRadius: DefaultBailout,
	}
}

// SDFSample is the result of one distance-field evaluation. Distance is a
// lower bound on the distance to the surface, never negative or non-finite.
type SDFSample struct {
	Distance       float64
	OrbitTrap      float64
	IterationsUsed int
}

// powerStep replaces z (length n, |z| = r > 0) by z^power.
type powerStep func(z []float64, r, power float64)

// Field is a validated, immutable distance field. The power map is chosen
// once here, so the iteration loop carries no mode branching.
type Field struct {
	n             int
	power         float64
	maxIterations int
	bailout       float64
	maxDistance   float64
	trapWeight    float64
	julia         bool

	origin, bx, by, bz [MaxDimension]float64
	c                  [MaxDimension]float64 // Julia constant

	step     powerStep
	fastPath bool
}

// NewField validates params and prepares the kernel.
func NewField(params FractalParams) (*Field, error) {
	n := params.Dimension
	if n < MinFractalDimension || n > MaxFractalDimension {
		return nil, fmt.Errorf("%w: %d not in [%d,%d]", ErrFractalDimension, n, MinFractalDimension, MaxFractalDimension)
	}
	if !(params.Power >= 2) || !isFinite(params.Power) {
		return nil, fmt.Errorf("%w: got %g", ErrPower, params.Power)
	}
	if !(params.BailoutRadius >= 2) || !isFinite(params.BailoutRadius) {
		return nil, fmt.Errorf("%w: got %g", ErrBailout, params.BailoutRadius)
	}
	if params.MaxIterations <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrIterations, params.MaxIterations)
	}
	f := &Field{
		n:             n,
		power:         params.Power,
		maxIterations: params.MaxIterations,
		bailout:       params.BailoutRadius,
		maxDistance:   params.MaxDistance,
		trapWeight:    params.TrapWeight,
		julia:         params.Mode == Julia,
	}
	if f.maxDistance <= 0 {
		f.maxDistance = DefaultMaxDistance
	}
	if f.trapWeight <= 0 || f.trapWeight > 1 {
		f.trapWeight = DefaultTrapWeight
	}

	vecs := []struct {
		name string
		src  NDVector
		dst  *[MaxDimension]float64
		def  int // default axis, -1 for zero
	}{
		{"origin", params.Origin, &f.origin, -1},
		{"basisX", params.BasisX, &f.bx, 0},
		{"basisY", params.BasisY, &f.by, 1},
		{"basisZ", params.BasisZ, &f.bz, 2},
	}
	for _, v := range vecs {
		if len(v.src) == 0 {
			if v.def >= 0 {
				v.dst[v.def] = 1
			}
			continue
		}
		if len(v.src) != n {
			return nil, fmt.Errorf("%w: %s has %d components, dimension %d", ErrVectorLength, v.name, len(v.src), n)
		}
		if !v.src.IsFinite() {
			return nil, fmt.Errorf("%w: %s is not finite", ErrVectorLength, v.name)
		}
		copy(v.dst[:], v.src)
	}
	if f.julia {
		if len(params.JuliaConstant) != n {
			return nil, fmt.Errorf("%w: julia constant has %d components, dimension %d", ErrVectorLength, len(params.JuliaConstant), n)
		}
		copy(f.c[:], params.JuliaConstant)
	}

	switch params.Formula {
	case Hyperspherical:
		f.step = hypersphericalPow
	case Quaternion:
		if n != 4 {
			return nil, fmt.Errorf("%w: quaternion formula needs dimension 4, got %d", ErrFractalDimension, n)
		}
		if k, ok := integerPower(params.Power); ok && !params.NoFastPath {
			f.step = quaternionIntPow(k)
			f.fastPath = true
		} else {
			f.step = quaternionPolarPow
		}
	default:
		return nil, fmt.Errorf("unknown formula %d", params.Formula)
	}
	return f, nil
}

// Dim returns the fractal dimension.
func (f *Field) Dim() int { return f.n }

// FastPath reports whether the algebraic quaternion kernel is in use.
func (f *Field) FastPath() bool { return f.fastPath }

// MaxDistance returns the distance cap.
func (f *Field) MaxDistance() float64 { return f.maxDistance }

// Lift maps a 3-D raymarch sample into the n-D parameter space:
// origin + p.X·basisX + p.Y·basisY + p.Z·basisZ.
func (f *Field) Lift(p r3.Vec) NDVector {
	var out [MaxDimension]float64
	f.lift(&out, p)
	return append(NDVector(nil), out[:f.n]...)
}

func (f *Field) lift(out *[MaxDimension]float64, p r3.Vec) {
	for i := 0; i < f.n; i++ {
		out[i] = f.origin[i] + p.X*f.bx[i] + p.Y*f.by[i] + p.Z*f.bz[i]
	}
}

// Evaluate runs the power iteration for one sample. It is pure and
// allocation-free; any number of goroutines may call it concurrently.
func (f *Field) Evaluate(p r3.Vec) SDFSample {
	n := f.n
	var zArr, cArr [MaxDimension]float64
	z, c := zArr[:n], cArr[:n]

	var dAdd float64
	if f.julia {
		f.lift(&zArr, p)
		copy(c, f.c[:n])
	} else {
		f.lift(&cArr, p)
		dAdd = 1
	}

	dr := 1.0
	r := norm(z)
	planeTrap, axisTrap, shellTrap := math.Inf(1), math.Inf(1), math.Inf(1)
	iter := 0
	for iter < f.maxIterations {
		if r > f.bailout {
			break
		}
		planeTrap = math.Min(planeTrap, math.Abs(z[1]))
		axisTrap = math.Min(axisTrap, math.Abs(z[n-1]))
		shellTrap = math.Min(shellTrap, math.Abs(r-1))

		dr = f.power*math.Pow(r, f.power-1)*dr + dAdd
		if r < epsRadius {
			// degenerate zero vector: z^p is 0, continue from the constant
			copy(z, c)
		} else {
			f.step(z, r, f.power)
			for i := range z {
				z[i] += c[i]
			}
		}
		iter++
		r = norm(z)
		if !isFinite(r) || !isFinite(dr) {
			return f.escaped()
		}
	}

	d := 0.5 * math.Log(math.Max(r, epsRadius)) * r / math.Max(dr, epsDeriv)
	if !isFinite(d) {
		return f.escaped()
	}
	d = clamp(d, 0, f.maxDistance)

	trap := (clamp(planeTrap, 0, 1) + clamp(axisTrap, 0, 1) + clamp(shellTrap, 0, 1)) / 3
	if iter == 0 {
		trap = 1
	}
	frac := float64(iter) / float64(f.maxIterations)
	return SDFSample{
		Distance:       d,
		OrbitTrap:      clamp(f.trapWeight*trap+(1-f.trapWeight)*frac, 0, 1),
		IterationsUsed: iter,
	}
}

// escaped is the result for a sample whose iteration went non-finite.
func (f *Field) escaped() SDFSample {
	return SDFSample{Distance: f.maxDistance, OrbitTrap: 0, IterationsUsed: 0}
}

func norm(z []float64) float64 {
	s := 0.0
	for _, x := range z {
		s += x * x
	}
	return math.Sqrt(s)
}

// EvaluateDistanceField validates params and evaluates a single sample.
// Hot loops should build a Field once with NewField instead.
func EvaluateDistanceField(p r3.Vec, params FractalParams) (SDFSample, error) {
	f, err := NewField(params)
	if err != nil {
		return SDFSample{}, err
	}
	return f.Evaluate(p), nil
}

// SliceBasis derives FractalParams' origin and basis from a rotation and
// per-axis slice offsets: basis vectors are the images of X, Y, Z under R,
// and the origin is R applied to (0, 0, 0, slice[3], slice[4], ...).
// Offsets for axes 0..2 are ignored.
func SliceBasis(R *RotationMatrix, slice []float64) (origin, bx, by, bz NDVector) {
	n := R.Dim()
	s := make(NDVector, n)
	for i := 3; i < n && i < len(slice); i++ {
		s[i] = slice[i]
	}
	origin = make(NDVector, n)
	R.applyInto(origin, s)
	return origin, R.Column(0), R.Column(1), R.Column(2)
}
