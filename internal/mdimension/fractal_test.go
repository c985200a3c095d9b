package mdimension

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func randomInBall(rng *rand.Rand, radius float64) r3.Vec {
	for {
		p := r3.Vec{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1, Z: rng.Float64()*2 - 1}
		if r3.Norm(p) <= 1 {
			return r3.Scale(radius, p)
		}
	}
}

func TestNewField_Validation(t *testing.T) {
	base := DefaultFractalParams(4)
	cases := []struct {
		name string
		mod  func(p *FractalParams)
		want error
	}{
		{"dim3", func(p *FractalParams) { p.Dimension = 3 }, ErrFractalDimension},
		{"dim12", func(p *FractalParams) { p.Dimension = 12 }, ErrFractalDimension},
		{"power", func(p *FractalParams) { p.Power = 1.5 }, ErrPower},
		{"powerNaN", func(p *FractalParams) { p.Power = math.NaN() }, ErrPower},
		{"bailout", func(p *FractalParams) { p.BailoutRadius = 1 }, ErrBailout},
		{"iterations", func(p *FractalParams) { p.MaxIterations = 0 }, ErrIterations},
		{"basis", func(p *FractalParams) { p.BasisX = NDVector{1, 0, 0} }, ErrVectorLength},
		{"origin", func(p *FractalParams) { p.Origin = NDVector{0, 0, 0, math.Inf(1)} }, ErrVectorLength},
		{"julia", func(p *FractalParams) { p.Mode = Julia }, ErrVectorLength},
		{"quat5", func(p *FractalParams) { p.Dimension = 5; p.Formula = Quaternion }, ErrFractalDimension},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := base
			tc.mod(&p)
			if _, err := NewField(p); !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
	for n := MinFractalDimension; n <= MaxFractalDimension; n++ {
		if _, err := NewField(DefaultFractalParams(n)); err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
	}
}

func TestEvaluate_NonNegativeAndFinite(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	fields := make([]*Field, 0, MaxFractalDimension-MinFractalDimension+2)
	for n := MinFractalDimension; n <= MaxFractalDimension; n++ {
		p := DefaultFractalParams(n)
		R, _ := ComposeRotation(n, randomAngles(rng, n))
		slice := make([]float64, n)
		for i := 3; i < n; i++ {
			slice[i] = rng.Float64() - 0.5
		}
		p.Origin, p.BasisX, p.BasisY, p.BasisZ = SliceBasis(R, slice)
		f, err := NewField(p)
		if err != nil {
			t.Fatal(err)
		}
		fields = append(fields, f)
	}
	q := DefaultFractalParams(4)
	q.Formula = Quaternion
	q.Mode = Julia
	q.JuliaConstant = NDVector{-0.2, 0.6, 0.2, 0.2}
	q.Power = 2
	qf, err := NewField(q)
	if err != nil {
		t.Fatal(err)
	}
	fields = append(fields, qf)

	for i := 0; i < 10000; i++ {
		f := fields[i%len(fields)]
		s := f.Evaluate(randomInBall(rng, DefaultBoundingRadius))
		if !(s.Distance >= 0) || math.IsInf(s.Distance, 0) {
			t.Fatalf("sample %d (n=%d): distance %g", i, f.Dim(), s.Distance)
		}
		if s.Distance > f.MaxDistance() {
			t.Fatalf("sample %d: distance %g above cap %g", i, s.Distance, f.MaxDistance())
		}
		if s.OrbitTrap < 0 || s.OrbitTrap > 1 || math.IsNaN(s.OrbitTrap) {
			t.Fatalf("sample %d: trap %g", i, s.OrbitTrap)
		}
	}
}

func TestEvaluate_NonFiniteTreatedAsEscaped(t *testing.T) {
	p := DefaultFractalParams(4)
	p.Power = 2000
	p.MaxIterations = 50
	f, err := NewField(p)
	if err != nil {
		t.Fatal(err)
	}
	s := f.Evaluate(r3.Vec{X: 1.5})
	if s.IterationsUsed != 0 || s.Distance != f.MaxDistance() {
		t.Fatalf("got %+v, want escaped sample", s)
	}
}

// On the positive X axis every angle is 0 and the map reduces to x^p + c.
// For c = 0.3, p = 2 has no real fixed point and escapes slowly; p >= 3
// has an attracting fixed point and never escapes.
func TestEvaluate_EscapeMonotonicity(t *testing.T) {
	seed := r3.Vec{X: 0.3}
	run := func(power, bailout float64) int {
		p := DefaultFractalParams(4)
		p.Power = power
		p.BailoutRadius = bailout
		p.MaxIterations = 64
		s, err := EvaluateDistanceField(seed, p)
		if err != nil {
			t.Fatal(err)
		}
		return s.IterationsUsed
	}

	base := run(2, 4)
	if base < 10 || base >= 64 {
		t.Fatalf("seed should escape slowly at p=2: %d iterations", base)
	}
	prev := 0
	for _, pw := range []float64{2, 3, 4, 8} {
		it := run(pw, 4)
		if it < prev {
			t.Fatalf("power %g: iterations %d < %d", pw, it, prev)
		}
		prev = it
	}
	if prev != 64 {
		t.Fatalf("p=8 should stay bounded, got %d", prev)
	}
	prev = 0
	for _, b := range []float64{2, 4, 8, 16} {
		it := run(2, b)
		if it < prev {
			t.Fatalf("bailout %g: iterations %d < %d", b, it, prev)
		}
		prev = it
	}
}

func TestEvaluate_JuliaMode(t *testing.T) {
	p := DefaultFractalParams(5)
	p.Mode = Julia
	p.Power = 2
	p.JuliaConstant = NewNDVector(5)
	f, err := NewField(p)
	if err != nil {
		t.Fatal(err)
	}
	// z -> z^2 with c = 0: |z|<1 shrinks, |z|>1 escapes
	if s := f.Evaluate(r3.Vec{X: 0.5}); s.IterationsUsed != p.MaxIterations || s.Distance != 0 {
		t.Fatalf("inside: %+v", s)
	}
	out := f.Evaluate(r3.Vec{X: 1.5})
	if out.IterationsUsed >= p.MaxIterations || out.Distance <= 0 {
		t.Fatalf("outside: %+v", out)
	}
}

func TestEvaluate_InsideSetIsZero(t *testing.T) {
	for n := MinFractalDimension; n <= MaxFractalDimension; n++ {
		s, err := EvaluateDistanceField(r3.Vec{}, DefaultFractalParams(n))
		if err != nil {
			t.Fatal(err)
		}
		if s.Distance != 0 || s.IterationsUsed != DefaultMaxIterations {
			t.Fatalf("n=%d origin: %+v", n, s)
		}
	}
}

func TestEvaluate_FarPointIsCapped(t *testing.T) {
	p := DefaultFractalParams(6)
	p.MaxDistance = 0.25
	s, err := EvaluateDistanceField(r3.Vec{X: 10, Y: 10, Z: 10}, p)
	if err != nil {
		t.Fatal(err)
	}
	// one step lifts z to c, which is already past the bailout
	if s.Distance != 0.25 || s.IterationsUsed != 1 {
		t.Fatalf("got %+v", s)
	}
}

func TestField_LiftAffineBasis(t *testing.T) {
	p := DefaultFractalParams(4)
	p.Origin = NDVector{0, 0, 0, 0.5}
	p.BasisX = NDVector{2, 0, 0, 1}
	p.BasisY = NDVector{0, 1, 1, 0}
	f, err := NewField(p)
	if err != nil {
		t.Fatal(err)
	}
	got := f.Lift(r3.Vec{X: 1, Y: 2, Z: 3})
	// origin + 1*(2,0,0,1) + 2*(0,1,1,0) + 3*(0,0,1,0)
	if !vecAlmostEq(got, []float64{2, 2, 5, 1.5}, 1e-15) {
		t.Fatalf("got %v", got)
	}
}

func TestField_DeterministicAcrossGoroutines(t *testing.T) {
	f, err := NewField(DefaultFractalParams(7))
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(9))
	pts := make([]r3.Vec, 256)
	want := make([]SDFSample, len(pts))
	for i := range pts {
		pts[i] = randomInBall(rng, 1.5)
		want[i] = f.Evaluate(pts[i])
	}
	var wg sync.WaitGroup
	errs := make(chan int, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, p := range pts {
				if f.Evaluate(p) != want[i] {
					errs <- i
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for i := range errs {
		t.Fatalf("sample %d differs between goroutines", i)
	}
}

func TestSliceBasis(t *testing.T) {
	R, _ := Identity(5)
	o, bx, by, bz := SliceBasis(R, []float64{9, 9, 9, 0.3, 0.4})
	if !vecAlmostEq(o, []float64{0, 0, 0, 0.3, 0.4}, 0) {
		t.Fatalf("origin %v", o)
	}
	if !vecAlmostEq(bx, Axis(5, 0), 0) || !vecAlmostEq(by, Axis(5, 1), 0) || !vecAlmostEq(bz, Axis(5, 2), 0) {
		t.Fatalf("basis %v %v %v", bx, by, bz)
	}
	// XW rotation swings the W slice offset into X
	R, _ = ComposeRotation(4, RotationAngles{{0, 3}: math.Pi / 2})
	o, _, _, _ = SliceBasis(R, []float64{0, 0, 0, 1})
	if !vecAlmostEq(o, []float64{-1, 0, 0, 0}, 1e-12) {
		t.Fatalf("rotated origin %v", o)
	}
}

func TestParseModes(t *testing.T) {
	if m, err := ParseIterationMode("Julia"); err != nil || m != Julia {
		t.Fatalf("julia: %v %v", m, err)
	}
	if f, err := ParseFormula("quat"); err != nil || f != Quaternion {
		t.Fatalf("quat: %v %v", f, err)
	}
	if _, err := ParseFormula("complex"); err == nil {
		t.Fatal("expected error")
	}
	if Julia.String() != "julia" || Hyperspherical.String() != "hyperspherical" {
		t.Fatal("names")
	}
}
