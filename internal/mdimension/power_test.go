package mdimension

import (
	"math"
	"math/rand"
	"testing"
)

// The algebraic fast path is compared with the polar quaternion path rather
// than the hyperspherical map: quaternion powers and hyperspherical angle
// scaling are different maps in 4-D and do not agree.
func TestQuaternionFastPath_MatchesTrigPath(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	for k := 2; k <= 8; k++ {
		p := DefaultFractalParams(4)
		p.Formula = Quaternion
		p.Power = float64(k)
		p.MaxIterations = 10
		fast, err := NewField(p)
		if err != nil {
			t.Fatal(err)
		}
		p.NoFastPath = true
		slow, err := NewField(p)
		if err != nil {
			t.Fatal(err)
		}
		if !fast.FastPath() || slow.FastPath() {
			t.Fatalf("k=%d: fast path flags %v %v", k, fast.FastPath(), slow.FastPath())
		}
		for i := 0; i < 1000; i++ {
			pt := randomInBall(rng, 1.5)
			a, b := fast.Evaluate(pt), slow.Evaluate(pt)
			if !almostEq(a.Distance, b.Distance, 1e-4) {
				t.Fatalf("k=%d sample %v: fast %.9g trig %.9g", k, pt, a.Distance, b.Distance)
			}
		}
	}
}

func TestQuaternionIntPow_MatchesPolar(t *testing.T) {
	rng := rand.New(rand.NewSource(77))
	for k := 2; k <= 8; k++ {
		step := quaternionIntPow(k)
		for i := 0; i < 200; i++ {
			z := []float64{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
			w := append([]float64(nil), z...)
			r := norm(z)
			step(z, r, float64(k))
			quaternionPolarPow(w, r, float64(k))
			scale := math.Pow(r, float64(k))
			for j := range z {
				if !almostEq(z[j], w[j], 1e-9*math.Max(scale, 1)) {
					t.Fatalf("k=%d: algebraic %v polar %v", k, z, w)
				}
			}
		}
	}
}

func TestQuaternionPolarPow_RealAxis(t *testing.T) {
	z := []float64{-2, 0, 0, 0}
	quaternionPolarPow(z, 2, 2)
	if !almostEq(z[0], 4, 1e-12) || !almostEq(z[1], 0, 1e-12) {
		t.Fatalf("(-2)^2 = %v", z)
	}
}

func TestIntegerPower(t *testing.T) {
	for _, tc := range []struct {
		p  float64
		k  int
		ok bool
	}{
		{2, 2, true}, {8, 8, true}, {9, 0, false}, {2.5, 0, false}, {1, 0, false},
	} {
		k, ok := integerPower(tc.p)
		if k != tc.k || ok != tc.ok {
			t.Fatalf("integerPower(%g) = %d,%v", tc.p, k, ok)
		}
	}
}

func TestHypersphericalPow_Square2D(t *testing.T) {
	// the last two coordinates behave like a complex number
	z := []float64{0, 0, 0, 1}
	hypersphericalPow(z, 1, 2)
	// (0,0,0,1): angles (pi/2, pi/2, pi/2) -> doubled -> (pi, pi, pi)
	// x = cos(pi) = -1, rest carry sin(pi) = 0
	if !vecAlmostEq(z, []float64{-1, 0, 0, 0}, 1e-12) {
		t.Fatalf("got %v", z)
	}
	rng := rand.New(rand.NewSource(8))
	for n := MinFractalDimension; n <= MaxFractalDimension; n++ {
		for i := 0; i < 50; i++ {
			z := make([]float64, n)
			for j := range z {
				z[j] = rng.NormFloat64()
			}
			r := norm(z)
			hypersphericalPow(z, r, 3)
			if !almostEq(norm(z), r*r*r, 1e-9*r*r*r) {
				t.Fatalf("n=%d: |z^3|=%g want %g", n, norm(z), r*r*r)
			}
		}
	}
}
