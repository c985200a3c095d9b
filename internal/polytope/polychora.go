package polytope

import (
	"fmt"
	"math"
)

var phi = (1 + math.Sqrt(5)) / 2

// signed coordinate sets; a permutation of each entry is taken under every
// sign combination of its non-zero components
type coordSet struct {
	base [4]float64
	even bool // even permutations only
}

// TwentyFourCell returns the 24-cell (the permutations of (±1,±1,0,0))
// scaled to the given edge length. Dimension 4 only.
func TwentyFourCell(n int, size float64) (*Polytope, error) {
	return polychoron("24-cell", n, size/math.Sqrt2, []coordSet{
		{base: [4]float64{1, 1, 0, 0}},
	})
}

// Cell600 returns the 600-cell with the given edge length. Dimension 4 only.
//
// Unit-radius vertices: the 8 axis points, the 16 points (±1/2,±1/2,±1/2,±1/2)
// and the even permutations of (±φ/2, ±1/2, ±1/(2φ), 0). The edge length at
// unit radius is 1/φ.
func Cell600(n int, size float64) (*Polytope, error) {
	return polychoron("600-cell", n, size*phi, []coordSet{
		{base: [4]float64{1, 0, 0, 0}},
		{base: [4]float64{0.5, 0.5, 0.5, 0.5}},
		{base: [4]float64{phi / 2, 0.5, 1 / (2 * phi), 0}, even: true},
	})
}

// Cell120 returns the 120-cell with the given edge length. Dimension 4 only.
//
// The vertices are the classic radius-sqrt(8) set, whose edge length is
// 2/φ² = 3-sqrt(5).
func Cell120(n int, size float64) (*Polytope, error) {
	rt5 := math.Sqrt(5)
	inv, inv2, phi2 := 1/phi, 1/(phi*phi), phi*phi
	return polychoron("120-cell", n, size/(3-rt5), []coordSet{
		{base: [4]float64{2, 2, 0, 0}},
		{base: [4]float64{1, 1, 1, rt5}},
		{base: [4]float64{inv2, phi, phi, phi}},
		{base: [4]float64{inv, inv, inv, phi2}},
		{base: [4]float64{0, inv2, 1, phi2}, even: true},
		{base: [4]float64{0, inv, phi, rt5}, even: true},
		{base: [4]float64{inv, 1, phi, 2}, even: true},
	})
}

func polychoron(name string, n int, scale float64, sets []coordSet) (*Polytope, error) {
	if n != 4 {
		return nil, fmt.Errorf("%w: %s exists only in dimension 4, got %d", ErrUnsupported, name, n)
	}
	seen := make(map[[4]int64]struct{})
	p := &Polytope{Name: name, Dim: 4}
	for _, s := range sets {
		for _, perm := range permutations4(s.even) {
			var v [4]float64
			for i, k := range perm {
				v[i] = s.base[k]
			}
			for signs := 0; signs < 16; signs++ {
				var w [4]float64
				for i := range v {
					w[i] = v[i]
					if signs&(1<<i) != 0 {
						w[i] = -w[i]
					}
				}
				key := quantize(w)
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				for _, x := range w {
					p.Vertices = append(p.Vertices, x*scale)
				}
			}
		}
	}
	p.Edges = ShortEdges(p.Vertices, 4, ShortEdgeTolerance)
	return p, nil
}

// permutations4 lists the 24 permutations of (0,1,2,3), or only the 12 of
// even parity.
func permutations4(evenOnly bool) [][4]int {
	var out [][4]int
	for a := 0; a < 4; a++ {
		for b := 0; b < 4; b++ {
			for c := 0; c < 4; c++ {
				d := 6 - a - b - c
				if a == b || a == c || b == c || d == a || d == b || d == c {
					continue
				}
				p := [4]int{a, b, c, d}
				if evenOnly && inversions(p)%2 != 0 {
					continue
				}
				out = append(out, p)
			}
		}
	}
	return out
}

func inversions(p [4]int) int {
	k := 0
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if p[i] > p[j] {
				k++
			}
		}
	}
	return k
}

// quantize folds -0 into 0 and absorbs rounding so that equal points share
// a key.
func quantize(v [4]float64) [4]int64 {
	const q = 1e9
	var k [4]int64
	for i, x := range v {
		k[i] = int64(math.Round(x * q))
	}
	return k
}
