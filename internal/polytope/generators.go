package polytope

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/lukaszgryglicki/mdimension/internal/mdimension"
)

// DefaultTorusResolution is the number of samples around each circle of
// the Clifford torus.
const DefaultTorusResolution = 24

// Hypercube returns the n-cube with the given edge length, centred at the
// origin. Vertex i has coordinate j = +size/2 when bit j of i is set.
func Hypercube(n int, size float64) (*Polytope, error) {
	if err := checkDim(n, mdimension.MinDimension); err != nil {
		return nil, err
	}
	count := 1 << n
	h := size / 2
	p := &Polytope{Name: fmt.Sprintf("%d-cube", n), Dim: n, Vertices: make([]float64, 0, count*n)}
	for i := 0; i < count; i++ {
		for j := 0; j < n; j++ {
			if i&(1<<j) != 0 {
				p.Vertices = append(p.Vertices, h)
			} else {
				p.Vertices = append(p.Vertices, -h)
			}
		}
	}
	// neighbours differ in exactly one bit
	for i := 0; i < count; i++ {
		for j := 0; j < n; j++ {
			if k := i ^ (1 << j); k > i {
				p.Edges = append(p.Edges, [2]int{i, k})
			}
		}
	}
	return p, nil
}

// Simplex returns the regular n-simplex (n+1 vertices) with the given edge
// length, centred at the origin.
//
// The vertices are e_i - centroid in R^(n+1), written in the orthonormal
// basis b_k = (1,..,1,-k,0,..)/sqrt(k(k+1)) of the hyperplane orthogonal
// to (1,..,1). In that basis vertex i has coordinate k-1 equal to b_k[i].
func Simplex(n int, size float64) (*Polytope, error) {
	if err := checkDim(n, mdimension.MinDimension); err != nil {
		return nil, err
	}
	scale := size / math.Sqrt2 // |e_i - e_j| = sqrt(2)
	p := &Polytope{Name: fmt.Sprintf("%d-simplex", n), Dim: n, Vertices: make([]float64, 0, (n+1)*n)}
	for i := 0; i <= n; i++ {
		for k := 1; k <= n; k++ {
			norm := math.Sqrt(float64(k * (k + 1)))
			var c float64
			switch {
			case i < k:
				c = 1 / norm
			case i == k:
				c = -float64(k) / norm
			}
			p.Vertices = append(p.Vertices, c*scale)
		}
	}
	p.Edges = allPairs(n+1, nil)
	return p, nil
}

// CrossPolytope returns the n-orthoplex (2n vertices ±e_i) with the given
// edge length. Every pair except antipodes is an edge.
func CrossPolytope(n int, size float64) (*Polytope, error) {
	if err := checkDim(n, mdimension.MinDimension); err != nil {
		return nil, err
	}
	r := size / math.Sqrt2
	p := &Polytope{Name: fmt.Sprintf("%d-orthoplex", n), Dim: n, Vertices: make([]float64, 2*n*n)}
	// vertex 2j is +e_j, 2j+1 is -e_j
	for j := 0; j < n; j++ {
		p.Vertices[(2*j)*n+j] = r
		p.Vertices[(2*j+1)*n+j] = -r
	}
	p.Edges = allPairs(2*n, func(a, b int) bool { return a/2 == b/2 })
	return p, nil
}

// allPairs lists every index pair of a complete graph on n vertices,
// skipping pairs for which skip returns true.
func allPairs(n int, skip func(a, b int) bool) [][2]int {
	cs := combin.Combinations(n, 2)
	out := make([][2]int, 0, len(cs))
	for _, c := range cs {
		if skip != nil && skip(c[0], c[1]) {
			continue
		}
		out = append(out, [2]int{c[0], c[1]})
	}
	return out
}

// CliffordTorus samples the flat torus (cos a, sin a, cos b, sin b)·r/sqrt(2)
// on a res×res grid in the first four axes of n-D space. Edges join grid
// neighbours, wrapping around both circles.
func CliffordTorus(n, res int, radius float64) (*Polytope, error) {
	if err := checkDim(n, 4); err != nil {
		return nil, err
	}
	if res < 3 {
		return nil, fmt.Errorf("%w: torus resolution %d < 3", ErrUnsupported, res)
	}
	s := radius / math.Sqrt2
	p := &Polytope{Name: "clifford-torus", Dim: n, Vertices: make([]float64, res*res*n)}
	idx := func(a, b int) int { return (a%res)*res + b%res }
	for a := 0; a < res; a++ {
		sa, ca := math.Sincos(2 * math.Pi * float64(a) / float64(res))
		for b := 0; b < res; b++ {
			sb, cb := math.Sincos(2 * math.Pi * float64(b) / float64(res))
			v := p.Vertices[idx(a, b)*n:]
			v[0], v[1], v[2], v[3] = ca*s, sa*s, cb*s, sb*s
			p.Edges = append(p.Edges,
				[2]int{idx(a, b), idx(a+1, b)},
				[2]int{idx(a, b), idx(a, b+1)},
			)
		}
	}
	return p, nil
}
