package polytope

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/lukaszgryglicki/mdimension/internal/mdimension"
)

// RootKind selects a root system.
type RootKind int

const (
	RootsA RootKind = iota
	RootsD
	RootsE8
)

func (k RootKind) String() string {
	switch k {
	case RootsD:
		return "D"
	case RootsE8:
		return "E8"
	}
	return "A"
}

// Edge builder defaults.
const (
	// ShortEdgeTolerance widens the nearest-neighbour distance when linking
	// roots.
	ShortEdgeTolerance = 0.01
	DefaultKNN         = 4
)

// RootSystem returns the roots of the given kind, all of length scale, with
// edges between nearest neighbours.
//
//	A: e_i - e_j for i != j (n(n-1) roots)
//	D: ±e_i ± e_j for i < j, n >= 4 (2n(n-1) roots)
//	E8: the 112 D8 roots plus the 128 half-integer vectors with an even
//	    number of minus signs; n must be 8.
func RootSystem(kind RootKind, n int, scale float64) (*Polytope, error) {
	var verts []float64
	switch kind {
	case RootsA:
		if err := checkDim(n, mdimension.MinDimension); err != nil {
			return nil, err
		}
		verts = aRoots(n, scale)
	case RootsD:
		if err := checkDim(n, 4); err != nil {
			return nil, err
		}
		verts = dRoots(n, scale)
	case RootsE8:
		if n != 8 {
			return nil, fmt.Errorf("%w: E8 needs dimension 8, got %d", ErrUnsupported, n)
		}
		verts = append(dRoots(8, scale), e8HalfRoots(scale)...)
	default:
		return nil, fmt.Errorf("%w: root kind %d", ErrUnsupported, kind)
	}
	return &Polytope{
		Name:     fmt.Sprintf("%v-roots-%d", kind, n),
		Dim:      n,
		Vertices: verts,
		Edges:    ShortEdges(verts, n, ShortEdgeTolerance),
	}, nil
}

func aRoots(n int, scale float64) []float64 {
	s := scale / math.Sqrt2
	out := make([]float64, 0, n*(n-1)*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			v := make([]float64, n)
			v[i], v[j] = s, -s
			out = append(out, v...)
		}
	}
	return out
}

var signPairs = [4][2]float64{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

func dRoots(n int, scale float64) []float64 {
	s := scale / math.Sqrt2
	out := make([]float64, 0, 2*n*(n-1)*n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for _, sg := range signPairs {
				v := make([]float64, n)
				v[i], v[j] = sg[0]*s, sg[1]*s
				out = append(out, v...)
			}
		}
	}
	return out
}

func e8HalfRoots(scale float64) []float64 {
	// (±1/2)^8 has length sqrt(2); normalise to scale
	h := 0.5 * scale / math.Sqrt2
	out := make([]float64, 0, 128*8)
	for mask := uint(0); mask < 256; mask++ {
		if bits.OnesCount(mask)%2 != 0 {
			continue
		}
		for i := 0; i < 8; i++ {
			if mask&(1<<i) != 0 {
				out = append(out, -h)
			} else {
				out = append(out, h)
			}
		}
	}
	return out
}
