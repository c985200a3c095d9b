package polytope

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/lukaszgryglicki/mdimension/internal/mdimension"
)

// ErrUnsupported reports a generator/dimension combination that does not exist.
var ErrUnsupported = errors.New("unsupported polytope")

// Polytope is a vertex/edge object in n-D. Vertices are stored flat,
// Dim floats per vertex, the layout the core batch helpers consume.
type Polytope struct {
	Name     string
	Dim      int
	Vertices []float64
	Edges    [][2]int
}

// VertexCount returns the number of vertices.
func (p *Polytope) VertexCount() int {
	if p.Dim == 0 {
		return 0
	}
	return len(p.Vertices) / p.Dim
}

// Vertex returns a copy of vertex i.
func (p *Polytope) Vertex(i int) mdimension.NDVector {
	v := make(mdimension.NDVector, p.Dim)
	copy(v, p.Vertices[i*p.Dim:(i+1)*p.Dim])
	return v
}

// Transformed applies an augmented (n+1)×(n+1) affine map to every vertex.
// Edges are shared with the receiver.
func (p *Polytope) Transformed(M mat.Matrix) (*Polytope, error) {
	out := &Polytope{Name: p.Name, Dim: p.Dim, Edges: p.Edges, Vertices: make([]float64, 0, len(p.Vertices))}
	for i := 0; i < p.VertexCount(); i++ {
		v, err := mdimension.TransformPoint(M, p.Vertex(i))
		if err != nil {
			return nil, err
		}
		out.Vertices = append(out.Vertices, v...)
	}
	return out, nil
}

// Kinds lists the generator names accepted by Generate.
var Kinds = []string{"hypercube", "simplex", "cross", "roots-a", "roots-d", "roots-e8", "clifford", "24cell", "600cell", "120cell"}

// Generate builds a named object. size is the edge length for the regular
// polytopes and the radius for root systems and the Clifford torus.
func Generate(kind string, n int, size float64) (*Polytope, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "hypercube", "cube", "tesseract":
		return Hypercube(n, size)
	case "simplex":
		return Simplex(n, size)
	case "cross", "cross-polytope", "orthoplex":
		return CrossPolytope(n, size)
	case "roots-a", "a":
		return RootSystem(RootsA, n, size)
	case "roots-d", "d":
		return RootSystem(RootsD, n, size)
	case "roots-e8", "e8":
		return RootSystem(RootsE8, n, size)
	case "clifford", "clifford-torus":
		return CliffordTorus(n, DefaultTorusResolution, size)
	case "24cell", "24-cell", "icositetrachoron":
		return TwentyFourCell(n, size)
	case "600cell", "600-cell":
		return Cell600(n, size)
	case "120cell", "120-cell":
		return Cell120(n, size)
	}
	return nil, fmt.Errorf("%w: unknown kind %q (have %s)", ErrUnsupported, kind, strings.Join(Kinds, ", "))
}

func checkDim(n, lo int) error {
	if n < lo || n > mdimension.MaxDimension {
		return fmt.Errorf("%w: dimension %d not in [%d,%d]", mdimension.ErrDimension, n, lo, mdimension.MaxDimension)
	}
	return nil
}
