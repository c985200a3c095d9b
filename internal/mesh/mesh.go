// Package mesh triangulates 3-D slices of the distance field with the sdfx
// marching cubes renderer and writes the result as Wavefront OBJ.
package mesh

import (
	"errors"
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lukaszgryglicki/mdimension/internal/mdimension"
)

// DefaultCells is the marching cubes resolution along the longest axis.
const DefaultCells = 128

// DefaultIso is the distance at which the surface is extracted. Distance
// estimates are clamped at zero inside the set, so the zero level alone has
// no sign change to find.
const DefaultIso = 1e-3

// ErrEmpty is returned when triangulation found no surface.
var ErrEmpty = errors.New("mesh: no surface in bounds")

// fieldSDF adapts a distance field to sdf.SDF3.
type fieldSDF struct {
	f   mdimension.DistanceField
	bb  sdf.Box3
	iso float64
}

// Compile-time interface check.
var _ sdf.SDF3 = (*fieldSDF)(nil)

// NewSDF3 wraps f as an sdf.SDF3 bounded by a cube of half-size radius about
// the origin. Evaluate returns the estimated distance minus iso.
func NewSDF3(f mdimension.DistanceField, radius, iso float64) sdf.SDF3 {
	return &fieldSDF{
		f:   f,
		bb:  sdf.Box3{Min: v3.Vec{X: -radius, Y: -radius, Z: -radius}, Max: v3.Vec{X: radius, Y: radius, Z: radius}},
		iso: iso,
	}
}

func (s *fieldSDF) Evaluate(p v3.Vec) float64 {
	return s.f.Evaluate(r3.Vec{X: p.X, Y: p.Y, Z: p.Z}).Distance - s.iso
}

func (s *fieldSDF) BoundingBox() sdf.Box3 { return s.bb }

// primitive exposes an sdf.SDF3 as a raymarchable distance field.
type primitive struct {
	s sdf.SDF3
}

// FromSDF3 lets sdfx solids be sphere-traced by mdimension.March.
func FromSDF3(s sdf.SDF3) mdimension.DistanceField { return primitive{s: s} }

func (p primitive) Evaluate(q r3.Vec) mdimension.SDFSample {
	return mdimension.SDFSample{Distance: p.s.Evaluate(v3.Vec{X: q.X, Y: q.Y, Z: q.Z})}
}

// Options controls triangulation.
type Options struct {
	Cells  int     // marching cubes cells along the longest axis
	Radius float64 // half-size of the sampled cube
	Iso    float64
	// Clip, when non-zero, intersects the surface with an axis-aligned box
	// of this size centred at the origin (a cut-away view).
	Clip r3.Vec
}

// DefaultOptions samples the default bounding cube.
func DefaultOptions() Options {
	return Options{Cells: DefaultCells, Radius: mdimension.DefaultBoundingRadius, Iso: DefaultIso}
}

// Triangle is one face with its unit normal.
type Triangle struct {
	V      [3]r3.Vec
	Normal r3.Vec
}

// Triangulate extracts the iso-surface of f with marching cubes.
func Triangulate(f mdimension.DistanceField, opt Options) ([]Triangle, error) {
	if opt.Cells <= 0 {
		opt.Cells = DefaultCells
	}
	if !(opt.Radius > 0) {
		return nil, fmt.Errorf("mesh: radius must be > 0, got %g", opt.Radius)
	}
	s := NewSDF3(f, opt.Radius, opt.Iso)
	if opt.Clip != (r3.Vec{}) {
		box, err := sdf.Box3D(v3.Vec{X: opt.Clip.X, Y: opt.Clip.Y, Z: opt.Clip.Z}, 0)
		if err != nil {
			return nil, fmt.Errorf("mesh: clip box: %w", err)
		}
		s = sdf.Intersect3D(s, box)
	}
	return triangulateSDF(s, opt.Cells)
}

func triangulateSDF(s sdf.SDF3, cells int) ([]Triangle, error) {
	renderer := render.NewMarchingCubesUniform(cells)
	tris := render.ToTriangles(s, renderer)
	if len(tris) == 0 {
		return nil, ErrEmpty
	}
	out := make([]Triangle, 0, len(tris))
	for _, tri := range tris {
		n := tri.Normal()
		var t Triangle
		for j := 0; j < 3; j++ {
			v := tri[j]
			t.V[j] = r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
		}
		t.Normal = r3.Vec{X: n.X, Y: n.Y, Z: n.Z}
		out = append(out, t)
	}
	return out, nil
}
