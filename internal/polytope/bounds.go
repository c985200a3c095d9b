package polytope

import (
	"math"

	"github.com/lukaszgryglicki/mdimension/internal/mdimension"
)

// Bounds is an n-D axis-aligned box.
type Bounds struct {
	Min, Max mdimension.NDVector
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (p *Polytope) Bounds() Bounds {
	n := p.Dim
	b := Bounds{Min: make(mdimension.NDVector, n), Max: make(mdimension.NDVector, n)}
	for j := 0; j < n; j++ {
		b.Min[j], b.Max[j] = math.Inf(1), math.Inf(-1)
	}
	for i := 0; i < p.VertexCount(); i++ {
		v := p.Vertices[i*n : (i+1)*n]
		for j, x := range v {
			b.Min[j] = math.Min(b.Min[j], x)
			b.Max[j] = math.Max(b.Max[j], x)
		}
	}
	return b
}

// Center returns the box midpoint.
func (b Bounds) Center() mdimension.NDVector {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extent returns Max-Min per axis.
func (b Bounds) Extent() mdimension.NDVector {
	return b.Max.Sub(b.Min)
}

// Radius returns half the box diagonal, a bounding-sphere radius about Center.
func (b Bounds) Radius() float64 {
	return 0.5 * b.Extent().Len()
}

// Contains reports whether v lies inside the box (inclusive).
func (b Bounds) Contains(v mdimension.NDVector) bool {
	for j, x := range v {
		if x < b.Min[j] || x > b.Max[j] {
			return false
		}
	}
	return true
}
