package mdimension

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// NDVector is a point or direction in n-D space. Index 0..2 are the visible
// X, Y, Z axes; 3..n-1 are W, V, U, ... Transforms return new vectors and
// never write into their inputs.
type NDVector []float64

// NewNDVector returns a zero vector of dimension n.
func NewNDVector(n int) NDVector { return make(NDVector, n) }

// Axis returns the unit vector along axis i in dimension n.
func Axis(n, i int) NDVector {
	v := make(NDVector, n)
	v[i] = 1
	return v
}

// Dim returns the dimension of v.
func (v NDVector) Dim() int { return len(v) }

// Clone returns an independent copy.
func (v NDVector) Clone() NDVector {
	out := make(NDVector, len(v))
	copy(out, v)
	return out
}

// Add returns v+w. Both must have the same dimension.
func (v NDVector) Add(w NDVector) NDVector {
	out := v.Clone()
	floats.Add(out, w)
	return out
}

// Sub returns v-w.
func (v NDVector) Sub(w NDVector) NDVector {
	out := v.Clone()
	floats.Sub(out, w)
	return out
}

// Mul returns v scaled by s.
func (v NDVector) Mul(s float64) NDVector {
	out := v.Clone()
	floats.Scale(s, out)
	return out
}

// Dot returns the dot product between two vectors of equal dimension.
func (v NDVector) Dot(w NDVector) float64 { return floats.Dot(v, w) }

// Len returns the Euclidean length of the vector.
func (v NDVector) Len() float64 { return floats.Norm(v, 2) }

// Norm returns a unit-length copy. A (near) zero vector comes back as the
// +X axis so callers never divide by zero downstream.
func (v NDVector) Norm() NDVector {
	l := v.Len()
	if l < epsRadius || !isFinite(l) {
		if len(v) == 0 {
			return NDVector{}
		}
		return Axis(len(v), 0)
	}
	return v.Mul(1 / l)
}

// Lift pads or truncates v to dimension n, filling new axes with zero.
func (v NDVector) Lift(n int) NDVector {
	out := make(NDVector, n)
	copy(out, v)
	return out
}

// IsFinite reports whether every coordinate is finite.
func (v NDVector) IsFinite() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// DistanceSquared returns |a-b|^2 over the shorter of the two vectors.
func DistanceSquared(a, b NDVector) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
