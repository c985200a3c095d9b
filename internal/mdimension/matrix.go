package mdimension

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// RotationMatrix is an immutable n×n orthogonal matrix (row-major). It is
// built once per configuration change and then shared read-only by every
// sample of a frame.
type RotationMatrix struct {
	n    int
	data []float64 // row-major n*n, never written after construction
}

// Identity returns the n×n identity rotation.
func Identity(n int) (*RotationMatrix, error) {
	if err := checkDimension(n); err != nil {
		return nil, err
	}
	return identity(n), nil
}

func identity(n int) *RotationMatrix {
	d := make([]float64, n*n)
	for i := 0; i < n; i++ {
		d[i*n+i] = 1
	}
	return &RotationMatrix{n: n, data: d}
}

func fromDense(m *mat.Dense) *RotationMatrix {
	r, _ := m.Dims()
	d := make([]float64, r*r)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			d[i*r+j] = m.At(i, j)
		}
	}
	return &RotationMatrix{n: r, data: d}
}

// Dim returns n.
func (R *RotationMatrix) Dim() int { return R.n }

// At returns the element at row i, column j.
func (R *RotationMatrix) At(i, j int) float64 { return R.data[i*R.n+j] }

// Dense returns a copy of the matrix as a gonum Dense.
func (R *RotationMatrix) Dense() *mat.Dense {
	d := make([]float64, len(R.data))
	copy(d, R.data)
	return mat.NewDense(R.n, R.n, d)
}

// Transpose returns R^T, which is also R^-1.
func (R *RotationMatrix) Transpose() *RotationMatrix {
	n := R.n
	d := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d[j*n+i] = R.data[i*n+j]
		}
	}
	return &RotationMatrix{n: n, data: d}
}

// Mul returns R·B.
func (R *RotationMatrix) Mul(B *RotationMatrix) *RotationMatrix {
	var out mat.Dense
	out.Mul(R.Dense(), B.Dense())
	return fromDense(&out)
}

// Det returns the determinant (±1 for a valid rotation).
func (R *RotationMatrix) Det() float64 { return mat.Det(R.Dense()) }

// IsOrthogonal reports whether R^T·R is within tol of the identity.
func (R *RotationMatrix) IsOrthogonal(tol float64) bool {
	var p mat.Dense
	D := R.Dense()
	p.Mul(D.T(), D)
	for i := 0; i < R.n; i++ {
		for j := 0; j < R.n; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if !(math.Abs(p.At(i, j)-want) <= tol) {
				return false
			}
		}
	}
	return true
}

// Apply returns R·v. v must have dimension n.
func (R *RotationMatrix) Apply(v NDVector) (NDVector, error) {
	if len(v) != R.n {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVectorLength, len(v), R.n)
	}
	out := make(NDVector, R.n)
	R.applyInto(out, v)
	return out, nil
}

// applyInto writes R·v into out without allocating; len(out) == len(v) == n.
func (R *RotationMatrix) applyInto(out, v []float64) {
	n := R.n
	for i := 0; i < n; i++ {
		row := R.data[i*n : i*n+n]
		sum := 0.0
		for j, x := range v {
			sum += row[j] * x
		}
		out[i] = sum
	}
}

// ApplyAll rotates a flat vertex list [v0_0..v0_n-1, v1_0, ...] and returns
// a new flat list. A trailing partial vertex is dropped.
func (R *RotationMatrix) ApplyAll(flat []float64) []float64 {
	n := R.n
	count := len(flat) / n
	out := make([]float64, count*n)
	for i := 0; i < count; i++ {
		R.applyInto(out[i*n:i*n+n], flat[i*n:i*n+n])
	}
	return out
}

// Column returns column j as a vector (the image of axis j).
func (R *RotationMatrix) Column(j int) NDVector {
	out := make(NDVector, R.n)
	for i := 0; i < R.n; i++ {
		out[i] = R.data[i*R.n+j]
	}
	return out
}

// Row returns row i as a vector.
func (R *RotationMatrix) Row(i int) NDVector {
	out := make(NDVector, R.n)
	copy(out, R.data[i*R.n:i*R.n+R.n])
	return out
}

// String prints the matrix one row per line.
func (R *RotationMatrix) String() string {
	return fmt.Sprintf("%v", mat.Formatted(R.Dense(), mat.Squeeze()))
}
