package mdimension

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Shear adds Factor·x[From] to x[To].
type Shear struct {
	To, From int
	Factor   float64
}

// Affine holds the non-rotational pieces of an object transform. Empty
// fields mean identity.
type Affine struct {
	Scales      []float64 // per-axis; missing or zero entries mean 1
	Shears      []Shear
	Translation []float64
}

// ScaleMatrix returns diag(scales) padded with ones up to n.
func ScaleMatrix(n int, scales []float64) (*mat.Dense, error) {
	if err := checkDimension(n); err != nil {
		return nil, err
	}
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, scaleAt(scales, i))
	}
	return m, nil
}

func scaleAt(scales []float64, i int) float64 {
	if i < len(scales) && scales[i] != 0 {
		return scales[i]
	}
	return 1
}

// ShearMatrix returns the identity with Factor placed at (To, From).
func ShearMatrix(n int, s Shear) (*mat.Dense, error) {
	if err := checkDimension(n); err != nil {
		return nil, err
	}
	if s.To < 0 || s.From < 0 || s.To >= n || s.From >= n || s.To == s.From {
		return nil, fmt.Errorf("%w: shear (%d<-%d) in dimension %d", ErrPlane, s.To, s.From, n)
	}
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	m.Set(s.To, s.From, s.Factor)
	return m, nil
}

// TranslationMatrix returns the (n+1)×(n+1) augmented translation.
func TranslationMatrix(n int, t []float64) (*mat.Dense, error) {
	if err := checkDimension(n); err != nil {
		return nil, err
	}
	if len(t) > n {
		return nil, fmt.Errorf("%w: translation has %d components, dimension %d", ErrVectorLength, len(t), n)
	}
	m := mat.NewDense(n+1, n+1, nil)
	for i := 0; i <= n; i++ {
		m.Set(i, i, 1)
	}
	for i, x := range t {
		m.Set(i, n, x)
	}
	return m, nil
}

// ComposeAffine returns the augmented (n+1)×(n+1) map T·R·Sh·S: scale first,
// then shears in list order, then rotation, then translation.
func ComposeAffine(R *RotationMatrix, a Affine) (*mat.Dense, error) {
	n := R.Dim()
	S, err := ScaleMatrix(n, a.Scales)
	if err != nil {
		return nil, err
	}
	lin := mat.DenseCopyOf(S)
	for _, sh := range a.Shears {
		M, err := ShearMatrix(n, sh)
		if err != nil {
			return nil, err
		}
		var tmp mat.Dense
		tmp.Mul(M, lin)
		lin = &tmp
	}
	var rl mat.Dense
	rl.Mul(R.Dense(), lin)

	aug := mat.NewDense(n+1, n+1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			aug.Set(i, j, rl.At(i, j))
		}
	}
	aug.Set(n, n, 1)
	T, err := TranslationMatrix(n, a.Translation)
	if err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Mul(T, aug)
	return &out, nil
}

// TransformPoint applies an augmented (n+1)×(n+1) matrix to an n-D point.
func TransformPoint(M mat.Matrix, p NDVector) (NDVector, error) {
	r, c := M.Dims()
	if r != c || len(p) != r-1 {
		return nil, fmt.Errorf("%w: point %d, matrix %dx%d", ErrVectorLength, len(p), r, c)
	}
	h := mat.NewVecDense(r, append(p.Clone(), 1))
	var out mat.VecDense
	out.MulVec(M, h)
	res := make(NDVector, r-1)
	for i := range res {
		res[i] = out.AtVec(i)
	}
	return res, nil
}
