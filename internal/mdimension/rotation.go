package mdimension

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Plane is an unordered coordinate plane (I,J) with I < J.
type Plane struct {
	I, J int
}

// NewPlane orders the two axes; it fails when they coincide or are negative.
func NewPlane(a, b int) (Plane, error) {
	if a == b || a < 0 || b < 0 {
		return Plane{}, fmt.Errorf("%w: axes (%d,%d)", ErrPlane, a, b)
	}
	if a > b {
		a, b = b, a
	}
	return Plane{I: a, J: b}, nil
}

// String returns the plane name, e.g. "XW" or "A6A7".
func (p Plane) String() string { return AxisName(p.I) + AxisName(p.J) }

// less is the canonical composition order: ascending I, then ascending J.
func (p Plane) less(q Plane) bool {
	if p.I != q.I {
		return p.I < q.I
	}
	return p.J < q.J
}

// Angles in radians for rotations in coordinate planes. Absent planes are 0.
type RotationAngles map[Plane]float64

// PlaneCount returns n(n-1)/2, the number of independent planes.
func PlaneCount(n int) int { return n * (n - 1) / 2 }

// Planes lists every plane of dimension n in canonical order.
func Planes(n int) []Plane {
	out := make([]Plane, 0, PlaneCount(n))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, Plane{I: i, J: j})
		}
	}
	return out
}

var axisNames = [...]string{"X", "Y", "Z", "W", "V", "U"}

// AxisName returns X, Y, Z, W, V, U for axes 0..5 and A6, A7, ... above.
func AxisName(i int) string {
	if i >= 0 && i < len(axisNames) {
		return axisNames[i]
	}
	return "A" + strconv.Itoa(i)
}

func parseAxis(s string) (int, bool) {
	for i, a := range axisNames {
		if s == a {
			return i, true
		}
	}
	if strings.HasPrefix(s, "A") {
		n, err := strconv.Atoi(s[1:])
		if err == nil && n >= len(axisNames) {
			return n, true
		}
	}
	return 0, false
}

// ParsePlane parses names like "XY", "ZW", "XA6" or "A6A7" (case-insensitive).
func ParsePlane(name string) (Plane, error) {
	s := strings.ToUpper(strings.TrimSpace(name))
	var parts []string
	cur := ""
	for _, c := range s {
		if c >= 'A' && c <= 'Z' && cur != "" {
			parts = append(parts, cur)
			cur = ""
		}
		cur += string(c)
	}
	if cur != "" {
		parts = append(parts, cur)
	}
	if len(parts) != 2 {
		return Plane{}, fmt.Errorf("%w: cannot parse %q", ErrPlane, name)
	}
	a, okA := parseAxis(parts[0])
	b, okB := parseAxis(parts[1])
	if !okA || !okB {
		return Plane{}, fmt.Errorf("%w: unknown axis in %q", ErrPlane, name)
	}
	return NewPlane(a, b)
}

// AnglesFromDegrees parses a plane-name → degrees map into RotationAngles.
func AnglesFromDegrees(deg map[string]float64) (RotationAngles, error) {
	out := make(RotationAngles, len(deg))
	for name, d := range deg {
		p, err := ParsePlane(name)
		if err != nil {
			return nil, err
		}
		out[p] += d * math.Pi / 180
	}
	return out, nil
}

// ComposeRotation builds one n×n rotation from per-plane angles.
//
// Elementary rotations use the block [[c,-s],[s,c]] at rows/cols (I,J) and
// are left-multiplied in canonical order (ascending I, then J), so the XY
// rotation reaches a vector first and the highest plane last. The order is
// fixed: saved configurations depend on it.
func ComposeRotation(n int, angles RotationAngles) (*RotationMatrix, error) {
	if err := checkDimension(n); err != nil {
		return nil, err
	}
	planes := make([]Plane, 0, len(angles))
	for p, a := range angles {
		if p.I < 0 || p.J >= n || p.I >= p.J {
			return nil, fmt.Errorf("%w: %v (index %d,%d) in dimension %d", ErrPlane, p, p.I, p.J, n)
		}
		if !isFinite(a) {
			return nil, fmt.Errorf("%w: %v = %g", ErrAngle, p, a)
		}
		if a != 0 {
			planes = append(planes, p)
		}
	}
	sort.Slice(planes, func(a, b int) bool { return planes[a].less(planes[b]) })

	R := identity(n)
	for _, p := range planes {
		rotateRowsLeft(R.data, n, p.I, p.J, angles[p])
	}
	return R, nil
}

// ElementaryRotation returns the single-plane rotation by angle a.
func ElementaryRotation(n int, p Plane, a float64) (*RotationMatrix, error) {
	if err := checkDimension(n); err != nil {
		return nil, err
	}
	if p.I < 0 || p.J >= n || p.I >= p.J {
		return nil, fmt.Errorf("%w: %v in dimension %d", ErrPlane, p, n)
	}
	if !isFinite(a) {
		return nil, fmt.Errorf("%w: %v = %g", ErrAngle, p, a)
	}
	R := identity(n)
	rotateRowsLeft(R.data, n, p.I, p.J, a)
	return R, nil
}

// rotateRowsLeft replaces M by E(i,j,a)·M in place. Only rows i and j change,
// so this costs O(n) instead of a full O(n^3) product.
func rotateRowsLeft(m []float64, n, i, j int, a float64) {
	c, s := math.Cos(a), math.Sin(a)
	ri := m[i*n : i*n+n]
	rj := m[j*n : j*n+n]
	for k := 0; k < n; k++ {
		x, y := ri[k], rj[k]
		ri[k] = c*x - s*y
		rj[k] = s*x + c*y
	}
}
