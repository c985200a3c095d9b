package mdimension

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// ProjectionMode selects how n-D points reach 3-space.
type ProjectionMode int

const (
	Perspective ProjectionMode = iota
	Orthographic
)

func (m ProjectionMode) String() string {
	if m == Orthographic {
		return "orthographic"
	}
	return "perspective"
}

// ParseProjectionMode accepts "perspective" / "orthographic" (or "ortho").
func ParseProjectionMode(s string) (ProjectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "perspective", "persp":
		return Perspective, nil
	case "orthographic", "ortho":
		return Orthographic, nil
	}
	return Perspective, fmt.Errorf("%w: unknown mode %q", ErrProjection, s)
}

// ProjectionConfig: Distance is the eye position along the depth axis.
type ProjectionConfig struct {
	Mode     ProjectionMode
	Distance float64
}

// DefaultProjection is perspective with the eye at 4.
func DefaultProjection() ProjectionConfig {
	return ProjectionConfig{Mode: Perspective, Distance: DefaultProjectionDistance}
}

// Projector maps n-D points to 3-D. Build it once per configuration; it is
// read-only afterwards and safe for concurrent use.
//
// The point is scaled per axis, then rotated. The effective depth is the sum
// of all rotated coordinates from axis 3 up, divided by sqrt(max(n-3,1)), so
// axes mixed into W by rotation also push the point toward the eye without
// the effect growing with dimension. For n == 3 the depth is 0.
type Projector struct {
	n        int
	mode     ProjectionMode
	distance float64
	// rows 0..2 of R·S, row-major 3*n
	xyz []float64
	// depthRow[j] = sum_{k>=3} (R·S)[k][j] / sqrt(max(n-3,1))
	depthRow []float64
}

// NewProjector validates cfg and precomputes the depth row sums.
func NewProjector(R *RotationMatrix, scales []float64, cfg ProjectionConfig) (*Projector, error) {
	if R == nil {
		return nil, fmt.Errorf("%w: nil rotation", ErrProjection)
	}
	n := R.Dim()
	if err := checkDimension(n); err != nil {
		return nil, err
	}
	if len(scales) > n {
		return nil, fmt.Errorf("%w: %d scales for dimension %d", ErrVectorLength, len(scales), n)
	}
	switch cfg.Mode {
	case Perspective:
		if !(cfg.Distance > 0) || !isFinite(cfg.Distance) {
			return nil, fmt.Errorf("%w: distance must be > 0, got %g", ErrProjection, cfg.Distance)
		}
	case Orthographic:
	default:
		return nil, fmt.Errorf("%w: mode %d", ErrProjection, cfg.Mode)
	}

	p := &Projector{
		n:        n,
		mode:     cfg.Mode,
		distance: cfg.Distance,
		xyz:      make([]float64, 3*n),
		depthRow: make([]float64, n),
	}
	norm := math.Sqrt(math.Max(float64(n-3), 1))
	for j := 0; j < n; j++ {
		s := scaleAt(scales, j)
		for i := 0; i < 3; i++ {
			p.xyz[i*n+j] = R.At(i, j) * s
		}
		sum := 0.0
		for k := 3; k < n; k++ {
			sum += R.At(k, j)
		}
		p.depthRow[j] = sum * s / norm
	}
	return p, nil
}

// Dim returns the input dimension.
func (p *Projector) Dim() int { return p.n }

// Config returns the projection config in effect.
func (p *Projector) Config() ProjectionConfig {
	return ProjectionConfig{Mode: p.mode, Distance: p.distance}
}

// Depth returns the effective depth of an unrotated point.
func (p *Projector) Depth(v NDVector) float64 {
	d := 0.0
	for j, x := range v {
		d += p.depthRow[j] * x
	}
	return d
}

// Project maps one n-D point to 3-D and returns its effective depth.
func (p *Projector) Project(v NDVector) (r3.Vec, float64, error) {
	if len(v) != p.n {
		return r3.Vec{}, 0, fmt.Errorf("%w: got %d, want %d", ErrVectorLength, len(v), p.n)
	}
	out, depth := p.project(v)
	return out, depth, nil
}

func (p *Projector) project(v []float64) (r3.Vec, float64) {
	n := p.n
	var x, y, z, depth float64
	for j, c := range v {
		x += p.xyz[j] * c
		y += p.xyz[n+j] * c
		z += p.xyz[2*n+j] * c
		depth += p.depthRow[j] * c
	}
	if p.mode == Orthographic {
		return r3.Vec{X: x, Y: y, Z: z}, depth
	}
	f := 1 / perspectiveDivisor(p.distance, depth)
	return r3.Vec{X: x * f, Y: y * f, Z: z * f}, depth
}

// perspectiveDivisor returns distance-depth with its magnitude clamped to at
// least MinProjectionDivisor, keeping the sign. A point crossing the eye
// plane is pinned to a large but finite scale rather than exploding.
func perspectiveDivisor(distance, depth float64) float64 {
	d := distance - depth
	if math.Abs(d) < MinProjectionDivisor {
		if d >= 0 {
			return MinProjectionDivisor
		}
		return -MinProjectionDivisor
	}
	return d
}

// ProjectAll projects a flat vertex list and returns flat xyz positions and
// the per-vertex depths.
func (p *Projector) ProjectAll(flat []float64) (positions []float64, depths []float64) {
	n := p.n
	count := len(flat) / n
	positions = make([]float64, 3*count)
	depths = make([]float64, count)
	for i := 0; i < count; i++ {
		q, d := p.project(flat[i*n : i*n+n])
		positions[3*i], positions[3*i+1], positions[3*i+2] = q.X, q.Y, q.Z
		depths[i] = d
	}
	return positions, depths
}

// ProjectEdges returns six floats per edge (both projected endpoints).
// Edges referencing a missing vertex produce a zero segment.
func (p *Projector) ProjectEdges(flat []float64, edges [][2]int) []float64 {
	n := p.n
	count := len(flat) / n
	out := make([]float64, 6*len(edges))
	for e, ed := range edges {
		a, b := ed[0], ed[1]
		if a < 0 || b < 0 || a >= count || b >= count {
			continue
		}
		qa, _ := p.project(flat[a*n : a*n+n])
		qb, _ := p.project(flat[b*n : b*n+n])
		o := out[6*e : 6*e+6]
		o[0], o[1], o[2] = qa.X, qa.Y, qa.Z
		o[3], o[4], o[5] = qb.X, qb.Y, qb.Z
	}
	return out
}

// SafeProjectionDistance raises base so that every depth stays at least
// margin in front of the eye. Vertices that would otherwise pass near the
// eye plane keep a bounded projection factor.
func SafeProjectionDistance(depths []float64, base, margin float64) float64 {
	d := base
	for _, z := range depths {
		if isFinite(z) && z+margin > d {
			d = z + margin
		}
	}
	return d
}

// WithSafeDistance returns a copy whose eye distance has been raised for the
// given flat vertex list. Orthographic projectors are returned unchanged.
func (p *Projector) WithSafeDistance(flat []float64, margin float64) *Projector {
	if p.mode == Orthographic {
		return p
	}
	n := p.n
	count := len(flat) / n
	depths := make([]float64, count)
	for i := 0; i < count; i++ {
		depths[i] = p.Depth(flat[i*n : i*n+n])
	}
	d := SafeProjectionDistance(depths, p.distance, margin)
	if d == p.distance {
		return p
	}
	cp := *p
	cp.distance = d
	return &cp
}

// Project is the free-function form: compose nothing, project one point.
func Project(v NDVector, R *RotationMatrix, scales []float64, cfg ProjectionConfig) (r3.Vec, float64, error) {
	p, err := NewProjector(R, scales, cfg)
	if err != nil {
		return r3.Vec{}, 0, err
	}
	return p.Project(v)
}
