package mdimension

import "fmt"

// FrameConfig gathers everything that changes between frames. A Frame is
// built from it once and then shared read-only by every worker.
type FrameConfig struct {
	Dimension  int
	Angles     RotationAngles
	Scales     []float64
	Projection ProjectionConfig

	// Fractal is optional (Dimension 0 means polytope-only). Empty origin and
	// basis are derived from the rotation and Slice via SliceBasis.
	Fractal FractalParams
	Slice   []float64
	March   MarchConfig
}

// Frame is an immutable snapshot: one rotation, the projector built from it
// and, optionally, the distance field. Samples of one frame never observe
// two different matrices.
type Frame struct {
	Rotation  *RotationMatrix
	Projector *Projector
	Field     *Field
	March     MarchConfig
}

// NewFrame composes the rotation once and prepares the projector and field.
func NewFrame(cfg FrameConfig) (*Frame, error) {
	R, err := ComposeRotation(cfg.Dimension, cfg.Angles)
	if err != nil {
		return nil, err
	}
	P, err := NewProjector(R, cfg.Scales, cfg.Projection)
	if err != nil {
		return nil, err
	}
	fr := &Frame{Rotation: R, Projector: P, March: cfg.March}
	if cfg.Fractal.Dimension == 0 {
		return fr, nil
	}
	if cfg.Fractal.Dimension != cfg.Dimension {
		return nil, fmt.Errorf("%w: fractal dimension %d, frame dimension %d", ErrFractalDimension, cfg.Fractal.Dimension, cfg.Dimension)
	}
	if err := cfg.March.Validate(); err != nil {
		return nil, err
	}
	fp := cfg.Fractal
	if len(fp.Origin) == 0 && len(fp.BasisX) == 0 && len(fp.BasisY) == 0 && len(fp.BasisZ) == 0 {
		fp.Origin, fp.BasisX, fp.BasisY, fp.BasisZ = SliceBasis(R, cfg.Slice)
	}
	f, err := NewField(fp)
	if err != nil {
		return nil, err
	}
	fr.Field = f
	return fr, nil
}

// MarchRay marches the ray of pixel (px, py) through the frame's field.
func (fr *Frame) MarchRay(c Camera, px, py, w, h int) HitResult {
	if fr.Field == nil {
		return HitResult{Outcome: MissBounds}
	}
	o, d := c.Ray(px, py, w, h)
	return March(fr.Field, o, d, fr.March)
}
