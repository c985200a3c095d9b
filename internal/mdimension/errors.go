package mdimension

import "errors"

// Boundary errors. Numeric degeneracies inside the kernels are clamped and
// never surface as errors; these only report caller contract violations.
var (
	ErrDimension        = errors.New("dimension out of range")
	ErrFractalDimension = errors.New("fractal dimension out of range")
	ErrPlane            = errors.New("invalid rotation plane")
	ErrAngle            = errors.New("rotation angle is not finite")
	ErrPower            = errors.New("power must be >= 2")
	ErrBailout          = errors.New("bailout radius must be >= 2")
	ErrIterations       = errors.New("iteration count must be > 0")
	ErrVectorLength     = errors.New("vector length does not match dimension")
	ErrProjection       = errors.New("invalid projection config")
	ErrMarchConfig      = errors.New("invalid march config")
)
