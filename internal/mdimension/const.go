package mdimension

// Dimension limits and numeric guards shared by the composer, projector,
// distance field and raymarcher.
const (
	MinDimension        = 3
	MaxDimension        = 11
	MinFractalDimension = 4
	MaxFractalDimension = MaxDimension

	DefaultProjectionDistance = 4.0
	MinProjectionDivisor      = 0.01 // |distance - depth| never drops below this
	DefaultDepthMargin        = 0.5  // kept between the eye and the deepest vertex

	DefaultPower         = 8.0
	DefaultMaxIterations = 12
	DefaultBailout       = 4.0
	DefaultMaxDistance   = 1.0 // largest step a distance estimate may suggest

	DefaultBoundingRadius   = 2.0
	DefaultMaxSteps         = 256
	DefaultSurfaceEpsilon   = 1e-3
	DefaultMinStep          = 1e-4
	DefaultMaxStep          = 0.5
	DefaultHorizonRadius    = 1.0
	DefaultHorizonBand      = 0.15
	DefaultHorizonStepScale = 0.1
	DefaultNormalEpsilon    = 1e-4
	DefaultNormalThreshold  = 1e-9

	// orbit trap blend: trap*w + escape fraction*(1-w)
	DefaultTrapWeight = 0.7

	// hot-loop guards
	epsRadius = 1e-12
	epsDeriv  = 1e-12
)
