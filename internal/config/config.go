package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lukaszgryglicki/mdimension/internal/mdimension"
	"github.com/lukaszgryglicki/mdimension/internal/mesh"
	"github.com/lukaszgryglicki/mdimension/internal/polytope"
	"github.com/lukaszgryglicki/mdimension/internal/render"
)

// Defaults filled in by Load / Default.
const (
	Dimension  = 4
	ObjectKind = "hypercube"
	ObjectSize = 1.0
	ImageW     = 512
	ImageH     = 512
	Gamma      = 2.2
	PNGOut     = "mdimension.png"
	GIFOut     = "mdimension.gif"
	OBJOut     = "mdimension.obj"
	GIFDelay   = 5
	GIFFrames  = 48
	SpinPlane  = "XW"
)

type ProjectionCfg struct {
	Mode     string  `json:"mode,omitempty" toml:"mode"`
	Distance float64 `json:"distance,omitempty" toml:"distance"`
}

type ShearCfg struct {
	To     int     `json:"to" toml:"to"`
	From   int     `json:"from" toml:"from"`
	Factor float64 `json:"factor" toml:"factor"`
}

// ObjectCfg picks a polytope or point cloud. Edges is "" (generator's own),
// "short" or "knn".
type ObjectCfg struct {
	Kind        string     `json:"kind,omitempty" toml:"kind"`
	Size        float64    `json:"size,omitempty" toml:"size"`
	Edges       string     `json:"edges,omitempty" toml:"edges"`
	K           int        `json:"k,omitempty" toml:"k"`
	Shears      []ShearCfg `json:"shears,omitempty" toml:"shears"`
	Translation []float64  `json:"translation,omitempty" toml:"translation"`
}

// FractalCfg turns on the distance field. Basis vectors are optional; when
// all are empty they follow the rotation and the slice offsets.
type FractalCfg struct {
	Power         float64   `json:"power,omitempty" toml:"power"`
	MaxIterations int       `json:"maxIterations,omitempty" toml:"maxIterations"`
	Bailout       float64   `json:"bailout,omitempty" toml:"bailout"`
	Mode          string    `json:"mode,omitempty" toml:"mode"`
	Formula       string    `json:"formula,omitempty" toml:"formula"`
	Julia         []float64 `json:"julia,omitempty" toml:"julia"`
	NoFastPath    bool      `json:"noFastPath,omitempty" toml:"noFastPath"`
	MaxDistance   float64   `json:"maxDistance,omitempty" toml:"maxDistance"`
	TrapWeight    float64   `json:"trapWeight,omitempty" toml:"trapWeight"`
	Origin        []float64 `json:"origin,omitempty" toml:"origin"`
	BasisX        []float64 `json:"basisX,omitempty" toml:"basisX"`
	BasisY        []float64 `json:"basisY,omitempty" toml:"basisY"`
	BasisZ        []float64 `json:"basisZ,omitempty" toml:"basisZ"`
}

// MarchCfg mirrors mdimension.MarchConfig; zero fields take the defaults.
type MarchCfg struct {
	MaxSteps         int     `json:"maxSteps,omitempty" toml:"maxSteps"`
	SurfaceEpsilon   float64 `json:"surfaceEpsilon,omitempty" toml:"surfaceEpsilon"`
	MinStep          float64 `json:"minStep,omitempty" toml:"minStep"`
	MaxStep          float64 `json:"maxStep,omitempty" toml:"maxStep"`
	BoundingRadius   float64 `json:"boundingRadius,omitempty" toml:"boundingRadius"`
	HorizonRadius    float64 `json:"horizonRadius,omitempty" toml:"horizonRadius"`
	HorizonBand      float64 `json:"horizonBand,omitempty" toml:"horizonBand"`
	HorizonStepScale float64 `json:"horizonStepScale,omitempty" toml:"horizonStepScale"`
	NoHorizon        bool    `json:"noHorizon,omitempty" toml:"noHorizon"`
}

type CameraCfg struct {
	Position []float64 `json:"position,omitempty" toml:"position"`
	Target   []float64 `json:"target,omitempty" toml:"target"`
	Up       []float64 `json:"up,omitempty" toml:"up"`
	FOV      float64   `json:"fov,omitempty" toml:"fov"`
}

type ImageCfg struct {
	Width     int     `json:"width,omitempty" toml:"width"`
	Height    int     `json:"height,omitempty" toml:"height"`
	Gamma     float64 `json:"gamma,omitempty" toml:"gamma"`
	Out       string  `json:"out,omitempty" toml:"out"`
	GIFOut    string  `json:"gifOut,omitempty" toml:"gifOut"`
	GIFDelay  int     `json:"gifDelay,omitempty" toml:"gifDelay"`
	Frames    int     `json:"frames,omitempty" toml:"frames"`
	SpinPlane string  `json:"spinPlane,omitempty" toml:"spinPlane"`
	Scale     float64 `json:"scale,omitempty" toml:"scale"`
	Faces     float64 `json:"faces,omitempty" toml:"faces"`
}

// ShadeCfg colours are "#rrggbb"; empty means the shader default.
type ShadeCfg struct {
	Inner      string  `json:"inner,omitempty" toml:"inner"`
	Outer      string  `json:"outer,omitempty" toml:"outer"`
	Background string  `json:"background,omitempty" toml:"background"`
	Ambient    float64 `json:"ambient,omitempty" toml:"ambient"`
	NoAO       bool    `json:"noAO,omitempty" toml:"noAO"`
	AOSamples  int     `json:"aoSamples,omitempty" toml:"aoSamples"`
}

type MeshCfg struct {
	Cells  int       `json:"cells,omitempty" toml:"cells"`
	Radius float64   `json:"radius,omitempty" toml:"radius"`
	Iso    float64   `json:"iso,omitempty" toml:"iso"`
	Clip   []float64 `json:"clip,omitempty" toml:"clip"`
	Out    string    `json:"out,omitempty" toml:"out"`
}

// Config is one scene. Rotation angles are degrees keyed by plane name
// ("XW", "A6A7").
type Config struct {
	Dimension  int                `json:"dimension" toml:"dimension"`
	RotDeg     map[string]float64 `json:"rotDeg,omitempty" toml:"rotDeg"`
	Scales     []float64          `json:"scales,omitempty" toml:"scales"`
	Slice      []float64          `json:"slice,omitempty" toml:"slice"`
	Projection ProjectionCfg      `json:"projection" toml:"projection"`
	Object     ObjectCfg          `json:"object" toml:"object"`
	Fractal    *FractalCfg        `json:"fractal,omitempty" toml:"fractal"`
	March      MarchCfg           `json:"march" toml:"march"`
	Camera     CameraCfg          `json:"camera" toml:"camera"`
	Image      ImageCfg           `json:"image" toml:"image"`
	Shade      ShadeCfg           `json:"shade" toml:"shade"`
	Mesh       MeshCfg            `json:"mesh" toml:"mesh"`
	Workers    int                `json:"workers,omitempty" toml:"workers"`
}

// Default returns a 4-D hypercube scene with every default filled in.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a .json or .toml scene and fills defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Decode(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses data as "json" or "toml" and fills defaults.
func Decode(data []byte, format string) (*Config, error) {
	var cfg Config
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	case "json", "":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}
	if err := cfg.checkFinite(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Dimension <= 0 {
		c.Dimension = Dimension
	}
	if c.Projection.Distance <= 0 {
		c.Projection.Distance = mdimension.DefaultProjectionDistance
	}
	if c.Object.Kind == "" {
		c.Object.Kind = ObjectKind
	}
	if c.Object.Size <= 0 {
		c.Object.Size = ObjectSize
	}
	if c.Fractal != nil {
		c.Fractal.applyDefaults()
	}
	if c.Image.Width <= 0 {
		c.Image.Width = ImageW
	}
	if c.Image.Height <= 0 {
		c.Image.Height = ImageH
	}
	if c.Image.Gamma <= 0 {
		c.Image.Gamma = Gamma
	}
	if c.Image.Out == "" {
		c.Image.Out = PNGOut
	}
	if c.Image.GIFOut == "" {
		c.Image.GIFOut = GIFOut
	}
	if c.Image.GIFDelay <= 0 {
		c.Image.GIFDelay = GIFDelay
	}
	if c.Image.Frames <= 0 {
		c.Image.Frames = GIFFrames
	}
	if c.Image.SpinPlane == "" {
		c.Image.SpinPlane = SpinPlane
	}
	if c.Mesh.Out == "" {
		c.Mesh.Out = OBJOut
	}
}

func (f *FractalCfg) applyDefaults() {
	if f.Power <= 0 {
		f.Power = mdimension.DefaultPower
	}
	if f.MaxIterations <= 0 {
		f.MaxIterations = mdimension.DefaultMaxIterations
	}
	if f.Bailout <= 0 {
		f.Bailout = mdimension.DefaultBailout
	}
}

// Angles converts RotDeg to radians.
func (c *Config) Angles() (mdimension.RotationAngles, error) {
	a, err := mdimension.AnglesFromDegrees(c.RotDeg)
	if err != nil {
		return nil, fmt.Errorf("rotDeg: %w", err)
	}
	return a, nil
}

// Frame builds the per-frame configuration for the core.
func (c *Config) Frame() (mdimension.FrameConfig, error) {
	angles, err := c.Angles()
	if err != nil {
		return mdimension.FrameConfig{}, err
	}
	mode, err := mdimension.ParseProjectionMode(c.Projection.Mode)
	if err != nil {
		return mdimension.FrameConfig{}, err
	}
	fc := mdimension.FrameConfig{
		Dimension:  c.Dimension,
		Angles:     angles,
		Scales:     c.Scales,
		Projection: mdimension.ProjectionConfig{Mode: mode, Distance: c.Projection.Distance},
		Slice:      c.Slice,
		March:      c.marchConfig(),
	}
	if c.Fractal != nil {
		fp, err := c.Fractal.params(c.Dimension)
		if err != nil {
			return mdimension.FrameConfig{}, err
		}
		fc.Fractal = fp
	}
	return fc, nil
}

func (f *FractalCfg) params(n int) (mdimension.FractalParams, error) {
	mode, err := mdimension.ParseIterationMode(f.Mode)
	if err != nil {
		return mdimension.FractalParams{}, fmt.Errorf("fractal: %w", err)
	}
	formula, err := mdimension.ParseFormula(f.Formula)
	if err != nil {
		return mdimension.FractalParams{}, fmt.Errorf("fractal: %w", err)
	}
	return mdimension.FractalParams{
		Dimension:     n,
		Power:         f.Power,
		MaxIterations: f.MaxIterations,
		BailoutRadius: f.Bailout,
		Origin:        f.Origin,
		BasisX:        f.BasisX,
		BasisY:        f.BasisY,
		BasisZ:        f.BasisZ,
		Mode:          mode,
		JuliaConstant: f.Julia,
		Formula:       formula,
		NoFastPath:    f.NoFastPath,
		MaxDistance:   f.MaxDistance,
		TrapWeight:    f.TrapWeight,
	}, nil
}

func (c *Config) marchConfig() mdimension.MarchConfig {
	m := mdimension.DefaultMarchConfig()
	mc := c.March
	if mc.MaxSteps > 0 {
		m.MaxSteps = mc.MaxSteps
	}
	if mc.SurfaceEpsilon > 0 {
		m.SurfaceEpsilon = mc.SurfaceEpsilon
	}
	if mc.MinStep > 0 {
		m.MinStep = mc.MinStep
	}
	if mc.MaxStep > 0 {
		m.MaxStep = mc.MaxStep
	}
	if mc.BoundingRadius > 0 {
		m.BoundingRadius = mc.BoundingRadius
	}
	if mc.HorizonRadius > 0 {
		m.HorizonRadius = mc.HorizonRadius
	}
	if mc.HorizonBand > 0 {
		m.HorizonBand = mc.HorizonBand
	}
	if mc.HorizonStepScale > 0 {
		m.HorizonStepScale = mc.HorizonStepScale
	}
	if mc.NoHorizon {
		m.HorizonBand = 0
	}
	return m
}

func vec3(v []float64, def r3.Vec) (r3.Vec, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
	}
	return r3.Vec{}, fmt.Errorf("want 3 components, got %d", len(v))
}

// BuildCamera builds the pinhole camera.
func (c *Config) BuildCamera() (mdimension.Camera, error) {
	cam := mdimension.DefaultCamera()
	var err error
	if cam.Position, err = vec3(c.Camera.Position, cam.Position); err != nil {
		return cam, fmt.Errorf("camera position: %w", err)
	}
	if cam.Target, err = vec3(c.Camera.Target, cam.Target); err != nil {
		return cam, fmt.Errorf("camera target: %w", err)
	}
	if cam.Up, err = vec3(c.Camera.Up, cam.Up); err != nil {
		return cam, fmt.Errorf("camera up: %w", err)
	}
	if c.Camera.FOV > 0 {
		cam.FOV = c.Camera.FOV
	}
	return cam, nil
}

// Shader builds the orbit-trap shader.
func (c *Config) Shader() (render.Shader, error) {
	sh := render.DefaultShader()
	for _, p := range []struct {
		hex string
		dst *colorful.Color
	}{
		{c.Shade.Inner, &sh.Inner},
		{c.Shade.Outer, &sh.Outer},
		{c.Shade.Background, &sh.Background},
	} {
		if p.hex == "" {
			continue
		}
		col, err := render.ParseColor(p.hex)
		if err != nil {
			return sh, fmt.Errorf("shade: %w", err)
		}
		*p.dst = col
	}
	if c.Shade.Ambient > 0 {
		sh.Ambient = c.Shade.Ambient
	}
	if c.Shade.AOSamples > 0 {
		sh.AOSamples = c.Shade.AOSamples
	}
	sh.AO = !c.Shade.NoAO
	return sh, nil
}

// RenderOptions sizes the raymarched image.
func (c *Config) RenderOptions() render.Options {
	return render.Options{Width: c.Image.Width, Height: c.Image.Height, Workers: c.Workers}
}

// Wireframe sizes the wireframe canvas.
func (c *Config) Wireframe() render.Wireframe {
	w := render.DefaultWireframe()
	w.Width, w.Height = c.Image.Width, c.Image.Height
	if c.Image.Scale > 0 {
		w.Scale = c.Image.Scale
	} else {
		w.Scale = float64(min(w.Width, w.Height)) * w.Scale / 512
	}
	w.FaceAlpha = c.Image.Faces
	return w
}

// Plane parses the spin plane used by animations.
func (c *Config) Plane() (mdimension.Plane, error) {
	p, err := mdimension.ParsePlane(c.Image.SpinPlane)
	if err != nil {
		return p, err
	}
	if p.J >= c.Dimension {
		return p, fmt.Errorf("%w: spin plane %v in dimension %d", mdimension.ErrPlane, p, c.Dimension)
	}
	return p, nil
}

// Polytope generates the configured object and applies its shears and
// translation.
func (c *Config) Polytope() (*polytope.Polytope, error) {
	p, err := polytope.Generate(c.Object.Kind, c.Dimension, c.Object.Size)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(c.Object.Edges) {
	case "":
	case "short":
		p.Edges = polytope.ShortEdges(p.Vertices, p.Dim, polytope.ShortEdgeTolerance)
	case "knn":
		k := c.Object.K
		if k <= 0 {
			k = polytope.DefaultKNN
		}
		p.Edges = polytope.KNNEdges(p.Vertices, p.Dim, k)
	default:
		return nil, fmt.Errorf("object: unknown edge builder %q", c.Object.Edges)
	}
	if len(c.Object.Shears) == 0 && len(c.Object.Translation) == 0 {
		return p, nil
	}
	id, err := mdimension.Identity(c.Dimension)
	if err != nil {
		return nil, err
	}
	aff := mdimension.Affine{Translation: c.Object.Translation}
	for _, s := range c.Object.Shears {
		aff.Shears = append(aff.Shears, mdimension.Shear{To: s.To, From: s.From, Factor: s.Factor})
	}
	M, err := mdimension.ComposeAffine(id, aff)
	if err != nil {
		return nil, fmt.Errorf("object: %w", err)
	}
	return p.Transformed(M)
}

// MeshOptions configures marching cubes.
func (c *Config) MeshOptions() (mesh.Options, error) {
	opt := mesh.DefaultOptions()
	if c.Mesh.Cells > 0 {
		opt.Cells = c.Mesh.Cells
	}
	if c.Mesh.Radius > 0 {
		opt.Radius = c.Mesh.Radius
	} else if c.March.BoundingRadius > 0 {
		opt.Radius = c.March.BoundingRadius
	}
	if c.Mesh.Iso > 0 {
		opt.Iso = c.Mesh.Iso
	}
	clip, err := vec3(c.Mesh.Clip, r3.Vec{})
	if err != nil {
		return opt, fmt.Errorf("mesh clip: %w", err)
	}
	opt.Clip = clip
	return opt, nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.RotDeg != nil {
		out.RotDeg = make(map[string]float64, len(c.RotDeg))
		for k, v := range c.RotDeg {
			out.RotDeg[k] = v
		}
	}
	out.Scales = cloneFloats(c.Scales)
	out.Slice = cloneFloats(c.Slice)
	out.Object.Shears = append([]ShearCfg(nil), c.Object.Shears...)
	out.Object.Translation = cloneFloats(c.Object.Translation)
	if c.Fractal != nil {
		f := *c.Fractal
		f.Julia = cloneFloats(f.Julia)
		f.Origin = cloneFloats(f.Origin)
		f.BasisX = cloneFloats(f.BasisX)
		f.BasisY = cloneFloats(f.BasisY)
		f.BasisZ = cloneFloats(f.BasisZ)
		out.Fractal = &f
	}
	out.Camera.Position = cloneFloats(c.Camera.Position)
	out.Camera.Target = cloneFloats(c.Camera.Target)
	out.Camera.Up = cloneFloats(c.Camera.Up)
	out.Mesh.Clip = cloneFloats(c.Mesh.Clip)
	return &out
}

func cloneFloats(v []float64) []float64 {
	if v == nil {
		return nil
	}
	return append([]float64(nil), v...)
}

type namedFloats struct {
	name string
	v    []float64
}

// checkFinite rejects NaN and infinities anywhere in the scene.
func (c *Config) checkFinite() error {
	list := []namedFloats{
		{"scales", c.Scales},
		{"slice", c.Slice},
		{"projection.distance", []float64{c.Projection.Distance}},
		{"object.size", []float64{c.Object.Size}},
		{"object.translation", c.Object.Translation},
		{"march", []float64{c.March.SurfaceEpsilon, c.March.MinStep, c.March.MaxStep,
			c.March.BoundingRadius, c.March.HorizonRadius, c.March.HorizonBand, c.March.HorizonStepScale}},
		{"camera.position", c.Camera.Position},
		{"camera.target", c.Camera.Target},
		{"camera.up", c.Camera.Up},
		{"camera.fov", []float64{c.Camera.FOV}},
		{"image", []float64{c.Image.Gamma, c.Image.Scale, c.Image.Faces}},
		{"shade.ambient", []float64{c.Shade.Ambient}},
		{"mesh", []float64{c.Mesh.Radius, c.Mesh.Iso}},
		{"mesh.clip", c.Mesh.Clip},
	}
	for k, v := range c.RotDeg {
		list = append(list, namedFloats{"rotDeg." + k, []float64{v}})
	}
	for i, sh := range c.Object.Shears {
		list = append(list, namedFloats{fmt.Sprintf("object.shears[%d]", i), []float64{sh.Factor}})
	}
	if f := c.Fractal; f != nil {
		list = append(list,
			namedFloats{"fractal", []float64{f.Power, f.Bailout, f.MaxDistance, f.TrapWeight}},
			namedFloats{"fractal.julia", f.Julia},
			namedFloats{"fractal.origin", f.Origin},
			namedFloats{"fractal.basisX", f.BasisX},
			namedFloats{"fractal.basisY", f.BasisY},
			namedFloats{"fractal.basisZ", f.BasisZ},
		)
	}
	for _, l := range list {
		for i, x := range l.v {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return fmt.Errorf("%w: %s[%d] = %g", ErrNotFinite, l.name, i, x)
			}
		}
	}
	return nil
}
