package render

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lukaszgryglicki/mdimension/internal/mdimension"
)

// Shader maps a march result to a colour. The orbit trap picks a point on
// the Inner→Outer gradient (blended in Lab); lighting is Lambert plus an
// ambient floor, optionally darkened by ambient occlusion.
type Shader struct {
	Inner      colorful.Color
	Outer      colorful.Color
	Background colorful.Color
	Light      r3.Vec
	Ambient    float64

	AO        bool
	AOSamples int
	AOStep    float64
}

// DefaultShader is a warm core fading to a pale blue rim.
func DefaultShader() Shader {
	return Shader{
		Inner:      colorful.Hcl(40, 0.7, 0.35).Clamped(),
		Outer:      colorful.Hcl(220, 0.4, 0.85).Clamped(),
		Background: colorful.Color{R: 0.02, G: 0.02, B: 0.04},
		Light:      r3.Unit(r3.Vec{X: 1, Y: 1, Z: 1}),
		Ambient:    0.15,
		AO:         true,
		AOSamples:  3,
		AOStep:     0.02,
	}
}

// ParseColor accepts "#rrggbb".
func ParseColor(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("colour %q: %w", hex, err)
	}
	return c, nil
}

// Shade colours one march result. field is only used for occlusion.
func (s Shader) Shade(field mdimension.DistanceField, h mdimension.HitResult) colorful.Color {
	if !h.Hit() {
		return s.Background
	}
	trap := math.Max(0, math.Min(1, h.OrbitTrap))
	base := s.Inner.BlendLab(s.Outer, trap).Clamped()

	light := s.Light
	if r3.Norm(light) == 0 {
		light = r3.Vec{Y: 1}
	}
	diff := math.Max(0, r3.Dot(h.Normal, r3.Unit(light)))
	k := s.Ambient + (1-s.Ambient)*diff
	if s.AO && field != nil {
		k *= mdimension.AmbientOcclusion(field, h.Position, h.Normal, s.AOSamples, s.AOStep)
	}
	return colorful.Color{R: base.R * k, G: base.G * k, B: base.B * k}
}
