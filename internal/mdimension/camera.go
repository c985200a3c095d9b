package mdimension

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is a pinhole camera in raymarch space.
type Camera struct {
	Position r3.Vec
	Target   r3.Vec
	Up       r3.Vec
	FOV      float64 // vertical field of view, degrees
}

// DefaultCamera looks at the origin from +Z at distance 3.
func DefaultCamera() Camera {
	return Camera{
		Position: r3.Vec{Z: 3},
		Up:       r3.Vec{Y: 1},
		FOV:      45,
	}
}

// basis returns the right, up and forward unit vectors.
func (c Camera) basis() (right, up, fwd r3.Vec) {
	fwd = r3.Sub(c.Target, c.Position)
	if r3.Norm(fwd) < epsRadius {
		fwd = r3.Vec{Z: -1}
	}
	fwd = r3.Unit(fwd)
	u := c.Up
	if r3.Norm(r3.Cross(fwd, u)) < 1e-9 {
		// up parallel to view direction
		u = r3.Vec{Z: 1}
		if math.Abs(fwd.Z) > 0.9 {
			u = r3.Vec{X: 1}
		}
	}
	right = r3.Unit(r3.Cross(fwd, u))
	up = r3.Cross(right, fwd)
	return right, up, fwd
}

// Ray returns the origin and unit direction through the centre of pixel
// (px, py) of a w×h image. py grows downwards.
func (c Camera) Ray(px, py, w, h int) (origin, dir r3.Vec) {
	right, up, fwd := c.basis()
	fov := c.FOV
	if !(fov > 0 && fov < 180) {
		fov = 45
	}
	half := math.Tan(fov * math.Pi / 360)
	aspect := float64(w) / float64(h)
	sx := (2*(float64(px)+0.5)/float64(w) - 1) * half * aspect
	sy := (1 - 2*(float64(py)+0.5)/float64(h)) * half
	d := r3.Add(fwd, r3.Add(r3.Scale(sx, right), r3.Scale(sy, up)))
	return c.Position, r3.Unit(d)
}
