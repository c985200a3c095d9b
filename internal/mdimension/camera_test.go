package mdimension

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestCamera_CentreRay(t *testing.T) {
	c := DefaultCamera()
	o, d := c.Ray(0, 0, 1, 1)
	if o != c.Position {
		t.Fatalf("origin %v", o)
	}
	if !vec3AlmostEq(d, r3.Vec{Z: -1}, 1e-12) {
		t.Fatalf("centre dir %v", d)
	}
	// left edge looks left, top edge looks up
	_, l := c.Ray(0, 50, 101, 101)
	_, u := c.Ray(50, 0, 101, 101)
	if l.X >= 0 || u.Y <= 0 {
		t.Fatalf("left %v up %v", l, u)
	}
}

func TestCamera_DegenerateUp(t *testing.T) {
	c := Camera{Position: r3.Vec{Y: 3}, Up: r3.Vec{Y: 1}, FOV: 60}
	_, d := c.Ray(0, 0, 1, 1)
	if !vec3AlmostEq(d, r3.Vec{Y: -1}, 1e-12) {
		t.Fatalf("dir %v", d)
	}
}
