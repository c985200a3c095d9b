package render

import (
	"bytes"
	"context"
	"errors"
	"image/gif"
	"image/png"
	"math"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lukaszgryglicki/mdimension/internal/mdimension"
	"github.com/lukaszgryglicki/mdimension/internal/polytope"
)

func colorEq(a, b colorful.Color, tol float64) bool {
	return math.Abs(a.R-b.R) < tol && math.Abs(a.G-b.G) < tol && math.Abs(a.B-b.B) < tol
}

func fractalFrame(t *testing.T) *mdimension.Frame {
	t.Helper()
	march := mdimension.DefaultMarchConfig()
	march.MaxSteps = 50000
	fr, err := mdimension.NewFrame(mdimension.FrameConfig{
		Dimension:  4,
		Projection: mdimension.DefaultProjection(),
		Fractal:    mdimension.DefaultFractalParams(4),
		March:      march,
	})
	if err != nil {
		t.Fatal(err)
	}
	return fr
}

func TestRaymarch_DeterministicAcrossWorkers(t *testing.T) {
	fr := fractalFrame(t)
	cam := mdimension.DefaultCamera()
	sh := DefaultShader()
	opt := Options{Width: 5, Height: 5, Workers: 1}
	a, ta, err := Raymarch(context.Background(), fr, cam, sh, opt, nil)
	if err != nil {
		t.Fatal(err)
	}
	opt.Workers = 8
	b, _, err := Raymarch(context.Background(), fr, cam, sh, opt, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("pixel component %d differs: %g vs %g", i, a.Pix[i], b.Pix[i])
		}
	}
	if ta.Rays() != 25 {
		t.Fatalf("rays=%d want 25", ta.Rays())
	}
	sum := 0
	for _, o := range []mdimension.Outcome{mdimension.Hit, mdimension.MissBounds, mdimension.MissFar, mdimension.MissSteps} {
		sum += ta.Count(o)
	}
	if sum != 25 {
		t.Fatalf("outcome counts sum to %d (%s)", sum, ta)
	}
	// the centre ray runs straight down -Z through the origin
	if ta.Count(mdimension.Hit) == 0 || colorEq(a.At(2, 2), sh.Background, 1e-12) {
		t.Fatalf("centre pixel missed: %s", ta)
	}
	if ta.MeanSteps() <= 0 {
		t.Fatalf("mean steps %g", ta.MeanSteps())
	}
}

func TestRaymarch_Errors(t *testing.T) {
	cam := mdimension.DefaultCamera()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Raymarch(ctx, fractalFrame(t), cam, DefaultShader(), Options{Width: 4, Height: 4}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}

	bare, err := mdimension.NewFrame(mdimension.FrameConfig{Dimension: 4, Projection: mdimension.DefaultProjection()})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := Raymarch(context.Background(), bare, cam, DefaultShader(), Options{Width: 4, Height: 4}, nil); !errors.Is(err, ErrNoField) {
		t.Fatalf("want ErrNoField, got %v", err)
	}
	if _, _, err := Raymarch(context.Background(), fractalFrame(t), cam, DefaultShader(), Options{}, nil); err == nil {
		t.Fatal("zero-size image accepted")
	}
}

func TestShader(t *testing.T) {
	sh := DefaultShader()
	sh.Ambient = 0
	sh.AO = false
	sh.Light = r3.Vec{Z: 1}

	miss := mdimension.HitResult{Outcome: mdimension.MissFar}
	if got := sh.Shade(nil, miss); got != sh.Background {
		t.Fatalf("miss shaded %v", got)
	}

	hit := mdimension.HitResult{Outcome: mdimension.Hit, Normal: r3.Vec{Z: 1}}
	if got := sh.Shade(nil, hit); !colorEq(got, sh.Inner, 1e-4) {
		t.Fatalf("trap 0 lit head-on: got %v want %v", got, sh.Inner)
	}
	hit.OrbitTrap = 1
	if got := sh.Shade(nil, hit); !colorEq(got, sh.Outer, 1e-4) {
		t.Fatalf("trap 1 lit head-on: got %v want %v", got, sh.Outer)
	}
	hit.Normal = r3.Vec{Z: -1}
	if got := sh.Shade(nil, hit); !colorEq(got, colorful.Color{}, 1e-12) {
		t.Fatalf("back face should be black without ambient, got %v", got)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff0000")
	if err != nil {
		t.Fatal(err)
	}
	if !colorEq(c, colorful.Color{R: 1}, 1e-9) {
		t.Fatalf("got %v", c)
	}
	if _, err := ParseColor("red"); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuffer_PNG16(t *testing.T) {
	b := NewBuffer(3, 2)
	b.Set(1, 1, colorful.Color{R: 0.5, G: 1, B: 2})
	var out bytes.Buffer
	if err := b.EncodePNG16(&out, 1); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&out)
	if err != nil {
		t.Fatal(err)
	}
	r, g, bl, a := img.At(1, 1).RGBA()
	if r != 32768 || g != 65535 || bl != 65535 || a != 65535 {
		t.Fatalf("got %d %d %d %d", r, g, bl, a)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r != 0 {
		t.Fatalf("untouched pixel r=%d", r)
	}
}

func TestTally(t *testing.T) {
	tl := NewTally()
	var r rowTally
	r.add(mdimension.HitResult{Outcome: mdimension.Hit, Steps: 10})
	r.add(mdimension.HitResult{Outcome: mdimension.MissFar, Steps: 4})
	tl.merge(&r)
	tl.merge(&r)
	if tl.Rays() != 4 || tl.Count(mdimension.Hit) != 2 || tl.Count(mdimension.MissFar) != 2 {
		t.Fatalf("tally %s rays=%d", tl, tl.Rays())
	}
	if tl.MeanSteps() != 7 {
		t.Fatalf("mean steps %g", tl.MeanSteps())
	}
	if s := tl.String(); s != "hit=2 miss_far=2" {
		t.Fatalf("String()=%q", s)
	}
}

func TestWireframe_Draw(t *testing.T) {
	w := DefaultWireframe()
	w.Width, w.Height, w.Scale, w.Points = 300, 300, 100, 0
	w.LineWidth = 3
	pos := []float64{-1, 0, 0, 1, 0, 0}
	img := w.Draw(pos, []float64{0, 1}, [][2]int{{0, 1}, {0, 7}}, nil)

	bgR, bgG, bgB, _ := img.At(150, 20).RGBA()
	r, g, b, _ := img.At(150, 150).RGBA()
	if r == bgR && g == bgG && b == bgB {
		t.Fatal("edge not drawn through the centre")
	}
	if cr, cg, cb, _ := img.At(5, 5).RGBA(); cr != bgR || cg != bgG || cb != bgB {
		t.Fatal("corner should be background")
	}
}

func TestWireframe_Faces(t *testing.T) {
	w := DefaultWireframe()
	w.Width, w.Height, w.Scale, w.Points, w.LineWidth = 100, 100, 40, 0, 1
	pos := []float64{-1, -1, 0, 1, -1, 0, 0, 1, 0}
	edges := [][2]int{{0, 1}, {1, 2}, {2, 0}}
	faces := [][3]int{{0, 1, 2}, {0, 1, 9}}

	bare := w.Draw(pos, []float64{0, 0, 0}, edges, faces)
	bgR, bgG, bgB, _ := bare.At(50, 55).RGBA()
	if r, g, b, _ := bare.At(5, 5).RGBA(); r != bgR || g != bgG || b != bgB {
		t.Fatal("faces drawn with FaceAlpha 0")
	}

	w.FaceAlpha = 0.5
	filled := w.Draw(pos, []float64{0, 0, 0}, edges, faces)
	r, g, b, _ := filled.At(50, 55).RGBA()
	if r == bgR && g == bgG && b == bgB {
		t.Fatal("triangle interior not filled")
	}
	if cr, cg, cb, _ := filled.At(5, 5).RGBA(); cr != bgR || cg != bgG || cb != bgB {
		t.Fatal("fill leaked outside the triangle")
	}
}

func TestWireframe_PolytopeAndSpin(t *testing.T) {
	cube, err := polytope.Hypercube(4, 1)
	if err != nil {
		t.Fatal(err)
	}
	base := mdimension.FrameConfig{Dimension: 4, Projection: mdimension.DefaultProjection()}
	fr, err := mdimension.NewFrame(base)
	if err != nil {
		t.Fatal(err)
	}
	w := DefaultWireframe()
	w.Width, w.Height = 64, 64
	if _, err := w.DrawPolytope(fr, cube); err != nil {
		t.Fatal(err)
	}
	cross, _ := polytope.CrossPolytope(4, 1)
	w.FaceAlpha = 0.3
	if _, err := w.DrawPolytope(fr, cross); err != nil {
		t.Fatal(err)
	}
	w.FaceAlpha = 0
	cube3, _ := polytope.Hypercube(3, 1)
	if _, err := w.DrawPolytope(fr, cube3); !errors.Is(err, mdimension.ErrVectorLength) {
		t.Fatalf("want ErrVectorLength, got %v", err)
	}

	xw, _ := mdimension.ParsePlane("XW")
	frames, err := w.Spin(context.Background(), base, xw, 4, cube, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 4 {
		t.Fatalf("got %d frames", len(frames))
	}
	var out bytes.Buffer
	if err := EncodeGIF(&out, frames, 5); err != nil {
		t.Fatal(err)
	}
	g, err := gif.DecodeAll(&out)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != 4 || g.Delay[0] != 5 {
		t.Fatalf("gif has %d frames, delay %v", len(g.Image), g.Delay)
	}
	if _, err := w.Spin(context.Background(), base, xw, 0, cube, 1); err == nil {
		t.Fatal("zero frames accepted")
	}
}
