package render

import (
	"context"
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/sync/errgroup"

	"github.com/lukaszgryglicki/mdimension/internal/mdimension"
	"github.com/lukaszgryglicki/mdimension/internal/polytope"
)

// Wireframe draws projected edges and, when FaceAlpha > 0, translucent
// triangular faces. X/Y of the projected point go to the image plane (Y up);
// the effective depth colours the edge from Far to Near.
type Wireframe struct {
	Width, Height int
	Scale         float64 // pixels per unit
	LineWidth     float64
	Points        float64 // vertex dot radius, 0 disables
	FaceAlpha     float64 // face fill opacity in [0,1], 0 disables
	Background    colorful.Color
	Near, Far     colorful.Color
}

// DefaultWireframe is a 512x512 canvas with a unit-sized object filling
// roughly half of it.
func DefaultWireframe() Wireframe {
	return Wireframe{
		Width:      512,
		Height:     512,
		Scale:      160,
		LineWidth:  1.5,
		Points:     2,
		Background: colorful.Color{R: 0.03, G: 0.03, B: 0.05},
		Near:       colorful.Hcl(60, 0.6, 0.9).Clamped(),
		Far:        colorful.Hcl(260, 0.4, 0.35).Clamped(),
	}
}

// Draw renders flat xyz positions and per-vertex depths. Faces go down
// first, then edges; both are painted back to front so nearer ones stay on
// top. Faces are skipped when FaceAlpha is 0.
func (w Wireframe) Draw(positions, depths []float64, edges [][2]int, faces [][3]int) image.Image {
	dc := gg.NewContext(w.Width, w.Height)
	dc.SetColor(w.Background)
	dc.Clear()

	count := len(positions) / 3
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < count && i < len(depths); i++ {
		lo = math.Min(lo, depths[i])
		hi = math.Max(hi, depths[i])
	}
	tone := func(d float64) colorful.Color {
		if !(hi > lo) {
			return w.Near
		}
		return w.Far.BlendLab(w.Near, (d-lo)/(hi-lo)).Clamped()
	}
	depthAt := func(i int) float64 {
		if i < len(depths) {
			return depths[i]
		}
		return 0
	}

	cx, cy := float64(w.Width)/2, float64(w.Height)/2
	screen := func(i int) (float64, float64) {
		return cx + positions[3*i]*w.Scale, cy - positions[3*i+1]*w.Scale
	}

	order := make([][2]int, 0, len(edges))
	for _, e := range edges {
		if e[0] >= 0 && e[1] >= 0 && e[0] < count && e[1] < count {
			order = append(order, e)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		da := depthAt(order[a][0]) + depthAt(order[a][1])
		db := depthAt(order[b][0]) + depthAt(order[b][1])
		return da < db
	})

	if alpha := clamp01(w.FaceAlpha); alpha > 0 {
		tris := make([][3]int, 0, len(faces))
		for _, f := range faces {
			if f[0] >= 0 && f[1] >= 0 && f[2] >= 0 && f[0] < count && f[1] < count && f[2] < count {
				tris = append(tris, f)
			}
		}
		sort.SliceStable(tris, func(a, b int) bool {
			da := depthAt(tris[a][0]) + depthAt(tris[a][1]) + depthAt(tris[a][2])
			db := depthAt(tris[b][0]) + depthAt(tris[b][1]) + depthAt(tris[b][2])
			return da < db
		})
		for _, f := range tris {
			c := tone((depthAt(f[0]) + depthAt(f[1]) + depthAt(f[2])) / 3)
			for _, i := range f {
				dc.LineTo(screen(i))
			}
			dc.ClosePath()
			dc.SetRGBA(c.R, c.G, c.B, alpha)
			dc.Fill()
		}
	}

	dc.SetLineWidth(w.LineWidth)
	dc.SetLineCapRound()
	for _, e := range order {
		x0, y0 := screen(e[0])
		x1, y1 := screen(e[1])
		dc.SetColor(tone((depthAt(e[0]) + depthAt(e[1])) / 2))
		dc.DrawLine(x0, y0, x1, y1)
		dc.Stroke()
	}
	if w.Points > 0 {
		for i := 0; i < count; i++ {
			x, y := screen(i)
			dc.SetColor(tone(depthAt(i)))
			dc.DrawCircle(x, y, w.Points)
			dc.Fill()
		}
	}
	return dc.Image()
}

// DrawPolytope projects p through the frame and draws it. The eye distance
// is pushed back so no vertex crosses the eye plane.
func (w Wireframe) DrawPolytope(fr *mdimension.Frame, p *polytope.Polytope) (image.Image, error) {
	if p.Dim != fr.Projector.Dim() {
		return nil, fmt.Errorf("%w: polytope dimension %d, frame dimension %d", mdimension.ErrVectorLength, p.Dim, fr.Projector.Dim())
	}
	proj := fr.Projector.WithSafeDistance(p.Vertices, mdimension.DefaultDepthMargin)
	pos, depths := proj.ProjectAll(p.Vertices)
	var faces [][3]int
	if w.FaceAlpha > 0 {
		faces = polytope.Triangles(p.Vertices, p.Dim, p.Edges)
	}
	return w.Draw(pos, depths, p.Edges, faces), nil
}

// Spin renders frames of p turning a full revolution in plane. Each frame
// gets its own immutable Frame; frames are drawn in parallel.
func (w Wireframe) Spin(ctx context.Context, base mdimension.FrameConfig, plane mdimension.Plane, frames int, p *polytope.Polytope, workers int) ([]image.Image, error) {
	if frames <= 0 {
		return nil, fmt.Errorf("spin: frame count must be positive, got %d", frames)
	}
	out := make([]image.Image, frames)
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := 0; i < frames; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cfg := base
			cfg.Fractal = mdimension.FractalParams{}
			cfg.Angles = make(mdimension.RotationAngles, len(base.Angles)+1)
			for k, v := range base.Angles {
				cfg.Angles[k] = v
			}
			cfg.Angles[plane] += 2 * math.Pi * float64(i) / float64(frames)
			fr, err := mdimension.NewFrame(cfg)
			if err != nil {
				return err
			}
			img, err := w.DrawPolytope(fr, p)
			if err != nil {
				return err
			}
			out[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
