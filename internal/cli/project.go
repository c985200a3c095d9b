package cli

import (
	"context"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/spf13/cobra"

	"github.com/lukaszgryglicki/mdimension/internal/mdimension"
	"github.com/lukaszgryglicki/mdimension/internal/render"
)

type projectOpts struct {
	output string
	gif    bool
	frames int
	faces  float64
}

func newProjectCmd(g *globalOpts) *cobra.Command {
	var opts projectOpts
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Draw a projected polytope wireframe",
		Long: `Project the scene object down to 3-D and draw its edges, coloured by
effective depth. Triangular faces are filled when --faces is above 0.
With --gif the object spins a full turn in the scene's
spin plane (image.spinPlane, default XW).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProject(cmd.Context(), g, &opts)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: scene image.out / image.gifOut)")
	cmd.Flags().BoolVar(&opts.gif, "gif", false, "write a spinning animated GIF")
	cmd.Flags().IntVar(&opts.frames, "frames", 0, "GIF frame count (default: scene image.frames)")
	cmd.Flags().Float64Var(&opts.faces, "faces", -1, "triangle face opacity in [0,1] (default: scene image.faces)")
	return cmd
}

func runProject(ctx context.Context, g *globalOpts, opts *projectOpts) error {
	logger := loggerFromContext(ctx)
	cfg, err := g.scene(ctx)
	if err != nil {
		return err
	}
	poly, err := cfg.Polytope()
	if err != nil {
		return err
	}
	fc, err := cfg.Frame()
	if err != nil {
		return err
	}
	fc.Fractal = mdimension.FractalParams{}
	w := cfg.Wireframe()
	if opts.faces >= 0 {
		w.FaceAlpha = opts.faces
	}
	prog := newProgress(logger)
	logger.Debug("projecting", "object", poly.Name, "vertices", poly.VertexCount(), "edges", len(poly.Edges))

	if opts.gif {
		plane, err := cfg.Plane()
		if err != nil {
			return err
		}
		n := opts.frames
		if n <= 0 {
			n = cfg.Image.Frames
		}
		frames, err := w.Spin(ctx, fc, plane, n, poly, cfg.Workers)
		if err != nil {
			return err
		}
		path, err := outputPath(opts.output, cfg.Image.GIFOut)
		if err != nil {
			return err
		}
		if err := render.SaveGIF(path, frames, cfg.Image.GIFDelay); err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Wrote %s (%d frames, %v spin)", path, n, plane))
		return nil
	}

	fr, err := mdimension.NewFrame(fc)
	if err != nil {
		return err
	}
	img, err := w.DrawPolytope(fr, poly)
	if err != nil {
		return err
	}
	path, err := outputPath(opts.output, cfg.Image.Out)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Wrote %s (%s)", path, poly.Name))
	return nil
}
