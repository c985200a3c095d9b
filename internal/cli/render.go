package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lukaszgryglicki/mdimension/internal/mdimension"
	"github.com/lukaszgryglicki/mdimension/internal/render"
)

func newRenderCmd(g *globalOpts) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Raymarch a fractal slice to a 16-bit PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), g, out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output PNG (default: scene image.out)")
	return cmd
}

func runRender(ctx context.Context, g *globalOpts, out string) error {
	logger := loggerFromContext(ctx)
	cfg, err := g.scene(ctx)
	if err != nil {
		return err
	}
	cfg.EnsureFractal()
	fc, err := cfg.Frame()
	if err != nil {
		return err
	}
	fr, err := mdimension.NewFrame(fc)
	if err != nil {
		return err
	}
	cam, err := cfg.BuildCamera()
	if err != nil {
		return err
	}
	sh, err := cfg.Shader()
	if err != nil {
		return err
	}
	path, err := outputPath(out, cfg.Image.Out)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	logger.Debug("raymarching",
		"dimension", fr.Field.Dim(),
		"formula", fc.Fractal.Formula,
		"mode", fc.Fractal.Mode,
		"fastPath", fr.Field.FastPath(),
	)
	buf, tally, err := render.Raymarch(ctx, fr, cam, sh, cfg.RenderOptions(), logger)
	if err != nil {
		return err
	}
	if err := buf.SavePNG16(path, cfg.Image.Gamma); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s [%s]", path, tally))
	return nil
}
