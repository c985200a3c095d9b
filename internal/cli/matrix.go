package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lukaszgryglicki/mdimension/internal/mdimension"
)

func newMatrixCmd(g *globalOpts) *cobra.Command {
	var points []string
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Print the composed rotation and project points through it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatrix(cmd.Context(), g, points, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringArrayVarP(&points, "point", "p", nil, "n-D point to project, e.g. 1,0,0,0 (repeatable)")
	return cmd
}

func runMatrix(ctx context.Context, g *globalOpts, points []string, w io.Writer) error {
	cfg, err := g.scene(ctx)
	if err != nil {
		return err
	}
	fc, err := cfg.Frame()
	if err != nil {
		return err
	}
	fc.Fractal = mdimension.FractalParams{}
	fr, err := mdimension.NewFrame(fc)
	if err != nil {
		return err
	}
	R := fr.Rotation
	fmt.Fprintf(w, "R (%dx%d):\n%v\n", R.Dim(), R.Dim(), R)
	fmt.Fprintf(w, "det=%.6f orthogonal=%v\n", R.Det(), R.IsOrthogonal(1e-9))

	for _, s := range points {
		v, err := parsePoint(s)
		if err != nil {
			return err
		}
		q, depth, err := fr.Projector.Project(v)
		if err != nil {
			return fmt.Errorf("point %q: %w", s, err)
		}
		fmt.Fprintf(w, "%s -> xyz=(%.4f, %.4f, %.4f) depth=%.4f\n", s, q.X, q.Y, q.Z, depth)
	}
	return nil
}

func parsePoint(s string) (mdimension.NDVector, error) {
	parts := strings.Split(s, ",")
	v := make(mdimension.NDVector, len(parts))
	for i, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", s, err)
		}
		v[i] = x
	}
	return v, nil
}
