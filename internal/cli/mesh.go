package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lukaszgryglicki/mdimension/internal/mdimension"
	"github.com/lukaszgryglicki/mdimension/internal/mesh"
)

func newMeshCmd(g *globalOpts) *cobra.Command {
	var (
		out   string
		cells int
	)
	cmd := &cobra.Command{
		Use:   "mesh",
		Short: "Triangulate a fractal slice to Wavefront OBJ",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMesh(cmd.Context(), g, out, cells)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output OBJ (default: scene mesh.out)")
	cmd.Flags().IntVar(&cells, "cells", 0, "marching cubes cells along each axis (default: scene mesh.cells)")
	return cmd
}

func runMesh(ctx context.Context, g *globalOpts, out string, cells int) error {
	logger := loggerFromContext(ctx)
	cfg, err := g.scene(ctx)
	if err != nil {
		return err
	}
	cfg.EnsureFractal()
	if cells > 0 {
		cfg.Mesh.Cells = cells
	}
	fc, err := cfg.Frame()
	if err != nil {
		return err
	}
	fr, err := mdimension.NewFrame(fc)
	if err != nil {
		return err
	}
	opt, err := cfg.MeshOptions()
	if err != nil {
		return err
	}
	path, err := outputPath(out, cfg.Mesh.Out)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	tris, err := mesh.Triangulate(fr.Field, opt)
	if err != nil {
		return err
	}
	st := mesh.Summarize(tris)
	logger.Debug("triangulated", "triangles", st.Triangles, "vertices", st.Vertices, "min", st.Min, "max", st.Max)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := mesh.WriteOBJ(f, name, tris); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Wrote %s (%d triangles)", path, st.Triangles))
	return nil
}
