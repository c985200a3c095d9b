package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lukaszgryglicki/mdimension/internal/config"
)

func newParamsCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "List scalar scene parameters and their current values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParams(cmd.Context(), g, cmd.OutOrStdout())
		},
	}
}

func runParams(ctx context.Context, g *globalOpts, w io.Writer) error {
	cfg, err := g.scene(ctx)
	if err != nil {
		return err
	}
	for _, name := range config.Params() {
		v, err := cfg.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s = %g\n", name, v)
	}
	planes := make([]string, 0, len(cfg.RotDeg))
	for k := range cfg.RotDeg {
		planes = append(planes, k)
	}
	sort.Strings(planes)
	for _, k := range planes {
		fmt.Fprintf(w, "rot.%s = %g\n", k, cfg.RotDeg[k])
	}
	return nil
}
