// Package cli implements the mdimension command-line interface.
//
// Every command starts from a scene: the defaults, an optional JSON or TOML
// file (--config), MDIM_* environment overrides, an optional Lisp script
// (--script) and finally --set name=value pairs, in that order.
//
// Commands:
//   - render: raymarch a fractal slice to a 16-bit PNG
//   - project: draw a projected polytope wireframe (PNG or spinning GIF)
//   - mesh: triangulate a fractal slice to Wavefront OBJ
//   - matrix: print the composed rotation and project single points
//   - params: list the scalar scene parameters and their values
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lukaszgryglicki/mdimension/internal/config"
)

// version is set with -ldflags "-X .../internal/cli.version=v1.2.3".
var version = "dev"

// globalOpts holds the persistent flags shared by every command.
type globalOpts struct {
	verbose bool
	config  string
	script  string
	sets    []string
	workers int

	env config.Env
}

// Execute runs the command tree with logs on stderr.
func Execute(ctx context.Context) error {
	return NewRootCmd(os.Stderr).ExecuteContext(ctx)
}

// NewRootCmd builds the command tree. Logs go to logOut.
func NewRootCmd(logOut io.Writer) *cobra.Command {
	g := &globalOpts{}
	root := &cobra.Command{
		Use:          "mdimension",
		Short:        "Rotate, project and raymarch objects in 3 to 11 dimensions",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env, err := config.ParseEnv()
			if err != nil {
				return err
			}
			g.env = env
			level := log.InfoLevel
			if g.verbose || env.Debug {
				level = log.DebugLevel
			}
			logger := newLogger(logOut, level).With("run", uuid.NewString()[:8])
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, logger))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVarP(&g.config, "config", "c", "", "scene file (.json or .toml)")
	pf.StringVar(&g.script, "script", "", "zygomys script applied after the scene file")
	pf.StringArrayVar(&g.sets, "set", nil, "override a scalar parameter, e.g. --set power=6 --set rot.XW=30")
	pf.IntVarP(&g.workers, "workers", "j", 0, "worker goroutines (default: number of CPUs)")

	root.AddCommand(newRenderCmd(g))
	root.AddCommand(newProjectCmd(g))
	root.AddCommand(newMeshCmd(g))
	root.AddCommand(newMatrixCmd(g))
	root.AddCommand(newParamsCmd(g))
	return root
}
