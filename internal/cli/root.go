// Package cli implements the cluso-globe command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-globe/pkg/config"
	"github.com/dd0wney/cluso-globe/pkg/logging"
	"github.com/dd0wney/cluso-globe/pkg/markers"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion stamps the values printed by --version; main passes them from ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

type globalFlags struct {
	configPath string
	verbose    bool
}

// Execute runs the command tree against the process's stdio.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "cluso-globe",
		Short:         "Serve and explore the marker graph behind the globe",
		Long:          `cluso-globe serves a static graph of geographic markers and their connections over HTTP, and ships tools to query, export and watch it.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetVersionTemplate(fmt.Sprintf("cluso-globe %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newServeCmd(g))
	root.AddCommand(newQueryCmd(g))
	root.AddCommand(newArcsCmd(g))
	root.AddCommand(newExportCmd(g))
	root.AddCommand(newWatchCmd(g))

	return root
}

func (g *globalFlags) config() (config.Config, error) {
	return config.Load(g.configPath)
}

func (g *globalFlags) logger(cfg config.Config, w io.Writer) logging.Logger {
	level := logging.ParseLevel(cfg.Log.Level)
	if g.verbose {
		level = logging.DebugLevel
	}
	return logging.NewJSONLogger(w, level)
}

// dataset loads the configured dataset for the offline commands.
func (g *globalFlags) dataset(ctx context.Context) (*markers.Dataset, error) {
	cfg, err := g.config()
	if err != nil {
		return nil, err
	}
	ds, _, err := loadDataset(ctx, cfg.Dataset)
	return ds, err
}

func addFilterFlags(cmd *cobra.Command, f *markers.Filter) {
	cmd.Flags().StringVar(&f.Region, "region", "", "case-insensitive region substring")
	cmd.Flags().StringVar(&f.Type, "type", "", "marker type (capital, city, city-state, other)")
	cmd.Flags().StringVar(&f.Limit, "limit", "", "maximum number of markers")
}
