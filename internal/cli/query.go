package cli

import (
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-globe/pkg/markers"
)

func newQueryCmd(g *globalFlags) *cobra.Command {
	var (
		filter markers.Filter
		output string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter markers from the configured dataset",
		Example: `  cluso-globe query --region south
  cluso-globe query --type capital --limit 3 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := g.dataset(cmd.Context())
			if err != nil {
				return err
			}
			res := ds.Query(filter)
			return writeOutput(cmd.OutOrStdout(), output, res, func() string { return renderMarkers(res) })
		},
	}
	addFilterFlags(cmd, &filter)
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table, json, yaml)")
	return cmd
}

func newArcsCmd(g *globalFlags) *cobra.Command {
	var (
		filter markers.Filter
		output string
	)

	cmd := &cobra.Command{
		Use:   "arcs",
		Short: "Print the renderer arcs of the filtered markers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := g.dataset(cmd.Context())
			if err != nil {
				return err
			}
			arcs := markers.Flatten(ds.Query(filter).Markers)
			return writeOutput(cmd.OutOrStdout(), output, arcs, func() string { return renderArcs(arcs) })
		},
	}
	addFilterFlags(cmd, &filter)
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format (table, json, yaml)")
	return cmd
}
