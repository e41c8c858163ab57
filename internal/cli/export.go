package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-globe/pkg/markers"
	"github.com/dd0wney/cluso-globe/pkg/markers/source"
)

func newExportCmd(g *globalFlags) *cobra.Command {
	var (
		format   string
		compress bool
		outPath  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the configured dataset as a loadable document",
		Long:  `Write the configured dataset as a JSON or YAML document, optionally snappy-compressed. The result can be served with dataset.path.`,
		Example: `  cluso-globe export --format yaml --out markers.yaml
  cluso-globe export --compress --out markers.json.sz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := g.dataset(cmd.Context())
			if err != nil {
				return err
			}

			if outPath != "" && !cmd.Flags().Changed("format") && !cmd.Flags().Changed("compress") {
				f, c, err := source.DetectFormat(outPath)
				if err != nil {
					return err
				}
				format, compress = string(f), c
			}

			data, err := source.Encode(exportPayload(ds, time.Now()), source.Format(format), compress)
			if err != nil {
				return err
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d markers to %s\n", ds.Len(), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(source.FormatJSON), "document format (json, yaml)")
	cmd.Flags().BoolVar(&compress, "compress", false, "snappy-compress the document")
	cmd.Flags().StringVar(&outPath, "out", "", "output file; format is taken from its extension unless --format or --compress is set")
	return cmd
}

func exportPayload(ds *markers.Dataset, now time.Time) *markers.Payload {
	return &markers.Payload{
		Success:   true,
		Message:   "Markers loaded successfully",
		Timestamp: now.UTC().Format("2006-01-02T15:04:05.000Z"),
		Data: &markers.PayloadData{
			Markers:    ds.Markers(),
			Statistics: ds.Statistics(),
			Metadata:   ds.Metadata(),
		},
	}
}
