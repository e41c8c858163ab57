package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-globe/pkg/markers"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A25CFA")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// writeOutput encodes v as JSON or YAML, or prints the rendered table.
func writeOutput(w io.Writer, format string, v any, render func() string) error {
	switch format {
	case outputTable:
		_, err := fmt.Fprintln(w, render())
		return err
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func renderMarkers(res markers.Result) string {
	t := newTable("ID", "NAME", "COUNTRY", "REGION", "TYPE", "POPULATION", "CONNECTIONS")
	for _, m := range res.Markers {
		t.Row(m.ID, m.Name, m.Country, m.Region, string(m.Type),
			strconv.FormatInt(m.Population, 10), strconv.Itoa(len(m.Connections)))
	}
	return t.String() + "\n" + dimStyle.Render(fmt.Sprintf("%d markers, %d connections",
		res.Statistics.TotalMarkers, res.Statistics.TotalConnections))
}

func renderArcs(arcs []markers.Arc) string {
	t := newTable("ORDER", "START", "END", "ALT", "COLOR")
	for _, a := range arcs {
		t.Row(strconv.Itoa(a.Order),
			formatPosition(a.StartLat, a.StartLng),
			formatPosition(a.EndLat, a.EndLng),
			strconv.FormatFloat(a.ArcAlt, 'f', 2, 64),
			a.Color)
	}
	return t.String() + "\n" + dimStyle.Render(fmt.Sprintf("%d arcs", len(arcs)))
}

func formatPosition(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', 4, 64) + ", " + strconv.FormatFloat(lng, 'f', 4, 64)
}
