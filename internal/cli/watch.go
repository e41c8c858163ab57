package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-globe/pkg/client"
	"github.com/dd0wney/cluso-globe/pkg/markers"
	"github.com/dd0wney/cluso-globe/pkg/metrics"
)

func newWatchCmd(g *globalFlags) *cobra.Command {
	var (
		filter      markers.Filter
		baseURL     string
		file        string
		interval    time.Duration
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the marker API in a terminal dashboard",
		Long:  `Load markers from a running server (or a dataset file) and show them live. Press r to refetch, q to quit.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}

			var src client.Source
			if file != "" {
				src = client.FileSource{Path: file}
			} else {
				if baseURL == "" {
					baseURL = cfg.Client.BaseURL
				}
				hs := client.NewHTTPSource(baseURL, filter)
				hs.HTTPClient = &http.Client{Timeout: cfg.Client.Timeout}
				src = hs
			}

			var p *tea.Program
			opts := []client.Option{client.WithObserver(func(s client.Snapshot) {
				p.Send(snapshotMsg(s))
			})}
			if metricsAddr != "" {
				reg := metrics.NewRegistry()
				_, stop, err := serveMetrics(metricsAddr, reg)
				if err != nil {
					return err
				}
				defer stop()
				opts = append(opts, client.WithRecorder(reg))
			}
			ctrl := client.New(src, opts...)
			p = tea.NewProgram(newWatchModel(cmd.Context(), ctrl, interval), tea.WithContext(cmd.Context()))

			_, err = p.Run()
			return err
		},
	}
	addFilterFlags(cmd, &filter)
	cmd.Flags().StringVar(&baseURL, "api", "", "API base URL (default client.baseURL)")
	cmd.Flags().StringVar(&file, "file", "", "read a dataset file instead of the API")
	cmd.Flags().DurationVar(&interval, "interval", 0, "refetch periodically (0 disables)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve client load metrics on this address")
	return cmd
}

// serveMetrics exposes reg under /metrics on addr until stop is called. It
// returns the bound address.
func serveMetrics(addr string, reg *metrics.Registry) (bound string, stop func(), err error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.Serve(ln) }()

	return ln.Addr().String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

var (
	watchTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8F9FE")).
			Background(lipgloss.Color("#2B0957")).
			Padding(0, 2)

	watchStatsStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#A25CFA")).
			Padding(0, 1)

	watchErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true)
	watchSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6FA45")).Bold(true)
)

type watchKeyMap struct {
	Refetch key.Binding
	Quit    key.Binding
	Up      key.Binding
	Down    key.Binding
}

func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refetch, k.Up, k.Down, k.Quit}
}

func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var watchKeys = watchKeyMap{
	Refetch: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refetch")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
}

// snapshotMsg carries a committed controller transition into the program.
type snapshotMsg client.Snapshot

// loadDoneMsg reports that one Load call returned.
type loadDoneMsg struct{ err error }

type tickMsg time.Time

type watchModel struct {
	ctx      context.Context
	ctrl     *client.Controller
	interval time.Duration

	snap    client.Snapshot
	lastErr error
	spinner spinner.Model
	table   table.Model
	help    help.Model
}

func newWatchModel(ctx context.Context, ctrl *client.Controller, interval time.Duration) watchModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 8},
			{Title: "Name", Width: 18},
			{Title: "Region", Width: 16},
			{Title: "Type", Width: 11},
			{Title: "Links", Width: 6},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return watchModel{
		ctx:      ctx,
		ctrl:     ctrl,
		interval: interval,
		snap:     ctrl.Snapshot(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		table:    t,
		help:     help.New(),
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), m.tick())
}

func (m watchModel) load() tea.Cmd {
	return func() tea.Msg {
		return loadDoneMsg{err: m.ctrl.Load(m.ctx)}
	}
}

func (m watchModel) tick() tea.Cmd {
	if m.interval <= 0 {
		return nil
	}
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, watchKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, watchKeys.Refetch):
			return m, m.load()
		}

	case snapshotMsg:
		m.snap = client.Snapshot(msg)
		m.table.SetRows(markerRows(m.snap.Markers))
		return m, nil

	case loadDoneMsg:
		if !client.IsSuperseded(msg.err) {
			m.lastErr = msg.err
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.load(), m.tick())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(watchTitleStyle.Render("cluso-globe"))
	b.WriteString("  ")
	b.WriteString(m.status())
	b.WriteString("\n\n")

	if stats := m.snap.Statistics; stats != nil {
		b.WriteString(watchStatsStyle.Render(formatStats(*stats, len(m.snap.Arcs))))
		b.WriteString("\n")
	}
	b.WriteString(m.table.View())
	b.WriteString("\n")
	// the header already shows a current error
	if m.lastErr != nil && m.snap.State != client.StateError {
		b.WriteString(watchErrorStyle.Render("last load failed: " + m.lastErr.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(watchKeys))
	b.WriteString("\n")
	return b.String()
}

func (m watchModel) status() string {
	switch m.snap.State {
	case client.StateLoading:
		return m.spinner.View() + " loading"
	case client.StateError:
		return watchErrorStyle.Render("error: " + m.snap.Err)
	case client.StateSuccess:
		return watchSuccessStyle.Render(fmt.Sprintf("%d markers", len(m.snap.Markers)))
	default:
		return "idle"
	}
}

func markerRows(ms []markers.Marker) []table.Row {
	rows := make([]table.Row, 0, len(ms))
	for _, mk := range ms {
		rows = append(rows, table.Row{mk.ID, mk.Name, mk.Region, string(mk.Type), strconv.Itoa(len(mk.Connections))})
	}
	return rows
}

func formatStats(s markers.Statistics, arcs int) string {
	regions := make([]string, 0, len(s.Regions))
	for name, n := range s.Regions {
		regions = append(regions, fmt.Sprintf("%s %d", name, n))
	}
	sort.Strings(regions)

	return fmt.Sprintf("markers %d  connections %d  arcs %d\nregions: %s",
		s.TotalMarkers, s.TotalConnections, arcs, strings.Join(regions, ", "))
}
