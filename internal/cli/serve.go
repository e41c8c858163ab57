package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-globe/pkg/api"
	"github.com/dd0wney/cluso-globe/pkg/config"
	"github.com/dd0wney/cluso-globe/pkg/logging"
	"github.com/dd0wney/cluso-globe/pkg/markers"
	"github.com/dd0wney/cluso-globe/pkg/metrics"
	"github.com/dd0wney/cluso-globe/pkg/server"
	globetls "github.com/dd0wney/cluso-globe/pkg/tls"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the marker API",
		Long:  `Serve the marker API, GraphQL endpoint, health probes and metrics. SIGHUP reloads the dataset; SIGINT and SIGTERM drain and exit.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			logger := g.logger(cfg, cmd.ErrOrStderr())
			svc, err := newService(cmd.Context(), cfg, logger, metrics.NewRegistry())
			if err != nil {
				return err
			}
			return svc.gs.Run(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	return cmd
}

// service is the wired API server and its listener.
type service struct {
	api *api.Server
	gs  *server.GracefulServer
}

func newService(ctx context.Context, cfg config.Config, logger logging.Logger, reg *metrics.Registry) (*service, error) {
	ds, origin, err := loadDataset(ctx, cfg.Dataset)
	if err != nil {
		return nil, err
	}
	logger.Info("Dataset loaded",
		logging.String("origin", origin),
		logging.Count(ds.Len()),
		logging.String("version", ds.Metadata().Version))
	warnOutOfRange(logger, ds)

	tlsConfig, err := globetls.Load(cfg.Server.TLS)
	if err != nil {
		return nil, err
	}

	svc := &service{}
	srv, err := api.NewServer(markers.NewStore(ds), apiConfig(cfg),
		api.WithLogger(logger),
		api.WithMetrics(reg),
		api.WithShutdownSignal(func() bool { return svc.gs.IsShuttingDown() }),
	)
	if err != nil {
		return nil, err
	}
	svc.api = srv

	svc.gs = server.NewGracefulServer(cfg.Server.Addr(), srv.Handler(),
		server.WithLogger(logger),
		server.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		server.WithTLSConfig(tlsConfig),
		server.WithReloadFunc(func() error {
			ds, _, err := loadDataset(context.Background(), cfg.Dataset)
			if err != nil {
				return err
			}
			warnOutOfRange(logger, ds)
			srv.Reload(ds)
			return nil
		}),
	)
	return svc, nil
}

func apiConfig(cfg config.Config) api.Config {
	return api.Config{
		Delay:           cfg.Server.Delay,
		Environment:     cfg.Server.Environment,
		CORSOrigins:     cfg.Server.CORSOrigins,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		GraphQLMaxDepth: cfg.Server.GraphQLMaxDepth,
		TLSEnabled:      cfg.Server.TLS.Enabled,
		Globe:           cfg.Globe,
	}
}

// warnOutOfRange logs coordinates the globe cannot place; they are still served.
func warnOutOfRange(logger logging.Logger, ds *markers.Dataset) {
	if ids := ds.OutOfRange(); len(ids) > 0 {
		logger.Warn("Dataset has coordinates out of range",
			logging.Count(len(ids)),
			logging.String("entries", strings.Join(ids, ",")))
	}
}
