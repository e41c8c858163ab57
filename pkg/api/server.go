package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dd0wney/cluso-globe/pkg/api/middleware"
	"github.com/dd0wney/cluso-globe/pkg/globe"
	gql "github.com/dd0wney/cluso-globe/pkg/graphql"
	"github.com/dd0wney/cluso-globe/pkg/health"
	"github.com/dd0wney/cluso-globe/pkg/logging"
	"github.com/dd0wney/cluso-globe/pkg/markers"
	"github.com/dd0wney/cluso-globe/pkg/metrics"
)

// EnvironmentProduction hides diagnostic error details from failure envelopes.
const EnvironmentProduction = "production"

// DefaultDelay is the simulated network latency of GET /api/markers.
const DefaultDelay = 500 * time.Millisecond

// Config controls the HTTP surface.
type Config struct {
	// Delay is applied to every GET /api/markers before it is answered. Zero disables it.
	Delay        time.Duration
	Environment  string
	CORSOrigins  []string
	MaxBodyBytes int64
	// GraphQLMaxDepth bounds selection nesting on /graphql.
	GraphQLMaxDepth int
	// TLSEnabled adds Strict-Transport-Security to every response.
	TLSEnabled bool
	Globe      globe.Config
}

// DefaultConfig returns the development defaults.
func DefaultConfig() Config {
	return Config{
		Delay:           DefaultDelay,
		Environment:     "development",
		MaxBodyBytes:    1 << 20,
		GraphQLMaxDepth: gql.DefaultMaxDepth,
		Globe:           globe.DefaultConfig(),
	}
}

// Server serves the marker dataset over HTTP.
type Server struct {
	store        *markers.Store
	cfg          Config
	logger       logging.Logger
	metrics      *metrics.Registry
	health       *health.HealthChecker
	shuttingDown func() bool
	now          func() time.Time
	graphql      http.Handler
	handler      http.Handler
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics records HTTP and query metrics into r and serves it on /metrics.
func WithMetrics(r *metrics.Registry) Option {
	return func(s *Server) { s.metrics = r }
}

// WithShutdownSignal fails readiness once fn reports true.
func WithShutdownSignal(fn func() bool) Option {
	return func(s *Server) { s.shuttingDown = fn }
}

// WithClock overrides the envelope timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer builds the router over store. The store may be empty; reads then
// fail with 500 until a dataset is installed.
func NewServer(store *markers.Store, cfg Config, opts ...Option) (*Server, error) {
	s := &Server{
		store:        store,
		cfg:          cfg,
		logger:       logging.NewNopLogger(),
		shuttingDown: func() bool { return false },
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logging.Component("api"))

	var recorder gql.QueryRecorder
	if s.metrics != nil {
		recorder = s.metrics
	}
	schema, err := gql.NewSchema(store, recorder)
	if err != nil {
		return nil, err
	}
	s.graphql = gql.NewHandler(schema, cfg.GraphQLMaxDepth, s.logger)

	s.health = s.newHealthChecker()
	s.publishDatasetSize()
	s.handler = s.routes()
	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Health exposes the checker for callers registering extra checks.
func (s *Server) Health() *health.HealthChecker {
	return s.health
}

// Reload installs d as the served dataset.
func (s *Server) Reload(d *markers.Dataset) {
	s.store.Replace(d)
	s.publishDatasetSize()
	m, c, _ := s.store.Size()
	s.logger.Info("Dataset reloaded",
		logging.Int("markers", m),
		logging.Int("connections", c),
		logging.String("version", d.Metadata().Version))
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(s.logger))
	if s.metrics != nil {
		r.Use(middleware.Metrics(s.metrics, routePattern))
	}
	r.Use(middleware.PanicRecovery(s.logger, s.respondPanic))
	r.Use(middleware.SecurityHeaders(&middleware.SecurityHeadersConfig{TLSEnabled: s.cfg.TLSEnabled}))
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = s.cfg.CORSOrigins
	r.Use(middleware.CORS(cors))
	r.Use(middleware.BodySizeLimit(s.cfg.MaxBodyBytes))

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Get("/markers", s.handleListMarkers)
		r.Post("/markers", s.handleCreateMarker)
		r.Get("/markers/{id}", s.handleGetMarker)
		r.Get("/arcs", s.handleListArcs)
		r.Get("/globe", s.handleGlobe)
	})
	r.Method(http.MethodPost, "/graphql", s.graphql)

	r.Get("/health", s.health.HTTPHandler())
	r.Get("/health/live", s.health.LivenessHandler())
	r.Get("/health/ready", s.health.ReadinessHandler())
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	return r
}

func (s *Server) newHealthChecker() *health.HealthChecker {
	hc := health.NewHealthChecker()
	dataset := health.DatasetCheck(s.store.Size)

	hc.RegisterCheck("dataset", dataset)
	hc.RegisterCheck("memory", health.MemoryCheck(health.RuntimeMemory))
	hc.RegisterReadinessCheck("dataset", dataset)
	hc.RegisterReadinessCheck("shutdown", health.ShutdownCheck(func() bool { return s.shuttingDown() }))
	hc.RegisterLivenessCheck("api", func() health.Check { return health.SimpleCheck("api") })
	return hc
}

func (s *Server) publishDatasetSize() {
	if s.metrics == nil {
		return
	}
	m, c, _ := s.store.Size()
	s.metrics.SetDatasetSize(m, c)
}

func (s *Server) recordQuery(status string, results int) {
	if s.metrics != nil {
		s.metrics.RecordMarkerQuery("rest", status, results)
	}
}

// routePattern labels metrics by chi route so ids do not explode cardinality.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
