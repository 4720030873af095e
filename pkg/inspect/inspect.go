package inspect

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/ctxsel/pkg/ctxsel"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config configures the inspector.
type Config struct {
	// Gatherer backs GET /metrics. Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Logger is the structured logger. Default: slog.Default().
	Logger *slog.Logger

	// EventBuffer is the per-connection event buffer of GET /ws. Slow
	// clients miss events once it is full. Default: 64.
	EventBuffer int

	// ShutdownTimeout bounds graceful shutdown in ListenAndServe.
	// Default: 5s.
	ShutdownTimeout time.Duration
}

// Option configures the inspector.
type Option func(*Config)

// WithGatherer sets the metrics gatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(c *Config) {
		c.Gatherer = g
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithEventBuffer sets the per-connection event buffer.
func WithEventBuffer(n int) Option {
	return func(c *Config) {
		c.EventBuffer = n
	}
}

// Server is the inspector HTTP handler.
type Server struct {
	cfg      Config
	registry *ctxsel.Registry
	router   chi.Router
	stream   *eventStream
}

// New creates an inspector over reg.
func New(reg *ctxsel.Registry, opts ...Option) *Server {
	cfg := Config{
		Gatherer:        prometheus.DefaultGatherer,
		Logger:          slog.Default(),
		EventBuffer:     64,
		ShutdownTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Server{
		cfg:      cfg,
		registry: reg,
		stream:   newEventStream(reg, cfg.EventBuffer, cfg.Logger),
	}

	r := chi.NewRouter()
	r.Get("/contexts", s.handleContexts)
	r.Get("/contexts/{name}", s.handleContext)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", s.stream.ServeHTTP)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ClientCount returns the number of connected event streams.
func (s *Server) ClientCount() int {
	return s.stream.ClientCount()
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully and closes every event stream.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("inspector listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.stream.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleContexts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.registry.Contexts())
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	info, err := s.registry.Context(name)
	if errors.Is(err, ctxsel.ErrUnknownContext) {
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error(), Context: name})
		return
	}
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error(), Context: name})
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

type errorBody struct {
	Error   string `json:"error"`
	Context string `json:"context,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.cfg.Logger.Error("inspector: encode response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
