package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ferrors "git.home.luguber.info/inful/victor/internal/foundation/errors"
	"git.home.luguber.info/inful/victor/internal/logfields"
)

const (
	StatusPath  = "/_victor/status"
	MetricsPath = "/_victor/metrics"
	ReloadPath  = "/livereload"
	ScriptPath  = "/livereload.js"

	shutdownTimeout = 5 * time.Second
)

// Server serves a built site directory over HTTP.
type Server struct {
	Dir    string
	Addr   string
	Logger *slog.Logger

	reload   *ReloadHub
	status   *BuildStatus
	gatherer prometheus.Gatherer
	router   *chi.Mux
}

// ServerOption configures optional endpoints.
type ServerOption func(*Server)

// WithReload enables the live reload endpoints backed by hub.
func WithReload(hub *ReloadHub) ServerOption { return func(s *Server) { s.reload = hub } }

// WithStatus exposes the rebuild status as JSON.
func WithStatus(st *BuildStatus) ServerOption { return func(s *Server) { s.status = st } }

// WithMetrics exposes g in the Prometheus text format.
func WithMetrics(g prometheus.Gatherer) ServerOption { return func(s *Server) { s.gatherer = g } }

// NewServer returns a server for dir listening on addr.
func NewServer(dir, addr string, logger *slog.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{Dir: dir, Addr: addr, Logger: logger, router: chi.NewRouter()}
	for _, o := range opts {
		o(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.Logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.NoCache)

	if s.reload != nil {
		s.router.Get(ReloadPath, s.reload.ServeHTTP)
		s.router.Get(ScriptPath, handleScript)
	}
	if s.status != nil {
		s.router.Get(StatusPath, s.handleStatus)
	}
	if s.gatherer != nil {
		s.router.Handle(MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	s.router.Handle("/*", http.FileServer(http.Dir(s.Dir)))
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe binds Addr and serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return ferrors.RuntimeError("failed to listen on "+s.Addr).
			WithCause(err).
			WithContext(logfields.KeyAddr, s.Addr).
			WithHint("pick a free port with --port").
			Build()
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled. A canceled context
// is a normal shutdown and returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.Logger.Info(fmt.Sprintf("Serving at http://%s", ln.Addr()), logfields.Path(s.Dir))
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("Closing server")
	// Open event streams would otherwise hold Shutdown until the timeout.
	if s.reload != nil {
		s.reload.Shutdown()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.Logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(s.status.Snapshot())
}

func handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = w.Write([]byte(reloadScript))
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				logfields.Method(r.Method),
				logfields.Path(r.URL.Path),
				logfields.Status(ww.Status()),
				logfields.DurationMS(float64(time.Since(start))/float64(time.Millisecond)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
