package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/teamtree/pkg/buildinfo"
	"github.com/matzehuels/teamtree/pkg/pipeline"
	"github.com/matzehuels/teamtree/pkg/viewport"
)

const (
	// maxBodySize caps request bodies.
	maxBodySize = 8 << 20

	// requestTimeout bounds a single layout or render.
	requestTimeout = 30 * time.Second

	shutdownTimeout = 10 * time.Second
)

// Server serves layouts over HTTP. It is safe for concurrent use.
type Server struct {
	runner   *pipeline.Runner
	policy   viewport.Policy
	defaults pipeline.Options
	logger   *log.Logger
	version  string
	router   chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithPolicy sets the breakpoints used for "screen_width" requests.
func WithPolicy(p viewport.Policy) Option {
	return func(s *Server) { s.policy = p }
}

// WithDefaults sets the label options applied when a request leaves them
// out. Only the label fields of opts are used.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) {
		s.defaults.MaxLabelLength = opts.MaxLabelLength
		s.defaults.Ellipsis = opts.Ellipsis
		s.defaults.LabelOffset = opts.LabelOffset
	}
}

// WithLogger sets the access and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithVersion overrides the version reported by /healthz.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a server around runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		policy:  viewport.DefaultPolicy(),
		logger:  runner.Logger,
		version: buildinfo.Version,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Post("/layout", s.handleLayout)
		r.Post("/render/{format}", s.handleRender)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Code: "NOT_FOUND", Message: "no route for " + r.URL.Path, RequestID: RequestID(r.Context())})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "version", s.version)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
