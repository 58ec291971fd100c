package server

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/sagoresarker/scion-visualizer/internal/handlers"
	"github.com/sagoresarker/scion-visualizer/internal/ratelimit"
)

// Options configures the HTTP server. Zero timeouts get defaults suited to
// handlers that may block on a 30 second command.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Dashboard *handlers.DashboardHandler
	// Limiter guards the command-backed routes; nil disables limiting.
	Limiter   ratelimit.Limiter
	StaticDir string
	Assets    fs.FS
	Logger    *slog.Logger
}

type Server struct {
	http   *http.Server
	logger *slog.Logger
	opts   Options
}

func New(opts Options) *Server {
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 45 * time.Second
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Server{
		logger: opts.Logger,
		opts:   opts,
		http: &http.Server{
			Addr:         opts.Addr,
			Handler:      NewRouter(opts),
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  opts.IdleTimeout,
			ErrorLog:     slog.NewLogLogger(opts.Logger.Handler(), slog.LevelError),
		},
	}
}

// NewRouter wires every route behind CORS, request IDs, logging and panic
// recovery.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(RecoveryMiddleware(logger))

	health := handlers.NewHealthHandler(logger)
	topology := handlers.NewTopologyHandler(logger)
	r.Get("/api/health", health.Handle)
	r.Get("/api/topology", topology.Handle)

	r.Group(func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(ratelimit.Middleware(opts.Limiter, logger))
		}
		r.Get("/api/status", opts.Dashboard.Status)
		r.Get("/api/paths", opts.Dashboard.Paths)
		r.Get("/api/ping", opts.Dashboard.Ping)
		r.Get("/api/logs", opts.Dashboard.Logs)
	})

	static := handlers.NewStaticHandler(opts.StaticDir, opts.Assets)
	r.Get("/*", static.ServeHTTP)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

// ListenAndServe blocks until ctx is cancelled, then shuts down gracefully
// within ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down")
	return s.http.Shutdown(shutdownCtx)
}
