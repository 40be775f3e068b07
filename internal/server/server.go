// Package server exposes the linter over HTTP: upload a SQL file, get the
// issues back as JSON and the HTML report under /reports/{id}.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leaplint/internal/engine"
	"github.com/leapstack-labs/leaplint/internal/state"
)

// DefaultMaxUploadBytes caps the size of an uploaded SQL file.
const DefaultMaxUploadBytes = 10 << 20

const shutdownTimeout = 5 * time.Second

// History lists and records past runs.
type History interface {
	engine.Recorder
	ListRuns(ctx context.Context, limit int) ([]*state.Run, error)
}

// Config holds configuration for the server.
type Config struct {
	// Addr is the listen address, e.g. ":8080"
	Addr string
	// ReportsDir receives one <id>.html report per check
	ReportsDir string
	// RulesFile is re-read on every check so edits apply without a restart
	RulesFile string
	// History records runs and backs /api/runs (optional)
	History History
	// MaxUploadBytes limits the upload size (optional)
	MaxUploadBytes int64
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Server is the HTTP check server.
type Server struct {
	addr       string
	reportsDir string
	rulesFile  string
	maxUpload  int64
	history    History
	engine     *engine.Engine
	logger     *slog.Logger
	router     chi.Router
}

// New creates a server and its reports directory.
func New(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.ReportsDir == "" {
		return nil, fmt.Errorf("reports directory is required")
	}
	if err := os.MkdirAll(cfg.ReportsDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}

	engCfg := engine.Config{Logger: logger}
	if cfg.History != nil {
		engCfg.Recorder = cfg.History
	}

	s := &Server{
		addr:       cfg.Addr,
		reportsDir: cfg.ReportsDir,
		rulesFile:  cfg.RulesFile,
		maxUpload:  maxUpload,
		history:    cfg.History,
		engine:     engine.New(engCfg),
		logger:     logger,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on the configured address and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting server", "addr", ln.Addr().String(), "reports_dir", s.reportsDir)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.router,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// requestLogger logs each request through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
