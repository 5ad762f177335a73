// Package server exposes the diagram pipeline over HTTP.
//
// Routes:
//
//	GET  /                    upload form
//	POST /upload              multipart "file" (.xlsx, .xlsm or .csv)
//	GET  /download            combined output of the caller's last upload
//	GET  /download_all_files  alias of /download
//	GET  /healthz             liveness probe
//
// An upload is stored as <name>_<id><ext> in the upload directory, where id
// is the first eight hex digits of a random UUID. The pipeline runs
// synchronously and writes its combined outputs next to the upload. The id
// is returned in the JSON response and set as a cookie so that a browser
// can fetch the result from /download without further parameters.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/procdeck/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultMaxUploadBytes caps the request body of an upload.
	DefaultMaxUploadBytes = 32 << 20

	// CookieName holds the identifier of the caller's last upload.
	CookieName = "procdeck_upload"

	shutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr           string
	UploadDir      string
	MaxUploadBytes int64
}

// Server serves uploads and downloads.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a server that runs uploads through runner. The upload
// directory is created if it does not exist.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, runner: runner, logger: logger}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/upload", s.handleUpload)
	r.Get("/download", s.handleDownload)
	r.Get("/download_all_files", s.handleDownload)
	r.Get("/healthz", s.handleHealth)
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "uploads", s.cfg.UploadDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
