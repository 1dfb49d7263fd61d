// Package server serves anonymised candidate profiles over HTTP, fetching
// candidate records from the HR system on demand.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikogura/cvanon/pkg/config"
	"github.com/nikogura/cvanon/pkg/profile"
	"github.com/nikogura/cvanon/pkg/renderer"
	"github.com/pkg/errors"
)

// Fetcher loads the records for one candidate application. An empty jobID
// means the candidate's primary assignment.
type Fetcher interface {
	Source(ctx context.Context, candidateID, jobID string) (src profile.Source, err error)
}

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	cfg        config.Config
	fetcher    Fetcher
	builder    *profile.Builder
	logger     *slog.Logger
	renderDocx func(ctx context.Context, markdownPath, outputPath, referenceDoc string) error
}

// New creates a server for cfg. Requests for candidate profiles are served
// from fetcher and built by builder.
func New(cfg config.Config, fetcher Fetcher, builder *profile.Builder, logger *slog.Logger) (s *Server, err error) {
	if fetcher == nil {
		err = errors.New("server requires a candidate fetcher")
		return s, err
	}
	if builder == nil {
		err = errors.New("server requires a profile builder")
		return s, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	s = &Server{
		cfg:        cfg,
		fetcher:    fetcher,
		builder:    builder.WithLogger(logger),
		logger:     logger,
		renderDocx: renderer.RenderDocx,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /install.html", s.handleInstall)
	mux.HandleFunc("GET /{candidateId}", s.handleCandidate)

	listenAddr := cfg.Server.ListenAddr
	if listenAddr == "" {
		listenAddr = config.DefaultListenAddr
	}

	s.httpServer = &http.Server{
		Addr:              listenAddr,
		Handler:           s.withLogging(s.withBasicAuth(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s, err
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() (h http.Handler) {
	h = s.httpServer.Handler
	return h
}

// Start listens until SIGINT or SIGTERM, then drains in-flight requests.
func (s *Server) Start() (err error) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	failed := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		s.logger.Info("bookmarklet page", "url", s.cfg.BookmarkletBaseURL+"/install.html")
		serveErr := s.httpServer.ListenAndServe()
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			failed <- serveErr
		}
	}()

	select {
	case err = <-failed:
		err = errors.Wrap(err, "server error")
		return err
	case <-stop:
	}

	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = s.httpServer.Shutdown(ctx)
	if err != nil {
		err = errors.Wrap(err, "server shutdown failed")
		return err
	}

	s.logger.Info("server stopped")
	return err
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		url := r.URL.RequestURI()
		s.logger.Info("SERVER <<", "url", url, "method", r.Method)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Info("SERVER >>",
			"url", url,
			"status", rec.status,
			"elapsed_ms", float64(time.Since(start).Microseconds())/1000,
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}
