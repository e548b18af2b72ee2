package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"peaksite/internal/config"
	"peaksite/internal/logging"
	"peaksite/internal/peaks"
)

// Server serves one output directory.
type Server struct {
	root   string
	bind   string
	logger *slog.Logger
	peaks  *peaks.Cache

	listener net.Listener
	server   *http.Server
}

// New creates a server for cfg's output directory. The peak cache is shared
// with the caller; nil creates a private one.
func New(cfg *config.Config, cache *peaks.Cache, logger *slog.Logger) *Server {
	if cache == nil {
		cache = peaks.NewCache(nil)
	}
	s := &Server{
		root:   cfg.Paths.OutputDir,
		bind:   strings.TrimSpace(cfg.Server.Bind),
		logger: logging.NewComponentLogger(logger, "devserver"),
		peaks:  cache,
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(recoverer(s.logger))
	r.Use(requestID)
	r.Use(requestLogger(s.logger))

	r.MethodNotAllowed(methodNotAllowed)
	r.NotFound(http.NotFound)

	r.Get("/", s.handleHome)
	r.Get("/api/waveforms/{name}", s.handleWaveform)
	r.Get("/*", s.handleFile)
	return r
}

// Start binds the listener and serves until ctx is cancelled. It returns the
// base URL once the socket is bound, which matters when the port is 0.
func (s *Server) Start(ctx context.Context) (string, error) {
	bind := s.bind
	if bind == "" {
		bind = "127.0.0.1:0"
	}
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return "", fmt.Errorf("listen %s: %w", bind, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("dev server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	url := s.URL()
	s.logger.Info("dev server listening",
		logging.String("url", url),
		logging.String("root", s.root),
	)
	return url, nil
}

// URL returns the base URL of a started server.
func (s *Server) URL() string {
	if s.listener == nil {
		return ""
	}
	return "http://" + s.listener.Addr().String() + "/"
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", http.MethodGet)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
