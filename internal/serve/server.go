// Package serve hosts a built site over HTTP for local previewing.
package serve

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	rerrors "github.com/kcartlidge/ruthless/internal/errors"
	"github.com/kcartlidge/ruthless/internal/logfields"
)

// DefaultPort is used when no port is given.
const DefaultPort = 1337

// Server serves the files of one output folder.
type Server struct {
	Addr   string
	root   string
	logger *slog.Logger
	router *chi.Mux
	server *http.Server
}

// NewServer creates a server for the folder root listening on addr.
func NewServer(addr, root string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		Addr:   addr,
		root:   root,
		logger: logger,
		router: chi.NewRouter(),
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(noCache)

	// Every path belongs to the site.
	files := http.FileServer(http.Dir(s.root))
	s.router.Method(http.MethodGet, "/*", files)
	s.router.Method(http.MethodHead, "/*", files)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return rerrors.Wrap(err, rerrors.CategoryServe, rerrors.SeverityFatal, "cannot listen").
			WithContext("addr", s.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return rerrors.Wrap(err, rerrors.CategoryServe, rerrors.SeverityFatal, "server stopped")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return rerrors.Wrap(err, rerrors.CategoryServe, rerrors.SeverityFatal, "shutdown failed")
	}
	<-errCh
	return nil
}

// noCache stops browsers holding on to pages between rebuilds.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	})
}
