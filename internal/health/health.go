// Package health exposes a minimal liveness endpoint so container platforms
// can probe the bot process.
package health

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gatebot/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Server is the liveness HTTP server running beside the bot.
type Server struct {
	srv *http.Server
	log *slog.Logger
}

// New builds the health server listening on the given address.
func New(listen string) *Server {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &Server{
		srv: &http.Server{
			Addr:              listen,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: logger.Component("health"),
	}
}

// Handler returns the HTTP handler behind the server.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves the endpoint until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.ListenAndServe()
	}()
	s.log.Info("health endpoint up",
		slog.String("event", "health.start"),
		slog.String("listen", s.srv.Addr),
	)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.log.Info("health endpoint down", slog.String("event", "health.stop"))
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
