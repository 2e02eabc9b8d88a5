package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Server wraps http.Server with the share handler and sane timeouts.
type Server struct {
	httpServer *http.Server
	log        zerolog.Logger
}

// New builds a Server listening on addr. Requests flow through the access
// log into the share handler.
func New(addr string, handler http.Handler, log zerolog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: AccessLog(handler, log),
			// Downloads can legitimately take a long time, so only the
			// header read gets a deadline.
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		log: log,
	}
}

// ListenAndServe blocks serving requests until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("listening")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down")
	return s.httpServer.Shutdown(ctx)
}
