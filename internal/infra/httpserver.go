package infra

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const readHeaderTimeout = 5 * time.Second

// HTTPServer serves the API until its context is cancelled.
type HTTPServer struct {
	server       *http.Server
	logger       zerolog.Logger
	drainTimeout time.Duration
}

// NewHTTPServer builds the API server. Websocket handlers reset the connection
// deadlines after upgrading, so WriteTimeout only bounds plain requests.
func NewHTTPServer(cfg *Config, handler http.Handler, logger zerolog.Logger) *HTTPServer {
	errLogger := logger.With().Str("component", "http").Logger()
	return &HTTPServer{
		server: &http.Server{
			Addr:              net.JoinHostPort("", cfg.Port),
			Handler:           handler,
			ReadTimeout:       cfg.HTTPReadTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      cfg.HTTPWriteTimeout,
			IdleTimeout:       cfg.HTTPIdleTimeout,
			ErrorLog:          log.New(errLogger, "", 0),
		},
		logger:       logger,
		drainTimeout: cfg.HTTPIdleTimeout,
	}
}

// Run listens until ctx is done, then drains in-flight requests. A clean
// shutdown returns nil.
func (s *HTTPServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln)
}

func (s *HTTPServer) serve(ctx context.Context, ln net.Listener) error {
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("API listening")
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.drainTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
