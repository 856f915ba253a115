package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"pkt.systems/pslog"
)

const shutdownTimeout = 10 * time.Second

// NewServer builds the interactive runner's HTTP server. Runs stream for as
// long as they take, so there is no write timeout.
func NewServer(addr string, clients ClientFactory) (*http.Server, error) {
	h, err := NewHandler(clients)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	RegisterRoutes(mux, h)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}, nil
}

// Serve serves srv on ln and shuts it down when ctx is canceled. The
// server's handler is wrapped with the middleware using the context logger.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	logger := pslog.Ctx(ctx)
	srv.Handler = ApplyMiddleware(srv.Handler, logger)
	srv.ErrorLog = pslog.LogLoggerWithLevel(logger, pslog.ErrorLevel)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("http server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
