package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

type adminServer struct {
	server *http.Server
}

func NewAdminServer(addr string, handler http.Handler) *adminServer {
	return &adminServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (a *adminServer) Name() string { return "admin_server_worker" }

func (a *adminServer) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", a.Name(), "addr", a.server.Addr)
	defer slog.Info("Worker stopped", "name", a.Name())

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving admin console: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return a.server.Shutdown(shutdownCtx)
}
