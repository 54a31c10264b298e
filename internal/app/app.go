// Package app assembles the identity service: infrastructure, the
// credential gate, the token issuer and the HTTP surface, wired once at
// startup from an immutable config.
package app

import (
	"context"
	"net/http"

	"github.com/joaop25/NerdStore/internal/config"
)

// App owns the HTTP server and the infrastructure handles behind it.
// It exposes only the lifecycle: Run until shutdown, then release
// connections through cleanup.
type App struct {
	httpServer *http.Server
	cleanup    func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	router, cleanup, err := setupHTTP(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		httpServer: &http.Server{
			Addr:    ":" + cfg.AppPort,
			Handler: router,
		},
		cleanup: cleanup,
	}, nil
}

// Run blocks serving requests until Shutdown or a listener error.
func (a *App) Run() error {
	return a.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests, then closes postgres and redis.
func (a *App) Shutdown(ctx context.Context) error {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if a.cleanup != nil {
		return a.cleanup()
	}
	return nil
}
