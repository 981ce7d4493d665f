package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"flickr-embed/embed"
	"flickr-embed/settings"
)

// Serve blocks until ctx is cancelled or the listener fails.
func Serve(
	ctx context.Context,
	renderer *embed.Renderer,
	credentials *settings.Store,
	addr string,
) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Mux(renderer, credentials),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down admin server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if err != nil {
			slog.Error("Error shutting down admin server", "err", err)
		}
	}()

	slog.Info("Admin server listening", "addr", addr, "appEnv", appEnv)
	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
