package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"reviews-web/internal/config"
	"reviews-web/pkg/container"
)

const (
	readTimeout     = 15 * time.Second
	idleTimeout     = 60 * time.Second
	uploadHeadroom  = 30 * time.Second // on top of the remote API timeout
	shutdownTimeout = 10 * time.Second
)

// newHTTPServer sizes the write timeout so a slow remote call plus a photo
// upload still finishes before the connection is cut.
func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:           net.JoinHostPort("", cfg.App.Port),
		Handler:        handler,
		ReadTimeout:    readTimeout,
		WriteTimeout:   cfg.API.Timeout() + uploadHeadroom,
		IdleTimeout:    idleTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func Serve(cfg *config.Config) {
	// ========================================
	// 1. BUILD DI CONTAINER
	// ========================================
	appContainer, err := container.NewContainer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize container")
	}
	defer appContainer.Cleanup()

	// ========================================
	// 2. SETUP ROUTER & SERVER
	// ========================================
	srv := newHTTPServer(cfg, SetupRouter(appContainer))

	// ========================================
	// 3. START SERVER (NON-BLOCKING)
	// ========================================
	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("api", cfg.API.BaseURL).
			Str("session_store", cfg.Session.Store).
			Msg("Review client listening")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// ========================================
	// 4. GRACEFUL SHUTDOWN
	// ========================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down review client")
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Str("addr", srv.Addr).Msg("Server stopped unexpectedly")
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Dur("timeout", shutdownTimeout).Msg("Server forced to shutdown")
		return
	}
	log.Info().Msg("Review client stopped")
}
