package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/playtest-arcade/internal/api"
	"github.com/vovakirdan/playtest-arcade/internal/storage"
)

var (
	flagAPIAddr string
	flagMaxIdle time.Duration
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API for level orchestrators",
	Long: `Start an HTTP server that lets external tools create simulations from
the level pack or from explicit settings, step them, stream their turns over
a websocket and read back recorded runs.

Endpoints:
  GET    /levels
  POST   /simulations
  GET    /simulations/{id}
  DELETE /simulations/{id}
  POST   /simulations/{id}/step
  GET    /simulations/{id}/stream   (websocket)
  GET    /runs?level=&limit=
  GET    /runs/{id}
  GET    /stats

Examples:
  playtest api
  playtest api --addr 127.0.0.1:9000 --db ./runs.db
  playtest api --max-idle 5m`,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagAPIAddr, "addr", ":8080", "HTTP listen address")
	apiCmd.Flags().DurationVar(&flagMaxIdle, "max-idle", api.DefaultMaxIdle, "Drop simulations untouched for this long")
}

func runAPI(_ *cobra.Command, _ []string) error {
	levels, err := loadLevels()
	if err != nil {
		return err
	}
	logger, err := newLogger("playtest-api")
	if err != nil {
		return err
	}

	var store *storage.Store
	if s := openStore(logger); s != nil {
		defer s.Close()
		store = s
	}

	server := api.NewServer(levels, store, logger)
	server.Manager().MaxIdle = flagMaxIdle
	srv := &http.Server{
		Addr:              flagAPIAddr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go server.Manager().CleanupLoop(ctx, time.Minute, func(n int) {
		logger.Info("dropped idle simulations", "count", n)
	})

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP API", "address", flagAPIAddr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}
	return nil
}
