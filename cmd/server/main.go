package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-auth-server/internal/auth"
	"github.com/goliatone/go-auth-server/internal/config"
	"github.com/goliatone/go-auth-server/internal/logging"
	"github.com/goliatone/go-auth-server/internal/server"
	"github.com/goliatone/go-auth-server/internal/store/mongodb"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(logger logging.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Warn("mongo disconnect error", "error", err)
		}
	}()

	store := mongodb.New(client.Database(cfg.MongoDatabase))
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	auther := auth.NewAuthenticator(store.Users(), store.Blacklist(), cfg).
		WithLogger(logger.With("component", "auth"))

	srv := server.New(cfg, auther, logger.With("component", "http"))

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sigs
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		errCh <- srv.Listen()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()

	return srv.Shutdown(shutdownCtx)
}
