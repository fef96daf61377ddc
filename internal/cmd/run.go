// Package cmd provides command-line interface functionality for the chatbridge server.
// It includes the long-running HTTP service and one-shot conversion of payloads
// read from a file or stdin.
package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chatbridge/chatbridge/internal/api"
	"github.com/chatbridge/chatbridge/internal/config"
	"github.com/chatbridge/chatbridge/internal/logging"
	"github.com/chatbridge/chatbridge/internal/watcher"
	"github.com/chatbridge/chatbridge/sdk/translator/builtin"
	log "github.com/sirupsen/logrus"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

// StartService builds the HTTP server from configuration and runs it until an
// interrupt or termination signal arrives.
func StartService(cfg *config.Config, configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return RunService(ctx, cfg, configPath)
}

// RunService runs the HTTP server until ctx is cancelled. When configPath names
// an existing file, edits to it are applied without a restart.
func RunService(ctx context.Context, cfg *config.Config, configPath string) error {
	pipeline := builtin.Pipeline(cfg.Conversion.EngineOptions()...)
	server := api.NewServer(cfg, pipeline)

	if w := startConfigWatcher(ctx, cfg, configPath, server); w != nil {
		defer func() {
			if errStop := w.Stop(); errStop != nil {
				log.WithError(errStop).Debug("failed to stop config watcher")
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down chatbridge server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return <-errCh
}

// startConfigWatcher hot-reloads the configuration into the server. A missing
// file or watcher failure only disables reloading.
func startConfigWatcher(ctx context.Context, cfg *config.Config, configPath string, server *api.Server) *watcher.Watcher {
	if configPath == "" {
		return nil
	}
	if _, err := os.Stat(configPath); err != nil {
		log.Debugf("config hot reload disabled: %v", err)
		return nil
	}
	w, err := watcher.NewWatcher(configPath, func(newCfg *config.Config) {
		if errLog := logging.ConfigureLogOutput(newCfg); errLog != nil {
			log.WithError(errLog).Warn("failed to apply reloaded log settings")
		}
		server.UpdateConfig(newCfg)
	})
	if err != nil {
		log.WithError(err).Warn("config hot reload disabled")
		return nil
	}
	w.SetConfig(cfg)
	if err = w.Start(ctx); err != nil {
		_ = w.Stop()
		log.WithError(err).Warn("config hot reload disabled")
		return nil
	}
	return w
}
