// Package httpd implements the HTTP service command.
package httpd

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

	"github.com/jonesrussell/newsharvest/cmd/common"
	"github.com/jonesrussell/newsharvest/internal/api"
	"github.com/jonesrussell/newsharvest/internal/logger"
	"github.com/jonesrussell/newsharvest/internal/pipeline"
	"github.com/jonesrussell/newsharvest/internal/runs"
)

const (
	errorChannelBufferSize  = 1
	signalChannelBufferSize = 1
	shutdownTimeout         = 30 * time.Second
)

// Command returns the httpd command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Serve the harvester HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Start()
		},
	}
}

// Start builds the dependencies and runs the HTTP server until interrupted.
func Start() error {
	deps, depsErr := common.New()
	if depsErr != nil {
		return depsErr
	}

	registry := runs.NewRegistry(deps.Config.Harvester.LogBufferSize)

	// One pipeline per run: each run reopens the store so it sees documents
	// persisted by earlier runs.
	factory := func(emit pipeline.LogSink) (*pipeline.Pipeline, error) {
		return deps.NewPipeline(deps.OpenStore(), emit)
	}

	server := api.NewServer(api.Params{
		Logger:      deps.Logger.WithComponent("api"),
		Registry:    registry,
		NewPipeline: factory,
		StorePath:   deps.Config.Harvester.StorePath,
	})

	srvCfg := deps.Config.Server
	httpServer := &http.Server{
		Addr:         srvCfg.Address,
		Handler:      server.Router(),
		ReadTimeout:  srvCfg.ReadTimeout,
		WriteTimeout: srvCfg.WriteTimeout,
		IdleTimeout:  srvCfg.IdleTimeout,
	}

	deps.Logger.Info("Starting HTTP server", "addr", srvCfg.Address)
	errChan := make(chan error, errorChannelBufferSize)
	go func() {
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	return runUntilInterrupt(deps.Logger, httpServer, errChan)
}

// runUntilInterrupt blocks until a shutdown signal or a server error.
func runUntilInterrupt(log logger.Interface, server *http.Server, errChan chan error) error {
	sigChan := make(chan os.Signal, signalChannelBufferSize)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case serverErr := <-errChan:
		log.Error("Server error", "error", serverErr)
		return fmt.Errorf("server error: %w", serverErr)
	case sig := <-sigChan:
		return shutdownServer(log, server, sig)
	}
}

// shutdownServer performs graceful shutdown.
func shutdownServer(log logger.Interface, server *http.Server, sig os.Signal) error {
	log.Info("Shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to stop server", "error", err)
		return fmt.Errorf("failed to stop server: %w", err)
	}

	log.Info("Server stopped successfully")
	return nil
}
