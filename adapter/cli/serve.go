package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/triage/adapter/api"
	appcontainer "github.com/felixgeelhaar/triage/internal/app"
	"github.com/felixgeelhaar/triage/pkg/config"
	"github.com/felixgeelhaar/triage/pkg/observability"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the triage HTTP API server.

The server exposes POST /api/v1/tasks/analyze and GET /api/v1/tasks/suggest
and shuts down gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		srvLogger := observability.NewLogger(observability.LogConfig{
			Level:       observability.LogLevel(cfg.LogLevel),
			Format:      observability.LogFormat(cfg.LogFormat),
			ServiceName: "triage",
		})

		container, err := appcontainer.NewContainer(cmd.Context(), cfg, srvLogger)
		if err != nil {
			return err
		}
		defer container.Close()

		handler := api.NewTaskHandler(api.TaskHandlerConfig{
			Analyze: container.AnalyzeTasksHandler,
			Suggest: container.SuggestTasksHandler,
			Logger:  srvLogger,
		})

		serverCfg := api.ServerConfig{
			Addr:         cfg.APIAddr,
			ReadTimeout:  cfg.APIReadTimeout,
			WriteTimeout: cfg.APIWriteTimeout,
			IdleTimeout:  cfg.APIIdleTimeout,
		}
		if serveAddr != "" {
			serverCfg.Addr = serveAddr
		}

		server := api.NewServer(serverCfg, handler, srvLogger)

		errCh := make(chan error, 1)
		go func() {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		case sig := <-sigCh:
			srvLogger.Info("shutdown signal received", "signal", sig.String())
		case <-cmd.Context().Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides API_ADDR)")

	rootCmd.AddCommand(serveCmd)
}
