package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mfreitas/agentchat/internal/agent"
	"github.com/mfreitas/agentchat/internal/config"
	"github.com/mfreitas/agentchat/internal/llm"
	"github.com/mfreitas/agentchat/internal/server"
	"github.com/mfreitas/agentchat/internal/telemetry"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the agent HTTP server",
		Long: `Start the HTTP facade: create agents, chat with them, inspect and
clear their histories over a JSON API. Prometheus metrics are served on
/metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			level, _ := cfg.SlogLevel()
			if verbose {
				level = slog.LevelDebug
			}
			logger := telemetry.NewLogger(os.Stdout, level)
			metrics := telemetry.NewMetrics()

			registry := llm.NewRegistry(cfg.RegistryConfig())
			orch := agent.NewOrchestrator(registry,
				agent.WithLogger(logger),
				agent.WithMetrics(metrics),
			)

			srv := server.New(orch,
				server.WithLogger(logger),
				server.WithMetrics(metrics),
				server.WithAPIKey(cfg.Server.APIKey),
				server.WithDefaults(cfg.DefaultModel, cfg.HistoryCapacity),
			)

			if addr == "" {
				addr = cfg.Server.Addr
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe(addr)
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")

	return cmd
}
