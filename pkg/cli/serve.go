package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/docsflow/pkg/cli/config"
	ghcontroller "github.com/m-mizutani/docsflow/pkg/controller/github"
	controller "github.com/m-mizutani/docsflow/pkg/controller/http"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg  config.Server
		sourcesCfg config.Sources
		deps       changelogDeps
	)

	flags := append(serverCfg.Flags(), deps.Flags()...)
	flags = append(flags, deps.github.WebhookFlags()...)
	flags = append(flags, sourcesCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting docsflow server",
				slog.String("addr", serverCfg.Addr),
				slog.String("repository", deps.github.Repository),
				slog.Any("branches", deps.github.Branches),
				slog.String("storage", deps.storage.Backend),
			)

			// Create use cases
			changelogUC, closeKV, err := deps.build(ctx)
			if err != nil {
				return err
			}
			defer closeKV()

			contentUC, err := sourcesCfg.NewContent(ctx, changelogUC)
			if err != nil {
				return goerr.Wrap(err, "failed to configure content sources")
			}

			pushProcessor := ghcontroller.NewEventProcessor(changelogUC)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				pushProcessor,
				changelogUC,
				contentUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(deps.github.WebhookSecret),
				controller.WithRepository(deps.github.Repository),
				controller.WithBranches(deps.github.Branches...),
				controller.WithRateLimit(serverCfg.RateRequests, serverCfg.RateWindow),
				controller.WithRSSChannel(serverCfg.RSSChannel()),
				controller.WithWindowDays(sourcesCfg.WindowDays),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "HTTP server error", goerr.V("addr", serverCfg.Addr))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err := <-errCh:
				return err
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
