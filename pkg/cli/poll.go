package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/docsflow/pkg/usecase"
	"github.com/m-mizutani/docsflow/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdPoll() *cli.Command {
	var (
		deps     changelogDeps
		interval time.Duration
		once     bool
	)

	flags := append(deps.Flags(),
		&cli.DurationFlag{
			Name:        "poll-interval",
			Usage:       "Interval between polls",
			Value:       5 * time.Minute,
			Destination: &interval,
			Sources:     cli.EnvVars("DOCSFLOW_POLL_INTERVAL"),
		},
		&cli.BoolFlag{
			Name:        "once",
			Usage:       "Run a single poll cycle and exit",
			Destination: &once,
		},
	)

	return &cli.Command{
		Name:  "poll",
		Usage: "Poll the repository for new commits and process documentation changes",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			changelogUC, closeKV, err := deps.build(ctx)
			if err != nil {
				return err
			}
			defer closeKV()

			if once {
				return pollOnce(ctx, changelogUC)
			}
			if interval <= 0 {
				return goerr.New("poll interval must be positive", goerr.V("interval", interval))
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("Starting poller", slog.Duration("interval", interval))

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				if err := pollOnce(ctx, changelogUC); err != nil {
					errutil.Handle(ctx, "poll cycle failed", err)
				}

				select {
				case <-ctx.Done():
					logger.Info("Poller stopped")
					return nil
				case <-ticker.C:
				}
			}
		},
	}
}

func pollOnce(ctx context.Context, changelogUC *usecase.DocsChangelog) error {
	saved, err := changelogUC.Poll(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to poll commits")
	}
	ctxlog.From(ctx).Info("Poll cycle completed", slog.Int("saved", saved))
	return nil
}
