package cli

import (
	"context"
	"os"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/docsflow/pkg/cli/config"
	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/domain/types"
	"github.com/m-mizutani/docsflow/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdExport() *cli.Command {
	var (
		sourcesCfg config.Sources
		storageCfg config.Storage
		output     string
		sources    []string
		category   string
		days       int
	)

	flags := append(sourcesCfg.Flags(), storageCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file; stdout when empty",
			Destination: &output,
		},
		&cli.StringSliceFlag{
			Name:        "source",
			Usage:       "Source to include (blog, youtube, docs, changelog); all when omitted",
			Destination: &sources,
		},
		&cli.StringFlag{
			Name:        "category",
			Usage:       "Category to include; all when empty",
			Destination: &category,
		},
		&cli.IntFlag{
			Name:        "days",
			Usage:       "Recency window in days (0 disables); --window-days when unset",
			Value:       -1,
			Destination: &days,
		},
	)

	return &cli.Command{
		Name:  "export",
		Usage: "Print the merged content as markdown",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			filter := model.ContentFilter{Category: category, Days: days}
			for _, s := range sources {
				src := types.Source(strings.TrimSpace(s))
				if !src.Valid() {
					return goerr.Wrap(types.ErrInvalidSource, "invalid --source", goerr.V("source", s))
				}
				filter.Sources = append(filter.Sources, src)
			}

			kv, closeKV, err := storageCfg.NewBackend()
			if err != nil {
				return goerr.Wrap(err, "failed to open storage backend")
			}
			defer closeKV()

			// Entries are only read; the template summarizer is never called
			summarizer, err := usecase.NewSummarizer()
			if err != nil {
				return err
			}
			changelogUC := usecase.NewDocsChangelog(summarizer, kv)

			contentUC, err := sourcesCfg.NewContent(ctx, changelogUC)
			if err != nil {
				return goerr.Wrap(err, "failed to configure content sources")
			}
			if filter.Days < 0 {
				filter.Days = sourcesCfg.WindowDays
			}

			md, err := contentUC.ExportMarkdown(ctx, filter)
			if err != nil {
				return goerr.Wrap(err, "failed to export content")
			}

			if output == "" {
				_, err := os.Stdout.WriteString(md)
				return err
			}
			if err := os.WriteFile(output, []byte(md), 0o644); err != nil {
				return goerr.Wrap(err, "failed to write export", goerr.V("path", output))
			}
			ctxlog.From(ctx).Info("Export written", "path", output)
			return nil
		},
	}
}
