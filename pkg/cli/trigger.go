package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdTrigger() *cli.Command {
	var (
		deps      changelogDeps
		scanLimit int
	)

	flags := append(deps.Flags(),
		&cli.IntFlag{
			Name:        "scan-limit",
			Usage:       "Number of recent commits to inspect",
			Value:       usecase.DefaultTriggerLimit,
			Destination: &scanLimit,
		},
	)

	return &cli.Command{
		Name:  "trigger",
		Usage: "Process documentation commits among the latest commits once",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			changelogUC, closeKV, err := deps.build(ctx)
			if err != nil {
				return err
			}
			defer closeKV()

			results, err := changelogUC.Scan(ctx, scanLimit, 0)
			if err != nil {
				return goerr.Wrap(err, "manual trigger failed")
			}

			printResults(os.Stdout, results)
			return nil
		},
	}
}

func cmdSeed() *cli.Command {
	var (
		deps      changelogDeps
		scanLimit int
		maxDocs   int
	)

	flags := append(deps.Flags(),
		&cli.IntFlag{
			Name:        "scan-limit",
			Usage:       "Number of recent commits to inspect",
			Value:       50,
			Destination: &scanLimit,
		},
		&cli.IntFlag{
			Name:        "max-docs",
			Usage:       "Stop after this many documentation commits",
			Value:       10,
			Destination: &maxDocs,
		},
	)

	return &cli.Command{
		Name:  "seed",
		Usage: "Populate the changelog from recent history",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			changelogUC, closeKV, err := deps.build(ctx, usecase.WithDetailedFallback())
			if err != nil {
				return err
			}
			defer closeKV()

			results, err := changelogUC.Scan(ctx, scanLimit, maxDocs)
			if err != nil {
				return goerr.Wrap(err, "failed to seed changelog")
			}

			printResults(os.Stdout, results)

			entries, err := changelogUC.Entries(ctx, 0)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Changelog now holds %s entries\n", color.CyanString("%d", len(entries)))
			return nil
		},
	}
}

func printResults(w io.Writer, results []*model.TriggerResult) {
	if len(results) == 0 {
		color.New(color.FgYellow).Fprintln(w, "No documentation commits found")
		return
	}

	color.New(color.FgGreen, color.Bold).Fprintf(w, "Processed %d documentation commit(s)\n", len(results))
	for _, r := range results {
		headline, _, _ := strings.Cut(r.Message, "\n")
		fmt.Fprintf(w, "  %s %s %s\n",
			color.YellowString(shortSHA(r.SHA)),
			headline,
			color.HiBlackString("(%s, %d file(s))", r.Author, r.FilesChanged),
		)
		for _, f := range r.Files {
			fmt.Fprintf(w, "      %s\n", color.HiBlackString(f))
		}
	}
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
