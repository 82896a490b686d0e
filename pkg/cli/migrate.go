package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/docsflow/pkg/cli/config"
	"github.com/m-mizutani/docsflow/pkg/domain/interfaces"
	"github.com/m-mizutani/docsflow/pkg/infra/storage"
	"github.com/m-mizutani/docsflow/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var (
		storageCfg config.Storage
		fromDir    string
	)

	flags := append(storageCfg.Flags(),
		&cli.StringFlag{
			Name:        "from-dir",
			Usage:       "Directory of the file backend to migrate from",
			Value:       "data",
			Destination: &fromDir,
		},
	)

	return &cli.Command{
		Name:  "migrate",
		Usage: "Copy stored changelog entries from the file backend into the configured backend",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if storageCfg.Backend == config.BackendFile && storageCfg.Dir == fromDir {
				return goerr.New("source and destination are the same file backend", goerr.V("dir", fromDir))
			}

			dst, closeKV, err := storageCfg.NewBackend()
			if err != nil {
				return goerr.Wrap(err, "failed to open destination backend")
			}
			defer closeKV()

			n, err := migrate(ctx, storage.NewFile(fromDir), dst)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "Migrated %s entries to %s\n",
				color.GreenString("%d", n),
				color.CyanString(storageCfg.Backend),
			)
			return nil
		},
	}
}

// migrate copies the entry list and the poll state from src to dst. It
// returns the number of copied entries.
func migrate(ctx context.Context, src, dst interfaces.KVStore) (int, error) {
	entries, err := usecase.NewChangelogStore(src).Load(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to load source entries")
	}
	if len(entries) == 0 {
		ctxlog.From(ctx).Warn("No entries found in source backend")
		return 0, nil
	}

	if err := usecase.NewChangelogStore(dst).Replace(ctx, entries); err != nil {
		return 0, goerr.Wrap(err, "failed to write destination entries")
	}

	state, err := src.Get(ctx, usecase.PollStateKey)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to load poll state")
	}
	if state != nil {
		if err := dst.Put(ctx, usecase.PollStateKey, state); err != nil {
			return 0, goerr.Wrap(err, "failed to write poll state")
		}
	}

	ctxlog.From(ctx).Info("Migrated changelog", "entries", len(entries))
	return len(entries), nil
}
