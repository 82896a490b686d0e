package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/docsflow/pkg/cli/config"
	"github.com/m-mizutani/docsflow/pkg/usecase"
	"github.com/m-mizutani/docsflow/pkg/utils/async"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// changelogDeps groups the configuration needed to assemble the docs
// changelog pipeline
type changelogDeps struct {
	github  config.GitHub
	llm     config.LLM
	storage config.Storage
	slack   config.Slack
}

func (d *changelogDeps) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, d.github.Flags()...)
	flags = append(flags, d.llm.Flags()...)
	flags = append(flags, d.storage.Flags()...)
	flags = append(flags, d.slack.Flags()...)
	return flags
}

// build assembles the pipeline. The returned function waits for dispatched
// notifications and releases the storage backend.
func (d *changelogDeps) build(ctx context.Context, summarizerOpts ...usecase.SummarizerOption) (*usecase.DocsChangelog, func(), error) {
	if err := d.github.Validate(); err != nil {
		return nil, nil, err
	}

	ctxlog.From(ctx).Debug("Changelog configuration",
		slog.Any("github", d.github),
		slog.Any("llm", d.llm),
		slog.Any("storage", d.storage),
	)

	githubClient, err := d.github.NewClient()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create GitHub client")
	}
	if githubClient == nil {
		ctxlog.From(ctx).Warn("No GitHub credential configured, file changes are taken from webhook payloads")
	}

	summarizer, err := d.llm.NewSummarizer(ctx, summarizerOpts...)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create summarizer")
	}

	kv, closeKV, err := d.storage.NewBackend()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to open storage backend")
	}

	notifyOpts, err := d.slack.ChangelogOptions()
	if err != nil {
		closeKV()
		return nil, nil, goerr.Wrap(err, "failed to create Slack notifier")
	}

	release := func() {
		// pending notifications
		async.Wait()
		closeKV()
	}

	opts := append(d.github.ChangelogOptions(githubClient), notifyOpts...)
	return usecase.NewDocsChangelog(summarizer, kv, opts...), release, nil
}
