package interfaces

import (
	"context"

	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/domain/types"
)

// Summarizer produces the one-line synopsis of a documentation commit. It
// never fails; a templated sentence replaces unavailable generation.
type Summarizer interface {
	Summarize(ctx context.Context, commit *model.Commit, files []*model.FileChange) string
}

// ChangelogUseCase defines the documentation changelog pipeline
type ChangelogUseCase interface {
	// ProcessCommit runs one commit through filter, summary and store. It
	// returns nil entry when the commit touches no documentation.
	ProcessCommit(ctx context.Context, commit *model.Commit) (*model.ChangelogEntry, error)

	// Trigger scans the latest commits of the target branch and processes
	// the documentation commits among them
	Trigger(ctx context.Context) ([]*model.TriggerResult, error)

	// Entries returns stored entries, newest first, published in the last days days
	Entries(ctx context.Context, days int) ([]*model.ChangelogEntry, error)
}

// PushProcessor drives a verified push delivery through the pipeline
type PushProcessor interface {
	ProcessPush(ctx context.Context, event *model.WebhookEvent) error
}

// ContentUseCase serves the aggregated content sources
type ContentUseCase interface {
	// Items returns items of one source, newest first
	Items(ctx context.Context, source types.Source, days int) ([]*model.FeedItem, error)

	// Merged returns items of all sources matching filter, newest first
	Merged(ctx context.Context, filter model.ContentFilter) ([]*model.FeedItem, error)

	// ExportMarkdown renders the merged items as a markdown document
	ExportMarkdown(ctx context.Context, filter model.ContentFilter) (string, error)
}
