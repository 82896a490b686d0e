package github

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/docsflow/pkg/domain/interfaces"
	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/utils/errutil"
)

// EventProcessor drives verified push deliveries through the changelog pipeline
type EventProcessor struct {
	changelogUC interfaces.ChangelogUseCase
}

// NewEventProcessor creates a new GitHub event processor
func NewEventProcessor(changelogUC interfaces.ChangelogUseCase) *EventProcessor {
	return &EventProcessor{
		changelogUC: changelogUC,
	}
}

// ProcessPush normalizes each commit of the delivery and processes them in
// order. A commit without id is skipped; a failing commit is reported and
// does not stop the remaining ones.
func (p *EventProcessor) ProcessPush(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx).With(
		"delivery_id", event.ID,
		"repository", event.Repository,
		"ref", event.Ref,
	)
	ctx = ctxlog.With(ctx, logger)

	logger.Info("Processing push event", "commits", len(event.Commits))

	var saved, skipped, failed int
	for i, raw := range event.Commits {
		if raw == nil {
			continue
		}

		commit := raw.Normalize(event.ReceivedAt)
		if commit.ID == "" {
			logger.Warn("Skipping commit without id", "index", i)
			skipped++
			continue
		}

		entry, err := p.changelogUC.ProcessCommit(ctx, commit)
		if err != nil {
			errutil.Handle(ctx, "failed to process commit", err)
			failed++
			continue
		}
		if entry == nil {
			skipped++
			continue
		}
		saved++
	}

	logger.Info("Processed push event",
		"saved", saved,
		"skipped", skipped,
		"failed", failed,
	)
	return nil
}
