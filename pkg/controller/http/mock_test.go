package http_test

import (
	"context"

	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/domain/types"
)

type pushProcessorMock struct {
	ProcessPushFunc func(ctx context.Context, event *model.WebhookEvent) error
	events          []*model.WebhookEvent
}

func (m *pushProcessorMock) ProcessPush(ctx context.Context, event *model.WebhookEvent) error {
	m.events = append(m.events, event)
	if m.ProcessPushFunc != nil {
		return m.ProcessPushFunc(ctx, event)
	}
	return nil
}

type changelogUCMock struct {
	ProcessCommitFunc func(ctx context.Context, commit *model.Commit) (*model.ChangelogEntry, error)
	TriggerFunc       func(ctx context.Context) ([]*model.TriggerResult, error)
	EntriesFunc       func(ctx context.Context, days int) ([]*model.ChangelogEntry, error)
}

func (m *changelogUCMock) ProcessCommit(ctx context.Context, commit *model.Commit) (*model.ChangelogEntry, error) {
	return m.ProcessCommitFunc(ctx, commit)
}

func (m *changelogUCMock) Trigger(ctx context.Context) ([]*model.TriggerResult, error) {
	return m.TriggerFunc(ctx)
}

func (m *changelogUCMock) Entries(ctx context.Context, days int) ([]*model.ChangelogEntry, error) {
	if m.EntriesFunc == nil {
		return nil, nil
	}
	return m.EntriesFunc(ctx, days)
}

type contentUCMock struct {
	ItemsFunc          func(ctx context.Context, source types.Source, days int) ([]*model.FeedItem, error)
	MergedFunc         func(ctx context.Context, filter model.ContentFilter) ([]*model.FeedItem, error)
	ExportMarkdownFunc func(ctx context.Context, filter model.ContentFilter) (string, error)
}

func (m *contentUCMock) Items(ctx context.Context, source types.Source, days int) ([]*model.FeedItem, error) {
	return m.ItemsFunc(ctx, source, days)
}

func (m *contentUCMock) Merged(ctx context.Context, filter model.ContentFilter) ([]*model.FeedItem, error) {
	return m.MergedFunc(ctx, filter)
}

func (m *contentUCMock) ExportMarkdown(ctx context.Context, filter model.ContentFilter) (string, error) {
	return m.ExportMarkdownFunc(ctx, filter)
}
