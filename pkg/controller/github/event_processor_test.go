package github_test

import (
	"context"
	"errors"
	"testing"
	"time"

	controller "github.com/m-mizutani/docsflow/pkg/controller/github"
	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

type changelogUCMock struct {
	ProcessCommitFunc func(ctx context.Context, commit *model.Commit) (*model.ChangelogEntry, error)
}

func (m *changelogUCMock) ProcessCommit(ctx context.Context, commit *model.Commit) (*model.ChangelogEntry, error) {
	return m.ProcessCommitFunc(ctx, commit)
}

func (m *changelogUCMock) Trigger(ctx context.Context) ([]*model.TriggerResult, error) {
	return nil, nil
}

func (m *changelogUCMock) Entries(ctx context.Context, days int) ([]*model.ChangelogEntry, error) {
	return nil, nil
}

func TestEventProcessor_ProcessPush(t *testing.T) {
	receivedAt := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("failures and empty ids do not stop the batch", func(t *testing.T) {
		var seen []*model.Commit
		uc := &changelogUCMock{
			ProcessCommitFunc: func(ctx context.Context, commit *model.Commit) (*model.ChangelogEntry, error) {
				seen = append(seen, commit)
				if commit.ID == "bad" {
					return nil, errors.New("GitHub API error")
				}
				return &model.ChangelogEntry{ID: model.EntryID(commit.ID)}, nil
			},
		}

		event := &model.WebhookEvent{
			ID:         "delivery-1",
			Type:       model.EventTypePush,
			Ref:        "refs/heads/master",
			Repository: "getsentry/sentry-docs",
			ReceivedAt: receivedAt,
			Commits: []*model.RawCommit{
				{ID: "bad", Message: "first"},
				{Message: "no id"},
				nil,
				{SHA: "good", Message: "third"},
			},
		}

		gt.NoError(t, controller.NewEventProcessor(uc).ProcessPush(context.Background(), event))
		gt.Equal(t, len(seen), 2)
		gt.Equal(t, seen[0].ID, "bad")
		gt.Equal(t, seen[1].ID, "good")
	})

	t.Run("commits are normalized", func(t *testing.T) {
		var got *model.Commit
		uc := &changelogUCMock{
			ProcessCommitFunc: func(ctx context.Context, commit *model.Commit) (*model.ChangelogEntry, error) {
				got = commit
				return nil, nil
			},
		}

		event := &model.WebhookEvent{
			ReceivedAt: receivedAt,
			Commits:    []*model.RawCommit{{ID: "c1", Added: []string{"docs/a.md"}}},
		}
		gt.NoError(t, controller.NewEventProcessor(uc).ProcessPush(context.Background(), event))
		gt.Equal(t, got.Author.Name, "Unknown")
		gt.Equal(t, got.Timestamp, "2024-05-01T00:00:00.000Z")
		gt.Value(t, got.Removed).Equal([]string{})
	})
}
