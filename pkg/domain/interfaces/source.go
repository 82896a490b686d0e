package interfaces

import (
	"context"

	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/domain/types"
)

// FeedFetcher retrieves and parses an RSS or Atom feed
type FeedFetcher interface {
	Fetch(ctx context.Context, url string, source types.Source) ([]*model.FeedItem, error)
}

// VideoSource lists the latest videos of a channel
type VideoSource interface {
	ListVideos(ctx context.Context, channelID string, limit int) ([]*model.FeedItem, error)
}

// Notifier announces new changelog entries
type Notifier interface {
	NotifyChangelogEntry(ctx context.Context, entry *model.ChangelogEntry) error
}
