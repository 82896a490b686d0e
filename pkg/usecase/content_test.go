package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/domain/types"
	"github.com/m-mizutani/docsflow/pkg/infra/storage"
	"github.com/m-mizutani/docsflow/pkg/usecase"
	"github.com/m-mizutani/gt"
)

var contentNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func newContent(t *testing.T, fetcher *feedFetcherMock, opts ...usecase.ContentOption) *usecase.Content {
	t.Helper()

	kv := storage.NewMemory()
	gt.NoError(t, usecase.NewChangelogStore(kv).Save(context.Background(), &model.ChangelogEntry{
		ID:          "docs-c1",
		Title:       "Docs Update: intro",
		AISummary:   "Adds an intro.",
		PublishedAt: "2024-05-28T00:00:00.000Z",
		Categories:  []string{model.CategoryTechnical},
	}))
	changelog := usecase.NewDocsChangelog(staticSummarizer("s"), kv)

	sources := usecase.ContentSources{
		BlogFeedURL:      "https://blog.example.com/feed.xml",
		ChangelogFeedURL: "https://example.com/changelog/feed.xml",
		YouTubeChannelID: "UC123",
		ExportTitle:      "Test Aggregator",
	}
	opts = append(opts, usecase.WithContentClock(func() time.Time { return contentNow }))
	return usecase.NewContent(sources, fetcher, changelog, opts...)
}

func defaultFetcher() *feedFetcherMock {
	return &feedFetcherMock{
		FetchFunc: func(ctx context.Context, url string, source types.Source) ([]*model.FeedItem, error) {
			switch source {
			case types.SourceBlog:
				return []*model.FeedItem{
					{ID: "b1", Title: "Old post", Source: source, PublishedAt: "2023-01-01T00:00:00.000Z", Categories: []string{model.CategoryBusiness}},
					{ID: "b2", Title: "New post", Source: source, PublishedAt: "2024-05-30T00:00:00.000Z", Categories: []string{model.CategoryWeb}},
				}, nil
			case types.SourceChangelog:
				return []*model.FeedItem{
					{ID: "ch1", Title: "Feature", Source: source, PublishedAt: "2024-05-31T00:00:00.000Z", Categories: []string{model.CategoryTechnical}},
				}, nil
			}
			return nil, errors.New("unexpected source")
		},
	}
}

func TestContent_Items(t *testing.T) {
	ctx := context.Background()

	t.Run("applies the window and sorts newest first", func(t *testing.T) {
		uc := newContent(t, defaultFetcher())
		items, err := uc.Items(ctx, types.SourceBlog, 90)
		gt.NoError(t, err)
		gt.Equal(t, len(items), 1)
		gt.Equal(t, items[0].ID, "b2")
	})

	t.Run("docs come from the store", func(t *testing.T) {
		uc := newContent(t, defaultFetcher())
		items, err := uc.Items(ctx, types.SourceDocs, 90)
		gt.NoError(t, err)
		gt.Equal(t, len(items), 1)
		gt.Equal(t, items[0].Description, "Adds an intro.")
	})

	t.Run("youtube without a video source is not configured", func(t *testing.T) {
		uc := newContent(t, defaultFetcher())
		_, err := uc.Items(ctx, types.SourceYouTube, 90)
		gt.True(t, errors.Is(err, types.ErrSourceNotConfigured))
	})

	t.Run("youtube with a video source", func(t *testing.T) {
		videos := &videoSourceMock{
			ListVideosFunc: func(ctx context.Context, channelID string, limit int) ([]*model.FeedItem, error) {
				gt.Equal(t, channelID, "UC123")
				gt.Equal(t, limit, usecase.DefaultMaxVideos)
				return []*model.FeedItem{{ID: "v1", Source: types.SourceYouTube, PublishedAt: "2024-05-01T00:00:00.000Z"}}, nil
			},
		}
		uc := newContent(t, defaultFetcher(), usecase.WithVideoSource(videos))
		items, err := uc.Items(ctx, types.SourceYouTube, 90)
		gt.NoError(t, err)
		gt.Equal(t, len(items), 1)
	})

	t.Run("unknown source", func(t *testing.T) {
		uc := newContent(t, defaultFetcher())
		_, err := uc.Items(ctx, types.Source("podcast"), 90)
		gt.True(t, errors.Is(err, types.ErrInvalidSource))
	})
}

func TestContent_Merged(t *testing.T) {
	ctx := context.Background()

	t.Run("merges sources newest first and skips unconfigured ones", func(t *testing.T) {
		uc := newContent(t, defaultFetcher())
		items, err := uc.Merged(ctx, model.ContentFilter{Days: 90})
		gt.NoError(t, err)
		gt.Equal(t, len(items), 3)
		gt.Equal(t, items[0].ID, "ch1")
		gt.Equal(t, items[1].ID, "b2")
		gt.Equal(t, items[2].ID, "docs-c1")
	})

	t.Run("filters by category", func(t *testing.T) {
		uc := newContent(t, defaultFetcher())
		items, err := uc.Merged(ctx, model.ContentFilter{Category: model.CategoryTechnical, Days: 90})
		gt.NoError(t, err)
		gt.Equal(t, len(items), 2)
	})

	t.Run("filters by source", func(t *testing.T) {
		uc := newContent(t, defaultFetcher())
		items, err := uc.Merged(ctx, model.ContentFilter{Sources: []types.Source{types.SourceDocs}})
		gt.NoError(t, err)
		gt.Equal(t, len(items), 1)
		gt.Equal(t, items[0].Source, types.SourceDocs)
	})

	t.Run("a failing source is left out", func(t *testing.T) {
		fetcher := &feedFetcherMock{
			FetchFunc: func(ctx context.Context, url string, source types.Source) ([]*model.FeedItem, error) {
				return nil, errors.New("feed down")
			},
		}
		uc := newContent(t, fetcher)
		items, err := uc.Merged(ctx, model.ContentFilter{})
		gt.NoError(t, err)
		gt.Equal(t, len(items), 1)
	})
}

func TestContent_ExportMarkdown(t *testing.T) {
	uc := newContent(t, defaultFetcher())
	md, err := uc.ExportMarkdown(context.Background(), model.ContentFilter{Days: 90})
	gt.NoError(t, err)
	gt.String(t, md).Contains("# Test Aggregator - Export")
	gt.String(t, md).Contains("Total items: 3")
	gt.String(t, md).Contains("## 📚 Documentation (1)")
}
