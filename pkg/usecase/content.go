package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/docsflow/pkg/domain/interfaces"
	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/domain/types"
	"github.com/m-mizutani/docsflow/pkg/utils/metrics"
	"github.com/m-mizutani/goerr/v2"
	"github.com/samber/lo"
)

// DefaultMaxVideos is the number of videos requested from a channel
const DefaultMaxVideos = 50

// ContentSources names the upstream endpoints of each content source
type ContentSources struct {
	BlogFeedURL      string
	ChangelogFeedURL string
	YouTubeChannelID string
	MaxVideos        int
	ExportTitle      string
}

// Content aggregates blog posts, videos, changelog feed items and stored
// documentation entries
type Content struct {
	sources   ContentSources
	fetcher   interfaces.FeedFetcher
	videos    interfaces.VideoSource
	changelog interfaces.ChangelogUseCase
	now       func() time.Time
}

// ContentOption configures Content
type ContentOption func(*Content)

// WithVideoSource enables the youtube source
func WithVideoSource(v interfaces.VideoSource) ContentOption {
	return func(x *Content) {
		x.videos = v
	}
}

// WithContentClock replaces time.Now
func WithContentClock(now func() time.Time) ContentOption {
	return func(x *Content) {
		x.now = now
	}
}

// NewContent creates the content aggregator
func NewContent(sources ContentSources, fetcher interfaces.FeedFetcher, changelog interfaces.ChangelogUseCase, opts ...ContentOption) *Content {
	if sources.MaxVideos <= 0 {
		sources.MaxVideos = DefaultMaxVideos
	}
	if sources.ExportTitle == "" {
		sources.ExportTitle = "Content Aggregator"
	}

	x := &Content{
		sources:   sources,
		fetcher:   fetcher,
		changelog: changelog,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Items returns items of one source published in the last days days, newest first
func (x *Content) Items(ctx context.Context, source types.Source, days int) ([]*model.FeedItem, error) {
	items, err := x.fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	now := x.now()
	items = lo.Filter(items, func(item *model.FeedItem, _ int) bool {
		return item.WithinDays(now, days)
	})
	model.SortNewestFirst(items)
	return items, nil
}

func (x *Content) fetch(ctx context.Context, source types.Source) ([]*model.FeedItem, error) {
	switch source {
	case types.SourceBlog:
		if x.sources.BlogFeedURL == "" {
			return nil, goerr.Wrap(types.ErrSourceNotConfigured, "blog feed URL is not set")
		}
		return x.fetcher.Fetch(ctx, x.sources.BlogFeedURL, source)

	case types.SourceChangelog:
		if x.sources.ChangelogFeedURL == "" {
			return nil, goerr.Wrap(types.ErrSourceNotConfigured, "changelog feed URL is not set")
		}
		return x.fetcher.Fetch(ctx, x.sources.ChangelogFeedURL, source)

	case types.SourceYouTube:
		if x.videos == nil || x.sources.YouTubeChannelID == "" {
			return nil, goerr.Wrap(types.ErrSourceNotConfigured, "YouTube API key or channel is not set")
		}
		return x.videos.ListVideos(ctx, x.sources.YouTubeChannelID, x.sources.MaxVideos)

	case types.SourceDocs:
		entries, err := x.changelog.Entries(ctx, 0)
		if err != nil {
			return nil, err
		}
		return lo.Map(entries, func(e *model.ChangelogEntry, _ int) *model.FeedItem {
			return e.ToFeedItem()
		}), nil

	default:
		return nil, goerr.Wrap(types.ErrInvalidSource, "unknown source", goerr.V("source", source))
	}
}

// Merged returns items of all selected sources matching filter, newest
// first. A failing or unconfigured source is left out of the result.
func (x *Content) Merged(ctx context.Context, filter model.ContentFilter) ([]*model.FeedItem, error) {
	logger := ctxlog.From(ctx)

	sources := filter.Sources
	if len(sources) == 0 {
		sources = types.Sources
	}

	now := x.now()
	merged := []*model.FeedItem{}
	for _, src := range sources {
		items, err := x.fetch(ctx, src)
		if err != nil {
			if errors.Is(err, types.ErrSourceNotConfigured) {
				logger.Debug("Source not configured, skipping", "source", src)
				continue
			}
			if errors.Is(err, types.ErrInvalidSource) {
				return nil, err
			}
			metrics.FeedFetchErrors.WithLabelValues(src.String()).Inc()
			logger.Warn("Failed to fetch source, skipping", "source", src, "error", err)
			continue
		}

		merged = append(merged, lo.Filter(items, func(item *model.FeedItem, _ int) bool {
			return filter.Match(item, now)
		})...)
	}

	model.SortNewestFirst(merged)
	return merged, nil
}

// ExportMarkdown renders the merged items as a markdown document
func (x *Content) ExportMarkdown(ctx context.Context, filter model.ContentFilter) (string, error) {
	items, err := x.Merged(ctx, filter)
	if err != nil {
		return "", err
	}
	return RenderMarkdown(x.sources.ExportTitle, items, x.now()), nil
}
