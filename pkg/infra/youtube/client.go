package youtube

import (
	"context"
	"time"

	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// DefaultTimeout bounds a single YouTube Data API call
const DefaultTimeout = 15 * time.Second

// WatchURL is the public URL prefix of a video
const WatchURL = "https://www.youtube.com/watch?v="

// Client lists channel videos with the YouTube Data API
type Client struct {
	service *yt.Service
	timeout time.Duration
}

// New creates a YouTube client authenticated with an API key. Extra
// options are passed to the API client, e.g. option.WithEndpoint in tests.
func New(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, goerr.New("YouTube API key is empty")
	}

	svc, err := yt.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create YouTube service")
	}

	return &Client{service: svc, timeout: DefaultTimeout}, nil
}

// ListVideos returns the latest videos of channelID, newest first
func (c *Client) ListVideos(ctx context.Context, channelID string, limit int) ([]*model.FeedItem, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.service.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		Order("date").
		Type("video").
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search videos", goerr.V("channel_id", channelID))
	}

	items := make([]*model.FeedItem, 0, len(resp.Items))
	for _, v := range resp.Items {
		if v.Id == nil || v.Id.VideoId == "" || v.Snippet == nil {
			continue
		}

		s := v.Snippet
		publishedAt := s.PublishedAt
		if t, ok := model.ParseTime(publishedAt); ok {
			publishedAt = model.FormatTime(t)
		}

		var thumbnail string
		if s.Thumbnails != nil && s.Thumbnails.Medium != nil {
			thumbnail = s.Thumbnails.Medium.Url
		}

		items = append(items, &model.FeedItem{
			ID:          v.Id.VideoId,
			Title:       s.Title,
			Description: s.Description,
			URL:         WatchURL + v.Id.VideoId,
			PublishedAt: publishedAt,
			Source:      types.SourceYouTube,
			Author:      s.ChannelTitle,
			Thumbnail:   thumbnail,
			Categories:  model.DetectCategories(s.Title, s.Description, types.SourceYouTube),
		})
	}

	return items, nil
}
