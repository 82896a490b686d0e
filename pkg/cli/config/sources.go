package config

import (
	"context"
	"os"

	"github.com/m-mizutani/docsflow/pkg/domain/interfaces"
	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/infra/feed"
	"github.com/m-mizutani/docsflow/pkg/infra/youtube"
	"github.com/m-mizutani/docsflow/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Sources holds the content source configuration
type Sources struct {
	ConfigFile       string
	BlogFeedURL      string
	ChangelogFeedURL string
	YouTubeAPIKey    string `masq:"secret"`
	YouTubeChannelID string
	MaxVideos        int
	WindowDays       int
	ExportTitle      string
}

// sourcesFile is the TOML layout of --sources-config
//
//	export_title = "Content Aggregator"
//	window_days = 90
//
//	[blog]
//	feed_url = "https://blog.sentry.io/feed.xml"
//
//	[changelog]
//	feed_url = "https://sentry.io/changelog/feed.xml"
//
//	[youtube]
//	channel_id = "UCJQJAI7IZDmYvQw8tJ9KZqg"
//	max_videos = 50
type sourcesFile struct {
	ExportTitle string `toml:"export_title"`
	WindowDays  int    `toml:"window_days"`
	Blog        struct {
		FeedURL string `toml:"feed_url"`
	} `toml:"blog"`
	Changelog struct {
		FeedURL string `toml:"feed_url"`
	} `toml:"changelog"`
	YouTube struct {
		ChannelID string `toml:"channel_id"`
		MaxVideos int    `toml:"max_videos"`
	} `toml:"youtube"`
}

// Flags returns CLI flags for content sources
func (c *Sources) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sources-config",
			Usage:       "TOML file overriding feed URLs, channel and window",
			Destination: &c.ConfigFile,
			Sources:     cli.EnvVars("DOCSFLOW_SOURCES_CONFIG"),
		},
		&cli.StringFlag{
			Name:        "blog-feed-url",
			Usage:       "Blog RSS/Atom feed URL",
			Value:       "https://blog.sentry.io/feed.xml",
			Destination: &c.BlogFeedURL,
			Sources:     cli.EnvVars("DOCSFLOW_BLOG_FEED_URL"),
		},
		&cli.StringFlag{
			Name:        "changelog-feed-url",
			Usage:       "Product changelog RSS/Atom feed URL",
			Value:       "https://sentry.io/changelog/feed.xml",
			Destination: &c.ChangelogFeedURL,
			Sources:     cli.EnvVars("DOCSFLOW_CHANGELOG_FEED_URL"),
		},
		&cli.StringFlag{
			Name:        "youtube-api-key",
			Usage:       "YouTube Data API key",
			Destination: &c.YouTubeAPIKey,
			Sources:     cli.EnvVars("DOCSFLOW_YOUTUBE_API_KEY", "YOUTUBE_API_KEY"),
		},
		&cli.StringFlag{
			Name:        "youtube-channel-id",
			Usage:       "YouTube channel ID",
			Value:       "UCJQJAI7IZDmYvQw8tJ9KZqg",
			Destination: &c.YouTubeChannelID,
			Sources:     cli.EnvVars("DOCSFLOW_YOUTUBE_CHANNEL_ID"),
		},
		&cli.IntFlag{
			Name:        "youtube-max-videos",
			Usage:       "Number of videos requested from the channel",
			Value:       usecase.DefaultMaxVideos,
			Destination: &c.MaxVideos,
			Sources:     cli.EnvVars("DOCSFLOW_YOUTUBE_MAX_VIDEOS"),
		},
		&cli.IntFlag{
			Name:        "window-days",
			Usage:       "Default recency window of read APIs in days",
			Value:       model.DefaultWindowDays,
			Destination: &c.WindowDays,
			Sources:     cli.EnvVars("DOCSFLOW_WINDOW_DAYS"),
		},
		&cli.StringFlag{
			Name:        "export-title",
			Usage:       "Title of the markdown export",
			Value:       "Content Aggregator",
			Destination: &c.ExportTitle,
			Sources:     cli.EnvVars("DOCSFLOW_EXPORT_TITLE"),
		},
	}
}

// Load applies the TOML file, if any. Values present in the file win over
// flags.
func (c *Sources) Load() error {
	if c.ConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(c.ConfigFile)
	if err != nil {
		return goerr.Wrap(err, "failed to read sources config", goerr.V("path", c.ConfigFile))
	}

	var f sourcesFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return goerr.Wrap(err, "failed to parse sources config", goerr.V("path", c.ConfigFile))
	}

	if f.ExportTitle != "" {
		c.ExportTitle = f.ExportTitle
	}
	if f.WindowDays > 0 {
		c.WindowDays = f.WindowDays
	}
	if f.Blog.FeedURL != "" {
		c.BlogFeedURL = f.Blog.FeedURL
	}
	if f.Changelog.FeedURL != "" {
		c.ChangelogFeedURL = f.Changelog.FeedURL
	}
	if f.YouTube.ChannelID != "" {
		c.YouTubeChannelID = f.YouTube.ChannelID
	}
	if f.YouTube.MaxVideos > 0 {
		c.MaxVideos = f.YouTube.MaxVideos
	}

	return nil
}

// NewContent builds the content aggregator over the configured sources.
// YouTube is enabled only with an API key.
func (c *Sources) NewContent(ctx context.Context, changelog interfaces.ChangelogUseCase) (*usecase.Content, error) {
	if err := c.Load(); err != nil {
		return nil, err
	}

	var opts []usecase.ContentOption
	if c.YouTubeAPIKey != "" {
		client, err := youtube.New(ctx, c.YouTubeAPIKey)
		if err != nil {
			return nil, err
		}
		opts = append(opts, usecase.WithVideoSource(client))
	}

	return usecase.NewContent(usecase.ContentSources{
		BlogFeedURL:      c.BlogFeedURL,
		ChangelogFeedURL: c.ChangelogFeedURL,
		YouTubeChannelID: c.YouTubeChannelID,
		MaxVideos:        c.MaxVideos,
		ExportTitle:      c.ExportTitle,
	}, feed.NewFetcher(), changelog, opts...), nil
}
