package config

import (
	"time"

	"github.com/m-mizutani/docsflow/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr         string
	RateRequests int
	RateWindow   time.Duration
	FeedTitle    string
	FeedLink     string
	FeedSelfURL  string
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("DOCSFLOW_ADDR"),
		},
		&cli.IntFlag{
			Name:        "rate-limit",
			Usage:       "Requests allowed per client IP and window on /api (0 disables)",
			Value:       100,
			Destination: &c.RateRequests,
			Sources:     cli.EnvVars("DOCSFLOW_RATE_LIMIT"),
		},
		&cli.DurationFlag{
			Name:        "rate-limit-window",
			Usage:       "Rate limit window",
			Value:       15 * time.Minute,
			Destination: &c.RateWindow,
			Sources:     cli.EnvVars("DOCSFLOW_RATE_LIMIT_WINDOW"),
		},
		&cli.StringFlag{
			Name:        "feed-title",
			Usage:       "Title of the changelog RSS feed",
			Value:       "Documentation Changelog",
			Destination: &c.FeedTitle,
			Sources:     cli.EnvVars("DOCSFLOW_FEED_TITLE"),
		},
		&cli.StringFlag{
			Name:        "feed-link",
			Usage:       "Link of the changelog RSS feed channel",
			Value:       "https://docs.sentry.io/changelog",
			Destination: &c.FeedLink,
			Sources:     cli.EnvVars("DOCSFLOW_FEED_LINK"),
		},
		&cli.StringFlag{
			Name:        "feed-self-url",
			Usage:       "Public URL of the RSS feed itself (atom:link)",
			Destination: &c.FeedSelfURL,
			Sources:     cli.EnvVars("DOCSFLOW_FEED_SELF_URL"),
		},
	}
}

// RSSChannel returns the channel metadata of the changelog feed
func (c *Server) RSSChannel() usecase.RSSChannel {
	ch := usecase.DefaultRSSChannel
	if c.FeedTitle != "" {
		ch.Title = c.FeedTitle
	}
	if c.FeedLink != "" {
		ch.Link = c.FeedLink
	}
	ch.SelfURL = c.FeedSelfURL
	return ch
}
