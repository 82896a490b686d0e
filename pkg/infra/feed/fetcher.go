package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultTimeout bounds a single feed request
	DefaultTimeout = 15 * time.Second

	defaultMaxRetries = 2
	maxFeedSize       = 10 << 20
	userAgent         = "docsflow/1.0 (+https://github.com/m-mizutani/docsflow)"
)

// Fetcher downloads and parses feeds
type Fetcher struct {
	httpClient      *http.Client
	maxRetries      uint64
	initialInterval time.Duration
	now             func() time.Time
}

// Option configures Fetcher
type Option func(*Fetcher)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithRetry sets the retry count and the first backoff interval
func WithRetry(maxRetries uint64, initialInterval time.Duration) Option {
	return func(f *Fetcher) {
		f.maxRetries = maxRetries
		f.initialInterval = initialInterval
	}
}

// WithNow replaces the clock used for items without a date
func WithNow(now func() time.Time) Option {
	return func(f *Fetcher) {
		f.now = now
	}
}

// NewFetcher creates a new feed Fetcher
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient:      &http.Client{Timeout: DefaultTimeout},
		maxRetries:      defaultMaxRetries,
		initialInterval: 500 * time.Millisecond,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads url and parses it as a feed. Transport errors and 5xx
// responses are retried with exponential backoff; 4xx responses are not.
func (f *Fetcher) Fetch(ctx context.Context, url string, source types.Source) ([]*model.FeedItem, error) {
	logger := ctxlog.From(ctx)

	var body []byte
	op := func() error {
		data, err := f.get(ctx, url)
		if err != nil {
			logger.Debug("Feed request failed", "url", url, "error", err)
			return err
		}
		body = data
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = f.initialInterval
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, f.maxRetries), ctx)); err != nil {
		return nil, goerr.Wrap(err, "failed to fetch feed", goerr.V("url", url), goerr.V("source", source))
	}

	items, err := Parse(string(body), source, f.now())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse fetched feed", goerr.V("url", url))
	}

	logger.Debug("Fetched feed", "url", url, "source", source, "items", len(items))
	return items, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(goerr.Wrap(err, "failed to create feed request"))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "feed request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		err := goerr.New(fmt.Sprintf("unexpected status code %d", resp.StatusCode), goerr.V("status", resp.StatusCode))
		if resp.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read feed body")
	}
	return data, nil
}
