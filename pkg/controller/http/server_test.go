package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	controller "github.com/m-mizutani/docsflow/pkg/controller/http"
	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func newTestServer(t *testing.T, changelogUC *changelogUCMock, contentUC *contentUCMock, opts ...controller.Option) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if changelogUC == nil {
		changelogUC = &changelogUCMock{}
	}
	if contentUC == nil {
		contentUC = &contentUCMock{}
	}

	server, err := controller.NewServer(ctx, &pushProcessorMock{}, changelogUC, contentUC, opts...)
	gt.NoError(t, err)
	return server.Handler
}

func doRequest(h http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestTrigger(t *testing.T) {
	t.Run("results", func(t *testing.T) {
		h := newTestServer(t, &changelogUCMock{
			TriggerFunc: func(ctx context.Context) ([]*model.TriggerResult, error) {
				return []*model.TriggerResult{
					{SHA: "abc", Message: "docs: x", Author: "Jane", FilesChanged: 1, Files: []string{"docs/x.md"}},
				}, nil
			},
		}, nil)

		w := doRequest(h, http.MethodPost, "/api/github/trigger")
		gt.Equal(t, w.Code, http.StatusOK)

		var resp struct {
			Message          string                `json:"message"`
			CommitsProcessed int                   `json:"commitsProcessed"`
			Results          []model.TriggerResult `json:"results"`
		}
		gt.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		gt.Equal(t, resp.Message, "Manual trigger completed")
		gt.Equal(t, resp.CommitsProcessed, 1)
		gt.Equal(t, resp.Results[0].SHA, "abc")
		gt.Equal(t, resp.Results[0].Files, []string{"docs/x.md"})
	})

	t.Run("no GitHub credential", func(t *testing.T) {
		h := newTestServer(t, &changelogUCMock{
			TriggerFunc: func(ctx context.Context) ([]*model.TriggerResult, error) {
				return nil, goerr.Wrap(types.ErrGitHubNotConfigured, "cannot scan commits")
			},
		}, nil)

		w := doRequest(h, http.MethodPost, "/api/github/trigger")
		gt.Equal(t, w.Code, http.StatusBadRequest)
		gt.Equal(t, decodeBody(t, w)["error"], any("GitHub token not configured"))
	})

	t.Run("upstream failure", func(t *testing.T) {
		h := newTestServer(t, &changelogUCMock{
			TriggerFunc: func(ctx context.Context) ([]*model.TriggerResult, error) {
				return nil, errors.New("rate limited")
			},
		}, nil)

		w := doRequest(h, http.MethodPost, "/api/github/trigger")
		gt.Equal(t, w.Code, http.StatusInternalServerError)
	})

	t.Run("usage", func(t *testing.T) {
		h := newTestServer(t, nil, nil)
		w := doRequest(h, http.MethodGet, "/api/github/trigger")
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, decodeBody(t, w)["message"], any("GitHub trigger endpoint is active"))
	})
}

func TestDocsChangelog(t *testing.T) {
	var gotDays int
	h := newTestServer(t, &changelogUCMock{
		EntriesFunc: func(ctx context.Context, days int) ([]*model.ChangelogEntry, error) {
			gotDays = days
			if days == 1 {
				return nil, nil
			}
			return []*model.ChangelogEntry{{ID: "docs-a", Title: "Docs Update: a"}}, nil
		},
	}, nil)

	w := doRequest(h, http.MethodGet, "/api/docs/changelog")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, gotDays, 0)
	var entries []*model.ChangelogEntry
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&entries))
	gt.Equal(t, len(entries), 1)
	gt.Equal(t, entries[0].ID, "docs-a")

	w = doRequest(h, http.MethodGet, "/api/docs/changelog?days=1")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, strings.TrimSpace(w.Body.String()), "[]")

	w = doRequest(h, http.MethodGet, "/api/docs/changelog?days=abc")
	gt.Equal(t, w.Code, http.StatusBadRequest)
}

func TestDocsFeed(t *testing.T) {
	h := newTestServer(t, &changelogUCMock{
		EntriesFunc: func(ctx context.Context, days int) ([]*model.ChangelogEntry, error) {
			return []*model.ChangelogEntry{{
				ID:          "docs-a",
				Title:       `Docs Update: Fix <Tag> & "quotes"`,
				Description: "d",
				URL:         "https://github.com/x/y/commit/a",
				PublishedAt: "2024-05-01T10:00:00.000Z",
				Author:      "Jane",
			}}, nil
		},
	}, nil)

	w := doRequest(h, http.MethodGet, "/api/docs/feed")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/rss+xml"))

	body := w.Body.String()
	gt.True(t, strings.Contains(body, "<title>Docs Update: Fix &lt;Tag&gt; &amp; &quot;quotes&quot;</title>"))
	gt.True(t, strings.Contains(body, "<pubDate>Wed, 01 May 2024 10:00:00 GMT</pubDate>"))
}

func TestSourceEndpoints(t *testing.T) {
	calls := map[types.Source]int{}
	h := newTestServer(t, nil, &contentUCMock{
		ItemsFunc: func(ctx context.Context, source types.Source, days int) ([]*model.FeedItem, error) {
			calls[source] = days
			switch source {
			case types.SourceBlog:
				return []*model.FeedItem{{ID: "b1", Source: types.SourceBlog}}, nil
			case types.SourceYouTube:
				return nil, goerr.Wrap(types.ErrSourceNotConfigured, "no channel")
			default:
				return nil, errors.New("upstream down")
			}
		},
	})

	w := doRequest(h, http.MethodGet, "/api/blog")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, calls[types.SourceBlog], model.DefaultWindowDays)
	var items []*model.FeedItem
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&items))
	gt.Equal(t, items[0].ID, "b1")

	w = doRequest(h, http.MethodGet, "/api/youtube?days=7")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, calls[types.SourceYouTube], 7)
	gt.Equal(t, strings.TrimSpace(w.Body.String()), "[]")

	w = doRequest(h, http.MethodGet, "/api/changelog")
	gt.Equal(t, w.Code, http.StatusInternalServerError)
}

func TestContentEndpoint(t *testing.T) {
	var got model.ContentFilter
	h := newTestServer(t, nil, &contentUCMock{
		MergedFunc: func(ctx context.Context, filter model.ContentFilter) ([]*model.FeedItem, error) {
			got = filter
			return []*model.FeedItem{}, nil
		},
	})

	w := doRequest(h, http.MethodGet, "/api/content?source=blog,docs&category=mobile&days=30")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, got.Sources, []types.Source{types.SourceBlog, types.SourceDocs})
	gt.Equal(t, got.Category, "mobile")
	gt.Equal(t, got.Days, 30)

	w = doRequest(h, http.MethodGet, "/api/content?source=all&category=all")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, len(got.Sources), 0)
	gt.Equal(t, got.Category, "")
	gt.Equal(t, got.Days, model.DefaultWindowDays)

	w = doRequest(h, http.MethodGet, "/api/content?source=podcast")
	gt.Equal(t, w.Code, http.StatusBadRequest)

	w = doRequest(h, http.MethodGet, "/api/content?category=cooking")
	gt.Equal(t, w.Code, http.StatusBadRequest)
}

func TestCategoriesEndpoint(t *testing.T) {
	h := newTestServer(t, nil, nil)

	w := doRequest(h, http.MethodGet, "/api/categories")
	gt.Equal(t, w.Code, http.StatusOK)

	var categories []model.Category
	gt.NoError(t, json.NewDecoder(w.Body).Decode(&categories))
	gt.Equal(t, len(categories), len(model.Categories))
	gt.Equal(t, categories[0].ID, model.Categories[0].ID)
}

func TestExportEndpoint(t *testing.T) {
	h := newTestServer(t, nil, &contentUCMock{
		ExportMarkdownFunc: func(ctx context.Context, filter model.ContentFilter) (string, error) {
			return "# Content Aggregator - Export\n\n## 📝 Blog Posts (1)\n", nil
		},
	})

	w := doRequest(h, http.MethodGet, "/api/export/markdown")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/markdown"))
	gt.True(t, strings.Contains(w.Header().Get("Content-Disposition"), "attachment"))
	gt.True(t, strings.HasPrefix(w.Body.String(), "# Content Aggregator - Export"))

	w = doRequest(h, http.MethodGet, "/api/export/markdown?format=html")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	gt.True(t, strings.Contains(w.Body.String(), "<h1"))
	gt.True(t, strings.Contains(w.Body.String(), "Content Aggregator - Export</h1>"))

	w = doRequest(h, http.MethodGet, "/api/export/markdown?format=pdf")
	gt.Equal(t, w.Code, http.StatusBadRequest)
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, nil, nil, controller.WithRateLimit(2, time.Hour))

	gt.Equal(t, doRequest(h, http.MethodGet, "/api/categories").Code, http.StatusOK)
	gt.Equal(t, doRequest(h, http.MethodGet, "/api/categories").Code, http.StatusOK)

	w := doRequest(h, http.MethodGet, "/api/categories")
	gt.Equal(t, w.Code, http.StatusTooManyRequests)
	gt.True(t, decodeBody(t, w)["error"] != nil)

	// health is outside /api
	gt.Equal(t, doRequest(h, http.MethodGet, "/health").Code, http.StatusOK)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, nil, nil)

	doRequest(h, http.MethodGet, "/api/categories")

	w := doRequest(h, http.MethodGet, "/metrics")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.True(t, strings.Contains(w.Body.String(), "docsflow_http_requests_total"))
}
