package errutil_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/docsflow/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestHandle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := ctxlog.With(context.Background(), logger)

	err := goerr.New("boom", goerr.V("commit_id", "abc123"))
	errutil.Handle(ctx, "failed to process commit", err)

	gt.String(t, buf.String()).Contains("failed to process commit")
	gt.String(t, buf.String()).Contains("boom")
	gt.String(t, buf.String()).Contains("abc123")
}

func TestHandle_Nil(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := ctxlog.With(context.Background(), logger)

	errutil.Handle(ctx, "nothing", nil)
	gt.Equal(t, buf.Len(), 0)
}

func TestHandle_ReportsToSentry(t *testing.T) {
	transport := &sentry.MockTransport{}
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:       "https://public@sentry.example.com/1",
		Transport: transport,
	})
	gt.NoError(t, err)

	hub := sentry.NewHub(client, sentry.NewScope())
	ctx := sentry.SetHubOnContext(context.Background(), hub)
	ctx = ctxlog.With(ctx, slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))

	errutil.Handle(ctx, "failed to process commit",
		goerr.New("boom", goerr.V("commit_id", "abc123")))

	events := transport.Events()
	gt.Equal(t, len(events), 1)
	gt.Equal(t, events[0].Tags["message"], "failed to process commit")
	gt.Equal(t, events[0].Contexts["goerr"]["commit_id"], any("abc123"))
}
