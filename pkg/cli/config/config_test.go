package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/docsflow/pkg/cli/config"
	"github.com/m-mizutani/docsflow/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestGitHub_Validate(t *testing.T) {
	tests := []struct {
		name       string
		repository string
		branches   []string
		wantErr    bool
	}{
		{name: "valid", repository: "getsentry/sentry-docs", branches: []string{"main"}},
		{name: "missing owner", repository: "/sentry-docs", branches: []string{"main"}, wantErr: true},
		{name: "no slash", repository: "sentry-docs", branches: []string{"main"}, wantErr: true},
		{name: "no branch", repository: "getsentry/sentry-docs", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.GitHub{Repository: tt.repository, Branches: tt.branches}
			err := cfg.Validate()
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestGitHub_NewClient(t *testing.T) {
	t.Run("no credential", func(t *testing.T) {
		client, err := (&config.GitHub{}).NewClient()
		gt.NoError(t, err)
		gt.True(t, client == nil)
	})

	t.Run("token", func(t *testing.T) {
		client, err := (&config.GitHub{Token: "ghp_test"}).NewClient()
		gt.NoError(t, err)
		gt.True(t, client != nil)
	})

	t.Run("app without key", func(t *testing.T) {
		_, err := (&config.GitHub{AppID: 1, InstallationID: 2}).NewClient()
		gt.Error(t, err)
	})
}

func TestLLM_NewLLMClient(t *testing.T) {
	ctx := context.Background()

	t.Run("no provider", func(t *testing.T) {
		client, err := (&config.LLM{}).NewLLMClient(ctx)
		gt.NoError(t, err)
		gt.True(t, client == nil)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := (&config.LLM{Provider: "bard"}).NewLLMClient(ctx)
		gt.Error(t, err)
	})

	t.Run("openai without key", func(t *testing.T) {
		_, err := (&config.LLM{Provider: config.ProviderOpenAI}).NewLLMClient(ctx)
		gt.Error(t, err)
	})

	t.Run("summarizer without LLM", func(t *testing.T) {
		s, err := (&config.LLM{SummaryMaxChars: 120}).NewSummarizer(ctx)
		gt.NoError(t, err)
		gt.NotNil(t, s)
	})
}

func TestStorage_NewBackend(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Storage
		wantErr bool
	}{
		{name: "file", cfg: config.Storage{Backend: config.BackendFile, Dir: t.TempDir()}},
		{name: "memory", cfg: config.Storage{Backend: config.BackendMemory}},
		{name: "redis", cfg: config.Storage{Backend: config.BackendRedis, RedisURL: "redis://localhost:6379/0"}},
		{name: "redis with bad URL", cfg: config.Storage{Backend: config.BackendRedis, RedisURL: "://"}, wantErr: true},
		{name: "firestore without project", cfg: config.Storage{Backend: config.BackendFirestore}, wantErr: true},
		{name: "gcs without bucket", cfg: config.Storage{Backend: config.BackendGCS}, wantErr: true},
		{name: "unknown", cfg: config.Storage{Backend: "dynamo"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv, release, err := tt.cfg.NewBackend()
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.True(t, kv != nil)
			release()
		})
	}

	t.Run("file backend round trip", func(t *testing.T) {
		ctx := context.Background()
		cfg := config.Storage{Backend: config.BackendFile, Dir: t.TempDir()}
		kv, release, err := cfg.NewBackend()
		gt.NoError(t, err)
		defer release()

		gt.NoError(t, kv.Put(ctx, usecase.ChangelogKey, []byte("[]")))
		_, err = os.Stat(filepath.Join(cfg.Dir, usecase.ChangelogKey+".json"))
		gt.NoError(t, err)
	})
}

func TestSources_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.toml")
	gt.NoError(t, os.WriteFile(path, []byte(`
export_title = "Docs Digest"
window_days = 30

[blog]
feed_url = "https://example.com/blog.xml"

[youtube]
channel_id = "UC123"
`), 0o600))

	cfg := &config.Sources{
		ConfigFile:       path,
		BlogFeedURL:      "https://default/blog.xml",
		ChangelogFeedURL: "https://default/changelog.xml",
		YouTubeChannelID: "UCdefault",
		MaxVideos:        50,
		WindowDays:       90,
		ExportTitle:      "Content Aggregator",
	}
	gt.NoError(t, cfg.Load())

	gt.Equal(t, cfg.ExportTitle, "Docs Digest")
	gt.Equal(t, cfg.WindowDays, 30)
	gt.Equal(t, cfg.BlogFeedURL, "https://example.com/blog.xml")
	gt.Equal(t, cfg.ChangelogFeedURL, "https://default/changelog.xml")
	gt.Equal(t, cfg.YouTubeChannelID, "UC123")
	gt.Equal(t, cfg.MaxVideos, 50)

	t.Run("invalid file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.toml")
		gt.NoError(t, os.WriteFile(bad, []byte("[blog\n"), 0o600))
		gt.Error(t, (&config.Sources{ConfigFile: bad}).Load())
	})

	t.Run("missing file", func(t *testing.T) {
		gt.Error(t, (&config.Sources{ConfigFile: filepath.Join(t.TempDir(), "none.toml")}).Load())
	})
}

func TestServer_RSSChannel(t *testing.T) {
	ch := (&config.Server{FeedTitle: "Docs", FeedSelfURL: "https://x/feed"}).RSSChannel()
	gt.Equal(t, ch.Title, "Docs")
	gt.Equal(t, ch.Link, usecase.DefaultRSSChannel.Link)
	gt.Equal(t, ch.SelfURL, "https://x/feed")
}
