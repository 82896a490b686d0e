package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/docsflow/pkg/domain/interfaces"
	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/domain/types"
	"github.com/m-mizutani/docsflow/pkg/usecase"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// config holds internal HTTP server configuration
type config struct {
	addr          string
	webhookSecret string
	repository    string
	branches      []string
	rateRequests  int
	rateWindow    time.Duration
	rssChannel    usecase.RSSChannel
	windowDays    int
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithWebhookSecret sets the webhook secret
func WithWebhookSecret(secret string) Option {
	return func(c *config) {
		c.webhookSecret = secret
	}
}

// WithRepository sets the owner/name of the repository accepted by the webhook
func WithRepository(fullName string) Option {
	return func(c *config) {
		c.repository = fullName
	}
}

// WithBranches sets the branches accepted by the webhook
func WithBranches(branches ...string) Option {
	return func(c *config) {
		c.branches = branches
	}
}

// WithRateLimit allows requests per window for each client address on
// /api. Zero requests disables limiting.
func WithRateLimit(requests int, window time.Duration) Option {
	return func(c *config) {
		c.rateRequests = requests
		c.rateWindow = window
	}
}

// WithRSSChannel sets the channel metadata of the changelog RSS feed
func WithRSSChannel(ch usecase.RSSChannel) Option {
	return func(c *config) {
		c.rssChannel = ch
	}
}

// WithWindowDays sets the default recency window of the content APIs
func WithWindowDays(days int) Option {
	return func(c *config) {
		c.windowDays = days
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	pushProcessor interfaces.PushProcessor,
	changelogUC interfaces.ChangelogUseCase,
	contentUC interfaces.ContentUseCase,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr:         "localhost:8080",
		repository:   usecase.DefaultRepository,
		branches:     []string{"main", "master"},
		rateRequests: 100,
		rateWindow:   15 * time.Minute,
		rssChannel:   usecase.DefaultRSSChannel,
		windowDays:   model.DefaultWindowDays,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)
	router.Use(MetricsMiddleware)

	// Health check
	router.Get("/health", handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	// Webhook endpoint
	webhookHandler := NewWebhookHandler(cfg.webhookSecret, pushProcessor, cfg.repository, cfg.branches)
	router.Post("/hooks/github/push", webhookHandler.Handle)
	router.Get("/hooks/github/push", webhookHandler.HandleStatus)

	triggerHandler := NewTriggerHandler(changelogUC)
	docsHandler := NewDocsHandler(changelogUC, cfg.rssChannel)
	contentHandler := NewContentHandler(contentUC, cfg.windowDays)

	router.Route("/api", func(r chi.Router) {
		if cfg.rateRequests > 0 {
			r.Use(RateLimitMiddleware(NewIPRateLimiter(ctx, cfg.rateRequests, cfg.rateWindow)))
		}

		r.Post("/github/trigger", triggerHandler.Handle)
		r.Get("/github/trigger", triggerHandler.HandleUsage)

		r.Get("/docs/changelog", docsHandler.HandleChangelog)
		r.Get("/docs/feed", docsHandler.HandleFeed)

		r.Get("/blog", contentHandler.HandleSource(types.SourceBlog))
		r.Get("/changelog", contentHandler.HandleSource(types.SourceChangelog))
		r.Get("/youtube", contentHandler.HandleSource(types.SourceYouTube))
		r.Get("/content", contentHandler.HandleMerged)
		r.Get("/categories", contentHandler.HandleCategories)
		r.Get("/export/markdown", contentHandler.HandleExport)
	})

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
