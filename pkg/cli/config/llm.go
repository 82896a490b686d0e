package config

import (
	"context"
	"time"

	"github.com/m-mizutani/docsflow/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"
)

// LLM providers
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// LLM holds text generation configuration for commit summaries
type LLM struct {
	Provider        string
	OpenAIAPIKey    string `masq:"secret"`
	OpenAIModel     string
	GeminiProjectID string
	GeminiLocation  string
	GeminiModel     string
	SummaryMaxChars int
	Timeout         time.Duration
}

// Flags returns CLI flags for LLM configuration
func (c *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider (openai, gemini). Empty selects the configured one, or none",
			Destination: &c.Provider,
			Sources:     cli.EnvVars("DOCSFLOW_LLM_PROVIDER"),
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Destination: &c.OpenAIAPIKey,
			Sources:     cli.EnvVars("DOCSFLOW_OPENAI_API_KEY", "OPENAI_API_KEY"),
		},
		&cli.StringFlag{
			Name:        "openai-model",
			Usage:       "OpenAI model to use",
			Value:       "gpt-4o-mini",
			Destination: &c.OpenAIModel,
			Sources:     cli.EnvVars("DOCSFLOW_OPENAI_MODEL"),
		},
		&cli.StringFlag{
			Name:        "gemini-project-id",
			Usage:       "Google Cloud Project ID for Gemini",
			Destination: &c.GeminiProjectID,
			Sources:     cli.EnvVars("DOCSFLOW_GEMINI_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Vertex AI location/region",
			Value:       "us-central1",
			Destination: &c.GeminiLocation,
			Sources:     cli.EnvVars("DOCSFLOW_GEMINI_LOCATION"),
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model to use",
			Value:       "gemini-2.5-flash",
			Destination: &c.GeminiModel,
			Sources:     cli.EnvVars("DOCSFLOW_GEMINI_MODEL"),
		},
		&cli.IntFlag{
			Name:        "summary-max-chars",
			Usage:       "Maximum length of a commit summary",
			Value:       usecase.DefaultSummaryMaxChars,
			Destination: &c.SummaryMaxChars,
			Sources:     cli.EnvVars("DOCSFLOW_SUMMARY_MAX_CHARS"),
		},
		&cli.DurationFlag{
			Name:        "llm-timeout",
			Usage:       "Timeout of one summary generation",
			Value:       usecase.DefaultLLMTimeout,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("DOCSFLOW_LLM_TIMEOUT"),
		},
	}
}

func (c *LLM) provider() string {
	if c.Provider != "" {
		return c.Provider
	}
	switch {
	case c.OpenAIAPIKey != "":
		return ProviderOpenAI
	case c.GeminiProjectID != "":
		return ProviderGemini
	}
	return ""
}

// NewLLMClient creates the LLM client. It returns nil without error when no
// provider is configured.
func (c *LLM) NewLLMClient(ctx context.Context) (gollem.LLMClient, error) {
	switch p := c.provider(); p {
	case "":
		return nil, nil

	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return nil, goerr.New("OpenAI API key is required")
		}
		client, err := openai.New(ctx, c.OpenAIAPIKey, openai.WithModel(c.OpenAIModel))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
		return client, nil

	case ProviderGemini:
		if c.GeminiProjectID == "" {
			return nil, goerr.New("Gemini project ID is required")
		}
		client, err := gemini.New(ctx, c.GeminiProjectID, c.GeminiLocation, gemini.WithModel(c.GeminiModel))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client",
				goerr.V("project_id", c.GeminiProjectID),
				goerr.V("location", c.GeminiLocation))
		}
		return client, nil

	default:
		return nil, goerr.New("unknown LLM provider", goerr.V("provider", p))
	}
}

// NewSummarizer creates the commit summarizer, backed by the LLM when one is
// configured
func (c *LLM) NewSummarizer(ctx context.Context, opts ...usecase.SummarizerOption) (*usecase.Summarizer, error) {
	client, err := c.NewLLMClient(ctx)
	if err != nil {
		return nil, err
	}

	base := []usecase.SummarizerOption{
		usecase.WithMaxChars(c.SummaryMaxChars),
	}
	if c.Timeout > 0 {
		base = append(base, usecase.WithLLMTimeout(c.Timeout))
	}
	if client != nil {
		base = append(base, usecase.WithLLMClient(client))
	}

	return usecase.NewSummarizer(append(base, opts...)...)
}
