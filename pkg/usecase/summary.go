package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/utils/metrics"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

//go:embed prompts/summary_system.md
var summarySystemPrompt string

//go:embed prompts/summary_user.md
var summaryUserPrompt string

const (
	// DefaultSummaryMaxChars bounds both generated and templated summaries
	DefaultSummaryMaxChars = 300

	// DefaultLLMTimeout bounds a single generation call
	DefaultLLMTimeout = 20 * time.Second
)

// Summarizer describes the documentation changes of a commit in one or a
// few sentences, with an LLM when available and a template otherwise
type Summarizer struct {
	llmClient    gollem.LLMClient
	maxChars     int
	timeout      time.Duration
	detailed     bool
	systemPrompt string
	userTemplate *template.Template
}

// SummarizerOption configures Summarizer
type SummarizerOption func(*Summarizer)

// WithLLMClient enables generation. A nil client keeps the template path.
func WithLLMClient(client gollem.LLMClient) SummarizerOption {
	return func(s *Summarizer) {
		s.llmClient = client
	}
}

// WithMaxChars sets the summary length bound
func WithMaxChars(n int) SummarizerOption {
	return func(s *Summarizer) {
		if n > 3 {
			s.maxChars = n
		}
	}
}

// WithLLMTimeout sets the per-call generation timeout
func WithLLMTimeout(d time.Duration) SummarizerOption {
	return func(s *Summarizer) {
		s.timeout = d
	}
}

// WithDetailedFallback switches the template to the per-status breakdown
func WithDetailedFallback() SummarizerOption {
	return func(s *Summarizer) {
		s.detailed = true
	}
}

// NewSummarizer creates a new Summarizer
func NewSummarizer(opts ...SummarizerOption) (*Summarizer, error) {
	s := &Summarizer{
		maxChars: DefaultSummaryMaxChars,
		timeout:  DefaultLLMTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	sysTmpl, err := template.New("system").Parse(summarySystemPrompt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse system prompt template")
	}
	var sys bytes.Buffer
	if err := sysTmpl.Execute(&sys, map[string]any{"MaxChars": s.maxChars}); err != nil {
		return nil, goerr.Wrap(err, "failed to execute system prompt template")
	}
	s.systemPrompt = sys.String()

	tmpl, err := template.New("user").Parse(summaryUserPrompt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse user prompt template")
	}
	s.userTemplate = tmpl

	return s, nil
}

// Summarize never fails: generation errors, timeouts and empty output
// all yield the templated summary
func (s *Summarizer) Summarize(ctx context.Context, commit *model.Commit, files []*model.FileChange) string {
	logger := ctxlog.From(ctx)

	if s.llmClient != nil {
		summary, err := s.generate(ctx, commit, files)
		if err == nil {
			metrics.Summaries.WithLabelValues("llm").Inc()
			return summary
		}
		logger.Warn("LLM summary failed, using fallback",
			"commit_id", commit.ID,
			"error", err,
		)
	}

	metrics.Summaries.WithLabelValues("fallback").Inc()
	return FallbackSummary(files, s.detailed, s.maxChars)
}

func (s *Summarizer) generate(ctx context.Context, commit *model.Commit, files []*model.FileChange) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Filename)
	}

	var buf bytes.Buffer
	if err := s.userTemplate.Execute(&buf, map[string]any{
		"Message":   commit.Message,
		"FileNames": strings.Join(names, ", "),
		"Author":    commit.Author.Name,
		"Files":     files,
	}); err != nil {
		return "", goerr.Wrap(err, "failed to execute user prompt template")
	}

	session, err := s.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(s.systemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.Generate(ctx, []gollem.Input{gollem.Text(buf.String())})
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate LLM content", goerr.V("commit_id", commit.ID))
	}
	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.New("no response from LLM", goerr.V("commit_id", commit.ID))
	}

	summary := strings.Join(strings.Fields(strings.Join(resp.Texts, " ")), " ")
	if summary == "" {
		return "", goerr.New("empty response from LLM", goerr.V("commit_id", commit.ID))
	}

	return truncate(summary, s.maxChars), nil
}

// FallbackSummary builds the templated summary. The short form lists the
// files; the detailed form adds per-status counts.
func FallbackSummary(files []*model.FileChange, detailed bool, maxChars int) string {
	names := make([]string, 0, len(files))
	var added, modified, removed int
	for _, f := range files {
		names = append(names, f.Filename)
		switch f.Status {
		case model.FileStatusAdded:
			added++
		case model.FileStatusRemoved:
			removed++
		default:
			modified++
		}
	}

	var summary string
	if detailed {
		var b strings.Builder
		fmt.Fprintf(&b, "Documentation changes in %d file(s)", len(files))
		if added > 0 {
			fmt.Fprintf(&b, ", %d added", added)
		}
		if modified > 0 {
			fmt.Fprintf(&b, ", %d modified", modified)
		}
		if removed > 0 {
			fmt.Fprintf(&b, ", %d removed", removed)
		}
		fmt.Fprintf(&b, ". Files: %s", strings.Join(names, ", "))
		summary = b.String()
	} else {
		summary = fmt.Sprintf("Documentation changes in %d file(s): %s", len(files), strings.Join(names, ", "))
	}

	return truncate(summary, maxChars)
}

func truncate(s string, maxChars int) string {
	if maxChars <= 3 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars-3]) + "..."
}
