package usecase

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/docsflow/pkg/domain/interfaces"
	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/domain/types"
	"github.com/m-mizutani/docsflow/pkg/utils/async"
	"github.com/m-mizutani/docsflow/pkg/utils/errutil"
	"github.com/m-mizutani/docsflow/pkg/utils/metrics"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// PollStateKey is the storage key of the poller state
	PollStateKey = "github-polling-state"

	// DefaultTriggerLimit is the number of recent commits a manual trigger inspects
	DefaultTriggerLimit = 10

	DefaultRepository = "getsentry/sentry-docs"
	DefaultBranch     = "master"
)

// DocsChangelog turns documentation commits into changelog entries
type DocsChangelog struct {
	summarizer interfaces.Summarizer
	store      *ChangelogStore
	kv         interfaces.KVStore

	githubClient interfaces.GitHubClient
	notifier     interfaces.Notifier
	owner        string
	repo         string
	branch       string
	now          func() time.Time
}

// DocsChangelogOption configures DocsChangelog
type DocsChangelogOption func(*DocsChangelog)

// WithGitHubClient enables per-file details from the commits API. Without
// it file changes come from the push payload lists and Trigger is unavailable.
func WithGitHubClient(client interfaces.GitHubClient) DocsChangelogOption {
	return func(x *DocsChangelog) {
		x.githubClient = client
	}
}

// WithNotifier announces saved entries
func WithNotifier(n interfaces.Notifier) DocsChangelogOption {
	return func(x *DocsChangelog) {
		x.notifier = n
	}
}

// WithRepository sets the target repository as owner/name
func WithRepository(fullName string) DocsChangelogOption {
	return func(x *DocsChangelog) {
		if owner, repo, ok := strings.Cut(fullName, "/"); ok {
			x.owner, x.repo = owner, repo
		}
	}
}

// WithBranch sets the branch scanned by Trigger, Scan and Poll
func WithBranch(branch string) DocsChangelogOption {
	return func(x *DocsChangelog) {
		x.branch = branch
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) DocsChangelogOption {
	return func(x *DocsChangelog) {
		x.now = now
	}
}

// NewDocsChangelog creates the changelog pipeline. kv holds both the entry
// list and the poller state.
func NewDocsChangelog(summarizer interfaces.Summarizer, kv interfaces.KVStore, opts ...DocsChangelogOption) *DocsChangelog {
	x := &DocsChangelog{
		summarizer: summarizer,
		store:      NewChangelogStore(kv),
		kv:         kv,
		branch:     DefaultBranch,
		now:        time.Now,
	}
	WithRepository(DefaultRepository)(x)

	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Store returns the underlying changelog store
func (x *DocsChangelog) Store() *ChangelogStore {
	return x.store
}

// ProcessCommit runs one commit through filter, summary and store. It
// returns a nil entry when the commit touches no documentation.
func (x *DocsChangelog) ProcessCommit(ctx context.Context, commit *model.Commit) (*model.ChangelogEntry, error) {
	entry, _, err := x.process(ctx, commit)
	return entry, err
}

func (x *DocsChangelog) process(ctx context.Context, commit *model.Commit) (*model.ChangelogEntry, []*model.FileChange, error) {
	logger := ctxlog.From(ctx).With("commit_id", commit.ID)

	files, err := x.fileChanges(ctx, commit)
	if err != nil {
		metrics.CommitsProcessed.WithLabelValues("failed").Inc()
		return nil, nil, err
	}

	docFiles := model.FilterDocFileChanges(files)
	if len(docFiles) == 0 {
		logger.Debug("No documentation files changed, skipping", "files", len(files))
		metrics.CommitsProcessed.WithLabelValues("skipped").Inc()
		return nil, nil, nil
	}

	summary := x.summarizer.Summarize(ctx, commit, docFiles)
	entry := model.NewChangelogEntry(commit, docFiles, summary)

	if err := x.store.Save(ctx, entry); err != nil {
		metrics.CommitsProcessed.WithLabelValues("failed").Inc()
		return nil, nil, goerr.Wrap(err, "failed to save changelog entry", goerr.V("entry_id", entry.ID))
	}
	metrics.CommitsProcessed.WithLabelValues("saved").Inc()

	logger.Info("Saved changelog entry",
		"entry_id", entry.ID,
		"doc_files", len(docFiles),
		"title", entry.Title,
	)

	if x.notifier != nil {
		async.Dispatch(ctx, func(ctx context.Context) error {
			return x.notifier.NotifyChangelogEntry(ctx, entry)
		})
	}

	return entry, docFiles, nil
}

// fileChanges prefers the commits API and fills missing commit fields from
// it; without a GitHub client the payload lists are used
func (x *DocsChangelog) fileChanges(ctx context.Context, commit *model.Commit) ([]*model.FileChange, error) {
	if x.githubClient == nil {
		return model.FileChangesFromCommit(commit), nil
	}

	detail, err := x.githubClient.GetCommit(ctx, x.owner, x.repo, commit.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch commit details", goerr.V("commit_id", commit.ID))
	}

	if commit.Message == "" {
		commit.Message = detail.Commit.Message
	}
	if commit.URL == "" {
		commit.URL = detail.Commit.URL
	}
	if commit.Timestamp == "" {
		commit.Timestamp = detail.Commit.Timestamp
	}
	if commit.Author.Name == "" || commit.Author.Name == "Unknown" {
		if detail.Commit.Author.Name != "" {
			commit.Author = detail.Commit.Author
		}
	}

	return detail.Files, nil
}

// Trigger processes the documentation commits among the latest commits of
// the target branch
func (x *DocsChangelog) Trigger(ctx context.Context) ([]*model.TriggerResult, error) {
	return x.Scan(ctx, DefaultTriggerLimit, 0)
}

// Scan inspects up to scanLimit recent commits and processes documentation
// commits among them, stopping after maxDocs when maxDocs > 0. A failing
// commit is reported and skipped.
func (x *DocsChangelog) Scan(ctx context.Context, scanLimit, maxDocs int) ([]*model.TriggerResult, error) {
	logger := ctxlog.From(ctx)

	if x.githubClient == nil {
		return nil, types.ErrGitHubNotConfigured
	}

	commits, err := x.githubClient.ListCommits(ctx, x.owner, x.repo, x.branch, scanLimit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list recent commits",
			goerr.V("repository", x.owner+"/"+x.repo),
			goerr.V("branch", x.branch),
		)
	}
	logger.Info("Scanning recent commits", "count", len(commits), "branch", x.branch)

	results := []*model.TriggerResult{}
	for _, commit := range commits {
		if maxDocs > 0 && len(results) >= maxDocs {
			break
		}

		entry, docFiles, err := x.process(ctx, commit)
		if err != nil {
			errutil.Handle(ctx, "failed to process commit", err)
			continue
		}
		if entry == nil {
			continue
		}

		names := make([]string, 0, len(docFiles))
		for _, f := range docFiles {
			names = append(names, f.Filename)
		}
		results = append(results, &model.TriggerResult{
			SHA:          commit.ID,
			Message:      commit.Message,
			Author:       commit.Author.Name,
			Date:         commit.Timestamp,
			FilesChanged: len(docFiles),
			Files:        names,
		})
	}

	return results, nil
}

// Poll processes commits pushed since the previous poll, oldest first, and
// records the newest commit. It returns the number of saved entries.
func (x *DocsChangelog) Poll(ctx context.Context) (int, error) {
	logger := ctxlog.From(ctx)

	if x.githubClient == nil {
		return 0, types.ErrGitHubNotConfigured
	}

	state, err := x.loadPollState(ctx)
	if err != nil {
		return 0, err
	}

	commits, err := x.githubClient.ListCommits(ctx, x.owner, x.repo, x.branch, DefaultTriggerLimit)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list recent commits", goerr.V("branch", x.branch))
	}
	if len(commits) == 0 {
		logger.Info("No commits found", "branch", x.branch)
		return 0, nil
	}

	latest := commits[0].ID
	if latest == state.LastProcessedSHA {
		logger.Debug("No new commits since last poll", "sha", latest)
		return 0, nil
	}

	newCommits := slices.Clone(model.CommitsSince(commits, state.LastProcessedSHA))
	slices.Reverse(newCommits)
	logger.Info("Found new commits", "count", len(newCommits), "last_sha", state.LastProcessedSHA)

	saved := 0
	for _, commit := range newCommits {
		entry, err := x.ProcessCommit(ctx, commit)
		if err != nil {
			errutil.Handle(ctx, "failed to process commit", err)
			continue
		}
		if entry != nil {
			saved++
		}
	}

	state = &model.PollState{
		LastProcessedSHA: latest,
		LastUpdated:      model.FormatTime(x.now()),
	}
	if err := x.savePollState(ctx, state); err != nil {
		return saved, err
	}

	return saved, nil
}

func (x *DocsChangelog) loadPollState(ctx context.Context) (*model.PollState, error) {
	data, err := x.kv.Get(ctx, PollStateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load poll state")
	}

	var state model.PollState
	if len(data) == 0 {
		return &state, nil
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, goerr.Wrap(err, "failed to decode poll state")
	}
	return &state, nil
}

func (x *DocsChangelog) savePollState(ctx context.Context, state *model.PollState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return goerr.Wrap(err, "failed to encode poll state")
	}
	if err := x.kv.Put(ctx, PollStateKey, data); err != nil {
		return goerr.Wrap(err, "failed to save poll state")
	}
	return nil
}

// Entries returns stored entries, newest first, published in the last days
// days. days <= 0 returns all.
func (x *DocsChangelog) Entries(ctx context.Context, days int) ([]*model.ChangelogEntry, error) {
	entries, err := x.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		return entries, nil
	}

	now := x.now()
	filtered := make([]*model.ChangelogEntry, 0, len(entries))
	for _, e := range entries {
		item := model.FeedItem{PublishedAt: e.PublishedAt}
		if item.WithinDays(now, days) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}
