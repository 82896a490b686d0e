package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/docsflow/pkg/domain/interfaces"
	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultTimeout bounds each GitHub API call
const DefaultTimeout = 15 * time.Second

type client struct {
	githubClient *github.Client
	timeout      time.Duration
}

// Option configures the GitHub client
type Option func(*client) error

// WithBaseURL points the client at another API endpoint, such as a test server
func WithBaseURL(baseURL string) Option {
	return func(c *client) error {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return goerr.Wrap(err, "invalid GitHub base URL", goerr.V("url", baseURL))
		}
		c.githubClient.BaseURL = u
		return nil
	}
}

// WithTimeout overrides the per-call timeout
func WithTimeout(d time.Duration) Option {
	return func(c *client) error {
		c.timeout = d
		return nil
	}
}

func newClient(hc *http.Client, opts ...Option) (*client, error) {
	c := &client{
		githubClient: github.NewClient(hc),
		timeout:      DefaultTimeout,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewClient creates a new GitHub client authenticated with a token
func NewClient(token string, opts ...Option) (interfaces.GitHubClient, error) {
	if token == "" {
		return nil, goerr.New("GitHub token is empty")
	}

	c, err := newClient(&http.Client{}, opts...)
	if err != nil {
		return nil, err
	}
	c.githubClient = c.githubClient.WithAuthToken(token)
	return c, nil
}

// NewAppClient creates a new GitHub client with App authentication
func NewAppClient(appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.GitHubClient, error) {
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID),
		)
	}

	return newClient(&http.Client{Transport: itr}, opts...)
}

// GetCommit returns a commit with its per-file changes
func (c *client) GetCommit(ctx context.Context, owner, repo, sha string) (*model.CommitDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rc, _, err := c.githubClient.Repositories.GetCommit(ctx, owner, repo, sha, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get commit",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("sha", sha),
		)
	}

	detail := &model.CommitDetail{
		Commit: *toCommit(rc),
	}
	for _, f := range rc.Files {
		detail.Files = append(detail.Files, &model.FileChange{
			Filename:  f.GetFilename(),
			Status:    f.GetStatus(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
			Changes:   f.GetChanges(),
		})
	}

	return detail, nil
}

// ListCommits returns the latest commits on branch, newest first
func (c *client) ListCommits(ctx context.Context, owner, repo, branch string, limit int) ([]*model.Commit, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rcs, _, err := c.githubClient.Repositories.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
		SHA:         branch,
		ListOptions: github.ListOptions{PerPage: limit},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list commits",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("branch", branch),
		)
	}

	commits := make([]*model.Commit, 0, len(rcs))
	for _, rc := range rcs {
		commits = append(commits, toCommit(rc))
	}
	return commits, nil
}

// toCommit converts a commits API record. The commits API carries no
// added/removed/modified lists; file details come from GetCommit.
func toCommit(rc *github.RepositoryCommit) *model.Commit {
	author := rc.GetCommit().GetAuthor()

	c := &model.Commit{
		ID:      rc.GetSHA(),
		Message: rc.GetCommit().GetMessage(),
		URL:     rc.GetHTMLURL(),
		Author: model.CommitAuthor{
			Name:  author.GetName(),
			Email: author.GetEmail(),
		},
	}
	if c.Author.Name == "" {
		c.Author.Name = "Unknown"
	}
	if date := author.GetDate(); !date.IsZero() {
		c.Timestamp = model.FormatTime(date.Time)
	}
	return c
}
