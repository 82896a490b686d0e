package interfaces

import (
	"context"

	"github.com/m-mizutani/docsflow/pkg/domain/model"
)

// GitHubClient defines operations for interacting with GitHub API
type GitHubClient interface {
	// GetCommit returns a commit with its per-file changes
	GetCommit(ctx context.Context, owner, repo, sha string) (*model.CommitDetail, error)

	// ListCommits returns the latest commits on branch, newest first
	ListCommits(ctx context.Context, owner, repo, branch string, limit int) ([]*model.Commit, error)
}
