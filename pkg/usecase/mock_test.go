package usecase_test

import (
	"context"

	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/domain/types"
)

type githubClientMock struct {
	GetCommitFunc   func(ctx context.Context, owner, repo, sha string) (*model.CommitDetail, error)
	ListCommitsFunc func(ctx context.Context, owner, repo, branch string, limit int) ([]*model.Commit, error)
}

func (m *githubClientMock) GetCommit(ctx context.Context, owner, repo, sha string) (*model.CommitDetail, error) {
	return m.GetCommitFunc(ctx, owner, repo, sha)
}

func (m *githubClientMock) ListCommits(ctx context.Context, owner, repo, branch string, limit int) ([]*model.Commit, error) {
	return m.ListCommitsFunc(ctx, owner, repo, branch, limit)
}

type summarizerMock struct {
	SummarizeFunc func(ctx context.Context, commit *model.Commit, files []*model.FileChange) string
}

func (m *summarizerMock) Summarize(ctx context.Context, commit *model.Commit, files []*model.FileChange) string {
	return m.SummarizeFunc(ctx, commit, files)
}

func staticSummarizer(s string) *summarizerMock {
	return &summarizerMock{
		SummarizeFunc: func(ctx context.Context, commit *model.Commit, files []*model.FileChange) string {
			return s
		},
	}
}

type notifierMock struct {
	NotifyFunc func(ctx context.Context, entry *model.ChangelogEntry) error
}

func (m *notifierMock) NotifyChangelogEntry(ctx context.Context, entry *model.ChangelogEntry) error {
	return m.NotifyFunc(ctx, entry)
}

type feedFetcherMock struct {
	FetchFunc func(ctx context.Context, url string, source types.Source) ([]*model.FeedItem, error)
}

func (m *feedFetcherMock) Fetch(ctx context.Context, url string, source types.Source) ([]*model.FeedItem, error) {
	return m.FetchFunc(ctx, url, source)
}

type videoSourceMock struct {
	ListVideosFunc func(ctx context.Context, channelID string, limit int) ([]*model.FeedItem, error)
}

func (m *videoSourceMock) ListVideos(ctx context.Context, channelID string, limit int) ([]*model.FeedItem, error) {
	return m.ListVideosFunc(ctx, channelID, limit)
}

// failingKV fails every operation
type failingKV struct {
	err error
}

func (m *failingKV) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, m.err
}

func (m *failingKV) Put(ctx context.Context, key string, value []byte) error {
	return m.err
}
