package model

import (
	"strings"
	"time"
)

// CommitAuthor is the author of a commit
type CommitAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Commit is the canonical commit record used by the changelog pipeline.
// Webhook payloads and the commits API are both normalized into it.
type Commit struct {
	ID        string       `json:"id"`
	Message   string       `json:"message"`
	Timestamp string       `json:"timestamp"`
	URL       string       `json:"url"`
	Author    CommitAuthor `json:"author"`
	Added     []string     `json:"added"`
	Removed   []string     `json:"removed"`
	Modified  []string     `json:"modified"`
}

// Headline returns the first line of the commit message
func (c *Commit) Headline() string {
	line, _, _ := strings.Cut(c.Message, "\n")
	return strings.TrimSpace(line)
}

// FileChange is the per-file detail of a commit
type FileChange struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
}

// File change statuses reported by the GitHub commits API
const (
	FileStatusAdded    = "added"
	FileStatusRemoved  = "removed"
	FileStatusModified = "modified"
	FileStatusRenamed  = "renamed"
)

// CommitDetail is a commit together with its per-file changes
type CommitDetail struct {
	Commit Commit
	Files  []*FileChange
}

// FileChangesFromCommit derives file details from the added/removed/modified
// lists of a push payload. Line counts are unknown and left zero.
func FileChangesFromCommit(c *Commit) []*FileChange {
	var files []*FileChange
	for _, f := range c.Added {
		files = append(files, &FileChange{Filename: f, Status: FileStatusAdded})
	}
	for _, f := range c.Removed {
		files = append(files, &FileChange{Filename: f, Status: FileStatusRemoved})
	}
	for _, f := range c.Modified {
		files = append(files, &FileChange{Filename: f, Status: FileStatusModified})
	}
	return files
}

// TriggerResult describes one documentation commit found by a manual trigger
type TriggerResult struct {
	SHA          string   `json:"sha"`
	Message      string   `json:"message"`
	Author       string   `json:"author"`
	Date         string   `json:"date"`
	FilesChanged int      `json:"filesChanged"`
	Files        []string `json:"files"`
}

// NowTimestamp returns the current time in the format stored on entries
func NowTimestamp() string {
	return FormatTime(time.Now())
}
