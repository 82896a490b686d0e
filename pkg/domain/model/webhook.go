package model

import (
	"strings"
	"time"
)

// WebhookEventType represents the type of webhook event received
type WebhookEventType string

const (
	EventTypePush    WebhookEventType = "push"
	EventTypePing    WebhookEventType = "ping"
	EventTypeUnknown WebhookEventType = "unknown"
)

// WebhookEvent is a verified push delivery
type WebhookEvent struct {
	ID         string           // Retrieved from X-GitHub-Delivery header
	Type       WebhookEventType // Retrieved from X-GitHub-Event header
	Ref        string
	Repository string // owner/name
	Commits    []*RawCommit
	ReceivedAt time.Time
}

// PushRepository is the repository block of a push payload
type PushRepository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
}

// PushPayload is the body of a push webhook delivery
type PushPayload struct {
	Ref        string         `json:"ref"`
	Before     string         `json:"before"`
	After      string         `json:"after"`
	Commits    []*RawCommit   `json:"commits"`
	Repository PushRepository `json:"repository"`
}

// Branch returns the branch name of the pushed ref
func (p *PushPayload) Branch() string {
	return strings.TrimPrefix(p.Ref, "refs/heads/")
}

// RawAuthor covers both the push-event author and the git author of the
// commits API
type RawAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
}

// RawGitCommit is the nested "commit" block of the commits API shape
type RawGitCommit struct {
	Message string     `json:"message"`
	Author  *RawAuthor `json:"author"`
}

// RawCommit accepts a commit either in the compact push-event shape or in
// the full commits API shape
type RawCommit struct {
	ID        string        `json:"id"`
	SHA       string        `json:"sha"`
	Message   string        `json:"message"`
	Timestamp string        `json:"timestamp"`
	URL       string        `json:"url"`
	HTMLURL   string        `json:"html_url"`
	Author    *RawAuthor    `json:"author"`
	Commit    *RawGitCommit `json:"commit"`
	Added     []string      `json:"added"`
	Removed   []string      `json:"removed"`
	Modified  []string      `json:"modified"`
}

// Normalize converts the raw commit into the canonical shape. now is used
// when the payload carries no timestamp.
func (r *RawCommit) Normalize(now time.Time) *Commit {
	c := &Commit{
		ID:       first(r.SHA, r.ID),
		Message:  r.Message,
		URL:      first(r.HTMLURL, r.URL),
		Added:    nonNil(r.Added),
		Removed:  nonNil(r.Removed),
		Modified: nonNil(r.Modified),
	}

	var gitAuthor *RawAuthor
	if r.Commit != nil {
		c.Message = first(r.Commit.Message, r.Message)
		gitAuthor = r.Commit.Author
	}

	var name, email, date string
	if gitAuthor != nil {
		name, email, date = gitAuthor.Name, gitAuthor.Email, gitAuthor.Date
	}
	if r.Author != nil {
		name = first(name, r.Author.Name)
		email = first(email, r.Author.Email)
	}

	c.Author = CommitAuthor{
		Name:  first(name, "Unknown"),
		Email: email,
	}
	c.Timestamp = first(date, r.Timestamp)
	if c.Timestamp == "" {
		c.Timestamp = FormatTime(now)
	}

	return c
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
