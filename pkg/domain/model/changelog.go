package model

import (
	"github.com/m-mizutani/docsflow/pkg/domain/types"
)

// MaxChangelogEntries bounds the number of entries kept in the store
const MaxChangelogEntries = 100

// ChangelogEntryPrefix prefixes commit ids to build entry ids
const ChangelogEntryPrefix = "docs-"

// FilesChanged lists documentation files touched by a commit, per change kind
type FilesChanged struct {
	Added    []string `json:"added"`
	Removed  []string `json:"removed"`
	Modified []string `json:"modified"`
}

// Total returns the number of files in all lists
func (f FilesChanged) Total() int {
	return len(f.Added) + len(f.Removed) + len(f.Modified)
}

// ChangelogEntry is a persisted record summarizing one documentation commit
type ChangelogEntry struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	URL          string       `json:"url"`
	PublishedAt  string       `json:"publishedAt"`
	Source       types.Source `json:"source"`
	Categories   []string     `json:"categories"`
	CommitID     string       `json:"commitId"`
	Author       string       `json:"author"`
	FilesChanged FilesChanged `json:"filesChanged"`
	AISummary    string       `json:"aiSummary"`
}

// EntryID returns the changelog entry id of a commit
func EntryID(commitID string) string {
	return ChangelogEntryPrefix + commitID
}

// NewChangelogEntry builds an entry for a documentation commit. docFiles must
// already be filtered to documentation paths.
func NewChangelogEntry(commit *Commit, docFiles []*FileChange, summary string) *ChangelogEntry {
	title := "Docs Update: " + commit.Headline()

	publishedAt := commit.Timestamp
	if publishedAt == "" {
		publishedAt = NowTimestamp()
	}

	return &ChangelogEntry{
		ID:           EntryID(commit.ID),
		Title:        title,
		Description:  summary,
		URL:          commit.URL,
		PublishedAt:  publishedAt,
		Source:       types.SourceDocs,
		Categories:   DetectCategories(title, summary, types.SourceDocs),
		CommitID:     commit.ID,
		Author:       commit.Author.Name,
		FilesChanged: buildFilesChanged(commit, docFiles),
		AISummary:    summary,
	}
}

// buildFilesChanged prefers the push payload lists; commits coming from the
// commits API carry no lists, so the file statuses are used instead.
func buildFilesChanged(commit *Commit, docFiles []*FileChange) FilesChanged {
	if len(commit.Added)+len(commit.Removed)+len(commit.Modified) > 0 {
		return FilesChanged{
			Added:    FilterDocFiles(commit.Added),
			Removed:  FilterDocFiles(commit.Removed),
			Modified: FilterDocFiles(commit.Modified),
		}
	}

	fc := FilesChanged{Added: []string{}, Removed: []string{}, Modified: []string{}}
	for _, f := range docFiles {
		switch f.Status {
		case FileStatusAdded:
			fc.Added = append(fc.Added, f.Filename)
		case FileStatusRemoved:
			fc.Removed = append(fc.Removed, f.Filename)
		default:
			fc.Modified = append(fc.Modified, f.Filename)
		}
	}
	return fc
}

// ToFeedItem converts the entry into a content item
func (e *ChangelogEntry) ToFeedItem() *FeedItem {
	description := e.Description
	if description == "" {
		description = e.AISummary
	}
	return &FeedItem{
		ID:          e.ID,
		Title:       e.Title,
		Description: description,
		URL:         e.URL,
		PublishedAt: e.PublishedAt,
		Source:      types.SourceDocs,
		Author:      e.Author,
		Categories:  e.Categories,
	}
}

// UpsertEntry replaces the entry with the same id in place, or prepends it
// when new. The result is truncated to limit entries.
func UpsertEntry(entries []*ChangelogEntry, entry *ChangelogEntry, limit int) []*ChangelogEntry {
	replaced := false
	for i := range entries {
		if entries[i].ID == entry.ID {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append([]*ChangelogEntry{entry}, entries...)
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
