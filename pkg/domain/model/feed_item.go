package model

import (
	"time"

	"github.com/m-mizutani/docsflow/pkg/domain/types"
)

// TimeLayout is the ISO-8601 layout (millisecond precision, UTC) used in API responses
const TimeLayout = "2006-01-02T15:04:05.000Z"

// FeedItem is an ephemeral content item built from a feed, a video listing
// or a stored changelog entry. It is recomputed on every request.
type FeedItem struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	URL         string       `json:"url"`
	PublishedAt string       `json:"publishedAt"`
	Source      types.Source `json:"source"`
	Author      string       `json:"author,omitempty"`
	Thumbnail   string       `json:"thumbnail,omitempty"`
	Categories  []string     `json:"categories"`
}

// PublishedTime parses PublishedAt. Unparseable values yield the zero time.
func (x *FeedItem) PublishedTime() time.Time {
	t, _ := ParseTime(x.PublishedAt)
	return t
}

// FormatTime formats t with TimeLayout
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2006-01-02",
}

// ParseTime parses the timestamp formats seen in feeds and GitHub payloads
func ParseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// WithinDays reports whether the item was published in the last days days.
// days <= 0 disables the window.
func (x *FeedItem) WithinDays(now time.Time, days int) bool {
	if days <= 0 {
		return true
	}
	t, ok := ParseTime(x.PublishedAt)
	if !ok {
		return false
	}
	return !t.Before(now.AddDate(0, 0, -days))
}
