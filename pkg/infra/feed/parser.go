package feed

import (
	"html"
	"strings"
	"time"

	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

var stripPolicy = bluemonday.StrictPolicy()

// Parse extracts items from RSS or Atom text in document order. Items with
// neither title nor link are dropped; a missing or unparseable date becomes
// now.
func Parse(data string, source types.Source, now time.Time) ([]*model.FeedItem, error) {
	feed, err := gofeed.NewParser().ParseString(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse feed", goerr.V("source", source))
	}

	items := make([]*model.FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		title := cleanText(it.Title)
		link := strings.TrimSpace(it.Link)
		if link == "" && len(it.Links) > 0 {
			link = strings.TrimSpace(it.Links[0])
		}
		if title == "" && link == "" {
			continue
		}

		description := cleanText(it.Description)
		if description == "" {
			description = cleanText(it.Content)
		}

		id := it.GUID
		if id == "" {
			id = link
		}

		items = append(items, &model.FeedItem{
			ID:          id,
			Title:       title,
			Description: description,
			URL:         link,
			PublishedAt: model.FormatTime(itemTime(it, now)),
			Source:      source,
			Author:      itemAuthor(it),
			Categories:  model.DetectCategories(title, description, source),
		})
	}

	return items, nil
}

func itemTime(it *gofeed.Item, now time.Time) time.Time {
	switch {
	case it.PublishedParsed != nil:
		return *it.PublishedParsed
	case it.UpdatedParsed != nil:
		return *it.UpdatedParsed
	}

	for _, s := range []string{it.Published, it.Updated} {
		if t, ok := model.ParseTime(strings.TrimSpace(s)); ok {
			return t
		}
	}
	return now
}

func itemAuthor(it *gofeed.Item) string {
	if it.Author != nil && it.Author.Name != "" {
		return cleanText(it.Author.Name)
	}
	for _, a := range it.Authors {
		if a != nil && a.Name != "" {
			return cleanText(a.Name)
		}
	}
	if it.DublinCoreExt != nil && len(it.DublinCoreExt.Creator) > 0 {
		return cleanText(it.DublinCoreExt.Creator[0])
	}
	return ""
}

// cleanText strips markup, decodes entities and collapses whitespace
func cleanText(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}
