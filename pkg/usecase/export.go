package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/domain/types"
	"github.com/samber/lo"
)

type exportSection struct {
	source    types.Source
	heading   string
	label     string
	dateLabel string
}

var exportSections = []exportSection{
	{types.SourceBlog, "📝 Blog Posts", "Blog Posts", "Published"},
	{types.SourceYouTube, "🎥 YouTube Videos", "YouTube Videos", "Published"},
	{types.SourceDocs, "📚 Documentation", "Documentation", "Last Modified"},
	{types.SourceChangelog, "🗒️ Changelog Updates", "Changelog Updates", "Published"},
}

// RenderMarkdown renders items grouped by source, each group keeping the
// order of items, followed by per-source counts
func RenderMarkdown(title string, items []*model.FeedItem, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s - Export\n\n", title)
	fmt.Fprintf(&b, "Generated on: %s\n", model.FormatTime(now))
	fmt.Fprintf(&b, "Total items: %d\n\n", len(items))

	counts := make(map[types.Source]int, len(exportSections))
	for _, sec := range exportSections {
		group := lo.Filter(items, func(item *model.FeedItem, _ int) bool {
			return item.Source == sec.source
		})
		counts[sec.source] = len(group)
		if len(group) == 0 {
			continue
		}

		fmt.Fprintf(&b, "## %s (%d)\n\n", sec.heading, len(group))
		for i, item := range group {
			fmt.Fprintf(&b, "### %d. %s\n", i+1, item.Title)
			fmt.Fprintf(&b, "- **URL**: %s\n", item.URL)
			fmt.Fprintf(&b, "- **%s**: %s\n", sec.dateLabel, item.PublishedAt)
			if item.Author != "" {
				fmt.Fprintf(&b, "- **Author**: %s\n", item.Author)
			}
			if len(item.Categories) > 0 {
				fmt.Fprintf(&b, "- **Categories**: %s\n", strings.Join(lo.Map(item.Categories, func(id string, _ int) string {
					return model.CategoryName(id)
				}), ", "))
			}
			if item.Description != "" {
				fmt.Fprintf(&b, "- **Description**: %s\n", item.Description)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## 📊 Summary\n\n")
	for _, sec := range exportSections {
		fmt.Fprintf(&b, "- **%s**: %d\n", sec.label, counts[sec.source])
	}
	fmt.Fprintf(&b, "- **Total Content Items**: %d\n\n", len(items))

	b.WriteString("---\n")
	fmt.Fprintf(&b, "*This export was generated by the %s for LLM ingestion and analysis.*\n", title)

	return b.String()
}
