package usecase

import (
	"io"
	"strings"
	"text/template"

	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

const rssTimeLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// RSSChannel describes the feed-level elements of the changelog RSS output
type RSSChannel struct {
	Title       string
	Link        string
	Description string
	SelfURL     string
}

// DefaultRSSChannel is used when no channel metadata is configured
var DefaultRSSChannel = RSSChannel{
	Title:       "Documentation Changelog",
	Link:        "https://docs.sentry.io/changelog",
	Description: "Recent updates to documentation",
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML escapes the five XML special characters
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

var rssTemplate = template.Must(template.New("rss").Funcs(template.FuncMap{
	"x": EscapeXML,
}).Parse(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
  <channel>
    <title>{{ x .Channel.Title }}</title>
    <link>{{ x .Channel.Link }}</link>
    <description>{{ x .Channel.Description }}</description>
{{- if .Channel.SelfURL }}
    <atom:link href="{{ x .Channel.SelfURL }}" rel="self" type="application/rss+xml"/>
{{- end }}
{{- range .Items }}
    <item>
      <title>{{ x .Title }}</title>
      <link>{{ x .Link }}</link>
      <description>{{ x .Description }}</description>
      <pubDate>{{ .PubDate }}</pubDate>
      <guid>{{ x .Link }}</guid>
      <author>{{ x .Author }}</author>
    </item>
{{- end }}
  </channel>
</rss>
`))

type rssItem struct {
	Title       string
	Link        string
	Description string
	PubDate     string
	Author      string
}

// RenderRSS writes entries as an RSS 2.0 document. Description falls back to
// the AI summary; pubDate is in RFC 1123 GMT form.
func RenderRSS(w io.Writer, channel RSSChannel, entries []*model.ChangelogEntry) error {
	items := make([]rssItem, 0, len(entries))
	for _, e := range entries {
		description := e.Description
		if description == "" {
			description = e.AISummary
		}

		var pubDate string
		if t, ok := model.ParseTime(e.PublishedAt); ok {
			pubDate = t.UTC().Format(rssTimeLayout)
		}

		items = append(items, rssItem{
			Title:       e.Title,
			Link:        e.URL,
			Description: description,
			PubDate:     pubDate,
			Author:      e.Author,
		})
	}

	if err := rssTemplate.Execute(w, map[string]any{
		"Channel": channel,
		"Items":   items,
	}); err != nil {
		return goerr.Wrap(err, "failed to render RSS feed")
	}
	return nil
}
