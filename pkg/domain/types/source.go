package types

// Source identifies where a content item came from
type Source string

const (
	SourceBlog      Source = "blog"
	SourceYouTube   Source = "youtube"
	SourceDocs      Source = "docs"
	SourceChangelog Source = "changelog"
)

// Sources lists all sources in export order
var Sources = []Source{SourceBlog, SourceYouTube, SourceDocs, SourceChangelog}

func (s Source) String() string { return string(s) }

// Valid reports whether s is a known source
func (s Source) Valid() bool {
	for _, src := range Sources {
		if s == src {
			return true
		}
	}
	return false
}
