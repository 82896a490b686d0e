package model

import (
	"strings"

	"github.com/samber/lo"
)

var docSuffixes = []string{".md", ".mdx"}

var docSegments = []string{"/docs/", "/documentation/"}

// IsDocumentationPath reports whether filename is a documentation file: a
// markdown suffix, or a docs/documentation directory anywhere in the path.
// Matching is case-insensitive.
func IsDocumentationPath(filename string) bool {
	name := strings.ToLower(filename)
	for _, suffix := range docSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}

	// A leading "docs/" is a path segment as well
	name = "/" + strings.TrimPrefix(name, "/")
	for _, seg := range docSegments {
		if strings.Contains(name, seg) {
			return true
		}
	}
	return false
}

// FilterDocFiles returns the documentation paths in files, keeping order.
// The result is never nil.
func FilterDocFiles(files []string) []string {
	return lo.Filter(files, func(f string, _ int) bool {
		return IsDocumentationPath(f)
	})
}

// FilterDocFileChanges returns the file changes that touch documentation
func FilterDocFileChanges(files []*FileChange) []*FileChange {
	return lo.Filter(files, func(f *FileChange, _ int) bool {
		return f != nil && IsDocumentationPath(f.Filename)
	})
}
