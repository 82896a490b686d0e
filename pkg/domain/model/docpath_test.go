package model_test

import (
	"encoding/json"
	"testing"

	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func TestIsDocumentationPath(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"docs/intro.md", true},
		{"README.md", true},
		{"guide/page.mdx", true},
		{"CHANGELOG.MD", true},
		{"src/docs/index.ts", true},
		{"docs/images/logo.png", true},
		{"platform/Documentation/config.json", true},
		{"src/app.ts", false},
		{"mydocs/file.ts", false},
		{"docs.json", false},
		{"package.json", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			gt.Equal(t, model.IsDocumentationPath(tt.filename), tt.want)
		})
	}
}

func TestFilterDocFiles(t *testing.T) {
	t.Run("keeps documentation paths in order", func(t *testing.T) {
		got := model.FilterDocFiles([]string{"src/a.go", "docs/b.md", "README.md", "main.go"})
		gt.Value(t, got).Equal([]string{"docs/b.md", "README.md"})
	})

	t.Run("empty result is not nil", func(t *testing.T) {
		got := model.FilterDocFiles([]string{"src/a.go"})
		gt.True(t, got != nil)
		raw, err := json.Marshal(got)
		gt.NoError(t, err)
		gt.Equal(t, string(raw), "[]")
	})
}

func TestFilterDocFileChanges(t *testing.T) {
	files := []*model.FileChange{
		{Filename: "docs/intro.md", Status: model.FileStatusAdded},
		{Filename: "src/app.ts", Status: model.FileStatusModified},
		nil,
	}

	got := model.FilterDocFileChanges(files)
	gt.Equal(t, len(got), 1)
	gt.Equal(t, got[0].Filename, "docs/intro.md")
}
