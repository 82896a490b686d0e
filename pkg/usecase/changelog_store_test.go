package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/infra/storage"
	"github.com/m-mizutani/docsflow/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestChangelogStore(t *testing.T) {
	ctx := context.Background()

	t.Run("load without data returns empty list", func(t *testing.T) {
		store := usecase.NewChangelogStore(storage.NewMemory())
		entries, err := store.Load(ctx)
		gt.NoError(t, err)
		gt.True(t, entries != nil)
		raw, err := json.Marshal(entries)
		gt.NoError(t, err)
		gt.Equal(t, string(raw), "[]")
	})

	t.Run("saving twice keeps one record", func(t *testing.T) {
		store := usecase.NewChangelogStore(storage.NewMemory())
		gt.NoError(t, store.Save(ctx, &model.ChangelogEntry{ID: "docs-1", Title: "first"}))
		gt.NoError(t, store.Save(ctx, &model.ChangelogEntry{ID: "docs-1", Title: "second"}))

		entries, err := store.Load(ctx)
		gt.NoError(t, err)
		gt.Equal(t, len(entries), 1)
		gt.Equal(t, entries[0].Title, "second")
	})

	t.Run("101st entry evicts the oldest", func(t *testing.T) {
		store := usecase.NewChangelogStore(storage.NewMemory())
		for i := 0; i <= model.MaxChangelogEntries; i++ {
			gt.NoError(t, store.Save(ctx, &model.ChangelogEntry{ID: fmt.Sprintf("docs-%d", i)}))
		}

		entries, err := store.Load(ctx)
		gt.NoError(t, err)
		gt.Equal(t, len(entries), model.MaxChangelogEntries)
		gt.Equal(t, entries[0].ID, "docs-100")
		for _, e := range entries {
			gt.Value(t, e.ID).NotEqual("docs-0")
		}
	})

	t.Run("persisted layout is a JSON array", func(t *testing.T) {
		kv := storage.NewMemory()
		store := usecase.NewChangelogStore(kv)
		gt.NoError(t, store.Save(ctx, &model.ChangelogEntry{ID: "docs-1"}))

		data, err := kv.Get(ctx, usecase.ChangelogKey)
		gt.NoError(t, err)

		var raw []map[string]any
		gt.NoError(t, json.Unmarshal(data, &raw))
		gt.Equal(t, len(raw), 1)
		gt.Equal(t, raw[0]["id"], any("docs-1"))
	})

	t.Run("backend errors propagate", func(t *testing.T) {
		store := usecase.NewChangelogStore(&failingKV{err: errors.New("unavailable")})
		_, err := store.Load(ctx)
		gt.Error(t, err)
		gt.Error(t, store.Save(ctx, &model.ChangelogEntry{ID: "docs-1"}))
	})

	t.Run("corrupted data is an error", func(t *testing.T) {
		kv := storage.NewMemory()
		gt.NoError(t, kv.Put(ctx, usecase.ChangelogKey, []byte("{broken")))
		_, err := usecase.NewChangelogStore(kv).Load(ctx)
		gt.Error(t, err)
	})
}
