package usecase

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/m-mizutani/docsflow/pkg/domain/interfaces"
	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// ChangelogKey is the fixed logical name of the stored entry list
const ChangelogKey = "docs-changelog"

// ChangelogStore keeps the changelog entry list, newest first, capped at
// model.MaxChangelogEntries. Save is a full read-modify-write without
// locking; concurrent writers resolve as last writer wins.
type ChangelogStore struct {
	kv interfaces.KVStore
}

// NewChangelogStore creates a store over a backend
func NewChangelogStore(kv interfaces.KVStore) *ChangelogStore {
	return &ChangelogStore{kv: kv}
}

// Load returns the stored entries, or an empty list when nothing is stored yet
func (x *ChangelogStore) Load(ctx context.Context) ([]*model.ChangelogEntry, error) {
	data, err := x.kv.Get(ctx, ChangelogKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load changelog")
	}

	entries := []*model.ChangelogEntry{}
	if len(bytes.TrimSpace(data)) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, goerr.Wrap(err, "failed to decode changelog", goerr.V("size", len(data)))
	}
	if entries == nil {
		entries = []*model.ChangelogEntry{}
	}
	return entries, nil
}

// Save replaces the entry with the same id, or prepends it
func (x *ChangelogStore) Save(ctx context.Context, entry *model.ChangelogEntry) error {
	entries, err := x.Load(ctx)
	if err != nil {
		return err
	}

	entries = model.UpsertEntry(entries, entry, model.MaxChangelogEntries)
	return x.Replace(ctx, entries)
}

// Replace overwrites the whole list, truncated to the capacity bound
func (x *ChangelogStore) Replace(ctx context.Context, entries []*model.ChangelogEntry) error {
	if entries == nil {
		entries = []*model.ChangelogEntry{}
	}
	if len(entries) > model.MaxChangelogEntries {
		entries = entries[:model.MaxChangelogEntries]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode changelog")
	}
	if err := x.kv.Put(ctx, ChangelogKey, data); err != nil {
		return goerr.Wrap(err, "failed to save changelog", goerr.V("entries", len(entries)))
	}
	return nil
}
