package model

import (
	"slices"
	"time"

	"github.com/m-mizutani/docsflow/pkg/domain/types"
)

// DefaultWindowDays is the recency window applied to read APIs
const DefaultWindowDays = 90

// ContentFilter selects items of the merged content list
type ContentFilter struct {
	Sources  []types.Source // empty means all sources
	Category string         // empty means any category
	Days     int            // <= 0 disables the window
}

// Match reports whether item passes the filter at now
func (f ContentFilter) Match(item *FeedItem, now time.Time) bool {
	if len(f.Sources) > 0 && !slices.Contains(f.Sources, item.Source) {
		return false
	}
	if f.Category != "" && !slices.Contains(item.Categories, f.Category) {
		return false
	}
	return item.WithinDays(now, f.Days)
}

// SortNewestFirst orders items by publication time, newest first. Items
// with unparseable timestamps sink to the end.
func SortNewestFirst(items []*FeedItem) {
	slices.SortStableFunc(items, func(a, b *FeedItem) int {
		return b.PublishedTime().Compare(a.PublishedTime())
	})
}
