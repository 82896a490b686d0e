package http

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/docsflow/pkg/domain/interfaces"
	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/usecase"
	"github.com/m-mizutani/docsflow/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

// DocsHandler serves the stored documentation changelog
type DocsHandler struct {
	changelogUC interfaces.ChangelogUseCase
	channel     usecase.RSSChannel
}

// NewDocsHandler creates a new DocsHandler
func NewDocsHandler(changelogUC interfaces.ChangelogUseCase, channel usecase.RSSChannel) *DocsHandler {
	return &DocsHandler{
		changelogUC: changelogUC,
		channel:     channel,
	}
}

// HandleChangelog returns stored entries as JSON. Without ?days all entries
// are returned.
func (h *DocsHandler) HandleChangelog(w http.ResponseWriter, r *http.Request) {
	days, err := parseDays(r, 0)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	entries, err := h.changelogUC.Entries(r.Context(), days)
	if err != nil {
		errutil.Handle(r.Context(), "failed to load changelog", err)
		writeError(w, goerr.New("Failed to load documentation changelog"), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []*model.ChangelogEntry{}
	}

	writeJSON(w, http.StatusOK, entries)
}

// HandleFeed returns stored entries as an RSS 2.0 document
func (h *DocsHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.changelogUC.Entries(ctx, 0)
	if err != nil {
		errutil.Handle(ctx, "failed to load changelog", err)
		writeError(w, goerr.New("Failed to generate RSS feed"), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := usecase.RenderRSS(&buf, h.channel, entries); err != nil {
		errutil.Handle(ctx, "failed to render RSS feed", err)
		writeError(w, goerr.New("Failed to generate RSS feed"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		ctxlog.From(ctx).Error("Failed to write RSS response", "error", err)
	}
}

// parseDays reads the ?days query parameter. A missing value yields def.
func parseDays(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("days")
	if v == "" {
		return def, nil
	}

	days, err := strconv.Atoi(v)
	if err != nil || days < 0 {
		return 0, goerr.New("invalid days parameter", goerr.V("days", v))
	}
	return days, nil
}
