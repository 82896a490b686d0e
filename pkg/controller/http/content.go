package http

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/docsflow/pkg/domain/interfaces"
	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/domain/types"
	"github.com/m-mizutani/docsflow/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ContentHandler serves the aggregated content sources
type ContentHandler struct {
	contentUC  interfaces.ContentUseCase
	windowDays int
	markdown   goldmark.Markdown
}

// NewContentHandler creates a new ContentHandler. windowDays applies when a
// request has no ?days.
func NewContentHandler(contentUC interfaces.ContentUseCase, windowDays int) *ContentHandler {
	return &ContentHandler{
		contentUC:  contentUC,
		windowDays: windowDays,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
	}
}

// HandleSource returns a handler listing the items of one source
func (h *ContentHandler) HandleSource(source types.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		days, err := parseDays(r, h.windowDays)
		if err != nil {
			writeError(w, err, http.StatusBadRequest)
			return
		}

		items, err := h.contentUC.Items(ctx, source, days)
		switch {
		case errors.Is(err, types.ErrSourceNotConfigured):
			ctxlog.From(ctx).Debug("Source not configured", "source", source)
			items = nil
		case err != nil:
			errutil.Handle(ctx, "failed to fetch source", err)
			writeError(w, goerr.New("Failed to fetch "+source.String()+" content"), http.StatusInternalServerError)
			return
		}
		if items == nil {
			items = []*model.FeedItem{}
		}

		writeJSON(w, http.StatusOK, items)
	}
}

// HandleMerged returns items of all sources, newest first
func (h *ContentHandler) HandleMerged(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r, h.windowDays)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	items, err := h.contentUC.Merged(r.Context(), filter)
	if err != nil {
		errutil.Handle(r.Context(), "failed to merge content", err)
		writeError(w, goerr.New("Failed to fetch content"), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// HandleCategories returns the static category table
func (h *ContentHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.Categories)
}

// HandleExport renders the merged items as markdown, or as HTML with ?format=html
func (h *ContentHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := parseFilter(r, h.windowDays)
	if err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	md, err := h.contentUC.ExportMarkdown(ctx, filter)
	if err != nil {
		errutil.Handle(ctx, "failed to export content", err)
		writeError(w, goerr.New("Failed to generate markdown export"), http.StatusInternalServerError)
		return
	}

	var body []byte
	switch r.URL.Query().Get("format") {
	case "html":
		var buf bytes.Buffer
		buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Content Export</title></head><body>\n")
		if err := h.markdown.Convert([]byte(md), &buf); err != nil {
			errutil.Handle(ctx, "failed to convert export", err)
			writeError(w, goerr.New("Failed to generate markdown export"), http.StatusInternalServerError)
			return
		}
		buf.WriteString("</body></html>\n")
		body = buf.Bytes()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

	case "", "markdown":
		body = []byte(md)
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="content-export.md"`)

	default:
		writeError(w, goerr.New("invalid format parameter", goerr.V("format", r.URL.Query().Get("format"))), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		ctxlog.From(ctx).Error("Failed to write export response", "error", err)
	}
}

// parseFilter builds a content filter from ?source (comma separated),
// ?category and ?days
func parseFilter(r *http.Request, defaultDays int) (model.ContentFilter, error) {
	q := r.URL.Query()

	days, err := parseDays(r, defaultDays)
	if err != nil {
		return model.ContentFilter{}, err
	}

	filter := model.ContentFilter{
		Category: q.Get("category"),
		Days:     days,
	}

	if v := q.Get("source"); v != "" && v != "all" {
		for _, s := range strings.Split(v, ",") {
			src := types.Source(strings.TrimSpace(s))
			if !src.Valid() {
				return model.ContentFilter{}, goerr.Wrap(types.ErrInvalidSource, "invalid source parameter", goerr.V("source", s))
			}
			filter.Sources = append(filter.Sources, src)
		}
	}

	if filter.Category == "all" {
		filter.Category = ""
	}
	if filter.Category != "" {
		if _, ok := model.CategoryByID(filter.Category); !ok {
			return model.ContentFilter{}, goerr.New("invalid category parameter", goerr.V("category", filter.Category))
		}
	}

	return filter, nil
}
