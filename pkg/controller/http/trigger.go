package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/docsflow/pkg/domain/interfaces"
	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/domain/types"
	"github.com/m-mizutani/docsflow/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

// TriggerHandler runs the changelog pipeline over recent commits on demand
type TriggerHandler struct {
	changelogUC interfaces.ChangelogUseCase
}

// NewTriggerHandler creates a new TriggerHandler
func NewTriggerHandler(changelogUC interfaces.ChangelogUseCase) *TriggerHandler {
	return &TriggerHandler{changelogUC: changelogUC}
}

// Handle processes manual trigger requests
func (h *TriggerHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	results, err := h.changelogUC.Trigger(ctx)
	if err != nil {
		if errors.Is(err, types.ErrGitHubNotConfigured) {
			writeError(w, types.ErrGitHubNotConfigured, http.StatusBadRequest)
			return
		}
		errutil.Handle(ctx, "manual trigger failed", err)
		writeError(w, goerr.New("Failed to trigger GitHub processing"), http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []*model.TriggerResult{}
	}

	ctxlog.From(ctx).Info("Manual trigger completed", "commits", len(results))
	writeJSON(w, http.StatusOK, map[string]any{
		"message":          "Manual trigger completed",
		"commitsProcessed": len(results),
		"results":          results,
	})
}

// HandleUsage answers GET probes of the trigger endpoint
func (h *TriggerHandler) HandleUsage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "GitHub trigger endpoint is active",
		"usage":     "POST to this endpoint to manually process recent commits",
		"timestamp": model.FormatTime(time.Now()),
	})
}
