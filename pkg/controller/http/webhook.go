package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/docsflow/pkg/domain/interfaces"
	"github.com/m-mizutani/docsflow/pkg/domain/model"
	"github.com/m-mizutani/docsflow/pkg/utils/metrics"
	"github.com/m-mizutani/goerr/v2"
	"github.com/samber/lo"
)

// MaxPayloadSize is the largest webhook body GitHub delivers
const MaxPayloadSize = 25 << 20

// WebhookHandler handles GitHub push webhooks
type WebhookHandler struct {
	secret     string
	processor  interfaces.PushProcessor
	repository string
	branches   []string
	now        func() time.Time
}

// NewWebhookHandler creates a new WebhookHandler. Deliveries for other
// repositories than repository or other branches than branches are
// acknowledged and ignored.
func NewWebhookHandler(secret string, processor interfaces.PushProcessor, repository string, branches []string) *WebhookHandler {
	return &WebhookHandler{
		secret:     secret,
		processor:  processor,
		repository: repository,
		branches:   branches,
		now:        time.Now,
	}
}

// Handle processes webhook requests
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	// Read payload
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxPayloadSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("Webhook payload too large", "limit", tooLarge.Limit)
			metrics.WebhookDeliveries.WithLabelValues("rejected").Inc()
			writeError(w, goerr.New("Payload too large"), http.StatusRequestEntityTooLarge)
			return
		}
		logger.Error("Failed to read request body", "error", err)
		writeError(w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Verify signature
	signature := r.Header.Get("X-Hub-Signature-256")
	if signature == "" {
		logger.Warn("No webhook signature provided")
		metrics.WebhookDeliveries.WithLabelValues("rejected").Inc()
		writeError(w, goerr.New("No signature provided"), http.StatusUnauthorized)
		return
	}
	if !h.verifySignature(body, signature) {
		logger.Warn("Invalid webhook signature")
		metrics.WebhookDeliveries.WithLabelValues("rejected").Inc()
		writeError(w, goerr.New("Invalid signature"), http.StatusUnauthorized)
		return
	}

	deliveryID := r.Header.Get("X-GitHub-Delivery")
	if deliveryID == "" {
		deliveryID = uuid.NewString()
	}
	logger = logger.With("delivery_id", deliveryID)

	eventType := r.Header.Get("X-GitHub-Event")
	switch model.WebhookEventType(eventType) {
	case model.EventTypePing:
		writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
		return
	case model.EventTypePush, "":
	default:
		logger.Info("Ignoring non-push event", "event", eventType)
		metrics.WebhookDeliveries.WithLabelValues("skipped").Inc()
		writeJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("Ignored %s event", eventType),
		})
		return
	}

	var payload model.PushPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		logger.Error("Failed to parse webhook payload", "error", err)
		metrics.WebhookDeliveries.WithLabelValues("invalid").Inc()
		writeError(w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}

	// Scope check
	if !lo.Contains(h.branches, payload.Branch()) {
		logger.Info("Ignoring push to non-target branch", "ref", payload.Ref)
		metrics.WebhookDeliveries.WithLabelValues("skipped").Inc()
		writeJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("Ignored non-%s branch", strings.Join(h.branches, "/")),
		})
		return
	}
	if payload.Repository.FullName != h.repository {
		logger.Info("Ignoring non-target repository", "repository", payload.Repository.FullName)
		metrics.WebhookDeliveries.WithLabelValues("skipped").Inc()
		writeJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("Ignored non-%s repository", repoName(h.repository)),
		})
		return
	}

	event := &model.WebhookEvent{
		ID:         deliveryID,
		Type:       model.EventTypePush,
		Ref:        payload.Ref,
		Repository: payload.Repository.FullName,
		Commits:    payload.Commits,
		ReceivedAt: h.now(),
	}

	if err := h.processor.ProcessPush(ctxlog.With(ctx, logger), event); err != nil {
		logger.Error("Failed to process webhook event", "error", err)
		writeError(w, goerr.New("Failed to process webhook"), http.StatusInternalServerError)
		return
	}

	metrics.WebhookDeliveries.WithLabelValues("accepted").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"message":          "Webhook processed successfully",
		"commitsProcessed": len(payload.Commits),
	})
}

// HandleStatus answers GET probes of the webhook endpoint
func (h *WebhookHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "GitHub webhook endpoint is active",
		"timestamp": model.FormatTime(h.now()),
	})
}

// verifySignature verifies the webhook signature
func (h *WebhookHandler) verifySignature(payload []byte, signature string) bool {
	digest, ok := strings.CutPrefix(signature, "sha256=")
	if !ok || digest == "" {
		return false
	}

	// Calculate HMAC-SHA256
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(payload)
	expectedMAC := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(digest), []byte(expectedMAC))
}

func repoName(fullName string) string {
	if i := strings.LastIndex(fullName, "/"); i >= 0 {
		return fullName[i+1:]
	}
	return fullName
}
