package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/http/middleware"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/infra/logger"
	"github.com/acompanythatsellseverything/BOAK-backend/internal/usecase"
)

type LeadSyncer interface {
	Execute(ctx context.Context, input usecase.SyncLeadInput) usecase.SyncResult
}

type ShortLeadSyncer interface {
	Execute(ctx context.Context, input usecase.SyncShortLeadInput) usecase.SyncResult
}

// WebhookPayload is the envelope the lead-capture form posts. Data is a
// loose mapping; required keys depend on the form variant.
type WebhookPayload struct {
	Event          string                 `json:"event"`
	Data           map[string]interface{} `json:"data"`
	AttributionURL string                 `json:"attribution_url,omitempty"`
}

type WebhookHandler struct {
	syncLead      LeadSyncer
	syncShortLead ShortLeadSyncer
	log           logger.Logger
	rateLimiter   *RateLimiter
}

func NewWebhookHandler(syncLead LeadSyncer, syncShortLead ShortLeadSyncer, log logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		syncLead:      syncLead,
		syncShortLead: syncShortLead,
		log:           log,
		rateLimiter:   NewRateLimiter(30, time.Minute), // 30 req/min per IP
	}
}

// HandleFull processes the full capture form (keyed by email). The
// caller always gets HTTP 200 with a status envelope; failures are
// visible only in the body.
func (h *WebhookHandler) HandleFull(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()

	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, usecase.SyncResult{
			Status:  usecase.StatusError,
			Message: "too many requests",
		})
		return
	}

	payload, ok := h.decode(w, r, requestID)
	if !ok {
		return
	}

	input := usecase.SyncLeadInput{
		RequestID:      requestID,
		Email:          stringField(payload.Data, "email"),
		Name:           stringField(payload.Data, "name"),
		Phone:          stringField(payload.Data, "phone"),
		Comment:        stringField(payload.Data, "comment"),
		AttributionURL: payload.AttributionURL,
	}

	result := h.syncLead.Execute(r.Context(), input)
	middleware.RecordLeadSync(usecase.FormFull, result.Status)

	writeJSON(w, http.StatusOK, result)
}

// HandleShort processes the short capture form (keyed by phone).
func (h *WebhookHandler) HandleShort(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()

	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, usecase.SyncResult{
			Status:  usecase.StatusError,
			Message: "too many requests",
		})
		return
	}

	payload, ok := h.decode(w, r, requestID)
	if !ok {
		return
	}

	input := usecase.SyncShortLeadInput{
		RequestID:      requestID,
		Name:           stringField(payload.Data, "name"),
		Phone:          stringField(payload.Data, "phone"),
		AttributionURL: payload.AttributionURL,
	}

	result := h.syncShortLead.Execute(r.Context(), input)
	middleware.RecordLeadSync(usecase.FormShort, result.Status)

	writeJSON(w, http.StatusOK, result)
}

func (h *WebhookHandler) decode(w http.ResponseWriter, r *http.Request, requestID string) (WebhookPayload, bool) {
	var payload WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.log.Error("undecodable webhook body", "request_id", requestID, "error", err.Error())
		writeJSON(w, http.StatusOK, usecase.SyncResult{
			Status:  usecase.StatusError,
			Message: "invalid JSON body",
		})
		return WebhookPayload{}, false
	}

	h.log.Info("received webhook",
		"request_id", requestID,
		"event", payload.Event,
		"path", r.URL.Path,
	)

	return payload, true
}

func stringField(data map[string]interface{}, key string) string {
	if data == nil {
		return ""
	}
	if value, ok := data[key].(string); ok {
		return value
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
