package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/coe-acad/p2p-solar-trade/internal/publish"
	"github.com/coe-acad/p2p-solar-trade/internal/trades"
	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	"go.uber.org/zap"
)

// PublishHandler handles publish, summary and confirm requests.
type PublishHandler struct {
	publisher *publish.Publisher
	store     *trades.Store
	logger    *zap.Logger
}

// NewPublishHandler creates a new publish handler.
func NewPublishHandler(publisher *publish.Publisher, store *trades.Store, logger *zap.Logger) *PublishHandler {
	return &PublishHandler{
		publisher: publisher,
		store:     store,
		logger:    logger,
	}
}

type publishRequest struct {
	Date string `json:"date,omitempty"` // yyyy-MM-dd; default: tomorrow (IST)
}

// HandlePublish handles POST /api/publish. The response reports remote
// acceptance but the local record is written either way.
func (h *PublishHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if r.Body != nil {
		// An empty body means "publish for tomorrow".
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	var target *time.Time
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, publish.IST)
		if err != nil {
			writeError(w, h.logger, "date must be yyyy-MM-dd", http.StatusBadRequest)
			return
		}
		target = &parsed
	}

	result, err := h.publisher.Publish(r.Context(), target)
	if err != nil {
		h.logger.Error("publish-failed", zap.Error(err))
		writeError(w, h.logger, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}

// HandleSummary handles GET /api/summary.
func (h *PublishHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.store.Summarize())
}

type confirmRequest struct {
	Trades []types.ConfirmedTrade `json:"trades"`
}

// HandleConfirm handles POST /api/trades/confirm. This is the synthetic
// stand-in for a backend match event; there is no live push channel for
// confirmations.
func (h *PublishHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, "body must contain trades", http.StatusBadRequest)
		return
	}

	h.store.ConfirmTrades(req.Trades)
	writeJSON(w, h.logger, http.StatusOK, h.store.Summarize())
}

// HandleClear handles DELETE /api/trades.
func (h *PublishHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	writeJSON(w, h.logger, http.StatusOK, h.store.Record())
}
