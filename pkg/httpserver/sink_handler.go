package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	"go.uber.org/zap"
)

// SinkHandler implements the trade-acceptance endpoint. In a deployment this
// would live on the trading backend; hosting it here lets the client publish
// against itself out of the box.
type SinkHandler struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewSinkHandler creates a new trade-acceptance handler.
func NewSinkHandler(logger *zap.Logger) *SinkHandler {
	return &SinkHandler{
		logger: logger,
		now:    time.Now,
	}
}

type acceptResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Summary types.SubmissionSummary `json:"summary"`
}

// HandleAccept handles POST /api/trades/accept. Validation stops at the first
// invalid trade; the batch is all-or-nothing.
func (h *SinkHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	var req types.SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Trades) == 0 {
		writeError(w, h.logger, "trades must not be empty", http.StatusBadRequest)
		return
	}

	var totalQuantity, totalValue float64
	for i := range req.Trades {
		t := &req.Trades[i]
		if serr := t.Validate(); serr != nil {
			h.logger.Warn("trade-rejected",
				zap.String("code", serr.Code),
				zap.String("date", t.Date),
				zap.String("start", t.StartTime),
			)
			writeRejection(w, h.logger, serr)
			return
		}

		totalQuantity += t.Quantity
		totalValue += t.Quantity * t.Price
	}

	h.logger.Info("trades-accepted",
		zap.Int("count", len(req.Trades)),
		zap.Float64("total-quantity", totalQuantity),
		zap.String("user-id", req.UserID),
	)

	writeJSON(w, h.logger, http.StatusOK, acceptResponse{
		Success: true,
		Message: "trades accepted",
		Summary: types.SubmissionSummary{
			TradesCount:   len(req.Trades),
			TotalQuantity: totalQuantity,
			TotalValue:    totalValue,
			SubmittedAt:   h.now().UTC().Format(time.RFC3339),
		},
	})
}

func writeRejection(w http.ResponseWriter, logger *zap.Logger, serr *types.SubmissionError) {
	resp := ErrorResponse{Error: serr.Message}
	if serr.Trade != nil {
		raw, err := json.Marshal(serr.Trade)
		if err == nil {
			resp.Trade = raw
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	err := json.NewEncoder(w).Encode(resp)
	if err != nil {
		logger.Error("failed-to-encode-error-response", zap.Error(err))
	}
}
