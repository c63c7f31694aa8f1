package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/coe-acad/p2p-solar-trade/internal/command"
	"github.com/coe-acad/p2p-solar-trade/internal/plan"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PlanHandler handles HTTP requests for the derived plan and its
// exclusion state.
type PlanHandler struct {
	plan        *plan.Engine
	interpreter *command.Interpreter
	logger      *zap.Logger
}

// NewPlanHandler creates a new plan handler.
func NewPlanHandler(engine *plan.Engine, interpreter *command.Interpreter, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{
		plan:        engine,
		interpreter: interpreter,
		logger:      logger,
	}
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string          `json:"error"`
	Trade json.RawMessage `json:"trade,omitempty"`
}

// HandleGetPlan handles GET /api/plan.
func (h *PlanHandler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.plan.Snapshot())
}

type excludeRequest struct {
	SlotID string `json:"slotId"`
}

// HandleExclude handles POST /api/plan/exclusions.
func (h *PlanHandler) HandleExclude(w http.ResponseWriter, r *http.Request) {
	var req excludeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SlotID == "" {
		writeError(w, h.logger, "body must contain a slotId", http.StatusBadRequest)
		return
	}

	h.plan.ExcludeSlot(req.SlotID)
	writeJSON(w, h.logger, http.StatusOK, h.plan.Snapshot())
}

// HandleInclude handles DELETE /api/plan/exclusions/{slotID}.
func (h *PlanHandler) HandleInclude(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, "slotID")
	if slotID == "" {
		writeError(w, h.logger, "missing slot id", http.StatusBadRequest)
		return
	}

	h.plan.IncludeSlot(slotID)
	writeJSON(w, h.logger, http.StatusOK, h.plan.Snapshot())
}

// HandlePause handles POST /api/plan/pause.
func (h *PlanHandler) HandlePause(w http.ResponseWriter, r *http.Request) {
	h.plan.PauseAll()
	writeJSON(w, h.logger, http.StatusOK, h.plan.Snapshot())
}

// HandleResume handles POST /api/plan/resume. Manual resume: individual
// exclusions survive.
func (h *PlanHandler) HandleResume(w http.ResponseWriter, r *http.Request) {
	h.plan.ResumeAll()
	writeJSON(w, h.logger, http.StatusOK, h.plan.Snapshot())
}

// HandleReset handles POST /api/plan/reset.
func (h *PlanHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.plan.ResetExclusions()
	writeJSON(w, h.logger, http.StatusOK, h.plan.Snapshot())
}

type commandRequest struct {
	Text string `json:"text"`
}

type commandResponse struct {
	command.Result
	Plan plan.Snapshot `json:"plan"`
}

// HandleCommand handles POST /api/plan/command.
func (h *PlanHandler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeError(w, h.logger, "body must contain command text", http.StatusBadRequest)
		return
	}

	result := h.interpreter.Interpret(req.Text)

	writeJSON(w, h.logger, http.StatusOK, commandResponse{
		Result: result,
		Plan:   h.plan.Snapshot(),
	})
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(ErrorResponse{Error: message})
	if err != nil {
		logger.Error("failed-to-encode-error-response", zap.Error(err))
	}
}
