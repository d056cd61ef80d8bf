package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ecotrace/ecotrace-server/internal/agents"
	"github.com/ecotrace/ecotrace-server/internal/api/respond"
	"github.com/ecotrace/ecotrace-server/internal/model"
	"github.com/ecotrace/ecotrace-server/internal/services"
)

type AnalysisHandler struct {
	svc  *services.AnalysisService
	orch *agents.Orchestrator
}

func NewAnalysisHandler(svc *services.AnalysisService, orch *agents.Orchestrator) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, orch: orch}
}

// Analyze handles POST /api/users/{userId}/analyze. The body is optional;
// an empty body runs the default analysis with no question.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var in struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil && err != io.EOF {
		respond.WriteBadRequest(w, "invalid json")
		return
	}

	result, err := h.svc.Analyze(r.Context(), userID, in.Question)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "user not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, result)
}

// Insights handles GET /api/users/{userId}/insights?limit=.
func (h *AnalysisHandler) Insights(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	list, err := h.svc.Insights(r.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "user not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	if list == nil {
		list = []*model.Insight{}
	}
	respond.WriteJSON(w, http.StatusOK, list)
}

// Recommendations handles GET /api/users/{userId}/recommendations?limit=.
func (h *AnalysisHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	list, err := h.svc.Recommendations(r.Context(), userID, limit)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "user not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	if list == nil {
		list = []*model.Recommendation{}
	}
	respond.WriteJSON(w, http.StatusOK, list)
}

// Agents handles GET /api/agents: static descriptors of the analysis agents.
func (h *AnalysisHandler) Agents(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"agents": h.orch.Descriptors(),
	})
}

// parseLimit reads an optional non-negative limit query parameter, writing
// a 400 and returning ok=false when it is malformed.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		respond.WriteBadRequest(w, "invalid limit")
		return 0, false
	}
	return n, true
}
