package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ecotrace/ecotrace-server/internal/api/respond"
	"github.com/ecotrace/ecotrace-server/internal/model"
	"github.com/ecotrace/ecotrace-server/internal/services"
)

type DashboardHandler struct {
	svc *services.DashboardService
}

func NewDashboardHandler(svc *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Dashboard handles GET /api/users/{userId}/dashboard.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	d, err := h.svc.Dashboard(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "user not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, d)
}

// Trends handles GET /api/users/{userId}/stats/trends.
func (h *DashboardHandler) Trends(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	stats, err := h.svc.Trends(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "user not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, stats)
}
