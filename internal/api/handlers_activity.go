package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ecotrace/ecotrace-server/internal/api/respond"
	"github.com/ecotrace/ecotrace-server/internal/api/validate"
	"github.com/ecotrace/ecotrace-server/internal/calc"
	"github.com/ecotrace/ecotrace-server/internal/model"
	"github.com/ecotrace/ecotrace-server/internal/services"
)

// defaultActivityLimit bounds unqualified activity listings.
const defaultActivityLimit = 50

type ActivityHandler struct {
	svc    *services.ActivityService
	engine *calc.Engine
}

func NewActivityHandler(svc *services.ActivityService, engine *calc.Engine) *ActivityHandler {
	return &ActivityHandler{svc: svc, engine: engine}
}

// AddActivity handles POST /api/users/{userId}/activities: prices the
// activity, stores it, and returns the calculation result.
func (h *ActivityHandler) AddActivity(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var in model.ActivityInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.ActivityInput(in); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	result, activity, err := h.svc.AddActivity(r.Context(), userID, in)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "user not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"activity": activity,
		"result":   result,
	})
}

// ListActivities handles GET /api/users/{userId}/activities?category=&limit=.
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	req := model.ListActivitiesRequest{UserID: userID, Limit: defaultActivityLimit}
	if v := r.URL.Query().Get("category"); v != "" {
		cat := model.ActivityCategory(v)
		if err := validate.Category(cat); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		req.Category = &cat
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respond.WriteBadRequest(w, "invalid limit")
			return
		}
		req.Limit = n
	}

	list, err := h.svc.ListActivities(r.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "user not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	if list == nil {
		list = []*model.Activity{}
	}
	respond.WriteJSON(w, http.StatusOK, list)
}

// Calculate handles POST /api/calculate: a pure calculation with no
// persistence.
func (h *ActivityHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var in model.ActivityInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.ActivityInput(in); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	result := h.engine.Calculate(in)
	respond.WriteJSON(w, http.StatusOK, result)
}

// Categories handles GET /api/categories: the catalog of categories and
// activity types the engine knows factors for.
func (h *ActivityHandler) Categories(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.engine.Catalog(),
	})
}
