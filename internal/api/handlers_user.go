// Package api exposes the REST surface of the carbon service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ecotrace/ecotrace-server/internal/api/respond"
	"github.com/ecotrace/ecotrace-server/internal/api/validate"
	"github.com/ecotrace/ecotrace-server/internal/model"
	"github.com/ecotrace/ecotrace-server/internal/services"
)

type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email         string              `json:"email"`
		Name          string              `json:"name"`
		Location      string              `json:"location"`
		HouseholdSize int                 `json:"householdSize"`
		Lifestyle     model.LifestyleType `json:"lifestyle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.Email(in.Email); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.NonEmpty("name", in.Name); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if in.HouseholdSize <= 0 {
		in.HouseholdSize = 1
	}
	if in.Lifestyle == "" {
		in.Lifestyle = model.LifestyleModerate
	}

	u := &model.User{
		Email: in.Email,
		Name:  in.Name,
		Profile: model.UserProfile{
			Location:      in.Location,
			HouseholdSize: in.HouseholdSize,
			Lifestyle:     in.Lifestyle,
		},
	}
	out, err := h.svc.CreateUser(r.Context(), u)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			respond.WriteConflict(w, "email already registered")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	u, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "user not found")
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, u)
}
