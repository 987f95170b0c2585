// Package mealplans serves the weekly plan over HTTP.
package mealplans

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fdg312/meal-planner/internal/mealplan"
	"github.com/fdg312/meal-planner/internal/planner"
)

// Handler handles HTTP requests for the weekly plan.
type Handler struct {
	service *planner.Service
}

// NewHandler creates a new meal plans handler.
func NewHandler(service *planner.Service) *Handler {
	return &Handler{service: service}
}

// HandleGet handles GET /v1/plan
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toPlanResponse(h.service.Plan()))
}

// HandleGetDay handles GET /v1/plan/{day}
func (h *Handler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	day, err := parseDay(r.PathValue("day"))
	if err != nil {
		writeServiceError(w, err, "Failed to get day")
		return
	}

	view, err := h.service.Day(day)
	if err != nil {
		writeServiceError(w, err, "Failed to get day")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleAssign handles PUT /v1/plan/{day}
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	day, err := parseDay(r.PathValue("day"))
	if err != nil {
		writeServiceError(w, err, "Failed to assign meal")
		return
	}

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var view planner.DayView
	if strings.TrimSpace(req.MealID) != "" {
		view, err = h.service.AssignID(r.Context(), day, req.MealID)
	} else {
		view, err = h.service.Assign(r.Context(), day, req.MealName)
	}
	if err != nil {
		writeServiceError(w, err, "Failed to assign meal")
		return
	}
	writeJSON(w, http.StatusOK, AssignResponse{Day: view, Assigned: view.Assigned()})
}

// HandleUnassign handles DELETE /v1/plan/{day}
func (h *Handler) HandleUnassign(w http.ResponseWriter, r *http.Request) {
	day, err := parseDay(r.PathValue("day"))
	if err != nil {
		writeServiceError(w, err, "Failed to clear day")
		return
	}
	if err := h.service.Unassign(r.Context(), day); err != nil {
		writeServiceError(w, err, "Failed to clear day")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClear handles DELETE /v1/plan
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.service.ClearPlan(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var verr *mealplan.ValidationError
	var nerr *mealplan.NotFoundError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "invalid_request", verr.Error())
	case errors.As(err, &nerr):
		writeError(w, http.StatusNotFound, "not_found", nerr.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
