// Package meals serves the meal catalog over HTTP.
package meals

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fdg312/meal-planner/internal/mealplan"
	"github.com/fdg312/meal-planner/internal/planner"
)

// Handler handles HTTP requests for the meal catalog.
type Handler struct {
	service *planner.Service
}

// NewHandler creates a new meals handler.
func NewHandler(service *planner.Service) *Handler {
	return &Handler{service: service}
}

// HandleList handles GET /v1/meals
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	meals := h.service.ListMeals()
	if meals == nil {
		meals = []mealplan.Meal{}
	}
	writeJSON(w, http.StatusOK, ListMealsResponse{Meals: meals})
}

// HandleCreate handles POST /v1/meals
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	meal, err := h.service.CreateMeal(r.Context(), req.toMeal())
	if err != nil {
		writeServiceError(w, err, "Failed to create meal")
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

// HandleGet handles GET /v1/meals/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	meal, err := h.service.GetMeal(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "Failed to get meal")
		return
	}
	writeJSON(w, http.StatusOK, meal)
}

// HandleGetByName handles GET /v1/meals/by-name/{name}
func (h *Handler) HandleGetByName(w http.ResponseWriter, r *http.Request) {
	meal, err := h.service.FindMealByName(r.PathValue("name"))
	if err != nil {
		writeServiceError(w, err, "Failed to get meal")
		return
	}
	writeJSON(w, http.StatusOK, meal)
}

// HandleUpdate handles PATCH /v1/meals/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}
	if req.empty() {
		writeError(w, http.StatusBadRequest, "invalid_request", "nothing to update")
		return
	}

	meal, err := h.service.UpdateMeal(r.Context(), r.PathValue("id"), req.toPatch())
	if err != nil {
		writeServiceError(w, err, "Failed to update meal")
		return
	}
	writeJSON(w, http.StatusOK, meal)
}

// HandleReplaceIngredients handles PUT /v1/meals/{id}/ingredients
func (h *Handler) HandleReplaceIngredients(w http.ResponseWriter, r *http.Request) {
	var req IngredientsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	meal, err := h.service.EditIngredients(r.Context(), r.PathValue("id"), req.Ingredients)
	if err != nil {
		writeServiceError(w, err, "Failed to update ingredients")
		return
	}
	writeJSON(w, http.StatusOK, meal)
}

// HandleDelete handles DELETE /v1/meals/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	meal, cleared, err := h.service.DeleteMeal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "Failed to delete meal")
		return
	}
	if cleared == nil {
		cleared = []mealplan.Day{}
	}
	writeJSON(w, http.StatusOK, DeleteMealResponse{Meal: meal, ClearedDays: cleared})
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
