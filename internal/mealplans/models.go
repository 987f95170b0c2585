package mealplans

import (
	"fmt"
	"strings"

	"github.com/fdg312/meal-planner/internal/mealplan"
	"github.com/fdg312/meal-planner/internal/planner"
)

// GetPlanResponse is returned by GET /v1/plan. Days always holds all seven
// days, Monday first.
type GetPlanResponse struct {
	Days         []planner.DayView `json:"days"`
	PlannedCount int               `json:"planned_count"`
}

// AssignRequest is the body of PUT /v1/plan/{day}. At most one of MealName
// and MealID may be set. A name that matches no meal, the empty name
// included, empties the day.
type AssignRequest struct {
	MealName string `json:"meal_name,omitempty"`
	MealID   string `json:"meal_id,omitempty"`
}

// Validate rejects a request that names the meal both ways.
func (r AssignRequest) Validate() error {
	if strings.TrimSpace(r.MealName) != "" && strings.TrimSpace(r.MealID) != "" {
		return fmt.Errorf("meal_name and meal_id are mutually exclusive")
	}
	return nil
}

// AssignResponse reports the resulting state of the day. Assigned is false
// when the meal did not exist and the day was emptied.
type AssignResponse struct {
	Day      planner.DayView `json:"day"`
	Assigned bool            `json:"assigned"`
}

func toPlanResponse(v planner.PlanView) GetPlanResponse {
	return GetPlanResponse{Days: v.Days, PlannedCount: len(v.Assigned())}
}

func parseDay(raw string) (mealplan.Day, error) {
	return mealplan.ParseDay(raw)
}
