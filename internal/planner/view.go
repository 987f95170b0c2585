package planner

import (
	"github.com/fdg312/meal-planner/internal/mealplan"
)

// DayView is one day of the plan with its meal resolved.
type DayView struct {
	Day         mealplan.Day `json:"day"`
	Label       string       `json:"label"`
	MealID      string       `json:"meal_id,omitempty"`
	MealName    string       `json:"meal_name,omitempty"`
	Ingredients []string     `json:"ingredients,omitempty"`
}

// Assigned reports whether the day has a meal.
func (d DayView) Assigned() bool {
	return d.MealID != ""
}

// PlanView lists all seven days in week order.
type PlanView struct {
	Days []DayView `json:"days"`
}

// Assigned returns only the days with a meal.
func (p PlanView) Assigned() []DayView {
	var days []DayView
	for _, d := range p.Days {
		if d.Assigned() {
			days = append(days, d)
		}
	}
	return days
}

func dayView(st *mealplan.State, day mealplan.Day) DayView {
	v := DayView{Day: day, Label: day.Label()}
	id, ok := st.Plan.MealID(day)
	if !ok {
		return v
	}
	if m, found := st.Catalog.FindByID(id); found {
		v.MealID = m.ID
		v.MealName = m.Name
		v.Ingredients = m.Ingredients
	}
	return v
}

func planView(st *mealplan.State) PlanView {
	days := make([]DayView, 0, len(mealplan.Week))
	for _, d := range mealplan.Week {
		days = append(days, dayView(st, d))
	}
	return PlanView{Days: days}
}
