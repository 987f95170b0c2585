package meals

import (
	"github.com/fdg312/meal-planner/internal/mealplan"
)

// CreateMealRequest is the body of POST /v1/meals. Ingredients may be sent
// as a list or as newline separated text; the list wins when both are set.
type CreateMealRequest struct {
	Name            string   `json:"name"`
	Ingredients     []string `json:"ingredients,omitempty"`
	IngredientsText string   `json:"ingredients_text,omitempty"`
	Category        string   `json:"category,omitempty"`
	Instructions    string   `json:"instructions,omitempty"`
	PrepTime        string   `json:"prep_time,omitempty"`
	Servings        int      `json:"servings,omitempty"`
}

func (r CreateMealRequest) toMeal() mealplan.Meal {
	ingredients := r.Ingredients
	if len(ingredients) == 0 && r.IngredientsText != "" {
		ingredients = mealplan.ParseIngredients(r.IngredientsText)
	}
	return mealplan.Meal{
		Name:         r.Name,
		Ingredients:  ingredients,
		Category:     r.Category,
		Instructions: r.Instructions,
		PrepTime:     r.PrepTime,
		Servings:     r.Servings,
	}
}

// UpdateMealRequest is the body of PATCH /v1/meals/{id}. Absent fields are
// left unchanged.
type UpdateMealRequest struct {
	Name         *string  `json:"name,omitempty"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Category     *string  `json:"category,omitempty"`
	Instructions *string  `json:"instructions,omitempty"`
	PrepTime     *string  `json:"prep_time,omitempty"`
	Servings     *int     `json:"servings,omitempty"`
}

func (r UpdateMealRequest) toPatch() mealplan.MealPatch {
	return mealplan.MealPatch{
		Name:         r.Name,
		Ingredients:  r.Ingredients,
		Category:     r.Category,
		Instructions: r.Instructions,
		PrepTime:     r.PrepTime,
		Servings:     r.Servings,
	}
}

func (r UpdateMealRequest) empty() bool {
	return r.Name == nil && r.Ingredients == nil && r.Category == nil &&
		r.Instructions == nil && r.PrepTime == nil && r.Servings == nil
}

// IngredientsRequest is the body of PUT /v1/meals/{id}/ingredients.
type IngredientsRequest struct {
	Ingredients []string `json:"ingredients"`
}

// ListMealsResponse is returned by GET /v1/meals.
type ListMealsResponse struct {
	Meals []mealplan.Meal `json:"meals"`
}

// DeleteMealResponse reports the removed meal and the plan days it
// occupied.
type DeleteMealResponse struct {
	Meal        mealplan.Meal  `json:"meal"`
	ClearedDays []mealplan.Day `json:"cleared_days"`
}
