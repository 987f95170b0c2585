package mealplan

import (
	"strings"

	"github.com/google/uuid"
)

// Meal is a named dish with an ordered ingredient list.
type Meal struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Category     string   `json:"category,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	PrepTime     string   `json:"prep_time,omitempty"`
	Servings     int      `json:"servings,omitempty"`
}

// MealPatch describes a partial update. Nil fields are left untouched.
type MealPatch struct {
	Name         *string
	Ingredients  []string
	Category     *string
	Instructions *string
	PrepTime     *string
	Servings     *int
}

func (m Meal) clone() Meal {
	m.Ingredients = append([]string(nil), m.Ingredients...)
	return m
}

// ParseIngredients splits free-form text on line breaks, trims every line and
// drops the empty ones.
func ParseIngredients(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return CleanIngredients(strings.Split(text, "\n"))
}

// CleanIngredients trims each ingredient and drops empty entries. The result
// is never nil.
func CleanIngredients(ingredients []string) []string {
	cleaned := make([]string, 0, len(ingredients))
	for _, ingredient := range ingredients {
		ingredient = strings.TrimSpace(ingredient)
		if ingredient != "" {
			cleaned = append(cleaned, ingredient)
		}
	}
	return cleaned
}

// nameKey is the lookup key of the catalog's name index.
func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var newID = uuid.NewString

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
