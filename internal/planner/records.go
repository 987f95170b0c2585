package planner

import (
	"github.com/fdg312/meal-planner/internal/mealplan"
	"github.com/fdg312/meal-planner/internal/storage"
)

func mealsToRecords(meals []mealplan.Meal) []storage.MealRecord {
	records := make([]storage.MealRecord, 0, len(meals))
	for _, m := range meals {
		records = append(records, storage.MealRecord{
			ID:           m.ID,
			Name:         m.Name,
			Ingredients:  m.Ingredients,
			Category:     m.Category,
			Instructions: m.Instructions,
			PrepTime:     m.PrepTime,
			Servings:     m.Servings,
		})
	}
	return records
}

func recordsToMeals(records []storage.MealRecord) []mealplan.Meal {
	meals := make([]mealplan.Meal, 0, len(records))
	for _, r := range records {
		meals = append(meals, mealplan.Meal{
			ID:           r.ID,
			Name:         r.Name,
			Ingredients:  r.Ingredients,
			Category:     r.Category,
			Instructions: r.Instructions,
			PrepTime:     r.PrepTime,
			Servings:     r.Servings,
		})
	}
	return meals
}

func listToRecords(list mealplan.ShoppingList) []storage.ShoppingItemRecord {
	records := make([]storage.ShoppingItemRecord, 0, len(list.Items))
	for _, item := range list.Items {
		records = append(records, storage.ShoppingItemRecord{
			ID:         item.ID,
			Ingredient: item.Ingredient,
			Count:      item.Count,
			Checked:    item.Checked,
		})
	}
	return records
}

// recordsToList restores a saved list. Items without an ingredient or with a
// non-positive count are dropped, as are repeated ids.
func recordsToList(records []storage.ShoppingItemRecord) (mealplan.ShoppingList, int) {
	var list mealplan.ShoppingList
	seen := make(map[string]bool, len(records))
	dropped := 0
	for _, r := range records {
		id := r.ID
		if id == "" {
			id = mealplan.IngredientKey(r.Ingredient)
		}
		if id == "" || r.Count < 1 || seen[id] {
			dropped++
			continue
		}
		seen[id] = true
		list.Items = append(list.Items, mealplan.ShoppingItem{
			ID:         id,
			Ingredient: r.Ingredient,
			Count:      r.Count,
			Checked:    r.Checked,
		})
	}
	return list, dropped
}

func sameMeals(records []storage.MealRecord, meals []mealplan.Meal) bool {
	if len(records) != len(meals) {
		return false
	}
	for i := range records {
		if records[i].ID != meals[i].ID || records[i].Name != meals[i].Name ||
			len(records[i].Ingredients) != len(meals[i].Ingredients) {
			return false
		}
		for j := range records[i].Ingredients {
			if records[i].Ingredients[j] != meals[i].Ingredients[j] {
				return false
			}
		}
	}
	return true
}

func samePlan(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for day, id := range a {
		if b[day] != id {
			return false
		}
	}
	return true
}
