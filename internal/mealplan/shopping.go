package mealplan

import (
	"fmt"
	"strings"
)

// ShoppingItem is one aggregated ingredient of a shopping list. ID is the
// normalized ingredient and stays the same across regenerations.
type ShoppingItem struct {
	ID         string `json:"id"`
	Ingredient string `json:"ingredient"`
	Count      int    `json:"count"`
	Checked    bool   `json:"checked"`
}

// Display renders the item as shown to the user: the ingredient alone when
// it is needed once, otherwise with a multiplier.
func (i ShoppingItem) Display() string {
	if i.Count <= 1 {
		return i.Ingredient
	}
	return fmt.Sprintf("%s (%dx)", i.Ingredient, i.Count)
}

// ShoppingList is an ordered, deduplicated set of items.
type ShoppingList struct {
	Items []ShoppingItem `json:"items"`
}

// Empty reports whether the list has no items.
func (l ShoppingList) Empty() bool {
	return len(l.Items) == 0
}

// Lines returns the display string of every item in order.
func (l ShoppingList) Lines() []string {
	lines := make([]string, 0, len(l.Items))
	for _, item := range l.Items {
		lines = append(lines, item.Display())
	}
	return lines
}

// Index returns the position of the item with the given id, or -1.
func (l ShoppingList) Index(id string) int {
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (l ShoppingList) clone() ShoppingList {
	return ShoppingList{Items: append([]ShoppingItem(nil), l.Items...)}
}

// IngredientKey is the aggregation key of an ingredient: trimmed and
// lower-cased. No other normalization is applied.
func IngredientKey(ingredient string) string {
	return strings.ToLower(strings.TrimSpace(ingredient))
}

// BuildShoppingList aggregates the ingredients of every planned meal. Days
// are walked Monday to Sunday and a meal planned twice counts twice. Items
// keep first-seen order and first-seen spelling. Neither argument is
// modified.
func BuildShoppingList(c *Catalog, p *WeeklyPlan) ShoppingList {
	var items []ShoppingItem
	index := make(map[string]int)
	for _, entry := range p.Entries() {
		meal, ok := c.byID[entry.MealID]
		if !ok {
			continue
		}
		for _, ingredient := range meal.Ingredients {
			text := strings.TrimSpace(ingredient)
			if text == "" {
				continue
			}
			key := IngredientKey(text)
			if i, seen := index[key]; seen {
				items[i].Count++
				continue
			}
			index[key] = len(items)
			items = append(items, ShoppingItem{ID: key, Ingredient: text, Count: 1})
		}
	}
	return ShoppingList{Items: items}
}
