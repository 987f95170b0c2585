package shopping

import (
	"github.com/fdg312/meal-planner/internal/mealplan"
	"github.com/fdg312/meal-planner/internal/planner"
)

// EmptyMessage is shown instead of a list when no meal is planned.
const EmptyMessage = "No meals planned for this week"

// ClearedMessage is shown when meals are planned but the list has no items,
// e.g. after clearing it or removing every checked item.
const ClearedMessage = "Shopping list is empty"

// EmptyListMessage picks the message for an empty list from the plan.
func EmptyListMessage(plan planner.PlanView) string {
	if len(plan.Assigned()) == 0 {
		return EmptyMessage
	}
	return ClearedMessage
}

// ItemDTO is a shopping list item with its display string.
type ItemDTO struct {
	ID         string `json:"id"`
	Ingredient string `json:"ingredient"`
	Count      int    `json:"count"`
	Checked    bool   `json:"checked"`
	Display    string `json:"display"`
}

// ListResponse is returned by generate and get.
type ListResponse struct {
	Items        []ItemDTO `json:"items"`
	Lines        []string  `json:"lines"`
	CheckedCount int       `json:"checked_count"`
	Empty        bool      `json:"empty"`
	Message      string    `json:"message,omitempty"`
}

// ClearCheckedResponse reports how many checked items were removed.
type ClearCheckedResponse struct {
	Cleared int `json:"cleared"`
}

// ExportResponse describes an exported list stored in the blob store.
type ExportResponse struct {
	Key              string `json:"key"`
	URL              string `json:"url"`
	Format           string `json:"format"`
	SizeBytes        int64  `json:"size_bytes"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
}

func toItemDTO(item mealplan.ShoppingItem) ItemDTO {
	return ItemDTO{
		ID:         item.ID,
		Ingredient: item.Ingredient,
		Count:      item.Count,
		Checked:    item.Checked,
		Display:    item.Display(),
	}
}

func toListResponse(list mealplan.ShoppingList, plan planner.PlanView) ListResponse {
	resp := ListResponse{
		Items: make([]ItemDTO, 0, len(list.Items)),
		Lines: list.Lines(),
	}
	for _, item := range list.Items {
		resp.Items = append(resp.Items, toItemDTO(item))
		if item.Checked {
			resp.CheckedCount++
		}
	}
	if list.Empty() {
		resp.Empty = true
		resp.Message = EmptyListMessage(plan)
	}
	return resp
}
