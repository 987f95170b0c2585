package mealplan

import (
	"strconv"
)

// Check marks the item with the given id as acquired.
func (l *ShoppingList) Check(id string) error {
	return l.setChecked(id, true)
}

// Uncheck clears the acquired mark of the item with the given id.
func (l *ShoppingList) Uncheck(id string) error {
	return l.setChecked(id, false)
}

// CheckAt marks the item at a display position.
func (l *ShoppingList) CheckAt(index int) (ShoppingItem, error) {
	return l.setCheckedAt(index, true)
}

// UncheckAt clears the mark of the item at a display position.
func (l *ShoppingList) UncheckAt(index int) (ShoppingItem, error) {
	return l.setCheckedAt(index, false)
}

// ClearChecked drops every checked item and returns how many were removed.
func (l *ShoppingList) ClearChecked() int {
	kept := l.Items[:0:0]
	removed := 0
	for _, item := range l.Items {
		if item.Checked {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	l.Items = kept
	return removed
}

// ClearAll empties the list.
func (l *ShoppingList) ClearAll() {
	l.Items = nil
}

// CheckedIDs returns the ids of checked items in list order.
func (l ShoppingList) CheckedIDs() []string {
	var ids []string
	for _, item := range l.Items {
		if item.Checked {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// carryChecked copies checked flags from prev onto items with the same id.
// Ids absent from l are forgotten.
func (l *ShoppingList) carryChecked(prev ShoppingList) {
	checked := make(map[string]bool, len(prev.Items))
	for _, id := range prev.CheckedIDs() {
		checked[id] = true
	}
	for i := range l.Items {
		l.Items[i].Checked = checked[l.Items[i].ID]
	}
}

func (l *ShoppingList) setChecked(id string, checked bool) error {
	i := l.Index(id)
	if i < 0 {
		return notFound("shopping item", id)
	}
	l.Items[i].Checked = checked
	return nil
}

func (l *ShoppingList) setCheckedAt(index int, checked bool) (ShoppingItem, error) {
	if index < 0 || index >= len(l.Items) {
		return ShoppingItem{}, notFound("shopping item", strconv.Itoa(index))
	}
	l.Items[index].Checked = checked
	return l.Items[index], nil
}
