package planner

import (
	"context"

	"github.com/fdg312/meal-planner/internal/mealplan"
)

// ListMeals returns the catalog in insertion order.
func (s *Service) ListMeals() []mealplan.Meal {
	var meals []mealplan.Meal
	s.view(func(st *mealplan.State) {
		meals = st.Catalog.List()
	})
	return meals
}

// GetMeal returns a meal by id.
func (s *Service) GetMeal(id string) (mealplan.Meal, error) {
	var (
		m  mealplan.Meal
		ok bool
	)
	s.view(func(st *mealplan.State) {
		m, ok = st.Catalog.FindByID(id)
	})
	if !ok {
		return mealplan.Meal{}, &mealplan.NotFoundError{Kind: "meal", Key: id}
	}
	return m, nil
}

// FindMealByName returns a meal by name, ignoring case.
func (s *Service) FindMealByName(name string) (mealplan.Meal, error) {
	var (
		m  mealplan.Meal
		ok bool
	)
	s.view(func(st *mealplan.State) {
		m, ok = st.Catalog.FindByName(name)
	})
	if !ok {
		return mealplan.Meal{}, &mealplan.NotFoundError{Kind: "meal", Key: name}
	}
	return m, nil
}

// AddMeal adds a meal whose ingredients are given one per line.
func (s *Service) AddMeal(ctx context.Context, name, ingredientsText string) (mealplan.Meal, error) {
	var m mealplan.Meal
	err := s.mutate(ctx, "add_meal", scopeMeals, func(st *mealplan.State) error {
		var err error
		m, err = st.AddMeal(name, ingredientsText)
		return err
	})
	return m, err
}

// CreateMeal adds a meal with an ingredient list and optional metadata.
func (s *Service) CreateMeal(ctx context.Context, meal mealplan.Meal) (mealplan.Meal, error) {
	var m mealplan.Meal
	err := s.mutate(ctx, "add_meal", scopeMeals, func(st *mealplan.State) error {
		var err error
		m, err = st.CreateMeal(meal)
		return err
	})
	return m, err
}

// EditIngredients replaces a meal's ingredients.
func (s *Service) EditIngredients(ctx context.Context, id string, ingredients []string) (mealplan.Meal, error) {
	var m mealplan.Meal
	err := s.mutate(ctx, "edit_ingredients", scopeMeals, func(st *mealplan.State) error {
		var err error
		m, err = st.EditIngredients(id, ingredients)
		return err
	})
	return m, err
}

// UpdateMeal applies a partial update to a meal.
func (s *Service) UpdateMeal(ctx context.Context, id string, patch mealplan.MealPatch) (mealplan.Meal, error) {
	var m mealplan.Meal
	err := s.mutate(ctx, "update_meal", scopeMeals, func(st *mealplan.State) error {
		var err error
		m, err = st.UpdateMeal(id, patch)
		return err
	})
	return m, err
}

// RenameMeal renames a meal.
func (s *Service) RenameMeal(ctx context.Context, id, name string) (mealplan.Meal, error) {
	var m mealplan.Meal
	err := s.mutate(ctx, "rename_meal", scopeMeals, func(st *mealplan.State) error {
		var err error
		m, err = st.RenameMeal(id, name)
		return err
	})
	return m, err
}

// DeleteMeal removes a meal together with its plan assignments and returns
// the days that were emptied.
func (s *Service) DeleteMeal(ctx context.Context, id string) (mealplan.Meal, []mealplan.Day, error) {
	var (
		m       mealplan.Meal
		cleared []mealplan.Day
	)
	err := s.mutate(ctx, "delete_meal", scopeMeals|scopePlan, func(st *mealplan.State) error {
		var err error
		m, cleared, err = st.DeleteMeal(id)
		return err
	})
	if err == nil && len(cleared) > 0 {
		s.logger.Info().Str("meal_id", id).Int("cleared_days", len(cleared)).Msg("removed deleted meal from plan")
	}
	return m, cleared, err
}

// Plan returns all seven days with their meals resolved.
func (s *Service) Plan() PlanView {
	var v PlanView
	s.view(func(st *mealplan.State) {
		v = planView(st)
	})
	return v
}

// Day returns a single day of the plan.
func (s *Service) Day(day mealplan.Day) (DayView, error) {
	if day.Index() < 0 {
		return DayView{}, &mealplan.ValidationError{Field: "day", Message: "unknown day " + string(day)}
	}
	var v DayView
	s.view(func(st *mealplan.State) {
		v = dayView(st, day)
	})
	return v, nil
}

// Assign plans the named meal on day. An unknown name empties the day.
func (s *Service) Assign(ctx context.Context, day mealplan.Day, mealName string) (DayView, error) {
	return s.assign(ctx, day, func(st *mealplan.State) error {
		_, _, err := st.Assign(day, mealName)
		return err
	})
}

// AssignID plans the meal with the given id on day. An unknown id empties
// the day.
func (s *Service) AssignID(ctx context.Context, day mealplan.Day, mealID string) (DayView, error) {
	return s.assign(ctx, day, func(st *mealplan.State) error {
		_, _, err := st.AssignID(day, mealID)
		return err
	})
}

func (s *Service) assign(ctx context.Context, day mealplan.Day, fn func(st *mealplan.State) error) (DayView, error) {
	var v DayView
	err := s.mutate(ctx, "assign", scopePlan, func(st *mealplan.State) error {
		if err := fn(st); err != nil {
			return err
		}
		v = dayView(st, day)
		return nil
	})
	return v, err
}

// Unassign empties day.
func (s *Service) Unassign(ctx context.Context, day mealplan.Day) error {
	return s.mutate(ctx, "unassign", scopePlan, func(st *mealplan.State) error {
		return st.Unassign(day)
	})
}

// ClearPlan empties the whole week.
func (s *Service) ClearPlan(ctx context.Context) {
	_ = s.mutate(ctx, "clear_plan", scopePlan, func(st *mealplan.State) error {
		st.ClearPlan()
		return nil
	})
}

// GenerateShoppingList rebuilds the shopping list from the plan, keeping
// checked flags of items that are still needed.
func (s *Service) GenerateShoppingList(ctx context.Context) mealplan.ShoppingList {
	var list mealplan.ShoppingList
	_ = s.mutate(ctx, "generate_shopping_list", scopeList, func(st *mealplan.State) error {
		list = st.GenerateShoppingList()
		return nil
	})
	return list
}

// ShoppingList returns the last generated list with its checked flags.
func (s *Service) ShoppingList() mealplan.ShoppingList {
	var list mealplan.ShoppingList
	s.view(func(st *mealplan.State) {
		list = mealplan.ShoppingList{Items: append([]mealplan.ShoppingItem(nil), st.List.Items...)}
	})
	return list
}

// Check marks an item as acquired.
func (s *Service) Check(ctx context.Context, itemID string) (mealplan.ShoppingItem, error) {
	return s.toggle(ctx, "check_item", func(l *mealplan.ShoppingList) (mealplan.ShoppingItem, error) {
		if err := l.Check(itemID); err != nil {
			return mealplan.ShoppingItem{}, err
		}
		return l.Items[l.Index(itemID)], nil
	})
}

// Uncheck clears the acquired mark of an item.
func (s *Service) Uncheck(ctx context.Context, itemID string) (mealplan.ShoppingItem, error) {
	return s.toggle(ctx, "uncheck_item", func(l *mealplan.ShoppingList) (mealplan.ShoppingItem, error) {
		if err := l.Uncheck(itemID); err != nil {
			return mealplan.ShoppingItem{}, err
		}
		return l.Items[l.Index(itemID)], nil
	})
}

// CheckAt marks the item at a zero-based display position.
func (s *Service) CheckAt(ctx context.Context, index int) (mealplan.ShoppingItem, error) {
	return s.toggle(ctx, "check_item", func(l *mealplan.ShoppingList) (mealplan.ShoppingItem, error) {
		return l.CheckAt(index)
	})
}

// UncheckAt clears the mark of the item at a zero-based display position.
func (s *Service) UncheckAt(ctx context.Context, index int) (mealplan.ShoppingItem, error) {
	return s.toggle(ctx, "uncheck_item", func(l *mealplan.ShoppingList) (mealplan.ShoppingItem, error) {
		return l.UncheckAt(index)
	})
}

func (s *Service) toggle(ctx context.Context, op string, fn func(l *mealplan.ShoppingList) (mealplan.ShoppingItem, error)) (mealplan.ShoppingItem, error) {
	var item mealplan.ShoppingItem
	err := s.mutate(ctx, op, scopeList, func(st *mealplan.State) error {
		var err error
		item, err = fn(&st.List)
		return err
	})
	return item, err
}

// ClearChecked removes checked items and returns how many were removed.
func (s *Service) ClearChecked(ctx context.Context) int {
	var removed int
	_ = s.mutate(ctx, "clear_checked", scopeList, func(st *mealplan.State) error {
		removed = st.List.ClearChecked()
		return nil
	})
	return removed
}

// ClearShoppingList empties the list and its checked flags.
func (s *Service) ClearShoppingList(ctx context.Context) {
	_ = s.mutate(ctx, "clear_shopping_list", scopeList, func(st *mealplan.State) error {
		st.List.ClearAll()
		return nil
	})
}
