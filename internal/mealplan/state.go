package mealplan

// State is the whole application state: the meal catalog, the week's plan
// and the last generated shopping list with its checked flags. Operations
// either complete or return an error with the state untouched.
type State struct {
	Catalog *Catalog
	Plan    *WeeklyPlan
	List    ShoppingList
}

// NewState returns an empty state.
func NewState() *State {
	return &State{Catalog: NewCatalog(), Plan: NewWeeklyPlan()}
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	return &State{
		Catalog: s.Catalog.Clone(),
		Plan:    s.Plan.clone(),
		List:    s.List.clone(),
	}
}

// AddMeal adds a meal parsed from free-form ingredient text.
func (s *State) AddMeal(name, ingredientsText string) (Meal, error) {
	return s.Catalog.AddMeal(name, ingredientsText)
}

// CreateMeal adds a meal given as a record, with optional metadata.
func (s *State) CreateMeal(m Meal) (Meal, error) {
	m.ID = ""
	return s.Catalog.Add(m)
}

// EditIngredients replaces a meal's ingredients.
func (s *State) EditIngredients(id string, ingredients []string) (Meal, error) {
	return s.Catalog.EditIngredients(id, ingredients)
}

// UpdateMeal applies a partial change to a meal.
func (s *State) UpdateMeal(id string, patch MealPatch) (Meal, error) {
	return s.Catalog.Update(id, patch)
}

// RenameMeal changes a meal's name. Plan slots hold ids and need no update.
func (s *State) RenameMeal(id, name string) (Meal, error) {
	return s.Catalog.Rename(id, name)
}

// DeleteMeal removes a meal and empties every day it was planned on. It
// returns the removed meal and the days that were cleared.
func (s *State) DeleteMeal(id string) (Meal, []Day, error) {
	m, ok := s.Catalog.remove(id)
	if !ok {
		return Meal{}, nil, notFound("meal", id)
	}
	return m, s.OnMealDeleted(id), nil
}

// OnMealDeleted empties every plan slot assigned to mealID.
func (s *State) OnMealDeleted(mealID string) []Day {
	return s.Plan.removeMeal(mealID)
}

// Assign plans the meal with the given name on day. A name that matches no
// meal empties the slot instead, and the returned bool is false.
func (s *State) Assign(day Day, mealName string) (Meal, bool, error) {
	if day.Index() < 0 {
		return Meal{}, false, invalid("day", "unknown day "+string(day))
	}
	m, ok := s.Catalog.FindByName(mealName)
	if !ok {
		s.Plan.unset(day)
		return Meal{}, false, nil
	}
	s.Plan.set(day, m.ID)
	return m, true, nil
}

// AssignID plans the meal with the given id on day. An unknown id empties the
// slot, like Assign.
func (s *State) AssignID(day Day, mealID string) (Meal, bool, error) {
	if day.Index() < 0 {
		return Meal{}, false, invalid("day", "unknown day "+string(day))
	}
	m, ok := s.Catalog.FindByID(mealID)
	if !ok {
		s.Plan.unset(day)
		return Meal{}, false, nil
	}
	s.Plan.set(day, m.ID)
	return m, true, nil
}

// Unassign empties day.
func (s *State) Unassign(day Day) error {
	if day.Index() < 0 {
		return invalid("day", "unknown day "+string(day))
	}
	s.Plan.unset(day)
	return nil
}

// ClearPlan empties every day.
func (s *State) ClearPlan() {
	s.Plan.clear()
}

// GenerateShoppingList rebuilds the current list from the plan. Checked flags
// survive for items that are still on the list.
func (s *State) GenerateShoppingList() ShoppingList {
	next := BuildShoppingList(s.Catalog, s.Plan)
	next.carryChecked(s.List)
	s.List = next
	return next.clone()
}

// CheckInvariant reports plan slots that point at meals missing from the
// catalog. It returns nil when the state is consistent.
func (s *State) CheckInvariant() []PlanEntry {
	var dangling []PlanEntry
	for _, entry := range s.Plan.Entries() {
		if _, ok := s.Catalog.FindByID(entry.MealID); !ok {
			dangling = append(dangling, entry)
		}
	}
	return dangling
}

// Repair empties dangling plan slots and returns how many it cleared.
func (s *State) Repair() int {
	dangling := s.CheckInvariant()
	for _, entry := range dangling {
		s.Plan.unset(entry.Day)
	}
	return len(dangling)
}
