package mealplan

import (
	"strings"
)

// Catalog is the full set of known meals, independent of any week's plan.
// Meals are keyed by id and indexed by case-folded name; names are unique.
type Catalog struct {
	order  []string
	byID   map[string]Meal
	byName map[string]string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byID:   make(map[string]Meal),
		byName: make(map[string]string),
	}
}

// RestoreCatalog rebuilds a catalog from persisted records. Records without a
// name or ingredients, and records whose name is already taken, are dropped
// and counted. Ids that are missing or not uuids are replaced.
func RestoreCatalog(meals []Meal) (*Catalog, int) {
	c := NewCatalog()
	dropped := 0
	for _, m := range meals {
		m = m.clone()
		m.Name = strings.TrimSpace(m.Name)
		m.Ingredients = CleanIngredients(m.Ingredients)
		if !validID(m.ID) {
			m.ID = newID()
		}
		if _, taken := c.byID[m.ID]; taken {
			m.ID = newID()
		}
		if err := c.insert(m); err != nil {
			dropped++
		}
	}
	return c, dropped
}

// Clone returns a deep copy.
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{
		order:  append([]string(nil), c.order...),
		byID:   make(map[string]Meal, len(c.byID)),
		byName: make(map[string]string, len(c.byName)),
	}
	for id, m := range c.byID {
		out.byID[id] = m.clone()
	}
	for k, id := range c.byName {
		out.byName[k] = id
	}
	return out
}

// Len returns the number of meals.
func (c *Catalog) Len() int {
	return len(c.order)
}

// List returns the meals in insertion order.
func (c *Catalog) List() []Meal {
	meals := make([]Meal, 0, len(c.order))
	for _, id := range c.order {
		meals = append(meals, c.byID[id].clone())
	}
	return meals
}

// FindByID looks a meal up by id. Absence is not an error.
func (c *Catalog) FindByID(id string) (Meal, bool) {
	m, ok := c.byID[id]
	if !ok {
		return Meal{}, false
	}
	return m.clone(), true
}

// FindByName looks a meal up by name, ignoring case and surrounding space.
func (c *Catalog) FindByName(name string) (Meal, bool) {
	id, ok := c.byName[nameKey(name)]
	if !ok {
		return Meal{}, false
	}
	return c.FindByID(id)
}

// AddMeal validates name and ingredient text, assigns a new id and stores
// the meal.
func (c *Catalog) AddMeal(name, ingredientsText string) (Meal, error) {
	return c.Add(Meal{Name: name, Ingredients: ParseIngredients(ingredientsText)})
}

// Add stores a fully formed meal, assigning an id when it has none.
func (c *Catalog) Add(m Meal) (Meal, error) {
	m = m.clone()
	m.Name = strings.TrimSpace(m.Name)
	m.Ingredients = CleanIngredients(m.Ingredients)
	if m.ID == "" {
		m.ID = newID()
	}
	if _, exists := c.byID[m.ID]; exists {
		return Meal{}, invalid("id", "meal id already exists")
	}
	if err := c.insert(m); err != nil {
		return Meal{}, err
	}
	return m.clone(), nil
}

// EditIngredients replaces the ingredient list in place. Id and name are kept.
func (c *Catalog) EditIngredients(id string, ingredients []string) (Meal, error) {
	m, ok := c.byID[id]
	if !ok {
		return Meal{}, notFound("meal", id)
	}
	cleaned := CleanIngredients(ingredients)
	if len(cleaned) == 0 {
		return Meal{}, invalid("ingredients", "ingredients cannot be empty")
	}
	m.Ingredients = cleaned
	c.byID[id] = m
	return m.clone(), nil
}

// Rename changes a meal's name. The plan refers to meals by id, so nothing
// else has to follow.
func (c *Catalog) Rename(id, name string) (Meal, error) {
	return c.Update(id, MealPatch{Name: &name})
}

// Update applies a partial change. Validation runs on the merged result and
// nothing is written when it fails.
func (c *Catalog) Update(id string, patch MealPatch) (Meal, error) {
	current, ok := c.byID[id]
	if !ok {
		return Meal{}, notFound("meal", id)
	}
	next := current.clone()
	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
		if next.Name == "" {
			return Meal{}, invalid("name", "meal name is required")
		}
		if owner, taken := c.byName[nameKey(next.Name)]; taken && owner != id {
			return Meal{}, invalid("name", "a meal with this name already exists")
		}
	}
	if patch.Ingredients != nil {
		next.Ingredients = CleanIngredients(patch.Ingredients)
		if len(next.Ingredients) == 0 {
			return Meal{}, invalid("ingredients", "ingredients cannot be empty")
		}
	}
	if patch.Category != nil {
		next.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Instructions != nil {
		next.Instructions = strings.TrimSpace(*patch.Instructions)
	}
	if patch.PrepTime != nil {
		next.PrepTime = strings.TrimSpace(*patch.PrepTime)
	}
	if patch.Servings != nil {
		if *patch.Servings < 0 {
			return Meal{}, invalid("servings", "servings cannot be negative")
		}
		next.Servings = *patch.Servings
	}

	delete(c.byName, nameKey(current.Name))
	c.byName[nameKey(next.Name)] = id
	c.byID[id] = next
	return next.clone(), nil
}

// Merge adds meals from another source, skipping any whose name already
// exists and any that fail validation. It returns the meals that were added.
func (c *Catalog) Merge(meals []Meal) []Meal {
	var added []Meal
	for _, m := range meals {
		if _, exists := c.byName[nameKey(m.Name)]; exists {
			continue
		}
		if !validID(m.ID) {
			m.ID = ""
		} else if _, taken := c.byID[m.ID]; taken {
			m.ID = ""
		}
		stored, err := c.Add(m)
		if err != nil {
			continue
		}
		added = append(added, stored)
	}
	return added
}

func (c *Catalog) insert(m Meal) error {
	if m.Name == "" {
		return invalid("name", "meal name is required")
	}
	if len(m.Ingredients) == 0 {
		return invalid("ingredients", "at least one ingredient is required")
	}
	if m.Servings < 0 {
		return invalid("servings", "servings cannot be negative")
	}
	key := nameKey(m.Name)
	if _, taken := c.byName[key]; taken {
		return invalid("name", "a meal with this name already exists")
	}
	c.order = append(c.order, m.ID)
	c.byID[m.ID] = m
	c.byName[key] = m.ID
	return nil
}

func (c *Catalog) remove(id string) (Meal, bool) {
	m, ok := c.byID[id]
	if !ok {
		return Meal{}, false
	}
	delete(c.byID, id)
	delete(c.byName, nameKey(m.Name))
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	return m, true
}
