package memory

import (
	"context"
	"testing"

	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorageRoundTripIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	s := New()

	meals := []storage.MealRecord{{ID: "1", Name: "Pasta", Ingredients: []string{"tomato"}}}
	require.NoError(t, s.SaveMeals(ctx, meals))
	meals[0].Ingredients[0] = "changed"

	loaded, err := s.LoadMeals(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tomato"}, loaded[0].Ingredients)

	loaded[0].Name = "mutated"
	again, _ := s.LoadMeals(ctx)
	assert.Equal(t, "Pasta", again[0].Name)

	plan := map[string]string{"monday": "1"}
	require.NoError(t, s.SavePlan(ctx, plan))
	plan["tuesday"] = "1"
	loadedPlan, err := s.LoadPlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"monday": "1"}, loadedPlan)

	require.NoError(t, s.SaveShoppingList(ctx, []storage.ShoppingItemRecord{{ID: "tomato", Ingredient: "tomato", Count: 1, Checked: true}}))
	items, err := s.LoadShoppingList(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Checked)

	assert.NoError(t, s.Close())
}

func TestNewMemoryStorageIsEmpty(t *testing.T) {
	ctx := context.Background()
	s := New()

	meals, err := s.LoadMeals(ctx)
	require.NoError(t, err)
	assert.Empty(t, meals)

	plan, err := s.LoadPlan(ctx)
	require.NoError(t, err)
	assert.Empty(t, plan)
}
