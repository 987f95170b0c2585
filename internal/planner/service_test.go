package planner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fdg312/meal-planner/internal/mealplan"
	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/fdg312/meal-planner/internal/storage/filestore"
	"github.com/fdg312/meal-planner/internal/storage/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDiskFull = errors.New("disk full")

// flakyStorage wraps MemoryStorage and fails selected calls.
type flakyStorage struct {
	*memory.MemoryStorage
	failSaves bool
	failLoads bool
	saves     int
}

func (f *flakyStorage) SaveMeals(ctx context.Context, meals []storage.MealRecord) error {
	f.saves++
	if f.failSaves {
		return errDiskFull
	}
	return f.MemoryStorage.SaveMeals(ctx, meals)
}

func (f *flakyStorage) SavePlan(ctx context.Context, plan map[string]string) error {
	f.saves++
	if f.failSaves {
		return errDiskFull
	}
	return f.MemoryStorage.SavePlan(ctx, plan)
}

func (f *flakyStorage) SaveShoppingList(ctx context.Context, items []storage.ShoppingItemRecord) error {
	f.saves++
	if f.failSaves {
		return errDiskFull
	}
	return f.MemoryStorage.SaveShoppingList(ctx, items)
}

func (f *flakyStorage) LoadMeals(ctx context.Context) ([]storage.MealRecord, error) {
	if f.failLoads {
		return nil, storage.ErrMalformed
	}
	return f.MemoryStorage.LoadMeals(ctx)
}

func newTestService(t *testing.T) (*Service, *memory.MemoryStorage) {
	t.Helper()
	st := memory.New()
	svc := NewService(st, zerolog.Nop())
	svc.Load(context.Background())
	return svc, st
}

func TestScenarioBuildsAggregatedList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.AddMeal(ctx, "Pasta", "tomato\npasta")
	require.NoError(t, err)
	_, err = svc.AddMeal(ctx, "Salad", "lettuce\ntomato")
	require.NoError(t, err)

	day, err := svc.Assign(ctx, mealplan.Monday, "Pasta")
	require.NoError(t, err)
	assert.Equal(t, "Pasta", day.MealName)
	_, err = svc.Assign(ctx, mealplan.Tuesday, "salad")
	require.NoError(t, err)

	list := svc.GenerateShoppingList(ctx)
	assert.Equal(t, []string{"tomato (2x)", "pasta", "lettuce"}, list.Lines())
	assert.Equal(t, list, svc.ShoppingList())
}

func TestAssignUnknownMealEmptiesDay(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.AddMeal(ctx, "Pasta", "tomato")
	require.NoError(t, err)
	_, err = svc.Assign(ctx, mealplan.Friday, "Pasta")
	require.NoError(t, err)

	day, err := svc.Assign(ctx, mealplan.Friday, "Pizza")
	require.NoError(t, err)
	assert.False(t, day.Assigned())
	assert.Empty(t, svc.Plan().Assigned())
}

func TestAssignInvalidDay(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Assign(context.Background(), mealplan.Day("someday"), "Pasta")
	assert.True(t, mealplan.IsValidation(err))
}

func TestDeleteMealClearsPlanAndPersists(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	m, err := svc.AddMeal(ctx, "Soup", "water\nsalt")
	require.NoError(t, err)
	_, err = svc.AssignID(ctx, mealplan.Monday, m.ID)
	require.NoError(t, err)
	_, err = svc.AssignID(ctx, mealplan.Sunday, m.ID)
	require.NoError(t, err)

	_, cleared, err := svc.DeleteMeal(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []mealplan.Day{mealplan.Monday, mealplan.Sunday}, cleared)

	plan, err := st.LoadPlan(ctx)
	require.NoError(t, err)
	assert.Empty(t, plan)
	meals, err := st.LoadMeals(ctx)
	require.NoError(t, err)
	assert.Empty(t, meals)

	_, err = svc.GetMeal(m.ID)
	assert.True(t, mealplan.IsNotFound(err))
}

func TestCheckedFlagsSurviveRegeneration(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.AddMeal(ctx, "Pasta", "Tomato\npasta")
	require.NoError(t, err)
	_, err = svc.Assign(ctx, mealplan.Monday, "Pasta")
	require.NoError(t, err)
	svc.GenerateShoppingList(ctx)

	item, err := svc.Check(ctx, "tomato")
	require.NoError(t, err)
	assert.True(t, item.Checked)
	assert.Equal(t, "Tomato", item.Ingredient)

	list := svc.GenerateShoppingList(ctx)
	require.Len(t, list.Items, 2)
	assert.True(t, list.Items[0].Checked)
	assert.False(t, list.Items[1].Checked)

	item, err = svc.UncheckAt(ctx, 0)
	require.NoError(t, err)
	assert.False(t, item.Checked)

	_, err = svc.Check(ctx, "bread")
	assert.True(t, mealplan.IsNotFound(err))
	_, err = svc.CheckAt(ctx, 5)
	assert.Error(t, err)
}

func TestClearChecked(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.AddMeal(ctx, "Pasta", "tomato\npasta\nbasil")
	require.NoError(t, err)
	_, err = svc.Assign(ctx, mealplan.Monday, "Pasta")
	require.NoError(t, err)
	svc.GenerateShoppingList(ctx)

	_, err = svc.Check(ctx, "pasta")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.ClearChecked(ctx))
	assert.Equal(t, []string{"tomato", "basil"}, svc.ShoppingList().Lines())
	assert.Equal(t, 0, svc.ClearChecked(ctx))

	svc.ClearShoppingList(ctx)
	assert.True(t, svc.ShoppingList().Empty())
}

func TestSaveFailureKeepsInMemoryState(t *testing.T) {
	ctx := context.Background()
	st := &flakyStorage{MemoryStorage: memory.New(), failSaves: true}
	svc := NewService(st, zerolog.Nop())
	svc.Load(ctx)

	m, err := svc.AddMeal(ctx, "Pasta", "tomato")
	require.NoError(t, err)
	assert.Positive(t, st.saves)

	got, err := svc.GetMeal(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pasta", got.Name)
}

func TestLoadDegradesUnreadableData(t *testing.T) {
	ctx := context.Background()
	st := &flakyStorage{MemoryStorage: memory.New(), failLoads: true}
	require.NoError(t, st.MemoryStorage.SavePlan(ctx, map[string]string{"monday": "Pasta"}))

	svc := NewService(st, zerolog.Nop())
	report := svc.Load(ctx)

	assert.Equal(t, 1, report.Errors)
	assert.Zero(t, report.Meals)
	assert.Equal(t, 1, report.DroppedPlanEntries)
	assert.Empty(t, svc.ListMeals())
	assert.Empty(t, svc.Plan().Assigned())

	stored, err := st.MemoryStorage.LoadPlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"monday": "Pasta"}, stored)

	svc.Save(ctx)
	stored, err = st.MemoryStorage.LoadPlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"monday": "Pasta"}, stored)
}

func TestCorruptMealsFileKeepsPlanFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fs, err := filestore.New(dir)
	require.NoError(t, err)
	first := NewService(fs, zerolog.Nop())
	first.Load(ctx)
	_, err = first.AddMeal(ctx, "Pasta", "tomato")
	require.NoError(t, err)
	_, err = first.Assign(ctx, mealplan.Monday, "Pasta")
	require.NoError(t, err)

	before, err := os.ReadFile(filepath.Join(dir, "plan.json"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meals.json"), []byte("{not json"), 0o644))

	second := NewService(fs, zerolog.Nop())
	report := second.Load(ctx)
	assert.Equal(t, 1, report.Errors)
	second.Save(ctx)

	after, err := os.ReadFile(filepath.Join(dir, "plan.json"))
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestEditAfterUnreadableLoadWritesThrough(t *testing.T) {
	ctx := context.Background()
	st := &flakyStorage{MemoryStorage: memory.New(), failLoads: true}
	require.NoError(t, st.MemoryStorage.SavePlan(ctx, map[string]string{"monday": "Pasta"}))

	svc := NewService(st, zerolog.Nop())
	svc.Load(ctx)

	_, err := svc.AddMeal(ctx, "Soup", "water")
	require.NoError(t, err)
	meals, err := st.MemoryStorage.LoadMeals(ctx)
	require.NoError(t, err)
	require.Len(t, meals, 1)

	// Meals were rewritten, the plan was not touched yet.
	stored, err := st.MemoryStorage.LoadPlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"monday": "Pasta"}, stored)

	_, err = svc.Assign(ctx, mealplan.Tuesday, "Soup")
	require.NoError(t, err)
	stored, err = st.MemoryStorage.LoadPlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"tuesday": meals[0].ID}, stored)
}

func TestLoadRestoresPersistedState(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	first := NewService(st, zerolog.Nop())
	first.Load(ctx)
	_, err := first.AddMeal(ctx, "Pasta", "tomato\npasta")
	require.NoError(t, err)
	_, err = first.Assign(ctx, mealplan.Wednesday, "Pasta")
	require.NoError(t, err)
	first.GenerateShoppingList(ctx)
	_, err = first.Check(ctx, "pasta")
	require.NoError(t, err)

	second := NewService(st, zerolog.Nop())
	report := second.Load(ctx)
	assert.Equal(t, 1, report.Meals)
	assert.Equal(t, 1, report.PlannedDays)
	assert.Equal(t, 2, report.ShoppingItems)

	day, err := second.Day(mealplan.Wednesday)
	require.NoError(t, err)
	assert.Equal(t, "Pasta", day.MealName)
	assert.Equal(t, []string{"pasta"}, second.ShoppingList().CheckedIDs())
}

type stubRemote struct {
	meals []mealplan.Meal
	err   error
}

func (s stubRemote) FetchMeals(context.Context) ([]mealplan.Meal, error) {
	return s.meals, s.err
}

func TestMergeRemoteSkipsExistingNames(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.AddMeal(ctx, "Pasta", "tomato")
	require.NoError(t, err)

	added, err := svc.MergeRemote(ctx, stubRemote{meals: []mealplan.Meal{
		{Name: "pasta", Ingredients: []string{"flour"}},
		{Name: "Curry", Ingredients: []string{"rice", "chicken"}},
		{Name: "  "},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	require.Len(t, svc.ListMeals(), 2)

	m, err := svc.FindMealByName("PASTA")
	require.NoError(t, err)
	assert.Equal(t, []string{"tomato"}, m.Ingredients)

	_, err = svc.MergeRemote(ctx, stubRemote{err: errors.New("offline")})
	assert.Error(t, err)
	assert.Len(t, svc.ListMeals(), 2)
}

func TestRejectedOperationLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.AddMeal(ctx, "Pasta", "tomato")
	require.NoError(t, err)
	_, err = svc.AddMeal(ctx, " pasta ", "flour")
	assert.True(t, mealplan.IsValidation(err))
	_, err = svc.AddMeal(ctx, "", "flour")
	assert.True(t, mealplan.IsValidation(err))

	assert.Len(t, svc.ListMeals(), 1)
}
