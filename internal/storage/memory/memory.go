package memory

import (
	"context"
	"sync"

	"github.com/fdg312/meal-planner/internal/storage"
)

// MemoryStorage — in-memory реализация PlannerStorage. Данные живут до
// остановки процесса.
type MemoryStorage struct {
	mu       sync.RWMutex
	meals    []storage.MealRecord
	plan     map[string]string
	shopping []storage.ShoppingItemRecord
}

// New создаёт пустой MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		plan: make(map[string]string),
	}
}

func (m *MemoryStorage) LoadMeals(ctx context.Context) ([]storage.MealRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return copyMeals(m.meals), nil
}

func (m *MemoryStorage) SaveMeals(ctx context.Context, meals []storage.MealRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.meals = copyMeals(meals)
	return nil
}

func (m *MemoryStorage) LoadPlan(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]string, len(m.plan))
	for day, id := range m.plan {
		result[day] = id
	}
	return result, nil
}

func (m *MemoryStorage) SavePlan(ctx context.Context, plan map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plan = make(map[string]string, len(plan))
	for day, id := range plan {
		m.plan[day] = id
	}
	return nil
}

func (m *MemoryStorage) LoadShoppingList(ctx context.Context) ([]storage.ShoppingItemRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]storage.ShoppingItemRecord{}, m.shopping...), nil
}

func (m *MemoryStorage) SaveShoppingList(ctx context.Context, items []storage.ShoppingItemRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shopping = append([]storage.ShoppingItemRecord{}, items...)
	return nil
}

// Close ничего не делает для in-memory хранилища
func (m *MemoryStorage) Close() error {
	return nil
}

func copyMeals(meals []storage.MealRecord) []storage.MealRecord {
	result := make([]storage.MealRecord, 0, len(meals))
	for _, meal := range meals {
		meal.Ingredients = append([]string{}, meal.Ingredients...)
		result = append(result, meal)
	}
	return result
}
