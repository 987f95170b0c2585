package storage

import (
	"context"
	"errors"
)

// ErrMalformed оборачивает ошибки разбора сохранённых данных
var ErrMalformed = errors.New("malformed persisted data")

// MealRecord — сохранённое блюдо
type MealRecord struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Category     string   `json:"category,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	PrepTime     string   `json:"prep_time,omitempty"`
	Servings     int      `json:"servings,omitempty"`
}

// ShoppingItemRecord — позиция последнего сгенерированного списка покупок
// вместе с отметкой "куплено"
type ShoppingItemRecord struct {
	ID         string `json:"id"`
	Ingredient string `json:"ingredient"`
	Count      int    `json:"count"`
	Checked    bool   `json:"checked"`
}

// PlannerStorage — интерфейс хранилища каталога блюд, недельного плана и
// списка покупок. Каждый Save заменяет сохранённое состояние целиком.
type PlannerStorage interface {
	// LoadMeals возвращает блюда в порядке добавления
	LoadMeals(ctx context.Context) ([]MealRecord, error)

	// SaveMeals заменяет каталог
	SaveMeals(ctx context.Context, meals []MealRecord) error

	// LoadPlan возвращает план в виде day -> meal id
	LoadPlan(ctx context.Context) (map[string]string, error)

	// SavePlan заменяет план
	SavePlan(ctx context.Context, plan map[string]string) error

	// LoadShoppingList возвращает позиции в порядке отображения
	LoadShoppingList(ctx context.Context) ([]ShoppingItemRecord, error)

	// SaveShoppingList заменяет список покупок
	SaveShoppingList(ctx context.Context, items []ShoppingItemRecord) error

	// Close закрывает соединение (для Postgres)
	Close() error
}
