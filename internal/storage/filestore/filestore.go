// Package filestore keeps planner state as JSON files in a data directory.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fdg312/meal-planner/internal/storage"
)

const (
	mealsFile    = "meals.json"
	planFile     = "plan.json"
	shoppingFile = "shopping.json"
)

type mealsEnvelope struct {
	Meals []storage.MealRecord `json:"meals"`
}

type shoppingEnvelope struct {
	Items []storage.ShoppingItemRecord `json:"items"`
}

// FileStorage — реализация PlannerStorage на JSON-файлах. Отсутствующий файл
// означает пустое состояние; повреждённый файл даёт ошибку с ErrMalformed.
type FileStorage struct {
	mu  sync.Mutex
	dir string
}

// New создаёт каталог dir, если его ещё нет
func New(dir string) (*FileStorage, error) {
	if dir == "" {
		return nil, errors.New("data dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

// Dir returns the data directory.
func (f *FileStorage) Dir() string {
	return f.dir
}

func (f *FileStorage) LoadMeals(ctx context.Context) ([]storage.MealRecord, error) {
	var env mealsEnvelope
	if err := f.read(mealsFile, &env); err != nil {
		return nil, err
	}
	if env.Meals == nil {
		return []storage.MealRecord{}, nil
	}
	return env.Meals, nil
}

func (f *FileStorage) SaveMeals(ctx context.Context, meals []storage.MealRecord) error {
	if meals == nil {
		meals = []storage.MealRecord{}
	}
	return f.write(mealsFile, mealsEnvelope{Meals: meals})
}

func (f *FileStorage) LoadPlan(ctx context.Context) (map[string]string, error) {
	plan := map[string]string{}
	if err := f.read(planFile, &plan); err != nil {
		return nil, err
	}
	if plan == nil {
		plan = map[string]string{}
	}
	return plan, nil
}

func (f *FileStorage) SavePlan(ctx context.Context, plan map[string]string) error {
	if plan == nil {
		plan = map[string]string{}
	}
	return f.write(planFile, plan)
}

func (f *FileStorage) LoadShoppingList(ctx context.Context) ([]storage.ShoppingItemRecord, error) {
	var env shoppingEnvelope
	if err := f.read(shoppingFile, &env); err != nil {
		return nil, err
	}
	if env.Items == nil {
		return []storage.ShoppingItemRecord{}, nil
	}
	return env.Items, nil
}

func (f *FileStorage) SaveShoppingList(ctx context.Context, items []storage.ShoppingItemRecord) error {
	if items == nil {
		items = []storage.ShoppingItemRecord{}
	}
	return f.write(shoppingFile, shoppingEnvelope{Items: items})
}

func (f *FileStorage) Close() error {
	return nil
}

func (f *FileStorage) read(name string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", storage.ErrMalformed, name, err)
	}
	return nil
}

// write replaces the file through a temp file and rename.
func (f *FileStorage) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(f.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
