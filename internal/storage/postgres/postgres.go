package postgres

import (
	"context"
	"fmt"

	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage — Postgres реализация PlannerStorage. Схема создаётся
// миграциями goose (migrations/).
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// New создаёт пул соединений и проверяет подключение
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{pool: pool}, nil
}

func (p *PostgresStorage) LoadMeals(ctx context.Context) ([]storage.MealRecord, error) {
	query := `
		SELECT id, name, ingredients, category, instructions, prep_time, servings
		FROM meals
		ORDER BY position ASC, created_at ASC
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	meals := []storage.MealRecord{}
	for rows.Next() {
		var (
			meal storage.MealRecord
			id   uuid.UUID
		)
		if err := rows.Scan(
			&id,
			&meal.Name,
			&meal.Ingredients,
			&meal.Category,
			&meal.Instructions,
			&meal.PrepTime,
			&meal.Servings,
		); err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meal.ID = id.String()
		meals = append(meals, meal)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating meals: %w", rows.Err())
	}

	return meals, nil
}

// SaveMeals приводит таблицу meals к переданному набору: удаляет
// отсутствующие блюда (plan_entries чистятся каскадом) и делает upsert
// остальных.
func (p *PostgresStorage) SaveMeals(ctx context.Context, meals []storage.MealRecord) error {
	ids := make([]uuid.UUID, 0, len(meals))
	for _, meal := range meals {
		id, err := uuid.Parse(meal.ID)
		if err != nil {
			return fmt.Errorf("meal %q has invalid id: %w", meal.Name, err)
		}
		ids = append(ids, id)
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM meals WHERE NOT (id = ANY($1))`, ids); err != nil {
		return fmt.Errorf("failed to delete removed meals: %w", err)
	}

	upsertQuery := `
		INSERT INTO meals (id, position, name, ingredients, category, instructions, prep_time, servings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			position = EXCLUDED.position,
			name = EXCLUDED.name,
			ingredients = EXCLUDED.ingredients,
			category = EXCLUDED.category,
			instructions = EXCLUDED.instructions,
			prep_time = EXCLUDED.prep_time,
			servings = EXCLUDED.servings,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for i, meal := range meals {
		ingredients := meal.Ingredients
		if ingredients == nil {
			ingredients = []string{}
		}
		batch.Queue(upsertQuery,
			ids[i],
			i,
			meal.Name,
			ingredients,
			meal.Category,
			meal.Instructions,
			meal.PrepTime,
			meal.Servings,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert meals: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (p *PostgresStorage) LoadPlan(ctx context.Context) (map[string]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT day, meal_id FROM plan_entries`)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	defer rows.Close()

	plan := map[string]string{}
	for rows.Next() {
		var (
			day    string
			mealID uuid.UUID
		)
		if err := rows.Scan(&day, &mealID); err != nil {
			return nil, fmt.Errorf("failed to scan plan entry: %w", err)
		}
		plan[day] = mealID.String()
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating plan entries: %w", rows.Err())
	}

	return plan, nil
}

func (p *PostgresStorage) SavePlan(ctx context.Context, plan map[string]string) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM plan_entries`); err != nil {
		return fmt.Errorf("failed to clear plan: %w", err)
	}

	for day, rawID := range plan {
		mealID, err := uuid.Parse(rawID)
		if err != nil {
			return fmt.Errorf("plan entry %s has invalid meal id: %w", day, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO plan_entries (day, meal_id) VALUES ($1, $2)`,
			day, mealID,
		); err != nil {
			return fmt.Errorf("failed to insert plan entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (p *PostgresStorage) LoadShoppingList(ctx context.Context) ([]storage.ShoppingItemRecord, error) {
	query := `
		SELECT id, ingredient, count, checked
		FROM shopping_items
		ORDER BY position ASC
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping list: %w", err)
	}
	defer rows.Close()

	items := []storage.ShoppingItemRecord{}
	for rows.Next() {
		var item storage.ShoppingItemRecord
		if err := rows.Scan(&item.ID, &item.Ingredient, &item.Count, &item.Checked); err != nil {
			return nil, fmt.Errorf("failed to scan shopping item: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating shopping items: %w", rows.Err())
	}

	return items, nil
}

func (p *PostgresStorage) SaveShoppingList(ctx context.Context, items []storage.ShoppingItemRecord) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM shopping_items`); err != nil {
		return fmt.Errorf("failed to clear shopping list: %w", err)
	}

	rows := make([][]any, 0, len(items))
	for i, item := range items {
		rows = append(rows, []any{item.ID, i, item.Ingredient, item.Count, item.Checked})
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"shopping_items"},
		[]string{"id", "position", "ingredient", "count", "checked"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("failed to insert shopping items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close закрывает пул соединений
func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}
