// Package planner owns the application state of the meal planner. It
// serializes operations, applies each one to a copy of the state, and saves
// the parts that changed.
package planner

import (
	"context"
	"sync"

	"github.com/fdg312/meal-planner/internal/mealplan"
	"github.com/fdg312/meal-planner/internal/metrics"
	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/rs/zerolog"
)

type scope uint8

const (
	scopeMeals scope = 1 << iota
	scopePlan
	scopeList

	scopeNone scope = 0
	scopeAll        = scopeMeals | scopePlan | scopeList
)

// RemoteCatalog is a source of additional meals, see catalogsync.Client.
type RemoteCatalog interface {
	FetchMeals(ctx context.Context) ([]mealplan.Meal, error)
}

// LoadReport summarizes what Load found in storage.
type LoadReport struct {
	Meals                int `json:"meals"`
	DroppedMeals         int `json:"dropped_meals"`
	PlannedDays          int `json:"planned_days"`
	DroppedPlanEntries   int `json:"dropped_plan_entries"`
	ShoppingItems        int `json:"shopping_items"`
	DroppedShoppingItems int `json:"dropped_shopping_items"`
	Errors               int `json:"errors"`
}

// Service handles meal planner business logic.
type Service struct {
	mu      sync.Mutex
	state   *mealplan.State
	storage storage.PlannerStorage
	logger  zerolog.Logger
	metrics *metrics.Registry

	// unread holds scopes whose stored copy could not be read on Load. They
	// are not written back until an operation changes them.
	unread scope
}

// NewService creates a service with an empty state. Call Load to read the
// persisted state.
func NewService(st storage.PlannerStorage, logger zerolog.Logger) *Service {
	return &Service{
		state:   mealplan.NewState(),
		storage: st,
		logger:  logger.With().Str("component", "planner").Logger(),
	}
}

// WithMetrics sets the metrics registry.
func (s *Service) WithMetrics(m *metrics.Registry) *Service {
	s.metrics = m
	return s
}

// Load replaces the in-memory state with the persisted one. Unreadable data
// degrades to empty and is logged; Load itself never fails.
func (s *Service) Load(ctx context.Context) LoadReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report LoadReport
	dirty := scopeNone
	unread := scopeNone

	mealRecords, err := s.storage.LoadMeals(ctx)
	if err != nil {
		s.persistenceFailed("load_meals", err)
		report.Errors++
		mealRecords = nil
		// Plan entries cannot be resolved without the catalog.
		unread |= scopeMeals | scopePlan
	}
	catalog, dropped := mealplan.RestoreCatalog(recordsToMeals(mealRecords))
	report.Meals = catalog.Len()
	report.DroppedMeals = dropped
	if err == nil && !sameMeals(mealRecords, catalog.List()) {
		dirty |= scopeMeals
	}

	planRecords, err := s.storage.LoadPlan(ctx)
	if err != nil {
		s.persistenceFailed("load_plan", err)
		report.Errors++
		planRecords = nil
		unread |= scopePlan
	}
	plan, dropped := mealplan.RestorePlan(catalog, planRecords)
	report.PlannedDays = len(plan.Entries())
	report.DroppedPlanEntries = dropped
	if err == nil && !samePlan(planRecords, plan.Map()) {
		dirty |= scopePlan
	}

	listRecords, err := s.storage.LoadShoppingList(ctx)
	if err != nil {
		s.persistenceFailed("load_shopping_list", err)
		report.Errors++
		listRecords = nil
		unread |= scopeList
	}
	list, dropped := recordsToList(listRecords)
	report.ShoppingItems = len(list.Items)
	report.DroppedShoppingItems = dropped
	if dropped > 0 {
		dirty |= scopeList
	}

	s.state = &mealplan.State{Catalog: catalog, Plan: plan, List: list}
	if repaired := s.state.Repair(); repaired > 0 {
		s.logger.Warn().Int("cleared_days", repaired).Msg("plan referenced missing meals")
		dirty |= scopePlan
	}
	s.unread = unread
	dirty &^= unread
	if dirty != scopeNone {
		s.logger.Info().
			Int("dropped_meals", report.DroppedMeals).
			Int("dropped_plan_entries", report.DroppedPlanEntries).
			Msg("normalized persisted state")
		s.persist(ctx, dirty)
	}
	s.metrics.SetState(catalog.Len(), report.PlannedDays, report.ShoppingItems)

	s.logger.Info().
		Int("meals", report.Meals).
		Int("planned_days", report.PlannedDays).
		Int("shopping_items", report.ShoppingItems).
		Msg("state loaded")
	return report
}

// MergeRemote adds meals from a remote catalog, skipping names that already
// exist locally and meals that fail validation. It returns the number added.
func (s *Service) MergeRemote(ctx context.Context, remote RemoteCatalog) (int, error) {
	meals, err := remote.FetchMeals(ctx)
	if err != nil {
		s.metrics.CatalogSyncResult("error")
		s.logger.Warn().Err(err).Msg("remote catalog unavailable, using local data only")
		return 0, err
	}

	var added []mealplan.Meal
	err = s.mutate(ctx, "merge_remote", scopeMeals, func(st *mealplan.State) error {
		added = st.Catalog.Merge(meals)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.metrics.CatalogSyncResult("ok")
	s.logger.Info().Int("fetched", len(meals)).Int("added", len(added)).Msg("merged remote catalog")
	return len(added), nil
}

// mutate runs fn against a copy of the state. On success the copy becomes
// the state and the scopes it touched are saved; save failures are logged
// and counted but not returned.
func (s *Service) mutate(ctx context.Context, op string, sc scope, fn func(st *mealplan.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	err := fn(next)
	s.metrics.ObserveOperation(op, err)
	if err != nil {
		s.logger.Debug().Err(err).Str("op", op).Msg("operation rejected")
		return err
	}

	s.state = next
	s.unread &^= sc
	s.persist(ctx, sc)
	s.metrics.SetState(next.Catalog.Len(), len(next.Plan.Entries()), len(next.List.Items))
	return nil
}

// view runs fn under the lock without copying.
func (s *Service) view(fn func(st *mealplan.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

func (s *Service) persist(ctx context.Context, sc scope) {
	if sc&scopeMeals != 0 {
		if err := s.storage.SaveMeals(ctx, mealsToRecords(s.state.Catalog.List())); err != nil {
			s.persistenceFailed("save_meals", err)
		}
	}
	if sc&scopePlan != 0 {
		if err := s.storage.SavePlan(ctx, s.state.Plan.Map()); err != nil {
			s.persistenceFailed("save_plan", err)
		}
	}
	if sc&scopeList != 0 {
		if err := s.storage.SaveShoppingList(ctx, listToRecords(s.state.List)); err != nil {
			s.persistenceFailed("save_shopping_list", err)
		}
	}
}

func (s *Service) persistenceFailed(op string, err error) {
	var perr error = &mealplan.PersistenceError{Op: op, Err: err}
	if mealplan.IsPersistence(err) {
		perr = err
	}
	s.metrics.PersistenceError(op)
	s.logger.Error().Err(perr).Str("op", op).Msg("persistence failed, keeping in-memory state")
}

// Save writes the whole state to storage, except parts that could not be
// read on Load and have not changed since.
func (s *Service) Save(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist(ctx, scopeAll&^s.unread)
}
