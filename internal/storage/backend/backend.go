// Package backend выбирает реализацию хранилища по конфигурации.
package backend

import (
	"context"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/fdg312/meal-planner/internal/dbmigrate"
	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/fdg312/meal-planner/internal/storage/filestore"
	"github.com/fdg312/meal-planner/internal/storage/memory"
	"github.com/fdg312/meal-planner/internal/storage/postgres"
	"github.com/rs/zerolog"
)

// Open возвращает хранилище и фактический режим. Если файловое хранилище
// или PostgreSQL недоступны, используется in-memory storage: приложение
// должно стартовать в любом случае.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (storage.PlannerStorage, string) {
	mode := cfg.ResolvedStorageMode()

	switch mode {
	case config.StorageModeFile:
		fs, err := filestore.New(cfg.DataDir)
		if err != nil {
			logger.Error().Err(err).Str("dir", cfg.DataDir).Msg("file storage unavailable, fallback to memory")
			return memory.New(), config.StorageModeMemory
		}
		logger.Info().Str("dir", fs.Dir()).Msg("using file storage")
		return fs, config.StorageModeFile

	case config.StorageModePostgres:
		if cfg.DatabaseURL == "" {
			logger.Warn().Msg("STORAGE_MODE=postgres without DATABASE_URL, fallback to memory")
			return memory.New(), config.StorageModeMemory
		}
		if cfg.RunMigrationsOnStartup {
			migrate(ctx, cfg, logger)
		}
		logger.Info().Msg("connecting to PostgreSQL")
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error().Err(err).Msg("PostgreSQL unavailable, fallback to memory")
			return memory.New(), config.StorageModeMemory
		}
		logger.Info().Msg("PostgreSQL connected")
		return pg, config.StorageModePostgres

	default:
		logger.Info().Msg("using in-memory storage")
		return memory.New(), config.StorageModeMemory
	}
}

func migrate(ctx context.Context, cfg *config.Config, logger zerolog.Logger) {
	sel, err := dbmigrate.SelectDatabaseURL(cfg, false)
	if err != nil {
		logger.Error().Err(err).Msg("migrations skipped")
		return
	}
	if sel.Warning != "" {
		logger.Warn().Str("source", sel.Source).Msg(sel.Warning)
	}
	if err := dbmigrate.Run(ctx, "up", sel.URL, dbmigrate.DefaultMigrationsDir); err != nil {
		logger.Error().Err(err).Msg("startup migrations failed")
		return
	}
	logger.Info().Str("source", sel.Source).Msg("startup migrations applied")
}
