package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/fdg312/meal-planner/internal/httpserver"
	"github.com/fdg312/meal-planner/internal/logging"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg)
	logging.SetGlobal(logger)

	printStartupBanner(cfg, logger)
	validateProductionConfig(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := httpserver.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("server init failed")
	}
	defer server.Close()

	if err := server.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
	logger.Info().Msg("bye")
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// No secrets are ever printed, only "set" / "not set".
func printStartupBanner(cfg *config.Config, logger zerolog.Logger) {
	logger.Info().
		Str("env", cfg.Env).
		Int("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Msg("meal planner API")

	logger.Info().
		Str("storage_mode", cfg.StorageMode).
		Str("resolved", cfg.ResolvedStorageMode()).
		Str("data_dir", cfg.DataDir).
		Msg("storage")

	logger.Info().
		Str("runtime_url", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled)).
		Str("pooled", setOrNot(cfg.DatabaseURLPooled)).
		Str("direct", setOrNot(cfg.DatabaseURLDirect)).
		Bool("migrations_on_startup", cfg.RunMigrationsOnStartup).
		Msg("database")

	blobEvent := logger.Info().Str("blob_mode", cfg.Blob.Mode).Int("export_ttl_seconds", cfg.ExportTTLSeconds)
	if cfg.Blob.Mode != config.BlobModeLocal {
		blobEvent = blobEvent.Str("s3", cfg.Blob.S3.DiagnosticsSummary())
	}
	blobEvent.Msg("blob")

	logger.Info().
		Str("remote_catalog", nonEmptyOrDash(cfg.RemoteCatalogURL)).
		Int("timeout_seconds", cfg.RemoteCatalogTimeoutSeconds).
		Msg("catalog")
}

// validateProductionConfig performs fatal checks that only matter in
// non-local envs.
func validateProductionConfig(cfg *config.Config, logger zerolog.Logger) {
	isProd := cfg.Env == "production" || cfg.Env == "staging"

	if cfg.Blob.Mode == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			logger.Fatal().Msgf("blob: BLOB_MODE is 's3' but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	if isProd && cfg.ResolvedStorageMode() == config.StorageModeMemory {
		logger.Warn().Msgf("storage: %s runs with in-memory storage, data is lost on restart", cfg.Env)
	}
}

// ---- helpers (no secrets) ----

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func nonEmptyOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}
