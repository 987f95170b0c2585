package blob

import (
	"context"
	"fmt"
	"strings"

	appcfg "github.com/fdg312/meal-planner/internal/config"
	"github.com/rs/zerolog"
)

// LocalURLBase is the API route serving objects of a LocalStore.
const LocalURLBase = "/v1/exports"

// NewBlobStore builds a blob store using mode local|s3|auto. It returns the
// store together with the resolved mode.
func NewBlobStore(ctx context.Context, cfg appcfg.BlobConfig, logger zerolog.Logger) (Store, string, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Mode))
	if mode == "" {
		mode = appcfg.BlobModeLocal
	}

	switch mode {
	case appcfg.BlobModeLocal:
		logger.Info().Str("mode", "local").Msg("blob: mode=local (forced)")
		return newLocal(cfg)

	case appcfg.BlobModeAuto:
		if !cfg.S3.IsConfigured() {
			level, code, msg := cfg.S3.Diagnostics()
			lvl, err := zerolog.ParseLevel(level)
			if err != nil {
				lvl = zerolog.InfoLevel
			}
			logger.WithLevel(lvl).Str("code", code).Msg("blob.s3: " + msg)
			logger.Info().Msg("blob.s3: " + cfg.S3.DiagnosticsSummary())
			logger.Info().Str("mode", "local").Msg("blob: mode=local (auto, S3 not configured)")
			return newLocal(cfg)
		}

		logger.Info().Str("code", "s3_ready").Msg("blob.s3: " + cfg.S3.DiagnosticsSummary())
		store, err := NewS3Store(ctx, s3Options(cfg.S3))
		if err != nil {
			logger.Warn().Err(err).Msg("blob.s3: init failed, fallback=local")
			return newLocal(cfg)
		}

		logger.Info().Str("mode", "s3").Msg("blob: mode=s3 (auto, configured)")
		return store, appcfg.BlobModeS3, nil

	case appcfg.BlobModeS3:
		if !cfg.S3.IsConfigured() {
			missing := cfg.S3.MissingRequired()
			logger.Error().Str("code", "s3_config_incomplete").Strs("missing", missing).Msg("blob.s3: " + cfg.S3.DiagnosticsSummary())
			err := fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
			return nil, "", err
		}

		logger.Info().Str("code", "s3_ready").Msg("blob.s3: " + cfg.S3.DiagnosticsSummary())
		store, err := NewS3Store(ctx, s3Options(cfg.S3))
		if err != nil {
			logger.Error().Err(err).Msg("blob.s3: init failed")
			return nil, "", fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
		}

		logger.Info().Str("mode", "s3").Msg("blob: mode=s3 (forced)")
		return store, appcfg.BlobModeS3, nil

	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
}

func newLocal(cfg appcfg.BlobConfig) (Store, string, error) {
	store, err := NewLocalStore(cfg.LocalDir, LocalURLBase)
	if err != nil {
		return nil, "", err
	}
	return store, appcfg.BlobModeLocal, nil
}

func s3Options(c appcfg.S3Config) S3Options {
	return S3Options{
		Endpoint:        c.Endpoint,
		Region:          c.Region,
		Bucket:          c.Bucket,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		PublicBaseURL:   c.PublicBaseURL,
		PreferPublicURL: c.PreferPublicURL,
	}
}
