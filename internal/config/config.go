package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"
)

const (
	StorageModeMemory   = "memory"
	StorageModeFile     = "file"
	StorageModePostgres = "postgres"
	StorageModeAuto     = "auto"
)

type S3Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PublicBaseURL     string
	PresignTTLSeconds int
	PreferPublicURL   bool
}

// required pairs each mandatory S3 setting with its env var, in the order
// they are reported.
func (c S3Config) required() [][2]string {
	return [][2]string{
		{"S3_ENDPOINT", c.Endpoint},
		{"S3_REGION", c.Region},
		{"S3_BUCKET", c.Bucket},
		{"S3_ACCESS_KEY_ID", c.AccessKeyID},
		{"S3_SECRET_ACCESS_KEY", c.SecretAccessKey},
	}
}

// MissingRequired lists the env vars of unset mandatory S3 settings.
func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 5)
	for _, kv := range c.required() {
		if strings.TrimSpace(kv[1]) == "" {
			missing = append(missing, kv[0])
		}
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

// Diagnostics classifies the S3 settings for the startup log: nothing set,
// partially set or ready.
func (c S3Config) Diagnostics() (level string, code string, msg string) {
	missing := c.MissingRequired()
	switch {
	case len(missing) == len(c.required()):
		return "info", "s3_not_configured", "not configured (all empty)"
	case len(missing) > 0:
		return "warn", "s3_partial_config", fmt.Sprintf("partial config, missing=%v", missing)
	default:
		return "info", "s3_ready", "ready"
	}
}

// DiagnosticsSummary describes the S3 settings without exposing credentials.
func (c S3Config) DiagnosticsSummary() string {
	isSet := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return "not set"
		}
		return "set"
	}
	return fmt.Sprintf("endpoint=%s region=%s bucket=%s public_base_url=%s presign_ttl=%ds access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		nonEmptyOrDash(c.PublicBaseURL),
		c.PresignTTLSeconds,
		isSet(c.AccessKeyID),
		isSet(c.SecretAccessKey),
	)
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

type BlobConfig struct {
	Mode     string // local|s3|auto
	LocalDir string // used when the resolved mode is local
	S3       S3Config
}

// Config содержит конфигурацию приложения
type Config struct {
	Env      string // local | staging | prod
	Port     int
	LogLevel string

	// Storage
	StorageMode string // memory | file | postgres | auto
	DataDir     string

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string // DATABASE_URL as provided
	DatabaseURLPooled string // DATABASE_URL_POOLED as provided
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	// Migrations
	RunMigrationsOnStartup bool

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	// Blob / shopping list export
	Blob             BlobConfig
	ExportTTLSeconds int

	// Remote meal catalog
	RemoteCatalogURL            string
	RemoteCatalogTimeoutSeconds int

	ShutdownTimeoutSeconds int
}

// IsLocal reports whether the app runs in the local environment.
func (c *Config) IsLocal() bool {
	return c.Env == "local"
}

// ResolvedStorageMode resolves auto: postgres when a database URL is set,
// otherwise memory.
func (c *Config) ResolvedStorageMode() string {
	if c.StorageMode != StorageModeAuto && c.StorageMode != "" {
		return c.StorageMode
	}
	if c.DatabaseURL != "" {
		return StorageModePostgres
	}
	return StorageModeMemory
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	// APP_ENV (fallback to ENV for backward compat, default: local)
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env == "" {
		env = "local"
	}

	// PORT (default: 8080)
	port := envInt("PORT", 8080)

	// LOG_LEVEL (default: debug)
	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if logLevel == "" {
		logLevel = "debug"
	}

	// ---------- Storage ----------
	storageMode := strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_MODE")))
	switch storageMode {
	case "":
		storageMode = StorageModeAuto
	case StorageModeMemory, StorageModeFile, StorageModePostgres, StorageModeAuto:
	default:
		log.Warn().Str("value", storageMode).Msg("unknown STORAGE_MODE, fallback to auto")
		storageMode = StorageModeAuto
	}

	dataDir := strings.TrimSpace(os.Getenv("DATA_DIR"))
	if dataDir == "" {
		dataDir = "./data"
	}

	// ---------- Database ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	dbDirect := strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	// ---------- Migrations ----------
	runMigrationsOnStartup := parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP")

	// ---------- CORS ----------
	corsOrigins := parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env)
	corsAllowCreds := os.Getenv("CORS_ALLOW_CREDENTIALS") == "1"

	// ---------- Rate Limiting ----------
	rateLimitRPS := envInt("RATE_LIMIT_RPS", 0)
	rateLimitBurst := envInt("RATE_LIMIT_BURST", 0)

	// ---------- Blob / S3 ----------
	blobMode := parseBlobMode("BLOB_MODE", BlobModeLocal)

	// S3_PRESIGN_TTL_SECONDS (default: 900, enforce > 0)
	s3PresignTTL := envInt("S3_PRESIGN_TTL_SECONDS", 900)
	if s3PresignTTL <= 0 {
		s3PresignTTL = 900
	}

	s3Cfg := S3Config{
		Endpoint:          strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		Region:            strings.TrimSpace(os.Getenv("S3_REGION")),
		Bucket:            strings.TrimSpace(os.Getenv("S3_BUCKET")),
		AccessKeyID:       strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
		SecretAccessKey:   strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
		PublicBaseURL:     strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE_URL")),
		PresignTTLSeconds: s3PresignTTL,
		PreferPublicURL:   parseBoolEnv("S3_PREFER_PUBLIC_URL"),
	}

	// EXPORT_TTL_SECONDS (default: S3 presign TTL)
	exportTTL := envInt("EXPORT_TTL_SECONDS", s3PresignTTL)
	if exportTTL <= 0 {
		exportTTL = s3PresignTTL
	}

	// ---------- Remote catalog ----------
	remoteCatalogURL := strings.TrimRight(strings.TrimSpace(os.Getenv("REMOTE_CATALOG_URL")), "/")
	remoteCatalogTimeout := envInt("REMOTE_CATALOG_TIMEOUT_SECONDS", 5)
	if remoteCatalogTimeout <= 0 {
		remoteCatalogTimeout = 5
	}

	shutdownTimeout := envInt("SHUTDOWN_TIMEOUT_SECONDS", 10)
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10
	}

	return &Config{
		Env:      env,
		Port:     port,
		LogLevel: logLevel,

		StorageMode: storageMode,
		DataDir:     dataDir,

		DatabaseURL:       runtimeDB,
		DatabaseURLRaw:    dbURL,
		DatabaseURLPooled: dbPooled,
		DatabaseURLDirect: dbDirect,

		RunMigrationsOnStartup: runMigrationsOnStartup,

		CORSAllowedOrigins:   corsOrigins,
		CORSAllowCredentials: corsAllowCreds,

		RateLimitRPS:   rateLimitRPS,
		RateLimitBurst: rateLimitBurst,

		Blob: BlobConfig{
			Mode:     blobMode,
			LocalDir: filepath.Join(dataDir, "exports"),
			S3:       s3Cfg,
		},
		ExportTTLSeconds: exportTTL,

		RemoteCatalogURL:            remoteCatalogURL,
		RemoteCatalogTimeoutSeconds: remoteCatalogTimeout,

		ShutdownTimeoutSeconds: shutdownTimeout,
	}
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS env var.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:8081"}
		}
		return nil // prod: deny by default
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func parseBlobMode(key string, defaultVal string) string {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if mode == "" {
		return defaultVal
	}
	switch mode {
	case BlobModeLocal, BlobModeS3, BlobModeAuto:
		return mode
	default:
		log.Warn().Str("key", key).Str("value", mode).Str("fallback", defaultVal).Msg("unknown blob mode")
		return defaultVal
	}
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
