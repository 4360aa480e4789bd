package config

import (
	"time"

	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

type AssetBackend string

const (
	AssetBackendLocal AssetBackend = "local" // Copy assets to a local directory (default)
	AssetBackendGCS   AssetBackend = "gcs"   // Upload assets to a Cloud Storage bucket
)

type (
	Config struct {
		HTTP
		Global
		Database
		Import
		Assets
		Log
		Tasks
		ImportSync
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver DatabaseDriver
		Path   string // SQLite file path
		DSN    string // Postgres connection string
	}
	Import struct {
		LogPath       string
		ReportPath    string
		OwnerID       string
		RetentionDays int // Days to keep stored import runs (default: 30)
	}
	Assets struct {
		Backend      AssetBackend
		Dir          string // Local directory, or object prefix for gcs
		Bucket       string
		PublicPrefix string
	}
	Log struct {
		Mode string // "development" or "production"
	}
	Tasks struct {
		Enabled         bool
		TaskTimeout     time.Duration
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	ImportSync struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
		Path     string // Export directory re-imported on schedule
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("database_driver", string(DatabaseDriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")

	v.SetDefault("import_log_path", DefaultLogPath)
	v.SetDefault("import_report_path", DefaultReportPath)
	v.SetDefault("import_owner_id", DefaultOwnerID)
	v.SetDefault("import_run_retention_days", 30)

	v.SetDefault("import_asset_backend", string(AssetBackendLocal))
	v.SetDefault("import_asset_dir", DefaultAssetDir)
	v.SetDefault("import_asset_bucket", "")
	v.SetDefault("import_public_asset_prefix", DefaultPublicAssetPrefix)

	v.SetDefault("log_mode", "development")

	// Task queue defaults. Imports are serialized, so there is no worker count.
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_timeout", "30m")
	v.SetDefault("task_release_after", "1h")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("import_sync_enabled", false)
	v.SetDefault("import_sync_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("import_sync_path", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver: DatabaseDriver(v.GetString("DATABASE_DRIVER")),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Import: Import{
			LogPath:       v.GetString("IMPORT_LOG_PATH"),
			ReportPath:    v.GetString("IMPORT_REPORT_PATH"),
			OwnerID:       v.GetString("IMPORT_OWNER_ID"),
			RetentionDays: v.GetInt("IMPORT_RUN_RETENTION_DAYS"),
		},
		Assets: Assets{
			Backend:      AssetBackend(v.GetString("IMPORT_ASSET_BACKEND")),
			Dir:          v.GetString("IMPORT_ASSET_DIR"),
			Bucket:       v.GetString("IMPORT_ASSET_BUCKET"),
			PublicPrefix: v.GetString("IMPORT_PUBLIC_ASSET_PREFIX"),
		},
		Log: Log{
			Mode: v.GetString("LOG_MODE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			TaskTimeout:     v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		ImportSync: ImportSync{
			Enabled:  v.GetBool("IMPORT_SYNC_ENABLED"),
			Schedule: v.GetString("IMPORT_SYNC_SCHEDULE"),
			Path:     v.GetString("IMPORT_SYNC_PATH"),
		},
	}
}
