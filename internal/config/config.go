package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Log
		OpenLibrary
		Tasks
		Enrichment
	}

	HTTP struct {
		Port               int32
		Host               string
		CORSAllowedOrigins []string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Log struct {
		Level  string // debug, info, warn, error
		Format string // json or console
	}
	OpenLibrary struct {
		BaseURL         string
		Timeout         time.Duration
		RequestInterval time.Duration // Minimum delay between requests
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Enrichment struct {
		OnAdd           bool   // Enqueue enrichment when a book is added
		ScheduleEnabled bool   // Periodically enrich books missing metadata
		Schedule        string // Cron format: "0 */6 * * *" = every 6 hours
	}
)

// EnvFiles are read by NewConfig when present. Variables already set in
// the environment win over the files.
var EnvFiles = []string{".env", ".env.local"}

// NewConfig reads configuration from the environment.
func NewConfig() *Config {
	loadEnvFiles(EnvFiles...)
	return newConfig(viper.New())
}

func loadEnvFiles(paths ...string) {
	for _, p := range paths {
		// A missing file is normal outside development.
		_ = godotenv.Load(p)
	}
}

func newConfig(v *viper.Viper) *Config {
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	// OpenLibrary asks for at most one request per second
	v.SetDefault("openlibrary_base_url", DefaultOpenLibraryBaseURL)
	v.SetDefault("openlibrary_timeout", "10s")
	v.SetDefault("openlibrary_request_interval", "1s")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	v.SetDefault("enrich_on_add", true)
	v.SetDefault("enrich_schedule_enabled", false)
	v.SetDefault("enrich_schedule", "0 */6 * * *")

	return &Config{
		HTTP: HTTP{
			Port:               v.GetInt32("PORT"),
			Host:               v.GetString("HOST"),
			CORSAllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		OpenLibrary: OpenLibrary{
			BaseURL:         v.GetString("OPENLIBRARY_BASE_URL"),
			Timeout:         v.GetDuration("OPENLIBRARY_TIMEOUT"),
			RequestInterval: v.GetDuration("OPENLIBRARY_REQUEST_INTERVAL"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Enrichment: Enrichment{
			OnAdd:           v.GetBool("ENRICH_ON_ADD"),
			ScheduleEnabled: v.GetBool("ENRICH_SCHEDULE_ENABLED"),
			Schedule:        v.GetString("ENRICH_SCHEDULE"),
		},
	}
}
