package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "CIRGEST"

type Config struct {
	Port string

	// Auth
	APIKey string

	LogLevel string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int
	BatchWorkers int

	// Upload limits
	MaxUploadBytes int64
	MaxFilesPerJob int

	// Extraction limits
	MaxTextBytes int
	MaxChunks    int

	// Job state
	JobTTL          time.Duration
	CleanupSchedule string

	// PDF
	PDFFallbackPdftotext bool

	// HTTP edge
	RateLimitRPS       float64
	RateLimitBurst     int
	CORSAllowedOrigins []string

	WorkbookName string
}

var defaults = map[string]any{
	"port":                   "8090",
	"log_level":              "info",
	"worker_count":           4,
	"max_queue_size":         100,
	"batch_workers":          4,
	"max_upload_bytes":       52428800, // 50MB
	"max_files_per_job":      20,
	"max_text_bytes":         8 << 20,
	"max_chunks":             0,
	"job_ttl":                time.Hour,
	"cleanup_schedule":       "@every 5m",
	"pdf_fallback_pdftotext": true,
	"rate_limit_rps":         10.0,
	"rate_limit_burst":       20,
	"cors_allowed_origins":   "",
	"workbook_name":          "All_Customers_Personal_Obligations.xlsx",
}

// Load reads an optional .env file, then CIRGEST_* environment variables.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return fromViper(newViper()), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

func fromViper(v *viper.Viper) Config {
	cfg := Config{
		Port:     v.GetString("port"),
		APIKey:   v.GetString("api_key"),
		LogLevel: strings.ToLower(v.GetString("log_level")),

		WorkerCount:  v.GetInt("worker_count"),
		MaxQueueSize: v.GetInt("max_queue_size"),
		BatchWorkers: v.GetInt("batch_workers"),

		MaxUploadBytes: v.GetInt64("max_upload_bytes"),
		MaxFilesPerJob: v.GetInt("max_files_per_job"),

		MaxTextBytes: v.GetInt("max_text_bytes"),
		MaxChunks:    v.GetInt("max_chunks"),

		JobTTL:          v.GetDuration("job_ttl"),
		CleanupSchedule: v.GetString("cleanup_schedule"),

		PDFFallbackPdftotext: v.GetBool("pdf_fallback_pdftotext"),

		RateLimitRPS:       v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:     v.GetInt("rate_limit_burst"),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),

		WorkbookName: v.GetString("workbook_name"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = 1
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxFilesPerJob <= 0 {
		cfg.MaxFilesPerJob = 20
	}
	if cfg.MaxTextBytes < 0 {
		cfg.MaxTextBytes = 0
	}
	if cfg.MaxChunks < 0 {
		cfg.MaxChunks = 0
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = time.Hour
	}
	if cfg.CleanupSchedule == "" {
		cfg.CleanupSchedule = "@every 5m"
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 1
	}
	if cfg.WorkbookName == "" {
		cfg.WorkbookName = "All_Customers_Personal_Obligations.xlsx"
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%s_API_KEY is required", EnvPrefix)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s_LOG_LEVEL must be debug, info, warn or error, got %q", EnvPrefix, c.LogLevel)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
