package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgallion1/steelbid/internal/estimate"
)

const (
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Extraction backend
	ExtractProvider  string
	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string
	GeminiAPIKey     string
	GeminiModel      string

	// Worker pool
	WorkerCount          int
	MaxQueueSize         int
	MaxConcurrentExtract int

	// Upload limits
	MaxUploadBytes int64

	// Batching
	BatchMaxChars    int
	BatchMaxSheets   int
	TextModeMinChars int

	// Job state
	JobTTL          time.Duration
	CleanupSchedule string

	// PDF
	PDFFallbackPdftotext bool

	// Storage; empty DatabaseURL keeps settings and estimates in memory.
	DatabaseURL string

	// Drawing archive; empty ArchiveBucket disables it.
	ArchiveBucket          string
	ArchiveRegion          string
	ArchiveEndpoint        string
	ArchiveAccessKeyID     string
	ArchiveSecretAccessKey string

	CORSAllowedOrigins []string

	// Seed pricing for a fresh settings store.
	InitialSettings estimate.Settings
}

// LoadDotEnv reads .env files into the environment when present. Variables
// already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("STEELBID_API_KEY"),

		ExtractProvider:  strings.ToLower(envOr("EXTRACT_PROVIDER", ProviderClaude)),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:   envOr("ANTHROPIC_MODEL", "claude-opus-4-6"),
		AnthropicBaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      envOr("GEMINI_MODEL", "gemini-2.5-pro"),

		WorkerCount:          envInt("WORKER_COUNT", 2),
		MaxQueueSize:         envInt("MAX_QUEUE_SIZE", 50),
		MaxConcurrentExtract: envInt("MAX_CONCURRENT_EXTRACT", 3),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 150<<20),

		BatchMaxChars:    envInt("BATCH_MAX_CHARS", 80000),
		BatchMaxSheets:   envInt("BATCH_MAX_SHEETS", 5),
		TextModeMinChars: envInt("TEXT_MODE_MIN_CHARS", 100),

		JobTTL:          envDuration("JOB_TTL", 1*time.Hour),
		CleanupSchedule: envOr("CLEANUP_SCHEDULE", "@every 5m"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		ArchiveBucket:          os.Getenv("ARCHIVE_BUCKET"),
		ArchiveRegion:          envOr("ARCHIVE_REGION", "us-east-1"),
		ArchiveEndpoint:        os.Getenv("ARCHIVE_ENDPOINT"),
		ArchiveAccessKeyID:     os.Getenv("ARCHIVE_ACCESS_KEY_ID"),
		ArchiveSecretAccessKey: os.Getenv("ARCHIVE_SECRET_ACCESS_KEY"),

		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		InitialSettings: estimate.Settings{
			CompanyName:           envOr("COMPANY_NAME", estimate.DefaultCompanyName),
			MaterialRatePerLb:     envNumber("MATERIAL_RATE_PER_LB"),
			LaborRatePerHour:      envNumber("LABOR_RATE_PER_HOUR"),
			HoursPerTonStructural: envNumber("HOURS_PER_TON_STRUCTURAL"),
			HoursPerTonMisc:       envNumber("HOURS_PER_TON_MISC"),
			HoursPerTonPlate:      envNumber("HOURS_PER_TON_PLATE"),
			Markup:                envNumber("MARKUP_PCT"),
		},
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxConcurrentExtract <= 0 {
		cfg.MaxConcurrentExtract = 3
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 150 << 20
	}
	if cfg.BatchMaxChars <= 0 {
		cfg.BatchMaxChars = 80000
	}
	if cfg.BatchMaxSheets <= 0 {
		cfg.BatchMaxSheets = 5
	}
	if cfg.TextModeMinChars <= 0 {
		cfg.TextModeMinChars = 100
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("STEELBID_API_KEY is required")
	}
	switch c.ExtractProvider {
	case ProviderClaude:
		if c.AnthropicAPIKey == "" {
			return errors.New("ANTHROPIC_API_KEY is required")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required")
		}
	default:
		return fmt.Errorf("EXTRACT_PROVIDER must be %q or %q, got %q", ProviderClaude, ProviderGemini, c.ExtractProvider)
	}
	if c.ArchiveAccessKeyID != "" && c.ArchiveSecretAccessKey == "" {
		return errors.New("ARCHIVE_SECRET_ACCESS_KEY is required with ARCHIVE_ACCESS_KEY_ID")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// envNumber leaves the setting unset when the variable is missing or negative.
func envNumber(key string) estimate.Number {
	return estimate.N(envFloat(key, -1))
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList reads a comma-separated list.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
