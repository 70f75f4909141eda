package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config carries everything the service needs at construction time. It is
// loaded once in main and passed down explicitly; no package reads the
// environment on its own.
type Config struct {
	Port string

	// UploadDir holds uploaded statements while a batch is being processed.
	// Files are removed again on both success and failure paths.
	UploadDir         string
	AllowedExtensions []string

	// Classification / insight collaborator (Gemini).
	GeminiAPIKey    string
	GeminiModel     string
	ClassifyTimeout time.Duration

	// Transactions whose absolute amount exceeds this threshold (Income
	// excluded) are surfaced as high-ticket items in the insights.
	HighTicketThreshold decimal.Decimal

	// Optional archive sink. Archival stays disabled while Bucket or
	// Project is empty.
	ArchiveBucket   string
	ArchiveProject  string
	ArchiveDataset  string
	CredentialsFile string
}

// DefaultModel is the Gemini model used when GEMINI_MODEL is not set.
const DefaultModel = "gemini-2.5-flash"

// Load reads configuration from the environment, honoring a .env file in the
// working directory when present.
func Load() *Config {
	// Missing .env is fine; env vars alone are a valid configuration.
	_ = godotenv.Load()

	return &Config{
		Port:                getEnv("PORT", "8080"),
		UploadDir:           getEnv("UPLOAD_DIR", "uploads"),
		AllowedExtensions:   []string{".csv", ".xlsx", ".xls", ".pdf"},
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         getEnv("GEMINI_MODEL", DefaultModel),
		ClassifyTimeout:     getDurationEnv("CLASSIFY_TIMEOUT", 20*time.Second),
		HighTicketThreshold: getDecimalEnv("HIGH_TICKET_THRESHOLD", decimal.NewFromInt(500)),
		ArchiveBucket:       os.Getenv("ARCHIVE_BUCKET"),
		ArchiveProject:      os.Getenv("ARCHIVE_PROJECT"),
		ArchiveDataset:      getEnv("ARCHIVE_DATASET", "spendlens"),
		CredentialsFile:     os.Getenv("GOOGLE_CREDENTIALS_FILE"),
	}
}

// ExtensionAllowed reports whether a file extension (including the leading
// dot, any case) is accepted for upload.
func (c *Config) ExtensionAllowed(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range c.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ArchiveEnabled reports whether the optional archive sink is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.ArchiveBucket != "" && c.ArchiveProject != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getDecimalEnv(key string, fallback decimal.Decimal) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return fallback
	}
	return d
}
