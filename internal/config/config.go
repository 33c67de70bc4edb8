package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Record store
	DataBackend  string
	SQLiteDBPath string
	SeedFile     string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets mirror
	GoogleSpreadsheetID   string
	GoogleSheetName       string
	GoogleCredentialsFile string
	GoogleCredentialsJSON string

	// Worker
	SyncBatchSize int
	SyncInterval  time.Duration

	// Reports
	LedgerCalendar string
	ReportCacheTTL time.Duration

	// Line-item assistant
	AssistantProvider string
	GeminiAPIKey      string
	GeminiModel       string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string

	LogLevel string
}

var (
	validBackends  = []string{"memory", "sqlite"}
	validCalendars = []string{"jalali", "gregorian"}
	validProviders = []string{"none", "gemini", "openai"}
	validLogLevels = []string{"debug", "info", "warn", "warning", "error"}
)

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/taxiledger.db"),
		SeedFile:     getEnv("SEED_FILE", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "taxiledger"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_mirror"),

		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:       getEnv("GOOGLE_SHEET_NAME", "Expenses"),
		GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),

		SyncBatchSize: getEnvInt("SYNC_BATCH_SIZE", 10),
		SyncInterval:  getEnvDuration("SYNC_INTERVAL", 15*time.Minute),

		LedgerCalendar: strings.ToLower(getEnv("LEDGER_CALENDAR", "jalali")),
		ReportCacheTTL: getEnvDuration("REPORT_CACHE_TTL", 5*time.Minute),

		AssistantProvider: strings.ToLower(getEnv("ASSISTANT_PROVIDER", "none")),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
}

// MirrorEnabled reports whether expenses should be copied to a spreadsheet.
func (c *Config) MirrorEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}
	if c.SeedFile != "" {
		if _, err := os.Stat(c.SeedFile); err != nil {
			errs = append(errs, fmt.Sprintf("seed file '%s' is not readable: %v", c.SeedFile, err))
		}
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.MirrorEnabled() {
		if c.GoogleSheetName == "" {
			errs = append(errs, "Google Sheet name is required when a spreadsheet ID is set")
		}
		if c.GoogleCredentialsFile == "" && c.GoogleCredentialsJSON == "" {
			errs = append(errs, "either GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS_JSON must be provided for the sheets mirror")
		}
		if c.GoogleCredentialsFile != "" {
			if _, err := os.Stat(c.GoogleCredentialsFile); os.IsNotExist(err) {
				errs = append(errs, fmt.Sprintf("Google credentials file does not exist: %s", c.GoogleCredentialsFile))
			}
		}
	}

	if c.SyncBatchSize < 1 || c.SyncBatchSize > 1000 {
		errs = append(errs, fmt.Sprintf("invalid sync batch size %d: must be between 1 and 1000", c.SyncBatchSize))
	}
	if c.SyncInterval < time.Second || c.SyncInterval > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid sync interval %v: must be between 1s and 24h", c.SyncInterval))
	}

	if !slices.Contains(validCalendars, c.LedgerCalendar) {
		errs = append(errs, fmt.Sprintf("invalid ledger calendar '%s': must be one of %v", c.LedgerCalendar, validCalendars))
	}
	if c.ReportCacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("invalid report cache TTL %v: must not be negative", c.ReportCacheTTL))
	}

	if !slices.Contains(validProviders, c.AssistantProvider) {
		errs = append(errs, fmt.Sprintf("invalid assistant provider '%s': must be one of %v", c.AssistantProvider, validProviders))
	}
	if c.AssistantProvider == "gemini" && c.GeminiAPIKey == "" {
		errs = append(errs, "GEMINI_API_KEY is required when ASSISTANT_PROVIDER is gemini")
	}
	if c.AssistantProvider == "openai" && c.OpenAIAPIKey == "" {
		errs = append(errs, "OPENAI_API_KEY is required when ASSISTANT_PROVIDER is openai")
	}

	if !slices.Contains(validLogLevels, c.LogLevel) {
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
