package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Record source kinds selectable through RECORD_SOURCE.
const (
	SourceREST   = "rest"
	SourceSheets = "sheets"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Source    SourceConfig
	FarmAPI   FarmAPIConfig
	Sheets    SheetsConfig
	MongoDB   MongoDBConfig
	Reporting ReportingConfig
	Defaults  DefaultsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// SourceConfig selects where herd records are fetched from.
type SourceConfig struct {
	Kind string
}

// FarmAPIConfig contains credentials and options for the farm REST API.
type FarmAPIConfig struct {
	BaseURL string
	Token   string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// MongoDBConfig holds settings for MongoDB. An empty URI disables Mongo and
// preferences fall back to the local file backend.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// DefaultsConfig seeds the preference store before any stored snapshot is
// merged in.
type DefaultsConfig struct {
	Language   string
	Currency   string
	DateFormat string
	Theme      string
	PrefsFile  string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Source: SourceConfig{
			Kind: getenvWithDefault("RECORD_SOURCE", SourceREST),
		},
		FarmAPI: FarmAPIConfig{
			BaseURL: os.Getenv("FARM_API_BASE_URL"),
			Token:   os.Getenv("FARM_API_TOKEN"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "herdboard"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 6 * * 1"),
			Timezone:     getenvWithDefault("TIMEZONE", "Europe/Berlin"),
		},
		Defaults: DefaultsConfig{
			Language:   getenvWithDefault("DEFAULT_LANGUAGE", "en"),
			Currency:   getenvWithDefault("DEFAULT_CURRENCY", "EUR"),
			DateFormat: getenvWithDefault("DEFAULT_DATE_FORMAT", "locale"),
			Theme:      getenvWithDefault("DEFAULT_THEME", "auto"),
			PrefsFile:  getenvWithDefault("PREFS_FILE", "preferences.json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Source.Kind {
	case SourceREST:
		if c.FarmAPI.BaseURL == "" {
			return errors.New("FARM_API_BASE_URL must be provided for the rest record source")
		}
	case SourceSheets:
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided for the sheets record source")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided for the sheets record source")
		}
	default:
		return fmt.Errorf("RECORD_SOURCE must be %q or %q", SourceREST, SourceSheets)
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	switch c.Defaults.Theme {
	case "light", "dark", "auto":
	default:
		return fmt.Errorf("DEFAULT_THEME must be light, dark or auto, got %q", c.Defaults.Theme)
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
