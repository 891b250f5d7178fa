package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"fleetboard/internal/sheets"
)

type Config struct {
	// HTTP Server
	Port           string
	AllowedOrigins []string
	AdminToken     string

	// Sheet source
	FetchBackend   string
	SpreadsheetID  string
	FixtureDir     string
	GIDOverrides   map[string]string
	TitleOverrides map[string]string

	// Snapshot persistence
	SnapshotDBPath string
	SnapshotKeep   int

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// User approval store
	MongoURI      string
	MongoDatabase string

	// Worker
	RefreshInterval time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "*")),
		AdminToken:     getEnv("ADMIN_TOKEN", ""),

		FetchBackend:   getEnv("FETCH_BACKEND", "csv"),
		SpreadsheetID:  getEnv("SPREADSHEET_ID", ""),
		FixtureDir:     getEnv("FIXTURE_DIR", "./testdata"),
		GIDOverrides:   gidOverridesFromEnv(),
		TitleOverrides: titleOverridesFromEnv(),

		SnapshotDBPath: getEnv("SNAPSHOT_DB_PATH", "./data/fleetboard.db"),
		SnapshotKeep:   getEnvInt("SNAPSHOT_KEEP", 30),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fleetboard"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "dataset_refresh"),

		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "fleetboard"),

		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 15*time.Minute),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"csv", "api", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.FetchBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid fetch backend '%s': must be one of %v", c.FetchBackend, validBackends))
	}

	if (c.FetchBackend == "csv" || c.FetchBackend == "api") && c.SpreadsheetID == "" {
		errors = append(errors, fmt.Sprintf("spreadsheet ID is required for the %s backend", c.FetchBackend))
	}
	if c.FetchBackend == "memory" && c.FixtureDir == "" {
		errors = append(errors, "fixture directory cannot be empty when using the memory backend")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.MongoURI != "" {
		if parsedURL, err := url.Parse(c.MongoURI); err != nil {
			errors = append(errors, fmt.Sprintf("invalid Mongo URI '%s': %v", c.MongoURI, err))
		} else if parsedURL.Scheme != "mongodb" && parsedURL.Scheme != "mongodb+srv" {
			errors = append(errors, fmt.Sprintf("invalid Mongo URI scheme '%s': must be 'mongodb' or 'mongodb+srv'", parsedURL.Scheme))
		}
		if c.MongoDatabase == "" {
			errors = append(errors, "Mongo database name cannot be empty when Mongo URI is provided")
		}
	}

	if c.SnapshotKeep < 1 {
		errors = append(errors, fmt.Sprintf("invalid snapshot keep %d: must be at least 1", c.SnapshotKeep))
	}

	if c.RefreshInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at least 1 minute", c.RefreshInterval))
	} else if c.RefreshInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at most 24 hours", c.RefreshInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// gidOverridesFromEnv collects SHEET_GID_<NAME> variables, one per
// registered sheet, e.g. SHEET_GID_FUELSTATION=480055462.
func gidOverridesFromEnv() map[string]string {
	overrides := make(map[string]string)
	for _, name := range sheets.Names() {
		key := "SHEET_GID_" + strings.ToUpper(name)
		if value := os.Getenv(key); value != "" {
			overrides[name] = value
		}
	}
	return overrides
}

// titleOverridesFromEnv collects SHEET_TITLE_<NAME> variables used by the
// Sheets API backend when tab titles differ from the canonical names.
func titleOverridesFromEnv() map[string]string {
	overrides := make(map[string]string)
	for _, name := range sheets.Names() {
		key := "SHEET_TITLE_" + strings.ToUpper(name)
		if value := os.Getenv(key); value != "" {
			overrides[name] = value
		}
	}
	return overrides
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
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
