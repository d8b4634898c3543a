// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir              string // Base directory for the snapshot database (always absolute)
	PortfolioCSV         string // Path to the exported portfolio CSV
	GoogleCalendarToken  string // OAuth bearer token for Google Calendar sync
	LogLevel             string
	Port                 int
	DevMode              bool
	SnapshotSchedule     string // Cron schedule for the daily snapshot job
	CalendarSyncSchedule string // Cron schedule for the calendar refresh job
	SnapshotKeep         int    // Number of snapshots retained after pruning
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory with fallback logic
	// 1. Check OPTIONSENTRY_DATA_DIR environment variable
	// 2. If not set, default to ./data
	// 3. Always resolve to absolute path
	// 4. Ensure directory exists
	dataDir := getEnv("OPTIONSENTRY_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:              absDataDir,
		PortfolioCSV:         getEnv("PORTFOLIO_CSV", "portfolio.csv"),
		GoogleCalendarToken:  getEnv("GOOGLE_CALENDAR_TOKEN", ""),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		Port:                 getEnvAsInt("PORT", 8000),
		DevMode:              getEnvAsBool("DEV_MODE", false),
		SnapshotSchedule:     getEnv("SNAPSHOT_SCHEDULE", "0 18 * * MON-FRI"),
		CalendarSyncSchedule: getEnv("CALENDAR_SYNC_SCHEDULE", "30 18 * * MON-FRI"),
		SnapshotKeep:         getEnvAsInt("SNAPSHOT_KEEP", 365),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.SnapshotKeep < 1 {
		return fmt.Errorf("SNAPSHOT_KEEP must be at least 1, got %d", c.SnapshotKeep)
	}

	// Note: the Google Calendar token is optional. Without it the calendar
	// sync job is not scheduled and the CLI command reports an error.
	return nil
}

// SnapshotDBPath returns the path of the snapshot SQLite database
func (c *Config) SnapshotDBPath() string {
	return filepath.Join(c.DataDir, "snapshots.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
