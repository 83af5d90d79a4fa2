package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultDataFile is used when EXPENSES_FILE is not set.
const DefaultDataFile = "expenses.json"

var validLogLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}

type Config struct {
	// DataFile is the JSON file holding all expenses.
	DataFile string
	// LogLevel is a zerolog level name.
	LogLevel string
}

// LoadEnvFile loads a .env file from the working directory if one exists.
// Errors are ignored since the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		DataFile: getEnv("EXPENSES_FILE", DefaultDataFile),
		LogLevel: strings.ToLower(getEnv("EXPENSES_LOG_LEVEL", "warn")),
	}
}

// Validate returns an error listing every invalid setting.
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.DataFile) == "" {
		errors = append(errors, "data file path cannot be empty")
	}

	isValidLevel := false
	for _, lvl := range validLogLevels {
		if c.LogLevel == lvl {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
