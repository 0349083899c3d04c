package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string `yaml:"databaseURL" validate:"required"`
	// SessionID is the default board session the CLI operates on. Any
	// command can override it with --session.
	SessionID string `yaml:"sessionID,omitempty"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel,omitempty" validate:"omitempty,oneof=debug info warn error"`

	// DefaultOptions seed the pick lists offered when a shift starts
	// without explicit options.
	DefaultOptions OptionDefaults `yaml:"defaultOptions,omitempty"`
}

// OptionDefaults holds the pick-list values loaded into a fresh shift.
type OptionDefaults struct {
	Locations []string `yaml:"locations,omitempty"`
	Entities  []string `yaml:"entities,omitempty"`
	Reasons   []string `yaml:"reasons,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from johanniter_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if len(cfg.DefaultOptions.Locations) == 0 {
		cfg.DefaultOptions.Locations = []string{"BHP", "Bühne", "Haupteingang"}
	}
	if len(cfg.DefaultOptions.Entities) == 0 {
		cfg.DefaultOptions.Entities = []string{"Besucher", "Security", "Polizei", "Eigenfeststellung"}
	}
	if len(cfg.DefaultOptions.Reasons) == 0 {
		cfg.DefaultOptions.Reasons = []string{"Internistisch", "Chirurgisch", "Kreislauf", "Intoxikation"}
	}
}

// findConfigFile searches for johanniter_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "johanniter_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
