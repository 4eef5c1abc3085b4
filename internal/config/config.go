package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/clinicshift/shift-scheduler/pkg/core/calendar"
	"github.com/clinicshift/shift-scheduler/pkg/db"
)

const (
	StorageBadger   = "badger"
	StoragePostgres = "postgres"
)

// Environment variables that override the config file
const (
	EnvDataDir     = "CLINIC_DATA_DIR"
	EnvPostgresURL = "CLINIC_POSTGRES_URL"
	EnvStorage     = "CLINIC_STORAGE"
)

// Config represents the application configuration
type Config struct {
	Storage         string   `yaml:"storage" validate:"oneof=badger postgres"`
	DataDir         string   `yaml:"dataDir"`
	PostgresURL     string   `yaml:"postgresURL" validate:"required_if=Storage postgres"`
	LogsDir         string   `yaml:"logsDir,omitempty"`
	RetentionDays   int      `yaml:"retentionDays" validate:"min=1"`
	HistoryCapacity int      `yaml:"historyCapacity" validate:"min=1,max=1000"`
	Closures        []string `yaml:"closures,omitempty" validate:"dive,required"`
	Collation       string   `yaml:"collation" validate:"required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// FileName returns the config file name for env
func FileName(env string) string {
	return fmt.Sprintf("clinic_config.%s.yaml", env)
}

// Load finds clinic_config.<env>.yaml, applies defaults and environment overrides and validates
func Load(env string) (*Config, error) {
	configPath, err := findConfigFile(FileName(env))
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

	if err := applyEnv(&cfg, filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv loads envFile when present and lets the process environment override the file
func applyEnv(cfg *Config, envFile string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if v := os.Getenv(EnvStorage); v != "" {
		cfg.Storage = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvPostgresURL); v != "" {
		cfg.PostgresURL = v
	}
	return nil
}

// ApplyDefaults fills every unset field
func (c *Config) ApplyDefaults() {
	if c.Storage == "" {
		c.Storage = StorageBadger
	}
	if c.DataDir == "" {
		c.DataDir = db.DefaultPath()
	}
	if c.LogsDir == "" {
		c.LogsDir = filepath.Join(xdg.StateHome, db.AppName, "logs")
	}
	if c.RetentionDays == 0 {
		c.RetentionDays = 90
	}
	if c.HistoryCapacity == 0 {
		c.HistoryCapacity = 50
	}
	if c.Collation == "" {
		c.Collation = "zh-TW"
	}
}

// Validate validates the configuration struct, the closure rrules and the collation tag
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, closure := range cfg.Closures {
		if _, err := rrule.StrToRRule(closure); err != nil {
			return fmt.Errorf("invalid rrule in closures[%d]: %w", i, err)
		}
	}

	if _, err := language.Parse(cfg.Collation); err != nil {
		return fmt.Errorf("invalid collation %q: %w", cfg.Collation, err)
	}

	return nil
}

// ClosureCalendar parses the closure rules into a date predicate
func (c *Config) ClosureCalendar() (*calendar.Closures, error) {
	return calendar.ParseClosures(c.Closures)
}

// Locale returns the collation tag, falling back to Traditional Chinese
func (c *Config) Locale() language.Tag {
	tag, err := language.Parse(c.Collation)
	if err != nil {
		return language.TraditionalChinese
	}
	return tag
}

// findConfigFile searches the current directory, the XDG config directory and the home directory
func findConfigFile(configFileName string) (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	xdgPath := filepath.Join(xdg.ConfigHome, db.AppName, configFileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory, %s or home directory", configFileName, filepath.Dir(xdgPath))
}
