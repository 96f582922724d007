package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendWebApp = "webapp"
	BackendSheets = "sheets"

	CacheFile     = "file"
	CachePostgres = "postgres"

	EnvGeminiAPIKey     = "GEMINI_API_KEY"
	EnvCacheDatabaseURL = "CACHE_DATABASE_URL"
)

// SyncConfig controls how often and how patiently the remote store is read
type SyncConfig struct {
	PollInterval   time.Duration `yaml:"pollInterval" validate:"min=15s,max=30s"`
	ReconcileDelay time.Duration `yaml:"reconcileDelay" validate:"min=0,max=1m"`
	FetchTimeout   time.Duration `yaml:"fetchTimeout" validate:"min=1s"`
}

// CacheConfig selects where the last known snapshot is kept
type CacheConfig struct {
	Driver string `yaml:"driver" validate:"oneof=file postgres"`
	Path   string `yaml:"path,omitempty"`
	// Read from CACHE_DATABASE_URL
	DatabaseURL string `yaml:"-" validate:"required_if=Driver postgres"`
}

// Config represents the application configuration
type Config struct {
	Backend         string      `yaml:"backend" validate:"required,oneof=webapp sheets"`
	WebAppURL       string      `yaml:"webAppURL,omitempty" validate:"required_if=Backend webapp"`
	DatabaseSheetID string      `yaml:"databaseSheetID,omitempty" validate:"required_if=Backend sheets"`
	ShareBaseURL    string      `yaml:"shareBaseURL,omitempty" validate:"omitempty,url"`
	SummaryModel    string      `yaml:"summaryModel,omitempty"`
	Sync            SyncConfig  `yaml:"sync"`
	Cache           CacheConfig `yaml:"cache"`
	// Completion requires a proposed day and time
	RequireProposedSlot bool `yaml:"requireProposedSlot"`

	// Read from GEMINI_API_KEY; summaries are unavailable without it
	GeminiAPIKey string `yaml:"-"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from consult_hub_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads consult_hub_config.<env>.yaml (or consult_hub_config.yaml when env is empty)
// and reads secrets from the environment, after loading a .env file if one exists
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	if err := loadDotEnv(env); err != nil {
		return nil, err
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

	cfg.GeminiAPIKey = os.Getenv(EnvGeminiAPIKey)
	cfg.Cache.DatabaseURL = os.Getenv(EnvCacheDatabaseURL)
	cfg.ApplyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills unset optional values
func (c *Config) ApplyDefaults() {
	if c.Sync.PollInterval == 0 {
		c.Sync.PollInterval = 20 * time.Second
	}
	if c.Sync.ReconcileDelay == 0 {
		c.Sync.ReconcileDelay = 3 * time.Second
	}
	if c.Sync.FetchTimeout == 0 {
		c.Sync.FetchTimeout = 30 * time.Second
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheFile
	}
}

// Validate validates the configuration struct and checks the web app endpoint
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.WebAppURL != "" {
		u, err := url.Parse(cfg.WebAppURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid webAppURL %q: must be an http(s) URL", cfg.WebAppURL)
		}
	}

	return nil
}

// CachePath returns the snapshot file path for the file cache, defaulting to the home directory
func (c *Config) CachePath(env string) (string, error) {
	if c.Cache.Path != "" {
		return c.Cache.Path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	name := "store.json"
	if env != "" {
		name = "store." + env + ".json"
	}
	return filepath.Join(homeDir, ".consult-hub", name), nil
}

// loadDotEnv loads .env.<env> and .env from the current directory. Variables already
// set in the environment are not overridden, and missing files are skipped.
func loadDotEnv(env string) error {
	files := []string{".env"}
	if env != "" {
		files = append([]string{".env." + env}, files...)
	}

	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// findConfigFile searches for consult_hub_config.yaml, or consult_hub_config.<env>.yaml when
// env is set, in the current directory and then the home directory
func findConfigFile(env string) (string, error) {
	configFileName := "consult_hub_config.yaml"
	if env != "" {
		configFileName = "consult_hub_config." + env + ".yaml"
	}
	return findInSearchPath(configFileName)
}

func findInSearchPath(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
