package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the stellarsearch API configuration.
type Config struct {
	Env       string          `yaml:"env"`
	HTTP      HTTPConfig      `yaml:"http"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Events    EventsConfig    `yaml:"events"`
	Parser    ParserConfig    `yaml:"parser"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Cache     CacheConfig     `yaml:"cache"`
	History   HistoryConfig   `yaml:"history"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CatalogConfig holds the feature catalog settings.
type CatalogConfig struct {
	Path string `yaml:"path"` // sqlite database file
}

// EventsConfig holds the live event feed settings.
type EventsConfig struct {
	BaseURL      string `yaml:"base_url"`
	TimeoutSec   int    `yaml:"timeout_sec"`
	DefaultDays  int    `yaml:"default_days"`
	DefaultLimit int    `yaml:"default_limit"`
	Status       string `yaml:"status"` // open, closed, all
}

// ParserConfig holds the query parser settings.
type ParserConfig struct {
	Mode       string `yaml:"mode"` // deterministic, remote
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec"`
	MaxTokens  int    `yaml:"max_tokens"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // local, openai
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	Dimensions int    `yaml:"dimensions"`
}

// CacheConfig holds result and embedding cache settings.
type CacheConfig struct {
	ResultTTLSec    int      `yaml:"result_ttl_sec"`
	ResultCapacity  int      `yaml:"result_capacity"`
	RedisAddrs      []string `yaml:"redis_addrs"` // empty = embedding cache disabled
	RedisPassword   string   `yaml:"redis_password"`
	EmbeddingTTLSec int      `yaml:"embedding_ttl_sec"`
}

// HistoryConfig holds search history settings.
type HistoryConfig struct {
	Disabled      bool `yaml:"disabled"`
	RetentionDays int  `yaml:"retention_days"`
}

// AuthConfig controls optional bearer-token protection of the API.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"` // empty = open access
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Env == "" {
		cfg.Env = env
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = filepath.Join("data", "stellarsearch.db")
	}
	if c.Events.BaseURL == "" {
		c.Events.BaseURL = "https://eonet.gsfc.nasa.gov/api/v3"
	}
	if c.Events.TimeoutSec <= 0 {
		c.Events.TimeoutSec = 30
	}
	if c.Events.DefaultDays <= 0 {
		c.Events.DefaultDays = 30
	}
	if c.Events.DefaultLimit <= 0 {
		c.Events.DefaultLimit = 10
	}
	if c.Events.Status == "" {
		// The feed treats an absent status as open; listings want history too.
		c.Events.Status = "all"
	}
	if c.Parser.Mode == "" {
		c.Parser.Mode = "deterministic"
	}
	if c.Parser.TimeoutSec <= 0 {
		c.Parser.TimeoutSec = 10
	}
	if c.Parser.MaxTokens <= 0 {
		c.Parser.MaxTokens = 200
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "local"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 384
	}
	if c.Cache.ResultTTLSec <= 0 {
		c.Cache.ResultTTLSec = 300
	}
	if c.Cache.ResultCapacity <= 0 {
		c.Cache.ResultCapacity = 100
	}
	if c.Cache.EmbeddingTTLSec <= 0 {
		c.Cache.EmbeddingTTLSec = 86400
	}
	if c.History.RetentionDays <= 0 {
		c.History.RetentionDays = 90
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	switch c.Events.Status {
	case "open", "closed", "all":
	default:
		return fmt.Errorf("events.status must be \"open\", \"closed\" or \"all\", got %q", c.Events.Status)
	}
	switch c.Parser.Mode {
	case "deterministic":
	case "remote":
		if c.Parser.BaseURL == "" {
			return fmt.Errorf("parser.base_url is required when parser.mode is \"remote\"")
		}
		if c.Parser.Model == "" {
			return fmt.Errorf("parser.model is required when parser.mode is \"remote\"")
		}
	default:
		return fmt.Errorf("parser.mode must be \"deterministic\" or \"remote\", got %q", c.Parser.Mode)
	}
	switch c.Embedding.Provider {
	case "local":
	case "openai":
		if c.Embedding.Model == "" {
			return fmt.Errorf("embedding.model is required when embedding.provider is \"openai\"")
		}
	default:
		return fmt.Errorf("embedding.provider must be \"local\" or \"openai\", got %q", c.Embedding.Provider)
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	// 1. Explicit override
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	filename := fmt.Sprintf("%s.yaml", env)

	// 2. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 3. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 4. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
