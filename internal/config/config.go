package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Audit   AuditConfig   `yaml:"audit" envconfig:"AUDIT"`
}

// ServerConfig contains HTTP server configuration. No envconfig defaults
// here: a tag default would look like an explicit env value and shadow
// the config file in mergeConfigs. applyDefaults fills the gaps last.
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RunTimeout      time.Duration   `yaml:"run_timeout" envconfig:"RUN_TIMEOUT"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration. Limiting is off
// unless env or file enables it.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// AuditConfig contains defaults for the audit pipeline itself.
type AuditConfig struct {
	PlaceholderCarrier string            `yaml:"placeholder_carrier" envconfig:"PLACEHOLDER_CARRIER"`
	TopCarriers        int               `yaml:"top_carriers" envconfig:"TOP_CARRIERS"`
	TopPercent         int               `yaml:"top_percent" envconfig:"TOP_PERCENT"`
	WarehouseMap       map[string]string `yaml:"warehouse_map" envconfig:"WAREHOUSE_MAP"`
}

// Load loads configuration from environment variables and an optional
// YAML config file. Environment variables (prefix OTTA) take precedence.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("OTTA", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence,
// file fills the gaps envconfig left at zero values).
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Server.ReadTimeout == 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if envConfig.Server.WriteTimeout == 0 {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if envConfig.Server.IdleTimeout == 0 {
		envConfig.Server.IdleTimeout = fileConfig.Server.IdleTimeout
	}
	if envConfig.Server.ShutdownTimeout == 0 {
		envConfig.Server.ShutdownTimeout = fileConfig.Server.ShutdownTimeout
	}
	if envConfig.Server.RunTimeout == 0 {
		envConfig.Server.RunTimeout = fileConfig.Server.RunTimeout
	}
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.ReportsDir == "" {
		envConfig.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	if envConfig.Audit.PlaceholderCarrier == "" {
		envConfig.Audit.PlaceholderCarrier = fileConfig.Audit.PlaceholderCarrier
	}
	if envConfig.Audit.TopCarriers == 0 {
		envConfig.Audit.TopCarriers = fileConfig.Audit.TopCarriers
	}
	if envConfig.Audit.TopPercent == 0 {
		envConfig.Audit.TopPercent = fileConfig.Audit.TopPercent
	}
	if len(envConfig.Audit.WarehouseMap) == 0 {
		envConfig.Audit.WarehouseMap = fileConfig.Audit.WarehouseMap
	}
	if !envConfig.Server.RateLimit.Enabled {
		envConfig.Server.RateLimit.Enabled = fileConfig.Server.RateLimit.Enabled
	}
	if envConfig.Server.RateLimit.RPS == 0 {
		envConfig.Server.RateLimit.RPS = fileConfig.Server.RateLimit.RPS
	}
	if envConfig.Server.RateLimit.Burst == 0 {
		envConfig.Server.RateLimit.Burst = fileConfig.Server.RateLimit.Burst
	}
	return envConfig
}

// applyDefaults fills values neither env nor file provided.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = DefaultIdleTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Server.RateLimit.RPS == 0 {
		c.Server.RateLimit.RPS = DefaultRateLimit
	}
	if c.Server.RateLimit.Burst == 0 {
		c.Server.RateLimit.Burst = DefaultBurstSize
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = filepath.Join(DefaultLogsDir, "otta.log")
	}
	if c.Paths.DataDir == "" {
		c.Paths.DataDir = DefaultDataDir
	}
	if c.Paths.ReportsDir == "" {
		c.Paths.ReportsDir = DefaultReportsDir
	}
	if c.Paths.LogsDir == "" {
		c.Paths.LogsDir = DefaultLogsDir
	}
	if c.Audit.PlaceholderCarrier == "" {
		c.Audit.PlaceholderCarrier = PlaceholderCarrier
	}
	if c.Audit.TopCarriers == 0 {
		c.Audit.TopCarriers = DefaultTopCarriers
	}
	if c.Audit.TopPercent == 0 {
		c.Audit.TopPercent = DefaultTopPercent
	}
	if len(c.Audit.WarehouseMap) == 0 {
		c.Audit.WarehouseMap = DefaultWarehouseMap
	}
	if c.Server.RunTimeout == 0 {
		c.Server.RunTimeout = DefaultRunTimeout
	}
}

// validate checks configuration consistency
func (c *Config) validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Audit.TopCarriers < 1 {
		return fmt.Errorf("top_carriers must be at least 1, got %d", c.Audit.TopCarriers)
	}
	if c.Audit.TopPercent < 0 || c.Audit.TopPercent > 100 {
		return fmt.Errorf("top_percent must be in [0,100], got %d", c.Audit.TopPercent)
	}
	switch c.Logging.Output {
	case "", "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %s", c.Logging.Output)
	}
	return nil
}

// getConfigFilePath returns the config file location, next to the binary
// unless overridden by OTTA_CONFIG_FILE.
func getConfigFilePath() string {
	if path := os.Getenv("OTTA_CONFIG_FILE"); path != "" {
		return path
	}
	exe, err := os.Executable()
	if err != nil {
		return "otta.yaml"
	}
	return filepath.Join(filepath.Dir(exe), "otta.yaml")
}
