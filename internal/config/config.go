package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultMDStatPath = "/proc/mdstat"

// Config holds the application configuration
type Config struct {
	Port            string
	MetricsPath     string
	CollectInterval time.Duration
	LogLevel        string
	MDStatPath      string
	MdadmEnrich     bool
	MCPEnabled      bool
	MCPPath         string
}

// fileConfig mirrors Config as it appears in a YAML file. Durations are
// strings so that bare seconds are accepted there as well.
type fileConfig struct {
	Port            *string `yaml:"port"`
	MetricsPath     *string `yaml:"metrics_path"`
	CollectInterval *string `yaml:"collect_interval"`
	LogLevel        *string `yaml:"log_level"`
	MDStatPath      *string `yaml:"mdstat_path"`
	MdadmEnrich     *bool   `yaml:"mdadm_enrich"`
	MCP             *struct {
		Enabled *bool   `yaml:"enabled"`
		Path    *string `yaml:"path"`
	} `yaml:"mcp"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:            "9100",
		MetricsPath:     "/metrics",
		CollectInterval: 30 * time.Second,
		LogLevel:        "info",
		MDStatPath:      defaultMDStatPath,
		MCPEnabled:      true,
		MCPPath:         "/mcp",
	}
}

// New creates a new configuration from defaults and environment variables
func New() *Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setString(&c.Port, fc.Port)
	setString(&c.MetricsPath, fc.MetricsPath)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.MDStatPath, fc.MDStatPath)
	if fc.CollectInterval != nil {
		d, err := parseDuration(*fc.CollectInterval)
		if err != nil {
			return fmt.Errorf("config file %s: collect_interval: %w", path, err)
		}
		c.CollectInterval = d
	}
	if fc.MdadmEnrich != nil {
		c.MdadmEnrich = *fc.MdadmEnrich
	}
	if fc.MCP != nil {
		if fc.MCP.Enabled != nil {
			c.MCPEnabled = *fc.MCP.Enabled
		}
		setString(&c.MCPPath, fc.MCP.Path)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.MetricsPath = getEnv("METRICS_PATH", c.MetricsPath)
	c.CollectInterval = getEnvDuration("COLLECT_INTERVAL", c.CollectInterval)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.MDStatPath = getEnv("MDSTAT_PATH", c.MDStatPath)
	c.MdadmEnrich = getEnvBool("MDADM_ENRICH", c.MdadmEnrich)
	c.MCPEnabled = getEnvBool("MCP_ENABLED", c.MCPEnabled)
}

// Validate reports settings the exporter cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port must not be empty"))
	} else if _, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("port %q is not a number", c.Port))
	}
	if !strings.HasPrefix(c.MetricsPath, "/") {
		errs = append(errs, fmt.Errorf("metrics path %q must start with /", c.MetricsPath))
	}
	if c.MCPEnabled && !strings.HasPrefix(c.MCPPath, "/") {
		errs = append(errs, fmt.Errorf("mcp path %q must start with /", c.MCPPath))
	}
	if c.CollectInterval <= 0 {
		errs = append(errs, fmt.Errorf("collect interval %s must be positive", c.CollectInterval))
	}
	if c.MDStatPath == "" {
		errs = append(errs, errors.New("mdstat path must not be empty"))
	}
	return errors.Join(errs...)
}

func setString(dst *string, src *string) {
	if src != nil && *src != "" {
		*dst = *src
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := parseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// parseDuration accepts Go duration syntax or a bare number of seconds.
func parseDuration(value string) (time.Duration, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	return time.Duration(seconds) * time.Second, nil
}
