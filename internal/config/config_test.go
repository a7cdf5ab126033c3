package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{"PORT", "METRICS_PATH", "COLLECT_INTERVAL", "LOG_LEVEL", "MDSTAT_PATH", "MDADM_ENRICH", "MCP_ENABLED"}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigDefaults(t *testing.T) {
	clearEnv(t)

	config := New()

	if config.Port != "9100" {
		t.Errorf("Expected default port 9100, got %s", config.Port)
	}

	if config.MetricsPath != "/metrics" {
		t.Errorf("Expected default metrics path /metrics, got %s", config.MetricsPath)
	}

	if config.CollectInterval != 30*time.Second {
		t.Errorf("Expected default collect interval 30s, got %v", config.CollectInterval)
	}

	if config.LogLevel != "info" {
		t.Errorf("Expected default log level info, got %s", config.LogLevel)
	}

	if config.MDStatPath != "/proc/mdstat" {
		t.Errorf("Expected default mdstat path /proc/mdstat, got %s", config.MDStatPath)
	}

	if config.MdadmEnrich {
		t.Error("Expected mdadm enrichment to be off by default")
	}

	if !config.MCPEnabled || config.MCPPath != "/mcp" {
		t.Errorf("Expected MCP enabled on /mcp, got %v on %s", config.MCPEnabled, config.MCPPath)
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7070")
	t.Setenv("METRICS_PATH", "/env-metrics")
	t.Setenv("COLLECT_INTERVAL", "90s")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("MDSTAT_PATH", "/tmp/mdstat")
	t.Setenv("MDADM_ENRICH", "true")
	t.Setenv("MCP_ENABLED", "false")

	config := New()

	if config.Port != "7070" {
		t.Errorf("Expected port 7070 from env, got %s", config.Port)
	}

	if config.MetricsPath != "/env-metrics" {
		t.Errorf("Expected metrics path /env-metrics from env, got %s", config.MetricsPath)
	}

	if config.CollectInterval != 90*time.Second {
		t.Errorf("Expected collect interval 90s from env, got %v", config.CollectInterval)
	}

	if config.LogLevel != "warn" {
		t.Errorf("Expected log level warn from env, got %s", config.LogLevel)
	}

	if config.MDStatPath != "/tmp/mdstat" {
		t.Errorf("Expected mdstat path /tmp/mdstat from env, got %s", config.MDStatPath)
	}

	if !config.MdadmEnrich {
		t.Error("Expected mdadm enrichment from env")
	}

	if config.MCPEnabled {
		t.Error("Expected MCP disabled from env")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
port: "9200"
metrics_path: /custom
collect_interval: 15
log_level: debug
mdstat_path: /srv/mdstat
mdadm_enrich: true
mcp:
  enabled: false
`)

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if config.Port != "9200" {
		t.Errorf("Expected port 9200 from file, got %s", config.Port)
	}
	if config.MetricsPath != "/custom" {
		t.Errorf("Expected metrics path /custom from file, got %s", config.MetricsPath)
	}
	if config.CollectInterval != 15*time.Second {
		t.Errorf("Expected collect interval 15s from file, got %v", config.CollectInterval)
	}
	if config.LogLevel != "debug" {
		t.Errorf("Expected log level debug from file, got %s", config.LogLevel)
	}
	if config.MDStatPath != "/srv/mdstat" {
		t.Errorf("Expected mdstat path /srv/mdstat from file, got %s", config.MDStatPath)
	}
	if !config.MdadmEnrich {
		t.Error("Expected mdadm enrichment from file")
	}
	if config.MCPEnabled {
		t.Error("Expected MCP disabled from file")
	}
	if config.MCPPath != "/mcp" {
		t.Errorf("Expected default MCP path to survive, got %s", config.MCPPath)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "5000")
	path := writeFile(t, "port: \"6000\"\nlog_level: error\n")

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if config.Port != "5000" {
		t.Errorf("Expected port 5000 from env (not 6000 from file), got %s", config.Port)
	}
	if config.LogLevel != "error" {
		t.Errorf("Expected log level error from file, got %s", config.LogLevel)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	testCases := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "port: [\n"},
		{"bad duration", "collect_interval: soon\n"},
		{"bad port", "port: http\n"},
		{"relative metrics path", "metrics_path: metrics\n"},
		{"zero interval", "collect_interval: 0s\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeFile(t, tc.content)); err == nil {
				t.Error("Expected an error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestLoadWithoutFile(t *testing.T) {
	clearEnv(t)

	config, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if config.Port != "9100" {
		t.Errorf("Expected default port 9100, got %s", config.Port)
	}
}

func TestGetEnvDuration(t *testing.T) {
	testCases := []struct {
		envValue string
		expected time.Duration
		name     string
	}{
		{"30s", 30 * time.Second, "duration string"},
		{"60", 60 * time.Second, "seconds as integer"},
		{"2m", 2 * time.Minute, "minutes"},
		{"1h", 1 * time.Hour, "hours"},
		{"invalid", 30 * time.Second, "invalid value falls back to default"},
		{"", 30 * time.Second, "empty value falls back to default"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tc.envValue)

			result := getEnvDuration("TEST_DURATION", 30*time.Second)
			if result != tc.expected {
				t.Errorf("Expected %v, got %v for input '%s'", tc.expected, result, tc.envValue)
			}
		})
	}
}
