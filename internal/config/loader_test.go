package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "legalease.yaml")
	content := `api:
  base_url: "https://legal.example.com"
  timeout: 45s
storage:
  driver: memory
output:
  default_format: json
ui:
  industry: finance
`
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}

	loader := &Loader{configPaths: nil, getenv: envFrom(nil)}
	cfg, err := loader.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.API.BaseURL != "https://legal.example.com" {
		t.Errorf("Expected base URL from file, got %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 45*time.Second {
		t.Errorf("Expected timeout 45s, got %v", cfg.API.Timeout)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("Expected memory driver, got %s", cfg.Storage.Driver)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected json output, got %s", cfg.Output.DefaultFormat)
	}
	if cfg.UI.Industry != "finance" {
		t.Errorf("Expected industry finance, got %s", cfg.UI.Industry)
	}
	// keys missing from the file keep their defaults
	if !cfg.Chat.LoadHistory {
		t.Error("Expected chat.load_history default to survive")
	}
	if cfg.UI.ChartWidth != 40 {
		t.Errorf("Expected default chart width 40, got %d", cfg.UI.ChartWidth)
	}
}

func TestLoadConfigSearchPathPriority(t *testing.T) {
	dir := t.TempDir()
	low := filepath.Join(dir, "system.yaml")
	high := filepath.Join(dir, "project.yaml")

	if err := os.WriteFile(low, []byte("ui:\n  industry: healthcare\n  theme: mono\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(high, []byte("ui:\n  industry: retail\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	loader := &Loader{configPaths: []string{high, low}, getenv: envFrom(nil)}
	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.UI.Industry != "retail" {
		t.Errorf("Expected higher-priority file to win, got %s", cfg.UI.Industry)
	}
	if cfg.UI.Theme != "mono" {
		t.Errorf("Expected lower-priority value to survive, got %s", cfg.UI.Theme)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	content := "api:\n  base_url: \"http://x\n"
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	loader := &Loader{getenv: envFrom(nil)}
	if _, err := loader.LoadConfig(configPath); err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigValidationFailure(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("storage:\n  driver: postgres\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	loader := &Loader{getenv: envFrom(nil)}
	_, err := loader.LoadConfig(configPath)
	if err == nil || !strings.Contains(err.Error(), "invalid storage driver") {
		t.Errorf("Expected storage driver validation error, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	loader := &Loader{getenv: envFrom(map[string]string{
		"LEGALEASE_API_BASE_URL":      "https://api.example.com",
		"LEGALEASE_API_TIMEOUT":       "5s",
		"LEGALEASE_API_TOKEN":         "tok",
		"LEGALEASE_UI_CHART_WIDTH":    "60",
		"LEGALEASE_CHAT_TRACK_EVENTS": "false",
		"LEGALEASE_METRICS_ENABLED":   "true",
	})}
	cfg := DefaultConfig()

	if err := loader.applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("Expected env base URL, got %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %v", cfg.API.Timeout)
	}
	if cfg.API.Token != "tok" {
		t.Errorf("Expected token from env, got %q", cfg.API.Token)
	}
	if cfg.UI.ChartWidth != 60 {
		t.Errorf("Expected chart width 60, got %d", cfg.UI.ChartWidth)
	}
	if cfg.Chat.TrackEvents {
		t.Error("Expected track_events false")
	}
	if !cfg.Metrics.Enabled {
		t.Error("Expected metrics enabled")
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "LEGALEASE_UI_CHART_WIDTH", "wide"},
		{"invalid bool", "LEGALEASE_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "LEGALEASE_API_TIMEOUT", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &Loader{getenv: envFrom(map[string]string{tt.envVar: tt.value})}
			if err := loader.applyEnvOverrides(DefaultConfig()); err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://saved.example.com"
	cfg.API.Timeout = 10 * time.Second

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := (&Loader{getenv: envFrom(nil)}).LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.API.BaseURL != cfg.API.BaseURL || loaded.API.Timeout != cfg.API.Timeout {
		t.Errorf("round trip mismatch: %+v", loaded.API)
	}
}

func TestParseHelpers(t *testing.T) {
	var d time.Duration
	if err := parseDuration("30s", &d); err != nil || d != 30*time.Second {
		t.Errorf("parseDuration() = %v, %v", d, err)
	}
	if err := parseDuration("invalid", &d); err == nil {
		t.Error("Expected error for invalid duration")
	}

	var n int
	if err := parseInt("42", &n); err != nil || n != 42 {
		t.Errorf("parseInt() = %d, %v", n, err)
	}

	var b bool
	if err := parseBool("true", &b); err != nil || !b {
		t.Errorf("parseBool() = %v, %v", b, err)
	}
	if err := parseBool("maybe", &b); err == nil {
		t.Error("Expected error for invalid bool")
	}
}

func TestFileExists(t *testing.T) {
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist")
	}

	tempFile := filepath.Join(t.TempDir(), "test-file")
	if err := os.WriteFile(tempFile, []byte("test"), 0o600); err != nil {
		t.Fatal(err)
	}
	if !fileExists(tempFile) {
		t.Error("Expected file to exist")
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{"valid yaml file", "config.yaml", false, ""},
		{"valid yml file", "config.yml", false, ""},
		{"path traversal attempt", "../../../etc/passwd", true, "path traversal not allowed"},
		{"non-yaml file", "config.txt", true, "config file must have .yaml or .yml extension"},
		{"system file access", "/etc/passwd.yaml", true, "access to system files not allowed"},
		{"proc filesystem access", "/proc/version.yaml", true, "access to system files not allowed"},
		{"relative path with valid extension", "./configs/app.yaml", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
