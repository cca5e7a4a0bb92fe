package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths lists config files from highest to lowest priority
var ConfigPaths = []string{
	"./.legalease.yaml",
	"~/.config/legalease/config.yaml",
	"/etc/legalease/config.yaml",
}

// EnvPrefix prefixes every environment override
const EnvPrefix = "LEGALEASE_"

// Loader merges defaults, config files and environment overrides
type Loader struct {
	configPaths []string
	getenv      func(string) string
}

// NewLoader creates a loader over ConfigPaths and the process environment
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		getenv:      os.Getenv,
	}
}

// LoadConfig builds the configuration. Later sources win:
// built-in defaults, /etc, ~/.config, ./.legalease.yaml, LEGALEASE_* env.
// A customPath replaces the file search entirely.
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			path := expandPath(l.configPaths[i])
			if !fileExists(path) {
				continue
			}
			if err := l.loadFromFile(config, path); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", path, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile decodes path on top of config; keys absent from the file
// keep their current values
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		"API_BASE_URL": func(v string) error { config.API.BaseURL = v; return nil },
		"API_TIMEOUT":  func(v string) error { return parseDuration(v, &config.API.Timeout) },
		"API_TOKEN":    func(v string) error { config.API.Token = v; return nil },

		"INFERENCE_BASE_URL": func(v string) error { config.Inference.BaseURL = v; return nil },
		"INFERENCE_TIMEOUT":  func(v string) error { return parseDuration(v, &config.Inference.Timeout) },

		"STORAGE_DRIVER": func(v string) error { config.Storage.Driver = v; return nil },
		"STORAGE_PATH":   func(v string) error { config.Storage.Path = v; return nil },

		"UPLOAD_SHOW_PROGRESS": func(v string) error { return parseBool(v, &config.Upload.ShowProgress) },
		"UPLOAD_STEP_DELAY":    func(v string) error { return parseDuration(v, &config.Upload.StepDelay) },

		"CHAT_LOAD_HISTORY": func(v string) error { return parseBool(v, &config.Chat.LoadHistory) },
		"CHAT_TRACK_EVENTS": func(v string) error { return parseBool(v, &config.Chat.TrackEvents) },

		"OUTPUT_DEFAULT_FORMAT":   func(v string) error { config.Output.DefaultFormat = v; return nil },
		"OUTPUT_COLOR_MODE":       func(v string) error { config.Output.ColorMode = v; return nil },
		"OUTPUT_TIMESTAMP_FORMAT": func(v string) error { config.Output.TimestampFormat = v; return nil },
		"OUTPUT_VERBOSE":          func(v string) error { return parseBool(v, &config.Output.Verbose) },

		"UI_THEME":       func(v string) error { config.UI.Theme = v; return nil },
		"UI_DEFAULT_TAB": func(v string) error { config.UI.DefaultTab = v; return nil },
		"UI_INDUSTRY":    func(v string) error { config.UI.Industry = v; return nil },
		"UI_CHART_WIDTH": func(v string) error { return parseInt(v, &config.UI.ChartWidth) },

		"WATCH_DIRECTORY": func(v string) error { config.Watch.Directory = v; return nil },
		"WATCH_DEBOUNCE":  func(v string) error { return parseDuration(v, &config.Watch.Debounce) },

		"METRICS_ENABLED": func(v string) error { return parseBool(v, &config.Metrics.Enabled) },
		"METRICS_ADDR":    func(v string) error { config.Metrics.Addr = v; return nil },
	}

	for suffix, setter := range envMappings {
		envVar := EnvPrefix + suffix
		if value := strings.TrimSpace(l.getenv(envVar)); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}
	return nil
}

// GetConfigPaths returns the expanded search paths
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile returns the highest-priority config file that exists
func FindConfigFile() (string, bool) {
	for _, path := range GetConfigPaths() {
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

// Save writes cfg as YAML to path, creating parent directories
func Save(cfg *Config, path string) error {
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~/ to the user's home directory
func ExpandPath(path string) string {
	return expandPath(path)
}

func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	for _, prefix := range []string{"/etc/passwd", "/etc/shadow", "/proc/", "/sys/"} {
		if strings.HasPrefix(absPath, prefix) {
			return fmt.Errorf("access to system files not allowed")
		}
	}
	return nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
