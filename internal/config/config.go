package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds the complete client configuration
type Config struct {
	Version   string          `yaml:"version" json:"version"`
	API       APIConfig       `yaml:"api" json:"api"`
	Inference InferenceConfig `yaml:"inference" json:"inference"`
	Storage   StorageConfig   `yaml:"storage" json:"storage"`
	Upload    UploadConfig    `yaml:"upload" json:"upload"`
	Chat      ChatConfig      `yaml:"chat" json:"chat"`
	Output    OutputConfig    `yaml:"output" json:"output"`
	UI        UIConfig        `yaml:"ui" json:"ui"`
	Watch     WatchConfig     `yaml:"watch" json:"watch"`
	Metrics   MetricsConfig   `yaml:"metrics" json:"metrics"`
}

// APIConfig configures the analysis backend
type APIConfig struct {
	BaseURL string        `yaml:"base_url" json:"base_url"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"` // 0 means no client deadline
	Token   string        `yaml:"token" json:"token"`     // overrides the stored auth token
}

// InferenceConfig configures the standalone POST /predict service
type InferenceConfig struct {
	BaseURL string        `yaml:"base_url" json:"base_url"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// StorageConfig configures the local key/value store
type StorageConfig struct {
	Driver string `yaml:"driver" json:"driver"` // sqlite|memory
	Path   string `yaml:"path" json:"path"`
}

// UploadConfig configures the upload flow
type UploadConfig struct {
	ShowProgress bool          `yaml:"show_progress" json:"show_progress"`
	StepDelay    time.Duration `yaml:"step_delay" json:"step_delay"` // pause between processing steps
}

// ChatConfig configures chat sessions
type ChatConfig struct {
	LoadHistory bool `yaml:"load_history" json:"load_history"`
	TrackEvents bool `yaml:"track_events" json:"track_events"`
}

// OutputConfig configures report output
type OutputConfig struct {
	DefaultFormat   string `yaml:"default_format" json:"default_format"` // text|json|markdown|csv|html
	ColorMode       string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	TimestampFormat string `yaml:"timestamp_format" json:"timestamp_format"`
	Verbose         bool   `yaml:"verbose" json:"verbose"`
}

// UIConfig configures the dashboard
type UIConfig struct {
	Theme      string `yaml:"theme" json:"theme"` // default|high-contrast|mono
	DefaultTab string `yaml:"default_tab" json:"default_tab"`
	Industry   string `yaml:"industry" json:"industry"`
	ChartWidth int    `yaml:"chart_width" json:"chart_width"`
}

// WatchConfig configures the inbox watcher
type WatchConfig struct {
	Directory string        `yaml:"directory" json:"directory"`
	Debounce  time.Duration `yaml:"debounce" json:"debounce"`
}

// MetricsConfig configures the prometheus endpoint served while watching
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// Valid enumerations
var (
	validFormats    = []string{"text", "json", "markdown", "csv", "html"}
	validColorModes = []string{"auto", "always", "never"}
	validDrivers    = []string{"sqlite", "memory"}
	validThemes     = []string{"default", "high-contrast", "mono"}
	validTabs       = []string{"overview", "clauses", "risks", "comparison", "negotiation"}
)

// DefaultConfig returns the configuration used when no file or env var
// overrides a value
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 0,
		},
		Inference: InferenceConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 0,
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "~/.local/share/legalease/state.db",
		},
		Upload: UploadConfig{
			ShowProgress: true,
			StepDelay:    300 * time.Millisecond,
		},
		Chat: ChatConfig{
			LoadHistory: true,
			TrackEvents: true,
		},
		Output: OutputConfig{
			DefaultFormat:   "text",
			ColorMode:       "auto",
			TimestampFormat: "Jan 2, 2006",
		},
		UI: UIConfig{
			Theme:      "default",
			DefaultTab: "overview",
			Industry:   "tech",
			ChartWidth: 40,
		},
		Watch: WatchConfig{
			Directory: "./inbox",
			Debounce:  500 * time.Millisecond,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9464",
		},
	}
}

// Validate checks every section
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateAPIConfig,
		c.validateStorageConfig,
		c.validateUploadConfig,
		c.validateOutputConfig,
		c.validateUIConfig,
		c.validateWatchConfig,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateAPIConfig() error {
	if err := validateBaseURL("api.base_url", c.API.BaseURL); err != nil {
		return err
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be non-negative")
	}
	if err := validateBaseURL("inference.base_url", c.Inference.BaseURL); err != nil {
		return err
	}
	if c.Inference.Timeout < 0 {
		return fmt.Errorf("inference.timeout must be non-negative")
	}
	return nil
}

func (c *Config) validateStorageConfig() error {
	if !oneOf(c.Storage.Driver, validDrivers) {
		return fmt.Errorf("invalid storage driver: %s (must be one of: sqlite, memory)", c.Storage.Driver)
	}
	if c.Storage.Driver == "sqlite" && c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required for the sqlite driver")
	}
	return nil
}

func (c *Config) validateUploadConfig() error {
	if c.Upload.StepDelay < 0 {
		return fmt.Errorf("upload.step_delay must be non-negative")
	}
	return nil
}

func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" && !oneOf(c.Output.DefaultFormat, validFormats) {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, markdown, csv, html)", c.Output.DefaultFormat)
	}
	if c.Output.ColorMode != "" && !oneOf(c.Output.ColorMode, validColorModes) {
		return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
	}
	return nil
}

func (c *Config) validateUIConfig() error {
	if c.UI.Theme != "" && !oneOf(c.UI.Theme, validThemes) {
		return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, mono)", c.UI.Theme)
	}
	if c.UI.DefaultTab != "" && !oneOf(c.UI.DefaultTab, validTabs) {
		return fmt.Errorf("invalid default tab: %s (must be one of: overview, clauses, risks, comparison, negotiation)", c.UI.DefaultTab)
	}
	if c.UI.ChartWidth < 10 {
		return fmt.Errorf("ui.chart_width must be at least 10")
	}
	return nil
}

func (c *Config) validateWatchConfig() error {
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must be non-negative")
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required when metrics are enabled")
	}
	return nil
}

func validateBaseURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s: %s (must be an http or https URL)", field, raw)
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
