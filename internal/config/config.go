// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/screenfit/api/schemas"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Engine() EngineConfig
	Kiosk() KioskConfig
	Fit() FitConfig

	// Engine setters driven by CLI flags.
	SetEngineMode(mode string)
	SetEngineDesignSize(width, height float64)
	SetEngineAspectRatio(ratio string)
	SetEngineDebounceInterval(d time.Duration)

	// Fit setters.
	SetFitViewport(width, height float64)
	SetFitConcurrency(n int)
	SetFitReportPath(path string)
	SetFitOutputSuffix(suffix string)

	// Kiosk setters.
	SetKioskHeadless(b bool)
	SetKioskWindow(width, height int)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg LoggerConfig `mapstructure:"logger" yaml:"logger"`
	EngineCfg EngineConfig `mapstructure:"engine" yaml:"engine"`
	KioskCfg  KioskConfig  `mapstructure:"kiosk" yaml:"kiosk"`
	FitCfg    FitConfig    `mapstructure:"fit" yaml:"fit"`
}

var _ Interface = (*Config)(nil)

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig { return c.LoggerCfg }
func (c *Config) Engine() EngineConfig { return c.EngineCfg }
func (c *Config) Kiosk() KioskConfig   { return c.KioskCfg }
func (c *Config) Fit() FitConfig       { return c.FitCfg }

// --- Interface Method Implementations (Setters) ---

func (c *Config) SetEngineMode(mode string)         { c.EngineCfg.Mode = mode }
func (c *Config) SetEngineAspectRatio(ratio string) { c.EngineCfg.AspectRatio = ratio }
func (c *Config) SetEngineDesignSize(width, height float64) {
	c.EngineCfg.DesignWidth = width
	c.EngineCfg.DesignHeight = height
}
func (c *Config) SetEngineDebounceInterval(d time.Duration) { c.EngineCfg.DebounceInterval = d }

func (c *Config) SetFitViewport(width, height float64) {
	c.FitCfg.ViewportWidth = width
	c.FitCfg.ViewportHeight = height
}
func (c *Config) SetFitConcurrency(n int)          { c.FitCfg.Concurrency = n }
func (c *Config) SetFitReportPath(path string)     { c.FitCfg.ReportPath = path }
func (c *Config) SetFitOutputSuffix(suffix string) { c.FitCfg.OutputSuffix = suffix }
func (c *Config) SetKioskHeadless(b bool)          { c.KioskCfg.Headless = b }
func (c *Config) SetKioskWindow(width, height int) {
	c.KioskCfg.WindowWidth = width
	c.KioskCfg.WindowHeight = height
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// EngineConfig holds the adaptation engine settings. The embedded Options
// carry the policy knobs; the extra fields cover wiring only the CLI layer
// cares about.
type EngineConfig struct {
	schemas.Options `mapstructure:",squash" yaml:",inline"`

	DebounceInterval time.Duration `mapstructure:"debounce_interval" yaml:"debounce_interval"`
	ViewportSelector string        `mapstructure:"viewport_selector" yaml:"viewport_selector"`
	ContentSelector  string        `mapstructure:"content_selector" yaml:"content_selector"`
}

// KioskConfig holds settings for the live browser display.
type KioskConfig struct {
	Headless          bool          `mapstructure:"headless" yaml:"headless"`
	KioskMode         bool          `mapstructure:"kiosk_mode" yaml:"kiosk_mode"`
	WindowWidth       int           `mapstructure:"window_width" yaml:"window_width"`
	WindowHeight      int           `mapstructure:"window_height" yaml:"window_height"`
	Args              []string      `mapstructure:"args" yaml:"args"`
	EvalRate          float64       `mapstructure:"eval_rate" yaml:"eval_rate"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
}

// FitConfig holds settings for headless document fitting.
type FitConfig struct {
	ViewportWidth  float64 `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight float64 `mapstructure:"viewport_height" yaml:"viewport_height"`
	Concurrency    int     `mapstructure:"concurrency" yaml:"concurrency"`
	OutputSuffix   string  `mapstructure:"output_suffix" yaml:"output_suffix"`
	ReportPath     string  `mapstructure:"report_path" yaml:"report_path"`
}

// Viewport returns the synthetic viewport used for headless fitting.
func (f FitConfig) Viewport() schemas.Size {
	return schemas.Size{Width: f.ViewportWidth, Height: f.ViewportHeight}
}

// SetDefaults registers the default value for every configuration key.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "screenfit")
	v.SetDefault("logger.log_file", "screenfit.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Engine --
	// Design dimensions default to zero so the resolution chain stays in
	// charge; a non-zero default here would shadow the ratio and detection
	// sources for every user.
	v.SetDefault("engine.design_width", 0.0)
	v.SetDefault("engine.design_height", 0.0)
	v.SetDefault("engine.aspect_ratio", "")
	v.SetDefault("engine.mode", string(schemas.ModeProportional))
	v.SetDefault("engine.fill_strategy", string(schemas.FillStretch))
	v.SetDefault("engine.auto_detect", true)
	v.SetDefault("engine.background_color", "")
	v.SetDefault("engine.scale_content", true)
	v.SetDefault("engine.center_content", true)
	v.SetDefault("engine.preserve_child_styles", true)
	v.SetDefault("engine.debounce_interval", "100ms")
	v.SetDefault("engine.viewport_selector", "#viewport")
	v.SetDefault("engine.content_selector", "#content")

	// -- Kiosk --
	v.SetDefault("kiosk.headless", false)
	v.SetDefault("kiosk.kiosk_mode", true)
	v.SetDefault("kiosk.window_width", 0)
	v.SetDefault("kiosk.window_height", 0)
	v.SetDefault("kiosk.eval_rate", 30.0)
	v.SetDefault("kiosk.navigation_timeout", "90s")

	// -- Fit --
	v.SetDefault("fit.viewport_width", 1920.0)
	v.SetDefault("fit.viewport_height", 1080.0)
	v.SetDefault("fit.concurrency", 4)
	v.SetDefault("fit.output_suffix", ".fitted")
	v.SetDefault("fit.report_path", "")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// NewDefaultConfig builds a configuration carrying only the defaults. Tests
// and library embedders use this to skip the viper file discovery dance.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	if err != nil {
		// The defaults live in this file; failing validation here is a bug.
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return cfg
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.EngineCfg.DebounceInterval < 0 {
		return fmt.Errorf("engine.debounce_interval must not be negative")
	}
	if c.EngineCfg.ViewportSelector == "" || c.EngineCfg.ContentSelector == "" {
		return fmt.Errorf("engine.viewport_selector and engine.content_selector are required")
	}
	if c.FitCfg.Concurrency <= 0 {
		return fmt.Errorf("fit.concurrency must be a positive integer")
	}
	if c.FitCfg.ViewportWidth <= 0 || c.FitCfg.ViewportHeight <= 0 {
		return fmt.Errorf("fit.viewport_width and fit.viewport_height must be positive")
	}
	if c.KioskCfg.EvalRate < 0 {
		return fmt.Errorf("kiosk.eval_rate must not be negative")
	}
	if c.KioskCfg.NavigationTimeout <= 0 {
		return fmt.Errorf("kiosk.navigation_timeout must be positive")
	}
	return nil
}
