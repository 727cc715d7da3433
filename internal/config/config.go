package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/aatuh/envvar"
	"github.com/zgpcy/watchface/internal/face"
	"gopkg.in/yaml.v3"
)

// Configuration validation constants
const (
	MinTickInterval      = 50    // Minimum tick interval in milliseconds
	MaxTickInterval      = 60000 // Maximum tick interval in milliseconds
	MinPort              = 1     // Minimum valid port number
	MaxPort              = 65535 // Maximum valid port number
	MinSubscriberBuffer  = 1
	MaxSubscriberBuffer  = 1024
	DefaultTickInterval  = 1000 // 1 second in milliseconds
	DefaultHTTPPort      = 8080
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
	DefaultTimezone      = "Local"
	DefaultSubscriberBuf = 4
)

// DefaultClockSizes mirrors the three faces of the demo screen.
var DefaultClockSizes = []float64{150, 200, 300}

// CORS represents cross-origin settings for the HTTP API
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Config represents the application configuration
type Config struct {
	HTTPPort         int        `yaml:"http_port"`
	LogLevel         string     `yaml:"log_level"`
	LogFormat        string     `yaml:"log_format"`
	TickInterval     int        `yaml:"tick_interval_ms"` // milliseconds
	SmoothSeconds    bool       `yaml:"smooth_seconds"`
	Timezone         string     `yaml:"timezone"`
	DateFormat       string     `yaml:"date_format"`
	ClockSizes       []float64  `yaml:"clock_sizes"`
	SubscriberBuffer int        `yaml:"subscriber_buffer"`
	Style            face.Style `yaml:"style"`
	CORS             CORS       `yaml:"cors"`
}

// Load loads configuration from a YAML file and applies environment variable
// overrides. An empty path skips the file and starts from defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		// #nosec G304 -- Config file path is provided by administrator via CLI flag, not user input
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment variable error: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration built only from defaults.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// TickDuration returns the tick interval as a time.Duration
func (c *Config) TickDuration() time.Duration {
	return time.Duration(c.TickInterval) * time.Millisecond
}

// Location resolves the configured timezone. Validation guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := loadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// FaceOptions returns layout options for a face of the given size
func (c *Config) FaceOptions(size float64) face.Options {
	return face.Options{
		Size:       size,
		Style:      c.Style,
		DateFormat: c.DateFormat,
	}
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// applyDefaults sets default values for configuration
func applyDefaults(cfg *Config) {
	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = DefaultHTTPPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	if cfg.DateFormat == "" {
		cfg.DateFormat = face.DefaultDateFormat
	}
	if len(cfg.ClockSizes) == 0 {
		cfg.ClockSizes = append([]float64(nil), DefaultClockSizes...)
	}
	if cfg.SubscriberBuffer == 0 {
		cfg.SubscriberBuffer = DefaultSubscriberBuf
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}

	def := face.DefaultStyle()
	if cfg.Style.Accent == "" {
		cfg.Style.Accent = def.Accent
	}
	if cfg.Style.Primary == "" {
		cfg.Style.Primary = def.Primary
	}
	if cfg.Style.Dot == "" {
		cfg.Style.Dot = def.Dot
	}
	if cfg.Style.Background == "" {
		cfg.Style.Background = def.Background
	}
}

// applyEnvOverrides applies environment variable overrides to configuration
func applyEnvOverrides(cfg *Config) error {
	if val := envvar.Get("WATCHFACE_HTTP_PORT"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid WATCHFACE_HTTP_PORT: must be an integer, got %q", val)
		}
		cfg.HTTPPort = i
	}

	if val := envvar.Get("WATCHFACE_LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}

	if val := envvar.Get("WATCHFACE_LOG_FORMAT"); val != "" {
		cfg.LogFormat = val
	}

	if val := envvar.Get("WATCHFACE_TICK_INTERVAL_MS"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid WATCHFACE_TICK_INTERVAL_MS: must be an integer, got %q", val)
		}
		cfg.TickInterval = i
	}

	if val := envvar.Get("WATCHFACE_SMOOTH_SECONDS"); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid WATCHFACE_SMOOTH_SECONDS: must be a boolean, got %q", val)
		}
		cfg.SmoothSeconds = b
	}

	if val := envvar.Get("WATCHFACE_TIMEZONE"); val != "" {
		cfg.Timezone = val
	}

	if val := envvar.Get("WATCHFACE_DATE_FORMAT"); val != "" {
		cfg.DateFormat = val
	}

	if val := envvar.Get("WATCHFACE_SUBSCRIBER_BUFFER"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid WATCHFACE_SUBSCRIBER_BUFFER: must be an integer, got %q", val)
		}
		cfg.SubscriberBuffer = i
	}

	// Example: WATCHFACE_CLOCK_SIZES="150,200,300"
	if val := envvar.Get("WATCHFACE_CLOCK_SIZES"); val != "" {
		sizes := []float64{}
		for _, part := range strings.Split(val, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			f, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return fmt.Errorf("invalid WATCHFACE_CLOCK_SIZES: %q is not a number", part)
			}
			sizes = append(sizes, f)
		}
		if len(sizes) > 0 {
			cfg.ClockSizes = sizes
		}
	}

	if val := envvar.Get("WATCHFACE_CORS_ORIGINS"); val != "" {
		origins := []string{}
		for _, o := range strings.Split(val, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.CORS.AllowedOrigins = origins
		}
	}

	return nil
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.HTTPPort < MinPort || cfg.HTTPPort > MaxPort {
		return fmt.Errorf("http_port must be between %d and %d", MinPort, MaxPort)
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text, got %q", cfg.LogFormat)
	}

	if cfg.TickInterval < MinTickInterval || cfg.TickInterval > MaxTickInterval {
		return fmt.Errorf("tick_interval_ms must be between %d and %d, got %d", MinTickInterval, MaxTickInterval, cfg.TickInterval)
	}

	if _, err := loadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q: %w", cfg.Timezone, err)
	}

	if strings.TrimSpace(cfg.DateFormat) == "" {
		return fmt.Errorf("date_format cannot be blank")
	}

	for i, size := range cfg.ClockSizes {
		if size < face.MinSize || size > face.MaxSize {
			return fmt.Errorf("clock size at index %d must be between %g and %g, got %g", i, face.MinSize, face.MaxSize, size)
		}
	}

	if cfg.SubscriberBuffer < MinSubscriberBuffer || cfg.SubscriberBuffer > MaxSubscriberBuffer {
		return fmt.Errorf("subscriber_buffer must be between %d and %d, got %d", MinSubscriberBuffer, MaxSubscriberBuffer, cfg.SubscriberBuffer)
	}

	return nil
}
