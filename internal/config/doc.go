// Package config provides configuration management for the watch face service.
//
// This package handles loading configuration from YAML files, applying
// environment variable overrides, setting defaults, and validating the
// configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (highest priority)
//  2. YAML configuration file (optional)
//  3. Default values (lowest priority)
//
// Supported environment variables:
//   - WATCHFACE_HTTP_PORT: HTTP server port (1-65535)
//   - WATCHFACE_LOG_LEVEL: Log level (debug, info, warn, error)
//   - WATCHFACE_LOG_FORMAT: Log format (json, text)
//   - WATCHFACE_TICK_INTERVAL_MS: Redraw interval in milliseconds (50-60000)
//   - WATCHFACE_SMOOTH_SECONDS: Sweep the second hand (true/false)
//   - WATCHFACE_TIMEZONE: IANA zone name or "Local"
//   - WATCHFACE_DATE_FORMAT: Go time layout for the date inset
//   - WATCHFACE_CLOCK_SIZES: Comma-separated face sizes for the index page
//   - WATCHFACE_SUBSCRIBER_BUFFER: Per-subscriber snapshot buffer (1-1024)
//   - WATCHFACE_CORS_ORIGINS: Comma-separated allowed origins
//
// Example configuration file (config.yaml):
//
//	http_port: 8080
//	log_level: "info"
//	tick_interval_ms: 1000
//	smooth_seconds: false
//	timezone: "Europe/Helsinki"
//	date_format: "Jan 2 2006"
//	clock_sizes: [150, 200, 300]
//
//	style:
//	  accent: "#FFA500"
//	  primary: "currentColor"
//
//	cors:
//	  allowed_origins: ["*"]
//
// Example usage:
//
//	cfg, err := config.Load("config.yaml")
//	if err != nil {
//		log.Fatalf("Failed to load config: %v", err)
//	}
//
//	fmt.Printf("Ticking every %s\n", cfg.TickDuration())
package config
