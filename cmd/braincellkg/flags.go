package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cellular-semantics/braincellkg/config"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath  string
	LogLevel    string
	LogFormat   string
	ShowVersion bool
	ShowHelp    bool
	Validate    bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("BRAINCELLKG_CONFIG", "configs/batch.json"),
		"Path to configuration file (env: BRAINCELLKG_CONFIG)")

	flag.StringVar(&cfg.ConfigPath, "c",
		getEnv("BRAINCELLKG_CONFIG", "configs/batch.json"),
		"Path to configuration file (env: BRAINCELLKG_CONFIG)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("BRAINCELLKG_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: BRAINCELLKG_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("BRAINCELLKG_LOG_FORMAT", "json"),
		"Log format: json, text (env: BRAINCELLKG_LOG_FORMAT)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	flag.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")

	flag.Usage = func() {
		printDetailedHelp()
	}

	flag.Parse()

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if _, err := os.Stat(cfg.ConfigPath); err != nil {
		return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	return nil
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - Brain Cell Knowledge Graph Token Mapping

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Run a batch with a custom config
  %s --config=/path/to/batch.json

  # Run with debug logging
  %s --log-level=debug --log-format=text

  # Run with environment variables
  export BRAINCELLKG_CONFIG=/etc/braincellkg/batch.json
  export BRAINCELLKG_LOG_LEVEL=debug
  %s

  # Validate configuration only
  %s --validate

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}

// getEnv returns an environment override after sanity-checking it, or the
// default when unset or invalid.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if err := config.ValidateEnvVar(key, value); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "ignoring %s: %v\n", key, err)
		return defaultValue
	}
	return value
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
