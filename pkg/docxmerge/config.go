package docxmerge

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config contains all configuration options for the docxmerge engine
type Config struct {
	// CacheMaxSize is the maximum number of templates to cache. 0 disables caching.
	CacheMaxSize int
	// CacheTTL is the time-to-live for cached templates. 0 means no expiration.
	CacheTTL time.Duration
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string
	// ScaleImages shrinks notebook figures wider than the printable page width.
	ScaleImages bool
	// DefaultGeometry lets documents without w:pgSz and w:pgMar use US Letter
	// with one inch margins instead of failing to prepare.
	DefaultGeometry bool
}

var (
	globalConfig      = ConfigFromEnvironment()
	globalConfigMutex sync.RWMutex
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CacheMaxSize: 100,
		CacheTTL:     0,
		LogLevel:     "info",
		ScaleImages:  true,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables.
// Unparseable values keep their defaults.
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	if val := os.Getenv("DOCXMERGE_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
		}
	}

	if val := os.Getenv("DOCXMERGE_CACHE_TTL"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.CacheTTL = duration
		}
	}

	if val := os.Getenv("DOCXMERGE_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	if val := os.Getenv("DOCXMERGE_SCALE_IMAGES"); val != "" {
		config.ScaleImages = parseBool(val)
	}

	if val := os.Getenv("DOCXMERGE_DEFAULT_GEOMETRY"); val != "" {
		config.DefaultGeometry = parseBool(val)
	}

	return config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.CacheMaxSize < 0 {
		return errors.New("cache max size cannot be negative")
	}

	if c.CacheTTL < 0 {
		return errors.New("cache TTL cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}
	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	return nil
}

// GetGlobalConfig returns a copy of the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration and applies its log level
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	UpdateLoggerFromConfig()
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
