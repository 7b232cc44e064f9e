package docxmerge

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.CacheMaxSize != 100 {
		t.Errorf("expected CacheMaxSize 100, got %d", config.CacheMaxSize)
	}
	if config.CacheTTL != 0 {
		t.Errorf("expected CacheTTL 0, got %v", config.CacheTTL)
	}
	if config.LogLevel != "info" {
		t.Errorf("expected LogLevel info, got %s", config.LogLevel)
	}
	if !config.ScaleImages {
		t.Error("expected ScaleImages to default to true")
	}
	if config.DefaultGeometry {
		t.Error("expected DefaultGeometry to default to false")
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		validate func(*testing.T, *Config)
	}{
		{
			name: "cache settings",
			env: map[string]string{
				"DOCXMERGE_CACHE_MAX_SIZE": "50",
				"DOCXMERGE_CACHE_TTL":      "5m",
			},
			validate: func(t *testing.T, c *Config) {
				if c.CacheMaxSize != 50 {
					t.Errorf("expected CacheMaxSize 50, got %d", c.CacheMaxSize)
				}
				if c.CacheTTL != 5*time.Minute {
					t.Errorf("expected CacheTTL 5m, got %v", c.CacheTTL)
				}
			},
		},
		{
			name: "log level and image scaling",
			env: map[string]string{
				"DOCXMERGE_LOG_LEVEL":        "debug",
				"DOCXMERGE_SCALE_IMAGES":     "off",
				"DOCXMERGE_DEFAULT_GEOMETRY": "yes",
			},
			validate: func(t *testing.T, c *Config) {
				if c.LogLevel != "debug" {
					t.Errorf("expected LogLevel debug, got %s", c.LogLevel)
				}
				if c.ScaleImages {
					t.Error("expected ScaleImages false")
				}
				if !c.DefaultGeometry {
					t.Error("expected DefaultGeometry true")
				}
			},
		},
		{
			name: "invalid values keep defaults",
			env: map[string]string{
				"DOCXMERGE_CACHE_MAX_SIZE": "many",
				"DOCXMERGE_CACHE_TTL":      "soon",
			},
			validate: func(t *testing.T, c *Config) {
				if c.CacheMaxSize != 100 {
					t.Errorf("expected default CacheMaxSize, got %d", c.CacheMaxSize)
				}
				if c.CacheTTL != 0 {
					t.Errorf("expected default CacheTTL, got %v", c.CacheTTL)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			tt.validate(t, ConfigFromEnvironment())
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"negative cache size", func(c *Config) { c.CacheMaxSize = -1 }, true},
		{"negative ttl", func(c *Config) { c.CacheTTL = -time.Second }, true},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"off", func(c *Config) { c.LogLevel = "off" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGlobalConfig(t *testing.T) {
	original := GetGlobalConfig()
	defer SetGlobalConfig(original)

	config := DefaultConfig()
	config.LogLevel = "error"
	SetGlobalConfig(config)

	got := GetGlobalConfig()
	if got.LogLevel != "error" {
		t.Errorf("expected global LogLevel error, got %s", got.LogLevel)
	}
	got.LogLevel = "debug"
	if GetGlobalConfig().LogLevel != "error" {
		t.Error("GetGlobalConfig must return a copy")
	}
	if GetLogger().IsDebugMode() {
		t.Error("global logger should follow the configured level")
	}
}
