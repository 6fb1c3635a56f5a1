package shared

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Lint struct {
		Roots             []string          `yaml:"roots"`              // ["./src"]
		Extensions        []string          `yaml:"extensions"`         // [".js",".jsx",".ts",".tsx",".mjs",".cjs"]
		ExcludeDirs       []string          `yaml:"exclude_dirs"`       // ["node_modules",...]
		SeverityMin       string            `yaml:"severity_min"`       // "low" keeps everything
		DisabledRules     []string          `yaml:"disabled_rules"`     // rule IDs to skip
		SeverityOverrides map[string]string `yaml:"severity_overrides"` // rule ID -> level
		Workers           int               `yaml:"workers"`            // 0 = auto
		BarrelPackages    []string          `yaml:"barrel_packages"`    // extra barrel roots
		HeavyPackages     []string          `yaml:"heavy_packages"`     // extra defer-load candidates
	} `yaml:"lint"`

	Database struct {
		Driver string `yaml:"driver"` // "sqlite" (default)
		DSN    string `yaml:"dsn"`    // "./reactlift.db"
	} `yaml:"database"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
	} `yaml:"reporting"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`

	Server struct {
		Addr           string   `yaml:"addr"`            // ":8417"
		SessionTTL     string   `yaml:"session_ttl"`     // "12h"
		AllowedOrigins []string `yaml:"allowed_origins"` // CORS allow-list
	} `yaml:"server"`

	Watch struct {
		Debounce  string `yaml:"debounce"`   // "400ms"
		CacheSize int    `yaml:"cache_size"` // lexed units kept between relints
		CacheTTL  string `yaml:"cache_ttl"`  // "10m"
	} `yaml:"watch"`
}

func DefaultConfig() Config {
	var c Config
	c.Lint.SeverityMin = "low"
	c.Database.Driver = "sqlite"
	c.Database.DSN = "./reactlift.db"
	c.Reporting.OutDir = "./reports"
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	c.Server.Addr = ":8417"
	c.Server.SessionTTL = "12h"
	c.Watch.Debounce = "400ms"
	c.Watch.CacheSize = 2048
	c.Watch.CacheTTL = "10m"
	return c
}

func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return c, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("REACTLIFT_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("REACTLIFT_SEVERITY_MIN"); v != "" {
		c.Lint.SeverityMin = v
	}
	if v := os.Getenv("REACTLIFT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Lint.Workers = n
		}
	}
	if v := os.Getenv("REACTLIFT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("REACTLIFT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("REACTLIFT_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	if v := os.Getenv("REACTLIFT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	return c, nil
}

// ParseDuration reads a config duration string, falling back to def on
// empty or malformed values.
func ParseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
