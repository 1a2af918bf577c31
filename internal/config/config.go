// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure. It is built once at startup
// and passed to components by value or pointer; nothing mutates it after Load.
type Config struct {
	RealDebrid RealDebridConfig `toml:"realdebrid"`
	TMDB       TMDBConfig       `toml:"tmdb"`
	Encryption EncryptionConfig `toml:"encryption"`
	Sync       SyncConfig       `toml:"sync"`
	Storage    StorageConfig    `toml:"storage"`
	History    HistoryConfig    `toml:"history"`
	Log        LogConfig        `toml:"log"`
}

type RealDebridConfig struct {
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	PageSize int    `toml:"page_size"`
}

// TMDBConfig is optional. An empty APIKey disables enrichment.
type TMDBConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

type EncryptionConfig struct {
	Password   string `toml:"password"`
	Iterations int    `toml:"iterations"`
}

type SyncConfig struct {
	Mode         string        `toml:"mode"`
	RefreshAfter time.Duration `toml:"refresh_after"`
	Interval     time.Duration `toml:"interval"`
}

type StorageConfig struct {
	Dir          string `toml:"dir"`
	CacheFile    string `toml:"cache_file"`
	SnapshotFile string `toml:"snapshot_file"`
	Encoding     string `toml:"encoding"`
}

// HistoryConfig points at the run history database. Empty Path disables it.
type HistoryConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Load reads, substitutes, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(path, string(data), true)
}

// LoadWithoutValidation loads config without running validation.
// Unresolved environment variables are still reported.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(path, string(data), false)
}

// LoadDefault parses the embedded default config, which takes every
// credential from the environment.
func LoadDefault() (*Config, error) {
	return parse("(embedded default)", defaultConfig, true)
}

func parse(path, content string, validate bool) (*Config, error) {
	content, missing := substituteEnvVars(content)
	if len(missing) > 0 {
		return nil, &Error{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if validate {
		if errs := cfg.Validate(); len(errs) > 0 {
			return nil, &Error{Path: path, Errors: errs}
		}
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.RealDebrid.PageSize == 0 {
		c.RealDebrid.PageSize = 100
	}
	if c.Sync.Mode == "" {
		c.Sync.Mode = "full"
	}
	if c.Sync.RefreshAfter == 0 {
		c.Sync.RefreshAfter = 23 * time.Hour
	}
	if c.Sync.Interval == 0 {
		c.Sync.Interval = time.Hour
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "./data"
	}
	if c.Storage.Encoding == "" {
		c.Storage.Encoding = "base64"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "auto"
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment references and returns the names
// (or ":?" messages) of those that could not be resolved. Unresolved
// references are left in place. Comment lines are copied unchanged.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
			m := envVarPattern.FindStringSubmatch(match)
			name, op, arg := m[1], m[2], m[3]
			value, ok := os.LookupEnv(name)

			switch op {
			case ":-":
				if value == "" {
					return arg
				}
				return value
			case ":?":
				if value == "" {
					missing = append(missing, name+": "+strings.TrimSpace(arg))
					return match
				}
				return value
			}
			if !ok {
				missing = append(missing, name)
				return match
			}
			return value
		})
	}
	return strings.Join(lines, ""), missing
}
