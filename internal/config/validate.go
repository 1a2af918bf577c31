package config

import (
	"fmt"

	"github.com/vmunix/arrsnap/internal/state"
	"github.com/vmunix/arrsnap/internal/syncer"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validLogFormats = map[string]bool{
	"auto": true, "text": true, "json": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.RealDebrid.APIKey == "" {
		errs = append(errs, "realdebrid.api_key: required")
	}
	if c.RealDebrid.PageSize < 0 || c.RealDebrid.PageSize > 5000 {
		errs = append(errs, fmt.Sprintf("realdebrid.page_size: must be between 1 and 5000, got %d", c.RealDebrid.PageSize))
	}

	if c.Encryption.Password == "" {
		errs = append(errs, "encryption.password: required")
	}
	if c.Encryption.Iterations < 0 {
		errs = append(errs, fmt.Sprintf("encryption.iterations: must not be negative, got %d", c.Encryption.Iterations))
	}

	if _, err := syncer.ParseMode(c.Sync.Mode); err != nil {
		errs = append(errs, "sync.mode: "+err.Error())
	}
	if c.Sync.RefreshAfter < 0 {
		errs = append(errs, fmt.Sprintf("sync.refresh_after: must be positive, got %s", c.Sync.RefreshAfter))
	}
	if c.Sync.Interval < 0 {
		errs = append(errs, fmt.Sprintf("sync.interval: must be positive, got %s", c.Sync.Interval))
	}

	if _, err := state.ParseEncoding(c.Storage.Encoding); err != nil {
		errs = append(errs, "storage.encoding: "+err.Error())
	}
	if c.Storage.CacheFile != "" && c.Storage.CacheFile == c.Storage.SnapshotFile {
		errs = append(errs, "storage.snapshot_file: must differ from storage.cache_file")
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	if !validLogFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format: must be one of auto, text, json; got %q", c.Log.Format))
	}

	return errs
}
