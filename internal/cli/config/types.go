// Package config provides configuration management for the sheetlens CLI.
package config

import (
	"time"

	"github.com/leapstack-labs/sheetlens/internal/sqlscan"
)

// Config holds all CLI configuration options.
type Config struct {
	Root               string        `koanf:"root"`
	OutDir             string        `koanf:"out_dir"`
	Formats            []string      `koanf:"formats"`
	Workers            int           `koanf:"workers"`
	ScanTimeout        time.Duration `koanf:"scan_timeout"`
	StatePath          string        `koanf:"state_path"`
	StructuredRefCodes []string      `koanf:"structured_ref_codes"`
	Summary            bool          `koanf:"summary"`
	Verbose            bool          `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultRoot        = "."
	DefaultOutDir      = "."
	DefaultWorkers     = 4
	DefaultScanTimeout = 30 * time.Second
)

// Policy returns the classifier policy configured for this run. An empty
// code list means the stock policy.
func (c *Config) Policy() sqlscan.Policy {
	if len(c.StructuredRefCodes) == 0 {
		return sqlscan.DefaultPolicy()
	}
	return sqlscan.Policy{StructuredRefCodes: c.StructuredRefCodes}
}

// HasFormat reports whether the named report format is enabled.
func (c *Config) HasFormat(name string) bool {
	for _, f := range c.Formats {
		if f == name {
			return true
		}
	}
	return false
}
