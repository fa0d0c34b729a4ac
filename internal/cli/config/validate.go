package config

import "fmt"

// knownFormats are the report formats the scan command can emit.
var knownFormats = map[string]struct{}{
	"xlsx": {},
	"json": {},
}

// Validate checks the loaded configuration for values no command can act
// on.
func Validate(cfg *Config) error {
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.ScanTimeout < 0 {
		return fmt.Errorf("scan_timeout must not be negative, got %s", cfg.ScanTimeout)
	}
	if len(cfg.Formats) == 0 {
		return fmt.Errorf("at least one report format is required")
	}
	for _, f := range cfg.Formats {
		if _, ok := knownFormats[f]; !ok {
			return fmt.Errorf("unknown report format %q (supported: xlsx, json)", f)
		}
	}
	return nil
}
