// Package engine drives batch extraction: it walks a directory tree for
// workbook containers, scans them concurrently, and folds the per-document
// records into a consolidated inventory.
package engine

import (
	"log/slog"
	"time"

	"github.com/leapstack-labs/sheetlens/internal/inventory"
	"github.com/leapstack-labs/sheetlens/internal/sqlscan"
)

// defaultWorkers bounds concurrent document scans when the config does not
// say otherwise.
const defaultWorkers = 4

// Config controls one scan.
type Config struct {
	// Root is the directory walked for workbook containers.
	Root string

	// Workers bounds concurrent document scans. Zero or negative means
	// the default.
	Workers int

	// Timeout bounds the scan of a single document. Zero means no limit.
	Timeout time.Duration

	// Policy drives structured-reference classification.
	Policy sqlscan.Policy
}

// Result is the outcome of one scan.
type Result struct {
	// Rows is the flat per-connection report, ordered by folder, file and
	// connection name.
	Rows []inventory.ReportRow

	// Summary is the consolidated cross-document inventory.
	Summary inventory.Summary

	// Errors lists documents that could not be read, ordered by path.
	Errors []inventory.ErrorEntry

	FilesScanned int
	Duration     time.Duration
}

// Engine scans workbook trees.
type Engine struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an engine. A nil logger falls back to the default logger.
func New(cfg Config, logger *slog.Logger) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if len(cfg.Policy.StructuredRefCodes) == 0 {
		cfg.Policy = sqlscan.DefaultPolicy()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, logger: logger}
}
