// Package commands implements the sheetlens subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sheetlens/internal/cli/config"
	"github.com/leapstack-labs/sheetlens/internal/engine"
	"github.com/leapstack-labs/sheetlens/internal/report"
	"github.com/leapstack-labs/sheetlens/internal/state"
)

// Report artifact file names, written under the configured output
// directory.
const (
	detailReportName  = "connections.xlsx"
	summaryReportName = "summary.xlsx"
	errorReportName   = "errors.csv"
	jsonReportName    = "scan.json"
)

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Scan a directory tree of workbooks",
		Long: `Scan walks a directory tree for workbook files, extracts connection
and query metadata from each, and writes the configured report artifacts
to the output directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetCurrentConfig()
			logger := config.GetLogger(cmd.Context())

			if len(args) == 1 {
				cfg.Root = args[0]
			}
			applyScanFlags(cmd, cfg)

			if err := runScan(cmd, cfg, logger); err != nil {
				return err
			}
			if watch {
				return watchAndRescan(cmd, cfg, logger)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Rescan whenever files under the root change")
	cmd.Flags().String("out", "", "Output directory for report artifacts")
	cmd.Flags().StringSlice("format", nil, "Report formats to write (xlsx, json)")
	cmd.Flags().Bool("no-summary", false, "Skip the summary workbook")

	return cmd
}

// applyScanFlags folds scan-local flags into the loaded config. The
// persistent flags already arrived through the config loader.
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("out") {
		if v, _ := cmd.Flags().GetString("out"); v != "" {
			cfg.OutDir = v
		}
	}
	if cmd.Flags().Changed("format") {
		if v, _ := cmd.Flags().GetStringSlice("format"); len(v) > 0 {
			cfg.Formats = v
		}
	}
	if cmd.Flags().Changed("no-summary") {
		if v, _ := cmd.Flags().GetBool("no-summary"); v {
			cfg.Summary = false
		}
	}
}

func runScan(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	if err := config.Validate(cfg); err != nil {
		return err
	}

	e := engine.New(engine.Config{
		Root:    cfg.Root,
		Workers: cfg.Workers,
		Timeout: cfg.ScanTimeout,
		Policy:  cfg.Policy(),
	}, logger)

	startedAt := time.Now().UTC()
	result, err := e.Scan(cmd.Context())
	if err != nil {
		return err
	}

	if err := writeReports(cfg, result, startedAt); err != nil {
		return err
	}

	if cfg.StatePath != "" {
		if err := recordRun(cfg, result, startedAt); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"Scanned %d files: %d rows, %d servers, %d databases, %d errors (%s)\n",
		result.FilesScanned, len(result.Rows),
		result.Summary.ServerCount, result.Summary.DatabaseCount,
		len(result.Errors), result.Duration.Round(time.Millisecond))

	return nil
}

func writeReports(cfg *config.Config, result *engine.Result, startedAt time.Time) error {
	if err := os.MkdirAll(cfg.OutDir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if cfg.HasFormat("xlsx") {
		if err := report.WriteDetail(filepath.Join(cfg.OutDir, detailReportName), result.Rows); err != nil {
			return err
		}
		if cfg.Summary {
			if err := report.WriteSummary(filepath.Join(cfg.OutDir, summaryReportName), result.Summary); err != nil {
				return err
			}
		}
	}

	if cfg.HasFormat("json") {
		payload := report.Payload{
			ScannedAt:    startedAt,
			Root:         cfg.Root,
			FilesScanned: result.FilesScanned,
			DurationMS:   result.Duration.Milliseconds(),
			Rows:         result.Rows,
			Summary:      result.Summary,
			Errors:       result.Errors,
		}
		if err := report.WriteJSON(filepath.Join(cfg.OutDir, jsonReportName), payload); err != nil {
			return err
		}
	}

	return report.WriteErrors(filepath.Join(cfg.OutDir, errorReportName), result.Errors)
}

func recordRun(cfg *config.Config, result *engine.Result, startedAt time.Time) error {
	if dir := filepath.Dir(cfg.StatePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating state directory: %w", err)
		}
	}

	store, err := state.Open(cfg.StatePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	_, err = store.RecordRun(state.Run{
		Root:         cfg.Root,
		StartedAt:    startedAt,
		FilesScanned: result.FilesScanned,
		RowCount:     len(result.Rows),
		ErrorCount:   len(result.Errors),
		DurationMS:   result.Duration.Milliseconds(),
	}, result.Summary)
	return err
}

// watchAndRescan blocks, rescanning the root whenever a workbook under it
// changes. New subdirectories are picked up as they appear.
func watchAndRescan(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, cfg.Root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.Root, err)
	}

	logger.Info("watching for changes", "root", cfg.Root)
	return watchLoop(cmd, cfg, logger, watcher)
}

func watchLoop(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, watcher *fsnotify.Watcher) error {
	ctx := cmd.Context()

	// Debounce timer so editor save bursts trigger one rescan.
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			// A new directory needs its own watch before anything in it
			// can be seen.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchDirRecursive(watcher, event.Name)
				}
			}

			name := filepath.Base(event.Name)
			if strings.HasPrefix(name, "~$") || !strings.EqualFold(filepath.Ext(name), ".xlsx") {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(500*time.Millisecond, func() {
				logger.Info("change detected", "file", name)
				if err := runScan(cmd, cfg, logger); err != nil {
					logger.Error("rescan failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

// watchDirRecursive adds dir and every subdirectory to the watcher,
// skipping hidden directories.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if name := info.Name(); len(name) > 1 && name[0] == '.' {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}
