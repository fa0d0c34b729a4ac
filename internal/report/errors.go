package report

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/leapstack-labs/sheetlens/internal/inventory"
)

// WriteErrors writes the failure list as CSV. Nothing is written when the
// list is empty; a stale file at path from a previous run is removed so
// its absence always means a clean scan.
func WriteErrors(path string, entries []inventory.ErrorEntry) error {
	if len(entries) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing stale error report: %w", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating error report: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"file_path", "error_type"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.Write([]string{e.File, string(e.Kind)}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing error report: %w", err)
	}
	return f.Close()
}
