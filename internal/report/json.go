package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/leapstack-labs/sheetlens/internal/inventory"
)

// Payload is the JSON shape of a full scan result.
type Payload struct {
	ScannedAt    time.Time              `json:"scanned_at"`
	Root         string                 `json:"root"`
	FilesScanned int                    `json:"files_scanned"`
	DurationMS   int64                  `json:"duration_ms"`
	Rows         []inventory.ReportRow  `json:"rows"`
	Summary      inventory.Summary      `json:"summary"`
	Errors       []inventory.ErrorEntry `json:"errors,omitempty"`
}

// WriteJSON writes the full scan result as indented JSON.
func WriteJSON(path string, p Payload) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scan result: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing json report: %w", err)
	}
	return nil
}
