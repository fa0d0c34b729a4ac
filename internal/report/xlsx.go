// Package report renders scan results as workbook, CSV and JSON
// artifacts.
package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/leapstack-labs/sheetlens/internal/inventory"
)

// detailSheet is the single sheet of the flat per-connection report.
const detailSheet = "Connections"

// detailHeaders is the fixed column order of the detail report.
var detailHeaders = []string{
	"folder_name", "file_name", "connection", "database",
	"table_name", "sql query", "is_sql",
}

// WriteDetail writes the flat per-connection report. An empty row set
// still produces a header-only workbook.
func WriteDetail(path string, rows []inventory.ReportRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", detailSheet); err != nil {
		return fmt.Errorf("renaming detail sheet: %w", err)
	}

	if err := writeHeaderRow(f, detailSheet, 1, detailHeaders); err != nil {
		return err
	}

	for i, r := range rows {
		cells := []any{r.Folder, r.File, r.Connection, r.Database, r.Table, r.SQL, r.IsSQL}
		if err := setRow(f, detailSheet, i+2, cells); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(detailSheet, "A", "B", 30)
	_ = f.SetColWidth(detailSheet, "C", "E", 25)
	_ = f.SetColWidth(detailSheet, "F", "F", 60)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing detail report: %w", err)
	}
	return nil
}

// WriteSummary writes the consolidated inventory workbook: cardinalities,
// the sorted element sets, and both mapping tables.
func WriteSummary(path string, s inventory.Summary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return fmt.Errorf("renaming summary sheet: %w", err)
	}
	for _, name := range []string{"Elements", "Query Mappings", "Connection Mappings"} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	if err := writeCounts(f, s); err != nil {
		return err
	}
	if err := writeElements(f, s); err != nil {
		return err
	}
	if err := writeQueryMappings(f, s.QueryMappings); err != nil {
		return err
	}
	if err := writeConnectionMappings(f, s.ConnectionMappings); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing summary report: %w", err)
	}
	return nil
}

func writeCounts(f *excelize.File, s inventory.Summary) error {
	const sheet = "Summary"
	if err := writeHeaderRow(f, sheet, 1, []string{"Element", "Count"}); err != nil {
		return err
	}
	counts := []struct {
		label string
		n     int
	}{
		{"Servers", s.ServerCount},
		{"Databases", s.DatabaseCount},
		{"Schemas", s.SchemaCount},
		{"Tables", s.TableCount},
		{"Sources", s.SourceCount},
	}
	for i, c := range counts {
		if err := setRow(f, sheet, i+2, []any{c.label, c.n}); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 15)
	return nil
}

func writeElements(f *excelize.File, s inventory.Summary) error {
	const sheet = "Elements"
	if err := writeHeaderRow(f, sheet, 1, []string{"Type", "Name"}); err != nil {
		return err
	}
	row := 2
	groups := []struct {
		label string
		items []string
	}{
		{"Server", s.Servers},
		{"Database", s.Databases},
		{"Schema", s.Schemas},
		{"Table", s.Tables},
		{"Source", s.Sources},
	}
	for _, g := range groups {
		for _, name := range g.items {
			if err := setRow(f, sheet, row, []any{g.label, name}); err != nil {
				return err
			}
			row++
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 45)
	return nil
}

func writeQueryMappings(f *excelize.File, mappings []inventory.QueryMapping) error {
	const sheet = "Query Mappings"
	headers := []string{"Query", "Servers", "Databases", "Schemas", "Tables", "Sources", "Aligned"}
	if err := writeHeaderRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, m := range mappings {
		aligned := "no"
		if m.Aligned {
			aligned = "yes"
		}
		cells := []any{
			m.Query,
			joinList(m.Servers),
			joinList(m.Databases),
			joinList(m.Schemas),
			joinList(m.Tables),
			joinList(m.Sources),
			aligned,
		}
		if err := setRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(sheet, "A", "F", 30)
	return nil
}

func writeConnectionMappings(f *excelize.File, mappings []inventory.ConnectionMapping) error {
	const sheet = "Connection Mappings"
	headers := []string{"Connection", "Kind", "Server", "Database", "Provider"}
	if err := writeHeaderRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, m := range mappings {
		cells := []any{m.Connection, m.Kind, m.Server, m.Database, m.Provider}
		if err := setRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(sheet, "A", "E", 25)
	return nil
}

func writeHeaderRow(f *excelize.File, sheet string, row int, headers []string) error {
	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	if err := setRow(f, sheet, row, cells); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

func joinList(items []string) string {
	return strings.Join(items, "; ")
}
