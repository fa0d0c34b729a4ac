package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sheetlens/internal/connstr"
	"github.com/leapstack-labs/sheetlens/internal/inventory"
	"github.com/leapstack-labs/sheetlens/internal/mashup"
	"github.com/leapstack-labs/sheetlens/internal/sqlscan"
	"github.com/leapstack-labs/sheetlens/internal/workbook"
)

// Scan walks the configured root, extracts connection and query records
// from every workbook found, and returns the sorted report plus the
// consolidated summary. Documents that cannot be read become Errors
// entries; the scan keeps going.
func (e *Engine) Scan(ctx context.Context) (*Result, error) {
	start := time.Now()

	paths, err := walkWorkbooks(e.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", e.cfg.Root, err)
	}

	e.logger.Info("scan started", "root", e.cfg.Root, "files", len(paths), "workers", e.cfg.Workers)

	cons := inventory.NewConsolidator()

	var mu sync.Mutex
	var rows []inventory.ReportRow
	var failures []inventory.ErrorEntry

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)

	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			docRows, entry := e.scanOne(ctx, path, cons)

			mu.Lock()
			rows = append(rows, docRows...)
			if entry != nil {
				failures = append(failures, *entry)
			}
			mu.Unlock()

			if entry != nil {
				e.logger.Warn("document failed", "file", path, "kind", entry.Kind)
			} else {
				e.logger.Debug("document scanned", "file", path, "rows", len(docRows))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Folder != rows[j].Folder {
			return rows[i].Folder < rows[j].Folder
		}
		if rows[i].File != rows[j].File {
			return rows[i].File < rows[j].File
		}
		return rows[i].Connection < rows[j].Connection
	})
	sort.Slice(failures, func(i, j int) bool { return failures[i].File < failures[j].File })

	result := &Result{
		Rows:         rows,
		Summary:      cons.Summary(),
		Errors:       failures,
		FilesScanned: len(paths),
		Duration:     time.Since(start),
	}

	e.logger.Info("scan completed",
		"files", result.FilesScanned,
		"rows", len(result.Rows),
		"errors", len(result.Errors),
		"duration", result.Duration.Round(time.Millisecond))

	return result, nil
}

// scanOne opens and processes a single document. The open runs under the
// per-document timeout; a document that hangs past it is abandoned and
// recorded as a timeout failure.
func (e *Engine) scanOne(ctx context.Context, path string, cons *inventory.Consolidator) ([]inventory.ReportRow, *inventory.ErrorEntry) {
	type opened struct {
		doc *workbook.Document
		err error
	}

	ch := make(chan opened, 1)
	go func() {
		doc, err := workbook.OpenFile(path)
		ch <- opened{doc: doc, err: err}
	}()

	var timeout <-chan time.Time
	if e.cfg.Timeout > 0 {
		t := time.NewTimer(e.cfg.Timeout)
		defer t.Stop()
		timeout = t.C
	}

	var doc *workbook.Document
	select {
	case o := <-ch:
		if o.err != nil {
			return nil, &inventory.ErrorEntry{File: path, Kind: failureKind(o.err)}
		}
		doc = o.doc
	case <-timeout:
		return nil, &inventory.ErrorEntry{File: path, Kind: inventory.FailureScanTimeout}
	case <-ctx.Done():
		return nil, &inventory.ErrorEntry{File: path, Kind: inventory.FailureScanTimeout}
	}

	return e.processDocument(path, doc, cons), nil
}

// processDocument turns a document's connections and queries into report
// rows and feeds the consolidator.
func (e *Engine) processDocument(path string, doc *workbook.Document, cons *inventory.Consolidator) []inventory.ReportRow {
	folder := filepath.Dir(path)
	file := filepath.Base(path)

	var rows []inventory.ReportRow

	for _, conn := range doc.Connections {
		rec := e.connectionRecord(conn)
		cons.AddConnection(rec)

		flag := "no"
		if rec.IsSQL {
			flag = "yes"
		}
		rows = append(rows, inventory.ReportRow{
			Folder:     folder,
			File:       file,
			Connection: rec.Name,
			Database:   rec.Database,
			Table:      rec.Table,
			SQL:        rec.CommandText,
			IsSQL:      flag,
		})
	}

	for _, q := range doc.Queries {
		formula, ok := q.Formula()
		if !ok {
			continue
		}
		info := mashup.Parse(formula)
		cons.AddQuery(inventory.QueryRecord{Name: q.Name(), Formula: formula, Info: info})

		// Query rows carry the formula itself in the SQL column; the
		// derived lists are flattened for the flat report.
		rows = append(rows, inventory.ReportRow{
			Folder:     folder,
			File:       file,
			Connection: q.Name(),
			Database:   strings.Join(info.Databases, "; "),
			Table:      strings.Join(info.Tables, "; "),
			SQL:        formula,
			IsSQL:      "no",
		})
	}

	return rows
}

// connectionRecord normalizes and classifies one connection block.
func (e *Engine) connectionRecord(conn workbook.Connection) inventory.ConnectionRecord {
	raw, _ := conn.ConnectionString()
	attrs := connstr.Parse(raw)

	cmd, _ := conn.CommandText()
	cmd = sqlscan.Normalize(cmd)

	ctype, _ := conn.CommandType()

	a := sqlscan.AnalyzeWithPolicy(cmd, attrs, ctype, e.cfg.Policy)

	// Command text outranks the connection string for the database, the
	// catalog attribute fills the gap when the command names none.
	database := a.Database
	if database == "" {
		database = attrs.Database()
	}

	return inventory.ConnectionRecord{
		Name:             conn.Name(),
		Kind:             conn.Kind(),
		ConnectionString: raw,
		Attributes:       attrs,
		CommandText:      cmd,
		CommandType:      ctype,
		Database:         database,
		Table:            a.Table,
		IsSQL:            a.IsSQL,
	}
}

// failureKind maps a document open error to its report category.
func failureKind(err error) inventory.FailureKind {
	switch {
	case errors.Is(err, workbook.ErrCorruptArchive):
		return inventory.FailureCorruptArchive
	case errors.Is(err, workbook.ErrMalformedMetadata):
		return inventory.FailureMalformedMetadata
	default:
		return inventory.FailureMissingDependency
	}
}

// walkWorkbooks collects workbook paths under root, skipping editor
// temp files. Paths come back sorted for deterministic scheduling.
func walkWorkbooks(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, "~$") {
			return nil
		}
		if strings.EqualFold(filepath.Ext(name), ".xlsx") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
