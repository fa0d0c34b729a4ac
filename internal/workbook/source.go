// Package workbook adapts document containers and live object graphs to a
// common connection/query source boundary. Field accessors are fallible:
// an unavailable property reads as absent, never as an error.
package workbook

import (
	"errors"

	"github.com/leapstack-labs/sheetlens/internal/connstr"
)

// Connection is one named data-source binding from a document.
type Connection interface {
	Name() string
	Kind() connstr.Kind

	// Optional fields. The bool reports whether the source carried the
	// field at all; connection blocks of OLAP/web/text kinds typically
	// carry none of them.
	ConnectionString() (string, bool)
	CommandText() (string, bool)
	CommandType() (string, bool)
}

// Query is one named mashup query from a document.
type Query interface {
	Name() string
	Formula() (string, bool)
}

// Document is the normalized content of one scanned workbook.
type Document struct {
	Connections []Connection
	Queries     []Query
}

// Document-level failures, matched with errors.Is by the batch driver.
var (
	ErrCorruptArchive    = errors.New("workbook: corrupt archive")
	ErrMalformedMetadata = errors.New("workbook: malformed connection metadata")
)
