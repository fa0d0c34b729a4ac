// Package inventory defines the per-document record model and the
// cross-document consolidator that merges records into a deduplicated
// inventory of servers, databases, schemas, tables and sources.
package inventory

import "github.com/leapstack-labs/sheetlens/internal/connstr"

// ConnectionRecord is one connection block extracted from a document.
// Records are immutable after creation; derived fields hold "" when the
// source carried no evidence for them.
type ConnectionRecord struct {
	Name             string
	Kind             connstr.Kind
	ConnectionString string
	Attributes       connstr.Attributes
	CommandText      string
	CommandType      string

	// Derived by the classifier.
	Database string
	Table    string
	IsSQL    bool
}

// QueryRecord is one mashup query extracted from a document.
type QueryRecord struct {
	Name    string
	Formula string
	Info    DatabaseInfo
}

// DatabaseInfo holds the source descriptors recovered from one formula.
// Each list is deduplicated preserving first-seen order. The schema/table
// lists accumulate independently of the server/database lists, so
// positional correlation across them is not guaranteed.
type DatabaseInfo struct {
	Servers   []string
	Databases []string
	Schemas   []string
	Tables    []string
	Sources   []string
}

// Empty reports whether no field carries a value.
func (d DatabaseInfo) Empty() bool {
	return len(d.Servers) == 0 && len(d.Databases) == 0 &&
		len(d.Schemas) == 0 && len(d.Tables) == 0 && len(d.Sources) == 0
}

// FailureKind tags a document-level extraction failure.
type FailureKind string

const (
	FailureCorruptArchive    FailureKind = "CorruptArchive"
	FailureMalformedMetadata FailureKind = "MalformedMetadata"
	FailureMissingDependency FailureKind = "MissingDependency"
	FailureScanTimeout       FailureKind = "ScanTimeout"
)

// ErrorEntry records one document that could not be read or parsed.
type ErrorEntry struct {
	File string      `json:"file"`
	Kind FailureKind `json:"kind"`
}

// ReportRow is one line of the flat per-connection report.
type ReportRow struct {
	Folder     string `json:"folder_name"`
	File       string `json:"file_name"`
	Connection string `json:"connection"`
	Database   string `json:"database"`
	Table      string `json:"table_name"`
	SQL        string `json:"sql_query"`
	IsSQL      string `json:"is_sql"` // "yes" or "no"
}
