// Package connstr parses semicolon-delimited connection strings into a
// case-insensitive attribute map and classifies the connection flavor.
package connstr

import "strings"

// Kind identifies the transport a connection block uses.
type Kind string

const (
	KindUnknown Kind = "Unknown"
	KindOLEDB   Kind = "OLE DB"
	KindODBC    Kind = "ODBC"
	KindWeb     Kind = "Web"
)

// Attributes is a parsed connection string. Keys are lower-cased and trimmed.
type Attributes map[string]string

// Parse splits a connection string on ";" into key=value attributes.
// Blank segments and segments without "=" are discarded. Keys are
// lower-cased; on duplicate keys the last occurrence wins. A nil map is
// never returned.
func Parse(raw string) Attributes {
	attrs := Attributes{}
	if raw == "" {
		return attrs
	}
	for _, seg := range strings.Split(raw, ";") {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		key, val, ok := strings.Cut(seg, "=")
		if !ok {
			continue
		}
		attrs[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(val)
	}
	return attrs
}

// Get returns the value for a key, looked up case-insensitively.
func (a Attributes) Get(key string) string {
	return a[strings.ToLower(key)]
}

// Database returns the database name, trying "initial catalog" then
// "database". Returns "" when neither key carries a value.
func (a Attributes) Database() string {
	for _, key := range []string{"initial catalog", "database"} {
		if v := a[key]; v != "" {
			return v
		}
	}
	return ""
}

// Server returns the server name, trying "server", "data source" and
// "host" in that order.
func (a Attributes) Server() string {
	for _, key := range []string{"server", "data source", "host"} {
		if v := a[key]; v != "" {
			return v
		}
	}
	return ""
}

// Provider returns the provider attribute, if present.
func (a Attributes) Provider() string {
	return a["provider"]
}

// SniffKind classifies a raw connection string as OLE DB, ODBC or Web by
// substring evidence. Absence of evidence yields KindUnknown.
func SniffKind(raw string) Kind {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "oledb"):
		return KindOLEDB
	case strings.Contains(lower, "odbc") || strings.Contains(lower, "dsn="):
		return KindODBC
	case strings.Contains(lower, "http://") || strings.Contains(lower, "https://"):
		return KindWeb
	default:
		return KindUnknown
	}
}

// SniffFlavor guesses the database product named in a connection string.
// Returns "" when nothing matches.
func SniffFlavor(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "sqlserver") || strings.Contains(lower, "sql server") ||
		strings.Contains(lower, "sqloledb") || strings.Contains(lower, "sqlncli"):
		return "SQL Server"
	case strings.Contains(lower, "oracle"):
		return "Oracle"
	case strings.Contains(lower, "mysql"):
		return "MySQL"
	case strings.Contains(lower, "postgres"):
		return "PostgreSQL"
	default:
		return ""
	}
}
