package workbook

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/leapstack-labs/sheetlens/internal/connstr"
)

// connectionsPart is the fixed internal path of the connection metadata.
const connectionsPart = "xl/connections.xml"

// xmlConnections mirrors the <connections> document. Only the attributes
// the inventory needs are mapped; everything else is ignored.
type xmlConnections struct {
	XMLName     xml.Name        `xml:"connections"`
	Connections []xmlConnection `xml:"connection"`
}

type xmlConnection struct {
	Name   string    `xml:"name,attr"`
	ID     string    `xml:"id,attr"`
	DBPr   *xmlDBPr  `xml:"dbPr"`
	OLAPPr *struct{} `xml:"olapPr"`
	WebPr  *struct{} `xml:"webPr"`
	TextPr *struct{} `xml:"textPr"`
}

type xmlDBPr struct {
	Connection  string `xml:"connection,attr"`
	Command     string `xml:"command,attr"`
	CommandType string `xml:"commandType,attr"`
}

// xmlBackedConnection adapts one <connection> element.
type xmlBackedConnection struct {
	name string
	kind connstr.Kind
	dbPr *xmlDBPr
}

func (c *xmlBackedConnection) Name() string       { return c.name }
func (c *xmlBackedConnection) Kind() connstr.Kind { return c.kind }

func (c *xmlBackedConnection) ConnectionString() (string, bool) {
	if c.dbPr == nil || c.dbPr.Connection == "" {
		return "", false
	}
	return c.dbPr.Connection, true
}

func (c *xmlBackedConnection) CommandText() (string, bool) {
	if c.dbPr == nil || c.dbPr.Command == "" {
		return "", false
	}
	return c.dbPr.Command, true
}

func (c *xmlBackedConnection) CommandType() (string, bool) {
	if c.dbPr == nil || c.dbPr.CommandType == "" {
		return "", false
	}
	return c.dbPr.CommandType, true
}

// OpenFile reads the connection metadata and any embedded mashup section
// from an xlsx container on disk. A container without a connections part
// yields an empty Document, not an error.
func OpenFile(path string) (*Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptArchive, path, err)
	}
	defer func() { _ = zr.Close() }()

	return readContainer(&zr.Reader)
}

// Read reads connection metadata from an in-memory container.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	return readContainer(zr)
}

func readContainer(zr *zip.Reader) (*Document, error) {
	doc := &Document{}

	if data, ok := readPart(zr, connectionsPart); ok {
		var parsed xmlConnections
		if err := xml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMetadata, err)
		}
		for i := range parsed.Connections {
			doc.Connections = append(doc.Connections, adaptXMLConnection(&parsed.Connections[i]))
		}
	}

	// Mashup queries live in a separate part; failures there are
	// swallowed so a broken mashup never poisons the connection records.
	doc.Queries = append(doc.Queries, readMashupQueries(zr)...)

	return doc, nil
}

func adaptXMLConnection(conn *xmlConnection) Connection {
	name := conn.Name
	if name == "" {
		name = conn.ID
	}

	kind := connstr.KindUnknown
	switch {
	case conn.DBPr != nil:
		kind = connstr.SniffKind(conn.DBPr.Connection)
		if kind == connstr.KindUnknown {
			// A dbPr block without provider evidence is still a
			// database-style binding; OLE DB is the common carrier.
			kind = connstr.KindOLEDB
		}
	case conn.WebPr != nil:
		kind = connstr.KindWeb
	}

	return &xmlBackedConnection{name: name, kind: kind, dbPr: conn.DBPr}
}

// readPart returns the contents of one archive member, or false when the
// member is absent or unreadable.
func readPart(zr *zip.Reader, name string) ([]byte, bool) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false
		}
		defer func() { _ = rc.Close() }()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, false
		}
		return data, true
	}
	return nil, false
}
