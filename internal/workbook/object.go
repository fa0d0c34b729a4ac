package workbook

import (
	"github.com/leapstack-labs/sheetlens/internal/connstr"
)

// Object is one property bag from a live document graph. Values are
// whatever the producing bridge handed over; string-typed properties are
// read with stringProp and anything else counts as absent.
type Object map[string]any

// objectConnection adapts a connection property bag.
type objectConnection struct {
	props Object
}

func (c *objectConnection) Name() string {
	name, _ := stringProp(c.props, "Name")
	return name
}

func (c *objectConnection) Kind() connstr.Kind {
	if kind, ok := stringProp(c.props, "Type"); ok {
		switch kind {
		case "OLEDB", "OLE DB":
			return connstr.KindOLEDB
		case "ODBC":
			return connstr.KindODBC
		case "WEB", "Web":
			return connstr.KindWeb
		}
	}
	if raw, ok := stringProp(c.props, "Connection"); ok {
		return connstr.SniffKind(raw)
	}
	return connstr.KindUnknown
}

func (c *objectConnection) ConnectionString() (string, bool) {
	return stringProp(c.props, "Connection")
}

func (c *objectConnection) CommandText() (string, bool) {
	return stringProp(c.props, "CommandText")
}

func (c *objectConnection) CommandType() (string, bool) {
	return stringProp(c.props, "CommandType")
}

// objectQuery adapts a query property bag.
type objectQuery struct {
	props Object
}

func (q *objectQuery) Name() string {
	name, _ := stringProp(q.props, "Name")
	return name
}

func (q *objectQuery) Formula() (string, bool) {
	return stringProp(q.props, "Formula")
}

// FromObjects builds a Document over live property bags. Bags with no
// readable properties still appear in the document; their accessors all
// report absent.
func FromObjects(connections, queries []Object) *Document {
	doc := &Document{}
	for _, props := range connections {
		doc.Connections = append(doc.Connections, &objectConnection{props: props})
	}
	for _, props := range queries {
		doc.Queries = append(doc.Queries, &objectQuery{props: props})
	}
	return doc
}

// stringProp reads one string-typed property. Missing keys, nil values,
// and non-string values all read as absent.
func stringProp(props Object, key string) (string, bool) {
	v, ok := props[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
