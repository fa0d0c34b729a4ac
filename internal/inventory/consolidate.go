package inventory

import (
	"sort"
	"strings"
	"sync"
)

// orderedSet deduplicates strings while preserving first-seen order.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(values ...string) {
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := s.seen[v]; ok {
			continue
		}
		s.seen[v] = struct{}{}
		s.items = append(s.items, v)
	}
}

func (s *orderedSet) sorted() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	sort.Strings(out)
	return out
}

// DedupKeepOrder returns values with exact duplicates removed, first
// occurrence kept.
func DedupKeepOrder(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	set := newOrderedSet()
	set.add(values...)
	return set.items
}

// QueryMapping ties a query name to the source descriptors its formula
// yielded. Aligned is false when the parallel lists cannot be correlated
// positionally (the formula mixed source patterns with differing counts).
type QueryMapping struct {
	Query     string   `json:"query"`
	Servers   []string `json:"servers,omitempty"`
	Databases []string `json:"databases,omitempty"`
	Schemas   []string `json:"schemas,omitempty"`
	Tables    []string `json:"tables,omitempty"`
	Sources   []string `json:"sources,omitempty"`
	Aligned   bool     `json:"aligned"`
}

// ConnectionMapping ties a connection name to its derived server,
// database and provider.
type ConnectionMapping struct {
	Connection string `json:"connection"`
	Kind       string `json:"kind"`
	Server     string `json:"server,omitempty"`
	Database   string `json:"database,omitempty"`
	Provider   string `json:"provider,omitempty"`
}

// Summary is the final consolidated view: cardinalities, lexicographically
// sorted sets, and the mapping tables.
type Summary struct {
	ServerCount   int `json:"server_count"`
	DatabaseCount int `json:"database_count"`
	SchemaCount   int `json:"schema_count"`
	TableCount    int `json:"table_count"`
	SourceCount   int `json:"source_count"`

	Servers   []string `json:"servers"`
	Databases []string `json:"databases"`
	Schemas   []string `json:"schemas"`
	Tables    []string `json:"tables"`
	Sources   []string `json:"sources"`

	QueryMappings      []QueryMapping      `json:"query_mappings"`
	ConnectionMappings []ConnectionMapping `json:"connection_mappings"`
}

// Consolidator folds per-document records into the running inventory.
// The merge is commutative: any record order, or repeated consolidation
// over the same records, produces an identical Summary. Safe for use by
// concurrent workers.
type Consolidator struct {
	mu sync.Mutex

	servers   *orderedSet
	databases *orderedSet
	schemas   *orderedSet
	tables    *orderedSet
	sources   *orderedSet

	queryMappings []QueryMapping
	connMappings  []ConnectionMapping
}

// NewConsolidator returns an empty Consolidator.
func NewConsolidator() *Consolidator {
	return &Consolidator{
		servers:   newOrderedSet(),
		databases: newOrderedSet(),
		schemas:   newOrderedSet(),
		tables:    newOrderedSet(),
		sources:   newOrderedSet(),
	}
}

// AddQuery merges one query record. Records whose DatabaseInfo is entirely
// empty contribute nothing.
func (c *Consolidator) AddQuery(r QueryRecord) {
	if r.Info.Empty() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.servers.add(r.Info.Servers...)
	c.databases.add(r.Info.Databases...)
	c.schemas.add(r.Info.Schemas...)
	c.tables.add(r.Info.Tables...)
	c.sources.add(r.Info.Sources...)

	c.queryMappings = append(c.queryMappings, QueryMapping{
		Query:     r.Name,
		Servers:   r.Info.Servers,
		Databases: r.Info.Databases,
		Schemas:   r.Info.Schemas,
		Tables:    r.Info.Tables,
		Sources:   r.Info.Sources,
		Aligned:   aligned(r.Info),
	})
}

// AddConnection merges one connection record. Only records with a derived
// server or database contribute.
func (c *Consolidator) AddConnection(r ConnectionRecord) {
	server := r.Attributes.Server()
	if server == "" && r.Database == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.servers.add(server)
	c.databases.add(r.Database)
	c.connMappings = append(c.connMappings, ConnectionMapping{
		Connection: r.Name,
		Kind:       string(r.Kind),
		Server:     server,
		Database:   r.Database,
		Provider:   r.Attributes.Provider(),
	})
}

// aligned reports whether the parallel lists of a DatabaseInfo can be
// correlated by position: schema/table counts must agree, and when both
// the server/database group and the schema/table group are populated
// their counts must agree too.
func aligned(d DatabaseInfo) bool {
	if len(d.Schemas) != len(d.Tables) {
		return false
	}
	if len(d.Servers) > 0 && len(d.Schemas) > 0 && len(d.Servers) != len(d.Schemas) {
		return false
	}
	return true
}

// Summary renders the consolidated inventory. Sets are sorted
// lexicographically and mapping rows are ordered by a stable key, so the
// result is byte-identical regardless of the order records were merged.
func (c *Consolidator) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	qm := make([]QueryMapping, len(c.queryMappings))
	copy(qm, c.queryMappings)
	sort.Slice(qm, func(i, j int) bool { return queryMappingKey(qm[i]) < queryMappingKey(qm[j]) })

	cm := make([]ConnectionMapping, len(c.connMappings))
	copy(cm, c.connMappings)
	sort.Slice(cm, func(i, j int) bool { return connMappingKey(cm[i]) < connMappingKey(cm[j]) })

	return Summary{
		ServerCount:   len(c.servers.items),
		DatabaseCount: len(c.databases.items),
		SchemaCount:   len(c.schemas.items),
		TableCount:    len(c.tables.items),
		SourceCount:   len(c.sources.items),

		Servers:   c.servers.sorted(),
		Databases: c.databases.sorted(),
		Schemas:   c.schemas.sorted(),
		Tables:    c.tables.sorted(),
		Sources:   c.sources.sorted(),

		QueryMappings:      qm,
		ConnectionMappings: cm,
	}
}

func queryMappingKey(m QueryMapping) string {
	return strings.Join([]string{
		m.Query,
		strings.Join(m.Servers, ","),
		strings.Join(m.Databases, ","),
		strings.Join(m.Schemas, ","),
		strings.Join(m.Tables, ","),
		strings.Join(m.Sources, ","),
	}, "\x1f")
}

func connMappingKey(m ConnectionMapping) string {
	return strings.Join([]string{m.Connection, m.Kind, m.Server, m.Database, m.Provider}, "\x1f")
}
