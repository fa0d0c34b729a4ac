package inventory

import (
	"reflect"
	"testing"

	"github.com/leapstack-labs/sheetlens/internal/connstr"
)

func queryRecord(name string, servers, databases []string) QueryRecord {
	return QueryRecord{
		Name: name,
		Info: DatabaseInfo{
			Servers:   servers,
			Databases: databases,
			Sources:   []string{"SQL Server: " + servers[0] + "/" + databases[0]},
		},
	}
}

func connRecord(name, connString, database string) ConnectionRecord {
	return ConnectionRecord{
		Name:             name,
		Kind:             connstr.KindOLEDB,
		ConnectionString: connString,
		Attributes:       connstr.Parse(connString),
		Database:         database,
	}
}

func TestConsolidator_Commutative(t *testing.T) {
	a := queryRecord("qa", []string{"srv1"}, []string{"db1"})
	b := queryRecord("qb", []string{"srv2"}, []string{"db2"})
	c := connRecord("c1", "Provider=SQLOLEDB;Data Source=srv3", "db3")

	forward := NewConsolidator()
	forward.AddQuery(a)
	forward.AddQuery(b)
	forward.AddConnection(c)

	reverse := NewConsolidator()
	reverse.AddConnection(c)
	reverse.AddQuery(b)
	reverse.AddQuery(a)

	if !reflect.DeepEqual(forward.Summary(), reverse.Summary()) {
		t.Errorf("summaries differ by merge order:\n%+v\n%+v", forward.Summary(), reverse.Summary())
	}
}

func TestConsolidator_SummaryStableAcrossCalls(t *testing.T) {
	c := NewConsolidator()
	c.AddQuery(queryRecord("q", []string{"s"}, []string{"d"}))

	if !reflect.DeepEqual(c.Summary(), c.Summary()) {
		t.Error("repeated Summary calls should be identical")
	}
}

func TestConsolidator_DeduplicatesAcrossRecords(t *testing.T) {
	c := NewConsolidator()
	c.AddQuery(queryRecord("q1", []string{"srv"}, []string{"db"}))
	c.AddQuery(queryRecord("q2", []string{"srv"}, []string{"db"}))

	s := c.Summary()
	if s.ServerCount != 1 || s.DatabaseCount != 1 {
		t.Errorf("expected deduplicated counts, got servers=%d databases=%d", s.ServerCount, s.DatabaseCount)
	}
	if len(s.QueryMappings) != 2 {
		t.Errorf("expected 2 query mappings, got %d", len(s.QueryMappings))
	}
}

func TestConsolidator_SetsSortedInSummary(t *testing.T) {
	c := NewConsolidator()
	c.AddQuery(queryRecord("q", []string{"zeta", "alpha"}, []string{"db"}))

	s := c.Summary()
	want := []string{"alpha", "zeta"}
	if !reflect.DeepEqual(s.Servers, want) {
		t.Errorf("expected sorted servers %v, got %v", want, s.Servers)
	}
}

func TestConsolidator_EmptyInfoSkipped(t *testing.T) {
	c := NewConsolidator()
	c.AddQuery(QueryRecord{Name: "empty"})

	s := c.Summary()
	if len(s.QueryMappings) != 0 {
		t.Errorf("empty DatabaseInfo should not produce a mapping, got %v", s.QueryMappings)
	}
}

func TestConsolidator_ConnectionWithoutEvidenceSkipped(t *testing.T) {
	c := NewConsolidator()
	c.AddConnection(ConnectionRecord{Name: "bare", Attributes: connstr.Parse("")})

	s := c.Summary()
	if len(s.ConnectionMappings) != 0 || s.ServerCount != 0 {
		t.Errorf("connection without server/database should contribute nothing: %+v", s)
	}
}

func TestAligned(t *testing.T) {
	cases := []struct {
		name string
		info DatabaseInfo
		want bool
	}{
		{"empty", DatabaseInfo{}, true},
		{"matched pairs", DatabaseInfo{Schemas: []string{"s"}, Tables: []string{"t"}}, true},
		{"schema table mismatch", DatabaseInfo{Schemas: []string{"a", "b"}, Tables: []string{"t"}}, false},
		{"group count mismatch", DatabaseInfo{
			Servers: []string{"x", "y"},
			Schemas: []string{"s"},
			Tables:  []string{"t"},
		}, false},
		{"server only", DatabaseInfo{Servers: []string{"x"}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := aligned(tc.info); got != tc.want {
				t.Errorf("aligned(%+v) = %v, want %v", tc.info, got, tc.want)
			}
		})
	}
}

func TestDedupKeepOrder(t *testing.T) {
	got := DedupKeepOrder([]string{"b", "a", "b", "", "c", "a"})
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DedupKeepOrder = %v, want %v", got, want)
	}
}
