package mashup

import (
	"reflect"
	"testing"
)

func TestParse_SQLServer(t *testing.T) {
	info := Parse(`let Source = Sql.Database("server1", "db1") in Source`)

	if !reflect.DeepEqual(info.Servers, []string{"server1"}) {
		t.Errorf("servers = %v", info.Servers)
	}
	if !reflect.DeepEqual(info.Databases, []string{"db1"}) {
		t.Errorf("databases = %v", info.Databases)
	}
	if !reflect.DeepEqual(info.Sources, []string{"SQL Server: server1/db1"}) {
		t.Errorf("sources = %v", info.Sources)
	}
}

func TestParse_SchemaItemNavigation(t *testing.T) {
	formula := `let
    Source = Sql.Database("srv", "db"),
    dbo_Orders = Source{[Schema="dbo", Item="Orders"]}[Data]
in
    dbo_Orders`

	info := Parse(formula)
	if !reflect.DeepEqual(info.Schemas, []string{"dbo"}) {
		t.Errorf("schemas = %v", info.Schemas)
	}
	if !reflect.DeepEqual(info.Tables, []string{"Orders"}) {
		t.Errorf("tables = %v", info.Tables)
	}
}

func TestParse_OracleWithAndWithoutService(t *testing.T) {
	info := Parse(`Oracle.Database("orahost", "ORCL")`)
	if !reflect.DeepEqual(info.Sources, []string{"Oracle: orahost/ORCL"}) {
		t.Errorf("sources = %v", info.Sources)
	}
	if !reflect.DeepEqual(info.Databases, []string{"ORCL"}) {
		t.Errorf("databases = %v", info.Databases)
	}

	info = Parse(`Oracle.Database("orahost")`)
	if !reflect.DeepEqual(info.Sources, []string{"Oracle: orahost"}) {
		t.Errorf("sources = %v", info.Sources)
	}
	if len(info.Databases) != 0 {
		t.Errorf("expected no databases, got %v", info.Databases)
	}
}

func TestParse_MySQLAndPostgreSQL(t *testing.T) {
	info := Parse(`MySql.Database("myhost", "shop")`)
	if !reflect.DeepEqual(info.Sources, []string{"MySQL: myhost/shop"}) {
		t.Errorf("sources = %v", info.Sources)
	}

	info = Parse(`PostgreSQL.Database("pghost", "warehouse")`)
	if !reflect.DeepEqual(info.Sources, []string{"PostgreSQL: pghost/warehouse"}) {
		t.Errorf("sources = %v", info.Sources)
	}
}

func TestParse_FileAndWebConnectors(t *testing.T) {
	cases := []struct {
		formula string
		want    string
	}{
		{`Web.Contents("https://api.example.com/v1")`, "Web: https://api.example.com/v1"},
		{`OData.Feed("https://odata.example.com/feed")`, "OData: https://odata.example.com/feed"},
		{`Excel.Workbook(File.Contents("C:\data\book.xlsx"), null, true)`, `Excel: C:\data\book.xlsx`},
		{`Csv.Document(File.Contents("C:\data\export.csv"),[Delimiter=","])`, `CSV: C:\data\export.csv`},
	}
	for _, tc := range cases {
		info := Parse(tc.formula)
		if !reflect.DeepEqual(info.Sources, []string{tc.want}) {
			t.Errorf("Parse(%q).Sources = %v, want [%s]", tc.formula, info.Sources, tc.want)
		}
	}
}

func TestParse_DeduplicatesPreservingOrder(t *testing.T) {
	formula := `Sql.Database("b", "x") & Sql.Database("a", "y") & Sql.Database("b", "x")`
	info := Parse(formula)

	if !reflect.DeepEqual(info.Servers, []string{"b", "a"}) {
		t.Errorf("servers = %v, want [b a]", info.Servers)
	}
	if !reflect.DeepEqual(info.Sources, []string{"SQL Server: b/x", "SQL Server: a/y"}) {
		t.Errorf("sources = %v", info.Sources)
	}
}

func TestParse_MixedConnectorsAccumulate(t *testing.T) {
	formula := `let
    A = Sql.Database("srv", "db"),
    T = A{[Schema="dbo", Item="Orders"]}[Data],
    W = Web.Contents("https://example.com")
in T`

	info := Parse(formula)
	if len(info.Sources) != 2 {
		t.Errorf("expected 2 sources, got %v", info.Sources)
	}
	if len(info.Schemas) != 1 || len(info.Servers) != 1 {
		t.Errorf("expected accumulated schema and server lists: %+v", info)
	}
}

func TestParse_EmptyAndMalformed(t *testing.T) {
	if !Parse("").Empty() {
		t.Error("empty formula should yield empty info")
	}
	if !Parse("not a formula at all").Empty() {
		t.Error("unrecognized formula should yield empty info")
	}
	if !Parse(`Sql.Database("unterminated`).Empty() {
		t.Error("malformed connector call should yield empty info")
	}
}

func FuzzParse(f *testing.F) {
	f.Add(`Sql.Database("a","b")`)
	f.Add(`[Schema="x", Item="y"]`)
	f.Fuzz(func(t *testing.T, s string) {
		// Must never panic; accumulation is best-effort.
		_ = Parse(s)
	})
}
