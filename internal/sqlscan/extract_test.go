package sqlscan

import "testing"

func TestExtractTable(t *testing.T) {
	cases := []struct {
		name string
		sql  string
		want string
	}{
		{"bracketed schema and table", "SELECT * FROM [dbo].[Customers]", "dbo.Customers"},
		{"bare identifier is a table reference", "Customers", "Customers"},
		{"bare dotted identifier kept as-is", "dbo.Customers", "dbo.Customers"},
		{"bare bracketed identifier kept as-is", "[dbo].[Customers]", "[dbo].[Customers]"},
		{"four segments truncate to last two", "SELECT * FROM srv.db.dbo.Orders", "dbo.Orders"},
		{"three segments truncate to last two", "SELECT * FROM Sales.dbo.Orders", "dbo.Orders"},
		{"double quoted", `SELECT * FROM "public"."users"`, "public.users"},
		{"backticked", "SELECT * FROM `shop`.`orders`", "shop.orders"},
		{"single segment", "SELECT a FROM orders WHERE id = 1", "orders"},
		{"alias dropped", "SELECT * FROM dbo.Orders o JOIN dbo.Lines l ON 1=1", "dbo.Orders"},
		{"semicolon terminated", "SELECT * FROM dbo.Orders;", "dbo.Orders"},
		{"first from wins", "SELECT * FROM a.b WHERE x IN (SELECT y FROM c.d)", "a.b"},
		{"case insensitive keyword", "select * from DBO.ORDERS", "DBO.ORDERS"},
		{"escaped line breaks", "SELECT *&#13;&#10;FROM dbo.Orders", "dbo.Orders"},
		{"no from clause", "EXEC sp_refresh", ""},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractTable(tc.sql); got != tc.want {
				t.Errorf("ExtractTable(%q) = %q, want %q", tc.sql, got, tc.want)
			}
		})
	}
}

func TestExtractTableSegments(t *testing.T) {
	cases := []struct {
		name string
		sql  string
		want []string
	}{
		{"full four part path", "SELECT * FROM srv.db.dbo.Orders", []string{"srv", "db", "dbo", "Orders"}},
		{"bare dotted identifier", "Sales.dbo.Orders", []string{"Sales", "dbo", "Orders"}},
		{"bracketed wrappers stripped", "SELECT * FROM [dbo].[Customers]", []string{"dbo", "Customers"}},
		{"no reference", "EXEC sp_refresh", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractTableSegments(tc.sql)
			if len(got) != len(tc.want) {
				t.Fatalf("ExtractTableSegments(%q) = %v, want %v", tc.sql, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("segment %d = %q, want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestExtractTable_SelectDisablesBarePath(t *testing.T) {
	// "select" alone is in the identifier grammar's character set but must
	// not be treated as a bare table name.
	if got := ExtractTable("select"); got != "" {
		t.Errorf("expected no table for bare SELECT keyword, got %q", got)
	}
}

func FuzzExtractTable(f *testing.F) {
	f.Add("SELECT * FROM [dbo].[Customers]")
	f.Add("Customers")
	f.Add("from")
	f.Fuzz(func(t *testing.T, s string) {
		// Must never panic; result is incidental.
		_ = ExtractTable(s)
	})
}
