package sqlscan

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "SELECT 1", "SELECT 1"},
		{"trims ends", "  SELECT 1  ", "SELECT 1"},
		{"collapses whitespace runs", "SELECT \t 1\n\nFROM t", "SELECT 1 FROM t"},
		{"escaped crlf", "SELECT *&#13;&#10;FROM t", "SELECT * FROM t"},
		{"escaped cr and lf", "a&#13;b&#10;c", "a b c"},
		{"doubled quotes", `SELECT ""name"" FROM t`, `SELECT "name" FROM t`},
		{"quote run", `""""`, `"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"SELECT * FROM t",
		"  a&#13;&#10;b  ",
		`x """" y`,
		"\t\n mixed &#10; ws \r\n",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func FuzzNormalize(f *testing.F) {
	f.Add("SELECT * FROM t")
	f.Add("&#13;&#10;\"\"")
	f.Fuzz(func(t *testing.T, s string) {
		once := Normalize(s)
		if Normalize(once) != once {
			t.Errorf("not idempotent for %q", s)
		}
	})
}
