package sqlscan

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/sheetlens/internal/connstr"
)

// Classification evidence patterns. Keyword checks run against a
// lower-cased copy of the normalized text.
var (
	sqlVerbPattern   = regexp.MustCompile(`\b(select|insert|update|delete|with)\b`)
	fromIntoPattern  = regexp.MustCompile(`\b(from|into)\b`)
	selectFromWord   = regexp.MustCompile(`\b(select|from)\b`)
	threeSegmentName = regexp.MustCompile(`(?:"[^"]+"|[A-Za-z0-9_$]+)\.(?:"[^"]+"|[A-Za-z0-9_$]+)\.(?:"[^"]+"|[A-Za-z0-9_$]+)`)
	twoSegmentName   = regexp.MustCompile(`\b[A-Za-z0-9_$]+\.[A-Za-z0-9_$]+\b`)
	useDatabase      = regexp.MustCompile("(?i)\\buse\\s+([\\[\\]`\"A-Za-z0-9_$.]+)")
)

// Policy holds the provider-specific command-type codes treated as
// structured table references. The default set is an unverified heuristic,
// so callers may inject their own.
type Policy struct {
	StructuredRefCodes []string
}

// DefaultPolicy returns the stock structured-reference code set.
func DefaultPolicy() Policy {
	return Policy{StructuredRefCodes: []string{"1", "2", "3", "Table"}}
}

// IsStructuredRef reports whether a raw command-type code is in the
// structured-reference set.
func (p Policy) IsStructuredRef(code string) bool {
	for _, c := range p.StructuredRefCodes {
		if c == code {
			return true
		}
	}
	return false
}

// Analysis is the classifier verdict for one command string.
type Analysis struct {
	Table    string
	Database string
	IsSQL    bool
}

// Flag renders the classification as the report's textual yes/no value.
func (a Analysis) Flag() string {
	if a.IsSQL {
		return "yes"
	}
	return "no"
}

// Analyze classifies command text with the default policy.
func Analyze(text string, attrs connstr.Attributes, commandType string) Analysis {
	return AnalyzeWithPolicy(text, attrs, commandType, DefaultPolicy())
}

// AnalyzeWithPolicy decides whether command text is genuine SQL and derives
// the referenced table and database. Classification requires structural or
// lexical evidence; the command-type code and provider are corroborating
// signals only, applied when keyword evidence is absent. The same inputs
// always yield the same result, and absent evidence yields empty fields.
func AnalyzeWithPolicy(text string, attrs connstr.Attributes, commandType string, policy Policy) Analysis {
	if strings.TrimSpace(text) == "" {
		return Analysis{}
	}

	norm := Normalize(text)
	lower := strings.ToLower(norm)

	isSQL := sqlVerbPattern.MatchString(lower) && fromIntoPattern.MatchString(lower)

	if !isSQL && policy.IsStructuredRef(commandType) {
		isSQL = threeSegmentName.MatchString(norm)
	}

	if !isSQL && attrs != nil {
		provider := strings.ToLower(attrs.Provider())
		if strings.Contains(provider, "sqloledb") || strings.Contains(provider, "sqlncli") {
			isSQL = selectFromWord.MatchString(lower) || twoSegmentName.MatchString(norm)
		}
	}

	var table, database string
	if e, ok := extract(norm); ok {
		table = e.raw
		if len(e.segments) >= 3 {
			database = e.segments[0]
		}
	}
	if database == "" {
		if m := useDatabase.FindStringSubmatch(norm); m != nil {
			database = strings.Trim(m[1], "[]`\".")
		}
	}

	return Analysis{Table: table, Database: database, IsSQL: isSQL}
}
