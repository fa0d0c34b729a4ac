// Package sqlscan recovers object names from SQL-like command text and
// classifies commands as genuine SQL or bare object references. All
// functions are pure and total: malformed input yields empty results,
// never an error.
package sqlscan

import (
	"regexp"
	"strings"
)

var (
	// XML-escaped line break placeholders left behind by the workbook
	// metadata layer. CRLF first so the pair collapses to one space.
	escapedBreaks = strings.NewReplacer(
		"&#13;&#10;", " ",
		"&#13;", " ",
		"&#10;", " ",
	)
	quoteRuns = regexp.MustCompile(`"{2,}`)
	wsRuns    = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes raw command or formula text: escaped line
// breaks become spaces, runs of doubled quotes collapse to one quote,
// whitespace runs collapse to one space, and the ends are trimmed.
// Normalize is idempotent and returns "" for empty input.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	s := escapedBreaks.Replace(text)
	s = quoteRuns.ReplaceAllString(s, `"`)
	s = wsRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
