package sqlscan

import (
	"regexp"
	"strings"
)

// Identifier grammar patterns. Four quoting styles are recognized:
// square brackets, double quotes, backticks, and bare identifiers.
// A FROM target uses one consistent style across 1-4 dotted segments.
var (
	bareObjectPattern = regexp.MustCompile("^[\\[\\]`\"A-Za-z0-9_.]+$")
	selectKeyword     = regexp.MustCompile(`(?i)\bselect\b`)

	fromTargetPattern = regexp.MustCompile(`(?i)\bfrom\s+(` +
		`\[[^\]]+\](?:\.\[[^\]]+\]){0,3}` + `|` +
		`"[^"]+"(?:\."[^"]+"){0,3}` + `|` +
		"`[^`]+`(?:\\.`[^`]+`){0,3}" + `|` +
		`[A-Za-z0-9_$]+(?:\.[A-Za-z0-9_$]+){0,3}` +
		`)`)
)

// extraction is the shared result of identifier recovery. raw carries the
// value ExtractTable exposes; segments carry the wrapper-stripped dotted
// parts the classifier needs for database derivation.
type extraction struct {
	raw      string
	segments []string
}

// extract recovers the primary object reference from command text.
// Returns false when the text holds no recognizable reference.
func extract(text string) (extraction, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return extraction{}, false
	}

	// A command that is nothing but an identifier expression and carries
	// no SELECT keyword is a bare table reference, returned untouched.
	if bareObjectPattern.MatchString(trimmed) && !selectKeyword.MatchString(trimmed) {
		segs := cleanSegments(trimmed)
		if len(segs) == 0 {
			return extraction{}, false
		}
		return extraction{raw: trimmed, segments: segs}, true
	}

	norm := Normalize(text)
	m := fromTargetPattern.FindStringSubmatch(norm)
	if m == nil {
		return extraction{}, false
	}

	// Drop trailing aliases and joins: the first FROM target ends at the
	// first whitespace or semicolon.
	captured := m[1]
	if idx := strings.IndexAny(captured, " \t;"); idx >= 0 {
		captured = captured[:idx]
	}

	segs := cleanSegments(captured)
	switch len(segs) {
	case 0:
		return extraction{}, false
	case 1:
		return extraction{raw: segs[0], segments: segs}, true
	default:
		return extraction{raw: segs[len(segs)-2] + "." + segs[len(segs)-1], segments: segs}, true
	}
}

// cleanSegments splits a dotted expression and strips wrapper characters
// from each segment, discarding segments left empty.
func cleanSegments(expr string) []string {
	var segs []string
	for _, part := range strings.Split(expr, ".") {
		part = strings.Trim(part, "[]`\"")
		if part != "" {
			segs = append(segs, part)
		}
	}
	return segs
}

// ExtractTable recovers the primary object name referenced by a command
// string. A bare identifier expression is returned as-is; for a query the
// first FROM target is captured and the last two dotted segments are
// returned as "schema.table" with wrappers stripped. Returns "" when no
// reference is found. Never fails on malformed input.
func ExtractTable(text string) string {
	e, ok := extract(text)
	if !ok {
		return ""
	}
	return e.raw
}

// ExtractTableSegments returns the wrapper-stripped dotted segments of the
// primary object reference, leftmost first. Returns nil when no reference
// is found.
func ExtractTableSegments(text string) []string {
	e, ok := extract(text)
	if !ok {
		return nil
	}
	return e.segments
}
