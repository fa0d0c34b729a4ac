package workbook

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"io"
	"regexp"
	"strings"
)

// Mashup queries are stored as a base64 blob inside a customXml part. The
// decoded blob is a framed package whose embedded zip carries the section
// document with one "shared <name> = <formula>;" binding per query.
var (
	customXMLPart  = regexp.MustCompile(`^customXml/item\d+\.xml$`)
	dataMashupBlob = regexp.MustCompile(`(?s)<DataMashup[^>]*>(.*?)</DataMashup>`)
	sharedBinding  = regexp.MustCompile(`(?m)\bshared\s+(#"[^"]+"|[A-Za-z0-9_.]+)\s*=`)
)

// zipMagic marks the start of the package archive inside the decoded blob.
var zipMagic = []byte("PK\x03\x04")

// mashupQuery adapts one shared section binding.
type mashupQuery struct {
	name    string
	formula string
}

func (q *mashupQuery) Name() string { return q.name }

func (q *mashupQuery) Formula() (string, bool) {
	if q.formula == "" {
		return "", false
	}
	return q.formula, true
}

// readMashupQueries extracts query formulas from the document's mashup
// part. Every failure along the way yields zero queries; the mashup blob
// is an opaque vendor format and its absence or corruption is routine.
func readMashupQueries(zr *zip.Reader) []Query {
	for _, f := range zr.File {
		if !customXMLPart.MatchString(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			continue
		}

		m := dataMashupBlob.FindSubmatch(data)
		if m == nil {
			continue
		}
		if queries := decodeMashupBlob(m[1]); len(queries) > 0 {
			return queries
		}
	}
	return nil
}

// decodeMashupBlob base64-decodes the mashup payload, locates the embedded
// zip package, and parses the section document it carries.
func decodeMashupBlob(encoded []byte) []Query {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, string(encoded))

	raw, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil
	}

	start := bytes.Index(raw, zipMagic)
	if start < 0 {
		return nil
	}
	pkg := raw[start:]

	inner, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		return nil
	}

	for _, f := range inner.File {
		if !strings.HasSuffix(f.Name, "Section1.m") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		section, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil
		}
		return parseSection(string(section))
	}
	return nil
}

// parseSection splits a section document into per-query formulas. Each
// formula runs from its binding's "=" to the start of the next binding,
// with the trailing ";" trimmed.
func parseSection(section string) []Query {
	matches := sharedBinding.FindAllStringSubmatchIndex(section, -1)
	if matches == nil {
		return nil
	}

	queries := make([]Query, 0, len(matches))
	for i, m := range matches {
		name := section[m[2]:m[3]]
		name = strings.TrimSuffix(strings.TrimPrefix(name, `#"`), `"`)

		end := len(section)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		formula := strings.TrimSpace(section[m[1]:end])
		formula = strings.TrimSpace(strings.TrimSuffix(formula, ";"))

		queries = append(queries, &mashupQuery{name: name, formula: formula})
	}
	return queries
}
