// Package mashup extracts source descriptors from data-mashup formulas.
// A fixed library of per-connector pattern rules is applied to the full
// formula text; every match contributes to the accumulated DatabaseInfo.
// Matching tolerates malformed formulas: whatever was accumulated before a
// rule fails to match is returned, and absence of matches yields an empty
// DatabaseInfo.
package mashup

import (
	"regexp"

	"github.com/leapstack-labs/sheetlens/internal/inventory"
)

// rule is one connector pattern. apply receives each submatch group set
// and mutates the accumulating info.
type rule struct {
	label   string
	pattern *regexp.Regexp
	apply   func(groups []string, info *inventory.DatabaseInfo)
}

var rules = []rule{
	{
		label:   "SQL Server",
		// \b keeps this from matching inside MySql.Database.
		pattern: regexp.MustCompile(`\bSql\.Database\s*\(\s*"([^"]+)"\s*,\s*"([^"]+)"\s*\)`),
		apply: func(g []string, info *inventory.DatabaseInfo) {
			info.Servers = append(info.Servers, g[1])
			info.Databases = append(info.Databases, g[2])
			info.Sources = append(info.Sources, "SQL Server: "+g[1]+"/"+g[2])
		},
	},
	{
		label:   "Oracle",
		pattern: regexp.MustCompile(`Oracle\.Database\s*\(\s*"([^"]+)"\s*,?\s*"?([^")]*)"?\s*\)`),
		apply: func(g []string, info *inventory.DatabaseInfo) {
			info.Servers = append(info.Servers, g[1])
			source := "Oracle: " + g[1]
			if g[2] != "" {
				info.Databases = append(info.Databases, g[2])
				source += "/" + g[2]
			}
			info.Sources = append(info.Sources, source)
		},
	},
	{
		label:   "MySQL",
		pattern: regexp.MustCompile(`MySql\.Database\s*\(\s*"([^"]+)"\s*,\s*"([^"]+)"\s*\)`),
		apply: func(g []string, info *inventory.DatabaseInfo) {
			info.Servers = append(info.Servers, g[1])
			info.Databases = append(info.Databases, g[2])
			info.Sources = append(info.Sources, "MySQL: "+g[1]+"/"+g[2])
		},
	},
	{
		label:   "PostgreSQL",
		pattern: regexp.MustCompile(`PostgreSQL\.Database\s*\(\s*"([^"]+)"\s*,\s*"([^"]+)"\s*\)`),
		apply: func(g []string, info *inventory.DatabaseInfo) {
			info.Servers = append(info.Servers, g[1])
			info.Databases = append(info.Databases, g[2])
			info.Sources = append(info.Sources, "PostgreSQL: "+g[1]+"/"+g[2])
		},
	},
	{
		label:   "Web",
		pattern: regexp.MustCompile(`Web\.Contents\s*\(\s*"([^"]+)"\s*\)`),
		apply: func(g []string, info *inventory.DatabaseInfo) {
			info.Sources = append(info.Sources, "Web: "+g[1])
		},
	},
	{
		label:   "OData",
		pattern: regexp.MustCompile(`OData\.Feed\s*\(\s*"([^"]+)"\s*\)`),
		apply: func(g []string, info *inventory.DatabaseInfo) {
			info.Sources = append(info.Sources, "OData: "+g[1])
		},
	},
	{
		label:   "Excel",
		pattern: regexp.MustCompile(`Excel\.Workbook\s*\(\s*[^)]*"([^"]+\.xlsx?)"`),
		apply: func(g []string, info *inventory.DatabaseInfo) {
			info.Sources = append(info.Sources, "Excel: "+g[1])
		},
	},
	{
		label:   "CSV",
		pattern: regexp.MustCompile(`Csv\.Document\s*\(\s*[^)]*"([^"]+\.csv)"`),
		apply: func(g []string, info *inventory.DatabaseInfo) {
			info.Sources = append(info.Sources, "CSV: "+g[1])
		},
	},
	{
		// Navigation step shared by the database connectors. Accumulates
		// independently of the server/database rules above.
		label:   "Schema/Item",
		pattern: regexp.MustCompile(`\[Schema="([^"]+)"\s*,\s*Item="([^"]+)"\]`),
		apply: func(g []string, info *inventory.DatabaseInfo) {
			info.Schemas = append(info.Schemas, g[1])
			info.Tables = append(info.Tables, g[2])
		},
	},
}

// Parse runs every connector rule over the formula and returns the
// accumulated DatabaseInfo with each list deduplicated in first-seen
// order. An empty or unrecognized formula yields an empty DatabaseInfo.
func Parse(formula string) inventory.DatabaseInfo {
	var info inventory.DatabaseInfo
	if formula == "" {
		return info
	}

	for _, r := range rules {
		for _, groups := range r.pattern.FindAllStringSubmatch(formula, -1) {
			r.apply(groups, &info)
		}
	}

	info.Servers = inventory.DedupKeepOrder(info.Servers)
	info.Databases = inventory.DedupKeepOrder(info.Databases)
	info.Schemas = inventory.DedupKeepOrder(info.Schemas)
	info.Tables = inventory.DedupKeepOrder(info.Tables)
	info.Sources = inventory.DedupKeepOrder(info.Sources)
	return info
}
