package database

import "strings"

// BuildBindColumnPlaceholders returns the VALUES list for a multi-row
// INSERT, e.g. columns=2, rows=3 gives "(?, ?), (?, ?), (?, ?)".
// Returns "" when either count is not positive.
func BuildBindColumnPlaceholders(columns, rows int) string {
	if columns <= 0 || rows <= 0 {
		return ""
	}

	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", columns), ", ") + ")"

	var b strings.Builder
	b.Grow(rows * (len(row) + 2))
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(row)
	}
	return b.String()
}

// CreateIndexSQL returns the DDL for a single-table index named
// <table>_<columns joined by _>_index.
func CreateIndexSQL(table string, columns ...string) string {
	name := table + "_" + strings.Join(columns, "_") + "_index"
	return "CREATE INDEX " + name + " ON " + table + " (" + strings.Join(columns, ", ") + ")"
}
