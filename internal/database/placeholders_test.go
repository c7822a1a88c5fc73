package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildBindColumnPlaceholders(t *testing.T) {
	tests := []struct {
		name    string
		columns int
		rows    int
		want    string
	}{
		{"single", 1, 1, "(?)"},
		{"one row", 3, 1, "(?, ?, ?)"},
		{"many rows", 2, 3, "(?, ?), (?, ?), (?, ?)"},
		{"no rows", 2, 0, ""},
		{"no columns", 0, 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildBindColumnPlaceholders(tt.columns, tt.rows))
		})
	}
}

func TestCreateIndexSQL(t *testing.T) {
	assert.Equal(t,
		"CREATE INDEX ad_history_created_at_index ON ad_history (created_at)",
		CreateIndexSQL("ad_history", "created_at"))
	assert.Equal(t,
		"CREATE INDEX t_a_b_index ON t (a, b)",
		CreateIndexSQL("t", "a", "b"))
}
