package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeQuery(t *testing.T) {
	cases := []struct {
		sql       string
		operation string
		table     string
	}{
		{"SELECT EXISTS (SELECT 1 FROM submissions WHERE email = $1)", "select", "submissions"},
		{"\n\t\tINSERT INTO submissions (name) VALUES ($1) RETURNING id", "insert", "submissions"},
		{`UPDATE "schema_migrations" SET dirty = false`, "update", "schema_migrations"},
		{"ping", "ping", "unknown"},
		{"", "unknown", "unknown"},
	}
	for _, tc := range cases {
		op, table := describeQuery(tc.sql)
		assert.Equal(t, tc.operation, op, tc.sql)
		assert.Equal(t, tc.table, table, tc.sql)
	}
}
