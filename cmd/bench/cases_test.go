package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSQLDropsComments(t *testing.T) {
	stmts := splitSQL("-- header\nCREATE TABLE a (x INT);\n\n-- next\nCREATE INDEX i ON a (x);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE INDEX i ON a (x)"}, stmts)
}

func TestExtractTablesFromMigration(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", "..", "migrations", "0001_ai_usage.sql"))
	require.NoError(t, err)
	tables, err := extractTables(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"ai_usage"}, tables)
}

func TestExtractTablesMissingFile(t *testing.T) {
	_, err := extractTables(filepath.Join(t.TempDir(), "nope.sql"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
