package repository

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ROWS is a reserved keyword in postgres, so the airplanes column has to
// stay quoted in the DDL or the whole migration fails to parse.
func TestInitMigrationQuotesRowsColumn(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "migrations", "0001_init.sql"))
	require.NoError(t, err)
	ddl := string(data)

	assert.Contains(t, ddl, `"rows"`)

	unquoted := regexp.MustCompile(`(?m)^\s*rows\s`)
	assert.False(t, unquoted.MatchString(ddl), "rows column definition must be quoted")
}
