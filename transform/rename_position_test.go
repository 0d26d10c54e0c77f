package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlweave/sqlweave/ast"
	"github.com/sqlweave/sqlweave/lexeme"
)

func TestSmartRenamePreserveFormattingRenamesCTE(t *testing.T) {
	sql := "WITH  recent  AS (SELECT id FROM orders) SELECT * FROM recent"
	lexemes, err := lexeme.Tokenize(sql)
	require.NoError(t, err)

	stmt := withSelect("recent")

	offset := 0
	for i, lx := range lexemes {
		if lx.Value == "recent" {
			offset = lx.Pos.Offset
			_ = i
			break
		}
	}

	out, err := SmartRenamePreserveFormatting(stmt, sql, lexemes, offset, "latest")
	require.NoError(t, err)
	require.Contains(t, out, "latest")
	require.NotContains(t, out, "recent")
	require.Contains(t, out, "  AS (SELECT id FROM orders)", "unrelated whitespace must be preserved byte-for-byte")
	require.True(t, HasCTE(stmt, "latest"))
}

func TestSmartRenamePreserveFormattingRejectsNonIdentifier(t *testing.T) {
	sql := "SELECT * FROM recent"
	lexemes, err := lexeme.Tokenize(sql)
	require.NoError(t, err)

	stmt := withSelect("recent")

	_, err = SmartRenamePreserveFormatting(stmt, sql, lexemes, 0, "latest")
	require.Error(t, err, "cursor sits on the SELECT command token, not an identifier")
	var _ ast.Statement = stmt
}
