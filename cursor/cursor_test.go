package cursor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlweave/sqlweave/lexeme"
)

func TestOffsetLineColumnRoundTrip(t *testing.T) {
	sql := "SELECT id\nFROM users\nWHERE id = 1"
	for _, offset := range []int{0, 7, 10, 15, 21} {
		lc := OffsetToLineColumn(sql, offset)
		require.Equal(t, offset, LineColumnToOffset(sql, lc), "offset %d", offset)
	}

	lc := OffsetToLineColumn(sql, 10)
	require.Equal(t, 2, lc.Line)
	require.Equal(t, 1, lc.Column)
}

func TestFindLexemeAtOffset(t *testing.T) {
	sql := "SELECT id FROM users"
	lexemes, err := lexeme.Tokenize(sql)
	require.NoError(t, err)

	idx := FindLexemeAtOffset(lexemes, 7)
	require.GreaterOrEqual(t, idx, 0)
	require.Equal(t, "id", lexemes[idx].Value)

	// Whitespace between lexemes resolves to nothing.
	require.Equal(t, -1, FindLexemeAtOffset(lexemes, 6))
}

func TestFindLexemeAtLineColumn(t *testing.T) {
	sql := "SELECT id\nFROM users"
	lexemes, err := lexeme.Tokenize(sql)
	require.NoError(t, err)

	idx := FindLexemeAtLineColumn(lexemes, LineColumn{Line: 2, Column: 6})
	require.GreaterOrEqual(t, idx, 0)
	require.Equal(t, "users", lexemes[idx].Value)
}

func TestSplitStatementsBasic(t *testing.T) {
	stmts := SplitStatements("SELECT 1; SELECT 2;\nSELECT 3")
	require.Len(t, stmts, 3)
}

func TestSplitStatementsIgnoresQuotedSemicolons(t *testing.T) {
	stmts := SplitStatements("SELECT 'a;b'; SELECT 2")
	require.Len(t, stmts, 2)
	require.Contains(t, stmts[0], "'a;b'")
}

func TestSplitStatementsIgnoresDollarQuotedSemicolons(t *testing.T) {
	sql := "SELECT $tag$one; two\nthree$tag$; SELECT 2"
	stmts := SplitStatements(sql)
	require.Len(t, stmts, 2)
	require.Contains(t, stmts[0], "one; two")
}

func TestSplitStatementsIgnoresCommentSemicolons(t *testing.T) {
	sql := "SELECT 1 -- not a split; here\n; SELECT 2 /* nor; here */"
	stmts := SplitStatements(sql)
	require.Len(t, stmts, 2)
}

func TestSplitStatementsMergesTrailingLineComment(t *testing.T) {
	sql := "SELECT 1; -- first result\nSELECT 2"
	stmts := SplitStatements(sql)
	require.Len(t, stmts, 2)
	require.Contains(t, stmts[0], "-- first result")
	require.NotContains(t, stmts[1], "first result")
}
