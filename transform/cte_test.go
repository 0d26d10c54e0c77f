package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlweave/sqlweave/ast"
	"github.com/sqlweave/sqlweave/sqlerr"
	"github.com/sqlweave/sqlweave/token"
)

func withSelect(cteName string) *ast.SelectStmt {
	return &ast.SelectStmt{
		With: &ast.WithClause{CTEs: []*ast.CTE{
			{Name: cteName, Query: &ast.SelectStmt{
				Columns: []ast.SelectExpr{&ast.StarExpr{}},
				From:    &ast.AliasedTableExpr{Expr: &ast.TableName{Parts: []string{"orders"}}},
			}},
		}},
		Columns: []ast.SelectExpr{&ast.StarExpr{}},
		From:    &ast.AliasedTableExpr{Expr: &ast.TableName{Parts: []string{cteName}}},
	}
}

func TestReplaceCTEDoesNotAliasReplacement(t *testing.T) {
	stmt := withSelect("recent")

	replacementQuery := &ast.SelectStmt{
		Columns: []ast.SelectExpr{&ast.StarExpr{}},
		Where: &ast.BinaryExpr{
			Op:    token.GT,
			Left:  &ast.ColName{Parts: []string{"created_at"}},
			Right: &ast.Literal{Type: ast.LiteralString, Value: "2024-01-01"},
		},
	}
	replacement := &ast.CTE{Name: "recent", Query: replacementQuery}

	require.NoError(t, ReplaceCTE(stmt, "recent", replacement, AddCTEOptions{}))

	installed := GetCTE(stmt, "recent")
	require.NotNil(t, installed)
	require.Equal(t, replacementQuery, installed.Query)
	require.NotSame(t, replacementQuery, installed.Query, "installed query must be a clone, not the caller's own node")

	installed.Query.(*ast.SelectStmt).Where.(*ast.BinaryExpr).Right.(*ast.Literal).Value = "2025-01-01"
	require.Equal(t, "2024-01-01", replacementQuery.Where.(*ast.BinaryExpr).Right.(*ast.Literal).Value,
		"mutating the installed CTE must not mutate the caller's replacement statement")
}

func TestReplaceCTEUnknownName(t *testing.T) {
	stmt := withSelect("recent")
	err := ReplaceCTE(stmt, "missing", &ast.CTE{Query: &ast.SelectStmt{}}, AddCTEOptions{})
	require.Error(t, err)
}

func TestHasCTECaseInsensitiveAndTrimmed(t *testing.T) {
	stmt := withSelect("Recent")
	require.True(t, HasCTE(stmt, "recent"))
	require.True(t, HasCTE(stmt, "  RECENT  "))
}

func TestAddCTEDuplicateNameUsesDuplicateCTECode(t *testing.T) {
	stmt := withSelect("recent")
	err := AddCTE(stmt, &ast.CTE{Name: "RECENT", Query: &ast.SelectStmt{}}, AddCTEOptions{})
	require.Error(t, err)
	require.Equal(t, sqlerr.CodeDuplicateCTE, err.(*sqlerr.Error).Code)
}

func TestRenameTableAliasDoesNotCrossCTEBoundary(t *testing.T) {
	// WITH agg AS (SELECT * FROM o) SELECT * FROM o
	// Renaming the outer statement's alias "o" must not touch the CTE's
	// own internal reference to a table also named "o" in its own body.
	cteBody := &ast.SelectStmt{
		Columns: []ast.SelectExpr{&ast.StarExpr{}},
		From:    &ast.AliasedTableExpr{Expr: &ast.TableName{Parts: []string{"o"}}},
	}
	stmt := &ast.SelectStmt{
		With:    &ast.WithClause{CTEs: []*ast.CTE{{Name: "agg", Query: cteBody}}},
		Columns: []ast.SelectExpr{&ast.StarExpr{}},
		From:    &ast.AliasedTableExpr{Expr: &ast.TableName{Parts: []string{"o"}}},
	}

	RenameTableAlias(stmt, "o", "orders")

	require.Equal(t, []string{"orders"}, stmt.From.(*ast.AliasedTableExpr).Expr.(*ast.TableName).Parts,
		"the outer statement's own alias must be renamed")
	require.Equal(t, []string{"o"}, cteBody.From.(*ast.AliasedTableExpr).Expr.(*ast.TableName).Parts,
		"a same-named table reference inside the CTE's own body is a separate scope and must be untouched")
	require.NotNil(t, stmt.With, "RenameTableAlias must not disturb the WithClause itself")
	require.Len(t, stmt.With.CTEs, 1)
}

func TestRenameCTESkipsWritableCTEBodies(t *testing.T) {
	// WITH recent AS (SELECT * FROM recent_raw),
	//      archived AS (DELETE FROM recent WHERE ... RETURNING *)
	// SELECT * FROM recent
	// Renaming "recent" must not touch the writable CTE's delete target:
	// writable bodies do not expose their FROM/JOIN shape for rewiring.
	writableBody := &ast.DeleteStmt{
		Table: &ast.TableName{Parts: []string{"recent"}},
		Where: &ast.BinaryExpr{Op: token.GT, Left: &ast.ColName{Parts: []string{"age"}}, Right: &ast.Literal{Type: ast.LiteralInt, Value: "30"}},
	}
	readBody := &ast.SelectStmt{
		Columns: []ast.SelectExpr{&ast.StarExpr{}},
		From:    &ast.AliasedTableExpr{Expr: &ast.TableName{Parts: []string{"recent"}}},
	}
	stmt := &ast.SelectStmt{
		With: &ast.WithClause{CTEs: []*ast.CTE{
			{Name: "recent", Query: &ast.SelectStmt{
				Columns: []ast.SelectExpr{&ast.StarExpr{}},
				From:    &ast.AliasedTableExpr{Expr: &ast.TableName{Parts: []string{"recent_raw"}}},
			}},
			{Name: "archived", Query: writableBody},
			{Name: "readers", Query: readBody},
		}},
		Columns: []ast.SelectExpr{&ast.StarExpr{}},
		From:    &ast.AliasedTableExpr{Expr: &ast.TableName{Parts: []string{"recent"}}},
	}

	require.NoError(t, RenameCTE(stmt, "recent", "latest"))

	require.Equal(t, []string{"latest"}, stmt.From.(*ast.AliasedTableExpr).Expr.(*ast.TableName).Parts,
		"the outer statement's own reference is rewired")
	require.Equal(t, []string{"latest"}, readBody.From.(*ast.AliasedTableExpr).Expr.(*ast.TableName).Parts,
		"a sibling read-only CTE body's reference is rewired")
	require.Equal(t, []string{"recent"}, writableBody.Table.(*ast.TableName).Parts,
		"a sibling writable CTE body's write target is left untouched")
}

func TestRenameCTERewritesColumnReferenceNamespace(t *testing.T) {
	stmt := &ast.SelectStmt{
		With: &ast.WithClause{CTEs: []*ast.CTE{
			{Name: "recent", Query: &ast.SelectStmt{
				Columns: []ast.SelectExpr{&ast.StarExpr{}},
				From:    &ast.AliasedTableExpr{Expr: &ast.TableName{Parts: []string{"orders"}}},
			}},
		}},
		Columns: []ast.SelectExpr{&ast.AliasedExpr{Expr: &ast.ColName{Parts: []string{"recent", "id"}}}},
		From:    &ast.AliasedTableExpr{Expr: &ast.TableName{Parts: []string{"recent"}}},
	}

	require.NoError(t, RenameCTE(stmt, "recent", "latest"))

	col := stmt.Columns[0].(*ast.AliasedExpr).Expr.(*ast.ColName)
	require.Equal(t, []string{"latest", "id"}, col.Parts)
}
