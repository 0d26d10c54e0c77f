package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlweave/sqlweave/ast"
	"github.com/sqlweave/sqlweave/sqlerr"
)

func TestToSimpleQuerySelectIsIdentity(t *testing.T) {
	sel := &ast.SelectStmt{Columns: []ast.SelectExpr{&ast.StarExpr{}}}
	out, err := ToSimpleQuery(sel, nil)
	require.NoError(t, err)
	require.Same(t, sel, out)
}

func TestToSimpleQueryBinaryWrapsAsSubquery(t *testing.T) {
	left := &ast.SelectStmt{Columns: []ast.SelectExpr{&ast.StarExpr{}}, From: &ast.AliasedTableExpr{Expr: &ast.TableName{Parts: []string{"a"}}}}
	right := &ast.SelectStmt{Columns: []ast.SelectExpr{&ast.StarExpr{}}, From: &ast.AliasedTableExpr{Expr: &ast.TableName{Parts: []string{"b"}}}}
	union := &ast.SetOp{Type: ast.Union, Left: left, Right: right}

	out, err := ToSimpleQuery(union, nil)
	require.NoError(t, err)
	from, ok := out.From.(*ast.AliasedTableExpr)
	require.True(t, ok)
	require.Equal(t, "bq", from.Alias)
	paren, ok := from.Expr.(*ast.ParenTableExpr)
	require.True(t, ok)
	require.Same(t, union, paren.Expr)
}

func TestToSimpleQueryIdempotent(t *testing.T) {
	left := &ast.SelectStmt{Columns: []ast.SelectExpr{&ast.StarExpr{}}}
	right := &ast.SelectStmt{Columns: []ast.SelectExpr{&ast.StarExpr{}}}
	union := &ast.SetOp{Type: ast.Union, Left: left, Right: right}

	once, err := ToSimpleQuery(union, nil)
	require.NoError(t, err)
	twice, err := ToSimpleQuery(once, nil)
	require.NoError(t, err)
	require.Same(t, once, twice)
}

func TestToSimpleQueryValuesRequiresColumnAliases(t *testing.T) {
	vals := &ast.ValuesStmt{Rows: [][]ast.Expr{{&ast.Literal{Type: ast.LiteralInt, Value: "1"}}}}

	_, err := ToSimpleQuery(vals, nil)
	require.Error(t, err)
	serr, ok := err.(*sqlerr.Error)
	require.True(t, ok)
	require.Equal(t, sqlerr.CodeMissingColumnAliases, serr.Code)

	out, err := ToSimpleQuery(vals, []string{"id"})
	require.NoError(t, err)
	require.Len(t, out.Columns, 1)
	from, ok := out.From.(*ast.AliasedTableExpr)
	require.True(t, ok)
	require.Equal(t, "bq", from.Alias)
	require.Equal(t, []string{"id"}, from.Columns)
	require.Same(t, vals, from.Expr)
}

func TestToSimpleQueryUnsupportedStatement(t *testing.T) {
	_, err := ToSimpleQuery(&ast.InsertStmt{}, nil)
	require.Error(t, err)
	serr, ok := err.(*sqlerr.Error)
	require.True(t, ok)
	require.Equal(t, sqlerr.CodeUnsupportedQueryType, serr.Code)
}
