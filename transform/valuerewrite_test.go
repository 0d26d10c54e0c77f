package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlweave/sqlweave/ast"
)

// renameCol replaces any bare column reference to `from` with one to
// `to`, marking that the rewriter actually visited it.
func renameCol(from, to string) ValueRewriteFunc {
	return func(e ast.Expr) (ast.Expr, bool) {
		cn, ok := e.(*ast.ColName)
		if !ok || cn.Parts[len(cn.Parts)-1] != from {
			return nil, false
		}
		return &ast.ColName{Parts: []string{to}}, true
	}
}

func TestRewriteValuesReachesCaseArms(t *testing.T) {
	stmt := &ast.SelectStmt{
		Columns: []ast.SelectExpr{&ast.AliasedExpr{Expr: &ast.CaseExpr{
			Whens: []*ast.When{{
				Cond:   col("active"),
				Result: col("id"),
			}},
			Else: col("fallback"),
		}}},
	}

	RewriteValues(stmt, renameCol("active", "enabled"))
	RewriteValues(stmt, renameCol("fallback", "zero"))

	ce := stmt.Columns[0].(*ast.AliasedExpr).Expr.(*ast.CaseExpr)
	require.Equal(t, []string{"enabled"}, ce.Whens[0].Cond.(*ast.ColName).Parts)
	require.Equal(t, []string{"zero"}, ce.Else.(*ast.ColName).Parts)
}

func TestRewriteValuesReachesBetweenBounds(t *testing.T) {
	stmt := &ast.SelectStmt{
		Columns: []ast.SelectExpr{&ast.AliasedExpr{Expr: intLit("1")}},
		Where: &ast.BetweenExpr{
			Expr: col("id"),
			Low:  col("low"),
			High: col("high"),
		},
	}

	RewriteValues(stmt, renameCol("id", "user_id"))
	RewriteValues(stmt, renameCol("high", "ceiling"))

	be := stmt.Where.(*ast.BetweenExpr)
	require.Equal(t, []string{"user_id"}, be.Expr.(*ast.ColName).Parts)
	require.Equal(t, []string{"ceiling"}, be.High.(*ast.ColName).Parts)
}

func TestRewriteValuesReachesInListAndSubquery(t *testing.T) {
	stmt := &ast.SelectStmt{
		Columns: []ast.SelectExpr{&ast.AliasedExpr{Expr: intLit("1")}},
		Where: &ast.InExpr{
			Expr:   col("id"),
			Values: []ast.Expr{col("a"), col("b")},
			Select: &ast.SelectStmt{
				Columns: []ast.SelectExpr{&ast.AliasedExpr{Expr: col("nested")}},
			},
		},
	}

	RewriteValues(stmt, renameCol("a", "x"))
	RewriteValues(stmt, renameCol("nested", "inner_id"))

	in := stmt.Where.(*ast.InExpr)
	require.Equal(t, []string{"x"}, in.Values[0].(*ast.ColName).Parts)
	require.Equal(t, []string{"inner_id"},
		in.Select.Columns[0].(*ast.AliasedExpr).Expr.(*ast.ColName).Parts)
}

func TestRewriteValuesReachesArrayAndSubscript(t *testing.T) {
	stmt := &ast.SelectStmt{
		Columns: []ast.SelectExpr{&ast.AliasedExpr{Expr: &ast.SubscriptExpr{
			Expr:  &ast.ArrayExpr{Elements: []ast.Expr{col("a"), col("b")}},
			Index: col("idx"),
		}}},
	}

	RewriteValues(stmt, renameCol("b", "y"))
	RewriteValues(stmt, renameCol("idx", "position"))

	sub := stmt.Columns[0].(*ast.AliasedExpr).Expr.(*ast.SubscriptExpr)
	require.Equal(t, []string{"y"}, sub.Expr.(*ast.ArrayExpr).Elements[1].(*ast.ColName).Parts)
	require.Equal(t, []string{"position"}, sub.Index.(*ast.ColName).Parts)
}

func TestRewriteValuesReachesFuncFilterAndWindow(t *testing.T) {
	stmt := &ast.SelectStmt{
		Columns: []ast.SelectExpr{&ast.AliasedExpr{Expr: &ast.FuncExpr{
			Name:   "sum",
			Args:   []ast.Expr{col("amount")},
			Filter: col("active"),
			Over:   &ast.WindowSpec{PartitionBy: []ast.Expr{col("region")}},
		}}},
	}

	RewriteValues(stmt, renameCol("active", "enabled"))
	RewriteValues(stmt, renameCol("region", "zone"))

	fe := stmt.Columns[0].(*ast.AliasedExpr).Expr.(*ast.FuncExpr)
	require.Equal(t, []string{"enabled"}, fe.Filter.(*ast.ColName).Parts)
	require.Equal(t, []string{"zone"}, fe.Over.PartitionBy[0].(*ast.ColName).Parts)
}

// The production path the rewriter serves: a RETURNING expression with a
// column nested inside CASE must resolve against the rows CTE.
func TestInsertToSelectReturningCaseResolvesNestedColumns(t *testing.T) {
	stmt := &ast.InsertStmt{
		Table:   &ast.TableName{Parts: []string{"users"}},
		Columns: []*ast.ColName{col("id"), col("active")},
		Values:  [][]ast.Expr{{intLit("1"), &ast.Literal{Type: ast.LiteralBool, Value: "TRUE"}}},
		Returning: []ast.SelectExpr{&ast.AliasedExpr{
			Alias: "visible_id",
			Expr: &ast.CaseExpr{
				Whens: []*ast.When{{Cond: col("active"), Result: col("id")}},
				Else:  intLit("0"),
			},
		}},
	}

	sel, err := InsertToSelect(stmt, ConvertOptions{})
	require.NoError(t, err)

	ce := sel.Columns[0].(*ast.AliasedExpr).Expr.(*ast.CaseExpr)
	require.Equal(t, []string{"__inserted_rows", "active"}, ce.Whens[0].Cond.(*ast.ColName).Parts)
	require.Equal(t, []string{"__inserted_rows", "id"}, ce.Whens[0].Result.(*ast.ColName).Parts)
}
