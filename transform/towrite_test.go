package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlweave/sqlweave/ast"
	"github.com/sqlweave/sqlweave/sqlerr"
	"github.com/sqlweave/sqlweave/token"
)

func sourceSelect() *ast.SelectStmt {
	return &ast.SelectStmt{
		Columns: []ast.SelectExpr{
			&ast.AliasedExpr{Expr: col("id")},
			&ast.AliasedExpr{Expr: col("email")},
		},
		From: &ast.AliasedTableExpr{Expr: &ast.TableName{Parts: []string{"staging"}}},
	}
}

func TestSelectToInsertDerivesColumnsAndMovesWith(t *testing.T) {
	sel := sourceSelect()
	sel.With = &ast.WithClause{CTEs: []*ast.CTE{{
		Name:  "staging",
		Query: &ast.SelectStmt{Columns: []ast.SelectExpr{&ast.AliasedExpr{Expr: intLit("1")}}},
	}}}

	ins, err := SelectToInsert(sel, "users", ToInsertOptions{})
	require.NoError(t, err)

	require.Equal(t, []string{"users"}, ins.Table.Parts)
	require.Len(t, ins.Columns, 2)
	require.Equal(t, "id", ins.Columns[0].Parts[0])
	require.Equal(t, "email", ins.Columns[1].Parts[0])
	require.NotNil(t, ins.With, "the select's WITH clause must migrate onto the insert")
	require.Nil(t, ins.Select.With)

	// Source select is a clone: mutating it must not touch the input.
	ins.Select.Columns[0].(*ast.AliasedExpr).Expr.(*ast.ColName).Parts[0] = "renamed"
	require.Equal(t, "id", sel.Columns[0].(*ast.AliasedExpr).Expr.(*ast.ColName).Parts[0])
}

func TestSelectToInsertRejectsColumnArityMismatch(t *testing.T) {
	_, err := SelectToInsert(sourceSelect(), "users", ToInsertOptions{TargetColumns: []string{"id"}})
	require.Error(t, err)
	require.Equal(t, sqlerr.CodeArityMismatch, err.(*sqlerr.Error).Code)
}

func TestSelectToUpdateKeysBySinglePrimaryKey(t *testing.T) {
	upd, err := SelectToUpdate(sourceSelect(), "users", ToUpdateOptions{
		TargetRow:         []*ast.UpdateExpr{{Column: col("email"), Expr: strLit("new@x")}},
		WhereByPrimaryKey: []string{"id"},
	})
	require.NoError(t, err)

	require.Len(t, upd.Set, 1)
	in := upd.Where.(*ast.InExpr)
	require.Equal(t, []string{"id"}, in.Expr.(*ast.ColName).Parts)
	require.NotNil(t, in.Select)
}

func TestSelectToUpdateCompositeKeyAndsMemberships(t *testing.T) {
	upd, err := SelectToUpdate(sourceSelect(), "users", ToUpdateOptions{
		TargetRow:         []*ast.UpdateExpr{{Column: col("email"), Expr: strLit("new@x")}},
		WhereByPrimaryKey: []string{"tenant_id", "id"},
	})
	require.NoError(t, err)

	and := upd.Where.(*ast.BinaryExpr)
	require.Equal(t, token.AND, and.Op)
	require.IsType(t, &ast.InExpr{}, and.Left)
	require.IsType(t, &ast.InExpr{}, and.Right)
}

func TestSelectToDeleteRequiresKeyColumns(t *testing.T) {
	_, err := SelectToDelete(sourceSelect(), "users", ToDeleteOptions{})
	require.Error(t, err)

	del, err := SelectToDelete(sourceSelect(), "users", ToDeleteOptions{WhereByPrimaryKey: []string{"id"}})
	require.NoError(t, err)
	require.Equal(t, []string{"users"}, del.Table.(*ast.TableName).Parts)
	require.IsType(t, &ast.InExpr{}, del.Where)
}

func TestSelectToMergeRequiresOnAndWhens(t *testing.T) {
	on := &ast.BinaryExpr{
		Op:    token.EQ,
		Left:  col("users", "id"),
		Right: col("src", "id"),
	}
	when := &ast.WhenClause{Matched: true, Action: &ast.MergeUpdate{
		Set: []*ast.UpdateExpr{{Column: col("email"), Expr: col("src", "email")}},
	}}

	_, err := SelectToMerge(sourceSelect(), "users", ToMergeOptions{WhenClauses: []*ast.WhenClause{when}})
	require.Error(t, err)

	_, err = SelectToMerge(sourceSelect(), "users", ToMergeOptions{OnCondition: on})
	require.Error(t, err)

	m, err := SelectToMerge(sourceSelect(), "users", ToMergeOptions{OnCondition: on, WhenClauses: []*ast.WhenClause{when}})
	require.NoError(t, err)
	require.Equal(t, "src", m.Source.(*ast.AliasedTableExpr).Alias)
	require.Len(t, m.Whens, 1)
}
