package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlweave/sqlweave/token"
)

func TestCloneExprIsIndependent(t *testing.T) {
	orig := &BinaryExpr{
		Op:   token.PLUS,
		Left: &ColName{Parts: []string{"a"}},
		Right: &Literal{
			Type:  LiteralInt,
			Value: "1",
		},
	}

	clone := CloneExpr(orig).(*BinaryExpr)
	require.Equal(t, orig, clone)

	clone.Op = token.MINUS
	clone.Right.(*Literal).Value = "2"
	require.Equal(t, token.PLUS, orig.Op)
	require.Equal(t, "1", orig.Right.(*Literal).Value)

	clone.Left.(*ColName).Parts[0] = "b"
	require.Equal(t, "a", orig.Left.(*ColName).Parts[0], "clone must not share backing arrays with the original")
}

func TestCloneStatementSelectIsDeep(t *testing.T) {
	orig := &SelectStmt{
		Columns: []SelectExpr{&StarExpr{}},
		From:    &AliasedTableExpr{Expr: &TableName{Parts: []string{"users"}}},
		Where: &BinaryExpr{
			Op:    token.EQ,
			Left:  &ColName{Parts: []string{"id"}},
			Right: &Literal{Type: LiteralInt, Value: "1"},
		},
	}

	clone := CloneStatement(orig).(*SelectStmt)
	clone.Where.(*BinaryExpr).Right.(*Literal).Value = "2"
	require.Equal(t, "1", orig.Where.(*BinaryExpr).Right.(*Literal).Value)

	cloneFrom := clone.From.(*AliasedTableExpr).Expr.(*TableName)
	cloneFrom.Parts[0] = "accounts"
	require.Equal(t, "users", orig.From.(*AliasedTableExpr).Expr.(*TableName).Parts[0])
}

func TestCloneNilIsNil(t *testing.T) {
	require.Nil(t, Clone(nil))
	var expr Expr
	require.Nil(t, CloneExpr(expr))
	var stmt Statement
	require.Nil(t, CloneStatement(stmt))
}

func TestCloneWithClausePreservesCTEIdentity(t *testing.T) {
	orig := &WithClause{
		Recursive: true,
		CTEs: []*CTE{
			{Name: "t", Query: &SelectStmt{Columns: []SelectExpr{&StarExpr{}}}},
		},
	}

	clone := Clone(orig).(*WithClause)
	require.True(t, clone.Recursive)
	require.Equal(t, "t", clone.CTEs[0].Name)

	clone.CTEs[0].Name = "renamed"
	require.Equal(t, "t", orig.CTEs[0].Name)
}
