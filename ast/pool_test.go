package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// ReleaseAST must walk every statement family the parser and transforms
// produce, including the write statements, set operations, and CTE
// clauses, without panicking on any of them.
func TestReleaseASTWalksExpandedStatementFamilies(t *testing.T) {
	inner := &SelectStmt{
		Columns: []SelectExpr{&AliasedExpr{Expr: &ColName{Parts: []string{"id"}}}},
		From:    &AliasedTableExpr{Expr: &TableName{Parts: []string{"t"}}},
	}
	stmts := []Node{
		&SelectStmt{
			With: &WithClause{CTEs: []*CTE{{Name: "c", Query: inner}}},
			Columns: []SelectExpr{&AliasedExpr{Expr: &FuncExpr{
				Name: "sum",
				Args: []Expr{&ColName{Parts: []string{"v"}}},
			}}},
			WindowDefs: []*WindowDef{{Name: "w", Spec: &WindowSpec{
				PartitionBy: []Expr{&ColName{Parts: []string{"region"}}},
			}}},
		},
		&SetOp{
			Type:  Union,
			All:   true,
			Left:  &SelectStmt{Columns: []SelectExpr{&AliasedExpr{Expr: &Literal{Type: LiteralInt, Value: "1"}}}},
			Right: &SelectStmt{Columns: []SelectExpr{&AliasedExpr{Expr: &Literal{Type: LiteralInt, Value: "2"}}}},
		},
		&ValuesStmt{Rows: [][]Expr{{&Literal{Type: LiteralInt, Value: "1"}}}},
		&InsertStmt{
			Table:     &TableName{Parts: []string{"t"}},
			Columns:   []*ColName{{Parts: []string{"id"}}},
			Values:    [][]Expr{{&Literal{Type: LiteralInt, Value: "1"}}},
			Returning: []SelectExpr{&StarExpr{}},
		},
		&UpdateStmt{
			Table: &TableName{Parts: []string{"t"}},
			Set:   []*UpdateExpr{{Column: &ColName{Parts: []string{"a"}}, Expr: &Literal{Type: LiteralInt, Value: "1"}}},
			Where: &BinaryExpr{Left: &ColName{Parts: []string{"id"}}, Right: &Literal{Type: LiteralInt, Value: "1"}},
		},
		&DeleteStmt{
			Table: &TableName{Parts: []string{"t"}},
			Where: &StringSpecifierExpr{Specifier: "e", Value: "x"},
		},
		&MergeStmt{
			Target: &AliasedTableExpr{Expr: &TableName{Parts: []string{"t"}}, Alias: "t"},
			Source: &AliasedTableExpr{Expr: &TableName{Parts: []string{"s"}}, Alias: "s"},
			On:     &BinaryExpr{Left: &ColName{Parts: []string{"t", "id"}}, Right: &ColName{Parts: []string{"s", "id"}}},
			Whens: []*WhenClause{
				{Matched: true, Action: &MergeUpdate{
					Set: []*UpdateExpr{{Column: &ColName{Parts: []string{"a"}}, Expr: &ColName{Parts: []string{"s", "a"}}}},
				}},
				{Action: &MergeInsert{
					Columns: []*ColName{{Parts: []string{"id"}}},
					Values:  []Expr{&ColName{Parts: []string{"s", "id"}}},
				}},
				{BySource: true, Action: &MergeDelete{}},
			},
		},
		&CreateSchemaStmt{Name: "app"},
		&CommentOnStmt{ObjectType: "TABLE", Name: "t", Text: "note"},
		&VacuumStmt{Table: &TableName{Parts: []string{"t"}}},
		&CheckpointStmt{},
	}

	for _, s := range stmts {
		require.NotPanics(t, func() { ReleaseAST(s) }, "%T", s)
	}
}
