package transform

import (
	"github.com/sqlweave/sqlweave/ast"
	"github.com/sqlweave/sqlweave/sqlerr"
)

// subqueryAlias is the fixed alias ยง4.2 gives a binary query wrapped as a
// derived table: `SELECT * FROM (<union>) AS bq`.
const subqueryAlias = "bq"

// ToSimpleQuery normalizes any SelectQuery variant (SimpleSelectQuery,
// BinarySelectQuery, ValuesQuery) into a SimpleSelectQuery:
//
//   - A *ast.SelectStmt is already simple and is returned unchanged, making
//     the operation idempotent (ToSimpleQuery(ToSimpleQuery(q)) == ToSimpleQuery(q)).
//   - A *ast.SetOp (UNION/INTERSECT/EXCEPT) is wrapped in a SimpleSelectQuery
//     whose FROM is a subquery source over the original binary, aliased "bq".
//   - A *ast.ValuesStmt requires valuesColumns (the column aliases the VALUES
//     rows are projected under); absent that, it fails with
//     CodeMissingColumnAliases. The VALUES becomes a derived table aliased
//     "bq" with those column names, and the outer SELECT projects them back
//     out by name.
//
// Any other statement kind fails with CodeUnsupportedQueryType.
func ToSimpleQuery(stmt ast.Statement, valuesColumns []string) (*ast.SelectStmt, error) {
	switch s := stmt.(type) {
	case *ast.SelectStmt:
		return s, nil
	case *ast.SetOp:
		return &ast.SelectStmt{
			StartPos: s.StartPos,
			EndPos:   s.EndPos,
			Columns:  []ast.SelectExpr{&ast.StarExpr{}},
			From: &ast.AliasedTableExpr{
				Expr:  &ast.ParenTableExpr{StartPos: s.StartPos, EndPos: s.EndPos, Expr: s},
				Alias: subqueryAlias,
			},
		}, nil
	case *ast.ValuesStmt:
		if len(valuesColumns) == 0 {
			return nil, sqlerr.New(sqlerr.CodeMissingColumnAliases,
				"VALUES query requires column aliases to convert to a simple query")
		}
		cols := make([]ast.SelectExpr, len(valuesColumns))
		for i, name := range valuesColumns {
			cols[i] = &ast.AliasedExpr{Expr: &ast.ColName{Parts: []string{subqueryAlias, name}}}
		}
		return &ast.SelectStmt{
			StartPos: s.StartPos,
			EndPos:   s.EndPos,
			Columns:  cols,
			From: &ast.AliasedTableExpr{
				Expr:    s,
				Alias:   subqueryAlias,
				Columns: append([]string(nil), valuesColumns...),
			},
		}, nil
	default:
		return nil, sqlerr.New(sqlerr.CodeUnsupportedQueryType,
			"%T cannot be converted to a simple query", stmt)
	}
}
