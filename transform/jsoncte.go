package transform

import (
	"fmt"

	"github.com/sqlweave/sqlweave/ast"
	"github.com/sqlweave/sqlweave/token"
)

// EntityNode describes one level of a nested object graph to be flattened
// into JSON: a table, the column that joins it to its parent, which
// scalar columns to project directly, and any nested child entities.
type EntityNode struct {
	Name     string // becomes the JSON key and part of the CTE alias
	Table    *ast.TableName
	IDColumn string   // primary key; child CTEs join on it and the aggregate FILTER tests it
	ParentFK string   // column on Table referencing the parent's IDColumn (root: unused)
	Scalars  []string // plain columns projected as JSON object fields
	Children []*EntityNode
}

// BuildJSONCTEChain builds a chain of CTEs for a nested object graph: every
// leaf and intermediate entity gets its own CTE that aggregates its rows
// (and any already-built child CTEs) into a jsonb array grouped by its
// parent's join column, deepest entities first so each parent CTE can
// reference its children's. The final return value is the outer SELECT
// that reads the root entity joined against its top-level child CTEs.
func BuildJSONCTEChain(root *EntityNode) (*ast.WithClause, *ast.SelectStmt) {
	wc := &ast.WithClause{}
	counter := 0
	childAliases := buildChildren(wc, root, &counter)

	cols := make([]ast.SelectExpr, 0, len(root.Scalars)+len(childAliases))
	for _, s := range root.Scalars {
		cols = append(cols, &ast.AliasedExpr{Expr: &ast.ColName{Parts: []string{root.Name, s}}})
	}
	for _, ca := range childAliases {
		cols = append(cols, &ast.AliasedExpr{
			Expr:  &ast.ColName{Parts: []string{ca.alias, "data"}},
			Alias: ca.child.Name,
		})
	}

	from := ast.TableExpr(&ast.AliasedTableExpr{Expr: root.Table, Alias: root.Name})
	for _, ca := range childAliases {
		from = &ast.JoinExpr{
			Type: ast.JoinLeft,
			Left: from,
			Right: &ast.AliasedTableExpr{
				Expr:  &ast.TableName{Parts: []string{ca.alias}},
				Alias: ca.alias,
			},
			On: &ast.BinaryExpr{
				Op:   token.EQ,
				Left: &ast.ColName{Parts: []string{root.Name, root.IDColumn}},
				Right: &ast.ColName{Parts: []string{ca.alias, "parent_id"}},
			},
		}
	}

	return wc, &ast.SelectStmt{With: wc, Columns: cols, From: from}
}

type childAlias struct {
	child *EntityNode
	alias string
}

// buildChildren recurses postorder (children before parent), appending one
// CTE per child to wc, and returns the aliases the caller's FROM clause
// needs to join against.
func buildChildren(wc *ast.WithClause, parent *EntityNode, counter *int) []childAlias {
	aliases := make([]childAlias, 0, len(parent.Children))
	for _, child := range parent.Children {
		grandchildren := buildChildren(wc, child, counter)
		*counter++
		alias := fmt.Sprintf("%s_json_%d", child.Name, *counter)

		jsonFields := make([]ast.Expr, 0, len(child.Scalars)*2+len(grandchildren)*2)
		for _, s := range child.Scalars {
			jsonFields = append(jsonFields,
				&ast.Literal{Type: ast.LiteralString, Value: s},
				&ast.ColName{Parts: []string{child.Name, s}},
			)
		}
		for _, gc := range grandchildren {
			jsonFields = append(jsonFields,
				&ast.Literal{Type: ast.LiteralString, Value: gc.child.Name},
				&ast.ColName{Parts: []string{gc.alias, "data"}},
			)
		}

		jsonObject := &ast.FuncExpr{Name: "jsonb_build_object", Args: jsonFields}
		agg := &ast.FuncExpr{Name: "jsonb_agg", Args: []ast.Expr{jsonObject}}
		// NULL-collapse: a parent with no matching child rows gets '[]'
		// instead of a one-element array containing an all-NULL object.
		collapsed := &ast.FuncExpr{
			Name: "coalesce",
			Args: []ast.Expr{
				aggFiltered(agg, child),
				&ast.CastExpr{
					Expr: &ast.Literal{Type: ast.LiteralString, Value: "[]"},
					Type: &ast.DataType{Name: "jsonb"},
				},
			},
		}

		from := ast.TableExpr(&ast.AliasedTableExpr{Expr: child.Table, Alias: child.Name})
		for _, gc := range grandchildren {
			from = &ast.JoinExpr{
				Type: ast.JoinLeft,
				Left: from,
				Right: &ast.AliasedTableExpr{
					Expr:  &ast.TableName{Parts: []string{gc.alias}},
					Alias: gc.alias,
				},
				On: &ast.BinaryExpr{
					Op:    token.EQ,
					Left:  &ast.ColName{Parts: []string{child.Name, child.IDColumn}},
					Right: &ast.ColName{Parts: []string{gc.alias, "parent_id"}},
				},
			}
		}

		cteQuery := &ast.SelectStmt{
			Columns: []ast.SelectExpr{
				&ast.AliasedExpr{Expr: &ast.ColName{Parts: []string{child.Name, child.ParentFK}}, Alias: "parent_id"},
				&ast.AliasedExpr{Expr: collapsed, Alias: "data"},
			},
			From:    from,
			GroupBy: []ast.Expr{&ast.ColName{Parts: []string{child.Name, child.ParentFK}}},
		}

		wc.CTEs = append(wc.CTEs, &ast.CTE{Name: alias, Query: cteQuery})
		aliases = append(aliases, childAlias{child: child, alias: alias})
	}
	return aliases
}

// aggFiltered restricts the aggregate to rows where the join actually
// matched, so an outer-joined parent with zero children doesn't produce a
// one-element array of NULLs.
func aggFiltered(agg *ast.FuncExpr, child *EntityNode) ast.Expr {
	agg.Filter = &ast.IsExpr{
		Expr: &ast.ColName{Parts: []string{child.Name, child.IDColumn}},
		Not:  true,
		What: ast.IsNull,
	}
	return agg
}
