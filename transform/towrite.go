package transform

import (
	"strings"

	"github.com/sqlweave/sqlweave/ast"
	"github.com/sqlweave/sqlweave/sqlerr"
	"github.com/sqlweave/sqlweave/token"
)

// ToInsertOptions configures SelectToInsert.
type ToInsertOptions struct {
	// TargetColumns names the insert's column list. When empty, the
	// column list is derived from the select's own aliases/column
	// names where possible.
	TargetColumns []string
	// ConflictResolution, when set, becomes the insert's ON CONFLICT
	// clause.
	ConflictResolution *ast.OnConflict
}

// ToUpdateOptions configures SelectToUpdate.
type ToUpdateOptions struct {
	// TargetRow maps column names to their new values, in SET order.
	TargetRow []*ast.UpdateExpr
	// WhereByPrimaryKey names the key columns used to locate the rows
	// the select identifies.
	WhereByPrimaryKey []string
}

// ToDeleteOptions configures SelectToDelete.
type ToDeleteOptions struct {
	WhereByPrimaryKey []string
}

// ToMergeOptions configures SelectToMerge.
type ToMergeOptions struct {
	OnCondition ast.Expr
	WhenClauses []*ast.WhenClause
}

// SelectToInsert converts a select query into INSERT INTO table ...
// SELECT, cloning the select so the caller's tree is untouched. The
// select's WITH clause migrates onto the insert, where it belongs once
// the select becomes a source subquery.
func SelectToInsert(stmt ast.Statement, table string, opts ToInsertOptions) (*ast.InsertStmt, error) {
	sel, err := ToSimpleQuery(stmt, nil)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(table) == "" {
		return nil, sqlerr.New(sqlerr.CodeInvalidNode, "target table name is empty")
	}
	src := cloneSelect(sel)
	out := &ast.InsertStmt{
		Table:      &ast.TableName{Parts: []string{table}},
		Select:     src,
		OnConflict: opts.ConflictResolution,
	}
	out.With, src.With = src.With, nil

	columns := opts.TargetColumns
	if len(columns) == 0 {
		columns = synthesizedSelectColumns(src)
	}
	for _, c := range columns {
		out.Columns = append(out.Columns, &ast.ColName{Parts: []string{c}})
	}
	if len(out.Columns) > 0 && selectArity(src) >= 0 && selectArity(src) != len(out.Columns) {
		return nil, sqlerr.New(sqlerr.CodeArityMismatch,
			"select projects %d items but %d target columns were given", selectArity(src), len(out.Columns))
	}
	return out, nil
}

// SelectToUpdate converts a select into an UPDATE that assigns
// opts.TargetRow and locates its rows by the primary-key columns: the
// generated WHERE requires each key column to match the select's rows via
// IN (SELECT key ...). The key columns are not checked against the
// select's projection.
func SelectToUpdate(stmt ast.Statement, table string, opts ToUpdateOptions) (*ast.UpdateStmt, error) {
	sel, err := ToSimpleQuery(stmt, nil)
	if err != nil {
		return nil, err
	}
	if len(opts.TargetRow) == 0 {
		return nil, sqlerr.New(sqlerr.CodeInvalidNode, "TargetRow is empty")
	}
	set := make([]*ast.UpdateExpr, len(opts.TargetRow))
	for i, ue := range opts.TargetRow {
		set[i] = &ast.UpdateExpr{Column: ast.CloneExpr(ue.Column).(*ast.ColName), Expr: ast.CloneExpr(ue.Expr)}
	}
	where, err := keyMembership(sel, opts.WhereByPrimaryKey)
	if err != nil {
		return nil, err
	}
	return &ast.UpdateStmt{
		Table: &ast.TableName{Parts: []string{table}},
		Set:   set,
		Where: where,
	}, nil
}

// SelectToDelete converts a select into a DELETE whose WHERE restricts
// the target to the primary-key values the select yields.
func SelectToDelete(stmt ast.Statement, table string, opts ToDeleteOptions) (*ast.DeleteStmt, error) {
	sel, err := ToSimpleQuery(stmt, nil)
	if err != nil {
		return nil, err
	}
	where, err := keyMembership(sel, opts.WhereByPrimaryKey)
	if err != nil {
		return nil, err
	}
	return &ast.DeleteStmt{
		Table: &ast.TableName{Parts: []string{table}},
		Where: where,
	}, nil
}

// SelectToMerge converts a select into MERGE INTO table USING (select)
// AS src ON condition, with the caller's WHEN clauses. MERGE requires
// at least one WHEN clause and an ON condition.
func SelectToMerge(stmt ast.Statement, table string, opts ToMergeOptions) (*ast.MergeStmt, error) {
	sel, err := ToSimpleQuery(stmt, nil)
	if err != nil {
		return nil, err
	}
	if opts.OnCondition == nil {
		return nil, sqlerr.New(sqlerr.CodeInvalidNode, "MERGE requires an ON condition")
	}
	if len(opts.WhenClauses) == 0 {
		return nil, sqlerr.New(sqlerr.CodeInvalidNode, "MERGE requires at least one WHEN clause")
	}
	return &ast.MergeStmt{
		Target: &ast.AliasedTableExpr{Expr: &ast.TableName{Parts: []string{table}}},
		Source: &ast.AliasedTableExpr{
			Expr:  &ast.Subquery{Select: cloneSelect(sel)},
			Alias: "src",
		},
		On:    ast.CloneExpr(opts.OnCondition),
		Whens: opts.WhenClauses,
	}, nil
}

// keyMembership builds `k IN (SELECT k FROM (sel) q)` per key column,
// ANDed together for composite keys. Per-column membership rather than
// a row constructor keeps the predicate within the AST's expression
// vocabulary; callers with composite keys whose columns correlate
// should pre-project a single synthetic key column instead.
func keyMembership(sel *ast.SelectStmt, keys []string) (ast.Expr, error) {
	if len(keys) == 0 {
		return nil, sqlerr.New(sqlerr.CodeInvalidNode, "WhereByPrimaryKey is empty")
	}
	var where ast.Expr
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			return nil, sqlerr.New(sqlerr.CodeInvalidNode, "primary key column name is empty")
		}
		inner := &ast.SelectStmt{
			Columns: []ast.SelectExpr{&ast.AliasedExpr{Expr: &ast.ColName{Parts: []string{k}}}},
			From: &ast.AliasedTableExpr{
				Expr:  &ast.Subquery{Select: cloneSelect(sel)},
				Alias: "q",
			},
		}
		in := &ast.InExpr{
			Expr:   &ast.ColName{Parts: []string{k}},
			Select: inner,
		}
		if where == nil {
			where = in
		} else {
			where = &ast.BinaryExpr{Op: token.AND, Left: where, Right: in}
		}
	}
	return where, nil
}
