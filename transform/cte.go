// Package transform implements the AST-to-AST rewrites layered on top of
// the parser: common table expression (CTE) management and renaming,
// write-statement-to-SELECT simulation, value rewriting, and the JSON CTE
// builder. Every transform operates on the ast package's node types and
// walks them with the visitor package's own Walk/Rewrite traversal rather
// than introducing a second traversal mechanism.
package transform

import (
	"strings"

	"github.com/sqlweave/sqlweave/ast"
	"github.com/sqlweave/sqlweave/sqlerr"
	"github.com/sqlweave/sqlweave/visitor"
)

// WithClauseOf returns the statement's WITH clause and whether the
// statement kind supports one at all.
func WithClauseOf(stmt ast.Statement) (*ast.WithClause, bool) {
	switch s := stmt.(type) {
	case *ast.SelectStmt:
		return s.With, true
	case *ast.InsertStmt:
		return s.With, true
	case *ast.UpdateStmt:
		return s.With, true
	case *ast.DeleteStmt:
		return s.With, true
	case *ast.MergeStmt:
		return s.With, true
	}
	return nil, false
}

// setWithClauseOf installs wc as stmt's WITH clause. Returns false if stmt
// doesn't support one.
func setWithClauseOf(stmt ast.Statement, wc *ast.WithClause) bool {
	switch s := stmt.(type) {
	case *ast.SelectStmt:
		s.With = wc
	case *ast.InsertStmt:
		s.With = wc
	case *ast.UpdateStmt:
		s.With = wc
	case *ast.DeleteStmt:
		s.With = wc
	case *ast.MergeStmt:
		s.With = wc
	default:
		return false
	}
	return true
}

// GetCTENames returns the names of every CTE directly attached to stmt, in
// definition order.
func GetCTENames(stmt ast.Statement) []string {
	wc, ok := WithClauseOf(stmt)
	if !ok || wc == nil {
		return nil
	}
	names := make([]string, len(wc.CTEs))
	for i, c := range wc.CTEs {
		names[i] = c.Name
	}
	return names
}

// cteNameEqual compares two CTE names for routing purposes:
// case-insensitively, after trimming surrounding whitespace. Emission
// always uses the stored (original-case) name; only lookups go through
// this comparison.
func cteNameEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// HasCTE reports whether stmt has a CTE matching name under the
// case-insensitive, trim-before-compare routing rule.
func HasCTE(stmt ast.Statement, name string) bool {
	wc, ok := WithClauseOf(stmt)
	if !ok || wc == nil {
		return false
	}
	for _, c := range wc.CTEs {
		if cteNameEqual(c.Name, name) {
			return true
		}
	}
	return false
}

// AddCTEOptions controls where a new CTE is inserted.
type AddCTEOptions struct {
	// Recursive marks the WITH clause as WITH RECURSIVE. Only takes
	// effect when this is the first CTE attached to stmt; an existing
	// WithClause's Recursive flag is left untouched otherwise so adding a
	// non-recursive helper CTE to a recursive WITH doesn't silently
	// demote it.
	Recursive bool
	// Before, if non-empty, inserts the new CTE immediately before the
	// named CTE instead of appending it last.
	Before string
	// Materialized maps to the CTE's MATERIALIZED/NOT MATERIALIZED hint:
	// nil leaves it unspecified, a pointer to true/false makes it explicit.
	Materialized *bool
}

// materialization converts the tri-state Materialized option into the
// ast.Materialization enum AddCTE installs on the new CTE.
func (o AddCTEOptions) materialization() ast.Materialization {
	if o.Materialized == nil {
		return ast.MaterializationUnspecified
	}
	if *o.Materialized {
		return ast.Materialized
	}
	return ast.NotMaterialized
}

// AddCTE attaches cte to stmt, creating the WITH clause if necessary.
// Returns a sqlerr.Error with CodeDuplicateCTE if a CTE with the same
// name is already present (distinct from the renamer's
// CTEAlreadyExists, which is about the rename target being taken).
func AddCTE(stmt ast.Statement, cte *ast.CTE, opts AddCTEOptions) error {
	if strings.TrimSpace(cte.Name) == "" {
		return sqlerr.New(sqlerr.CodeInvalidCTEName, "CTE name must not be empty")
	}
	if HasCTE(stmt, cte.Name) {
		return sqlerr.New(sqlerr.CodeDuplicateCTE, "CTE %q already exists", cte.Name)
	}
	if opts.Materialized != nil && cte.Materialized == ast.MaterializationUnspecified {
		cte.Materialized = opts.materialization()
	}
	wc, ok := WithClauseOf(stmt)
	if !ok {
		return sqlerr.New(sqlerr.CodeInvalidNode, "statement kind does not support WITH clauses")
	}
	if wc == nil {
		wc = &ast.WithClause{Recursive: opts.Recursive}
	}
	if opts.Before != "" {
		inserted := false
		newList := make([]*ast.CTE, 0, len(wc.CTEs)+1)
		for _, c := range wc.CTEs {
			if cteNameEqual(c.Name, opts.Before) {
				newList = append(newList, cte)
				inserted = true
			}
			newList = append(newList, c)
		}
		if !inserted {
			newList = append(newList, cte)
		}
		wc.CTEs = newList
	} else {
		wc.CTEs = append(wc.CTEs, cte)
	}
	setWithClauseOf(stmt, wc)
	return nil
}

// RemoveCTE detaches the named CTE from stmt. Returns CodeCTENotFound if
// it isn't present. The WITH clause itself is removed once the last CTE
// is gone.
func RemoveCTE(stmt ast.Statement, name string) error {
	wc, ok := WithClauseOf(stmt)
	if !ok || wc == nil || !HasCTE(stmt, name) {
		return sqlerr.New(sqlerr.CodeCTENotFound, "CTE %q not found", name)
	}
	out := wc.CTEs[:0:0]
	for _, c := range wc.CTEs {
		if !cteNameEqual(c.Name, name) {
			out = append(out, c)
		}
	}
	wc.CTEs = out
	if len(wc.CTEs) == 0 {
		setWithClauseOf(stmt, nil)
	}
	return nil
}

// ReplaceCTE swaps the query (and optionally the column list and
// materialization hint) of an existing CTE in place, preserving its
// position in the WITH clause. opts.Materialized, if non-nil, overrides
// the hint; opts.Before/Recursive are not meaningful here and are ignored.
func ReplaceCTE(stmt ast.Statement, name string, replacement *ast.CTE, opts AddCTEOptions) error {
	wc, ok := WithClauseOf(stmt)
	if !ok || wc == nil {
		return sqlerr.New(sqlerr.CodeCTENotFound, "CTE %q not found", name)
	}
	for _, c := range wc.CTEs {
		if cteNameEqual(c.Name, name) {
			c.Query = ast.CloneStatement(replacement.Query)
			if replacement.Columns != nil {
				c.Columns = append([]string(nil), replacement.Columns...)
			}
			if opts.Materialized != nil {
				c.Materialized = opts.materialization()
			} else if replacement.Materialized != ast.MaterializationUnspecified {
				c.Materialized = replacement.Materialized
			}
			return nil
		}
	}
	return sqlerr.New(sqlerr.CodeCTENotFound, "CTE %q not found", name)
}

// GetCTE returns the named CTE, or nil if absent.
func GetCTE(stmt ast.Statement, name string) *ast.CTE {
	wc, ok := WithClauseOf(stmt)
	if !ok || wc == nil {
		return nil
	}
	for _, c := range wc.CTEs {
		if cteNameEqual(c.Name, name) {
			return c
		}
	}
	return nil
}

// renameTableRefs rewrites every TableName reference to oldName (as a
// bare, unqualified reference — CTEs are never schema-qualified) to
// newName, and every column reference whose namespace segment is
// oldName to newName, anywhere in root's tree, including descending
// into sibling/later CTE bodies. It does not touch the CTE
// definition's own Name field; callers rename that separately. Used by
// RenameCTE, whose references legitimately span CTE bodies.
func renameTableRefs(root ast.Node, oldName, newName string) {
	renameTableRefsScoped(root, oldName, newName, true)
}

// renameTableRefsScoped is renameTableRefs with an option to stop at CTE
// boundaries, used by RenameTableAlias. Unlike a CTE rename, an ordinary
// table alias inside a CTE's own body belongs to that CTE's separate
// scope and must not be touched
// when renaming an alias in the outer statement, or vice versa.
//
// visitor.Walk inlines "descend into n.With.CTEs[i].Query" directly
// inside each statement case rather than visiting a distinct *ast.CTE
// node the caller could intercept, so scoping is implemented by
// temporarily detaching root's own WithClause (if it has one) before
// walking and reattaching it afterward: Walk's `if n.With != nil` guard
// then naturally skips every CTE body for the duration of this rename,
// while everything else (FROM/WHERE/column list, including nested
// subqueries) is still walked and renamed normally. When
// crossCTEBodies is set, sibling CTE bodies are then walked
// explicitly — except writable bodies (INSERT/UPDATE/DELETE/MERGE),
// which do not expose their FROM/JOIN shape for reference rewiring and
// are left untouched.
func renameTableRefsScoped(root ast.Node, oldName, newName string, crossCTEBodies bool) {
	if stmt, ok := root.(ast.Statement); ok {
		if wc, hasWith := WithClauseOf(stmt); hasWith && wc != nil {
			setWithClauseOf(stmt, nil)
			defer setWithClauseOf(stmt, wc)
			if crossCTEBodies {
				for _, cte := range wc.CTEs {
					if isWritableBody(cte.Query) {
						continue
					}
					renameTableRefsScoped(cte.Query, oldName, newName, true)
				}
			}
		}
	}
	renameRefsWalk(root, oldName, newName)
}

// isWritableBody reports whether a CTE body is a write statement
// (a writable CTE) rather than a select query.
func isWritableBody(stmt ast.Statement) bool {
	switch stmt.(type) {
	case *ast.InsertStmt, *ast.UpdateStmt, *ast.DeleteStmt, *ast.MergeStmt:
		return true
	}
	return false
}

func renameRefsWalk(root ast.Node, oldName, newName string) {
	visitor.Inspect(root, func(n ast.Node) bool {
		if tn, ok := n.(*ast.TableName); ok {
			if len(tn.Parts) == 1 && cteNameEqual(tn.Parts[0], oldName) {
				tn.Parts[0] = newName
			}
		}
		if at, ok := n.(*ast.AliasedTableExpr); ok {
			if tn, ok := at.Expr.(*ast.TableName); ok && len(tn.Parts) == 1 && cteNameEqual(tn.Parts[0], oldName) {
				tn.Parts[0] = newName
			}
		}
		if cn, ok := n.(*ast.ColName); ok && len(cn.Parts) > 1 {
			if cteNameEqual(cn.Parts[0], oldName) {
				cn.Parts[0] = newName
			}
		}
		return true
	})
}

// RenameCTE renames a CTE and every reference to it within stmt, including
// references from sibling/later CTEs and the statement's own body. It does
// not rename unrelated table aliases that happen to share the old name
// (table aliases are a separate namespace handled by RenameTableAlias).
func RenameCTE(stmt ast.Statement, oldName, newName string) error {
	oldName, newName = strings.TrimSpace(oldName), strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return sqlerr.New(sqlerr.CodeInvalidCTEName, "CTE names must not be empty")
	}
	if cteNameEqual(oldName, newName) {
		return sqlerr.New(sqlerr.CodeInvalidCTEName, "old and new CTE names must be distinct")
	}
	cte := GetCTE(stmt, oldName)
	if cte == nil {
		return sqlerr.New(sqlerr.CodeCTENotFound, "CTE %q not found", oldName)
	}
	if HasCTE(stmt, newName) {
		return sqlerr.New(sqlerr.CodeCTEAlreadyExists, "CTE %q already exists", newName)
	}
	cte.Name = newName
	renameTableRefs(stmt, oldName, newName)
	return nil
}

// RenameTableAlias renames a plain table reference (not a CTE) and its
// alias uses, scoped to stmt's own query body: it never touches a
// WithClause's CTE list, and never descends into a CTE's own body
// either, since a table alias
// declared inside a CTE is local to that CTE and not visible from (or
// shared with) the outer statement renaming its own same-named alias.
func RenameTableAlias(stmt ast.Statement, oldName, newName string) {
	renameTableRefsScoped(stmt, oldName, newName, false)
}
