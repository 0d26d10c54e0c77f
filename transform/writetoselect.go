package transform

import (
	"fmt"
	"strings"

	"github.com/sqlweave/sqlweave/ast"
	"github.com/sqlweave/sqlweave/sqlerr"
	"github.com/sqlweave/sqlweave/token"
	"github.com/sqlweave/sqlweave/visitor"
)

// FixtureColumn describes one column of a table as needed to simulate a
// write statement against it: its SQL type (for CAST), whether a value is
// required, and the default expression to use when a row omits it.
type FixtureColumn struct {
	Name     string
	Type     *ast.DataType
	Required bool
	Default  ast.Expr
}

// TableFixture is the minimal table-definition lookup the write-to-select
// transform needs: just enough of CREATE TABLE's shape to CAST values and
// fill in defaults, not a full catalog. A fixture may additionally carry
// literal Rows; such a fixture shadows the physical table inside the
// simulated SELECT via a prepended CTE of those rows.
type TableFixture struct {
	Name    string
	Columns []FixtureColumn
	Rows    [][]ast.Expr
}

func (f *TableFixture) column(name string) (FixtureColumn, bool) {
	for _, c := range f.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return FixtureColumn{}, false
}

func (f *TableFixture) columnNames() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// MissingFixtureStrategy controls what happens when the simulated SELECT
// references a table with no matching TableFixture.
type MissingFixtureStrategy int

const (
	// MissingFixtureError fails the conversion outright.
	MissingFixtureError MissingFixtureStrategy = iota
	// MissingFixtureWarn logs via Logger and proceeds; the unshadowed
	// table is read as-is by the simulated SELECT.
	MissingFixtureWarn
	// MissingFixturePassthrough proceeds silently, the same as Warn but
	// without logging.
	MissingFixturePassthrough
)

// TableResolver lets a caller supply table definitions on demand instead
// of registering them ahead of time. Returning nil means "unknown here";
// resolution then falls through to TableDefinitions and Fixtures.
type TableResolver func(tableName string) *TableFixture

// ConvertOptions configures a write-statement-to-SELECT conversion. The
// target table's definition is resolved in order: Resolver callback,
// TableDefinitions registry (keys are dotted qualified names, compared
// case-insensitively), then Fixtures.
type ConvertOptions struct {
	Resolver               TableResolver
	TableDefinitions       map[string]*TableFixture
	Fixtures               map[string]*TableFixture
	MissingFixtureStrategy MissingFixtureStrategy
	Logger                 Logger
	RowsCTEName            string // defaults to "__inserted_rows"
}

func (o ConvertOptions) rowsCTEName() string {
	if o.RowsCTEName != "" {
		return o.RowsCTEName
	}
	return "__inserted_rows"
}

func (o ConvertOptions) logger() Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return noopLogger{}
}

func (o ConvertOptions) hasDefinitions() bool {
	return o.Resolver != nil || len(o.TableDefinitions) > 0 || len(o.Fixtures) > 0
}

// lookupFixture finds tableName's fixture under the case-insensitive
// identifier-equality rule: an exact key match is tried first (the
// common case, and the fast one), falling back to a case-insensitive
// scan only when that misses.
func lookupFixture(fixtures map[string]*TableFixture, tableName string) *TableFixture {
	if fx, ok := fixtures[tableName]; ok {
		return fx
	}
	for name, fx := range fixtures {
		if strings.EqualFold(name, tableName) {
			return fx
		}
	}
	return nil
}

// resolveTable resolves a table's definition through the three sources in
// order. A nil result means no source had a definition; tableFixtureFor
// and checkReferencedTables decide what that means for the caller.
func resolveTable(opts ConvertOptions, qualified string) *TableFixture {
	bare := qualified
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		bare = qualified[i+1:]
	}
	if opts.Resolver != nil {
		if fx := opts.Resolver(qualified); fx != nil {
			return fx
		}
		if bare != qualified {
			if fx := opts.Resolver(bare); fx != nil {
				return fx
			}
		}
	}
	if fx := lookupFixture(opts.TableDefinitions, qualified); fx != nil {
		return fx
	}
	if fx := lookupFixture(opts.TableDefinitions, bare); fx != nil {
		return fx
	}
	if fx := lookupFixture(opts.Fixtures, qualified); fx != nil {
		return fx
	}
	return lookupFixture(opts.Fixtures, bare)
}

// tableFixtureFor resolves the write statement's target table. Callers
// that configured no definition source at all are treated as having
// opted out of fixture simulation entirely: values pass through uncast
// and undefaulted. When a Resolver or TableDefinitions is configured, an
// unresolvable target is UnknownTable regardless of MissingFixtureStrategy.
// When only Fixtures are configured, the strategy applies to the target
// too: Error fails with MissingFixture, Warn logs and proceeds, Passthrough
// proceeds silently, the last two with values uncast and undefaulted.
func tableFixtureFor(opts ConvertOptions, tableName string) (*TableFixture, error) {
	if fx := resolveTable(opts, tableName); fx != nil {
		return fx, nil
	}
	if !opts.hasDefinitions() {
		return nil, nil
	}
	if opts.Resolver != nil || len(opts.TableDefinitions) > 0 {
		return nil, sqlerr.New(sqlerr.CodeUnknownTable, "no table definition for %q", tableName)
	}
	switch opts.MissingFixtureStrategy {
	case MissingFixtureWarn:
		opts.logger().Warnf("no fixture for table %q; simulated rows will not be cast or defaulted", tableName)
		return nil, nil
	case MissingFixturePassthrough:
		return nil, nil
	default:
		return nil, sqlerr.New(sqlerr.CodeMissingFixture, "no fixture registered for table %q", tableName)
	}
}

// checkReferencedTables walks every physical table the simulated SELECT
// will read (the source query plus existing WITH bodies, excluding CTE
// aliases) and applies the missing-fixture strategy to each one that has
// no matching definition.
func checkReferencedTables(opts ConvertOptions, roots []ast.Node, cteNames map[string]bool) error {
	if !opts.hasDefinitions() {
		return nil
	}
	seen := map[string]bool{}
	var failed string
	for _, root := range roots {
		if root == nil {
			continue
		}
		visitor.Inspect(root, func(n ast.Node) bool {
			if failed != "" {
				return false
			}
			tn, ok := n.(*ast.TableName)
			if !ok {
				return true
			}
			name := strings.Join(tn.Parts, ".")
			key := strings.ToLower(name)
			if seen[key] || cteNames[strings.ToLower(tn.Parts[len(tn.Parts)-1])] {
				return true
			}
			seen[key] = true
			if resolveTable(opts, name) != nil {
				return true
			}
			switch opts.MissingFixtureStrategy {
			case MissingFixtureWarn:
				opts.logger().Warnf("no fixture for referenced table %q", name)
			case MissingFixturePassthrough:
			default:
				failed = name
			}
			return true
		})
	}
	if failed != "" {
		return sqlerr.New(sqlerr.CodeMissingFixture, "no fixture registered for referenced table %q", failed)
	}
	return nil
}

// rowSelect renders one VALUES row as a single-row SELECT whose items are
// aliased to the target column names, casting each value to its declared
// type when known and not already cast.
func rowSelect(row []ast.Expr, columns []string, fx *TableFixture) *ast.SelectStmt {
	items := make([]ast.SelectExpr, len(row))
	for j, v := range row {
		alias := ""
		if j < len(columns) {
			alias = columns[j]
		}
		items[j] = &ast.AliasedExpr{Expr: castTo(v, alias, fx), Alias: alias}
	}
	return &ast.SelectStmt{Columns: items}
}

func castTo(v ast.Expr, column string, fx *TableFixture) ast.Expr {
	if fx == nil || column == "" {
		return v
	}
	if _, already := v.(*ast.CastExpr); already {
		return v
	}
	if col, ok := fx.column(column); ok && col.Type != nil {
		return &ast.CastExpr{Expr: v, Type: col.Type}
	}
	return v
}

// valuesAsSelects rewrites a VALUES row list as the equivalent UNION ALL
// chain of single-row SELECTs; a single row is a plain SELECT.
func valuesAsSelects(rows [][]ast.Expr, columns []string, fx *TableFixture) ast.Statement {
	var out ast.Statement = rowSelect(rows[0], columns, fx)
	for _, row := range rows[1:] {
		out = &ast.SetOp{Type: ast.Union, All: true, Left: out, Right: rowSelect(row, columns, fx)}
	}
	return out
}

// applyCasts wraps each projected item of a source SELECT in a CAST to
// the declared column type, recursing into each branch of a set
// operation. Items that already are casts are left alone.
func applyCasts(body ast.Statement, columns []string, fx *TableFixture) {
	if fx == nil {
		return
	}
	switch s := body.(type) {
	case *ast.SelectStmt:
		for j, item := range s.Columns {
			ae, ok := item.(*ast.AliasedExpr)
			if !ok || j >= len(columns) {
				continue
			}
			ae.Expr = castTo(ae.Expr, columns[j], fx)
		}
	case *ast.SetOp:
		applyCasts(s.Left, columns, fx)
		applyCasts(s.Right, columns, fx)
	}
}

// uniqueCTEName returns base, or base_N for the smallest N >= 2 that
// collides with no name in taken.
func uniqueCTEName(base string, taken map[string]bool) string {
	if !taken[strings.ToLower(base)] {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", base, n)
		if !taken[strings.ToLower(candidate)] {
			return candidate
		}
	}
}

// fixtureShadowCTEs builds one CTE per referenced physical table whose
// fixture carries literal rows, shadowing the table inside the simulated
// SELECT. Order follows the referenced-table discovery order.
func fixtureShadowCTEs(opts ConvertOptions, roots []ast.Node, cteNames map[string]bool) []*ast.CTE {
	if len(opts.Fixtures) == 0 {
		return nil
	}
	var shadows []*ast.CTE
	seen := map[string]bool{}
	for _, root := range roots {
		if root == nil {
			continue
		}
		visitor.Inspect(root, func(n ast.Node) bool {
			tn, ok := n.(*ast.TableName)
			if !ok {
				return true
			}
			name := tn.Parts[len(tn.Parts)-1]
			key := strings.ToLower(name)
			if seen[key] || cteNames[key] {
				return true
			}
			seen[key] = true
			fx := lookupFixture(opts.Fixtures, name)
			if fx == nil || len(fx.Rows) == 0 {
				return true
			}
			shadows = append(shadows, &ast.CTE{
				Name:    name,
				Columns: fx.columnNames(),
				Query:   valuesAsSelects(cloneRows(fx.Rows), fx.columnNames(), fx),
			})
			return true
		})
	}
	return shadows
}

// returningToSelect turns a RETURNING list into the outer SELECT that
// reads from the rows CTE; an empty RETURNING list yields the affected
// row count instead.
func returningToSelect(rowsCTEName string, returning []ast.SelectExpr) *ast.SelectStmt {
	var cols []ast.SelectExpr
	if len(returning) == 0 {
		cols = []ast.SelectExpr{&ast.AliasedExpr{
			Expr:  &ast.FuncExpr{Name: "count", Args: []ast.Expr{&ast.StarExpr{}}},
			Alias: "count",
		}}
	} else {
		cols = returning
	}
	return &ast.SelectStmt{
		Columns: cols,
		From: &ast.AliasedTableExpr{
			Expr: &ast.TableName{Parts: []string{rowsCTEName}},
		},
	}
}

// columnMeta is the per-column record driving RETURNING resolution:
// whether the insert provided the column, and what to project when it
// did not.
type columnMeta struct {
	provided bool
	col      FixtureColumn
}

func buildColumnMeta(columns []string, fx *TableFixture) map[string]columnMeta {
	meta := map[string]columnMeta{}
	for _, name := range columns {
		m := columnMeta{provided: true}
		if fx != nil {
			m.col, _ = fx.column(name)
		}
		meta[strings.ToLower(name)] = m
	}
	if fx != nil {
		for _, col := range fx.Columns {
			key := strings.ToLower(col.Name)
			if _, ok := meta[key]; !ok {
				meta[key] = columnMeta{col: col}
			}
		}
	}
	return meta
}

// projectColumn resolves one returned column name against the column
// metadata: provided columns read from the rows CTE, unprovided columns
// with a default project the default expression, anything else is NULL.
func projectColumn(rowsCTEName, name string, meta map[string]columnMeta) ast.Expr {
	m, ok := meta[strings.ToLower(name)]
	switch {
	case ok && m.provided:
		return &ast.ColName{Parts: []string{rowsCTEName, name}}
	case ok && m.col.Default != nil:
		return ast.CloneExpr(m.col.Default)
	default:
		return &ast.Literal{Type: ast.LiteralNull}
	}
}

// rewriteReturning resolves a RETURNING list against the rows CTE. A bare
// `*` expands to the full column list in table order (fixture order when
// known, effective-column order otherwise); every column reference is
// routed to the rows CTE, a default expression, or NULL.
func rewriteReturning(rowsCTEName string, returning []ast.SelectExpr, columns []string, fx *TableFixture) []ast.SelectExpr {
	meta := buildColumnMeta(columns, fx)
	tableOrder := columns
	if fx != nil {
		tableOrder = fx.columnNames()
	}
	var out []ast.SelectExpr
	for _, item := range returning {
		switch it := item.(type) {
		case *ast.StarExpr:
			for _, name := range tableOrder {
				out = append(out, &ast.AliasedExpr{
					Expr:  projectColumn(rowsCTEName, name, meta),
					Alias: name,
				})
			}
		case *ast.AliasedExpr:
			expr := ast.CloneExpr(it.Expr)
			alias := it.Alias
			if cn, ok := expr.(*ast.ColName); ok {
				name := cn.Parts[len(cn.Parts)-1]
				if alias == "" {
					alias = name
				}
				out = append(out, &ast.AliasedExpr{Expr: projectColumn(rowsCTEName, name, meta), Alias: alias})
				continue
			}
			expr = rewriteExprField(expr, func(e ast.Expr) (ast.Expr, bool) {
				cn, ok := e.(*ast.ColName)
				if !ok {
					return nil, false
				}
				return projectColumn(rowsCTEName, cn.Parts[len(cn.Parts)-1], meta), true
			})
			out = append(out, &ast.AliasedExpr{Expr: expr, Alias: alias})
		default:
			out = append(out, ast.CloneSelectExpr(item))
		}
	}
	return out
}

// requiredColumnsOf returns the column name list a write statement is
// operating against: the explicit column list if given, else every
// fixture column in fixture order, else nil (values are positional
// against an unknown schema).
func requiredColumnsOf(explicit []*ast.ColName, fx *TableFixture) []string {
	if len(explicit) > 0 {
		names := make([]string, len(explicit))
		for i, c := range explicit {
			names[i] = c.Parts[len(c.Parts)-1]
		}
		return names
	}
	if fx == nil {
		return nil
	}
	return fx.columnNames()
}

// fillDefaults pads each row out to len(columns) using fixture defaults
// for any trailing columns the statement omitted.
func fillDefaults(rows [][]ast.Expr, columns []string, fx *TableFixture) [][]ast.Expr {
	if fx == nil {
		return rows
	}
	out := make([][]ast.Expr, len(rows))
	for i, row := range rows {
		if len(row) >= len(columns) {
			out[i] = row
			continue
		}
		padded := make([]ast.Expr, len(columns))
		copy(padded, row)
		for j := len(row); j < len(columns); j++ {
			if col, ok := fx.column(columns[j]); ok && col.Default != nil {
				padded[j] = ast.CloneExpr(col.Default)
			} else {
				padded[j] = &ast.Literal{Type: ast.LiteralNull}
			}
		}
		out[i] = padded
	}
	return out
}

// checkRequiredColumns rejects the conversion when a column that is
// required (NOT NULL, no default) is absent from the effective column
// list, rather than silently inserting NULL into a column the schema
// forbids it in.
func checkRequiredColumns(fx *TableFixture, columns []string) error {
	if fx == nil {
		return nil
	}
	provided := make(map[string]bool, len(columns))
	for _, c := range columns {
		provided[strings.ToLower(c)] = true
	}
	for _, col := range fx.Columns {
		if col.Required && col.Default == nil && !provided[strings.ToLower(col.Name)] {
			return sqlerr.New(sqlerr.CodeRequiredColumnMissing,
				"column %q is required but neither provided nor defaulted", col.Name)
		}
	}
	return nil
}

// checkRowArity enforces the effective-columns-vs-values arity invariant
// on the input side: every VALUES row must supply no more values than
// the effective column list names (rows may supply fewer, topped up by
// fillDefaults, but never more).
func checkRowArity(rows [][]ast.Expr, columns []string) error {
	if columns == nil {
		return nil
	}
	for i, row := range rows {
		if len(row) > len(columns) {
			return sqlerr.New(sqlerr.CodeArityMismatch,
				"row %d supplies %d values but only %d columns are effective", i, len(row), len(columns))
		}
	}
	return nil
}

func tableNameOf(te ast.TableExpr) string {
	switch t := te.(type) {
	case *ast.TableName:
		return t.Parts[len(t.Parts)-1]
	case *ast.AliasedTableExpr:
		return tableNameOf(t.Expr)
	}
	return ""
}

// rootNodes gathers the non-nil walk roots for referenced-table checks:
// the source query (when any) plus the statement's own WITH clause.
func rootNodes(body ast.Statement, wc *ast.WithClause) []ast.Node {
	var roots []ast.Node
	if body != nil {
		roots = append(roots, body)
	}
	if wc != nil {
		roots = append(roots, wc)
	}
	return roots
}

func cteNameSet(wc *ast.WithClause, extra ...string) map[string]bool {
	names := map[string]bool{}
	if wc != nil {
		for _, cte := range wc.CTEs {
			names[strings.ToLower(cte.Name)] = true
		}
	}
	for _, n := range extra {
		names[strings.ToLower(n)] = true
	}
	return names
}

// synthesizedColumns names positional VALUES columns the way PostgreSQL
// names an aliased VALUES list: column1, column2, ...
func synthesizedColumns(rows [][]ast.Expr) []string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	names := make([]string, width)
	for i := range names {
		names[i] = fmt.Sprintf("column%d", i+1)
	}
	return names
}

// InsertToSelect simulates an INSERT as a SELECT whose result set matches
// the statement's RETURNING projection (or the affected row count when
// RETURNING is absent). The rows the insert would have written are
// materialized as a CTE: a VALUES source is rewritten into the
// equivalent UNION ALL of aliased single-row SELECTs, an INSERT ...
// SELECT embeds the source query directly. Fixtures with rows shadow the
// physical tables the source reads. The input statement is never
// mutated.
func InsertToSelect(stmt *ast.InsertStmt, opts ConvertOptions) (*ast.SelectStmt, error) {
	if stmt.Select == nil && len(stmt.Values) == 0 {
		return nil, sqlerr.New(sqlerr.CodeUnsupportedValuesPayload,
			"INSERT carries neither a VALUES list nor a source query")
	}
	tableName := strings.Join(stmt.Table.Parts, ".")
	fx, err := tableFixtureFor(opts, tableName)
	if err != nil {
		return nil, err
	}

	columns := requiredColumnsOf(stmt.Columns, fx)
	var body ast.Statement
	if stmt.Select != nil {
		sel := cloneSelect(stmt.Select)
		refRoots := rootNodes(sel, stmt.With)
		taken := cteNameSet(stmt.With, stmt.Table.Parts[len(stmt.Table.Parts)-1])
		if err := checkReferencedTables(opts, refRoots, taken); err != nil {
			return nil, err
		}
		if columns == nil && fx == nil {
			columns = synthesizedSelectColumns(sel)
		}
		if columns != nil && selectArity(sel) >= 0 && selectArity(sel) != len(columns) {
			return nil, sqlerr.New(sqlerr.CodeArityMismatch,
				"source query projects %d items but %d columns are effective", selectArity(sel), len(columns))
		}
		applyCasts(sel, columns, fx)
		body = sel
	} else {
		if err := checkRequiredColumns(fx, columns); err != nil {
			return nil, err
		}
		if err := checkRowArity(stmt.Values, columns); err != nil {
			return nil, err
		}
		rows := cloneRows(stmt.Values)
		if columns == nil {
			columns = synthesizedColumns(rows)
		}
		rows = fillDefaults(rows, columns, fx)
		if err := checkReferencedTables(opts, rootNodes(nil, stmt.With), cteNameSet(stmt.With)); err != nil {
			return nil, err
		}
		body = valuesAsSelects(rows, columns, fx)
	}

	taken := cteNameSet(stmt.With)
	shadows := fixtureShadowCTEs(opts, rootNodes(body, stmt.With), taken)
	for _, s := range shadows {
		taken[strings.ToLower(s.Name)] = true
	}
	rowsName := uniqueCTEName(opts.rowsCTEName(), taken)

	rowsCTE := &ast.CTE{Name: rowsName, Columns: columns, Query: body}
	var outer *ast.SelectStmt
	if len(stmt.Returning) == 0 {
		outer = returningToSelect(rowsName, nil)
	} else {
		outer = returningToSelect(rowsName, rewriteReturning(rowsName, stmt.Returning, columns, fx))
	}

	with := &ast.WithClause{}
	with.CTEs = append(with.CTEs, shadows...)
	if stmt.With != nil {
		with.Recursive = stmt.With.Recursive
		for _, cte := range stmt.With.CTEs {
			with.CTEs = append(with.CTEs, ast.Clone(cte).(*ast.CTE))
		}
	}
	with.CTEs = append(with.CTEs, rowsCTE)
	outer.With = with
	return outer, nil
}

// selectArity reports the projected item count of a source query, or -1
// when a star projection makes it unknowable without a catalog.
func selectArity(body ast.Statement) int {
	switch s := body.(type) {
	case *ast.SelectStmt:
		for _, item := range s.Columns {
			if _, ok := item.(*ast.StarExpr); ok {
				return -1
			}
		}
		return len(s.Columns)
	case *ast.SetOp:
		return selectArity(s.Left)
	}
	return -1
}

// synthesizedSelectColumns derives effective column names from a source
// query's own projection: aliases where present, bare column names where
// the item is a plain reference, positional names otherwise.
func synthesizedSelectColumns(body ast.Statement) []string {
	s, ok := body.(*ast.SelectStmt)
	if !ok {
		if op, ok := body.(*ast.SetOp); ok {
			return synthesizedSelectColumns(op.Left)
		}
		return nil
	}
	names := make([]string, len(s.Columns))
	for i, item := range s.Columns {
		ae, ok := item.(*ast.AliasedExpr)
		if !ok {
			return nil
		}
		switch {
		case ae.Alias != "":
			names[i] = ae.Alias
		default:
			if cn, ok := ae.Expr.(*ast.ColName); ok {
				names[i] = cn.Parts[len(cn.Parts)-1]
			} else {
				names[i] = fmt.Sprintf("column%d", i+1)
			}
		}
	}
	return names
}

// cloneSelect, cloneRows, and cloneReturning guard the "transformers that
// yield a new tree must leave the input untouched" contract: the VALUES
// rows and RETURNING items embedded in the simulated SELECT are fresh
// nodes, not aliases into stmt's own tree.
func cloneSelect(s *ast.SelectStmt) *ast.SelectStmt {
	if s == nil {
		return nil
	}
	return ast.Clone(s).(*ast.SelectStmt)
}

func cloneRows(rows [][]ast.Expr) [][]ast.Expr {
	out := make([][]ast.Expr, len(rows))
	for i, row := range rows {
		out[i] = make([]ast.Expr, len(row))
		for j, v := range row {
			out[i][j] = ast.CloneExpr(v)
		}
	}
	return out
}

func cloneReturning(items []ast.SelectExpr) []ast.SelectExpr {
	if items == nil {
		return nil
	}
	out := make([]ast.SelectExpr, len(items))
	for i, it := range items {
		out[i] = ast.CloneSelectExpr(it)
	}
	return out
}

// UpdateToSelect simulates an UPDATE by materializing the SET
// expressions as the rows CTE payload, projected through RETURNING the
// same way an insert's rows are.
func UpdateToSelect(stmt *ast.UpdateStmt, opts ConvertOptions) (*ast.SelectStmt, error) {
	tableName := tableNameOf(stmt.Table)
	fx, err := tableFixtureFor(opts, tableName)
	if err != nil {
		return nil, err
	}
	refRoots := rootNodes(nil, stmt.With)
	if stmt.From != nil {
		refRoots = append(refRoots, stmt.From)
	}
	if err := checkReferencedTables(opts, refRoots, cteNameSet(stmt.With, tableName)); err != nil {
		return nil, err
	}
	columns := make([]string, len(stmt.Set))
	row := make([]ast.Expr, len(stmt.Set))
	for i, se := range stmt.Set {
		columns[i] = se.Column.Parts[len(se.Column.Parts)-1]
		row[i] = ast.CloneExpr(se.Expr)
	}
	taken := cteNameSet(stmt.With)
	rowsName := uniqueCTEName(opts.rowsCTEName(), taken)
	body := valuesAsSelects([][]ast.Expr{row}, columns, fx)
	var outer *ast.SelectStmt
	if len(stmt.Returning) == 0 {
		outer = returningToSelect(rowsName, nil)
	} else {
		outer = returningToSelect(rowsName, rewriteReturning(rowsName, stmt.Returning, columns, fx))
	}
	outer.Where = ast.CloneExpr(stmt.Where)
	outer.With = &ast.WithClause{CTEs: []*ast.CTE{{Name: rowsName, Columns: columns, Query: body}}}
	if stmt.With != nil {
		cloned := ast.Clone(stmt.With).(*ast.WithClause)
		outer.With.Recursive = cloned.Recursive
		outer.With.CTEs = append(cloned.CTEs, outer.With.CTEs...)
	}
	return outer, nil
}

// DeleteToSelect simulates a DELETE as a SELECT over the target table
// restricted by the original WHERE clause, projected through RETURNING
// (or count(*)). No rows CTE is needed since a DELETE introduces no new
// values.
func DeleteToSelect(stmt *ast.DeleteStmt, opts ConvertOptions) (*ast.SelectStmt, error) {
	if _, err := tableFixtureFor(opts, tableNameOf(stmt.Table)); err != nil {
		return nil, err
	}
	outer := returningToSelectFrom(ast.CloneTableExpr(stmt.Table), cloneReturning(stmt.Returning))
	outer.Where = ast.CloneExpr(stmt.Where)
	if stmt.With != nil {
		outer.With = ast.Clone(stmt.With).(*ast.WithClause)
	}
	return outer, nil
}

func returningToSelectFrom(from ast.TableExpr, returning []ast.SelectExpr) *ast.SelectStmt {
	s := returningToSelect("", returning)
	s.From = from
	return s
}

// mergeBranch is one actionable WHEN arm of a MERGE, reduced to the row
// set it would affect (from + where) and the values it would write.
type mergeBranch struct {
	from    ast.TableExpr
	where   ast.Expr
	columns []string
	values  []ast.Expr
}

// andExprs joins two optional predicates with AND.
func andExprs(a, b ast.Expr) ast.Expr {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return &ast.BinaryExpr{Op: token.AND, Left: a, Right: b}
}

// notExists builds NOT EXISTS (SELECT 1 FROM te WHERE on), the
// correlated probe a NOT MATCHED branch uses to keep only rows the ON
// condition pairs with nothing on the other side.
func notExists(te ast.TableExpr, on ast.Expr) ast.Expr {
	return &ast.ExistsExpr{
		Not: true,
		Subquery: &ast.Subquery{Select: &ast.SelectStmt{
			Columns: []ast.SelectExpr{&ast.AliasedExpr{Expr: &ast.Literal{Type: ast.LiteralInt, Value: "1"}}},
			From:    ast.CloneTableExpr(te),
			Where:   ast.CloneExpr(on),
		}},
	}
}

// mergeBranchRowSet derives a WHEN arm's row set from the statement's
// target, source, and ON condition: MATCHED joins target to source on
// the condition, NOT MATCHED [BY TARGET] keeps source rows with no
// target match, NOT MATCHED BY SOURCE keeps target rows with no source
// match. The arm's own AND condition narrows the set further.
func mergeBranchRowSet(stmt *ast.MergeStmt, w *ast.WhenClause) (ast.TableExpr, ast.Expr) {
	switch {
	case w.Matched:
		join := &ast.JoinExpr{
			Type:  ast.JoinInner,
			Left:  ast.CloneTableExpr(stmt.Target),
			Right: ast.CloneTableExpr(stmt.Source),
			On:    ast.CloneExpr(stmt.On),
		}
		return join, ast.CloneExpr(w.Condition)
	case w.BySource:
		return ast.CloneTableExpr(stmt.Target),
			andExprs(notExists(stmt.Source, stmt.On), ast.CloneExpr(w.Condition))
	default: // NOT MATCHED [BY TARGET]
		return ast.CloneTableExpr(stmt.Source),
			andExprs(notExists(stmt.Target, stmt.On), ast.CloneExpr(w.Condition))
	}
}

// MergeToSelect simulates a MERGE by unioning a projection per
// actionable WHEN arm into one rows CTE: each arm's SELECT reads the
// row set its matched/not-matched predicate describes (so SET and
// INSERT values referencing the source resolve against a real FROM)
// and projects the values the action would write. The union is always
// projected as the affected row count, since MERGE has no standard
// RETURNING clause across dialects.
func MergeToSelect(stmt *ast.MergeStmt, opts ConvertOptions) (*ast.SelectStmt, error) {
	tableName := tableNameOf(stmt.Target)
	fx, err := tableFixtureFor(opts, tableName)
	if err != nil {
		return nil, err
	}
	refRoots := []ast.Node{}
	if stmt.Source != nil {
		refRoots = append(refRoots, stmt.Source)
	}
	if err := checkReferencedTables(opts, refRoots, cteNameSet(stmt.With, tableName)); err != nil {
		return nil, err
	}

	var branches []mergeBranch
	for _, w := range stmt.Whens {
		from, where := mergeBranchRowSet(stmt, w)
		switch a := w.Action.(type) {
		case *ast.MergeInsert:
			cols := requiredColumnsOf(a.Columns, fx)
			if cols == nil {
				cols = synthesizedColumns([][]ast.Expr{a.Values})
			}
			branches = append(branches, mergeBranch{
				from: from, where: where,
				columns: cols,
				values:  cloneRows([][]ast.Expr{a.Values})[0],
			})
		case *ast.MergeUpdate:
			cols := make([]string, len(a.Set))
			vals := make([]ast.Expr, len(a.Set))
			for i, se := range a.Set {
				cols[i] = se.Column.Parts[len(se.Column.Parts)-1]
				vals[i] = ast.CloneExpr(se.Expr)
			}
			branches = append(branches, mergeBranch{from: from, where: where, columns: cols, values: vals})
		case *ast.MergeDelete:
			branches = append(branches, mergeBranch{from: from, where: where})
		}
		// MergeDoNothing affects no rows and contributes no branch.
	}
	if len(branches) == 0 {
		return &ast.SelectStmt{
			Columns: []ast.SelectExpr{&ast.AliasedExpr{
				Expr:  &ast.Literal{Type: ast.LiteralInt, Value: "0"},
				Alias: "count",
			}},
		}, nil
	}

	// Unify the projection across branches: columns in order of first
	// appearance; a branch that doesn't write a column projects NULL
	// for it (a DELETE arm writes none and projects all NULLs — its
	// rows still count as affected).
	var columns []string
	seen := map[string]bool{}
	for _, b := range branches {
		for _, c := range b.columns {
			if !seen[strings.ToLower(c)] {
				seen[strings.ToLower(c)] = true
				columns = append(columns, c)
			}
		}
	}
	if columns == nil {
		columns = []string{"affected"}
	}

	var body ast.Statement
	for _, b := range branches {
		byName := map[string]ast.Expr{}
		for i, c := range b.columns {
			if i < len(b.values) {
				byName[strings.ToLower(c)] = b.values[i]
			}
		}
		items := make([]ast.SelectExpr, len(columns))
		for i, c := range columns {
			v, ok := byName[strings.ToLower(c)]
			if !ok {
				v = &ast.Literal{Type: ast.LiteralNull}
			}
			items[i] = &ast.AliasedExpr{Expr: castTo(v, c, fx), Alias: c}
		}
		sel := &ast.SelectStmt{Columns: items, From: b.from, Where: b.where}
		if body == nil {
			body = sel
		} else {
			body = &ast.SetOp{Type: ast.Union, All: true, Left: body, Right: sel}
		}
	}

	taken := cteNameSet(stmt.With, tableName)
	rowsName := uniqueCTEName(opts.rowsCTEName(), taken)
	outer := returningToSelect(rowsName, nil)
	outer.With = &ast.WithClause{CTEs: []*ast.CTE{{Name: rowsName, Columns: columns, Query: body}}}
	if stmt.With != nil {
		cloned := ast.Clone(stmt.With).(*ast.WithClause)
		outer.With.Recursive = cloned.Recursive
		outer.With.CTEs = append(cloned.CTEs, outer.With.CTEs...)
	}
	return outer, nil
}
