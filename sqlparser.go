// Package sqlweave provides a high-performance SQL parser.
//
// sqlweave is a dialect-agnostic SQL parser that supports MySQL, PostgreSQL,
// and SQLite query syntax. It provides Parse, Walk, and Rewrite functionality
// similar to vitess-sqlparser.
//
// Basic usage:
//
//	stmt, err := sqlweave.Parse("SELECT * FROM users WHERE id = 1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(sqlweave.String(stmt))
//
// Walking the AST:
//
//	sqlweave.Walk(stmt, func(node ast.Node) bool {
//	    if col, ok := node.(*ast.ColName); ok {
//	        fmt.Printf("Found column: %s\n", col.Name())
//	    }
//	    return true
//	})
//
// Rewriting nodes:
//
//	rewritten := sqlweave.Rewrite(stmt, func(n ast.Node) ast.Node {
//	    // Transform nodes as needed
//	    return n
//	})
package sqlweave

import (
	"github.com/sqlweave/sqlweave/ast"
	"github.com/sqlweave/sqlweave/cursor"
	"github.com/sqlweave/sqlweave/format"
	"github.com/sqlweave/sqlweave/lexeme"
	"github.com/sqlweave/sqlweave/parser"
	"github.com/sqlweave/sqlweave/printer"
	"github.com/sqlweave/sqlweave/sqlerr"
	"github.com/sqlweave/sqlweave/style"
	"github.com/sqlweave/sqlweave/token"
	"github.com/sqlweave/sqlweave/transform"
	"github.com/sqlweave/sqlweave/visitor"
)

// Parse parses a single SQL statement.
// The parser uses internal pooling for efficiency.
// For maximum performance when parsing many queries, call Repool(stmt)
// when done with the statement (optional, see Repool).
func Parse(sql string) (ast.Statement, error) {
	p := parser.Get(sql)
	stmt, err := p.Parse()
	parser.Put(p)
	return stmt, err
}

// ParseAll parses all statements in the input.
// For maximum performance, call Repool on each statement when done (optional).
func ParseAll(sql string) ([]ast.Statement, error) {
	p := parser.Get(sql)
	stmts, err := p.ParseAll()
	parser.Put(p)
	return stmts, err
}

// Repool returns AST nodes to internal pools for reuse.
// This is optional - if not called, nodes are garbage collected normally.
// Calling Repool after you're done with a statement improves performance
// when parsing many queries by reducing allocations.
//
// Example:
//
//	stmt, err := sqlweave.Parse(sql)
//	if err != nil {
//	    return err
//	}
//	defer sqlweave.Repool(stmt)
//	// ... use stmt ...
func Repool(stmt Statement) {
	ast.ReleaseAST(stmt)
}

// String formats an AST node back to SQL.
func String(node ast.Node) string {
	return format.String(node)
}

// Style re-exports the print pipeline's style configuration types so
// callers don't need a second import for the common case of picking a
// preset and calling Format.
type (
	Style  = style.Config
	Preset = style.Preset
	Params = style.Params
)

// Preset name constants for the four supported dialect vocabularies.
const (
	PresetPostgres  = style.Postgres
	PresetMySQL     = style.MySQL
	PresetSQLServer = style.SQLServer
	PresetSQLite    = style.SQLite
)

// PresetStyle returns the named preset's default Style, or an
// sqlerr.Error with CodeInvalidPreset if preset isn't one of the four
// supported presets.
func PresetStyle(preset Preset) (Style, error) {
	cfg, ok := style.PresetConfig(preset)
	if !ok {
		return Style{}, sqlerr.New(sqlerr.CodeInvalidPreset, "unknown preset %q", preset)
	}
	return cfg, nil
}

// Format renders node to SQL text under cfg, returning the bind
// parameter collection shaped by cfg.ParameterStyle alongside it.
func Format(node ast.Node, cfg Style) (string, Params) {
	return printer.Format(node, cfg)
}

// Tokenize lexes sql into its full positioned, comment-carrying lexeme
// sequence.
func Tokenize(sql string) ([]lexeme.Lexeme, error) {
	return lexeme.Tokenize(sql)
}

// ParseCommented parses a single statement together with the comments
// surrounding it: comments before the first token become the header
// (leading) comments, comments attached after the last token become
// trailing comments. Render the result with FormatCommented, which
// honors the style's CommentMode.
func ParseCommented(sql string) (*ast.Commented, error) {
	stmt, err := Parse(sql)
	if err != nil {
		return nil, err
	}
	out := &ast.Commented{Stmt: stmt}
	lexemes, err := lexeme.Tokenize(sql)
	if err != nil {
		return out, nil
	}
	if len(lexemes) > 0 {
		for _, pc := range lexemes[0].Positioned {
			if pc.Position == lexeme.CommentBefore {
				out.Leading = append(out.Leading, ast.Comment{Text: pc.Text, Pos: pc.Pos})
			}
		}
		last := lexemes[len(lexemes)-1]
		for _, pc := range last.Positioned {
			if pc.Position == lexeme.CommentAfter || last.Type == token.EOF {
				out.Trailing = append(out.Trailing, ast.Comment{Text: pc.Text, Pos: pc.Pos, Trailing: pc.Position == lexeme.CommentAfter})
			}
		}
		if len(lexemes) >= 2 {
			for _, pc := range lexemes[len(lexemes)-2].Positioned {
				if pc.Position == lexeme.CommentAfter {
					out.Trailing = append(out.Trailing, ast.Comment{Text: pc.Text, Pos: pc.Pos, Trailing: true})
				}
			}
		}
	}
	return out, nil
}

// FormatCommented renders a Commented statement under cfg, emitting its
// surrounding comments according to cfg.CommentMode: CommentNone drops
// them, CommentFull emits leading and trailing, the header-only modes
// emit only the leading block.
func FormatCommented(c *ast.Commented, cfg Style) (string, Params) {
	return printer.FormatCommented(c, cfg)
}

func parseTyped[T ast.Statement](sql string, what string) (T, error) {
	var zero T
	stmt, err := Parse(sql)
	if err != nil {
		return zero, err
	}
	typed, ok := stmt.(T)
	if !ok {
		return zero, sqlerr.New(sqlerr.CodeUnsupportedStmt, "expected %s, got %T", what, stmt)
	}
	return typed, nil
}

// ParseSelect parses sql as a single SELECT statement, failing if it
// names a different kind of statement.
func ParseSelect(sql string) (*ast.SelectStmt, error) { return parseTyped[*ast.SelectStmt](sql, "SELECT") }

// ParseInsert parses sql as a single INSERT statement.
func ParseInsert(sql string) (*ast.InsertStmt, error) { return parseTyped[*ast.InsertStmt](sql, "INSERT") }

// ParseUpdate parses sql as a single UPDATE statement.
func ParseUpdate(sql string) (*ast.UpdateStmt, error) { return parseTyped[*ast.UpdateStmt](sql, "UPDATE") }

// ParseDelete parses sql as a single DELETE statement.
func ParseDelete(sql string) (*ast.DeleteStmt, error) { return parseTyped[*ast.DeleteStmt](sql, "DELETE") }

// ParseMerge parses sql as a single MERGE statement.
func ParseMerge(sql string) (*ast.MergeStmt, error) { return parseTyped[*ast.MergeStmt](sql, "MERGE") }

// ParseCreateTable parses sql as a single CREATE TABLE statement.
func ParseCreateTable(sql string) (*ast.CreateTableStmt, error) {
	return parseTyped[*ast.CreateTableStmt](sql, "CREATE TABLE")
}

// ParseCreateIndex parses sql as a single CREATE INDEX statement.
func ParseCreateIndex(sql string) (*ast.CreateIndexStmt, error) {
	return parseTyped[*ast.CreateIndexStmt](sql, "CREATE INDEX")
}

// ParseAlterTable parses sql as a single ALTER TABLE statement.
func ParseAlterTable(sql string) (*ast.AlterTableStmt, error) {
	return parseTyped[*ast.AlterTableStmt](sql, "ALTER TABLE")
}

// ParseDropTable parses sql as a single DROP TABLE statement.
func ParseDropTable(sql string) (*ast.DropTableStmt, error) {
	return parseTyped[*ast.DropTableStmt](sql, "DROP TABLE")
}

// ParseDropIndex parses sql as a single DROP INDEX statement.
func ParseDropIndex(sql string) (*ast.DropIndexStmt, error) {
	return parseTyped[*ast.DropIndexStmt](sql, "DROP INDEX")
}

// ParseExplain parses sql as a single EXPLAIN statement.
func ParseExplain(sql string) (*ast.ExplainStmt, error) { return parseTyped[*ast.ExplainStmt](sql, "EXPLAIN") }

// ParseCreateSchema parses sql as a single CREATE SCHEMA statement.
func ParseCreateSchema(sql string) (*ast.CreateSchemaStmt, error) {
	return parseTyped[*ast.CreateSchemaStmt](sql, "CREATE SCHEMA")
}

// ParseCommentOn parses sql as a single COMMENT ON statement.
func ParseCommentOn(sql string) (*ast.CommentOnStmt, error) {
	return parseTyped[*ast.CommentOnStmt](sql, "COMMENT ON")
}

// ParseVacuum parses sql as a single VACUUM statement.
func ParseVacuum(sql string) (*ast.VacuumStmt, error) { return parseTyped[*ast.VacuumStmt](sql, "VACUUM") }

// ParseCheckpoint parses sql as a single CHECKPOINT statement.
func ParseCheckpoint(sql string) (*ast.CheckpointStmt, error) {
	return parseTyped[*ast.CheckpointStmt](sql, "CHECKPOINT")
}

// --- CTE management ---

// AddCTEOptions mirrors transform.AddCTEOptions.
type AddCTEOptions = transform.AddCTEOptions

// AddCTE attaches a new CTE to stmt's WITH clause.
func AddCTE(stmt ast.Statement, name string, query ast.Statement, opts AddCTEOptions) error {
	return transform.AddCTE(stmt, &ast.CTE{Name: name, Query: query}, opts)
}

// RemoveCTE detaches a CTE from stmt's WITH clause.
func RemoveCTE(stmt ast.Statement, name string) error { return transform.RemoveCTE(stmt, name) }

// HasCTE reports whether stmt has a CTE named name.
func HasCTE(stmt ast.Statement, name string) bool { return transform.HasCTE(stmt, name) }

// GetCTENames returns every CTE name attached to stmt, in definition order.
func GetCTENames(stmt ast.Statement) []string { return transform.GetCTENames(stmt) }

// ReplaceCTE swaps the body of an existing CTE, preserving its position.
func ReplaceCTE(stmt ast.Statement, name string, query ast.Statement, opts AddCTEOptions) error {
	return transform.ReplaceCTE(stmt, name, &ast.CTE{Name: name, Query: query}, opts)
}

// RenameCTE renames a CTE and rewires every reference to it within stmt.
func RenameCTE(stmt ast.Statement, oldName, newName string) error {
	return transform.RenameCTE(stmt, oldName, newName)
}

// RenameCTEAtPosition resolves the lexeme under (line, column) in sql,
// renames it as a CTE on stmt, and returns the re-printed SQL under
// cfg.
func RenameCTEAtPosition(stmt ast.Statement, sql string, lc cursor.LineColumn, newName string, cfg Style) (string, error) {
	lexemes, err := lexeme.Tokenize(sql)
	if err != nil {
		return "", err
	}
	idx := cursor.FindLexemeAtLineColumn(lexemes, lc)
	if idx < 0 {
		return "", sqlerr.New(sqlerr.CodeCTENotFound, "no lexeme at %d:%d", lc.Line, lc.Column)
	}
	lx := lexemes[idx]
	if !lx.Flags.Has(lexeme.FlagIdentifier) && !lx.Flags.Has(lexeme.FlagFunction) {
		return "", sqlerr.New(sqlerr.CodeUnsupportedToken, "cursor is not on an identifier/function token")
	}
	if token.IsKeyword(newName) {
		return "", sqlerr.New(sqlerr.CodeInvalidCTEName, "%q is a reserved keyword", newName)
	}
	if err := transform.RenameCTE(stmt, lx.Value, newName); err != nil {
		return "", err
	}
	out, _ := Format(stmt, cfg)
	return out, nil
}

// SmartRename routes a (sql, position, new_name) request to either a CTE
// rename or a table-alias rename depending on whether the identifier under
// the cursor names a CTE on stmt.
func SmartRename(stmt ast.Statement, sql string, lc cursor.LineColumn, newName string, cfg Style) (string, error) {
	lexemes, err := lexeme.Tokenize(sql)
	if err != nil {
		return "", err
	}
	idx := cursor.FindLexemeAtLineColumn(lexemes, lc)
	if idx < 0 {
		return "", sqlerr.New(sqlerr.CodeCTENotFound, "no lexeme at %d:%d", lc.Line, lc.Column)
	}
	name := lexemes[idx].Value
	if transform.HasCTE(stmt, name) {
		if err := transform.RenameCTE(stmt, name, newName); err != nil {
			return "", err
		}
	} else {
		transform.RenameTableAlias(stmt, name, newName)
	}
	out, _ := Format(stmt, cfg)
	return out, nil
}

// SmartRenamePreserveFormatting is SmartRename's byte-preserving sibling:
// it splices newName into sql in place of every lexeme matching the
// identifier under (line, column), instead of re-printing stmt through
// the style pipeline. See transform.SmartRenamePreserveFormatting for the
// post-condition checks that guard the result.
func SmartRenamePreserveFormatting(stmt ast.Statement, sql string, lc cursor.LineColumn, newName string) (string, error) {
	lexemes, err := lexeme.Tokenize(sql)
	if err != nil {
		return sql, err
	}
	offset := cursor.LineColumnToOffset(sql, lc)
	return transform.SmartRenamePreserveFormatting(stmt, sql, lexemes, offset, newName)
}

// ToSimpleQuery normalizes any select-query variant (SELECT, a UNION/
// INTERSECT/EXCEPT binary query, or a bare VALUES list) into a
// *ast.SelectStmt. valuesColumns names the projected columns when stmt is
// a VALUES query (ignored otherwise); omitting them on a VALUES query
// fails with CodeMissingColumnAliases. Idempotent: calling it again on its
// own result returns that same *ast.SelectStmt unchanged.
func ToSimpleQuery(stmt ast.Statement, valuesColumns ...string) (*ast.SelectStmt, error) {
	return transform.ToSimpleQuery(stmt, valuesColumns)
}

// --- Write-to-SELECT simulation ---

// ConvertOptions mirrors transform.ConvertOptions.
type ConvertOptions = transform.ConvertOptions

// InsertToSelect converts an INSERT into the SELECT that simulates its
// RETURNING projection (or row count, if RETURNING is absent).
func InsertToSelect(stmt *ast.InsertStmt, opts ConvertOptions) (*ast.SelectStmt, error) {
	return transform.InsertToSelect(stmt, opts)
}

// UpdateToSelect converts an UPDATE into its simulated SELECT.
func UpdateToSelect(stmt *ast.UpdateStmt, opts ConvertOptions) (*ast.SelectStmt, error) {
	return transform.UpdateToSelect(stmt, opts)
}

// DeleteToSelect converts a DELETE into its simulated SELECT.
func DeleteToSelect(stmt *ast.DeleteStmt, opts ConvertOptions) (*ast.SelectStmt, error) {
	return transform.DeleteToSelect(stmt, opts)
}

// MergeToSelect converts a MERGE into its simulated SELECT.
func MergeToSelect(stmt *ast.MergeStmt, opts ConvertOptions) (*ast.SelectStmt, error) {
	return transform.MergeToSelect(stmt, opts)
}

// Conversion-option records for the select-to-write conversions.
type (
	ToInsertOptions = transform.ToInsertOptions
	ToUpdateOptions = transform.ToUpdateOptions
	ToDeleteOptions = transform.ToDeleteOptions
	ToMergeOptions  = transform.ToMergeOptions
)

// SelectToInsert converts a select query into INSERT INTO table ... SELECT.
func SelectToInsert(stmt ast.Statement, table string, opts ToInsertOptions) (*ast.InsertStmt, error) {
	return transform.SelectToInsert(stmt, table, opts)
}

// SelectToUpdate converts a select query into an UPDATE keyed by
// opts.WhereByPrimaryKey.
func SelectToUpdate(stmt ast.Statement, table string, opts ToUpdateOptions) (*ast.UpdateStmt, error) {
	return transform.SelectToUpdate(stmt, table, opts)
}

// SelectToDelete converts a select query into a DELETE keyed by
// opts.WhereByPrimaryKey.
func SelectToDelete(stmt ast.Statement, table string, opts ToDeleteOptions) (*ast.DeleteStmt, error) {
	return transform.SelectToDelete(stmt, table, opts)
}

// SelectToMerge converts a select query into MERGE INTO table USING
// (select) with the caller's ON condition and WHEN clauses.
func SelectToMerge(stmt ast.Statement, table string, opts ToMergeOptions) (*ast.MergeStmt, error) {
	return transform.SelectToMerge(stmt, table, opts)
}

// Walk traverses the AST calling the function for each node.
// If the function returns false, children are not visited.
func Walk(node ast.Node, fn func(ast.Node) bool) {
	visitor.WalkFunc(node, fn)
}

// Rewrite traverses the AST allowing node replacement.
// The function is called in post-order (children first, then parent).
// Return the replacement node or the original to keep it.
func Rewrite(node ast.Node, fn func(ast.Node) ast.Node) ast.Node {
	return visitor.Rewrite(node, fn)
}

// Statement is the interface for all SQL statements.
type Statement = ast.Statement

// Expr is the interface for all expressions.
type Expr = ast.Expr

// Node is the base interface for all AST nodes.
type Node = ast.Node

// Common type aliases for convenience.
type (
	SelectStmt       = ast.SelectStmt
	InsertStmt       = ast.InsertStmt
	UpdateStmt       = ast.UpdateStmt
	DeleteStmt       = ast.DeleteStmt
	CreateTableStmt  = ast.CreateTableStmt
	AlterTableStmt   = ast.AlterTableStmt
	DropTableStmt    = ast.DropTableStmt
	CreateIndexStmt  = ast.CreateIndexStmt
	DropIndexStmt    = ast.DropIndexStmt
	TruncateStmt     = ast.TruncateStmt
	ExplainStmt      = ast.ExplainStmt
	ColName          = ast.ColName
	TableName        = ast.TableName
	Literal          = ast.Literal
	BinaryExpr       = ast.BinaryExpr
	UnaryExpr        = ast.UnaryExpr
	FuncExpr         = ast.FuncExpr
	CaseExpr         = ast.CaseExpr
	CastExpr         = ast.CastExpr
	Subquery         = ast.Subquery
	JoinExpr         = ast.JoinExpr
	AliasedExpr      = ast.AliasedExpr
	AliasedTableExpr = ast.AliasedTableExpr
	StarExpr         = ast.StarExpr
	ParenExpr        = ast.ParenExpr
	InExpr           = ast.InExpr
	BetweenExpr      = ast.BetweenExpr
	LikeExpr         = ast.LikeExpr
	IsExpr           = ast.IsExpr
	ExistsExpr       = ast.ExistsExpr
	OrderByExpr      = ast.OrderByExpr
	Limit            = ast.Limit
	WithClause       = ast.WithClause
	CTE              = ast.CTE
)

// Join types
const (
	JoinInner = ast.JoinInner
	JoinLeft  = ast.JoinLeft
	JoinRight = ast.JoinRight
	JoinFull  = ast.JoinFull
	JoinCross = ast.JoinCross
)

// Literal types
const (
	LiteralNull   = ast.LiteralNull
	LiteralInt    = ast.LiteralInt
	LiteralFloat  = ast.LiteralFloat
	LiteralString = ast.LiteralString
	LiteralBool   = ast.LiteralBool
)
