// Package printer implements the two-phase print pipeline: Parse walks an
// AST into a printtoken.Token tree whose Container tokens correspond to
// AST clauses; Print walks that tree into a style-configured SQL string.
// Splitting the phases lets the same AST be rendered under different
// presets without re-parsing, and keeps container-level layout (comma
// breaks, WITH-clause style, one-line overrides) apart from format's
// style-aware leaf-level text rendering, which Parse calls into for each
// clause's content.
//
// SELECT gets full per-clause, per-item container granularity since its
// multi-clause shape benefits most from independent comma/break control.
// INSERT/UPDATE/DELETE/MERGE get a coarser split (WITH pulled out as its
// own container; the rest of the statement, including Returning, stays
// one container) since format.Formatter already renders that shape
// correctly in one call and their list-level layout isn't independently
// configurable the way SELECT's is.
package printer

import (
	"strings"

	"github.com/sqlweave/sqlweave/ast"
	"github.com/sqlweave/sqlweave/format"
	"github.com/sqlweave/sqlweave/printtoken"
	"github.com/sqlweave/sqlweave/style"
	"github.com/sqlweave/sqlweave/token"
)

// Parse builds the print-token tree for node under cfg. The returned
// Params reflects every parameter encountered while rendering leaf
// text, numbered continuously across the whole statement (so indexed
// styles like postgres's $1,$2,... stay correct across clauses).
func Parse(node ast.Node, cfg style.Config) (*printtoken.Token, style.Params) {
	f := format.New(cfg)
	tok := parseNode(f, node, cfg)
	return tok, f.Params()
}

// Format runs Parse then Print, the single-call convenience the
// top-level facade's Format exposes.
func Format(node ast.Node, cfg style.Config) (string, style.Params) {
	tree, params := Parse(node, cfg)
	return Print(tree, cfg), params
}

// FormatCommented renders a statement with its surrounding comments.
// cfg.CommentMode selects which survive: CommentNone drops every one,
// CommentFull keeps leading and trailing, CommentHeaderOnly and
// CommentTopHeaderOnly keep only the leading header block.
func FormatCommented(c *ast.Commented, cfg style.Config) (string, style.Params) {
	body, params := Format(c.Stmt, cfg)
	if cfg.CommentMode == style.CommentNone {
		return body, params
	}
	var b strings.Builder
	for _, cm := range c.Leading {
		writeComment(&b, cm.Text, cfg)
		if cfg.CommentStyle == style.CommentSmart {
			b.WriteString(newline(cfg))
		}
	}
	b.WriteString(body)
	if cfg.CommentMode == style.CommentFull {
		for _, cm := range c.Trailing {
			b.WriteString(" ")
			writeComment(&b, cm.Text, cfg)
		}
	}
	return strings.TrimRight(b.String(), " "), params
}

func parseNode(f *format.Formatter, node ast.Node, cfg style.Config) *printtoken.Token {
	switch n := node.(type) {
	case *ast.SelectStmt:
		return parseSelect(f, n, cfg)
	case *ast.InsertStmt:
		return wholeStatement(f, printtoken.ContainerInsert, n)
	case *ast.UpdateStmt:
		return wholeStatement(f, printtoken.ContainerUpdate, n)
	case *ast.DeleteStmt:
		return wholeStatement(f, printtoken.ContainerDelete, n)
	case *ast.MergeStmt:
		return wholeStatement(f, printtoken.ContainerMerge, n)
	default:
		return printtoken.NewContainer(printtoken.ContainerStatement, nil, leaf(f, node))
	}
}

func wholeStatement(f *format.Formatter, ct printtoken.ContainerType, node ast.Node) *printtoken.Token {
	return printtoken.NewContainer(printtoken.ContainerStatement, nil,
		printtoken.NewContainer(ct, nil, leaf(f, node)))
}

func leaf(f *format.Formatter, node ast.Node) *printtoken.Token {
	if node == nil {
		return nil
	}
	return printtoken.Val(f.FormatSub(node))
}

func render(f *format.Formatter, fn func(*format.Formatter)) *printtoken.Token {
	return printtoken.Val(f.RenderWith(fn))
}

func parseWithClause(f *format.Formatter, w *ast.WithClause) *printtoken.Token {
	if w == nil {
		return nil
	}
	kws := []*printtoken.Token{printtoken.Kw("WITH")}
	if w.Recursive {
		kws = append(kws, printtoken.Kw("RECURSIVE"))
	}
	items := make([]*printtoken.Token, 0, len(w.CTEs)*2)
	for i, cte := range w.CTEs {
		if i > 0 {
			items = append(items, printtoken.CommaTok())
		}
		cte := cte
		items = append(items, render(f, func(f *format.Formatter) { f.FormatCTE(cte) }))
	}
	return printtoken.NewContainer(printtoken.ContainerWithClause, kws, items...)
}

// boolChain splits a left-associated chain of top-level AND/OR into
// alternating value and keyword tokens, so Print can break before each
// connective under cfg.AndBreak. Any other expression is one leaf.
func boolChain(f *format.Formatter, e ast.Expr) []*printtoken.Token {
	if be, ok := e.(*ast.BinaryExpr); ok && (be.Op == token.AND || be.Op == token.OR) {
		kw := "AND"
		if be.Op == token.OR {
			kw = "OR"
		}
		out := boolChain(f, be.Left)
		out = append(out, printtoken.Kw(kw))
		out = append(out, leaf(f, be.Right))
		return out
	}
	return []*printtoken.Token{leaf(f, e)}
}

func parseSelect(f *format.Formatter, s *ast.SelectStmt, cfg style.Config) *printtoken.Token {
	var top []*printtoken.Token
	if with := parseWithClause(f, s.With); with != nil {
		top = append(top, with)
	}

	selKws := []*printtoken.Token{printtoken.Kw("SELECT")}
	if s.Distinct {
		selKws = append(selKws, printtoken.Kw("DISTINCT"))
	}
	var colItems []*printtoken.Token
	for i, c := range s.Columns {
		if i > 0 {
			colItems = append(colItems, printtoken.CommaTok())
		}
		colItems = append(colItems, leaf(f, c))
	}
	top = append(top, printtoken.NewContainer(printtoken.ContainerSelectClause, selKws, colItems...))

	if s.From != nil {
		top = append(top, printtoken.NewContainer(printtoken.ContainerFromClause,
			[]*printtoken.Token{printtoken.Kw("FROM")}, leaf(f, s.From)))
	}
	if s.Where != nil {
		top = append(top, printtoken.NewContainer(printtoken.ContainerWhereClause,
			[]*printtoken.Token{printtoken.Kw("WHERE")}, boolChain(f, s.Where)...))
	}
	if len(s.GroupBy) > 0 {
		var items []*printtoken.Token
		for i, e := range s.GroupBy {
			if i > 0 {
				items = append(items, printtoken.CommaTok())
			}
			items = append(items, leaf(f, e))
		}
		top = append(top, printtoken.NewContainer(printtoken.ContainerGroupBy,
			[]*printtoken.Token{printtoken.Kw("GROUP BY")}, items...))
	}
	if s.Having != nil {
		top = append(top, printtoken.NewContainer(printtoken.ContainerHaving,
			[]*printtoken.Token{printtoken.Kw("HAVING")}, boolChain(f, s.Having)...))
	}
	if len(s.WindowDefs) > 0 {
		var items []*printtoken.Token
		for i, w := range s.WindowDefs {
			if i > 0 {
				items = append(items, printtoken.CommaTok())
			}
			w := w
			items = append(items, render(f, func(f *format.Formatter) { f.FormatWindowDef(w) }))
		}
		top = append(top, printtoken.NewContainer(printtoken.ContainerWindow,
			[]*printtoken.Token{printtoken.Kw("WINDOW")}, items...))
	}
	if len(s.OrderBy) > 0 {
		var items []*printtoken.Token
		for i, ob := range s.OrderBy {
			if i > 0 {
				items = append(items, printtoken.CommaTok())
			}
			ob := ob
			items = append(items, render(f, func(f *format.Formatter) { f.FormatOrderByItem(ob) }))
		}
		top = append(top, printtoken.NewContainer(printtoken.ContainerOrderBy,
			[]*printtoken.Token{printtoken.Kw("ORDER BY")}, items...))
	}
	if s.Limit != nil {
		if s.Limit.Count != nil {
			top = append(top, printtoken.NewContainer(printtoken.ContainerLimit,
				[]*printtoken.Token{printtoken.Kw("LIMIT")}, leaf(f, s.Limit.Count)))
		}
		if s.Limit.Offset != nil {
			top = append(top, printtoken.NewContainer(printtoken.ContainerOffset,
				[]*printtoken.Token{printtoken.Kw("OFFSET")}, leaf(f, s.Limit.Offset)))
		}
	}
	if s.Lock != "" {
		top = append(top, printtoken.NewContainer(printtoken.ContainerFor,
			[]*printtoken.Token{printtoken.Kw("FOR"), printtoken.Kw(s.Lock)}))
	}
	return printtoken.NewContainer(printtoken.ContainerStatement, nil, top...)
}

// Print renders a printtoken.Token tree to SQL text under cfg,
// applying comma breaks and newline style at container boundaries.
// Leaf Value token text is emitted verbatim: it was already rendered
// style-correctly by Parse.
func Print(tok *printtoken.Token, cfg style.Config) string {
	var b strings.Builder
	printTok(&b, tok, cfg, 0)
	return b.String()
}

func keywordCase(kw string, cfg style.Config) string {
	switch cfg.KeywordCase {
	case style.KeywordLower:
		return strings.ToLower(kw)
	case style.KeywordNone:
		return kw
	default:
		return strings.ToUpper(kw)
	}
}

func newline(cfg style.Config) string {
	switch cfg.Newline {
	case style.NewlineCRLF:
		return "\r\n"
	case style.NewlineNone:
		return " "
	default:
		return "\n"
	}
}

func indent(cfg style.Config, depth int) string {
	if cfg.Newline == style.NewlineNone || depth <= 0 {
		return ""
	}
	ch := cfg.IndentChar
	if ch == "" {
		ch = " "
	}
	size := cfg.IndentSize
	if size <= 0 {
		size = 2
	}
	return strings.Repeat(ch, size*depth)
}

func printTok(b *strings.Builder, tok *printtoken.Token, cfg style.Config, depth int) {
	if tok == nil {
		return
	}
	for _, c := range tok.LeadingComments {
		writeComment(b, c, cfg)
	}
	switch tok.Kind {
	case printtoken.Container:
		printContainer(b, tok, cfg, depth)
	case printtoken.Keyword:
		b.WriteString(keywordCase(tok.Text, cfg))
	case printtoken.Value, printtoken.Operator, printtoken.Type,
		printtoken.Comma, printtoken.Parenthesis, printtoken.Dot, printtoken.Space,
		printtoken.ArgumentSplitter, printtoken.Parameter:
		b.WriteString(tok.Text)
	case printtoken.Comment:
		writeComment(b, tok.Text, cfg)
	case printtoken.CommentNewline:
		b.WriteString(newline(cfg))
	}
	for _, c := range tok.TrailingComments {
		writeComment(b, c, cfg)
	}
}

func writeComment(b *strings.Builder, text string, cfg style.Config) {
	if cfg.CommentMode == style.CommentNone {
		return
	}
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/"))
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "--"))
	if cfg.CommentStyle == style.CommentSmart {
		b.WriteString("-- " + trimmed)
	} else {
		b.WriteString("/* " + trimmed + " */")
	}
	b.WriteString(" ")
}

// printContainer renders a Container token: its keyword tokens (space
// separated), then its inner item list with commas honoring
// cfg.CommaBreak, indenting continuation lines under depth+1.
func printContainer(b *strings.Builder, tok *printtoken.Token, cfg style.Config, depth int) {
	if tok.Container == printtoken.ContainerStatement {
		for i, inner := range tok.Inner {
			if i > 0 {
				b.WriteString(" ")
			}
			printTok(b, inner, cfg, depth)
		}
		return
	}

	for i, kw := range tok.KeywordTokens {
		if i > 0 {
			b.WriteString(" ")
		}
		printTok(b, kw, cfg, depth)
	}
	if len(tok.KeywordTokens) > 0 && len(tok.Inner) > 0 {
		b.WriteString(" ")
	}

	breakList := cfg.CommaBreak
	if tok.Container == printtoken.ContainerWithClause && cfg.WithClauseStyle != style.WithStandard {
		breakList = false
	}
	for i, inner := range tok.Inner {
		if inner != nil && inner.Kind == printtoken.Comma {
			b.WriteString(",")
			if breakList {
				b.WriteString(newline(cfg))
				b.WriteString(indent(cfg, depth+1))
			} else {
				b.WriteString(" ")
			}
			continue
		}
		if i > 0 {
			if prev := tok.Inner[i-1]; prev == nil || prev.Kind != printtoken.Comma {
				if cfg.AndBreak && inner != nil && inner.Kind == printtoken.Keyword &&
					(strings.EqualFold(inner.Text, "AND") || strings.EqualFold(inner.Text, "OR")) {
					b.WriteString(newline(cfg))
					b.WriteString(indent(cfg, depth+1))
				} else {
					b.WriteString(" ")
				}
			}
		}
		printTok(b, inner, cfg, depth+1)
	}
}
