package transform

import "github.com/sqlweave/sqlweave/ast"

// ValueRewriteFunc inspects an expression and optionally returns its
// replacement. Returning (nil, false) leaves the expression untouched.
type ValueRewriteFunc func(ast.Expr) (ast.Expr, bool)

// RewriteValues walks stmt depth-first and replaces any Expr for which fn
// returns a replacement, mirroring visitor.Rewrite's post-order traversal
// but scoped to value-expression nodes rather than every AST node kind (so
// callers can target literals/columns without re-deriving a full
// statement-shape switch for each use site).
func RewriteValues(stmt ast.Statement, fn ValueRewriteFunc) {
	rewriteNode(stmt, fn)
}

func rewriteNode(n ast.Node, fn ValueRewriteFunc) {
	switch s := n.(type) {
	case *ast.SelectStmt:
		if s.With != nil {
			for _, c := range s.With.CTEs {
				rewriteNode(c.Query, fn)
			}
		}
		for i, col := range s.Columns {
			s.Columns[i] = rewriteSelectExpr(col, fn)
		}
		if s.From != nil {
			rewriteNode(s.From, fn)
		}
		s.Where = rewriteExprField(s.Where, fn)
		for i, g := range s.GroupBy {
			s.GroupBy[i] = rewriteExprField(g, fn)
		}
		s.Having = rewriteExprField(s.Having, fn)
	case *ast.InsertStmt:
		for _, row := range s.Values {
			for i, v := range row {
				row[i] = rewriteExprField(v, fn)
			}
		}
		if s.Select != nil {
			rewriteNode(s.Select, fn)
		}
	case *ast.UpdateStmt:
		for _, se := range s.Set {
			se.Expr = rewriteExprField(se.Expr, fn)
		}
		s.Where = rewriteExprField(s.Where, fn)
	case *ast.DeleteStmt:
		s.Where = rewriteExprField(s.Where, fn)
	case *ast.AliasedTableExpr:
		rewriteNode(s.Expr, fn)
	case *ast.JoinExpr:
		rewriteNode(s.Left, fn)
		rewriteNode(s.Right, fn)
		s.On = rewriteExprField(s.On, fn)
	case *ast.ParenTableExpr:
		rewriteNode(s.Expr, fn)
	case *ast.BinaryExpr:
		s.Left = rewriteExprField(s.Left, fn)
		s.Right = rewriteExprField(s.Right, fn)
	case *ast.UnaryExpr:
		s.Operand = rewriteExprField(s.Operand, fn)
	case *ast.ParenExpr:
		s.Expr = rewriteExprField(s.Expr, fn)
	case *ast.FuncExpr:
		for i, a := range s.Args {
			s.Args[i] = rewriteExprField(a, fn)
		}
		for _, ob := range s.OrderBy {
			ob.Expr = rewriteExprField(ob.Expr, fn)
		}
		s.Filter = rewriteExprField(s.Filter, fn)
		if s.Over != nil {
			for i, pb := range s.Over.PartitionBy {
				s.Over.PartitionBy[i] = rewriteExprField(pb, fn)
			}
			for _, ob := range s.Over.OrderBy {
				ob.Expr = rewriteExprField(ob.Expr, fn)
			}
		}
	case *ast.CastExpr:
		s.Expr = rewriteExprField(s.Expr, fn)
	case *ast.BetweenExpr:
		s.Expr = rewriteExprField(s.Expr, fn)
		s.Low = rewriteExprField(s.Low, fn)
		s.High = rewriteExprField(s.High, fn)
	case *ast.CaseExpr:
		s.Operand = rewriteExprField(s.Operand, fn)
		for _, w := range s.Whens {
			w.Cond = rewriteExprField(w.Cond, fn)
			w.Result = rewriteExprField(w.Result, fn)
		}
		s.Else = rewriteExprField(s.Else, fn)
	case *ast.InExpr:
		s.Expr = rewriteExprField(s.Expr, fn)
		for i, v := range s.Values {
			s.Values[i] = rewriteExprField(v, fn)
		}
		if s.Select != nil {
			rewriteNode(s.Select, fn)
		}
	case *ast.LikeExpr:
		s.Expr = rewriteExprField(s.Expr, fn)
		s.Pattern = rewriteExprField(s.Pattern, fn)
		s.Escape = rewriteExprField(s.Escape, fn)
	case *ast.IsExpr:
		s.Expr = rewriteExprField(s.Expr, fn)
	case *ast.Subquery:
		rewriteNode(s.Select, fn)
	case *ast.ExistsExpr:
		if s.Subquery != nil {
			rewriteNode(s.Subquery.Select, fn)
		}
	case *ast.ArrayExpr:
		for i, e := range s.Elements {
			s.Elements[i] = rewriteExprField(e, fn)
		}
	case *ast.SubscriptExpr:
		s.Expr = rewriteExprField(s.Expr, fn)
		s.Index = rewriteExprField(s.Index, fn)
	case *ast.IntervalExpr:
		s.Value = rewriteExprField(s.Value, fn)
	case *ast.ExtractExpr:
		s.Source = rewriteExprField(s.Source, fn)
	case *ast.TrimExpr:
		s.TrimChar = rewriteExprField(s.TrimChar, fn)
		s.Expr = rewriteExprField(s.Expr, fn)
	case *ast.SubstringExpr:
		s.Expr = rewriteExprField(s.Expr, fn)
		s.From = rewriteExprField(s.From, fn)
		s.For = rewriteExprField(s.For, fn)
	case *ast.PositionExpr:
		s.Needle = rewriteExprField(s.Needle, fn)
		s.Haystack = rewriteExprField(s.Haystack, fn)
	case *ast.CollateExpr:
		s.Expr = rewriteExprField(s.Expr, fn)
	case *ast.ValuesStmt:
		for _, row := range s.Rows {
			for i, v := range row {
				row[i] = rewriteExprField(v, fn)
			}
		}
	case *ast.SetOp:
		rewriteNode(s.Left, fn)
		rewriteNode(s.Right, fn)
	}
}

func rewriteSelectExpr(se ast.SelectExpr, fn ValueRewriteFunc) ast.SelectExpr {
	if ae, ok := se.(*ast.AliasedExpr); ok {
		ae.Expr = rewriteExprField(ae.Expr, fn)
		return ae
	}
	return se
}

func rewriteExprField(e ast.Expr, fn ValueRewriteFunc) ast.Expr {
	if e == nil {
		return nil
	}
	rewriteNode(e, fn)
	if replacement, ok := fn(e); ok {
		return replacement
	}
	return e
}
