package parser

import (
	"github.com/sqlweave/sqlweave/ast"
	"github.com/sqlweave/sqlweave/sqlerr"
	"github.com/sqlweave/sqlweave/token"
)

// parseMerge parses MERGE INTO target USING source ON cond WHEN ... THEN
// ... [WHEN ...]*.
func (p *Parser) parseMerge() ast.Statement {
	pos := p.cur.Pos
	p.advance() // consume MERGE

	if p.curIs(token.INTO) {
		p.advance()
	}

	stmt := &ast.MergeStmt{StartPos: pos}
	stmt.Target = p.parseTablePrimary()

	if !p.expect(token.USING) {
		return nil
	}
	stmt.Source = p.parseTablePrimary()

	if !p.expect(token.ON) {
		return nil
	}
	stmt.On = p.parseExpr()

	for p.curIs(token.WHEN) {
		when := p.parseWhenClause()
		if when == nil {
			break
		}
		stmt.Whens = append(stmt.Whens, when)
	}
	if len(stmt.Whens) == 0 {
		p.errorfCode(sqlerr.CodeExpectedKeyword, "MERGE requires at least one WHEN clause")
		return nil
	}

	stmt.EndPos = p.cur.Pos
	return stmt
}

func (p *Parser) parseWhenClause() *ast.WhenClause {
	pos := p.cur.Pos
	p.advance() // consume WHEN

	w := &ast.WhenClause{StartPos: pos}

	if p.curIs(token.NOT) {
		p.advance()
		if !p.expect(token.MATCHED) {
			return nil
		}
		w.Matched = false
		w.ByTarget = true
		if p.curIs(token.BY) {
			p.advance()
			switch p.cur.Type {
			case token.SOURCE:
				w.BySource = true
				w.ByTarget = false
				p.advance()
			case token.TARGET:
				p.advance()
			default:
				p.errorf("expected SOURCE or TARGET after BY")
			}
		}
	} else {
		if !p.expect(token.MATCHED) {
			return nil
		}
		w.Matched = true
	}

	if p.curIs(token.AND) {
		p.advance()
		w.Condition = p.parseExpr()
	}

	if !p.expect(token.THEN) {
		return nil
	}

	switch p.cur.Type {
	case token.UPDATE:
		w.Action = p.parseMergeUpdate()
	case token.DELETE:
		actPos := p.cur.Pos
		p.advance()
		w.Action = &ast.MergeDelete{StartPos: actPos, EndPos: p.cur.Pos}
	case token.INSERT:
		w.Action = p.parseMergeInsert()
	case token.DO:
		actPos := p.cur.Pos
		p.advance()
		if !p.expect(token.NOTHING) {
			return nil
		}
		w.Action = &ast.MergeDoNothing{StartPos: actPos, EndPos: p.cur.Pos}
	default:
		p.errorf("expected UPDATE, DELETE, INSERT, or DO NOTHING after THEN")
		return nil
	}

	w.EndPos = p.cur.Pos
	return w
}

func (p *Parser) parseMergeUpdate() *ast.MergeUpdate {
	pos := p.cur.Pos
	p.advance() // consume UPDATE
	if !p.expect(token.SET) {
		return nil
	}
	m := &ast.MergeUpdate{StartPos: pos, Set: p.parseUpdateExprs()}
	m.EndPos = p.cur.Pos
	return m
}

func (p *Parser) parseSimpleColName() *ast.ColName {
	if !p.curIsIdent() {
		p.errorf("expected column name")
		return nil
	}
	pos := p.cur.Pos
	parts := []string{p.curIdentValue()}
	p.advance()
	for p.curIs(token.DOT) {
		p.advance()
		if !p.curIsIdent() {
			break
		}
		parts = append(parts, p.curIdentValue())
		p.advance()
	}
	return &ast.ColName{StartPos: pos, EndPos: p.cur.Pos, Parts: parts}
}

func (p *Parser) parseMergeInsert() *ast.MergeInsert {
	pos := p.cur.Pos
	p.advance() // consume INSERT

	m := &ast.MergeInsert{StartPos: pos}

	if p.curIs(token.LPAREN) {
		p.advance()
		for {
			m.Columns = append(m.Columns, p.parseSimpleColName())
			if !p.curIs(token.COMMA) {
				break
			}
			p.advance()
		}
		p.expect(token.RPAREN)
	}

	if !p.expect(token.VALUES) {
		return nil
	}
	if !p.expect(token.LPAREN) {
		return nil
	}
	for {
		m.Values = append(m.Values, p.parseExpr())
		if !p.curIs(token.COMMA) {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)

	m.EndPos = p.cur.Pos
	return m
}
