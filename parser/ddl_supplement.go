package parser

import (
	"github.com/sqlweave/sqlweave/ast"
	"github.com/sqlweave/sqlweave/token"
)

// parseCreateSchema parses CREATE SCHEMA [IF NOT EXISTS] name
// [AUTHORIZATION owner].
func (p *Parser) parseCreateSchema(pos token.Pos) ast.Statement {
	p.advance() // consume SCHEMA

	stmt := &ast.CreateSchemaStmt{StartPos: pos}

	if p.curIs(token.IF) {
		p.advance()
		if p.curIs(token.NOT) {
			p.advance()
			if p.curIs(token.EXISTS) {
				stmt.IfNotExists = true
				p.advance()
			}
		}
	}

	if p.curIsIdent() {
		stmt.Name = p.curIdentValue()
		p.advance()
	}

	if p.curIs(token.AUTHORIZATION) {
		p.advance()
		if p.curIsIdent() {
			stmt.Authorization = p.curIdentValue()
			p.advance()
		}
	}

	stmt.EndPos = p.cur.Pos
	return stmt
}

// parseCommentOn parses COMMENT ON <object-type> <name> IS ('text' | NULL).
func (p *Parser) parseCommentOn() ast.Statement {
	pos := p.cur.Pos
	p.advance() // consume COMMENT

	if !p.expect(token.ON) {
		return nil
	}

	stmt := &ast.CommentOnStmt{StartPos: pos}

	if p.curIsIdent() {
		stmt.ObjectType = p.curIdentValue()
		p.advance()
	} else {
		p.errorf("expected object type after COMMENT ON")
		return nil
	}

	nameParts := []string{}
	for p.curIsIdent() {
		nameParts = append(nameParts, p.curIdentValue())
		p.advance()
		if p.curIs(token.DOT) {
			p.advance()
			continue
		}
		break
	}
	for i, part := range nameParts {
		if i > 0 {
			stmt.Name += "."
		}
		stmt.Name += part
	}

	if !p.expect(token.IS) {
		return nil
	}

	if p.curIs(token.NULL) {
		stmt.IsNull = true
		p.advance()
	} else if p.curIs(token.STRING) {
		stmt.Text = p.cur.Value
		p.advance()
	} else {
		p.errorf("expected string literal or NULL after IS")
		return nil
	}

	stmt.EndPos = p.cur.Pos
	return stmt
}

// parseVacuum parses VACUUM [FULL] [ANALYZE] [table].
func (p *Parser) parseVacuum() ast.Statement {
	pos := p.cur.Pos
	p.advance() // consume VACUUM

	stmt := &ast.VacuumStmt{StartPos: pos}

	if p.curIs(token.FULL) {
		stmt.Full = true
		p.advance()
	}
	if p.curIs(token.ANALYZE) {
		stmt.Analyze = true
		p.advance()
	}
	if p.curIsIdent() {
		stmt.Table = p.parseTableName()
	}

	stmt.EndPos = p.cur.Pos
	return stmt
}

// parseCheckpoint parses the bare CHECKPOINT statement.
func (p *Parser) parseCheckpoint() ast.Statement {
	pos := p.cur.Pos
	p.advance() // consume CHECKPOINT
	return &ast.CheckpointStmt{StartPos: pos, EndPos: pos}
}
