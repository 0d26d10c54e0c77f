package transform

import (
	"strings"

	"github.com/sqlweave/sqlweave/ast"
	"github.com/sqlweave/sqlweave/cursor"
	"github.com/sqlweave/sqlweave/lexeme"
	"github.com/sqlweave/sqlweave/sqlerr"
	"github.com/sqlweave/sqlweave/token"
)

// RenameCTEAtPosition resolves the identifier under offset in sql against
// lexemes produced by lexeme.Tokenize(sql), and renames it as a CTE if
// it names one attached (directly) to stmt. The token under the cursor
// must be an identifier or function name, and newName must not be a
// reserved keyword.
func RenameCTEAtPosition(stmt ast.Statement, sql string, lexemes []lexeme.Lexeme, offset int, newName string) error {
	idx := cursor.FindLexemeAtOffset(lexemes, offset)
	if idx < 0 {
		return sqlerr.New(sqlerr.CodeCTENotFound, "no lexeme at offset %d", offset)
	}
	lx := lexemes[idx]
	if !lx.Flags.Has(lexeme.FlagIdentifier) && !lx.Flags.Has(lexeme.FlagFunction) {
		return sqlerr.New(sqlerr.CodeUnsupportedToken, "cursor is not on an identifier/function token")
	}
	if token.IsKeyword(newName) {
		return sqlerr.New(sqlerr.CodeInvalidCTEName, "%q is a reserved keyword", newName)
	}
	return RenameCTE(stmt, lx.Value, newName)
}

// SmartRenameAtPosition resolves the identifier under offset and routes
// the rename to RenameCTE if that identifier names a CTE on stmt, or to
// RenameTableAlias otherwise. This mirrors how an editor's "rename
// symbol" command can't know in advance whether the cursor sits on a CTE
// name or an ordinary table alias.
func SmartRenameAtPosition(stmt ast.Statement, sql string, lexemes []lexeme.Lexeme, offset int, newName string) error {
	idx := cursor.FindLexemeAtOffset(lexemes, offset)
	if idx < 0 {
		return sqlerr.New(sqlerr.CodeCTENotFound, "no lexeme at offset %d", offset)
	}
	name := lexemes[idx].Value
	if HasCTE(stmt, name) {
		return RenameCTE(stmt, name, newName)
	}
	RenameTableAlias(stmt, name, newName)
	return nil
}

// SmartRenamePreserveFormatting performs the same routing decision as
// SmartRenameAtPosition (CTE name under the cursor vs. ordinary table
// alias) but produces its output by splicing newName into sql directly
// at each lexeme matching the old identifier, rather than rebuilding
// stmt and handing it to the print pipeline. This keeps every other
// byte of the caller's formatting (whitespace, comment placement,
// original casing of unrelated tokens) untouched, at the cost of not
// distinguishing alias scope the way the AST-based rename does: every
// bare lexeme matching oldName is replaced.
//
// The result is validated against three post-conditions
// before being returned: the output must differ from the input, must
// contain newName, and the count of bare oldName occurrences among the
// renamed lexeme kind must strictly decrease. If any post-condition
// fails, the caller's original sql is returned unchanged alongside the
// error.
func SmartRenamePreserveFormatting(stmt ast.Statement, sql string, lexemes []lexeme.Lexeme, offset int, newName string) (string, error) {
	idx := cursor.FindLexemeAtOffset(lexemes, offset)
	if idx < 0 {
		return sql, sqlerr.New(sqlerr.CodeCTENotFound, "no lexeme at offset %d", offset)
	}
	lx := lexemes[idx]
	if !lx.Flags.Has(lexeme.FlagIdentifier) && !lx.Flags.Has(lexeme.FlagFunction) {
		return sql, sqlerr.New(sqlerr.CodeUnsupportedToken, "cursor is not on an identifier/function token")
	}
	oldName := lx.Value

	before := countBareIdentifier(lexemes, oldName)

	var b strings.Builder
	cursorPos := 0
	for _, lx := range lexemes {
		if !matchesIdentifier(lx, oldName) {
			continue
		}
		b.WriteString(sql[cursorPos:lx.Pos.Offset])
		b.WriteString(newName)
		cursorPos = lx.End.Offset
	}
	b.WriteString(sql[cursorPos:])
	out := b.String()

	if out == sql {
		return sql, sqlerr.New(sqlerr.CodeCTENotFound, "rename produced no change")
	}
	if !strings.Contains(out, newName) {
		return sql, sqlerr.New(sqlerr.CodeCTENotFound, "rename did not introduce new name")
	}
	outLexemes, err := lexeme.Tokenize(out)
	if err == nil {
		if after := countBareIdentifier(outLexemes, oldName); after >= before {
			return sql, sqlerr.New(sqlerr.CodeCTENotFound, "rename did not reduce old-name occurrences")
		}
	}

	if HasCTE(stmt, oldName) {
		_ = RenameCTE(stmt, oldName, newName)
	} else {
		RenameTableAlias(stmt, oldName, newName)
	}
	return out, nil
}

func matchesIdentifier(lx lexeme.Lexeme, name string) bool {
	if !lx.Flags.Has(lexeme.FlagIdentifier) && !lx.Flags.Has(lexeme.FlagFunction) {
		return false
	}
	return strings.EqualFold(lx.Value, name)
}

func countBareIdentifier(lexemes []lexeme.Lexeme, name string) int {
	n := 0
	for _, lx := range lexemes {
		if matchesIdentifier(lx, name) {
			n++
		}
	}
	return n
}
