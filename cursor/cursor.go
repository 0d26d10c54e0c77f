// Package cursor resolves source positions against a tokenized statement:
// offset/line-column conversion, "which lexeme is under the cursor", and
// splitting a multi-statement script on statement-terminating semicolons
// while respecting quotes, comments, and dollar-quoted bodies.
package cursor

import (
	"strings"

	"github.com/sqlweave/sqlweave/lexeme"
	"github.com/sqlweave/sqlweave/token"
)

// LineColumn is a 1-indexed (line, column) pair.
type LineColumn struct {
	Line   int
	Column int
}

// OffsetToLineColumn converts a byte offset into sql to a (line, column)
// pair by counting newlines up to that offset.
func OffsetToLineColumn(sql string, offset int) LineColumn {
	if offset > len(sql) {
		offset = len(sql)
	}
	line := 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if sql[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return LineColumn{Line: line, Column: offset - lineStart + 1}
}

// LineColumnToOffset converts a (line, column) pair back to a byte offset.
func LineColumnToOffset(sql string, lc LineColumn) int {
	line := 1
	for i := 0; i < len(sql); i++ {
		if line == lc.Line {
			end := i + lc.Column - 1
			if end > len(sql) {
				end = len(sql)
			}
			return end
		}
		if sql[i] == '\n' {
			line++
		}
	}
	if line == lc.Line {
		return len(sql)
	}
	return len(sql)
}

// FindLexemeAtOffset returns the index of the lexeme whose [Pos.Offset,
// End.Offset) span contains offset, or -1 if none does (e.g. offset falls
// on whitespace between lexemes).
func FindLexemeAtOffset(lexemes []lexeme.Lexeme, offset int) int {
	for i, lx := range lexemes {
		if offset >= lx.Pos.Offset && offset < lx.End.Offset {
			return i
		}
	}
	return -1
}

// FindLexemeAtLineColumn is the (line, column) counterpart of
// FindLexemeAtOffset.
func FindLexemeAtLineColumn(lexemes []lexeme.Lexeme, lc LineColumn) int {
	for i, lx := range lexemes {
		if within(lx.Pos, lx.End, lc) {
			return i
		}
	}
	return -1
}

func within(start, end token.Pos, lc LineColumn) bool {
	if lc.Line < start.Line || lc.Line > end.Line {
		return false
	}
	if lc.Line == start.Line && lc.Column < start.Column {
		return false
	}
	if lc.Line == end.Line && lc.Column >= end.Column {
		return false
	}
	return true
}

// SplitStatements splits sql on top-level semicolons, ignoring semicolons
// that occur inside single/double-quoted strings, backtick or bracket
// identifiers, line/block comments, or dollar-quoted bodies. Each
// returned segment excludes its terminating semicolon and is not
// trimmed. A line comment that follows the semicolon on the same line is
// appended to the segment it ends; that segment is then the text before
// the semicolon joined to the comment, not a contiguous slice of sql.
func SplitStatements(sql string) []string {
	var stmts []string
	segStart := 0

	i := 0
	n := len(sql)
	for i < n {
		ch := sql[i]
		switch {
		case ch == '\'' || ch == '"' || ch == '`':
			i = skipQuoted(sql, i, ch)
		case ch == '[':
			i = skipBracket(sql, i)
		case ch == '-' && i+1 < n && sql[i+1] == '-':
			i = skipLineComment(sql, i)
		case ch == '/' && i+1 < n && sql[i+1] == '*':
			i = skipBlockComment(sql, i)
		case ch == '$':
			if j, ok := skipDollarQuote(sql, i); ok {
				i = j
				continue
			}
			i++
		case ch == ';':
			end := i
			i++
			// A line comment trailing the semicolon on the same line
			// belongs to the statement it annotates, not the next one.
			j := i
			for j < n && (sql[j] == ' ' || sql[j] == '\t') {
				j++
			}
			if j+1 < n && sql[j] == '-' && sql[j+1] == '-' {
				j = skipLineComment(sql, j)
				stmts = append(stmts, sql[segStart:end]+sql[end+1:j])
				segStart = j
				i = j
				continue
			}
			stmts = append(stmts, sql[segStart:end])
			segStart = i
		default:
			i++
		}
	}
	if strings.TrimSpace(sql[segStart:]) != "" {
		stmts = append(stmts, sql[segStart:])
	}
	return stmts
}

func skipQuoted(sql string, i int, quote byte) int {
	n := len(sql)
	i++
	for i < n {
		if sql[i] == '\\' && quote != '`' && i+1 < n {
			i += 2
			continue
		}
		if sql[i] == quote {
			if i+1 < n && sql[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return i
}

func skipBracket(sql string, i int) int {
	n := len(sql)
	i++
	for i < n {
		if sql[i] == ']' {
			if i+1 < n && sql[i+1] == ']' {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return i
}

func skipLineComment(sql string, i int) int {
	n := len(sql)
	for i < n && sql[i] != '\n' {
		i++
	}
	return i
}

func skipBlockComment(sql string, i int) int {
	n := len(sql)
	i += 2
	for i < n {
		if sql[i] == '*' && i+1 < n && sql[i+1] == '/' {
			return i + 2
		}
		i++
	}
	return i
}

func skipDollarQuote(sql string, i int) (int, bool) {
	n := len(sql)
	j := i + 1
	tagStart := j
	for j < n && (isTagChar(sql[j])) {
		j++
	}
	if j >= n || sql[j] != '$' {
		return i, false
	}
	tag := sql[tagStart:j]
	delim := "$" + tag + "$"
	bodyStart := j + 1
	idx := strings.Index(sql[bodyStart:], delim)
	if idx == -1 {
		return n, true
	}
	return bodyStart + idx + len(delim), true
}

func isTagChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
