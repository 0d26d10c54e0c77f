// Package lexeme is the public tokenizer surface. It wraps the internal
// lexer/token packages into position-spanning Lexeme values, attaches
// comments to their neighbouring lexeme, and reports tokenization failures
// as structured errors instead of ILLEGAL tokens.
package lexeme

import (
	"fmt"
	"strings"

	"github.com/sqlweave/sqlweave/lexer"
	"github.com/sqlweave/sqlweave/token"
)

// Flags classifies a Lexeme's syntactic role. A lexeme can carry more than
// one flag (e.g. a specifier-prefixed string such as x'ff' is both Literal
// and StringSpecifier), so Flags is a bitset.
type Flags uint16

const (
	FlagLiteral Flags = 1 << iota
	FlagOperator
	FlagOpenParen
	FlagCloseParen
	FlagComma
	FlagDot
	FlagIdentifier
	FlagCommand
	FlagParameter
	FlagOpenBracket
	FlagCloseBracket
	FlagFunction
	FlagStringSpecifier
	FlagType
)

func (f Flags) Has(flag Flags) bool { return f&flag != 0 }

// CommentPosition says whether a comment attaches before or after the
// lexeme it travels with.
type CommentPosition int

const (
	CommentBefore CommentPosition = iota
	CommentAfter
)

// PositionedComment is a single comment tied to a side of a lexeme.
type PositionedComment struct {
	Position CommentPosition
	Text     string
	Pos      token.Pos
}

// Lexeme is one scanned unit of SQL text: a token plus its full span,
// syntactic flags, and any comments attached to it.
type Lexeme struct {
	Type  token.Token
	Value string
	Flags Flags
	Pos   token.Pos
	End   token.Pos

	// Specifier holds the prefix letter of a specifier-prefixed string
	// literal (FlagStringSpecifier set), e.g. "e" for e'...', "x" for
	// x'...'. Empty for every other lexeme.
	Specifier string

	// LegacyComments is the flat, order-preserving list of every comment
	// text that appeared immediately before this lexeme. It exists for
	// callers that only want "the comments near token N" without caring
	// which side they attach to.
	LegacyComments []string

	// Positioned is the dual, position-aware comment representation:
	// each entry records whether it precedes or follows the lexeme.
	Positioned []PositionedComment
}

// A Lexeme does not record its own index; Tokenize callers address
// lexemes by slice index, and error records carry that index
// (sqlerr.Error.LexemeIndex mirrors the index in the slice Tokenize
// returned).

// Error is returned by Tokenize when the input cannot be fully scanned.
// Snippet carries a caret diagram of the offending position over up to
// five characters of context on each side.
type Error struct {
	Code    string
	Message string
	Pos     token.Pos
	Snippet string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s at line %d, column %d: %s", e.Code, e.Pos.Line, e.Pos.Column, e.Message)
	if e.Snippet != "" {
		msg += "\n" + e.Snippet
	}
	return msg
}

const (
	ErrUnterminatedString       = "unterminated_string"
	ErrUnterminatedBlockComment = "unterminated_block_comment"
	ErrInvalidDollarQuote       = "invalid_dollar_quote"
	ErrInvalidCharacter         = "invalid_character"
)

// Tokenize scans sql into a slice of Lexemes. Comment tokens are never
// returned as standalone Lexemes; they are folded into the LegacyComments
// and Positioned fields of the nearest non-comment neighbour. A comment
// starting on the same line a lexeme ends on attaches "after" that
// lexeme; every other comment (including a block comment spanning lines)
// attaches "before" the lexeme that follows it.
func Tokenize(sql string) ([]Lexeme, error) {
	lx := lexer.New(sql)

	var out []Lexeme
	var pendingBefore []PositionedComment
	var pendingLegacy []string

	for {
		item := lx.Next()

		if item.Type == token.COMMENT {
			text := item.Value
			if len(out) > 0 && len(pendingBefore) == 0 &&
				item.Pos.Line == out[len(out)-1].End.Line &&
				item.Pos.Line == item.End.Line {
				host := &out[len(out)-1]
				host.Positioned = append(host.Positioned, PositionedComment{
					Position: CommentAfter,
					Text:     text,
					Pos:      item.Pos,
				})
				host.LegacyComments = append(host.LegacyComments, text)
				continue
			}
			pendingLegacy = append(pendingLegacy, text)
			pendingBefore = append(pendingBefore, PositionedComment{
				Position: CommentBefore,
				Text:     text,
				Pos:      item.Pos,
			})
			continue
		}

		if item.Type == token.ILLEGAL {
			return out, classifyIllegal(item, sql)
		}

		lex := Lexeme{
			Type:           item.Type,
			Value:          item.Value,
			Flags:          classify(item),
			Pos:            item.Pos,
			End:            item.End,
			Specifier:      item.Specifier,
			LegacyComments: pendingLegacy,
			Positioned:     pendingBefore,
		}
		pendingBefore = nil
		pendingLegacy = nil

		out = append(out, lex)

		if item.Type == token.EOF {
			break
		}
	}

	return out, nil
}

func classifyIllegal(item token.Item, sql string) error {
	code := ErrInvalidCharacter
	msg := fmt.Sprintf("unexpected character %q", item.Value)
	switch {
	case len(item.Value) > 0 && (item.Value[0] == '\'' || item.Value[0] == '"' || item.Value[0] == '`'):
		code = ErrUnterminatedString
		msg = "unterminated quoted string or identifier"
	case len(item.Value) > 0 && item.Value[0] == '$':
		code = ErrInvalidDollarQuote
		msg = "malformed dollar-quoted string"
	case len(item.Value) >= 2 && item.Value[:2] == "/*":
		code = ErrUnterminatedBlockComment
		msg = "unterminated block comment"
	}
	return &Error{Code: code, Message: msg, Pos: item.Pos, Snippet: caretSnippet(sql, item.Pos.Offset)}
}

// caretSnippet renders the characters surrounding offset (five on each
// side, stopping at line boundaries) with a caret marking the offending
// position on the line below.
func caretSnippet(sql string, offset int) string {
	if offset < 0 || offset > len(sql) {
		return ""
	}
	start := offset - 5
	if start < 0 {
		start = 0
	}
	end := offset + 6 // the offending character plus five after it
	if end > len(sql) {
		end = len(sql)
	}
	for i := offset; i > start; i-- {
		if sql[i-1] == '\n' {
			start = i
			break
		}
	}
	for i := offset; i < end; i++ {
		if sql[i] == '\n' {
			end = i
			break
		}
	}
	line := sql[start:end]
	marker := strings.Repeat(" ", offset-start) + "^"
	return line + "\n" + marker
}

func classify(item token.Item) Flags {
	var f Flags
	switch item.Type {
	case token.LPAREN:
		f |= FlagOpenParen
	case token.RPAREN:
		f |= FlagCloseParen
	case token.LBRACKET:
		f |= FlagOpenBracket
	case token.RBRACKET:
		f |= FlagCloseBracket
	case token.COMMA:
		f |= FlagComma
	case token.DOT:
		f |= FlagDot
	case token.PARAM:
		f |= FlagParameter
	case token.IDENT:
		f |= FlagIdentifier
	case token.BLOB:
		if item.Specifier != "" {
			f |= FlagStringSpecifier
		}
	}
	if item.Type.IsLiteral() {
		f |= FlagLiteral
	}
	if item.Type.IsKeyword() {
		switch item.Type {
		case token.SELECT, token.INSERT, token.UPDATE, token.DELETE, token.MERGE,
			token.CREATE, token.ALTER, token.DROP, token.TRUNCATE, token.EXPLAIN,
			token.VACUUM, token.CHECKPOINT:
			f |= FlagCommand
		}
	}
	if isOperatorToken(item.Type) {
		f |= FlagOperator
	}
	return f
}

func isOperatorToken(t token.Token) bool {
	switch t {
	case token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
		token.EQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE,
		token.CONCAT, token.BITAND, token.BITOR, token.BITXOR, token.BITNOT,
		token.DARROW, token.ARROW:
		return true
	}
	return false
}
