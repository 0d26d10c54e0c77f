// Package sqlerr defines the structured error shape shared by every stage
// of the toolkit: tokenizing, parsing, AST invariant checks, transforms,
// and printing each produce a sqlerr.Error carrying a stage-specific code,
// a human message, and, where known, the source position and lexeme index
// that caused it.
package sqlerr

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/sqlweave/sqlweave/token"
)

// Code identifies the stage and category of a failure.
type Code string

const (
	// Tokenization
	CodeUnterminatedString       Code = "tokenize.unterminated_string"
	CodeUnterminatedBlockComment Code = "tokenize.unterminated_block_comment"
	CodeInvalidDollarQuote       Code = "tokenize.invalid_dollar_quote"
	CodeInvalidCharacter         Code = "tokenize.invalid_character"

	// Parsing
	CodeUnexpectedToken    Code = "parse.unexpected_token"
	CodeUnsupportedStmt    Code = "parse.unsupported_statement"
	CodeExpectedKeyword    Code = "parse.expected_keyword"
	CodeExpectedIdentifier Code = "parse.expected_identifier"
	CodeExpectedCloseParen Code = "parse.expected_close_paren"
	CodeExpectedSetClause  Code = "parse.expected_set_clause"
	CodeUnsupportedAction  Code = "parse.unsupported_action"
	CodeTrailingInput      Code = "parse.trailing_input"

	// Cursor resolution / rename routing
	CodeUnsupportedToken Code = "cursor.unsupported_token"

	// AST invariants
	CodeInvalidNode          Code = "ast.invalid_node"
	CodeInvalidCTEName       Code = "ast.invalid_cte_name"
	CodeDuplicateCTE         Code = "ast.duplicate_cte"
	CodeMissingColumnAliases Code = "ast.missing_column_aliases"
	CodeWildcardMisuse       Code = "ast.wildcard_misuse"

	// Transformation
	CodeCTENotFound              Code = "transform.cte_not_found"
	CodeCTEAlreadyExists         Code = "transform.cte_already_exists"
	CodeCyclicReference          Code = "transform.cyclic_reference"
	CodeUnsupportedQueryType     Code = "transform.unsupported_query_type"
	CodeAmbiguousAlias           Code = "transform.ambiguous_alias"
	CodeMissingFixture           Code = "transform.missing_fixture"
	CodeNoReturning              Code = "transform.no_returning_clause"
	CodeRequiredColumnMissing    Code = "transform.required_column_missing"
	CodeArityMismatch            Code = "transform.arity_mismatch"
	CodeUnknownTable             Code = "transform.unknown_table"
	CodeUnsupportedValuesPayload Code = "transform.unsupported_values_payload"

	// Printing
	CodeUnprintableNode Code = "print.unprintable_node"
	CodeInvalidPreset   Code = "print.invalid_preset"
)

// Error is the structured error value returned from every public entry
// point in this module. It wraps an underlying cause via juju/errors so
// callers keep the annotated trace, while also exposing the flat fields
// the rest of the toolkit consults directly.
type Error struct {
	Code        Code
	Message     string
	Pos         token.Pos
	HasPos      bool
	LexemeIndex int
	HasLexeme   bool
	cause       error
}

func (e *Error) Error() string {
	if e.HasPos {
		return fmt.Sprintf("%s: %s (line %d, column %d)", e.Code, e.Message, e.Pos.Line, e.Pos.Column)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is/errors.As see through to the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// New builds an Error with no position information.
func New(code Code, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Code: code, Message: msg, cause: errors.New(msg)}
}

// At builds an Error tied to a source position.
func At(code Code, pos token.Pos, format string, args ...interface{}) *Error {
	e := New(code, format, args...)
	e.Pos = pos
	e.HasPos = true
	return e
}

// AtLexeme additionally records which lexeme (by index into the slice
// returned by lexeme.Tokenize) triggered the error.
func AtLexeme(code Code, pos token.Pos, idx int, format string, args ...interface{}) *Error {
	e := At(code, pos, format, args...)
	e.LexemeIndex = idx
	e.HasLexeme = true
	return e
}

// Wrap annotates an existing error with a new stage/context frame, using
// juju/errors' context-frame convention (errors.Annotate) rather than
// swallowing the original cause.
func Wrap(cause error, code Code, context string) *Error {
	annotated := errors.Annotate(cause, context)
	if se, ok := cause.(*Error); ok {
		return &Error{Code: code, Message: annotated.Error(), Pos: se.Pos, HasPos: se.HasPos, LexemeIndex: se.LexemeIndex, HasLexeme: se.HasLexeme, cause: annotated}
	}
	return &Error{Code: code, Message: annotated.Error(), cause: annotated}
}
