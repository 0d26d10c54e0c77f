package lexeme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlweave/sqlweave/token"
)

func TestTokenizeDoubledQuoteLiteral(t *testing.T) {
	lexemes, err := Tokenize("SELECT 'it''s';")
	require.NoError(t, err)

	require.Equal(t, token.SELECT, lexemes[0].Type)
	require.True(t, lexemes[0].Flags.Has(FlagCommand))

	require.True(t, lexemes[1].Flags.Has(FlagLiteral))
	require.Equal(t, "it's", lexemes[1].Value)
}

func TestTokenizeAttachesLeadingCommentBefore(t *testing.T) {
	lexemes, err := Tokenize("-- who we serve\nSELECT id FROM users")
	require.NoError(t, err)

	first := lexemes[0]
	require.Equal(t, token.SELECT, first.Type)
	require.Len(t, first.Positioned, 1)
	require.Equal(t, CommentBefore, first.Positioned[0].Position)
	require.Contains(t, first.Positioned[0].Text, "who we serve")
	require.Len(t, first.LegacyComments, 1)
}

func TestTokenizeAttachesTrailingCommentToLastLexeme(t *testing.T) {
	lexemes, err := Tokenize("SELECT 1 -- done")
	require.NoError(t, err)

	var host *Lexeme
	for i := range lexemes {
		if len(lexemes[i].Positioned) > 0 {
			host = &lexemes[i]
		}
	}
	require.NotNil(t, host)
	require.Equal(t, CommentAfter, host.Positioned[0].Position)
}

func TestTokenizeUnterminatedStringHasCaret(t *testing.T) {
	_, err := Tokenize("SELECT 'oops")
	require.Error(t, err)

	terr := err.(*Error)
	require.Equal(t, ErrUnterminatedString, terr.Code)
	require.NotEmpty(t, terr.Snippet)

	lines := strings.Split(terr.Snippet, "\n")
	require.Len(t, lines, 2)
	caretCol := strings.Index(lines[1], "^")
	require.GreaterOrEqual(t, caretCol, 0)
	require.Equal(t, byte('\''), lines[0][caretCol])
}

func TestTokenizeDollarQuotePreservesBody(t *testing.T) {
	lexemes, err := Tokenize("SELECT $fn$one; two\nthree$fn$")
	require.NoError(t, err)

	var body string
	for _, lx := range lexemes {
		if lx.Flags.Has(FlagLiteral) {
			body = lx.Value
		}
	}
	require.Contains(t, body, "one; two\nthree")
}
