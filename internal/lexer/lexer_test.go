package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellate-proxy/splitcache/internal/ast"
	"github.com/stellate-proxy/splitcache/internal/lexer"
)

func allTokens(t *testing.T, src string) []lexer.Token {
	t.Helper()
	l := lexer.New(src)
	var toks []lexer.Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == lexer.TokEnd {
			return toks
		}
	}
}

func TestLexerPunctuation(t *testing.T) {
	toks := allTokens(t, `{}()[]:=!|&...`)
	kinds := make([]lexer.Kind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []lexer.Kind{
		lexer.TokBraceOpen, lexer.TokBraceClose,
		lexer.TokParenOpen, lexer.TokParenClose,
		lexer.TokBracketOpen, lexer.TokBracketClose,
		lexer.TokColon, lexer.TokEqual, lexer.TokExclam,
		lexer.TokPipe, lexer.TokAmp, lexer.TokEllipsis,
		lexer.TokEnd,
	}, kinds)
}

func TestLexerName(t *testing.T) {
	toks := allTokens(t, `hello_world`)
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.TokName, toks[0].Kind)
	assert.Equal(t, "hello_world", toks[0].Value)
}

func TestLexerVariableAndDirectiveNames(t *testing.T) {
	toks := allTokens(t, `$foo @bar`)
	require.Len(t, toks, 3)
	assert.Equal(t, lexer.TokVariableName, toks[0].Kind)
	assert.Equal(t, "foo", toks[0].Value)
	assert.Equal(t, lexer.TokDirectiveName, toks[1].Kind)
	assert.Equal(t, "bar", toks[1].Value)
}

func TestLexerStrings(t *testing.T) {
	toks := allTokens(t, `"hello world"`)
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.TokString, toks[0].Kind)
	assert.Equal(t, "hello world", toks[0].Value)
}

func TestLexerNumbers(t *testing.T) {
	toks := allTokens(t, `42 -7 3.14`)
	require.Len(t, toks, 4)
	assert.Equal(t, lexer.TokInt, toks[0].Kind)
	assert.Equal(t, lexer.TokInt, toks[1].Kind)
	assert.Equal(t, lexer.TokFloat, toks[2].Kind)
}

func TestLexerSkipsCommentsAndCommas(t *testing.T) {
	toks := allTokens(t, "# a comment\nhello, world")
	require.Len(t, toks, 3)
	assert.Equal(t, "hello", toks[0].Value)
	assert.Equal(t, "world", toks[1].Value)
}

func TestLexerUnexpectedCharacterError(t *testing.T) {
	l := lexer.New(`%`)
	_, err := l.Next()
	require.Error(t, err)
	var syntaxErr *ast.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
}

func TestLexerUnterminatedStringError(t *testing.T) {
	l := lexer.New(`"unterminated`)
	_, err := l.Next()
	require.Error(t, err)
}
