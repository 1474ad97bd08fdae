package lexer

import (
	"fmt"
	"strings"

	"github.com/stellate-proxy/splitcache/internal/ast"
)

// Lexer scans one source document into a stream of Tokens.
type Lexer struct {
	src    string
	pos    int
	line   int
	column int
}

// New creates a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, column: 1}
}

func (l *Lexer) errorf(loc ast.Location, format string, args ...interface{}) *ast.SyntaxError {
	return &ast.SyntaxError{Location: loc, Message: fmt.Sprintf(format, args...), Snippet: l.snippet(loc)}
}

func (l *Lexer) snippet(loc ast.Location) string {
	lines := strings.Split(l.src, "\n")
	idx := loc.Line - 1
	if idx < 0 || idx >= len(lines) {
		return ""
	}
	line := lines[idx]
	marker := strings.Repeat(" ", max(loc.Column-1, 0)) + "^"
	return line + "\n" + marker
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (l *Lexer) loc() ast.Location {
	return ast.Location{Line: l.line, Column: l.column}
}

func (l *Lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return c
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameCont(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// skipIgnored consumes whitespace, commas, line comments, and the UTF-8
// BOM, none of which are significant tokens in the executable grammar.
func (l *Lexer) skipIgnored() {
	for l.pos < len(l.src) {
		c := l.peekByte()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ',':
			l.advance()
		case c == '#':
			for l.pos < len(l.src) && l.peekByte() != '\n' {
				l.advance()
			}
		case c == 0xEF && l.peekAt(1) == 0xBB && l.peekAt(2) == 0xBF:
			l.advance()
			l.advance()
			l.advance()
		default:
			return
		}
	}
}

// Next scans and returns the next token, or a *ast.SyntaxError if the
// source does not conform to the grammar.
func (l *Lexer) Next() (Token, error) {
	l.skipIgnored()
	start := l.pos
	loc := l.loc()
	if l.pos >= len(l.src) {
		return Token{Kind: TokEnd, Start: start, End: start, Line: loc.Line, Column: loc.Column}, nil
	}
	c := l.peekByte()
	switch {
	case c == '{':
		l.advance()
		return l.simple(TokBraceOpen, start, loc), nil
	case c == '}':
		l.advance()
		return l.simple(TokBraceClose, start, loc), nil
	case c == '(':
		l.advance()
		return l.simple(TokParenOpen, start, loc), nil
	case c == ')':
		l.advance()
		return l.simple(TokParenClose, start, loc), nil
	case c == '[':
		l.advance()
		return l.simple(TokBracketOpen, start, loc), nil
	case c == ']':
		l.advance()
		return l.simple(TokBracketClose, start, loc), nil
	case c == ':':
		l.advance()
		return l.simple(TokColon, start, loc), nil
	case c == '=':
		l.advance()
		return l.simple(TokEqual, start, loc), nil
	case c == '!':
		l.advance()
		return l.simple(TokExclam, start, loc), nil
	case c == '|':
		l.advance()
		return l.simple(TokPipe, start, loc), nil
	case c == '&':
		l.advance()
		return l.simple(TokAmp, start, loc), nil
	case c == '.':
		if l.peekAt(1) == '.' && l.peekAt(2) == '.' {
			l.advance()
			l.advance()
			l.advance()
			return Token{Kind: TokEllipsis, Value: "...", Start: start, End: l.pos, Line: loc.Line, Column: loc.Column}, nil
		}
		return Token{}, l.errorf(loc, "unexpected '.'")
	case c == '@':
		l.advance()
		name, err := l.readName()
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TokDirectiveName, Value: name, Start: start, End: l.pos, Line: loc.Line, Column: loc.Column}, nil
	case c == '$':
		l.advance()
		name, err := l.readName()
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TokVariableName, Value: name, Start: start, End: l.pos, Line: loc.Line, Column: loc.Column}, nil
	case c == '"':
		return l.readString(start, loc)
	case isNameStart(c):
		name, err := l.readName()
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: TokName, Value: name, Start: start, End: l.pos, Line: loc.Line, Column: loc.Column}, nil
	case isDigit(c) || c == '-':
		return l.readNumber(start, loc)
	default:
		return Token{}, l.errorf(loc, "unexpected character %q", string(c))
	}
}

func (l *Lexer) simple(k Kind, start int, loc ast.Location) Token {
	return Token{Kind: k, Value: l.src[start:l.pos], Start: start, End: l.pos, Line: loc.Line, Column: loc.Column}
}

func (l *Lexer) readName() (string, error) {
	if !isNameStart(l.peekByte()) {
		return "", l.errorf(l.loc(), "expected name")
	}
	start := l.pos
	for l.pos < len(l.src) && isNameCont(l.peekByte()) {
		l.advance()
	}
	return l.src[start:l.pos], nil
}

func (l *Lexer) readNumber(start int, loc ast.Location) (Token, error) {
	if l.peekByte() == '-' {
		l.advance()
	}
	if l.peekByte() == '0' {
		l.advance()
	} else if isDigit(l.peekByte()) {
		for isDigit(l.peekByte()) {
			l.advance()
		}
	} else {
		return Token{}, l.errorf(loc, "invalid number literal")
	}
	isFloat := false
	if l.peekByte() == '.' && isDigit(l.peekAt(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peekByte()) {
			l.advance()
		}
	}
	if l.peekByte() == 'e' || l.peekByte() == 'E' {
		isFloat = true
		l.advance()
		if l.peekByte() == '+' || l.peekByte() == '-' {
			l.advance()
		}
		if !isDigit(l.peekByte()) {
			return Token{}, l.errorf(loc, "invalid exponent in number literal")
		}
		for isDigit(l.peekByte()) {
			l.advance()
		}
	}
	raw := l.src[start:l.pos]
	kind := TokInt
	if isFloat {
		kind = TokFloat
	}
	return Token{Kind: kind, Value: raw, Start: start, End: l.pos, Line: loc.Line, Column: loc.Column}, nil
}

func (l *Lexer) readString(start int, loc ast.Location) (Token, error) {
	if l.peekByte() == '"' && l.peekAt(1) == '"' && l.peekAt(2) == '"' {
		return l.readBlockString(start, loc)
	}
	l.advance() // opening quote
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return Token{}, l.errorf(loc, "unterminated string")
		}
		c := l.peekByte()
		if c == '"' {
			l.advance()
			break
		}
		if c == '\n' {
			return Token{}, l.errorf(l.loc(), "unescaped newline in string")
		}
		if c == '\\' {
			l.advance()
			esc := l.peekByte()
			switch esc {
			case '"':
				b.WriteByte('"')
				l.advance()
			case '\\':
				b.WriteByte('\\')
				l.advance()
			case '/':
				b.WriteByte('/')
				l.advance()
			case 'b':
				b.WriteByte('\b')
				l.advance()
			case 'f':
				b.WriteByte('\f')
				l.advance()
			case 'n':
				b.WriteByte('\n')
				l.advance()
			case 'r':
				b.WriteByte('\r')
				l.advance()
			case 't':
				b.WriteByte('\t')
				l.advance()
			case 'u':
				l.advance()
				r, err := l.readUnicodeEscape()
				if err != nil {
					return Token{}, err
				}
				b.WriteRune(r)
			default:
				return Token{}, l.errorf(l.loc(), "invalid escape sequence \\%c", esc)
			}
			continue
		}
		b.WriteByte(c)
		l.advance()
	}
	return Token{Kind: TokString, Value: b.String(), Start: start, End: l.pos, Line: loc.Line, Column: loc.Column}, nil
}

func (l *Lexer) readUnicodeEscape() (rune, error) {
	if l.pos+4 > len(l.src) {
		return 0, l.errorf(l.loc(), "invalid unicode escape")
	}
	var r rune
	for i := 0; i < 4; i++ {
		c := l.peekByte()
		var v rune
		switch {
		case c >= '0' && c <= '9':
			v = rune(c - '0')
		case c >= 'a' && c <= 'f':
			v = rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v = rune(c-'A') + 10
		default:
			return 0, l.errorf(l.loc(), "invalid unicode escape digit %q", string(c))
		}
		r = r*16 + v
		l.advance()
	}
	return r, nil
}

func (l *Lexer) readBlockString(start int, loc ast.Location) (Token, error) {
	l.advance()
	l.advance()
	l.advance()
	var raw strings.Builder
	for {
		if l.pos >= len(l.src) {
			return Token{}, l.errorf(loc, "unterminated block string")
		}
		if l.peekByte() == '"' && l.peekAt(1) == '"' && l.peekAt(2) == '"' {
			l.advance()
			l.advance()
			l.advance()
			break
		}
		if l.peekByte() == '\\' && l.peekAt(1) == '"' && l.peekAt(2) == '"' && l.peekAt(3) == '"' {
			raw.WriteString(`"""`)
			l.advance()
			l.advance()
			l.advance()
			l.advance()
			continue
		}
		raw.WriteByte(l.peekByte())
		l.advance()
	}
	return Token{Kind: TokString, Value: DedentBlockString(raw.String()), Start: start, End: l.pos, Line: loc.Line, Column: loc.Column}, nil
}

// DedentBlockString implements the GraphQL spec's BlockStringValue
// algorithm: strip the common leading indentation from every line after
// the first, then trim leading and trailing blank lines.
func DedentBlockString(raw string) string {
	lines := strings.Split(raw, "\n")
	commonIndent := -1
	for i, line := range lines {
		if i == 0 {
			continue
		}
		indent := leadingWhitespace(line)
		if indent == len(line) {
			continue // blank line doesn't count
		}
		if commonIndent == -1 || indent < commonIndent {
			commonIndent = indent
		}
	}
	if commonIndent > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= commonIndent {
				lines[i] = lines[i][commonIndent:]
			} else {
				lines[i] = ""
			}
		}
	}
	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func leadingWhitespace(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}

func isBlank(s string) bool {
	return leadingWhitespace(s) == len(s)
}
