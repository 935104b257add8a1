// Package lexer scans preprocessed gos source into a token stream.
package lexer

import (
	"strconv"
	"unicode"

	"gos/internal/goserr"
	"gos/pkg/token"
)

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line

	prev token.Kind // kind of the last token emitted, for POS/NEG disambiguation
	has  bool       // whether prev is meaningful yet
}

// New returns a Lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards everything from the current position to
// end-of-line. The opening '#' must already have been consumed.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '\\'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r)
}

// scanIdent collects a full identifier or keyword token. The first
// character must still be at l.peek().
func (l *Lexer) scanIdent() token.Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.peek()) {
		l.advance()
	}
	text := string(l.src[start:l.pos])
	if kw, ok := token.Keywords[text]; ok {
		if kw == token.TRUE {
			return token.Token{Kind: token.TRUE, Text: text, Value: token.Bool(true), Line: line}
		}
		if kw == token.FALSE {
			return token.Token{Kind: token.FALSE, Text: text, Value: token.Bool(false), Line: line}
		}
		if kw == token.NULL {
			return token.Token{Kind: token.NULL, Text: text, Value: token.Unit(), Line: line}
		}
		return token.Token{Kind: kw, Text: text, Line: line}
	}
	return token.Token{Kind: token.IDENT, Text: text, Line: line}
}

// scanNumber collects a decimal literal with an optional fractional part.
// The first digit must still be at l.peek().
func (l *Lexer) scanNumber() (token.Token, error) {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' {
		if !unicode.IsDigit(l.peek2()) {
			return token.Token{}, goserr.New(goserr.PhaseLexer, line, "malformed number literal: expected digit after '.'")
		}
		l.advance() // consume '.'
		for l.pos < len(l.src) && unicode.IsDigit(l.peek()) {
			l.advance()
		}
	}
	text := string(l.src[start:l.pos])
	n, err := parseFloat(text)
	if err != nil {
		return token.Token{}, goserr.New(goserr.PhaseLexer, line, "malformed number literal %q", text)
	}
	return token.Token{Kind: token.NUMBER, Text: text, Value: token.Number(n), Line: line}, nil
}

// scanString collects a string literal delimited by matching quote runes.
// No escape processing is performed beyond recognizing the closing quote.
func (l *Lexer) scanString() (token.Token, error) {
	line := l.line
	quote := l.advance() // consume opening quote
	var val []rune
	for {
		if l.pos >= len(l.src) {
			return token.Token{}, goserr.New(goserr.PhaseLexer, line, "unterminated string literal")
		}
		r := l.peek()
		if r == quote {
			l.advance()
			break
		}
		if r == '\n' {
			return token.Token{}, goserr.New(goserr.PhaseLexer, line, "unterminated string literal")
		}
		val = append(val, r)
		l.advance()
	}
	text := string(val)
	return token.Token{Kind: token.STRING, Text: text, Value: token.Str(text), Line: line}, nil
}

// isPrefixContext reports whether the previously emitted token means a
// following '+' or '-' should be read as a unary POS/NEG rather than the
// binary ADD/SUB.
func (l *Lexer) isPrefixContext() bool {
	if !l.has {
		return true
	}
	switch l.prev {
	case token.EOF, token.LPAREN, token.ASSIGN, token.COLON:
		return true
	default:
		return false
	}
}

// Next returns the next token in the stream, or a Lexer-phase error.
func (l *Lexer) Next() (token.Token, error) {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return l.emit(token.Token{Kind: token.EOF, Line: l.line})
		}
		if l.peek() == '#' {
			l.advance()
			l.skipLineComment()
			continue
		}
		break
	}

	ch := l.peek()
	line := l.line

	if isIdentStart(ch) {
		return l.emit(l.scanIdent())
	}
	if unicode.IsDigit(ch) {
		tok, err := l.scanNumber()
		if err != nil {
			return token.Token{}, err
		}
		return l.emit(tok)
	}
	if ch == '"' || ch == '\'' {
		tok, err := l.scanString()
		if err != nil {
			return token.Token{}, err
		}
		return l.emit(tok)
	}

	l.advance()
	switch ch {
	case '(':
		return l.emit(token.Token{Kind: token.LPAREN, Text: "(", Line: line})
	case ')':
		return l.emit(token.Token{Kind: token.RPAREN, Text: ")", Line: line})
	case '{':
		return l.emit(token.Token{Kind: token.LBRACE, Text: "{", Line: line})
	case '}':
		return l.emit(token.Token{Kind: token.RBRACE, Text: "}", Line: line})
	case ':':
		return l.emit(token.Token{Kind: token.COLON, Text: ":", Line: line})
	case '*':
		return l.emit(token.Token{Kind: token.MUL, Text: "*", Line: line})
	case '/':
		return l.emit(token.Token{Kind: token.DIV, Text: "/", Line: line})
	case '+':
		if l.peek() == '+' {
			l.advance()
			return l.emit(token.Token{Kind: token.INC, Text: "++", Line: line})
		}
		if l.isPrefixContext() {
			return l.emit(token.Token{Kind: token.POS, Text: "+", Line: line})
		}
		return l.emit(token.Token{Kind: token.ADD, Text: "+", Line: line})
	case '-':
		if l.peek() == '-' {
			l.advance()
			return l.emit(token.Token{Kind: token.DEC, Text: "--", Line: line})
		}
		if l.isPrefixContext() {
			return l.emit(token.Token{Kind: token.NEG, Text: "-", Line: line})
		}
		return l.emit(token.Token{Kind: token.SUB, Text: "-", Line: line})
	case '=':
		if l.peek() == '=' {
			l.advance()
			return l.emit(token.Token{Kind: token.EQ, Text: "==", Line: line})
		}
		return l.emit(token.Token{Kind: token.ASSIGN, Text: "=", Line: line})
	case '!':
		if l.peek() == '=' {
			l.advance()
			return l.emit(token.Token{Kind: token.NE, Text: "!=", Line: line})
		}
		return l.emit(token.Token{Kind: token.NOT, Text: "!", Line: line})
	case '>':
		if l.peek() == '=' {
			l.advance()
			return l.emit(token.Token{Kind: token.GE, Text: ">=", Line: line})
		}
		return l.emit(token.Token{Kind: token.GT, Text: ">", Line: line})
	case '<':
		if l.peek() == '=' {
			l.advance()
			return l.emit(token.Token{Kind: token.LE, Text: "<=", Line: line})
		}
		return l.emit(token.Token{Kind: token.LT, Text: "<", Line: line})
	case '&':
		if l.peek() == '&' {
			l.advance()
			return l.emit(token.Token{Kind: token.AND_LOGICAL, Text: "&&", Line: line})
		}
		return l.emit(token.Token{Kind: token.AND, Text: "&", Line: line})
	case '|':
		if l.peek() == '|' {
			l.advance()
			return l.emit(token.Token{Kind: token.OR_LOGICAL, Text: "||", Line: line})
		}
		return l.emit(token.Token{Kind: token.OR, Text: "|", Line: line})
	case '^':
		return l.emit(token.Token{Kind: token.XOR, Text: "^", Line: line})
	default:
		return token.Token{}, goserr.New(goserr.PhaseLexer, line, "unexpected character %q", ch)
	}
}

func (l *Lexer) emit(t token.Token) (token.Token, error) {
	l.prev = t.Kind
	l.has = true
	return t, nil
}

// Lex tokenizes src and returns every token including the trailing EOF. It
// returns the first Lexer-phase error encountered.
func Lex(src string) ([]token.Token, error) {
	l := New(src)
	var out []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out, nil
		}
	}
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
