package leapsecs

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Kind classifies a token.
type Kind int

// Token kinds.
const (
	EOL Kind = iota
	Int
	Word
	Symbol
)

func (k Kind) String() string {
	switch k {
	case EOL:
		return "end of line"
	case Int:
		return "integer"
	case Word:
		return "word"
	case Symbol:
		return "symbol"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Token is one lexical element of a line.
type Token struct {
	Kind   Kind
	Text   string
	Col    int  // 1-based byte column
	Spaced bool // preceded by blanks or at the start of the line
}

// Lexer splits a single line into integers, words and one-rune symbols.
type Lexer struct {
	line string
	pos  int
	tok  Token
}

// NewLexer returns a lexer positioned on the first token of line.
func NewLexer(line string) *Lexer {
	l := &Lexer{line: line}
	l.Next()
	return l
}

// Peek returns the current token without consuming it.
func (l *Lexer) Peek() Token { return l.tok }

// Next consumes the current token and returns it.
func (l *Lexer) Next() Token {
	cur := l.tok
	l.tok = l.scan()
	return cur
}

// Rest returns the unconsumed text starting at the current token.
func (l *Lexer) Rest() string {
	if l.tok.Kind == EOL {
		return ""
	}
	return l.line[l.tok.Col-1:]
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\v' || r == '\f'
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func (l *Lexer) scan() Token {
	spaced := l.pos == 0
	for l.pos < len(l.line) {
		r, n := utf8.DecodeRuneInString(l.line[l.pos:])
		if !isBlank(r) {
			break
		}
		spaced = true
		l.pos += n
	}
	start := l.pos
	tok := Token{Col: start + 1, Spaced: spaced}
	if l.pos >= len(l.line) {
		tok.Kind = EOL
		return tok
	}

	r, n := utf8.DecodeRuneInString(l.line[l.pos:])
	switch {
	case isDigit(r):
		tok.Kind = Int
		l.pos += l.span(isDigit)
	case unicode.IsLetter(r):
		tok.Kind = Word
		l.pos += l.span(unicode.IsLetter)
	default:
		tok.Kind = Symbol
		l.pos += n
	}
	tok.Text = l.line[start:l.pos]
	return tok
}

func (l *Lexer) span(accept func(rune) bool) int {
	n := 0
	for l.pos+n < len(l.line) {
		r, w := utf8.DecodeRuneInString(l.line[l.pos+n:])
		if !accept(r) {
			break
		}
		n += w
	}
	return n
}

// Value returns the numeric value of an Int token.
func (t Token) Value() (int64, error) {
	return strconv.ParseInt(t.Text, 10, 64)
}

// Is reports whether t is a symbol or word with the given text.
func (t Token) Is(text string) bool {
	return (t.Kind == Symbol || t.Kind == Word) && t.Text == text
}
