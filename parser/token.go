package parser

import (
	"fmt"
	"strings"
)

// TokenKind is the lexical class of a Token.
type TokenKind int

const (
	// Ident is an identifier, possibly dotted (foo.Bar, .pkg.Baz).
	Ident TokenKind = iota
	// Number is a numeric literal (decimal, hex, octal or float).
	Number
	// String is a quoted string literal including its quotes.
	String
	// Punct is any other single character.
	Punct
)

func (k TokenKind) String() string {
	switch k {
	case Ident:
		return "IDENT"
	case Number:
		return "NUMBER"
	case String:
		return "STRING"
	case Punct:
		return "PUNCT"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is a lexical token of a single physical line.
type Token struct {
	Kind TokenKind
	Text string
	// Line is the 1-based physical line number.
	Line int
	// Pos and End are byte offsets of the token in its line.
	Pos, End int
}

func (t Token) is(text string) bool {
	return t.Text == text && t.Kind != String
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
}

// lexer splits physical lines into tokens. Comments are dropped; a block
// comment may span several lines so the lexer carries that state between
// calls to line.
type lexer struct {
	inComment bool
}

func (l *lexer) line(n int, s string) []Token {
	var toks []Token
	for i := 0; i < len(s); {
		if l.inComment {
			end := strings.Index(s[i:], "*/")
			if end == -1 {
				return toks
			}
			l.inComment = false
			i += end + 2
			continue
		}

		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			i++
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			return toks
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			l.inComment = true
			i += 2
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(s) && s[j] != c {
				if s[j] == '\\' {
					j++
				}
				j++
			}
			if j < len(s) {
				j++
			} else {
				j = len(s)
			}
			toks = append(toks, Token{Kind: String, Text: s[i:j], Line: n, Pos: i, End: j})
			i = j
		case isIdentStart(c) || (c == '.' && i+1 < len(s) && isIdentStart(s[i+1])):
			j := i + 1
			for j < len(s) && (isIdentPart(s[j]) || s[j] == '.') {
				j++
			}
			toks = append(toks, Token{Kind: Ident, Text: s[i:j], Line: n, Pos: i, End: j})
			i = j
		case isDigit(c):
			j := i + 1
			for j < len(s) && (isIdentPart(s[j]) || s[j] == '.') {
				j++
			}
			toks = append(toks, Token{Kind: Number, Text: s[i:j], Line: n, Pos: i, End: j})
			i = j
		default:
			toks = append(toks, Token{Kind: Punct, Text: s[i : i+1], Line: n, Pos: i, End: i + 1})
			i++
		}
	}
	return toks
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
