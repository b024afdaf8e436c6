package parser

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/pkg/errors"
)

// StatementKind classifies a logical statement.
type StatementKind int

const (
	// Unknown is a statement that has no recognizable shape.
	Unknown StatementKind = iota
	// Blank is an empty physical line.
	Blank
	// Header is a file-scoped syntax, package, option or import statement.
	Header
	MessageOpen
	EnumOpen
	ServiceOpen
	OneofOpen
	// BlockOpen opens any other block such as extend or a proto2 group.
	BlockOpen
	Close
	// Field is a field declaration candidate.
	Field
	// EnumValue is a NAME = NUMBER statement.
	EnumValue
	// RPC is a fully assembled rpc declaration, joined across lines.
	RPC
	// Option is an option statement inside a block.
	Option
	// Reserved is a reserved or extensions statement.
	Reserved
)

var statementKindNames = [...]string{
	Unknown:     "Unknown",
	Blank:       "Blank",
	Header:      "Header",
	MessageOpen: "MessageOpen",
	EnumOpen:    "EnumOpen",
	ServiceOpen: "ServiceOpen",
	OneofOpen:   "OneofOpen",
	BlockOpen:   "BlockOpen",
	Close:       "Close",
	Field:       "Field",
	EnumValue:   "EnumValue",
	RPC:         "RPC",
	Option:      "Option",
	Reserved:    "Reserved",
}

func (k StatementKind) String() string {
	if int(k) < len(statementKindNames) {
		return statementKindNames[k]
	}
	return "StatementKind(?)"
}

// Statement is a logical line: one complete statement after comments are
// removed and multi-line declarations are joined.
type Statement struct {
	Kind   StatementKind
	Tokens []Token
	// Raw is the statement text as written, fragments of different physical
	// lines joined by a single space.
	Raw  string
	Line int
}

// Scan splits src into logical statements.
func Scan(src []byte) ([]Statement, error) {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), len(src)+1)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to split the source into lines")
	}

	s := &scanner{lines: lines}
	var lx lexer
	for i, l := range lines {
		toks := lx.line(i+1, l)
		if len(toks) == 0 && len(s.cur) == 0 && strings.TrimSpace(l) == "" {
			s.stmts = append(s.stmts, Statement{Kind: Blank, Line: i + 1})
			continue
		}
		for _, t := range toks {
			s.push(t)
		}
	}
	if len(s.cur) != 0 {
		s.flush(Unknown)
	}
	return s.stmts, nil
}

type scanner struct {
	lines []string
	stmts []Statement

	cur []Token
	// depth is the brace depth of the enclosing blocks.
	depth int
	// nest counts braces and brackets inside the current statement, such as
	// rpc option bodies, aggregate option values and field options.
	nest int
}

func (s *scanner) push(t Token) {
	s.cur = append(s.cur, t)
	head := s.cur[0]

	switch {
	case t.is("[") || t.is("("):
		s.nest++
		return
	case t.is("]") || t.is(")"):
		s.nest--
		return
	}

	if head.is("rpc") || head.is("option") {
		switch {
		case t.is("{"):
			s.nest++
		case t.is("}") && s.nest == 0:
			s.closeBlock()
		case t.is("}"):
			s.nest--
			// rpc Foo(A) returns (B) { ... } needs no terminator.
			if s.nest == 0 && head.is("rpc") {
				s.flush(RPC)
			}
		case t.is(";") && s.nest == 0:
			s.flush(s.classify())
		}
		return
	}

	if s.nest > 0 {
		if t.is("{") {
			s.nest++
		} else if t.is("}") {
			s.nest--
		}
		return
	}

	switch {
	case t.is(";"):
		if len(s.cur) == 1 {
			// Empty statement.
			s.cur = s.cur[:0]
			return
		}
		s.flush(s.classify())
	case t.is("{"):
		s.flush(s.classifyOpen())
		s.depth++
	case t.is("}"):
		s.closeBlock()
	}
}

// closeBlock flushes the closing brace at the end of s.cur.
func (s *scanner) closeBlock() {
	if len(s.cur) > 1 {
		// The last statement of the block lacks its terminator.
		last := s.cur[len(s.cur)-1]
		s.cur = s.cur[:len(s.cur)-1]
		s.flush(Unknown)
		s.cur = append(s.cur, last)
	}
	s.flush(Close)
	if s.depth > 0 {
		s.depth--
	}
}

func (s *scanner) classifyOpen() StatementKind {
	if len(s.cur) != 3 || s.cur[1].Kind != Ident {
		return BlockOpen
	}
	switch s.cur[0].Text {
	case "message":
		return MessageOpen
	case "enum":
		return EnumOpen
	case "service":
		return ServiceOpen
	case "oneof":
		return OneofOpen
	}
	return BlockOpen
}

func (s *scanner) classify() StatementKind {
	head := s.cur[0]
	if head.Kind != Ident {
		return Unknown
	}
	switch head.Text {
	case "syntax", "edition", "package", "import":
		if s.depth == 0 {
			return Header
		}
		return Unknown
	case "option":
		if s.depth == 0 {
			return Header
		}
		return Option
	case "reserved", "extensions":
		return Reserved
	case "rpc":
		return RPC
	}
	if len(s.cur) >= 3 && s.cur[1].is("=") {
		return EnumValue
	}
	return Field
}

func (s *scanner) flush(kind StatementKind) {
	toks := make([]Token, len(s.cur))
	copy(toks, s.cur)
	s.stmts = append(s.stmts, Statement{
		Kind:   kind,
		Tokens: toks,
		Raw:    s.raw(toks),
		Line:   toks[0].Line,
	})
	s.cur = s.cur[:0]
	s.nest = 0
}

// raw rebuilds the source text spanned by toks.
func (s *scanner) raw(toks []Token) string {
	var frags []string
	for i := 0; i < len(toks); {
		j := i
		for j+1 < len(toks) && toks[j+1].Line == toks[i].Line {
			j++
		}
		l := s.lines[toks[i].Line-1]
		frags = append(frags, l[toks[i].Pos:toks[j].End])
		i = j + 1
	}
	return strings.Join(frags, " ")
}
