package parser

import (
	"strconv"
	"strings"

	"github.com/protoshake/protoshake/schema"
)

type scopeKind int

const (
	scopeNone scopeKind = iota
	scopeMessage
	scopeEnum
	scopeOneof
	scopeService
	// scopeSkip is a block whose body is ignored.
	scopeSkip
)

func (k scopeKind) String() string {
	switch k {
	case scopeMessage:
		return "message"
	case scopeEnum:
		return "enum"
	case scopeOneof:
		return "oneof"
	case scopeService:
		return "service"
	case scopeSkip:
		return "skipped block"
	default:
		return "file scope"
	}
}

type scope struct {
	kind scopeKind
	msg  *schema.Message
	enum *schema.Enum
	svc  *schema.Service
	// oneof is the oneof name for scopeOneof.
	oneof string
}

// builder holds the parse state threaded through every statement.
// The innermost open block is the last element of stack.
type builder struct {
	s        *schema.Schema
	stack    []scope
	warnings []*Warning
}

// Build consumes statements produced by Scan and populates a new Schema.
// Statements that do not fit their scope are skipped and reported.
func Build(stmts []Statement) (*schema.Schema, []*Warning) {
	b := &builder{s: schema.New()}
	for _, st := range stmts {
		b.statement(st)
	}
	return b.s, b.warnings
}

func (b *builder) top() scope {
	if len(b.stack) == 0 {
		return scope{kind: scopeNone}
	}
	return b.stack[len(b.stack)-1]
}

func (b *builder) push(sc scope) {
	b.stack = append(b.stack, sc)
}

func (b *builder) warn(w *Warning) {
	b.warnings = append(b.warnings, w)
}

func (b *builder) statement(st Statement) {
	top := b.top()
	if top.kind == scopeSkip {
		switch st.Kind {
		case MessageOpen, EnumOpen, ServiceOpen, OneofOpen, BlockOpen:
			b.push(scope{kind: scopeSkip})
		case Close:
			b.stack = b.stack[:len(b.stack)-1]
		}
		return
	}

	switch st.Kind {
	case Blank:
	case Header:
		b.header(st)
	case MessageOpen:
		b.openMessage(st, top)
	case EnumOpen:
		b.openEnum(st, top)
	case ServiceOpen:
		if top.kind != scopeNone {
			b.warn(warnUnsupported(st, "a nested service"))
			b.push(scope{kind: scopeSkip})
			return
		}
		b.push(scope{kind: scopeService, svc: b.s.AddService(st.Tokens[1].Text)})
	case OneofOpen:
		if top.kind != scopeMessage {
			b.warn(warnMalformed(st, top.kind.String()))
			b.push(scope{kind: scopeSkip})
			return
		}
		b.push(scope{kind: scopeOneof, msg: top.msg, oneof: st.Tokens[1].Text})
	case BlockOpen:
		b.warn(warnUnsupported(st, "a "+st.Tokens[0].Text+" block"))
		b.push(scope{kind: scopeSkip})
	case Close:
		if len(b.stack) == 0 {
			b.warn(warnUnbalanced(st))
			return
		}
		b.stack = b.stack[:len(b.stack)-1]
	case Option, Reserved:
		b.option(st, top)
	case EnumValue:
		if top.kind != scopeEnum {
			b.warn(warnMalformed(st, top.kind.String()))
			return
		}
		b.enumValue(st, top.enum)
	case Field:
		if top.kind != scopeMessage && top.kind != scopeOneof {
			b.warn(warnMalformed(st, top.kind.String()))
			return
		}
		f, ok := parseField(st.Tokens, st.Raw)
		if !ok {
			b.warn(warnMalformed(st, top.kind.String()))
			return
		}
		f.Oneof = top.oneof
		top.msg.Fields = append(top.msg.Fields, f)
	case RPC:
		if top.kind != scopeService {
			b.warn(warnMalformed(st, top.kind.String()))
			return
		}
		m, ok := parseRPC(st.Tokens)
		if !ok {
			b.warn(warnMalformed(st, top.kind.String()))
			return
		}
		top.svc.Methods = append(top.svc.Methods, m)
	default:
		b.warn(warnMalformed(st, top.kind.String()))
	}
}

func (b *builder) header(st Statement) {
	b.s.Headers = append(b.s.Headers, st.Raw)
	if st.Tokens[0].is("package") && len(st.Tokens) >= 2 {
		b.s.Package = st.Tokens[1].Text
	}
}

func (b *builder) openMessage(st Statement, top scope) {
	if top.kind != scopeNone {
		b.warn(warnUnsupported(st, "a nested message"))
		b.push(scope{kind: scopeSkip})
		return
	}
	name := st.Tokens[1].Text
	m, existed := b.s.AddMessage(name)
	if existed {
		b.warn(warnDuplicate(st.Line, "message", name))
	}
	b.push(scope{kind: scopeMessage, msg: m})
}

func (b *builder) openEnum(st Statement, top scope) {
	var owner string
	switch top.kind {
	case scopeNone:
	case scopeMessage:
		owner = top.msg.Name
	default:
		b.warn(warnUnsupported(st, "an enum inside a "+top.kind.String()))
		b.push(scope{kind: scopeSkip})
		return
	}
	name := st.Tokens[1].Text
	e, existed := b.s.AddEnum(owner, name)
	if existed {
		b.warn(warnDuplicate(st.Line, "enum", e.ID()))
	}
	b.push(scope{kind: scopeEnum, enum: e})
}

func (b *builder) option(st Statement, top scope) {
	switch top.kind {
	case scopeMessage:
		top.msg.Options = append(top.msg.Options, st.Raw)
	case scopeEnum:
		top.enum.Options = append(top.enum.Options, st.Raw)
	case scopeService:
		top.svc.Options = append(top.svc.Options, st.Raw)
	default:
		b.warn(warnUnsupported(st, "an option inside a "+top.kind.String()))
	}
}

// enumValue inserts NAME = NUMBER into e. Value options are not kept.
func (b *builder) enumValue(st Statement, e *schema.Enum) {
	toks := trimTerminator(st.Tokens)
	if toks[0].Kind != Ident {
		b.warn(warnMalformed(st, "enum"))
		return
	}
	n, rest, ok := parseNumber(toks[2:])
	if !ok || (len(rest) > 0 && !rest[0].is("[")) {
		b.warn(warnMalformed(st, "enum"))
		return
	}
	if _, dup := e.Values[n]; dup {
		b.warn(warnDuplicate(st.Line, "enum number", e.ID()+" = "+strconv.Itoa(n)))
	}
	e.Values[n] = toks[0].Text
}

// parseNumber reads an optionally negative integer literal.
func parseNumber(toks []Token) (int, []Token, bool) {
	neg := false
	if len(toks) > 0 && toks[0].is("-") {
		neg = true
		toks = toks[1:]
	}
	if len(toks) == 0 || toks[0].Kind != Number {
		return 0, nil, false
	}
	n, err := strconv.ParseInt(toks[0].Text, 0, 64)
	if err != nil {
		return 0, nil, false
	}
	if neg {
		n = -n
	}
	return int(n), toks[1:], true
}

// parseField parses
//
//	[label] type name = number [options]
//
// where type is an identifier or map<key, value>. The trailing ';' has been
// left in place by the scanner.
func parseField(toks []Token, raw string) (*schema.Field, bool) {
	toks = trimTerminator(toks)
	f := &schema.Field{}
	repeated := false
	if len(toks) > 0 && toks[0].Kind == Ident {
		switch toks[0].Text {
		case "repeated":
			repeated = true
			toks = toks[1:]
		case "optional":
			f.Label = schema.LabelOptional
			toks = toks[1:]
		case "required":
			f.Label = schema.LabelRequired
			toks = toks[1:]
		}
	}

	typ, toks, ok := parseType(toks)
	if !ok {
		return nil, false
	}
	if repeated {
		typ = schema.NewRepeated(typ)
	}
	f.Type = typ

	if len(toks) < 3 || toks[0].Kind != Ident || !toks[1].is("=") {
		return nil, false
	}
	f.Name = toks[0].Text
	n, rest, ok := parseNumber(toks[2:])
	if !ok || n < 0 {
		return nil, false
	}
	f.Number = n

	if len(rest) > 0 {
		if !rest[0].is("[") || !rest[len(rest)-1].is("]") {
			return nil, false
		}
		f.Options = bracketed(raw)
	}
	return f, true
}

func parseType(toks []Token) (*schema.TypeRef, []Token, bool) {
	if len(toks) == 0 || toks[0].Kind != Ident {
		return nil, nil, false
	}
	if !toks[0].is("map") || len(toks) < 2 || !toks[1].is("<") {
		return schema.NewType(toks[0].Text), toks[1:], true
	}
	// map < key , value >
	if len(toks) < 6 || toks[2].Kind != Ident || !toks[3].is(",") || toks[4].Kind != Ident || !toks[5].is(">") {
		return nil, nil, false
	}
	return schema.NewMap(schema.NewType(toks[2].Text), schema.NewType(toks[4].Text)), toks[6:], true
}

// parseRPC parses
//
//	rpc Name ( [stream] Input ) returns ( [stream] Output ) ( ";" | "{" ... "}" )
func parseRPC(toks []Token) (*schema.Method, bool) {
	toks = trimTerminator(toks)
	if len(toks) < 3 || toks[1].Kind != Ident {
		return nil, false
	}
	m := &schema.Method{Name: toks[1].Text}

	var ok bool
	m.Input, m.InputStream, toks, ok = parseRPCType(toks[2:])
	if !ok || len(toks) == 0 || !toks[0].is("returns") {
		return nil, false
	}
	m.Output, m.OutputStream, toks, ok = parseRPCType(toks[1:])
	if !ok {
		return nil, false
	}
	if len(toks) > 0 && !toks[0].is("{") {
		return nil, false
	}
	return m, true
}

func parseRPCType(toks []Token) (name string, stream bool, rest []Token, ok bool) {
	if len(toks) < 3 || !toks[0].is("(") {
		return "", false, nil, false
	}
	toks = toks[1:]
	if len(toks) > 2 && toks[0].is("stream") && toks[1].Kind == Ident {
		stream = true
		toks = toks[1:]
	}
	if toks[0].Kind != Ident || len(toks) < 2 || !toks[1].is(")") {
		return "", false, nil, false
	}
	return toks[0].Text, stream, toks[2:], true
}

func trimTerminator(toks []Token) []Token {
	if len(toks) > 0 && toks[len(toks)-1].is(";") {
		return toks[:len(toks)-1]
	}
	return toks
}

// bracketed returns the bracketed field options of a field statement.
func bracketed(raw string) string {
	i := strings.Index(raw, "[")
	j := strings.LastIndex(raw, "]")
	if i == -1 || j < i {
		return ""
	}
	return raw[i : j+1]
}
