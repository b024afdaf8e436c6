// Package emit writes a marked schema.Schema back out as IDL source,
// keeping only reachable messages and enums and retained methods.
package emit

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/protoshake/protoshake/schema"
	"github.com/protoshake/protoshake/shake"
)

const indent = "  "

// Emit writes the pruned form of s to w. s must have been marked with keep.
//
// Headers come first, then reachable messages in declaration order with
// their reachable nested enums inside, then reachable file-scoped enums, then
// every service with only the retained methods.
func Emit(w io.Writer, s *schema.Schema, keep shake.KeepSet) error {
	bw := bufio.NewWriter(w)
	p := &printer{w: bw, s: s}

	for _, h := range s.Headers {
		p.printf("%s\n\n", h)
	}

	for _, m := range s.Messages {
		if m.Reachable {
			p.message(m)
		}
	}

	for _, e := range s.Enums {
		if !e.Reachable {
			continue
		}
		if owner := s.Message(e.Owner); owner != nil && owner.Reachable {
			// Already written inside its owner.
			continue
		}
		p.enum(e, "")
		p.printf("\n")
	}

	for i, svc := range s.Services {
		if i > 0 {
			p.printf("\n")
		}
		p.service(svc, keep)
	}

	return bw.Flush()
}

// String returns the pruned form of s as a string.
func String(s *schema.Schema, keep shake.KeepSet) string {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer never fail.
	_ = Emit(&buf, s, keep)
	return buf.String()
}

// printer ignores write errors; bufio.Writer keeps the first one and Flush
// reports it.
type printer struct {
	w *bufio.Writer
	s *schema.Schema
}

func (p *printer) printf(format string, a ...interface{}) {
	fmt.Fprintf(p.w, format, a...)
}

func (p *printer) message(m *schema.Message) {
	p.printf("message %s {\n", m.Name)
	for _, e := range p.s.NestedEnums(m.Name) {
		if e.Reachable {
			p.enum(e, indent)
		}
	}
	for _, o := range m.Options {
		p.printf("%s%s\n", indent, o)
	}

	var oneof string
	for _, f := range m.Fields {
		if f.Oneof != oneof {
			if oneof != "" {
				p.printf("%s}\n", indent)
			}
			if f.Oneof != "" {
				p.printf("%soneof %s {\n", indent, f.Oneof)
			}
			oneof = f.Oneof
		}
		in := indent
		if oneof != "" {
			in += indent
		}
		p.printf("%s%s\n", in, Field(f))
	}
	if oneof != "" {
		p.printf("%s}\n", indent)
	}
	p.printf("}\n\n")
}

// Field formats a field declaration including its terminator.
func Field(f *schema.Field) string {
	var label string
	if f.Label != schema.LabelNone {
		label = string(f.Label) + " "
	}
	var opts string
	if f.Options != "" {
		opts = " " + f.Options
	}
	return fmt.Sprintf("%s%s %s = %d%s;", label, f.Type, f.Name, f.Number, opts)
}

// enum writes e with its values in ascending number order. Numbers without a
// value are not written.
func (p *printer) enum(e *schema.Enum, in string) {
	p.printf("%senum %s {\n", in, e.Name)
	for _, o := range e.Options {
		p.printf("%s%s%s\n", in, indent, o)
	}
	for _, n := range e.Numbers() {
		p.printf("%s%s%s = %d;\n", in, indent, e.Values[n], n)
	}
	p.printf("%s}\n", in)
}

func (p *printer) service(svc *schema.Service, keep shake.KeepSet) {
	p.printf("service %s {\n", svc.Name)
	for _, o := range svc.Options {
		p.printf("%s%s\n", indent, o)
	}
	for _, m := range svc.Methods {
		if keep.Has(schema.MethodRef{Service: svc.Name, Method: m}) {
			p.printf("%s%s\n", indent, RPC(m))
		}
	}
	p.printf("}\n")
}

// RPC formats a method declaration including its terminator.
func RPC(m *schema.Method) string {
	return fmt.Sprintf("rpc %s (%s) returns (%s);",
		m.Name, streamed(m.InputStream, m.Input), streamed(m.OutputStream, m.Output))
}

func streamed(stream bool, name string) string {
	if stream {
		return "stream " + name
	}
	return name
}
