// Package schema represents a parsed IDL file: headers, messages, enums and
// services. Entities are stored in arenas keyed by name so that the type graph
// can be walked without pointers between entities, which keeps cyclic
// references trivial to represent.
package schema

import (
	"sort"
	"strings"
)

// Label is the cardinality keyword written before a field type.
// Repeated fields are represented by TypeRef instead.
type Label string

const (
	LabelNone     Label = ""
	LabelOptional Label = "optional"
	LabelRequired Label = "required"
)

// Field is a single field declaration of a message.
type Field struct {
	Type   *TypeRef
	Name   string
	Number int
	Label  Label
	// Oneof is the name of the enclosing oneof block, if any.
	Oneof string
	// Options is the raw bracketed option list, e.g. "[deprecated = true]".
	Options string
}

// Message is a message declaration.
type Message struct {
	Name   string
	Fields []*Field
	// Options holds raw option, reserved and extensions statements declared
	// directly in the message body.
	Options []string

	Reachable bool
}

// Enum is an enum declaration. Enums declared inside a message have an Owner.
type Enum struct {
	Name  string
	Owner string
	// Values maps a number to its value name. Numbers may be sparse.
	Values  map[int]string
	Options []string

	Reachable bool
}

// ID returns the qualified identity of e, <Owner>.<Name> or <Name>.
func (e *Enum) ID() string {
	return EnumID(e.Owner, e.Name)
}

// EnumID builds the qualified identity of an enum.
func EnumID(owner, name string) string {
	if owner == "" {
		return name
	}
	return owner + "." + name
}

// Numbers returns the declared value numbers in ascending order.
func (e *Enum) Numbers() []int {
	ns := make([]int, 0, len(e.Values))
	for n := range e.Values {
		ns = append(ns, n)
	}
	sort.Ints(ns)
	return ns
}

// Method is an RPC declaration.
type Method struct {
	Name         string
	Input        string
	Output       string
	InputStream  bool
	OutputStream bool
}

// Service is a service declaration.
type Service struct {
	Name    string
	Methods []*Method
	Options []string
}

// Schema is the in-memory representation of an IDL file.
// Messages and Enums keep their declaration order.
type Schema struct {
	// Headers are syntax, package, option and import statements, verbatim.
	Headers []string
	// Package is the declared package name, if any.
	Package string

	Messages []*Message
	Enums    []*Enum
	Services []*Service

	messages map[string]int
	enums    map[string]int
}

// New returns an empty Schema.
func New() *Schema {
	return &Schema{
		messages: make(map[string]int),
		enums:    make(map[string]int),
	}
}

// AddMessage registers a new message named name. If a message with the same
// name already exists it is replaced at its original position and existed is
// true.
func (s *Schema) AddMessage(name string) (m *Message, existed bool) {
	m = &Message{Name: name}
	if i, ok := s.messages[name]; ok {
		s.Messages[i] = m
		return m, true
	}
	s.messages[name] = len(s.Messages)
	s.Messages = append(s.Messages, m)
	return m, false
}

// AddEnum registers a new enum. owner is empty for file-scoped enums.
func (s *Schema) AddEnum(owner, name string) (e *Enum, existed bool) {
	e = &Enum{Name: name, Owner: owner, Values: make(map[int]string)}
	id := e.ID()
	if i, ok := s.enums[id]; ok {
		s.Enums[i] = e
		return e, true
	}
	s.enums[id] = len(s.Enums)
	s.Enums = append(s.Enums, e)
	return e, false
}

// AddService registers a new service.
func (s *Schema) AddService(name string) *Service {
	svc := &Service{Name: name}
	s.Services = append(s.Services, svc)
	return svc
}

// Message returns the message named name, or nil.
func (s *Schema) Message(name string) *Message {
	i, ok := s.messages[name]
	if !ok {
		return nil
	}
	return s.Messages[i]
}

// Enum returns the enum identified by the qualified identity id, or nil.
func (s *Schema) Enum(id string) *Enum {
	i, ok := s.enums[id]
	if !ok {
		return nil
	}
	return s.Enums[i]
}

// NestedEnums returns the enums owned by the message named owner in
// declaration order.
func (s *Schema) NestedEnums(owner string) []*Enum {
	var es []*Enum
	for _, e := range s.Enums {
		if e.Owner == owner {
			es = append(es, e)
		}
	}
	return es
}

// Local strips a leading dot and the file's own package prefix from a type
// reference, so that ".pkg.Foo" and "pkg.Foo" both resolve to "Foo".
func (s *Schema) Local(name string) string {
	name = strings.TrimPrefix(name, ".")
	if s.Package != "" {
		name = strings.TrimPrefix(name, s.Package+".")
	}
	return name
}

// MethodRef pairs a method with its owning service.
type MethodRef struct {
	Service string
	*Method
}

// FullName returns <Service>.<Method>.
func (r MethodRef) FullName() string {
	return r.Service + "." + r.Name
}

// Methods returns every method of every service in declaration order.
func (s *Schema) Methods() []MethodRef {
	var refs []MethodRef
	for _, svc := range s.Services {
		for _, m := range svc.Methods {
			refs = append(refs, MethodRef{Service: svc.Name, Method: m})
		}
	}
	return refs
}
