package schema

import (
	"fmt"
	"strings"
)

// TypeKind represents the shape of a TypeRef.
type TypeKind int

const (
	// Scalar is a built-in type such as int32 or string.
	Scalar TypeKind = iota
	// Named refers to a message or an enum by name. The name may not be
	// resolvable; unresolved names are treated as external types.
	Named
	// Repeated wraps another type.
	Repeated
	// Map holds a key type and a value type.
	Map
)

func (k TypeKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Named:
		return "named"
	case Repeated:
		return "repeated"
	case Map:
		return "map"
	default:
		return fmt.Sprintf("TypeKind(%d)", int(k))
	}
}

var scalars = map[string]struct{}{
	"double":   {},
	"float":    {},
	"int32":    {},
	"int64":    {},
	"uint32":   {},
	"uint64":   {},
	"sint32":   {},
	"sint64":   {},
	"fixed32":  {},
	"fixed64":  {},
	"sfixed32": {},
	"sfixed64": {},
	"bool":     {},
	"string":   {},
	"bytes":    {},
}

// IsScalar reports whether name is a scalar type keyword.
func IsScalar(name string) bool {
	_, ok := scalars[name]
	return ok
}

// TypeRef is the type of a field.
type TypeRef struct {
	Kind TypeKind
	// Name is set for Scalar and Named.
	Name string
	// Elem is set for Repeated.
	Elem *TypeRef
	// Key and Value are set for Map.
	Key, Value *TypeRef
}

// NewType returns a Scalar or Named TypeRef depending on name.
func NewType(name string) *TypeRef {
	if IsScalar(name) {
		return &TypeRef{Kind: Scalar, Name: name}
	}
	return &TypeRef{Kind: Named, Name: name}
}

// NewRepeated returns a Repeated TypeRef of elem.
func NewRepeated(elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: Repeated, Elem: elem}
}

// NewMap returns a Map TypeRef.
func NewMap(key, value *TypeRef) *TypeRef {
	return &TypeRef{Kind: Map, Key: key, Value: value}
}

// Referenced returns the type name that the marker should follow, and false
// if the type references nothing. Map keys are never followed.
func (t *TypeRef) Referenced() (string, bool) {
	switch t.Kind {
	case Named:
		return t.Name, true
	case Repeated:
		return t.Elem.Referenced()
	case Map:
		return t.Value.Referenced()
	}
	return "", false
}

// String returns the type as it is written in a field declaration.
func (t *TypeRef) String() string {
	switch t.Kind {
	case Repeated:
		return "repeated " + t.Elem.String()
	case Map:
		return fmt.Sprintf("map<%s, %s>", t.Key, t.Value)
	default:
		return t.Name
	}
}

// Unqualified returns the last dot-separated segment of name.
func Unqualified(name string) string {
	if i := strings.LastIndex(name, "."); i != -1 {
		return name[i+1:]
	}
	return name
}
