package parser

import "fmt"

// WarningKind classifies a Warning.
type WarningKind int

const (
	// MalformedStatement is a statement that does not match any expected
	// shape for its scope. It produces no entity.
	MalformedStatement WarningKind = iota + 1
	// UnsupportedConstruct is a well-formed construct this parser does not
	// model, such as a nested message. Its body is skipped.
	UnsupportedConstruct
	// DuplicateDeclaration is a message, enum or enum number declared twice.
	// The later declaration wins.
	DuplicateDeclaration
	// UnbalancedBrace is a closing brace without an open block.
	UnbalancedBrace
)

func (k WarningKind) String() string {
	switch k {
	case MalformedStatement:
		return "malformed statement"
	case UnsupportedConstruct:
		return "unsupported construct"
	case DuplicateDeclaration:
		return "duplicate declaration"
	case UnbalancedBrace:
		return "unbalanced brace"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning is a recoverable problem found while building a schema.
// Building never fails; every skipped statement is reported as a Warning.
type Warning struct {
	Kind    WarningKind
	Line    int
	Message string
}

func (w *Warning) String() string {
	return fmt.Sprintf("line %d: %s: %s", w.Line, w.Kind, w.Message)
}

func warnMalformed(st Statement, scope string) *Warning {
	return &Warning{
		Kind:    MalformedStatement,
		Line:    st.Line,
		Message: fmt.Sprintf("%q is not valid in %s", st.Raw, scope),
	}
}

func warnUnsupported(st Statement, what string) *Warning {
	return &Warning{
		Kind:    UnsupportedConstruct,
		Line:    st.Line,
		Message: fmt.Sprintf("%s is not supported, %q skipped", what, st.Raw),
	}
}

func warnDuplicate(line int, what, name string) *Warning {
	return &Warning{
		Kind:    DuplicateDeclaration,
		Line:    line,
		Message: fmt.Sprintf("%s %q is declared more than once", what, name),
	}
}

func warnUnbalanced(st Statement) *Warning {
	return &Warning{
		Kind:    UnbalancedBrace,
		Line:    st.Line,
		Message: "closing brace without an open block",
	}
}
