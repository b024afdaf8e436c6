// Package shake marks the messages and enums reachable from a set of retained
// RPC methods.
package shake

import "github.com/protoshake/protoshake/schema"

// visit is a pending step of the traversal. owner is the message whose field
// referenced name, used to resolve enums declared inside that message.
type visit struct {
	name  string
	owner string
}

// Mark sets the Reachable flag of every message and enum that is reachable
// from the request or response type of a retained method. Flags are only ever
// set, so marking twice with the same keep set is a no-op. Mark returns s.
//
// Names that resolve to neither a message nor an enum, such as scalars and
// types imported from other files, end the walk without marking anything.
func Mark(s *schema.Schema, keep KeepSet) *schema.Schema {
	var stack []visit
	for _, ref := range s.Methods() {
		if !keep.Has(ref) {
			continue
		}
		stack = append(stack, visit{name: ref.Output}, visit{name: ref.Input})
	}

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = step(s, v, stack)
	}
	return s
}

// step resolves one visit and returns stack with the visits it implies.
func step(s *schema.Schema, v visit, stack []visit) []visit {
	name := s.Local(v.name)

	if m := s.Message(name); m != nil {
		// A reached message has already pushed its fields; stopping here is
		// what terminates cycles.
		if m.Reachable {
			return stack
		}
		m.Reachable = true
		for i := len(m.Fields) - 1; i >= 0; i-- {
			if ref, ok := m.Fields[i].Type.Referenced(); ok {
				stack = append(stack, visit{name: ref, owner: m.Name})
			}
		}
		return stack
	}

	if v.owner != "" {
		if e := s.Enum(schema.EnumID(v.owner, name)); e != nil {
			e.Reachable = true
			return stack
		}
	}

	if e := s.Enum(name); e != nil {
		e.Reachable = true
		// Outer.Inner references need Outer in the output too.
		if e.Owner != "" {
			stack = append(stack, visit{name: e.Owner})
		}
	}
	return stack
}
