package shake

import (
	"strings"

	"github.com/protoshake/protoshake/schema"
)

// KeepSet is the set of method names to retain. An entry matches a method
// either by its bare name or by <Service>.<Method>.
type KeepSet struct {
	names map[string]struct{}
	order []string
}

// NewKeepSet builds a KeepSet from names. Entries are trimmed, blank entries
// are discarded and duplicates are tolerated.
func NewKeepSet(names []string) KeepSet {
	ks := KeepSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := ks.names[n]; ok {
			continue
		}
		ks.names[n] = struct{}{}
		ks.order = append(ks.order, n)
	}
	return ks
}

// Len returns the number of distinct entries.
func (k KeepSet) Len() int {
	return len(k.order)
}

// Names returns the distinct entries in the order they were first given.
func (k KeepSet) Names() []string {
	return append([]string(nil), k.order...)
}

// Has reports whether the method is retained.
func (k KeepSet) Has(ref schema.MethodRef) bool {
	if _, ok := k.names[ref.Name]; ok {
		return true
	}
	_, ok := k.names[ref.FullName()]
	return ok
}

// Unmatched returns entries that match no method of s.
func (k KeepSet) Unmatched(s *schema.Schema) []string {
	matched := make(map[string]bool, len(k.order))
	for _, ref := range s.Methods() {
		matched[ref.Name] = true
		matched[ref.FullName()] = true
	}
	var names []string
	for _, n := range k.order {
		if !matched[n] {
			names = append(names, n)
		}
	}
	return names
}
