package shake

import "github.com/protoshake/protoshake/schema"

// Count is the number of declared and retained entities of one kind.
type Count struct {
	Total int
	Kept  int
}

// Dropped returns Total - Kept.
func (c Count) Dropped() int {
	return c.Total - c.Kept
}

// Report summarizes the result of marking a schema.
type Report struct {
	Messages Count
	Enums    Count
	Methods  Count
	// Unmatched holds keep entries that name no method.
	Unmatched []string
}

// NewReport counts the entities of s after Mark has run with keep.
func NewReport(s *schema.Schema, keep KeepSet) *Report {
	r := &Report{Unmatched: keep.Unmatched(s)}
	for _, m := range s.Messages {
		r.Messages.Total++
		if m.Reachable {
			r.Messages.Kept++
		}
	}
	for _, e := range s.Enums {
		r.Enums.Total++
		if e.Reachable {
			r.Enums.Kept++
		}
	}
	for _, ref := range s.Methods() {
		r.Methods.Total++
		if keep.Has(ref) {
			r.Methods.Kept++
		}
	}
	return r
}
