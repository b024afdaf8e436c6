// Package present defines presenters for the summary of a shaking run.
package present

import (
	"github.com/protoshake/protoshake/shake"
)

// Presenter formats v for displaying it.
type Presenter interface {
	// Format receives v and returns the formatted output as string.
	// indent is used by presenters that support nesting.
	Format(v interface{}, indent string) (string, error)
}

// Row is a line of the report: the counts of one entity kind.
type Row struct {
	Kind    string `json:"kind" table:"kind"`
	Total   int    `json:"total" table:"total"`
	Kept    int    `json:"kept" table:"kept"`
	Dropped int    `json:"dropped" table:"dropped"`
}

// Stats is the presentable form of a shake.Report.
type Stats struct {
	File string `json:"file" table:"-"`
	Rows []Row  `json:"rows"`
	// Unmatched holds keep entries that named no method.
	Unmatched []string `json:"unmatched,omitempty" table:"-"`
}

// NewStats converts r for file.
func NewStats(file string, r *shake.Report) *Stats {
	row := func(kind string, c shake.Count) Row {
		return Row{Kind: kind, Total: c.Total, Kept: c.Kept, Dropped: c.Dropped()}
	}
	return &Stats{
		File: file,
		Rows: []Row{
			row("messages", r.Messages),
			row("enums", r.Enums),
			row("methods", r.Methods),
		},
		Unmatched: r.Unmatched,
	}
}
