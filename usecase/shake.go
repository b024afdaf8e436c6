// Package usecase runs the shaking pipeline over files: reading, optional
// formatting, parsing, marking, emitting, writing and verification.
package usecase

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/protoshake/protoshake/emit"
	"github.com/protoshake/protoshake/logger"
	"github.com/protoshake/protoshake/parser"
	"github.com/protoshake/protoshake/proto"
	"github.com/protoshake/protoshake/schema"
	"github.com/protoshake/protoshake/shake"
)

// Result is the outcome of shaking one schema.
type Result struct {
	// Input and Output are the file paths. Output is "-" for the standard output.
	Input  string
	Output string

	// Text is the pruned schema text.
	Text     []byte
	Schema   *schema.Schema
	Keep     shake.KeepSet
	Warnings []*parser.Warning
	Report   *shake.Report
	// Verify is set only when verification ran.
	Verify *proto.VerifyResult
}

// Shake parses src, marks everything reachable from the methods named in
// keep and serializes the pruned schema. Malformed statements and unresolved
// type names never make it fail; they are reported as warnings or treated as
// external types.
func Shake(src []byte, keep []string) (*Result, error) {
	s, warns, err := parser.Parse(src)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse the schema")
	}
	for _, w := range warns {
		logger.Printf("warning: %s", w)
	}

	ks := shake.NewKeepSet(keep)
	shake.Mark(s, ks)

	var buf bytes.Buffer
	if err := emit.Emit(&buf, s, ks); err != nil {
		return nil, errors.Wrap(err, "failed to serialize the schema")
	}

	r := shake.NewReport(s, ks)
	logger.Scriptln(func() []interface{} {
		return []interface{}{
			"kept", r.Messages.Kept, "of", r.Messages.Total, "messages,",
			r.Enums.Kept, "of", r.Enums.Total, "enums,",
			r.Methods.Kept, "of", r.Methods.Total, "methods",
		}
	})
	return &Result{
		Text:     buf.Bytes(),
		Schema:   s,
		Keep:     ks,
		Warnings: warns,
		Report:   r,
	}, nil
}
