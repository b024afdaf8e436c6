// Package parser reads IDL source text into a schema.Schema.
//
// Parsing runs in two passes. Scan turns physical lines into logical
// statements made of typed tokens, dropping comments and joining rpc
// declarations that span several lines. Build then feeds the statements
// through a scope-stack state machine that creates messages, enums and
// services.
//
// The parser is best-effort: it never fails on a statement it cannot place.
// Such statements are skipped and reported as Warnings so that callers can
// decide whether to surface them.
package parser

import (
	"github.com/pkg/errors"
	"github.com/protoshake/protoshake/schema"
)

// Parse scans and builds src.
func Parse(src []byte) (*schema.Schema, []*Warning, error) {
	stmts, err := Scan(src)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to scan the source")
	}
	s, warns := Build(stmts)
	return s, warns, nil
}
