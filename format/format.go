// Package format provides formatters that normalize IDL source text so that
// each declaration sits on its own line before it is scanned.
package format

import (
	"context"

	"github.com/pkg/errors"
)

// Formatter rewrites src. name is the file name of src; formatters use it to
// pick a language and to report positions.
type Formatter interface {
	Format(ctx context.Context, name string, src []byte) ([]byte, error)
}

// Engine names accepted by New.
const (
	EngineClangFormat = "clang-format"
	EngineProtoprint  = "protoprint"
	EngineNone        = "none"
)

// Config selects and configures a Formatter.
type Config struct {
	Engine string
	// Command is the clang-format executable. Empty means "clang-format".
	Command string
	// Style is passed to clang-format as -style. Empty means "Google".
	Style string
	// ImportPaths are used by protoprint to resolve imports.
	ImportPaths []string
}

// New returns the Formatter named by c.Engine. An empty engine is the same
// as EngineNone.
func New(c Config) (Formatter, error) {
	switch c.Engine {
	case EngineClangFormat:
		return &ClangFormat{Command: c.Command, Style: c.Style}, nil
	case EngineProtoprint:
		return &Protoprint{ImportPaths: c.ImportPaths}, nil
	case EngineNone, "":
		return Nop{}, nil
	}
	return nil, errors.Errorf("unknown format engine '%s'", c.Engine)
}

// Nop returns src unchanged.
type Nop struct{}

func (Nop) Format(_ context.Context, _ string, src []byte) ([]byte, error) {
	return src, nil
}
