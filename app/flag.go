package app

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/protoshake/protoshake/usecase"
)

// flags defines available command line flags.
type flags struct {
	keep struct {
		file  string
		names []string
	}

	output struct {
		path   string
		suffix string
		stats  string
	}

	format struct {
		engine string
		input  bool
	}

	common struct {
		path   []string
		verify bool
		jobs   int
	}

	meta struct {
		edit       bool
		editGlobal bool
		verbose    bool
		version    bool
		help       bool
	}
}

// validate defines invalid conditions and validates whether f has invalid
// conditions. args are the positional arguments.
func (f *flags) validate(args []string) error {
	var result error
	invalidCases := []struct {
		name string
		cond bool
	}{
		{"cannot specify both of --edit and --edit-global", f.meta.edit && f.meta.editGlobal},
		{"--output cannot be used with more than one schema file unless it is '-'",
			len(args) > 1 && f.output.path != "" && f.output.path != usecase.Stdout},
		{"--output and --suffix are mutually exclusive", f.output.path != "" && f.output.suffix != ""},
		{"--jobs must not be negative", f.common.jobs < 0},
	}
	for _, c := range invalidCases {
		if c.cond {
			result = multierror.Append(result, errors.New(c.name))
		}
	}
	return result
}
