package app

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/protoshake/protoshake/config"
	"github.com/protoshake/protoshake/cui"
	"github.com/protoshake/protoshake/format"
	"github.com/protoshake/protoshake/logger"
	"github.com/protoshake/protoshake/meta"
	"github.com/protoshake/protoshake/present"
	"github.com/protoshake/protoshake/present/json"
	"github.com/protoshake/protoshake/present/table"
	"github.com/protoshake/protoshake/usecase"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var usageFormat = `
Usage: %s [--help] [--version] [options ...] SCHEMA [SCHEMA ...]

Positional arguments:
        SCHEMA                  .proto files to shake

Options:
%s
`

var errNoInput = errors.New("at least one schema file is required")

type command struct {
	*cobra.Command

	flags *flags
	ui    cui.UI
}

// runFunc is a common entrypoint for Run func.
func runFunc(
	flags *flags,
	f func(*cobra.Command, *mergedConfig) error,
) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := flags.validate(args); err != nil {
			return errors.Wrap(err, "invalid flag condition")
		}

		switch {
		case flags.meta.edit:
			if err := config.Edit(); err != nil {
				return errors.Wrap(err, "failed to edit the project local config file")
			}
			return nil
		case flags.meta.editGlobal:
			if err := config.EditGlobal(); err != nil {
				return errors.Wrap(err, "failed to edit the global config file")
			}
			return nil
		case flags.meta.version:
			printVersion(cmd.OutOrStdout())
			return nil
		case flags.meta.help:
			printUsage(cmd)
			return nil
		}

		if len(args) == 0 {
			printUsage(cmd)
			return errNoInput
		}

		// Pass Flags instead of LocalFlags because the config is merged with common and local flags.
		cfg, err := mergeConfig(cmd.Flags(), flags, args)
		if err != nil {
			if err, ok := err.(*config.ValidationError); ok {
				printUsage(cmd)
				return err
			}
			return errors.Wrap(err, "failed to merge command line flags and config files")
		}

		// The entrypoint for the command.
		return f(cmd, cfg)
	}
}

func newRootCommand(flags *flags, ui cui.UI) *command {
	c := &command{flags: flags, ui: ui}
	cmd := &cobra.Command{
		Use: meta.AppName,
		RunE: runFunc(flags, func(cmd *cobra.Command, cfg *mergedConfig) error {
			if cfg.Output.ColoredOutput && cui.IsTerminal(ui.ErrWriter()) {
				c.ui = cui.NewColored(ui)
			}
			if cfg.verbose {
				logger.SetOutput(ui.ErrWriter())
				logger.SetPrefix(cfg.Log.Prefix)
			}
			return shake(cmd, cfg, c.ui)
		}),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	bindFlags(cmd.PersistentFlags(), flags, ui.Writer())
	cmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		cmd.PersistentFlags().Usage()
	})
	cmd.SetOut(ui.Writer())
	c.Command = cmd
	return c
}

func shake(cmd *cobra.Command, cfg *mergedConfig, ui cui.UI) error {
	var formatter format.Formatter
	if cfg.Format.Input {
		f, err := format.New(format.Config{
			Engine:      cfg.Format.Engine,
			Command:     cfg.Format.Command,
			Style:       cfg.Format.Style,
			ImportPaths: cfg.Default.ImportPaths,
		})
		if err != nil {
			return err
		}
		formatter = f
	}
	if len(cfg.keep) == 0 {
		ui.WarnPrintln("the keep list is empty; every service will be emitted without methods")
	}

	stdout := usecase.SyncWriter(ui.Writer())
	reqs := make([]usecase.Request, 0, len(cfg.inputs))
	for _, in := range cfg.inputs {
		reqs = append(reqs, usecase.Request{
			Input:       in,
			Output:      cfg.output,
			Suffix:      cfg.Output.Suffix,
			Keep:        cfg.keep,
			Formatter:   formatter,
			Verify:      cfg.Verify.Enabled,
			ImportPaths: cfg.Default.ImportPaths,
			Stdout:      stdout,
		})
	}
	results, err := usecase.RunAll(cmd.Context(), reqs, cfg.Run.Jobs)

	// Keep the standard output clean when it carries the schema.
	statsOut := ui.Writer()
	if cfg.output == usecase.Stdout {
		statsOut = ui.ErrWriter()
	}
	for _, res := range results {
		if res == nil {
			continue
		}
		for _, w := range res.Warnings {
			ui.WarnPrintln(fmt.Sprintf("%s: %s", res.Input, w))
		}
		for _, n := range res.Report.Unmatched {
			ui.WarnPrintln(fmt.Sprintf("%s: no method matches '%s'", res.Input, n))
		}
		if cfg.verbose && res.Output != usecase.Stdout {
			ui.InfoPrintln(fmt.Sprintf("%s -> %s", res.Input, res.Output))
		}
		if cfg.Output.Stats != "" {
			if perr := printStats(statsOut, cfg.Output.Stats, res); perr != nil {
				return perr
			}
		}
	}
	return err
}

func printStats(w io.Writer, kind string, res *usecase.Result) error {
	var p present.Presenter = table.NewPresenter()
	if kind == "json" {
		p = json.NewPresenter()
	}
	out, err := p.Format(present.NewStats(res.Input, res.Report), "")
	if err != nil {
		return errors.Wrap(err, "failed to format the stats")
	}
	if kind == "table" {
		fmt.Fprintln(w, res.Input)
	}
	fmt.Fprint(w, out)
	return nil
}

func bindFlags(f *pflag.FlagSet, flags *flags, w io.Writer) {
	initFlagSet(f, w)

	f.StringSliceVarP(&flags.keep.names, "keep", "k", nil, "method names to retain, bare or as Service.Method")
	f.StringVarP(&flags.keep.file, "keep-file", "f", "", "a newline-delimited list of method names to retain")

	f.StringVarP(&flags.output.path, "output", "o", "", `output file path, "-" means stdout`)
	f.StringVar(&flags.output.suffix, "suffix", "", "output file suffix replacing .proto (default \".output.proto\")")
	f.StringVar(&flags.output.stats, "stats", "", `print a summary, "table" or "json"`)
	f.Lookup("stats").NoOptDefVal = "table"

	f.StringVar(&flags.format.engine, "format-engine", "", `formatter for the input, one of "clang-format", "protoprint" or "none"`)
	f.BoolVar(&flags.format.input, "format-input", true, "format the input before shaking")

	f.StringSliceVar(&flags.common.path, "path", nil, "import paths used by --verify and protoprint")
	f.BoolVar(&flags.common.verify, "verify", false, "compile the output and check it against the retained methods")
	f.IntVarP(&flags.common.jobs, "jobs", "j", 0, "the number of files processed at once (0 means no limit)")

	f.BoolVarP(&flags.meta.edit, "edit", "e", false, "edit the project config file by using $EDITOR")
	f.BoolVar(&flags.meta.editGlobal, "edit-global", false, "edit the global config file by using $EDITOR")
	f.BoolVar(&flags.meta.verbose, "verbose", false, "verbose output")
	f.BoolVarP(&flags.meta.version, "version", "v", false, "display version and exit")
	f.BoolVarP(&flags.meta.help, "help", "h", false, "display help text and exit")
}

func initFlagSet(f *pflag.FlagSet, w io.Writer) {
	f.SortFlags = false
	f.SetOutput(w)
	f.Usage = usageFunc(w, f)
}

// usage is the generator for usage output.
func usageFunc(out io.Writer, f *pflag.FlagSet) func() {
	return func() {
		printVersion(out)
		var buf bytes.Buffer
		w := tabwriter.NewWriter(&buf, 0, 8, 8, ' ', tabwriter.TabIndent)
		f.VisitAll(func(f *pflag.Flag) {
			if f.Hidden {
				return
			}
			cmd := "--" + f.Name
			if f.Shorthand != "" {
				cmd += ", -" + f.Shorthand
			}
			name, _ := pflag.UnquoteUsage(f)
			if name != "" {
				cmd += " " + name
			}
			usage := f.Usage
			if f.DefValue != "" && f.DefValue != "[]" && f.DefValue != "false" {
				usage += fmt.Sprintf(` (default "%s")`, f.DefValue)
			}
			fmt.Fprintf(w, "        %s\t%s\n", cmd, usage)
		})
		w.Flush()
		fmt.Fprintf(out, usageFormat, meta.AppName, strings.TrimRight(buf.String(), "\n"))
	}
}
