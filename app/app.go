// Package app provides the entrypoint for protoshake.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/protoshake/protoshake/config"
	"github.com/protoshake/protoshake/cui"
	"github.com/protoshake/protoshake/meta"
	"github.com/protoshake/protoshake/usecase"
	"github.com/spf13/pflag"
)

// App is the root component for running the application.
type App struct {
	cui cui.UI
	cmd *command
}

// New instantiates a new App instance. ui must not be a nil.
func New(ui cui.UI) *App {
	var flags flags
	cmd := newRootCommand(&flags, ui)
	return &App{
		cui: ui,
		cmd: cmd,
	}
}

// Run starts the application. The return value means the exit code.
func (a *App) Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if args == nil {
		// cobra falls back to os.Args for nil.
		args = []string{}
	}
	a.cmd.SetArgs(args)
	err := a.cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var e interface {
		Code() usecase.ErrorCode
		Message() string
	}
	if errors.As(err, &e) {
		a.cmd.ui.ErrPrintln(
			fmt.Sprintf("%s: code = %s, number = %d, message = %q", meta.AppName, e.Code().String(), e.Code(), e.Message()),
		)
		return 1
	}

	a.cmd.ui.ErrPrintln(fmt.Sprintf("%s: %s", meta.AppName, err))
	return 1
}

// printUsage shows the command usage text to cui.Writer and exit. Do not call it before calling parseFlags.
func printUsage(cmd interface{ Help() error }) {
	_ = cmd.Help() // Help never return errors.
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", meta.AppName, meta.Version.String())
}

// mergedConfig represents the conclusive config. Common config items are stored to *config.Config.
// Flags that can be specified by command line only are represented as fields.
type mergedConfig struct {
	*config.Config

	// Schema files to shake.
	inputs []string
	// Method names from --keep and the keep list file.
	keep []string
	// The output path. Empty means the path derived from each input.
	output string

	// Verbose output.
	verbose bool
}

func mergeConfig(fs *pflag.FlagSet, flags *flags, args []string) (*mergedConfig, error) {
	cfg, err := config.Get(fs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	keep, err := usecase.LoadKeepList(cfg.Default.KeepFile, append(cfg.Default.Keep, flags.keep.names...))
	if err != nil {
		return nil, err
	}

	output := flags.output.path
	if output == "" && cfg.Output.Stdout {
		output = usecase.Stdout
	}
	return &mergedConfig{
		Config:  cfg,
		inputs:  args,
		keep:    keep,
		output:  output,
		verbose: flags.meta.verbose,
	}, nil
}
