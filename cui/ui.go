// Package cui defines character user interfaces for I/O.
package cui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
	isatty "github.com/mattn/go-isatty"
)

// UI provides formatted output for the application.
type UI interface {
	Writer() io.Writer
	ErrWriter() io.Writer

	// Println writes a plain line to Writer.
	Println(a ...interface{})
	// InfoPrintln is the same as Println, but distinguish these for composition.
	InfoPrintln(a ...interface{})
	// WarnPrintln writes a line to ErrWriter.
	WarnPrintln(a ...interface{})
	// ErrPrintln writes a line to ErrWriter.
	ErrPrintln(a ...interface{})
}

// Option represents an option for New.
type Option func(*basicUI)

// Writer replaces the default writer with w.
func Writer(w io.Writer) Option {
	return func(u *basicUI) {
		u.writer = w
	}
}

// ErrWriter replaces the default error writer with ew.
func ErrWriter(ew io.Writer) Option {
	return func(u *basicUI) {
		u.errWriter = ew
	}
}

type basicUI struct {
	writer, errWriter io.Writer
}

// New returns a new UI with the passed options. The default writers are the
// standard output and the standard error, wrapped by go-colorable.
func New(opts ...Option) UI {
	ui := &basicUI{
		writer:    colorable.NewColorableStdout(),
		errWriter: colorable.NewColorableStderr(),
	}
	for _, opt := range opts {
		opt(ui)
	}
	return ui
}

func (u *basicUI) Writer() io.Writer {
	return u.writer
}

func (u *basicUI) ErrWriter() io.Writer {
	return u.errWriter
}

func (u *basicUI) Println(a ...interface{}) {
	fmt.Fprintln(u.writer, a...)
}

func (u *basicUI) InfoPrintln(a ...interface{}) {
	u.Println(a...)
}

func (u *basicUI) WarnPrintln(a ...interface{}) {
	fmt.Fprintln(u.errWriter, a...)
}

func (u *basicUI) ErrPrintln(a ...interface{}) {
	fmt.Fprintln(u.errWriter, a...)
}

type coloredUI struct {
	UI
	info, warn, err *color.Color
}

// NewColored wraps provided ui for colored output. Colors are applied even if
// the writers are not terminals; use IsTerminal to decide whether to wrap.
func NewColored(ui UI) UI {
	c := &coloredUI{
		UI:   ui,
		info: color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
		err:  color.New(color.FgRed),
	}
	for _, cl := range []*color.Color{c.info, c.warn, c.err} {
		cl.EnableColor()
	}
	return c
}

func (u *coloredUI) InfoPrintln(a ...interface{}) {
	u.UI.InfoPrintln(u.info.Sprint(a...))
}

func (u *coloredUI) WarnPrintln(a ...interface{}) {
	u.UI.WarnPrintln(u.warn.Sprint(a...))
}

func (u *coloredUI) ErrPrintln(a ...interface{}) {
	u.UI.ErrPrintln(u.err.Sprint(a...))
}

// IsTerminal reports whether w is a terminal or a Cygwin/MSYS2 pty.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
