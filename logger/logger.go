// Package logger provides a package-level logger for diagnostic output.
// Nothing is written until SetOutput is called, typically on --verbose.
package logger

import (
	"io"
	"log"
)

const defaultPrefix = "protoshake: "

var defaultLogger = newDefault()

func newDefault() *log.Logger {
	return log.New(io.Discard, defaultPrefix, 0)
}

func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

func SetPrefix(p string) {
	defaultLogger.SetPrefix(p)
}

func Println(v ...interface{}) {
	defaultLogger.Println(v...)
}

func Printf(format string, v ...interface{}) {
	defaultLogger.Printf(format, v...)
}

// Scriptln evaluates f only when the logger has a real output, so that
// building an expensive message costs nothing in the quiet mode.
func Scriptln(f func() []interface{}) {
	if defaultLogger.Writer() == io.Discard {
		return
	}
	defaultLogger.Println(f()...)
}

// Reset restores the initial state. It is mainly used by tests.
func Reset() {
	defaultLogger = newDefault()
}
