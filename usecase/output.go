package usecase

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/protoshake/protoshake/logger"
)

const (
	// DefaultSuffix replaces the .proto extension of the input.
	DefaultSuffix = ".output.proto"
	// Stdout is the output path that means the standard output.
	Stdout = "-"

	// writeFailureTrailer closes an output stream that failed mid-write so
	// that a truncated file is recognizable.
	writeFailureTrailer = "Error while writing the file!\n"
)

// OutputPath derives the output path from the input path. The .proto
// extension of input, if any, is replaced by suffix; an empty suffix means
// DefaultSuffix.
func OutputPath(input, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return strings.TrimSuffix(input, ".proto") + suffix
}

// writeOutput writes text to path, or to stdout when path is Stdout.
func writeOutput(path string, stdout io.Writer, text []byte) error {
	if path == Stdout {
		if err := writeAll(stdout, text); err != nil {
			return newError(WriteFailure, err, "failed to write to the standard output")
		}
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return newError(WriteFailure, err, "failed to create the output directory %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return newError(WriteFailure, err, "failed to create %s", path)
	}
	werr := writeAll(f, text)
	cerr := f.Close()
	if werr != nil {
		return newError(WriteFailure, werr, "failed to write %s", path)
	}
	if cerr != nil {
		return newError(WriteFailure, cerr, "failed to close %s", path)
	}
	return nil
}

// writeAll writes text to w. When the write fails, the failure trailer is
// appended on a best-effort basis.
func writeAll(w io.Writer, text []byte) error {
	_, err := w.Write(text)
	if err == nil {
		return nil
	}
	logger.Printf("write failed: %s", err)
	if _, terr := io.WriteString(w, writeFailureTrailer); terr != nil {
		logger.Printf("failed to write the failure trailer: %s", terr)
	}
	return err
}
