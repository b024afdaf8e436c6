package format

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/desc/protoprint"
	"github.com/pkg/errors"
)

// Protoprint parses src into descriptors and prints them back. Unlike
// ClangFormat it needs no external tool, but src must be a valid file whose
// imports resolve from ImportPaths or the well-known types.
type Protoprint struct {
	ImportPaths []string
}

func (f *Protoprint) Format(_ context.Context, name string, src []byte) ([]byte, error) {
	p := &protoparse.Parser{
		Accessor:              f.accessor(name, src),
		IncludeSourceCodeInfo: true,
	}
	fds, err := p.ParseFiles(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", name)
	}

	pr := &protoprint.Printer{Indent: "  "}
	var buf bytes.Buffer
	if err := pr.PrintProtoFile(fds[0], &buf); err != nil {
		return nil, errors.Wrapf(err, "failed to print %s", name)
	}
	return buf.Bytes(), nil
}

// accessor serves src for name and reads every other file from the import
// paths, then from the working directory.
func (f *Protoprint) accessor(name string, src []byte) protoparse.FileAccessor {
	return func(filename string) (io.ReadCloser, error) {
		if filename == name {
			return io.NopCloser(bytes.NewReader(src)), nil
		}
		for _, p := range f.ImportPaths {
			r, err := os.Open(filepath.Join(p, filename))
			if err == nil {
				return r, nil
			}
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
		return os.Open(filename)
	}
}
