// Package proto checks pruned IDL text with a real protobuf compiler.
package proto

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"

	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/linker"
	"github.com/bufbuild/protocompile/reporter"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// compile compiles src as the file name. Imports are resolved from
// importPaths and the well-known types. Compiler warnings are returned
// alongside the result.
func compile(ctx context.Context, name string, src []byte, importPaths []string) (protoreflect.FileDescriptor, []string, error) {
	var (
		mu    sync.Mutex
		warns []string
	)
	rep := reporter.NewReporter(
		func(err reporter.ErrorWithPos) error {
			return err
		},
		func(err reporter.ErrorWithPos) {
			mu.Lock()
			defer mu.Unlock()
			warns = append(warns, err.Error())
		},
	)

	c := &protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(protocompile.CompositeResolver{
			protocompile.ResolverFunc(func(path string) (protocompile.SearchResult, error) {
				if path != name {
					return protocompile.SearchResult{}, os.ErrNotExist
				}
				return protocompile.SearchResult{Source: bytes.NewReader(src)}, nil
			}),
			&protocompile.SourceResolver{
				ImportPaths: importPaths,
				Accessor: func(path string) (io.ReadCloser, error) {
					return os.Open(path)
				},
			},
		}),
		Reporter: rep,
	}
	compiled, err := c.Compile(ctx, name)
	if err != nil {
		return nil, warns, errors.Wrap(err, "proto: failed to compile proto files")
	}
	return fileOf(compiled, name), warns, nil
}

func fileOf(fds linker.Files, name string) protoreflect.FileDescriptor {
	for _, fd := range fds {
		if fd.Path() == name {
			return fd
		}
	}
	return fds[0]
}
