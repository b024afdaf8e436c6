package format

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/protoshake/protoshake/logger"
)

const (
	defaultClangFormat = "clang-format"
	defaultStyle       = "Google"
)

// ClangFormat runs clang-format over stdin. The input file is never
// modified in place.
type ClangFormat struct {
	Command string
	Style   string
}

func (f *ClangFormat) Format(ctx context.Context, name string, src []byte) ([]byte, error) {
	cmd := f.Command
	if cmd == "" {
		cmd = defaultClangFormat
	}
	style := f.Style
	if style == "" {
		style = defaultStyle
	}
	// clang-format picks the language from the file extension.
	assume := name
	if filepath.Ext(assume) != ".proto" {
		assume += ".proto"
	}
	args := []string{
		fmt.Sprintf("-style=%s", style),
		fmt.Sprintf("--assume-filename=%s", assume),
	}
	logger.Printf("format: %s %v", cmd, args)
	return run(ctx, cmd, args, src)
}

func run(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
	buf, errBuf := new(bytes.Buffer), new(bytes.Buffer)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = buf
	cmd.Stderr = errBuf
	if err := cmd.Run(); err != nil {
		if errBuf.Len() != 0 {
			return nil, errors.Errorf("%s: %s", name, errBuf.String())
		}
		return nil, errors.Wrapf(err, "failed to run %s", name)
	}
	return buf.Bytes(), nil
}
