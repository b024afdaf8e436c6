package usecase

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/protoshake/protoshake/format"
	"github.com/protoshake/protoshake/logger"
	"github.com/protoshake/protoshake/proto"
	"golang.org/x/sync/errgroup"
)

// Request describes one file to shake.
type Request struct {
	// Input is the schema file path.
	Input string
	// Output is the output path. Empty means OutputPath(Input, Suffix) and
	// Stdout means the standard output.
	Output string
	Suffix string

	// Keep holds the method names to retain.
	Keep []string

	// Formatter normalizes the input before it is scanned. Nil skips
	// formatting. A failing formatter is not fatal.
	Formatter format.Formatter

	// Verify compiles the output and checks it against the marked schema.
	Verify      bool
	ImportPaths []string

	// Stdout receives the output when Output is Stdout. Nil means os.Stdout.
	Stdout io.Writer
}

func (r *Request) outputPath() string {
	if r.Output != "" {
		return r.Output
	}
	return OutputPath(r.Input, r.Suffix)
}

// Run shakes the file described by req and writes the result.
//
// The output is written before verification, so a VerifyFailure still
// leaves the pruned file in place for inspection.
func Run(ctx context.Context, req Request) (*Result, error) {
	if _, err := os.Stat(req.Input); err != nil {
		if os.IsNotExist(err) {
			return nil, newError(MissingInput, nil, "%s does not exist", req.Input)
		}
		return nil, newError(UnreadableFile, err, "failed to stat %s", req.Input)
	}
	src, err := os.ReadFile(req.Input)
	if err != nil {
		return nil, newError(UnreadableFile, err, "failed to read %s", req.Input)
	}

	if req.Formatter != nil {
		formatted, err := req.Formatter.Format(ctx, filepath.Base(req.Input), src)
		if err != nil {
			// The scanner copes with unformatted text as long as
			// declarations do not share lines with their block braces.
			logger.Printf("formatter failed, using the input as it is: %s", err)
		} else {
			src = formatted
		}
	}

	res, err := Shake(src, req.Keep)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to shake %s", req.Input)
	}
	res.Input = req.Input
	res.Output = req.outputPath()

	stdout := req.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	if err := writeOutput(res.Output, stdout, res.Text); err != nil {
		return res, err
	}
	logger.Printf("wrote %s", res.Output)

	if !req.Verify {
		return res, nil
	}
	vr, err := proto.Verify(ctx, filepath.Base(req.Input), res.Text, req.ImportPaths, res.Schema, res.Keep)
	res.Verify = vr
	if vr != nil {
		for _, w := range vr.Warnings {
			logger.Printf("compiler: %s", w)
		}
	}
	if err != nil {
		return res, newError(VerifyFailure, err, "verification of %s failed", res.Output)
	}
	return res, nil
}

// RunAll runs every request with at most jobs running at once. A
// non-positive jobs means no limit. A failing request does not stop the
// others; the results of failed requests may be nil and their errors are
// combined.
func RunAll(ctx context.Context, reqs []Request, jobs int) ([]*Result, error) {
	results := make([]*Result, len(reqs))
	errs := make([]error, len(reqs))
	stdout := SyncWriter(os.Stdout)

	eg, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		eg.SetLimit(jobs)
	}
	for i := range reqs {
		i, req := i, reqs[i]
		if req.Stdout == nil {
			req.Stdout = stdout
		}
		eg.Go(func() error {
			results[i], errs[i] = Run(ctx, req)
			return nil
		})
	}
	// Run never reports through the group.
	_ = eg.Wait()

	if len(reqs) == 1 {
		return results, errs[0]
	}
	var result error
	for _, err := range errs {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	return results, result
}

// SyncWriter returns a writer that serializes writes to w. Requests sharing a
// Stdout in RunAll must share one SyncWriter.
func SyncWriter(w io.Writer) io.Writer {
	return &lockedWriter{w: w}
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
