// Package keeplist reads the list of RPC method names to retain.
//
// The list is newline-delimited. Surrounding whitespace is trimmed, blank
// lines are ignored and a line starting with '#' is a comment. An entry is
// either a bare method name or <Service>.<Method>.
package keeplist

import (
	"bufio"
	"io"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// Read reads entries from r in the order they appear.
func Read(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		l := strings.TrimSpace(sc.Text())
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		names = append(names, l)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read the keep list")
	}
	return names, nil
}

// Load reads the keep list file at path. A leading ~ is expanded to the
// home directory.
func Load(path string) ([]string, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to expand the keep list path %s", path)
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open the keep list %s", p)
	}
	defer f.Close()
	return Read(f)
}
