package cui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/protoshake/protoshake/cui"
)

func TestUI(t *testing.T) {
	cases := map[string]struct {
		print     func(ui cui.UI)
		stdout    string
		stderr    string
		colored   bool
		wantColor bool
	}{
		"Println": {
			print:  func(ui cui.UI) { ui.Println("kept", 3) },
			stdout: "kept 3\n",
		},
		"InfoPrintln": {
			print:  func(ui cui.UI) { ui.InfoPrintln("wrote a.output.proto") },
			stdout: "wrote a.output.proto\n",
		},
		"WarnPrintln": {
			print:  func(ui cui.UI) { ui.WarnPrintln("line 3: malformed statement") },
			stderr: "line 3: malformed statement\n",
		},
		"ErrPrintln": {
			print:  func(ui cui.UI) { ui.ErrPrintln("failed") },
			stderr: "failed\n",
		},
		"colored ErrPrintln": {
			print:     func(ui cui.UI) { ui.ErrPrintln("failed") },
			colored:   true,
			stderr:    "failed",
			wantColor: true,
		},
		"colored Println stays plain": {
			print:   func(ui cui.UI) { ui.Println("plain") },
			colored: true,
			stdout:  "plain\n",
		},
	}

	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			w, ew := new(bytes.Buffer), new(bytes.Buffer)
			ui := cui.New(cui.Writer(w), cui.ErrWriter(ew))
			if c.colored {
				ui = cui.NewColored(ui)
			}
			c.print(ui)

			if c.wantColor {
				if !strings.Contains(ew.String(), c.stderr) || !strings.Contains(ew.String(), "\x1b[") {
					t.Errorf("expected a colored '%s', but got %q", c.stderr, ew.String())
				}
				return
			}
			if w.String() != c.stdout {
				t.Errorf("stdout: expected %q, but got %q", c.stdout, w.String())
			}
			if ew.String() != c.stderr {
				t.Errorf("stderr: expected %q, but got %q", c.stderr, ew.String())
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	if cui.IsTerminal(new(bytes.Buffer)) {
		t.Error("a buffer must not be a terminal")
	}
}
