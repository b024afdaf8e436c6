// Package e2e_test runs the whole command against the files under testdata.
package e2e_test

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/protoshake/protoshake/logger"
	"go.uber.org/goleak"
)

var update = flag.Bool("update", false, "update goldens")

// TestMain prepares the test environment for E2E testing. TestMain do following things for clean up the environment.
//
//   - Set log output to io.Discard.
//   - Change $XDG_CONFIG_HOME to ignore the user's global config.
//   - Disable formatting of inputs so that the result does not depend on installed tools.
func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)

	configDir, err := os.MkdirTemp("", "protoshake-e2e")
	if err != nil {
		panic(err)
	}
	os.Setenv("XDG_CONFIG_HOME", configDir)
	os.Setenv("PROTOSHAKE_FORMAT_ENGINE", "none")

	code := func() int {
		defer os.RemoveAll(configDir)
		return runWithLeakCheck(m)
	}()
	os.Exit(code)
}

func runWithLeakCheck(m *testing.M) int {
	code := m.Run()
	if code != 0 {
		return code
	}
	// The signal loop started by the command lives until the process exits.
	if err := goleak.Find(
		goleak.IgnoreTopFunction("os/signal.signal_recv"),
		goleak.IgnoreTopFunction("os/signal.loop"),
	); err != nil {
		os.Stderr.WriteString("goleak: " + err.Error() + "\n")
		return 1
	}
	return 0
}

func flatten(s string) string {
	s = strings.Replace(s, "\n", " ", -1)
	s = strings.TrimSpace(s)
	re := regexp.MustCompile(" +")
	return re.ReplaceAllString(s, " ")
}

var goldenPathReplacer = strings.NewReplacer(
	"/", "-",
	" ", "_",
	"=", "-",
	"'", "",
	`"`, "",
	",", "",
)

func compareWithGolden(t *testing.T, actual string) {
	t.Helper()

	name := t.Name()
	normalizeFilename := func(name string) string {
		fname := goldenPathReplacer.Replace(strings.ToLower(name)) + ".golden"
		return filepath.Join("testdata", "fixtures", fname)
	}

	fname := normalizeFilename(name)

	if *update {
		if err := os.WriteFile(fname, []byte(actual), 0600); err != nil {
			t.Fatalf("failed to update the golden file: %s", err)
		}
		return
	}

	// Load the golden file.
	b, err := os.ReadFile(fname)
	if err != nil {
		t.Fatalf("failed to load a golden file: %s", err)
	}

	if diff := cmp.Diff(string(b), actual); diff != "" {
		t.Errorf("wrong result: \n%s", diff)
	}
}
