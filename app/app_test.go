package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/protoshake/protoshake/cui"
	"github.com/protoshake/protoshake/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(
		m,
		// signal.NotifyContext starts the package-level signal loop once.
		goleak.IgnoreTopFunction("os/signal.signal_recv"),
		goleak.IgnoreTopFunction("os/signal.loop"),
	)
}

// setup moves to a temp dir holding a copy of the shop fixture, isolated from
// the user's config files.
func setup(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	src, err := os.ReadFile(filepath.Join(wd, "testdata", "shop.proto"))
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop.proto"), src, 0644))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	t.Setenv("PROTOSHAKE_FORMAT_ENGINE", "none")
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})
	return dir
}

func newApp() (*App, *bytes.Buffer, *bytes.Buffer) {
	w, ew := new(bytes.Buffer), new(bytes.Buffer)
	return New(cui.New(cui.Writer(w), cui.ErrWriter(ew))), w, ew
}

func TestNew(t *testing.T) {
	a, _, _ := newApp()
	assert.NotNil(t, a.cui)
	assert.NotNil(t, a.cmd)
}

func TestApp_Run(t *testing.T) {
	t.Run("version", func(t *testing.T) {
		setup(t)
		a, w, _ := newApp()
		code := a.Run([]string{"--version"})
		assert.Equal(t, 0, code)
		assert.Equal(t, meta.AppName+" "+meta.Version.String()+"\n", w.String())
	})

	t.Run("help", func(t *testing.T) {
		setup(t)
		a, w, _ := newApp()
		code := a.Run([]string{"--help"})
		assert.Equal(t, 0, code)
		assert.Contains(t, w.String(), "Usage: protoshake")
		assert.Contains(t, w.String(), "--keep-file, -f")
	})

	t.Run("no input", func(t *testing.T) {
		setup(t)
		a, _, ew := newApp()
		code := a.Run(nil)
		assert.Equal(t, 1, code)
		assert.Equal(t, "protoshake: "+errNoInput.Error()+"\n", ew.String())
	})

	t.Run("invalid flags", func(t *testing.T) {
		setup(t)
		a, _, ew := newApp()
		code := a.Run([]string{"--edit", "--edit-global", "shop.proto"})
		assert.Equal(t, 1, code)
		assert.Contains(t, ew.String(), "cannot specify both of --edit and --edit-global")
	})

	t.Run("missing input", func(t *testing.T) {
		setup(t)
		a, _, ew := newApp()
		code := a.Run([]string{"-k", "GetItem", "nope.proto"})
		assert.Equal(t, 1, code)
		assert.Equal(t, `protoshake: code = MissingInput, number = 1, message = "nope.proto does not exist"`+"\n", ew.String())
	})

	t.Run("missing keep file", func(t *testing.T) {
		setup(t)
		a, _, ew := newApp()
		code := a.Run([]string{"-f", "keep.txt", "shop.proto"})
		assert.Equal(t, 1, code)
		assert.Contains(t, ew.String(), "code = MissingInput")
	})

	t.Run("write the derived output file", func(t *testing.T) {
		dir := setup(t)
		a, w, ew := newApp()
		code := a.Run([]string{"--keep", "GetItem", "shop.proto"})
		require.Equal(t, 0, code, ew.String())
		assert.Empty(t, w.String())

		b, err := os.ReadFile(filepath.Join(dir, "shop.output.proto"))
		require.NoError(t, err)
		out := string(b)
		assert.Contains(t, out, "rpc GetItem (GetItemRequest) returns (Item);")
		assert.NotContains(t, out, "DeleteItem")
		assert.NotContains(t, out, "enum Reason")
	})

	t.Run("keep file and standard output", func(t *testing.T) {
		dir := setup(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("# methods\nDeleteItem\n"), 0644))
		a, w, ew := newApp()
		code := a.Run([]string{"-f", "keep.txt", "-o", "-", "--stats=json", "shop.proto"})
		require.Equal(t, 0, code, ew.String())

		assert.Contains(t, w.String(), "rpc DeleteItem (DeleteItemRequest) returns (Empty);")
		assert.NotContains(t, w.String(), `"kind"`)
		assert.Contains(t, ew.String(), `"kind":"messages"`)
		_, err := os.Stat(filepath.Join(dir, "shop.output.proto"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("unmatched keep entries are warned", func(t *testing.T) {
		setup(t)
		a, _, ew := newApp()
		code := a.Run([]string{"-k", "GetItem,Missing", "shop.proto"})
		require.Equal(t, 0, code)
		assert.Contains(t, ew.String(), "shop.proto: no method matches 'Missing'")
	})

	t.Run("stats table", func(t *testing.T) {
		setup(t)
		a, w, ew := newApp()
		code := a.Run([]string{"-k", "GetItem", "--stats", "--", "shop.proto"})
		require.Equal(t, 0, code, ew.String())
		lines := strings.Split(w.String(), "\n")
		assert.Equal(t, "shop.proto", lines[0])
		assert.Contains(t, w.String(), "| messages |")
	})
}
