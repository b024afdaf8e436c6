package config

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
)

const defaultEditor = "vim"

// runEditor opens cfgPath with editor. It is a variable for testing.
var runEditor = func(editor string, cfgPath string) error {
	cmd := exec.Command(editor, cfgPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func editor() (string, error) {
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	p, err := exec.LookPath(defaultEditor)
	if err != nil {
		return "", errors.Wrap(err, "$EDITOR is not set and vim is not found")
	}
	return p, nil
}

// Edit opens the project local config file with $EDITOR. The file is created
// at the Git project root if it does not exist.
func Edit() error {
	root, err := lookupProjectRoot()
	if err != nil {
		return errors.Wrap(err, "failed to find the project root")
	}
	p := filepath.Join(root, localConfigName)
	if _, err := os.Stat(p); os.IsNotExist(err) {
		f, err := os.Create(p)
		if err != nil {
			return errors.Wrapf(err, "failed to create %s", p)
		}
		f.Close()
	}
	return edit(p)
}

// EditGlobal opens the global config file with $EDITOR. The file is created
// with the default values if it does not exist.
func EditGlobal() error {
	p := globalConfigPath()
	if _, err := os.Stat(p); os.IsNotExist(err) {
		if err := writeDefault(p); err != nil {
			return errors.Wrapf(err, "failed to create %s", p)
		}
	}
	return edit(p)
}

func edit(p string) error {
	e, err := editor()
	if err != nil {
		return err
	}
	if err := runEditor(e, p); err != nil {
		return errors.Wrapf(err, "failed to edit %s", p)
	}
	return nil
}
