package usecase

import (
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/protoshake/protoshake/keeplist"
)

// LoadKeepList reads the keep list at path and appends names. Duplicates are
// resolved later by the KeepSet.
func LoadKeepList(path string, names []string) ([]string, error) {
	if path == "" {
		return names, nil
	}
	p, err := homedir.Expand(path)
	if err != nil {
		return nil, newError(UnreadableFile, err, "invalid keep list path %s", path)
	}
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return nil, newError(MissingInput, nil, "keep list %s does not exist", path)
	}
	keep, err := keeplist.Load(p)
	if err != nil {
		return nil, newError(UnreadableFile, err, "failed to read the keep list %s", path)
	}
	return append(keep, names...), nil
}
