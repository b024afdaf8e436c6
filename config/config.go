// Package config provides config values for the application. Values are
// merged from, in ascending order of priority, the defaults, the global
// config file, the project local config file, environment variables and
// command line flags.
package config

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	toml "github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/protoshake/protoshake/logger"
	"github.com/protoshake/protoshake/meta"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/zchee/go-xdgbasedir"
)

const (
	localConfigName = ".protoshake.toml"
	envPrefix       = "protoshake"
)

// Engine names mirror the ones accepted by the format package.
var formatEngines = []string{"clang-format", "protoprint", "none"}

var statsFormats = []string{"", "table", "json"}

type Config struct {
	Default *Default `toml:"default"`
	Output  *Output  `toml:"output"`
	Format  *Format  `toml:"format"`
	Verify  *Verify  `toml:"verify"`
	Run     *Run     `toml:"run"`
	Log     *Log     `toml:"log"`
	Meta    *Meta    `toml:"meta"`
}

type Default struct {
	// KeepFile is the newline-delimited list of methods to retain.
	KeepFile string `toml:"keepFile"`
	// Keep holds method names retained in addition to KeepFile.
	Keep        []string `toml:"keep"`
	ImportPaths []string `toml:"importPaths"`
}

type Output struct {
	Suffix string `toml:"suffix"`
	Stdout bool   `toml:"stdout"`
	// Stats is the summary format, "table" or "json". Empty disables it.
	Stats         string `toml:"stats"`
	ColoredOutput bool   `toml:"coloredOutput"`
}

type Format struct {
	Engine  string `toml:"engine"`
	Command string `toml:"command"`
	Style   string `toml:"style"`
	// Input enables formatting the input before it is scanned.
	Input bool `toml:"input"`
}

type Verify struct {
	Enabled bool `toml:"enabled"`
}

type Run struct {
	Jobs int `toml:"jobs"`
}

type Log struct {
	Prefix string `toml:"prefix"`
}

type Meta struct {
	ConfigVersion string `toml:"configVersion"`
}

// ValidationError represents a config value that is not acceptable.
type ValidationError struct {
	err error
}

func (e *ValidationError) Error() string {
	return e.err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

// Validate checks the merged values.
func (c *Config) Validate() error {
	if !contains(formatEngines, c.Format.Engine) {
		return &ValidationError{fmt.Errorf("format.engine must be one of %s, but got '%s'", strings.Join(formatEngines, ", "), c.Format.Engine)}
	}
	if !contains(statsFormats, c.Output.Stats) {
		return &ValidationError{fmt.Errorf("output.stats must be 'table' or 'json', but got '%s'", c.Output.Stats)}
	}
	if c.Run.Jobs < 0 {
		return &ValidationError{fmt.Errorf("run.jobs must not be negative, but got %d", c.Run.Jobs)}
	}
	if !strings.HasSuffix(c.Output.Suffix, ".proto") {
		return &ValidationError{fmt.Errorf("output.suffix must end with .proto, but got '%s'", c.Output.Suffix)}
	}
	return nil
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func defaultValues() map[string]interface{} {
	return map[string]interface{}{
		"default.keepFile":     "",
		"default.keep":         []string{},
		"default.importPaths":  []string{},
		"output.suffix":        ".output.proto",
		"output.stdout":        false,
		"output.stats":         "",
		"output.coloredOutput": true,
		"format.engine":        "clang-format",
		"format.command":       "clang-format",
		"format.style":         "Google",
		"format.input":         true,
		"verify.enabled":       false,
		"run.jobs":             0,
		"log.prefix":           "protoshake: ",
		"meta.configVersion":   meta.Version.String(),
	}
}

// flagKeys maps config keys to the flags that override them.
var flagKeys = map[string]string{
	"default.keepFile":    "keep-file",
	"default.importPaths": "path",
	"output.suffix":       "suffix",
	"output.stats":        "stats",
	"format.engine":       "format-engine",
	"format.input":        "format-input",
	"verify.enabled":      "verify",
	"run.jobs":            "jobs",
}

// Get returns the merged config. fs may be nil.
func Get(fs *pflag.FlagSet) (*Config, error) {
	vp := viper.New()
	vp.SetConfigType("toml")
	for k, v := range defaultValues() {
		vp.SetDefault(k, v)
	}

	if err := readGlobal(vp); err != nil {
		return nil, err
	}
	if err := mergeLocal(vp); err != nil {
		return nil, err
	}

	vp.SetEnvPrefix(envPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	if fs != nil {
		for k, name := range flagKeys {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := vp.BindPFlag(k, f); err != nil {
				return nil, errors.Wrapf(err, "failed to bind flag --%s", name)
			}
		}
	}

	var cfg Config
	if err := vp.Unmarshal(&cfg, func(c *mapstructure.DecoderConfig) {
		c.TagName = "toml"
	}); err != nil {
		return nil, errors.Wrap(err, "failed to decode the config")
	}
	setupConfig(&cfg)
	return &cfg, nil
}

// setupConfig fills sections that the config files omitted entirely.
func setupConfig(c *Config) {
	if c.Default == nil {
		c.Default = &Default{}
	}
	if c.Output == nil {
		c.Output = &Output{}
	}
	if c.Format == nil {
		c.Format = &Format{}
	}
	if c.Verify == nil {
		c.Verify = &Verify{}
	}
	if c.Run == nil {
		c.Run = &Run{}
	}
	if c.Log == nil {
		c.Log = &Log{}
	}
	if c.Meta == nil {
		c.Meta = &Meta{}
	}
	c.Default.ImportPaths = compact(c.Default.ImportPaths)
	c.Default.Keep = compact(c.Default.Keep)
}

// compact drops empty entries. It returns nil if nothing is left.
func compact(ss []string) []string {
	var out []string
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func globalConfigDir() string {
	return filepath.Join(xdgbasedir.ConfigHome(), meta.AppName)
}

func globalConfigPath() string {
	return filepath.Join(globalConfigDir(), "config.toml")
}

// readGlobal reads the global config file, creating it with the default
// values if it does not exist yet.
func readGlobal(vp *viper.Viper) error {
	p := globalConfigPath()
	if _, err := os.Stat(p); os.IsNotExist(err) {
		if err := writeDefault(p); err != nil {
			// The defaults are still usable without the file.
			logger.Printf("failed to create the default global config: %s", err)
			return nil
		}
	}
	vp.SetConfigFile(p)
	if err := vp.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read the global config %s", p)
	}
	return nil
}

func writeDefault(p string) error {
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	tree, err := toml.TreeFromMap(nest(defaultValues()))
	if err != nil {
		return errors.Wrap(err, "failed to encode the default config")
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = tree.WriteTo(f)
	return err
}

// nest converts dotted keys into nested maps.
func nest(flat map[string]interface{}) map[string]interface{} {
	m := make(map[string]interface{})
	for k, v := range flat {
		section, key := k, ""
		if i := strings.Index(k, "."); i != -1 {
			section, key = k[:i], k[i+1:]
		}
		sub, ok := m[section].(map[string]interface{})
		if !ok {
			sub = make(map[string]interface{})
			m[section] = sub
		}
		sub[key] = v
	}
	return m
}

func mergeLocal(vp *viper.Viper) error {
	p, err := localConfigPath()
	if err != nil || p == "" {
		if err != nil {
			logger.Printf("project local config is not available: %s", err)
		}
		return nil
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return errors.Wrapf(err, "failed to read the local config %s", p)
	}
	if err := vp.MergeConfig(bytes.NewReader(b)); err != nil {
		return errors.Wrapf(err, "failed to merge the local config %s", p)
	}
	return nil
}

// localConfigPath returns the project local config in the working directory
// or at the Git project root. It returns an empty path if neither exists.
func localConfigPath() (string, error) {
	if _, err := os.Stat(localConfigName); err == nil {
		return localConfigName, nil
	}
	root, err := lookupProjectRoot()
	if err != nil {
		return "", err
	}
	p := filepath.Join(root, localConfigName)
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return "", nil
	}
	return p, nil
}

func lookupProjectRoot() (string, error) {
	outBuf, errBuf := new(bytes.Buffer), new(bytes.Buffer)
	cmd := exec.Command("git", "rev-parse", "--show-cdup")
	cmd.Stdout = outBuf
	cmd.Stderr = errBuf
	if err := cmd.Run(); err != nil {
		if errBuf.Len() != 0 {
			return "", errors.New(strings.TrimSpace(errBuf.String()))
		}
		return "", err
	}
	return filepath.Clean(strings.TrimSpace(outBuf.String())), nil
}
