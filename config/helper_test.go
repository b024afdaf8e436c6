package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// DefaultConfig returns the config built from the default values only.
func DefaultConfig(t *testing.T) *Config {
	t.Helper()
	_, _, cleanup := setupEnv(t)
	defer cleanup()
	cfg, err := Get(nil)
	require.NoError(t, err, "Get must not return any errors")
	return cfg
}
