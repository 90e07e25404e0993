package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config source at a throwaway directory so tests do
// not pick up the developer's real config file.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_STATE_HOME", dir)
	t.Setenv(EnvPrefix+"CONFIG_PATH", "")
}

func TestDefaults(t *testing.T) {
	isolate(t)
	Load()

	assert.Equal(t, 10, GetInt("paging_size", 0))
	assert.Equal(t, 5000, GetInt("refresh_short_millis", 0))
	assert.Equal(t, 2000, GetInt("refresh_on_error_millis", 0))
	assert.Equal(t, "prod", Get("endpoint_cloud", ""))
	assert.False(t, GetBool("logging_enabled", true))
	assert.Equal(t, "info", Get("logging_level", ""))
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
paging_size = 25
tenant = "acme"
logging_enabled = true
`), 0o644))
	t.Setenv(EnvPrefix+"CONFIG_PATH", path)
	Load()

	assert.Equal(t, 25, GetInt("paging_size", 0))
	assert.Equal(t, "acme", Get("tenant", ""))
	assert.True(t, GetBool("logging_enabled", false))
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`tenant = "acme"`), 0o644))
	t.Setenv(EnvPrefix+"CONFIG_PATH", path)
	t.Setenv(EnvPrefix+"TENANT", "other")
	t.Setenv(EnvPrefix+"PAGING_SIZE", "50")
	Load()

	assert.Equal(t, "other", Get("tenant", ""))
	assert.Equal(t, 50, GetInt("paging_size", 0))
}

func TestEndpointURLResolution(t *testing.T) {
	isolate(t)

	t.Run("explicit url wins", func(t *testing.T) {
		t.Setenv(EnvPrefix+"ENDPOINT_URL", "http://localhost:9000")
		t.Setenv(EnvPrefix+"ENDPOINT_CLOUD", "qa")
		Load()
		assert.Equal(t, "http://localhost:9000", EndpointURL())
	})

	t.Run("cloud id lookup", func(t *testing.T) {
		t.Setenv(EnvPrefix+"ENDPOINT_CLOUD", "qa")
		Load()
		assert.Equal(t, "https://rest-qa.chargefront.io", EndpointURL())
	})

	t.Run("unknown cloud falls back to production", func(t *testing.T) {
		t.Setenv(EnvPrefix+"ENDPOINT_CLOUD", "nowhere")
		Load()
		assert.Equal(t, "https://rest.chargefront.io", EndpointURL())
	})
}

func TestValidatorsNormalizeBadValues(t *testing.T) {
	isolate(t)
	t.Setenv(EnvPrefix+"QUIET", "yes")
	t.Setenv(EnvPrefix+"DEBUG", "garbage")
	t.Setenv(EnvPrefix+"PAGING_SIZE", "-4")
	t.Setenv(EnvPrefix+"LOGGING_LEVEL", "chatty")
	Load()

	assert.True(t, GetBool("quiet", false), "yes normalizes to true")
	assert.False(t, GetBool("debug", true), "invalid bool reverts to the default")
	assert.Equal(t, 10, GetInt("paging_size", 0), "non-positive size reverts to the default")
	assert.Equal(t, "info", Get("logging_level", ""), "unknown level reverts to the default")
}
