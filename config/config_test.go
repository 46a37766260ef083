package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err, "a missing file is not an error")
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 12*time.Hour, cfg.CacheTTL.Std())
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
listen_addr: ":9090"
cache_ttl: 1h
fetch_timeout: 5s
extra_sources:
  - key: custom
    name: Custom Feed
    url: https://example.com/rss
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, time.Hour, cfg.CacheTTL.Std())
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout.Std())
	require.Len(t, cfg.ExtraSources, 1)
	assert.Equal(t, "custom", cfg.ExtraSources[0].Key)

	// Untouched fields keep their defaults.
	assert.Equal(t, Default().CachePath, cfg.CachePath)
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
