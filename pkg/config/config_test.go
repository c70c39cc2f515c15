package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
logging:
  level: debug
  format: json
store:
  type: badger
  badger:
    db_path: /tmp/vrepo-test
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "badger", cfg.Store.Type)
	assert.Equal(t, "/tmp/vrepo-test", cfg.Store.Badger["db_path"])
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
store:
  type: memory
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.NotNil(t, cfg.Store.Badger["db_path"])
}

func TestLoadNormalizesLevelCase(t *testing.T) {
	path := writeConfigFile(t, `
logging:
  level: DEBUG
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{name: "bad level", content: "logging:\n  level: loud\n"},
		{name: "bad format", content: "logging:\n  format: xml\n"},
		{name: "bad store type", content: "store:\n  type: etcd\n"},
		{name: "s3 without section", content: "store:\n  type: s3\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFailsOnExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFailsOnMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "logging: [[[ not yaml")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestWriteDefaultConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generated", "config.yaml")

	written, err := WriteDefaultConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)

	// A second write must not clobber the existing file.
	_, err = WriteDefaultConfig(path)
	assert.Error(t, err)
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "memory", cfg.Store.Type)
	require.NoError(t, Validate(cfg))
}
