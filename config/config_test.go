package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/diwan/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "ar", cfg.Language)
	assert.Equal(t, 300, cfg.Chunking.Size)
	assert.Equal(t, 30, cfg.Chunking.Overlap)
	assert.True(t, cfg.Cleaning.RemoveDiacritics)
	assert.InDelta(t, 0.7, cfg.Cleaning.DeepCleanThreshold, 1e-9)
	assert.True(t, cfg.Lineage.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
language: mixed
storage:
  root: /data/corpus
chunking:
  size: 200
cleaning:
  remove_diacritics: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mixed", cfg.Language)
	assert.Equal(t, "/data/corpus", cfg.Storage.Root)
	assert.Equal(t, 200, cfg.Chunking.Size)
	assert.False(t, cfg.Cleaning.RemoveDiacritics)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, 30, cfg.Chunking.Overlap)
	assert.True(t, cfg.Lineage.Enabled)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_Malformed(t *testing.T) {
	path := writeConfig(t, "chunking: [not a mapping")
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Storage.Root = "/data"
		return cfg
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Language = "klingon"
	require.ErrorIs(t, cfg.Validate(), core.ErrUnsupportedLanguage)

	cfg = valid()
	cfg.Storage.Root = ""
	require.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Chunking.Overlap = cfg.Chunking.Size
	require.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Cleaning.DeepCleanThreshold = 1.5
	require.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Lineage.Path = ""
	require.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Lineage.Enabled = false
	cfg.Lineage.Path = ""
	require.NoError(t, cfg.Validate())
}
