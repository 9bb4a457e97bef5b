package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unity-asset-reader/internal/unityver"
)

func TestLoadAndResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "inputs": ["Game_Data"],
  "version_hint": "5.6.7f1",
  "thumb_size": 128
}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Resolve(Flags{Workers: 3})

	assert.Equal(t, []string{"Game_Data"}, cfg.Inputs)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 128, cfg.ThumbSize)
	assert.Equal(t, 2, cfg.Supersample)
	assert.Equal(t, "thumbs", cfg.OutputDir)
	assert.Equal(t, filepath.Join("thumbs", "catalog.db"), cfg.Catalog)

	v, err := cfg.Version()
	require.NoError(t, err)
	assert.Equal(t, unityver.Version{Major: 5, Minor: 6, Patch: 7, Build: "f1"}, v)
}

func TestFlagsOverrideFile(t *testing.T) {
	cfg := Config{Inputs: []string{"a"}, VersionHint: "2019.4.0f1", OutputDir: "x", ThumbSize: 64}
	cfg.Resolve(Flags{Inputs: []string{"b", "c"}, VersionHint: "2020.3.1f1", OutputDir: "y", ThumbSize: 32})
	assert.Equal(t, []string{"b", "c"}, cfg.Inputs)
	assert.Equal(t, "2020.3.1f1", cfg.VersionHint)
	assert.Equal(t, "y", cfg.OutputDir)
	assert.Equal(t, 32, cfg.ThumbSize)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "config: read")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "config: parse")

	cfg := Config{VersionHint: "banana"}
	_, err = cfg.Version()
	assert.Error(t, err)

	cfg = Config{}
	v, err := cfg.Version()
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}
