package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unity-asset-reader/internal/catalog"
	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/fixture"
	"unity-asset-reader/internal/graph"
	"unity-asset-reader/internal/schema"
	"unity-asset-reader/internal/unityver"
)

func TestParseKey(t *testing.T) {
	k, err := parseKey("archive:/CAB-1/CAB-1/-42")
	require.NoError(t, err)
	assert.Equal(t, graph.Key{Container: "archive:/CAB-1/CAB-1", PathID: -42}, k)

	for _, bad := range []string{"level0", "/5", "level0/", "level0/x"} {
		_, err := parseKey(bad)
		assert.Error(t, err, bad)
	}
}

func writeGame(t *testing.T) string {
	dir := t.TempDir()
	fx := &fixture.Container{}
	fx.Add(1, classid.GameObject, fixture.LE().
		I32(1).PPtr(0, 2).
		U32(0).Str("Hero").U16(0).Bool(true).Align().Bytes())
	fx.Add(2, classid.Transform, fixture.LE().
		PPtr(0, 1).
		Quat(0, 0, 0, 1).Vec3(1, 2, 3).Vec3(1, 1, 1).
		I32(0).PPtr(0, 0).Bytes())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "level0"), fx.Bytes(), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a container"), 0644))
	return dir
}

func run(t *testing.T, args ...string) error {
	t.Cleanup(func() {
		configPath, versionHint, outputDir, workers, quiet = "", "", "", 0, false
		catalogDB = ""
	})
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestCatalogCommand(t *testing.T) {
	dir := writeGame(t)
	db := filepath.Join(t.TempDir(), "out", "game.db")
	require.NoError(t, run(t, "catalog", "-q", "--db", db, dir))

	c, err := catalog.Open(db)
	require.NoError(t, err)
	defer c.Close()
	n, err := c.Count(t.Context(), "objects")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestShowFindsContainerByBaseName(t *testing.T) {
	dir := writeGame(t)
	require.NoError(t, run(t, "show", "-q", "level0/1", dir))
	assert.Error(t, run(t, "show", "-q", "level0/99", dir))
}

func TestNoInputsIsAnError(t *testing.T) {
	assert.Error(t, run(t, "ls", "-q"))
}

func TestPrintBuiltinLayouts(t *testing.T) {
	r := schema.NewRegistry()

	var gates bytes.Buffer
	printBuiltin(&gates, r, unityver.Version{})
	assert.Contains(t, gates.String(), "  49 TextAsset\n")
	assert.Contains(t, gates.String(), "[< 2017.1.0]")

	var modern bytes.Buffer
	printBuiltin(&modern, r, unityver.MustParse("2019.4.0f1"))
	out := modern.String()
	assert.Contains(t, out, "  string m_Name\n")
	assert.Contains(t, out, "  TypelessData m_Script\n")
	assert.NotContains(t, out, "m_PathName")
	assert.NotContains(t, out, "align")

	var old bytes.Buffer
	printBuiltin(&old, r, unityver.MustParse("5.6.0f1"))
	assert.Contains(t, old.String(), "m_PathName")
}

func TestClassesBuiltinNeedsNoInputs(t *testing.T) {
	t.Cleanup(func() { classesBuiltin, classesAt = false, "" })
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	t.Cleanup(func() { rootCmd.SetOut(nil) })
	require.NoError(t, run(t, "classes", "--builtin", "--at", "2019.4.0f1"))
	assert.Contains(t, buf.String(), "GameObject")
	assert.Error(t, run(t, "classes", "--builtin", "--at", "banana"))
}
