package batch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/fixture"
	"unity-asset-reader/internal/graph"
	"unity-asset-reader/internal/ingest"
	"unity-asset-reader/internal/texture"
)

func texturePayload() []byte {
	return fixture.LE().
		Str("gem").
		I32(0).Bool(false).Align().
		I32(2).I32(1).I32(8).
		I32(int32(texture.RGBA32)).I32(1).
		Bool(false).Bool(false).Bool(false).Align().
		I32(0).
		I32(1).I32(2).
		I32(1).I32(1).F32(0).I32(0).I32(0).I32(0).
		I32(0).I32(1).
		Blob([]byte{255, 0, 0, 255, 0, 255, 0, 255}).
		U32(0).U32(0).Str("").
		Bytes()
}

func packedFloats(w *fixture.Writer) *fixture.Writer {
	return w.U32(0).F32(0).F32(0).Blob(nil).U8(0).Align()
}

func packedInts(w *fixture.Writer) *fixture.Writer {
	return w.U32(0).Blob(nil).U8(0).Align()
}

// meshPayload is a one-triangle 2019.4 mesh with float positions only.
func meshPayload(name string, indices []byte) []byte {
	w := fixture.LE().Str(name).
		I32(1). // m_SubMeshes
		U32(0).U32(3).I32(0).U32(0).U32(0).U32(3).
		Vec3(0, 0, 0).Vec3(1, 1, 0).
		I32(0).I32(0).I32(0).I32(0). // blend shapes
		I32(0).I32(0).U32(0). // bind pose, bone hashes, root bone
		I32(0).I32(0). // bones AABB, variable weights
		U8(0).Bool(true).Bool(false).Bool(false).Align().
		I32(0).
		Blob(indices).
		U32(3).I32(1).U8(0).U8(0).U8(0).U8(3).
		Blob(fixture.LE().Vec3(0, 0, 0).Vec3(1, 0, 0).Vec3(0, 1, 0).Bytes())
	for i := 0; i < 4; i++ {
		packedFloats(w)
	}
	for i := 0; i < 3; i++ {
		packedInts(w)
	}
	packedFloats(w)
	packedInts(w)
	packedInts(w)
	return w.U32(0).
		Vec3(0, 0, 0).Vec3(1, 1, 0).I32(0).
		Blob(nil).Blob(nil).
		F32(1).F32(1).
		Align().U32(0).U32(0).Str("").
		Bytes()
}

func loadBatch(t *testing.T) *graph.Batch {
	fx := &fixture.Container{}
	fx.Add(1, classid.Texture2D, texturePayload())
	fx.Add(2, classid.Mesh, meshPayload("tri", fixture.LE().U16(0).U16(1).U16(2).Bytes()))
	fx.Add(3, classid.Mesh, meshPayload("broken", nil))
	fx.Add(4, classid.TextAsset, fixture.LE().Str("notes").Blob([]byte("hi")).Bytes())

	res, err := ingest.Buffers(context.Background(), []ingest.Source{
		{Name: "level0", Data: fx.Bytes()},
	}, ingest.Options{})
	require.NoError(t, err)
	return res.Batch
}

func TestJobsListsTexturesAndMeshes(t *testing.T) {
	b := loadBatch(t)
	jobs := Jobs(b)
	require.Len(t, jobs, 3)
	names := []string{jobs[0].Name, jobs[1].Name, jobs[2].Name}
	assert.ElementsMatch(t, []string{"gem", "tri", "broken"}, names)
}

func TestRunWritesThumbnailsAndManifest(t *testing.T) {
	b := loadBatch(t)
	out := t.TempDir()
	cfg := Config{
		Batch:       b,
		Textures:    texture.NewCache(b, texture.BuildIndex(b)),
		OutputDir:   out,
		ThumbSize:   16,
		Supersample: 2,
		Workers:     2,
	}
	jobs := Jobs(b)
	jobs = append(jobs, Job{Key: graph.Key{Container: "level0", PathID: 77}, Name: "ghost"})
	results := Run(cfg, jobs)
	require.Len(t, results, len(jobs))

	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Name] = r
	}
	for _, name := range []string{"gem", "tri"} {
		r := byName[name]
		require.True(t, r.Success, "%s: %s", name, r.Error)
		_, err := os.Stat(filepath.Join(out, r.Image))
		assert.NoError(t, err, name)
	}
	assert.False(t, byName["broken"].Success)
	assert.Contains(t, byName["broken"].Error, "past 0 indices")
	assert.False(t, byName["ghost"].Success)

	manifest := filepath.Join(out, "manifest.json")
	require.NoError(t, WriteManifest(manifest, results))
	data, err := os.ReadFile(manifest)
	require.NoError(t, err)
	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "level0", e.Container)
		assert.Contains(t, e.Image, "level0/")
	}
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "archive__CAB-1_CAB-1", safeName("archive:/CAB-1/CAB-1"))
	assert.Equal(t, "a_b", safeName(`a\b`))
}
