package ingest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/fixture"
	"unity-asset-reader/internal/graph"
	"unity-asset-reader/internal/ingest"
	"unity-asset-reader/internal/object"
	"unity-asset-reader/internal/serialized"
	"unity-asset-reader/internal/unityver"
)

func textAsset(name, body string) []byte {
	return fixture.LE().Str(name).Blob([]byte(body)).Bytes()
}

func containerA() []byte {
	fx := &fixture.Container{}
	fx.Add(1, classid.TextAsset, textAsset("readme", "hello"))
	fx.Add(2, classid.TextAsset, textAsset("notes", "world"))
	return fx.Bytes()
}

func containerB() []byte {
	fx := &fixture.Container{}
	fx.AddExternal("a.assets")
	fx.Add(7, classid.MeshFilter, fixture.LE().PPtr(1, 1).PPtr(1, 2).Bytes())
	return fx.Bytes()
}

func TestPathsLoadsDirectory(t *testing.T) {
	fs := memfs.New()
	level := containerA()
	files := map[string][]byte{
		"Data/a.assets":                    containerA(),
		"Data/b.assets":                    containerB(),
		"Data/readme.txt":                  []byte("not a container at all"),
		"Data/sharedassets0.assets.resS":   []byte("0123456789"),
		"Data/level1.split0":               level[:40],
		"Data/level1.split1":               level[40:],
		"Data/Managed/UnityEngine.dll.mdb": []byte{1, 2, 3},
	}
	for name, data := range files {
		require.NoError(t, util.WriteFile(fs, name, data, 0o644))
	}

	res, err := ingest.Paths(context.Background(), fs, []string{"Data"}, ingest.Options{Workers: 2})
	require.NoError(t, err)
	assert.Empty(t, res.Failures)
	assert.ElementsMatch(t, []string{"Data/a.assets", "Data/b.assets", "Data/level1"}, res.Loaded)
	assert.ElementsMatch(t, []string{"Data/readme.txt", "Data/Managed/UnityEngine.dll.mdb"}, res.Skipped)

	b := res.Batch
	require.NotNil(t, b)
	assert.Equal(t, 5, b.Len())
	assert.Contains(t, b.Resources, "sharedassets0.assets.ress")

	joined, ok := b.Lookup("Data/level1", 2)
	require.True(t, ok)
	assert.Equal(t, "notes", joined.Name())

	mf, ok := b.Lookup("Data/b.assets", 7)
	require.True(t, ok)
	r := b.ResolveFrom(mf, mf.Variant.(*object.MeshFilter).GameObject)
	require.Equal(t, graph.StateResolved, r.State)
	assert.Equal(t, "readme", r.Target.Name())
}

func TestBadContainerDoesNotAbortBatch(t *testing.T) {
	res, err := ingest.Buffers(context.Background(), []ingest.Source{
		{Name: "good", Data: containerA()},
		{Name: "bad", Data: []byte("this is not a serialized file header")},
		{Name: "empty"},
	}, ingest.Options{Workers: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, res.Loaded)
	require.Len(t, res.Failures, 2)

	reasons := map[string]string{}
	for _, f := range res.Failures {
		reasons[f.Name] = f.Reason
	}
	assert.Equal(t, map[string]string{"bad": ingest.ReasonFormat, "empty": ingest.ReasonEmpty}, reasons)

	for _, f := range res.Failures {
		if f.Name == "bad" {
			var cfe *serialized.ContainerFormatError
			assert.True(t, errors.As(f, &cfe))
		}
	}
}

func TestNoReadableInput(t *testing.T) {
	res, err := ingest.Buffers(context.Background(), []ingest.Source{
		{Name: "bad", Data: []byte("garbage garbage garbage")},
	}, ingest.Options{})
	assert.ErrorIs(t, err, ingest.ErrNoInput)
	assert.Nil(t, res.Batch)
	assert.Len(t, res.Failures, 1)
}

func TestCanceledLoadPublishesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := ingest.Buffers(ctx, []ingest.Source{
		{Name: "a.assets", Data: containerA()},
		{Name: "b.assets", Data: containerB()},
	}, ingest.Options{Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res.Batch)
	require.Len(t, res.Failures, 2)
	for _, f := range res.Failures {
		assert.Equal(t, ingest.ReasonCanceled, f.Reason)
	}
}

func TestLoadTwiceIsIdentical(t *testing.T) {
	srcs := []ingest.Source{
		{Name: "a.assets", Data: containerA()},
		{Name: "b.assets", Data: containerB()},
	}
	x, err := ingest.Buffers(context.Background(), srcs, ingest.Options{Workers: 4})
	require.NoError(t, err)
	y, err := ingest.Buffers(context.Background(), srcs, ingest.Options{Workers: 1})
	require.NoError(t, err)

	require.Equal(t, x.Batch.Len(), y.Batch.Len())
	for i, o := range x.Batch.Objects() {
		p := y.Batch.Objects()[i]
		assert.Equal(t, o.Container.Name, p.Container.Name)
		assert.Equal(t, o.PathID, p.PathID)
		assert.Equal(t, o.Record.Offset, p.Record.Offset)
		assert.Equal(t, o.ClassID, p.ClassID)
	}
}

func TestVersionHintFillsStrippedStamp(t *testing.T) {
	fx := &fixture.Container{Version: "0.0.0"}
	fx.Add(1, classid.TextAsset, textAsset("x", "y"))
	res, err := ingest.Buffers(context.Background(), []ingest.Source{{Name: "level0", Data: fx.Bytes()}},
		ingest.Options{VersionHint: unityver.MustParse("2019.4.0f1")})
	require.NoError(t, err)

	c, ok := res.Batch.Container("level0")
	require.True(t, ok)
	assert.Equal(t, 2019, c.Engine.Major)
	o, _ := res.Batch.Lookup("level0", 1)
	assert.Equal(t, object.StatusOK, o.Status)
}

func TestMissingPathIsReadFailure(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "a.assets", containerA(), 0o644))

	res, err := ingest.Paths(context.Background(), fs, []string{"a.assets", "gone.assets"}, ingest.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.assets"}, res.Loaded)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, ingest.ReasonRead, res.Failures[0].Reason)
}
