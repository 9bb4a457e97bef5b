package graph_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/fixture"
	"unity-asset-reader/internal/graph"
	"unity-asset-reader/internal/object"
	"unity-asset-reader/internal/serialized"
)

func gameObject(name string, comps ...int64) []byte {
	w := fixture.LE().I32(int32(len(comps)))
	for _, c := range comps {
		w.PPtr(0, c)
	}
	return w.U32(0).Str(name).U16(0).Bool(true).Align().Bytes()
}

func transform(goFile int32, goID int64) []byte {
	return fixture.LE().PPtr(goFile, goID).Quat(0, 0, 0, 1).
		Vec3(0, 0, 0).Vec3(1, 1, 1).
		I32(0).PPtr(0, 0).
		Bytes()
}

func unit(t *testing.T, name string, fx *fixture.Container) *graph.Unit {
	t.Helper()
	c, err := serialized.Parse(name, fx.Bytes())
	require.NoError(t, err)
	objs, err := object.NewDecoder(nil).DecodeAll(context.Background(), c, 2)
	require.NoError(t, err)
	return &graph.Unit{Container: c, Objects: objs}
}

// pair returns container A (a GameObject) and container B (a Transform
// pointing at it through B's external table).
func pair(t *testing.T) (a, b *graph.Unit) {
	fa := &fixture.Container{}
	fa.Add(1, classid.GameObject, gameObject("Hero", 2))
	fa.Add(2, classid.Transform, transform(0, 1))

	fb := &fixture.Container{}
	fb.AddExternal("Assets/Shared/a.assets")
	fb.AddExternal("library/unity default resources")
	fb.Add(5, classid.Transform, transform(1, 1))
	fb.Add(6, classid.ID(9999), []byte{1, 2, 3, 4})

	return unit(t, "a.assets", fa), unit(t, "b.assets", fb)
}

func TestCrossFileResolution(t *testing.T) {
	a, b := pair(t)
	batch, err := graph.Build([]*graph.Unit{a, b}, nil)
	require.NoError(t, err)

	tr, ok := batch.Lookup("b.assets", 5)
	require.True(t, ok)
	ptr := tr.Variant.(*object.Transform).GameObject
	assert.Equal(t, object.PPtr{FileID: 1, PathID: 1}, ptr)

	r := batch.ResolveFrom(tr, ptr)
	require.Equal(t, graph.StateResolved, r.State)
	assert.Equal(t, "Hero", r.Target.Name())
	assert.Equal(t, graph.Key{Container: "a.assets", PathID: 1}, r.Key)

	self := batch.Resolve("a.assets", object.PPtr{PathID: 2})
	require.Equal(t, graph.StateResolved, self.State)
	assert.Equal(t, classid.Transform, self.Target.ClassID)

	assert.Equal(t, graph.StateNull, batch.Resolve("b.assets", object.PPtr{FileID: 1}).State)
	assert.Equal(t, graph.StateMissing, batch.Resolve("b.assets", object.PPtr{FileID: 7, PathID: 1}).State)
	assert.Equal(t, graph.StateMissing, batch.Resolve("a.assets", object.PPtr{PathID: 99}).State)
}

func TestUnloadedExternalIsTerminal(t *testing.T) {
	a, b := pair(t)
	batch, err := graph.Build([]*graph.Unit{a, b}, nil)
	require.NoError(t, err)

	r := batch.Resolve("b.assets", object.PPtr{FileID: 2, PathID: 10})
	assert.Equal(t, graph.StateExternal, r.State)
	assert.Nil(t, r.Target)
	var ure *object.UnresolvedReferenceError
	require.True(t, errors.As(r.Err, &ure))
	assert.Equal(t, "library/unity default resources", ure.Target)
}

func TestResolutionIsMemoized(t *testing.T) {
	a, b := pair(t)
	batch, err := graph.Build([]*graph.Unit{a, b}, nil)
	require.NoError(t, err)

	p := object.PPtr{FileID: 1, PathID: 1}
	first := batch.Resolve("b.assets", p)
	second := batch.Resolve("b.assets", p)
	assert.Equal(t, first, second)
	assert.Same(t, first.Target, second.Target)
}

func TestResolutionIgnoresLoadOrder(t *testing.T) {
	a, b := pair(t)
	ab, err := graph.Build([]*graph.Unit{a, b}, nil)
	require.NoError(t, err)
	ba, err := graph.Build([]*graph.Unit{b, a}, nil)
	require.NoError(t, err)

	for _, p := range []object.PPtr{{FileID: 1, PathID: 1}, {FileID: 2, PathID: 1}, {PathID: 5}} {
		x, y := ab.Resolve("b.assets", p), ba.Resolve("b.assets", p)
		assert.Equal(t, x.State, y.State, "%s", p)
		assert.Equal(t, x.Key, y.Key, "%s", p)
	}

	keys := func(bt *graph.Batch) []graph.Key {
		var out []graph.Key
		for _, o := range bt.Objects() {
			out = append(out, bt.Key(o))
		}
		return out
	}
	assert.Equal(t, keys(ab), keys(ba))
}

func TestOpaqueExcludedFromTypedQueries(t *testing.T) {
	a, b := pair(t)
	batch, err := graph.Build([]*graph.Unit{a, b}, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, batch.Len())
	assert.Len(t, batch.Typed(), 3)
	require.Len(t, batch.Opaque(), 1)
	assert.Empty(t, batch.OfClass(classid.ID(9999)))
	assert.Empty(t, batch.Filter("type:class9999"))

	raw, err := batch.Raw(graph.Key{Container: "b.assets", PathID: 6})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, raw)

	_, err = batch.Raw(graph.Key{Container: "b.assets", PathID: 77})
	assert.Error(t, err)
}

func TestOfClassUnion(t *testing.T) {
	a, b := pair(t)
	batch, err := graph.Build([]*graph.Unit{b, a}, nil)
	require.NoError(t, err)

	assert.Len(t, batch.OfClass(classid.Transform), 2)
	assert.Len(t, batch.OfClass(classid.Transform, classid.GameObject), 3)
	assert.Equal(t, map[classid.ID]int{classid.GameObject: 1, classid.Transform: 2}, batch.ClassCounts())
}

func TestFilter(t *testing.T) {
	a, b := pair(t)
	batch, err := graph.Build([]*graph.Unit{a, b}, nil)
	require.NoError(t, err)

	got := batch.Filter("her")
	require.Len(t, got, 1)
	assert.Equal(t, "Hero", got[0].Name())

	assert.Len(t, batch.Filter("type:TRANS"), 2)
	assert.Len(t, batch.Filter(""), 3)
}

func TestSelect(t *testing.T) {
	a, b := pair(t)
	batch, err := graph.Build([]*graph.Unit{a, b}, nil)
	require.NoError(t, err)

	ms, err := batch.Select("$.m_Component[*].component.m_PathID", classid.GameObject)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, []any{int64(2)}, ms[0].Values)

	ms, err = batch.Select("$.m_Father")
	require.NoError(t, err)
	assert.Len(t, ms, 2)

	_, err = batch.Select("$.m_Name[")
	assert.Error(t, err)
}

func TestProductNameAndStreams(t *testing.T) {
	fx := &fixture.Container{}
	fx.Add(1, classid.PlayerSettings, fixture.LE().Raw(make([]byte, 16)).
		Bool(false).Align().I32(3).I32(0).
		Bool(false).Align().
		I32(60).
		Str("Acme").Str("Rocket Game").
		Bytes())
	u := unit(t, "globalgamemanagers", fx)

	res := map[string][]byte{"Data/sharedassets0.assets.resS": []byte("0123456789")}
	batch, err := graph.Build([]*graph.Unit{u}, res)
	require.NoError(t, err)
	assert.Equal(t, "Rocket Game", batch.ProductName())

	data, err := batch.StreamData(object.StreamRef{Path: "archive:/CAB-1/SharedAssets0.assets.resS", Offset: 2, Size: 3})
	require.NoError(t, err)
	assert.Equal(t, []byte("234"), data)

	_, err = batch.StreamData(object.StreamRef{Path: "sharedassets0.assets.resS", Offset: 8, Size: 3})
	assert.Error(t, err)
	_, err = batch.StreamData(object.StreamRef{Path: "other.resS", Size: 1})
	assert.Error(t, err)
}

func TestDuplicateContainerName(t *testing.T) {
	a, _ := pair(t)
	_, err := graph.Build([]*graph.Unit{a, a}, nil)
	assert.Error(t, err)
}

func TestClassTrees(t *testing.T) {
	fx := &fixture.Container{Version: "2020.3.0f1"}
	fx.Tree(classid.MonoBehaviour, []serialized.TypeTreeNode{
		fixture.Node(0, "MonoBehaviour", "Base", -1, false),
		fixture.Node(1, "int", "m_Score", 4, false),
	})
	fx.Add(3, classid.MonoBehaviour, fixture.LE().I32(1).Bytes())
	fx.Add(4, classid.MonoBehaviour, fixture.LE().I32(2).Bytes())
	batch, err := graph.Build([]*graph.Unit{unit(t, "level0", fx)}, nil)
	require.NoError(t, err)

	trees := batch.ClassTrees()
	require.Len(t, trees, 1)
	assert.Equal(t, "2020.3.0f1", trees[0].Version)
	assert.Equal(t, "MonoBehaviour", trees[0].Name)
	assert.Len(t, trees[0].Tree.Nodes, 2)
}
