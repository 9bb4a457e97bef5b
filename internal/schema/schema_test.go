package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/serialized"
	"unity-asset-reader/internal/unityver"
)

func TestActiveGateBoundary(t *testing.T) {
	blocks := []Block{
		When(since(5, 4, 0), I32("new")),
		When(before(5, 4, 0), I32("old")),
	}
	got, ok := Active(blocks, unityver.V(5, 4, 0))
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Fields[0].Name)

	got, ok = Active(blocks, unityver.V(5, 3, 9))
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "old", got[0].Fields[0].Name)
}

func TestActiveOneOf(t *testing.T) {
	blocks := []Block{
		All(Str("m_Name")),
		OneOf(When(since(5, 0, 0), I32("a"))),
		All(I32("after")),
	}
	got, ok := Active(blocks, unityver.V(4, 7, 2))
	assert.False(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "m_Name", got[0].Fields[0].Name)

	got, ok = Active(blocks, unityver.V(2019, 4, 0))
	assert.True(t, ok)
	assert.Len(t, got, 3)
}

func TestOtherwiseIsFallback(t *testing.T) {
	s := StreamingInfo("m_StreamData")
	got, ok := Active(s.Blocks, unityver.V(2019, 4, 0))
	require.True(t, ok)
	assert.Equal(t, KindU32, got[0].Fields[0].Kind)

	got, ok = Active(s.Blocks, unityver.V(2020, 1, 0))
	require.True(t, ok)
	assert.Equal(t, KindU64, got[0].Fields[0].Kind)
}

func TestBuiltinsNamed(t *testing.T) {
	r := NewRegistry()
	for _, id := range []classid.ID{
		classid.GameObject, classid.Transform, classid.RectTransform, classid.MeshFilter,
		classid.Material, classid.TextAsset, classid.MonoScript, classid.Texture2D,
		classid.Mesh, classid.AudioClip, classid.PlayerSettings, classid.BuildSettings,
		classid.AssetBundle,
	} {
		s, ok := r.Static(id)
		require.True(t, ok, id.String())
		assert.Equal(t, id.String(), s.Name)
		assert.Equal(t, Static, s.Source)
	}
	assert.Len(t, r.Classes(), 13)
}

func TestMatrixFieldOrder(t *testing.T) {
	m := Matrix("m")
	fs := m.Blocks[0].Fields
	require.Len(t, fs, 16)
	assert.Equal(t, "e00", fs[0].Name)
	assert.Equal(t, "e10", fs[1].Name)
	assert.Equal(t, "e01", fs[4].Name)
	assert.Equal(t, "e33", fs[15].Name)
}

func sampleTree() *serialized.TypeTree {
	align := int32(serialized.AlignFlag)
	return &serialized.TypeTree{Nodes: []serialized.TypeTreeNode{
		{Level: 0, Type: "MyBehaviour", Name: "Base"},
		{Level: 1, Type: "PPtr<GameObject>", Name: "m_GameObject"},
		{Level: 2, Type: "int", Name: "m_FileID"},
		{Level: 2, Type: "SInt64", Name: "m_PathID"},
		{Level: 1, Type: "string", Name: "m_Name", MetaFlag: align},
		{Level: 2, Type: "Array", Name: "Array", MetaFlag: align},
		{Level: 3, Type: "int", Name: "size"},
		{Level: 3, Type: "char", Name: "data"},
		{Level: 1, Type: "vector", Name: "m_Values"},
		{Level: 2, Type: "Array", Name: "Array", MetaFlag: align},
		{Level: 3, Type: "int", Name: "size"},
		{Level: 3, Type: "float", Name: "data"},
		{Level: 1, Type: "TypelessData", Name: "m_Blob"},
		{Level: 2, Type: "int", Name: "size"},
		{Level: 2, Type: "UInt8", Name: "data"},
		{Level: 1, Type: "Vector3f", Name: "m_Pos"},
		{Level: 2, Type: "float", Name: "x"},
		{Level: 2, Type: "float", Name: "y"},
		{Level: 2, Type: "float", Name: "z"},
		{Level: 1, Type: "bool", Name: "m_On", MetaFlag: align},
	}}
}

func TestFromTypeTree(t *testing.T) {
	s := FromTypeTree(classid.MonoBehaviour, sampleTree())
	require.NotNil(t, s)
	assert.Equal(t, Inline, s.Source)
	assert.Equal(t, "MyBehaviour", s.Name)

	fs := s.Blocks[0].Fields
	require.Len(t, fs, 6)
	assert.Equal(t, KindPPtr, fs[0].Kind)
	assert.Equal(t, KindString, fs[1].Kind)
	assert.True(t, fs[1].Align)

	assert.Equal(t, KindArray, fs[2].Kind)
	assert.True(t, fs[2].Align)
	require.NotNil(t, fs[2].Elem)
	assert.Equal(t, KindF32, fs[2].Elem.Kind)

	assert.Equal(t, KindBlob, fs[3].Kind)
	assert.Equal(t, KindStruct, fs[4].Kind)
	assert.Len(t, fs[4].Blocks[0].Fields, 3)
	assert.Equal(t, KindBool, fs[5].Kind)
	assert.True(t, fs[5].Align)
}

func TestFromTypeTreeEmpty(t *testing.T) {
	assert.Nil(t, FromTypeTree(classid.GameObject, nil))
	assert.Nil(t, FromTypeTree(classid.GameObject, &serialized.TypeTree{}))
	assert.Nil(t, FromTypeTree(classid.GameObject, &serialized.TypeTree{Nodes: []serialized.TypeTreeNode{{}}}))
}

func TestLookupPrecedence(t *testing.T) {
	r := NewRegistry()
	tree := sampleTree()

	s, ok := r.Lookup(classid.GameObject, tree)
	require.True(t, ok)
	assert.Equal(t, Inline, s.Source)

	again, _ := r.Lookup(classid.GameObject, tree)
	assert.Same(t, s, again)

	s, ok = r.Lookup(classid.GameObject, &serialized.TypeTree{})
	require.True(t, ok)
	assert.Equal(t, Static, s.Source)

	_, ok = r.Lookup(classid.Camera, nil)
	assert.False(t, ok)

	s, ok = r.Lookup(classid.Camera, tree)
	require.True(t, ok)
	assert.Equal(t, "MyBehaviour", s.Name)
}
