package object

import (
	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/mathutil"
)

// Variant is the typed view of a decoded object.
type Variant interface {
	Class() classid.ID
	Name() string
}

// StreamRef locates payload bytes held in a side resource file.
type StreamRef struct {
	Path   string
	Offset uint64
	Size   uint64
}

// IsZero reports an object whose payload is inline.
func (s StreamRef) IsZero() bool { return s.Path == "" || s.Size == 0 }

type GameObject struct {
	Label      string
	Layer      uint32
	Tag        uint16
	Active     bool
	Components []PPtr
}

func (*GameObject) Class() classid.ID { return classid.GameObject }
func (g *GameObject) Name() string { return g.Label }

type Transform struct {
	GameObject    PPtr
	LocalRotation mathutil.Quat
	LocalPosition mathutil.Vec3
	LocalScale    mathutil.Vec3
	Children      []PPtr
	Father        PPtr
}

func (*Transform) Class() classid.ID { return classid.Transform }
func (*Transform) Name() string { return "" }

// RectTransform is a Transform laid out on a UI canvas.
type RectTransform struct {
	Transform
	AnchorMin        [2]float32
	AnchorMax        [2]float32
	AnchoredPosition [2]float32
	SizeDelta        [2]float32
	Pivot            [2]float32
}

func (*RectTransform) Class() classid.ID { return classid.RectTransform }

type Texture2D struct {
	Label     string
	Width     int32
	Height    int32
	Format    int32
	MipCount  int32
	ImageData []byte
	Stream    StreamRef
}

func (*Texture2D) Class() classid.ID { return classid.Texture2D }
func (t *Texture2D) Name() string { return t.Label }

type SubMesh struct {
	FirstByte   uint32
	IndexCount  uint32
	Topology    int32
	BaseVertex  uint32
	FirstVertex uint32
	VertexCount uint32
}

// Channel describes one vertex attribute inside the vertex streams.
type Channel struct {
	Stream    uint8
	Offset    uint8
	Format    uint8
	Dimension uint8
}

type Mesh struct {
	Label       string
	SubMeshes   []SubMesh
	VertexCount uint32
	Channels    []Channel
	VertexData  []byte
	IndexFormat int32 // 0 = 16-bit, 1 = 32-bit
	IndexBuffer []byte
	Stream      StreamRef
}

func (*Mesh) Class() classid.ID { return classid.Mesh }
func (m *Mesh) Name() string { return m.Label }

type MeshFilter struct {
	GameObject PPtr
	Mesh       PPtr
}

func (*MeshFilter) Class() classid.ID { return classid.MeshFilter }
func (*MeshFilter) Name() string { return "" }

type TextAsset struct {
	Label  string
	Script []byte
}

func (*TextAsset) Class() classid.ID { return classid.TextAsset }
func (t *TextAsset) Name() string { return t.Label }

type AudioClip struct {
	Label             string
	Channels          int32
	Frequency         int32
	BitsPerSample     int32
	Length            float32
	CompressionFormat int32
	Resource          StreamRef
}

func (*AudioClip) Class() classid.ID { return classid.AudioClip }
func (a *AudioClip) Name() string { return a.Label }

type MonoScript struct {
	Label     string
	ClassName string
	Namespace string
	Assembly  string
}

func (*MonoScript) Class() classid.ID { return classid.MonoScript }
func (m *MonoScript) Name() string { return m.Label }

type PlayerSettings struct {
	CompanyName string
	ProductName string
}

func (*PlayerSettings) Class() classid.ID { return classid.PlayerSettings }
func (p *PlayerSettings) Name() string { return p.ProductName }

type BuildSettings struct {
	Scenes  []string
	Version string
}

func (*BuildSettings) Class() classid.ID { return classid.BuildSettings }
func (*BuildSettings) Name() string { return "" }

// BundleEntry maps an asset path inside a bundle to its object.
type BundleEntry struct {
	Path  string
	Asset PPtr
}

type AssetBundle struct {
	Label     string
	Preload   []PPtr
	Container []BundleEntry
	MainAsset PPtr
}

func (*AssetBundle) Class() classid.ID { return classid.AssetBundle }
func (a *AssetBundle) Name() string { return a.Label }

// Generic carries the fields of a class read through its inline layout but
// without a dedicated variant.
type Generic struct {
	ClassID  classid.ID
	TypeName string
	Fields   *Struct
}

func (g *Generic) Class() classid.ID { return g.ClassID }
func (g *Generic) Name() string { return g.Fields.Str("m_Name") }

// Opaque is an object with no known layout. Offset and Size locate its
// raw bytes in the container.
type Opaque struct {
	ClassID classid.ID
	Offset  int64
	Size    uint32
}

func (o *Opaque) Class() classid.ID { return o.ClassID }
func (*Opaque) Name() string { return "" }
