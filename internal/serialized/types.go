package serialized

import (
	"encoding/binary"

	"github.com/google/uuid"

	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/unityver"
)

// Format version bounds accepted by Parse.
const (
	MinFormat = 5
	MaxFormat = 23
)

// Header is the fixed prologue of a container.
type Header struct {
	MetadataSize uint32
	FileSize     int64
	Format       uint32
	DataOffset   int64
	BigEndian    bool
}

// TypeTreeNode is one field of an inline type tree, flattened in pre-order.
// Level is the nesting depth; the class root sits at level 0.
type TypeTreeNode struct {
	Type        string
	Name        string
	ByteSize    int32
	Index       int32
	TypeFlags   int32
	Version     int32
	MetaFlag    int32
	Level       int
	RefTypeHash uint64
}

// AlignFlag marks a field that is followed by 4-byte alignment.
const AlignFlag = 0x4000

// Aligned reports whether the node's meta flag requests alignment.
func (n TypeTreeNode) Aligned() bool { return n.MetaFlag&AlignFlag != 0 }

// TypeTree is the inline layout a container embeds for one class.
type TypeTree struct {
	Nodes []TypeTreeNode
}

// RootType returns the class name the tree describes.
func (t *TypeTree) RootType() string {
	if t == nil || len(t.Nodes) == 0 {
		return ""
	}
	return t.Nodes[0].Type
}

// SerializedType is one entry of a container's type table.
type SerializedType struct {
	ClassID         classid.ID
	Stripped        bool
	ScriptTypeIndex int16
	ScriptID        [16]byte
	OldTypeHash     [16]byte
	Tree            *TypeTree
	Dependencies    []int32

	// Set for reference types (format >= 21).
	ClassName string
	Namespace string
	Assembly  string
}

// ObjectRecord locates one serialized object in the container buffer.
// Offset is absolute; Readable is false when the declared range falls
// outside the buffer or overlaps a neighbour.
type ObjectRecord struct {
	PathID          int64
	Offset          int64
	Size            uint32
	TypeIndex       int32
	ClassID         classid.ID
	ScriptTypeIndex int16
	Destroyed       bool
	Stripped        bool
	Readable        bool
	Problem         string
}

// End returns the absolute end of the record's range.
func (r ObjectRecord) End() int64 { return r.Offset + int64(r.Size) }

// ScriptType is a (file, path ID) reference to a script object.
type ScriptType struct {
	FileIndex int32
	PathID    int64
}

// ExternalReference names another container this one points into.
// Pointer file index n refers to Externals[n-1].
type ExternalReference struct {
	TempEmpty string
	GUID      uuid.UUID
	Type      int32
	PathName  string
}

// Container is one parsed physical (or merged split) file.
type Container struct {
	Name   string
	Path   string
	Data   []byte
	Header Header
	Order  binary.ByteOrder

	UnityVersion string
	Engine       unityver.Version
	Platform     int32
	TypeTrees    bool
	BigIDs       bool

	Types       []SerializedType
	Objects     []ObjectRecord
	ScriptTypes []ScriptType
	Externals   []ExternalReference
	RefTypes    []SerializedType
	UserInfo    string

	byPath map[int64]int
}

// Object looks up a record by path ID.
func (c *Container) Object(pathID int64) (ObjectRecord, bool) {
	i, ok := c.byPath[pathID]
	if !ok {
		return ObjectRecord{}, false
	}
	return c.Objects[i], true
}

// Raw returns the exact backing bytes of a record, or nil when unreadable.
func (c *Container) Raw(rec ObjectRecord) []byte {
	if !rec.Readable {
		return nil
	}
	return c.Data[rec.Offset:rec.End()]
}

// TypeOf returns the type table entry for a record, if any.
func (c *Container) TypeOf(rec ObjectRecord) *SerializedType {
	if c.Header.Format >= 16 {
		if rec.TypeIndex >= 0 && int(rec.TypeIndex) < len(c.Types) {
			return &c.Types[rec.TypeIndex]
		}
		return nil
	}
	for i := range c.Types {
		if int32(c.Types[i].ClassID) == rec.TypeIndex {
			return &c.Types[i]
		}
	}
	return nil
}

// PathIDSize is the byte width of a pointer's path ID in this container.
func (c *Container) PathIDSize() int {
	if c.Header.Format >= 14 {
		return 8
	}
	return 4
}
