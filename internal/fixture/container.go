package fixture

import (
	"encoding/binary"

	"github.com/google/uuid"

	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/serialized"
)

// Object is one record to serialize.
type Object struct {
	PathID  int64
	ClassID classid.ID
	Data    []byte
}

// External is one entry of the external reference table.
type External struct {
	Path string
	GUID uuid.UUID
}

// Container describes a container to write. Zero values give a
// little-endian format 17 file stamped 2019.4.0f1 without type trees.
// Formats below 9 put the metadata, endian byte first, after the data.
type Container struct {
	Format    uint32
	BigEndian bool
	Version   string
	Platform  int32
	Objects   []Object
	Externals []External

	// Trees embeds an inline type tree for the listed classes and sets the
	// type-tree flag.
	Trees map[classid.ID][]serialized.TypeTreeNode
}

// Add appends an object record.
func (c *Container) Add(pathID int64, class classid.ID, data []byte) *Container {
	c.Objects = append(c.Objects, Object{PathID: pathID, ClassID: class, Data: data})
	return c
}

// AddExternal appends an external reference to path.
func (c *Container) AddExternal(path string) *Container {
	c.Externals = append(c.Externals, External{Path: path, GUID: uuid.New()})
	return c
}

// Tree sets the inline type tree for a class.
func (c *Container) Tree(class classid.ID, nodes []serialized.TypeTreeNode) *Container {
	if c.Trees == nil {
		c.Trees = map[classid.ID][]serialized.TypeTreeNode{}
	}
	c.Trees[class] = nodes
	return c
}

// Node is shorthand for a type tree node.
func Node(level int, typ, name string, size int32, align bool) serialized.TypeTreeNode {
	n := serialized.TypeTreeNode{Level: level, Type: typ, Name: name, ByteSize: size}
	if align {
		n.MetaFlag = serialized.AlignFlag
	}
	return n
}

func (c *Container) order() binary.ByteOrder {
	if c.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Payload returns a writer in the container's byte order.
func (c *Container) Payload() *Writer { return NewWriter(c.order()) }

// Bytes serializes the container.
func (c *Container) Bytes() []byte {
	v := c.Format
	if v == 0 {
		v = 17
	}
	version := c.Version
	if version == "" {
		version = "2019.4.0f1"
	}
	hdrLen := 20
	if v >= 22 {
		hdrLen = 48
	}

	// Type table: one entry per class in first-appearance order.
	var classes []classid.ID
	typeIndex := map[classid.ID]int32{}
	for _, o := range c.Objects {
		if _, ok := typeIndex[o.ClassID]; !ok {
			typeIndex[o.ClassID] = int32(len(classes))
			classes = append(classes, o.ClassID)
		}
	}

	m := &Writer{order: c.order(), base: hdrLen}
	if v >= 7 {
		m.CStr(version)
	}
	if v >= 8 {
		m.I32(c.Platform)
	}
	// Formats below 13 always embed type trees.
	trees := len(c.Trees) > 0 || v < 13
	if v >= 13 {
		m.Bool(trees)
	}
	m.I32(int32(len(classes)))
	for _, class := range classes {
		m.I32(int32(class))
		if v >= 16 {
			m.Bool(false)
		}
		if v >= 17 {
			m.I16(-1)
		}
		if v >= 13 {
			if (v < 16 && class < 0) || (v >= 16 && class == classid.MonoBehaviour) {
				m.Raw(make([]byte, 16))
			}
			m.Raw(make([]byte, 16))
		}
		if trees {
			writeTree(m, v, c.Trees[class])
			if v >= 21 {
				m.I32(0)
			}
		}
	}
	if v >= 7 && v < 14 {
		m.I32(0)
	}

	// Object payloads are laid out after the metadata; offsets are known
	// once the metadata length is fixed, so the table is written with
	// placeholders and patched.
	m.I32(int32(len(c.Objects)))
	offsetAt := make([]int, len(c.Objects))
	for i, o := range c.Objects {
		if v < 14 {
			m.I32(int32(o.PathID))
		} else {
			m.Align()
			m.I64(o.PathID)
		}
		offsetAt[i] = m.Len()
		if v >= 22 {
			m.I64(0)
		} else {
			m.U32(0)
		}
		m.U32(uint32(len(o.Data)))
		if v >= 16 {
			m.I32(typeIndex[o.ClassID])
		} else {
			m.I32(int32(o.ClassID))
			m.U16(uint16(o.ClassID))
		}
		if v < 11 {
			m.U16(0)
		}
		if v >= 11 && v < 17 {
			m.I16(-1)
		}
		if v == 15 || v == 16 {
			m.U8(0)
		}
	}
	if v >= 11 {
		m.I32(0)
	}
	m.I32(int32(len(c.Externals)))
	for _, e := range c.Externals {
		if v >= 6 {
			m.CStr("")
		}
		if v >= 5 {
			m.Raw(e.GUID[:])
			m.I32(0)
		}
		m.CStr(e.Path)
	}
	if v >= 20 {
		m.I32(0)
	}
	if v >= 5 {
		m.CStr("")
	}

	dataOffset := align(hdrLen+m.Len(), 16)
	if v < 9 {
		dataOffset = align(hdrLen, 16)
	}
	rel := make([]int, len(c.Objects))
	pos := 0
	for i, o := range c.Objects {
		pos = align(pos, 8)
		rel[i] = pos
		pos += len(o.Data)
	}
	for i, at := range offsetAt {
		if v >= 22 {
			c.order().PutUint64(m.buf[at:], uint64(rel[i]))
		} else {
			c.order().PutUint32(m.buf[at:], uint32(rel[i]))
		}
	}

	fileSize := dataOffset + pos
	metaSize := m.Len()
	if v < 9 {
		metaSize++
		fileSize += metaSize
	}
	out := make([]byte, fileSize)
	be := binary.BigEndian
	if v >= 22 {
		be.PutUint32(out[8:], v)
		be.PutUint32(out[20:], uint32(metaSize))
		be.PutUint64(out[24:], uint64(fileSize))
		be.PutUint64(out[32:], uint64(dataOffset))
	} else {
		be.PutUint32(out[0:], uint32(metaSize))
		be.PutUint32(out[4:], uint32(fileSize))
		be.PutUint32(out[8:], v)
		be.PutUint32(out[12:], uint32(dataOffset))
	}
	metaAt := hdrLen
	if v < 9 {
		metaAt = fileSize - m.Len()
		if c.BigEndian {
			out[metaAt-1] = 1
		}
	} else if c.BigEndian {
		out[16] = 1
	}
	copy(out[metaAt:], m.buf)
	for i, o := range c.Objects {
		copy(out[dataOffset+rel[i]:], o.Data)
	}
	return out
}

func writeTree(m *Writer, v uint32, nodes []serialized.TypeTreeNode) {
	if v < 12 && v != 10 {
		if len(nodes) == 0 {
			nodes = []serialized.TypeTreeNode{{}}
		}
		writeLegacy(m, nodes, 0)
		return
	}

	var strs []byte
	local := map[string]uint32{}
	offset := func(s string) uint32 {
		if off, ok := serialized.CommonStringOffset(s); ok {
			return off | 0x80000000
		}
		if off, ok := local[s]; ok {
			return off
		}
		off := uint32(len(strs))
		local[s] = off
		strs = append(strs, s...)
		strs = append(strs, 0)
		return off
	}

	m.I32(int32(len(nodes)))
	type placed struct{ typ, name uint32 }
	offs := make([]placed, len(nodes))
	for i, n := range nodes {
		offs[i] = placed{offset(n.Type), offset(n.Name)}
	}
	m.I32(int32(len(strs)))
	for i, n := range nodes {
		m.U16(uint16(n.Version))
		m.U8(uint8(n.Level))
		m.U8(uint8(n.TypeFlags))
		m.U32(offs[i].typ)
		m.U32(offs[i].name)
		m.I32(n.ByteSize)
		m.I32(int32(i))
		m.I32(n.MetaFlag)
		if v >= 19 {
			m.U64(0)
		}
	}
	m.Raw(strs)
}

// writeLegacy emits the recursive layout; nodes must be in pre-order.
func writeLegacy(m *Writer, nodes []serialized.TypeTreeNode, i int) int {
	n := nodes[i]
	m.CStr(n.Type)
	m.CStr(n.Name)
	m.I32(n.ByteSize)
	m.I32(int32(i))
	m.I32(n.TypeFlags)
	m.I32(n.Version)
	m.I32(n.MetaFlag)
	var children []int
	for j := i + 1; j < len(nodes) && nodes[j].Level > n.Level; j++ {
		if nodes[j].Level == n.Level+1 {
			children = append(children, j)
		}
	}
	m.I32(int32(len(children)))
	next := i + 1
	for range children {
		next = writeLegacy(m, nodes, next)
	}
	return next
}

func align(n, to int) int {
	if r := n % to; r != 0 {
		return n + to - r
	}
	return n
}
