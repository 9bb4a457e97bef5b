package serialized

import (
	"encoding/binary"
	"sort"

	"github.com/google/uuid"

	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/cursor"
	"unity-asset-reader/internal/unityver"
)

// headerSize is the fixed prologue for formats below 22; 22+ extends it.
const (
	headerSize         = 20
	extendedHeaderSize = 48
)

// Parse reads a container from an in-memory buffer. name is the container
// identity used in errors and external reference matching.
//
// Header sanity failures return a *ContainerFormatError. Object records whose
// byte range falls outside the buffer or overlaps an earlier record are kept
// with Readable=false and a Problem note.
func Parse(name string, data []byte) (*Container, error) {
	if len(data) < headerSize {
		return nil, formatErr(name, ReasonTruncated, "%d bytes is shorter than the header", len(data))
	}

	c := &Container{Name: name, Data: data}
	cur := cursor.New(data, binary.BigEndian)

	h := Header{
		MetadataSize: cur.U32(),
		FileSize:     int64(cur.U32()),
		Format:       cur.U32(),
		DataOffset:   int64(cur.U32()),
	}
	if h.Format < MinFormat || h.Format > MaxFormat {
		return nil, formatErr(name, ReasonVersion, "format %d outside [%d, %d]", h.Format, MinFormat, MaxFormat)
	}

	var endian byte
	if h.Format >= 9 {
		endian = cur.U8()
		cur.Skip(3)
	} else {
		// Old layouts store the metadata (endian byte first) after the data.
		at := h.FileSize - int64(h.MetadataSize)
		if at < headerSize || at >= int64(len(data)) {
			return nil, formatErr(name, ReasonMetadata, "metadata at %d outside buffer of %d", at, len(data))
		}
		cur.Seek(int(at))
		endian = cur.U8()
	}

	if h.Format >= 22 {
		if len(data) < extendedHeaderSize {
			return nil, formatErr(name, ReasonTruncated, "%d bytes is shorter than the extended header", len(data))
		}
		h.MetadataSize = cur.U32()
		h.FileSize = cur.I64()
		h.DataOffset = cur.I64()
		cur.Skip(8)
	}
	h.BigEndian = endian != 0
	if cur.Overrun() {
		return nil, formatErr(name, ReasonTruncated, "header")
	}
	if h.DataOffset < 0 || h.DataOffset > int64(len(data)) {
		return nil, formatErr(name, ReasonMetadata, "data offset %d outside buffer of %d", h.DataOffset, len(data))
	}
	if h.Format >= 9 && cur.Pos()+int(h.MetadataSize) > len(data) {
		return nil, formatErr(name, ReasonMetadata, "metadata size %d exceeds buffer of %d", h.MetadataSize, len(data))
	}

	c.Header = h
	c.Order = binary.LittleEndian
	if h.BigEndian {
		c.Order = binary.BigEndian
	}
	cur.SetOrder(c.Order)

	p := &metaReader{c: c, cur: cur, format: h.Format}
	if err := p.read(); err != nil {
		return nil, err
	}

	if h.Format >= 7 {
		if v, err := unityver.Parse(c.UnityVersion); err == nil {
			c.Engine = v
		}
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	c.checkRanges()
	return c, nil
}

// SetEngineHint fills in the engine version when the container carries none
// (old formats, stripped "0.0.0" stamps).
func (c *Container) SetEngineHint(v unityver.Version) {
	if c.Engine.IsZero() {
		c.Engine = v
	}
}

// Sniff reports whether data plausibly starts with a container header: a
// known format version, a declared file size matching the buffer and a
// data offset inside it. Directory scans use it to skip unrelated files.
func Sniff(data []byte) bool {
	if len(data) < headerSize {
		return false
	}
	be := binary.BigEndian
	format := be.Uint32(data[8:])
	if format < MinFormat || format > MaxFormat {
		return false
	}
	fileSize, dataOffset := int64(be.Uint32(data[4:])), int64(be.Uint32(data[12:]))
	if format >= 22 {
		if len(data) < extendedHeaderSize {
			return false
		}
		fileSize, dataOffset = int64(be.Uint64(data[24:])), int64(be.Uint64(data[32:]))
	}
	return fileSize == int64(len(data)) && dataOffset >= 0 && dataOffset <= fileSize
}

func (c *Container) index() error {
	c.byPath = make(map[int64]int, len(c.Objects))
	for i, o := range c.Objects {
		if _, dup := c.byPath[o.PathID]; dup {
			return formatErr(c.Name, ReasonDuplicatePath, "path ID %d appears twice", o.PathID)
		}
		c.byPath[o.PathID] = i
	}
	return nil
}

// checkRanges marks records that leave the buffer or overlap a neighbour.
func (c *Container) checkRanges() {
	n := int64(len(c.Data))
	order := make([]int, 0, len(c.Objects))
	for i := range c.Objects {
		o := &c.Objects[i]
		if o.Offset < c.Header.DataOffset || o.End() > n {
			o.Readable = false
			o.Problem = "range outside buffer"
			continue
		}
		o.Readable = true
		order = append(order, i)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return c.Objects[order[a]].Offset < c.Objects[order[b]].Offset
	})
	var last int64 = -1
	for _, i := range order {
		o := &c.Objects[i]
		if o.Size > 0 && o.Offset < last {
			o.Readable = false
			o.Problem = "range overlaps previous object"
			continue
		}
		if o.End() > last {
			last = o.End()
		}
	}
}

// metaReader walks the metadata block. The format version decides which
// fields are present.
type metaReader struct {
	c      *Container
	cur    *cursor.Cursor
	format uint32
}

func (p *metaReader) fail(reason, what string) error {
	return formatErr(p.c.Name, reason, "%s at offset %d", what, p.cur.Pos())
}

func (p *metaReader) read() error {
	c, r, v := p.c, p.cur, p.format

	if v >= 7 {
		c.UnityVersion = r.CString()
	}
	if v >= 8 {
		c.Platform = r.I32()
	}
	c.TypeTrees = true
	if v >= 13 {
		c.TypeTrees = r.Bool()
	}

	n, ok := r.Count(4)
	if !ok {
		return p.fail(ReasonTableSize, "type count")
	}
	c.Types = make([]SerializedType, 0, n)
	for i := 0; i < n; i++ {
		t, err := p.readType(false)
		if err != nil {
			return err
		}
		c.Types = append(c.Types, t)
	}

	if v >= 7 && v < 14 {
		c.BigIDs = r.I32() != 0
	}

	n, ok = r.Count(12)
	if !ok {
		return p.fail(ReasonTableSize, "object count")
	}
	c.Objects = make([]ObjectRecord, 0, n)
	for i := 0; i < n; i++ {
		c.Objects = append(c.Objects, p.readObject())
		if r.Overrun() {
			return p.fail(ReasonTruncated, "object table")
		}
	}

	if v >= 11 {
		n, ok = r.Count(8)
		if !ok {
			return p.fail(ReasonTableSize, "script type count")
		}
		c.ScriptTypes = make([]ScriptType, n)
		for i := range c.ScriptTypes {
			st := &c.ScriptTypes[i]
			st.FileIndex = r.I32()
			if v < 14 {
				st.PathID = int64(r.I32())
			} else {
				r.Align4()
				st.PathID = r.I64()
			}
		}
	}

	n, ok = r.Count(1)
	if !ok {
		return p.fail(ReasonTableSize, "external count")
	}
	c.Externals = make([]ExternalReference, n)
	for i := range c.Externals {
		e := &c.Externals[i]
		if v >= 6 {
			e.TempEmpty = r.CString()
		}
		if v >= 5 {
			e.GUID = uuid.UUID(r.Fixed16())
			e.Type = r.I32()
		}
		e.PathName = r.CString()
	}

	if v >= 20 {
		n, ok = r.Count(4)
		if !ok {
			return p.fail(ReasonTableSize, "ref type count")
		}
		for i := 0; i < n; i++ {
			t, err := p.readType(true)
			if err != nil {
				return err
			}
			c.RefTypes = append(c.RefTypes, t)
		}
	}

	if v >= 5 {
		c.UserInfo = r.CString()
	}
	if r.Overrun() {
		return p.fail(ReasonTruncated, "metadata")
	}
	return nil
}

func (p *metaReader) readType(ref bool) (SerializedType, error) {
	r, v := p.cur, p.format
	var t SerializedType
	t.ClassID = classid.ID(r.I32())
	t.ScriptTypeIndex = -1
	if v >= 16 {
		t.Stripped = r.Bool()
	}
	if v >= 17 {
		t.ScriptTypeIndex = r.I16()
	}
	if v >= 13 {
		if (ref && t.ScriptTypeIndex >= 0) ||
			(v < 16 && t.ClassID < 0) ||
			(v >= 16 && t.ClassID == classid.MonoBehaviour) {
			t.ScriptID = r.Fixed16()
		}
		t.OldTypeHash = r.Fixed16()
	}

	if p.c.TypeTrees {
		var err error
		if v >= 12 || v == 10 {
			t.Tree, err = p.readBlobTree()
		} else {
			t.Tree, err = p.readLegacyTree()
		}
		if err != nil {
			return t, err
		}
		if v >= 21 {
			if ref {
				t.ClassName = r.CString()
				t.Namespace = r.CString()
				t.Assembly = r.CString()
			} else {
				n, ok := r.Count(4)
				if !ok {
					return t, p.fail(ReasonTableSize, "type dependency count")
				}
				t.Dependencies = r.I32s(n)
			}
		}
	}
	if r.Overrun() {
		return t, p.fail(ReasonTruncated, "type table")
	}
	return t, nil
}

func (p *metaReader) readBlobTree() (*TypeTree, error) {
	r, v := p.cur, p.format
	nodeSize := 24
	if v >= 19 {
		nodeSize = 32
	}
	n, ok := r.Count(nodeSize)
	if !ok {
		return nil, p.fail(ReasonTableSize, "type tree node count")
	}
	strSize := int(r.I32())
	if strSize < 0 || n*nodeSize+strSize > r.Remaining() {
		return nil, p.fail(ReasonTableSize, "type tree string buffer")
	}

	type rawNode struct {
		node          TypeTreeNode
		typeOff, name uint32
	}
	raw := make([]rawNode, n)
	for i := range raw {
		rn := &raw[i]
		rn.node.Version = int32(r.U16())
		rn.node.Level = int(r.U8())
		rn.node.TypeFlags = int32(r.U8())
		rn.typeOff = r.U32()
		rn.name = r.U32()
		rn.node.ByteSize = r.I32()
		rn.node.Index = r.I32()
		rn.node.MetaFlag = r.I32()
		if v >= 19 {
			rn.node.RefTypeHash = r.U64()
		}
	}
	strs := r.Bytes(strSize)

	tree := &TypeTree{Nodes: make([]TypeTreeNode, n)}
	for i, rn := range raw {
		rn.node.Type = blobString(strs, rn.typeOff)
		rn.node.Name = blobString(strs, rn.name)
		tree.Nodes[i] = rn.node
	}
	return tree, nil
}

func blobString(local []byte, off uint32) string {
	if off&0x80000000 != 0 {
		if s, ok := commonByOffset[off&0x7fffffff]; ok {
			return s
		}
		return ""
	}
	if int(off) >= len(local) {
		return ""
	}
	end := int(off)
	for end < len(local) && local[end] != 0 {
		end++
	}
	return string(local[off:end])
}

func (p *metaReader) readLegacyTree() (*TypeTree, error) {
	tree := &TypeTree{}
	if err := p.readLegacyNode(tree, 0); err != nil {
		return nil, err
	}
	return tree, nil
}

// maxTreeDepth bounds the legacy recursive layout against corrupt input.
const maxTreeDepth = 64

func (p *metaReader) readLegacyNode(tree *TypeTree, level int) error {
	if level > maxTreeDepth {
		return p.fail(ReasonMetadata, "type tree too deep")
	}
	r := p.cur
	var n TypeTreeNode
	n.Level = level
	n.Type = r.CString()
	n.Name = r.CString()
	n.ByteSize = r.I32()
	n.Index = r.I32()
	n.TypeFlags = r.I32()
	n.Version = r.I32()
	n.MetaFlag = r.I32()
	tree.Nodes = append(tree.Nodes, n)

	children, ok := r.Count(24)
	if !ok {
		return p.fail(ReasonTableSize, "type tree children")
	}
	for i := 0; i < children; i++ {
		if err := p.readLegacyNode(tree, level+1); err != nil {
			return err
		}
	}
	return nil
}

func (p *metaReader) readObject() ObjectRecord {
	r, v := p.cur, p.format
	var o ObjectRecord
	o.ScriptTypeIndex = -1

	switch {
	case p.c.BigIDs:
		o.PathID = r.I64()
	case v < 14:
		o.PathID = int64(r.I32())
	default:
		r.Align4()
		o.PathID = r.I64()
	}

	if v >= 22 {
		o.Offset = r.I64()
	} else {
		o.Offset = int64(r.U32())
	}
	o.Offset += p.c.Header.DataOffset
	o.Size = r.U32()
	o.TypeIndex = r.I32()

	if v < 16 {
		o.ClassID = classid.ID(r.U16())
	} else if o.TypeIndex >= 0 && int(o.TypeIndex) < len(p.c.Types) {
		t := p.c.Types[o.TypeIndex]
		o.ClassID = t.ClassID
		o.ScriptTypeIndex = t.ScriptTypeIndex
	}
	if v < 11 {
		o.Destroyed = r.U16() != 0
	}
	if v >= 11 && v < 17 {
		o.ScriptTypeIndex = r.I16()
	}
	if v == 15 || v == 16 {
		o.Stripped = r.U8() != 0
	}
	return o
}
