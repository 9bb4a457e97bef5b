// Package mesh extracts renderable geometry from decoded Mesh objects.
package mesh

import (
	"encoding/binary"
	"fmt"
	"math"

	"unity-asset-reader/internal/mathutil"
	"unity-asset-reader/internal/object"
	"unity-asset-reader/internal/unityver"
)

const (
	chanPosition = 0
	chanNormal   = 1
)

// Topologies the extractor turns into triangles.
const (
	topoTriangles = 0
	topoQuads     = 2
)

// Geometry is positions, normals and a triangle list for one mesh.
type Geometry struct {
	Positions []mathutil.Vec3
	Normals   []mathutil.Vec3
	Indices   []uint32

	// Recomputed is set when the mesh carried no usable normals.
	Recomputed bool
	Min, Max   mathutil.Vec3
}

type stream struct {
	offset int
	stride int
}

// streams lays out the vertex buffer: one run of vertexCount*stride bytes
// per stream, each run starting on a 16-byte boundary.
func streams(chs []object.Channel, vertexCount int, v unityver.Version) []stream {
	n := 0
	for _, ch := range chs {
		if ch.Dimension > 0 && int(ch.Stream)+1 > n {
			n = int(ch.Stream) + 1
		}
	}
	out := make([]stream, n)
	offset := 0
	for s := range out {
		stride := 0
		for _, ch := range chs {
			if int(ch.Stream) == s && ch.Dimension > 0 {
				stride += int(ch.Dimension&0xf) * toFormat(ch.Format, v).size()
			}
		}
		out[s] = stream{offset: offset, stride: stride}
		offset += vertexCount * stride
		offset = (offset + 15) &^ 15
	}
	return out
}

// channel reads dims components per vertex of channel idx.
func channel(m *object.Mesh, data []byte, layout []stream, idx int, v unityver.Version, order binary.ByteOrder) ([]float32, int, error) {
	if idx >= len(m.Channels) {
		return nil, 0, nil
	}
	ch := m.Channels[idx]
	dims := int(ch.Dimension & 0xf)
	if dims == 0 {
		return nil, 0, nil
	}
	f := toFormat(ch.Format, v)
	size := f.size()
	if size == 0 {
		return nil, 0, fmt.Errorf("mesh: %s: channel %d has unknown format %d", m.Label, idx, ch.Format)
	}
	st := layout[ch.Stream]
	count := int(m.VertexCount)
	out := make([]float32, 0, count*dims)
	for i := 0; i < count; i++ {
		at := st.offset + i*st.stride + int(ch.Offset)
		if at+dims*size > len(data) {
			return nil, 0, fmt.Errorf("mesh: %s: channel %d vertex %d outside %d byte buffer", m.Label, idx, i, len(data))
		}
		for d := 0; d < dims; d++ {
			out = append(out, f.read(data[at+d*size:], order))
		}
	}
	return out, dims, nil
}

// Extract decodes positions, triangle indices and normals. vertexData
// overrides the mesh's inline vertex bytes (for streamed meshes); pass nil
// to use the inline bytes.
func Extract(m *object.Mesh, v unityver.Version, order binary.ByteOrder, vertexData []byte) (*Geometry, error) {
	data := vertexData
	if data == nil {
		data = m.VertexData
	}
	layout := streams(m.Channels, int(m.VertexCount), v)

	pos, pdims, err := channel(m, data, layout, chanPosition, v, order)
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return nil, fmt.Errorf("mesh: %s: no position channel", m.Label)
	}
	if pdims < 2 {
		return nil, fmt.Errorf("mesh: %s: position channel has %d components", m.Label, pdims)
	}

	g := &Geometry{Positions: make([]mathutil.Vec3, m.VertexCount)}
	g.Min = mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	g.Max = mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := range g.Positions {
		p := mathutil.Vec3{float64(pos[i*pdims]), float64(pos[i*pdims+1]), 0}
		if pdims > 2 {
			p[2] = float64(pos[i*pdims+2])
		}
		g.Positions[i] = p
		g.Min, g.Max = g.Min.Min(p), g.Max.Max(p)
	}
	if len(g.Positions) == 0 {
		g.Min, g.Max = mathutil.Vec3{}, mathutil.Vec3{}
	}

	g.Indices, err = indices(m, order)
	if err != nil {
		return nil, err
	}

	nrm, ndims, err := channel(m, data, layout, chanNormal, v, order)
	if err != nil {
		return nil, err
	}
	if ndims == 3 || ndims == 4 {
		g.Normals = make([]mathutil.Vec3, m.VertexCount)
		for i := range g.Normals {
			g.Normals[i] = mathutil.Vec3{float64(nrm[i*ndims]), float64(nrm[i*ndims+1]), float64(nrm[i*ndims+2])}
		}
	} else {
		flat := make([]float32, 0, len(g.Positions)*3)
		for _, p := range g.Positions {
			flat = append(flat, float32(p[0]), float32(p[1]), float32(p[2]))
		}
		g.Normals = mathutil.RecomputeNormals(flat, 3, g.Indices)
		g.Recomputed = true
	}
	return g, nil
}

// indices flattens every submesh into one triangle list.
func indices(m *object.Mesh, order binary.ByteOrder) ([]uint32, error) {
	size := 2
	if m.IndexFormat == 1 {
		size = 4
	}
	buf := m.IndexBuffer
	at := func(i int) uint32 {
		if size == 4 {
			return order.Uint32(buf[i*4:])
		}
		return uint32(order.Uint16(buf[i*2:]))
	}
	total := len(buf) / size

	var out []uint32
	for n, sm := range m.SubMeshes {
		first := int(sm.FirstByte) / size
		count := int(sm.IndexCount)
		if first+count > total {
			return nil, fmt.Errorf("mesh: %s: submesh %d indexes [%d, %d) past %d indices", m.Label, n, first, first+count, total)
		}
		base := sm.BaseVertex
		switch sm.Topology {
		case topoTriangles:
			for i := 0; i+2 < count; i += 3 {
				out = append(out, at(first+i)+base, at(first+i+1)+base, at(first+i+2)+base)
			}
		case topoQuads:
			for i := 0; i+3 < count; i += 4 {
				a, b, c, d := at(first+i)+base, at(first+i+1)+base, at(first+i+2)+base, at(first+i+3)+base
				out = append(out, a, b, c, a, c, d)
			}
		}
	}
	return out, nil
}
