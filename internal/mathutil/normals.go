package mathutil

// DefaultNormal is assigned to vertices no triangle touches.
func DefaultNormal() Vec3 { return Vec3{0, 1, 0} }

// RecomputeNormals derives per-vertex normals from positions and a triangle
// index list. positions holds stride floats per vertex (3 or 4; a fourth
// component is ignored). Each triangle's normalized face normal is added to
// its three vertices and the sum divided by the number of contributing
// triangles. Indices out of range skip their triangle.
func RecomputeNormals(positions []float32, stride int, indices []uint32) []Vec3 {
	if stride < 3 {
		stride = 3
	}
	n := len(positions) / stride
	sums := make([]Vec3, n)
	counts := make([]int, n)

	pos := func(i uint32) Vec3 {
		o := int(i) * stride
		return Vec3{float64(positions[o]), float64(positions[o+1]), float64(positions[o+2])}
	}

	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		if int(a) >= n || int(b) >= n || int(c) >= n {
			continue
		}
		p0, p1, p2 := pos(a), pos(b), pos(c)
		face := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
		for _, v := range [3]uint32{a, b, c} {
			sums[v] = sums[v].Add(face)
			counts[v]++
		}
	}

	out := make([]Vec3, n)
	for i := range out {
		if counts[i] == 0 {
			out[i] = DefaultNormal()
			continue
		}
		out[i] = sums[i].Scale(1 / float64(counts[i]))
	}
	return out
}
