package mathutil

import "math"

// Mat4 is a row-major affine matrix. Scene nodes carry one as their
// local-to-world transform; the bottom row is always 0 0 0 1.
type Mat4 [16]float64

// TRS builds the local matrix of a Transform: Translate(t) × Rotate(r) ×
// Scale(s), the order the engine applies them in.
func TRS(t Vec3, r Quat, s Vec3) Mat4 {
	rs := Mat3Mul(QuatToMat3(r.Normalize()), Mat3Diag(s[0], s[1], s[2]))
	return Mat4{
		rs[0], rs[1], rs[2], t[0],
		rs[3], rs[4], rs[5], t[1],
		rs[6], rs[7], rs[8], t[2],
		0, 0, 0, 1,
	}
}

// Mat4Mul returns parent × child, which takes child-local points to the
// parent's space.
func Mat4Mul(parent, child Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += parent[r*4+k] * child[k*4+c]
			}
			m[r*4+c] = sum
		}
	}
	return m
}

// Translation is the world position of the node's origin.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[3], m[7], m[11]}
}

// Normalize returns the unit quaternion, or identity for a zero one.
// Serialized rotations drift slightly from unit length.
func (q Quat) Normalize() Quat {
	l := q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3]
	if l < 1e-24 {
		return Quat{0, 0, 0, 1}
	}
	inv := 1 / math.Sqrt(l)
	return Quat{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
}
