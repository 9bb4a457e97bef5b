package mathutil

// Quat is a rotation in the serialized component order x, y, z, w.
type Quat [4]float64

// QuatToMat3 expands a unit quaternion into its rotation matrix. TRS
// normalizes first; callers passing raw data should too.
func QuatToMat3(q Quat) Mat3 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	x2, y2, z2 := x+x, y+y, z+z
	return Mat3{
		1 - y*y2 - z*z2, x*y2 - w*z2, x*z2 + w*y2,
		x*y2 + w*z2, 1 - x*x2 - z*z2, y*z2 - w*x2,
		x*z2 - w*y2, y*z2 + w*x2, 1 - x*x2 - y*y2,
	}
}
