package mathutil

// Mat3 is a row-major rotation/scale block: the upper-left of a Mat4, or a
// preview camera's view rotation.
type Mat3 [9]float64

// Mat3Diag is a pure scale.
func Mat3Diag(x, y, z float64) Mat3 { return Mat3{x, 0, 0, 0, y, 0, 0, 0, z} }

// Mat3Mul returns a × b; b is applied first.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a[r*3+k] * b[k*3+c]
			}
			m[r*3+c] = sum
		}
	}
	return m
}

func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		Vec3{m[0], m[1], m[2]}.Dot(v),
		Vec3{m[3], m[4], m[5]}.Dot(v),
		Vec3{m[6], m[7], m[8]}.Dot(v),
	}
}
