package mathutil

import "math"

// Orbit returns the view rotation of a preview camera that has circled yaw
// degrees around the Y axis and then tilted pitch degrees down toward the
// origin. The result maps the engine's left-handed space (camera looking
// down +Z) to one where larger Z is nearer the viewer.
func Orbit(pitch, yaw float64) Mat3 {
	flipZ := Mat3Diag(1, 1, -1)
	return Mat3Mul(flipZ, Mat3Mul(rotX(pitch*math.Pi/180), rotY(yaw*math.Pi/180)))
}

func rotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{1, 0, 0, 0, c, -s, 0, s, c}
}

func rotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{c, 0, s, 0, 1, 0, -s, 0, c}
}
