package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleTriangleNormals(t *testing.T) {
	pos := []float32{
		0, 0, 0,
		1, 0, 0,
		0, 0, 1,
	}
	got := RecomputeNormals(pos, 3, []uint32{0, 2, 1})
	require.Len(t, got, 3)
	for _, n := range got {
		assert.Equal(t, got[0], n)
		assert.InDelta(t, 1.0, n.Len(), 1e-9)
	}
	assert.InDelta(t, 1.0, got[0][1], 1e-9)
}

func TestUnreferencedVertexGetsDefault(t *testing.T) {
	pos := []float32{
		0, 0, 0, 1,
		1, 0, 0, 1,
		0, 1, 0, 1,
		5, 5, 5, 1,
	}
	got := RecomputeNormals(pos, 4, []uint32{0, 1, 2})
	require.Len(t, got, 4)
	assert.Equal(t, Vec3{0, 1, 0}, got[3])
	assert.InDelta(t, 1.0, got[0][2], 1e-9)

	// Results are copies; editing one leaves later calls untouched.
	got[3][1] = 7
	again := RecomputeNormals(pos, 4, []uint32{0, 1, 2})
	assert.Equal(t, Vec3{0, 1, 0}, again[3])
	assert.Equal(t, Vec3{0, 1, 0}, DefaultNormal())
}

func TestNormalsAverageSharedVertex(t *testing.T) {
	// Two perpendicular faces sharing vertex 0.
	pos := []float32{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
	got := RecomputeNormals(pos, 3, []uint32{0, 1, 2, 0, 3, 1})
	assert.InDelta(t, 0.0, got[0][0], 1e-9)
	assert.InDelta(t, 0.5, got[0][1], 1e-9)
	assert.InDelta(t, 0.5, got[0][2], 1e-9)
}

func TestNormalsSkipBadIndices(t *testing.T) {
	got := RecomputeNormals([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, 3, []uint32{0, 1, 9})
	for _, n := range got {
		assert.Equal(t, DefaultNormal(), n)
	}
}

func TestTRS(t *testing.T) {
	half := math.Sqrt(0.5)
	// 90 degrees about Y.
	m := TRS(Vec3{1, 2, 3}, Quat{0, half, 0, half}, Vec3{2, 2, 2})
	// Local +X lands on world -Z, doubled.
	assert.InDelta(t, 0.0, m[0], 1e-9)
	assert.InDelta(t, 0.0, m[4], 1e-9)
	assert.InDelta(t, -2.0, m[8], 1e-9)
	assert.Equal(t, Vec3{1, 2, 3}, m.Translation())

	// A zero quaternion reads as no rotation.
	id := TRS(Vec3{}, Quat{}, Vec3{1, 1, 1})
	assert.Equal(t, Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}, id)

	child := TRS(Vec3{0, 0, 5}, Quat{0, 0, 0, 1}, Vec3{1, 1, 1})
	world := Mat4Mul(m, child)
	// The child's origin sits 5 along the parent's +Z: rotated to +X, scaled by 2.
	got := world.Translation()
	assert.InDelta(t, 11.0, got[0], 1e-9)
	assert.InDelta(t, 2.0, got[1], 1e-9)
	assert.InDelta(t, 3.0, got[2], 1e-9)
}

func TestOrbitFacesDownPositiveZ(t *testing.T) {
	v := Orbit(0, 0)
	far := v.MulVec3(Vec3{0, 0, 5})
	near := v.MulVec3(Vec3{0, 0, -5})
	assert.Greater(t, near[2], far[2])

	// A quarter turn brings +X round to face the camera.
	p := Orbit(0, 90).MulVec3(Vec3{1, 0, 0})
	assert.InDelta(t, 0.0, p[0], 1e-9)
	assert.InDelta(t, 1.0, p[2], 1e-9)
}
