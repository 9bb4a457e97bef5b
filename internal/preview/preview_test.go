package preview

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unity-asset-reader/internal/mathutil"
	"unity-asset-reader/internal/mesh"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestFitKeepsAspect(t *testing.T) {
	src := solid(100, 50, color.NRGBA{200, 100, 50, 255})
	got := Fit(src, 10)
	assert.Equal(t, image.Rect(0, 0, 10, 5), got.Bounds())
	c := got.NRGBAAt(5, 2)
	assert.InDelta(t, 200, int(c.R), 2)
	assert.InDelta(t, 100, int(c.G), 2)
	assert.InDelta(t, 50, int(c.B), 2)
	assert.Equal(t, uint8(255), c.A)

	tall := Fit(solid(30, 90, color.NRGBA{1, 1, 1, 255}), 9)
	assert.Equal(t, image.Rect(0, 0, 3, 9), tall.Bounds())
}

func TestFitLeavesSmallImages(t *testing.T) {
	src := solid(8, 8, color.NRGBA{})
	assert.Same(t, src, Fit(src, 16))
	assert.Same(t, src, Fit(src, 0))
}

func TestFitNoHaloOnTransparentEdge(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 20; x++ {
			src.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}
	got := Fit(src, 10)
	// The edge column is partly transparent but keeps its color.
	for x := 0; x < 10; x++ {
		c := got.NRGBAAt(x, 5)
		if c.A > 16 {
			assert.Greater(t, c.R, uint8(240), "x=%d", x)
		}
	}
}

func TestWriteThumbnailIsWebP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteThumbnail(&buf, solid(64, 32, color.NRGBA{9, 8, 7, 255}), 16))
	data := buf.Bytes()
	require.Greater(t, len(data), 12)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, "WEBP", string(data[8:12]))
}

func TestSaveThumbnailCreatesDirectories(t *testing.T) {
	out := filepath.Join(t.TempDir(), "level0", "tex", "gem.webp")
	require.NoError(t, SaveThumbnail(out, solid(4, 4, color.NRGBA{1, 2, 3, 255}), 16))
	st, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, st.Size(), int64(0))
}

func quad() *mesh.Geometry {
	return &mesh.Geometry{
		Positions: []mathutil.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

func TestRenderMeshCoversCenter(t *testing.T) {
	img := RenderMesh(quad(), MeshOptions{Size: 32, Supersample: 1})
	require.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())

	c := img.NRGBAAt(16, 16)
	assert.Equal(t, uint8(255), c.A)
	assert.NotZero(t, int(c.R)+int(c.G)+int(c.B))
	assert.Zero(t, img.NRGBAAt(0, 0).A)
	assert.Zero(t, img.NRGBAAt(31, 31).A)
}

func TestRenderMeshUsesColor(t *testing.T) {
	img := RenderMesh(quad(), MeshOptions{Size: 16, Supersample: 1, Color: color.NRGBA{255, 0, 0, 255}})
	c := img.NRGBAAt(8, 8)
	assert.Greater(t, c.R, c.G)
	assert.Greater(t, c.R, c.B)
}

func TestNearerFaceWins(t *testing.T) {
	// Two coincident-in-XY quads; the camera looks down +Z, so the one at
	// z=-1 is in front. Only depth can decide which covers the center.
	g := &mesh.Geometry{
		Positions: []mathutil.Vec3{
			{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
			{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		},
		Indices: []uint32{4, 5, 6, 4, 6, 7, 0, 1, 2, 0, 2, 3},
	}
	fb := newFrameBuffer(16)
	view := make([]mathutil.Vec3, len(g.Positions))
	R := mathutil.Orbit(0, 0)
	for i, p := range g.Positions {
		view[i] = R.MulVec3(p)
	}
	px, py, pz := project(view, mathutil.Vec3{}, 6, 16)
	l := defaultLighting()
	rasterize(fb, px, py, pz, [3]int{4, 5, 6}, [3]uint8{255, 0, 0}, &l)
	rasterize(fb, px, py, pz, [3]int{0, 1, 2}, [3]uint8{0, 0, 255}, &l)
	p := (8*16 + 9) * 4
	assert.Greater(t, fb.color[p], fb.color[p+2], "red face should stay in front")
	assert.InDelta(t, 1.0, fb.zbuf[8*16+9], 1e-9)
}

func TestRenderMeshEmpty(t *testing.T) {
	img := RenderMesh(nil, MeshOptions{Size: 8, Supersample: 1})
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
	for i := 3; i < len(img.Pix); i += 4 {
		assert.Zero(t, img.Pix[i])
	}
	assert.Equal(t, 512, RenderMesh(&mesh.Geometry{}, MeshOptions{}).Bounds().Dx())
}
