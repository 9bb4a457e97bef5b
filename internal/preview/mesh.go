package preview

import (
	"image"
	"image/color"
	"math"

	"unity-asset-reader/internal/mathutil"
	"unity-asset-reader/internal/mesh"
)

// MeshOptions controls RenderMesh. Zero fields take defaults.
type MeshOptions struct {
	Size        int // output side in pixels, default 256
	Supersample int // render at Size*Supersample, default 2
	Pitch, Yaw  float64
	Color       color.NRGBA
}

// DefaultPitch and DefaultYaw frame a mesh from slightly above and to the
// side.
const (
	DefaultPitch = 20
	DefaultYaw   = 35
)

var defaultColor = color.NRGBA{160, 160, 170, 255}

func (o MeshOptions) withDefaults() MeshOptions {
	if o.Size <= 0 {
		o.Size = 256
	}
	if o.Supersample <= 0 {
		o.Supersample = 2
	}
	if o.Pitch == 0 && o.Yaw == 0 {
		o.Pitch, o.Yaw = DefaultPitch, DefaultYaw
	}
	if o.Color.A == 0 {
		o.Color = defaultColor
	}
	return o
}

// RenderMesh draws a flat-shaded orthographic view of g centered in a
// square image with a transparent background. The result is Size*Supersample
// on a side; Fit brings it back down.
func RenderMesh(g *mesh.Geometry, opts MeshOptions) *image.NRGBA {
	opts = opts.withDefaults()
	renderSize := opts.Size * opts.Supersample
	img := image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	if g == nil || len(g.Positions) == 0 || len(g.Indices) < 3 {
		return img
	}

	R := mathutil.Orbit(opts.Pitch, opts.Yaw)
	view := make([]mathutil.Vec3, len(g.Positions))
	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i, p := range g.Positions {
		t := R.MulVec3(p)
		view[i] = t
		lo, hi = lo.Min(t), hi.Max(t)
	}

	center := lo.Add(hi).Scale(0.5)
	span := math.Max(hi[0]-lo[0], hi[1]-lo[1])
	if span < 0.001 {
		span = 0.001
	}
	margin := max(renderSize/16, 1)
	scale := float64(renderSize-2*margin) / span
	px, py, pz := project(view, center, scale, renderSize)

	fb := newFrameBuffer(renderSize)
	l := defaultLighting()
	rgb := [3]uint8{opts.Color.R, opts.Color.G, opts.Color.B}
	for i := 0; i+2 < len(g.Indices); i += 3 {
		vi := [3]int{int(g.Indices[i]), int(g.Indices[i+1]), int(g.Indices[i+2])}
		rasterize(fb, px, py, pz, vi, rgb, &l)
	}

	copy(img.Pix, fb.color)
	return img
}

// project maps view-space points to screen coordinates: X right, Y down,
// Z kept as depth.
func project(view []mathutil.Vec3, center mathutil.Vec3, scale float64, renderSize int) ([]float64, []float64, []float64) {
	n := len(view)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)
	half := float64(renderSize) / 2
	for i, t := range view {
		px[i] = (t[0]-center[0])*scale + half
		py[i] = -(t[1]-center[1])*scale + half
		pz[i] = t[2]
	}
	return px, py, pz
}
