package preview

import (
	"math"

	"unity-asset-reader/internal/mathutil"
)

// frameBuffer holds the rendering target as flat slices for cache locality.
type frameBuffer struct {
	size  int
	color []uint8   // RGBA interleaved, len = size*size*4
	zbuf  []float64 // larger is nearer, initialized to -inf
}

func newFrameBuffer(size int) *frameBuffer {
	n := size * size
	zbuf := make([]float64, n)
	for i := range zbuf {
		zbuf[i] = math.Inf(-1)
	}
	return &frameBuffer{size: size, color: make([]uint8, n*4), zbuf: zbuf}
}

// lighting holds precomputed shading parameters.
type lighting struct {
	lightDir mathutil.Vec3
	rimDir   mathutil.Vec3
	halfMain mathutil.Vec3
	ambient  float64
	hemi     float64
	direct   float64
	rim      float64
	specInt  float64
	specPow  float64
	exposure float64
	invGamma float64
}

func defaultLighting() lighting {
	lightDir := mathutil.Vec3{180, 260, 140}.Normalize()
	viewDir := mathutil.Vec3{0, -110, -400}.Normalize()
	return lighting{
		lightDir: lightDir,
		rimDir:   mathutil.Vec3{-160, 130, -210}.Normalize(),
		halfMain: lightDir.Sub(viewDir).Normalize(),
		ambient:  0.55,
		hemi:     0.50,
		direct:   1.50,
		rim:      0.60,
		specInt:  0.45,
		specPow:  12.0,
		exposure: 1.05,
		invGamma: 1.0 / 2.2,
	}
}

// shade returns the combined lighting scalar for a unit face normal.
// Faces are lit from both sides.
func (l *lighting) shade(n mathutil.Vec3) float64 {
	ndlMain := math.Abs(n.Dot(l.lightDir))
	ndlRim := math.Abs(n.Dot(l.rimDir))
	hemi := ((1.0-math.Abs(n[1]))*0.5 + 0.5) * l.hemi
	ndh := n.Dot(l.halfMain)
	if ndh < 0 {
		ndh = 0
	}
	spec := math.Pow(ndh, l.specPow) * l.specInt
	return l.ambient + hemi + ndlMain*l.direct + ndlRim*l.rim + spec
}

// tone maps a linear channel value through ACES and back to sRGB.
func (l *lighting) tone(linear, shade float64) uint8 {
	x := linear * shade * l.exposure
	x = (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
	return clamp255(math.Pow(x, l.invGamma) * 255)
}

var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// rasterize fills one triangle with a flat-shaded solid color against the
// z-buffer. Vertices outside px are ignored. The inner loop does not
// allocate.
func rasterize(fb *frameBuffer, px, py, pz []float64, vi [3]int, rgb [3]uint8, l *lighting) {
	nv := len(px)
	for _, i := range vi {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := px[vi[0]], py[vi[0]], pz[vi[0]]
	x1, y1, z1 := px[vi[1]], py[vi[1]], pz[vi[1]]
	x2, y2, z2 := px[vi[2]], py[vi[2]], pz[vi[2]]

	n := mathutil.Vec3{x1 - x0, y1 - y0, z1 - z0}.Cross(mathutil.Vec3{x2 - x0, y2 - y0, z2 - z0})
	if n.Len() < 1e-8 {
		return
	}
	shade := l.shade(n.Normalize())
	cr := l.tone(srgbToLinear[rgb[0]], shade)
	cg := l.tone(srgbToLinear[rgb[1]], shade)
	cb := l.tone(srgbToLinear[rgb[2]], shade)

	size := fb.size
	minX := max(int(math.Min(math.Min(x0, x1), x2)), 0)
	maxX := min(int(math.Max(math.Max(x0, x1), x2))+1, size-1)
	minY := max(int(math.Min(math.Min(y0, y1), y2)), 0)
	maxY := min(int(math.Max(math.Max(y0, y1), y2))+1, size-1)
	if minX > maxX || minY > maxY {
		return
	}

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det
	dy12, dx21 := y1-y2, x2-x1
	dy20, dx02 := y2-y0, x0-x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * size
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.zbuf[zIdx] {
				continue
			}
			fb.zbuf[zIdx] = z

			p := zIdx * 4
			fb.color[p] = cr
			fb.color[p+1] = cg
			fb.color[p+2] = cb
			fb.color[p+3] = 255
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
