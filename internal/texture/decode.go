// Package texture turns Texture2D pixel payloads and embedded image files
// into NRGBA images.
package texture

import (
	"encoding/binary"
	"fmt"
	"image"
)

// Format is the engine's texture format code.
type Format int32

const (
	Alpha8   Format = 1
	ARGB4444 Format = 2
	RGB24    Format = 3
	RGBA32   Format = 4
	ARGB32   Format = 5
	RGB565   Format = 7
	R16      Format = 9
	RGBA4444 Format = 13
	BGRA32   Format = 14
	R8       Format = 63
)

var formatNames = map[Format]string{
	Alpha8: "Alpha8", ARGB4444: "ARGB4444", RGB24: "RGB24", RGBA32: "RGBA32",
	ARGB32: "ARGB32", RGB565: "RGB565", R16: "R16", RGBA4444: "RGBA4444",
	BGRA32: "BGRA32", R8: "R8",
}

func (f Format) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return fmt.Sprintf("Format%d", int32(f))
}

// bytesPerPixel is 0 for formats Decode does not handle (block
// compressed and float formats).
func (f Format) bytesPerPixel() int {
	switch f {
	case Alpha8, R8:
		return 1
	case ARGB4444, RGB565, R16, RGBA4444:
		return 2
	case RGB24:
		return 3
	case RGBA32, ARGB32, BGRA32:
		return 4
	}
	return 0
}

// Supported reports whether Decode handles the format.
func (f Format) Supported() bool { return f.bytesPerPixel() > 0 }

// Decode converts the top mip level of an uncompressed texture. Rows are
// stored bottom-up and come out top-down. 16-bit formats are read
// little-endian, as players write them.
func Decode(width, height int, f Format, pix []byte) (*image.NRGBA, error) {
	bpp := f.bytesPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("texture: format %s is not supported", f)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("texture: bad size %dx%d", width, height)
	}
	need := width * height * bpp
	if len(pix) < need {
		return nil, fmt.Errorf("texture: %s %dx%d needs %d bytes, have %d", f, width, height, need, len(pix))
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := pix[(height-1-y)*width*bpp:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			r, g, b, a := pixel(f, src[x*bpp:])
			dst[x*4], dst[x*4+1], dst[x*4+2], dst[x*4+3] = r, g, b, a
		}
	}
	return img, nil
}

func pixel(f Format, p []byte) (r, g, b, a uint8) {
	le := binary.LittleEndian
	switch f {
	case Alpha8:
		return 255, 255, 255, p[0]
	case R8:
		return p[0], 0, 0, 255
	case R16:
		return uint8(le.Uint16(p) >> 8), 0, 0, 255
	case RGB24:
		return p[0], p[1], p[2], 255
	case RGBA32:
		return p[0], p[1], p[2], p[3]
	case ARGB32:
		return p[1], p[2], p[3], p[0]
	case BGRA32:
		return p[2], p[1], p[0], p[3]
	case RGB565:
		v := le.Uint16(p)
		return expand5(v >> 11), expand6(v >> 5), expand5(v), 255
	case ARGB4444:
		v := le.Uint16(p)
		return expand4(v >> 8), expand4(v >> 4), expand4(v), expand4(v >> 12)
	case RGBA4444:
		v := le.Uint16(p)
		return expand4(v >> 12), expand4(v >> 8), expand4(v >> 4), expand4(v)
	}
	return 0, 0, 0, 0
}

func expand4(v uint16) uint8 { return uint8(v&0xf) * 17 }

func expand5(v uint16) uint8 {
	v &= 0x1f
	return uint8(v<<3 | v>>2)
}

func expand6(v uint16) uint8 {
	v &= 0x3f
	return uint8(v<<2 | v>>4)
}
