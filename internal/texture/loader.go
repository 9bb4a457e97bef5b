package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"

	"github.com/ftrvxmtrx/tga"

	"unity-asset-reader/internal/object"
)

var (
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte{0xff, 0xd8, 0xff}
)

const tgaFooterSize = 26

// DecodeEmbedded decodes an image file stored as bytes inside an asset
// (typically a TextAsset): PNG and JPEG by signature, anything else is
// tried as TGA, which has none.
func DecodeEmbedded(data []byte) (*image.NRGBA, error) {
	var (
		img image.Image
		err error
	)
	switch {
	case bytes.HasPrefix(data, pngMagic):
		img, err = png.Decode(bytes.NewReader(data))
	case bytes.HasPrefix(data, jpegMagic):
		img, err = jpeg.Decode(bytes.NewReader(data))
	default:
		if len(data) < tgaFooterSize {
			// Footerless files can be shorter than the footer the decoder seeks to.
			data = append(bytes.Clone(data), make([]byte, tgaFooterSize)...)
		}
		img, err = tga.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("texture: decode embedded image: %w", err)
	}
	return toNRGBA(img), nil
}

// FromObject decodes a Texture2D or an image-carrying TextAsset. stream
// supplies the bytes of textures whose pixels live in a resource file.
func FromObject(o *object.Object, stream func(object.StreamRef) ([]byte, error)) (*image.NRGBA, error) {
	switch v := o.Variant.(type) {
	case *object.Texture2D:
		pix := v.ImageData
		if len(pix) == 0 && !v.Stream.IsZero() {
			if stream == nil {
				return nil, fmt.Errorf("texture: %s: pixels are in %s", v.Label, v.Stream.Path)
			}
			data, err := stream(v.Stream)
			if err != nil {
				return nil, fmt.Errorf("texture: %s: %w", v.Label, err)
			}
			pix = data
		}
		return Decode(int(v.Width), int(v.Height), Format(v.Format), pix)
	case *object.TextAsset:
		return DecodeEmbedded(v.Script)
	}
	return nil, fmt.Errorf("texture: %s is not an image", o.ClassName())
}

// toNRGBA converts any image to NRGBA format.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}
