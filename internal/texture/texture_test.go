package texture

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/fixture"
	"unity-asset-reader/internal/graph"
	"unity-asset-reader/internal/ingest"
)

func TestDecodeFlipsRows(t *testing.T) {
	// Bottom row red, top row blue.
	pix := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	}
	img, err := Decode(2, 2, RGBA32, pix)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, img.NRGBAAt(1, 1))
}

func TestDecodePixelFormats(t *testing.T) {
	for _, tc := range []struct {
		f    Format
		pix  []byte
		want color.NRGBA
	}{
		{Alpha8, []byte{0x80}, color.NRGBA{255, 255, 255, 0x80}},
		{R8, []byte{0x40}, color.NRGBA{0x40, 0, 0, 255}},
		{R16, []byte{0x00, 0xab}, color.NRGBA{0xab, 0, 0, 255}},
		{RGB24, []byte{1, 2, 3}, color.NRGBA{1, 2, 3, 255}},
		{ARGB32, []byte{9, 1, 2, 3}, color.NRGBA{1, 2, 3, 9}},
		{BGRA32, []byte{3, 2, 1, 9}, color.NRGBA{1, 2, 3, 9}},
		{RGB565, []byte{0x00, 0xf8}, color.NRGBA{255, 0, 0, 255}},
		{RGB565, []byte{0xe0, 0x07}, color.NRGBA{0, 255, 0, 255}},
		{ARGB4444, []byte{0x21, 0xf3}, color.NRGBA{0x33, 0x22, 0x11, 0xff}},
		{RGBA4444, []byte{0x4f, 0x23}, color.NRGBA{0x22, 0x33, 0x44, 0xff}},
	} {
		img, err := Decode(1, 1, tc.f, tc.pix)
		require.NoError(t, err, "%s", tc.f)
		assert.Equal(t, tc.want, img.NRGBAAt(0, 0), "%s", tc.f)
	}
}

func TestDecodeRejects(t *testing.T) {
	_, err := Decode(4, 4, Format(12), make([]byte, 64)) // DXT5
	assert.Error(t, err)
	_, err = Decode(4, 4, RGBA32, make([]byte, 10))
	assert.Error(t, err)
	_, err = Decode(0, 4, RGBA32, nil)
	assert.Error(t, err)
	assert.False(t, Format(12).Supported())
	assert.True(t, RGB24.Supported())
}

func pngBytes(t *testing.T) []byte {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 255})
	src.SetNRGBA(1, 0, color.NRGBA{40, 50, 60, 128})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	return buf.Bytes()
}

func TestDecodeEmbedded(t *testing.T) {
	img, err := DecodeEmbedded(pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{40, 50, 60, 128}, img.NRGBAAt(1, 0))

	// Uncompressed true-color TGA, 1x1, top-left origin, BGR, no footer.
	tgaFile := []byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 24, 0x20, 30, 20, 10}
	img, err = DecodeEmbedded(tgaFile)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, img.NRGBAAt(0, 0))
	assert.Len(t, tgaFile, 21, "input must not be padded in place")

	_, err = DecodeEmbedded([]byte("plain text"))
	assert.Error(t, err)
}

func textureBatch(t *testing.T) *graph.Batch {
	tex := fixture.LE().
		Str("gem").
		I32(0).Bool(false).Align().
		I32(1).I32(1).I32(4).
		I32(int32(RGBA32)).I32(1).
		Bool(false).Bool(false).Bool(false).Align().
		I32(0).
		I32(1).I32(2).
		I32(1).I32(1).F32(0).I32(0).I32(0).I32(0).
		I32(0).I32(1).
		Blob([]byte{1, 2, 3, 4}).
		U32(0).U32(0).Str("").
		Bytes()
	streamed := fixture.LE().
		Str("far").
		I32(0).Bool(false).Align().
		I32(1).I32(1).I32(3).
		I32(int32(RGB24)).I32(1).
		Bool(false).Bool(false).Bool(false).Align().
		I32(0).
		I32(1).I32(2).
		I32(1).I32(1).F32(0).I32(0).I32(0).I32(0).
		I32(0).I32(1).
		Blob(nil).
		U32(2).U32(3).Str("archive:/CAB-9/CAB-9.resS").
		Bytes()

	fx := &fixture.Container{}
	fx.Add(1, classid.Texture2D, tex)
	fx.Add(2, classid.Texture2D, streamed)
	fx.Add(3, classid.TextAsset, fixture.LE().Str("logo").Blob(pngBytes(t)).Bytes())
	fx.Add(4, classid.TextAsset, fixture.LE().Str("gem").Blob([]byte("shadowed")).Bytes())

	res, err := ingest.Buffers(context.Background(), []ingest.Source{
		{Name: "level0", Data: fx.Bytes()},
		{Name: "CAB-9.resS", Data: []byte{0, 0, 7, 8, 9}},
	}, ingest.Options{})
	require.NoError(t, err)
	return res.Batch
}

func TestCacheResolvesByName(t *testing.T) {
	b := textureBatch(t)
	idx := BuildIndex(b)
	assert.Equal(t, 3, idx.Len())

	k, ok := idx.ResolveKey("UI\\Icons\\GEM.png")
	require.True(t, ok)
	assert.Equal(t, int64(1), k.PathID)

	c := NewCache(b, idx)
	img := c.Resolve("gem")
	require.NotNil(t, img)
	assert.Equal(t, color.NRGBA{1, 2, 3, 4}, img.NRGBAAt(0, 0))
	assert.Same(t, img, c.Resolve("gem"))

	far := c.Resolve("far")
	require.NotNil(t, far)
	assert.Equal(t, color.NRGBA{7, 8, 9, 255}, far.NRGBAAt(0, 0))

	logo := c.Resolve("logo")
	require.NotNil(t, logo)
	assert.Equal(t, 2, logo.Bounds().Dx())

	assert.Nil(t, c.Resolve("nothing"))
	_, err := c.Load(graph.Key{Container: "level0", PathID: 99})
	assert.Error(t, err)
}
