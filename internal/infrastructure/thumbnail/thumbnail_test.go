package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestThumbnailer_ResizesWideImages(t *testing.T) {
	th := NewThumbnailer(200)

	out, err := th.Thumbnail(encodePNG(t, 800, 400), "image/png")
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 100, cfg.Height)
}

func TestThumbnailer_DoesNotUpscale(t *testing.T) {
	out, err := NewThumbnailer(200).Thumbnail(encodePNG(t, 120, 60), "image/png")
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Width)
}

func TestThumbnailer_Formats(t *testing.T) {
	th := NewThumbnailer(0)
	assert.True(t, th.Supports("image/jpeg"))
	assert.True(t, th.Supports("image/png"))
	assert.False(t, th.Supports("image/webp"))

	_, err := th.Thumbnail([]byte("GIF89a"), "image/gif")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = th.Thumbnail([]byte("not an image"), "image/png")
	assert.Error(t, err)
}
