// Package thumbnail produces the thumbnails stored next to uploaded images.
package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrUnsupportedFormat is returned for content types that are stored without a thumbnail
var ErrUnsupportedFormat = errors.New("thumbnail format not supported")

// Thumbnailer resizes JPEG and PNG images to a fixed width, keeping the aspect ratio
type Thumbnailer struct {
	width   int
	quality int
}

// NewThumbnailer creates a thumbnailer for the given width in pixels
func NewThumbnailer(width int) *Thumbnailer {
	if width <= 0 {
		width = 200
	}
	return &Thumbnailer{width: width, quality: 80}
}

// Supports reports whether a thumbnail can be produced for contentType
func (t *Thumbnailer) Supports(contentType string) bool {
	_, ok := formatFor(contentType)
	return ok
}

// Thumbnail decodes data, resizes it and encodes it back in the same format.
// Images already narrower than the target width are re-encoded without upscaling.
func (t *Thumbnailer) Thumbnail(data []byte, contentType string) ([]byte, error) {
	format, ok := formatFor(contentType)
	if !ok {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	var thumb image.Image = img
	if img.Bounds().Dx() > t.width {
		thumb = imaging.Resize(img, t.width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, format, imaging.JPEGQuality(t.quality)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFor(contentType string) (imaging.Format, bool) {
	switch contentType {
	case "image/jpeg":
		return imaging.JPEG, true
	case "image/png":
		return imaging.PNG, true
	default:
		return 0, false
	}
}
