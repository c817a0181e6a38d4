// Package imaging turns raw background bytes into a displayable image.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	// Standard formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	// Extended formats.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrEmptyImage = errors.New("imaging: empty image data")

// Image is a decoded background image.
type Image struct {
	Format string
	Width  int
	Height int
	img    image.Image
}

// Raw exposes the decoded pixels.
func (i *Image) Raw() image.Image {
	return i.img
}

// Decoder converts bytes into an Image. Implementations must be safe to
// call from any goroutine and must not retain data.
type Decoder interface {
	Decode(data []byte) (*Image, error)
}

type stdDecoder struct {
	maxPixels int
}

// NewDecoder returns a Decoder for png, jpeg, gif, bmp, tiff and webp.
// maxPixels bounds width*height before the full decode; 0 disables the check.
func NewDecoder(maxPixels int) Decoder {
	return &stdDecoder{maxPixels: maxPixels}
}

func (d *stdDecoder) Decode(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if d.maxPixels > 0 && cfg.Width*cfg.Height > d.maxPixels {
		return nil, fmt.Errorf("image %dx%d exceeds %d pixels", cfg.Width, cfg.Height, d.maxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}

	b := img.Bounds()
	return &Image{
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
		img:    img,
	}, nil
}
