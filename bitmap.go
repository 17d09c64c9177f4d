package tangerine

import (
	"fmt"
	"image"
	"image/color"
	"io"

	// Decoders registered for DecodeBitmap.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// SpriteBitmap is a staging input: straight-alpha RGBA8 pixels, four bytes
// per pixel, row-major with a stride of 4*Width.
type SpriteBitmap struct {
	Width, Height int
	Pix           []byte
}

// NewBitmap wraps an existing pixel buffer. The buffer is not copied.
func NewBitmap(width, height int, pix []byte) (SpriteBitmap, error) {
	b := SpriteBitmap{Width: width, Height: height, Pix: pix}
	if err := b.validate(); err != nil {
		return SpriteBitmap{}, err
	}
	return b, nil
}

// SolidBitmap returns a width×height bitmap filled with c.
func SolidBitmap(width, height int, c color.NRGBA) SpriteBitmap {
	if width <= 0 || height <= 0 {
		return SpriteBitmap{Width: width, Height: height}
	}
	pix := make([]byte, 4*width*height)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
	return SpriteBitmap{Width: width, Height: height, Pix: pix}
}

// BitmapFromImage converts any image into a SpriteBitmap. *image.NRGBA
// sources whose bounds start at the origin are wrapped without copying.
func BitmapFromImage(img image.Image) SpriteBitmap {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return SpriteBitmap{Width: b.Dx(), Height: b.Dy(), Pix: n.Pix[:4*b.Dx()*b.Dy()]}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return SpriteBitmap{Width: b.Dx(), Height: b.Dy(), Pix: dst.Pix}
}

// DecodeBitmap decodes a PNG, JPEG, GIF, BMP, or WebP stream.
func DecodeBitmap(r io.Reader) (SpriteBitmap, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return SpriteBitmap{}, fmt.Errorf("tangerine: decode bitmap: %w", err)
	}
	logger().Debug("decoded bitmap", "format", format, "size", img.Bounds().Size())
	return BitmapFromImage(img), nil
}

func (b SpriteBitmap) validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, b.Width, b.Height)
	}
	if len(b.Pix) != 4*b.Width*b.Height {
		return fmt.Errorf("%w: %dx%d bitmap has %d bytes, want %d",
			ErrInvalidDimensions, b.Width, b.Height, len(b.Pix), 4*b.Width*b.Height)
	}
	return nil
}

// Image views the bitmap as an *image.NRGBA sharing its pixels.
func (b SpriteBitmap) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: 4 * b.Width,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}
