package facemasking

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	// extra input formats besides png / jpeg / gif
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// NewPixelBuffer copies img into a fresh NRGBA buffer anchored at (0, 0).
// The pixel data is row-major R,G,B,A with len(Pix) == w*h*4.
func NewPixelBuffer(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// Decode reads a raster image and returns it as a pixel buffer. EXIF
// orientation is applied so that landmarks match what the user sees.
// When maxDim > 0 the image is fit into a maxDim x maxDim box.
func Decode(r io.Reader, maxDim int) (*image.NRGBA, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image error: %w", err)
	}
	b := img.Bounds()
	if maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim) {
		return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos), nil
	}
	return NewPixelBuffer(img), nil
}

// Open decodes the image file at path.
func Open(path string, maxDim int) (*image.NRGBA, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("can not open %s error: %w", path, err)
	}
	b := img.Bounds()
	if maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim) {
		return imaging.Fit(img, maxDim, maxDim, imaging.Lanczos), nil
	}
	return NewPixelBuffer(img), nil
}

// pixOffset returns the index of the first byte of pixel (x, y) in buf.Pix.
func pixOffset(buf *image.NRGBA, x, y int) int {
	return (y-buf.Rect.Min.Y)*buf.Stride + (x-buf.Rect.Min.X)*4
}

func setGray(buf *image.NRGBA, x, y int, v uint8) {
	i := pixOffset(buf, x, y)
	buf.Pix[i+0] = v
	buf.Pix[i+1] = v
	buf.Pix[i+2] = v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
