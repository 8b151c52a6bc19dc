package facemasking

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/gotranspile/gotrace"
)

// Download names for the two export variants.
const (
	MaskedFilename     = "masked_face.png"
	MonochromeFilename = "monochrome_mask.png"
)

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if img == nil {
		return ErrExport
	}
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("png encoding failed: %w", err)
	}
	return nil
}

// PNGBytes encodes img as PNG into a byte slice.
func PNGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURL encodes img as a base64 PNG data URL.
func DataURL(img image.Image) (string, error) {
	data, err := PNGBytes(img)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// WriteFile saves img to path, picking the format from the extension.
// Paths without an extension are written as JPEG.
func WriteFile(path string, img image.Image) error {
	if img == nil {
		return ErrExport
	}
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		format = imaging.JPEG
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("can not create %s error: %w", path, err)
	}
	defer out.Close()

	if err := imaging.Encode(out, img, format, imaging.JPEGQuality(100)); err != nil {
		return fmt.Errorf("encode %s error: %w", path, err)
	}
	return out.Close()
}

// MaskSVG traces the union of polys into SVG paths sized to bounds.
func MaskSVG(w io.Writer, polys []Polygon, bounds image.Rectangle) error {
	mask := image.NewGray(bounds)
	for i := range mask.Pix {
		mask.Pix[i] = 0xff
	}
	for _, p := range polys {
		a := Rasterize(p, bounds)
		for i, v := range a.Pix {
			if v != 0 {
				mask.Pix[i] = 0
			}
		}
	}
	bm := gotrace.BitmapFromGray(mask, nil)
	paths, err := gotrace.Trace(bm, nil)
	if err != nil {
		return fmt.Errorf("trace mask error: %w", err)
	}
	if err := gotrace.Render("svg", nil, w, paths, bounds.Dx(), bounds.Dy()); err != nil {
		return fmt.Errorf("render svg error: %w", err)
	}
	return nil
}
