package facemasking

import "image"

// Grayscale replaces the R, G and B channels of every pixel with the rounded
// unweighted mean of the three. Alpha is left untouched. Applying it to an
// already gray buffer is a no-op.
func Grayscale(buf *image.NRGBA) {
	if buf == nil {
		return
	}
	w, h := buf.Rect.Dx(), buf.Rect.Dy()
	for y := 0; y < h; y++ {
		row := buf.Pix[y*buf.Stride : y*buf.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			sum := int(row[i]) + int(row[i+1]) + int(row[i+2])
			// sum%3 is 0, 1 or 2 so (sum+1)/3 rounds half up
			avg := uint8((sum + 1) / 3)
			row[i], row[i+1], row[i+2] = avg, avg, avg
		}
	}
}
