package facemasking

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultTone is used when there is nothing to sample.
const DefaultTone uint8 = 160

// SampleTone returns the mean gray intensity of buf at the given points.
// Coordinates are rounded to the nearest pixel and clamped into the buffer.
// buf is expected to be gray already, so only the red channel is read.
func SampleTone(buf *image.NRGBA, points []Point) uint8 {
	if buf == nil || buf.Rect.Empty() || len(points) == 0 {
		return DefaultTone
	}
	b := buf.Rect
	samples := make([]float64, len(points))
	for i, p := range points {
		x := clamp(int(math.Round(p.X)), b.Min.X, b.Max.X-1)
		y := clamp(int(math.Round(p.Y)), b.Min.Y, b.Max.Y-1)
		samples[i] = float64(buf.Pix[pixOffset(buf, x, y)])
	}
	return uint8(math.Round(stat.Mean(samples, nil)))
}
