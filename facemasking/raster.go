package facemasking

import (
	"image"
	"math"
	"sort"
)

// Rasterize returns an alpha mask over bounds where every pixel whose center
// lies inside p (even-odd rule) is opaque. A degenerate polygon yields an
// empty mask.
func Rasterize(p Polygon, bounds image.Rectangle) *image.Alpha {
	mask := image.NewAlpha(bounds)
	if p.Degenerate() {
		return mask
	}
	xs := make([]float64, 0, 8)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		cy := float64(y) + 0.5
		xs = crossings(p, cy, xs[:0])
		for i := 0; i+1 < len(xs); i += 2 {
			// pixel x is inside when xs[i] <= x+0.5 < xs[i+1]
			x0 := int(math.Ceil(xs[i] - 0.5))
			x1 := int(math.Ceil(xs[i+1] - 0.5))
			x0 = clamp(x0, bounds.Min.X, bounds.Max.X)
			x1 = clamp(x1, bounds.Min.X, bounds.Max.X)
			off := mask.PixOffset(x0, y)
			for x := x0; x < x1; x++ {
				mask.Pix[off] = 0xff
				off++
			}
		}
	}
	return mask
}

// crossings appends the sorted x coordinates where the horizontal line at cy
// crosses the edges of p. Edges are half-open in y so shared vertices are
// counted once.
func crossings(p Polygon, cy float64, xs []float64) []float64 {
	n := len(p)
	for i := 0; i < n; i++ {
		a, b := p[i], p[(i+1)%n]
		if (a.Y <= cy) == (b.Y <= cy) {
			continue
		}
		t := (cy - a.Y) / (b.Y - a.Y)
		xs = append(xs, a.X+t*(b.X-a.X))
	}
	sort.Float64s(xs)
	return xs
}

// maskArea counts the opaque pixels of m.
func maskArea(m *image.Alpha) int {
	n := 0
	for _, a := range m.Pix {
		if a != 0 {
			n++
		}
	}
	return n
}
