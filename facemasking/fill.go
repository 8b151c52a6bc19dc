package facemasking

import (
	"image"
	"math/rand"
	"time"

	"github.com/disintegration/imaging"
)

// FillKind selects how a region is painted.
type FillKind int

const (
	// FillSolid paints every inside pixel with the tone.
	FillSolid FillKind = iota
	// FillScratch writes a sparse jittered stipple around the tone.
	FillScratch
	// FillBlur replaces the region with a gaussian blur of itself.
	FillBlur
)

var fillNames = map[FillKind]string{
	FillSolid:   "solid",
	FillScratch: "scratch",
	FillBlur:    "blur",
}

func (k FillKind) String() string {
	if s, ok := fillNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseFillKind maps a fill name back to its value.
func ParseFillKind(s string) (FillKind, bool) {
	for k, name := range fillNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Defaults for the scratch and blur fills.
const (
	DefaultJitter    = 7
	DefaultStride    = 3
	DefaultBlurSigma = 5.0
)

// Rand is the jitter source of the scratch fill. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// FillSpec describes how to paint a region.
type FillSpec struct {
	Kind FillKind
	// Tone is the gray level of solid and scratch fills.
	Tone uint8
	// Jitter bounds the scratch offset to [-Jitter, +Jitter].
	Jitter int
	// Stride selects scratch pixels with (x+y) % Stride == 0.
	Stride int
	// Sigma is the blur radius of FillBlur.
	Sigma float64
	// Rand drives the scratch jitter. A time seeded source is used when nil.
	Rand Rand
}

// Fill paints the inside of p on buf according to spec. It reports whether
// any pixel was covered; degenerate or zero-area polygons are a no-op.
func Fill(buf *image.NRGBA, p Polygon, spec FillSpec) bool {
	if buf == nil || p.Degenerate() {
		return false
	}
	mask := Rasterize(p, buf.Rect)
	if maskArea(mask) == 0 {
		return false
	}
	switch spec.Kind {
	case FillScratch:
		fillScratch(buf, mask, spec)
	case FillBlur:
		fillBlur(buf, mask, p, spec)
	default:
		fillSolid(buf, mask, spec.Tone)
	}
	return true
}

func fillSolid(buf *image.NRGBA, mask *image.Alpha, tone uint8) {
	b := buf.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.Pix[mask.PixOffset(x, y)] != 0 {
				setGray(buf, x, y, tone)
			}
		}
	}
}

func fillScratch(buf *image.NRGBA, mask *image.Alpha, spec FillSpec) {
	jitter := spec.Jitter
	if jitter < 0 {
		jitter = 0
	}
	stride := spec.Stride
	if stride <= 0 {
		stride = DefaultStride
	}
	rnd := spec.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	b := buf.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.Pix[mask.PixOffset(x, y)] == 0 {
				continue
			}
			// the jitter is drawn for every inside pixel, written or not
			v := int(spec.Tone) + rnd.Intn(2*jitter+1) - jitter
			if (x+y)%stride != 0 {
				continue
			}
			setGray(buf, x, y, uint8(clamp(v, 0, 255)))
		}
	}
}

func fillBlur(buf *image.NRGBA, mask *image.Alpha, p Polygon, spec FillSpec) {
	sigma := spec.Sigma
	if sigma <= 0 {
		sigma = DefaultBlurSigma
	}
	rect := polygonBounds(p).Intersect(buf.Rect)
	if rect.Empty() {
		return
	}
	zone := imaging.Blur(imaging.Crop(buf, rect), sigma)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if mask.Pix[mask.PixOffset(x, y)] == 0 {
				continue
			}
			src := zone.Pix[zone.PixOffset(x-rect.Min.X, y-rect.Min.Y):]
			dst := buf.Pix[pixOffset(buf, x, y):]
			copy(dst[:3], src[:3])
		}
	}
}

// polygonBounds returns the smallest integer rectangle holding p.
func polygonBounds(p Polygon) image.Rectangle {
	if len(p) == 0 {
		return image.Rectangle{}
	}
	r := image.Rect(int(p[0].X), int(p[0].Y), int(p[0].X)+1, int(p[0].Y)+1)
	for _, pt := range p[1:] {
		r = r.Union(image.Rect(int(pt.X), int(pt.Y), int(pt.X)+1, int(pt.Y)+1))
	}
	return r.Inset(-1)
}
