package facemasking

// Policy selects how mask regions are derived from a LandmarkSet.
type Policy int

const (
	// PolicyWholeFace masks a single region from the raised brows down the jaw.
	PolicyWholeFace Policy = iota
	// PolicyPerFeature masks eyes, nose, mouth and forehead separately.
	PolicyPerFeature
	// PolicyOutline joins every landmark in detector order into one polygon.
	PolicyOutline
)

var policyNames = map[Policy]string{
	PolicyWholeFace:  "whole-face",
	PolicyPerFeature: "per-feature",
	PolicyOutline:    "outline",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return "unknown"
}

// ParsePolicy maps a policy name back to its value.
func ParsePolicy(s string) (Policy, bool) {
	for p, name := range policyNames {
		if name == s {
			return p, true
		}
	}
	return 0, false
}

// DefaultForeheadOffset is the distance in pixels the brows are raised by.
const DefaultForeheadOffset = 50.0

// RegionOptions tunes the Region Builder.
type RegionOptions struct {
	Policy Policy
	// ForeheadOffset raises brow points by a fixed number of pixels.
	ForeheadOffset float64
	// ForeheadRatio, when > 0, overrides ForeheadOffset with a fraction of
	// the landmark bounding box height.
	ForeheadRatio float64
}

// Polygon is an implicitly closed sequence of points.
type Polygon []Point

// Degenerate reports whether p cannot enclose any area.
func (p Polygon) Degenerate() bool {
	return len(p) < 3
}

// BuildRegions derives the polygons to mask according to opts.Policy.
// Groups with fewer than 3 points still yield a polygon; the renderer
// skips it.
func BuildRegions(lm *LandmarkSet, opts RegionOptions) []Polygon {
	if lm == nil {
		return nil
	}
	offset := foreheadOffset(lm, opts)
	switch opts.Policy {
	case PolicyPerFeature:
		return []Polygon{
			Polygon(lm.LeftEye),
			Polygon(lm.RightEye),
			Polygon(lm.Nose),
			Polygon(lm.Mouth),
			foreheadBand(lm, offset),
		}
	case PolicyOutline:
		return []Polygon{Polygon(lm.All())}
	default:
		return []Polygon{wholeFace(lm, offset)}
	}
}

func foreheadOffset(lm *LandmarkSet, opts RegionOptions) float64 {
	if opts.ForeheadRatio > 0 {
		if min, max, ok := lm.Bounds(); ok {
			return opts.ForeheadRatio * (max.Y - min.Y)
		}
	}
	if opts.ForeheadOffset > 0 {
		return opts.ForeheadOffset
	}
	return DefaultForeheadOffset
}

// wholeFace traces the raised brows left to right and then the jaw back from
// its right end to its left end.
func wholeFace(lm *LandmarkSet, offset float64) Polygon {
	n := len(lm.LeftEyebrow) + len(lm.RightEyebrow) + len(lm.JawOutline)
	poly := make(Polygon, 0, n)
	poly = append(poly, raise(leftToRight(lm.LeftEyebrow), offset)...)
	poly = append(poly, raise(leftToRight(lm.RightEyebrow), offset)...)
	poly = append(poly, reversed(lm.JawOutline)...)
	return poly
}

// foreheadBand is the strip between the brows and the brows raised by offset.
func foreheadBand(lm *LandmarkSet, offset float64) Polygon {
	brows := append(leftToRight(lm.LeftEyebrow), leftToRight(lm.RightEyebrow)...)
	poly := make(Polygon, 0, 2*len(brows))
	poly = append(poly, raise(brows, offset)...)
	poly = append(poly, reversed(brows)...)
	return poly
}

func raise(pts []Point, dy float64) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{p.X, p.Y - dy}
	}
	return out
}

func reversed(pts []Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// leftToRight returns pts ordered so that the first point is the leftmost end.
func leftToRight(pts []Point) []Point {
	if len(pts) > 1 && pts[0].X > pts[len(pts)-1].X {
		return reversed(pts)
	}
	out := make([]Point, len(pts))
	copy(out, pts)
	return out
}
