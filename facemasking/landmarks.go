package facemasking

import "math"

// Point is a position in buffer pixel space.
type Point struct {
	X, Y float64
}

// LandmarkSet groups the facial landmark points returned by a detector.
// Groups are ordered the way the detector emits them. JawOutline is an open
// curve, the other groups are usually closed.
type LandmarkSet struct {
	JawOutline   []Point
	LeftEyebrow  []Point
	RightEyebrow []Point
	LeftEye      []Point
	RightEye     []Point
	Nose         []Point
	Mouth        []Point
}

// All returns every landmark in detector order: jaw, brows, nose, eyes, mouth.
func (l *LandmarkSet) All() []Point {
	if l == nil {
		return nil
	}
	var pts []Point
	for _, g := range [][]Point{l.JawOutline, l.LeftEyebrow, l.RightEyebrow, l.Nose, l.LeftEye, l.RightEye, l.Mouth} {
		pts = append(pts, g...)
	}
	return pts
}

// Bounds returns the bounding box of every landmark. ok is false for an empty set.
func (l *LandmarkSet) Bounds() (min, max Point, ok bool) {
	pts := l.All()
	if len(pts) == 0 {
		return Point{}, Point{}, false
	}
	min = Point{math.Inf(1), math.Inf(1)}
	max = Point{math.Inf(-1), math.Inf(-1)}
	for _, p := range pts {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max, true
}

// CheekPoints returns one point per cheek, halfway between the jaw line and
// the nose. Without a nose the jaw centroid is used as the only sample.
func (l *LandmarkSet) CheekPoints() []Point {
	if l == nil || len(l.JawOutline) == 0 {
		return nil
	}
	jaw := l.JawOutline
	if len(jaw) < 3 || len(l.Nose) == 0 {
		return []Point{centroid(jaw)}
	}
	nose := centroid(l.Nose)
	k := len(jaw) / 5
	return []Point{
		midpoint(jaw[k], nose),
		midpoint(jaw[len(jaw)-1-k], nose),
	}
}

func centroid(pts []Point) Point {
	var c Point
	for _, p := range pts {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(pts))
	return Point{c.X / n, c.Y / n}
}

func midpoint(a, b Point) Point {
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}
