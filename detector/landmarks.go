package detector

import (
	"math"
	"sort"

	"facemask/facemasking"
)

// faceInput is what the cascades found for one face. Row and Col are the
// center of the detection square, Scale its side.
type faceInput struct {
	Row, Col, Scale float64

	LeftPupil, RightPupil *facemasking.Point
	EyePoints             []facemasking.Point
	MouthPoints           []facemasking.Point
}

// Point counts of the synthesized groups, following the 68 point layout.
const (
	jawPoints   = 17
	browPoints  = 5
	eyePoints   = 6
	nosePoints  = 9
	mouthPoints = 20
)

// synthesize builds a full LandmarkSet from a detection square. Pupils and
// landmark points refine the eyes and mouth when present; everything else
// is placed with fixed face proportions.
func synthesize(in faceInput) *facemasking.LandmarkSet {
	s := in.Scale
	left, right := estimatedPupils(in)
	if in.LeftPupil != nil {
		left = *in.LeftPupil
	}
	if in.RightPupil != nil {
		right = *in.RightPupil
	}

	lm := &facemasking.LandmarkSet{
		// lower half of an ellipse from the left temple to the right one
		JawOutline:   arc(facemasking.Point{X: in.Col, Y: in.Row - 0.1*s}, 0.45*s, 0.6*s, math.Pi, 0, jawPoints),
		LeftEyebrow:  arc(facemasking.Point{X: left.X, Y: left.Y - 0.06*s}, 0.11*s, 0.05*s, math.Pi, 2*math.Pi, browPoints),
		RightEyebrow: arc(facemasking.Point{X: right.X, Y: right.Y - 0.06*s}, 0.11*s, 0.05*s, math.Pi, 2*math.Pi, browPoints),
		LeftEye:      eye(left, s, nearest(in.EyePoints, left, right, true)),
		RightEye:     eye(right, s, nearest(in.EyePoints, left, right, false)),
		Nose:         nose(in, left, right),
		Mouth:        mouth(in),
	}
	return lm
}

func estimatedPupils(in faceInput) (left, right facemasking.Point) {
	y := in.Row - 0.075*in.Scale
	return facemasking.Point{X: in.Col - 0.175*in.Scale, Y: y},
		facemasking.Point{X: in.Col + 0.185*in.Scale, Y: y}
}

// arc samples n points of the ellipse centered at c from angle a0 to a1.
// Angles grow clockwise on screen since y points down.
func arc(c facemasking.Point, rx, ry, a0, a1 float64, n int) []facemasking.Point {
	pts := make([]facemasking.Point, n)
	for i := range pts {
		t := a0 + (a1-a0)*float64(i)/float64(n-1)
		pts[i] = facemasking.Point{X: c.X + rx*math.Cos(t), Y: c.Y + ry*math.Sin(t)}
	}
	return pts
}

// ring samples n points of a full ellipse.
func ring(c facemasking.Point, rx, ry float64, n int) []facemasking.Point {
	pts := make([]facemasking.Point, n)
	for i := range pts {
		t := math.Pi + 2*math.Pi*float64(i)/float64(n)
		pts[i] = facemasking.Point{X: c.X + rx*math.Cos(t), Y: c.Y + ry*math.Sin(t)}
	}
	return pts
}

// eye is an ellipse around the pupil, widened to reach the farthest corner
// found by the landmark cascades.
func eye(pupil facemasking.Point, s float64, corners []facemasking.Point) []facemasking.Point {
	rx, ry := 0.09*s, 0.04*s
	for _, c := range corners {
		rx = math.Max(rx, math.Min(math.Abs(c.X-pupil.X), 0.15*s))
	}
	return ring(pupil, rx, ry, eyePoints)
}

// nearest keeps the points closer to the left (or right) pupil.
func nearest(pts []facemasking.Point, left, right facemasking.Point, wantLeft bool) []facemasking.Point {
	var out []facemasking.Point
	for _, p := range pts {
		isLeft := dist(p, left) <= dist(p, right)
		if isLeft == wantLeft {
			out = append(out, p)
		}
	}
	return out
}

func nose(in faceInput, left, right facemasking.Point) []facemasking.Point {
	s := in.Scale
	top := facemasking.Point{X: (left.X + right.X) / 2, Y: (left.Y + right.Y) / 2}
	tipY := in.Row + 0.12*s
	pts := make([]facemasking.Point, 0, nosePoints)
	// bridge down the middle, then the nostrils from right to left
	for i := 0; i < 4; i++ {
		f := float64(i) / 4
		pts = append(pts, facemasking.Point{X: top.X + 0.02*s, Y: top.Y + f*(tipY-top.Y)})
	}
	pts = append(pts, arc(facemasking.Point{X: top.X, Y: tipY}, 0.08*s, 0.04*s, 0, math.Pi, nosePoints-4)...)
	return pts
}

// mouth orders the detected mouth points around their centroid. With fewer
// than 3 points an ellipse below the nose is used.
func mouth(in faceInput) []facemasking.Point {
	if len(in.MouthPoints) >= 3 {
		return byAngle(in.MouthPoints)
	}
	s := in.Scale
	return ring(facemasking.Point{X: in.Col, Y: in.Row + 0.28*s}, 0.15*s, 0.06*s, mouthPoints)
}

func byAngle(pts []facemasking.Point) []facemasking.Point {
	var c facemasking.Point
	for _, p := range pts {
		c.X += p.X
		c.Y += p.Y
	}
	c.X /= float64(len(pts))
	c.Y /= float64(len(pts))

	out := append([]facemasking.Point(nil), pts...)
	sort.Slice(out, func(i, j int) bool {
		return math.Atan2(out[i].Y-c.Y, out[i].X-c.X) < math.Atan2(out[j].Y-c.Y, out[j].X-c.X)
	})
	return out
}

func dist(a, b facemasking.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
