package facemasking

import (
	"image/color"
	"testing"
)

func TestSampleTone(t *testing.T) {
	buf := uniform(10, 10, color.NRGBA{100, 100, 100, 255})
	setGray(buf, 0, 0, 10)
	setGray(buf, 9, 9, 200)
	setGray(buf, 5, 5, 50)

	tests := []struct {
		name   string
		points []Point
		want   uint8
	}{
		{"no points falls back", nil, DefaultTone},
		{"single point", []Point{{5, 5}}, 50},
		{"rounds to nearest pixel", []Point{{4.6, 5.4}}, 50},
		{"mean of two", []Point{{5, 5}, {2, 2}}, 75},
		{"clamps below bounds", []Point{{-3, -8}}, 10},
		{"clamps above bounds", []Point{{9.7, 42}}, 200},
		{"mean rounds", []Point{{0, 0}, {5, 5}, {5, 5}}, 37},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SampleTone(buf, tt.points); got != tt.want {
				t.Errorf("SampleTone() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCheekPoints(t *testing.T) {
	lm := &LandmarkSet{
		JawOutline: []Point{{0, 40}, {10, 80}, {50, 100}, {90, 80}, {100, 40}},
		Nose:       []Point{{50, 50}, {50, 60}},
	}
	got := lm.CheekPoints()
	want := []Point{{30, 67.5}, {70, 67.5}}
	if len(got) != len(want) {
		t.Fatalf("CheekPoints() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cheek %d = %v, want %v", i, got[i], want[i])
		}
	}

	if pts := (&LandmarkSet{}).CheekPoints(); pts != nil {
		t.Errorf("empty set gave %v", pts)
	}
	noNose := &LandmarkSet{JawOutline: []Point{{0, 0}, {10, 0}, {20, 30}}}
	if pts := noNose.CheekPoints(); len(pts) != 1 || pts[0] != (Point{10, 10}) {
		t.Errorf("jaw-only cheeks = %v, want centroid", pts)
	}
}
