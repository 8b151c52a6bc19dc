package facemasking

import (
	"errors"
	"image/color"
	"testing"
)

func TestOverlayStateMachine(t *testing.T) {
	o := NewOverlay(100, 100)
	if o.State() != Idle {
		t.Fatalf("new overlay state = %v", o.State())
	}

	o.PointerMove(Point{10, 10})
	if o.State() != Idle || len(o.Strokes()) != 0 {
		t.Fatal("move without pointer down must be ignored")
	}

	o.PointerDown(Point{10, 10})
	if o.State() != Drawing {
		t.Fatalf("state after down = %v, want drawing", o.State())
	}
	for i := 1; i <= 4; i++ {
		o.PointerMove(Point{10 + float64(i)*5, 10})
	}
	o.PointerUp()
	if o.State() != Idle {
		t.Fatalf("state after up = %v, want idle", o.State())
	}

	strokes := o.Strokes()
	if len(strokes) != 1 {
		t.Fatalf("got %d strokes, want 1", len(strokes))
	}
	s := strokes[0]
	if len(s.Points) != 5 || s.Segments() != 4 {
		t.Errorf("stroke has %d points / %d segments, want 5 / 4", len(s.Points), s.Segments())
	}
	if s.Width != DefaultBrushWidth || s.Color != BrushColor {
		t.Errorf("stroke width %v color %v", s.Width, s.Color)
	}
}

func TestOverlayFinalizedStrokesUnchanged(t *testing.T) {
	o := NewOverlay(50, 50)
	o.PointerDown(Point{1, 1})
	o.PointerMove(Point{2, 2})
	o.PointerUp()
	first := o.Strokes()[0]

	if err := o.SetBrushWidth(30); err != nil {
		t.Fatal(err)
	}
	o.PointerDown(Point{20, 20})
	o.PointerMove(Point{25, 25})
	o.PointerMove(Point{30, 30})
	o.PointerLeave()

	strokes := o.Strokes()
	if len(strokes) != 2 {
		t.Fatalf("got %d strokes, want 2", len(strokes))
	}
	if strokes[0].Width != first.Width || len(strokes[0].Points) != len(first.Points) {
		t.Errorf("first stroke changed: %+v -> %+v", first, strokes[0])
	}
	if strokes[1].Width != 30 {
		t.Errorf("second stroke width = %v, want 30", strokes[1].Width)
	}

	// mutating the returned copy must not reach the history
	strokes[0].Points[0] = Point{99, 99}
	if o.Strokes()[0].Points[0] != (Point{1, 1}) {
		t.Error("Strokes() exposed internal history")
	}
}

func TestOverlayBounds(t *testing.T) {
	o := NewOverlay(20, 20)
	o.PointerDown(Point{-1, 5})
	if o.State() != Idle {
		t.Fatal("pointer down outside the canvas started a stroke")
	}

	o.PointerDown(Point{5, 5})
	o.PointerMove(Point{10, 5})
	o.PointerMove(Point{25, 5})
	if o.State() != Idle {
		t.Fatal("leaving the canvas must end the stroke")
	}
	if s := o.Strokes(); len(s) != 1 || len(s[0].Points) != 2 {
		t.Errorf("strokes = %+v", s)
	}
}

func TestSetBrushWidth(t *testing.T) {
	tests := []struct {
		width   int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{10, false},
		{50, false},
		{51, true},
		{-4, true},
	}
	for _, tt := range tests {
		o := NewOverlay(10, 10)
		err := o.SetBrushWidth(tt.width)
		if (err != nil) != tt.wantErr {
			t.Errorf("SetBrushWidth(%d) error = %v, wantErr %v", tt.width, err, tt.wantErr)
		}
		if err != nil {
			if !errors.Is(err, ErrBrushWidth) {
				t.Errorf("SetBrushWidth(%d) error %v is not ErrBrushWidth", tt.width, err)
			}
			if o.BrushWidth() != DefaultBrushWidth {
				t.Errorf("rejected width changed brush to %d", o.BrushWidth())
			}
		}
	}
}

func TestOverlayReset(t *testing.T) {
	o := NewOverlay(10, 10)
	o.SetBrushWidth(20)
	o.PointerDown(Point{1, 1})
	o.PointerMove(Point{5, 5})
	o.Reset(64, 32)

	if b := o.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("bounds after reset = %v", b)
	}
	if o.State() != Idle || len(o.Strokes()) != 0 {
		t.Error("reset must drop the stroke in progress and the history")
	}
	if o.BrushWidth() != 20 {
		t.Errorf("reset changed brush width to %d", o.BrushWidth())
	}
}

func TestOverlayComposite(t *testing.T) {
	base := uniform(50, 50, color.NRGBA{100, 100, 100, 255})
	o := NewOverlay(50, 50)
	o.PointerDown(Point{10, 25})
	o.PointerMove(Point{40, 25})
	o.PointerUp()

	out := o.Composite(base)
	if got := out.NRGBAAt(25, 25); absDiff(got.R, BrushColor.R) > 1 || got.A != 255 {
		t.Errorf("stroke center = %v, want about %v", got, BrushColor)
	}
	if got := out.NRGBAAt(25, 5); got != (color.NRGBA{100, 100, 100, 255}) {
		t.Errorf("pixel away from stroke = %v", got)
	}
	if base.NRGBAAt(25, 25).R != 100 {
		t.Error("Composite modified the base image")
	}

	// replaying the history draws the same layer
	before := o.Composite(base)
	o.Replay()
	after := o.Composite(base)
	for i := range before.Pix {
		if absDiff(before.Pix[i], after.Pix[i]) > 1 {
			t.Fatalf("replay differs at byte %d: %d vs %d", i, before.Pix[i], after.Pix[i])
		}
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
