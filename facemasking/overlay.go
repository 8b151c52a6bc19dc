package facemasking

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Brush width limits and default.
const (
	MinBrushWidth     = 1
	MaxBrushWidth     = 50
	DefaultBrushWidth = 10
)

// BrushColor is the light skin gray used for every stroke (#D3D3D3).
var BrushColor = color.NRGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff}

// BrushState is the state of the overlay's pointer state machine.
type BrushState int

const (
	// Idle means no stroke is in progress.
	Idle BrushState = iota
	// Drawing means the pointer is held down and points are being appended.
	Drawing
)

func (s BrushState) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// Stroke is one continuous drag from pointer-down to pointer-up.
type Stroke struct {
	Points []Point
	Width  float64
	Color  color.NRGBA
}

// Segments is the number of line segments the stroke was drawn with.
func (s Stroke) Segments() int {
	if len(s.Points) == 0 {
		return 0
	}
	return len(s.Points) - 1
}

// Overlay is the transparent brush layer drawn above the masked image.
type Overlay struct {
	dc      *gg.Context
	width   int
	state   BrushState
	current Stroke
	strokes []Stroke
}

// NewOverlay creates an empty w x h overlay with the default brush width.
func NewOverlay(w, h int) *Overlay {
	o := &Overlay{width: DefaultBrushWidth}
	o.Reset(w, h)
	return o
}

// Reset resizes the layer to w x h and drops the stroke history. The brush
// width is kept.
func (o *Overlay) Reset(w, h int) {
	o.dc = gg.NewContext(w, h)
	o.state = Idle
	o.current = Stroke{}
	o.strokes = nil
}

// SetBrushWidth changes the width used by the next stroke.
func (o *Overlay) SetBrushWidth(w int) error {
	if w < MinBrushWidth || w > MaxBrushWidth {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrBrushWidth, w, MinBrushWidth, MaxBrushWidth)
	}
	o.width = w
	return nil
}

// BrushWidth returns the configured brush width.
func (o *Overlay) BrushWidth() int { return o.width }

// State returns the current pointer state.
func (o *Overlay) State() BrushState { return o.state }

// Bounds returns the layer bounds.
func (o *Overlay) Bounds() image.Rectangle {
	return image.Rect(0, 0, o.dc.Width(), o.dc.Height())
}

// PointerDown starts a stroke at p. Events outside the layer are ignored.
func (o *Overlay) PointerDown(p Point) {
	if o.state == Drawing || !o.contains(p) {
		return
	}
	o.state = Drawing
	o.current = Stroke{
		Points: []Point{p},
		Width:  float64(o.width),
		Color:  BrushColor,
	}
}

// PointerMove appends p to the current stroke and draws the new segment.
// Leaving the layer ends the stroke.
func (o *Overlay) PointerMove(p Point) {
	if o.state != Drawing {
		return
	}
	if !o.contains(p) {
		o.finish()
		return
	}
	prev := o.current.Points[len(o.current.Points)-1]
	o.current.Points = append(o.current.Points, p)
	drawSegment(o.dc, o.current, prev, p)
}

// PointerUp ends the current stroke.
func (o *Overlay) PointerUp() { o.finish() }

// PointerLeave ends the current stroke.
func (o *Overlay) PointerLeave() { o.finish() }

func (o *Overlay) finish() {
	if o.state != Drawing {
		return
	}
	o.strokes = append(o.strokes, o.current)
	o.current = Stroke{}
	o.state = Idle
}

// Strokes returns a copy of the finalized stroke history.
func (o *Overlay) Strokes() []Stroke {
	out := make([]Stroke, len(o.strokes))
	for i, s := range o.strokes {
		s.Points = append([]Point(nil), s.Points...)
		out[i] = s
	}
	return out
}

// Replay redraws the whole history onto a fresh layer. Live drawing never
// needs it; it rebuilds the layer from the recorded strokes.
func (o *Overlay) Replay() {
	o.dc = gg.NewContext(o.dc.Width(), o.dc.Height())
	for _, s := range o.strokes {
		for i := 1; i < len(s.Points); i++ {
			drawSegment(o.dc, s, s.Points[i-1], s.Points[i])
		}
	}
	if o.state == Drawing {
		for i := 1; i < len(o.current.Points); i++ {
			drawSegment(o.dc, o.current, o.current.Points[i-1], o.current.Points[i])
		}
	}
}

// Image returns the layer itself.
func (o *Overlay) Image() image.Image { return o.dc.Image() }

// Composite returns a copy of base with the layer blended on top.
func (o *Overlay) Composite(base image.Image) *image.NRGBA {
	return imaging.Overlay(base, o.dc.Image(), image.Pt(0, 0), 1.0)
}

func (o *Overlay) contains(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(o.dc.Width()) && p.Y < float64(o.dc.Height())
}

func drawSegment(dc *gg.Context, s Stroke, a, b Point) {
	dc.SetColor(s.Color)
	dc.SetLineWidth(s.Width)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.DrawLine(a.X, a.Y, b.X, b.Y)
	dc.Stroke()
}
