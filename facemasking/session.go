package facemasking

import (
	"image"
	"io"

	"github.com/google/uuid"
)

// Options configures how a Session masks its image.
type Options struct {
	Region RegionOptions
	Fill   FillSpec
	// SampleTone derives the fill tone from the cheeks. When false Fill.Tone
	// is used as is.
	SampleTone bool
	BrushWidth int
}

// DefaultOptions masks the whole face with a sampled scratch fill.
func DefaultOptions() Options {
	return Options{
		Region: RegionOptions{Policy: PolicyWholeFace, ForeheadOffset: DefaultForeheadOffset},
		Fill: FillSpec{
			Kind:   FillScratch,
			Tone:   DefaultTone,
			Jitter: DefaultJitter,
			Stride: DefaultStride,
			Sigma:  DefaultBlurSigma,
		},
		SampleTone: true,
		BrushWidth: DefaultBrushWidth,
	}
}

// Session is one upload-to-export lifecycle for a single image.
type Session struct {
	ID         uuid.UUID
	Generation uint64

	// Gray is the desaturated image before masking.
	Gray *image.NRGBA
	// Base is Gray with the mask regions painted. It equals Gray until a mask
	// is applied.
	Base      *image.NRGBA
	Landmarks *LandmarkSet
	Regions   []Polygon
	Tone      uint8
	Overlay   *Overlay

	masked bool
}

// NewSession desaturates img and prepares an empty overlay of the same size.
func NewSession(img image.Image, brushWidth int) *Session {
	gray := NewPixelBuffer(img)
	Grayscale(gray)
	b := gray.Bounds()
	ov := NewOverlay(b.Dx(), b.Dy())
	// an out of range width keeps the default
	_ = ov.SetBrushWidth(brushWidth)
	return &Session{
		ID:      uuid.New(),
		Gray:    gray,
		Base:    gray,
		Overlay: ov,
	}
}

// ApplyMask builds regions from lm and paints them onto a copy of Gray.
// It returns the number of regions that covered at least one pixel.
func (s *Session) ApplyMask(lm *LandmarkSet, opts Options) int {
	s.Landmarks = lm
	s.Regions = BuildRegions(lm, opts.Region)
	fill := opts.Fill
	if opts.SampleTone {
		fill.Tone = SampleTone(s.Gray, lm.CheekPoints())
	}
	s.Tone = fill.Tone

	base := NewPixelBuffer(s.Gray)
	painted := 0
	for _, p := range s.Regions {
		if Fill(base, p, fill) {
			painted++
		}
	}
	s.Base = base
	s.masked = true
	return painted
}

// Masked reports whether a mask has been applied.
func (s *Session) Masked() bool { return s != nil && s.masked }

// Composite returns the base image with the brush overlay on top.
func (s *Session) Composite() (*image.NRGBA, error) {
	if s == nil || s.Base == nil {
		return nil, ErrExport
	}
	return s.Overlay.Composite(s.Base), nil
}

// Filename is the download name for the current state of the session.
func (s *Session) Filename() string {
	if s.Masked() {
		return MaskedFilename
	}
	return MonochromeFilename
}

// ExportPNG encodes the composited output as PNG.
func (s *Session) ExportPNG() ([]byte, error) {
	img, err := s.Composite()
	if err != nil {
		return nil, err
	}
	return PNGBytes(img)
}

// DataURL returns the composited output as a PNG data URL.
func (s *Session) DataURL() (string, error) {
	img, err := s.Composite()
	if err != nil {
		return "", err
	}
	return DataURL(img)
}

// WriteFile saves the composited output to path.
func (s *Session) WriteFile(path string) error {
	img, err := s.Composite()
	if err != nil {
		return err
	}
	return WriteFile(path, img)
}

// MaskSVG writes the mask regions as SVG paths.
func (s *Session) MaskSVG(w io.Writer) error {
	if s == nil || s.Base == nil {
		return ErrExport
	}
	return MaskSVG(w, s.Regions, s.Base.Bounds())
}
