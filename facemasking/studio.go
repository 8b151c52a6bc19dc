package facemasking

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
)

// Detector finds facial landmarks in an image. Load must succeed before the
// first Detect call. Detect returns an error wrapping ErrDetection when no
// face is found.
type Detector interface {
	Load(ctx context.Context) error
	Detect(ctx context.Context, img image.Image) (*LandmarkSet, error)
}

// Studio owns the current Session. Each Upload supersedes the previous one;
// detection results that arrive for an older upload are discarded.
type Studio struct {
	detector Detector
	opts     Options
	debug    bool

	mu         sync.Mutex
	loaded     bool
	generation uint64
	current    *Session
}

// NewStudio creates a Studio using d for landmark detection.
func NewStudio(d Detector, opts Options) *Studio {
	return &Studio{detector: d, opts: opts}
}

// SetDebug enables per-step logging.
func (s *Studio) SetDebug(debug bool) { s.debug = debug }

// Current returns the active session, or nil before the first upload.
func (s *Studio) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Upload starts a new session for img. The grayscale image is available
// immediately; the mask follows once detection completes.
func (s *Studio) Upload(img image.Image) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	sess := NewSession(img, s.opts.BrushWidth)
	sess.Generation = s.generation
	s.current = sess
	s.logf("session %s generation %d uploaded %v", sess.ID, sess.Generation, sess.Gray.Bounds().Size())
	return sess
}

// Detect loads the model if needed, runs the detector on sess and applies
// the result.
func (s *Studio) Detect(ctx context.Context, sess *Session) error {
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	lm, err := s.detector.Detect(ctx, sess.Gray)
	return s.Apply(sess.Generation, lm, err)
}

// Apply masks the current session with a detection result. Results for a
// superseded generation return ErrStaleResult and change nothing. A failed
// detection leaves the grayscale image in place.
func (s *Studio) Apply(generation uint64, lm *LandmarkSet, detectErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || generation != s.current.Generation {
		log.Println("[SESSION]", "discarding result of generation", generation)
		return fmt.Errorf("%w: generation %d", ErrStaleResult, generation)
	}
	sess := s.current
	if detectErr != nil {
		if !errors.Is(detectErr, ErrDetection) {
			detectErr = fmt.Errorf("%w: %w", ErrDetection, detectErr)
		}
		log.Println("[SESSION]", sess.ID, "masking skipped:", detectErr)
		return detectErr
	}
	if lm == nil {
		log.Println("[SESSION]", sess.ID, "masking skipped: empty landmark set")
		return ErrDetection
	}
	painted := sess.ApplyMask(lm, s.opts)
	s.logf("session %s masked %d/%d regions, %s fill tone %d",
		sess.ID, painted, len(sess.Regions), s.opts.Fill.Kind, sess.Tone)
	return nil
}

// Process uploads img and runs detection on it. The returned session is
// valid even when err wraps ErrDetection.
func (s *Studio) Process(ctx context.Context, img image.Image) (*Session, error) {
	sess := s.Upload(img)
	return sess, s.Detect(ctx, sess)
}

// Export encodes the current session as PNG along with its download name.
func (s *Studio) Export() ([]byte, string, error) {
	sess := s.Current()
	if sess == nil {
		return nil, "", ErrExport
	}
	data, err := sess.ExportPNG()
	if err != nil {
		return nil, "", err
	}
	log.Println("[EXPORT]", sess.ID, sess.Filename(), len(data), "bytes")
	return data, sess.Filename(), nil
}

func (s *Studio) ensureLoaded(ctx context.Context) error {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()
	if loaded {
		return nil
	}
	if s.detector == nil {
		return fmt.Errorf("%w: no detector configured", ErrModelLoad)
	}
	if err := s.detector.Load(ctx); err != nil {
		log.Println("[SESSION]", "model load failed:", err)
		if errors.Is(err, ErrModelLoad) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrModelLoad, err)
	}
	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
	return nil
}

func (s *Studio) logf(format string, args ...interface{}) {
	if s.debug {
		log.Printf("[SESSION] "+format, args...)
	}
}
