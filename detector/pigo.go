package detector

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"sort"

	"github.com/disintegration/imaging"
	pigo "github.com/esimov/pigo/core"

	"facemask/facemasking"
)

// Config config
type Config struct {
	Angle        float64
	CascadeFile  string
	MinSize      int
	MaxSize      int
	ShiftFactor  float64
	ScaleFactor  float64
	IouThreshold float64
	// QThreshold drops detections with a lower score.
	QThreshold float64
	Puploc     string
	Flploc     string
	Perturb    int
}

// Pigo finds faces with the pigo cascades and turns the strongest detection
// into a LandmarkSet.
type Pigo struct {
	fd         *Config
	plc        *pigo.PuplocCascade
	flpcs      map[string][]*pigo.FlpCascade
	classifier *pigo.Pigo
}

// New fills in defaults. Cascades are read by Load.
func New(config *Config) *Pigo {
	var instance = &Pigo{
		fd: config,
	}

	if instance.fd == nil {
		instance.fd = &Config{}
	}

	if instance.fd.MinSize == 0 {
		instance.fd.MinSize = 20
	}

	if instance.fd.MaxSize == 0 {
		instance.fd.MaxSize = 1000
	}

	if instance.fd.ShiftFactor == 0 {
		instance.fd.ShiftFactor = 0.1
	}

	if instance.fd.ScaleFactor == 0 {
		instance.fd.ScaleFactor = 1.1
	}

	if instance.fd.IouThreshold == 0 {
		instance.fd.IouThreshold = 0.2
	}

	if instance.fd.QThreshold == 0 {
		instance.fd.QThreshold = 5.0
	}

	if instance.fd.Perturb == 0 {
		instance.fd.Perturb = 63
	}

	return instance
}

// Load reads and unpacks the face cascade and, when configured, the pupil
// and facial landmark point cascades.
func (f *Pigo) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", facemasking.ErrModelLoad, err)
	}

	cascadeFile, err := os.ReadFile(f.fd.CascadeFile)
	if err != nil {
		return fmt.Errorf("%w: can not open cascade file %s error: %w", facemasking.ErrModelLoad, f.fd.CascadeFile, err)
	}

	var p = pigo.NewPigo()
	// Unpack returns the number of cascade trees, the tree depth,
	// the threshold and the prediction from tree's leaf nodes.
	classifier, err := p.Unpack(cascadeFile)
	if err != nil {
		return fmt.Errorf("%w: unpack cascade file error: %w", facemasking.ErrModelLoad, err)
	}

	if len(f.fd.Puploc) > 0 {
		pl := pigo.NewPuplocCascade()
		cascade, err := os.ReadFile(f.fd.Puploc)
		if err != nil {
			return fmt.Errorf("%w: can not open puploc file %s error: %w", facemasking.ErrModelLoad, f.fd.Puploc, err)
		}
		plc, err := pl.UnpackCascade(cascade)
		if err != nil {
			return fmt.Errorf("%w: unpack puploc cascade error: %w", facemasking.ErrModelLoad, err)
		}

		if len(f.fd.Flploc) > 0 {
			flpcs, err := pl.ReadCascadeDir(f.fd.Flploc)
			if err != nil {
				return fmt.Errorf("%w: read cascade dir error: %w", facemasking.ErrModelLoad, err)
			}
			f.flpcs = flpcs
		}
		f.plc = plc
	}

	f.classifier = classifier
	log.Println("[DETECTOR]", "cascades loaded from", f.fd.CascadeFile,
		"puploc:", f.plc != nil, "flploc:", len(f.flpcs))
	return nil
}

// Detect returns the landmarks of the highest scoring face in img.
func (f *Pigo) Detect(ctx context.Context, img image.Image) (*facemasking.LandmarkSet, error) {
	if f.classifier == nil {
		return nil, fmt.Errorf("%w: cascades not loaded", facemasking.ErrModelLoad)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := imaging.Clone(img)
	cols, rows := src.Bounds().Dx(), src.Bounds().Dy()
	imgParams := pigo.ImageParams{
		Pixels: pigo.RgbToGrayscale(src),
		Rows:   rows,
		Cols:   cols,
		Dim:    cols,
	}

	cParams := pigo.CascadeParams{
		MinSize:     f.fd.MinSize,
		MaxSize:     f.fd.MaxSize,
		ShiftFactor: f.fd.ShiftFactor,
		ScaleFactor: f.fd.ScaleFactor,
		ImageParams: imgParams,
	}

	// The result contains quadruplets of row, column, scale and detection score.
	faces := f.classifier.RunCascade(cParams, f.fd.Angle)
	faces = f.classifier.ClusterDetections(faces, f.fd.IouThreshold)

	face, ok := best(faces, float32(f.fd.QThreshold))
	if !ok {
		return nil, facemasking.ErrDetection
	}

	in := faceInput{
		Row:   float64(face.Row),
		Col:   float64(face.Col),
		Scale: float64(face.Scale),
	}
	if f.plc != nil {
		leftEye, rightEye := f.pupils(face, imgParams)
		in.LeftPupil, in.RightPupil = puplocPoint(leftEye), puplocPoint(rightEye)
		if in.LeftPupil != nil && in.RightPupil != nil && f.flpcs != nil {
			in.EyePoints = f.landmarkPoints(eyeCascades, leftEye, rightEye, imgParams)
			in.MouthPoints = f.landmarkPoints(mouthCascades, leftEye, rightEye, imgParams)
		}
	}
	return synthesize(in), nil
}

func best(faces []pigo.Detection, q float32) (pigo.Detection, bool) {
	sort.Slice(faces, func(i, j int) bool { return faces[i].Q > faces[j].Q })
	if len(faces) == 0 || faces[0].Q < q {
		return pigo.Detection{}, false
	}
	return faces[0], true
}

func (f *Pigo) pupils(face pigo.Detection, img pigo.ImageParams) (left, right *pigo.Puploc) {
	scale := float32(face.Scale)
	leftEye := f.plc.RunDetector(pigo.Puploc{
		Row:      face.Row - int(0.075*scale),
		Col:      face.Col - int(0.175*scale),
		Scale:    scale * 0.25,
		Perturbs: f.fd.Perturb,
	}, img, f.fd.Angle, false)
	rightEye := f.plc.RunDetector(pigo.Puploc{
		Row:      face.Row - int(0.075*scale),
		Col:      face.Col + int(0.185*scale),
		Scale:    scale * 0.25,
		Perturbs: f.fd.Perturb,
	}, img, f.fd.Angle, false)
	return leftEye, rightEye
}

var (
	eyeCascades   = []string{"lp46", "lp44", "lp42", "lp38", "lp312"}
	mouthCascades = []string{"lp93", "lp84", "lp82", "lp81"}
)

// landmarkPoints runs the named flp cascades on both sides of the face.
func (f *Pigo) landmarkPoints(names []string, leftEye, rightEye *pigo.Puploc, img pigo.ImageParams) []facemasking.Point {
	var pts []facemasking.Point
	for _, name := range names {
		for _, flpc := range f.flpcs[name] {
			for _, flip := range []bool{false, true} {
				if p := puplocPoint(flpc.GetLandmarkPoint(leftEye, rightEye, img, f.fd.Perturb, flip)); p != nil {
					pts = append(pts, *p)
				}
			}
		}
	}
	return pts
}

func puplocPoint(p *pigo.Puploc) *facemasking.Point {
	if p == nil || p.Row <= 0 || p.Col <= 0 {
		return nil
	}
	return &facemasking.Point{X: float64(p.Col), Y: float64(p.Row)}
}
