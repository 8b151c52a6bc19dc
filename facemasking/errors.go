package facemasking

import "errors"

var (
	// ErrModelLoad is returned when the detector could not be initialized.
	ErrModelLoad = errors.New("face model load failed")
	// ErrDetection is returned when no face was found in the image.
	ErrDetection = errors.New("no face detected")
	// ErrExport is returned when an export is requested before any image was processed.
	ErrExport = errors.New("no processed image to export")
	// ErrDegenerateGeometry marks a region with fewer than 3 points or no area.
	ErrDegenerateGeometry = errors.New("degenerate mask geometry")
	// ErrStaleResult is returned when a detection result belongs to a superseded upload.
	ErrStaleResult = errors.New("detection result is stale")
	// ErrBrushWidth is returned for a brush width outside [MinBrushWidth, MaxBrushWidth].
	ErrBrushWidth = errors.New("brush width out of range")
)
