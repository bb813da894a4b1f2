package session

import (
	"context"
	"fmt"
	"image"

	"github.com/rm-hull/face-blur-scale/internal/raster"
)

// Detection is a single face reported by a detector.
type Detection struct {
	Box        image.Rectangle `json:"box"`
	Confidence float64         `json:"confidence"`
}

// Detector finds faces in a raster. Implementations live outside this module.
type Detector interface {
	Detect(ctx context.Context, r *raster.Raster) ([]Detection, error)
}

// FaceCrop is a padded face cut out of the source image.
type FaceCrop struct {
	Index      int
	Box        image.Rectangle
	Confidence float64
	Image      *raster.Raster
}

// ExtractFaces pads every detection by raster.FacePadding, clamps it to the
// source and copies the region out.
func ExtractFaces(src *raster.Raster, detections []Detection) ([]FaceCrop, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	faces := make([]FaceCrop, 0, len(detections))
	for i, d := range detections {
		box := raster.ExpandBox(d.Box, src.Bounds(), raster.FacePadding)
		img, err := src.Crop(box)
		if err != nil {
			return nil, fmt.Errorf("failed to crop face %d at %v: %w", i, d.Box, err)
		}
		faces = append(faces, FaceCrop{
			Index:      i,
			Box:        box,
			Confidence: d.Confidence,
			Image:      img,
		})
	}
	return faces, nil
}

// DetectFaces runs the detector and extracts the faces it found.
func DetectFaces(ctx context.Context, d Detector, src *raster.Raster) ([]FaceCrop, error) {
	detections, err := d.Detect(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("face detection failed: %w", err)
	}
	return ExtractFaces(src, detections)
}
