package stage

import (
	"image"

	"github.com/rm-hull/face-blur-scale/internal/photo"
	"github.com/rm-hull/face-blur-scale/internal/raster"
)

type CropStage struct {
	Box     image.Rectangle
	Padding float64
}

// Process cuts Box out of the image after growing it by Padding times its
// shorter side, clamped to the image bounds
func (s *CropStage) Process(p *photo.Photo) error {
	box := raster.ExpandBox(s.Box, p.Raster.Bounds(), s.Padding)
	out, err := p.Raster.Crop(box)
	if err != nil {
		return err
	}
	p.Raster = out
	return nil
}
