package stage

import (
	"github.com/rm-hull/face-blur-scale/internal/photo"
	"github.com/rm-hull/face-blur-scale/internal/raster"
)

type ResizeStage struct {
	Width  int
	Height int
}

// Process stretches the image to exactly Width x Height with bicubic
// interpolation, ignoring the aspect ratio
func (s *ResizeStage) Process(p *photo.Photo) error {
	out, err := raster.Resize(p.Raster, s.Width, s.Height)
	if err != nil {
		return err
	}
	p.Raster = out
	return nil
}
