package stage

import (
	"github.com/rm-hull/face-blur-scale/internal/photo"
	"github.com/rm-hull/face-blur-scale/internal/raster"
)

type LetterboxStage struct {
	Width  int
	Height int
}

// Process scales the image to fit inside Width x Height keeping its aspect
// ratio, and centres it on a black canvas of exactly that size
func (s *LetterboxStage) Process(p *photo.Photo) error {
	out, err := raster.Fit(p.Raster, s.Width, s.Height)
	if err != nil {
		return err
	}
	p.Raster = out
	return nil
}
