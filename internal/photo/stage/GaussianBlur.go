package stage

import (
	"github.com/rm-hull/face-blur-scale/internal/photo"
	"github.com/rm-hull/face-blur-scale/internal/raster"
)

type GaussianBlurStage struct {
	KernelSize int
	Sigma      float64
}

// Process blurs the image with a KernelSize x KernelSize Gaussian kernel.
// Higher Sigma values result in a more pronounced blur effect
func (s *GaussianBlurStage) Process(p *photo.Photo) error {
	out, err := raster.Convolve(p.Raster, s.KernelSize, s.Sigma)
	if err != nil {
		return err
	}
	p.Raster = out
	return nil
}
