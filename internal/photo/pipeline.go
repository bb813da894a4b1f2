package photo

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	"github.com/rm-hull/face-blur-scale/internal/raster"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

type Photo struct {
	Raster *raster.Raster
}

type PipelineStage interface {
	Process(p *Photo) error
}

// Decode reads any registered image format and flattens it into a raster.
// The format name reported by the decoder is returned alongside; animated
// and still PNGs both report "png".
func Decode(r io.Reader) (*Photo, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if format == "apng" {
		format = "png"
	}
	if img.Bounds().Empty() {
		return nil, format, fmt.Errorf("%w: decoded %s image is empty", raster.ErrPrecondition, format)
	}
	return &Photo{Raster: FromImage(img)}, format, nil
}

// FromImage copies the colour samples of img into a new raster. Alpha is
// dropped and channel values are taken as stored, without colour conversion
// or premultiplication.
func FromImage(img image.Image) *raster.Raster {
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	out := &raster.Raster{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]uint8, b.Dx()*b.Dy()*raster.Channels),
	}
	for y := 0; y < b.Dy(); y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+b.Dx()*4]
		dst := out.Pix[y*b.Dx()*raster.Channels:]
		for x := 0; x < b.Dx(); x++ {
			copy(dst[x*raster.Channels:x*raster.Channels+raster.Channels], src[x*4:x*4+3])
		}
	}
	return out
}

// ToImage wraps the raster samples as an opaque RGBA image.
func ToImage(r *raster.Raster) *image.RGBA {
	img := image.NewRGBA(r.Bounds())
	for i, j := 0, 0; i < len(r.Pix); i, j = i+raster.Channels, j+4 {
		img.Pix[j] = r.Pix[i]
		img.Pix[j+1] = r.Pix[i+1]
		img.Pix[j+2] = r.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

func (p *Photo) Write(w io.Writer) error {
	return png.Encode(w, ToImage(p.Raster))
}

func (p *Photo) Pipeline(stages ...PipelineStage) error {
	for _, stage := range stages {
		if err := stage.Process(p); err != nil {
			return err
		}
	}
	return nil
}
