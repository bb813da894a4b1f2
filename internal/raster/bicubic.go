package raster

import (
	"fmt"
	"math"
)

// cubic interpolates between p1 and p2 at fractional position t using the
// Catmull-Rom form of cubic convolution.
func cubic(p0, p1, p2, p3, t float64) float64 {
	return p1 + 0.5*t*(p2-p0+t*(2.0*p0-5.0*p1+4.0*p2-p3+t*(3.0*(p1-p2)+p3-p0)))
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Resize resamples r to exactly targetWidth x targetHeight using bicubic
// interpolation over a 4x4 neighbourhood. Neighbourhood taps outside the
// source are clamped to the nearest edge sample.
func Resize(r *Raster, targetWidth, targetHeight int) (*Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	out, err := New(targetWidth, targetHeight)
	if err != nil {
		return nil, fmt.Errorf("invalid resize target: %w", err)
	}

	sw, sh := r.Width, r.Height
	scaleX := float64(sw) / float64(targetWidth)
	scaleY := float64(sh) / float64(targetHeight)

	forEachBand(targetHeight, func(y0, y1 int) {
		var (
			cols [4]int
			rows [4]int
			rowv [4]float64
		)
		for y := y0; y < y1; y++ {
			srcY := float64(y) * scaleY
			by := int(math.Floor(srcY))
			ty := srcY - float64(by)
			for j := range rows {
				rows[j] = clampIndex(by+j-1, sh) * sw
			}

			for x := 0; x < targetWidth; x++ {
				srcX := float64(x) * scaleX
				bx := int(math.Floor(srcX))
				tx := srcX - float64(bx)
				for i := range cols {
					cols[i] = clampIndex(bx+i-1, sw)
				}

				o := (y*targetWidth + x) * Channels
				for c := 0; c < Channels; c++ {
					for j, row := range rows {
						rowv[j] = cubic(
							float64(r.Pix[(row+cols[0])*Channels+c]),
							float64(r.Pix[(row+cols[1])*Channels+c]),
							float64(r.Pix[(row+cols[2])*Channels+c]),
							float64(r.Pix[(row+cols[3])*Channels+c]),
							tx,
						)
					}
					out.Pix[o+c] = clampSample(cubic(rowv[0], rowv[1], rowv[2], rowv[3], ty))
				}
			}
		}
	})

	return out, nil
}
