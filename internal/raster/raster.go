// Package raster implements hand-written resampling and filtering over
// 8-bit, three channel pixel grids.
package raster

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// Channels is the number of samples stored per pixel.
const Channels = 3

// ErrPrecondition is returned when an operation is called with arguments that
// can never be valid (non-positive sizes, sigma, target dimensions).
var ErrPrecondition = errors.New("precondition violated")

// Raster is a height x width x 3 grid of samples stored row-major with the
// channels of each pixel interleaved.
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

// checkDimensions rejects sizes that are non-positive or whose sample count
// does not fit in an int.
func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: raster dimensions must be positive, got %dx%d", ErrPrecondition, width, height)
	}
	if width > math.MaxInt/Channels/height {
		return fmt.Errorf("%w: raster of %dx%d is too large", ErrPrecondition, width, height)
	}
	return nil
}

// New allocates a zero-filled (black) raster.
func New(width, height int) (*Raster, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}, nil
}

// Filled allocates a raster with every pixel set to the given sample values.
func Filled(width, height int, c0, c1, c2 uint8) (*Raster, error) {
	r, err := New(width, height)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(r.Pix); i += Channels {
		r.Pix[i], r.Pix[i+1], r.Pix[i+2] = c0, c1, c2
	}
	return r, nil
}

// Validate reports whether the raster is well formed.
func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil raster", ErrPrecondition)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: raster dimensions must be positive, got %dx%d", ErrPrecondition, r.Width, r.Height)
	}
	if want := r.Width * r.Height * Channels; len(r.Pix) != want {
		return fmt.Errorf("%w: raster of %dx%d needs %d samples, has %d", ErrPrecondition, r.Width, r.Height, want, len(r.Pix))
	}
	return nil
}

func (r *Raster) offset(x, y int) int {
	return (y*r.Width + x) * Channels
}

// At returns the sample of channel c at (x, y).
func (r *Raster) At(x, y, c int) uint8 {
	return r.Pix[r.offset(x, y)+c]
}

// Set stores the sample of channel c at (x, y).
func (r *Raster) Set(x, y, c int, v uint8) {
	r.Pix[r.offset(x, y)+c] = v
}

// Bounds returns the raster extent as a rectangle anchored at the origin.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Width: r.Width, Height: r.Height, Pix: pix}
}

// sumSlack absorbs the float error a weighted sum accumulates, so a flat
// region that sums to exactly k does not truncate to k-1.
const sumSlack = 1e-6

// sumSample converts a convolution sum to a sample.
func sumSample(v float64) uint8 {
	return clampSample(v + sumSlack)
}

// clampSample clamps v to [0, 255] and truncates it.
func clampSample(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
