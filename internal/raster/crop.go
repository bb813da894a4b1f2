package raster

import (
	"fmt"
	"image"
)

// FacePadding is the share of a face box's shorter side added on every side
// before cropping.
const FacePadding = 0.2

// Crop copies the part of r covered by rect into a new raster.
func (r *Raster) Crop(rect image.Rectangle) (*Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	rect = rect.Intersect(r.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("%w: crop rectangle does not overlap the %dx%d raster", ErrPrecondition, r.Width, r.Height)
	}

	out, err := New(rect.Dx(), rect.Dy())
	if err != nil {
		return nil, err
	}
	n := rect.Dx() * Channels
	for y := 0; y < rect.Dy(); y++ {
		s := r.offset(rect.Min.X, rect.Min.Y+y)
		copy(out.Pix[y*n:(y+1)*n], r.Pix[s:s+n])
	}
	return out, nil
}

// ExpandBox grows box by fraction of its shorter side on every side and clamps
// the result to bounds.
func ExpandBox(box, bounds image.Rectangle, fraction float64) image.Rectangle {
	w, h := box.Dx(), box.Dy()
	padding := int(float64(min(w, h)) * fraction)

	x := max(bounds.Min.X, box.Min.X-padding)
	y := max(bounds.Min.Y, box.Min.Y-padding)
	w = min(bounds.Max.X-x, w+2*padding)
	h = min(bounds.Max.Y-y, h+2*padding)

	return image.Rect(x, y, x+w, y+h)
}
