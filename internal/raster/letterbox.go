package raster

import (
	"fmt"
	"math"
)

// Layout describes where a letterboxed image lands on its canvas.
type Layout struct {
	Scale   float64
	Width   int
	Height  int
	OffsetX int
	OffsetY int
}

// FitLayout computes the aspect preserving placement of a srcWidth x srcHeight
// image inside a targetWidth x targetHeight canvas.
func FitLayout(srcWidth, srcHeight, targetWidth, targetHeight int) (Layout, error) {
	if srcWidth <= 0 || srcHeight <= 0 {
		return Layout{}, fmt.Errorf("%w: source dimensions must be positive, got %dx%d", ErrPrecondition, srcWidth, srcHeight)
	}
	if targetWidth <= 0 || targetHeight <= 0 {
		return Layout{}, fmt.Errorf("%w: target dimensions must be positive, got %dx%d", ErrPrecondition, targetWidth, targetHeight)
	}

	scale := math.Min(
		float64(targetWidth)/float64(srcWidth),
		float64(targetHeight)/float64(srcHeight),
	)
	// floor, but never collapse a very thin source to nothing
	newW := min(max(int(math.Floor(float64(srcWidth)*scale)), 1), targetWidth)
	newH := min(max(int(math.Floor(float64(srcHeight)*scale)), 1), targetHeight)

	return Layout{
		Scale:   scale,
		Width:   newW,
		Height:  newH,
		OffsetX: (targetWidth - newW) / 2,
		OffsetY: (targetHeight - newH) / 2,
	}, nil
}

// Fit scales r uniformly to fit inside targetWidth x targetHeight and centres
// it on a black canvas of exactly that size. Nothing is cropped.
func Fit(r *Raster, targetWidth, targetHeight int) (*Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	layout, err := FitLayout(r.Width, r.Height, targetWidth, targetHeight)
	if err != nil {
		return nil, err
	}
	if err := checkDimensions(targetWidth, targetHeight); err != nil {
		return nil, fmt.Errorf("invalid canvas: %w", err)
	}

	scaled, err := Resize(r, layout.Width, layout.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to resize to %dx%d: %w", layout.Width, layout.Height, err)
	}

	canvas, err := New(targetWidth, targetHeight)
	if err != nil {
		return nil, err
	}
	canvas.Paste(scaled, layout.OffsetX, layout.OffsetY)
	return canvas, nil
}

// Paste copies src into r with its top-left corner at (x, y). Parts falling
// outside r are dropped.
func (r *Raster) Paste(src *Raster, x, y int) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+src.Width, r.Width), min(y+src.Height, r.Height)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	n := (x1 - x0) * Channels
	for row := y0; row < y1; row++ {
		dst := r.offset(x0, row)
		s := src.offset(x0-x, row-y)
		copy(r.Pix[dst:dst+n], src.Pix[s:s+n])
	}
}
