package raster

import "fmt"

// reflectIndex maps a virtual coordinate onto [0, n) by mirroring about the
// edge samples without repeating them (-1 -> 1, n -> n-2). Offsets larger than
// the axis keep bouncing between both edges.
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}

// reflectTable precomputes reflectIndex for every virtual coordinate
// -pad .. n+pad-1 of an axis.
func reflectTable(n, pad int) []int {
	table := make([]int, n+2*pad)
	for i := range table {
		table[i] = reflectIndex(i-pad, n)
	}
	return table
}

// Convolve applies a Gaussian blur of the given kernel size and sigma using
// reflect padding at the borders. The kernel is applied as two 1D passes over
// its separable factor, which yields the same weights as the full 2D matrix.
func Convolve(r *Raster, size int, sigma float64) (*Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	kernel, err := BuildKernel(size, sigma)
	if err != nil {
		return nil, fmt.Errorf("failed to build kernel: %w", err)
	}

	taps := kernel.Marginal()
	pad := kernel.Size / 2
	w, h := r.Width, r.Height
	xs := reflectTable(w, pad)
	ys := reflectTable(h, pad)

	// horizontal pass over every source row, kept in float64
	horiz := make([]float64, w*h*Channels)
	forEachBand(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := r.Pix[y*w*Channels : (y+1)*w*Channels]
			for x := 0; x < w; x++ {
				var s0, s1, s2 float64
				for k, tap := range taps {
					o := xs[x+k] * Channels
					s0 += tap * float64(row[o])
					s1 += tap * float64(row[o+1])
					s2 += tap * float64(row[o+2])
				}
				o := (y*w + x) * Channels
				horiz[o], horiz[o+1], horiz[o+2] = s0, s1, s2
			}
		}
	})

	out := &Raster{Width: w, Height: h, Pix: make([]uint8, len(r.Pix))}
	forEachBand(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				var s0, s1, s2 float64
				for k, tap := range taps {
					o := (ys[y+k]*w + x) * Channels
					s0 += tap * horiz[o]
					s1 += tap * horiz[o+1]
					s2 += tap * horiz[o+2]
				}
				o := (y*w + x) * Channels
				out.Pix[o] = sumSample(s0)
				out.Pix[o+1] = sumSample(s1)
				out.Pix[o+2] = sumSample(s2)
			}
		}
	})

	return out, nil
}

// ConvolveFull is the brute-force counterpart of Convolve: every output sample
// is the weighted sum of the full size x size neighbourhood. It is much slower
// and exists for callers that want the literal 2D compute shape.
func ConvolveFull(r *Raster, size int, sigma float64) (*Raster, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	kernel, err := BuildKernel(size, sigma)
	if err != nil {
		return nil, fmt.Errorf("failed to build kernel: %w", err)
	}

	n := kernel.Size
	pad := n / 2
	w, h := r.Width, r.Height
	xs := reflectTable(w, pad)
	ys := reflectTable(h, pad)

	// widen once and renormalise so float32 rounding in the kernel does not
	// bias flat regions
	total := kernel.Sum()
	weights := make([]float64, len(kernel.Weights))
	for i, wt := range kernel.Weights {
		weights[i] = float64(wt) / total
	}

	out := &Raster{Width: w, Height: h, Pix: make([]uint8, len(r.Pix))}
	forEachBand(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				var sums [Channels]float64
				for i := 0; i < n; i++ {
					rowOff := ys[y+i] * w
					for j := 0; j < n; j++ {
						weight := weights[i*n+j]
						o := (rowOff + xs[x+j]) * Channels
						sums[0] += weight * float64(r.Pix[o])
						sums[1] += weight * float64(r.Pix[o+1])
						sums[2] += weight * float64(r.Pix[o+2])
					}
				}
				o := (y*w + x) * Channels
				for c := 0; c < Channels; c++ {
					out.Pix[o+c] = sumSample(sums[c])
				}
			}
		}
	})

	return out, nil
}
