package raster

import (
	"fmt"
	"math"
)

// Kernel is a square, odd sized matrix of Gaussian weights that sums to 1.
type Kernel struct {
	Size    int
	Weights []float32
}

// BuildKernel returns the normalised 2D Gaussian kernel for the given size and
// sigma. Even sizes are bumped to the next odd number so a centre tap exists.
func BuildKernel(size int, sigma float64) (*Kernel, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: kernel size must be at least 1, got %d", ErrPrecondition, size)
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("%w: sigma must be positive, got %v", ErrPrecondition, sigma)
	}
	if size%2 == 0 {
		size++
	}

	center := size / 2
	twoSigmaSq := 2 * sigma * sigma
	norm := 1.0 / (math.Pi * twoSigmaSq)

	weights := make([]float32, size*size)
	var sum float64
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			dx := float64(i - center)
			dy := float64(j - center)
			w := float32(norm * math.Exp(-(dx*dx+dy*dy)/twoSigmaSq))
			weights[i*size+j] = w
			sum += float64(w)
		}
	}

	for i := range weights {
		weights[i] = float32(float64(weights[i]) / sum)
	}

	return &Kernel{Size: size, Weights: weights}, nil
}

// At returns the weight at the given row and column.
func (k *Kernel) At(row, col int) float32 {
	return k.Weights[row*k.Size+col]
}

// Sum adds up every weight.
func (k *Kernel) Sum() float64 {
	var sum float64
	for _, w := range k.Weights {
		sum += float64(w)
	}
	return sum
}

// Marginal returns the row sums of the kernel. For a Gaussian kernel this is
// the 1D factor whose outer product with itself reproduces the matrix.
func (k *Kernel) Marginal() []float64 {
	taps := make([]float64, k.Size)
	var total float64
	for i := 0; i < k.Size; i++ {
		var row float64
		for j := 0; j < k.Size; j++ {
			row += float64(k.At(i, j))
		}
		taps[i] = row
		total += row
	}
	for i := range taps {
		taps[i] /= total
	}
	return taps
}
