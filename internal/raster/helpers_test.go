package raster

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func noise(t testing.TB, width, height int, seed int64) *Raster {
	t.Helper()
	r, err := New(width, height)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(seed))
	for i := range r.Pix {
		r.Pix[i] = uint8(rng.Intn(256))
	}
	return r
}

func variance(r *Raster) float64 {
	var sum, sumSq float64
	for _, v := range r.Pix {
		f := float64(v)
		sum += f
		sumSq += f * f
	}
	n := float64(len(r.Pix))
	mean := sum / n
	return sumSq/n - mean*mean
}
