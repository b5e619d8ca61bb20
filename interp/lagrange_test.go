package interp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navkernel/almanac/kerrors"
)

func TestLagrangeEvalReproducesQuadratic(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{0, 1, 4} // f(x) = x^2
	got, err := LagrangeEval(xs, ys, 1.5)
	require.NoError(t, err)
	assert.InDelta(t, 2.25, got, 1e-9)
}

func TestLagrangeEvalAtSampleReturnsSample(t *testing.T) {
	xs := []float64{0, 1, 2}
	ys := []float64{5, -3, 8}
	for i, x := range xs {
		got, err := LagrangeEval(xs, ys, x)
		require.NoError(t, err)
		assert.InDelta(t, ys[i], got, 1e-9)
	}
}

func TestLagrangeEvalMismatchedLengthsErrors(t *testing.T) {
	_, err := LagrangeEval([]float64{0, 1}, []float64{0}, 0.5)
	require.Error(t, err)
	var fr *kerrors.FileRecordError
	assert.True(t, errors.As(err, &fr))
}

func TestLagrangeEvalDuplicateAbscissaErrors(t *testing.T) {
	_, err := LagrangeEval([]float64{0, 0}, []float64{1, 2}, 0.5)
	require.Error(t, err)
	var dup *kerrors.DuplicateAbscissaError
	assert.True(t, errors.As(err, &dup))
}
