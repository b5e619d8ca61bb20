package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChebyshevPositionOnlyEvaluate(t *testing.T) {
	// One record, degree 1: x(tau) = 2 + 3*tau, y(tau) = 5, z(tau) = 0.
	record := []float64{0, 10, 2, 3, 5, 0, 0, 0}
	trailer := []float64{0, 20, 8, 1} // initEpoch, interval, recordSize, nRecords
	data := append(append([]float64{}, record...), trailer...)

	cs, err := FromDoublesChebyshev(data, false)
	require.NoError(t, err)

	pv, err := cs.Evaluate(5)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, pv.Position[0], 1e-9)
	assert.InDelta(t, 5.0, pv.Position[1], 1e-9)
	assert.InDelta(t, 0.0, pv.Position[2], 1e-9)
	assert.InDelta(t, 0.3, pv.Velocity[0], 1e-9)
	assert.InDelta(t, 0.0, pv.Velocity[1], 1e-9)
}

func TestChebyshevWithVelocityPolyUsesItsOwnSeries(t *testing.T) {
	// Degree 0 (constant) posCoeffs and velCoeffs: position poly has a zero
	// derivative, so the decoded velocity must come from velCoeffs, not from
	// differentiating posCoeffs.
	record := []float64{0, 10, 1, 2, 3, 4, 5, 6}
	trailer := []float64{0, 20, 8, 1}
	data := append(append([]float64{}, record...), trailer...)

	cs, err := FromDoublesChebyshev(data, true)
	require.NoError(t, err)

	pv, err := cs.Evaluate(0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, pv.Position[0], 1e-9)
	assert.InDelta(t, 2.0, pv.Position[1], 1e-9)
	assert.InDelta(t, 3.0, pv.Position[2], 1e-9)
	assert.InDelta(t, 4.0, pv.Velocity[0], 1e-9)
	assert.InDelta(t, 5.0, pv.Velocity[1], 1e-9)
	assert.InDelta(t, 6.0, pv.Velocity[2], 1e-9)
}

func TestChebyshevRejectsNonPositiveTrailer(t *testing.T) {
	record := []float64{0, 10, 2, 3, 5, 0, 0, 0}
	trailer := []float64{0, 0, 8, 1} // zero interval
	data := append(append([]float64{}, record...), trailer...)

	_, err := FromDoublesChebyshev(data, false)
	require.Error(t, err)
}
