package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHermiteEqualStepEvaluate(t *testing.T) {
	data := linearMotionStates(3)
	data = append(data, 0, 1, 2, 3) // initEpoch, step, windowSize, nRecords

	hs, err := FromDoublesHermiteEqualStep(data)
	require.NoError(t, err)

	pv, err := hs.Evaluate(1.5)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, pv.Position[0], 1e-9)
	assert.InDelta(t, 3.0, pv.Position[1], 1e-9)
	assert.InDelta(t, 4.5, pv.Position[2], 1e-9)
	assert.InDelta(t, 1.0, pv.Velocity[0], 1e-9)
	assert.InDelta(t, 2.0, pv.Velocity[1], 1e-9)
	assert.InDelta(t, 3.0, pv.Velocity[2], 1e-9)
}

func TestHermiteUnequalStepEvaluate(t *testing.T) {
	data := linearMotionStates(3)
	data = append(data, 0, 1, 2) // epochs, no directory needed for 3 records
	data = append(data, 2, 3)   // windowSize, nRecords

	hs, err := FromDoublesHermiteUnequalStep(data)
	require.NoError(t, err)

	pv, err := hs.Evaluate(1.5)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, pv.Position[0], 1e-9)
	assert.InDelta(t, 3.0, pv.Position[1], 1e-9)
	assert.InDelta(t, 4.5, pv.Position[2], 1e-9)
}

func TestHermiteUnequalStepRejectsNonIncreasingEpochs(t *testing.T) {
	data := linearMotionStates(3)
	data = append(data, 0, 2, 1)
	data = append(data, 2, 3)

	_, err := FromDoublesHermiteUnequalStep(data)
	require.Error(t, err)
}
