package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDispatchesChebyshev(t *testing.T) {
	record := []float64{0, 10, 2, 3, 5, 0, 0, 0}
	trailer := []float64{0, 20, 8, 1}
	data := append(append([]float64{}, record...), trailer...)

	seg, err := Decode(DataTypeChebyshevPositionOnly, data)
	require.NoError(t, err)
	_, ok := seg.(*ChebyshevSet)
	assert.True(t, ok)
}

func TestDecodeDispatchesLagrange(t *testing.T) {
	data := linearMotionStates(3)
	data = append(data, 0, 1, 2, 3)

	seg, err := Decode(DataTypeLagrangeEqualStep, data)
	require.NoError(t, err)
	_, ok := seg.(*LagrangeSet)
	assert.True(t, ok)
}

func TestDecodeDispatchesHermite(t *testing.T) {
	data := linearMotionStates(3)
	data = append(data, 0, 1, 2, 3)

	seg, err := Decode(DataTypeHermiteEqualStep, data)
	require.NoError(t, err)
	_, ok := seg.(*HermiteSet)
	assert.True(t, ok)
}

func TestDecodeDispatchesMDA(t *testing.T) {
	rec := buildMDARecord(0, [3]float64{1, 2, 3}, [3]float64{0, 0, 0}, 2, [3]float64{1, 1, 1})
	data := append(append([]float64{}, rec...), 0, 0, 1)

	seg, err := Decode(DataTypeMDA, data)
	require.NoError(t, err)
	_, ok := seg.(*MDASet)
	assert.True(t, ok)

	seg21, err := Decode(DataTypeMDAAlt, data)
	require.NoError(t, err)
	_, ok = seg21.(*MDASet)
	assert.True(t, ok)
}

func TestDecodeRejectsUnknownDataType(t *testing.T) {
	_, err := Decode(9999, []float64{1, 2, 3})
	require.Error(t, err)
}
