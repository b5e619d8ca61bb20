package interp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navkernel/almanac/kerrors"
)

func TestChebyshevEvalConstant(t *testing.T) {
	value, deriv, err := ChebyshevEval(0.3, []float64{5}, 100)
	require.NoError(t, err)
	assert.Equal(t, 5.0, value)
	assert.Equal(t, 0.0, deriv)
}

func TestChebyshevEvalLinear(t *testing.T) {
	// f(tau) = 2 + 3*tau, over a 10-second radius.
	value, deriv, err := ChebyshevEval(0.5, []float64{2, 3}, 10)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, value, 1e-12)
	assert.InDelta(t, 0.3, deriv, 1e-12)
}

func TestChebyshevEvalEmptyCoeffsErrors(t *testing.T) {
	_, _, err := ChebyshevEval(0, nil, 1)
	require.Error(t, err)
	var tooFew *kerrors.TooFewDoublesError
	assert.True(t, errors.As(err, &tooFew))
}

func TestChebyshevEvalZeroRadiusErrors(t *testing.T) {
	_, _, err := ChebyshevEval(0, []float64{1, 2}, 0)
	require.Error(t, err)
	var divZero *kerrors.DivisionByZeroError
	assert.True(t, errors.As(err, &divZero))
}

func TestChebyshevEvalPositionOnlyMatchesValue(t *testing.T) {
	value, err := ChebyshevEvalPositionOnly(0.5, []float64{2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 3.5, value, 1e-12)
}
