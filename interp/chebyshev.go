// Package interp implements the polynomial evaluators spec.md §4.3
// describes: Chebyshev (Clenshaw recurrence), Hermite divided-difference
// with derivative samples, Lagrange (Neville's algorithm), and the
// mean-anomaly/true-anomaly Kepler solve. All evaluators take their
// coefficients/samples by reference and use fixed-size stack workspaces
// (MaxSamples = 32) to avoid heap allocation on the hot path, per spec.md
// §9.
//
// The Chebyshev/Hermite/Lagrange recurrences are grounded on
// _examples/original_source/anise/src/math/interpolation/{chebyshev,hermite,lagrange}.rs,
// themselves transliterations of SPICE's chbval_/chbder_, hrmint_, and
// lgrint_. The teacher's interpolationInfo cache (mshafiee-jpleph
// internal_types.go) is the ancestor of ChebyshevWorkspace below.
package interp

import (
	"github.com/navkernel/almanac/kerrors"
)

// MaxSamples bounds every fixed-size workspace in this package, per
// spec.md §9 ("all workspaces are stack-allocated fixed-size arrays of
// MAX_SAMPLES = 32 elements").
const MaxSamples = 32

const divisionEpsilon = 2.220446049250313e-16 // float64 machine epsilon

// ChebyshevWorkspace holds the Clenshaw recurrence terms (and their
// derivative counterparts) for one evaluation, mirroring the layout of the
// teacher's interpolationInfo.posnCoeff/velCoeff cache. ChebyshevEval
// builds a fresh one on every call; no function in this package accepts a
// caller-supplied workspace, so nothing is cached between evaluations.
type ChebyshevWorkspace struct {
	w  [3]float64
	dw [3]float64
}

// ChebyshevEval evaluates a single Chebyshev series (one coordinate axis)
// at normalized time tau ∈ [-1, 1] via the Clenshaw recurrence described in
// spec.md §4.3 and S3, returning the value and its derivative with respect
// to *physical* time (the τ-space derivative divided by radiusSec).
func ChebyshevEval(tau float64, coeffs []float64, radiusSec float64) (value, deriv float64, err error) {
	if len(coeffs) == 0 {
		return 0, 0, kerrors.Action(&kerrors.TooFewDoublesError{Dataset: "chebyshev", Need: 1, Got: 0}, "evaluating Chebyshev series")
	}
	if absf(radiusSec) < divisionEpsilon {
		return 0, 0, kerrors.Action(&kerrors.DivisionByZeroError{Action: "Chebyshev spline radius is zero"}, "evaluating Chebyshev series")
	}

	n := len(coeffs) - 1 // degree
	var ws ChebyshevWorkspace
	for k := n; k >= 1; k-- {
		ws.w[2] = ws.w[1]
		ws.w[1] = ws.w[0]
		ws.w[0] = coeffs[k] + 2*tau*ws.w[1] - ws.w[2]

		ws.dw[2] = ws.dw[1]
		ws.dw[1] = ws.dw[0]
		ws.dw[0] = 2*ws.w[1] + 2*tau*ws.dw[1] - ws.dw[2]
	}

	value = coeffs[0] + (tau*ws.w[0] - ws.w[1])
	deriv = (ws.w[0] + tau*ws.dw[0] - ws.dw[1]) / radiusSec
	return value, deriv, nil
}

// ChebyshevEvalPositionOnly evaluates the series but skips the derivative
// recurrence, for type-2 (position-only) SPK segments where a separate
// velocity is obtained by differentiating the position polynomial (spec.md
// §4.2: "For type 2, velocity is the derivative of the position polynomial
// divided by radius") — which is exactly what ChebyshevEval already
// returns, so this is provided only for callers that want to skip the
// unused derivative workspace for a minor constant-factor saving.
func ChebyshevEvalPositionOnly(tau float64, coeffs []float64) (value float64, err error) {
	if len(coeffs) == 0 {
		return 0, kerrors.Action(&kerrors.TooFewDoublesError{Dataset: "chebyshev", Need: 1, Got: 0}, "evaluating Chebyshev series")
	}
	n := len(coeffs) - 1
	var w [3]float64
	for k := n; k >= 1; k-- {
		w[2] = w[1]
		w[1] = w[0]
		w[0] = coeffs[k] + 2*tau*w[1] - w[2]
	}
	return coeffs[0] + (tau*w[0] - w[1]), nil
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
