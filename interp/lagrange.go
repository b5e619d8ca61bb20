package interp

import "github.com/navkernel/almanac/kerrors"

// LagrangeEval evaluates the Lagrange interpolating polynomial through
// (xs[i], ys[i]) at xEval using Neville's algorithm, per spec.md §4.3.
func LagrangeEval(xs, ys []float64, xEval float64) (float64, error) {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0, kerrors.Action(&kerrors.FileRecordError{Reason: "lagrange xs/ys length mismatch or empty"}, "evaluating Lagrange series")
	}
	if n > MaxSamples {
		return 0, kerrors.Action(&kerrors.FileRecordError{Reason: "lagrange sample count exceeds MaxSamples"}, "evaluating Lagrange series")
	}

	var w [MaxSamples]float64
	copy(w[:n], ys)

	for j := 1; j <= n-1; j++ {
		for i := 0; i <= n-1-j; i++ {
			denom := xs[i] - xs[i+j]
			if absf(denom) < divisionEpsilon {
				return 0, kerrors.Action(&kerrors.DuplicateAbscissaError{Value: xs[i]}, "evaluating Lagrange series")
			}
			w[i] = ((xEval-xs[i+j])*w[i] + (xs[i]-xEval)*w[i+1]) / denom
		}
	}
	return w[0], nil
}
