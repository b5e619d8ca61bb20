package interp

import "github.com/navkernel/almanac/kerrors"

// HermiteEval builds the Hermite divided-difference table described in
// spec.md §4.3 from strictly monotonic abscissas xs, ordinates ys, and
// derivatives yps (all the same length N ∈ [2, MaxSamples]), and evaluates
// it and its derivative at xEval. It is a direct transliteration of
// CSPICE's hrmint_ (see
// _examples/original_source/anise/src/math/interpolation/hermite.rs for
// the Rust intermediate step this was further ported from), using a single
// flat scratch buffer instead of a 2-D table.
func HermiteEval(xs, ys, yps []float64, xEval float64) (value, deriv float64, err error) {
	n := len(xs)
	if n == 0 {
		return 0, 0, kerrors.Action(&kerrors.TooFewDoublesError{Dataset: "hermite", Need: 2, Got: 0}, "evaluating Hermite series")
	}
	if n != len(ys) || n != len(yps) {
		return 0, 0, kerrors.Action(&kerrors.FileRecordError{Reason: "hermite xs/ys/yps length mismatch"}, "evaluating Hermite series")
	}
	if n < 2 {
		return 0, 0, kerrors.Action(&kerrors.TooFewDoublesError{Dataset: "hermite", Need: 2, Got: n}, "evaluating Hermite series")
	}
	if n > MaxSamples {
		return 0, 0, kerrors.Action(&kerrors.FileRecordError{Reason: "hermite sample count exceeds MaxSamples"}, "evaluating Hermite series")
	}

	var work [8 * MaxSamples]float64

	// Column 0: alternates y_i, y'_i.
	for i := 0; i < n; i++ {
		work[2*i] = ys[i]
		work[2*i+1] = yps[i]
	}

	// Column 1: Taylor extrapolations (odd slots) and secant slopes (the
	// derivative half of the table, offset by 2n-1).
	for i := 1; i <= n-1; i++ {
		c1 := xs[i] - xEval
		c2 := xEval - xs[i-1]
		denom := xs[i] - xs[i-1]
		if absf(denom) < divisionEpsilon {
			return 0, 0, kerrors.Action(&kerrors.DuplicateAbscissaError{Value: xs[i]}, "evaluating Hermite series")
		}

		prev := 2*i - 1
		curr := 2 * i
		work[prev+2*n-1] = work[prev]
		work[prev+1+2*n-1] = (work[curr] - work[prev-1]) / denom

		temp := work[prev]*(xEval-xs[i-1]) + work[prev-1]
		work[prev] = (c1*work[prev-1] + c2*work[curr]) / denom
		work[prev-1] = temp
	}

	work[2*(2*n-1)] = work[2*n-1]
	work[2*(n-1)] += work[2*n-1] * (xEval - xs[n-1])

	for j := 2; j <= 2*n-1; j++ {
		for i := 1; i <= 2*n-j; i++ {
			xiIdx := ceilDiv(i, 2) - 1
			xijIdx := ceilDiv(i+j, 2) - 1

			c1 := xs[xijIdx] - xEval
			c2 := xEval - xs[xiIdx]
			denom := xs[xijIdx] - xs[xiIdx]
			if absf(denom) < divisionEpsilon {
				return 0, 0, kerrors.Action(&kerrors.DuplicateAbscissaError{Value: xs[xijIdx]}, "evaluating Hermite series")
			}

			funcI := work[i]
			funcIm1 := work[i-1]
			derivIm1 := work[(i-1)+2*n]
			derivI := work[i+2*n]

			work[(i-1)+2*n] = (c1*derivIm1 + c2*derivI + (funcI - funcIm1)) / denom
			work[i-1] = (c1*funcIm1 + c2*funcI) / denom
		}
	}

	return work[0], work[2*n], nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
