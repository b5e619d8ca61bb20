package interp

import (
	"math"

	"github.com/navkernel/almanac/kerrors"
)

// eccEpsilon bounds how close to a parabola (e == 1) the elliptic/hyperbolic
// solvers below will tolerate before refusing to converge, per spec.md §5.4.
const eccEpsilon = 1e-11

// maxKeplerIterations caps the Newton solve so a pathological input cannot
// loop forever, per spec.md §5.4.
const maxKeplerIterations = 1000

// MeanToTrueAnomaly solves Kepler's equation for the true anomaly (radians)
// given mean anomaly (radians) and eccentricity, per spec.md §5.4. Elliptic
// orbits (e < 1) use the classical Newton iteration on M = E - e·sin(E);
// hyperbolic orbits (e > 1) use the analogous iteration on M = e·sinh(H) - H.
// Near-parabolic eccentricities (|e - 1| < eccEpsilon) are rejected, since
// both iterations lose quadratic convergence there.
func MeanToTrueAnomaly(meanAnomalyRad, ecc float64) (trueAnomalyRad float64, err error) {
	if absf(ecc-1) < eccEpsilon {
		return 0, kerrors.Action(&kerrors.ParabolicEccentricityError{Eccentricity: ecc}, "solving Kepler's equation")
	}
	if ecc < 0 {
		return 0, kerrors.Action(&kerrors.DomainError{Action: "eccentricity must be non-negative", Value: ecc}, "solving Kepler's equation")
	}

	if ecc < 1 {
		eccAnom, err := solveEllipticKepler(meanAnomalyRad, ecc)
		if err != nil {
			return 0, err
		}
		sinHalf := math.Sqrt(1+ecc) * math.Sin(eccAnom/2)
		cosHalf := math.Sqrt(1-ecc) * math.Cos(eccAnom/2)
		return 2 * math.Atan2(sinHalf, cosHalf), nil
	}

	hypAnom, err := solveHyperbolicKepler(meanAnomalyRad, ecc)
	if err != nil {
		return 0, err
	}
	sinhHalf := math.Sqrt(ecc+1) * math.Sinh(hypAnom/2)
	coshHalf := math.Sqrt(ecc-1) * math.Cosh(hypAnom/2)
	return 2 * math.Atan2(sinhHalf, coshHalf), nil
}

// TrueToMeanAnomaly is the inverse of MeanToTrueAnomaly: given a true
// anomaly and eccentricity, it returns the mean anomaly directly (no
// iteration needed in this direction).
func TrueToMeanAnomaly(trueAnomalyRad, ecc float64) (meanAnomalyRad float64, err error) {
	if absf(ecc-1) < eccEpsilon {
		return 0, kerrors.Action(&kerrors.ParabolicEccentricityError{Eccentricity: ecc}, "computing mean anomaly")
	}
	if ecc < 1 {
		sinHalf := math.Sin(trueAnomalyRad/2) / math.Sqrt(1+ecc)
		cosHalf := math.Cos(trueAnomalyRad/2) / math.Sqrt(1-ecc)
		eccAnom := 2 * math.Atan2(sinHalf, cosHalf)
		return eccAnom - ecc*math.Sin(eccAnom), nil
	}

	cosNu := math.Cos(trueAnomalyRad)
	denom := 1 + ecc*cosNu
	if absf(denom) < divisionEpsilon {
		return 0, kerrors.Action(&kerrors.HyperbolicTrueAnomalyError{TrueAnomalyRad: trueAnomalyRad, Eccentricity: ecc}, "computing mean anomaly")
	}
	coshH := (ecc + cosNu) / denom
	if coshH < 1 {
		return 0, kerrors.Action(&kerrors.HyperbolicTrueAnomalyError{TrueAnomalyRad: trueAnomalyRad, Eccentricity: ecc}, "computing mean anomaly")
	}
	sign := 1.0
	if trueAnomalyRad < 0 {
		sign = -1.0
	}
	hypAnom := sign * math.Acosh(coshH)
	return ecc*math.Sinh(hypAnom) - hypAnom, nil
}

func solveEllipticKepler(meanAnomalyRad, ecc float64) (float64, error) {
	m := normalizeAngle(meanAnomalyRad)
	e := m
	if ecc > 0.8 {
		e = math.Pi
	}
	for i := 0; i < maxKeplerIterations; i++ {
		f := e - ecc*math.Sin(e) - m
		fPrime := 1 - ecc*math.Cos(e)
		if absf(fPrime) < divisionEpsilon {
			return 0, kerrors.Action(&kerrors.NonConvergenceError{Action: "elliptic Kepler solve", MaxIterations: maxKeplerIterations}, "solving Kepler's equation")
		}
		delta := f / fPrime
		e -= delta
		if absf(delta) < 1e-13 {
			return e, nil
		}
	}
	return 0, kerrors.Action(&kerrors.NonConvergenceError{Action: "elliptic Kepler solve", MaxIterations: maxKeplerIterations}, "solving Kepler's equation")
}

func solveHyperbolicKepler(meanAnomalyRad, ecc float64) (float64, error) {
	h := meanAnomalyRad
	if absf(h) < 1 {
		h = meanAnomalyRad
	} else {
		h = math.Copysign(math.Log(2*absf(meanAnomalyRad)/ecc+1.8), meanAnomalyRad)
	}
	for i := 0; i < maxKeplerIterations; i++ {
		f := ecc*math.Sinh(h) - h - meanAnomalyRad
		fPrime := ecc*math.Cosh(h) - 1
		if absf(fPrime) < divisionEpsilon {
			return 0, kerrors.Action(&kerrors.NonConvergenceError{Action: "hyperbolic Kepler solve", MaxIterations: maxKeplerIterations}, "solving Kepler's equation")
		}
		delta := f / fPrime
		h -= delta
		if absf(delta) < 1e-13 {
			return h, nil
		}
	}
	return 0, kerrors.Action(&kerrors.NonConvergenceError{Action: "hyperbolic Kepler solve", MaxIterations: maxKeplerIterations}, "solving Kepler's equation")
}

func normalizeAngle(rad float64) float64 {
	twoPi := 2 * math.Pi
	r := math.Mod(rad, twoPi)
	if r < 0 {
		r += twoPi
	}
	return r
}
