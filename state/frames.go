package state

import (
	"math"

	"github.com/navkernel/almanac/internal/linalg"
	"github.com/navkernel/almanac/kerrors"
)

// TopocentricDCM returns the direction cosine matrix from the topocentric
// South-East-Zenith (SEZ) frame at latitude φ, longitude λ to the
// body-fixed frame (its transpose maps body-fixed vectors into SEZ), per
// spec.md §4.4: ẑ = (cos φ cos λ, cos φ sin λ, sin φ);
// ŷ = normalize((0,0,1) x ẑ); x̂ = ŷ x ẑ; DCM columns are (x̂, ŷ, ẑ).
func TopocentricDCM(latDeg, lonDeg float64) linalg.Mat3 {
	sinLat, cosLat := math.Sincos(radians(latDeg))
	sinLon, cosLon := math.Sincos(radians(lonDeg))

	z := linalg.Vec3{cosLat * cosLon, cosLat * sinLon, sinLat}
	y := linalg.Vec3{0, 0, 1}.Cross(z).Normalize()
	x := y.Cross(z)

	return linalg.Mat3FromColumns(x, y, z)
}

// TopocentricDCMRate estimates the time derivative of TopocentricDCM via
// the two-body-propagated finite difference spec.md §4.4 specifies
// ("numerical derivative of the DCM uses two-body propagation ±1 s").
// propagate must return the station's (lat, lon) at epoch+dtSec relative
// to the current epoch (dtSec may be negative); for a rigid, non-rotating
// body-fixed frame this is simply the same (latDeg, lonDeg) at every call,
// in which case the returned rate is the zero matrix.
func TopocentricDCMRate(latDeg, lonDeg float64, propagate func(dtSec float64) (latDeg, lonDeg float64)) linalg.Mat3 {
	latPlus, lonPlus := propagate(1.0)
	latMinus, lonMinus := propagate(-1.0)
	dcmPlus := TopocentricDCM(latPlus, lonPlus)
	dcmMinus := TopocentricDCM(latMinus, lonMinus)

	var rate linalg.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rate[i][j] = (dcmPlus[i][j] - dcmMinus[i][j]) / 2.0
		}
	}
	return rate
}

// RIC returns the Radial-Intrack-Crosstrack direction cosine matrix (from
// the RIC frame to the state's inertial frame) built from this state's
// orbital momentum vector h = r x v, per spec.md §4.4/§12: R̂ = r̂,
// Ĉ = ĥ, Î = Ĉ x R̂.
func (s CartesianState) RIC() (linalg.Mat3, error) {
	h, err := s.Hvec()
	if err != nil {
		return linalg.Mat3{}, kerrors.Action(err, "building RIC frame")
	}
	rHat := s.PositionKm.Normalize()
	cHat := h.Normalize()
	iHat := cHat.Cross(rHat)
	return linalg.Mat3FromColumns(rHat, iHat, cHat), nil
}

// VNC returns the Velocity-Normal-Crosstrack direction cosine matrix:
// V̂ = v̂, N̂ = ĥ, Ĉ = V̂ x N̂.
func (s CartesianState) VNC() (linalg.Mat3, error) {
	h, err := s.Hvec()
	if err != nil {
		return linalg.Mat3{}, kerrors.Action(err, "building VNC frame")
	}
	vHat := s.VelocityKmS.Normalize()
	nHat := h.Normalize()
	cHat := vHat.Cross(nHat)
	return linalg.Mat3FromColumns(vHat, nHat, cHat), nil
}

// RCN returns the Radial-Crosstrack-Normal direction cosine matrix:
// R̂ = r̂, N̂ = ĥ, Ĉ = N̂ x R̂.
func (s CartesianState) RCN() (linalg.Mat3, error) {
	h, err := s.Hvec()
	if err != nil {
		return linalg.Mat3{}, kerrors.Action(err, "building RCN frame")
	}
	rHat := s.PositionKm.Normalize()
	nHat := h.Normalize()
	cHat := nHat.Cross(rHat)
	return linalg.Mat3FromColumns(rHat, cHat, nHat), nil
}

// BodyFixedRadiusVector computes the body-fixed position implied by
// (latitude, longitude, height, semi-major radius, flattening), per
// spec.md §4.4: c_earth = a / sqrt(1 - e^2 sin^2 φ). Used both by
// FromGeodetic (station construction) and by the almanac's
// azimuth/elevation/range computation for ground observers.
func BodyFixedRadiusVector(latDeg, lonDeg, heightKm, semiMajorKm, flattening float64) linalg.Vec3 {
	e2 := flattening * (2 - flattening)
	sinLat, cosLat := math.Sincos(radians(latDeg))
	sinLon, cosLon := math.Sincos(radians(lonDeg))
	cEarth := semiMajorKm / math.Sqrt(1-e2*sinLat*sinLat)
	return linalg.Vec3{
		(cEarth + heightKm) * cosLat * cosLon,
		(cEarth + heightKm) * cosLat * sinLon,
		(cEarth*(1-e2) + heightKm) * sinLat,
	}
}

// MeanMotionRadS returns the mean motion n = sqrt(mu / |a|^3), per the
// standard two-body relation used throughout orbit.rs's derived-element
// accessors (spec.md §12 supplemented feature).
func (s CartesianState) MeanMotionRadS() (float64, error) {
	if !s.Frame.HasMu {
		return 0, kerrors.Action(&kerrors.MissingGravParamError{BodyID: s.Frame.EphemerisID}, "computing mean motion")
	}
	sma, err := s.SmaKm()
	if err != nil {
		return 0, err
	}
	return math.Sqrt(s.Frame.Mu / (absf(sma) * absf(sma) * absf(sma))), nil
}

// NodalPeriodSec returns 2π / mean motion, the time between successive
// ascending-node crossings for a Keplerian orbit (spec.md §12).
func (s CartesianState) NodalPeriodSec() (float64, error) {
	n, err := s.MeanMotionRadS()
	if err != nil {
		return 0, err
	}
	if n < 1e-30 {
		return 0, kerrors.Action(&kerrors.DivisionByZeroError{Action: "mean motion is zero"}, "computing nodal period")
	}
	return 2 * math.Pi / n, nil
}
