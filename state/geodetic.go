package state

import (
	"math"

	"github.com/navkernel/almanac/epoch"
	"github.com/navkernel/almanac/frame"
	"github.com/navkernel/almanac/internal/linalg"
	"github.com/navkernel/almanac/kerrors"
)

// FromGeodetic builds a body-fixed CartesianState from geodetic latitude
// (deg), longitude (deg), height (km) and an angular velocity (rad/s), per
// spec.md §4.4. Direct port of orbit_geodetic.rs's from_altlatlong.
func FromGeodetic(latDeg, lonDeg, heightKm, angularVelocityRadS float64, e epoch.Epoch, f frame.Frame) (CartesianState, error) {
	if !f.HasEllipsoid {
		return CartesianState{}, kerrors.Action(&kerrors.MissingEllipsoidError{BodyID: f.EphemerisID}, "converting geodetic coordinates to Cartesian")
	}
	flattening := f.Ellipsoid.Flattening()
	a := f.Ellipsoid.SemiMajorRadiusKm

	pos := BodyFixedRadiusVector(latDeg, lonDeg, heightKm, a, flattening)
	vel := linalg.Vec3{0, 0, angularVelocityRadS}.Cross(pos)

	return FromVectors(pos, vel, e, f), nil
}

// GeodeticLongitudeDeg returns the geodetic longitude in [0, 360) degrees.
func (s CartesianState) GeodeticLongitudeDeg() float64 {
	return between0And360(degrees(math.Atan2(s.PositionKm[1], s.PositionKm[0])))
}

// GeodeticLatitudeDeg returns the geodetic latitude in [-180, 180] degrees,
// via the Vallado Algorithm 12 iteration spec.md §4.4 specifies (converge
// when Δφ < 1e-12 or after 20 iterations).
func (s CartesianState) GeodeticLatitudeDeg() (float64, error) {
	if !s.Frame.HasEllipsoid {
		return 0, kerrors.Action(&kerrors.MissingEllipsoidError{BodyID: s.Frame.EphemerisID}, "computing geodetic latitude")
	}
	const eps = 1e-12
	const maxAttempts = 20

	flattening := s.Frame.Ellipsoid.Flattening()
	a := s.Frame.Ellipsoid.SemiMajorRadiusKm
	e2 := flattening * (2 - flattening)

	rDelta := math.Hypot(s.PositionKm[0], s.PositionKm[1])
	latitude := math.Asin(s.PositionKm[2] / s.RmagKm())

	for attempt := 0; attempt < maxAttempts; attempt++ {
		cEarth := a / math.Sqrt(1-e2*math.Sin(latitude)*math.Sin(latitude))
		newLatitude := math.Atan2(s.PositionKm[2]+cEarth*e2*math.Sin(latitude), rDelta)
		if absf(latitude-newLatitude) < eps {
			return betweenPlusMinus180(degrees(newLatitude)), nil
		}
		latitude = newLatitude
	}
	return betweenPlusMinus180(degrees(latitude)), nil
}

// GeodeticHeightKm returns the geodetic height above the ellipsoid, in
// kilometers, per Vallado Algorithm 12.
func (s CartesianState) GeodeticHeightKm() (float64, error) {
	if !s.Frame.HasEllipsoid {
		return 0, kerrors.Action(&kerrors.MissingEllipsoidError{BodyID: s.Frame.EphemerisID}, "computing geodetic height")
	}
	flattening := s.Frame.Ellipsoid.Flattening()
	a := s.Frame.Ellipsoid.SemiMajorRadiusKm
	e2 := flattening * (2 - flattening)

	latDeg, err := s.GeodeticLatitudeDeg()
	if err != nil {
		return 0, err
	}
	latRad := radians(latDeg)
	sinLat := math.Sin(latRad)

	if absf(latRad-math.Pi/2) < 0.1 || absf(latRad+math.Pi/2) < 0.1 {
		sEarth := (a * (1 - flattening) * (1 - flattening)) / math.Sqrt(1-e2*sinLat*sinLat)
		return s.PositionKm[2]/sinLat - sEarth, nil
	}
	cEarth := a / math.Sqrt(1-e2*sinLat*sinLat)
	rDelta := math.Hypot(s.PositionKm[0], s.PositionKm[1])
	return rDelta/math.Cos(latRad) - cEarth, nil
}

// SMAAltitudeKm returns the semi-major axis altitude above the reference
// ellipsoid's equatorial radius, in kilometers.
func (s CartesianState) SMAAltitudeKm() (float64, error) {
	if !s.Frame.HasEllipsoid {
		return 0, kerrors.Action(&kerrors.MissingEllipsoidError{BodyID: s.Frame.EphemerisID}, "computing SMA altitude")
	}
	sma, err := s.SmaKm()
	if err != nil {
		return 0, err
	}
	return sma - s.Frame.Ellipsoid.SemiMajorRadiusKm, nil
}
