package almanac

import (
	"math"

	"github.com/navkernel/almanac/epoch"
	"github.com/navkernel/almanac/frame"
	"github.com/navkernel/almanac/kerrors"
	"github.com/navkernel/almanac/state"
)

// LineOfSightObstructed reports whether obstructingBody's ellipsoid blocks
// the straight line between observer and observed, per spec.md §4.5
// (Vallado Algorithm 35). Both states are re-expressed in obstructingBody's
// frame internally; abCorr applies to that re-expression, not to observer
// and observed themselves.
func (a *Almanac) LineOfSightObstructed(observer, observed state.CartesianState, obstructingBody frame.Frame, abCorr *Aberration) (bool, error) {
	if observer.Frame.Equal(observed.Frame) && observer.EqualWithin(observed, 0, 0) {
		return false, nil
	}

	obstructingBody = a.Constants.FrameInfo(obstructingBody)
	if !obstructingBody.HasEllipsoid {
		return false, wrapPhysics(kerrors.Action(&kerrors.MissingEllipsoidError{BodyID: obstructingBody.EphemerisID}, "checking line-of-sight obstruction"))
	}
	reqKm := obstructingBody.Ellipsoid.MeanEquatorialRadiusKm()

	r1State, err := a.TransformTo(observed, obstructingBody, abCorr)
	if err != nil {
		return false, wrapPhysics(kerrors.Action(err, "re-expressing observed body relative to the obstructing body"))
	}
	r2State, err := a.TransformTo(observer, obstructingBody, abCorr)
	if err != nil {
		return false, wrapPhysics(kerrors.Action(err, "re-expressing observer relative to the obstructing body"))
	}
	r1, r2 := r1State.PositionKm, r2State.PositionKm

	r1sq := r1.Dot(r1)
	r2sq := r2.Dot(r2)
	r1dotr2 := r1.Dot(r2)

	denom := r1sq + r2sq - 2*r1dotr2
	if math.Abs(denom) < epsilonAberration {
		return false, nil
	}
	tau := (r1sq - r1dotr2) / denom
	if tau < 0 || tau > 1 {
		return false, nil
	}
	return (1-tau)*r1sq+tau*r1dotr2 <= reqKm*reqKm, nil
}

// OccultationResult is the percentage of backFrame's apparent disc hidden
// by frontFrame, as seen from observer, per spec.md §4.5.
type OccultationResult struct {
	Epoch                 epoch.Epoch
	Percentage            float64
	BackFrame, FrontFrame frame.Frame
}

// Occultation computes the percentage of backFrame's disc occulted by
// frontFrame as seen from observer, per spec.md §4.5's circular-segment-area
// formula. A zero-radius (point-source) backFrame collapses to the binary
// LineOfSightObstructed check, returning 0% or 100%.
func (a *Almanac) Occultation(backFrame, frontFrame frame.Frame, observer state.CartesianState, abCorr *Aberration) (OccultationResult, error) {
	backFrame = a.Constants.FrameInfo(backFrame)
	frontFrame = a.Constants.FrameInfo(frontFrame)
	if !backFrame.HasEllipsoid {
		return OccultationResult{}, wrapPhysics(kerrors.Action(&kerrors.MissingEllipsoidError{BodyID: backFrame.EphemerisID}, "computing occultation percentage"))
	}
	if !frontFrame.HasEllipsoid {
		return OccultationResult{}, wrapPhysics(kerrors.Action(&kerrors.MissingEllipsoidError{BodyID: frontFrame.EphemerisID}, "computing occultation percentage"))
	}
	result := OccultationResult{Epoch: observer.Epoch, BackFrame: backFrame, FrontFrame: frontFrame}

	backRadiusKm := backFrame.Ellipsoid.MeanEquatorialRadiusKm()
	if backRadiusKm < epsilonAberration {
		backState, err := a.TransformTo(observer, backFrame, abCorr)
		if err != nil {
			return OccultationResult{}, wrapPhysics(kerrors.Action(err, "re-expressing observer relative to the occulted body"))
		}
		observed := state.FromVectors(backState.PositionKm.Neg(), backState.VelocityKmS.Neg(), observer.Epoch, backFrame)
		obstructed, err := a.LineOfSightObstructed(observer, observed, frontFrame, abCorr)
		if err != nil {
			return OccultationResult{}, err
		}
		if obstructed {
			result.Percentage = 100
		}
		return result, nil
	}

	j2000Back := backFrame.WithOrientationID(J2000OrientationID)
	j2000Front := frontFrame.WithOrientationID(J2000OrientationID)
	observerJ2000, err := a.TransformTo(observer, observer.Frame.WithOrientationID(J2000OrientationID), abCorr)
	if err != nil {
		return OccultationResult{}, wrapPhysics(kerrors.Action(err, "rotating observer into the inertial frame"))
	}

	rEBState, err := a.TransformTo(observerJ2000, j2000Front, abCorr)
	if err != nil {
		return OccultationResult{}, wrapPhysics(kerrors.Action(err, "locating the front body relative to the observer"))
	}
	rLSState, err := a.TransformTo(observerJ2000, j2000Back, abCorr)
	if err != nil {
		return OccultationResult{}, wrapPhysics(kerrors.Action(err, "locating the back body relative to the observer"))
	}
	rEB := rEBState.PositionKm
	rLS := rLSState.PositionKm.Neg()

	rLSPrime := apparentRadius(backRadiusKm, rLS.Norm())
	rFPrime := apparentRadius(frontFrame.Ellipsoid.MeanEquatorialRadiusKm(), rEB.Norm())
	dPrime := math.Acos(-(rLS.Dot(rEB)) / (rEB.Norm() * rLS.Norm()))

	switch {
	case dPrime-rLSPrime > rFPrime:
		result.Percentage = 0
	case rFPrime > dPrime+rLSPrime:
		result.Percentage = 100
	case math.Abs(rLSPrime-rFPrime) < dPrime && dPrime < rLSPrime+rFPrime:
		d1 := (dPrime*dPrime - rLSPrime*rLSPrime + rFPrime*rFPrime) / (2 * dPrime)
		d2 := (dPrime*dPrime + rLSPrime*rLSPrime - rFPrime*rFPrime) / (2 * dPrime)
		shadowArea := circularSegmentArea(rFPrime, d1) + circularSegmentArea(rLSPrime, d2)
		nominalArea := math.Pi * rLSPrime * rLSPrime
		result.Percentage = 100 * shadowArea / nominalArea
	default:
		// Annular: the front body's apparent disc lies entirely within
		// the back body's, covering only the fraction of its area.
		result.Percentage = 100 * rFPrime * rFPrime / (rLSPrime * rLSPrime)
	}

	if result.Percentage < 0 {
		result.Percentage = 0
	}
	if result.Percentage > 100 {
		result.Percentage = 100
	}
	return result, nil
}

// apparentRadius converts a body's physical radius at a given distance into
// an apparent angular radius (radians). When the body is nearer than its
// own radius (degenerate/inside-the-body geometry) the physical radius is
// returned unconverted, matching the source algorithm's handling of that
// edge case.
func apparentRadius(radiusKm, distanceKm float64) float64 {
	if radiusKm >= distanceKm {
		return radiusKm
	}
	return math.Asin(radiusKm / distanceKm)
}

// circularSegmentArea is the area of a circular segment of a disc of
// radius r cut by a chord at distance d from the center, per spec.md §4.5.
func circularSegmentArea(r, d float64) float64 {
	return r*r*math.Acos(d/r) - d*math.Sqrt(r*r-d*d)
}
