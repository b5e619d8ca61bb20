package almanac

import (
	"math"

	"github.com/navkernel/almanac/frame"
	"github.com/navkernel/almanac/kerrors"
	"github.com/navkernel/almanac/state"
)

// AzElRange is one azimuth/elevation/range/range-rate observation, per
// spec.md §4.5.
type AzElRange struct {
	IsValid          bool
	Obstructed       bool
	AzimuthDeg       float64
	ElevationDeg     float64
	RangeKm          float64
	RangeRateKmS     float64
	LightTimeSec     float64
}

// AzimuthElevationRange computes the topocentric azimuth, elevation, range,
// range-rate, and one-way light time of rx as seen from tx, per spec.md
// §4.5. tx must be a geodetic (ellipsoid-bearing) body-fixed state; P5's
// "a station observing itself" edge case returns IsValid=false rather than
// an error.
func (a *Almanac) AzimuthElevationRange(tx, rx state.CartesianState, obstructingBody *frame.Frame, abCorr *Aberration) (AzElRange, error) {
	if tx.Frame.Equal(rx.Frame) && tx.EqualWithin(rx, 0, 0) {
		return AzElRange{IsValid: false}, nil
	}
	if tx.Epoch.ToTDBSeconds() != rx.Epoch.ToTDBSeconds() {
		return AzElRange{}, wrapPhysics(kerrors.Action(&kerrors.FrameMismatchError{Reason: "transmitter and receiver states carry different epochs"}, "computing azimuth/elevation/range"))
	}

	result := AzElRange{IsValid: true}
	if obstructingBody != nil {
		obstructed, err := a.LineOfSightObstructed(tx, rx, *obstructingBody, abCorr)
		if err != nil {
			return AzElRange{}, kerrors.Action(err, "checking line-of-sight obstruction")
		}
		result.Obstructed = obstructed
	}

	latDeg, err := tx.GeodeticLatitudeDeg()
	if err != nil {
		return AzElRange{}, wrapPhysics(kerrors.Action(err, "computing transmitter geodetic latitude"))
	}
	lonDeg := tx.GeodeticLongitudeDeg()

	rxInTx, err := a.TransformTo(rx, tx.Frame, abCorr)
	if err != nil {
		return AzElRange{}, kerrors.Action(err, "re-expressing receiver relative to the transmitter's frame")
	}
	rhoBodyFixed := rxInTx.PositionKm.Sub(tx.PositionKm)
	rhoDotBodyFixed := rxInTx.VelocityKmS.Sub(tx.VelocityKmS)

	sezDCM := state.TopocentricDCM(latDeg, lonDeg)
	sezT := sezDCM.Transpose()
	rhoSEZ := sezT.MulVec(rhoBodyFixed)
	rhoDotSEZ := sezT.MulVec(rhoDotBodyFixed)

	rangeKm := rhoSEZ.Norm()
	if rangeKm < epsilonAberration {
		return AzElRange{}, wrapPhysics(kerrors.Action(&kerrors.DivisionByZeroError{Action: "transmitter and receiver coincide"}, "computing azimuth/elevation/range"))
	}

	result.RangeKm = rangeKm
	result.RangeRateKmS = rhoSEZ.Dot(rhoDotSEZ) / rangeKm
	result.ElevationDeg = degreesFromRad(math.Asin(rhoSEZ[2] / rangeKm))
	result.AzimuthDeg = between0And360Deg(degreesFromRad(math.Atan2(rhoSEZ[1], -rhoSEZ[0])))
	result.LightTimeSec = rangeKm / SpeedOfLightKmS

	return result, nil
}

func degreesFromRad(rad float64) float64 { return rad * 180.0 / math.Pi }

func between0And360Deg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
