package almanac

import (
	"math"

	"github.com/navkernel/almanac/epoch"
	"github.com/navkernel/almanac/frame"
	"github.com/navkernel/almanac/kerrors"
	"github.com/navkernel/almanac/state"
)

// LocalSolarTime returns the approximate local solar time, in hours, of a
// body-fixed observer station, derived from the Sun's hour angle in the
// station's body-fixed frame. This is a supplemented feature (SPEC_FULL.md
// §12, Open Question Q2): it is NOT corrected for the equation of time or
// for DUT1, so it should be read as "mean solar time" rather than "apparent
// solar time" — adequate for a quick-look almanac query, not for
// timekeeping-grade work.
func (a *Almanac) LocalSolarTime(observer state.CartesianState, t epoch.Epoch) (float64, error) {
	lonDeg := observer.GeodeticLongitudeDeg()

	sunFrame := frame.New(SunID, observer.Frame.OrientationID)
	sunState, err := a.Translate(sunFrame, observer.Frame, t, nil)
	if err != nil {
		return 0, kerrors.Action(err, "locating the Sun relative to the observer's body-fixed frame")
	}

	sunLonDeg := degreesFromRad(math.Atan2(sunState.PositionKm[1], sunState.PositionKm[0]))
	hourAngleDeg := between0And360Deg(lonDeg - sunLonDeg + 180)
	return hourAngleDeg / 15.0, nil
}
