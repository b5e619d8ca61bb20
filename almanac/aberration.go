package almanac

import (
	"math"
	"time"

	"github.com/navkernel/almanac/epoch"
	"github.com/navkernel/almanac/frame"
	"github.com/navkernel/almanac/internal/linalg"
	"github.com/navkernel/almanac/kerrors"
	"github.com/navkernel/almanac/state"
)

// SpeedOfLightKmS is the speed of light in km/s, per spec.md §4.5.
const SpeedOfLightKmS = 299792.458

// epsilonAberration guards the stellar-aberration rotation angle against a
// divide-by-near-zero when the observer's relative velocity is (numerically)
// parallel to the line of sight, per spec.md §4.5.
const epsilonAberration = 1e-12

// Aberration selects which light-time and stellar-aberration corrections
// Translate/Transform apply, per spec.md §4.5's "reception vs transmission
// mode, converged (3 iterations) vs unconverged (1 iteration) light-time,
// with an independent stellar-aberration flag."
type Aberration struct {
	// Converged selects the 3-iteration light-time solve over the
	// 1-iteration approximation.
	Converged bool
	// Stellar additionally applies the stellar aberration correction.
	Stellar bool
	// TransmitMode corrects for a signal sent from the observer arriving
	// at the target, rather than the default reception (signal left the
	// target and arrives at the observer now).
	TransmitMode bool
}

// Named presets matching the canonical SPICE aberration correction strings,
// per spec.md §4.5's enumeration (NONE/LT/LT+S/CN/CN+S/XLT/XLT+S/XCN/XCN+S).
var (
	None   *Aberration = nil
	LT                 = &Aberration{Converged: false, Stellar: false, TransmitMode: false}
	LTS                = &Aberration{Converged: false, Stellar: true, TransmitMode: false}
	CN                 = &Aberration{Converged: true, Stellar: false, TransmitMode: false}
	CNS                = &Aberration{Converged: true, Stellar: true, TransmitMode: false}
	XLT                = &Aberration{Converged: false, Stellar: false, TransmitMode: true}
	XLTS               = &Aberration{Converged: false, Stellar: true, TransmitMode: true}
	XCN                = &Aberration{Converged: true, Stellar: false, TransmitMode: true}
	XCNS               = &Aberration{Converged: true, Stellar: true, TransmitMode: true}
)

// ssbFrame is the always-available pivot Translate's aberration branch
// triangulates through, per spec.md §4.5: both the observer and the target
// are translated to the solar-system barycenter in the inertial J2000
// orientation before the light-time iteration begins.
func ssbFrame() frame.Frame {
	return frame.New(SolarSystemBarycenterID, J2000OrientationID)
}

// translateWithAberration implements the light-time (and optional stellar)
// aberration-corrected translation, per spec.md §4.5 and grounded on
// _examples/original_source/anise/src/ephemerides/translations.rs's
// translate_geometric/translate_with_light_time split.
func (a *Almanac) translateWithAberration(targetFrame, observerFrame frame.Frame, t epoch.Epoch, abCorr Aberration) (state.CartesianState, error) {
	ssb := ssbFrame()

	observerSSB, err := a.Translate(observerFrame, ssb, t, nil)
	if err != nil {
		return state.CartesianState{}, kerrors.Action(err, "locating observer relative to the solar-system barycenter")
	}
	targetSSB, err := a.Translate(targetFrame, ssb, t, nil)
	if err != nil {
		return state.CartesianState{}, kerrors.Action(err, "locating target relative to the solar-system barycenter")
	}

	relPos := targetSSB.PositionKm.Sub(observerSSB.PositionKm)
	relVel := targetSSB.VelocityKmS.Sub(observerSSB.VelocityKmS)
	oneWayLightTimeSec := relPos.Norm() / SpeedOfLightKmS

	numIterations := 1
	if abCorr.Converged {
		numIterations = 3
	}
	ltSign := -1.0
	if abCorr.TransmitMode {
		ltSign = 1.0
	}

	for i := 0; i < numIterations; i++ {
		lightTimeEpoch := t.Add(time.Duration(ltSign * oneWayLightTimeSec * float64(time.Second)))
		targetAtLT, err := a.Translate(targetFrame, ssb, lightTimeEpoch, nil)
		if err != nil {
			return state.CartesianState{}, kerrors.Action(err, "re-evaluating target position at the light-time-corrected epoch")
		}

		relPos = targetAtLT.PositionKm.Sub(observerSSB.PositionKm)
		rNorm := relPos.Norm()
		geomRelVel := targetAtLT.VelocityKmS.Sub(observerSSB.VelocityKmS)

		if rNorm > epsilonAberration {
			invCR := 1.0 / (SpeedOfLightKmS * rNorm)
			rDotVRel := relPos.Dot(geomRelVel)
			rDotVTgt := relPos.Dot(targetAtLT.VelocityKmS)
			denom := 1 - ltSign*rDotVTgt*invCR
			if math.Abs(denom) > epsilonAberration {
				dlt := (invCR * rDotVRel) / denom
				relVel = targetAtLT.VelocityKmS.Scale(1 + ltSign*dlt).Sub(observerSSB.VelocityKmS)
			} else {
				relVel = geomRelVel
			}
		} else {
			relVel = geomRelVel
		}
		oneWayLightTimeSec = rNorm / SpeedOfLightKmS
	}

	if abCorr.Stellar {
		corrected, err := ApplyStellarAberration(relPos, observerSSB.VelocityKmS, abCorr)
		if err != nil {
			return state.CartesianState{}, err
		}
		relPos = corrected
	}

	resultFrame := observerFrame.WithOrientationID(targetFrame.OrientationID)
	return state.FromVectors(relPos, relVel, t, resultFrame), nil
}

// ApplyStellarAberration rotates targetPosKm by the angle between the true
// and apparent line of sight an observer moving at observerVelKmS (relative to
// the solar-system barycenter) would see, per spec.md §4.5: rotate about
// h = r_hat x (v_obs/c) by phi = asin(|h|). abCorr.Stellar must be set, per
// spec.md §7's "stellar flag without the stellar field set" error case.
func ApplyStellarAberration(targetPosKm, observerVelKmS linalg.Vec3, abCorr Aberration) (linalg.Vec3, error) {
	if !abCorr.Stellar {
		return linalg.Vec3{}, wrapPhysics(kerrors.Action(&kerrors.StellarWithoutCorrectionError{}, "applying stellar aberration"))
	}
	obsVel := observerVelKmS
	if abCorr.TransmitMode {
		obsVel = obsVel.Neg()
	}
	vByC := obsVel.Scale(1.0 / SpeedOfLightKmS)
	if vByC.Dot(vByC) >= 1.0 {
		return linalg.Vec3{}, wrapPhysics(kerrors.Action(&kerrors.ObserverFasterThanLightError{SpeedKmS: obsVel.Norm()}, "applying stellar aberration"))
	}

	u := targetPosKm.Normalize()
	h := u.Cross(vByC)
	sinPhi := h.Norm()
	if sinPhi <= epsilonAberration {
		return targetPosKm, nil
	}
	phi := math.Asin(sinPhi)
	return linalg.RotateAboutAxis(targetPosKm, h, phi), nil
}
