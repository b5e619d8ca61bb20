package almanac

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navkernel/almanac/epoch"
	"github.com/navkernel/almanac/frame"
	"github.com/navkernel/almanac/internal/linalg"
	"github.com/navkernel/almanac/kerrors"
)

func TestApplyStellarAberrationRequiresStellarFlag(t *testing.T) {
	_, err := ApplyStellarAberration(linalg.Vec3{1, 0, 0}, linalg.Vec3{1, 0, 0}, Aberration{Stellar: false})
	require.Error(t, err)
	var physErr *kerrors.PhysicsErr
	assert.True(t, errors.As(err, &physErr))
	var stellarErr *kerrors.StellarWithoutCorrectionError
	assert.True(t, errors.As(err, &stellarErr))
}

func TestApplyStellarAberrationRejectsSuperluminalObserver(t *testing.T) {
	tooFast := linalg.Vec3{SpeedOfLightKmS * 2, 0, 0}
	_, err := ApplyStellarAberration(linalg.Vec3{0, 1, 0}, tooFast, Aberration{Stellar: true})
	require.Error(t, err)
	var tooFastErr *kerrors.ObserverFasterThanLightError
	assert.True(t, errors.As(err, &tooFastErr))
}

func TestApplyStellarAberrationIsNoOpForStationaryObserver(t *testing.T) {
	pos := linalg.Vec3{1000, 0, 0}
	out, err := ApplyStellarAberration(pos, linalg.Vec3{}, Aberration{Stellar: true})
	require.NoError(t, err)
	assert.Equal(t, pos, out)
}

func TestApplyStellarAberrationRotatesTowardObserverVelocity(t *testing.T) {
	pos := linalg.Vec3{1000, 0, 0}
	vel := linalg.Vec3{0, 10, 0} // observer moving along +Y, line of sight along +X
	out, err := ApplyStellarAberration(pos, vel, Aberration{Stellar: true})
	require.NoError(t, err)
	// The apparent position tilts toward the velocity direction (+Y) while
	// preserving its magnitude, the defining property of aberration.
	assert.InDelta(t, pos.Norm(), out.Norm(), 1e-6)
	assert.Greater(t, out[1], 0.0)
}

func TestTranslateWithAberrationShiftsForLightTime(t *testing.T) {
	var a Almanac
	t0, t1 := -1e9, 1e9
	lightSec := 500.0
	distanceKm := lightSec * SpeedOfLightKmS

	// Target recedes from the barycenter at a steady clip so the light-time
	// correction (looking back in time) measurably differs from the
	// geometric (same-instant) position.
	a = addSPKSegment(a, MoonID, SolarSystemBarycenterID, t0, t1, linearSegment{
		refEpochSec: 0, pos0: linalg.Vec3{distanceKm, 0, 0}, vel: linalg.Vec3{0, 50, 0},
	})
	a = addSPKSegment(a, EarthID, SolarSystemBarycenterID, t0, t1, constSegment{})

	observer := frame.New(EarthID, J2000OrientationID)
	target := frame.New(MoonID, J2000OrientationID)
	e := epoch.FromTDBSeconds(0)

	geo, err := a.Translate(target, observer, e, nil)
	require.NoError(t, err)
	lt, err := a.Translate(target, observer, e, LT)
	require.NoError(t, err)

	assert.NotEqual(t, geo.PositionKm, lt.PositionKm)
	// Reception-mode light time looks into the target's past, i.e. at
	// negative relative time, so its Y component must be smaller than the
	// geometric (t=0) Y component since the target is moving in +Y.
	assert.Less(t, lt.PositionKm[1], geo.PositionKm[1])
}

func TestTranslateWithAberrationConvergedVsUnconverged(t *testing.T) {
	var a Almanac
	t0, t1 := -1e9, 1e9
	distanceKm := 500.0 * SpeedOfLightKmS
	a = addSPKSegment(a, MoonID, SolarSystemBarycenterID, t0, t1, linearSegment{
		refEpochSec: 0, pos0: linalg.Vec3{distanceKm, 0, 0}, vel: linalg.Vec3{0, 50, 0},
	})
	a = addSPKSegment(a, EarthID, SolarSystemBarycenterID, t0, t1, constSegment{})

	observer := frame.New(EarthID, J2000OrientationID)
	target := frame.New(MoonID, J2000OrientationID)
	e := epoch.FromTDBSeconds(0)

	lt, err := a.Translate(target, observer, e, LT)
	require.NoError(t, err)
	cn, err := a.Translate(target, observer, e, CN)
	require.NoError(t, err)

	// Both corrections move the apparent position in the same direction
	// relative to the geometric one; the converged (3-iteration) solve
	// refines rather than reverses the 1-iteration estimate.
	assert.Less(t, cn.PositionKm[1], 0.0)
	assert.Less(t, lt.PositionKm[1], 0.0)
}
