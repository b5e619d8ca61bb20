package almanac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navkernel/almanac/epoch"
	"github.com/navkernel/almanac/frame"
	"github.com/navkernel/almanac/internal/linalg"
)

func earthEllipsoidFrame() frame.Frame {
	return frame.New(EarthID, J2000OrientationID).WithEllipsoid(frame.Ellipsoid{
		SemiMajorRadiusKm: 6378.137,
		SemiMinorRadiusKm: 6378.137,
		PolarRadiusKm:     6356.752,
	})
}

func TestLineOfSightObstructedByABodyBetweenThem(t *testing.T) {
	var a Almanac
	earth := earthEllipsoidFrame()
	e := epoch.FromTDBSeconds(0)

	observer := stateAt(linalg.Vec3{-20000, 0, 0}, linalg.Vec3{}, e, frame.New(EarthID, J2000OrientationID))
	observed := stateAt(linalg.Vec3{20000, 0, 0}, linalg.Vec3{}, e, frame.New(EarthID, J2000OrientationID))

	obstructed, err := a.LineOfSightObstructed(observer, observed, earth, nil)
	require.NoError(t, err)
	assert.True(t, obstructed)
}

func TestLineOfSightClearWhenBodyIsOffToTheSide(t *testing.T) {
	var a Almanac
	earth := earthEllipsoidFrame()
	e := epoch.FromTDBSeconds(0)

	observer := stateAt(linalg.Vec3{-20000, 50000, 0}, linalg.Vec3{}, e, frame.New(EarthID, J2000OrientationID))
	observed := stateAt(linalg.Vec3{20000, 50000, 0}, linalg.Vec3{}, e, frame.New(EarthID, J2000OrientationID))

	obstructed, err := a.LineOfSightObstructed(observer, observed, earth, nil)
	require.NoError(t, err)
	assert.False(t, obstructed)
}

func TestLineOfSightSelfObservationIsNeverObstructed(t *testing.T) {
	var a Almanac
	earth := earthEllipsoidFrame()
	e := epoch.FromTDBSeconds(0)
	observer := stateAt(linalg.Vec3{7000, 0, 0}, linalg.Vec3{}, e, frame.New(EarthID, J2000OrientationID))

	obstructed, err := a.LineOfSightObstructed(observer, observer, earth, nil)
	require.NoError(t, err)
	assert.False(t, obstructed)
}

func TestOccultationFullyHidden(t *testing.T) {
	var a Almanac
	e := epoch.FromTDBSeconds(0)
	sun := frame.New(SunID, J2000OrientationID).WithEllipsoid(frame.Ellipsoid{SemiMajorRadiusKm: 696000, SemiMinorRadiusKm: 696000, PolarRadiusKm: 696000})
	moon := frame.New(MoonID, J2000OrientationID).WithEllipsoid(frame.Ellipsoid{SemiMajorRadiusKm: 1737.4, SemiMinorRadiusKm: 1737.4, PolarRadiusKm: 1737.4})

	a = addSPKSegment(a, SunID, SolarSystemBarycenterID, -1e9, 1e9, constSegment{pos: linalg.Vec3{149597870, 0, 0}})
	// Closer than the Moon's real distance, so its apparent radius clearly
	// exceeds the Sun's and the alignment is an unambiguous total eclipse.
	a = addSPKSegment(a, MoonID, SolarSystemBarycenterID, -1e9, 1e9, constSegment{pos: linalg.Vec3{300000, 0, 0}})
	a = addSPKSegment(a, EarthID, SolarSystemBarycenterID, -1e9, 1e9, constSegment{})

	observer := stateAt(linalg.Vec3{}, linalg.Vec3{}, e, frame.New(EarthID, J2000OrientationID))
	result, err := a.Occultation(sun, moon, observer, nil)
	require.NoError(t, err)
	// Moon sits exactly on the Earth-Sun line and is much closer: a total
	// solar eclipse, full occultation.
	assert.InDelta(t, 100.0, result.Percentage, 1e-6)
}

func TestOccultationNoneWhenFarApart(t *testing.T) {
	var a Almanac
	e := epoch.FromTDBSeconds(0)
	sun := frame.New(SunID, J2000OrientationID).WithEllipsoid(frame.Ellipsoid{SemiMajorRadiusKm: 696000, SemiMinorRadiusKm: 696000, PolarRadiusKm: 696000})
	moon := frame.New(MoonID, J2000OrientationID).WithEllipsoid(frame.Ellipsoid{SemiMajorRadiusKm: 1737.4, SemiMinorRadiusKm: 1737.4, PolarRadiusKm: 1737.4})

	a = addSPKSegment(a, SunID, SolarSystemBarycenterID, -1e9, 1e9, constSegment{pos: linalg.Vec3{149597870, 0, 0}})
	a = addSPKSegment(a, MoonID, SolarSystemBarycenterID, -1e9, 1e9, constSegment{pos: linalg.Vec3{0, 384400, 0}})
	a = addSPKSegment(a, EarthID, SolarSystemBarycenterID, -1e9, 1e9, constSegment{})

	observer := stateAt(linalg.Vec3{}, linalg.Vec3{}, e, frame.New(EarthID, J2000OrientationID))
	result, err := a.Occultation(sun, moon, observer, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, result.Percentage, 1e-6)
}

func TestOccultationMissingEllipsoidErrors(t *testing.T) {
	var a Almanac
	e := epoch.FromTDBSeconds(0)
	sun := frame.New(SunID, J2000OrientationID) // no ellipsoid
	moon := frame.New(MoonID, J2000OrientationID).WithEllipsoid(frame.Ellipsoid{SemiMajorRadiusKm: 1737.4, SemiMinorRadiusKm: 1737.4, PolarRadiusKm: 1737.4})
	observer := stateAt(linalg.Vec3{}, linalg.Vec3{}, e, frame.New(EarthID, J2000OrientationID))

	_, err := a.Occultation(sun, moon, observer, nil)
	require.Error(t, err)
}
