package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAndEqual(t *testing.T) {
	a := New(399, 1)
	b := New(399, 1)
	c := New(301, 1)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestWithMuSetsCelestial(t *testing.T) {
	f := New(399, 1)
	assert.False(t, f.IsCelestial())
	f = f.WithMu(398600.4418)
	assert.True(t, f.IsCelestial())
	assert.Equal(t, 398600.4418, f.Mu)
}

func TestWithEllipsoidSetsGeodetic(t *testing.T) {
	f := New(399, 1)
	assert.False(t, f.IsGeodetic())
	e := Ellipsoid{SemiMajorRadiusKm: 6378.137, SemiMinorRadiusKm: 6378.137, PolarRadiusKm: 6356.752}
	f = f.WithEllipsoid(e)
	assert.True(t, f.IsGeodetic())
	assert.Equal(t, e, f.Ellipsoid)
}

func TestWithEphemerisAndOrientationID(t *testing.T) {
	f := New(399, 1)
	f2 := f.WithEphemerisID(301)
	assert.Equal(t, int32(301), f2.EphemerisID)
	assert.Equal(t, int32(1), f2.OrientationID)

	f3 := f.WithOrientationID(399)
	assert.Equal(t, int32(399), f3.EphemerisID)
	assert.Equal(t, int32(399), f3.OrientationID)
}

func TestEllipsoidFlattening(t *testing.T) {
	e := Ellipsoid{SemiMajorRadiusKm: 6378.137, PolarRadiusKm: 6356.752}
	assert.InDelta(t, 0.0033528, e.Flattening(), 1e-6)
	assert.Equal(t, 0.0, Ellipsoid{}.Flattening())
}

func TestEllipsoidMeanEquatorialRadius(t *testing.T) {
	e := Ellipsoid{SemiMajorRadiusKm: 10, SemiMinorRadiusKm: 20}
	assert.Equal(t, 15.0, e.MeanEquatorialRadiusKm())
}

func TestOriginMatches(t *testing.T) {
	a := New(399, 1)
	b := New(399, 2)
	c := New(301, 1)
	assert.True(t, a.EphemerisOriginMatches(b))
	assert.False(t, a.EphemerisOriginMatches(c))
	assert.True(t, a.OrientationOriginMatches(c))
	assert.False(t, a.OrientationOriginMatches(b))
}
