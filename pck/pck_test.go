package pck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navkernel/almanac/frame"
)

func TestDatasetLookupAndOverride(t *testing.T) {
	var d Dataset
	d.Load([]Record{{ID: 399, Name: "Earth", Mu: 398600.4418, HasMu: true}})

	r, ok := d.ByID(399)
	require.True(t, ok)
	assert.Equal(t, "Earth", r.Name)

	r, ok = d.ByName("earth")
	require.True(t, ok)
	assert.Equal(t, int32(399), r.ID)

	_, ok = d.ByID(301)
	assert.False(t, ok)

	// A later Load overrides an earlier one's record for the same id.
	d.Load([]Record{{ID: 399, Name: "Earth", Mu: 1.0, HasMu: true}})
	r, _ = d.ByID(399)
	assert.Equal(t, 1.0, r.Mu)
}

func TestDatasetMuOrError(t *testing.T) {
	var d Dataset
	d.Load([]Record{{ID: 10, Mu: 132712440018.0, HasMu: true}, {ID: 301, HasMu: false}})

	mu, err := d.MuOrError(10)
	require.NoError(t, err)
	assert.Equal(t, 132712440018.0, mu)

	_, err = d.MuOrError(301)
	assert.Error(t, err)

	_, err = d.MuOrError(999)
	assert.Error(t, err)
}

func TestDatasetFrameInfoLeavesUnknownFrameUnchanged(t *testing.T) {
	var d Dataset
	f := frame.New(999, 1)

	out := d.FrameInfo(f)
	assert.Equal(t, f, out)
}

func TestDatasetFrameInfoPopulatesMuAndEllipsoid(t *testing.T) {
	var d Dataset
	ellipsoid := frame.Ellipsoid{SemiMajorRadiusKm: 6378.137, SemiMinorRadiusKm: 6378.137, PolarRadiusKm: 6356.752}
	d.Load([]Record{{ID: 399, Mu: 398600.4418, HasMu: true, Ellipsoid: ellipsoid, HasEllipsoid: true}})

	f := frame.New(399, 1)
	out := d.FrameInfo(f)
	assert.True(t, out.IsCelestial())
	assert.True(t, out.IsGeodetic())
}

func TestOrientationDatasetPoleModel(t *testing.T) {
	var od OrientationDataset
	od.Load([]OrientationRecord{{
		ID:   399,
		Name: "IAU_EARTH",
		RA:   [2]float64{0, -0.641},
		Dec:  [2]float64{90, -0.557},
		PM:   [3]float64{190.147, 360.9856235, 0},
	}})

	ra, dec, pm, err := od.PoleRADecPMDeg(399, 1.0, 0.0)
	require.NoError(t, err)
	assert.InDelta(t, -0.641, ra, 1e-9)
	assert.InDelta(t, 89.443, dec, 1e-9)
	assert.InDelta(t, 190.147, pm, 1e-9)

	_, ok := od.ByName("iau_earth")
	assert.True(t, ok)

	_, _, _, err = od.PoleRADecPMDeg(301, 0, 0)
	assert.Error(t, err)
}
