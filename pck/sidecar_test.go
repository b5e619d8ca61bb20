package pck

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navkernel/almanac/frame"
)

func sampleRecords() []Record {
	return []Record{
		{
			ID: 399, Name: "EARTH",
			Mu: 398600.4418, HasMu: true,
			Ellipsoid:    frame.Ellipsoid{SemiMajorRadiusKm: 6378.137, SemiMinorRadiusKm: 6378.137, PolarRadiusKm: 6356.752},
			HasEllipsoid: true,
			PoleRA:       [3]float64{0, -0.641, 0},
			PoleDec:      [3]float64{90, -0.557, 0},
			PolePM:       [3]float64{190.147, 360.9856235, 0},
		},
		{ID: 10, Name: "SUN", Mu: 132712440018.0, HasMu: true},
	}
}

func TestSidecarRoundTripWithoutCRC(t *testing.T) {
	meta := Metadata{Originator: "navkernel", Semver: "1.0.0", CreatedAt: time.Unix(1700000000, 0).UTC()}
	buf := EncodeSidecar(meta, sampleRecords(), false)

	gotMeta, gotRecords, err := DecodeSidecar(buf)
	require.NoError(t, err)
	assert.Equal(t, meta.Originator, gotMeta.Originator)
	assert.Equal(t, meta.Semver, gotMeta.Semver)
	assert.Equal(t, meta.CreatedAt, gotMeta.CreatedAt)
	require.Len(t, gotRecords, 2)
	assert.Equal(t, "EARTH", gotRecords[0].Name)
	assert.Equal(t, 398600.4418, gotRecords[0].Mu)
	assert.True(t, gotRecords[0].HasEllipsoid)
	assert.True(t, gotRecords[0].HasPole)
	assert.Equal(t, "SUN", gotRecords[1].Name)
	assert.False(t, gotRecords[1].HasEllipsoid)
}

func TestSidecarRoundTripWithCRC(t *testing.T) {
	meta := Metadata{Originator: "navkernel", Semver: "1.0.0", CreatedAt: time.Unix(1700000000, 0).UTC()}
	buf := EncodeSidecar(meta, sampleRecords(), true)

	_, gotRecords, err := DecodeSidecar(buf)
	require.NoError(t, err)
	require.Len(t, gotRecords, 2)
}

func TestSidecarDetectsCorruptedCRC(t *testing.T) {
	meta := Metadata{Originator: "navkernel", Semver: "1.0.0", CreatedAt: time.Unix(1700000000, 0).UTC()}
	buf := EncodeSidecar(meta, sampleRecords(), true)
	buf[len(buf)-2] ^= 0xFF // flip every bit of one byte of the stored CRC

	_, _, err := DecodeSidecar(buf)
	require.Error(t, err)
}

func TestSidecarRejectsBadMagic(t *testing.T) {
	buf := EncodeSidecar(Metadata{}, nil, false)
	buf[0] = 'X'
	_, _, err := DecodeSidecar(buf)
	require.Error(t, err)
}

func TestSidecarRejectsTruncatedBuffer(t *testing.T) {
	_, _, err := DecodeSidecar(make([]byte, 4))
	require.Error(t, err)
}
