package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navkernel/almanac/epoch"
	"github.com/navkernel/almanac/frame"
)

func earthFrame() frame.Frame {
	return frame.New(399, 1).WithMu(398600.4418)
}

func TestFromKeplerianToKeplerianRoundTrip(t *testing.T) {
	k := Keplerian{SMAKm: 8000, Ecc: 0.1, IncDeg: 45, RAANDeg: 30, AOPDeg: 60, TADeg: 90}
	e := epoch.FromTDBSeconds(0)
	f := earthFrame()

	cs, err := FromKeplerian(k, e, f)
	require.NoError(t, err)

	back, err := cs.ToKeplerian()
	require.NoError(t, err)

	assert.InDelta(t, k.SMAKm, back.SMAKm, 1e-6)
	assert.InDelta(t, k.Ecc, back.Ecc, 1e-9)
	assert.InDelta(t, k.IncDeg, back.IncDeg, 1e-6)
	assert.InDelta(t, k.RAANDeg, back.RAANDeg, 1e-6)
	assert.InDelta(t, k.AOPDeg, back.AOPDeg, 1e-6)
	assert.InDelta(t, k.TADeg, back.TADeg, 1e-6)
}

func TestFromKeplerianRejectsMissingMu(t *testing.T) {
	k := Keplerian{SMAKm: 8000, Ecc: 0.1, IncDeg: 45, RAANDeg: 30, AOPDeg: 60, TADeg: 90}
	_, err := FromKeplerian(k, epoch.FromTDBSeconds(0), frame.New(399, 1))
	require.Error(t, err)
}

func TestFromKeplerianRejectsParabolic(t *testing.T) {
	k := Keplerian{SMAKm: 8000, Ecc: 1.0, IncDeg: 0, RAANDeg: 0, AOPDeg: 0, TADeg: 0}
	_, err := FromKeplerian(k, epoch.FromTDBSeconds(0), earthFrame())
	require.Error(t, err)
}

func TestFromApsisRadiiMatchesSMAAndEcc(t *testing.T) {
	cs, err := FromApsisRadii(8378.137, 6778.137, 45, 30, 60, 90, epoch.FromTDBSeconds(0), earthFrame())
	require.NoError(t, err)

	sma, err := cs.SmaKm()
	require.NoError(t, err)
	assert.InDelta(t, 7578.137, sma, 1e-6)

	ecc, err := cs.Ecc()
	require.NoError(t, err)
	assert.InDelta(t, (8378.137-6778.137)/(2*7578.137), ecc, 1e-6)
}

func TestCircularOrbitPeriodAndApsides(t *testing.T) {
	k := Keplerian{SMAKm: 7000, Ecc: 0.0001, IncDeg: 0, RAANDeg: 0, AOPDeg: 0, TADeg: 0}
	cs, err := FromKeplerian(k, epoch.FromTDBSeconds(0), earthFrame())
	require.NoError(t, err)

	period, err := cs.PeriodSec()
	require.NoError(t, err)
	assert.Greater(t, period, 0.0)
	assert.Less(t, period, 10000.0) // a 7000km-sma orbit takes well under 3 hours

	peri, err := cs.PeriapsisKm()
	require.NoError(t, err)
	apo, err := cs.ApoapsisKm()
	require.NoError(t, err)
	assert.Less(t, peri, apo)
}

func TestHvecRejectsZeroRadius(t *testing.T) {
	cs := New(0, 0, 0, 1, 2, 3, epoch.FromTDBSeconds(0), earthFrame())
	_, err := cs.Hvec()
	require.Error(t, err)
}
