package records

import (
	"sort"

	"github.com/navkernel/almanac/internal/linalg"
	"github.com/navkernel/almanac/interp"
	"github.com/navkernel/almanac/kerrors"
)

// LagrangeSet decodes SPK/BPC data types 8 (equal-step) and 9
// (unequal-step), per spec.md §4.2 "Type 8/9 — Lagrange".
type LagrangeSet struct {
	states     []float64 // nRecords * 6 doubles: (x, y, z, vx, vy, vz)
	epochs     []float64 // nil for equal-step: epoch_i = init + i*step
	initEpoch  float64
	stepSec    float64
	windowSize int
	nRecords   int
}

// FromDoublesLagrangeEqualStep decodes a type-8 segment: a flat array of
// n_records six-tuples followed by the trailer (init_epoch, step,
// window_size, n_records).
func FromDoublesLagrangeEqualStep(data []float64) (*LagrangeSet, error) {
	if len(data) < 4 {
		return nil, kerrors.Action(&kerrors.TooFewDoublesError{Dataset: "Lagrange (type 8)", Need: 4, Got: len(data)}, "decoding Lagrange segment")
	}
	if !allFinite(data) {
		return nil, kerrors.Action(&kerrors.SubNormalError{Dataset: "Lagrange (type 8)", Variable: "segment data"}, "decoding Lagrange segment")
	}
	n := len(data)
	trailer := data[n-4:]
	initEpoch, step, windowF, nRecF := trailer[0], trailer[1], trailer[2], trailer[3]

	if err := checkTrailerPositive("step", step); err != nil {
		return nil, err
	}
	if err := checkTrailerPositive("window_size", windowF); err != nil {
		return nil, err
	}
	if err := checkTrailerPositive("n_records", nRecF); err != nil {
		return nil, err
	}

	windowSize := int(windowF)
	nRecords := int(nRecF)
	if windowSize > interp.MaxSamples {
		return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "Lagrange window size exceeds MaxSamples"}, "decoding Lagrange segment")
	}
	need := nRecords*6 + 4
	if need > n {
		return nil, kerrors.Action(&kerrors.InaccessibleBytesError{Start: 0, End: need, Size: n}, "decoding Lagrange segment")
	}

	return &LagrangeSet{
		states:     data[:nRecords*6],
		initEpoch:  initEpoch,
		stepSec:    step,
		windowSize: windowSize,
		nRecords:   nRecords,
	}, nil
}

// FromDoublesLagrangeUnequalStep decodes a type-9 segment: n_records
// six-tuple states, followed immediately by n_records epochs, followed by
// the trailer (window_size, n_records). This layout is not pinned by an
// original_source reference (the retrieved ANISE/SPICE sources in this pack
// only carry a type-8-shaped example); it mirrors the real SPICE SPK type 9
// convention and the epoch-array-then-trailer shape used by the Modified
// Difference Array decoder in this same package.
func FromDoublesLagrangeUnequalStep(data []float64) (*LagrangeSet, error) {
	if len(data) < 2 {
		return nil, kerrors.Action(&kerrors.TooFewDoublesError{Dataset: "Lagrange (type 9)", Need: 2, Got: len(data)}, "decoding Lagrange segment")
	}
	if !allFinite(data) {
		return nil, kerrors.Action(&kerrors.SubNormalError{Dataset: "Lagrange (type 9)", Variable: "segment data"}, "decoding Lagrange segment")
	}
	n := len(data)
	windowF, nRecF := data[n-2], data[n-1]
	if err := checkTrailerPositive("window_size", windowF); err != nil {
		return nil, err
	}
	if err := checkTrailerPositive("n_records", nRecF); err != nil {
		return nil, err
	}
	windowSize := int(windowF)
	nRecords := int(nRecF)
	if windowSize > interp.MaxSamples {
		return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "Lagrange window size exceeds MaxSamples"}, "decoding Lagrange segment")
	}

	need := nRecords*6 + nRecords + 2
	if need > n {
		return nil, kerrors.Action(&kerrors.InaccessibleBytesError{Start: 0, End: need, Size: n}, "decoding Lagrange segment")
	}

	states := data[:nRecords*6]
	epochs := data[nRecords*6 : nRecords*6+nRecords]
	for i := 1; i < len(epochs); i++ {
		if epochs[i] <= epochs[i-1] {
			return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "Lagrange epoch array not strictly increasing"}, "decoding Lagrange segment")
		}
	}

	return &LagrangeSet{
		states:     states,
		epochs:     epochs,
		windowSize: windowSize,
		nRecords:   nRecords,
	}, nil
}

func (l *LagrangeSet) epochAt(i int) float64 {
	if l.epochs != nil {
		return l.epochs[i]
	}
	return l.initEpoch + float64(i)*l.stepSec
}

// Evaluate picks the window_size samples centered on epochTDBSec (shifted
// inward at the boundaries) and evaluates the Neville recurrence for each of
// the six state components independently, per spec.md §4.2.
func (l *LagrangeSet) Evaluate(epochTDBSec float64) (PosVel, error) {
	if l.nRecords == 0 {
		return PosVel{}, kerrors.Action(&kerrors.MissingInterpolationDataError{EpochTDBSec: epochTDBSec}, "evaluating Lagrange segment")
	}

	center := l.locateCenter(epochTDBSec)
	window := l.windowSize
	if window > l.nRecords {
		window = l.nRecords
	}
	start := selectWindow(center, window, l.nRecords)

	xs := make([]float64, window)
	comp := [6][]float64{}
	for c := range comp {
		comp[c] = make([]float64, window)
	}
	for i := 0; i < window; i++ {
		idx := start + i
		xs[i] = l.epochAt(idx)
		for c := 0; c < 6; c++ {
			comp[c][i] = l.states[idx*6+c]
		}
	}

	var out [6]float64
	for c := 0; c < 6; c++ {
		v, err := interp.LagrangeEval(xs, comp[c], epochTDBSec)
		if err != nil {
			return PosVel{}, kerrors.Action(err, "evaluating Lagrange series")
		}
		out[c] = v
	}

	return PosVel{
		Position: linalg.Vec3{out[0], out[1], out[2]},
		Velocity: linalg.Vec3{out[3], out[4], out[5]},
	}, nil
}

func (l *LagrangeSet) locateCenter(epochTDBSec float64) int {
	if l.epochs == nil {
		idx := int((epochTDBSec - l.initEpoch) / l.stepSec)
		if idx < 0 {
			idx = 0
		}
		if idx >= l.nRecords {
			idx = l.nRecords - 1
		}
		return idx
	}
	idx := sort.Search(len(l.epochs), func(i int) bool { return l.epochs[i] >= epochTDBSec })
	if idx >= len(l.epochs) {
		idx = len(l.epochs) - 1
	}
	return idx
}

// CheckIntegrity rejects non-finite stored doubles.
func (l *LagrangeSet) CheckIntegrity() error {
	if !allFinite(l.states) {
		return kerrors.Action(&kerrors.SubNormalError{Dataset: "Lagrange", Variable: "state data"}, "checking Lagrange segment integrity")
	}
	if !allFinite(l.epochs) {
		return kerrors.Action(&kerrors.SubNormalError{Dataset: "Lagrange", Variable: "epoch data"}, "checking Lagrange segment integrity")
	}
	return nil
}
