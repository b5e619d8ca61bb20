package records

import (
	"sort"

	"github.com/navkernel/almanac/internal/linalg"
	"github.com/navkernel/almanac/interp"
	"github.com/navkernel/almanac/kerrors"
)

// HermiteSet decodes SPK/BPC data types 12 (equal-step) and 13
// (unequal-step), per spec.md §4.2 "Type 12/13 — Hermite with derivative".
type HermiteSet struct {
	states     []float64 // nRecords * 6 doubles: (x, y, z, vx, vy, vz)
	epochs     []float64 // nil for equal-step
	directory  []float64 // every 100th epoch, type 13 only
	initEpoch  float64
	stepSec    float64
	windowSize int
	nRecords   int
}

// FromDoublesHermiteEqualStep decodes a type-12 segment: n_records
// six-tuples (position, velocity) followed by the trailer (init, step,
// window_size, n_records).
func FromDoublesHermiteEqualStep(data []float64) (*HermiteSet, error) {
	if len(data) < 4 {
		return nil, kerrors.Action(&kerrors.TooFewDoublesError{Dataset: "Hermite (type 12)", Need: 4, Got: len(data)}, "decoding Hermite segment")
	}
	if !allFinite(data) {
		return nil, kerrors.Action(&kerrors.SubNormalError{Dataset: "Hermite (type 12)", Variable: "segment data"}, "decoding Hermite segment")
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
		return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "Hermite window size exceeds MaxSamples"}, "decoding Hermite segment")
	}
	need := nRecords*6 + 4
	if need > n {
		return nil, kerrors.Action(&kerrors.InaccessibleBytesError{Start: 0, End: need, Size: n}, "decoding Hermite segment")
	}

	return &HermiteSet{
		states:     data[:nRecords*6],
		initEpoch:  initEpoch,
		stepSec:    step,
		windowSize: windowSize,
		nRecords:   nRecords,
	}, nil
}

// FromDoublesHermiteUnequalStep decodes a type-13 segment: n_records
// six-tuple states, n_records epochs, an epoch directory (every 100th
// epoch, for logarithmic search per spec.md §4.2), then the trailer
// (window_size, n_records).
func FromDoublesHermiteUnequalStep(data []float64) (*HermiteSet, error) {
	if len(data) < 2 {
		return nil, kerrors.Action(&kerrors.TooFewDoublesError{Dataset: "Hermite (type 13)", Need: 2, Got: len(data)}, "decoding Hermite segment")
	}
	if !allFinite(data) {
		return nil, kerrors.Action(&kerrors.SubNormalError{Dataset: "Hermite (type 13)", Variable: "segment data"}, "decoding Hermite segment")
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
		return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "Hermite window size exceeds MaxSamples"}, "decoding Hermite segment")
	}

	dirLen := (nRecords - 1) / 100
	if dirLen < 0 {
		dirLen = 0
	}
	need := nRecords*6 + nRecords + dirLen + 2
	if need > n {
		return nil, kerrors.Action(&kerrors.InaccessibleBytesError{Start: 0, End: need, Size: n}, "decoding Hermite segment")
	}

	states := data[:nRecords*6]
	epochs := data[nRecords*6 : nRecords*6+nRecords]
	directory := data[nRecords*6+nRecords : nRecords*6+nRecords+dirLen]
	for i := 1; i < len(epochs); i++ {
		if epochs[i] <= epochs[i-1] {
			return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "Hermite epoch array not strictly increasing"}, "decoding Hermite segment")
		}
	}

	return &HermiteSet{
		states:     states,
		epochs:     epochs,
		directory:  directory,
		windowSize: windowSize,
		nRecords:   nRecords,
	}, nil
}

func (h *HermiteSet) epochAt(i int) float64 {
	if h.epochs != nil {
		return h.epochs[i]
	}
	return h.initEpoch + float64(i)*h.stepSec
}

// Evaluate locates the containing epoch by (directory-assisted) binary
// search, selects `window_size` surrounding samples shifted inward at the
// boundaries, and evaluates the Hermite divided-difference table on
// (epoch_i, value_i, derivative_i) for each of the three position
// components, per spec.md §4.2/§4.3.
func (h *HermiteSet) Evaluate(epochTDBSec float64) (PosVel, error) {
	if h.nRecords == 0 {
		return PosVel{}, kerrors.Action(&kerrors.MissingInterpolationDataError{EpochTDBSec: epochTDBSec}, "evaluating Hermite segment")
	}

	center := h.locateCenter(epochTDBSec)
	window := h.windowSize
	if window > h.nRecords {
		window = h.nRecords
	}
	start := selectWindow(center, window, h.nRecords)

	xs := make([]float64, window)
	pos := [3][]float64{make([]float64, window), make([]float64, window), make([]float64, window)}
	vel := [3][]float64{make([]float64, window), make([]float64, window), make([]float64, window)}
	for i := 0; i < window; i++ {
		idx := start + i
		xs[i] = h.epochAt(idx)
		for axis := 0; axis < 3; axis++ {
			pos[axis][i] = h.states[idx*6+axis]
			vel[axis][i] = h.states[idx*6+3+axis]
		}
	}

	var outPos, outVel linalg.Vec3
	for axis := 0; axis < 3; axis++ {
		value, deriv, err := interp.HermiteEval(xs, pos[axis], vel[axis], epochTDBSec)
		if err != nil {
			return PosVel{}, kerrors.Action(err, "evaluating Hermite series")
		}
		outPos[axis] = value
		outVel[axis] = deriv
	}

	return PosVel{Position: outPos, Velocity: outVel}, nil
}

func (h *HermiteSet) locateCenter(epochTDBSec float64) int {
	if h.epochs == nil {
		idx := int((epochTDBSec - h.initEpoch) / h.stepSec)
		if idx < 0 {
			idx = 0
		}
		if idx >= h.nRecords {
			idx = h.nRecords - 1
		}
		return idx
	}

	searchStart, searchEnd := 0, len(h.epochs)
	if len(h.directory) > 0 {
		dirIdx := sort.Search(len(h.directory), func(i int) bool { return h.directory[i] >= epochTDBSec })
		searchStart = 0
		if dirIdx > 0 {
			searchStart = dirIdx*100 - 1
		}
		searchEnd = searchStart + 100
		if searchEnd > len(h.epochs) {
			searchEnd = len(h.epochs)
		}
	}

	sub := h.epochs[searchStart:searchEnd]
	localIdx := sort.Search(len(sub), func(i int) bool { return sub[i] > epochTDBSec })
	idx := searchStart + localIdx - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= h.nRecords {
		idx = h.nRecords - 1
	}
	return idx
}

// CheckIntegrity rejects non-finite stored doubles.
func (h *HermiteSet) CheckIntegrity() error {
	if !allFinite(h.states) {
		return kerrors.Action(&kerrors.SubNormalError{Dataset: "Hermite", Variable: "state data"}, "checking Hermite segment integrity")
	}
	if !allFinite(h.epochs) {
		return kerrors.Action(&kerrors.SubNormalError{Dataset: "Hermite", Variable: "epoch data"}, "checking Hermite segment integrity")
	}
	return nil
}
