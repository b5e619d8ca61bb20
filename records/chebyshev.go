package records

import (
	"math"

	"github.com/navkernel/almanac/internal/linalg"
	"github.com/navkernel/almanac/interp"
	"github.com/navkernel/almanac/kerrors"
)

// ChebyshevSet decodes SPK/BPC data types 2 (position-only) and 3
// (position+velocity), per spec.md §4.2 "Type 2/3 — Chebyshev equal-step".
type ChebyshevSet struct {
	data             []float64
	initEpochTDBSec  float64
	intervalSec      float64
	recordSizeDbl    int
	nRecords         int
	hasVelocityPoly  bool // true for type 3
	degreePlusOne    int
}

// FromDoublesChebyshev decodes the trailing (init_epoch, interval_length,
// record_size, n_records) quadruple and validates it against the rest of
// the segment, per spec.md §4.2's integrity rules.
func FromDoublesChebyshev(data []float64, withVelocityPoly bool) (*ChebyshevSet, error) {
	if len(data) < 4 {
		return nil, kerrors.Action(&kerrors.TooFewDoublesError{Dataset: "Chebyshev", Need: 4, Got: len(data)}, "decoding Chebyshev segment")
	}
	if !allFinite(data) {
		return nil, kerrors.Action(&kerrors.SubNormalError{Dataset: "Chebyshev", Variable: "segment data"}, "decoding Chebyshev segment")
	}

	n := len(data)
	trailer := data[n-4:]
	initEpoch, interval, recSize, nRecF := trailer[0], trailer[1], trailer[2], trailer[3]

	if err := checkTrailerPositive("interval_length_s", interval); err != nil {
		return nil, err
	}
	if err := checkTrailerPositive("record_size_doubles", recSize); err != nil {
		return nil, err
	}
	if err := checkTrailerPositive("n_records", nRecF); err != nil {
		return nil, err
	}

	recordSize := int(recSize)
	nRecords := int(nRecF)
	vectors := 3
	if withVelocityPoly {
		vectors = 6
	}
	if (recordSize-2)%vectors != 0 {
		return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "Chebyshev record size not divisible by coefficient vector count"}, "decoding Chebyshev segment")
	}
	degreePlusOne := (recordSize - 2) / vectors
	if degreePlusOne < 1 {
		return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "Chebyshev degree is negative"}, "decoding Chebyshev segment")
	}

	need := nRecords*recordSize + 4
	if need > n {
		return nil, kerrors.Action(&kerrors.InaccessibleBytesError{Start: 0, End: need, Size: n}, "decoding Chebyshev segment")
	}

	return &ChebyshevSet{
		data:            data[:nRecords*recordSize],
		initEpochTDBSec: initEpoch,
		intervalSec:     interval,
		recordSizeDbl:   recordSize,
		nRecords:        nRecords,
		hasVelocityPoly: withVelocityPoly,
		degreePlusOne:   degreePlusOne,
	}, nil
}

type chebyshevRecord struct {
	midpointEpoch, radius float64
	posCoeffs             [3][]float64
	velCoeffs             [3][]float64 // only populated for type 3
}

// NthRecord extracts the n-th fixed-size record from the decoded segment.
func (c *ChebyshevSet) NthRecord(n int) (chebyshevRecord, error) {
	if n < 0 || n >= c.nRecords {
		return chebyshevRecord{}, kerrors.Action(&kerrors.InaccessibleBytesError{Start: n, End: n + 1, Size: c.nRecords}, "selecting Chebyshev record")
	}
	off := n * c.recordSizeDbl
	rec := c.data[off : off+c.recordSizeDbl]

	r := chebyshevRecord{midpointEpoch: rec[0], radius: rec[1]}
	d := c.degreePlusOne
	base := 2
	for axis := 0; axis < 3; axis++ {
		r.posCoeffs[axis] = rec[base+axis*d : base+(axis+1)*d]
	}
	if c.hasVelocityPoly {
		base = 2 + 3*d
		for axis := 0; axis < 3; axis++ {
			r.velCoeffs[axis] = rec[base+axis*d : base+(axis+1)*d]
		}
	}
	return r, nil
}

// Evaluate locates the record covering epochTDBSec, normalizes time into
// [-1, 1], and evaluates the per-axis Clenshaw recurrence, per spec.md §4.2.
func (c *ChebyshevSet) Evaluate(epochTDBSec float64) (PosVel, error) {
	idxF := math.Floor((epochTDBSec - c.initEpochTDBSec) / c.intervalSec)
	idx := int(idxF)
	if idx < 0 {
		idx = 0
	}
	if idx >= c.nRecords {
		idx = c.nRecords - 1
	}

	rec, err := c.NthRecord(idx)
	if err != nil {
		return PosVel{}, err
	}
	if absf(rec.radius) < 1e-12 {
		return PosVel{}, kerrors.Action(&kerrors.DivisionByZeroError{Action: "Chebyshev record radius is zero"}, "evaluating Chebyshev segment")
	}

	tau := (epochTDBSec - rec.midpointEpoch) / rec.radius

	var pos, vel linalg.Vec3
	for axis := 0; axis < 3; axis++ {
		value, deriv, err := interp.ChebyshevEval(tau, rec.posCoeffs[axis], rec.radius)
		if err != nil {
			return PosVel{}, kerrors.Action(err, "evaluating Chebyshev position series")
		}
		pos[axis] = value
		vel[axis] = deriv
	}

	if c.hasVelocityPoly {
		for axis := 0; axis < 3; axis++ {
			value, err := interp.ChebyshevEvalPositionOnly(tau, rec.velCoeffs[axis])
			if err != nil {
				return PosVel{}, kerrors.Action(err, "evaluating Chebyshev velocity series")
			}
			vel[axis] = value
		}
	}

	return PosVel{Position: pos, Velocity: vel}, nil
}

// CheckIntegrity rejects non-finite stored doubles, per spec.md §4.2.
func (c *ChebyshevSet) CheckIntegrity() error {
	if !allFinite(c.data) {
		return kerrors.Action(&kerrors.SubNormalError{Dataset: "Chebyshev", Variable: "record data"}, "checking Chebyshev segment integrity")
	}
	return nil
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
