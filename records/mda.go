package records

import (
	"sort"

	"github.com/navkernel/almanac/internal/linalg"
	"github.com/navkernel/almanac/kerrors"
)

// mdaRecordLen is the width of a single Modified Difference Array record:
// 1 reference epoch + 15 step-size nodes + 6 reference state components +
// 45 difference coefficients (3x15) + kqmax1 + 3 per-component orders.
const mdaRecordLen = 71

// MDASet decodes SPK data types 1 and 21 (Modified Difference Arrays), per
// spec.md §4.2 "Type 1/21 — Modified Difference Arrays". It is grounded on
// _examples/original_source/anise/src/naif/daf/datatypes/modified_diff.rs,
// itself a port of SPICE's spke01_/spke21_ recurrence.
type MDASet struct {
	recordData []float64 // nRecords * mdaRecordLen
	epochData  []float64 // nRecords
	epochDir   []float64 // every 100th epoch, for logarithmic search
	nRecords   int
}

// FromDoublesMDA decodes a segment whose data block is laid out as
// record_data (n_records * 71 doubles), epoch_data (n_records doubles), an
// epoch directory, and a final two-double trailer whose last element is
// n_records.
func FromDoublesMDA(data []float64) (*MDASet, error) {
	if len(data) < 2+mdaRecordLen {
		return nil, kerrors.Action(&kerrors.TooFewDoublesError{Dataset: "Modified Difference Array", Need: 2 + mdaRecordLen, Got: len(data)}, "decoding MDA segment")
	}
	if !allFinite(data) {
		return nil, kerrors.Action(&kerrors.SubNormalError{Dataset: "Modified Difference Array", Variable: "segment data"}, "decoding MDA segment")
	}

	n := len(data)
	nRecords := int(data[n-1])
	if nRecords < 1 {
		return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "MDA n_records must be at least 1"}, "decoding MDA segment")
	}

	idx := nRecords * mdaRecordLen
	if idx < 0 || idx+nRecords > n-2 {
		return nil, kerrors.Action(&kerrors.InaccessibleBytesError{Start: 0, End: idx + nRecords + 2, Size: n}, "decoding MDA segment")
	}

	recordData := data[:idx]
	epochData := data[idx : idx+nRecords]
	epochDir := data[idx+nRecords : n-2]

	for i := 1; i < len(epochData); i++ {
		if epochData[i] <= epochData[i-1] {
			return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "MDA epoch array not strictly increasing"}, "decoding MDA segment")
		}
	}

	return &MDASet{
		recordData: recordData,
		epochData:  epochData,
		epochDir:   epochDir,
		nRecords:   nRecords,
	}, nil
}

type mdaRecord struct {
	refEpoch                     float64
	nodes                        []float64 // 15 step sizes
	refPos, refVel               linalg.Vec3
	diffArray                    []float64 // 3x15, flattened row-major
	kqmax1                       float64
	kq                           [3]float64
}

// NthRecord extracts the n-th fixed-size 71-double record.
func (m *MDASet) NthRecord(n int) (mdaRecord, error) {
	if n < 0 || n >= m.nRecords {
		return mdaRecord{}, kerrors.Action(&kerrors.InaccessibleBytesError{Start: n, End: n + 1, Size: m.nRecords}, "selecting MDA record")
	}
	off := n * mdaRecordLen
	rec := m.recordData[off : off+mdaRecordLen]

	return mdaRecord{
		refEpoch: rec[0],
		nodes:    rec[1:16],
		refPos:   linalg.Vec3{rec[16], rec[18], rec[20]},
		refVel:   linalg.Vec3{rec[17], rec[19], rec[21]},
		diffArray: rec[22:67],
		kqmax1:   rec[67],
		kq:       [3]float64{rec[68], rec[69], rec[70]},
	}, nil
}

// locateRecord finds the latest record whose epoch is <= t, using the
// epoch directory to narrow the search when present, per spec.md §4.2.
func (m *MDASet) locateRecord(epochTDBSec float64) int {
	searchStart, searchEnd := 0, len(m.epochData)
	if len(m.epochDir) > 0 {
		dirIdx := sort.Search(len(m.epochDir), func(i int) bool { return m.epochDir[i] >= epochTDBSec })
		searchStart = 0
		if dirIdx > 0 {
			searchStart = dirIdx*100 - 1
		}
		searchEnd = searchStart + 100
		if searchEnd > len(m.epochData) {
			searchEnd = len(m.epochData)
		}
	}

	sub := m.epochData[searchStart:searchEnd]
	localIdx := sort.Search(len(sub), func(i int) bool { return sub[i] > epochTDBSec })
	idx := searchStart + localIdx - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= m.nRecords {
		idx = m.nRecords - 1
	}
	return idx
}

// Evaluate implements the SPICE spke01_/spke21_ recurrence described in
// spec.md §4.2: build fc/wc from the step-size nodes, run the W(k)
// recurrence for position, sum difference coefficients against it, then a
// second (one fewer step) pass for velocity.
func (m *MDASet) Evaluate(epochTDBSec float64) (PosVel, error) {
	if m.nRecords == 0 {
		return PosVel{}, kerrors.Action(&kerrors.MissingInterpolationDataError{EpochTDBSec: epochTDBSec}, "evaluating MDA segment")
	}
	if epochTDBSec < m.epochData[0]-1e-2 || epochTDBSec > m.epochData[len(m.epochData)-1]+1e-2 {
		return PosVel{}, kerrors.Action(&kerrors.MissingInterpolationDataError{EpochTDBSec: epochTDBSec}, "evaluating MDA segment")
	}

	rec, err := m.NthRecord(m.locateRecord(epochTDBSec))
	if err != nil {
		return PosVel{}, err
	}

	delta := epochTDBSec - rec.refEpoch
	tp := delta
	mq2 := int(rec.kqmax1) - 2

	var fc, wc [14]float64
	for j := 0; j < mq2; j++ {
		if absf(rec.nodes[j]) < 1e-30 {
			return PosVel{}, kerrors.Action(&kerrors.DivisionByZeroError{Action: "MDA step-size node is zero"}, "evaluating MDA segment")
		}
		fc[j] = tp / rec.nodes[j]
		wc[j] = delta / rec.nodes[j]
		tp = delta + rec.nodes[j]
	}

	var w [17]float64
	kqmax1 := int(rec.kqmax1)
	for j := 0; j < kqmax1; j++ {
		w[j] = 1.0 / float64(j+1)
	}

	ks := kqmax1 - 1
	for jx := 1; jx <= mq2; jx++ {
		for j := 0; j < jx; j++ {
			w[j+ks] = fc[j]*w[j+ks-1] - wc[j]*w[j+ks]
		}
		ks--
	}

	var pos, vel linalg.Vec3
	for i := 0; i < 3; i++ {
		order := int(rec.kq[i])
		polySum := 0.0
		for j := 0; j < order; j++ {
			polySum += rec.diffArray[i*15+j] * w[j+ks]
		}
		refPos := rec.refPos[i]
		refVel := rec.refVel[i]
		pos[i] = refPos + delta*(refVel+delta*polySum)
	}

	if mq2 > 0 {
		for j := 1; j <= mq2; j++ {
			w[j] = fc[j-1]*w[j-1] - wc[j-1]*w[j]
		}
	}
	ks--

	for i := 0; i < 3; i++ {
		order := int(rec.kq[i])
		polySumVel := 0.0
		for j := 0; j < order; j++ {
			polySumVel += rec.diffArray[i*15+j] * w[j+ks]
		}
		vel[i] = rec.refVel[i] + delta*polySumVel
	}

	return PosVel{Position: pos, Velocity: vel}, nil
}

// CheckIntegrity rejects non-finite stored doubles.
func (m *MDASet) CheckIntegrity() error {
	if !allFinite(m.recordData) {
		return kerrors.Action(&kerrors.SubNormalError{Dataset: "Modified Difference Array", Variable: "record data"}, "checking MDA segment integrity")
	}
	return nil
}
