package daf

import (
	"math"

	"github.com/navkernel/almanac/kerrors"
)

// Summary is one decoded entry from a DAF summary record: ND doubles
// followed by NI 32-bit integers (spec.md §3). SPK/BPC kernels use
// ND=2, NI=6, decoded by AsSPK/AsBPC below; Doubles/Ints expose the raw
// form for any other ND/NI combination.
type Summary struct {
	Doubles []float64
	Ints    []int32
	Name    string
}

// SPKSummary is the typed view of a Summary for SPK (ND=2, NI=6) segments.
type SPKSummary struct {
	StartEpochTDBSec, EndEpochTDBSec float64
	TargetID, CenterID, FrameID     int32
	DataType                        int32
	StartIdx, EndIdx                int32
	Name                            string
}

// AsSPK reinterprets s as an SPK summary. The caller is responsible for
// having opened a KindSPK file; decoding a BPC summary this way produces
// nonsensical but not out-of-bounds values.
func (s Summary) AsSPK() (SPKSummary, error) {
	if len(s.Doubles) < 2 || len(s.Ints) < 6 {
		return SPKSummary{}, &kerrors.TooFewDoublesError{Dataset: "SPK summary", Need: 2, Got: len(s.Doubles)}
	}
	out := SPKSummary{
		StartEpochTDBSec: s.Doubles[0],
		EndEpochTDBSec:   s.Doubles[1],
		TargetID:         s.Ints[0],
		CenterID:         s.Ints[1],
		FrameID:          s.Ints[2],
		DataType:         s.Ints[3],
		StartIdx:         s.Ints[4],
		EndIdx:           s.Ints[5],
		Name:             s.Name,
	}
	if out.StartIdx > out.EndIdx {
		return SPKSummary{}, kerrors.Action(&kerrors.FileRecordError{Reason: "summary start_idx > end_idx"}, "decoding SPK summary")
	}
	if out.StartEpochTDBSec > out.EndEpochTDBSec {
		return SPKSummary{}, kerrors.Action(&kerrors.FileRecordError{Reason: "summary start_epoch > end_epoch"}, "decoding SPK summary")
	}
	return out, nil
}

// BPCSummary is the typed view of a Summary for BPC (ND=2, NI=6) segments.
// TargetID here names an orientation id rather than a translational body,
// per spec.md §3 ("For BPC ... target_id represents an orientation id").
type BPCSummary struct {
	StartEpochTDBSec, EndEpochTDBSec float64
	OrientationID, BaseFrameID       int32
	DataType                        int32
	StartIdx, EndIdx                int32
	Name                            string
}

func (s Summary) AsBPC() (BPCSummary, error) {
	if len(s.Doubles) < 2 || len(s.Ints) < 6 {
		return BPCSummary{}, &kerrors.TooFewDoublesError{Dataset: "BPC summary", Need: 2, Got: len(s.Doubles)}
	}
	out := BPCSummary{
		StartEpochTDBSec: s.Doubles[0],
		EndEpochTDBSec:   s.Doubles[1],
		OrientationID:    s.Ints[0],
		BaseFrameID:      s.Ints[1],
		DataType:         s.Ints[3],
		StartIdx:         s.Ints[4],
		EndIdx:           s.Ints[5],
		Name:             s.Name,
	}
	if out.StartIdx > out.EndIdx {
		return BPCSummary{}, kerrors.Action(&kerrors.FileRecordError{Reason: "summary start_idx > end_idx"}, "decoding BPC summary")
	}
	return out, nil
}

// summaryWidthDoubles returns how many doubles one packed summary occupies,
// per spec.md §3: "ceil((ND·8 + NI·4)/8) doubles".
func summaryWidthDoubles(nd, ni int) int {
	bytes := nd*8 + ni*4
	return (bytes + 7) / 8
}

// summariesPerRecord returns the maximum number of packed summaries that
// fit in one 1024-byte summary record after its 24-byte (next, prev,
// n_summaries) header.
func summariesPerRecord(nd, ni int) int {
	width := summaryWidthDoubles(nd, ni)
	if width == 0 {
		return 0
	}
	return (RecordLen - 24) / (8 * width)
}

// Summaries walks the forward linked list of summary records starting at
// the file record's ForwardRecord pointer, yielding every decoded Summary
// in file order. It stops and returns an error the first time a pointer or
// decode fails, rather than silently truncating the traversal.
func (f *File) Summaries() ([]Summary, error) {
	var out []Summary
	next := f.header.ForwardRecord
	nd, ni := f.header.ND, f.header.NI
	width := summaryWidthDoubles(nd, ni)
	perRecord := summariesPerRecord(nd, ni)
	visited := map[int]bool{}

	for next != 0 {
		if visited[next] {
			return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "cyclic summary record linked list"}, "walking DAF summary records")
		}
		visited[next] = true

		hdrBytes, err := f.recordBytes(next)
		if err != nil {
			return nil, kerrors.Action(err, "reading DAF summary record")
		}
		nextF, _, nsumF := f.readRecordTriple(hdrBytes)

		nameBytes, err := f.recordBytes(next + 1)
		if err != nil {
			return nil, kerrors.Action(err, "reading DAF name record")
		}

		nSummaries := int(nsumF)
		if nSummaries < 0 || nSummaries > perRecord {
			return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "n_summaries out of range"}, "walking DAF summary records")
		}

		payload := hdrBytes[24:]
		for i := 0; i < nSummaries; i++ {
			doubleOff := i * width
			s := Summary{}
			ds := make([]float64, nd)
			for j := 0; j < nd; j++ {
				off := (doubleOff + j) * 8
				ds[j] = f.float64At(payload, off)
			}
			is := make([]int32, ni)
			intByteStart := (doubleOff+nd)*8 + 0
			for j := 0; j < ni; j++ {
				off := intByteStart + j*4
				is[j] = int32(f.order.Uint32(payload[off : off+4]))
			}
			s.Doubles = ds
			s.Ints = is

			nameOff := i * 40
			if nameOff+40 <= len(nameBytes) {
				s.Name = trimName(nameBytes[nameOff : nameOff+40])
			}
			out = append(out, s)
		}

		next = int(nextF)
	}
	return out, nil
}

// readRecordTriple decodes the (next, prev, n_summaries) header doubles of
// a summary record.
func (f *File) readRecordTriple(b []byte) (next, prev, nsum float64) {
	next = f.float64At(b, 0)
	prev = f.float64At(b, 8)
	nsum = f.float64At(b, 16)
	return
}

func (f *File) float64At(b []byte, byteOff int) float64 {
	bits := f.order.Uint64(b[byteOff : byteOff+8])
	return math.Float64frombits(bits)
}

func trimName(b []byte) string {
	s := string(b)
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == 0) {
		s = s[:len(s)-1]
	}
	return s
}
