package daf

import "github.com/navkernel/almanac/kerrors"

// CheckIntegrity walks every summary and its referenced data range,
// confirming all addresses are in bounds and all doubles are finite, per
// spec.md §4.1 ("Integrity check... confirm all in bounds; confirm all
// doubles finite"). It corresponds to invariant P10.
func (f *File) CheckIntegrity() error {
	summaries, err := f.Summaries()
	if err != nil {
		return kerrors.Action(err, "checking DAF integrity")
	}
	for _, s := range summaries {
		for _, d := range s.Doubles {
			if isNonFinite(d) {
				return kerrors.Action(&kerrors.SubNormalError{Dataset: "DAF summary", Variable: "summary double"}, "checking DAF integrity")
			}
		}
		startIdx, endIdx, err := summaryExtent(f.header.Kind, s)
		if err != nil {
			return kerrors.Action(err, "checking DAF integrity")
		}
		data, err := f.Doubles(int(startIdx), int(endIdx))
		if err != nil {
			return kerrors.Action(err, "checking DAF integrity")
		}
		for _, d := range data {
			if isNonFinite(d) {
				return kerrors.Action(&kerrors.SubNormalError{Dataset: s.Name, Variable: "segment data"}, "checking DAF integrity")
			}
		}
	}
	return nil
}

func summaryExtent(kind Kind, s Summary) (start, end int32, err error) {
	switch kind {
	case KindSPK:
		spk, e := s.AsSPK()
		if e != nil {
			return 0, 0, e
		}
		return spk.StartIdx, spk.EndIdx, nil
	case KindPCK:
		bpc, e := s.AsBPC()
		if e != nil {
			return 0, 0, e
		}
		return bpc.StartIdx, bpc.EndIdx, nil
	default:
		return 0, 0, &kerrors.FileRecordError{Reason: "unknown kind for summary extent"}
	}
}

func isNonFinite(v float64) bool {
	return v != v || v > maxFinite || v < -maxFinite
}

const maxFinite = 1.7976931348623157e+308
