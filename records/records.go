// Package records implements the segment record decoders spec.md §4.2
// describes: Chebyshev (types 2/3), Lagrange (types 8/9), Hermite with
// derivative samples (types 12/13), and Modified Difference Arrays (types 1
// and 21). Each decoder exposes a FromDoubles* constructor, Evaluate and
// CheckIntegrity (the Chebyshev and MDA decoders also expose NthRecord).
// Decode picks the decoder by the segment's data_type integer and returns
// it behind the shared Segment interface.
//
// The Chebyshev/Hermite/Lagrange framing is grounded on
// _examples/original_source/anise/src/naif/daf/datatypes/hermite.rs and the
// sibling NAIFDataSet trait in daf/mod.rs; the MDA recurrence is a direct
// transliteration of modified_diff.rs, itself a port of SPICE spke01_/
// spke21_. The teacher's State()/interp() functions in mshafiee-jpleph
// ephemeris.go are the ancestor of the window-selection helpers below.
package records

import (
	"github.com/navkernel/almanac/internal/linalg"
	"github.com/navkernel/almanac/kerrors"
)

// PosVel is the position/velocity pair every decoder's Evaluate returns, in
// kilometers and kilometers per second.
type PosVel struct {
	Position linalg.Vec3
	Velocity linalg.Vec3
}

// selectWindow returns the start index of a window of size `window` out of
// `n` total records, centered as closely as possible on `center` and shifted
// inward at either boundary, per spec.md §4.2 ("shifted inward at
// boundaries").
func selectWindow(center, window, n int) int {
	start := center - window/2
	if start < 0 {
		start = 0
	}
	if start+window > n {
		start = n - window
	}
	if start < 0 {
		start = 0
	}
	return start
}

func checkTrailerPositive(name string, v float64) error {
	if v <= 0 {
		return kerrors.Action(&kerrors.FileRecordError{Reason: name + " must be positive"}, "validating segment trailer")
	}
	return nil
}

func allFinite(data []float64) bool {
	for _, d := range data {
		if d != d || d > 1.7976931348623157e+308 || d < -1.7976931348623157e+308 {
			return false
		}
	}
	return true
}
