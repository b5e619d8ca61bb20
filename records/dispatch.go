package records

import "github.com/navkernel/almanac/kerrors"

// Segment is the uniform shape every decoded data type in this package
// satisfies, per spec.md §4.2's "from_doubles / nth_record / evaluate /
// check_integrity" interface (nth_record is decoder-specific and not part
// of this shared surface, since its record type differs per decoder).
type Segment interface {
	Evaluate(epochTDBSec float64) (PosVel, error)
	CheckIntegrity() error
}

// SPK/BPC data_type codes, per spec.md §3/§4.2.
const (
	DataTypeChebyshevPositionOnly = 2
	DataTypeChebyshevPosVel       = 3
	DataTypeMDA                   = 1
	DataTypeLagrangeEqualStep     = 8
	DataTypeLagrangeUnequalStep   = 9
	DataTypeHermiteEqualStep      = 12
	DataTypeHermiteUnequalStep    = 13
	DataTypeMDAAlt                = 21
)

// Decode dispatches on dataType to the matching decoder, per spec.md §4.2's
// "dispatch is by the segment's declared data_type integer."
func Decode(dataType int32, data []float64) (Segment, error) {
	switch dataType {
	case DataTypeChebyshevPositionOnly:
		return FromDoublesChebyshev(data, false)
	case DataTypeChebyshevPosVel:
		return FromDoublesChebyshev(data, true)
	case DataTypeMDA, DataTypeMDAAlt:
		return FromDoublesMDA(data)
	case DataTypeLagrangeEqualStep:
		return FromDoublesLagrangeEqualStep(data)
	case DataTypeLagrangeUnequalStep:
		return FromDoublesLagrangeUnequalStep(data)
	case DataTypeHermiteEqualStep:
		return FromDoublesHermiteEqualStep(data)
	case DataTypeHermiteUnequalStep:
		return FromDoublesHermiteUnequalStep(data)
	default:
		return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "unsupported segment data_type"}, "decoding segment")
	}
}
