// Package daf decodes the Double-precision Array File container format
// used by SPK (translational ephemeris) and BPC/PCK (orientation) kernels,
// per spec.md §3 and §4.1.
//
// The byte-order-aware primitive reads here are adapted from the teacher's
// binary_reader.go (github.com/mshafiee/jpleph), which reads a JPL binary
// ephemeris header the same way: fixed byte offsets, a configurable
// byte order, and an explicit byte-swap path for the non-native case. The
// DAF file/summary/name record layout itself (locidw/nd/ni/locifn/forward/
// backward/free + the parallel summary-record/name-record linked lists) is
// pinned from _examples/original_source/anise/src/naif/daf/mod.rs, the
// Rust source spec.md was distilled from.
package daf

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/navkernel/almanac/kerrors"
)

const (
	// RecordLen is the fixed size, in bytes, of every DAF record (the file
	// record, each summary record, and each name record).
	RecordLen = 1024

	fileRecordNDOffset     = 8
	fileRecordNIOffset     = 12
	fileRecordNameOffset   = 16
	fileRecordNameLen      = 60
	fileRecordFwdOffset    = 76
	fileRecordBwdOffset    = 80
	fileRecordFreeOffset   = 84
	fileRecordFormatOffset = 88
	fileRecordFormatLen    = 8
)

// Kind identifies which DAF-based kernel a file claims to be.
type Kind string

const (
	KindSPK Kind = "SPK"
	KindPCK Kind = "PCK"
)

// FileRecord is the decoded 1024-byte header of a DAF file.
type FileRecord struct {
	Kind              Kind
	ND, NI            int
	InternalName      string
	ForwardRecord     int // 1-based record number of the first summary record
	BackwardRecord    int // 1-based record number of the last summary record
	FirstFreeAddress  int
	LittleEndianOnFile bool
}

// File is a view over a DAF kernel's bytes; it keeps buf without copying
// it. Double decodes in place, while Doubles allocates a fresh slice of
// decoded values for each call.
type File struct {
	buf    []byte
	header FileRecord
	order  binary.ByteOrder
}

// Open validates and wraps buf (typically memory-mapped) as a DAF file.
// It performs the §4.1 validation steps 1-4 (magic, endianness tag, ND/NI
// legality, and the bounds of the file record's forward/backward summary
// pointers); later records of the summary list and the data extents are
// checked lazily by Summaries/Doubles, and exhaustively by CheckIntegrity.
func Open(buf []byte) (*File, error) {
	if len(buf) < RecordLen {
		return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "file shorter than one DAF record"}, "opening DAF file")
	}
	if string(buf[0:4]) != "DAF/" {
		return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "missing 'DAF/' magic"}, "opening DAF file")
	}
	kindTag := strings.TrimRight(string(buf[4:8]), " \x00")
	var kind Kind
	switch kindTag {
	case "SPK":
		kind = KindSPK
	case "PCK":
		kind = KindPCK
	default:
		return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "unrecognized DAF kind tag " + kindTag}, "opening DAF file")
	}

	formatTag := strings.TrimRight(string(buf[fileRecordFormatOffset:fileRecordFormatOffset+fileRecordFormatLen]), " \x00")
	var order binary.ByteOrder
	var littleEndian bool
	switch formatTag {
	case "LTL-IEEE":
		order = binary.LittleEndian
		littleEndian = true
	case "BIG-IEEE":
		order = binary.BigEndian
		littleEndian = false
	default:
		return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "unrecognized endianness tag " + formatTag}, "opening DAF file")
	}

	nd := int(order.Uint32(buf[fileRecordNDOffset:]))
	ni := int(order.Uint32(buf[fileRecordNIOffset:]))
	maxND, maxNI := legalNDNI(kind)
	if nd < 0 || nd > maxND || ni < 0 || ni > maxNI {
		return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "ND/NI out of legal range for kind"}, "opening DAF file")
	}

	name := strings.TrimRight(string(buf[fileRecordNameOffset:fileRecordNameOffset+fileRecordNameLen]), " \x00")
	fwd := int(order.Uint32(buf[fileRecordFwdOffset:]))
	bwd := int(order.Uint32(buf[fileRecordBwdOffset:]))
	free := int(order.Uint32(buf[fileRecordFreeOffset:]))

	f := &File{
		buf:   buf,
		order: order,
		header: FileRecord{
			Kind:               kind,
			ND:                 nd,
			NI:                 ni,
			InternalName:       name,
			ForwardRecord:      fwd,
			BackwardRecord:     bwd,
			FirstFreeAddress:   free,
			LittleEndianOnFile: littleEndian,
		},
	}
	if !f.recordInBounds(fwd) || !f.recordInBounds(bwd) {
		return nil, kerrors.Action(&kerrors.FileRecordError{Reason: "forward/backward summary pointer out of bounds"}, "opening DAF file")
	}
	return f, nil
}

func legalNDNI(kind Kind) (maxND, maxNI int) {
	switch kind {
	case KindSPK:
		return 2, 6
	case KindPCK:
		return 2, 6
	default:
		return 0, 0
	}
}

// Header returns the decoded file record.
func (f *File) Header() FileRecord { return f.header }

func (f *File) recordInBounds(recordNo int) bool {
	if recordNo < 1 {
		return false
	}
	start := (recordNo - 1) * RecordLen
	return start+RecordLen <= len(f.buf)
}

func (f *File) recordBytes(recordNo int) ([]byte, error) {
	if !f.recordInBounds(recordNo) {
		return nil, &kerrors.InaccessibleBytesError{Start: (recordNo - 1) * RecordLen, End: recordNo * RecordLen, Size: len(f.buf)}
	}
	start := (recordNo - 1) * RecordLen
	return f.buf[start : start+RecordLen], nil
}

// Double reads the 1-based k-th double in the file's element array.
func (f *File) Double(k int) (float64, error) {
	byteOff := k * 8
	if byteOff < 8 || byteOff+8 > len(f.buf) {
		return 0, &kerrors.InaccessibleBytesError{Start: byteOff, End: byteOff + 8, Size: len(f.buf)}
	}
	bits := f.order.Uint64(f.buf[byteOff : byteOff+8])
	return math.Float64frombits(bits), nil
}

// Doubles returns the inclusive 1-based range [start, end] of the element
// array as freshly materialized values (decoded through the file's
// endianness), matching spec.md's "Contiguous slicing (doubles(start..=end))
// yields a sub-slice view" contract at the semantic level; because Go
// cannot reinterpret foreign-endian bytes as a []float64 without copying,
// this allocates one slice of len(end-start+1) rather than truly aliasing
// the backing buffer.
func (f *File) Doubles(start, end int) ([]float64, error) {
	if start < 1 || end < start {
		return nil, &kerrors.InaccessibleBytesError{Start: start * 8, End: end * 8, Size: len(f.buf)}
	}
	out := make([]float64, end-start+1)
	for i := range out {
		v, err := f.Double(start + i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
