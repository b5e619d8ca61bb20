package pck

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"math"
	"time"

	"github.com/navkernel/almanac/kerrors"
)

// Sidecar binary format, pinned in SPEC_FULL.md §13.2 since spec.md leaves
// the exact byte layout unspecified ("a custom extensible binary format").
var sidecarMagic = [8]byte{'P', 'C', 'K', 'D', 0x01, 0x00, 0x00, 0x00}

const (
	originatorLen   = 64
	semverLen       = 32
	perRecordNameLen = 32
)

// Metadata is the sidecar's fixed header, grounded on
// _examples/original_source/anise/src/structure/metadata.rs's field list
// (creation date, originator, semantic version).
type Metadata struct {
	Originator string
	Semver     string
	CreatedAt  time.Time
}

// DecodeSidecar parses the pinned binary planetary-constant sidecar format
// described in SPEC_FULL.md §13.2: an 8-byte magic, a 64-byte originator
// string, a 32-byte semver string, an 8-byte Unix timestamp, a uint32
// record count, the records themselves, and an optional trailing CRC-32
// gated by a final flag byte.
func DecodeSidecar(buf []byte) (Metadata, []Record, error) {
	const headerLen = 8 + originatorLen + semverLen + 8 + 4
	if len(buf) < headerLen {
		return Metadata{}, nil, kerrors.Action(&kerrors.TooFewDoublesError{Dataset: "PCK sidecar header", Need: headerLen, Got: len(buf)}, "decoding planetary-constant sidecar")
	}
	if !bytes.Equal(buf[:8], sidecarMagic[:]) {
		return Metadata{}, nil, kerrors.Action(&kerrors.FileRecordError{Reason: "bad PCK sidecar magic"}, "decoding planetary-constant sidecar")
	}

	off := 8
	originator := trimNulls(buf[off : off+originatorLen])
	off += originatorLen
	semver := trimNulls(buf[off : off+semverLen])
	off += semverLen
	unixSec := int64(binary.LittleEndian.Uint64(buf[off : off+8]))
	off += 8
	recordCount := binary.LittleEndian.Uint32(buf[off : off+4])
	off += 4

	meta := Metadata{
		Originator: originator,
		Semver:     semver,
		CreatedAt:  time.Unix(unixSec, 0).UTC(),
	}

	const recordLen = 4 + perRecordNameLen + 8 + 1 + 8 + 8 + 8 + 1 + 3*8 + 3*8 + 3*8
	need := off + int(recordCount)*recordLen
	if need > len(buf) {
		return meta, nil, kerrors.Action(&kerrors.InaccessibleBytesError{Start: off, End: need, Size: len(buf)}, "decoding planetary-constant sidecar records")
	}

	records := make([]Record, 0, recordCount)
	for i := uint32(0); i < recordCount; i++ {
		rec := buf[off : off+recordLen]
		off += recordLen

		r := Record{}
		r.ID = int32(binary.LittleEndian.Uint32(rec[0:4]))
		r.Name = trimNulls(rec[4 : 4+perRecordNameLen])
		p := 4 + perRecordNameLen

		r.Mu = math.Float64frombits(binary.LittleEndian.Uint64(rec[p : p+8]))
		p += 8
		r.HasMu = rec[p] != 0
		p++

		r.Ellipsoid.SemiMajorRadiusKm = math.Float64frombits(binary.LittleEndian.Uint64(rec[p : p+8]))
		p += 8
		r.Ellipsoid.SemiMinorRadiusKm = math.Float64frombits(binary.LittleEndian.Uint64(rec[p : p+8]))
		p += 8
		r.Ellipsoid.PolarRadiusKm = math.Float64frombits(binary.LittleEndian.Uint64(rec[p : p+8]))
		p += 8
		r.HasEllipsoid = rec[p] != 0
		p++

		for c := 0; c < 3; c++ {
			r.PoleRA[c] = math.Float64frombits(binary.LittleEndian.Uint64(rec[p : p+8]))
			p += 8
		}
		for c := 0; c < 3; c++ {
			r.PoleDec[c] = math.Float64frombits(binary.LittleEndian.Uint64(rec[p : p+8]))
			p += 8
		}
		for c := 0; c < 3; c++ {
			r.PolePM[c] = math.Float64frombits(binary.LittleEndian.Uint64(rec[p : p+8]))
			p += 8
		}
		r.HasPole = r.PoleRA != [3]float64{} || r.PoleDec != [3]float64{} || r.PolePM != [3]float64{}

		records = append(records, r)
	}

	if off < len(buf) {
		hasCRC := buf[len(buf)-1] != 0
		if hasCRC && len(buf) >= off+5 {
			stored := binary.LittleEndian.Uint32(buf[off : off+4])
			computed := crc32.ChecksumIEEE(buf[:off])
			if stored != computed {
				return meta, nil, kerrors.Action(&kerrors.FileRecordError{Reason: "PCK sidecar CRC-32 mismatch"}, "decoding planetary-constant sidecar")
			}
		}
	}

	return meta, records, nil
}

// EncodeSidecar serializes meta and records into the pinned binary format,
// optionally appending a trailing CRC-32 over the header+record bytes when
// withCRC is true.
func EncodeSidecar(meta Metadata, records []Record, withCRC bool) []byte {
	var buf bytes.Buffer
	buf.Write(sidecarMagic[:])
	buf.Write(fixedString(meta.Originator, originatorLen))
	buf.Write(fixedString(meta.Semver, semverLen))

	var tsBuf [8]byte
	binary.LittleEndian.PutUint64(tsBuf[:], uint64(meta.CreatedAt.Unix()))
	buf.Write(tsBuf[:])

	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(records)))
	buf.Write(countBuf[:])

	for _, r := range records {
		writeUint32(&buf, uint32(r.ID))
		buf.Write(fixedString(r.Name, perRecordNameLen))
		writeFloat64(&buf, r.Mu)
		writeBool(&buf, r.HasMu)
		writeFloat64(&buf, r.Ellipsoid.SemiMajorRadiusKm)
		writeFloat64(&buf, r.Ellipsoid.SemiMinorRadiusKm)
		writeFloat64(&buf, r.Ellipsoid.PolarRadiusKm)
		writeBool(&buf, r.HasEllipsoid)
		for _, v := range r.PoleRA {
			writeFloat64(&buf, v)
		}
		for _, v := range r.PoleDec {
			writeFloat64(&buf, v)
		}
		for _, v := range r.PolePM {
			writeFloat64(&buf, v)
		}
	}

	if withCRC {
		crc := crc32.ChecksumIEEE(buf.Bytes())
		writeUint32(&buf, crc)
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}

	return buf.Bytes()
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeFloat64(buf *bytes.Buffer, v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	buf.Write(b[:])
}

func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func fixedString(s string, n int) []byte {
	out := make([]byte, n)
	copy(out, s)
	return out
}

func trimNulls(b []byte) string {
	end := len(b)
	for end > 0 && (b[end-1] == 0 || b[end-1] == ' ') {
		end--
	}
	return string(b[:end])
}
