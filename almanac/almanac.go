// Package almanac implements the kernel-graph resolver spec.md §4.5
// describes: an immutable bundle of loaded SPK (translational) and BPC
// (rotational) kernels plus planetary/orientation constant datasets, with
// operations to translate a target frame's position relative to an
// observer frame, rotate between body-fixed orientations, compose the two
// into a full geometric-plus-rotational transform, and the light-time and
// stellar aberration corrections that sit on top of translation.
//
// Grounded on _examples/original_source/anise/src/almanac/mod.rs (the
// Almanac bundle and its Load methods) and translations.rs/aberration.rs
// (the resolver algorithms themselves); the reverse-load-order override
// convention mirrors pck.Dataset, already adapted from the same source.
// Logging follows the teacher's own ephemeris.go precedent of validating
// structure once at load and trusting it on every subsequent query:
// zerolog events are emitted only from the Load* methods, never from
// Translate/Rotate, so the hot query path never logs.
package almanac

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/navkernel/almanac/daf"
	"github.com/navkernel/almanac/kerrors"
	"github.com/navkernel/almanac/pck"
	"github.com/navkernel/almanac/records"
)

// MaxLoadedKernels bounds how many SPK or BPC files a single Almanac may
// carry, per spec.md §4.5 ("Loading n+1 past MAX_LOADED_KERNELS errors
// rather than silently evicting the oldest kernel").
const MaxLoadedKernels = 32

// MaxTreeDepth bounds how many parent hops a path-to-root walk may take
// before the graph is considered malformed, per spec.md §4.5.
const MaxTreeDepth = 8

type spkSegment struct {
	TargetID, CenterID int32
	StartSec, EndSec   float64
	Seg                records.Segment
}

type bpcSegment struct {
	OrientationID, BaseFrameID int32
	StartSec, EndSec           float64
	Seg                        records.Segment
}

type spkKernel struct {
	path     string
	segments []spkSegment
}

type bpcKernel struct {
	path     string
	segments []bpcSegment
}

// Almanac is the immutable bundle of every loaded SPK kernel, BPC kernel,
// and constants dataset, per spec.md §4.5. The zero value has no loaded
// kernels and is ready to use; every Load* method returns a new Almanac
// rather than mutating the receiver, so earlier snapshots remain valid
// after a later kernel is loaded.
type Almanac struct {
	spks         []*spkKernel
	bpcs         []*bpcKernel
	Constants    pck.Dataset
	Orientations pck.OrientationDataset
}

// cloneSPKs and cloneBPCs give Load* methods a fresh backing array to
// append to, so a returned Almanac never shares mutable tail capacity
// with the receiver it was derived from.
func (a Almanac) cloneSPKs() []*spkKernel {
	out := make([]*spkKernel, len(a.spks))
	copy(out, a.spks)
	return out
}

func (a Almanac) cloneBPCs() []*bpcKernel {
	out := make([]*bpcKernel, len(a.bpcs))
	copy(out, a.bpcs)
	return out
}

// LoadSPKBytes parses buf as a DAF/SPK kernel and returns a new Almanac
// with it appended as the highest-priority SPK kernel.
func (a Almanac) LoadSPKBytes(buf []byte, path string) (Almanac, error) {
	if len(a.spks) >= MaxLoadedKernels {
		return Almanac{}, kerrors.Action(&kerrors.TooManyKernelsError{Kind: "SPK", Limit: MaxLoadedKernels}, "loading SPK kernel")
	}
	f, err := daf.Open(buf)
	if err != nil {
		return Almanac{}, kerrors.Action(err, "opening SPK kernel "+path)
	}
	if f.Header().Kind != daf.KindSPK {
		return Almanac{}, kerrors.Action(&kerrors.FileRecordError{Reason: "not a DAF/SPK file"}, "loading SPK kernel "+path)
	}
	summaries, err := f.Summaries()
	if err != nil {
		return Almanac{}, kerrors.Action(err, "reading SPK segment summaries in "+path)
	}

	kernel := &spkKernel{path: path}
	for _, s := range summaries {
		spk, err := s.AsSPK()
		if err != nil {
			return Almanac{}, kerrors.Action(err, "decoding SPK summary in "+path)
		}
		doubles, err := f.Doubles(int(spk.StartIdx), int(spk.EndIdx))
		if err != nil {
			return Almanac{}, kerrors.Action(err, "reading SPK segment data in "+path)
		}
		seg, err := records.Decode(spk.DataType, doubles)
		if err != nil {
			return Almanac{}, kerrors.Action(err, "decoding SPK segment in "+path)
		}
		kernel.segments = append(kernel.segments, spkSegment{
			TargetID: spk.TargetID, CenterID: spk.CenterID,
			StartSec: spk.StartEpochTDBSec, EndSec: spk.EndEpochTDBSec,
			Seg: seg,
		})
	}

	out := a
	out.spks = a.cloneSPKs()
	out.spks = append(out.spks, kernel)
	log.Info().Str("path", path).Int("segments", len(kernel.segments)).Msg("loaded SPK kernel")
	return out, nil
}

// LoadBPCBytes parses buf as a DAF/PCK (binary orientation) kernel and
// returns a new Almanac with it appended as the highest-priority BPC
// kernel.
func (a Almanac) LoadBPCBytes(buf []byte, path string) (Almanac, error) {
	if len(a.bpcs) >= MaxLoadedKernels {
		return Almanac{}, kerrors.Action(&kerrors.TooManyKernelsError{Kind: "BPC", Limit: MaxLoadedKernels}, "loading BPC kernel")
	}
	f, err := daf.Open(buf)
	if err != nil {
		return Almanac{}, kerrors.Action(err, "opening BPC kernel "+path)
	}
	if f.Header().Kind != daf.KindPCK {
		return Almanac{}, kerrors.Action(&kerrors.FileRecordError{Reason: "not a DAF/PCK file"}, "loading BPC kernel "+path)
	}
	summaries, err := f.Summaries()
	if err != nil {
		return Almanac{}, kerrors.Action(err, "reading BPC segment summaries in "+path)
	}

	kernel := &bpcKernel{path: path}
	for _, s := range summaries {
		bpc, err := s.AsBPC()
		if err != nil {
			return Almanac{}, kerrors.Action(err, "decoding BPC summary in "+path)
		}
		doubles, err := f.Doubles(int(bpc.StartIdx), int(bpc.EndIdx))
		if err != nil {
			return Almanac{}, kerrors.Action(err, "reading BPC segment data in "+path)
		}
		seg, err := records.Decode(bpc.DataType, doubles)
		if err != nil {
			return Almanac{}, kerrors.Action(err, "decoding BPC segment in "+path)
		}
		kernel.segments = append(kernel.segments, bpcSegment{
			OrientationID: bpc.OrientationID, BaseFrameID: bpc.BaseFrameID,
			StartSec: bpc.StartEpochTDBSec, EndSec: bpc.EndEpochTDBSec,
			Seg: seg,
		})
	}

	out := a
	out.bpcs = a.cloneBPCs()
	out.bpcs = append(out.bpcs, kernel)
	log.Info().Str("path", path).Int("segments", len(kernel.segments)).Msg("loaded BPC kernel")
	return out, nil
}

// LoadPCKBytes decodes buf as the pinned planetary-constant sidecar format
// (SPEC_FULL.md §13.2) and folds its records into both the constants
// dataset and, for any record carrying pole data, the orientation dataset.
func (a Almanac) LoadPCKBytes(buf []byte, path string) (Almanac, error) {
	meta, recs, err := pck.DecodeSidecar(buf)
	if err != nil {
		return Almanac{}, kerrors.Action(err, "loading planetary-constant sidecar "+path)
	}

	out := a
	out.Constants.Load(recs)

	var orientRecords []pck.OrientationRecord
	for _, r := range recs {
		if !r.HasPole {
			continue
		}
		orientRecords = append(orientRecords, pck.OrientationRecord{
			ID:   r.ID,
			Name: r.Name,
			RA:   [2]float64{r.PoleRA[0], r.PoleRA[1]},
			Dec:  [2]float64{r.PoleDec[0], r.PoleDec[1]},
			PM:   [3]float64{r.PolePM[0], r.PolePM[1], r.PolePM[2]},
		})
	}
	if len(orientRecords) > 0 {
		out.Orientations.Load(orientRecords)
	}

	log.Info().Str("path", path).Str("originator", meta.Originator).Int("records", len(recs)).Msg("loaded planetary-constant sidecar")
	return out, nil
}

// Load reads path from disk and dispatches to LoadSPKBytes, LoadBPCBytes,
// or LoadPCKBytes by sniffing the file's magic bytes, a convenience layer
// on top of the byte-oriented Load* methods the core resolver uses.
func (a Almanac) Load(path string) (Almanac, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Almanac{}, kerrors.Action(&kerrors.GenericErr{Msg: "reading kernel file " + path, Err: err}, "loading kernel")
	}
	switch {
	case len(buf) >= 8 && string(buf[0:4]) == "DAF/" && string(buf[4:7]) == "SPK":
		return a.LoadSPKBytes(buf, path)
	case len(buf) >= 8 && string(buf[0:4]) == "DAF/" && string(buf[4:7]) == "PCK":
		return a.LoadBPCBytes(buf, path)
	case len(buf) >= 8 && string(buf[0:4]) == "PCKD":
		return a.LoadPCKBytes(buf, path)
	default:
		return Almanac{}, kerrors.Action(&kerrors.FileRecordError{Reason: "unrecognized kernel file magic"}, "loading kernel "+path)
	}
}
