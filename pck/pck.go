// Package pck implements the planetary-constant dataset spec.md §5
// describes: an append-only, insertion-ordered collection of constant
// records indexed both by integer id and by lowercased name, where lookups
// search in reverse load order so a later-loaded dataset overrides an
// earlier one's record for the same id (spec.md: "lookup searches in
// reverse load order so later loads override earlier ones").
//
// Grounded on _examples/original_source/anise/src/structure/metadata.rs
// for the sidecar's header fields (originator, semantic version, creation
// timestamp) and the pinned binary encoding in SPEC_FULL.md §13.2. The
// reverse-load-order override rule mirrors the teacher's own append-only
// constants array in internal_types.go, generalized from "one dataset per
// ephemeris" to "many sidecar files, later wins".
package pck

import (
	"strings"

	"github.com/navkernel/almanac/frame"
	"github.com/navkernel/almanac/kerrors"
)

// Record is one planetary-constant entry, per spec.md §3/§5.
type Record struct {
	ID   int32
	Name string // may be empty

	Mu    float64
	HasMu bool

	Ellipsoid    frame.Ellipsoid
	HasEllipsoid bool

	// Pole orientation coefficients (right ascension, declination, prime
	// meridian), each a (constant, rate, accel) triple in degrees; RA/Dec
	// rates are per century and PM rates per day (accel per day^2), per the
	// teacher pack's IAU pole model convention.
	PoleRA, PoleDec, PolePM [3]float64
	HasPole                 bool
}

// dataset is one loaded sidecar's worth of records, kept so reverse
// load-order search can walk datasets newest-first without needing to
// merge them destructively.
type dataset struct {
	byID   map[int32]Record
	byName map[string]int32
}

// Dataset is the append-only, insertion-ordered collection of loaded
// planetary-constant datasets. The zero value is ready to use.
type Dataset struct {
	loaded []dataset
}

// Load appends a freshly parsed set of records as a new dataset, making it
// the highest-priority dataset for override purposes (spec.md §5: "later
// loads override earlier ones").
func (d *Dataset) Load(records []Record) {
	ds := dataset{byID: make(map[int32]Record, len(records)), byName: make(map[string]int32, len(records))}
	for _, r := range records {
		ds.byID[r.ID] = r
		if r.Name != "" {
			ds.byName[strings.ToLower(r.Name)] = r.ID
		}
	}
	d.loaded = append(d.loaded, ds)
}

// ByID looks up a record by id, searching datasets in reverse load order.
func (d *Dataset) ByID(id int32) (Record, bool) {
	for i := len(d.loaded) - 1; i >= 0; i-- {
		if r, ok := d.loaded[i].byID[id]; ok {
			return r, true
		}
	}
	return Record{}, false
}

// ByName looks up a record by case-insensitive name, searching datasets in
// reverse load order.
func (d *Dataset) ByName(name string) (Record, bool) {
	lower := strings.ToLower(name)
	for i := len(d.loaded) - 1; i >= 0; i-- {
		if id, ok := d.loaded[i].byName[lower]; ok {
			return d.loaded[i].byID[id], true
		}
	}
	return Record{}, false
}

// FrameInfo returns f with its μ and ellipsoid populated from the dataset's
// record for f.EphemerisID, or f unchanged if no record is loaded for that
// id, per spec.md §5: "Lookup 'frame info for F' = (F.with_mu(...)
// .with_ellipsoid(...)) or the untouched F if not present."
func (d *Dataset) FrameInfo(f frame.Frame) frame.Frame {
	r, ok := d.ByID(f.EphemerisID)
	if !ok {
		return f
	}
	out := f
	if r.HasMu {
		out = out.WithMu(r.Mu)
	}
	if r.HasEllipsoid {
		out = out.WithEllipsoid(r.Ellipsoid)
	}
	return out
}

// MuOrError returns the gravitational parameter for id, or a
// MissingGravParamError if no loaded dataset has one, per spec.md §6's
// "failure to look up a frame's μ triggers a second attempt through the
// planetary-constant dataset before surfacing".
func (d *Dataset) MuOrError(id int32) (float64, error) {
	r, ok := d.ByID(id)
	if !ok || !r.HasMu {
		return 0, kerrors.Action(&kerrors.MissingGravParamError{BodyID: id}, "looking up gravitational parameter")
	}
	return r.Mu, nil
}
