package pck

import (
	"strings"

	"github.com/navkernel/almanac/kerrors"
)

// OrientationRecord is one orientation-constant entry: the IAU pole model
// (right ascension, declination, prime meridian, each a polynomial in
// centuries/days past J2000 TDB) for a single body, per spec.md's mention
// of "a planetary-constant dataset, and an orientation-constant dataset".
type OrientationRecord struct {
	ID   int32
	Name string

	// RA, Dec are (constant, rate) in degrees, degrees/century.
	RA, Dec [2]float64
	// PM is (constant, rate, accel) in degrees, degrees/day, degrees/day^2.
	PM [3]float64

	// NutationPrecessionAmplitudes holds the per-term sine-series
	// amplitudes (degrees) some bodies' pole models add on top of the RA/
	// Dec/PM polynomials; empty when the body uses the plain polynomial
	// model.
	NutationPrecessionAmplitudes []float64
}

type orientationDataset struct {
	byID   map[int32]OrientationRecord
	byName map[string]int32
}

// OrientationDataset is the orientation-constant counterpart to Dataset:
// an append-only, insertion-ordered collection of loaded orientation
// records, searched in reverse load order so later loads override earlier
// ones (mirrors Dataset's override rule).
type OrientationDataset struct {
	loaded []orientationDataset
}

// Load appends a freshly parsed set of orientation records as a new,
// highest-priority dataset.
func (d *OrientationDataset) Load(records []OrientationRecord) {
	ds := orientationDataset{byID: make(map[int32]OrientationRecord, len(records)), byName: make(map[string]int32, len(records))}
	for _, r := range records {
		ds.byID[r.ID] = r
		if r.Name != "" {
			ds.byName[strings.ToLower(r.Name)] = r.ID
		}
	}
	d.loaded = append(d.loaded, ds)
}

// ByID looks up an orientation record by id, searching datasets in reverse
// load order.
func (d *OrientationDataset) ByID(id int32) (OrientationRecord, bool) {
	for i := len(d.loaded) - 1; i >= 0; i-- {
		if r, ok := d.loaded[i].byID[id]; ok {
			return r, true
		}
	}
	return OrientationRecord{}, false
}

// ByName looks up an orientation record by case-insensitive name,
// searching datasets in reverse load order.
func (d *OrientationDataset) ByName(name string) (OrientationRecord, bool) {
	lower := strings.ToLower(name)
	for i := len(d.loaded) - 1; i >= 0; i-- {
		if id, ok := d.loaded[i].byName[lower]; ok {
			return d.loaded[i].byID[id], true
		}
	}
	return OrientationRecord{}, false
}

// PoleRADecPMDeg evaluates the body's pole right ascension, declination,
// and prime meridian, in degrees, at centuriesPastJ2000TDB / daysPastJ2000TDB,
// per the standard IAU polynomial pole model: RA = ra0 + ra1*T,
// Dec = dec0 + dec1*T, PM = pm0 + pm1*d + pm2*d^2 (T in Julian centuries,
// d in days). Nutation/precession amplitude terms, when present, are left
// to the caller to add since their per-body argument angles are not part
// of this fixed-shape record.
func (d *OrientationDataset) PoleRADecPMDeg(id int32, centuriesPastJ2000TDB, daysPastJ2000TDB float64) (ra, dec, pm float64, err error) {
	r, ok := d.ByID(id)
	if !ok {
		return 0, 0, 0, kerrors.Action(&kerrors.MissingOrientationConstantsError{BodyID: id}, "looking up pole orientation constants")
	}
	ra = r.RA[0] + r.RA[1]*centuriesPastJ2000TDB
	dec = r.Dec[0] + r.Dec[1]*centuriesPastJ2000TDB
	pm = r.PM[0] + r.PM[1]*daysPastJ2000TDB + r.PM[2]*daysPastJ2000TDB*daysPastJ2000TDB
	return ra, dec, pm, nil
}
