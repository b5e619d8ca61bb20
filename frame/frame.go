// Package frame implements the Frame type spec.md §4.4 describes: a small,
// copy-by-value identifier pairing an ephemeris (translational) id with an
// orientation (rotational) id, optionally carrying a gravitational
// parameter and an ellipsoid when the frame names a celestial body.
//
// Grounded on _examples/original_source/src/astro/frame.rs (RefFrame's
// ephemeris/orientation hash pair and its with_ephem/with_orient
// copy-builders) and celestial_frame.rs/geodetic_frame.rs (the
// mu-implies-celestial, ellipsoid-implies-geodetic layering). The Go
// rendering flattens the Rust trait hierarchy (FrameTrait /
// CelestialFrameTrait / GeodeticFrameTrait) into a single struct with
// optional fields, since Go has no trait-object equivalent worth the
// indirection for three booleans' worth of behavior.
package frame

// Ellipsoid describes a reference ellipsoid's shape, in kilometers, per
// spec.md §4.4's geodetic conversion inputs.
type Ellipsoid struct {
	SemiMajorRadiusKm float64
	SemiMinorRadiusKm float64
	PolarRadiusKm     float64
}

// Flattening returns (a - b) / a for the equatorial/polar radii.
func (e Ellipsoid) Flattening() float64 {
	if e.SemiMajorRadiusKm == 0 {
		return 0
	}
	return (e.SemiMajorRadiusKm - e.PolarRadiusKm) / e.SemiMajorRadiusKm
}

// MeanEquatorialRadiusKm averages the two equatorial semi-axes, the radius
// the occultation and line-of-sight obstruction formulas treat a body as
// sharing between its two equatorial directions.
func (e Ellipsoid) MeanEquatorialRadiusKm() float64 {
	return (e.SemiMajorRadiusKm + e.SemiMinorRadiusKm) / 2
}

// Frame pairs an ephemeris id (translation) with an orientation id
// (rotation). Mu and Ellipsoid are optional; HasMu/HasEllipsoid record
// whether they were actually set, since a physically valid μ or radius is
// never exactly zero but the zero value can't be distinguished from
// "unset" any other way.
type Frame struct {
	EphemerisID   int32
	OrientationID int32

	Mu        float64
	HasMu     bool
	Ellipsoid Ellipsoid
	HasEllipsoid bool
}

// New constructs a Frame from its ephemeris and orientation ids, per
// spec.md §4.4.
func New(ephemerisID, orientationID int32) Frame {
	return Frame{EphemerisID: ephemerisID, OrientationID: orientationID}
}

// WithMu returns a copy of f carrying the given gravitational parameter (in
// km^3/s^2), which also makes IsCelestial report true.
func (f Frame) WithMu(muKm3S2 float64) Frame {
	f.Mu = muKm3S2
	f.HasMu = true
	return f
}

// WithEllipsoid returns a copy of f carrying the given ellipsoid, which
// also makes IsGeodetic report true.
func (f Frame) WithEllipsoid(e Ellipsoid) Frame {
	f.Ellipsoid = e
	f.HasEllipsoid = true
	return f
}

// WithEphemerisID returns a copy of f with a different ephemeris id,
// mirroring RefFrame::with_ephem.
func (f Frame) WithEphemerisID(id int32) Frame {
	f.EphemerisID = id
	return f
}

// WithOrientationID returns a copy of f with a different orientation id,
// mirroring RefFrame::with_orient.
func (f Frame) WithOrientationID(id int32) Frame {
	f.OrientationID = id
	return f
}

// IsCelestial reports whether this frame carries a gravitational
// parameter, per spec.md §4.4 ("derived booleans 'is celestial', 'is
// geodetic' follow from the presence of μ and ellipsoid").
func (f Frame) IsCelestial() bool { return f.HasMu }

// IsGeodetic reports whether this frame carries ellipsoid data.
func (f Frame) IsGeodetic() bool { return f.HasEllipsoid }

// EphemerisOriginMatches reports whether f and other share an ephemeris id.
func (f Frame) EphemerisOriginMatches(other Frame) bool {
	return f.EphemerisID == other.EphemerisID
}

// OrientationOriginMatches reports whether f and other share an
// orientation id.
func (f Frame) OrientationOriginMatches(other Frame) bool {
	return f.OrientationID == other.OrientationID
}

// Equal reports whether f and other name the same ephemeris and
// orientation id, per spec.md §4.4's "if the two frames are identical"
// check used by the translation resolver.
func (f Frame) Equal(other Frame) bool {
	return f.EphemerisID == other.EphemerisID && f.OrientationID == other.OrientationID
}
