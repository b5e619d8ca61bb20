package almanac

// Well-known NAIF integer ids, per spec.md §3's glossary entries for the
// solar-system barycenter, the inertial root frame, and the handful of
// bodies the worked examples in spec.md name directly. Almanac itself never
// special-cases these beyond the ones genuinely load-bearing in this
// package (SSB as the aberration pivot, J2000 as the default inertial
// orientation root); the rest are exported for callers building Frame
// values without memorizing the NAIF catalog.
const (
	SolarSystemBarycenterID int32 = 0
	MercuryBarycenterID     int32 = 1
	VenusBarycenterID       int32 = 2
	EarthMoonBarycenterID   int32 = 3
	MarsBarycenterID        int32 = 4
	JupiterBarycenterID     int32 = 5
	SaturnBarycenterID      int32 = 6
	UranusBarycenterID      int32 = 7
	NeptuneBarycenterID     int32 = 8
	PlutoBarycenterID       int32 = 9
	SunID                   int32 = 10
	MoonID                  int32 = 301
	EarthID                 int32 = 399

	// J2000OrientationID is the inertial root orientation id spec.md §3
	// uses throughout its worked examples.
	J2000OrientationID int32 = 1

	// IAUEarthOrientationID is Earth's body-fixed orientation id, per the
	// spec.md glossary's "IAU body-fixed frames use orientation id
	// 100*planet_id + 99" convention (planet_id 3 for Earth).
	IAUEarthOrientationID int32 = 399
)
