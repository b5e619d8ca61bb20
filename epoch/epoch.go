// Package epoch implements the high-precision dual-component time
// representation spec.md §6 requires: a day count plus a sub-day duration
// with a nanosecond floor, internally carried in the TDB (barycentric
// dynamical time) scale.
//
// The teacher and the rest of the retrieval pack have no time-scale
// library (the original Rust source depends on hifitime, which has no Go
// analogue anywhere in the pack), so this package is a deliberately small,
// from-scratch implementation grounded on hifitime's field layout
// (days + nanoseconds-of-day) rather than wrapping time.Time, which cannot
// represent TDB/TT/TAI distinctly or carry sub-nanosecond-free epochs
// before the Unix era.
package epoch

import (
	"fmt"
	"time"
)

// j2000UnixTAI is the Unix time (UTC, seconds) of the J2000.0 epoch
// (2000-01-01T11:58:55.816 UTC, i.e. 2000-01-01T12:00:00 TT).
const j2000UnixTAI = 946727935.816

// ttMinusTAI is the fixed offset between Terrestrial Time and International
// Atomic Time, in seconds. It never changes.
const ttMinusTAI = 32.184

// secondsPerDay is the number of SI seconds in a day, used to decompose a
// TDB-seconds-past-J2000 value into whole days plus a sub-day remainder.
const secondsPerDay = 86400.0

// leapSecondsAtUnix is a small fixed table of (TAI-UTC) leap-second counts,
// each valid from the given Unix timestamp (UTC) onward. This core does not
// track announcements after 2017-01-01 (37 leap seconds), the last IERS
// leap second inserted as of this writing; see Epoch.FromUTC for the
// consequence of that bound.
var leapSecondsAtUnix = []struct {
	unix int64
	tai  float64
}{
	{63072000, 10}, // 1972-01-01
	{78796800, 11},
	{94694400, 12},
	{126230400, 13},
	{157766400, 14},
	{189302400, 15},
	{220924800, 16},
	{252460800, 17},
	{283996800, 18},
	{315532800, 19},
	{362793600, 20},
	{394329600, 21},
	{425865600, 22},
	{489024000, 23},
	{567993600, 24},
	{631152000, 25},
	{662688000, 26},
	{709948800, 27},
	{741484800, 28},
	{773020800, 29},
	{820454400, 30},
	{867715200, 31},
	{915148800, 32},
	{1136073600, 33},
	{1230768000, 34},
	{1341100800, 35},
	{1435708800, 36},
	{1483228800, 37},
}

func taiMinusUTC(unixUTC int64) float64 {
	v := 0.0
	for _, e := range leapSecondsAtUnix {
		if unixUTC >= e.unix {
			v = e.tai
		}
	}
	return v
}

// Epoch is a TDB-scale instant carried as a whole day count plus a
// nanosecond-resolution duration since noon of that day, matching spec.md
// §3's "epoch is stored in the TDB time scale internally" and §6's
// "day count plus a sub-day duration with nanosecond floor" wire contract.
//
// days counts whole days since J2000.0 TDB noon; the reference point for
// dayNanos is that same noon, so dayNanos ranges over [-12h, +12h) in
// nanoseconds, keeping the decomposition unique.
type Epoch struct {
	days     int64
	dayNanos int64 // nanoseconds since days*86400s past J2000 TDB noon, in [-12h,+12h) ns
}

const halfDayNanos = int64(secondsPerDay / 2 * 1e9)

// FromTDBSeconds builds an Epoch from a count of TDB seconds past J2000.0.
func FromTDBSeconds(etSeconds float64) Epoch {
	totalNanos := etSeconds * 1e9
	days := int64(totalNanos) / int64(secondsPerDay*1e9)
	rem := int64(totalNanos) - days*int64(secondsPerDay*1e9)
	// normalize rem into [-halfDayNanos, halfDayNanos)
	for rem >= halfDayNanos {
		rem -= int64(secondsPerDay * 1e9)
		days++
	}
	for rem < -halfDayNanos {
		rem += int64(secondsPerDay * 1e9)
		days--
	}
	return Epoch{days: days, dayNanos: rem}
}

// ToTDBSeconds returns the number of TDB seconds past J2000.0.
func (e Epoch) ToTDBSeconds() float64 {
	return float64(e.days)*secondsPerDay + float64(e.dayNanos)/1e9
}

// FromUTC converts a wall-clock time.Time (any location; converted to UTC
// internally) into a TDB Epoch. TDB is approximated as TT (the periodic
// relativistic TDB-TT correction, at most ~1.7ms, is not modeled — see
// spec.md Open Question Q2 for the analogous DUT1 approximation note).
// Dates after the last tracked leap second (2017-01-01) use that leap
// count, which is correct until the next announced leap second.
func FromUTC(t time.Time) Epoch {
	u := t.UTC()
	unixSec := u.Unix()
	tai := taiMinusUTC(unixSec)
	// j2000UnixTAI is J2000 read on the UTC Unix clock, so the elapsed UTC
	// seconds only need the change in TAI-UTC since J2000 added back (the
	// fixed TT-TAI offset cancels out of the difference).
	etSeconds := (float64(unixSec) - j2000UnixTAI) + float64(u.Nanosecond())/1e9 + (tai - taiMinusUTC(int64(j2000UnixTAI)))
	return FromTDBSeconds(etSeconds)
}

// ToUTC returns the approximate UTC wall-clock time, inverting FromUTC.
func (e Epoch) ToUTC() time.Time {
	et := e.ToTDBSeconds()
	unixApprox := int64(et) + int64(j2000UnixTAI)
	tai := taiMinusUTC(unixApprox)
	unixSec := et - (tai - taiMinusUTC(int64(j2000UnixTAI))) + j2000UnixTAI
	sec := int64(unixSec)
	nanos := int64((unixSec - float64(sec)) * 1e9)
	return time.Unix(sec, nanos).UTC()
}

// Add returns e shifted forward by d.
func (e Epoch) Add(d time.Duration) Epoch {
	return FromTDBSeconds(e.ToTDBSeconds() + d.Seconds())
}

// Sub returns the duration from o to e (e - o).
func (e Epoch) Sub(o Epoch) time.Duration {
	return time.Duration((e.ToTDBSeconds() - o.ToTDBSeconds()) * float64(time.Second))
}

// Before reports whether e occurs strictly before o.
func (e Epoch) Before(o Epoch) bool { return e.ToTDBSeconds() < o.ToTDBSeconds() }

// After reports whether e occurs strictly after o.
func (e Epoch) After(o Epoch) bool { return e.ToTDBSeconds() > o.ToTDBSeconds() }

func (e Epoch) String() string {
	return fmt.Sprintf("%s TDB", e.ToUTC().Format("2006-01-02T15:04:05.000000000"))
}
