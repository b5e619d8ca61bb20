// Package state implements the Cartesian/Keplerian state model spec.md
// §4.4 describes: construction from six scalars or a geodetic triple,
// Keplerian <-> Cartesian conversion with its guard errors, derived scalar
// elements recomputed on demand (never cached), geodetic conversion
// (Vallado Alg. 12), and the topocentric/RIC/VNC/RCN DCM builders used by
// the almanac's frame transforms.
//
// Grounded on _examples/original_source/src/astro/orbit.rs
// (try_keplerian/keplerian element accessors — GMAT's
// StateConversionUtil ported to Rust, here ported again to Go) and
// orbit_geodetic.rs (from_altlatlong / geodetic_latitude / geodetic_height,
// Vallado Algorithm 12). Mutators are expressed as pure "with"-builders
// rather than Rust's &mut self set_* plus with_* pair, since the teacher's
// own code (mshafiee-jpleph) favors value types returned from functions
// over in-place mutation.
package state

import (
	"math"

	"github.com/navkernel/almanac/epoch"
	"github.com/navkernel/almanac/frame"
	"github.com/navkernel/almanac/internal/linalg"
	"github.com/navkernel/almanac/kerrors"
)

// eccEpsilon mirrors interp.eccEpsilon; duplicated here (rather than
// imported) since this package must not depend on interp's internal
// constant and the value is part of the public contract (spec.md §5.4).
const eccEpsilon = 1e-11

// CartesianState is a position/velocity pair tagged with an epoch and a
// frame, per spec.md §4.4. It is small and copied by value.
type CartesianState struct {
	PositionKm  linalg.Vec3
	VelocityKmS linalg.Vec3
	Epoch       epoch.Epoch
	Frame       frame.Frame
}

// New constructs a CartesianState from six scalars, per spec.md §4.4.
func New(x, y, z, vx, vy, vz float64, e epoch.Epoch, f frame.Frame) CartesianState {
	return CartesianState{
		PositionKm:  linalg.Vec3{x, y, z},
		VelocityKmS: linalg.Vec3{vx, vy, vz},
		Epoch:       e,
		Frame:       f,
	}
}

// FromVectors constructs a CartesianState from a position and velocity
// vector directly.
func FromVectors(pos, vel linalg.Vec3, e epoch.Epoch, f frame.Frame) CartesianState {
	return CartesianState{PositionKm: pos, VelocityKmS: vel, Epoch: e, Frame: f}
}

// Add returns the component-wise sum of two states sharing the same epoch
// and frame, matching the semantics the almanac resolver needs when
// composing per-segment translations (spec.md §4.5).
func (s CartesianState) Add(o CartesianState) CartesianState {
	return CartesianState{
		PositionKm:  s.PositionKm.Add(o.PositionKm),
		VelocityKmS: s.VelocityKmS.Add(o.VelocityKmS),
		Epoch:       s.Epoch,
		Frame:       s.Frame,
	}
}

// Sub returns s - o, keeping s's epoch and frame.
func (s CartesianState) Sub(o CartesianState) CartesianState {
	return CartesianState{
		PositionKm:  s.PositionKm.Sub(o.PositionKm),
		VelocityKmS: s.VelocityKmS.Sub(o.VelocityKmS),
		Epoch:       s.Epoch,
		Frame:       s.Frame,
	}
}

// WithFrame returns a copy of s tagged with a different frame, leaving the
// numeric position/velocity untouched (a relabeling, not a transform).
func (s CartesianState) WithFrame(f frame.Frame) CartesianState {
	s.Frame = f
	return s
}

// EqualWithin reports whether s and o agree on position and velocity within
// the given absolute tolerances (km and km/s respectively).
func (s CartesianState) EqualWithin(o CartesianState, posTolKm, velTolKmS float64) bool {
	d := s.PositionKm.Sub(o.PositionKm)
	dv := s.VelocityKmS.Sub(o.VelocityKmS)
	return d.Norm() <= posTolKm && dv.Norm() <= velTolKmS
}

// RmagKm is the state's radial distance, in kilometers.
func (s CartesianState) RmagKm() float64 { return s.PositionKm.Norm() }

// VmagKmS is the state's speed, in kilometers per second.
func (s CartesianState) VmagKmS() float64 { return s.VelocityKmS.Norm() }

func degrees(rad float64) float64 { return rad * 180.0 / math.Pi }
func radians(deg float64) float64 { return deg * math.Pi / 180.0 }

func between0And360(deg float64) float64 {
	d := math.Mod(deg, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}

func betweenPlusMinus180(deg float64) float64 {
	d := between0And360(deg + 180.0)
	return d - 180.0
}
