package almanac

import "github.com/navkernel/almanac/kerrors"

// wrapEphemeris, wrapOrientation, wrapPhysics wrap a leaf kerrors error (or
// an already-Action'd chain) in the appropriate public variant from
// spec.md §7's error taxonomy, for the Almanac query methods. The Load*
// methods do not use them: they return the kerrors leaf error with action
// context only (Load wraps a file-read failure in GenericErr).
func wrapEphemeris(err error) error {
	if err == nil {
		return nil
	}
	return &kerrors.EphemerisErr{Err: err}
}

func wrapOrientation(err error) error {
	if err == nil {
		return nil
	}
	return &kerrors.OrientationErr{Err: err}
}

func wrapPhysics(err error) error {
	if err == nil {
		return nil
	}
	return &kerrors.PhysicsErr{Err: err}
}
