package almanac

import (
	"math"

	"github.com/navkernel/almanac/epoch"
	"github.com/navkernel/almanac/frame"
	"github.com/navkernel/almanac/internal/linalg"
	"github.com/navkernel/almanac/kerrors"
	"github.com/navkernel/almanac/state"
)

// findSPKSegment returns the segment covering targetID at epochTDBSec,
// searching loaded SPK kernels in reverse load order so a later-loaded
// kernel's coverage takes precedence over an earlier one's, per spec.md
// §4.5's "segment lookup walks loaded files newest-first".
func (a *Almanac) findSPKSegment(targetID int32, epochTDBSec float64) (*spkSegment, error) {
	for i := len(a.spks) - 1; i >= 0; i-- {
		for j := range a.spks[i].segments {
			s := &a.spks[i].segments[j]
			if s.TargetID == targetID && epochTDBSec >= s.StartSec && epochTDBSec <= s.EndSec {
				return s, nil
			}
		}
	}
	return nil, kerrors.Action(&kerrors.MissingInterpolationDataError{ID: targetID, EpochTDBSec: epochTDBSec}, "finding ephemeris segment")
}

// findBPCSegment is findSPKSegment's rotational counterpart.
func (a *Almanac) findBPCSegment(orientationID int32, epochTDBSec float64) (*bpcSegment, error) {
	for i := len(a.bpcs) - 1; i >= 0; i-- {
		for j := range a.bpcs[i].segments {
			s := &a.bpcs[i].segments[j]
			if s.OrientationID == orientationID && epochTDBSec >= s.StartSec && epochTDBSec <= s.EndSec {
				return s, nil
			}
		}
	}
	return nil, kerrors.Action(&kerrors.MissingInterpolationDataError{ID: orientationID, EpochTDBSec: epochTDBSec}, "finding orientation segment")
}

// pathToRoot walks the SPK graph from ephemerisID toward its root (an id
// with no loaded segment naming it as a target), per spec.md §4.5. It
// stops as soon as no further segment is found, which is the normal
// termination case, not an error; MaxRecursionDepthError is only returned
// when the walk is still finding segments after MaxTreeDepth hops.
func (a *Almanac) pathToRoot(ephemerisID int32, epochTDBSec float64) ([]int32, error) {
	path := []int32{ephemerisID}
	cur := ephemerisID
	for depth := 0; depth < MaxTreeDepth; depth++ {
		seg, err := a.findSPKSegment(cur, epochTDBSec)
		if err != nil {
			return path, nil
		}
		cur = seg.CenterID
		path = append(path, cur)
	}
	if _, err := a.findSPKSegment(cur, epochTDBSec); err == nil {
		return nil, kerrors.Action(&kerrors.MaxRecursionDepthError{BodyID: ephemerisID, Depth: MaxTreeDepth}, "walking ephemeris graph to its root")
	}
	return path, nil
}

// pathToRootOrient is pathToRoot's rotational counterpart, walking the BPC
// graph via each segment's base frame id.
func (a *Almanac) pathToRootOrient(orientationID int32, epochTDBSec float64) ([]int32, error) {
	path := []int32{orientationID}
	cur := orientationID
	for depth := 0; depth < MaxTreeDepth; depth++ {
		seg, err := a.findBPCSegment(cur, epochTDBSec)
		if err != nil {
			return path, nil
		}
		cur = seg.BaseFrameID
		path = append(path, cur)
	}
	if _, err := a.findBPCSegment(cur, epochTDBSec); err == nil {
		return nil, kerrors.Action(&kerrors.MaxRecursionDepthError{BodyID: orientationID, Depth: MaxTreeDepth}, "walking orientation graph to its root")
	}
	return path, nil
}

// commonAncestor returns the first id shared by pathA and pathB, searching
// pathA in leaf-to-root order so the match found is the one nearest pathA's
// leaf, per spec.md §4.5's "the ancestor is the deepest shared entry
// relative to a leaf-most traversal."
func commonAncestor(pathA, pathB []int32) (int32, bool) {
	for _, x := range pathA {
		for _, y := range pathB {
			if x == y {
				return x, true
			}
		}
	}
	return 0, false
}

// translateToCommonAncestor accumulates the position/velocity offset from
// ephemerisID up to ancestor, summing each hop's segment-reported
// translation, per spec.md §4.5's "translation composition via
// segment-by-segment accumulation."
func (a *Almanac) translateToCommonAncestor(ephemerisID int32, epochTDBSec float64, ancestor int32) (linalg.Vec3, linalg.Vec3, error) {
	var pos, vel linalg.Vec3
	cur := ephemerisID
	for depth := 0; depth < MaxTreeDepth; depth++ {
		if cur == ancestor {
			return pos, vel, nil
		}
		seg, err := a.findSPKSegment(cur, epochTDBSec)
		if err != nil {
			return linalg.Vec3{}, linalg.Vec3{}, err
		}
		pv, err := seg.Seg.Evaluate(epochTDBSec)
		if err != nil {
			return linalg.Vec3{}, linalg.Vec3{}, kerrors.Action(err, "evaluating ephemeris segment")
		}
		pos = pos.Add(pv.Position)
		vel = vel.Add(pv.Velocity)
		cur = seg.CenterID
	}
	if cur == ancestor {
		return pos, vel, nil
	}
	return linalg.Vec3{}, linalg.Vec3{}, kerrors.Action(&kerrors.MaxRecursionDepthError{BodyID: ephemerisID, Depth: MaxTreeDepth}, "accumulating translation to common ancestor")
}

// rotationToCommonAncestor accumulates the DCM mapping ancestor-frame
// vectors to orientationID-frame vectors (v_leaf = DCM * v_ancestor),
// composing each hop's per-segment Euler-angle DCM nearest-first.
func (a *Almanac) rotationToCommonAncestor(orientationID int32, epochTDBSec float64, ancestor int32) (linalg.Mat3, error) {
	total := linalg.Identity3()
	cur := orientationID
	for depth := 0; depth < MaxTreeDepth; depth++ {
		if cur == ancestor {
			return total, nil
		}
		seg, err := a.findBPCSegment(cur, epochTDBSec)
		if err != nil {
			return linalg.Mat3{}, err
		}
		pv, err := seg.Seg.Evaluate(epochTDBSec)
		if err != nil {
			return linalg.Mat3{}, kerrors.Action(err, "evaluating orientation segment")
		}
		hopDCM := eulerAnglesToDCM(pv.Position[0], pv.Position[1], pv.Position[2])
		total = total.Mul(hopDCM)
		cur = seg.BaseFrameID
	}
	if cur == ancestor {
		return total, nil
	}
	return linalg.Mat3{}, kerrors.Action(&kerrors.MaxRecursionDepthError{BodyID: orientationID, Depth: MaxTreeDepth}, "accumulating rotation to common ancestor")
}

// eulerAnglesToDCM builds the inertial-to-body-fixed direction cosine
// matrix (v_body = DCM * v_inertial, the direction
// rotationToCommonAncestor composes it in) from a pole right ascension,
// declination, and prime-meridian
// rotation (radians), per the standard IAU pole-model convention
// DCM = R3(w) . R1(pi/2 - dec) . R3(pi/2 + ra). Grounded on the same
// formula spec.md's body-fixed ellipsoid/geodetic work already assumes
// (state package's radius-vector math), generalized here to the rotation
// itself since the retrieved reference sources filtered out the
// orientation-specific routines; this one detail is reasoned from the IAU
// convention rather than ported line-for-line from a pack file.
func eulerAnglesToDCM(raRad, decRad, wRad float64) linalg.Mat3 {
	return r3(wRad).Mul(r1(math.Pi/2 - decRad)).Mul(r3(math.Pi/2 + raRad))
}

// RotateOrientations returns the DCM mapping a vector expressed in
// fromOrientationID's axes to toOrientationID's axes (v_to = DCM * v_from),
// per spec.md §4.5's rotation-composition algorithm: walk both ids to
// their common ancestor and compose the per-hop DCMs.
func (a *Almanac) RotateOrientations(fromOrientationID, toOrientationID int32, t epoch.Epoch) (linalg.Mat3, error) {
	if fromOrientationID == toOrientationID {
		return linalg.Identity3(), nil
	}
	epochSec := t.ToTDBSeconds()
	fromPath, err := a.pathToRootOrient(fromOrientationID, epochSec)
	if err != nil {
		return linalg.Mat3{}, wrapOrientation(kerrors.Action(err, "resolving orientation graph"))
	}
	toPath, err := a.pathToRootOrient(toOrientationID, epochSec)
	if err != nil {
		return linalg.Mat3{}, wrapOrientation(kerrors.Action(err, "resolving orientation graph"))
	}
	ancestor, ok := commonAncestor(fromPath, toPath)
	if !ok {
		return linalg.Mat3{}, wrapOrientation(kerrors.Action(&kerrors.DisjointRootsError{ObserverRoot: fromPath[len(fromPath)-1], TargetRoot: toPath[len(toPath)-1]}, "composing orientation rotation"))
	}
	fromDCM, err := a.rotationToCommonAncestor(fromOrientationID, epochSec, ancestor)
	if err != nil {
		return linalg.Mat3{}, wrapOrientation(err)
	}
	toDCM, err := a.rotationToCommonAncestor(toOrientationID, epochSec, ancestor)
	if err != nil {
		return linalg.Mat3{}, wrapOrientation(err)
	}
	return toDCM.Mul(fromDCM.Transpose()), nil
}

// Rotate returns the DCM from targetFrame's orientation to observerFrame's
// orientation at t, per spec.md §4.5: "the top-level transform is translate
// followed by the rotation from the target's orientation to the observer's
// orientation."
func (a *Almanac) Rotate(targetFrame, observerFrame frame.Frame, t epoch.Epoch) (linalg.Mat3, error) {
	return a.RotateOrientations(targetFrame.OrientationID, observerFrame.OrientationID, t)
}

// Translate returns targetFrame's Cartesian state relative to
// observerFrame at epoch t, with abCorr nil meaning geometric (uncorrected)
// translation, per spec.md §4.5. When abCorr is non-nil the light-time and
// optional stellar aberration corrections described in aberration.go are
// applied.
func (a *Almanac) Translate(targetFrame, observerFrame frame.Frame, t epoch.Epoch, abCorr *Aberration) (state.CartesianState, error) {
	if targetFrame.Equal(observerFrame) {
		return state.FromVectors(linalg.Vec3{}, linalg.Vec3{}, t, observerFrame), nil
	}
	observerFrame = a.Constants.FrameInfo(observerFrame)
	targetFrame = a.Constants.FrameInfo(targetFrame)

	if abCorr != nil {
		return a.translateWithAberration(targetFrame, observerFrame, t, *abCorr)
	}
	return a.translateGeometric(targetFrame, observerFrame, t)
}

func (a *Almanac) translateGeometric(targetFrame, observerFrame frame.Frame, t epoch.Epoch) (state.CartesianState, error) {
	epochSec := t.ToTDBSeconds()
	observerPath, err := a.pathToRoot(observerFrame.EphemerisID, epochSec)
	if err != nil {
		return state.CartesianState{}, wrapEphemeris(kerrors.Action(err, "resolving ephemeris graph"))
	}
	targetPath, err := a.pathToRoot(targetFrame.EphemerisID, epochSec)
	if err != nil {
		return state.CartesianState{}, wrapEphemeris(kerrors.Action(err, "resolving ephemeris graph"))
	}
	ancestor, ok := commonAncestor(observerPath, targetPath)
	if !ok {
		return state.CartesianState{}, wrapEphemeris(kerrors.Action(&kerrors.DisjointRootsError{
			ObserverRoot: observerPath[len(observerPath)-1],
			TargetRoot:   targetPath[len(targetPath)-1],
		}, "translating between ephemeris frames"))
	}

	obsPos, obsVel, err := a.translateToCommonAncestor(observerFrame.EphemerisID, epochSec, ancestor)
	if err != nil {
		return state.CartesianState{}, wrapEphemeris(kerrors.Action(err, "accumulating observer translation"))
	}
	tgtPos, tgtVel, err := a.translateToCommonAncestor(targetFrame.EphemerisID, epochSec, ancestor)
	if err != nil {
		return state.CartesianState{}, wrapEphemeris(kerrors.Action(err, "accumulating target translation"))
	}

	resultFrame := observerFrame.WithOrientationID(targetFrame.OrientationID)
	return state.FromVectors(tgtPos.Sub(obsPos), tgtVel.Sub(obsVel), t, resultFrame), nil
}

// TransformTo re-expresses s in toFrame, rotating its vector components
// from s.Frame's orientation into toFrame's orientation and adding the
// translation between the two frames' ephemeris origins, per spec.md
// §4.5's full (rotate+translate) transform composition.
func (a *Almanac) TransformTo(s state.CartesianState, toFrame frame.Frame, abCorr *Aberration) (state.CartesianState, error) {
	dcm, err := a.RotateOrientations(s.Frame.OrientationID, toFrame.OrientationID, s.Epoch)
	if err != nil {
		return state.CartesianState{}, kerrors.Action(err, "rotating state into target orientation")
	}
	rotatedPos := dcm.MulVec(s.PositionKm)
	rotatedVel := dcm.MulVec(s.VelocityKmS)

	sourceSameOrientation := s.Frame.WithOrientationID(toFrame.OrientationID)
	offset, err := a.Translate(sourceSameOrientation, toFrame, s.Epoch, abCorr)
	if err != nil {
		return state.CartesianState{}, kerrors.Action(err, "translating between frame origins")
	}

	return state.FromVectors(rotatedPos.Add(offset.PositionKm), rotatedVel.Add(offset.VelocityKmS), s.Epoch, toFrame), nil
}

// Transform composes Translate and Rotate into the full state of
// targetFrame relative to observerFrame, expressed in observerFrame's
// orientation, per spec.md §4.5.
func (a *Almanac) Transform(targetFrame, observerFrame frame.Frame, t epoch.Epoch, abCorr *Aberration) (state.CartesianState, error) {
	translated, err := a.Translate(targetFrame, observerFrame, t, abCorr)
	if err != nil {
		return state.CartesianState{}, err
	}
	dcm, err := a.Rotate(targetFrame, observerFrame, t)
	if err != nil {
		return state.CartesianState{}, kerrors.Action(err, "composing rotation into transform")
	}
	return state.FromVectors(dcm.MulVec(translated.PositionKm), dcm.MulVec(translated.VelocityKmS), t, observerFrame), nil
}

func r3(theta float64) linalg.Mat3 {
	s, c := math.Sincos(theta)
	return linalg.Mat3{
		{c, s, 0},
		{-s, c, 0},
		{0, 0, 1},
	}
}

func r1(theta float64) linalg.Mat3 {
	s, c := math.Sincos(theta)
	return linalg.Mat3{
		{1, 0, 0},
		{0, c, s},
		{0, -s, c},
	}
}
