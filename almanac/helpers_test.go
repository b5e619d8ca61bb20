package almanac

import (
	"github.com/navkernel/almanac/epoch"
	"github.com/navkernel/almanac/frame"
	"github.com/navkernel/almanac/internal/linalg"
	"github.com/navkernel/almanac/records"
	"github.com/navkernel/almanac/state"
)

// stateAt is a small literal-construction shortcut for tests that need a
// CartesianState without the six-scalar state.New call syntax.
func stateAt(pos, vel linalg.Vec3, e epoch.Epoch, f frame.Frame) state.CartesianState {
	return state.FromVectors(pos, vel, e, f)
}

// constSegment is a minimal records.Segment stand-in for tests that don't
// need a real binary kernel: it reports the same position/velocity for
// every epoch, which is all the graph-resolution and aberration math below
// needs to exercise.
type constSegment struct {
	pos, vel linalg.Vec3
}

func (c constSegment) Evaluate(float64) (records.PosVel, error) {
	return records.PosVel{Position: c.pos, Velocity: c.vel}, nil
}

func (c constSegment) CheckIntegrity() error { return nil }

// linearSegment reports a position that moves at a constant velocity from
// a reference epoch, for aberration tests that need the light-time
// correction to actually shift the apparent position.
type linearSegment struct {
	refEpochSec float64
	pos0, vel   linalg.Vec3
}

func (l linearSegment) Evaluate(epochTDBSec float64) (records.PosVel, error) {
	dt := epochTDBSec - l.refEpochSec
	return records.PosVel{Position: l.pos0.Add(l.vel.Scale(dt)), Velocity: l.vel}, nil
}

func (l linearSegment) CheckIntegrity() error { return nil }

// constOrient reports a fixed (ra, dec, w) Euler angle triple regardless of
// epoch, for orientation-graph tests that don't need real pole precession.
type constOrient struct {
	raRad, decRad, wRad float64
}

func (o constOrient) Evaluate(float64) (records.PosVel, error) {
	return records.PosVel{Position: linalg.Vec3{o.raRad, o.decRad, o.wRad}}, nil
}

func (o constOrient) CheckIntegrity() error { return nil }

// addSPKSegment is a test-only helper that injects a segment directly into
// an Almanac without going through a real DAF byte buffer.
func addSPKSegment(a Almanac, targetID, centerID int32, startSec, endSec float64, seg records.Segment) Almanac {
	out := a
	out.spks = a.cloneSPKs()
	out.spks = append(out.spks, &spkKernel{segments: []spkSegment{{
		TargetID: targetID, CenterID: centerID, StartSec: startSec, EndSec: endSec, Seg: seg,
	}}})
	return out
}

func addBPCSegment(a Almanac, orientationID, baseFrameID int32, startSec, endSec float64, seg records.Segment) Almanac {
	out := a
	out.bpcs = a.cloneBPCs()
	out.bpcs = append(out.bpcs, &bpcKernel{segments: []bpcSegment{{
		OrientationID: orientationID, BaseFrameID: baseFrameID, StartSec: startSec, EndSec: endSec, Seg: seg,
	}}})
	return out
}
