package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/aquapark/components"
	"github.com/pthm-cable/aquapark/config"
	"github.com/pthm-cable/aquapark/telemetry"
)

// PhysicsSystem advances every active racer along the track.
type PhysicsSystem struct {
	filter ecs.Filter4[components.Racer, components.Kinematics, components.Status, components.PowerUp]
	cfg    *config.Config
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(w *ecs.World, cfg *config.Config) *PhysicsSystem {
	return &PhysicsSystem{
		filter: *ecs.NewFilter4[components.Racer, components.Kinematics, components.Status, components.PowerUp](w),
		cfg:    cfg,
	}
}

// Update runs the physics system.
func (s *PhysicsSystem) Update(f *Frame) {
	query := s.filter.Query()
	for query.Next() {
		racer, kin, status, pu := query.Get()
		if IntegrateRacer(racer, kin, status, pu, f, s.cfg) {
			f.Events.Emit(telemetry.NewFinishEvent(racer.Index, kin.Segment))
		}
	}
}

// FinishSegment returns the first segment of the finish zone for a track of n segments.
// It never lies beyond n-2 so that a racer can always reach it.
func FinishSegment(n int, cfg *config.Config) int {
	return max(min(n-cfg.Physics.FinishZone, n-2), 0)
}

// IntegrateRacer advances one racer by a tick and reports whether it crossed
// into the finish zone. Inactive racers are left untouched.
func IntegrateRacer(
	racer *components.Racer,
	kin *components.Kinematics,
	status *components.Status,
	pu *components.PowerUp,
	f *Frame,
	cfg *config.Config,
) bool {
	if !status.Active() {
		return false
	}

	tr := f.Track
	n := tr.Len()
	seg := tr.SegmentAt(kin.Segment)
	next := tr.SegmentAt(kin.Segment + 1)

	// Downhill slope accelerates, uphill would brake
	slope := (seg.Pos.Y - next.Pos.Y) / tr.StepLength
	accel := cfg.Physics.Gravity + slope*cfg.Physics.SlopeGain
	kin.Speed = (kin.Speed + accel) * cfg.Physics.Friction
	if pu.Boosted() {
		kin.Speed += cfg.Physics.BoostIncrement
	}
	clampSpeed(kin, pu, cfg)

	kin.Progress += kin.Speed * f.DT * cfg.Physics.TimeScale
	for kin.Progress >= 1 && kin.Segment < n-2 {
		kin.Progress--
		kin.Segment++
	}

	if kin.Segment >= FinishSegment(n, cfg) {
		status.Finished = true
		status.FinishTime = f.RaceTime
		return true
	}

	if racer.Player {
		steer := clamp(f.Steer, -1, 1)
		kin.Lateral += steer * cfg.Physics.SteerSpeed * f.DT * cfg.Physics.SteerTimeScale
	}
	clampLateral(kin, pu, cfg)
	resolvePosition(kin, f)

	pu.Tick(f.DT)
	return false
}

// resolvePosition refreshes the world position and direction from the path.
func resolvePosition(kin *components.Kinematics, f *Frame) {
	sample := f.Track.Sample(kin.Segment, kin.Progress, kin.Lateral)
	kin.Pos = sample.Pos
	kin.Dir = sample.Dir
}
