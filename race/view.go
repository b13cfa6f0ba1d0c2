package race

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquapark/components"
	"github.com/pthm-cable/aquapark/telemetry"
)

// RacerView is a read-only copy of a racer's state for renderers and HUDs.
type RacerView struct {
	Index  int
	Player bool

	Segment  int
	Progress float64
	Lateral  float64
	Speed    float64
	Pos      r3.Vec
	Dir      r3.Vec

	Alive      bool
	Finished   bool
	FinishTime float64
	Position   int

	PowerUp components.PowerUp

	giantScale float64
}

// Scale returns the visual scale of the racer model.
func (v RacerView) Scale() float64 {
	if v.PowerUp.Giant() {
		return v.giantScale
	}
	return 1
}

// Visible reports whether the racer is still drawn.
func (v RacerView) Visible() bool {
	return v.Alive || v.Finished
}

// Racers returns views of all racers in grid order.
func (s *Session) Racers() []RacerView {
	views := make([]RacerView, 0, len(s.entities))
	for _, e := range s.entities {
		racer := s.racerMap.Get(e)
		kin := s.kinMap.Get(e)
		status := s.statMap.Get(e)
		views = append(views, RacerView{
			Index:      racer.Index,
			Player:     racer.Player,
			Segment:    kin.Segment,
			Progress:   kin.Progress,
			Lateral:    kin.Lateral,
			Speed:      kin.Speed,
			Pos:        kin.Pos,
			Dir:        kin.Dir,
			Alive:      status.Alive,
			Finished:   status.Finished,
			FinishTime: status.FinishTime,
			Position:   status.Position,
			PowerUp:    *s.puMap.Get(e),
			giantScale: s.cfg.Racer.GiantVisualScale,
		})
	}
	return views
}

// Player returns a view of the player racer.
func (s *Session) Player() RacerView {
	return s.Racers()[PlayerIndex]
}

// Standings returns the ranking state consumed by highlight detection.
func (s *Session) Standings() []telemetry.Standing {
	out := make([]telemetry.Standing, 0, len(s.entities))
	for _, e := range s.entities {
		status := s.statMap.Get(e)
		out = append(out, telemetry.Standing{
			Racer:      s.racerMap.Get(e).Index,
			Position:   status.Position,
			Finished:   status.Finished,
			FinishTime: status.FinishTime,
			Alive:      status.Alive,
		})
	}
	return out
}

// Snapshot captures the full session state.
func (s *Session) Snapshot() *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version:      telemetry.SnapshotVersion,
		SessionID:    s.ID.String(),
		LevelID:      s.Level.ID,
		Seed:         s.Seed,
		State:        s.state.String(),
		Tick:         s.tick,
		RaceTime:     s.raceTime,
		Coins:        s.tally.Coins,
		Eliminations: s.tally.Eliminations,
	}
	for _, v := range s.Racers() {
		snap.Racers = append(snap.Racers, telemetry.RacerState{
			Index:          v.Index,
			Player:         v.Player,
			Segment:        v.Segment,
			Progress:       v.Progress,
			Lateral:        v.Lateral,
			Speed:          v.Speed,
			X:              v.Pos.X,
			Y:              v.Pos.Y,
			Z:              v.Pos.Z,
			Alive:          v.Alive,
			Finished:       v.Finished,
			FinishTime:     v.FinishTime,
			Position:       v.Position,
			PowerUp:        v.PowerUp.Kind,
			PowerUpSeconds: v.PowerUp.Remaining,
		})
	}
	return snap
}

// Trace returns one trace row per racer for the current tick.
func (s *Session) Trace() []telemetry.TraceRecord {
	views := s.Racers()
	out := make([]telemetry.TraceRecord, 0, len(views))
	for _, v := range views {
		out = append(out, telemetry.TraceRecord{
			SessionID: s.ID.String(),
			Tick:      s.tick,
			Time:      s.raceTime,
			Racer:     v.Index,
			Segment:   v.Segment,
			Progress:  v.Progress,
			Lateral:   v.Lateral,
			Speed:     v.Speed,
			Position:  v.Position,
			PowerUp:   v.PowerUp.Kind.String(),
			Alive:     v.Alive,
		})
	}
	return out
}
