// Package components defines ECS components for the race simulation.
package components

import "gonum.org/v1/gonum/spatial/r3"

// Racer identifies a racer entity.
type Racer struct {
	Index  int  // Grid slot, 0-based
	Player bool // Steered by the external input source
}

// Kinematics holds a racer's position along the path.
// Segment and Progress locate the racer on the centerline; Lateral is the
// signed offset along the local perpendicular. Pos and Dir are the resolved
// world position and travel direction, refreshed by the physics system.
type Kinematics struct {
	Segment  int
	Progress float64 // [0, 1) within Segment
	Lateral  float64
	Speed    float64
	Pos      r3.Vec
	Dir      r3.Vec
}

// Distance returns the fractional distance travelled in segments.
func (k *Kinematics) Distance() float64 {
	return float64(k.Segment) + k.Progress
}

// Status holds a racer's race standing.
type Status struct {
	Alive      bool
	Finished   bool
	FinishTime float64 // Race seconds, valid when Finished
	Position   int     // 1-based ranking
}

// Ranked reports whether the racer takes part in ranking.
func (s *Status) Ranked() bool {
	return s.Alive || s.Finished
}

// Active reports whether the racer is still moving.
func (s *Status) Active() bool {
	return s.Alive && !s.Finished
}

// Pilot holds AI steering state. Only non-player racers carry it.
type Pilot struct {
	Target   float64 // Lateral offset the racer steers toward
	Cooldown float64 // Seconds until the next lane decision
}
