// Package systems contains ECS systems for the race simulation.
package systems

import (
	"github.com/pthm-cable/aquapark/telemetry"
	"github.com/pthm-cable/aquapark/track"
)

// Frame carries the per-tick inputs shared by all systems.
type Frame struct {
	DT       float64 // Seconds, already clamped
	RaceTime float64 // Seconds since the start, including this tick
	Steer    float64 // Player steering in [-1, 1]

	Track  *track.Track
	Events *telemetry.Events
}
