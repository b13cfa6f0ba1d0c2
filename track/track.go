// Package track generates slide paths and answers position queries along them.
package track

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquapark/components"
)

// Segment is one sampled unit of the path.
type Segment struct {
	Index int
	Pos   r3.Vec // Centerline position; Y is height
	Dir   r3.Vec // Unit horizontal direction (Y = 0)
	Width float64
}

// Anchor places an entity on the track.
type Anchor struct {
	Segment int
	Lateral float64 // Offset from the centerline in the segment's frame
	Pos     r3.Vec  // World position
}

// Coin is a collectible worth currency.
type Coin struct {
	Anchor
	Collected bool
}

// ObstacleKind enumerates obstacle variants.
type ObstacleKind uint8

const (
	ObstacleCone ObstacleKind = iota
	ObstacleBarrier
)

// String returns the obstacle name.
func (k ObstacleKind) String() string {
	if k == ObstacleBarrier {
		return "barrier"
	}
	return "cone"
}

// Obstacle slows the player on impact unless shielded or giant.
type Obstacle struct {
	Anchor
	Kind      ObstacleKind
	Destroyed bool // Smashed by a shielded or giant player
	Struck    bool // Already applied its speed penalty
}

// Cleared reports whether the obstacle no longer interacts.
func (o *Obstacle) Cleared() bool {
	return o.Destroyed || o.Struck
}

// Powerup grants a timed power-up when picked up.
type Powerup struct {
	Anchor
	Kind      components.PowerUpKind
	Collected bool
}

// Ramp launches the player with a short speed boost.
type Ramp struct {
	Anchor
	Dir      r3.Vec
	Launched bool
}

// Curve records one scheduled turn event.
type Curve struct {
	Start  int // First segment after which the heading rotates
	Length int // Number of rotated segments
	Sign   int // +1 or -1
}

// Track is a generated path with its scattered entities.
type Track struct {
	Segments  []Segment
	Coins     []Coin
	Obstacles []Obstacle
	Powerups  []Powerup
	Ramps     []Ramp
	Curves    []Curve

	Width      float64
	StepLength float64
}

// Len returns the number of segments.
func (t *Track) Len() int {
	return len(t.Segments)
}
