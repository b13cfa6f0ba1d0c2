package track

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquapark/components"
	"github.com/pthm-cable/aquapark/config"
	"github.com/pthm-cable/aquapark/level"
)

// Placement windows and heights for scattered entities.
const (
	coinHead, coinTail         = 10, 10
	obstacleHead, obstacleTail = 15, 15
	powerupHead, powerupTail   = 15, 10
	rampHead, rampTail         = 20, 20

	coinInset    = 2.0 // Lateral spread is width minus inset
	powerupInset = 3.0

	coinHeight     = 0.5
	obstacleHeight = 0.3
	powerupHeight  = 0.7
)

// Generate builds a track for the level definition.
// The output depends only on def, cfg and the state of rng.
func Generate(def level.Definition, cfg config.TrackConfig, rng *rand.Rand) *Track {
	n := def.Segments
	if n < cfg.MinSegments {
		n = cfg.MinSegments
	}

	t := &Track{
		Segments:   make([]Segment, 0, n),
		Width:      cfg.Width,
		StepLength: cfg.StepLength,
	}

	generatePath(t, n, max(def.Curves, 0), cfg, rng)
	scatterEntities(t, def, rng)

	return t
}

// generatePath walks forward one step per segment, turning during scheduled curves.
func generatePath(t *Track, n, curves int, cfg config.TrackConfig, rng *rand.Rand) {
	pos := r3.Vec{X: 0, Y: cfg.StartHeight, Z: 0}
	dirX, dirZ := 0.0, -1.0

	curveLeft := 0
	curveSign := 0
	curvesUsed := 0
	nextCurve := n / (curves + 1)
	runSpread := cfg.CurveMaxRun - cfg.CurveMinRun + 1

	for i := 0; i < n; i++ {
		slope := -(cfg.SlopeMin + rng.Float64()*cfg.SlopeJitter)

		if curveLeft > 0 {
			turn := cfg.TurnRate * float64(curveSign)
			cos, sin := math.Cos(turn), math.Sin(turn)
			dirX, dirZ = dirX*cos-dirZ*sin, dirX*sin+dirZ*cos
			curveLeft--
		} else if i >= nextCurve && curvesUsed < curves {
			curveSign = -1
			if rng.Float64() > 0.5 {
				curveSign = 1
			}
			curveLeft = cfg.CurveMinRun + rng.Intn(runSpread)
			curvesUsed++
			t.Curves = append(t.Curves, Curve{Start: i, Length: curveLeft, Sign: curveSign})
			// Spread the remaining curves over the remaining segments
			nextCurve = i + (n-i)/(curves-curvesUsed+1)
		}

		pos.X += dirX * cfg.StepLength
		pos.Z += dirZ * cfg.StepLength
		pos.Y += slope
		if pos.Y < 0 {
			pos.Y = 0
		}

		t.Segments = append(t.Segments, Segment{
			Index: i,
			Pos:   pos,
			Dir:   r3.Vec{X: dirX, Z: dirZ},
			Width: cfg.Width,
		})
	}
}

// scatterEntities places coins, obstacles, powerups and ramps on the path.
func scatterEntities(t *Track, def level.Definition, rng *rand.Rand) {
	n := t.Len()

	lo, span := placementWindow(n, coinHead, coinTail)
	count := clampCount(def.Coins, span)
	t.Coins = make([]Coin, 0, count)
	for i := 0; i < count; i++ {
		seg := lo + rng.Intn(span)
		lateral := (rng.Float64() - 0.5) * (t.Width - coinInset)
		t.Coins = append(t.Coins, Coin{Anchor: t.anchor(seg, lateral, coinHeight)})
	}

	lo, span = placementWindow(n, obstacleHead, obstacleTail)
	count = clampCount(def.Obstacles, span)
	t.Obstacles = make([]Obstacle, 0, count)
	for i := 0; i < count; i++ {
		seg := lo + rng.Intn(span)
		lateral := (rng.Float64() - 0.5) * (t.Width - coinInset)
		kind := ObstacleCone
		if rng.Float64() > 0.5 {
			kind = ObstacleBarrier
		}
		t.Obstacles = append(t.Obstacles, Obstacle{Anchor: t.anchor(seg, lateral, obstacleHeight), Kind: kind})
	}

	lo, span = placementWindow(n, powerupHead, powerupTail)
	count = clampCount(def.Powerups, span)
	t.Powerups = make([]Powerup, 0, count)
	for i := 0; i < count; i++ {
		seg := lo + rng.Intn(span)
		lateral := (rng.Float64() - 0.5) * (t.Width - powerupInset)
		kind := components.PowerUpKinds[rng.Intn(len(components.PowerUpKinds))]
		t.Powerups = append(t.Powerups, Powerup{Anchor: t.anchor(seg, lateral, powerupHeight), Kind: kind})
	}

	lo, span = placementWindow(n, rampHead, rampTail)
	count = clampCount(def.Ramps, span)
	t.Ramps = make([]Ramp, 0, count)
	for i := 0; i < count; i++ {
		seg := lo + rng.Intn(span)
		t.Ramps = append(t.Ramps, Ramp{Anchor: t.anchor(seg, 0, 0), Dir: t.Segments[seg].Dir})
	}
}

// anchor positions an entity at a lateral offset from segment seg, raised by height.
func (t *Track) anchor(seg int, lateral, height float64) Anchor {
	s := t.Segments[seg]
	pos := r3.Add(s.Pos, r3.Scale(lateral, Perpendicular(s.Dir)))
	pos.Y += height
	return Anchor{Segment: seg, Lateral: lateral, Pos: pos}
}

// placementWindow returns the first segment and size of the range [head, n-tail).
// Tracks too short for the margins fall back to their middle third.
func placementWindow(n, head, tail int) (lo, span int) {
	lo, hi := head, n-tail
	if hi-lo < 1 {
		lo, hi = n/3, n-n/3
	}
	if hi-lo < 1 {
		return 0, 0
	}
	return lo, hi - lo
}

// clampCount limits a requested entity count to the placeable range.
func clampCount(requested, span int) int {
	if requested < 0 {
		return 0
	}
	return min(requested, span)
}
