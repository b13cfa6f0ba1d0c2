package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/aquapark/components"
	"github.com/pthm-cable/aquapark/config"
	"github.com/pthm-cable/aquapark/track"
)

// autopilotGain converts lateral error into a steering value.
const autopilotGain = 2.0

// Autopilot steers the player in headless runs. Higher skill looks further
// ahead. It dodges obstacles it cannot smash and lines up with power-ups
// and coins otherwise.
type Autopilot struct {
	player  ecs.Entity
	kinMap  *ecs.Map1[components.Kinematics]
	puMap   *ecs.Map1[components.PowerUp]
	track   *track.Track
	cfg     *config.Config
	horizon int
}

// NewAutopilot creates an autopilot for the player entity with skill in [0, 1].
func NewAutopilot(w *ecs.World, player ecs.Entity, tr *track.Track, cfg *config.Config, skill float64) *Autopilot {
	horizon := int(math.Round(float64(cfg.AI.Lookahead) * clamp(skill, 0, 1)))
	return &Autopilot{
		player:  player,
		kinMap:  ecs.NewMap1[components.Kinematics](w),
		puMap:   ecs.NewMap1[components.PowerUp](w),
		track:   tr,
		cfg:     cfg,
		horizon: max(horizon, 1),
	}
}

// Steer returns the steering input for the next tick.
func (a *Autopilot) Steer() float64 {
	kin := a.kinMap.Get(a.player)
	pu := a.puMap.Get(a.player)
	target := a.target(kin, pu)
	return clamp((target-kin.Lateral)*autopilotGain, -1, 1)
}

func (a *Autopilot) target(kin *components.Kinematics, pu *components.PowerUp) float64 {
	limit := LateralLimit(pu, a.cfg)
	reach := a.cfg.Interaction.ObstacleRadius + a.cfg.Racer.Radius

	if !pu.Shielded() && !pu.Giant() {
		if obs := a.nextObstacle(kin.Segment); obs != nil && math.Abs(obs.Lateral-kin.Lateral) < reach {
			// Dodge toward the side with more room
			if obs.Lateral > 0 {
				return clamp(obs.Lateral-a.cfg.AI.AvoidShift, -limit, limit)
			}
			return clamp(obs.Lateral+a.cfg.AI.AvoidShift, -limit, limit)
		}
	}

	if item := a.nextPowerup(kin.Segment); item != nil && !pu.Active() {
		return clamp(item.Lateral, -limit, limit)
	}
	if coin, ok := NearestCoin(kin.Segment, a.track, a.horizon); ok {
		return clamp(coin.Lateral, -limit, limit)
	}
	return kin.Lateral
}

func (a *Autopilot) nextObstacle(segment int) *track.Obstacle {
	var best *track.Obstacle
	for i := range a.track.Obstacles {
		obs := &a.track.Obstacles[i]
		ahead := obs.Segment - segment
		if obs.Cleared() || ahead < 0 || ahead >= a.horizon {
			continue
		}
		if best == nil || obs.Segment < best.Segment {
			best = obs
		}
	}
	return best
}

func (a *Autopilot) nextPowerup(segment int) *track.Powerup {
	var best *track.Powerup
	for i := range a.track.Powerups {
		item := &a.track.Powerups[i]
		ahead := item.Segment - segment
		if item.Collected || ahead < 0 || ahead >= a.horizon {
			continue
		}
		if best == nil || item.Segment < best.Segment {
			best = item
		}
	}
	return best
}
