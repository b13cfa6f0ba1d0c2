package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquapark/components"
	"github.com/pthm-cable/aquapark/config"
	"github.com/pthm-cable/aquapark/track"
)

// AISystem steers non-player racers. Only entities with a Pilot are matched.
type AISystem struct {
	filter     ecs.Filter5[components.Racer, components.Kinematics, components.Status, components.PowerUp, components.Pilot]
	cfg        *config.Config
	difficulty float64
	rng        *rand.Rand
}

// NewAISystem creates an AI system for the given difficulty in [0, 1].
func NewAISystem(w *ecs.World, cfg *config.Config, difficulty float64, rng *rand.Rand) *AISystem {
	return &AISystem{
		filter:     *ecs.NewFilter5[components.Racer, components.Kinematics, components.Status, components.PowerUp, components.Pilot](w),
		cfg:        cfg,
		difficulty: clamp(difficulty, 0, 1),
		rng:        rng,
	}
}

// Update runs the AI system.
func (s *AISystem) Update(f *Frame) {
	query := s.filter.Query()
	for query.Next() {
		_, kin, status, pu, pilot := query.Get()
		if !status.Active() {
			continue
		}
		s.steer(kin, pu, pilot, f)
	}
}

func (s *AISystem) steer(kin *components.Kinematics, pu *components.PowerUp, pilot *components.Pilot, f *Frame) {
	ai := &s.cfg.AI

	pilot.Cooldown -= f.DT
	if pilot.Cooldown <= 0 {
		pilot.Cooldown = ai.LaneChangeMin + s.rng.Float64()*(ai.LaneChangeMax-ai.LaneChangeMin)
		pilot.Target = s.chooseTarget(kin, f.Track)
	}

	// Move toward the target lane without overshooting it
	laneErr := pilot.Target - kin.Lateral
	rate := s.cfg.Physics.SteerSpeed * s.difficulty * ai.SteerFactor * f.DT * s.cfg.Physics.SteerTimeScale
	kin.Lateral += sign(laneErr) * math.Min(math.Abs(laneErr), rate)
	clampLateral(kin, pu, s.cfg)
	resolvePosition(kin, f)

	kin.Speed *= ai.SpeedBase + s.difficulty*ai.SpeedGain
	kin.Speed = math.Max(kin.Speed, s.cfg.Derived.MinSpeed)
}

// chooseTarget picks a new lateral target: dodge a nearby obstacle, or
// occasionally line up with the nearest coin, plus some lane noise.
func (s *AISystem) chooseTarget(kin *components.Kinematics, tr *track.Track) float64 {
	ai := &s.cfg.AI

	if avoid := AvoidanceSign(kin, tr, ai.Lookahead, ai.AvoidDistance); avoid != 0 {
		return kin.Lateral + avoid*ai.AvoidShift
	}

	base := kin.Lateral
	if s.rng.Float64() < s.difficulty*ai.SeekFactor {
		if coin, ok := NearestCoin(kin.Segment, tr, ai.Lookahead); ok {
			base = tr.LocalLateral(kin.Segment, coin.Pos)
		}
	}
	return base + (s.rng.Float64()*2-1)*ai.LaneNoise
}

// AvoidanceSign returns the direction to dodge in when an intact obstacle
// within the lookahead window lies closer than dist to the racer, or 0.
func AvoidanceSign(kin *components.Kinematics, tr *track.Track, lookahead int, dist float64) float64 {
	for i := range tr.Obstacles {
		obs := &tr.Obstacles[i]
		if obs.Destroyed {
			continue
		}
		ahead := obs.Segment - kin.Segment
		if ahead <= 0 || ahead >= lookahead {
			continue
		}
		d := r3.Sub(obs.Pos, kin.Pos)
		d.Y = 0
		if r3.Norm(d) < dist {
			if kin.Lateral > 0 {
				return -1
			}
			return 1
		}
	}
	return 0
}

// NearestCoin returns the uncollected coin with the smallest positive
// segment distance inside the lookahead window.
func NearestCoin(segment int, tr *track.Track, lookahead int) (*track.Coin, bool) {
	var best *track.Coin
	bestDist := lookahead
	for i := range tr.Coins {
		coin := &tr.Coins[i]
		if coin.Collected {
			continue
		}
		ahead := coin.Segment - segment
		if ahead > 0 && ahead < bestDist {
			best = coin
			bestDist = ahead
		}
	}
	return best, best != nil
}
