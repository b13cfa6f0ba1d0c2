package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquapark/components"
	"github.com/pthm-cable/aquapark/config"
	"github.com/pthm-cable/aquapark/telemetry"
	"github.com/pthm-cable/aquapark/track"
)

// Tally counts player achievements that feed the reward.
type Tally struct {
	Coins        int
	Eliminations int
}

// InteractionSystem resolves the player's contacts with other racers and
// track entities. Contacts between AI racers are not simulated.
type InteractionSystem struct {
	filter ecs.Filter4[components.Racer, components.Kinematics, components.Status, components.PowerUp]

	player  ecs.Entity
	kinMap  *ecs.Map1[components.Kinematics]
	statMap *ecs.Map1[components.Status]
	puMap   *ecs.Map1[components.PowerUp]
	racer   *ecs.Map1[components.Racer]

	cfg   *config.Config
	tally *Tally
}

// NewInteractionSystem creates a resolver centred on the player entity.
// Pickups and eliminations are counted into tally.
func NewInteractionSystem(w *ecs.World, player ecs.Entity, cfg *config.Config, tally *Tally) *InteractionSystem {
	return &InteractionSystem{
		filter:  *ecs.NewFilter4[components.Racer, components.Kinematics, components.Status, components.PowerUp](w),
		player:  player,
		kinMap:  ecs.NewMap1[components.Kinematics](w),
		statMap: ecs.NewMap1[components.Status](w),
		puMap:   ecs.NewMap1[components.PowerUp](w),
		racer:   ecs.NewMap1[components.Racer](w),
		cfg:     cfg,
		tally:   tally,
	}
}

// Update runs the interaction system.
func (s *InteractionSystem) Update(f *Frame) {
	// A finished player waits at the line and no longer interacts
	status := s.statMap.Get(s.player)
	if !status.Active() {
		return
	}
	p := contact{
		index:  s.racer.Get(s.player).Index,
		kin:    s.kinMap.Get(s.player),
		status: status,
		pu:     s.puMap.Get(s.player),
	}

	s.resolveRacers(p, f)
	ResolveCoins(p.index, p.kin, p.pu, f, s.cfg, s.tally)
	ResolveObstacles(p.index, p.kin, p.pu, f, s.cfg)
	ResolvePowerups(p.index, p.kin, p.pu, f, s.cfg)
	ResolveRamps(p.index, p.kin, f, s.cfg)
}

// contact bundles one racer's components.
type contact struct {
	index  int
	kin    *components.Kinematics
	status *components.Status
	pu     *components.PowerUp
}

func (s *InteractionSystem) resolveRacers(p contact, f *Frame) {
	query := s.filter.Query()
	for query.Next() {
		racer, kin, status, pu := query.Get()
		if racer.Player || !status.Active() {
			continue
		}
		other := contact{index: racer.Index, kin: kin, status: status, pu: pu}
		if resolveRacerContact(p, other, f, s.cfg) {
			s.tally.Eliminations++
		}
	}
}

// resolveRacerContact pushes the player and another racer apart when they
// touch, and reports whether the other racer was eliminated.
func resolveRacerContact(p, other contact, f *Frame, cfg *config.Config) bool {
	d := r3.Norm(r3.Sub(p.kin.Pos, other.kin.Pos))
	reach := Radius(p.pu, cfg) + cfg.Racer.Radius
	if d <= 0 || d >= reach {
		return false
	}

	// Push along the lateral component of the horizontal separation
	sep := r3.Sub(p.kin.Pos, other.kin.Pos)
	sep.Y = 0
	var push float64
	if h := r3.Norm(sep); h > 0 {
		perp := track.Perpendicular(p.kin.Dir)
		push = r3.Dot(r3.Scale(1/h, sep), perp) * cfg.Interaction.PushForce
	}
	p.kin.Lateral += push
	other.kin.Lateral -= push
	f.Events.Emit(telemetry.NewRacerBumpEvent(p.index, other.index, p.kin.Segment))

	eliminated := false
	giant := p.pu.Giant()
	faster := p.kin.Speed > other.kin.Speed*cfg.Interaction.EliminationRatio && !other.pu.Shielded()
	if giant || faster {
		edge := cfg.Interaction.EdgeFraction * cfg.Derived.HalfWidth
		if giant || math.Abs(other.kin.Lateral) > edge {
			eliminated = Eliminate(other.status)
			if eliminated {
				f.Events.Emit(telemetry.NewEliminationEvent(p.index, other.index, other.kin.Segment))
			}
		}
	}

	clampLateral(p.kin, p.pu, cfg)
	clampLateral(other.kin, other.pu, cfg)
	// Pickups later in the tick test against the pushed position
	resolvePosition(p.kin, f)
	resolvePosition(other.kin, f)
	return eliminated
}

// Eliminate knocks a racer out. It reports false if the racer was already out.
func Eliminate(status *components.Status) bool {
	if !status.Alive {
		return false
	}
	status.Alive = false
	return true
}

// CoinRadius returns the pickup radius for coins.
func CoinRadius(pu *components.PowerUp, cfg *config.Config) float64 {
	switch {
	case pu.Giant():
		return cfg.Interaction.CoinRadiusGiant
	case pu.Magnet():
		return cfg.Interaction.CoinRadiusMagnet
	}
	return cfg.Interaction.CoinRadius
}

// ResolveCoins collects every coin within reach of the player.
func ResolveCoins(index int, kin *components.Kinematics, pu *components.PowerUp, f *Frame, cfg *config.Config, tally *Tally) {
	radius := CoinRadius(pu, cfg)
	for i := range f.Track.Coins {
		coin := &f.Track.Coins[i]
		if coin.Collected || r3.Norm(r3.Sub(kin.Pos, coin.Pos)) >= radius {
			continue
		}
		coin.Collected = true
		tally.Coins++
		f.Events.Emit(telemetry.NewCoinPickupEvent(index, coin.Segment))
	}
}

// ResolveObstacles smashes or strikes obstacles the player runs into.
// Each obstacle affects the player at most once.
func ResolveObstacles(index int, kin *components.Kinematics, pu *components.PowerUp, f *Frame, cfg *config.Config) {
	for i := range f.Track.Obstacles {
		obs := &f.Track.Obstacles[i]
		if obs.Cleared() || r3.Norm(r3.Sub(kin.Pos, obs.Pos)) >= cfg.Interaction.ObstacleRadius {
			continue
		}
		smashed := pu.Shielded() || pu.Giant()
		if smashed {
			obs.Destroyed = true
		} else {
			obs.Struck = true
			kin.Speed *= cfg.Interaction.ObstaclePenalty
		}
		f.Events.Emit(telemetry.NewObstacleBumpEvent(index, obs.Segment, smashed))
	}
}

// ResolvePowerups activates power-ups the player picks up.
func ResolvePowerups(index int, kin *components.Kinematics, pu *components.PowerUp, f *Frame, cfg *config.Config) {
	for i := range f.Track.Powerups {
		item := &f.Track.Powerups[i]
		if item.Collected || r3.Norm(r3.Sub(kin.Pos, item.Pos)) >= cfg.Interaction.PowerupRadius {
			continue
		}
		item.Collected = true
		pu.Activate(item.Kind, cfg.Interaction.PowerupDuration)
		// Giant narrows the bound on the pickup tick
		clampLateral(kin, pu, cfg)
		resolvePosition(kin, f)
		f.Events.Emit(telemetry.NewPowerupEvent(index, item.Segment, item.Kind))
	}
}

// ResolveRamps launches the player off ramps just ahead of it.
func ResolveRamps(index int, kin *components.Kinematics, f *Frame, cfg *config.Config) {
	for i := range f.Track.Ramps {
		ramp := &f.Track.Ramps[i]
		if ramp.Launched {
			continue
		}
		ahead := ramp.Segment - kin.Segment
		if ahead < 0 || ahead >= cfg.Interaction.RampWindow || kin.Speed <= cfg.Physics.BaseSpeed {
			continue
		}
		ramp.Launched = true
		kin.Speed *= cfg.Interaction.RampBoost
		f.Events.Emit(telemetry.NewRampLaunchEvent(index, ramp.Segment))
	}
}
