// Package race runs a single race attempt: the session owning the ECS world,
// the lifecycle state machine, rewards and the wall-clock driver.
package race

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"github.com/segmentio/ksuid"

	"github.com/pthm-cable/aquapark/components"
	"github.com/pthm-cable/aquapark/config"
	"github.com/pthm-cable/aquapark/level"
	"github.com/pthm-cable/aquapark/systems"
	"github.com/pthm-cable/aquapark/telemetry"
	"github.com/pthm-cable/aquapark/track"
)

// aiSeedSalt separates the AI random stream from the track stream.
const aiSeedSalt = 0x5eed_a1

// PlayerIndex is the grid slot of the player racer.
const PlayerIndex = 0

// Session is one race attempt. It is never reused: retrying a level
// creates a new session.
type Session struct {
	ID    ksuid.KSUID
	Level level.Definition
	Seed  int64

	cfg   *config.Config
	world *ecs.World
	track *track.Track

	player   ecs.Entity
	entities []ecs.Entity

	// Component mappers
	humans   *ecs.Map4[components.Racer, components.Kinematics, components.Status, components.PowerUp]
	bots     *ecs.Map5[components.Racer, components.Kinematics, components.Status, components.PowerUp, components.Pilot]
	racerMap *ecs.Map1[components.Racer]
	kinMap   *ecs.Map1[components.Kinematics]
	statMap  *ecs.Map1[components.Status]
	puMap    *ecs.Map1[components.PowerUp]

	// Systems
	physics     *systems.PhysicsSystem
	ai          *systems.AISystem
	interaction *systems.InteractionSystem
	ranking     *systems.RankingSystem

	events telemetry.Events
	tally  systems.Tally
	perf   *telemetry.PerfCollector

	state     State
	countdown int
	raceTime  float64
	tick      int32
	result    *Result
}

// NewSession generates the level's track from seed and places the racers
// on the starting grid. The session starts in the countdown state.
func NewSession(def level.Definition, seed int64, cfg *config.Config) *Session {
	world := ecs.NewWorld()

	s := &Session{
		ID:    ksuid.New(),
		Level: def,
		Seed:  seed,
		cfg:   cfg,
		world: world,
		track: track.Generate(def, cfg.Track, rand.New(rand.NewSource(seed))),

		humans:   ecs.NewMap4[components.Racer, components.Kinematics, components.Status, components.PowerUp](world),
		bots:     ecs.NewMap5[components.Racer, components.Kinematics, components.Status, components.PowerUp, components.Pilot](world),
		racerMap: ecs.NewMap1[components.Racer](world),
		kinMap:   ecs.NewMap1[components.Kinematics](world),
		statMap:  ecs.NewMap1[components.Status](world),
		puMap:    ecs.NewMap1[components.PowerUp](world),

		state:     StateCountdown,
		countdown: max(cfg.Race.CountdownSteps, 0),
	}

	s.spawnRacers()

	s.physics = systems.NewPhysicsSystem(world, cfg)
	s.ai = systems.NewAISystem(world, cfg, def.AIDifficulty, rand.New(rand.NewSource(seed^aiSeedSalt)))
	s.interaction = systems.NewInteractionSystem(world, s.player, cfg, &s.tally)
	s.ranking = systems.NewRankingSystem(world)
	s.ranking.Update()

	if s.countdown > 0 {
		s.events.Emit(telemetry.NewCountdownEvent(s.countdown))
	} else {
		s.start()
	}

	slog.Debug("session created",
		"session", s.ID.String(),
		"level", def.ID,
		"seed", seed,
		"segments", s.track.Len(),
		"racers", len(s.entities),
	)
	return s
}

// spawnRacers places racers abreast on the first segment. Index 0 is the player.
func (s *Session) spawnRacers() {
	n := s.cfg.Racer.Count
	s.entities = make([]ecs.Entity, 0, n)

	for i := 0; i < n; i++ {
		lane := (float64(i) - float64(n-1)/2) * s.cfg.Racer.LaneSpacing
		sample := s.track.Sample(0, 0, lane)

		racer := components.Racer{Index: i, Player: i == PlayerIndex}
		kin := components.Kinematics{Lateral: lane, Pos: sample.Pos, Dir: sample.Dir}
		status := components.Status{Alive: true, Position: i + 1}
		pu := components.PowerUp{}

		var e ecs.Entity
		if racer.Player {
			e = s.humans.NewEntity(&racer, &kin, &status, &pu)
			s.player = e
		} else {
			pilot := components.Pilot{Target: lane}
			e = s.bots.NewEntity(&racer, &kin, &status, &pu, &pilot)
		}
		s.entities = append(s.entities, e)
	}
}

// SetPerf enables phase timing of ticks. Pass nil to disable.
func (s *Session) SetPerf(p *telemetry.PerfCollector) {
	s.perf = p
}

// AdvanceCountdown moves the countdown one step and reports whether the
// session changed. The last step starts the race.
func (s *Session) AdvanceCountdown() bool {
	if s.state != StateCountdown {
		return false
	}
	s.countdown--
	if s.countdown > 0 {
		s.events.Emit(telemetry.NewCountdownEvent(s.countdown))
		return true
	}
	s.countdown = 0
	s.start()
	return true
}

func (s *Session) start() {
	s.state = StatePlaying
	s.events.Emit(telemetry.NewRaceStartEvent())
}

// Tick advances the simulation by dt seconds with the given player steering
// and returns the events emitted since the last drain. Outside the playing
// and finished states only pending events are returned.
func (s *Session) Tick(dt, steer float64) []telemetry.Event {
	if !s.state.Simulating() {
		return s.events.Drain()
	}

	dt = max(min(dt, s.cfg.Physics.MaxDT), 0)
	s.tick++
	s.raceTime += dt
	s.events.SetClock(s.tick, s.raceTime)

	f := &systems.Frame{
		DT:       dt,
		RaceTime: s.raceTime,
		Steer:    steer,
		Track:    s.track,
		Events:   &s.events,
	}

	if s.perf != nil {
		s.perf.StartTick()
	}
	s.phase(telemetry.PhasePhysics)
	s.physics.Update(f)
	s.phase(telemetry.PhaseAI)
	s.ai.Update(f)
	s.phase(telemetry.PhaseInteraction)
	s.interaction.Update(f)
	s.phase(telemetry.PhaseRanking)
	s.ranking.Update()
	if s.perf != nil {
		s.perf.EndTick()
	}

	if s.state == StatePlaying && s.statMap.Get(s.player).Finished {
		s.state = StateFinished
		slog.Debug("player finished",
			"session", s.ID.String(),
			"time", s.raceTime,
			"position", s.statMap.Get(s.player).Position,
		)
	}

	return s.events.Drain()
}

func (s *Session) phase(p telemetry.Phase) {
	if s.perf != nil {
		s.perf.StartPhase(p)
	}
}

// Conclude ends the grace period: every racer still on the slide is
// finished with a time penalty, positions are recomputed and the result is
// produced. It reports false unless the session is in the finished state.
func (s *Session) Conclude() (Result, bool) {
	if s.state != StateFinished {
		return Result{}, false
	}

	forced := s.raceTime + s.cfg.Race.ForcedFinishPenalty
	for _, e := range s.entities {
		status := s.statMap.Get(e)
		if status.Active() {
			status.Finished = true
			status.FinishTime = forced
		}
	}
	s.ranking.Update()
	s.state = StateResults

	position := s.statMap.Get(s.player).Position
	res := Result{
		SessionID:    s.ID.String(),
		LevelID:      s.Level.ID,
		Seed:         s.Seed,
		Position:     position,
		Racers:       len(s.entities),
		Won:          position == 1,
		Stars:        Stars(position),
		Coins:        s.tally.Coins,
		Eliminations: s.tally.Eliminations,
		RaceTime:     s.raceTime,
		Ticks:        s.tick,
	}
	res.Reward = Reward(res.Coins, res.Eliminations, position, res.Racers, s.cfg.Race)
	s.result = &res

	if res.Won {
		s.events.Emit(telemetry.NewVictoryEvent(PlayerIndex))
	}
	return res, true
}

// DrainEvents returns pending events, such as countdown ticks emitted
// outside Tick.
func (s *Session) DrainEvents() []telemetry.Event {
	return s.events.Drain()
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Countdown returns the countdown number currently shown, 0 once started.
func (s *Session) Countdown() int { return s.countdown }

// RaceTime returns seconds simulated since the start.
func (s *Session) RaceTime() float64 { return s.raceTime }

// Ticks returns the number of simulated ticks.
func (s *Session) Ticks() int32 { return s.tick }

// Coins returns the coins collected by the player.
func (s *Session) Coins() int { return s.tally.Coins }

// Eliminations returns the racers the player knocked off.
func (s *Session) Eliminations() int { return s.tally.Eliminations }

// Track returns the generated track. Callers must treat it as read-only.
func (s *Session) Track() *track.Track { return s.track }

// Result returns the race result once the session reached results.
func (s *Session) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// Autopilot returns a steering source that drives the player with the given skill.
func (s *Session) Autopilot(skill float64) *systems.Autopilot {
	return systems.NewAutopilot(s.world, s.player, s.track, s.cfg, skill)
}

// ProgressFraction returns how far along the track the player is, in [0, 1].
func (s *Session) ProgressFraction() float64 {
	n := s.track.Len()
	if n < 2 {
		return 1
	}
	return min(float64(s.kinMap.Get(s.player).Segment)/float64(n-1), 1)
}
