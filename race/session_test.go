package race

import (
	"math"
	"reflect"
	"testing"

	"github.com/pthm-cable/aquapark/config"
	"github.com/pthm-cable/aquapark/level"
	"github.com/pthm-cable/aquapark/telemetry"
)

const (
	testDT       = 1.0 / 60
	testTickCap  = 20000
	testSkill    = 0.8
	testLevelID  = 1
	testRaceSeed = 42
)

func newLevelSession(t *testing.T, cfg *config.Config) *Session {
	t.Helper()
	def, ok := level.ByID(testLevelID)
	if !ok {
		t.Fatalf("level %d not found", testLevelID)
	}
	return NewSession(def, testRaceSeed, cfg)
}

// startRace skips the countdown.
func startRace(t *testing.T, s *Session) {
	t.Helper()
	for s.State() == StateCountdown {
		s.AdvanceCountdown()
	}
	s.DrainEvents()
	if s.State() != StatePlaying {
		t.Fatalf("state = %s, want playing", s.State())
	}
}

// tickUntil ticks with the autopilot until done reports true.
func tickUntil(t *testing.T, s *Session, done func() bool) {
	t.Helper()
	pilot := s.Autopilot(testSkill)
	for i := 0; !done(); i++ {
		if i >= testTickCap {
			t.Fatalf("condition not reached after %d ticks (state %s)", testTickCap, s.State())
		}
		s.Tick(testDT, pilot.Steer())
	}
}

func TestSessionCountdown(t *testing.T) {
	s := newLevelSession(t, config.Default())

	if s.State() != StateCountdown {
		t.Fatalf("initial state = %s, want countdown", s.State())
	}
	if s.Countdown() != 3 {
		t.Errorf("countdown = %d, want 3", s.Countdown())
	}

	// Ticks during the countdown do not simulate
	events := s.Tick(testDT, 1)
	if s.Ticks() != 0 || s.RaceTime() != 0 {
		t.Errorf("ticks = %d, race time = %v during countdown", s.Ticks(), s.RaceTime())
	}
	if len(events) != 1 || events[0].Type != telemetry.EventCountdownTick || events[0].Value != 3 {
		t.Fatalf("initial events = %+v, want countdown 3", events)
	}

	var values []int
	started := false
	for s.AdvanceCountdown() {
		for _, e := range s.DrainEvents() {
			switch e.Type {
			case telemetry.EventCountdownTick:
				values = append(values, e.Value)
			case telemetry.EventRaceStart:
				started = true
			}
		}
	}
	if !reflect.DeepEqual(values, []int{2, 1}) {
		t.Errorf("countdown values = %v, want [2 1]", values)
	}
	if !started {
		t.Error("expected race-start event")
	}
	if s.State() != StatePlaying {
		t.Errorf("state = %s, want playing", s.State())
	}
	if s.AdvanceCountdown() {
		t.Error("AdvanceCountdown should be a no-op while playing")
	}
}

func TestSessionNoCountdown(t *testing.T) {
	cfg := config.Default()
	cfg.Race.CountdownSteps = 0
	s := newLevelSession(t, cfg)

	if s.State() != StatePlaying {
		t.Fatalf("state = %s, want playing", s.State())
	}
	events := s.DrainEvents()
	if len(events) != 1 || events[0].Type != telemetry.EventRaceStart {
		t.Errorf("events = %+v, want a single race-start", events)
	}
}

func TestSessionStartingGrid(t *testing.T) {
	s := newLevelSession(t, config.Default())
	views := s.Racers()

	if len(views) != 4 {
		t.Fatalf("racers = %d, want 4", len(views))
	}
	wantLanes := []float64{-1.8, -0.6, 0.6, 1.8}
	for i, v := range views {
		if v.Index != i {
			t.Errorf("racer %d has index %d", i, v.Index)
		}
		if v.Player != (i == PlayerIndex) {
			t.Errorf("racer %d player = %v", i, v.Player)
		}
		if math.Abs(v.Lateral-wantLanes[i]) > 1e-9 {
			t.Errorf("racer %d lateral = %v, want %v", i, v.Lateral, wantLanes[i])
		}
		if v.Speed != 0 || v.Segment != 0 || !v.Alive {
			t.Errorf("racer %d not at rest on the grid: %+v", i, v)
		}
	}
}

func TestSessionTickClampsDT(t *testing.T) {
	s := newLevelSession(t, config.Default())
	startRace(t, s)

	s.Tick(1.0, 0)
	if math.Abs(s.RaceTime()-0.05) > 1e-12 {
		t.Errorf("race time = %v, want 0.05", s.RaceTime())
	}
	if s.Ticks() != 1 {
		t.Errorf("ticks = %d, want 1", s.Ticks())
	}
}

func TestSessionPositionsArePermutation(t *testing.T) {
	s := newLevelSession(t, config.Default())
	startRace(t, s)
	pilot := s.Autopilot(testSkill)

	for i := 0; i < 300 && s.State() == StatePlaying; i++ {
		s.Tick(testDT, pilot.Steer())

		seen := make(map[int]bool)
		ranked := 0
		for _, v := range s.Racers() {
			if !v.Alive && !v.Finished {
				continue
			}
			ranked++
			if seen[v.Position] {
				t.Fatalf("tick %d: duplicate position %d", s.Ticks(), v.Position)
			}
			seen[v.Position] = true
		}
		for p := 1; p <= ranked; p++ {
			if !seen[p] {
				t.Fatalf("tick %d: position %d missing among %d ranked racers", s.Ticks(), p, ranked)
			}
		}
	}
}

func TestSessionFinishAndConclude(t *testing.T) {
	s := newLevelSession(t, config.Default())

	if _, ok := s.Conclude(); ok {
		t.Error("Conclude should fail during the countdown")
	}
	startRace(t, s)
	if _, ok := s.Conclude(); ok {
		t.Error("Conclude should fail while playing")
	}

	tickUntil(t, s, func() bool { return s.State() == StateFinished })

	player := s.Player()
	if !player.Finished {
		t.Fatal("player should be finished")
	}
	if math.Abs(player.FinishTime-s.RaceTime()) > 1e-12 {
		t.Errorf("finish time = %v, want race time %v", player.FinishTime, s.RaceTime())
	}
	if _, ok := s.Result(); ok {
		t.Error("result should not exist before conclusion")
	}

	// Grace period: the rest of the field keeps racing
	for i := 0; i < 120; i++ {
		s.Tick(testDT, 0)
	}
	if s.Player().FinishTime != player.FinishTime {
		t.Error("player finish time changed after finishing")
	}

	res, ok := s.Conclude()
	if !ok {
		t.Fatal("Conclude failed in finished state")
	}
	if s.State() != StateResults {
		t.Errorf("state = %s, want results", s.State())
	}
	if _, ok := s.Conclude(); ok {
		t.Error("second Conclude should fail")
	}

	views := s.Racers()
	for _, v := range views {
		if v.Alive && !v.Finished {
			t.Errorf("racer %d still racing after conclusion", v.Index)
		}
	}
	for _, a := range views {
		for _, b := range views {
			if a.Finished && b.Finished && a.FinishTime < b.FinishTime && a.Position >= b.Position {
				t.Errorf("racer %d (%.2fs, P%d) ranked behind racer %d (%.2fs, P%d)",
					a.Index, a.FinishTime, a.Position, b.Index, b.FinishTime, b.Position)
			}
		}
	}

	if res.Position != s.Player().Position {
		t.Errorf("result position = %d, player position = %d", res.Position, s.Player().Position)
	}
	if res.Won != (res.Position == 1) || res.Stars != Stars(res.Position) {
		t.Errorf("inconsistent result: %+v", res)
	}
	wantReward := Reward(res.Coins, res.Eliminations, res.Position, res.Racers, config.Default().Race)
	if res.Reward != wantReward {
		t.Errorf("reward = %d, want %d", res.Reward, wantReward)
	}
	if stored, ok := s.Result(); !ok || stored != res {
		t.Errorf("stored result = %+v, want %+v", stored, res)
	}

	victory := false
	for _, e := range s.DrainEvents() {
		if e.Type == telemetry.EventVictory {
			victory = true
		}
	}
	if victory != res.Won {
		t.Errorf("victory event = %v, won = %v", victory, res.Won)
	}

	// Results state is frozen
	before := s.Ticks()
	s.Tick(testDT, 1)
	if s.Ticks() != before {
		t.Error("ticks advanced in results state")
	}
}

func TestSessionForcedFinishPenalty(t *testing.T) {
	cfg := config.Default()
	s := newLevelSession(t, cfg)
	startRace(t, s)

	tickUntil(t, s, func() bool { return s.State() == StateFinished })
	active := make(map[int]bool)
	for _, v := range s.Racers() {
		if v.Alive && !v.Finished {
			active[v.Index] = true
		}
	}
	concludeAt := s.RaceTime()
	if _, ok := s.Conclude(); !ok {
		t.Fatal("Conclude failed")
	}

	for _, v := range s.Racers() {
		if !active[v.Index] {
			continue
		}
		want := concludeAt + cfg.Race.ForcedFinishPenalty
		if math.Abs(v.FinishTime-want) > 1e-9 {
			t.Errorf("racer %d forced finish time = %v, want %v", v.Index, v.FinishTime, want)
		}
		if v.Position <= s.Player().Position {
			t.Errorf("forced racer %d at P%d ahead of player at P%d", v.Index, v.Position, s.Player().Position)
		}
	}
}

func TestSessionDeterminism(t *testing.T) {
	run := func() []RacerView {
		s := newLevelSession(t, config.Default())
		startRace(t, s)
		pilot := s.Autopilot(testSkill)
		for i := 0; i < 400 && s.State().Simulating(); i++ {
			s.Tick(testDT, pilot.Steer())
		}
		return s.Racers()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed produced different races:\n%+v\n%+v", a, b)
	}
}

func TestSessionSoloRace(t *testing.T) {
	cfg := config.Default()
	cfg.Racer.Count = 1
	cfg.Recompute()

	def := level.Definition{ID: 1, Segments: 80, Curves: 3, Coins: 10, AIDifficulty: 0.5}
	rec, err := Run(RunOptions{Level: def, Seed: 7, Skill: testSkill, MaxTicks: testTickCap}, cfg)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if rec.Position != 1 || !rec.Won || rec.Stars != 3 {
		t.Errorf("solo race: position %d won %v stars %d", rec.Position, rec.Won, rec.Stars)
	}
	if rec.Coins < 0 || rec.Coins > def.Coins {
		t.Errorf("coins = %d, want within [0, %d]", rec.Coins, def.Coins)
	}
	if rec.Eliminations != 0 || rec.ObstacleHits != 0 || rec.Powerups != 0 {
		t.Errorf("unexpected interactions on an empty track: %+v", rec)
	}
	if rec.Reward != rec.Coins*cfg.Race.CoinValue {
		t.Errorf("reward = %d, want %d", rec.Reward, rec.Coins*cfg.Race.CoinValue)
	}
}

func TestSessionHUD(t *testing.T) {
	s := newLevelSession(t, config.Default())

	hud := s.HUD()
	if hud.State != StateCountdown || hud.Countdown != 3 {
		t.Errorf("hud state = %s countdown %d", hud.State, hud.Countdown)
	}
	if hud.Position != 1 || hud.PositionText != "1st" || hud.Racers != 4 {
		t.Errorf("grid hud = %+v", hud)
	}
	if hud.Time != "0:00" || hud.Progress != 0 {
		t.Errorf("time %q progress %v before the start", hud.Time, hud.Progress)
	}

	startRace(t, s)
	tickUntil(t, s, func() bool { return s.State() == StateFinished })

	hud = s.HUD()
	if hud.State != StateFinished {
		t.Errorf("hud state = %s, want finished", hud.State)
	}
	if hud.Progress <= 0.9 || hud.Progress > 1 {
		t.Errorf("progress at finish = %v", hud.Progress)
	}
	if hud.PositionText != PositionText(hud.Position) {
		t.Errorf("position text %q for P%d", hud.PositionText, hud.Position)
	}
}
