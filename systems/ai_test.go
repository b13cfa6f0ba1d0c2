package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/aquapark/track"
)

func TestAISystem_SkipsPlayer(t *testing.T) {
	r := newTestRace(flatTrack(60))
	player := r.addPlayer(0, 5, 1.0, 0.5)
	bot := r.addBot(1, 5, -1.0, 0.5)

	sys := NewAISystem(r.world, r.cfg, 0.8, rand.New(rand.NewSource(1)))
	sys.Update(r.frame(1.0/60, 1.0/60, 0))

	if got := r.kinMap.Get(player); got.Lateral != 1.0 || got.Speed != 0.5 {
		t.Errorf("player changed by AI: lateral %v speed %v", got.Lateral, got.Speed)
	}
	pilot := r.pilotMap.Get(bot)
	if pilot.Cooldown < r.cfg.AI.LaneChangeMin || pilot.Cooldown > r.cfg.AI.LaneChangeMax {
		t.Errorf("cooldown = %v, want in [%v, %v]", pilot.Cooldown, r.cfg.AI.LaneChangeMin, r.cfg.AI.LaneChangeMax)
	}
}

func TestAISystem_SteersWithoutOvershoot(t *testing.T) {
	r := newTestRace(flatTrack(60))
	bot := r.addBot(1, 5, 0, 0.5)
	pilot := r.pilotMap.Get(bot)
	pilot.Cooldown = 100
	pilot.Target = 0.01

	difficulty := 0.5
	sys := NewAISystem(r.world, r.cfg, difficulty, rand.New(rand.NewSource(1)))
	dt := 1.0 / 60
	sys.Update(r.frame(dt, dt, 0))

	kin := r.kinMap.Get(bot)
	if kin.Lateral != 0.01 {
		t.Errorf("lateral = %v, want 0.01 (no overshoot)", kin.Lateral)
	}

	// A distant target is approached at the capped rate
	pilot.Target = -2
	sys.Update(r.frame(dt, 2*dt, 0))
	rate := 0.08 * difficulty * 1.5 * dt * 60
	if math.Abs(kin.Lateral-(0.01-rate)) > 1e-12 {
		t.Errorf("lateral = %v, want %v", kin.Lateral, 0.01-rate)
	}
}

func TestAISystem_SpeedScaling(t *testing.T) {
	r := newTestRace(flatTrack(60))
	fast := r.addBot(1, 5, 0, 0.5)
	slow := r.addBot(2, 5, 0, r.cfg.Derived.MinSpeed)
	r.pilotMap.Get(fast).Cooldown = 100
	r.pilotMap.Get(slow).Cooldown = 100

	sys := NewAISystem(r.world, r.cfg, 0.5, rand.New(rand.NewSource(1)))
	sys.Update(r.frame(1.0/60, 1.0/60, 0))

	if got := r.kinMap.Get(fast).Speed; math.Abs(got-0.5*0.99) > 1e-12 {
		t.Errorf("speed = %v, want %v", got, 0.5*0.99)
	}
	if got := r.kinMap.Get(slow).Speed; got != r.cfg.Derived.MinSpeed {
		t.Errorf("speed = %v, want floor %v", got, r.cfg.Derived.MinSpeed)
	}
}

func TestAvoidanceSign(t *testing.T) {
	tr := flatTrack(60)
	r := newTestRace(tr)
	tr.Obstacles = []track.Obstacle{{Anchor: anchorAt(tr, 11, 0)}}

	tests := []struct {
		name      string
		segment   int
		lateral   float64
		destroyed bool
		want      float64
	}{
		{"right of obstacle", 10, 0.5, false, -1},
		{"left of obstacle", 10, -0.5, false, 1},
		{"centred", 10, 0, false, 1},
		{"same segment", 11, 0, false, 0},
		{"too far", 2, 0, false, 0},
		{"destroyed", 10, 0.5, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr.Obstacles[0].Destroyed = tt.destroyed
			kin := r.kinematics(tt.segment, tt.lateral, 0.5)
			if got := AvoidanceSign(&kin, tr, 15, 3); got != tt.want {
				t.Errorf("AvoidanceSign = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNearestCoin(t *testing.T) {
	tr := flatTrack(60)
	tr.Coins = []track.Coin{
		{Anchor: anchorAt(tr, 14, 0)},
		{Anchor: anchorAt(tr, 12, 1)},
		{Anchor: anchorAt(tr, 11, 0), Collected: true},
		{Anchor: anchorAt(tr, 10, 0)},
		{Anchor: anchorAt(tr, 40, 0)},
	}

	coin, ok := NearestCoin(10, tr, 15)
	if !ok || coin.Segment != 12 {
		t.Fatalf("NearestCoin = %+v, %v; want segment 12", coin, ok)
	}
	if _, ok := NearestCoin(30, tr, 5); ok {
		t.Error("expected no coin inside the window")
	}
}

func TestAISystem_AvoidsObstacle(t *testing.T) {
	tr := flatTrack(60)
	r := newTestRace(tr)
	tr.Obstacles = []track.Obstacle{{Anchor: anchorAt(tr, 11, 0.5)}}
	bot := r.addBot(1, 10, 0.5, 0.5)

	sys := NewAISystem(r.world, r.cfg, 0.5, rand.New(rand.NewSource(9)))
	sys.Update(r.frame(1.0/60, 1.0/60, 0))

	if got := r.pilotMap.Get(bot).Target; math.Abs(got-(0.5-2)) > 1e-12 {
		t.Errorf("target = %v, want %v", got, 0.5-2.0)
	}
}
