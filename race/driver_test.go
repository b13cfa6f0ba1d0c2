package race

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/pthm-cable/aquapark/config"
	"github.com/pthm-cable/aquapark/telemetry"
)

type recordingSink struct {
	results []Result
	err     error
}

func (r *recordingSink) RecordResult(res Result) error {
	r.results = append(r.results, res)
	return r.err
}

type recordingEffects struct {
	counts map[telemetry.EventType]int
}

func (r *recordingEffects) HandleEvents(events []telemetry.Event) {
	if r.counts == nil {
		r.counts = make(map[telemetry.EventType]int)
	}
	for _, e := range events {
		r.counts[e.Type]++
	}
}

func TestDriverCountdown(t *testing.T) {
	cfg := config.Default()
	s := newLevelSession(t, cfg)
	clock := NewManualClock(time.Unix(0, 0))
	d := NewDriver(s, clock, cfg)
	fx := &recordingEffects{}
	d.SetEffects(fx)

	// First frame only establishes the clock
	d.Frame(0)
	if s.Countdown() != 3 {
		t.Fatalf("countdown = %d after first frame, want 3", s.Countdown())
	}

	clock.Advance(500 * time.Millisecond)
	d.Frame(0)
	if s.Countdown() != 3 {
		t.Errorf("countdown = %d after half an interval, want 3", s.Countdown())
	}

	clock.Advance(500 * time.Millisecond)
	d.Frame(0)
	if s.Countdown() != 2 {
		t.Errorf("countdown = %d after one interval, want 2", s.Countdown())
	}

	// A long stall catches up on every step
	clock.Advance(5 * time.Second)
	d.Frame(0)
	if s.State() != StatePlaying {
		t.Fatalf("state = %s, want playing", s.State())
	}
	if s.Ticks() != 0 {
		t.Errorf("ticks = %d, countdown frames must not simulate", s.Ticks())
	}
	if fx.counts[telemetry.EventCountdownTick] != 3 || fx.counts[telemetry.EventRaceStart] != 1 {
		t.Errorf("effects counts = %v", fx.counts)
	}
}

func TestDriverClampsFrameDelta(t *testing.T) {
	cfg := config.Default()
	cfg.Race.CountdownSteps = 0
	s := newLevelSession(t, cfg)
	clock := NewManualClock(time.Unix(0, 0))
	d := NewDriver(s, clock, cfg)

	d.Frame(0)
	clock.Advance(2 * time.Second)
	d.Frame(0)

	// Two ticks: the zero-length first frame and the clamped stall
	if s.Ticks() != 2 {
		t.Fatalf("ticks = %d, want 2", s.Ticks())
	}
	if math.Abs(s.RaceTime()-cfg.Physics.MaxDT) > 1e-12 {
		t.Errorf("race time = %v, want %v", s.RaceTime(), cfg.Physics.MaxDT)
	}
}

func TestDriverGraceDelay(t *testing.T) {
	cfg := config.Default()
	s := newLevelSession(t, cfg)
	clock := NewManualClock(time.Unix(0, 0))
	d := NewDriver(s, clock, cfg)
	sink := &recordingSink{}
	d.SetResultSink(sink)
	fx := &recordingEffects{}
	d.SetEffects(fx)
	pilot := s.Autopilot(testSkill)

	finishedAt := -1.0
	for i := 0; !d.Done(); i++ {
		if i >= testTickCap {
			t.Fatalf("race not done after %d frames (state %s)", testTickCap, s.State())
		}
		clock.Advance(HeadlessFrame)
		d.Frame(pilot.Steer())
		if finishedAt < 0 && s.State() == StateFinished {
			finishedAt = s.RaceTime()
		}
	}

	if finishedAt < 0 {
		t.Fatal("race skipped the finished state")
	}
	grace := s.RaceTime() - finishedAt
	if grace < cfg.Race.GraceDelaySec-1e-6 || grace > cfg.Race.GraceDelaySec+0.1 {
		t.Errorf("grace period = %.3fs, want about %.1fs", grace, cfg.Race.GraceDelaySec)
	}

	if len(sink.results) != 1 {
		t.Fatalf("sink received %d results, want 1", len(sink.results))
	}
	res, _ := s.Result()
	if sink.results[0] != res {
		t.Errorf("sink result = %+v, want %+v", sink.results[0], res)
	}
	if fx.counts[telemetry.EventFinish] == 0 {
		t.Error("effects never saw a finish event")
	}
	if res.Won && fx.counts[telemetry.EventVictory] != 1 {
		t.Errorf("victory events = %d, want 1", fx.counts[telemetry.EventVictory])
	}

	// Further frames are inert
	ticks := s.Ticks()
	clock.Advance(time.Second)
	d.Frame(1)
	if s.Ticks() != ticks || len(sink.results) != 1 {
		t.Error("driver kept running after results")
	}
}

func TestDriverSinkErrorDoesNotBlockResults(t *testing.T) {
	cfg := config.Default()
	cfg.Race.CountdownSteps = 0
	cfg.Race.GraceDelaySec = 0
	s := newLevelSession(t, cfg)
	clock := NewManualClock(time.Unix(0, 0))
	d := NewDriver(s, clock, cfg)
	d.SetResultSink(&recordingSink{err: errors.New("disk full")})
	pilot := s.Autopilot(testSkill)

	for i := 0; !d.Done(); i++ {
		if i >= testTickCap {
			t.Fatalf("race not done after %d frames", testTickCap)
		}
		clock.Advance(HeadlessFrame)
		d.Frame(pilot.Steer())
	}
	if _, ok := s.Result(); !ok {
		t.Error("expected a result despite the sink error")
	}
}

func TestSteeringFunc(t *testing.T) {
	var src SteeringSource = SteeringFunc(func() float64 { return -0.5 })
	if src.Steer() != -0.5 {
		t.Errorf("Steer() = %v, want -0.5", src.Steer())
	}
}
