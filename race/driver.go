package race

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/aquapark/config"
	"github.com/pthm-cable/aquapark/telemetry"
)

// Clock supplies wall-clock time to the driver.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a clock advanced explicitly, for headless runs and tests.
type ManualClock struct {
	t time.Time
}

// NewManualClock creates a clock starting at t.
func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{t: t}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time { return c.t }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// SteeringSource supplies the player's steering in [-1, 1] once per tick.
type SteeringSource interface {
	Steer() float64
}

// SteeringFunc adapts a function to SteeringSource.
type SteeringFunc func() float64

// Steer calls f.
func (f SteeringFunc) Steer() float64 { return f() }

// EffectsSink consumes the events of each frame, e.g. for audio or particles.
type EffectsSink interface {
	HandleEvents([]telemetry.Event)
}

// Driver runs a session from wall-clock frames. It owns the timers that
// live outside the tick loop: the countdown interval and the grace delay
// between the player finishing and the results.
type Driver struct {
	session *Session
	clock   Clock
	cfg     *config.Config

	results ResultSink
	effects EffectsSink

	last      time.Time
	started   bool
	countdown time.Duration // Elapsed in the current countdown step
	grace     time.Duration // Elapsed since the player finished
}

// NewDriver creates a driver for session reading time from clock.
func NewDriver(session *Session, clock Clock, cfg *config.Config) *Driver {
	return &Driver{
		session: session,
		clock:   clock,
		cfg:     cfg,
	}
}

// SetResultSink registers the collaborator that receives the result.
func (d *Driver) SetResultSink(sink ResultSink) { d.results = sink }

// SetEffects registers the collaborator that receives every frame's events.
func (d *Driver) SetEffects(sink EffectsSink) { d.effects = sink }

// Session returns the driven session.
func (d *Driver) Session() *Session { return d.session }

// Done reports whether the race reached the results state.
func (d *Driver) Done() bool { return d.session.State() == StateResults }

// Frame processes one animation frame with the given steering and returns
// the events it produced.
func (d *Driver) Frame(steer float64) []telemetry.Event {
	now := d.clock.Now()
	if !d.started {
		d.last = now
		d.started = true
	}
	elapsed := max(now.Sub(d.last), 0)
	d.last = now

	s := d.session
	var events []telemetry.Event

	switch s.State() {
	case StateCountdown:
		d.advanceCountdown(elapsed)
		events = s.DrainEvents()

	case StatePlaying, StateFinished:
		wasFinished := s.State() == StateFinished
		dt := min(elapsed.Seconds(), d.cfg.Physics.MaxDT)
		events = s.Tick(dt, steer)

		if wasFinished {
			d.grace += elapsed
			if d.grace.Seconds() >= d.cfg.Race.GraceDelaySec {
				d.conclude()
				events = append(events, s.DrainEvents()...)
			}
		}

	default:
		events = s.DrainEvents()
	}

	if d.effects != nil && len(events) > 0 {
		d.effects.HandleEvents(events)
	}
	return events
}

func (d *Driver) advanceCountdown(elapsed time.Duration) {
	interval := time.Duration(d.cfg.Race.CountdownIntervalSec * float64(time.Second))
	d.countdown += elapsed
	for d.session.State() == StateCountdown && d.countdown >= interval {
		d.countdown -= interval
		d.session.AdvanceCountdown()
	}
}

func (d *Driver) conclude() {
	res, ok := d.session.Conclude()
	if !ok {
		return
	}
	slog.Info("race complete", "result", res)

	if d.results == nil {
		return
	}
	if err := d.results.RecordResult(res); err != nil {
		slog.Error("failed to record result", "session", res.SessionID, "error", err)
	}
}
