// Package telemetry provides race events, per-race statistics, highlights and output.
package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/aquapark/components"
)

// EventType identifies race events.
type EventType uint8

const (
	EventCoinPickup EventType = iota
	EventObstacleBump
	EventRacerBump
	EventElimination
	EventPowerupActivate
	EventRampLaunch
	EventFinish
	EventCountdownTick
	EventRaceStart
	EventVictory
)

var eventNames = [...]string{
	EventCoinPickup:      "coin-pickup",
	EventObstacleBump:    "obstacle-bump",
	EventRacerBump:       "racer-bump",
	EventElimination:     "elimination",
	EventPowerupActivate: "powerup-activate",
	EventRampLaunch:      "ramp-launch",
	EventFinish:          "finish",
	EventCountdownTick:   "countdown-tick",
	EventRaceStart:       "race-start",
	EventVictory:         "victory",
}

// String returns the event name.
func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// NoRacer marks events without a second racer.
const NoRacer = -1

// Event is a single effect-worthy occurrence within a tick.
type Event struct {
	Type EventType
	Tick int32
	Time float64 // Race seconds

	Racer   int // Racer index that caused the event
	Target  int // Other racer for bump/elimination, NoRacer otherwise
	Segment int

	// Optional fields depending on event type
	PowerUp components.PowerUpKind // powerup-activate
	Value   int                    // countdown number
	Smashed bool                   // obstacle-bump: destroyed rather than struck
}

// LogValue implements slog.LogValuer for structured logging.
func (e Event) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("type", e.Type.String()),
		slog.Int("tick", int(e.Tick)),
		slog.Float64("time", e.Time),
		slog.Int("racer", e.Racer),
	}
	if e.Target != NoRacer {
		attrs = append(attrs, slog.Int("target", e.Target))
	}
	switch e.Type {
	case EventPowerupActivate:
		attrs = append(attrs, slog.String("powerup", e.PowerUp.String()))
	case EventCountdownTick:
		attrs = append(attrs, slog.Int("value", e.Value))
	case EventObstacleBump:
		attrs = append(attrs, slog.Bool("smashed", e.Smashed))
	}
	return slog.GroupValue(attrs...)
}

// Events buffers events emitted during a tick until a consumer drains them.
type Events struct {
	buf  []Event
	tick int32
	time float64
}

// SetClock stamps subsequently emitted events with tick and race time.
func (b *Events) SetClock(tick int32, time float64) {
	b.tick = tick
	b.time = time
}

// Emit appends an event, filling in the current tick and time.
func (b *Events) Emit(e Event) {
	e.Tick = b.tick
	e.Time = b.time
	b.buf = append(b.buf, e)
}

// Len returns the number of buffered events.
func (b *Events) Len() int {
	return len(b.buf)
}

// Drain returns buffered events and empties the buffer.
// The returned slice is owned by the caller.
func (b *Events) Drain() []Event {
	out := b.buf
	b.buf = nil
	return out
}

// NewCoinPickupEvent creates a coin pickup event.
func NewCoinPickupEvent(racer, segment int) Event {
	return Event{Type: EventCoinPickup, Racer: racer, Target: NoRacer, Segment: segment}
}

// NewObstacleBumpEvent creates an obstacle impact event.
func NewObstacleBumpEvent(racer, segment int, smashed bool) Event {
	return Event{Type: EventObstacleBump, Racer: racer, Target: NoRacer, Segment: segment, Smashed: smashed}
}

// NewRacerBumpEvent creates a racer-vs-racer contact event.
func NewRacerBumpEvent(racer, other, segment int) Event {
	return Event{Type: EventRacerBump, Racer: racer, Target: other, Segment: segment}
}

// NewEliminationEvent creates an elimination event. Racer is the eliminator.
func NewEliminationEvent(racer, victim, segment int) Event {
	return Event{Type: EventElimination, Racer: racer, Target: victim, Segment: segment}
}

// NewPowerupEvent creates a power-up activation event.
func NewPowerupEvent(racer, segment int, kind components.PowerUpKind) Event {
	return Event{Type: EventPowerupActivate, Racer: racer, Target: NoRacer, Segment: segment, PowerUp: kind}
}

// NewRampLaunchEvent creates a ramp launch event.
func NewRampLaunchEvent(racer, segment int) Event {
	return Event{Type: EventRampLaunch, Racer: racer, Target: NoRacer, Segment: segment}
}

// NewFinishEvent creates a finish line event.
func NewFinishEvent(racer, segment int) Event {
	return Event{Type: EventFinish, Racer: racer, Target: NoRacer, Segment: segment}
}

// NewCountdownEvent creates a countdown tick carrying the displayed number.
func NewCountdownEvent(n int) Event {
	return Event{Type: EventCountdownTick, Racer: NoRacer, Target: NoRacer, Value: n}
}

// NewRaceStartEvent creates the race start event.
func NewRaceStartEvent() Event {
	return Event{Type: EventRaceStart, Racer: NoRacer, Target: NoRacer}
}

// NewVictoryEvent creates the victory event for the player.
func NewVictoryEvent(racer int) Event {
	return Event{Type: EventVictory, Racer: racer, Target: NoRacer, Value: 1}
}
