package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is one stage of a race tick, in execution order.
type Phase uint8

const (
	PhasePhysics Phase = iota
	PhaseAI
	PhaseInteraction
	PhaseRanking
	phaseCount
)

var phaseNames = [phaseCount]string{"physics", "ai", "interaction", "ranking"}

func (p Phase) String() string {
	if p < phaseCount {
		return phaseNames[p]
	}
	return "unknown"
}

// tickTiming is the cost of one tick split by phase.
type tickTiming struct {
	total  time.Duration
	phases [phaseCount]time.Duration
}

// PerfCollector times race ticks over a rolling window.
type PerfCollector struct {
	ring []tickTiming
	head int
	full bool

	cur        tickTiming
	tickStart  time.Time
	phaseStart time.Time
	running    Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{ring: make([]tickTiming, windowSize), now: time.Now}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.cur = tickTiming{}
	p.inPhase = false
}

// StartPhase closes the running phase and opens phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.running, p.inPhase, p.phaseStart = phase, true, now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.running < phaseCount {
		p.cur.phases[p.running] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// EndTick closes the tick and pushes it into the window.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.head] = p.cur
	p.head++
	if p.head == len(p.ring) {
		p.head, p.full = 0, true
	}
}

// Len returns the number of ticks in the window.
func (p *PerfCollector) Len() int {
	if p.full {
		return len(p.ring)
	}
	return p.head
}

// RecordFrame records the time between rendered frames.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarises the tick window.
type PerfStats struct {
	Ticks   int
	AvgTick time.Duration
	P95Tick time.Duration
	MaxTick time.Duration

	PhaseAvg [phaseCount]time.Duration
	PhasePct [phaseCount]float64 // Share of the average tick, in percent

	TicksPerSecond float64
	FPS            float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	n := p.Len()
	if n == 0 {
		return s
	}
	s.Ticks = n

	totals := make([]float64, n)
	var sums [phaseCount]time.Duration
	for i, t := range p.ring[:n] {
		totals[i] = float64(t.total)
		for ph, d := range t.phases {
			sums[ph] += d
		}
	}
	slices.Sort(totals)

	s.AvgTick = time.Duration(stat.Mean(totals, nil))
	s.P95Tick = time.Duration(stat.Quantile(0.95, stat.Empirical, totals, nil))
	s.MaxTick = time.Duration(totals[n-1])
	for ph := range sums {
		s.PhaseAvg[ph] = sums[ph] / time.Duration(n)
		if s.AvgTick > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTick) * 100
		}
	}
	if s.AvgTick > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTick)
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("p95_tick_us", s.P95Tick.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTick.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for ph := Phase(0); ph < phaseCount; ph++ {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.PhasePct[ph]))
	}
	return slog.GroupValue(attrs...)
}

// PerfRecord is one row of perf.csv.
type PerfRecord struct {
	SessionID      string  `csv:"session"`
	Tick           int32   `csv:"tick"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	P95TickUS      int64   `csv:"p95_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	PhysicsPct     float64 `csv:"physics_pct"`
	AIPct          float64 `csv:"ai_pct"`
	InteractionPct float64 `csv:"interaction_pct"`
	RankingPct     float64 `csv:"ranking_pct"`
}

// Record flattens the stats for CSV export.
func (s PerfStats) Record(sessionID string, tick int32) PerfRecord {
	return PerfRecord{
		SessionID:      sessionID,
		Tick:           tick,
		AvgTickUS:      s.AvgTick.Microseconds(),
		P95TickUS:      s.P95Tick.Microseconds(),
		MaxTickUS:      s.MaxTick.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		PhysicsPct:     s.PhasePct[PhasePhysics],
		AIPct:          s.PhasePct[PhaseAI],
		InteractionPct: s.PhasePct[PhaseInteraction],
		RankingPct:     s.PhasePct[PhaseRanking],
	}
}
