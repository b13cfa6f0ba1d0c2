package main

import (
	"errors"
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/aquapark/config"
	"github.com/pthm-cable/aquapark/level"
	"github.com/pthm-cable/aquapark/race"
	"github.com/pthm-cable/aquapark/telemetry"
)

// Target is the desired autopilot win rate, interpolated linearly from the
// first level to the last.
type Target struct {
	Easy float64 // Win rate on level 1
	Hard float64 // Win rate on the last level
}

// At returns the target win rate for level id.
func (t Target) At(id int) float64 {
	if level.Count <= 1 {
		return t.Easy
	}
	f := float64(id-1) / float64(level.Count-1)
	f = min(max(f, 0), 1)
	return t.Easy + (t.Hard-t.Easy)*f
}

// Evaluator plays headless races and scores a parameter vector.
type Evaluator struct {
	params   *ParamVector
	levels   []int
	seeds    []int64
	skill    float64
	maxTicks int32
	base     *config.Config
	target   Target

	mu        sync.Mutex
	lastStats map[int]telemetry.BatchStats
}

// NewEvaluator creates an evaluator over the given levels and seeds.
func NewEvaluator(params *ParamVector, levels []int, seeds []int64, skill float64, maxTicks int32, base *config.Config, target Target) *Evaluator {
	return &Evaluator{
		params:   params,
		levels:   levels,
		seeds:    seeds,
		skill:    skill,
		maxTicks: maxTicks,
		base:     base,
		target:   target,
	}
}

// LastStats returns the per-level batch statistics of the most recent evaluation.
func (ev *Evaluator) LastStats() map[int]telemetry.BatchStats {
	ev.mu.Lock()
	defer ev.mu.Unlock()
	return ev.lastStats
}

// Evaluate computes the fitness of raw parameter values (lower = better):
// the mean squared gap between observed and target win rates.
func (ev *Evaluator) Evaluate(x []float64) float64 {
	cfg := ev.copyConfig()
	curve := ev.params.Apply(cfg, x)

	stats := make(map[int]telemetry.BatchStats, len(ev.levels))
	var sum float64
	for _, id := range ev.levels {
		def, ok := level.ByIDWithCurve(id, curve)
		if !ok {
			continue
		}
		s := telemetry.ComputeBatchStats(ev.runSeeds(def, cfg))
		stats[id] = s

		gap := s.WinRate - ev.target.At(id)
		sum += gap * gap
	}

	ev.mu.Lock()
	ev.lastStats = stats
	ev.mu.Unlock()

	if len(stats) == 0 {
		return math.Inf(1)
	}
	return sum / float64(len(stats))
}

// runSeeds plays one race per seed in parallel. Races that hit the tick
// limit count as lost.
func (ev *Evaluator) runSeeds(def level.Definition, cfg *config.Config) []telemetry.RaceRecord {
	records := make([]telemetry.RaceRecord, len(ev.seeds))
	var wg sync.WaitGroup

	for i, seed := range ev.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			rec, err := race.Run(race.RunOptions{
				Level:    def,
				Seed:     s,
				Skill:    ev.skill,
				MaxTicks: ev.maxTicks,
			}, cfg)
			if err != nil {
				if !errors.Is(err, race.ErrTickLimit) {
					slog.Warn("race failed", "level", def.ID, "seed", s, "error", err)
				}
				rec = telemetry.RaceRecord{LevelID: def.ID, Seed: s, Position: cfg.Racer.Count}
			}
			records[idx] = rec
		}(i, seed)
	}
	wg.Wait()
	return records
}

func (ev *Evaluator) copyConfig() *config.Config {
	cfg := *ev.base
	return &cfg
}
