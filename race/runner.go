package race

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/aquapark/config"
	"github.com/pthm-cable/aquapark/level"
	"github.com/pthm-cable/aquapark/telemetry"
)

// HeadlessFrame is the simulated frame length of headless runs.
const HeadlessFrame = time.Second / 60

// ErrTickLimit is returned when a headless race does not reach results
// within the tick limit.
var ErrTickLimit = errors.New("race: tick limit reached")

// RunOptions configures a headless race.
type RunOptions struct {
	Level    level.Definition
	Seed     int64
	Skill    float64 // Autopilot skill in [0, 1]
	MaxTicks int32   // 0 means unlimited

	Output      *telemetry.OutputManager // Optional
	Results     ResultSink               // Optional
	SnapshotDir string                   // Empty disables highlight snapshots
	LogStats    bool
}

// Run plays one race with the autopilot steering the player and returns
// the race record. Telemetry is written to opts.Output when set.
func Run(opts RunOptions, cfg *config.Config) (telemetry.RaceRecord, error) {
	session := NewSession(opts.Level, opts.Seed, cfg)
	id := session.ID.String()

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	session.SetPerf(perf)

	clock := NewManualClock(time.Unix(0, 0))
	driver := NewDriver(session, clock, cfg)
	if opts.Results != nil {
		driver.SetResultSink(opts.Results)
	}
	pilot := session.Autopilot(opts.Skill)

	collector := telemetry.NewCollector(PlayerIndex)
	detector := telemetry.NewHighlightDetector(PlayerIndex, cfg.Telemetry.PhotoFinishGapSec)

	lastTick := session.Ticks()
	for !driver.Done() {
		if opts.MaxTicks > 0 && session.Ticks() >= opts.MaxTicks {
			return telemetry.RaceRecord{}, fmt.Errorf("%w: session %s after %d ticks", ErrTickLimit, id, session.Ticks())
		}

		clock.Advance(HeadlessFrame)
		perf.RecordFrame()
		events := driver.Frame(pilot.Steer())
		collector.RecordAll(events)

		tick := session.Ticks()
		if tick == lastTick {
			continue
		}
		lastTick = tick

		for _, v := range session.Racers() {
			if v.Alive && !v.Finished {
				collector.ObserveSpeed(v.Index, v.Speed)
			}
		}

		for _, h := range detector.Check(tick, session.RaceTime(), session.Standings(), events) {
			h.SessionID = id
			if h.Type == telemetry.HighlightLeadChange {
				collector.RecordLeadChange()
			}
			if err := recordHighlight(session, h, opts); err != nil {
				return telemetry.RaceRecord{}, err
			}
		}

		if every := cfg.Telemetry.TraceEveryTicks; every > 0 && int(tick)%every == 0 {
			if err := opts.Output.WriteTrace(session.Trace()); err != nil {
				return telemetry.RaceRecord{}, err
			}
		}

		if window := cfg.Telemetry.PerfWindow; window > 0 && int(tick)%window == 0 {
			stats := perf.Stats()
			if opts.LogStats {
				slog.Info("perf", "session", id, "tick", tick, "stats", stats)
			}
			if err := opts.Output.WritePerf(stats.Record(id, tick)); err != nil {
				return telemetry.RaceRecord{}, err
			}
		}
	}

	res, _ := session.Result()
	rec := telemetry.RaceRecord{
		SessionID:    id,
		LevelID:      res.LevelID,
		Seed:         res.Seed,
		Ticks:        res.Ticks,
		RaceTime:     res.RaceTime,
		Position:     res.Position,
		Won:          res.Won,
		Stars:        res.Stars,
		Reward:       res.Reward,
		Coins:        res.Coins,
		Eliminations: res.Eliminations,
	}
	collector.Fill(&rec)

	if err := opts.Output.WriteResult(rec); err != nil {
		return rec, err
	}
	if err := opts.Output.WriteRacers(racerRecords(session, collector)); err != nil {
		return rec, err
	}
	if opts.LogStats {
		slog.Info("race", "record", rec)
	}
	return rec, nil
}

func recordHighlight(session *Session, h telemetry.Highlight, opts RunOptions) error {
	if opts.LogStats {
		h.LogHighlight()
	}
	if err := opts.Output.WriteHighlight(h); err != nil {
		return err
	}
	if opts.SnapshotDir == "" {
		return nil
	}

	snap := session.Snapshot()
	snap.Highlight = &h
	path, err := telemetry.SaveSnapshot(snap, opts.SnapshotDir)
	if err != nil {
		// A failed snapshot does not invalidate the race
		slog.Warn("failed to save snapshot", "error", err)
		return nil
	}
	slog.Debug("snapshot saved", "path", path, "highlight", string(h.Type))
	return nil
}

func racerRecords(session *Session, c *telemetry.Collector) []telemetry.RacerRecord {
	views := session.Racers()
	recs := make([]telemetry.RacerRecord, 0, len(views))
	for _, v := range views {
		rec := telemetry.RacerRecord{
			SessionID:  session.ID.String(),
			Racer:      v.Index,
			Player:     v.Player,
			Position:   v.Position,
			Finished:   v.Finished,
			Eliminated: !v.Alive,
			FinishTime: v.FinishTime,
			Distance:   float64(v.Segment) + v.Progress,
		}
		c.FillRacer(&rec)
		recs = append(recs, rec)
	}
	return recs
}

// RunBatch plays races consecutive races on seeds opts.Seed, opts.Seed+1, ...
// and returns their records. It stops early when ctx is cancelled.
func RunBatch(ctx context.Context, opts RunOptions, races int, cfg *config.Config) ([]telemetry.RaceRecord, error) {
	records := make([]telemetry.RaceRecord, 0, races)
	base := opts.Seed
	for i := 0; i < races; i++ {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		opts.Seed = base + int64(i)
		rec, err := Run(opts, cfg)
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}
