package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/pthm-cable/aquapark/config"
	"github.com/pthm-cable/aquapark/level"
	"github.com/pthm-cable/aquapark/progress"
	"github.com/pthm-cable/aquapark/race"
	"github.com/pthm-cable/aquapark/telemetry"
	"github.com/pthm-cable/aquapark/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run races without graphics using the autopilot")
	levelID := flag.Int("level", 1, "Level to play (1-20)")
	races := flag.Int("races", 1, "Number of headless races (seeds seed, seed+1, ...)")
	logStats := flag.Bool("log-stats", false, "Output race and perf stats via slog")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for highlight snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	progressPath := flag.String("progress", "", "Progress file to update with results (empty = none)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Abort a headless race after N ticks (0 = unlimited)")
	skill := flag.Float64("skill", 0, "Autopilot skill in [0,1] (0 = use config)")
	autopilot := flag.Bool("autopilot", false, "Start the viewer with the autopilot steering")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	def, ok := level.ByID(*levelID)
	if !ok {
		slog.Error("unknown level", "level", *levelID, "max", level.Count)
		os.Exit(1)
	}

	var (
		tracker *progress.Tracker
		results race.ResultSink
	)
	if *progressPath != "" {
		var err error
		tracker, err = progress.NewTracker(progress.NewFileStore(*progressPath))
		if err != nil {
			slog.Error("failed to load progress", "error", err)
			os.Exit(1)
		}
		if err := tracker.Progress().CheckLevel(def.ID); err != nil {
			slog.Error("cannot start level", "error", err)
			os.Exit(1)
		}
		results = tracker
	}

	if !*headless {
		app := viewer.New(cfg, viewer.Options{
			Level:     def.ID,
			Seed:      rngSeed,
			Results:   results,
			Progress:  tracker,
			Autopilot: *autopilot,
		})
		if err := app.Run(); err != nil {
			slog.Error("viewer stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	// Headless mode - pure CPU simulation, no raylib needed
	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	autopilotSkill := cfg.AI.AutopilotSkill
	if *skill > 0 {
		autopilotSkill = *skill
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting headless races",
		"level", def.ID,
		"seed", rngSeed,
		"races", *races,
		"skill", autopilotSkill,
		"max_ticks", *maxTicks,
	)

	records, err := race.RunBatch(ctx, race.RunOptions{
		Level:       def,
		Seed:        rngSeed,
		Skill:       autopilotSkill,
		MaxTicks:    int32(*maxTicks),
		Output:      output,
		Results:     results,
		SnapshotDir: *snapshotDir,
		LogStats:    *logStats,
	}, *races, cfg)
	if err != nil {
		slog.Error("headless run stopped", "completed", len(records), "error", err)
	}

	stats := telemetry.ComputeBatchStats(records)
	slog.Info("batch complete", "stats", stats)
	if err := output.WriteSummary(stats); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
	if err != nil {
		output.Close()
		os.Exit(1)
	}
}
