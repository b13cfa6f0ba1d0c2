package race

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/aquapark/config"
	"github.com/pthm-cable/aquapark/level"
	"github.com/pthm-cable/aquapark/telemetry"
)

func countLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return len(strings.Split(strings.TrimSpace(string(data)), "\n"))
}

func TestRunWritesOutput(t *testing.T) {
	cfg := config.Default()
	dir := t.TempDir()
	out, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	def, _ := level.ByID(testLevelID)
	sink := &recordingSink{}
	rec, err := Run(RunOptions{
		Level:    def,
		Seed:     testRaceSeed,
		Skill:    testSkill,
		MaxTicks: testTickCap,
		Output:   out,
		Results:  sink,
	}, cfg)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}

	if rec.Position < 1 || rec.Position > cfg.Racer.Count {
		t.Errorf("position = %d", rec.Position)
	}
	if rec.Ticks <= 0 || rec.RaceTime <= 0 {
		t.Errorf("ticks = %d, race time = %v", rec.Ticks, rec.RaceTime)
	}
	if rec.PlayerTopSpeed <= 0 || rec.PlayerTopSpeed > cfg.Derived.BoostedMax*cfg.Interaction.RampBoost {
		t.Errorf("player top speed = %v", rec.PlayerTopSpeed)
	}
	if len(sink.results) != 1 || sink.results[0].Position != rec.Position {
		t.Errorf("sink results = %+v", sink.results)
	}

	if n := countLines(t, filepath.Join(dir, "results.csv")); n != 2 {
		t.Errorf("results.csv lines = %d, want 2", n)
	}
	if n := countLines(t, filepath.Join(dir, "racers.csv")); n != cfg.Racer.Count+1 {
		t.Errorf("racers.csv lines = %d, want %d", n, cfg.Racer.Count+1)
	}
	wantTrace := int(rec.Ticks)/cfg.Telemetry.TraceEveryTicks*cfg.Racer.Count + 1
	if n := countLines(t, filepath.Join(dir, "trace.csv")); n != wantTrace {
		t.Errorf("trace.csv lines = %d, want %d", n, wantTrace)
	}
}

func TestRunTickLimit(t *testing.T) {
	def, _ := level.ByID(testLevelID)
	_, err := Run(RunOptions{Level: def, Seed: 1, Skill: testSkill, MaxTicks: 10}, config.Default())
	if !errors.Is(err, ErrTickLimit) {
		t.Errorf("err = %v, want ErrTickLimit", err)
	}
}

func TestRunBatch(t *testing.T) {
	def, _ := level.ByID(testLevelID)
	opts := RunOptions{Level: def, Seed: 100, Skill: testSkill, MaxTicks: testTickCap}

	records, err := RunBatch(context.Background(), opts, 3, config.Default())
	if err != nil {
		t.Fatalf("RunBatch error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	for i, rec := range records {
		if rec.Seed != 100+int64(i) {
			t.Errorf("record %d seed = %d, want %d", i, rec.Seed, 100+i)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	records, err = RunBatch(ctx, opts, 3, config.Default())
	if !errors.Is(err, context.Canceled) || len(records) != 0 {
		t.Errorf("cancelled batch = %d records, err %v", len(records), err)
	}
}
