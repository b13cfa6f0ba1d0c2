package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/aquapark/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Nil manager accepts writes
	if err := om.WriteResult(RaceRecord{}); err != nil {
		t.Error(err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager error: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteResult(RaceRecord{SessionID: "s", LevelID: i, Position: i}); err != nil {
			t.Fatalf("WriteResult error: %v", err)
		}
	}
	if err := om.WriteHighlight(Highlight{Type: HighlightLeadChange, Description: "x"}); err != nil {
		t.Fatalf("WriteHighlight error: %v", err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig error: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "results.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("results.csv has %d lines, want 4", len(lines))
	}
	if !strings.HasPrefix(lines[0], "session,level,seed") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Count(string(data), "session,level") != 1 {
		t.Error("header written more than once")
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml missing: %v", err)
	}
	hl, _ := os.ReadFile(filepath.Join(dir, "highlights.csv"))
	if !strings.Contains(string(hl), "lead_change") {
		t.Errorf("highlights.csv = %q", hl)
	}
}

func TestOutputManagerSummary(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	stats := ComputeBatchStats([]RaceRecord{{Won: true, Position: 1}, {Position: 3}})
	if err := om.WriteSummary(stats); err != nil {
		t.Fatalf("WriteSummary error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "summary.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "races,wins,win_rate") {
		t.Errorf("summary.csv = %q", data)
	}
	if !strings.HasPrefix(lines[1], "2,1,0.5") {
		t.Errorf("summary row = %q", lines[1])
	}
}
