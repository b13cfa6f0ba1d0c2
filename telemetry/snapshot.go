package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/aquapark/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the race state at one tick.
type Snapshot struct {
	Version   int    `json:"version"`
	SessionID string `json:"session_id"`
	LevelID   int    `json:"level_id"`
	Seed      int64  `json:"seed"`

	State    string  `json:"state"`
	Tick     int32   `json:"tick"`
	RaceTime float64 `json:"race_time"`

	Coins        int `json:"coins"`
	Eliminations int `json:"eliminations"`

	Racers []RacerState `json:"racers"`

	Highlight *Highlight `json:"highlight,omitempty"`
}

// RacerState holds one racer's full state.
type RacerState struct {
	Index  int  `json:"index"`
	Player bool `json:"player"`

	Segment  int     `json:"segment"`
	Progress float64 `json:"progress"`
	Lateral  float64 `json:"lateral"`
	Speed    float64 `json:"speed"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`

	Alive      bool    `json:"alive"`
	Finished   bool    `json:"finished"`
	FinishTime float64 `json:"finish_time"`
	Position   int     `json:"position"`

	PowerUp        components.PowerUpKind `json:"powerup"`
	PowerUpSeconds float64                `json:"powerup_seconds"`
}

// SaveSnapshot writes a snapshot to dir and returns the file path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%s_%d", snapshot.SessionID, snapshot.Tick)
	if snapshot.Highlight != nil {
		name += "_" + strings.ReplaceAll(string(snapshot.Highlight.Type), " ", "_")
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
