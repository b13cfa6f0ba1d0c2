package progress

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/aquapark/race"
)

// Tracker applies race results to progress and persists them.
// It implements race.ResultSink.
type Tracker struct {
	store    Store
	progress Progress
}

var _ race.ResultSink = (*Tracker)(nil)

// NewTracker loads progress from store.
func NewTracker(store Store) (*Tracker, error) {
	p, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading progress: %w", err)
	}
	return &Tracker{store: store, progress: p}, nil
}

// RecordResult applies res and saves the updated progress.
func (t *Tracker) RecordResult(res race.Result) error {
	t.progress.Apply(res)
	slog.Info("progress updated",
		"coins", t.progress.Coins,
		"races", t.progress.TotalRaces,
		"wins", t.progress.Wins,
		"highest_level", t.progress.HighestLevel,
	)
	if err := t.store.Save(t.progress); err != nil {
		return fmt.Errorf("saving progress: %w", err)
	}
	return nil
}

// Progress returns a copy of the current progress.
func (t *Tracker) Progress() Progress {
	return t.progress.Clone()
}
