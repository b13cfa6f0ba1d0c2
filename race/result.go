package race

import (
	"log/slog"

	"github.com/pthm-cable/aquapark/level"
)

// Result is the player's outcome of a finished race.
type Result struct {
	SessionID string
	LevelID   int
	Seed      int64

	Position int
	Racers   int
	Won      bool
	Stars    int
	Reward   int

	Coins        int
	Eliminations int
	RaceTime     float64
	Ticks        int32
}

// NextLevelAvailable reports whether the result unlocks the following level.
func (r Result) NextLevelAvailable() bool {
	return r.Position <= 2 && r.LevelID < level.Count
}

// LogValue implements slog.LogValuer for structured logging.
func (r Result) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("session", r.SessionID),
		slog.Int("level", r.LevelID),
		slog.Int("position", r.Position),
		slog.Bool("won", r.Won),
		slog.Int("stars", r.Stars),
		slog.Int("reward", r.Reward),
		slog.Int("coins", r.Coins),
		slog.Int("eliminations", r.Eliminations),
		slog.String("time", FormatTime(r.RaceTime)),
	)
}

// ResultSink receives results when a race reaches the results state.
type ResultSink interface {
	RecordResult(Result) error
}
