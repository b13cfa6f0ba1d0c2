package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// BatchStats aggregates the results of many races.
type BatchStats struct {
	Races   int     `csv:"races"`
	Wins    int     `csv:"wins"`
	WinRate float64 `csv:"win_rate"`

	MeanPosition float64 `csv:"mean_position"`
	StdPosition  float64 `csv:"std_position"`

	MeanRaceTime float64 `csv:"mean_race_time"`
	RaceTimeP10  float64 `csv:"race_time_p10"`
	RaceTimeP50  float64 `csv:"race_time_p50"`
	RaceTimeP90  float64 `csv:"race_time_p90"`

	MeanReward       float64 `csv:"mean_reward"`
	MeanCoins        float64 `csv:"mean_coins"`
	MeanEliminations float64 `csv:"mean_eliminations"`
	MeanStars        float64 `csv:"mean_stars"`
}

// Quantiles returns the 10th, 50th and 90th percentiles of values.
// Returns zeros for an empty slice.
func Quantiles(values []float64) (p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return p10, p50, p90
}

// ComputeBatchStats aggregates race records.
func ComputeBatchStats(records []RaceRecord) BatchStats {
	n := len(records)
	if n == 0 {
		return BatchStats{}
	}

	positions := make([]float64, n)
	times := make([]float64, n)
	rewards := make([]float64, n)
	coins := make([]float64, n)
	elims := make([]float64, n)
	stars := make([]float64, n)

	wins := 0
	for i, r := range records {
		if r.Won {
			wins++
		}
		positions[i] = float64(r.Position)
		times[i] = r.RaceTime
		rewards[i] = float64(r.Reward)
		coins[i] = float64(r.Coins)
		elims[i] = float64(r.Eliminations)
		stars[i] = float64(r.Stars)
	}

	meanPos, stdPos := stat.PopMeanStdDev(positions, nil)
	p10, p50, p90 := Quantiles(times)

	return BatchStats{
		Races:            n,
		Wins:             wins,
		WinRate:          float64(wins) / float64(n),
		MeanPosition:     meanPos,
		StdPosition:      stdPos,
		MeanRaceTime:     stat.Mean(times, nil),
		RaceTimeP10:      p10,
		RaceTimeP50:      p50,
		RaceTimeP90:      p90,
		MeanReward:       stat.Mean(rewards, nil),
		MeanCoins:        stat.Mean(coins, nil),
		MeanEliminations: stat.Mean(elims, nil),
		MeanStars:        stat.Mean(stars, nil),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s BatchStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("races", s.Races),
		slog.Int("wins", s.Wins),
		slog.Float64("win_rate", s.WinRate),
		slog.Float64("mean_position", s.MeanPosition),
		slog.Float64("std_position", s.StdPosition),
		slog.Float64("mean_race_time", s.MeanRaceTime),
		slog.Float64("race_time_p10", s.RaceTimeP10),
		slog.Float64("race_time_p50", s.RaceTimeP50),
		slog.Float64("race_time_p90", s.RaceTimeP90),
		slog.Float64("mean_reward", s.MeanReward),
		slog.Float64("mean_coins", s.MeanCoins),
		slog.Float64("mean_eliminations", s.MeanEliminations),
		slog.Float64("mean_stars", s.MeanStars),
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (r RaceRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("session", r.SessionID),
		slog.Int("level", r.LevelID),
		slog.Int64("seed", r.Seed),
		slog.Int("position", r.Position),
		slog.Bool("won", r.Won),
		slog.Int("stars", r.Stars),
		slog.Int("reward", r.Reward),
		slog.Int("coins", r.Coins),
		slog.Int("eliminations", r.Eliminations),
		slog.Int("obstacle_hits", r.ObstacleHits),
		slog.Int("lead_changes", r.LeadChanges),
		slog.Float64("race_time", r.RaceTime),
	)
}
