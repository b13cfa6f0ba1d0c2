package systems

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/aquapark/components"
)

// RankEntry is one racer's standing input.
type RankEntry struct {
	Index      int
	Finished   bool
	FinishTime float64
	Distance   float64 // Segment + progress
	Position   int     // Output
}

// Rank orders entries in place and assigns 1-based positions: finished
// racers first by finish time, then the rest by distance travelled.
// Ties are broken by racer index.
func Rank(entries []RankEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := &entries[i], &entries[j]
		if a.Finished != b.Finished {
			return a.Finished
		}
		if a.Finished && a.FinishTime != b.FinishTime {
			return a.FinishTime < b.FinishTime
		}
		if !a.Finished && a.Distance != b.Distance {
			return a.Distance > b.Distance
		}
		return a.Index < b.Index
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
}

// RankingSystem assigns race positions. Eliminated racers that never
// finished keep their last position.
type RankingSystem struct {
	filter  ecs.Filter3[components.Racer, components.Kinematics, components.Status]
	entries []RankEntry
	status  map[int]*components.Status
}

// NewRankingSystem creates a new ranking system.
func NewRankingSystem(w *ecs.World) *RankingSystem {
	return &RankingSystem{
		filter: *ecs.NewFilter3[components.Racer, components.Kinematics, components.Status](w),
		status: make(map[int]*components.Status),
	}
}

// Update runs the ranking system.
func (s *RankingSystem) Update() {
	s.entries = s.entries[:0]
	clear(s.status)

	query := s.filter.Query()
	for query.Next() {
		racer, kin, status := query.Get()
		if !status.Ranked() {
			continue
		}
		s.entries = append(s.entries, RankEntry{
			Index:      racer.Index,
			Finished:   status.Finished,
			FinishTime: status.FinishTime,
			Distance:   kin.Distance(),
		})
		s.status[racer.Index] = status
	}

	Rank(s.entries)
	for _, e := range s.entries {
		s.status[e.Index].Position = e.Position
	}
}
