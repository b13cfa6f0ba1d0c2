package systems

import (
	"testing"
)

func TestRank(t *testing.T) {
	tests := []struct {
		name    string
		entries []RankEntry
		want    map[int]int // racer index -> position
	}{
		{
			name: "finished before racing",
			entries: []RankEntry{
				{Index: 0, Distance: 50},
				{Index: 1, Finished: true, FinishTime: 40},
				{Index: 2, Finished: true, FinishTime: 38},
				{Index: 3, Distance: 60},
			},
			want: map[int]int{2: 1, 1: 2, 3: 3, 0: 4},
		},
		{
			name: "ties broken by index",
			entries: []RankEntry{
				{Index: 3, Distance: 10},
				{Index: 1, Distance: 10},
				{Index: 2, Finished: true, FinishTime: 5},
				{Index: 0, Finished: true, FinishTime: 5},
			},
			want: map[int]int{0: 1, 2: 2, 1: 3, 3: 4},
		},
		{
			name:    "single racer",
			entries: []RankEntry{{Index: 0, Distance: 3}},
			want:    map[int]int{0: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Rank(tt.entries)
			seen := make(map[int]bool)
			for _, e := range tt.entries {
				if e.Position != tt.want[e.Index] {
					t.Errorf("racer %d position = %d, want %d", e.Index, e.Position, tt.want[e.Index])
				}
				if seen[e.Position] {
					t.Errorf("position %d assigned twice", e.Position)
				}
				seen[e.Position] = true
			}
		})
	}
}

func TestRankingSystem_EliminatedKeepLastPosition(t *testing.T) {
	r := newTestRace(flatTrack(60))
	a := r.addPlayer(0, 10, 0, 0.5)
	b := r.addBot(1, 20, 0, 0.5)
	c := r.addBot(2, 30, 0, 0.5)

	sys := NewRankingSystem(r.world)
	sys.Update()

	if p := r.statMap.Get(c).Position; p != 1 {
		t.Fatalf("leader position = %d, want 1", p)
	}

	r.statMap.Get(c).Alive = false
	sys.Update()

	if p := r.statMap.Get(b).Position; p != 1 {
		t.Errorf("racer b position = %d, want 1", p)
	}
	if p := r.statMap.Get(a).Position; p != 2 {
		t.Errorf("racer a position = %d, want 2", p)
	}
	// Eliminated racer is excluded and keeps its old position
	if p := r.statMap.Get(c).Position; p != 1 {
		t.Errorf("eliminated position = %d, want 1", p)
	}
}

func TestRankingSystem_FinishedEliminatedStillRanked(t *testing.T) {
	r := newTestRace(flatTrack(60))
	a := r.addPlayer(0, 10, 0, 0.5)
	b := r.addBot(1, 58, 0, 0.5)

	st := r.statMap.Get(b)
	st.Finished = true
	st.FinishTime = 20
	st.Alive = false

	NewRankingSystem(r.world).Update()

	if p := r.statMap.Get(b).Position; p != 1 {
		t.Errorf("finished racer position = %d, want 1", p)
	}
	if p := r.statMap.Get(a).Position; p != 2 {
		t.Errorf("racing player position = %d, want 2", p)
	}
}
