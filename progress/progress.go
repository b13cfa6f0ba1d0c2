// Package progress accumulates player progress across races.
package progress

import (
	"maps"

	"github.com/pthm-cable/aquapark/level"
	"github.com/pthm-cable/aquapark/race"
)

// Progress is the player's accumulated state.
type Progress struct {
	Coins        int         `yaml:"coins"`
	Wins         int         `yaml:"wins"`
	TotalRaces   int         `yaml:"total_races"`
	HighestLevel int         `yaml:"highest_level"` // Highest unlocked level id
	LevelStars   map[int]int `yaml:"level_stars"`   // Best stars per level id
}

// New returns the progress of a fresh player: level 1 unlocked, nothing earned.
func New() Progress {
	return Progress{
		HighestLevel: 1,
		LevelStars:   make(map[int]int),
	}
}

// Apply folds a race result into the progress.
func (p *Progress) Apply(res race.Result) {
	if p.LevelStars == nil {
		p.LevelStars = make(map[int]int)
	}
	p.HighestLevel = max(p.HighestLevel, 1)

	p.Coins += res.Reward
	p.TotalRaces++
	if res.Won {
		p.Wins++
	}
	if res.Stars > p.LevelStars[res.LevelID] {
		p.LevelStars[res.LevelID] = res.Stars
	}
	if res.Position <= 2 && res.LevelID >= p.HighestLevel {
		p.HighestLevel = min(res.LevelID+1, level.Count)
	}
}

// Unlocked reports whether level id can be played.
func (p Progress) Unlocked(id int) bool {
	return id >= 1 && id <= max(p.HighestLevel, 1)
}

// Stars returns the best star rating earned on level id.
func (p Progress) Stars(id int) int {
	return p.LevelStars[id]
}

// TotalStars returns the sum of best stars over all levels.
func (p Progress) TotalStars() int {
	total := 0
	for _, s := range p.LevelStars {
		total += s
	}
	return total
}

// Clone returns a deep copy.
func (p Progress) Clone() Progress {
	c := p
	c.LevelStars = maps.Clone(p.LevelStars)
	if c.LevelStars == nil {
		c.LevelStars = make(map[int]int)
	}
	return c
}
