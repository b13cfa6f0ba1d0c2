package progress

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/aquapark/level"
)

// ErrLocked is returned when a level beyond the highest unlocked one is requested.
var ErrLocked = errors.New("level locked")

// LevelStatus is one entry of the level select screen.
type LevelStatus struct {
	ID       int
	Name     string
	Unlocked bool
	Stars    int
}

// Unrestricted returns progress with every level unlocked, for play without a
// progress file.
func Unrestricted() Progress {
	p := New()
	p.HighestLevel = level.Count
	return p
}

// CheckLevel returns an error unless level id exists and is unlocked.
func (p Progress) CheckLevel(id int) error {
	if _, ok := level.ByID(id); !ok {
		return fmt.Errorf("unknown level %d", id)
	}
	if !p.Unlocked(id) {
		return fmt.Errorf("level %d (highest unlocked %d): %w", id, p.HighestLevel, ErrLocked)
	}
	return nil
}

// Levels lists every level with its lock state and best stars.
func (p Progress) Levels() []LevelStatus {
	defs := level.All()
	out := make([]LevelStatus, len(defs))
	for i, def := range defs {
		out[i] = LevelStatus{
			ID:       def.ID,
			Name:     def.Name,
			Unlocked: p.Unlocked(def.ID),
			Stars:    p.Stars(def.ID),
		}
	}
	return out
}
