// Package level provides the level table that parameterises track generation.
package level

import "fmt"

// Count is the number of levels in the table.
const Count = 20

// Definition describes one level. Values are immutable and derived from the level id.
type Definition struct {
	ID           int     `yaml:"id" csv:"level"`
	Name         string  `yaml:"name" csv:"-"`
	Segments     int     `yaml:"segments" csv:"segments"`
	Curves       int     `yaml:"curves" csv:"curves"`
	Obstacles    int     `yaml:"obstacles" csv:"obstacles"`
	Coins        int     `yaml:"coins" csv:"coins"`
	Powerups     int     `yaml:"powerups" csv:"powerups"`
	Ramps        int     `yaml:"ramps" csv:"ramps"`
	AIDifficulty float64 `yaml:"ai_difficulty" csv:"ai_difficulty"`
}

// Curve parameterises how AI difficulty scales with the level id.
// The table default is Base 0.3, Slope 0.035, Cap 0.95.
type Curve struct {
	Base  float64
	Slope float64
	Cap   float64
}

// DefaultCurve is the difficulty curve used by ByID.
var DefaultCurve = Curve{Base: 0.3, Slope: 0.035, Cap: 0.95}

// Difficulty returns the AI difficulty for a level id, clamped to [0, Cap].
func (c Curve) Difficulty(id int) float64 {
	d := c.Base + float64(id)*c.Slope
	if d > c.Cap {
		d = c.Cap
	}
	if d < 0 {
		d = 0
	}
	if d > 1 {
		d = 1
	}
	return d
}

// ByID returns the definition for a 1-based level id.
func ByID(id int) (Definition, bool) {
	return ByIDWithCurve(id, DefaultCurve)
}

// ByIDWithCurve is ByID with a custom difficulty curve.
func ByIDWithCurve(id int, curve Curve) (Definition, bool) {
	if id < 1 || id > Count {
		return Definition{}, false
	}
	return Definition{
		ID:           id,
		Name:         fmt.Sprintf("Level %d", id),
		Segments:     80 + id*15,
		Curves:       min(3+id/2, 12),
		Obstacles:    min(id/2, 8),
		Coins:        10 + id*2,
		Powerups:     min(2+id/3, 6),
		Ramps:        min(id/3, 5),
		AIDifficulty: curve.Difficulty(id),
	}, true
}

// All returns every level in order.
func All() []Definition {
	defs := make([]Definition, 0, Count)
	for id := 1; id <= Count; id++ {
		def, _ := ByID(id)
		defs = append(defs, def)
	}
	return defs
}
