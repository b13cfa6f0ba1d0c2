package race

import (
	"fmt"
	"math"

	"github.com/pthm-cable/aquapark/config"
)

// Reward returns the currency earned for a race: pickups and eliminations
// multiplied by a bonus for the finishing position.
func Reward(coins, eliminations, position, racers int, cfg config.RaceConfig) int {
	base := coins*cfg.CoinValue + eliminations*cfg.EliminationBonus
	return base * max(1, racers+1-position)
}

// Stars returns the star rating for a finishing position.
func Stars(position int) int {
	switch position {
	case 1:
		return 3
	case 2:
		return 2
	case 3:
		return 1
	}
	return 0
}

// PositionText formats a position as an ordinal, e.g. "2nd".
func PositionText(position int) string {
	switch position {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	}
	return fmt.Sprintf("%dth", position)
}

// FormatTime formats race seconds as m:ss.
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	mins := int(seconds / 60)
	secs := int(math.Mod(seconds, 60))
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// Title returns the results headline for a finishing position.
func Title(position int) string {
	switch {
	case position == 1:
		return "VICTORY!"
	case position == 2:
		return "GREAT RACE!"
	}
	return "RACE COMPLETE"
}
