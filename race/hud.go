package race

import "github.com/pthm-cable/aquapark/components"

// HUD holds the values shown on the heads-up display.
type HUD struct {
	State     State
	Countdown int // Number shown during the countdown, 0 afterwards

	Position     int
	Racers       int
	PositionText string
	Time         string  // m:ss
	Progress     float64 // [0, 1]
	Coins        int
	Eliminations int

	PowerUp          components.PowerUpKind
	PowerUpRemaining float64
}

// HUD returns the current heads-up display values for the player.
func (s *Session) HUD() HUD {
	player := s.Player()
	return HUD{
		State:            s.state,
		Countdown:        s.countdown,
		Position:         player.Position,
		Racers:           len(s.entities),
		PositionText:     PositionText(player.Position),
		Time:             FormatTime(s.raceTime),
		Progress:         s.ProgressFraction(),
		Coins:            s.tally.Coins,
		Eliminations:     s.tally.Eliminations,
		PowerUp:          player.PowerUp.Kind,
		PowerUpRemaining: player.PowerUp.Remaining,
	}
}
