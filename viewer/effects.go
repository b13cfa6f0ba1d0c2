package viewer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aquapark/race"
	"github.com/pthm-cable/aquapark/telemetry"
)

const (
	popupLife  = 1.0 // Seconds a popup stays on screen
	maxPopups  = 8
	popupRise  = 60 // Pixels travelled over a popup's life
	flashDecay = 3.0
)

// popup is a short-lived text message.
type popup struct {
	text  string
	color rl.Color
	age   float64
}

// Effects turns race events into screen feedback. It implements race.EffectsSink.
type Effects struct {
	player int
	theme  Theme
	popups []popup
	flash  float64 // Screen flash intensity in [0, 1]
}

var _ race.EffectsSink = (*Effects)(nil)

// NewEffects creates the effects layer for the given player index.
func NewEffects(player int, theme Theme) *Effects {
	return &Effects{player: player, theme: theme}
}

// HandleEvents queues feedback for the player's events.
func (e *Effects) HandleEvents(events []telemetry.Event) {
	for _, ev := range events {
		switch ev.Type {
		case telemetry.EventCoinPickup:
			if ev.Racer == e.player {
				e.push("+coin", e.theme.Coin)
			}
		case telemetry.EventElimination:
			e.push("KNOCKOUT!", e.theme.Accent)
			e.flash = 0.6
		case telemetry.EventObstacleBump:
			if ev.Smashed {
				e.push("SMASH!", e.theme.Accent)
			} else {
				e.push("OUCH", e.theme.Obstacle)
				e.flash = 0.4
			}
		case telemetry.EventPowerupActivate:
			e.push(fmt.Sprintf("%s!", ev.PowerUp), e.theme.PowerUpColor(ev.PowerUp))
		case telemetry.EventRampLaunch:
			e.push("AIR!", e.theme.Ramp)
		case telemetry.EventRaceStart:
			e.push("GO!", e.theme.Accent)
		}
	}
}

func (e *Effects) push(text string, color rl.Color) {
	if len(e.popups) >= maxPopups {
		e.popups = e.popups[1:]
	}
	e.popups = append(e.popups, popup{text: text, color: color})
}

// Update ages popups by dt seconds.
func (e *Effects) Update(dt float64) {
	live := e.popups[:0]
	for _, p := range e.popups {
		p.age += dt
		if p.age < popupLife {
			live = append(live, p)
		}
	}
	e.popups = live
	e.flash = max(e.flash-dt*flashDecay, 0)
}

// Reset clears all pending feedback.
func (e *Effects) Reset() {
	e.popups = e.popups[:0]
	e.flash = 0
}

// Draw renders popups and the screen flash.
func (e *Effects) Draw(screenW, screenH int32) {
	if e.flash > 0 {
		rl.DrawRectangle(0, 0, screenW, screenH, rl.Fade(rl.White, float32(e.flash)))
	}
	for i, p := range e.popups {
		t := p.age / popupLife
		y := screenH/2 - int32(t*popupRise) - int32(i)*e.theme.LineHeight
		drawCentered(p.text, screenW/2, y, e.theme.TitleSize, rl.Fade(p.color, float32(1-t)))
	}
}
