// Package viewer renders a race with raylib and reads keyboard steering.
package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aquapark/components"
)

// Theme defines colors and sizes for the viewer.
type Theme struct {
	Sky         rl.Color
	Slide       rl.Color
	SlideAlt    rl.Color
	SlideEdge   rl.Color
	Coin        rl.Color
	Obstacle    rl.Color
	ObstacleHit rl.Color
	Ramp        rl.Color
	Racers      []rl.Color
	Shield      rl.Color

	PanelBg     rl.Color
	PanelBorder rl.Color
	LabelColor  rl.Color
	ValueColor  rl.Color
	Accent      rl.Color
	BarBg       rl.Color
	BarFill     rl.Color

	Padding    int32
	LineHeight int32
	FontSize   int32
	TitleSize  int32
	BigSize    int32
}

// DefaultTheme returns the default viewer theme.
func DefaultTheme() Theme {
	return Theme{
		Sky:         rl.Color{R: 135, G: 206, B: 235, A: 255},
		Slide:       rl.Color{R: 40, G: 150, B: 230, A: 255},
		SlideAlt:    rl.Color{R: 60, G: 170, B: 240, A: 255},
		SlideEdge:   rl.White,
		Coin:        rl.Gold,
		Obstacle:    rl.Red,
		ObstacleHit: rl.Color{R: 120, G: 40, B: 40, A: 255},
		Ramp:        rl.Orange,
		Racers: []rl.Color{
			rl.Color{R: 255, G: 90, B: 90, A: 255},
			rl.Color{R: 90, G: 220, B: 120, A: 255},
			rl.Color{R: 250, G: 200, B: 60, A: 255},
			rl.Color{R: 180, G: 110, B: 240, A: 255},
		},
		Shield: rl.Color{R: 120, G: 220, B: 255, A: 120},

		PanelBg:     rl.Color{R: 20, G: 25, B: 30, A: 230},
		PanelBorder: rl.Color{R: 60, G: 70, B: 80, A: 255},
		LabelColor:  rl.LightGray,
		ValueColor:  rl.White,
		Accent:      rl.Yellow,
		BarBg:       rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:     rl.Color{R: 100, G: 200, B: 100, A: 255},

		Padding:    10,
		LineHeight: 24,
		FontSize:   20,
		TitleSize:  40,
		BigSize:    120,
	}
}

// RacerColor returns the body color of the racer at grid slot index.
func (t Theme) RacerColor(index int) rl.Color {
	if len(t.Racers) == 0 {
		return rl.White
	}
	return t.Racers[index%len(t.Racers)]
}

// PowerUpColor returns the pickup color of a power-up kind.
func (t Theme) PowerUpColor(kind components.PowerUpKind) rl.Color {
	switch kind {
	case components.PowerUpSpeed:
		return rl.Lime
	case components.PowerUpShield:
		return rl.SkyBlue
	case components.PowerUpMagnet:
		return rl.Magenta
	case components.PowerUpGiant:
		return rl.Purple
	}
	return rl.Gray
}
