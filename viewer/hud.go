package viewer

import (
	"fmt"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aquapark/components"
	"github.com/pthm-cable/aquapark/race"
)

// drawPanel draws a panel background with border.
func drawPanel(x, y, width, height int32, theme Theme) {
	rl.DrawRectangle(x, y, width, height, theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, theme.PanelBorder)
}

// drawCentered draws text horizontally centered on cx.
func drawCentered(text string, cx, y, size int32, color rl.Color) {
	w := rl.MeasureText(text, size)
	rl.DrawText(text, cx-w/2, y, size, color)
}

// drawHUD renders the in-race display.
func drawHUD(hud race.HUD, theme Theme, screenW, screenH int32) {
	pad := theme.Padding

	// Position and time, top left
	drawPanel(pad, pad, 220, 90, theme)
	rl.DrawText(fmt.Sprintf("%s / %d", hud.PositionText, hud.Racers), pad*2, pad*2, theme.TitleSize, theme.Accent)
	rl.DrawText(hud.Time, pad*2, pad*2+theme.TitleSize+4, theme.FontSize, theme.ValueColor)

	// Coins and knockouts, top right
	stats := fmt.Sprintf("Coins %d  KOs %d", hud.Coins, hud.Eliminations)
	w := rl.MeasureText(stats, theme.FontSize)
	drawPanel(screenW-w-pad*3, pad, w+pad*2, theme.LineHeight+pad, theme)
	rl.DrawText(stats, screenW-w-pad*2, pad+pad/2, theme.FontSize, theme.ValueColor)

	// Progress bar along the bottom
	barW := screenW / 2
	barX := (screenW - barW) / 2
	barY := screenH - pad*5
	rl.DrawRectangle(barX, barY, barW, 12, theme.BarBg)
	rl.DrawRectangle(barX, barY, int32(float64(barW)*hud.Progress), 12, theme.BarFill)
	rl.DrawRectangleLines(barX, barY, barW, 12, theme.PanelBorder)

	if hud.PowerUp != components.PowerUpNone {
		label := fmt.Sprintf("%s %.1fs", hud.PowerUp, hud.PowerUpRemaining)
		drawCentered(label, screenW/2, barY-theme.LineHeight-pad, theme.FontSize, theme.PowerUpColor(hud.PowerUp))
	}

	switch hud.State {
	case race.StateCountdown:
		drawCentered(strconv.Itoa(hud.Countdown), screenW/2, screenH/2-theme.BigSize/2, theme.BigSize, theme.Accent)
	case race.StateFinished:
		drawCentered("FINISH!", screenW/2, screenH/3, theme.TitleSize*2, theme.Accent)
	}
}
