package viewer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aquapark/progress"
)

const (
	levelColumns = 5
	levelCardW   = 120
	levelCardH   = 70
	levelCardGap = 12
)

// drawLevelSelect renders the level grid. It returns the id of the level
// clicked this frame, or 0.
func drawLevelSelect(levels []progress.LevelStatus, totalStars int, theme Theme, screenW, screenH int32) int {
	rows := int32((len(levels) + levelColumns - 1) / levelColumns)
	gridW := int32(levelColumns*levelCardW + (levelColumns-1)*levelCardGap)
	gridH := rows*levelCardH + (rows-1)*levelCardGap
	header := theme.TitleSize + theme.LineHeight + theme.Padding*2

	panelW := gridW + theme.Padding*4
	panelH := gridH + header + theme.Padding*4
	px := (screenW - panelW) / 2
	py := (screenH - panelH) / 2
	drawPanel(px, py, panelW, panelH, theme)

	cx := screenW / 2
	drawCentered("Select Level", cx, py+theme.Padding*2, theme.TitleSize, theme.Accent)
	drawCentered(fmt.Sprintf("Stars: %d / %d", totalStars, len(levels)*3), cx,
		py+theme.Padding*2+theme.TitleSize+theme.Padding/2, theme.FontSize, theme.LabelColor)

	gx := px + theme.Padding*2
	gy := py + header + theme.Padding*2
	picked := 0
	for i, l := range levels {
		x := gx + int32(i%levelColumns)*(levelCardW+levelCardGap)
		y := gy + int32(i/levelColumns)*(levelCardH+levelCardGap)

		if !l.Unlocked {
			rl.DrawRectangle(x, y, levelCardW, levelCardH, theme.BarBg)
			rl.DrawRectangleLines(x, y, levelCardW, levelCardH, theme.PanelBorder)
			drawCentered(fmt.Sprintf("%d locked", l.ID), x+levelCardW/2, y+levelCardH/2-theme.FontSize/2,
				theme.FontSize, theme.LabelColor)
			continue
		}
		rect := rl.Rectangle{X: float32(x), Y: float32(y), Width: levelCardW, Height: levelCardH}
		if gui.Button(rect, fmt.Sprintf("%d  %s", l.ID, starText(l.Stars))) {
			picked = l.ID
		}
	}
	return picked
}
