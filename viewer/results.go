package viewer

import (
	"fmt"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aquapark/race"
)

// Action is a choice made on the results panel.
type Action uint8

const (
	ActionNone Action = iota
	ActionRetry
	ActionNext
	ActionLevels
)

const (
	resultsWidth  = 420
	resultsHeight = 340
	buttonWidth   = 120
	buttonHeight  = 40
	buttonGap     = 10
)

// resultsButton is one button on the results panel.
type resultsButton struct {
	label  string
	action Action
}

// drawResults renders the results panel and returns the button pressed this
// frame. best is the best star rating on the level so far; nextUnlocked
// reports whether the following level may be started.
func drawResults(res race.Result, best int, nextUnlocked bool, theme Theme, screenW, screenH int32) Action {
	x := (screenW - resultsWidth) / 2
	y := (screenH - resultsHeight) / 2
	cx := screenW / 2
	drawPanel(x, y, resultsWidth, resultsHeight, theme)

	line := y + theme.Padding*2
	drawCentered(race.Title(res.Position), cx, line, theme.TitleSize, theme.Accent)
	line += theme.TitleSize + theme.Padding

	drawCentered(starText(res.Stars), cx, line, theme.TitleSize, theme.Accent)
	line += theme.TitleSize + theme.Padding

	for _, text := range []string{
		fmt.Sprintf("Position: %s of %d", race.PositionText(res.Position), res.Racers),
		fmt.Sprintf("Time: %s", race.FormatTime(res.RaceTime)),
		fmt.Sprintf("Coins: %d   Knockouts: %d", res.Coins, res.Eliminations),
		fmt.Sprintf("Reward: +%d", res.Reward),
		fmt.Sprintf("Best: %s", starText(best)),
	} {
		drawCentered(text, cx, line, theme.FontSize, theme.ValueColor)
		line += theme.LineHeight
	}

	buttons := []resultsButton{{"Retry", ActionRetry}, {"Levels", ActionLevels}}
	if res.NextLevelAvailable() && nextUnlocked {
		buttons = append(buttons, resultsButton{"Next Level", ActionNext})
	}

	n := float32(len(buttons))
	rowW := n*buttonWidth + (n-1)*buttonGap
	bx := float32(cx) - rowW/2
	by := float32(y + resultsHeight - buttonHeight - theme.Padding*2)
	for _, b := range buttons {
		if gui.Button(rl.Rectangle{X: bx, Y: by, Width: buttonWidth, Height: buttonHeight}, b.label) {
			return b.action
		}
		bx += buttonWidth + buttonGap
	}
	return ActionNone
}

// starText renders a 0-3 star rating.
func starText(stars int) string {
	stars = min(max(stars, 0), 3)
	return strings.Repeat("*", stars) + strings.Repeat("-", 3-stars)
}
