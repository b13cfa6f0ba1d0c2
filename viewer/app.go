package viewer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aquapark/camera"
	"github.com/pthm-cable/aquapark/config"
	"github.com/pthm-cable/aquapark/level"
	"github.com/pthm-cable/aquapark/progress"
	"github.com/pthm-cable/aquapark/race"
)

// Options configures the interactive viewer.
type Options struct {
	Level     int
	Seed      int64
	Results   race.ResultSink   // Optional, e.g. a progress tracker
	Progress  *progress.Tracker // Gates levels; nil unlocks every level
	Autopilot bool              // Start with the autopilot steering
}

// App is the interactive race window.
type App struct {
	cfg     *config.Config
	theme   Theme
	cam     *camera.Chase
	effects *Effects
	results race.ResultSink
	tracker *progress.Tracker

	levelID   int
	seed      int64
	selecting bool

	driver    *race.Driver
	keyboard  Keyboard
	autopilot race.SteeringSource
	auto      bool
}

// New creates a viewer. Call Run to open the window.
func New(cfg *config.Config, opts Options) *App {
	theme := DefaultTheme()
	return &App{
		cfg:     cfg,
		theme:   theme,
		cam:     camera.NewChase(),
		effects: NewEffects(race.PlayerIndex, theme),
		results: opts.Results,
		tracker: opts.Progress,
		levelID: opts.Level,
		seed:    opts.Seed,
		auto:    opts.Autopilot,
	}
}

// start begins a new attempt of level id.
func (a *App) start(id int) error {
	if err := a.progress().CheckLevel(id); err != nil {
		return err
	}
	def, _ := level.ByID(id)
	a.levelID = id
	a.selecting = false

	session := race.NewSession(def, a.seed, a.cfg)
	a.driver = race.NewDriver(session, race.SystemClock{}, a.cfg)
	if a.results != nil {
		a.driver.SetResultSink(a.results)
	}
	a.driver.SetEffects(a.effects)
	a.autopilot = session.Autopilot(a.cfg.AI.AutopilotSkill)

	a.cam.Reset()
	a.effects.Reset()

	slog.Info("race started",
		"session", session.ID.String(),
		"level", id,
		"seed", a.seed,
		"segments", session.Track().Len(),
	)
	return nil
}

// Run opens the window and plays until it is closed.
func (a *App) Run() error {
	screen := a.cfg.Screen
	rl.InitWindow(int32(screen.Width), int32(screen.Height), "Aqua Park")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(screen.TargetFPS))

	if err := a.start(a.levelID); err != nil {
		return err
	}

	for !rl.WindowShouldClose() {
		a.handleKeys()

		session := a.driver.Session()
		if !a.selecting {
			var steering race.SteeringSource = a.keyboard
			if a.auto {
				steering = a.autopilot
			}
			a.driver.Frame(steering.Steer())
			a.effects.Update(float64(rl.GetFrameTime()))

			player := session.Player()
			a.cam.Follow(player.Pos, player.Dir)
		}

		action, picked := a.draw(session)

		switch {
		case picked != 0:
			a.seed++
			if err := a.start(picked); err != nil {
				return err
			}
		case action == ActionRetry:
			a.seed++
			if err := a.start(a.levelID); err != nil {
				return err
			}
		case action == ActionNext:
			a.seed++
			if err := a.start(a.levelID + 1); err != nil {
				return err
			}
		case action == ActionLevels:
			a.selecting = true
		}
	}
	return nil
}

// progress returns the current unlock state.
func (a *App) progress() progress.Progress {
	if a.tracker == nil {
		return progress.Unrestricted()
	}
	return a.tracker.Progress()
}

func (a *App) handleKeys() {
	if rl.IsKeyPressed(rl.KeyTab) {
		a.auto = !a.auto
		slog.Info("autopilot toggled", "enabled", a.auto)
	}
	if rl.IsKeyPressed(rl.KeyL) {
		a.selecting = !a.selecting
	}
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
}

// draw renders a frame. It returns the results panel action and the level
// picked on the level select screen (0 when none).
func (a *App) draw(session *race.Session) (Action, int) {
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())

	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(a.theme.Sky)

	drawScene(session, a.cam, a.theme, a.cfg.Racer.Radius)
	a.effects.Draw(screenW, screenH)

	if a.selecting {
		p := a.progress()
		return ActionNone, drawLevelSelect(p.Levels(), p.TotalStars(), a.theme, screenW, screenH)
	}
	if res, ok := session.Result(); ok {
		p := a.progress()
		return drawResults(res, p.Stars(res.LevelID), p.Unlocked(res.LevelID+1), a.theme, screenW, screenH), 0
	}
	drawHUD(session.HUD(), a.theme, screenW, screenH)

	controls := "Left/Right or A/D: steer | Tab: autopilot | L: levels | F11: fullscreen"
	if a.auto {
		controls += " | AUTOPILOT"
	}
	rl.DrawText(controls, a.theme.Padding, screenH-a.theme.LineHeight, 14, a.theme.LabelColor)
	return ActionNone, 0
}
