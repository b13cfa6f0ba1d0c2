package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aquapark/race"
)

// Keyboard reads steering from the arrow keys or A/D.
type Keyboard struct{}

var _ race.SteeringSource = Keyboard{}

// Steer returns -1 for left, +1 for right and 0 when both or neither are held.
func (Keyboard) Steer() float64 {
	var steer float64
	if rl.IsKeyDown(rl.KeyLeft) || rl.IsKeyDown(rl.KeyA) {
		steer--
	}
	if rl.IsKeyDown(rl.KeyRight) || rl.IsKeyDown(rl.KeyD) {
		steer++
	}
	return steer
}
