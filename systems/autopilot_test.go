package systems

import (
	"testing"

	"github.com/pthm-cable/aquapark/components"
	"github.com/pthm-cable/aquapark/track"
)

func TestAutopilot_DodgesObstacle(t *testing.T) {
	tr := flatTrack(60)
	r := newTestRace(tr)
	tr.Obstacles = []track.Obstacle{{Anchor: anchorAt(tr, 14, 0.5)}}
	player := r.addPlayer(0, 10, 0.5, 0.5)

	ap := NewAutopilot(r.world, player, tr, r.cfg, 1)
	if s := ap.Steer(); s >= 0 {
		t.Errorf("steer = %v, want negative (away from obstacle)", s)
	}

	// A shield makes dodging unnecessary
	r.puMap.Get(player).Activate(components.PowerUpShield, 5)
	if s := ap.Steer(); s != 0 {
		t.Errorf("shielded steer = %v, want 0", s)
	}
}

func TestAutopilot_SeeksPickups(t *testing.T) {
	tr := flatTrack(60)
	r := newTestRace(tr)
	tr.Coins = []track.Coin{{Anchor: anchorAt(tr, 13, -1.5)}}
	tr.Powerups = []track.Powerup{{Anchor: anchorAt(tr, 16, 2.0), Kind: components.PowerUpSpeed}}
	player := r.addPlayer(0, 10, 0, 0.5)

	ap := NewAutopilot(r.world, player, tr, r.cfg, 1)
	if s := ap.Steer(); s != 1 {
		t.Errorf("steer = %v, want 1 toward the power-up", s)
	}

	tr.Powerups[0].Collected = true
	if s := ap.Steer(); s != -1 {
		t.Errorf("steer = %v, want -1 toward the coin", s)
	}

	tr.Coins[0].Collected = true
	if s := ap.Steer(); s != 0 {
		t.Errorf("steer = %v, want 0 with nothing ahead", s)
	}
}

func TestAutopilot_SkillLimitsHorizon(t *testing.T) {
	tr := flatTrack(60)
	r := newTestRace(tr)
	tr.Coins = []track.Coin{{Anchor: anchorAt(tr, 20, 2.0)}}
	player := r.addPlayer(0, 10, 0, 0.5)

	if s := NewAutopilot(r.world, player, tr, r.cfg, 0.2).Steer(); s != 0 {
		t.Errorf("low skill steer = %v, want 0", s)
	}
	if s := NewAutopilot(r.world, player, tr, r.cfg, 1).Steer(); s <= 0 {
		t.Errorf("full skill steer = %v, want positive", s)
	}
}
