package systems

import (
	"github.com/pthm-cable/aquapark/components"
	"github.com/pthm-cable/aquapark/config"
)

// clamp limits v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sign returns -1, 0 or 1.
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// LateralLimit returns the largest allowed |lateral| for a racer.
func LateralLimit(pu *components.PowerUp, cfg *config.Config) float64 {
	if pu.Giant() {
		return cfg.Derived.GiantLimit
	}
	return cfg.Derived.LateralLimit
}

// Radius returns the collision radius of a racer.
func Radius(pu *components.PowerUp, cfg *config.Config) float64 {
	if pu.Giant() {
		return cfg.Racer.Radius * cfg.Racer.GiantRadiusScale
	}
	return cfg.Racer.Radius
}

// clampLateral keeps a racer inside the slide.
func clampLateral(k *components.Kinematics, pu *components.PowerUp, cfg *config.Config) {
	limit := LateralLimit(pu, cfg)
	k.Lateral = clamp(k.Lateral, -limit, limit)
}

// clampSpeed keeps a racer's speed between the floor and the (boosted) cap.
func clampSpeed(k *components.Kinematics, pu *components.PowerUp, cfg *config.Config) {
	maxSpeed := cfg.Physics.MaxSpeed
	if pu.Boosted() {
		maxSpeed = cfg.Derived.BoostedMax
	}
	k.Speed = clamp(k.Speed, cfg.Derived.MinSpeed, maxSpeed)
}
