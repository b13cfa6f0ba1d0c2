package components

import "fmt"

// PowerUpKind enumerates power-up variants.
type PowerUpKind uint8

const (
	PowerUpNone PowerUpKind = iota
	PowerUpSpeed
	PowerUpShield
	PowerUpMagnet
	PowerUpGiant
)

// PowerUpKinds lists the kinds a pickup can carry, in table order.
var PowerUpKinds = [...]PowerUpKind{PowerUpSpeed, PowerUpShield, PowerUpMagnet, PowerUpGiant}

// String returns the power-up name.
func (k PowerUpKind) String() string {
	switch k {
	case PowerUpNone:
		return "none"
	case PowerUpSpeed:
		return "speed"
	case PowerUpShield:
		return "shield"
	case PowerUpMagnet:
		return "magnet"
	case PowerUpGiant:
		return "giant"
	}
	return fmt.Sprintf("powerup(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k PowerUpKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *PowerUpKind) UnmarshalText(text []byte) error {
	name := string(text)
	for kind := PowerUpNone; kind <= PowerUpGiant; kind++ {
		if kind.String() == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown powerup %q", name)
}

// PowerUp is the active power-up of a racer: none, or exactly one kind with
// its remaining time. Holding a single variant makes combinations such as
// shielded-and-giant unrepresentable.
type PowerUp struct {
	Kind      PowerUpKind
	Remaining float64 // Seconds, > 0 while Kind != PowerUpNone
}

// Activate replaces any current power-up.
func (p *PowerUp) Activate(kind PowerUpKind, duration float64) {
	if kind == PowerUpNone || duration <= 0 {
		p.Clear()
		return
	}
	p.Kind = kind
	p.Remaining = duration
}

// Clear removes the active power-up.
func (p *PowerUp) Clear() {
	p.Kind = PowerUpNone
	p.Remaining = 0
}

// Tick advances the timer by dt and reports whether the power-up expired.
func (p *PowerUp) Tick(dt float64) bool {
	if p.Kind == PowerUpNone {
		return false
	}
	p.Remaining -= dt
	if p.Remaining <= 0 {
		p.Clear()
		return true
	}
	return false
}

// Active reports whether any power-up is running.
func (p *PowerUp) Active() bool { return p.Kind != PowerUpNone }

// Boosted reports whether the speed boost is running.
func (p *PowerUp) Boosted() bool { return p.Kind == PowerUpSpeed }

// Shielded reports whether the shield is running.
func (p *PowerUp) Shielded() bool { return p.Kind == PowerUpShield }

// Magnet reports whether the coin magnet is running.
func (p *PowerUp) Magnet() bool { return p.Kind == PowerUpMagnet }

// Giant reports whether the giant power-up is running.
func (p *PowerUp) Giant() bool { return p.Kind == PowerUpGiant }
