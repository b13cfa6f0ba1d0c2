// Package camera provides the chase camera that follows the player down the slide.
package camera

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Default chase parameters.
const (
	DefaultBack      = 6.0
	DefaultUp        = 5.0
	DefaultLookAhead = 3.0
	DefaultSmoothing = 0.08 // Fraction of the gap closed per frame
	DefaultFOV       = 60.0
)

// Chase follows a target from behind and above. The eye eases toward its
// desired spot while the look-at point tracks the target directly.
type Chase struct {
	// Eye is the camera position in world coordinates
	Eye r3.Vec
	// Target is the point the camera looks at
	Target r3.Vec

	Back      float64 // Distance behind the target along its heading
	Up        float64 // Height above the target
	LookAhead float64 // Look-at distance ahead of the target
	Smoothing float64 // Lerp factor in (0, 1]
	FOV       float64 // Vertical field of view in degrees

	placed bool
}

// NewChase creates a chase camera with the default offsets.
func NewChase() *Chase {
	return &Chase{
		Back:      DefaultBack,
		Up:        DefaultUp,
		LookAhead: DefaultLookAhead,
		Smoothing: DefaultSmoothing,
		FOV:       DefaultFOV,
	}
}

// Desired returns the eye and look-at points for a target at pos heading along dir.
func (c *Chase) Desired(pos, dir r3.Vec) (eye, target r3.Vec) {
	heading := horizontal(dir)
	eye = r3.Add(pos, r3.Scale(-c.Back, heading))
	eye.Y += c.Up
	target = r3.Add(pos, r3.Scale(c.LookAhead, heading))
	return eye, target
}

// Follow moves the camera one frame toward the target. The first call
// places the camera without easing.
func (c *Chase) Follow(pos, dir r3.Vec) {
	eye, target := c.Desired(pos, dir)
	if !c.placed {
		c.Eye = eye
		c.placed = true
	} else {
		c.Eye = lerp(c.Eye, eye, clamp(c.Smoothing, 0, 1))
	}
	c.Target = target
}

// Snap places the camera at its desired spot immediately.
func (c *Chase) Snap(pos, dir r3.Vec) {
	c.Eye, c.Target = c.Desired(pos, dir)
	c.placed = true
}

// Reset makes the next Follow place the camera without easing.
func (c *Chase) Reset() {
	c.placed = false
}

// Forward returns the unit viewing direction.
func (c *Chase) Forward() r3.Vec {
	d := r3.Sub(c.Target, c.Eye)
	n := r3.Norm(d)
	if n == 0 {
		return r3.Vec{Z: -1}
	}
	return r3.Scale(1/n, d)
}

// IsVisible returns true if a sphere at p with the given radius could be on
// screen: in front of the camera and within maxDist (conservative check for culling).
func (c *Chase) IsVisible(p r3.Vec, radius, maxDist float64) bool {
	rel := r3.Sub(p, c.Eye)
	if r3.Norm(rel) > maxDist+radius {
		return false
	}
	return r3.Dot(rel, c.Forward()) > -radius
}

// horizontal returns the unit projection of dir onto the ground plane.
func horizontal(dir r3.Vec) r3.Vec {
	dir.Y = 0
	n := r3.Norm(dir)
	if n == 0 {
		return r3.Vec{Z: -1}
	}
	return r3.Scale(1/n, dir)
}

func lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
