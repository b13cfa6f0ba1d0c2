package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquapark/camera"
	"github.com/pthm-cable/aquapark/race"
	"github.com/pthm-cable/aquapark/track"
)

// drawDistance limits the world entities drawn around the camera.
const drawDistance = 160.0

const (
	coinSize     = 0.3
	powerupSize  = 0.45
	obstacleSize = 0.8
	rampLength   = 1.5
	rampHeight   = 0.25
)

func vec3(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

// camera3D converts the chase camera to a raylib camera.
func camera3D(c *camera.Chase) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(c.Eye),
		Target:     vec3(c.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       float32(c.FOV),
		Projection: rl.CameraPerspective,
	}
}

// drawScene draws the slide, its entities and the racers.
func drawScene(s *race.Session, cam *camera.Chase, theme Theme, racerRadius float64) {
	rl.BeginMode3D(camera3D(cam))
	tr := s.Track()
	drawSlide(tr, cam, theme)
	drawEntities(tr, cam, theme)
	drawRacers(s.Racers(), theme, racerRadius)
	rl.EndMode3D()
}

func drawSlide(tr *track.Track, cam *camera.Chase, theme Theme) {
	half := tr.Width / 2
	for i := 0; i < tr.Len()-1; i++ {
		if !cam.IsVisible(tr.Segments[i].Pos, tr.StepLength, drawDistance) {
			continue
		}
		l0 := vec3(tr.Sample(i, 0, -half).Pos)
		r0 := vec3(tr.Sample(i, 0, half).Pos)
		l1 := vec3(tr.Sample(i+1, 0, -half).Pos)
		r1 := vec3(tr.Sample(i+1, 0, half).Pos)

		color := theme.Slide
		if i%2 == 1 {
			color = theme.SlideAlt
		}
		// Both windings so the surface shows regardless of culling
		rl.DrawTriangle3D(l0, r0, r1, color)
		rl.DrawTriangle3D(l0, r1, l1, color)
		rl.DrawTriangle3D(l0, r1, r0, color)
		rl.DrawTriangle3D(l0, l1, r1, color)

		rl.DrawLine3D(l0, l1, theme.SlideEdge)
		rl.DrawLine3D(r0, r1, theme.SlideEdge)
	}
}

func drawEntities(tr *track.Track, cam *camera.Chase, theme Theme) {
	for i := range tr.Coins {
		c := &tr.Coins[i]
		if c.Collected || !cam.IsVisible(c.Pos, coinSize, drawDistance) {
			continue
		}
		rl.DrawSphere(vec3(c.Pos), coinSize, theme.Coin)
	}

	for i := range tr.Obstacles {
		o := &tr.Obstacles[i]
		if o.Destroyed || !cam.IsVisible(o.Pos, obstacleSize, drawDistance) {
			continue
		}
		color := theme.Obstacle
		if o.Struck {
			color = theme.ObstacleHit
		}
		if o.Kind == track.ObstacleBarrier {
			rl.DrawCube(vec3(o.Pos), obstacleSize*2, obstacleSize, obstacleSize/2, color)
		} else {
			rl.DrawCylinder(vec3(o.Pos), 0, obstacleSize/2, obstacleSize, 12, color)
		}
	}

	for i := range tr.Powerups {
		p := &tr.Powerups[i]
		if p.Collected || !cam.IsVisible(p.Pos, powerupSize, drawDistance) {
			continue
		}
		rl.DrawSphere(vec3(p.Pos), powerupSize, theme.PowerUpColor(p.Kind))
		rl.DrawSphereWires(vec3(p.Pos), powerupSize*1.3, 6, 6, rl.White)
	}

	for i := range tr.Ramps {
		r := &tr.Ramps[i]
		if !cam.IsVisible(r.Pos, rampLength, drawDistance) {
			continue
		}
		perp := track.Perpendicular(r.Dir)
		a := r3.Add(r.Pos, r3.Scale(tr.Width/4, perp))
		b := r3.Sub(r.Pos, r3.Scale(tr.Width/4, perp))
		lip := r3.Add(r.Pos, r3.Scale(rampLength, r.Dir))
		lip.Y += rampHeight
		rl.DrawTriangle3D(vec3(a), vec3(b), vec3(lip), theme.Ramp)
		rl.DrawTriangle3D(vec3(b), vec3(a), vec3(lip), theme.Ramp)
	}
}

func drawRacers(views []race.RacerView, theme Theme, radius float64) {
	for _, v := range views {
		if !v.Visible() {
			continue
		}
		r := float32(radius * v.Scale())
		center := vec3(v.Pos)
		center.Y += r

		rl.DrawSphere(center, r, theme.RacerColor(v.Index))
		if v.Player {
			rl.DrawSphereWires(center, r*1.05, 8, 8, rl.White)
		}
		if v.PowerUp.Shielded() {
			rl.DrawSphere(center, r*1.4, theme.Shield)
		}
	}
}
