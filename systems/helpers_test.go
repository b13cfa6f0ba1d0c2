package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/aquapark/components"
	"github.com/pthm-cable/aquapark/config"
	"github.com/pthm-cable/aquapark/level"
	"github.com/pthm-cable/aquapark/telemetry"
	"github.com/pthm-cable/aquapark/track"
)

// flatTrack returns an empty straight track heading -Z with a constant drop.
func flatTrack(n int) *track.Track {
	tr := &track.Track{Width: 6, StepLength: 2}
	for i := 0; i < n; i++ {
		tr.Segments = append(tr.Segments, track.Segment{
			Index: i,
			Pos:   r3.Vec{Y: 30 - 0.3*float64(i), Z: -2 * float64(i+1)},
			Dir:   r3.Vec{Z: -1},
			Width: 6,
		})
	}
	return tr
}

// anchorAt places an anchor on tr at the given segment and lateral offset.
func anchorAt(tr *track.Track, segment int, lateral float64) track.Anchor {
	return track.Anchor{Segment: segment, Lateral: lateral, Pos: tr.Sample(segment, 0, lateral).Pos}
}

// testRace is a small ECS world with racers on a track.
type testRace struct {
	world  *ecs.World
	cfg    *config.Config
	track  *track.Track
	events *telemetry.Events

	racerMap *ecs.Map1[components.Racer]
	kinMap   *ecs.Map1[components.Kinematics]
	statMap  *ecs.Map1[components.Status]
	puMap    *ecs.Map1[components.PowerUp]
	pilotMap *ecs.Map1[components.Pilot]

	humans *ecs.Map4[components.Racer, components.Kinematics, components.Status, components.PowerUp]
	bots   *ecs.Map5[components.Racer, components.Kinematics, components.Status, components.PowerUp, components.Pilot]
}

func newTestRace(tr *track.Track) *testRace {
	w := ecs.NewWorld()
	return &testRace{
		world:    w,
		cfg:      config.Default(),
		track:    tr,
		events:   &telemetry.Events{},
		racerMap: ecs.NewMap1[components.Racer](w),
		kinMap:   ecs.NewMap1[components.Kinematics](w),
		statMap:  ecs.NewMap1[components.Status](w),
		puMap:    ecs.NewMap1[components.PowerUp](w),
		pilotMap: ecs.NewMap1[components.Pilot](w),
		humans:   ecs.NewMap4[components.Racer, components.Kinematics, components.Status, components.PowerUp](w),
		bots:     ecs.NewMap5[components.Racer, components.Kinematics, components.Status, components.PowerUp, components.Pilot](w),
	}
}

// levelRace builds a race on a generated level track.
func levelRace(t *testing.T, id int, seed int64) *testRace {
	t.Helper()
	def, ok := level.ByID(id)
	if !ok {
		t.Fatalf("level %d not found", id)
	}
	cfg := config.Default()
	return newTestRace(track.Generate(def, cfg.Track, rand.New(rand.NewSource(seed))))
}

func (r *testRace) addPlayer(index, segment int, lateral, speed float64) ecs.Entity {
	racer := components.Racer{Index: index, Player: true}
	kin := r.kinematics(segment, lateral, speed)
	status := components.Status{Alive: true}
	pu := components.PowerUp{}
	return r.humans.NewEntity(&racer, &kin, &status, &pu)
}

func (r *testRace) addBot(index, segment int, lateral, speed float64) ecs.Entity {
	racer := components.Racer{Index: index}
	kin := r.kinematics(segment, lateral, speed)
	status := components.Status{Alive: true}
	pu := components.PowerUp{}
	pilot := components.Pilot{}
	return r.bots.NewEntity(&racer, &kin, &status, &pu, &pilot)
}

func (r *testRace) kinematics(segment int, lateral, speed float64) components.Kinematics {
	s := r.track.Sample(segment, 0, lateral)
	return components.Kinematics{Segment: segment, Lateral: lateral, Speed: speed, Pos: s.Pos, Dir: s.Dir}
}

func (r *testRace) frame(dt, raceTime, steer float64) *Frame {
	r.events.SetClock(0, raceTime)
	return &Frame{DT: dt, RaceTime: raceTime, Steer: steer, Track: r.track, Events: r.events}
}

func countEvents(events []telemetry.Event, typ telemetry.EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}
