package track

import "gonum.org/v1/gonum/spatial/r3"

// Sample is a resolved point on the track.
type Sample struct {
	Pos  r3.Vec // World position including the lateral offset
	Dir  r3.Vec // Interpolated travel direction (not normalised)
	Perp r3.Vec // Unit lateral axis
}

// SegmentAt returns segment i, clamped to the path bounds.
func (t *Track) SegmentAt(i int) Segment {
	if i < 0 {
		return t.Segments[0]
	}
	if i >= len(t.Segments) {
		return t.Segments[len(t.Segments)-1]
	}
	return t.Segments[i]
}

// Sample interpolates the world position at progress within segment,
// offset laterally. Queries outside the path clamp to the boundary segments.
func (t *Track) Sample(segment int, progress, lateral float64) Sample {
	seg := t.SegmentAt(segment)
	next := t.SegmentAt(segment + 1)

	center := lerp(seg.Pos, next.Pos, progress)
	dir := lerp(seg.Dir, next.Dir, progress)
	perp := Perpendicular(dir)

	return Sample{
		Pos:  r3.Add(center, r3.Scale(lateral, perp)),
		Dir:  dir,
		Perp: perp,
	}
}

// LocalLateral returns the lateral coordinate of p in segment i's frame.
func (t *Track) LocalLateral(i int, p r3.Vec) float64 {
	seg := t.SegmentAt(i)
	d := r3.Sub(p, seg.Pos)
	d.Y = 0
	return r3.Dot(d, Perpendicular(seg.Dir))
}

// Perpendicular returns the unit horizontal lateral axis of dir.
// A zero direction yields the unnormalised axis.
func Perpendicular(dir r3.Vec) r3.Vec {
	perp := r3.Vec{X: -dir.Z, Z: dir.X}
	length := r3.Norm(perp)
	if length == 0 {
		length = 1
	}
	return r3.Scale(1/length, perp)
}

func lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}
