package telemetry

import (
	"fmt"
	"log/slog"
	"math"
)

// HighlightType identifies the type of highlight.
type HighlightType string

const (
	HighlightLeadChange  HighlightType = "lead_change"
	HighlightPhotoFinish HighlightType = "photo_finish"
	HighlightElimination HighlightType = "elimination"
	HighlightComeback    HighlightType = "comeback"
)

// Highlight is an automatically detected moment worth replaying.
type Highlight struct {
	SessionID   string        `csv:"session" json:"-"`
	Type        HighlightType `csv:"type" json:"type"`
	Tick        int32         `csv:"tick" json:"tick"`
	Time        float64       `csv:"time" json:"time"`
	Description string        `csv:"description" json:"description"`
}

// LogHighlight logs the highlight using slog.
func (h Highlight) LogHighlight() {
	slog.Info("highlight",
		"type", string(h.Type),
		"tick", h.Tick,
		"time", h.Time,
		"description", h.Description,
	)
}

// Standing is one racer's ranking state as seen by the detector.
type Standing struct {
	Racer      int
	Position   int
	Finished   bool
	FinishTime float64
	Alive      bool
}

// comebackGain is the number of places the player must gain from their
// worst position to count as a comeback.
const comebackGain = 2

// HighlightDetector detects interesting moments during a race.
type HighlightDetector struct {
	player      int
	photoGap    float64
	leader      int
	finishTimes []float64

	worstPlayer int
}

// NewHighlightDetector creates a detector. Finishes closer than photoGap
// seconds count as photo finishes.
func NewHighlightDetector(player int, photoGap float64) *HighlightDetector {
	return &HighlightDetector{
		player:   player,
		photoGap: photoGap,
		leader:   NoRacer,
	}
}

// Check analyzes the standings after a tick together with the tick's events.
func (hd *HighlightDetector) Check(tick int32, time float64, standings []Standing, events []Event) []Highlight {
	var highlights []Highlight

	for _, e := range events {
		switch e.Type {
		case EventElimination:
			highlights = append(highlights, Highlight{
				Type:        HighlightElimination,
				Tick:        tick,
				Time:        time,
				Description: fmt.Sprintf("Racer %d knocked racer %d off at segment %d", e.Racer, e.Target, e.Segment),
			})
		case EventFinish:
			if h := hd.checkPhotoFinish(tick, e); h != nil {
				highlights = append(highlights, *h)
			}
		}
	}

	if h := hd.checkLeadChange(tick, time, standings); h != nil {
		highlights = append(highlights, *h)
	}
	if h := hd.checkComeback(tick, time, standings); h != nil {
		highlights = append(highlights, *h)
	}

	return highlights
}

func (hd *HighlightDetector) checkLeadChange(tick int32, time float64, standings []Standing) *Highlight {
	leader := NoRacer
	for _, s := range standings {
		if s.Position == 1 && (s.Alive || s.Finished) {
			leader = s.Racer
			break
		}
	}
	if leader == NoRacer || leader == hd.leader {
		return nil
	}

	prev := hd.leader
	hd.leader = leader
	if prev == NoRacer {
		return nil
	}

	return &Highlight{
		Type:        HighlightLeadChange,
		Tick:        tick,
		Time:        time,
		Description: fmt.Sprintf("Racer %d took the lead from racer %d", leader, prev),
	}
}

func (hd *HighlightDetector) checkPhotoFinish(tick int32, e Event) *Highlight {
	var h *Highlight
	for _, t := range hd.finishTimes {
		if gap := math.Abs(e.Time - t); gap < hd.photoGap {
			h = &Highlight{
				Type:        HighlightPhotoFinish,
				Tick:        tick,
				Time:        e.Time,
				Description: fmt.Sprintf("Racer %d finished %.2fs from the previous finisher", e.Racer, gap),
			}
			break
		}
	}
	hd.finishTimes = append(hd.finishTimes, e.Time)
	return h
}

func (hd *HighlightDetector) checkComeback(tick int32, time float64, standings []Standing) *Highlight {
	for _, s := range standings {
		if s.Racer != hd.player || !s.Alive || s.Position == 0 {
			continue
		}

		if s.Position > hd.worstPlayer {
			hd.worstPlayer = s.Position
			return nil
		}
		if hd.worstPlayer-s.Position >= comebackGain {
			worst := hd.worstPlayer
			// Reset so a further comeback needs a new drop
			hd.worstPlayer = s.Position
			return &Highlight{
				Type:        HighlightComeback,
				Tick:        tick,
				Time:        time,
				Description: fmt.Sprintf("Player climbed from position %d to %d", worst, s.Position),
			}
		}
	}
	return nil
}

// Leader returns the racer currently in first place, or NoRacer.
func (hd *HighlightDetector) Leader() int {
	return hd.leader
}
