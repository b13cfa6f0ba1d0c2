package telemetry

// RaceRecord is one row of results.csv.
type RaceRecord struct {
	SessionID string  `csv:"session"`
	LevelID   int     `csv:"level"`
	Seed      int64   `csv:"seed"`
	Ticks     int32   `csv:"ticks"`
	RaceTime  float64 `csv:"race_time"`

	// Outcome
	Position     int  `csv:"position"`
	Won          bool `csv:"won"`
	Stars        int  `csv:"stars"`
	Reward       int  `csv:"reward"`
	Coins        int  `csv:"coins"`
	Eliminations int  `csv:"eliminations"`

	// Event counts
	ObstacleHits     int `csv:"obstacle_hits"`
	ObstaclesSmashed int `csv:"obstacles_smashed"`
	Bumps            int `csv:"bumps"`
	Powerups         int `csv:"powerups"`
	Ramps            int `csv:"ramps"`
	LeadChanges      int `csv:"lead_changes"`

	PlayerTopSpeed float64 `csv:"player_top_speed"`
}

// RacerRecord is one row of racers.csv.
type RacerRecord struct {
	SessionID  string  `csv:"session"`
	Racer      int     `csv:"racer"`
	Player     bool    `csv:"player"`
	Position   int     `csv:"position"`
	Finished   bool    `csv:"finished"`
	Eliminated bool    `csv:"eliminated"`
	FinishTime float64 `csv:"finish_time"`
	Distance   float64 `csv:"distance"`
	TopSpeed   float64 `csv:"top_speed"`
	MeanSpeed  float64 `csv:"mean_speed"`
}

// TraceRecord is one row of trace.csv: a racer sampled at a tick.
type TraceRecord struct {
	SessionID string  `csv:"session"`
	Tick      int32   `csv:"tick"`
	Time      float64 `csv:"time"`
	Racer     int     `csv:"racer"`
	Segment   int     `csv:"segment"`
	Progress  float64 `csv:"progress"`
	Lateral   float64 `csv:"lateral"`
	Speed     float64 `csv:"speed"`
	Position  int     `csv:"position"`
	PowerUp   string  `csv:"powerup"`
	Alive     bool    `csv:"alive"`
}

// speedStats accumulates per-racer speed samples.
type speedStats struct {
	top   float64
	sum   float64
	count int
}

// Collector accumulates events and racer samples over one race.
type Collector struct {
	player int

	coins            int
	eliminations     int
	obstacleHits     int
	obstaclesSmashed int
	bumps            int
	powerups         int
	ramps            int
	leadChanges      int

	speeds map[int]*speedStats
}

// NewCollector creates a collector for a race with the given player index.
func NewCollector(player int) *Collector {
	return &Collector{
		player: player,
		speeds: make(map[int]*speedStats),
	}
}

// Record counts a drained event.
func (c *Collector) Record(e Event) {
	switch e.Type {
	case EventCoinPickup:
		c.coins++
	case EventElimination:
		c.eliminations++
	case EventObstacleBump:
		if e.Smashed {
			c.obstaclesSmashed++
		} else {
			c.obstacleHits++
		}
	case EventRacerBump:
		c.bumps++
	case EventPowerupActivate:
		c.powerups++
	case EventRampLaunch:
		c.ramps++
	}
}

// RecordAll counts a batch of events.
func (c *Collector) RecordAll(events []Event) {
	for _, e := range events {
		c.Record(e)
	}
}

// RecordLeadChange counts a change of race leader.
func (c *Collector) RecordLeadChange() {
	c.leadChanges++
}

// ObserveSpeed samples a racer's speed for the current tick.
func (c *Collector) ObserveSpeed(racer int, speed float64) {
	s := c.speeds[racer]
	if s == nil {
		s = &speedStats{}
		c.speeds[racer] = s
	}
	if speed > s.top {
		s.top = speed
	}
	s.sum += speed
	s.count++
}

// TopSpeed returns the highest observed speed of a racer.
func (c *Collector) TopSpeed(racer int) float64 {
	if s := c.speeds[racer]; s != nil {
		return s.top
	}
	return 0
}

// MeanSpeed returns the mean observed speed of a racer.
func (c *Collector) MeanSpeed(racer int) float64 {
	if s := c.speeds[racer]; s != nil && s.count > 0 {
		return s.sum / float64(s.count)
	}
	return 0
}

// Fill copies the event counts into rec.
func (c *Collector) Fill(rec *RaceRecord) {
	rec.ObstacleHits = c.obstacleHits
	rec.ObstaclesSmashed = c.obstaclesSmashed
	rec.Bumps = c.bumps
	rec.Powerups = c.powerups
	rec.Ramps = c.ramps
	rec.LeadChanges = c.leadChanges
	rec.PlayerTopSpeed = c.TopSpeed(c.player)
}

// FillRacer copies the speed statistics of rec.Racer into rec.
func (c *Collector) FillRacer(rec *RacerRecord) {
	rec.TopSpeed = c.TopSpeed(rec.Racer)
	rec.MeanSpeed = c.MeanSpeed(rec.Racer)
}

// Coins returns the counted coin pickups.
func (c *Collector) Coins() int { return c.coins }

// Eliminations returns the counted eliminations.
func (c *Collector) Eliminations() int { return c.eliminations }
