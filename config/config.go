// Package config provides configuration loading and access for the race simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Track       TrackConfig       `yaml:"track"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Racer       RacerConfig       `yaml:"racer"`
	AI          AIConfig          `yaml:"ai"`
	Interaction InteractionConfig `yaml:"interaction"`
	Race        RaceConfig        `yaml:"race"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// TrackConfig holds procedural track generation parameters.
type TrackConfig struct {
	Width       float64 `yaml:"width"`        // Slide width, constant across a level
	StepLength  float64 `yaml:"step_length"`  // Horizontal distance between segments
	StartHeight float64 `yaml:"start_height"` // Height of the first segment
	SlopeMin    float64 `yaml:"slope_min"`    // Minimum height drop per segment
	SlopeJitter float64 `yaml:"slope_jitter"` // Random extra drop per segment
	TurnRate    float64 `yaml:"turn_rate"`    // Heading rotation per curved segment (radians)
	CurveMinRun int     `yaml:"curve_min_run"`
	CurveMaxRun int     `yaml:"curve_max_run"`
	MinSegments int     `yaml:"min_segments"` // Requests below this are raised to it
}

// PhysicsConfig holds racer integration parameters.
type PhysicsConfig struct {
	Gravity         float64 `yaml:"gravity"`    // Constant acceleration per tick
	SlopeGain       float64 `yaml:"slope_gain"` // Acceleration per unit of slope
	Friction        float64 `yaml:"friction"`   // Speed multiplier per tick
	MaxSpeed        float64 `yaml:"max_speed"`
	BaseSpeed       float64 `yaml:"base_speed"` // Ramp threshold; floor = base * min_speed_factor
	MinSpeedFactor  float64 `yaml:"min_speed_factor"`
	BoostIncrement  float64 `yaml:"boost_increment"`  // Added per tick while speed power-up is active
	BoostMultiplier float64 `yaml:"boost_multiplier"` // Max speed multiplier while boosted
	TimeScale       float64 `yaml:"time_scale"`       // Progress per (speed * second)
	SteerSpeed      float64 `yaml:"steer_speed"`
	SteerTimeScale  float64 `yaml:"steer_time_scale"`
	MaxDT           float64 `yaml:"max_dt"`      // Upper bound on a frame delta (seconds)
	FinishZone      int     `yaml:"finish_zone"` // Trailing segments that count as the finish
}

// RacerConfig holds racer body and grid parameters.
type RacerConfig struct {
	Count            int     `yaml:"count"`
	Radius           float64 `yaml:"radius"`
	LaneSpacing      float64 `yaml:"lane_spacing"`       // Lateral spacing on the starting grid
	GiantRadiusScale float64 `yaml:"giant_radius_scale"` // Collision radius multiplier while giant
	GiantWidthScale  float64 `yaml:"giant_width_scale"`  // Steerable half-width multiplier while giant
	GiantVisualScale float64 `yaml:"giant_visual_scale"`
}

// AIConfig holds non-player steering parameters.
type AIConfig struct {
	LaneChangeMin  float64 `yaml:"lane_change_min"` // Seconds
	LaneChangeMax  float64 `yaml:"lane_change_max"`
	Lookahead      int     `yaml:"lookahead"`      // Forward window in segments (exclusive)
	AvoidDistance  float64 `yaml:"avoid_distance"` // Obstacle proximity that triggers avoidance
	AvoidShift     float64 `yaml:"avoid_shift"`    // Lateral shift away from an obstacle
	SeekFactor     float64 `yaml:"seek_factor"`    // Coin seek probability = difficulty * this
	LaneNoise      float64 `yaml:"lane_noise"`     // Half-range of uniform target noise
	SteerFactor    float64 `yaml:"steer_factor"`   // Steer rate = steer_speed * difficulty * this
	SpeedBase      float64 `yaml:"speed_base"`     // Per-tick speed scale = base + difficulty * gain
	SpeedGain      float64 `yaml:"speed_gain"`
	AutopilotSkill float64 `yaml:"autopilot_skill"` // Difficulty used by the headless player
}

// InteractionConfig holds player-centred collision and pickup parameters.
type InteractionConfig struct {
	PushForce        float64 `yaml:"push_force"`
	EliminationRatio float64 `yaml:"elimination_ratio"` // Player speed must exceed other * this
	EdgeFraction     float64 `yaml:"edge_fraction"`     // Fraction of half-width that counts as off the edge
	CoinRadius       float64 `yaml:"coin_radius"`
	CoinRadiusGiant  float64 `yaml:"coin_radius_giant"`
	CoinRadiusMagnet float64 `yaml:"coin_radius_magnet"`
	ObstacleRadius   float64 `yaml:"obstacle_radius"`
	ObstaclePenalty  float64 `yaml:"obstacle_penalty"` // Speed multiplier on impact
	PowerupRadius    float64 `yaml:"powerup_radius"`
	PowerupDuration  float64 `yaml:"powerup_duration"` // Seconds
	RampWindow       int     `yaml:"ramp_window"`      // Forward segments in which a ramp triggers
	RampBoost        float64 `yaml:"ramp_boost"`
}

// RaceConfig holds lifecycle and reward parameters.
type RaceConfig struct {
	CountdownSteps       int     `yaml:"countdown_steps"`
	CountdownIntervalSec float64 `yaml:"countdown_interval_sec"`
	GraceDelaySec        float64 `yaml:"grace_delay_sec"`
	ForcedFinishPenalty  float64 `yaml:"forced_finish_penalty"` // Seconds added for racers finished by force
	CoinValue            int     `yaml:"coin_value"`
	EliminationBonus     int     `yaml:"elimination_bonus"`
}

// TelemetryConfig holds output parameters.
type TelemetryConfig struct {
	TraceEveryTicks   int     `yaml:"trace_every_ticks"` // 0 disables traces
	PhotoFinishGapSec float64 `yaml:"photo_finish_gap_sec"`
	PerfWindow        int     `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	HalfWidth      float64 // Track.Width / 2
	LateralLimit   float64 // HalfWidth - Racer.Radius
	GiantLimit     float64 // LateralLimit * GiantWidthScale
	MinSpeed       float64 // BaseSpeed * MinSpeedFactor
	BoostedMax     float64 // MaxSpeed * BoostMultiplier
	SteerPerSecond float64 // SteerSpeed * SteerTimeScale
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// Recompute refreshes derived values after fields were changed in code.
func (c *Config) Recompute() {
	c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Racer.Count < 1 {
		c.Racer.Count = 1
	}
	if c.Physics.FinishZone < 1 {
		c.Physics.FinishZone = 1
	}
	minSegments := c.Physics.FinishZone + 1
	if c.Track.MinSegments < minSegments {
		c.Track.MinSegments = minSegments
	}
	if c.Track.CurveMaxRun < c.Track.CurveMinRun {
		c.Track.CurveMaxRun = c.Track.CurveMinRun
	}

	c.Derived.HalfWidth = c.Track.Width / 2
	c.Derived.LateralLimit = c.Derived.HalfWidth - c.Racer.Radius
	if c.Derived.LateralLimit < 0 {
		c.Derived.LateralLimit = 0
	}
	c.Derived.GiantLimit = c.Derived.LateralLimit * c.Racer.GiantWidthScale
	c.Derived.MinSpeed = c.Physics.BaseSpeed * c.Physics.MinSpeedFactor
	c.Derived.BoostedMax = c.Physics.MaxSpeed * c.Physics.BoostMultiplier
	c.Derived.SteerPerSecond = c.Physics.SteerSpeed * c.Physics.SteerTimeScale
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
