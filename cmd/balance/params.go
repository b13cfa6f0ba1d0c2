package main

import (
	"github.com/pthm-cable/aquapark/config"
	"github.com/pthm-cable/aquapark/level"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the balancing parameters: the level difficulty
// curve and the AI speed and coin-seeking gains.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "curve_base", Path: "level.curve.base", Min: 0, Max: 0.8, Default: level.DefaultCurve.Base},
			{Name: "curve_slope", Path: "level.curve.slope", Min: 0, Max: 0.08, Default: level.DefaultCurve.Slope},
			{Name: "ai_speed_gain", Path: "ai.speed_gain", Min: 0, Max: 0.06, Default: 0.02},
			{Name: "ai_seek_factor", Path: "ai.seek_factor", Min: 0, Max: 1, Default: 0.5},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to the [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// Apply writes the AI parameters into cfg and returns the difficulty curve.
// Order must match Specs.
func (pv *ParamVector) Apply(cfg *config.Config, values []float64) level.Curve {
	clamped := pv.Clamp(values)
	cfg.AI.SpeedGain = clamped[2]
	cfg.AI.SeekFactor = clamped[3]
	cfg.Recompute()
	return level.Curve{
		Base:  clamped[0],
		Slope: clamped[1],
		Cap:   level.DefaultCurve.Cap,
	}
}
