package main

import (
	"math"

	"github.com/pthm-cable/habitat/config"
)

// ParamSpec defines a single calibrated parameter.
type ParamSpec struct {
	Name    string  // Config path, used as the CSV column
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Integer bool    // Rounded before it is applied

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all calibrated parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of fox model parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{
				Name: "fox.feeding.hunger_per_hour", Min: 0.01, Max: 0.08,
				get: func(c *config.Config) float64 { return c.Fox.Feeding.HungerPerHour },
				set: func(c *config.Config, v float64) { c.Fox.Feeding.HungerPerHour = v },
			},
			{
				Name: "fox.feeding.rabbit_value", Min: 0.2, Max: 1.0,
				get: func(c *config.Config) float64 { return c.Fox.Feeding.RabbitValue },
				set: func(c *config.Config, v float64) { c.Fox.Feeding.RabbitValue = v },
			},
			{
				Name: "fox.feeding.forage_cap", Min: 0.1, Max: 1.0,
				get: func(c *config.Config) float64 { return c.Fox.Feeding.ForageCap },
				set: func(c *config.Config, v float64) { c.Fox.Feeding.ForageCap = v },
			},
			{
				Name: "fox.mortality.senescence", Min: 0, Max: 0.6,
				get: func(c *config.Config) float64 { return c.Fox.Mortality.Senescence },
				set: func(c *config.Config, v float64) { c.Fox.Mortality.Senescence = v },
			},
			{
				Name: "food.base", Min: 0.2, Max: 1.0,
				get: func(c *config.Config) float64 { return c.Food.Base },
				set: func(c *config.Config, v float64) { c.Food.Base = v },
			},
			{
				Name: "rabbits.replenish", Min: 0, Max: 6, Integer: true,
				get: func(c *config.Config) float64 { return float64(c.Rabbits.Replenish) },
				set: func(c *config.Config, v float64) { c.Rabbits.Replenish = int(v) },
			},
			{
				Name: "hunter.excursions_per_year", Min: 0, Max: 120, Integer: true,
				get: func(c *config.Config) float64 { return float64(c.Hunter.ExcursionsPerYear) },
				set: func(c *config.Config, v float64) { c.Hunter.ExcursionsPerYear = int(v) },
			},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to [0,1] range.
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

// Clamp ensures all values are within bounds, rounding integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := min(max(v[i], spec.Min), spec.Max)
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = spec.get(cfg)
	}
	return out
}
