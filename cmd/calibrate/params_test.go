package main

import (
	"testing"

	"github.com/pthm-cable/habitat/config"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	raw := pv.ExtractFromConfig(cfg)
	back := pv.Denormalize(pv.Normalize(raw))
	for i, spec := range pv.Specs {
		if d := back[i] - raw[i]; d > 1e-9 || d < -1e-9 {
			t.Errorf("%s: %v became %v", spec.Name, raw[i], back[i])
		}
	}
}

func TestApplyToConfigClampsAndRounds(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	values := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		switch spec.Name {
		case "fox.feeding.hunger_per_hour":
			values[i] = 5 // above max
		case "hunter.excursions_per_year":
			values[i] = 41.6
		}
	}
	pv.ApplyToConfig(cfg, values)

	if cfg.Fox.Feeding.HungerPerHour != 0.08 {
		t.Errorf("hunger_per_hour = %v, want clamp to 0.08", cfg.Fox.Feeding.HungerPerHour)
	}
	if cfg.Hunter.ExcursionsPerYear != 42 {
		t.Errorf("excursions_per_year = %d, want 42", cfg.Hunter.ExcursionsPerYear)
	}
}

func TestComputeFitness(t *testing.T) {
	fe := &FitnessEvaluator{days: 4, target: 10}

	steady := &runResult{survivedDays: 4, founders: 10, counts: []float64{10, 10, 10, 10}}
	if f := fe.computeFitness(steady); f != 0 {
		t.Errorf("steady run at target should score 0, got %v", f)
	}

	extinct := &runResult{survivedDays: 1, founders: 10, counts: []float64{0}}
	if f := fe.computeFitness(extinct); f != 1.75 {
		t.Errorf("extinct run = %v, want 1.75", f)
	}

	drifting := &runResult{survivedDays: 4, founders: 10, counts: []float64{10, 10, 15, 15}}
	if f := fe.computeFitness(drifting); f <= 0 || f > 1 {
		t.Errorf("surviving run should score in (0, 1], got %v", f)
	}
}
