package main

import (
	"context"
	"fmt"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/game"
)

// FitnessEvaluator runs headless fox simulations and scores how well the
// population holds near a target size.
type FitnessEvaluator struct {
	params     *ParamVector
	days       int
	seeds      []int64
	baseConfig *config.Config
	target     float64 // 0 = the founding population of each run
	workers    int

	mu          sync.Mutex
	lastSurvive float64 // mean survived share of the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, days int, seeds []int64, baseCfg *config.Config, target float64, workers int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		days:       days,
		seeds:      seeds,
		baseConfig: baseCfg,
		target:     target,
		workers:    max(workers, 1),
	}
}

// LastSurvival returns the mean share of days survived in the most recent
// evaluation.
func (fe *FitnessEvaluator) LastSurvival() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSurvive
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivedDays int
	founders     int
	counts       []float64 // end-of-day populations
}

// Evaluate computes fitness for raw parameter values (lower = better).
// All seeds run concurrently; the result is the mean over seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) (float64, error) {
	results := make([]*runResult, len(fe.seeds))

	grp, _ := errgroup.WithContext(context.Background())
	grp.SetLimit(fe.workers)
	for i, seed := range fe.seeds {
		grp.Go(func() error {
			r, err := fe.runSimulation(x, seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return math.Inf(1), err
	}

	var total, survived float64
	for _, r := range results {
		total += fe.computeFitness(r)
		survived += float64(r.survivedDays) / float64(fe.days)
	}
	n := float64(len(results))

	fe.mu.Lock()
	fe.lastSurvive = survived / n
	fe.mu.Unlock()

	return total / n, nil
}

// runSimulation runs one headless fox simulation for the configured number
// of days, stopping early on extinction.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (*runResult, error) {
	cfg, err := fe.baseConfig.Clone()
	if err != nil {
		return nil, err
	}
	fe.params.ApplyToConfig(cfg, x)

	g, err := game.NewGameWithOptions(game.Options{
		Mode:           game.ModeFox,
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 24, // one simulated day per update
		Config:         cfg,
	})
	if err != nil {
		return nil, err
	}
	defer g.Unload()

	result := &runResult{founders: g.FoxCount(), counts: make([]float64, 0, fe.days)}
	for day := 0; day < fe.days; day++ {
		g.UpdateHeadless()
		n := g.FoxCount()
		result.counts = append(result.counts, float64(n))
		if n == 0 {
			result.survivedDays = day + 1
			return result, nil
		}
	}
	result.survivedDays = fe.days
	return result, nil
}

// Fitness weights for surviving runs.
const (
	weightError     = 0.7
	weightVariation = 0.3
)

// computeFitness scores one run. Extinct runs score in (1, 2], worse the
// sooner they died out. Surviving runs score in [0, 1] from the relative
// error to the target and the variation over the second half of the run.
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	if r.survivedDays < fe.days {
		return 2 - float64(r.survivedDays)/float64(fe.days)
	}

	target := fe.target
	if target <= 0 {
		target = float64(max(r.founders, 1))
	}
	tail := r.counts[len(r.counts)/2:]
	var errSum float64
	for _, c := range tail {
		errSum += math.Abs(c-target) / target
	}
	meanErr := errSum / float64(len(tail))

	return clamp01(weightError*clamp01(meanErr) + weightVariation*clamp01(cv(tail)))
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if mean == 0 {
		return 0
	}
	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	return math.Sqrt(sqDiff/n) / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
