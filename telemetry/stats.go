// Package telemetry provides daily fox statistics, ant generation statistics,
// bookmarks, snapshots and run output.
package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of one per-fox quantity.
type Summary struct {
	Mean float64
	Std  float64
	P10  float64
	P50  float64
	P90  float64
}

// Summarize computes mean, standard deviation and percentiles of values.
// The standard deviation is zero for fewer than two values.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	s := Summary{Mean: stat.Mean(sorted, nil)}
	if n > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	s.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	s.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return s
}

// FoxStats is one simulated day of fox population statistics.
type FoxStats struct {
	Day  int    `csv:"day"`
	Date string `csv:"date"`

	// Population at the end of the day
	Foxes       int     `csv:"foxes"`
	MeanFoxes   float64 `csv:"mean_foxes"` // running mean over the chart window
	Groups      int     `csv:"groups"`
	Females     int     `csv:"females"`
	Pregnant    int     `csv:"pregnant"`
	Juveniles   int     `csv:"juveniles"` // not yet dispersed
	RabbitsLeft int     `csv:"rabbits"`
	FoodTotal   float64 `csv:"food_total"`

	// Events during the day
	Litters     int `csv:"litters"`
	Cubs        int `csv:"cubs"`
	Starved     int `csv:"starved"`
	DiedNatural int `csv:"died_natural"`
	Culled      int `csv:"culled"`
	Dispersals  int `csv:"dispersals"`

	// Distributions sampled at the end of the day
	HungerMean float64 `csv:"hunger_mean"`
	HungerP90  float64 `csv:"hunger_p90"`
	AgeMean    float64 `csv:"age_mean"`
	AgeStd     float64 `csv:"age_std"`
	RangeMean  float64 `csv:"home_range_mean"`
}

// Deaths returns the deaths of all causes recorded for the day.
func (s FoxStats) Deaths() int { return s.Starved + s.DiedNatural + s.Culled }

// LogValue implements slog.LogValuer for structured logging.
func (s FoxStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("day", s.Day),
		slog.String("date", s.Date),
		slog.Int("foxes", s.Foxes),
		slog.Float64("mean_foxes", s.MeanFoxes),
		slog.Int("groups", s.Groups),
		slog.Int("pregnant", s.Pregnant),
		slog.Int("cubs", s.Cubs),
		slog.Int("starved", s.Starved),
		slog.Int("died_natural", s.DiedNatural),
		slog.Int("culled", s.Culled),
		slog.Int("dispersals", s.Dispersals),
		slog.Float64("hunger_mean", s.HungerMean),
		slog.Float64("food_total", s.FoodTotal),
	)
}

// LogStats logs the daily stats using slog.
func (s FoxStats) LogStats() {
	slog.Info("fox_stats", "stats", s)
}

// AntStats summarizes one ant generation, recorded when the cohort is refreshed.
type AntStats struct {
	Generation int `csv:"generation"`
	Step       int `csv:"step"`

	Ants      int `csv:"ants"`
	Retained  int `csv:"retained"`
	Completed int `csv:"completed"` // round trips finished during the generation

	BestLength    int     `csv:"best_length"`
	OptimalLength int     `csv:"optimal_length"` // 0 when unreachable
	Stretch       float64 `csv:"stretch"`        // best/optimal, 0 when either is unknown

	TrailMean  float64 `csv:"trail_mean"` // over edges carrying any trail
	TrailMax   float64 `csv:"trail_max"`
	TrailEdges int     `csv:"trail_edges"`
}

// LogValue implements slog.LogValuer for structured logging.
func (s AntStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("step", s.Step),
		slog.Int("ants", s.Ants),
		slog.Int("retained", s.Retained),
		slog.Int("completed", s.Completed),
		slog.Int("best_length", s.BestLength),
		slog.Int("optimal_length", s.OptimalLength),
		slog.Float64("stretch", s.Stretch),
		slog.Float64("trail_mean", s.TrailMean),
		slog.Float64("trail_max", s.TrailMax),
	)
}

// LogStats logs the generation stats using slog.
func (s AntStats) LogStats() {
	slog.Info("ant_stats", "stats", s)
}
