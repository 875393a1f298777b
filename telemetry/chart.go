package telemetry

import (
	"errors"
	"fmt"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrTooFewPoints is returned when a chart has nothing to draw.
var ErrTooFewPoints = errors.New("chart needs at least two points")

// PopulationChart renders current and running-mean fox counts per day as PNG.
func PopulationChart(w io.Writer, days []FoxStats, width, height int) error {
	if len(days) < 2 {
		return ErrTooFewPoints
	}

	xs := make([]float64, len(days))
	current := make([]float64, len(days))
	mean := make([]float64, len(days))
	for i, d := range days {
		xs[i] = float64(d.Day)
		current[i] = float64(d.Foxes)
		mean[i] = d.MeanFoxes
	}

	graph := chart.Chart{
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name:  "day",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "foxes",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: max(maxOf(current), 1) * 1.1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "current foxes",
				XValues: xs,
				YValues: current,
				Style:   chart.Style{StrokeColor: drawing.Color{R: 200, G: 90, B: 30, A: 255}, StrokeWidth: 1.5},
			},
			chart.ContinuousSeries{
				Name:    "mean foxes",
				XValues: xs,
				YValues: mean,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2.5},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering population chart: %w", err)
	}
	return nil
}

// PathChart renders the best discovered path length per ant generation
// against the shortest possible length.
func PathChart(w io.Writer, gens []AntStats, width, height int) error {
	var xs, best, optimal []float64
	for _, g := range gens {
		if g.BestLength == 0 {
			continue
		}
		xs = append(xs, float64(g.Generation))
		best = append(best, float64(g.BestLength))
		optimal = append(optimal, float64(g.OptimalLength))
	}
	if len(xs) < 2 {
		return ErrTooFewPoints
	}

	graph := chart.Chart{
		Width:  width,
		Height: height,
		XAxis:  chart.XAxis{Name: "generation", Style: chart.Style{FontSize: 10.0}},
		YAxis: chart.YAxis{
			Name:  "cells",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: max(maxOf(best), 1) * 1.1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "best path", XValues: xs, YValues: best, Style: chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2}},
			chart.ContinuousSeries{Name: "shortest", XValues: xs, YValues: optimal, Style: chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2}},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering path chart: %w", err)
	}
	return nil
}

func maxOf(vs []float64) float64 {
	m := 0.0
	for _, v := range vs {
		m = max(m, v)
	}
	return m
}
