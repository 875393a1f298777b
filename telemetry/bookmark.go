package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPopulationCrash BookmarkType = "population_crash"
	BookmarkRecovery        BookmarkType = "population_recovery"
	BookmarkExtinction      BookmarkType = "extinction"
	BookmarkStable          BookmarkType = "stable_population"
	BookmarkPathImproved    BookmarkType = "path_improved"
	BookmarkPathOptimal     BookmarkType = "path_optimal"
)

// Bookmark marks a notable moment of a run.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	At          int          `csv:"at"` // day for foxes, step for ants
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"at", b.At,
		"description", b.Description,
	)
}

// BookmarkDetector watches daily fox stats for crashes, recoveries,
// extinction and long stable stretches.
type BookmarkDetector struct {
	history []float64 // recent daily counts, oldest first
	size    int

	peak        int
	trough      int
	extinct     bool
	stableCount int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	return &BookmarkDetector{size: max(historySize, 5), trough: -1}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(s FoxStats) []Bookmark {
	var out []Bookmark
	n := s.Foxes

	if n == 0 && !bd.extinct {
		bd.extinct = true
		out = append(out, Bookmark{
			Type:        BookmarkExtinction,
			At:          s.Day,
			Description: fmt.Sprintf("Population died out on %s", s.Date),
		})
	}

	// Crash: more than 30% below the recent peak
	if bd.peak >= 10 && float64(n) < 0.7*float64(bd.peak) {
		out = append(out, Bookmark{
			Type:        BookmarkPopulationCrash,
			At:          s.Day,
			Description: fmt.Sprintf("Population fell from %d to %d", bd.peak, n),
		})
		bd.peak = n
		bd.trough = n
	}

	// Recovery: back to twice the low point after a crash
	if bd.trough > 0 && n >= 2*bd.trough {
		out = append(out, Bookmark{
			Type:        BookmarkRecovery,
			At:          s.Day,
			Description: fmt.Sprintf("Population recovered from %d to %d", bd.trough, n),
		})
		bd.trough = -1
	}
	if bd.trough >= 0 && n < bd.trough {
		bd.trough = n
	}
	bd.peak = max(bd.peak, n)

	bd.history = append(bd.history, float64(n))
	if len(bd.history) > bd.size {
		bd.history = bd.history[1:]
	}
	if b := bd.checkStable(s); b != nil {
		out = append(out, *b)
	}
	return out
}

// checkStable fires once the coefficient of variation over a full history
// stays under 5% for five consecutive checks.
func (bd *BookmarkDetector) checkStable(s FoxStats) *Bookmark {
	if len(bd.history) < bd.size || s.Foxes < 10 {
		bd.stableCount = 0
		return nil
	}
	mean, std := stat.MeanStdDev(bd.history, nil)
	if mean == 0 || std/mean >= 0.05 {
		bd.stableCount = 0
		return nil
	}
	bd.stableCount++
	if bd.stableCount != 5 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkStable,
		At:          s.Day,
		Description: fmt.Sprintf("Population steady around %.0f foxes", mean),
	}
}

// PathDetector watches ant generations for shorter discovered paths.
type PathDetector struct {
	best    int
	optimal bool
}

// NewPathDetector creates an ant path detector.
func NewPathDetector() *PathDetector {
	return &PathDetector{}
}

// Check analyzes a generation and returns any triggered bookmarks.
func (pd *PathDetector) Check(s AntStats) []Bookmark {
	if s.BestLength == 0 || (pd.best > 0 && s.BestLength >= pd.best) {
		return nil
	}
	var out []Bookmark
	if pd.best > 0 {
		out = append(out, Bookmark{
			Type:        BookmarkPathImproved,
			At:          s.Step,
			Description: fmt.Sprintf("Best path shortened from %d to %d cells", pd.best, s.BestLength),
		})
	}
	pd.best = s.BestLength

	if !pd.optimal && s.OptimalLength > 0 && s.BestLength <= s.OptimalLength {
		pd.optimal = true
		out = append(out, Bookmark{
			Type:        BookmarkPathOptimal,
			At:          s.Step,
			Description: fmt.Sprintf("Ants found a shortest path of %d cells in generation %d", s.BestLength, s.Generation),
		})
	}
	return out
}
