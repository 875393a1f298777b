package components

import "time"

// Fox holds the per-individual state of a fox agent.
type Fox struct {
	ID      FoxID
	GroupID GroupID
	Sex     Sex

	// Age in whole years; incremented on Jan 1 at 01:00.
	Age       int
	BirthDate time.Time

	Den       Pos
	Position  Pos
	HomeRange HomeRange

	Hunger        float64
	MortalityRate float64   // Annual death probability for the current age-year
	DeathAt       time.Time // Scheduled natural death hour; zero when none this year

	MaturityMonths    float64
	Pregnant          bool
	GestationDaysLeft int
	PregnantThisYear  bool

	DispersalDistance float64
	DispersalDay      int // Day of year
	Dispersed         bool
}

// Feed reduces hunger by v, floored at zero.
func (f *Fox) Feed(v float64) {
	f.Hunger = max(0, f.Hunger-v)
}

// AgeMonths returns the fox's age in months at now.
func (f *Fox) AgeMonths(now time.Time) float64 {
	if f.BirthDate.IsZero() {
		return float64(f.Age * 12)
	}
	return now.Sub(f.BirthDate).Hours() / (24 * 365.0 / 12)
}

// Mature reports whether the fox has reached sexual maturity.
func (f *Fox) Mature(now time.Time) bool {
	return f.AgeMonths(now) >= f.MaturityMonths
}

// NearDen reports whether the fox is within r cells of its den.
func (f *Fox) NearDen(r float64) bool {
	return f.Position.Dist(f.Den) <= r
}
