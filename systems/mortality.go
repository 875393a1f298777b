package systems

import (
	"time"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

// AnnualMortality returns the death probability for a fox of the given age
// whose base rate was drawn as base. Risk grows with age and is certain
// from maxAge on.
func AnnualMortality(base float64, age int, cfg config.MortalityConfig) float64 {
	if cfg.MaxAge > 0 && age >= cfg.MaxAge {
		return 1
	}
	return clampF(base*(1+cfg.Senescence*float64(age)), 0, 1)
}

// ScheduleMortality redraws the fox's annual rate and, with that probability,
// picks the hour of its natural death between now and the end of the year.
func ScheduleMortality(f *components.Fox, now time.Time, s *Sampler, cfg config.MortalityConfig) {
	f.MortalityRate = AnnualMortality(s.Draw(cfg.Rate), f.Age, cfg)
	f.DeathAt = time.Time{}
	if !s.Chance(f.MortalityRate) {
		return
	}

	start := now.Truncate(time.Hour)
	yearEnd := time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, now.Location())
	span := int(yearEnd.Sub(start) / time.Hour)
	offset := 1
	if span > 1 {
		offset += s.IntN(span - 1)
	}
	f.DeathAt = start.Add(time.Duration(offset) * time.Hour)
}

// DeathDue reports whether now is the scheduled natural death hour.
func DeathDue(f *components.Fox, now time.Time) bool {
	if f.DeathAt.IsZero() {
		return false
	}
	return now.Year() == f.DeathAt.Year() &&
		now.YearDay() == f.DeathAt.YearDay() &&
		now.Hour() == f.DeathAt.Hour()
}
