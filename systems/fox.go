package systems

import (
	"time"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

// Effect is a request a fox step makes of its population.
// Effects are applied after every fox has stepped.
type Effect interface {
	isEffect()
}

// Death asks for the fox to be removed.
type Death struct {
	Cause components.DeathCause
}

// Birth asks for a litter of cubs at the mother's den.
type Birth struct {
	Litter int
}

// Dispersal reports that the fox moved its den.
type Dispersal struct {
	From, To components.Pos
}

func (Death) isEffect()     {}
func (Birth) isEffect()     {}
func (Dispersal) isEffect() {}

// Surroundings is the shared state a fox reads and mutates during its step.
type Surroundings struct {
	Grid    *Grid
	Food    *FoodField
	Rabbits *Warrens   // nil means every marked rabbit den is stocked
	Males   *Occupancy // tick-start male positions
}

// Forage windows, hour in [0,3) or [18,22).
const (
	earlyForageEnd  = 3
	lateForageStart = 18
	lateForageEnd   = 22
)

// FoxBehavior runs the hourly state machine of a single fox.
type FoxBehavior struct {
	cfg *config.Config
	rng *Sampler
}

// NewFoxBehavior creates a behavior bound to a config and random source.
func NewFoxBehavior(cfg *config.Config, s *Sampler) *FoxBehavior {
	return &FoxBehavior{cfg: cfg, rng: s}
}

// Step advances f by one simulated hour and returns the effects it requests.
func (b *FoxBehavior) Step(f *components.Fox, now time.Time, env *Surroundings) []Effect {
	var effects []Effect
	hour := now.Hour()
	feed := &b.cfg.Fox.Feeding

	b.age(f, now)

	if hour >= feed.HuntStartHour && hour < feed.HuntEndHour {
		b.hunt(f, env)
	}
	if hour < earlyForageEnd || (hour >= lateForageStart && hour < lateForageEnd) {
		if env.Food != nil {
			f.Feed(env.Food.Consume(f.Position, feed.ForageCap))
		}
	}

	b.move(f, hour, env.Grid)
	f.Hunger += feed.HungerPerHour

	b.reproduce(f, now, env)
	if hour == 0 {
		if litter, born := b.gestate(f); born {
			effects = append(effects, Birth{Litter: litter})
		}
		if d, moved := b.disperse(f, now, env.Grid); moved {
			effects = append(effects, d)
		}
	}

	if cause, dead := b.CheckDeath(f, now); dead {
		effects = append(effects, Death{Cause: cause})
	}
	return effects
}

// CheckDeath reports whether f dies at now and why.
func (b *FoxBehavior) CheckDeath(f *components.Fox, now time.Time) (components.DeathCause, bool) {
	if f.Hunger > b.cfg.Fox.Feeding.StarvationThreshold {
		return components.Starvation, true
	}
	if DeathDue(f, now) {
		return components.NaturalDeath, true
	}
	return 0, false
}

// age runs the yearly birthday on Jan 1 at 01:00.
func (b *FoxBehavior) age(f *components.Fox, now time.Time) {
	if now.Month() != time.January || now.Day() != 1 || now.Hour() != 1 {
		return
	}
	f.Age++
	f.PregnantThisYear = false
	ScheduleMortality(f, now, b.rng, b.cfg.Fox.Mortality)
}

// hunt scans the neighborhood for stocked rabbit dens and tries each until one
// attempt succeeds. Success depends on the terrain at the den.
func (b *FoxBehavior) hunt(f *components.Fox, env *Surroundings) {
	feed := &b.cfg.Fox.Feeding
	g := env.Grid
	r := feed.HuntRadius
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			p := f.Position.Add(dx, dy)
			if g.Object(p) != components.RabbitDen {
				continue
			}
			if env.Rabbits != nil && env.Rabbits.Count(p) == 0 {
				continue
			}

			var chance float64
			switch g.Terrain(p) {
			case components.Grass:
				chance = feed.HuntChanceGrass
			case components.Forest:
				chance = feed.HuntChanceForest
			}
			if !b.rng.Chance(chance) {
				continue
			}
			if env.Rabbits != nil {
				env.Rabbits.Take(p)
			}
			f.Feed(feed.RabbitValue)
			return
		}
	}
}

// move applies one hour of movement.
func (b *FoxBehavior) move(f *components.Fox, hour int, g *Grid) {
	if f.HomeRange.Empty() {
		return
	}
	mv := &b.cfg.Fox.Movement

	resting := hour >= mv.RestStartHour && hour <= mv.RestEndHour
	if resting && b.rng.Chance(mv.RestChance) {
		f.Position = f.Den
		return
	}

	if !f.HomeRange.Contains(f.Position) {
		if nearest, ok := f.HomeRange.Nearest(f.Position); ok {
			f.Position = nearest
		}
		return
	}

	speed := mv.HighActivity
	if resting {
		speed = mv.LowActivity
	}
	dx := b.rng.DrawInt(speed) * b.rng.Sign()
	dy := b.rng.DrawInt(speed) * b.rng.Sign()
	target := g.Clamp(f.Position.Add(dx, dy))

	if !g.FoxPassable(target) {
		return
	}
	if !f.HomeRange.Contains(target) {
		if target.Dist(f.Den) > mv.ExcursionRadius || !g.Connected(target, f.Den) {
			return
		}
	}
	f.Position = target
}

// reproduce makes a mature female pregnant when a male is near her den
// during the mating window.
func (b *FoxBehavior) reproduce(f *components.Fox, now time.Time, env *Surroundings) {
	rep := &b.cfg.Fox.Reproduction
	if f.Sex != components.Female || f.Pregnant || f.PregnantThisYear {
		return
	}
	if m := int(now.Month()); m < rep.MatingStartMonth || m > rep.MatingEndMonth {
		return
	}
	if !f.Mature(now) || !f.NearDen(rep.DenProximity) {
		return
	}
	if env.Males == nil || !env.Males.AnyInBox(f.Den, rep.MateSearchRadius) {
		return
	}

	f.Pregnant = true
	f.PregnantThisYear = true
	f.GestationDaysLeft = max(1, b.rng.DrawInt(rep.Gestation))
}

// gestate counts down one day of pregnancy and reports a birth.
func (b *FoxBehavior) gestate(f *components.Fox) (int, bool) {
	if !f.Pregnant {
		return 0, false
	}
	f.GestationDaysLeft--
	if f.GestationDaysLeft > 0 {
		return 0, false
	}
	f.Pregnant = false
	f.GestationDaysLeft = 0
	return max(0, b.rng.DrawInt(b.cfg.Fox.Reproduction.LitterSize)), true
}

// disperse relocates a juvenile's den on its dispersal day.
// Without a reachable candidate the den stays put but the fox is still
// marked dispersed and never retries.
func (b *FoxBehavior) disperse(f *components.Fox, now time.Time, g *Grid) (Dispersal, bool) {
	dc := &b.cfg.Fox.Dispersal
	if f.Dispersed || now.YearDay() != f.DispersalDay {
		return Dispersal{}, false
	}
	if f.AgeMonths(now) < float64(dc.AgeMonths) {
		return Dispersal{}, false
	}

	f.Dispersed = true
	candidates := DispersalCandidates(g, f.Position, f.Den, int(f.DispersalDistance))
	to, ok := ChooseDen(f.Position, candidates, b.rng)
	if !ok {
		return Dispersal{}, false
	}

	from := f.Den
	f.Den = to
	f.Position = to
	f.HomeRange = GenerateHomeRange(g, to, b.rng, b.cfg.Fox.HomeRange)
	return Dispersal{From: from, To: to}, true
}
