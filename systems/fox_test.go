package systems

import (
	"testing"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

func TestFeed(t *testing.T) {
	tests := []struct {
		hunger, v, want float64
	}{
		{0.5, 0.2, 0.3},
		{0.5, 0.5, 0},
		{0.5, 2, 0},
		{0, 0.3, 0},
		{0.7, 0, 0.7},
	}
	for _, tt := range tests {
		f := components.Fox{Hunger: tt.hunger}
		f.Feed(tt.v)
		if diff := f.Hunger - tt.want; diff > 1e-12 || diff < -1e-12 {
			t.Errorf("Feed(%v) from %v: got %v, want %v", tt.v, tt.hunger, f.Hunger, tt.want)
		}
	}
}

// lonelyFox builds a fox with a home range around den on an open grid.
func lonelyFox(g *Grid, den components.Pos) *components.Fox {
	return &components.Fox{
		ID:        1,
		Sex:       components.Male,
		Age:       2,
		BirthDate: at(2018, time.April, 1, 0),
		Den:       den,
		Position:  den,
		HomeRange: HomeRangeFromAxes(g, den, 4, 4),
		Dispersed: true,
	}
}

func TestStepStarvationScenario(t *testing.T) {
	cfg := testConfig()
	cfg.Fox.Feeding.HungerPerHour = 0.1
	g := NewBlankGrid(20, 20, components.Grass)
	b := NewFoxBehavior(cfg, NewSampler(1))

	f := lonelyFox(g, components.Pos{X: 10, Y: 10})
	f.Hunger = 0.95

	// Noon: outside every feeding window.
	effects := b.Step(f, at(2020, time.March, 10, 12), &Surroundings{Grid: g, Food: NewFoodField(20, 20, 1, cfg.Food)})

	if diff := f.Hunger - 1.05; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected hunger 1.05, got %v", f.Hunger)
	}
	if len(effects) != 1 {
		t.Fatalf("expected one effect, got %v", effects)
	}
	if d, ok := effects[0].(Death); !ok || d.Cause != components.Starvation {
		t.Errorf("expected starvation death, got %#v", effects[0])
	}
}

func TestForagingWindow(t *testing.T) {
	cfg := testConfig()
	cfg.Fox.Feeding.HungerPerHour = 0
	cfg.Fox.Movement.RestChance = 1
	g := NewBlankGrid(20, 20, components.Grass)
	den := components.Pos{X: 10, Y: 10}
	food := NewFoodField(20, 20, 1, cfg.Food)
	b := NewFoxBehavior(cfg, NewSampler(1))

	tests := []struct {
		hour int
		eats bool
	}{
		{0, true}, {2, true}, {3, false}, {12, false}, {18, true}, {21, true}, {22, false},
	}
	for _, tt := range tests {
		f := lonelyFox(g, den)
		f.HomeRange = components.NewHomeRange([]components.Pos{den})
		f.Hunger = 0.8
		food.Set(den, 0.3)

		b.Step(f, at(2020, time.May, 3, tt.hour), &Surroundings{Grid: g, Food: food})

		ate := food.At(den) == 0
		if ate != tt.eats {
			t.Errorf("hour %d: ate=%v, want %v", tt.hour, ate, tt.eats)
		}
		if ate && (f.Hunger < 0.5-1e-9 || f.Hunger > 0.5+1e-9) {
			t.Errorf("hour %d: expected hunger 0.5 after eating 0.3, got %v", tt.hour, f.Hunger)
		}
	}
}

func TestConsumeCap(t *testing.T) {
	food := NewFoodField(3, 3, 1, testConfig().Food)
	p := components.Pos{X: 1, Y: 1}

	food.Set(p, 0.8)
	if got := food.Consume(p, 0.5); got != 0.5 {
		t.Errorf("expected 0.5 taken, got %v", got)
	}
	if got := food.Consume(p, 0.5); got < 0.3-1e-9 || got > 0.3+1e-9 {
		t.Errorf("expected remaining 0.3 taken, got %v", got)
	}
	if food.At(p) != 0 {
		t.Errorf("expected empty cell, got %v", food.At(p))
	}
}

func TestHuntTakesAtMostOneRabbit(t *testing.T) {
	cfg := testConfig()
	cfg.Fox.Feeding.HuntChanceGrass = 1
	cfg.Fox.Feeding.HungerPerHour = 0
	g := NewBlankGrid(20, 20, components.Grass)
	den := components.Pos{X: 10, Y: 10}
	g.SetObject(components.Pos{X: 11, Y: 11}, components.RabbitDen)
	g.SetObject(components.Pos{X: 9, Y: 9}, components.RabbitDen)
	g.SetObject(components.Pos{X: 14, Y: 14}, components.RabbitDen) // outside 5x5
	rabbits := NewWarrens(g, cfg.Rabbits)
	before := rabbits.Total()

	f := lonelyFox(g, den)
	f.HomeRange = components.NewHomeRange([]components.Pos{den})
	f.Hunger = 0.9
	b := NewFoxBehavior(cfg, NewSampler(4))
	b.Step(f, at(2020, time.June, 1, 20), &Surroundings{Grid: g, Rabbits: rabbits})

	if got := before - rabbits.Total(); got != 1 {
		t.Errorf("expected exactly one rabbit taken, got %d", got)
	}
	if rabbits.Count(components.Pos{X: 14, Y: 14}) != cfg.Rabbits.Initial {
		t.Error("den outside the scan box was hunted")
	}
	want := max(0, 0.9-cfg.Fox.Feeding.RabbitValue)
	if f.Hunger != want {
		t.Errorf("expected hunger %v, got %v", want, f.Hunger)
	}
}

func TestHuntFailsOnOtherTerrain(t *testing.T) {
	cfg := testConfig()
	cfg.Fox.Feeding.HungerPerHour = 0
	g := NewBlankGrid(20, 20, components.Grass)
	den := components.Pos{X: 10, Y: 10}
	warren := components.Pos{X: 11, Y: 10}
	g.SetTerrain(warren, components.Urban)
	g.SetObject(warren, components.RabbitDen)

	f := lonelyFox(g, den)
	f.HomeRange = components.NewHomeRange([]components.Pos{den})
	f.Hunger = 0.9
	b := NewFoxBehavior(cfg, NewSampler(4))
	for i := 0; i < 20; i++ {
		b.Step(f, at(2020, time.June, 1, 19), &Surroundings{Grid: g})
	}
	if f.Hunger != 0.9 {
		t.Errorf("hunting on urban terrain should never succeed, hunger %v", f.Hunger)
	}
}

func TestMovementKeepsFoxInRange(t *testing.T) {
	cfg := testConfig()
	cfg.Fox.Feeding.HungerPerHour = 0
	g := NewBlankGrid(30, 30, components.Grass)
	for y := 0; y < 30; y++ {
		g.SetTerrain(components.Pos{X: 13, Y: y}, components.Water)
	}
	den := components.Pos{X: 10, Y: 10}
	f := lonelyFox(g, den)
	b := NewFoxBehavior(cfg, NewSampler(9))

	now := at(2020, time.July, 1, 0)
	for i := 0; i < 24*30; i++ {
		b.Step(f, now, &Surroundings{Grid: g})
		now = now.Add(time.Hour)

		if !g.FoxPassable(f.Position) {
			t.Fatalf("fox on impassable cell %v", f.Position)
		}
		if !f.HomeRange.Contains(f.Position) && f.Position.Dist(f.Den) > cfg.Fox.Movement.ExcursionRadius {
			t.Fatalf("fox at %v outside home range and excursion radius", f.Position)
		}
	}
}

func TestMovementSnapsBackIntoRange(t *testing.T) {
	cfg := testConfig()
	cfg.Fox.Movement.RestChance = 0
	g := NewBlankGrid(30, 30, components.Grass)
	den := components.Pos{X: 10, Y: 10}
	f := lonelyFox(g, den)
	f.Position = components.Pos{X: 25, Y: 10}

	NewFoxBehavior(cfg, NewSampler(1)).Step(f, at(2020, time.July, 1, 23), &Surroundings{Grid: g})
	if f.Position != (components.Pos{X: 14, Y: 10}) {
		t.Errorf("expected snap to nearest home-range cell (14,10), got %v", f.Position)
	}
}

func TestMovementEmptyHomeRangeIsNoop(t *testing.T) {
	cfg := testConfig()
	g := NewBlankGrid(10, 10, components.Grass)
	f := lonelyFox(g, components.Pos{X: 5, Y: 5})
	f.HomeRange = components.NewHomeRange(nil)

	b := NewFoxBehavior(cfg, NewSampler(1))
	for h := 0; h < 24; h++ {
		b.Step(f, at(2020, time.July, 1, h), &Surroundings{Grid: g})
	}
	if f.Position != (components.Pos{X: 5, Y: 5}) {
		t.Errorf("fox without home range moved to %v", f.Position)
	}
}

func TestAgingOnNewYear(t *testing.T) {
	cfg := testConfig()
	g := NewBlankGrid(10, 10, components.Grass)
	f := lonelyFox(g, components.Pos{X: 5, Y: 5})
	f.PregnantThisYear = true
	b := NewFoxBehavior(cfg, NewSampler(1))

	b.Step(f, at(2021, time.January, 1, 0), &Surroundings{Grid: g})
	if f.Age != 2 {
		t.Fatalf("aged at midnight: %d", f.Age)
	}
	b.Step(f, at(2021, time.January, 1, 1), &Surroundings{Grid: g})
	if f.Age != 3 {
		t.Errorf("expected age 3 after Jan 1 01:00, got %d", f.Age)
	}
	if f.PregnantThisYear {
		t.Error("expected PregnantThisYear reset")
	}
	if f.MortalityRate <= 0 {
		t.Errorf("expected redrawn mortality rate, got %v", f.MortalityRate)
	}
}

func TestNaturalDeathAtScheduledHour(t *testing.T) {
	cfg := testConfig()
	b := NewFoxBehavior(cfg, NewSampler(1))
	f := &components.Fox{DeathAt: at(2020, time.August, 3, 14)}

	if _, dead := b.CheckDeath(f, at(2020, time.August, 3, 13)); dead {
		t.Error("died an hour early")
	}
	cause, dead := b.CheckDeath(f, at(2020, time.August, 3, 14))
	if !dead || cause != components.NaturalDeath {
		t.Errorf("expected natural death, got dead=%v cause=%v", dead, cause)
	}
}

func TestMortalityCertainAtMaxAge(t *testing.T) {
	cfg := testConfig().Fox.Mortality
	s := NewSampler(8)
	now := at(2020, time.January, 1, 1)

	for i := 0; i < 100; i++ {
		f := &components.Fox{Age: cfg.MaxAge}
		ScheduleMortality(f, now, s, cfg)
		if f.MortalityRate != 1 {
			t.Fatalf("expected rate 1 at max age, got %v", f.MortalityRate)
		}
		if f.DeathAt.IsZero() || !f.DeathAt.After(now) || f.DeathAt.Year() != 2020 {
			t.Fatalf("death %v not scheduled later this year", f.DeathAt)
		}
	}

	if young, old := AnnualMortality(0.1, 1, cfg), AnnualMortality(0.1, 5, cfg); old <= young {
		t.Errorf("expected risk to grow with age: %v vs %v", young, old)
	}
}

func TestReproductionNeedsMaleNearDen(t *testing.T) {
	cfg := testConfig()
	cfg.Fox.Movement.RestChance = 1
	g := NewBlankGrid(20, 20, components.Grass)
	den := components.Pos{X: 10, Y: 10}
	b := NewFoxBehavior(cfg, NewSampler(3))
	noon := at(2020, time.January, 20, 12)

	female := func() *components.Fox {
		f := lonelyFox(g, den)
		f.Sex = components.Female
		f.MaturityMonths = 10
		return f
	}

	alone := female()
	b.Step(alone, noon, &Surroundings{Grid: g, Males: NewOccupancy(20, 20)})
	if alone.Pregnant {
		t.Error("pregnant without a male")
	}

	males := NewOccupancy(20, 20)
	males.Insert(ecs.Entity{}, den.Add(1, -1))
	mated := female()
	b.Step(mated, noon, &Surroundings{Grid: g, Males: males})
	if !mated.Pregnant || !mated.PregnantThisYear {
		t.Fatal("expected pregnancy with a male beside the den")
	}
	if mated.GestationDaysLeft < 50 || mated.GestationDaysLeft > 52 {
		t.Errorf("gestation %d outside [50,52]", mated.GestationDaysLeft)
	}

	leapDay := female()
	b.Step(leapDay, at(2020, time.February, 29, 12), &Surroundings{Grid: g, Males: males})
	if !leapDay.Pregnant {
		t.Error("Feb 29 belongs to the mating window")
	}

	march := female()
	b.Step(march, at(2020, time.March, 1, 12), &Surroundings{Grid: g, Males: males})
	if march.Pregnant {
		t.Error("pregnant after February")
	}

	summer := female()
	b.Step(summer, at(2020, time.June, 20, 12), &Surroundings{Grid: g, Males: males})
	if summer.Pregnant {
		t.Error("pregnant outside the mating window")
	}

	again := female()
	again.PregnantThisYear = true
	b.Step(again, noon, &Surroundings{Grid: g, Males: males})
	if again.Pregnant {
		t.Error("pregnant twice in one year")
	}
}

func TestBirthCountdown(t *testing.T) {
	cfg := testConfig()
	cfg.Fox.Reproduction.LitterSize = config.Fixed(4)
	g := NewBlankGrid(20, 20, components.Grass)
	f := lonelyFox(g, components.Pos{X: 10, Y: 10})
	f.Sex = components.Female
	f.Pregnant = true
	f.GestationDaysLeft = 2
	b := NewFoxBehavior(cfg, NewSampler(3))

	// Countdown runs only at hour 0
	b.Step(f, at(2020, time.April, 1, 5), &Surroundings{Grid: g})
	if f.GestationDaysLeft != 2 {
		t.Fatalf("countdown moved outside hour 0: %d", f.GestationDaysLeft)
	}
	if eff := b.Step(f, at(2020, time.April, 2, 0), &Surroundings{Grid: g}); len(eff) != 0 {
		t.Fatalf("unexpected effects %v", eff)
	}

	var births []Birth
	for _, e := range b.Step(f, at(2020, time.April, 3, 0), &Surroundings{Grid: g}) {
		if birth, ok := e.(Birth); ok {
			births = append(births, birth)
		}
	}
	if len(births) != 1 || births[0].Litter != 4 {
		t.Fatalf("expected one litter of 4, got %v", births)
	}
	if f.Pregnant {
		t.Error("expected pregnancy cleared after birth")
	}
}

func TestDispersalWithoutCandidateStillMarksDispersed(t *testing.T) {
	cfg := testConfig()
	cfg.Fox.Movement.HighActivity = config.Fixed(0)
	g := NewBlankGrid(30, 30, components.Grass)
	den := components.Pos{X: 10, Y: 10}
	g.SetObject(den, components.FoxDen)

	f := lonelyFox(g, den)
	f.Dispersed = false
	f.BirthDate = at(2020, time.April, 1, 0)
	f.DispersalDistance = 20
	now := at(2020, time.November, 1, 0)
	f.DispersalDay = now.YearDay()

	effects := NewFoxBehavior(cfg, NewSampler(1)).Step(f, now, &Surroundings{Grid: g})
	for _, e := range effects {
		if _, ok := e.(Dispersal); ok {
			t.Error("dispersed without a candidate den")
		}
	}
	if !f.Dispersed {
		t.Error("expected fox marked dispersed even without a candidate")
	}
	if f.Den != den {
		t.Errorf("den changed to %v", f.Den)
	}
}

func TestDispersalMovesDen(t *testing.T) {
	cfg := testConfig()
	cfg.Fox.Movement.HighActivity = config.Fixed(0)
	g := NewBlankGrid(30, 30, components.Grass)
	den := components.Pos{X: 10, Y: 10}
	target := components.Pos{X: 18, Y: 10}
	far := components.Pos{X: 29, Y: 29}
	g.SetObject(den, components.FoxDen)
	g.SetObject(target, components.FoxDen)
	g.SetObject(far, components.FoxDen)

	f := lonelyFox(g, den)
	f.Dispersed = false
	f.BirthDate = at(2020, time.April, 1, 0)
	f.DispersalDistance = 10
	now := at(2020, time.November, 1, 0)
	f.DispersalDay = now.YearDay()

	var moved *Dispersal
	for _, e := range NewFoxBehavior(cfg, NewSampler(1)).Step(f, now, &Surroundings{Grid: g}) {
		if d, ok := e.(Dispersal); ok {
			moved = &d
		}
	}
	if moved == nil {
		t.Fatal("expected a dispersal effect")
	}
	if moved.From != den || moved.To != target {
		t.Errorf("expected %v -> %v, got %v -> %v", den, target, moved.From, moved.To)
	}
	if f.Den != target || f.Position != target || !f.HomeRange.Contains(target) {
		t.Error("den, position and home range should follow the new den")
	}
}

func TestDispersalSkipsYoungFoxes(t *testing.T) {
	cfg := testConfig()
	cfg.Fox.Movement.HighActivity = config.Fixed(0)
	g := NewBlankGrid(30, 30, components.Grass)
	den := components.Pos{X: 10, Y: 10}
	g.SetObject(components.Pos{X: 14, Y: 10}, components.FoxDen)

	f := lonelyFox(g, den)
	f.Dispersed = false
	now := at(2020, time.June, 1, 0)
	f.BirthDate = now.AddDate(0, -2, 0)
	f.DispersalDistance = 10
	f.DispersalDay = now.YearDay()

	NewFoxBehavior(cfg, NewSampler(1)).Step(f, now, &Surroundings{Grid: g})
	if f.Dispersed {
		t.Error("a two-month-old cub should not disperse")
	}
}

func TestDispersalCandidatesRespectWaterAndDistance(t *testing.T) {
	g := NewBlankGrid(20, 5, components.Grass)
	for y := 0; y < 5; y++ {
		g.SetTerrain(components.Pos{X: 10, Y: y}, components.Water)
	}
	own := components.Pos{X: 2, Y: 2}
	near := components.Pos{X: 6, Y: 2}
	across := components.Pos{X: 12, Y: 2}
	for _, p := range []components.Pos{own, near, across} {
		g.SetObject(p, components.FoxDen)
	}

	got := DispersalCandidates(g, own, own, 30)
	if len(got) != 1 || got[0] != near {
		t.Errorf("expected only %v, got %v", near, got)
	}
	if got := DispersalCandidates(g, own, own, 3); len(got) != 0 {
		t.Errorf("expected no candidates within 3 steps, got %v", got)
	}
}

func TestDispersalDayWraps(t *testing.T) {
	cfg := config.DispersalConfig{AnchorDay: 360, DayOffset: config.Fixed(10)}
	if got := DispersalDay(NewSampler(1), cfg); got != 5 {
		t.Errorf("expected day 5 after wrapping, got %d", got)
	}
}
