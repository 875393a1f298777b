package systems

import (
	"log/slog"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

// Group is a family of foxes sharing a den.
type Group struct {
	ID      components.GroupID
	Den     components.Pos
	Members []ecs.Entity
}

// Size returns the number of living members.
func (g *Group) Size() int { return len(g.Members) }

func (g *Group) remove(e ecs.Entity) {
	for i, m := range g.Members {
		if m == e {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			return
		}
	}
}

// FoxView is a copy of one fox's state taken at snapshot time.
type FoxView struct {
	Entity ecs.Entity
	Fox    components.Fox
}

// DeathRecord describes a fox removed during a step.
type DeathRecord struct {
	ID    components.FoxID
	Cause components.DeathCause
	Age   int
	Sex   components.Sex
	Pos   components.Pos
}

// TickReport summarizes what happened during one population step.
type TickReport struct {
	Deaths      []DeathRecord
	Litters     int
	Cubs        int
	LitterSizes []int // cubs per litter, in birth order
	Dispersals  int
}

// Population owns every fox, stored as entities in an ECS world, and the
// family groups they belong to.
type Population struct {
	world     *ecs.World
	foxMap    *ecs.Map1[components.Fox]
	foxFilter *ecs.Filter1[components.Fox]

	byID     map[components.FoxID]ecs.Entity
	groups   map[components.GroupID]*Group
	order    []components.GroupID // group creation order
	denGroup map[components.Pos]components.GroupID

	foxIDs   IDSequence
	groupIDs IDSequence

	grid     *Grid
	behavior *FoxBehavior
	rng      *Sampler
	cfg      *config.Config
	males    *Occupancy

	// Reusable snapshot buffer
	snapshot []ecs.Entity
}

// NewPopulation creates an empty population on grid g.
func NewPopulation(g *Grid, cfg *config.Config, s *Sampler) *Population {
	world := ecs.NewWorld()
	return &Population{
		world:     world,
		foxMap:    ecs.NewMap1[components.Fox](world),
		foxFilter: ecs.NewFilter1[components.Fox](world),
		byID:      make(map[components.FoxID]ecs.Entity),
		groups:    make(map[components.GroupID]*Group),
		denGroup:  make(map[components.Pos]components.GroupID),
		grid:      g,
		behavior:  NewFoxBehavior(cfg, s),
		rng:       s,
		cfg:       cfg,
		males:     NewOccupancy(g.Width(), g.Height()),
	}
}

// Behavior returns the fox state machine used by Step.
func (p *Population) Behavior() *FoxBehavior { return p.behavior }

// CreatePopulation founds one group per den. Each group holds a dominant
// male and female plus members of random sex; founders are adults that
// have already dispersed.
func (p *Population) CreatePopulation(dens []components.Pos, start time.Time) []components.GroupID {
	social := p.cfg.Fox.Social
	ids := make([]components.GroupID, 0, len(dens))
	for _, den := range dens {
		g := p.newGroup(den)
		ids = append(ids, g.ID)

		size := max(2, p.rng.DrawInt(social.GroupSize))
		for i := 0; i < size; i++ {
			sex := components.Male
			switch {
			case i == 1:
				sex = components.Female
			case i > 1 && p.rng.Chance(0.5):
				sex = components.Female
			}
			age := max(1, p.rng.DrawInt(social.FounderAge))
			f := p.spawn(g, sex, age, start.AddDate(-age, 0, 0), start)
			f.Dispersed = true
		}
		slog.Debug("group_founded", "group", g.ID, "den", den.String(), "size", size)
	}
	return ids
}

// AddFoxes creates n cubs at the parent's den in the parent's group.
func (p *Population) AddFoxes(parent components.FoxID, n int, date time.Time) []components.FoxID {
	e, ok := p.byID[parent]
	if !ok || !p.world.Alive(e) {
		return nil
	}
	pf := p.foxMap.Get(e)
	g, ok := p.groups[pf.GroupID]
	if !ok {
		return nil
	}
	den := pf.Den

	ids := make([]components.FoxID, 0, n)
	for i := 0; i < n; i++ {
		sex := components.Male
		if p.rng.Chance(0.5) {
			sex = components.Female
		}
		f := p.spawnAt(g, den, sex, 0, date, date)
		ids = append(ids, f.ID)
	}
	return ids
}

// RemoveFox removes a fox by identity. It returns false when the fox is
// already gone. Empty groups are dissolved.
func (p *Population) RemoveFox(id components.FoxID) bool {
	e, ok := p.byID[id]
	if !ok {
		return false
	}
	delete(p.byID, id)
	if !p.world.Alive(e) {
		return false
	}

	f := p.foxMap.Get(e)
	if g, ok := p.groups[f.GroupID]; ok {
		g.remove(e)
		if g.Size() == 0 {
			p.dissolve(g)
		}
	}
	p.world.RemoveEntity(e)
	return true
}

// Foxes returns a copy of every fox, group by group.
// The result is unaffected by later births, deaths or moves.
func (p *Population) Foxes() []FoxView {
	out := make([]FoxView, 0, len(p.byID))
	for _, gid := range p.order {
		g := p.groups[gid]
		for _, e := range g.Members {
			out = append(out, FoxView{Entity: e, Fox: *p.foxMap.Get(e)})
		}
	}
	return out
}

// Fox returns the live state of a fox, or nil when it is gone.
func (p *Population) Fox(id components.FoxID) *components.Fox {
	e, ok := p.byID[id]
	if !ok || !p.world.Alive(e) {
		return nil
	}
	return p.foxMap.Get(e)
}

// Len returns the number of living foxes.
func (p *Population) Len() int { return len(p.byID) }

// Groups returns the living groups in creation order.
func (p *Population) Groups() []*Group {
	out := make([]*Group, 0, len(p.order))
	for _, gid := range p.order {
		out = append(out, p.groups[gid])
	}
	return out
}

// Step advances every fox by one hour. Foxes are snapshotted first and
// effects are applied in iteration order once all foxes have stepped.
func (p *Population) Step(now time.Time, env *Surroundings) TickReport {
	p.snapshot = p.snapshot[:0]
	p.males.Clear()

	query := p.foxFilter.Query()
	for query.Next() {
		f := query.Get()
		e := query.Entity()
		p.snapshot = append(p.snapshot, e)
		if f.Sex == components.Male {
			p.males.Insert(e, f.Position)
		}
	}

	env.Males = p.males

	type pending struct {
		entity  ecs.Entity
		effects []Effect
	}
	var queue []pending
	for _, e := range p.snapshot {
		f := p.foxMap.Get(e)
		if effs := p.behavior.Step(f, now, env); len(effs) > 0 {
			queue = append(queue, pending{entity: e, effects: effs})
		}
	}

	var report TickReport
	for _, item := range queue {
		for _, eff := range item.effects {
			if !p.world.Alive(item.entity) {
				break
			}
			// Copy out: births add entities and may move component storage.
			f := *p.foxMap.Get(item.entity)
			switch eff := eff.(type) {
			case Death:
				rec := DeathRecord{ID: f.ID, Cause: eff.Cause, Age: f.Age, Sex: f.Sex, Pos: f.Position}
				if p.RemoveFox(f.ID) {
					report.Deaths = append(report.Deaths, rec)
					slog.Debug("fox_died", "id", rec.ID, "cause", rec.Cause.String(), "age", rec.Age)
				}
			case Birth:
				report.Litters++
				cubs := p.AddFoxes(f.ID, eff.Litter, now)
				report.Cubs += len(cubs)
				report.LitterSizes = append(report.LitterSizes, len(cubs))
				slog.Debug("litter_born", "mother", f.ID, "cubs", len(cubs))
			case Dispersal:
				p.regroup(item.entity, eff.To)
				report.Dispersals++
				slog.Debug("fox_dispersed", "id", f.ID, "from", eff.From.String(), "to", eff.To.String())
			}
		}
	}
	return report
}

// regroup moves a dispersed fox into the group denned at den, founding a
// new group when none lives there.
func (p *Population) regroup(e ecs.Entity, den components.Pos) {
	f := p.foxMap.Get(e)
	if old, ok := p.groups[f.GroupID]; ok {
		old.remove(e)
		if old.Size() == 0 {
			p.dissolve(old)
		}
	}

	g, ok := p.groups[p.denGroup[den]]
	if !ok {
		g = p.newGroup(den)
	}
	f.GroupID = g.ID
	g.Members = append(g.Members, e)
}

func (p *Population) newGroup(den components.Pos) *Group {
	g := &Group{ID: components.GroupID(p.groupIDs.Next()), Den: den}
	p.groups[g.ID] = g
	p.order = append(p.order, g.ID)
	if _, taken := p.denGroup[den]; !taken {
		p.denGroup[den] = g.ID
	}
	return g
}

func (p *Population) dissolve(g *Group) {
	delete(p.groups, g.ID)
	for i, id := range p.order {
		if id == g.ID {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	if p.denGroup[g.Den] == g.ID {
		delete(p.denGroup, g.Den)
	}
	slog.Debug("group_dissolved", "group", g.ID, "den", g.Den.String())
}

func (p *Population) spawn(g *Group, sex components.Sex, age int, birth, now time.Time) *components.Fox {
	return p.spawnAt(g, g.Den, sex, age, birth, now)
}

// spawnAt creates a fox at den with freshly drawn individual traits.
func (p *Population) spawnAt(g *Group, den components.Pos, sex components.Sex, age int, birth, now time.Time) *components.Fox {
	cfg := p.cfg.Fox
	f := components.Fox{
		ID:                components.FoxID(p.foxIDs.Next()),
		GroupID:           g.ID,
		Sex:               sex,
		Age:               age,
		BirthDate:         birth,
		Den:               den,
		Position:          den,
		HomeRange:         GenerateHomeRange(p.grid, den, p.rng, cfg.HomeRange),
		MaturityMonths:    p.rng.Draw(cfg.Reproduction.MaturityMonths),
		DispersalDistance: DispersalDistance(sex, p.rng, cfg.Dispersal),
		DispersalDay:      DispersalDay(p.rng, cfg.Dispersal),
	}
	ScheduleMortality(&f, now, p.rng, cfg.Mortality)

	e := p.foxMap.NewEntity(&f)
	p.byID[f.ID] = e
	g.Members = append(g.Members, e)
	return p.foxMap.Get(e)
}
