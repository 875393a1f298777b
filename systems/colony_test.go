package systems

import (
	"errors"
	"testing"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

func corridorColony(t *testing.T, n int, mutate func(*config.AntsConfig)) (*Colony, *NodeField) {
	t.Helper()
	cfg := testConfig().Ants
	cfg.Colony.Source = [2]int{0, 0}
	cfg.Colony.Destination = [2]int{n - 1, 0}
	if mutate != nil {
		mutate(&cfg)
	}
	g := corridor(n)
	c, err := NewColony(g, cfg, NewSampler(21))
	if err != nil {
		t.Fatal(err)
	}
	return c, NewNodeField(g, cfg.Node)
}

func TestNewColonyRejectsOffPathEndpoints(t *testing.T) {
	cfg := testConfig().Ants
	cfg.Colony.Source = [2]int{0, 0}
	cfg.Colony.Destination = [2]int{4, 3}

	_, err := NewColony(corridor(10), cfg, NewSampler(1))
	if !errors.Is(err, ErrOffPath) {
		t.Errorf("expected ErrOffPath, got %v", err)
	}

	cfg.Colony.Destination = cfg.Colony.Source
	if _, err := NewColony(corridor(10), cfg, NewSampler(1)); err == nil {
		t.Error("expected error for identical endpoints")
	}
}

func TestColonyRefreshCadence(t *testing.T) {
	c, nodes := corridorColony(t, 60, func(cfg *config.AntsConfig) {
		cfg.Colony.PopulationSize = 10
		cfg.Colony.SpawnInterval = 5
	})

	r := c.Step(nodes)
	if !r.Refreshed || r.Generation != 1 || r.Ants != 10 {
		t.Fatalf("first step should spawn generation 1, got %+v", r)
	}
	for step := 2; step <= 5; step++ {
		r = c.Step(nodes)
		if r.Refreshed || r.Generation != 1 {
			t.Fatalf("step %d: unexpected refresh %+v", step, r)
		}
	}

	r = c.Step(nodes)
	if !r.Refreshed || r.Generation != 2 {
		t.Fatalf("step 6 should refresh, got %+v", r)
	}
	// Nobody can reach cell 59 in five steps, so the whole cohort is new.
	for _, a := range c.Ants() {
		if a.ID <= 10 {
			t.Errorf("ant %d survived a refresh without returning", a.ID)
		}
	}
	if len(c.Ants()) != 10 {
		t.Errorf("expected 10 ants, got %d", len(c.Ants()))
	}
}

func returningAnt(id components.AntID, pathLen int) *Ant {
	a := NewAnt(id, components.Pos{X: 59}, components.Pos{X: 0}, 500)
	a.Returning = true
	a.Position = components.Pos{X: 59}
	for x := 0; x < pathLen; x++ {
		a.ReturnPath = append(a.ReturnPath, components.Pos{X: x})
	}
	return a
}

func TestColonySelectionSlack(t *testing.T) {
	c, nodes := corridorColony(t, 60, func(cfg *config.AntsConfig) {
		cfg.Colony.PopulationSize = 10
		cfg.Colony.SelectionSlack = 1.2
	})
	c.ids.last = 4
	c.ants = []*Ant{returningAnt(1, 12), returningAnt(2, 10), returningAnt(3, 20), returningAnt(4, 11)}

	c.refresh(nodes)

	if len(c.BestPath) != 10 {
		t.Errorf("expected best path of 10, got %d", len(c.BestPath))
	}
	if c.retained != 2 {
		t.Errorf("expected 2 retained ants, got %d", c.retained)
	}
	kept := map[components.AntID]bool{}
	for _, a := range c.ants {
		kept[a.ID] = true
	}
	if !kept[2] || !kept[4] || kept[1] || kept[3] {
		t.Errorf("wrong survivors: %v", kept)
	}
	if len(c.ants) != 10 {
		t.Errorf("cohort should be topped up to 10, got %d", len(c.ants))
	}
}

func TestColonyRefreshWithoutReturnersKeepsBestPath(t *testing.T) {
	c, nodes := corridorColony(t, 60, nil)
	c.BestPath = []components.Pos{{X: 0}, {X: 1}}
	c.refresh(nodes)

	if len(c.BestPath) != 2 {
		t.Error("refresh without returning ants should keep the previous best path")
	}
	if c.retained != 0 {
		t.Errorf("expected no retained ants, got %d", c.retained)
	}
}

func TestColonyReleasesRetiredSlots(t *testing.T) {
	c, nodes := corridorColony(t, 8, func(cfg *config.AntsConfig) {
		cfg.Colony.PopulationSize = 3
		cfg.Colony.SpawnInterval = 1000
	})
	for i := 0; i < 3000; i++ {
		c.Step(nodes)
		held := 0
		for _, a := range c.Ants() {
			if a.Occupying {
				held++
			}
		}
		if nodes.Occupied() != held {
			t.Fatalf("step %d: %d slots occupied but %d ants hold one", i, nodes.Occupied(), held)
		}
	}
}

func TestColonyResyncAfterEdit(t *testing.T) {
	c, nodes := corridorColony(t, 12, func(cfg *config.AntsConfig) {
		cfg.Colony.PopulationSize = 6
		cfg.Colony.SpawnInterval = 1000
	})
	g := corridor(12)
	var blocked components.Pos
	found := false
	for i := 0; i < 200 && !found; i++ {
		c.Step(nodes)
		for _, a := range c.Ants() {
			if a.Occupying && a.Position != c.Source {
				blocked, found = a.Position, true
				break
			}
		}
	}
	if !found {
		t.Fatal("no ant left the source")
	}

	g.SetTerrain(blocked, components.Building)
	nodes.Rebuild(g)
	if removed := c.Resync(nodes); removed == 0 {
		t.Error("ants on the edited cell should be removed")
	}

	held := 0
	for _, a := range c.Ants() {
		if a.Position == blocked {
			t.Errorf("ant %d still on blocked cell %s", a.ID, blocked)
		}
		if a.Occupying {
			held++
		}
	}
	if nodes.Occupied() != held {
		t.Errorf("%d slots occupied but %d ants hold one", nodes.Occupied(), held)
	}
}
