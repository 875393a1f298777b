package systems

import (
	"math"
	"slices"

	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

// VisitedHistory is an ordered set of cells bounded to a fixed size.
// Re-adding a cell moves it to the most recent end; the oldest cell is
// evicted once the bound is exceeded.
type VisitedHistory struct {
	limit int
	order []components.Pos
	set   map[components.Pos]struct{}
}

// NewVisitedHistory creates a history holding at most limit cells.
func NewVisitedHistory(limit int) *VisitedHistory {
	return &VisitedHistory{
		limit: max(limit, 1),
		order: make([]components.Pos, 0, min(limit, 64)),
		set:   make(map[components.Pos]struct{}),
	}
}

// Add records p as the most recent cell.
func (h *VisitedHistory) Add(p components.Pos) {
	if _, ok := h.set[p]; ok {
		if i := slices.Index(h.order, p); i >= 0 {
			h.order = slices.Delete(h.order, i, i+1)
		}
		h.order = append(h.order, p)
		return
	}
	h.set[p] = struct{}{}
	h.order = append(h.order, p)
	if len(h.order) > h.limit {
		delete(h.set, h.order[0])
		h.order = slices.Delete(h.order, 0, 1)
	}
}

// Contains reports whether p is remembered.
func (h *VisitedHistory) Contains(p components.Pos) bool {
	_, ok := h.set[p]
	return ok
}

// Len returns the number of remembered cells.
func (h *VisitedHistory) Len() int { return len(h.order) }

// Last returns the most recent cell.
func (h *VisitedHistory) Last() (components.Pos, bool) {
	if len(h.order) == 0 {
		return components.Pos{}, false
	}
	return h.order[len(h.order)-1], true
}

// Snapshot returns the cells oldest first.
func (h *VisitedHistory) Snapshot() []components.Pos {
	return slices.Clone(h.order)
}

// Reset forgets every cell.
func (h *VisitedHistory) Reset() {
	h.order = h.order[:0]
	clear(h.set)
}

// Ant is a round-trip forager. Outbound it follows pheromone toward its
// destination; on arrival it snapshots its history and retraces it.
type Ant struct {
	ID          components.AntID
	Source      components.Pos
	Destination components.Pos
	Position    components.Pos
	Previous    components.Pos
	Visited     *VisitedHistory

	Returning  bool
	Age        int     // Accepted moves
	Bonus      float64 // Extra deposit while returning
	ReturnPath []components.Pos
	Retraced   int
	ReadyToDie bool

	// Occupying is set once the ant holds a capacity slot on its node.
	// Freshly spawned ants wait at the source without one.
	Occupying bool
}

// NewAnt creates an outbound ant at source.
func NewAnt(id components.AntID, source, destination components.Pos, memory int) *Ant {
	a := &Ant{
		ID:          id,
		Source:      source,
		Destination: destination,
		Position:    source,
		Previous:    source,
		Visited:     NewVisitedHistory(memory),
	}
	a.Visited.Add(source)
	return a
}

// PathLength returns the length of the snapshot being retraced. The
// destination is not part of it, so it is one less than the cells the ant
// remembered on arrival and equals the moves needed to get back.
func (a *Ant) PathLength() int { return len(a.ReturnPath) }

// AntRouter runs the per-step state machine of ants.
type AntRouter struct {
	cfg config.AntConfig
	rng *Sampler
}

// NewAntRouter creates a router bound to a config and random source.
func NewAntRouter(cfg config.AntConfig, s *Sampler) *AntRouter {
	return &AntRouter{cfg: cfg, rng: s}
}

// Step advances a by at most one cell.
func (r *AntRouter) Step(a *Ant, nodes *NodeField) {
	if a.ReadyToDie {
		return
	}
	if a.Returning {
		r.stepReturn(a, nodes)
		return
	}
	r.stepOutbound(a, nodes)
}

func (r *AntRouter) stepOutbound(a *Ant, nodes *NodeField) {
	node := nodes.At(a.Position)
	if node == nil || !node.Passable() {
		// Stranded, e.g. its cell was painted over.
		a.ReadyToDie = true
		return
	}
	d, ok := r.chooseDirection(a, node)
	if !ok {
		return
	}
	off := d.Offset()
	if !r.moveTo(a, a.Position.Add(off.X, off.Y), nodes) {
		return
	}
	a.Visited.Add(a.Position)

	if a.Position == a.Destination {
		r.arrive(a)
	}
}

// arrive turns the ant around and freezes the path it will retrace.
func (r *AntRouter) arrive(a *Ant) {
	a.Source, a.Destination = a.Destination, a.Source
	a.Returning = true
	a.Bonus = r.cfg.DestinationBonus
	path := a.Visited.Snapshot()
	if n := len(path); n > 0 && path[n-1] == a.Position {
		path = path[:n-1]
	}
	a.ReturnPath = path
	a.Retraced = 0
}

func (r *AntRouter) stepReturn(a *Ant, nodes *NodeField) {
	if len(a.ReturnPath) == 0 {
		a.ReadyToDie = true
		return
	}
	next := a.ReturnPath[len(a.ReturnPath)-1-a.Retraced]
	if !r.moveTo(a, next, nodes) {
		return
	}
	a.Retraced++
	if a.Retraced >= len(a.ReturnPath) {
		a.Source, a.Destination = a.Destination, a.Source
		a.Bonus = 0
		a.ReadyToDie = true
	}
}

// moveTo claims capacity at to, frees the old slot and lays pheromone on the
// edge just crossed. Returns false when to is full.
func (r *AntRouter) moveTo(a *Ant, to components.Pos, nodes *NodeField) bool {
	from := a.Position
	amount := r.cfg.DepositK / math.Sqrt(float64(a.Age+1))
	if a.Returning {
		amount += a.Bonus
	}

	if a.Occupying {
		if !nodes.Transfer(from, to, amount) {
			return false
		}
	} else {
		if !nodes.Acquire(to) {
			return false
		}
		nodes.Deposit(from, to, amount)
		a.Occupying = true
	}

	a.Age++
	a.Previous = from
	a.Position = to
	return true
}

// chooseDirection picks the strongest connected edge, or a random one when
// exploring or when no trail is strong enough. A pick that turns back into
// the previous cell is redrawn at random for a bounded number of retries
// whenever another edge exists.
func (r *AntRouter) chooseDirection(a *Ant, node *Node) (Direction, bool) {
	var options [4]Direction
	n := 0
	best := -1.0
	var ties [4]Direction
	nt := 0
	for d := range 4 {
		if !node.Connected[d] {
			continue
		}
		options[n] = Direction(d)
		n++
		v := node.Pheromone[d]
		switch {
		case v > best:
			best = v
			ties[0] = Direction(d)
			nt = 1
		case v == best:
			ties[nt] = Direction(d)
			nt++
		}
	}
	if n == 0 {
		return 0, false
	}

	var d Direction
	if r.rng.Chance(r.cfg.ExplorationChance) || best < r.cfg.ExploreThreshold {
		d = options[r.rng.IntN(n)]
	} else {
		d = ties[r.rng.IntN(nt)]
	}
	for try := 0; try < r.cfg.ReverseRetries && n > 1 && r.leadsTo(a.Position, d) == a.Previous; try++ {
		d = options[r.rng.IntN(n)]
	}
	return d, true
}

func (r *AntRouter) leadsTo(p components.Pos, d Direction) components.Pos {
	off := d.Offset()
	return p.Add(off.X, off.Y)
}
