package systems

import (
	"container/heap"

	"github.com/pthm-cable/habitat/components"
)

// PathPlanner finds shortest routes over the connected edges of a node field.
// It is the yardstick ant-discovered paths are compared against.
type PathPlanner struct {
	nodes *NodeField

	// Reusable data structures (cleared between searches)
	openHeap *nodeHeap
	closed   []bool
	cameFrom []int
	gScore   []int
}

// astarNode is a node in the A* search.
type astarNode struct {
	id    int
	f     int // f = g + h (priority)
	index int // Heap index
}

// nodeHeap implements heap.Interface for the A* open set.
type nodeHeap []*astarNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

// NewPathPlanner creates a planner over nodes.
func NewPathPlanner(nodes *NodeField) *PathPlanner {
	w, h := nodes.GridSize()
	return &PathPlanner{
		nodes:    nodes,
		openHeap: &nodeHeap{},
		closed:   make([]bool, w*h),
		cameFrom: make([]int, w*h),
		gScore:   make([]int, w*h),
	}
}

// ShortestPath returns the cells from start to goal inclusive, or nil when
// goal cannot be reached over connected edges.
func (pp *PathPlanner) ShortestPath(start, goal components.Pos) []components.Pos {
	nf := pp.nodes
	if n := nf.At(start); n == nil || !n.Passable() {
		return nil
	}
	if n := nf.At(goal); n == nil || !n.Passable() {
		return nil
	}
	if start == goal {
		return []components.Pos{start}
	}

	// Clear reusable data structures
	*pp.openHeap = (*pp.openHeap)[:0]
	for i := range pp.closed {
		pp.closed[i] = false
		pp.cameFrom[i] = -1
		pp.gScore[i] = -1
	}

	startID := nf.index(start)
	goalID := nf.index(goal)
	pp.gScore[startID] = 0
	heap.Push(pp.openHeap, &astarNode{id: startID, f: start.Manhattan(goal)})

	for pp.openHeap.Len() > 0 {
		current := heap.Pop(pp.openHeap).(*astarNode)
		if pp.closed[current.id] {
			continue
		}
		if current.id == goalID {
			return pp.reconstructPath(goalID)
		}
		pp.closed[current.id] = true

		cur := pp.pos(current.id)
		for _, next := range nf.Neighbors(cur) {
			nid := nf.index(next)
			if pp.closed[nid] {
				continue
			}
			tentative := pp.gScore[current.id] + 1
			if g := pp.gScore[nid]; g >= 0 && tentative >= g {
				continue
			}
			pp.cameFrom[nid] = current.id
			pp.gScore[nid] = tentative
			// Stale duplicates are skipped when popped
			heap.Push(pp.openHeap, &astarNode{id: nid, f: tentative + next.Manhattan(goal)})
		}
	}

	// No path found
	return nil
}

// ShortestLength returns the number of cells on the shortest route, or 0.
func (pp *PathPlanner) ShortestLength(start, goal components.Pos) int {
	return len(pp.ShortestPath(start, goal))
}

func (pp *PathPlanner) reconstructPath(goalID int) []components.Pos {
	var path []components.Pos
	for id := goalID; id >= 0; id = pp.cameFrom[id] {
		path = append(path, pp.pos(id))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func (pp *PathPlanner) pos(id int) components.Pos {
	_, h := pp.nodes.GridSize()
	return components.Pos{X: id / h, Y: id % h}
}
