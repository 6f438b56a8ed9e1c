package atlas

import (
	"container/heap"
	"errors"

	"github.com/LuminariMUD/LuminariGUI-sub002/internal/telemetry"
)

// ErrNotFound means the destination is unreachable in the currently known
// graph. Expected outcome, not a failure.
var ErrNotFound = errors.New("atlas: no known path")

// Hop is one step of a computed route.
type Hop struct {
	Direction telemetry.Direction
	To        Key
}

// Path is an ordered route from a source to a destination. Speculative paths
// cross stub edges and may fail in execution.
type Path struct {
	Hops        []Hop
	Speculative bool
}

func (p Path) Len() int {
	return len(p.Hops)
}

// FindPath computes the cheapest route over confirmed edges only. Ties between
// equal-cost routes break toward the lexically smallest direction sequence, so
// repeated calls on an identical graph return the identical path.
func (g *Graph) FindPath(src, dst Key) (Path, error) {
	return g.search(src, dst, false)
}

// FindPathSpeculative retries the search with stub edges included. The result
// is flagged; callers must be ready for a stub hop to fail. Only worth calling
// after FindPath returned ErrNotFound.
func (g *Graph) FindPathSpeculative(src, dst Key) (Path, error) {
	path, err := g.search(src, dst, true)
	if err != nil {
		return path, err
	}
	path.Speculative = true
	return path, nil
}

type searchNode struct {
	key    Key
	cost   int
	order  int
	parent *searchNode
	via    telemetry.Direction
	index  int
}

type searchHeap []*searchNode

func (h searchHeap) Len() int { return len(h) }

func (h searchHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	return h[i].order < h[j].order
}

func (h searchHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *searchHeap) Push(x any) {
	n := x.(*searchNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *searchHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*h = old[:len(old)-1]
	return n
}

// search runs uniform-cost search (Dijkstra; plain BFS order when all costs
// are 1). Neighbors expand in sorted direction order and the heap breaks cost
// ties by insertion order, which together make results deterministic.
func (g *Graph) search(src, dst Key, includeStubs bool) (Path, error) {
	src, ok := g.Canonical(src)
	if !ok {
		return Path{}, ErrNotFound
	}
	dst, ok = g.Canonical(dst)
	if !ok {
		return Path{}, ErrNotFound
	}
	if src == dst {
		return Path{}, nil
	}

	open := &searchHeap{}
	heap.Init(open)
	seq := 0
	heap.Push(open, &searchNode{key: src, order: seq})
	visited := map[Key]bool{}

	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		if current.key == dst {
			return assemble(current), nil
		}
		if visited[current.key] {
			continue
		}
		visited[current.key] = true

		node, ok := g.nodes[current.key]
		if !ok {
			// Stub target not yet discovered: dead end unless it was dst.
			continue
		}

		dirs := make([]telemetry.Direction, 0, len(node.Exits))
		for dir := range node.Exits {
			dirs = append(dirs, dir)
		}
		telemetry.SortDirections(dirs)

		for _, dir := range dirs {
			edge := node.Exits[dir]
			if edge.To == "" {
				continue
			}
			if edge.Stub && !includeStubs {
				continue
			}
			to, _ := g.Canonical(edge.To)
			if visited[to] {
				continue
			}
			cost := edge.Cost
			if cost <= 0 {
				cost = 1
			}
			seq++
			heap.Push(open, &searchNode{
				key:    to,
				cost:   current.cost + cost,
				order:  seq,
				parent: current,
				via:    dir,
			})
		}
	}

	return Path{}, ErrNotFound
}

func assemble(end *searchNode) Path {
	var hops []Hop
	for n := end; n.parent != nil; n = n.parent {
		hops = append(hops, Hop{Direction: n.via, To: n.key})
	}
	for i, j := 0, len(hops)-1; i < j; i, j = i+1, j-1 {
		hops[i], hops[j] = hops[j], hops[i]
	}
	return Path{Hops: hops}
}
