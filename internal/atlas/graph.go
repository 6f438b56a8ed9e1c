// Package atlas maintains the incrementally discovered map of the game world:
// one node per distinct room, directed edges per exit, built purely from the
// stream of confirmed room snapshots. Room identity prefers the protocol vnum;
// rooms sighted before their vnum is known get a fallback key from area and
// coordinates, or area and display name as a last resort. The name fallback
// can falsely merge duplicate-named rooms across an area; that limitation is
// inherited from the protocol and deliberately not papered over.
package atlas

import (
	"fmt"
	"sort"
	"strings"

	"github.com/LuminariMUD/LuminariGUI-sub002/internal/debug"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/telemetry"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/world"
)

// Key is a stable node identity. Never destroyed: when two keys are found to
// name the same room the subsumed key becomes an alias of the survivor.
type Key string

func vnumKey(vnum int) Key {
	return Key(fmt.Sprintf("vnum:%d", vnum))
}

func coordsKey(area string, c telemetry.Coords) Key {
	return Key(fmt.Sprintf("loc:%s:%d:%d:%d", area, c.X, c.Y, c.Z))
}

func nameKey(area, name string) Key {
	return Key("name:" + area + "\x1f" + name)
}

func isPrimary(k Key) bool {
	return strings.HasPrefix(string(k), "vnum:")
}

// Edge is a directed exit. To is empty while the target room identity is
// entirely unknown. Stub edges are known-to-exist exits not yet confirmed by
// traversal or by sighting the target room; they are excluded from the primary
// path search.
type Edge struct {
	To   Key
	Cost int
	Stub bool
}

// Node is one discovered room. Fields are enriched on re-sighting, never
// overwritten by unknown data.
type Node struct {
	Key     Key
	Vnum    int
	Name    string
	Area    string
	Terrain string
	Coords  telemetry.Coords
	Exits   map[telemetry.Direction]*Edge
}

// Graph owns the map. All mutation happens on the session loop goroutine;
// readers taking node pointers must treat them as snapshots and not mutate.
type Graph struct {
	nodes    map[Key]*Node
	byVnum   map[int]Key
	byCoords map[Key]Key
	byName   map[Key]Key
	aliases  map[Key]Key
	log      *debug.Logger
}

func NewGraph(log *debug.Logger) *Graph {
	return &Graph{
		nodes:    map[Key]*Node{},
		byVnum:   map[int]Key{},
		byCoords: map[Key]Key{},
		byName:   map[Key]Key{},
		aliases:  map[Key]Key{},
		log:      log,
	}
}

func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node for a key, following merge aliases.
func (g *Graph) Node(k Key) (*Node, bool) {
	k, ok := g.Canonical(k)
	if !ok {
		return nil, false
	}
	return g.nodes[k], true
}

// Keys returns every live node key in sorted order.
func (g *Graph) Keys() []Key {
	out := make([]Key, 0, len(g.nodes))
	for k := range g.nodes {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Canonical follows merge aliases to the surviving key for k.
func (g *Graph) Canonical(k Key) (Key, bool) {
	for {
		if _, ok := g.nodes[k]; ok {
			return k, true
		}
		next, ok := g.aliases[k]
		if !ok {
			return k, false
		}
		k = next
	}
}

// Resolve finds the node identity for a room snapshot, vnum first, then
// coordinates, then name. Pure lookup; Observe is the only creator.
func (g *Graph) Resolve(room world.RoomSnapshot) (Key, bool) {
	if room.Vnum != 0 {
		if k, ok := g.byVnum[room.Vnum]; ok {
			return g.Canonical(k)
		}
	}
	if room.Coords.Known {
		if k, ok := g.byCoords[coordsKey(room.Area, room.Coords)]; ok {
			return g.Canonical(k)
		}
	}
	if room.Name != "" {
		if k, ok := g.byName[nameKey(room.Area, room.Name)]; ok {
			return g.Canonical(k)
		}
	}
	return "", false
}

// Observe folds one confirmed room sighting into the graph. moved is the
// direction the mover actually walked from previous, or empty when unknown
// (teleport, login, loaded snapshot); it is supplied by whoever issued the
// move since telemetry does not report it. Safe to call at any time,
// including mid-speedwalk.
func (g *Graph) Observe(previous, current world.RoomSnapshot, moved telemetry.Direction) {
	if !current.Mappable() {
		return
	}

	node := g.upsert(current)

	for dir, targetVnum := range current.Exits {
		var to Key
		if targetVnum != 0 {
			to = vnumKey(targetVnum)
		}
		g.claimExit(node, dir, to, 1, true)
	}

	if moved != "" && previous.Mappable() {
		if prevKey, ok := g.Resolve(previous); ok {
			prevNode := g.nodes[prevKey]
			g.claimExit(prevNode, moved, node.Key, 1, false)
		}
	}
}

// upsert finds or creates the node for a sighting, merging any aliases the
// sighting newly ties together, and enriches stored fields.
func (g *Graph) upsert(room world.RoomSnapshot) *Node {
	var candidates []*Node
	if room.Vnum != 0 {
		if k, ok := g.byVnum[room.Vnum]; ok {
			if n, ok := g.Node(k); ok {
				candidates = append(candidates, n)
			}
		}
	}
	if room.Coords.Known {
		if k, ok := g.byCoords[coordsKey(room.Area, room.Coords)]; ok {
			if n, ok := g.Node(k); ok {
				candidates = append(candidates, n)
			}
		}
	}
	if room.Name != "" {
		if k, ok := g.byName[nameKey(room.Area, room.Name)]; ok {
			if n, ok := g.Node(k); ok {
				candidates = append(candidates, n)
			}
		}
	}

	var node *Node
	for _, c := range candidates {
		if node == nil {
			node = c
			continue
		}
		node = g.merge(node, c)
	}

	if node == nil {
		key := g.newKey(room)
		node = &Node{Key: key, Exits: map[telemetry.Direction]*Edge{}}
		g.nodes[key] = node
	}

	g.enrich(node, room)
	g.index(node)
	g.promoteStubs(node.Key)
	return node
}

func (g *Graph) newKey(room world.RoomSnapshot) Key {
	switch {
	case room.Vnum != 0:
		return vnumKey(room.Vnum)
	case room.Coords.Known:
		return coordsKey(room.Area, room.Coords)
	default:
		return nameKey(room.Area, room.Name)
	}
}

// enrich fills previously-unknown fields; known fields are never overwritten
// with unknown ones.
func (g *Graph) enrich(node *Node, room world.RoomSnapshot) {
	if node.Vnum == 0 {
		node.Vnum = room.Vnum
	}
	if node.Name == "" {
		node.Name = room.Name
	}
	if node.Area == "" {
		node.Area = room.Area
	}
	if node.Terrain == "" {
		node.Terrain = room.Terrain
	}
	if !node.Coords.Known {
		node.Coords = room.Coords
	}
}

// index registers every identity form of the node, both in the lookup tables
// and as key aliases, so a key synthesized from any identity (an exit claim
// naming a vnum, say) canonicalizes to the node.
func (g *Graph) index(node *Node) {
	if node.Vnum != 0 {
		g.byVnum[node.Vnum] = node.Key
		g.alias(vnumKey(node.Vnum), node.Key)
	}
	if node.Coords.Known {
		k := coordsKey(node.Area, node.Coords)
		g.byCoords[k] = node.Key
		g.alias(k, node.Key)
	}
	if node.Name != "" {
		k := nameKey(node.Area, node.Name)
		g.byName[k] = node.Key
		g.alias(k, node.Key)
	}
}

func (g *Graph) alias(from, to Key) {
	if from != to {
		g.aliases[from] = to
	}
}

// claimExit records a direction→target claim on a node. Conflicting claims
// prefer a primary-key target over a fallback-key target; equal-strength
// conflicts keep the first-seen target and log a diagnostic. A traversal
// claim (stub=false) confirms the edge.
func (g *Graph) claimExit(node *Node, dir telemetry.Direction, to Key, cost int, stub bool) {
	if to != "" {
		if canon, ok := g.Canonical(to); ok {
			to = canon
		}
	}

	edge, exists := node.Exits[dir]
	if !exists {
		node.Exits[dir] = &Edge{To: to, Cost: cost, Stub: stub && !g.targetConfirmed(to)}
		return
	}

	if to != "" && edge.To == "" {
		edge.To = to
	} else if to != "" && edge.To != to {
		switch {
		case isPrimary(to) && !isPrimary(edge.To):
			edge.To = to
		case isPrimary(edge.To) && !isPrimary(to):
			// keep existing
		default:
			g.log.Printf("atlas: conflicting exit claim %s %s -> %s (keeping %s)", node.Key, dir, to, edge.To)
		}
	}

	if !stub {
		edge.Stub = false
	} else if edge.Stub {
		edge.Stub = !g.targetConfirmed(edge.To)
	}
	if edge.Cost == 0 {
		edge.Cost = cost
	}
}

func (g *Graph) targetConfirmed(to Key) bool {
	if to == "" {
		return false
	}
	_, ok := g.Node(to)
	return ok
}

// promoteStubs confirms every stub edge whose target just came into existence
// (or just gained the identity the stub was waiting on).
func (g *Graph) promoteStubs(target Key) {
	for _, node := range g.nodes {
		for _, edge := range node.Exits {
			if !edge.Stub || edge.To == "" {
				continue
			}
			if canon, ok := g.Canonical(edge.To); ok && canon == target {
				edge.To = canon
				edge.Stub = false
			}
		}
	}
}

// merge unions two nodes discovered to denote the same room. The survivor is
// the one holding a primary key when exactly one does. Idempotent and
// order-independent: edge sets are unioned under the same conflict rules as
// claimExit, all inbound edges are rewritten, and the subsumed key becomes an
// alias.
func (g *Graph) merge(a, b *Node) *Node {
	if a == b {
		return a
	}

	winner, loser := a, b
	if isPrimary(b.Key) && !isPrimary(a.Key) {
		winner, loser = b, a
	}

	g.enrich(winner, world.RoomSnapshot{
		Vnum:    loser.Vnum,
		Name:    loser.Name,
		Area:    loser.Area,
		Terrain: loser.Terrain,
		Coords:  loser.Coords,
	})

	dirs := make([]telemetry.Direction, 0, len(loser.Exits))
	for dir := range loser.Exits {
		dirs = append(dirs, dir)
	}
	telemetry.SortDirections(dirs)
	for _, dir := range dirs {
		e := loser.Exits[dir]
		g.claimExit(winner, dir, e.To, e.Cost, e.Stub)
	}

	delete(g.nodes, loser.Key)
	g.aliases[loser.Key] = winner.Key

	for _, node := range g.nodes {
		for _, edge := range node.Exits {
			if edge.To == loser.Key {
				edge.To = winner.Key
			}
		}
	}

	if loser.Vnum != 0 {
		g.byVnum[loser.Vnum] = winner.Key
	}
	if loser.Coords.Known {
		g.byCoords[coordsKey(loser.Area, loser.Coords)] = winner.Key
	}
	if loser.Name != "" {
		g.byName[nameKey(loser.Area, loser.Name)] = winner.Key
	}

	g.index(winner)
	g.promoteStubs(winner.Key)
	return winner
}
