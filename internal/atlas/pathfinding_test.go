package atlas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuminariMUD/LuminariGUI-sub002/internal/telemetry"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/world"
)

// lineGraph builds A -north-> B -north-> C with confirmed edges, returning
// the graph and the three keys.
func lineGraph(t *testing.T) (*Graph, Key, Key, Key) {
	t.Helper()
	g := newTestGraph()

	a := room(1, "A")
	b := room(2, "B")
	c := room(3, "C")
	g.Observe(world.RoomSnapshot{}, a, "")
	g.Observe(a, b, telemetry.North)
	g.Observe(b, c, telemetry.North)

	return g, vnumKey(1), vnumKey(2), vnumKey(3)
}

func TestFindPathTrivial(t *testing.T) {
	g, a, _, _ := lineGraph(t)

	path, err := g.FindPath(a, a)
	require.NoError(t, err)
	assert.Equal(t, 0, path.Len())
	assert.False(t, path.Speculative)
}

func TestFindPathLineGraph(t *testing.T) {
	g, a, b, c := lineGraph(t)

	path, err := g.FindPath(a, c)
	require.NoError(t, err)
	require.Equal(t, 2, path.Len())
	assert.Equal(t, telemetry.North, path.Hops[0].Direction)
	assert.Equal(t, b, path.Hops[0].To)
	assert.Equal(t, telemetry.North, path.Hops[1].Direction)
	assert.Equal(t, c, path.Hops[1].To)
}

func TestFindPathUnreachableThenConnected(t *testing.T) {
	g, _, _, _ := lineGraph(t)

	island := room(9, "Island")
	g.Observe(world.RoomSnapshot{}, island, "")

	_, err := g.FindPath(vnumKey(1), vnumKey(9))
	require.ErrorIs(t, err, ErrNotFound)

	// Discovering the connecting move makes the next call succeed.
	g.Observe(room(3, "C"), island, telemetry.East)

	path, err := g.FindPath(vnumKey(1), vnumKey(9))
	require.NoError(t, err)
	assert.Equal(t, 3, path.Len())
}

func TestFindPathUnknownEndpoints(t *testing.T) {
	g, a, _, _ := lineGraph(t)

	_, err := g.FindPath(a, vnumKey(404))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = g.FindPath(vnumKey(404), a)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindPathDeterministicTieBreak(t *testing.T) {
	g := newTestGraph()

	hub := room(1, "Hub")
	left := room(2, "Left")
	right := room(3, "Right")
	goal := room(4, "Goal")

	g.Observe(world.RoomSnapshot{}, hub, "")
	g.Observe(hub, left, telemetry.East)
	g.Observe(left, hub, telemetry.West)
	g.Observe(hub, right, telemetry.West)
	g.Observe(right, goal, telemetry.North)
	g.Observe(room(2, "Left"), goal, telemetry.North)

	// Two equal-cost routes: e,n and w,n. Lexical direction order picks e.
	for range 5 {
		path, err := g.FindPath(vnumKey(1), vnumKey(4))
		require.NoError(t, err)
		require.Equal(t, 2, path.Len())
		assert.Equal(t, telemetry.East, path.Hops[0].Direction)
	}
}

func TestStubsExcludedFromPrimarySearch(t *testing.T) {
	g := newTestGraph()

	a := room(1, "A")
	a.Exits[telemetry.North] = 2
	g.Observe(world.RoomSnapshot{}, a, "")
	g.Observe(world.RoomSnapshot{}, room(2, "B"), "")

	// The exit list stub was promoted by B's discovery, so it is usable...
	path, err := g.FindPath(vnumKey(1), vnumKey(2))
	require.NoError(t, err)
	assert.Equal(t, 1, path.Len())

	// ...but an unpromoted stub is not.
	c := room(3, "C")
	c.Exits[telemetry.South] = 7
	g.Observe(world.RoomSnapshot{}, c, "")
	_, err = g.FindPath(vnumKey(3), vnumKey(7))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSpeculativeSearchCrossesStubs(t *testing.T) {
	g := newTestGraph()

	a := room(1, "A")
	g.Observe(world.RoomSnapshot{}, a, "")

	b := room(2, "B")
	b.Exits[telemetry.North] = 3
	g.Observe(a, b, telemetry.North)
	g.Observe(world.RoomSnapshot{}, room(3, "C"), "")

	// Break the stub's promotion by pointing another stub at an unseen room.
	cur, _ := g.Node(vnumKey(3))
	g.claimExit(cur, telemetry.North, vnumKey(4), 1, true)
	g.Observe(world.RoomSnapshot{}, room(4, "D"), "")
	d, _ := g.Node(vnumKey(4))
	g.claimExit(d, telemetry.North, vnumKey(5), 1, true)
	g.Observe(world.RoomSnapshot{}, room(5, "E"), "")

	// All edges beyond B are promoted stubs now; break one on purpose.
	cur.Exits[telemetry.North].Stub = true

	_, err := g.FindPath(vnumKey(1), vnumKey(4))
	require.ErrorIs(t, err, ErrNotFound)

	path, err := g.FindPathSpeculative(vnumKey(1), vnumKey(4))
	require.NoError(t, err)
	assert.True(t, path.Speculative)
	assert.Equal(t, 3, path.Len())
}
