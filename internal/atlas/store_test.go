package atlas

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuminariMUD/LuminariGUI-sub002/internal/debug"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/telemetry"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/world"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "map.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g, a, _, c := lineGraph(t)

	// One stub exit to make sure the flag survives.
	node, _ := g.Node(c)
	g.claimExit(node, telemetry.East, vnumKey(99), 1, true)

	store := openTestStore(t)
	require.NoError(t, store.Save(g))

	loaded, err := store.Load(debug.NewLogger(false))
	require.NoError(t, err)

	assert.Equal(t, g.Len(), loaded.Len())

	path, err := loaded.FindPath(a, c)
	require.NoError(t, err)
	assert.Equal(t, 2, path.Len())

	restored, ok := loaded.Node(c)
	require.True(t, ok)
	east := restored.Exits[telemetry.East]
	require.NotNil(t, east)
	assert.True(t, east.Stub)
	assert.Equal(t, vnumKey(99), east.To)
}

// A loaded node must merge with live discovery exactly like a fresh one.
func TestLoadedNodesMergeWithLiveDiscovery(t *testing.T) {
	g := newTestGraph()
	named := world.RoomSnapshot{Name: "Hall", Area: "Keep", Exits: map[telemetry.Direction]int{}}
	g.Observe(world.RoomSnapshot{}, named, "")

	store := openTestStore(t)
	require.NoError(t, store.Save(g))

	loaded, err := store.Load(debug.NewLogger(false))
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Len())

	both := world.RoomSnapshot{Vnum: 4711, Name: "Hall", Area: "Keep", Exits: map[telemetry.Direction]int{}}
	loaded.Observe(world.RoomSnapshot{}, both, "")

	assert.Equal(t, 1, loaded.Len())
	node, ok := loaded.Node(vnumKey(4711))
	require.True(t, ok)
	assert.Equal(t, "Hall", node.Name)
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	store := openTestStore(t)

	g1, _, _, _ := lineGraph(t)
	require.NoError(t, store.Save(g1))

	g2 := newTestGraph()
	g2.Observe(world.RoomSnapshot{}, room(42, "Lonely"), "")
	require.NoError(t, store.Save(g2))

	loaded, err := store.Load(debug.NewLogger(false))
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
}
