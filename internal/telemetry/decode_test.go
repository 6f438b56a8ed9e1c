package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNumericStat(t *testing.T) {
	n := Decode("HEALTH", float64(120))
	require.Equal(t, KindStat, n.Kind)
	require.NotNil(t, n.Stat)
	assert.Equal(t, FieldHealth, n.Stat.Field)
	assert.Equal(t, 120, n.Stat.Number)
	assert.True(t, n.Stat.Numeric)
}

func TestDecodeNumericStatFromString(t *testing.T) {
	n := Decode("movement", " 80 ")
	require.Equal(t, KindStat, n.Kind)
	assert.Equal(t, FieldMovement, n.Stat.Field)
	assert.Equal(t, 80, n.Stat.Number)
}

func TestDecodeUnparsableNumberIsUnknown(t *testing.T) {
	n := Decode("HEALTH", "lots")
	assert.Equal(t, KindUnknown, n.Kind)
	assert.Equal(t, "HEALTH", n.RawKey)
}

func TestDecodeUnrecognizedKey(t *testing.T) {
	n := Decode("WEATHER", "raining")
	assert.Equal(t, KindUnknown, n.Kind)
	assert.Equal(t, "WEATHER", n.RawKey)
}

func TestDecodeRoom(t *testing.T) {
	n := Decode("ROOM", map[string]any{
		"VNUM":    float64(3001),
		"NAME":    "Temple Square",
		"AREA":    "Midgaard",
		"TERRAIN": "city",
		"COORDS":  map[string]any{"X": float64(4), "Y": float64(-2), "Z": float64(0)},
		"EXITS": map[string]any{
			"north": float64(3002),
			"e":     float64(0),
			"spin":  float64(9), // not a direction
		},
	})

	require.Equal(t, KindRoom, n.Kind)
	require.NotNil(t, n.Room)
	assert.Equal(t, 3001, n.Room.Vnum)
	assert.Equal(t, "Temple Square", n.Room.Name)
	assert.Equal(t, "Midgaard", n.Room.Area)
	assert.True(t, n.Room.Coords.Known)
	assert.Equal(t, 4, n.Room.Coords.X)
	assert.Equal(t, -2, n.Room.Coords.Y)
	assert.Equal(t, map[Direction]int{North: 3002, East: 0}, n.Room.Exits)
}

func TestDecodeRoomPartialCoordsAreNotAnIdentity(t *testing.T) {
	n := Decode("ROOM", map[string]any{
		"NAME":   "Windswept Ridge",
		"AREA":   "Highlands",
		"COORDS": map[string]any{"X": float64(5)},
	})

	require.Equal(t, KindRoom, n.Kind)
	require.NotNil(t, n.Room)
	assert.Equal(t, 5, n.Room.Coords.X)
	assert.False(t, n.Room.Coords.Known, "a lone axis must not become a zero-filled coordinate key")
}

func TestDecodeRoomDefaultsWhenMalformed(t *testing.T) {
	n := Decode("ROOM", "not a table")
	require.Equal(t, KindRoom, n.Kind)
	require.NotNil(t, n.Room)
	assert.Equal(t, 0, n.Room.Vnum)
	assert.False(t, n.Room.Coords.Known)
	assert.Empty(t, n.Room.Exits)
}

func TestDecodeAffectsCoalescesDuplicates(t *testing.T) {
	n := Decode("AFFECTS", []any{
		map[string]any{"NAME": "sanctuary", "DURATION": float64(5)},
		map[string]any{"NAME": "bless", "DURATION": float64(10)},
		map[string]any{"NAME": "sanctuary", "DURATION": float64(3)},
		map[string]any{"DURATION": float64(1)}, // nameless, dropped
	})

	require.Equal(t, KindAffects, n.Kind)
	require.Len(t, n.Affects, 2)
	assert.Equal(t, "sanctuary", n.Affects[0].Name)
	assert.Equal(t, 3, n.Affects[0].Duration, "later duplicate wins")
	assert.Equal(t, "bless", n.Affects[1].Name)
}

func TestDecodeGroupKeepsOrder(t *testing.T) {
	n := Decode("GROUP", []any{
		map[string]any{"NAME": "Aria", "HEALTH": float64(90), "MOVEMENT": float64(80), "IS_LEADER": float64(1)},
		map[string]any{"NAME": "Borin", "HEALTH": float64(40), "MOVEMENT": float64(100)},
	})

	require.Equal(t, KindGroup, n.Kind)
	require.Len(t, n.Group, 2)
	assert.Equal(t, "Aria", n.Group[0].Name)
	assert.True(t, n.Group[0].Leader)
	assert.Equal(t, "Borin", n.Group[1].Name)
	assert.False(t, n.Group[1].Leader)
}

func TestNormalizeDirection(t *testing.T) {
	for input, want := range map[string]Direction{
		"north": North, "N": North, "NORTH": North, "sw": SouthWest,
		"southwest": SouthWest, "up": Up, "d": Down,
	} {
		got, ok := NormalizeDirection(input)
		require.True(t, ok, input)
		assert.Equal(t, want, got)
	}

	_, ok := NormalizeDirection("widdershins")
	assert.False(t, ok)
}
