package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LuminariMUD/LuminariGUI-sub002/internal/debug"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/telemetry"
)

func newTestModel() *Model {
	return NewModel(debug.NewLogger(false))
}

func stat(field telemetry.StatField, n int) telemetry.Notification {
	return telemetry.Notification{
		Kind: telemetry.KindStat,
		Stat: &telemetry.StatUpdate{Field: field, Number: n, Numeric: true},
	}
}

func roomNotification(vnum int, name string) telemetry.Notification {
	return telemetry.Notification{
		Kind: telemetry.KindRoom,
		Room: &telemetry.RoomUpdate{Vnum: vnum, Name: name, Exits: map[telemetry.Direction]int{}},
	}
}

func TestFieldsUpdateIndependently(t *testing.T) {
	m := newTestModel()

	m.Apply(stat(telemetry.FieldMovement, 55))
	m.Apply(stat(telemetry.FieldHealth, 100))
	m.Apply(roomNotification(3001, "Temple Square"))

	char := m.Character()
	assert.Equal(t, 55, char.Movement, "health and room updates must not clobber movement")
	assert.Equal(t, 100, char.Health)
	assert.Equal(t, 3001, m.Room().Vnum)
}

func TestRoomIsReplacedWholesale(t *testing.T) {
	m := newTestModel()

	m.Apply(telemetry.Notification{Kind: telemetry.KindRoom, Room: &telemetry.RoomUpdate{
		Vnum: 3001, Name: "Temple Square", Area: "Midgaard",
		Exits: map[telemetry.Direction]int{telemetry.North: 3002},
	}})
	m.Apply(roomNotification(3002, "Market Street"))

	room := m.Room()
	assert.Equal(t, 3002, room.Vnum)
	assert.Empty(t, room.Exits, "old exits must not survive replacement")
	assert.Empty(t, room.Area)
}

func TestRoomChangedFiresSynchronously(t *testing.T) {
	m := newTestModel()

	var got []RoomSnapshot
	m.SubscribeRoomChanged(func(previous, current RoomSnapshot) {
		got = append(got, previous, current)
	})

	m.Apply(roomNotification(3001, "Temple Square"))
	require.Len(t, got, 2, "handler runs before Apply returns")
	assert.Equal(t, 0, got[0].Vnum)
	assert.Equal(t, 3001, got[1].Vnum)
}

func TestUnknownRoomStillReplaces(t *testing.T) {
	m := newTestModel()

	m.Apply(roomNotification(3001, "Temple Square"))
	m.Apply(roomNotification(0, ""))

	room := m.Room()
	assert.False(t, room.IsKnownLocation())
	assert.Equal(t, 0, room.Vnum)
}

func TestUnrecognizedKeyIsIgnored(t *testing.T) {
	m := newTestModel()

	m.Apply(stat(telemetry.FieldHealth, 80))
	m.Apply(telemetry.Notification{Kind: telemetry.KindUnknown, RawKey: "WEATHER"})

	assert.Equal(t, 80, m.Character().Health)
}

func TestPercentagesComputedOnRead(t *testing.T) {
	m := newTestModel()

	m.Apply(stat(telemetry.FieldHealth, 30))
	assert.Equal(t, 0, m.Character().HealthPercent(), "no max yet")

	m.Apply(stat(telemetry.FieldHealthMax, 120))
	assert.Equal(t, 25, m.Character().HealthPercent())
}

func TestAffectsReplaceAndSort(t *testing.T) {
	m := newTestModel()

	m.Apply(telemetry.Notification{Kind: telemetry.KindAffects, Affects: []telemetry.Affect{
		{Name: "sanctuary", Duration: 5},
		{Name: "bless", Duration: 10},
	}})
	m.Apply(telemetry.Notification{Kind: telemetry.KindAffects, Affects: []telemetry.Affect{
		{Name: "bless", Duration: 9},
	}})

	affects := m.Affects()
	require.Len(t, affects, 1, "affect batches replace, expiry drops tags")
	assert.Equal(t, "bless", affects[0].Name)
	assert.Equal(t, 9, affects[0].Duration)
}

func TestGroupReplacedPerBatch(t *testing.T) {
	m := newTestModel()

	m.Apply(telemetry.Notification{Kind: telemetry.KindGroup, Group: []telemetry.GroupMember{
		{Name: "Aria", Leader: true},
		{Name: "Borin"},
	}})
	m.Apply(telemetry.Notification{Kind: telemetry.KindGroup, Group: []telemetry.GroupMember{
		{Name: "Borin", Leader: true},
	}})

	group := m.Group()
	require.Len(t, group, 1)
	assert.Equal(t, "Borin", group[0].Name)
	assert.True(t, group[0].Leader)
}
