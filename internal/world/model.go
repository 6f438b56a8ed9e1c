package world

import (
	"sort"
	"sync"

	"github.com/LuminariMUD/LuminariGUI-sub002/internal/debug"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/telemetry"
)

// RoomChangedFunc receives the previous and the freshly installed room
// snapshot. Handlers run synchronously inside Apply, before the next
// notification can be processed.
type RoomChangedFunc func(previous, current RoomSnapshot)

// Model reconciles inbound telemetry into the current character, room, affect
// and group state. The session loop is the single writer; readers get copies.
type Model struct {
	mu        sync.RWMutex
	character CharacterSnapshot
	room      RoomSnapshot
	affects   map[string]telemetry.Affect
	group     []telemetry.GroupMember

	roomChanged []RoomChangedFunc
	log         *debug.Logger
}

func NewModel(log *debug.Logger) *Model {
	return &Model{
		affects: map[string]telemetry.Affect{},
		room:    RoomSnapshot{Exits: map[telemetry.Direction]int{}},
		log:     log,
	}
}

// SubscribeRoomChanged registers a handler for room replacements. Must be
// called before Apply sees traffic; there is no unsubscribe.
func (m *Model) SubscribeRoomChanged(fn RoomChangedFunc) {
	m.roomChanged = append(m.roomChanged, fn)
}

// Apply folds one notification into the model. It never fails: unrecognized
// keys are logged and dropped, and each field updates independently.
func (m *Model) Apply(n telemetry.Notification) {
	switch n.Kind {
	case telemetry.KindStat:
		m.applyStat(n.Stat)
	case telemetry.KindRoom:
		m.applyRoom(n.Room)
	case telemetry.KindAffects:
		m.applyAffects(n.Affects)
	case telemetry.KindGroup:
		m.applyGroup(n.Group)
	default:
		m.log.Printf("telemetry: ignoring unrecognized key %q", n.RawKey)
	}
}

func (m *Model) applyStat(stat *telemetry.StatUpdate) {
	if stat == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	switch stat.Field {
	case telemetry.FieldName:
		m.character.Name = stat.Text
	case telemetry.FieldClass:
		m.character.Class = stat.Text
	case telemetry.FieldRace:
		m.character.Race = stat.Text
	case telemetry.FieldPosition:
		m.character.Position = stat.Text
	case telemetry.FieldLevel:
		m.character.Level = stat.Number
	case telemetry.FieldHealth:
		m.character.Health = stat.Number
	case telemetry.FieldHealthMax:
		m.character.HealthMax = stat.Number
	case telemetry.FieldPSP:
		m.character.PSP = stat.Number
	case telemetry.FieldPSPMax:
		m.character.PSPMax = stat.Number
	case telemetry.FieldMovement:
		m.character.Movement = stat.Number
	case telemetry.FieldMovementMax:
		m.character.MovementMax = stat.Number
	case telemetry.FieldExperience:
		m.character.Experience = stat.Number
	case telemetry.FieldExperienceTNL:
		m.character.ExperienceTNL = stat.Number
	default:
		m.log.Printf("telemetry: ignoring unrecognized stat field %q", stat.Field)
	}
}

func (m *Model) applyRoom(update *telemetry.RoomUpdate) {
	if update == nil {
		return
	}

	m.mu.Lock()
	previous := m.room.clone()
	m.room = roomFromUpdate(update)
	current := m.room.clone()
	m.mu.Unlock()

	// Fan-out happens outside the lock: handlers read the model and mutate
	// the map graph, all on the single writer goroutine.
	for _, fn := range m.roomChanged {
		fn(previous, current)
	}
}

func (m *Model) applyAffects(affects []telemetry.Affect) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.affects = make(map[string]telemetry.Affect, len(affects))
	for _, aff := range affects {
		m.affects[aff.Name] = aff
	}
}

func (m *Model) applyGroup(group []telemetry.GroupMember) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.group = make([]telemetry.GroupMember, len(group))
	copy(m.group, group)
}

// Character returns the latest reconciled character stats.
func (m *Model) Character() CharacterSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.character
}

// Room returns the latest room snapshot.
func (m *Model) Room() RoomSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.room.clone()
}

// Affects returns the active condition tags, sorted by name.
func (m *Model) Affects() []telemetry.Affect {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]telemetry.Affect, 0, len(m.affects))
	for _, aff := range m.affects {
		out = append(out, aff)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Group returns the group roster in server order.
func (m *Model) Group() []telemetry.GroupMember {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]telemetry.GroupMember, len(m.group))
	copy(out, m.group)
	return out
}
