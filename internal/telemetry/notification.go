package telemetry

// Kind discriminates the telemetry notification families.
type Kind string

const (
	KindStat    Kind = "stat"
	KindRoom    Kind = "room"
	KindAffects Kind = "affects"
	KindGroup   Kind = "group"
	KindUnknown Kind = "unknown"
)

// StatField names a single character/status field carried by a stat notification.
type StatField string

const (
	FieldName          StatField = "CHARACTER_NAME"
	FieldLevel         StatField = "LEVEL"
	FieldClass         StatField = "CLASS"
	FieldRace          StatField = "RACE"
	FieldPosition      StatField = "POSITION"
	FieldHealth        StatField = "HEALTH"
	FieldHealthMax     StatField = "HEALTH_MAX"
	FieldPSP           StatField = "PSP"
	FieldPSPMax        StatField = "PSP_MAX"
	FieldMovement      StatField = "MOVEMENT"
	FieldMovementMax   StatField = "MOVEMENT_MAX"
	FieldExperience    StatField = "EXPERIENCE"
	FieldExperienceTNL StatField = "EXPERIENCE_TNL"
)

// StatUpdate is one reconciled character field. Numeric fields carry Number,
// string fields carry Text; Numeric tells the reader which one is live.
type StatUpdate struct {
	Field   StatField
	Number  int
	Text    string
	Numeric bool
}

// Coords is a world coordinate triple. Known is true only when all three axes
// were reported; a partial triple is kept for display but is not an identity.
type Coords struct {
	X, Y, Z int
	Known   bool
}

// RoomUpdate is the normalized "where am I now" payload. Vnum 0 means the
// server did not identify the room (wilderness, noteleport zones).
type RoomUpdate struct {
	Vnum    int
	Name    string
	Area    string
	Terrain string
	Coords  Coords
	// Exits maps direction to target room vnum, 0 when the target is unknown.
	Exits map[Direction]int
}

// Affect is one active condition tag.
type Affect struct {
	Name     string
	Duration int
	Modifier int
}

// GroupMember is one entry of the group roster, in server order.
type GroupMember struct {
	Name            string
	HealthPercent   int
	MovementPercent int
	Leader          bool
}

// Notification is the tagged union delivered to the world model. Exactly one
// payload pointer/slice is set, selected by Kind.
type Notification struct {
	Kind    Kind
	Stat    *StatUpdate
	Room    *RoomUpdate
	Affects []Affect
	Group   []GroupMember

	// RawKey preserves the wire key for diagnostics on KindUnknown.
	RawKey string
}
