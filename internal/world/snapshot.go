package world

import "github.com/LuminariMUD/LuminariGUI-sub002/internal/telemetry"

// CharacterSnapshot holds the last reconciled character stats. Percentages are
// computed on read, never stored.
type CharacterSnapshot struct {
	Name          string
	Class         string
	Race          string
	Position      string
	Level         int
	Health        int
	HealthMax     int
	PSP           int
	PSPMax        int
	Movement      int
	MovementMax   int
	Experience    int
	ExperienceTNL int
}

func (c CharacterSnapshot) HealthPercent() int {
	return percent(c.Health, c.HealthMax)
}

func (c CharacterSnapshot) PSPPercent() int {
	return percent(c.PSP, c.PSPMax)
}

func (c CharacterSnapshot) MovementPercent() int {
	return percent(c.Movement, c.MovementMax)
}

func percent(value, max int) int {
	if max <= 0 {
		return 0
	}
	return value * 100 / max
}

// RoomSnapshot is the character's currently occupied location as last
// reported. It is replaced wholesale on each room notification.
type RoomSnapshot struct {
	Vnum    int
	Name    string
	Area    string
	Terrain string
	Coords  telemetry.Coords
	Exits   map[telemetry.Direction]int
}

// IsKnownLocation reports whether the server identified where the room is.
// Wilderness and noteleport zones report neither a vnum nor coordinates; they
// still replace the snapshot.
func (r RoomSnapshot) IsKnownLocation() bool {
	return r.Vnum != 0 || r.Coords.Known
}

// Mappable reports whether the room carries any identity the map graph can key
// on: vnum, coordinates, or at least a display name. Weaker than
// IsKnownLocation since a bare name is an identity of last resort.
func (r RoomSnapshot) Mappable() bool {
	return r.IsKnownLocation() || r.Name != ""
}

func (r RoomSnapshot) clone() RoomSnapshot {
	out := r
	out.Exits = make(map[telemetry.Direction]int, len(r.Exits))
	for dir, target := range r.Exits {
		out.Exits[dir] = target
	}
	return out
}

func roomFromUpdate(u *telemetry.RoomUpdate) RoomSnapshot {
	room := RoomSnapshot{
		Vnum:    u.Vnum,
		Name:    u.Name,
		Area:    u.Area,
		Terrain: u.Terrain,
		Coords:  u.Coords,
		Exits:   make(map[telemetry.Direction]int, len(u.Exits)),
	}
	for dir, target := range u.Exits {
		room.Exits[dir] = target
	}
	return room
}
