package telemetry

import (
	"strconv"
	"strings"
)

var numericFields = map[StatField]bool{
	FieldLevel:         true,
	FieldHealth:        true,
	FieldHealthMax:     true,
	FieldPSP:           true,
	FieldPSPMax:        true,
	FieldMovement:      true,
	FieldMovementMax:   true,
	FieldExperience:    true,
	FieldExperienceTNL: true,
}

var stringFields = map[StatField]bool{
	FieldName:     true,
	FieldClass:    true,
	FieldRace:     true,
	FieldPosition: true,
}

// Decode normalizes one wire key/value pair into a Notification. It never
// fails: malformed sub-fields fall back to zero values and unrecognized keys
// come back as KindUnknown for the caller to log.
func Decode(key string, value any) Notification {
	key = strings.ToUpper(strings.TrimSpace(key))

	field := StatField(key)
	switch {
	case numericFields[field]:
		n, ok := asInt(value)
		if !ok {
			return Notification{Kind: KindUnknown, RawKey: key}
		}
		return Notification{Kind: KindStat, Stat: &StatUpdate{Field: field, Number: n, Numeric: true}}
	case stringFields[field]:
		return Notification{Kind: KindStat, Stat: &StatUpdate{Field: field, Text: asString(value)}}
	}

	switch key {
	case "ROOM":
		return Notification{Kind: KindRoom, Room: decodeRoom(value)}
	case "AFFECTS":
		return Notification{Kind: KindAffects, Affects: decodeAffects(value)}
	case "GROUP":
		return Notification{Kind: KindGroup, Group: decodeGroup(value)}
	}

	return Notification{Kind: KindUnknown, RawKey: key}
}

func decodeRoom(value any) *RoomUpdate {
	table, _ := value.(map[string]any)
	room := &RoomUpdate{Exits: map[Direction]int{}}
	if table == nil {
		return room
	}

	room.Vnum, _ = asInt(table["VNUM"])
	room.Name = asString(table["NAME"])
	room.Area = asString(table["AREA"])
	room.Terrain = asString(table["TERRAIN"])

	if coords, ok := table["COORDS"].(map[string]any); ok {
		x, okX := asInt(coords["X"])
		y, okY := asInt(coords["Y"])
		z, okZ := asInt(coords["Z"])
		room.Coords.X, room.Coords.Y, room.Coords.Z = x, y, z
		// Identity needs the full triple; partial axes are display-only.
		room.Coords.Known = okX && okY && okZ
	}

	if exits, ok := table["EXITS"].(map[string]any); ok {
		for name, target := range exits {
			dir, ok := NormalizeDirection(name)
			if !ok {
				continue
			}
			vnum, _ := asInt(target)
			room.Exits[dir] = vnum
		}
	}

	return room
}

func decodeAffects(value any) []Affect {
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	seen := map[string]int{}
	var out []Affect
	for _, entry := range list {
		table, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name := asString(table["NAME"])
		if name == "" {
			continue
		}
		duration, _ := asInt(table["DURATION"])
		modifier, _ := asInt(table["MODIFIER"])
		aff := Affect{Name: name, Duration: duration, Modifier: modifier}
		if i, dup := seen[name]; dup {
			out[i] = aff
			continue
		}
		seen[name] = len(out)
		out = append(out, aff)
	}
	return out
}

func decodeGroup(value any) []GroupMember {
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	var out []GroupMember
	for _, entry := range list {
		table, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name := asString(table["NAME"])
		if name == "" {
			continue
		}
		health, _ := asInt(table["HEALTH"])
		movement, _ := asInt(table["MOVEMENT"])
		leader, _ := asInt(table["IS_LEADER"])
		out = append(out, GroupMember{
			Name:            name,
			HealthPercent:   health,
			MovementPercent: movement,
			Leader:          leader != 0,
		})
	}
	return out
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	}
	return ""
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}
