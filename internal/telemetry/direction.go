package telemetry

import (
	"sort"
	"strings"
)

// Direction is a normalized short-form movement direction ("n", "sw", "u", ...).
type Direction string

const (
	North     Direction = "n"
	East      Direction = "e"
	South     Direction = "s"
	West      Direction = "w"
	NorthEast Direction = "ne"
	NorthWest Direction = "nw"
	SouthEast Direction = "se"
	SouthWest Direction = "sw"
	Up        Direction = "u"
	Down      Direction = "d"
)

var longNames = map[Direction]string{
	North:     "north",
	East:      "east",
	South:     "south",
	West:      "west",
	NorthEast: "northeast",
	NorthWest: "northwest",
	SouthEast: "southeast",
	SouthWest: "southwest",
	Up:        "up",
	Down:      "down",
}

var shortNames = func() map[string]Direction {
	m := make(map[string]Direction, len(longNames)*2)
	for short, long := range longNames {
		m[string(short)] = short
		m[long] = short
	}
	return m
}()

// NormalizeDirection maps long or short direction names onto the closed short
// form. Unrecognized names return ok=false.
func NormalizeDirection(name string) (Direction, bool) {
	d, ok := shortNames[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// Command returns the long-form text sent to the game to move this way.
func (d Direction) Command() string {
	if long, ok := longNames[d]; ok {
		return long
	}
	return string(d)
}

// SortDirections orders directions lexically by short name, in place.
// Pathfinding relies on this for deterministic tie-breaking.
func SortDirections(dirs []Direction) {
	sort.Slice(dirs, func(i, j int) bool { return dirs[i] < dirs[j] })
}
