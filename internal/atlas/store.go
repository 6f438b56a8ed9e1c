package atlas

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/LuminariMUD/LuminariGUI-sub002/internal/debug"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/telemetry"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/world"
)

// Store persists the map graph between sessions. Loading feeds rooms through
// the same Observe/merge rules as live discovery, so a loaded node behaves
// exactly like a freshly discovered one.
type Store struct {
	db *sql.DB
}

func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map database: %w", err)
	}

	store := &Store{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rooms (
		key TEXT PRIMARY KEY,
		vnum INTEGER NOT NULL,
		name TEXT NOT NULL,
		area TEXT NOT NULL,
		terrain TEXT NOT NULL,
		has_coords INTEGER NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		z INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS exits (
		from_key TEXT NOT NULL,
		direction TEXT NOT NULL,
		to_key TEXT NOT NULL,
		cost INTEGER NOT NULL,
		stub INTEGER NOT NULL,
		PRIMARY KEY (from_key, direction)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save replaces the stored snapshot with the current graph.
func (s *Store) Save(g *Graph) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM rooms`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM exits`); err != nil {
		return err
	}

	for _, key := range g.Keys() {
		node := g.nodes[key]
		coords := 0
		if node.Coords.Known {
			coords = 1
		}
		_, err := tx.Exec(`
			INSERT INTO rooms (key, vnum, name, area, terrain, has_coords, x, y, z)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, string(key), node.Vnum, node.Name, node.Area, node.Terrain,
			coords, node.Coords.X, node.Coords.Y, node.Coords.Z)
		if err != nil {
			return err
		}

		dirs := make([]telemetry.Direction, 0, len(node.Exits))
		for dir := range node.Exits {
			dirs = append(dirs, dir)
		}
		telemetry.SortDirections(dirs)
		for _, dir := range dirs {
			edge := node.Exits[dir]
			stub := 0
			if edge.Stub {
				stub = 1
			}
			_, err := tx.Exec(`
				INSERT INTO exits (from_key, direction, to_key, cost, stub)
				VALUES (?, ?, ?, ?, ?)
			`, string(key), string(dir), string(edge.To), edge.Cost, stub)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// Load rebuilds a graph from the stored snapshot.
func (s *Store) Load(log *debug.Logger) (*Graph, error) {
	g := NewGraph(log)

	rows, err := s.db.Query(`SELECT key, vnum, name, area, terrain, has_coords, x, y, z FROM rooms`)
	if err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var room world.RoomSnapshot
		var coords int
		if err := rows.Scan(&key, &room.Vnum, &room.Name, &room.Area, &room.Terrain,
			&coords, &room.Coords.X, &room.Coords.Y, &room.Coords.Z); err != nil {
			return nil, err
		}
		room.Coords.Known = coords != 0
		g.Observe(world.RoomSnapshot{}, room, "")
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	exits, err := s.db.Query(`SELECT from_key, direction, to_key, cost, stub FROM exits`)
	if err != nil {
		return nil, fmt.Errorf("failed to load exits: %w", err)
	}
	defer exits.Close()

	for exits.Next() {
		var from, dir, to string
		var cost, stub int
		if err := exits.Scan(&from, &dir, &to, &cost, &stub); err != nil {
			return nil, err
		}
		node, ok := g.Node(Key(from))
		if !ok {
			log.Printf("atlas: stored exit from unknown room %s, skipping", from)
			continue
		}
		g.claimExit(node, telemetry.Direction(dir), Key(to), cost, stub != 0)
	}
	if err := exits.Err(); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
