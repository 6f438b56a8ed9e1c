// Package session runs the single logical thread of control: every inbound
// telemetry notification, timer callback and external query is posted onto one
// dispatch queue and handled in arrival order. A room change and its map-graph
// and speedwalk reactions complete before the next event is looked at, which
// is what lets the graph be read without locks.
package session

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/LuminariMUD/LuminariGUI-sub002/internal/atlas"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/debug"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/speedwalk"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/telemetry"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/world"
)

// EventKind tags events delivered to the presentation layer.
type EventKind string

const (
	// EventStateUpdated means some reconciled state changed; re-read and redraw.
	EventStateUpdated EventKind = "state_updated"
	// EventWalkFinished carries the terminal result of a speedwalk.
	EventWalkFinished EventKind = "walk_finished"
	// EventDiagnostic carries a human-readable notice.
	EventDiagnostic EventKind = "diagnostic"
)

// Event is what the presentation sink observes. Long-running work (the walk
// itself) is reported here, never by blocking a query.
type Event struct {
	Kind    EventKind
	Walk    *speedwalk.Result
	Message string
}

// WalkStatus is the immediate outcome of a WalkTo query.
type WalkStatus string

const (
	WalkPending         WalkStatus = "pending"
	WalkAlreadyThere    WalkStatus = "already there"
	WalkNotFound        WalkStatus = "no known path"
	WalkUnknownLocation WalkStatus = "current location unknown"
	WalkBusy            WalkStatus = "walk already in progress"
)

// Session owns the world model, the map graph and the speedwalk executor.
// External callers interact through the query methods; all state lives on the
// loop goroutine.
type Session struct {
	model *world.Model
	graph *atlas.Graph
	exec  *speedwalk.Executor

	sink   speedwalk.CommandSink
	tracer trace.Tracer
	log    *debug.Logger

	queue  chan func()
	events chan Event
	done   chan struct{}
	stop   sync.Once

	pendingMove telemetry.Direction
	walkSpan    trace.Span
}

// New wires a Session. sink receives outbound command strings; tracer may be
// a no-op tracer.
func New(graph *atlas.Graph, sink speedwalk.CommandSink, log *debug.Logger, tracer trace.Tracer, bounds speedwalk.Bounds) *Session {
	s := &Session{
		graph:  graph,
		sink:   sink,
		tracer: tracer,
		log:    log,
		queue:  make(chan func(), 256),
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}

	s.model = world.NewModel(log)
	s.exec = speedwalk.NewExecutor(graph, moveSink{s}, s, s.onWalkResult, log, bounds)

	s.model.SubscribeRoomChanged(func(previous, current world.RoomSnapshot) {
		moved := s.pendingMove
		s.pendingMove = ""
		s.graph.Observe(previous, current, moved)
		s.exec.OnRoomChanged(previous, current)
		s.emit(Event{Kind: EventStateUpdated})
	})

	return s
}

// Start launches the dispatch loop.
func (s *Session) Start() {
	go s.loop()
}

// Stop tears the session down. Pending queue entries are discarded.
func (s *Session) Stop() {
	s.stop.Do(func() { close(s.done) })
}

// Events is the stream observed by the presentation sink.
func (s *Session) Events() <-chan Event {
	return s.events
}

func (s *Session) loop() {
	for {
		select {
		case fn := <-s.queue:
			fn()
		case <-s.done:
			return
		}
	}
}

func (s *Session) post(fn func()) {
	select {
	case s.queue <- fn:
	case <-s.done:
	}
}

// call posts fn and waits for the loop to run it. Must not be called from the
// loop goroutine itself.
func (s *Session) call(fn func()) {
	ran := make(chan struct{})
	s.post(func() {
		fn()
		close(ran)
	})
	select {
	case <-ran:
	case <-s.done:
	}
}

// After implements speedwalk.Scheduler: the callback is routed back through
// the dispatch queue so it runs serialized with everything else.
func (s *Session) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { s.post(fn) })
}

func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		s.log.Printf("session: dropping %s event, sink is not draining", ev.Kind)
	}
}

// HandleTelemetry posts one raw key/value pair for decoding and reconciliation.
func (s *Session) HandleTelemetry(key string, value any) {
	s.post(func() {
		n := telemetry.Decode(key, value)
		s.model.Apply(n)
		if n.Kind != telemetry.KindRoom && n.Kind != telemetry.KindUnknown {
			s.emit(Event{Kind: EventStateUpdated})
		}
	})
}

// Character, Room, Affects and Group are race-free reads of the latest
// reconciled state.
func (s *Session) Character() world.CharacterSnapshot { return s.model.Character() }
func (s *Session) Room() world.RoomSnapshot           { return s.model.Room() }
func (s *Session) Affects() []telemetry.Affect        { return s.model.Affects() }
func (s *Session) Group() []telemetry.GroupMember     { return s.model.Group() }

// WhereAmI answers the "where am I" query.
func (s *Session) WhereAmI() world.RoomSnapshot {
	return s.model.Room()
}

// Move sends a single manual movement command, recording the direction so the
// resulting room change can grow the graph.
func (s *Session) Move(dir telemetry.Direction) {
	s.post(func() {
		s.pendingMove = dir
		s.sink.SendCommand(dir.Command())
	})
}

// SendCommand forwards a raw non-movement command to the game.
func (s *Session) SendCommand(cmd string) {
	s.post(func() { s.sink.SendCommand(cmd) })
}

// WalkTo computes a route to the room with the given vnum and starts walking
// it. Returns immediately; progress and the terminal result arrive as events.
func (s *Session) WalkTo(vnum int) WalkStatus {
	var status WalkStatus
	s.call(func() { status = s.walkTo(vnum) })
	return status
}

func (s *Session) walkTo(vnum int) WalkStatus {
	if s.exec.Walking() {
		return WalkBusy
	}

	src, dest, status := s.resolveEndpoints(vnum)
	if status != WalkPending {
		return status
	}
	if src == dest {
		return WalkAlreadyThere
	}

	path, err := s.graph.FindPath(src, dest)
	if err != nil {
		path, err = s.graph.FindPathSpeculative(src, dest)
		if err != nil {
			return WalkNotFound
		}
		s.emit(Event{Kind: EventDiagnostic, Message: "route crosses unexplored exits; it may fail"})
	}

	_, span := s.tracer.Start(context.Background(), "speedwalk",
		trace.WithAttributes(
			attribute.String("walk.destination", string(dest)),
			attribute.Int("walk.hops", path.Len()),
			attribute.Bool("walk.speculative", path.Speculative),
		))
	s.walkSpan = span

	s.exec.Start(path, dest)
	return WalkPending
}

// PreviewPath computes a route without walking it.
func (s *Session) PreviewPath(vnum int) (atlas.Path, WalkStatus) {
	var path atlas.Path
	var status WalkStatus
	s.call(func() {
		src, dest, st := s.resolveEndpoints(vnum)
		if st != WalkPending {
			status = st
			return
		}
		if src == dest {
			status = WalkAlreadyThere
			return
		}
		var err error
		path, err = s.graph.FindPath(src, dest)
		if err != nil {
			path, err = s.graph.FindPathSpeculative(src, dest)
			if err != nil {
				status = WalkNotFound
				return
			}
		}
		status = WalkPending
	})
	return path, status
}

func (s *Session) resolveEndpoints(vnum int) (src, dest atlas.Key, status WalkStatus) {
	room := s.model.Room()
	src, ok := s.graph.Resolve(room)
	if !ok {
		return "", "", WalkUnknownLocation
	}
	dest, ok = s.graph.Resolve(world.RoomSnapshot{Vnum: vnum})
	if !ok {
		return "", "", WalkNotFound
	}
	return src, dest, WalkPending
}

// CancelWalk aborts the in-flight walk, if any.
func (s *Session) CancelWalk() {
	s.call(func() { s.exec.Cancel() })
}

// SaveMap snapshots the graph into the store, serialized with the loop.
func (s *Session) SaveMap(store *atlas.Store) error {
	var err error
	s.call(func() { err = store.Save(s.graph) })
	return err
}

func (s *Session) onWalkResult(r speedwalk.Result) {
	if s.walkSpan != nil {
		s.walkSpan.SetAttributes(
			attribute.String("walk.state", string(r.State)),
			attribute.String("walk.reason", string(r.Reason)),
			attribute.Int("walk.hops_walked", r.HopsWalked),
		)
		s.walkSpan.End()
		s.walkSpan = nil
	}
	result := r
	s.emit(Event{Kind: EventWalkFinished, Walk: &result})
}

// moveSink records the direction of each executor command before forwarding
// it, so the confirming room change carries the traversal direction into the
// graph.
type moveSink struct {
	s *Session
}

func (m moveSink) SendCommand(cmd string) {
	if dir, ok := telemetry.NormalizeDirection(cmd); ok {
		m.s.pendingMove = dir
	}
	m.s.sink.SendCommand(cmd)
}
