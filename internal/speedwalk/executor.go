// Package speedwalk drives automated movement along a computed path: one
// command out, wait for the room-change confirming arrival, advance. It
// tolerates garbled confirmations by re-routing and missed ones by bounded
// re-sends, and never emits more than one terminal result per walk.
package speedwalk

import (
	"time"

	"github.com/google/uuid"

	"github.com/LuminariMUD/LuminariGUI-sub002/internal/atlas"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/debug"
	"github.com/LuminariMUD/LuminariGUI-sub002/internal/world"
)

// State of the executor. Terminal states are reported once in the Result and
// the executor immediately returns to Idle.
type State string

const (
	Idle      State = "idle"
	Walking   State = "walking"
	Succeeded State = "succeeded"
	Cancelled State = "cancelled"
	Failed    State = "failed"
)

// Reason explains a terminal state for the presentation layer.
type Reason string

const (
	ReasonArrived        Reason = "arrived"
	ReasonCancelled      Reason = "cancelled by user"
	ReasonDeviated       Reason = "re-route attempts exhausted"
	ReasonLostPath       Reason = "no known path from current room"
	ReasonNoConfirmation Reason = "no confirmation received"
)

// Result is the single terminal event of a walk.
type Result struct {
	WalkID      uuid.UUID
	State       State
	Reason      Reason
	Destination atlas.Key
	HopsWalked  int
}

// CommandSink receives outbound movement commands, one direction per call.
type CommandSink interface {
	SendCommand(cmd string)
}

// Scheduler posts fn back onto the session loop after d. Implemented with
// timers, never blocking waits.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Bounds caps the executor's recovery attempts.
type Bounds struct {
	ConfirmWait     time.Duration
	MaxSendAttempts int
	MaxReroutes     int
}

func DefaultBounds() Bounds {
	return Bounds{
		ConfirmWait:     5 * time.Second,
		MaxSendAttempts: 3,
		MaxReroutes:     3,
	}
}

// Executor owns the speedwalk state machine. All methods run on the session
// loop goroutine; timer callbacks are routed back through the Scheduler.
type Executor struct {
	graph    *atlas.Graph
	sink     CommandSink
	schedule Scheduler
	onResult func(Result)
	log      *debug.Logger
	bounds   Bounds

	walk *walkState
}

type walkState struct {
	id       uuid.UUID
	dest     atlas.Key
	path     atlas.Path
	hop      int
	walked   int
	attempts int
	reroutes int
}

func NewExecutor(graph *atlas.Graph, sink CommandSink, schedule Scheduler, onResult func(Result), log *debug.Logger, bounds Bounds) *Executor {
	if bounds.ConfirmWait <= 0 {
		bounds.ConfirmWait = DefaultBounds().ConfirmWait
	}
	if bounds.MaxSendAttempts <= 0 {
		bounds.MaxSendAttempts = DefaultBounds().MaxSendAttempts
	}
	if bounds.MaxReroutes <= 0 {
		bounds.MaxReroutes = DefaultBounds().MaxReroutes
	}
	return &Executor{
		graph:    graph,
		sink:     sink,
		schedule: schedule,
		onResult: onResult,
		log:      log,
		bounds:   bounds,
	}
}

// State reports Idle or Walking; terminal states are transient and only ever
// observed through the Result event.
func (e *Executor) State() State {
	if e.walk == nil {
		return Idle
	}
	return Walking
}

// Walking reports whether a walk is in flight.
func (e *Executor) Walking() bool {
	return e.walk != nil
}

// Start begins walking the given path toward dest. An empty path succeeds
// immediately. Returns false when a walk is already in flight.
func (e *Executor) Start(path atlas.Path, dest atlas.Key) (uuid.UUID, bool) {
	if e.walk != nil {
		return uuid.Nil, false
	}

	id := uuid.New()
	e.walk = &walkState{id: id, dest: dest, path: path}

	if path.Len() == 0 {
		e.finish(Succeeded, ReasonArrived)
		return id, true
	}

	e.sendCurrent()
	return id, true
}

// Cancel aborts the in-flight walk, emitting no further commands. No-op when
// idle.
func (e *Executor) Cancel() {
	if e.walk == nil {
		return
	}
	e.finish(Cancelled, ReasonCancelled)
}

// OnRoomChanged feeds the executor a confirmed room replacement from the
// world model. A match against the expected hop target advances the walk; any
// other mappable room is a deviation and triggers a re-route.
func (e *Executor) OnRoomChanged(previous, current world.RoomSnapshot) {
	if e.walk == nil {
		return
	}

	expected, _ := e.graph.Canonical(e.walk.path.Hops[e.walk.hop].To)

	actual, known := e.graph.Resolve(current)
	if known && actual == expected {
		e.advance()
		return
	}

	// Re-announcement of the room we are still standing in (a look, a scripted
	// glance) is not a deviation; keep waiting for the real confirmation.
	if prev, ok := e.graph.Resolve(previous); ok && known && actual == prev {
		return
	}

	e.log.Printf("speedwalk: expected %s, arrived at %s", expected, actual)
	e.reroute(current)
}

func (e *Executor) advance() {
	e.walk.hop++
	e.walk.walked++
	e.walk.attempts = 0
	if e.walk.hop >= e.walk.path.Len() {
		e.finish(Succeeded, ReasonArrived)
		return
	}
	e.sendCurrent()
}

// reroute recomputes the path from wherever the character actually is toward
// the original destination. Bounded; an unmappable current room cannot be
// re-routed from.
func (e *Executor) reroute(current world.RoomSnapshot) {
	e.walk.reroutes++
	if e.walk.reroutes > e.bounds.MaxReroutes {
		e.finish(Failed, ReasonDeviated)
		return
	}

	from, known := e.graph.Resolve(current)
	if !known {
		e.finish(Failed, ReasonLostPath)
		return
	}

	path, err := e.graph.FindPath(from, e.walk.dest)
	if err != nil {
		e.finish(Failed, ReasonLostPath)
		return
	}

	e.walk.path = path
	e.walk.hop = 0
	e.walk.attempts = 0
	if path.Len() == 0 {
		e.finish(Succeeded, ReasonArrived)
		return
	}
	e.sendCurrent()
}

func (e *Executor) sendCurrent() {
	w := e.walk
	w.attempts++
	dir := w.path.Hops[w.hop].Direction
	e.sink.SendCommand(dir.Command())

	id, hop, attempt := w.id, w.hop, w.attempts
	e.schedule.After(e.bounds.ConfirmWait, func() {
		e.onTimeout(id, hop, attempt)
	})
}

// onTimeout fires when no room change arrived inside the confirmation window.
// Stale timers (walk finished, hop advanced, command re-sent) are ignored.
func (e *Executor) onTimeout(id uuid.UUID, hop, attempt int) {
	w := e.walk
	if w == nil || w.id != id || w.hop != hop || w.attempts != attempt {
		return
	}

	if w.attempts >= e.bounds.MaxSendAttempts {
		e.finish(Failed, ReasonNoConfirmation)
		return
	}

	e.log.Printf("speedwalk: no confirmation for hop %d, re-sending (attempt %d)", hop, attempt+1)
	e.sendCurrent()
}

// finish emits exactly one terminal result and discards the walk state.
func (e *Executor) finish(state State, reason Reason) {
	w := e.walk
	e.walk = nil
	if e.onResult != nil {
		e.onResult(Result{
			WalkID:      w.id,
			State:       state,
			Reason:      reason,
			Destination: w.dest,
			HopsWalked:  w.walked,
		})
	}
}
