// Package lifecycle is an internal, ordered observer bus for module
// lifecycle transitions (init, start, shutdown, restart, panic-recovered).
// It is not the simulation's own event queue: it delivers the transitions,
// in order, to whatever observers an embedder registers. The CloudEvents
// diagnostics (des.Diagnostics) are emitted separately by the same call
// sites, not through this bus.
package lifecycle

// EventType enumerates the module lifecycle transitions this package
// tracks.
type EventType string

const (
	EventInit              EventType = "init"
	EventStart             EventType = "start"
	EventShutdownRequested EventType = "shutdown_requested"
	EventShutdown          EventType = "shutdown"
	EventRestart           EventType = "restart"
	EventPanicRecovered    EventType = "panic_recovered"
)

// Event describes a single lifecycle transition for one module.
type Event struct {
	Type       EventType
	ModulePath string
	// At is the simulated time (seconds) the transition occurred, formatted
	// by the caller; kept as a plain string so this package has no
	// dependency on the root des package's SimTime type.
	At string
	// Detail carries transition-specific context: a recovered panic value's
	// Sprint, a restart delay, a shutdown reason.
	Detail string
}

// Observer receives dispatched lifecycle events. Observers are called in
// descending Priority order; ties keep registration order.
type Observer interface {
	OnEvent(event Event)
	ID() string
	Priority() int
}

// ObserverFunc adapts a plain function to Observer: its ID is Name and its
// priority is Prio.
type ObserverFunc struct {
	Name string
	Prio int
	Fn   func(Event)
}

func (f ObserverFunc) OnEvent(event Event) { f.Fn(event) }
func (f ObserverFunc) ID() string          { return f.Name }
func (f ObserverFunc) Priority() int       { return f.Prio }
