package des

// EventValue is the tagged-union-by-interface contract every scheduled
// event satisfies. Applications extend the "tagged union" by wrapping their
// own event types behind this interface (FuncEvent in application.go is
// the shortcut for plain functions) — there is no closed set of event kinds the kernel knows
// about besides the routing events defined in package net.
type EventValue interface {
	// Handle dispatches the event against the running kernel. It is called
	// with the module context stack empty; handlers that need a specific
	// module's context active must push it themselves.
	Handle(rt *Runtime) error
}

// Event is a value, the virtual time it is due, and a monotonically
// increasing sequence number that breaks ties between events scheduled
// for the same time, in insertion order.
type Event struct {
	Value EventValue
	Time  SimTime
	Seq   uint64
}

// less implements the (time, seq) total order every backend sorts by.
func (e Event) less(o Event) bool {
	if e.Time != o.Time {
		return e.Time < o.Time
	}
	return e.Seq < o.Seq
}
