package des

// Backend selects which EventQueue implementation a Builder constructs.
type Backend int

const (
	// HeapBackend is a binary heap keyed by (time, seq); O(log n) push and
	// pop. The default, and the right choice unless profiling shows the
	// queue dominated by near-term events over a very long horizon.
	HeapBackend Backend = iota
	// CalendarBackend is a hashed bucket array with amortized O(1) push
	// and pop for workloads where event delays are small relative to the
	// simulation horizon.
	CalendarBackend
)

// EventQueue is the ordered multiset of pending events. Two backends
// (queue_heap.go, queue_calendar.go) satisfy this contract; the runtime
// is agnostic to which one it holds.
type EventQueue interface {
	// Push inserts e and returns a handle that can later be passed to
	// Cancel. e.Seq must already be assigned by the caller (the runtime's
	// monotonic counter) so that ties are broken consistently regardless
	// of backend.
	Push(e Event) EventHandle

	// PopMin removes and returns the event with the smallest (time, seq)
	// key. ok is false if the queue is empty.
	PopMin() (e Event, ok bool)

	// Cancel removes the event associated with h, if it is still pending.
	// Reports whether an event was actually removed.
	Cancel(h EventHandle) bool

	// PeekMinTime returns the time of the next event to be popped without
	// removing it.
	PeekMinTime() (SimTime, bool)

	// Len reports the number of live (non-cancelled, unpopped) events.
	Len() int

	// IsEmpty reports whether Len() == 0.
	IsEmpty() bool
}

// NewEventQueue constructs the EventQueue implementation selected by
// backend.
func NewEventQueue(backend Backend) EventQueue {
	switch backend {
	case CalendarBackend:
		return newCalendarQueue()
	default:
		return newHeapQueue()
	}
}
