package lifecycle

import (
	"errors"
	"sort"
	"sync"
)

// ErrBufferFull reports a saturated event buffer. Dispatcher delivers
// events inline, has no buffer, and never returns it.
var ErrBufferFull = errors.New("lifecycle: event buffer is full, dropping event")

// EventMetrics counts dispatched events by type.
type EventMetrics struct {
	mu           sync.Mutex
	EventsByType map[EventType]int64
}

func (m *EventMetrics) record(t EventType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EventsByType == nil {
		m.EventsByType = make(map[EventType]int64)
	}
	m.EventsByType[t]++
}

// Snapshot returns a copy of the current per-type counts.
func (m *EventMetrics) Snapshot() map[EventType]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[EventType]int64, len(m.EventsByType))
	for k, v := range m.EventsByType {
		out[k] = v
	}
	return out
}

// Dispatcher is a synchronous, priority-ordered observer bus. A
// goroutine-backed dispatcher is the right shape for decoupling an HTTP
// request path from slow observers, but this one dispatches inline: the
// simulation loop is single-threaded and deterministic, so deferring
// dispatch to a background goroutine would reintroduce the exact
// nondeterminism the kernel exists to avoid.
type Dispatcher struct {
	mu        sync.RWMutex
	observers []Observer
	metrics   *EventMetrics
}

// NewDispatcher constructs an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{metrics: &EventMetrics{EventsByType: make(map[EventType]int64)}}
}

// RegisterObserver adds observer, keeping the internal slice sorted by
// descending priority (stable, so equal-priority observers preserve
// registration order).
func (d *Dispatcher) RegisterObserver(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, observer)
	sort.SliceStable(d.observers, func(i, j int) bool {
		return d.observers[i].Priority() > d.observers[j].Priority()
	})
}

// UnregisterObserver removes the observer with the given ID, if present.
func (d *Dispatcher) UnregisterObserver(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.observers[:0]
	for _, o := range d.observers {
		if o.ID() != id {
			out = append(out, o)
		}
	}
	d.observers = out
}

// Dispatch delivers event to every registered observer in priority order.
func (d *Dispatcher) Dispatch(event Event) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	d.metrics.record(event.Type)
	for _, o := range observers {
		o.OnEvent(event)
	}
}

// Metrics returns the dispatcher's event counters.
func (d *Dispatcher) Metrics() *EventMetrics { return d.metrics }
