// Package async is the per-module async-in-simulated-time bridge: a
// single-threaded cooperative runtime whose timers, sleeps, and channels
// resolve against des.SimTime instead of wall-clock time, with wakeups
// enqueued as ordinary kernel events. No real goroutine ever blocks on
// I/O here: no progress in the async runtime happens between events,
// because every resumption is itself triggered from inside an event
// handler.
package async

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	des "github.com/desimkit/des"
)

// task is one registered wakeup: a resume callback due at a given SimTime.
// Recurring wakeups (tickers, cron) re-register themselves from inside
// their own resume callback.
type task struct {
	id     string
	at     des.SimTime
	seq    uint64 // registration order, breaks ties between equal `at`
	resume func(rt *des.Runtime)
}

// Bridge is the per-module cooperative async runtime. It holds at most
// one scheduled AsyncWakeupEvent at a time: whenever the set of pending
// task wakeups changes, the bridge cancels its previously scheduled event
// (if any) and schedules a new one at the new minimum, so there is always
// a single AsyncWakeupEvent{module} pending at min(pending_wakeups).
type Bridge struct {
	mu sync.Mutex

	modulePath string
	rt         *des.Runtime

	tasks   map[string]*task
	nextSeq uint64

	scheduledHandle des.EventHandle
	scheduledAt     des.SimTime
	hasScheduled    bool

	shutdown bool
}

// NewBridge constructs a Bridge bound to rt for the module at modulePath.
func NewBridge(rt *des.Runtime, modulePath string) *Bridge {
	return &Bridge{
		modulePath: modulePath,
		rt:         rt,
		tasks:      make(map[string]*task),
	}
}

// Shutdown cancels the bridge's outstanding wakeup and drops all
// registered tasks: on module shutdown, the bridge aborts all tasks and
// drops its runtime; on restart it is reconstructed.
func (b *Bridge) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.hasScheduled {
		b.rt.CancelEvent(b.scheduledHandle)
		b.hasScheduled = false
	}
	b.tasks = make(map[string]*task)
	b.shutdown = true
}

// register adds a task waking at `at` and re-evaluates the bridge's single
// scheduled wakeup.
func (b *Bridge) register(at des.SimTime, resume func(rt *des.Runtime)) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.shutdown {
		return "", ErrBridgeShutdown
	}
	id := uuid.NewString()
	b.nextSeq++
	b.tasks[id] = &task{id: id, at: at, seq: b.nextSeq, resume: resume}
	b.rescheduleLocked()
	return id, nil
}

// cancelTask removes a previously registered task by ID, if still pending.
func (b *Bridge) cancelTask(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.tasks, id)
	b.rescheduleLocked()
}

// rescheduleLocked recomputes the minimum pending wakeup and replaces the
// bridge's single scheduled AsyncWakeupEvent if it changed. Caller must
// hold b.mu.
func (b *Bridge) rescheduleLocked() {
	var (
		min    des.SimTime
		hasMin bool
	)
	for _, t := range b.tasks {
		if !hasMin || t.at < min {
			min = t.at
			hasMin = true
		}
	}

	if b.hasScheduled {
		if hasMin && b.scheduledAt == min {
			return // already scheduled at the right time
		}
		b.rt.CancelEvent(b.scheduledHandle)
		b.hasScheduled = false
	}

	if !hasMin {
		return
	}
	h, err := b.rt.AddEvent(&AsyncWakeupEvent{Bridge: b}, min)
	if err != nil {
		// Scheduling strictly in the past would be a bridge bug (every
		// wakeup is computed as rt.Now()+something non-negative); if it
		// ever happens there is nothing useful to do but drop the wakeup.
		return
	}
	b.scheduledHandle = h
	b.scheduledAt = min
	b.hasScheduled = true
}

// poll runs every due task exactly once (the bridge's single cooperative
// yield point), in (wakeup time, registration order), and reschedules for
// whatever remains pending.
func (b *Bridge) poll(rt *des.Runtime) {
	b.mu.Lock()
	now := rt.Now()
	due := make([]*task, 0, len(b.tasks))
	for id, t := range b.tasks {
		if t.at <= now {
			due = append(due, t)
			delete(b.tasks, id)
		}
	}
	b.hasScheduled = false
	b.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		t.resume(rt)
	}

	b.mu.Lock()
	b.rescheduleLocked()
	b.mu.Unlock()
}

// AsyncWakeupEvent is the kernel event that drives a Bridge's cooperative
// poll. It holds a direct reference to the Bridge rather than a module
// path lookup, since the bridge itself is the only long-lived object the
// async package needs.
type AsyncWakeupEvent struct {
	Bridge *Bridge
}

// Handle implements des.EventValue.
func (e *AsyncWakeupEvent) Handle(rt *des.Runtime) error {
	e.Bridge.poll(rt)
	return nil
}
