package des

import "time"

// Runtime is the kernel's mutable state machine: a time cursor, a
// sequence counter, an event queue, an RNG, limits, and the embedder's
// Application.
type Runtime struct {
	cursor     SimTime
	seqCounter uint64
	eventCount uint64

	maxEvents uint64 // 0 means unlimited
	maxTime   SimTime

	queue EventQueue
	rng   *RNG
	app   Application

	logger      Logger
	diagnostics *Diagnostics

	started bool
	ended   bool

	drainAsyncBeforeExit bool
	asyncInFlight        func() int // set by the async bridge when it wires itself in, optional
}

// Now returns the runtime's current virtual time. Only the loop itself
// mutates it, immediately before a handler runs.
func (rt *Runtime) Now() SimTime { return rt.cursor }

// RNG returns the simulation's single PRNG.
func (rt *Runtime) RNG() *RNG { return rt.rng }

// Logger returns the configured structured logger.
func (rt *Runtime) Logger() Logger { return rt.logger }

// Diagnostics returns the CloudEvents-backed diagnostic sink.
func (rt *Runtime) Diagnostics() *Diagnostics { return rt.diagnostics }

// Application returns the embedder's Application, letting routing/event
// code (package net) recover its own Sim from inside an EventValue's
// Handle method without the kernel needing to know about module graphs.
func (rt *Runtime) Application() Application { return rt.app }

// EventCount returns the number of events dispatched so far.
func (rt *Runtime) EventCount() uint64 { return rt.eventCount }

// SetAsyncInFlightProbe lets the async bridge register a callback reporting
// how many watched mpsc items are currently in flight, consulted by Run()
// when DrainAsyncBeforeExit is enabled.
func (rt *Runtime) SetAsyncInFlightProbe(probe func() int) {
	rt.asyncInFlight = probe
}

// AddEvent schedules value to run at t, validating t >= cursor. Scheduling
// strictly before the cursor is a configuration error; scheduling exactly
// at the cursor is permitted and is dispatched in order after other
// same-time events already present.
func (rt *Runtime) AddEvent(value EventValue, t SimTime) (EventHandle, error) {
	if value == nil {
		return 0, ErrEventNil
	}
	if rt.ended {
		rt.logger.Warn("event scheduled after at_sim_end was ignored", "time", t)
		return 0, ErrScheduleAfterSimEnd
	}
	if t < rt.cursor {
		return 0, ErrScheduleInPast
	}
	rt.seqCounter++
	h := rt.queue.Push(Event{Value: value, Time: t, Seq: rt.seqCounter})
	return h, nil
}

// AddEventIn schedules value to run d after the current cursor.
func (rt *Runtime) AddEventIn(value EventValue, d time.Duration) (EventHandle, error) {
	return rt.AddEvent(value, rt.cursor.Add(d))
}

// CancelEvent cancels a previously scheduled event, if still pending.
func (rt *Runtime) CancelEvent(h EventHandle) bool {
	return rt.queue.Cancel(h)
}

// Start runs the Application's sim-start hook exactly once. It is safe to
// call multiple times; only the first call has effect.
func (rt *Runtime) Start() error {
	if rt.started {
		return nil
	}
	rt.started = true
	return rt.app.AtSimStart(rt)
}

// Next pops and dispatches exactly one event, advancing the cursor to its
// time first. Returns false if the queue is empty or a configured limit has
// already been reached, in which case no event was dispatched.
func (rt *Runtime) Next() bool {
	if rt.maxEvents != 0 && rt.eventCount >= rt.maxEvents {
		return false
	}
	t, ok := rt.queue.PeekMinTime()
	if !ok {
		return false
	}
	if t > rt.maxTime {
		return false
	}
	e, ok := rt.queue.PopMin()
	if !ok {
		return false
	}
	rt.cursor = e.Time
	rt.eventCount++
	if err := e.Value.Handle(rt); err != nil {
		rt.logger.Error("event handler returned an error", "time", rt.cursor, "error", err)
	}
	return true
}

// DispatchNEvents dispatches up to k events, stopping early on exhaustion or
// a reached limit. Returns the number actually dispatched.
func (rt *Runtime) DispatchNEvents(k int) int {
	n := 0
	for n < k && rt.Next() {
		n++
	}
	return n
}

// DispatchEventsUntil dispatches events while the next event's time is <= t.
func (rt *Runtime) DispatchEventsUntil(t SimTime) int {
	n := 0
	for {
		next, ok := rt.queue.PeekMinTime()
		if !ok || next > t {
			break
		}
		if !rt.Next() {
			break
		}
		n++
	}
	return n
}

// DispatchAll dispatches events until the queue is empty or a limit is hit.
func (rt *Runtime) DispatchAll() int {
	n := 0
	for rt.Next() {
		n++
	}
	return n
}

// Run performs Start (if not already done) followed by DispatchAll, then
// invokes AtSimEnd and classifies the outcome.
func (rt *Runtime) Run() RunResult {
	if err := rt.Start(); err != nil {
		rt.logger.Error("at_sim_start failed", "error", err)
	}

	dispatchedAny := false
	for {
		if rt.maxEvents != 0 && rt.eventCount >= rt.maxEvents {
			break
		}
		t, ok := rt.queue.PeekMinTime()
		if !ok {
			break
		}
		if t > rt.maxTime {
			break
		}
		if rt.drainAsyncBeforeExit && rt.queue.IsEmpty() && rt.asyncInFlight != nil && rt.asyncInFlight() > 0 {
			break
		}
		if !rt.Next() {
			break
		}
		dispatchedAny = true
	}

	rt.ended = true
	rt.app.AtSimEnd(rt)

	remaining := rt.queue.Len()
	switch {
	case !dispatchedAny && remaining == 0:
		return RunResult{Kind: EmptySimulation, Count: rt.eventCount, Time: rt.cursor}
	case remaining == 0:
		return RunResult{Kind: Finished, Count: rt.eventCount, Time: rt.cursor}
	default:
		return RunResult{Kind: PrematureAbort, Count: rt.eventCount, Time: rt.cursor, Remaining: remaining}
	}
}
