package des

// Application is the top-level simulation entrypoint a Builder drives: the
// owner of the module graph (typically a *net.Sim), responsible for
// walking its own modules through the staged sim-start protocol and for
// any final teardown at sim-end.
//
// This is distinct from per-module Software (package net) — Application
// is called exactly twice per run (AtSimStart once at Build, AtSimEnd once
// at termination); Software.AtSimStart/AtSimEnd are called once per module,
// orchestrated by the Application implementation itself.
type Application interface {
	// AtSimStart is invoked once, during Builder.Build, before the loop
	// runs. Implementations populate initial events and run their own
	// per-module sim-start staging here.
	AtSimStart(rt *Runtime) error

	// AtSimEnd is invoked once, when the loop terminates for any reason.
	// Events scheduled from within AtSimEnd are never dispatched: AddEvent
	// logs a warning, discards them, and returns ErrScheduleAfterSimEnd.
	AtSimEnd(rt *Runtime)
}

// FuncEvent adapts a plain function to EventValue, for simple one-off
// handlers that don't warrant their own named type.
type FuncEvent func(rt *Runtime) error

// Handle implements EventValue.
func (f FuncEvent) Handle(rt *Runtime) error { return f(rt) }
