package net

import (
	des "github.com/desimkit/des"
)

// Stereotype controls how a panic inside a module's software is handled.
// The default unwinds (propagates) the panic out of the dispatch call;
// StereotypeRestartOnPanic is opt-in.
type Stereotype int

const (
	// StereotypeUnwind lets an unrecovered panic propagate out of the
	// dispatch call, unwinding the event loop. This is the default.
	StereotypeUnwind Stereotype = iota
	// StereotypeRestartOnPanic recovers a panic raised from HandleMessage
	// (including the processing stack) or AtSimStart, converts it into a
	// shutdown-and-restart at now + RestartOnPanicDelay, and emits a
	// diagnostic carrying fmt.Sprint(recovered). A panic raised from Reset
	// is not recovered and propagates.
	StereotypeRestartOnPanic
)

// Software is the per-module behavior contract. All methods run with m
// active as the current module context.
type Software interface {
	// Reset clears volatile state. Called once on construction (before the
	// first AtSimStart) and again on every restart, before AtSimStart
	// stage 0 re-runs. State that should survive a restart must live
	// outside whatever Reset clears.
	Reset()

	// NumSimStartStages reports how many staged sim-start passes this
	// module participates in. BaseSoftware reports 1, so a Software that
	// embeds it and does not override this method gets a single stage.
	NumSimStartStages() int

	// AtSimStart runs stage of the staged sim-start protocol: all modules
	// run stage 0 before any module runs stage 1, etc.
	AtSimStart(m *ModuleContext, rt *des.Runtime, stage int) error

	// HandleMessage processes an inbound message that has finished
	// traversing the processing stack.
	HandleMessage(m *ModuleContext, rt *des.Runtime, msg *Message) error

	// AtSimEnd runs once when the simulation loop terminates.
	AtSimEnd(m *ModuleContext, rt *des.Runtime)

	// Stack returns the module's processing elements, outermost-last
	// (network layer first, application layer last). A nil/empty stack is
	// valid: HandleMessage is then the only processing step.
	Stack() []ProcessingElement

	// Stereotype reports this module's panic-handling policy.
	Stereotype() Stereotype
}

// RestartOnPanicDelay is the default delay before a StereotypeRestartOnPanic
// module restarts after a recovered panic.
const RestartOnPanicDelay = des.Duration(0)

// BaseSoftware is an embeddable no-op implementation of Software: a
// no-op module, used by the registry's default fallback (registry package)
// and as a convenient base for test doubles that only care about one or
// two hooks.
type BaseSoftware struct{}

func (BaseSoftware) Reset()                 {}
func (BaseSoftware) NumSimStartStages() int { return 1 }
func (BaseSoftware) AtSimStart(*ModuleContext, *des.Runtime, int) error { return nil }
func (BaseSoftware) HandleMessage(*ModuleContext, *des.Runtime, *Message) error {
	return nil
}
func (BaseSoftware) AtSimEnd(*ModuleContext, *des.Runtime) {}
func (BaseSoftware) Stack() []ProcessingElement            { return nil }
func (BaseSoftware) Stereotype() Stereotype                 { return StereotypeUnwind }
