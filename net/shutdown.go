package net

import des "github.com/desimkit/des"

// shutdownRequest is recorded on a ModuleContext by Shutdown /
// ShutdownAndRestartIn / ShutdownAndRestartAt, and applied once the current
// event handler returns: the request is data, not an immediate state
// change, so repeated calls within one handler invocation are idempotent.
type shutdownRequest struct {
	requested  bool
	hasRestart bool
	restartAt  des.SimTime
	reason     string
}

// Shutdown requests that m deactivate at the end of the current event
// handler, with no restart. Must be called with m as the active module
// context.
func Shutdown(m *ModuleContext, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdown.requested = true
	m.shutdown.reason = reason
}

// ShutdownAndRestartIn requests deactivation now, with a ModuleRestartEvent
// enqueued at rt.Now()+d.
func ShutdownAndRestartIn(m *ModuleContext, rt *des.Runtime, d des.Duration, reason string) {
	ShutdownAndRestartAt(m, rt.Now().Add(d), reason)
}

// ShutdownAndRestartAt requests deactivation now, with a ModuleRestartEvent
// enqueued at t.
func ShutdownAndRestartAt(m *ModuleContext, t des.SimTime, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdown.requested = true
	m.shutdown.hasRestart = true
	m.shutdown.restartAt = t
	m.shutdown.reason = reason
}

// applyShutdown is invoked by the Sim immediately after a module context is
// deactivated: marks active=false, and (if a restart time was given)
// schedules a ModuleRestartEvent. Returns false if no shutdown was
// actually requested, in which case the caller does nothing further.
func applyShutdown(sim *Sim, rt *des.Runtime, m *ModuleContext, req shutdownRequest) bool {
	if !req.requested {
		return false
	}
	m.mu.Lock()
	m.active = false
	m.mu.Unlock()

	sim.lifecycle.Dispatch(lifecycleEvent(m, "shutdown", rt.Now(), req.reason))
	if sim.diagnostics != nil {
		sim.diagnostics.ModuleLifecycle(m.path.String(), "shutdown", rt.Now())
	}

	if sim.asyncBridges != nil {
		if b, ok := sim.asyncBridges[m.path.String()]; ok {
			b.Shutdown()
		}
	}

	if req.hasRestart {
		_, _ = rt.AddEvent(&ModuleRestartEvent{ModulePath: m.path.String()}, req.restartAt)
	}
	return true
}

// ModuleRestartEvent fires at a module's scheduled restart time: flips
// active back to true, calls Reset, then re-runs the staged sim-start
// protocol for that module alone.
type ModuleRestartEvent struct {
	ModulePath string
}

// Handle implements des.EventValue.
func (e *ModuleRestartEvent) Handle(rt *des.Runtime) error {
	sim, ok := currentSim(rt)
	if !ok {
		return ErrUninitializedModule
	}
	m, err := sim.lookup(e.ModulePath)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.active = true
	software := m.software
	m.mu.Unlock()

	if software == nil {
		return ErrNotYetInitialized
	}

	m.activate()
	software.Reset()
	req := m.deactivate()
	_ = req // Reset itself is not expected to request shutdown; ignore if it does.

	sim.lifecycle.Dispatch(lifecycleEvent(m, "restart", rt.Now(), ""))
	if sim.diagnostics != nil {
		sim.diagnostics.ModuleLifecycle(m.path.String(), "restart", rt.Now())
	}

	if sim.asyncBridges != nil {
		sim.ensureBridge(m.path.String())
	}

	return sim.runSimStartStages(rt, []*ModuleContext{m})
}
