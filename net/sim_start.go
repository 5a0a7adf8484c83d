package net

import (
	"fmt"
	"sort"

	des "github.com/desimkit/des"
)

// AtSimStart implements des.Application: it runs the staged sim-start
// protocol across every module with attached software — all modules
// execute stage 0 before any executes stage 1, and so on, up to the
// maximum NumSimStartStages declared by any module.
func (s *Sim) AtSimStart(rt *des.Runtime) error {
	s.SetDiagnostics(rt.Diagnostics())

	s.mu.RLock()
	modules := make([]*ModuleContext, 0, len(s.modules))
	for _, m := range s.modules {
		modules = append(modules, m)
	}
	s.mu.RUnlock()

	sort.Slice(modules, func(i, j int) bool {
		return modules[i].path.String() < modules[j].path.String()
	})

	return s.runSimStartStages(rt, modules)
}

// runSimStartStages drives modules through their staged sim-start hooks.
// Reused both for the initial build (all modules) and for a single
// restarted module.
func (s *Sim) runSimStartStages(rt *des.Runtime, modules []*ModuleContext) error {
	maxStages := 1
	withSoftware := make([]*ModuleContext, 0, len(modules))
	for _, m := range modules {
		soft, err := m.Software()
		if err != nil {
			continue // placeholder module: no software attached, nothing to stage
		}
		withSoftware = append(withSoftware, m)
		if n := soft.NumSimStartStages(); n > maxStages {
			maxStages = n
		}
	}

	for stage := 0; stage < maxStages; stage++ {
		for _, m := range withSoftware {
			soft, _ := m.Software()
			if stage >= soft.NumSimStartStages() {
				continue
			}
			m.activate()
			err := s.runAtSimStartWithPanicPolicy(rt, m, soft, stage)
			req := m.deactivate()
			applyShutdown(s, rt, m, req)
			if err != nil {
				return fmt.Errorf("net: module %s at_sim_start stage %d: %w", m.path.String(), stage, err)
			}
		}
	}

	for _, m := range withSoftware {
		s.lifecycle.Dispatch(lifecycleEvent(m, "start", rt.Now(), ""))
		if s.diagnostics != nil {
			s.diagnostics.ModuleLifecycle(m.path.String(), "start", rt.Now())
		}
	}
	return nil
}

// AtSimEnd implements des.Application.
func (s *Sim) AtSimEnd(rt *des.Runtime) {
	s.mu.RLock()
	modules := make([]*ModuleContext, 0, len(s.modules))
	for _, m := range s.modules {
		modules = append(modules, m)
	}
	s.mu.RUnlock()

	for _, m := range modules {
		soft, err := m.Software()
		if err != nil {
			continue
		}
		m.activate()
		soft.AtSimEnd(m, rt)
		m.deactivate()
	}
}

// runAtSimStartWithPanicPolicy and dispatchWithPanicPolicy share the same
// recover-and-maybe-restart shape: a Software's StereotypeRestartOnPanic
// opts a recovered panic into a shutdown-and-restart instead of
// propagating.

func (s *Sim) runAtSimStartWithPanicPolicy(rt *des.Runtime, m *ModuleContext, soft Software, stage int) (err error) {
	if soft.Stereotype() == StereotypeRestartOnPanic {
		defer func() {
			if r := recover(); r != nil {
				s.recoverAsRestart(rt, m, r)
				err = nil
			}
		}()
	}
	return soft.AtSimStart(m, rt, stage)
}

func (s *Sim) dispatchWithPanicPolicy(rt *des.Runtime, m *ModuleContext, soft Software, msg *Message) (err error) {
	if soft.Stereotype() == StereotypeRestartOnPanic {
		defer func() {
			if r := recover(); r != nil {
				s.recoverAsRestart(rt, m, r)
				err = nil
			}
		}()
	}
	return runStack(m, rt, soft.Stack(), soft, msg)
}

// recoverAsRestart converts a recovered panic into a shutdown-and-restart
// request on m, with a diagnostic carrying fmt.Sprint(recovered).
func (s *Sim) recoverAsRestart(rt *des.Runtime, m *ModuleContext, recovered any) {
	ShutdownAndRestartAt(m, rt.Now().Add(RestartOnPanicDelay), "panic_recovered")
	s.lifecycle.Dispatch(lifecycleEvent(m, "panic_recovered", rt.Now(), fmt.Sprint(recovered)))
	if s.diagnostics != nil {
		s.diagnostics.PanicRecovered(m.path.String(), recovered, rt.Now())
	}
}
