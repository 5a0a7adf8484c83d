package net

import (
	"fmt"
	"sync"

	des "github.com/desimkit/des"
	"github.com/desimkit/des/lifecycle"
)

// AsyncBridge is the narrow interface Sim needs from a module's
// async-in-simulated-time runtime (package async) without importing that
// package: net has no need of anything async.Bridge offers beyond
// shutting it down, so this Shutdown-only interface lets shutdown.go
// tear down a bridge without making net depend on async at all.
type AsyncBridge interface {
	Shutdown()
}

// Sim is the top-level simulation application: the owner of the module
// graph, gates, and channels, and the des.Application a Builder drives.
// Construction follows New, Node, Gate, NewChannel, Gate.Connect.
type Sim struct {
	mu        sync.RWMutex
	state     any
	modules   map[string]*ModuleContext
	nextID    int
	lifecycle *lifecycle.Dispatcher

	diagnostics *des.Diagnostics

	asyncBridges  map[string]AsyncBridge
	bridgeFactory func(path string) AsyncBridge
}

// New constructs an empty Sim. appState is opaque to the framework; it is
// returned by State for the embedder's own top-level bookkeeping (e.g. a
// seed topology description, counters spanning the whole run).
func New(appState any) *Sim {
	return &Sim{
		state:     appState,
		modules:   make(map[string]*ModuleContext),
		lifecycle: lifecycle.NewDispatcher(),
	}
}

// State returns the opaque application state passed to New.
func (s *Sim) State() any { return s.state }

// Lifecycle returns the internal lifecycle event dispatcher, letting
// embedders register observers for init/start/shutdown/restart/panic
// transitions (e.g. to mirror them into their own metrics).
func (s *Sim) Lifecycle() *lifecycle.Dispatcher { return s.lifecycle }

// SetDiagnostics attaches the CloudEvents-backed diagnostic sink used for
// dropped messages, channel-unbusy transitions, and lifecycle events.
// Builder.Build calls this automatically using the Runtime's own
// Diagnostics.
func (s *Sim) SetDiagnostics(d *des.Diagnostics) { s.diagnostics = d }

// RegisterBridgeFactory lets package async wire itself in: whenever a
// module context is created or restarted, Sim calls factory(path) to
// obtain an AsyncBridge, which shutdown.go tears down on module shutdown.
func (s *Sim) RegisterBridgeFactory(factory func(path string) AsyncBridge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bridgeFactory = factory
	if s.asyncBridges == nil {
		s.asyncBridges = make(map[string]AsyncBridge)
	}
}

func (s *Sim) ensureBridge(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bridgeFactory == nil {
		return
	}
	if s.asyncBridges == nil {
		s.asyncBridges = make(map[string]AsyncBridge)
	}
	s.asyncBridges[path] = s.bridgeFactory(path)
}

// lookup resolves a path string to its ModuleContext.
func (s *Sim) lookup(path string) (*ModuleContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.modules[path]
	if !ok {
		return nil, ErrNoEntry
	}
	return m, nil
}

// Lookup is the exported form of lookup, for embedders and tests.
func (s *Sim) Lookup(path string) (*ModuleContext, error) { return s.lookup(path) }

// ensureChain creates placeholder module contexts for every ancestor of p
// that doesn't already exist, and returns p's own context (creating it as
// a placeholder too if needed). Placeholder contexts have software == nil
// and report ErrNotYetInitialized from Software() until Node attaches
// real software.
func (s *Sim) ensureChain(p Path) *ModuleContext {
	segments := []string{}
	var parent *ModuleContext
	cur := p
	var chain []Path
	for {
		chain = append([]Path{cur}, chain...)
		par, ok := cur.Parent()
		if !ok {
			break
		}
		cur = par
	}
	_ = segments

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, step := range chain {
		key := step.String()
		if existing, ok := s.modules[key]; ok {
			parent = existing
			continue
		}
		s.nextID++
		m := newModuleContext(s.nextID, step, parent)
		s.modules[key] = m
		if parent != nil {
			parent.mu.Lock()
			parent.children[step.Leaf()] = m
			parent.mu.Unlock()
		}
		parent = m
	}
	return parent
}

// Node attaches software to path, creating the context chain as needed.
// Returns ErrDuplicatePath if a module already has software attached at
// this exact path.
func (s *Sim) Node(path string, software Software) (*ModuleContext, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	m := s.ensureChain(p)

	m.mu.Lock()
	if m.software != nil {
		m.mu.Unlock()
		return nil, ErrDuplicatePath
	}
	m.software = software
	m.mu.Unlock()

	software.Reset()

	s.ensureBridge(p.String())
	s.lifecycle.Dispatch(lifecycleEvent(m, "init", des.SimTimeZero, ""))
	if s.diagnostics != nil {
		s.diagnostics.ModuleLifecycle(p.String(), "init", des.SimTimeZero)
	}
	return m, nil
}

// Gate creates a gate on the module at path.
func (s *Sim) Gate(path, name string, size, pos int) (*Gate, error) {
	m, err := s.lookup(path)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.gates {
		if g.name == name && g.pos == pos {
			return nil, fmt.Errorf("net: gate %q[%d] already exists on %s: %w", name, pos, path, ErrDuplicatePath)
		}
	}
	g := newGate(m, name, pos, size)
	m.gates = append(m.gates, g)
	return g, nil
}

func lifecycleEvent(m *ModuleContext, action string, at des.SimTime, detail string) lifecycle.Event {
	return lifecycle.Event{
		Type:       lifecycleEventType(action),
		ModulePath: m.path.String(),
		At:         at.String(),
		Detail:     detail,
	}
}

func lifecycleEventType(action string) lifecycle.EventType {
	switch action {
	case "init":
		return lifecycle.EventInit
	case "start":
		return lifecycle.EventStart
	case "shutdown_requested":
		return lifecycle.EventShutdownRequested
	case "shutdown":
		return lifecycle.EventShutdown
	case "restart":
		return lifecycle.EventRestart
	case "panic_recovered":
		return lifecycle.EventPanicRecovered
	default:
		return lifecycle.EventType(action)
	}
}
