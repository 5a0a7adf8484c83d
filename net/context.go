package net

import (
	"sync"
)

// Props is a string-keyed typed property store attached to each module.
// GetProp uses a checked type assertion so a wrong type is reported as
// ErrWrongPropType instead of panicking.
type Props struct {
	mu    sync.RWMutex
	cells map[string]any
}

func newProps() *Props { return &Props{cells: make(map[string]any)} }

// SetProp stores v under key, overwriting any previous value (and type).
func SetProp[T any](p *Props, key string, v T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cells[key] = v
}

// GetProp retrieves the value stored under key, typed as T. Returns
// ErrPropNotFound if key is unset, ErrWrongPropType if it holds a different
// concrete type.
func GetProp[T any](p *Props, key string) (T, error) {
	var zero T
	p.mu.RLock()
	defer p.mu.RUnlock()
	raw, ok := p.cells[key]
	if !ok {
		return zero, ErrPropNotFound
	}
	v, ok := raw.(T)
	if !ok {
		return zero, ErrWrongPropType
	}
	return v, nil
}

// moduleStack is a scoped push/pop current-module stack, entered and left
// around each event dispatch. The simulation loop is single-threaded and
// cooperative, so a single package-level stack (rather than a true
// goroutine-local) is sufficient.
var moduleStack struct {
	mu    sync.Mutex
	stack []*ModuleContext
}

// CurrentModule returns the module context active on top of the stack, or
// (nil, ErrNoCurrentContext) if nothing has been activated.
func CurrentModule() (*ModuleContext, error) {
	moduleStack.mu.Lock()
	defer moduleStack.mu.Unlock()
	if len(moduleStack.stack) == 0 {
		return nil, ErrNoCurrentContext
	}
	return moduleStack.stack[len(moduleStack.stack)-1], nil
}

// ModuleContext is the topological half of a module: identity, gates,
// children, props, and active flag. It is owned strongly
// by the Sim's registry; gates hold only a weak back-reference to it
// (see gate.go) so a gate dangling after teardown never keeps a module
// context alive.
type ModuleContext struct {
	id     int
	path   Path
	parent *ModuleContext

	mu       sync.RWMutex
	children map[string]*ModuleContext
	gates    []*Gate
	props    *Props
	active   bool
	software Software

	shutdown shutdownRequest
}

func newModuleContext(id int, path Path, parent *ModuleContext) *ModuleContext {
	return &ModuleContext{
		id:       id,
		path:     path,
		parent:   parent,
		children: make(map[string]*ModuleContext),
		props:    newProps(),
		active:   true,
	}
}

// ID returns the module's process-unique integer identifier.
func (m *ModuleContext) ID() int { return m.id }

// Path returns the module's hierarchical path.
func (m *ModuleContext) Path() Path { return m.path }

// Active reports whether the module is currently active (not shut down).
func (m *ModuleContext) Active() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Props returns the module's typed property store.
func (m *ModuleContext) Props() *Props { return m.props }

// Parent returns the module's parent context, and false for a root module.
func (m *ModuleContext) Parent() (*ModuleContext, bool) {
	if m.parent == nil {
		return nil, false
	}
	return m.parent, true
}

// Child looks up a direct child by name.
func (m *ModuleContext) Child(name string) (*ModuleContext, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.children[name]
	if !ok {
		return nil, ErrNoEntry
	}
	return c, nil
}

// Software returns the module's attached software handler, or
// ErrNotYetInitialized if only a placeholder has been attached.
func (m *ModuleContext) Software() (Software, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.software == nil {
		return nil, ErrNotYetInitialized
	}
	return m.software, nil
}

// Gates returns the module's gates in creation order.
func (m *ModuleContext) Gates() []*Gate {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Gate, len(m.gates))
	copy(out, m.gates)
	return out
}

// Gate looks up a gate by (name, pos).
func (m *ModuleContext) Gate(name string, pos int) (*Gate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.gates {
		if g.name == name && g.pos == pos {
			return g, nil
		}
	}
	return nil, ErrGateNotFound
}

// activate pushes m onto the current-module stack.
func (m *ModuleContext) activate() {
	moduleStack.mu.Lock()
	moduleStack.stack = append(moduleStack.stack, m)
	moduleStack.mu.Unlock()
}

// deactivate pops the top of the current-module stack, which must be m,
// and returns any pending shutdown request accumulated during the scope.
func (m *ModuleContext) deactivate() shutdownRequest {
	moduleStack.mu.Lock()
	n := len(moduleStack.stack)
	if n > 0 {
		moduleStack.stack = moduleStack.stack[:n-1]
	}
	moduleStack.mu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	req := m.shutdown
	m.shutdown = shutdownRequest{}
	return req
}
