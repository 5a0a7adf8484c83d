// Package registry is a construction table: a mapping (path, symbol) ->
// Software, populated by topology loaders (an NDL-driven builder, an
// example application, or a Go program directly) and consulted by
// whatever wires up a Sim. The sync.RWMutex-guarded map and flat
// sentinel-error convention mirror a general-purpose service registry,
// re-specialized to this narrower (path, symbol) -> Software table.
package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/desimkit/des/net"
)

// Constructor builds a net.Software instance for the module being created
// at path. Path-aware so a single symbol ("EchoServer") can parameterize
// itself differently per instance.
type Constructor func(path string) (net.Software, error)

// Registry resolves (path, symbol) pairs to constructed Software.
// Path-specific registrations take precedence over a symbol-wide
// constructor, which in turn takes precedence over the default fallback.
type Registry struct {
	mu           sync.RWMutex
	bySymbol     map[string]Constructor
	byPathSymbol map[string]Constructor
	fallback     Constructor
}

// NewRegistry constructs an empty Registry. A default no-op fallback
// (net.BaseSoftware) is installed so Resolve never errors on an
// unregistered symbol unless SetFallback(nil) is called explicitly.
func NewRegistry() *Registry {
	return &Registry{
		bySymbol:     make(map[string]Constructor),
		byPathSymbol: make(map[string]Constructor),
		fallback: func(string) (net.Software, error) {
			return net.BaseSoftware{}, nil
		},
	}
}

// Register installs fn as the constructor for symbol, usable from any
// path.
func (r *Registry) Register(symbol string, fn Constructor) error {
	if fn == nil {
		return ErrNilConstructor
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySymbol[symbol] = fn
	return nil
}

// RegisterForPath installs fn as the constructor used only when resolving
// exactly (path, symbol), overriding any symbol-wide registration.
func (r *Registry) RegisterForPath(path, symbol string, fn Constructor) error {
	if fn == nil {
		return ErrNilConstructor
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPathSymbol[pathSymbolKey(path, symbol)] = fn
	return nil
}

// RegisterFunc is identical to Register; both exist so call sites can use
// whichever name reads better.
func (r *Registry) RegisterFunc(symbol string, fn func(path string) (net.Software, error)) error {
	return r.Register(symbol, Constructor(fn))
}

// SetFallback overrides the default no-op fallback used when no
// constructor matches. Pass nil to make unmatched lookups an error
// instead of silently constructing a no-op module.
func (r *Registry) SetFallback(fn Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = fn
}

// Resolve constructs the Software registered for (path, symbol).
func (r *Registry) Resolve(path, symbol string) (net.Software, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if fn, ok := r.byPathSymbol[pathSymbolKey(path, symbol)]; ok {
		return fn(path)
	}
	if fn, ok := r.bySymbol[symbol]; ok {
		return fn(path)
	}
	if r.fallback != nil {
		return r.fallback(path)
	}
	return nil, fmt.Errorf("registry: resolving (%s, %s): %w", path, symbol, ErrSymbolNotFound)
}

// Symbol resolves (path, symbol) and asserts the result to T, a typed
// lookup form of Resolve.
func Symbol[T net.Software](r *Registry, path, symbol string) (T, error) {
	var zero T
	soft, err := r.Resolve(path, symbol)
	if err != nil {
		return zero, err
	}
	typed, ok := soft.(T)
	if !ok {
		return zero, fmt.Errorf("registry: symbol %q at %s: want %s, got %s: %w",
			symbol, path, reflect.TypeOf(zero), reflect.TypeOf(soft), ErrWrongType)
	}
	return typed, nil
}

func pathSymbolKey(path, symbol string) string { return path + "\x00" + symbol }
