package registry

import "errors"

var (
	// ErrSymbolNotFound is returned when no constructor is registered under
	// the requested (path, symbol) pair and no default fallback is set.
	ErrSymbolNotFound = errors.New("registry: no constructor registered for that symbol")
	// ErrWrongType is returned by Symbol[T] when a registered constructor's
	// return value does not assert to T.
	ErrWrongType = errors.New("registry: registered constructor returned the wrong type")
	// ErrNilConstructor is returned by Register when fn is nil.
	ErrNilConstructor = errors.New("registry: constructor function is nil")
)
