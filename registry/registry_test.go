package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/desimkit/des/net"
)

type stubSoftware struct {
	net.BaseSoftware
	tag string
}

func TestRegistry_ResolveBySymbol(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Stub", func(path string) (net.Software, error) {
		return &stubSoftware{tag: path}, nil
	}))

	soft, err := r.Resolve("any/path", "Stub")
	require.NoError(t, err)
	require.Equal(t, "any/path", soft.(*stubSoftware).tag)
}

func TestRegistry_PathSpecificOverridesSymbol(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Stub", func(path string) (net.Software, error) {
		return &stubSoftware{tag: "generic"}, nil
	}))
	require.NoError(t, r.RegisterForPath("special", "Stub", func(path string) (net.Software, error) {
		return &stubSoftware{tag: "special"}, nil
	}))

	generic, err := r.Resolve("other", "Stub")
	require.NoError(t, err)
	require.Equal(t, "generic", generic.(*stubSoftware).tag)

	special, err := r.Resolve("special", "Stub")
	require.NoError(t, err)
	require.Equal(t, "special", special.(*stubSoftware).tag)
}

func TestRegistry_ResolveFallsBackToBaseSoftware(t *testing.T) {
	r := NewRegistry()
	soft, err := r.Resolve("any", "Unregistered")
	require.NoError(t, err)
	require.IsType(t, net.BaseSoftware{}, soft)
}

func TestRegistry_SetFallbackOverridesDefault(t *testing.T) {
	r := NewRegistry()
	r.SetFallback(func(path string) (net.Software, error) {
		return &stubSoftware{tag: "fallback"}, nil
	})

	soft, err := r.Resolve("any", "Unregistered")
	require.NoError(t, err)
	require.Equal(t, "fallback", soft.(*stubSoftware).tag)
}

func TestRegistry_RegisterRejectsNilConstructor(t *testing.T) {
	r := NewRegistry()
	err := r.Register("Stub", nil)
	require.ErrorIs(t, err, ErrNilConstructor)
}

func TestSymbol_TypedLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Stub", func(path string) (net.Software, error) {
		return &stubSoftware{tag: path}, nil
	}))

	soft, err := Symbol[*stubSoftware](r, "x", "Stub")
	require.NoError(t, err)
	require.Equal(t, "x", soft.tag)
}

func TestSymbol_WrongTypeFails(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Stub", func(path string) (net.Software, error) {
		return &stubSoftware{tag: path}, nil
	}))

	type otherSoftware struct{ net.BaseSoftware }
	_, err := Symbol[*otherSoftware](r, "x", "Stub")
	require.ErrorIs(t, err, ErrWrongType)
}
