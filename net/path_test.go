package net

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePath_AcceptsSlashAndLegacyDotSeparators(t *testing.T) {
	p, err := ParsePath("net/hostA/nic0")
	require.NoError(t, err)
	require.Equal(t, "net/hostA/nic0", p.String())
	require.Equal(t, 3, p.Depth())
	require.Equal(t, "nic0", p.Leaf())

	legacy, err := ParsePath("net.hostA.nic0")
	require.NoError(t, err)
	require.Equal(t, p.String(), legacy.String())
}

func TestParsePath_RejectsInvalidForms(t *testing.T) {
	cases := map[string]error{
		"":        ErrEmptyPath,
		"a//b":    ErrEmptyPathSegment,
		"a/../b":  ErrInvalidPathSegment,
	}
	for input, wantErr := range cases {
		_, err := ParsePath(input)
		require.ErrorIs(t, err, wantErr, "input %q", input)
	}
}

func TestPath_ChildAndParent(t *testing.T) {
	root := MustParsePath("net/hostA")
	child := root.Child("nic0")
	require.Equal(t, "net/hostA/nic0", child.String())

	parent, ok := child.Parent()
	require.True(t, ok)
	require.Equal(t, root.String(), parent.String())

	_, ok = MustParsePath("root").Parent()
	require.False(t, ok)
}
