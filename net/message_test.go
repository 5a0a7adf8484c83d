package net

import (
	"testing"

	"github.com/stretchr/testify/require"

	des "github.com/desimkit/des"
)

type samplePayload struct {
	Seq int
	Tag string
}

// Casting a Body after construction yields a value equal to what was
// wrapped.
func TestBody_CastRoundTrips(t *testing.T) {
	v := samplePayload{Seq: 7, Tag: "ping"}
	body := NewBody(v, 125)

	got, err := Cast[samplePayload](body)
	require.NoError(t, err)
	require.Equal(t, v, got)
	require.Equal(t, 125, body.ByteLen())
}

func TestBody_CastWrongTypeFails(t *testing.T) {
	body := NewBody(samplePayload{Seq: 1}, 4)
	_, err := Cast[int](body)
	require.ErrorIs(t, err, ErrBodyTypeMismatch)
}

func TestBody_StringUsesDebugOverride(t *testing.T) {
	body := NewBody(samplePayload{}, 4).WithDebug("custom-debug")
	require.Equal(t, "custom-debug", body.String())
}

func TestNewMessage_SetsHeaderFromBody(t *testing.T) {
	body := NewBody(samplePayload{Seq: 1}, 125)
	msg := NewMessage(1, "a", "b", body, des.SimTime(3))

	require.NotEmpty(t, msg.Header.ID)
	require.Equal(t, des.SimTime(3), msg.Header.CreationTime)
	require.Equal(t, des.SimTime(3), msg.Header.SendTime)
	require.Equal(t, "a", msg.Header.SrcAddr)
	require.Equal(t, "b", msg.Header.DstAddr)
	require.Equal(t, 125, msg.Header.Length)
	require.Equal(t, 1000, msg.BitLength())
}
