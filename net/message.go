package net

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"

	des "github.com/desimkit/des"
)

// MessageKind distinguishes application-defined message categories;
// embedders are free to use their own integer space.
type MessageKind int

// Header carries the routing metadata every Message transports. Message
// IDs are generated with google/uuid.
type Header struct {
	ID           string
	Kind         MessageKind
	CreationTime des.SimTime
	SendTime     des.SimTime
	SrcAddr      string
	DstAddr      string
	HopCount     int
	TTL          int
	Length       int // byte_len of the body
	LastGate     string
	SenderID     int
	ReceiverID   int
	SeqNo        uint64

	// Failed is set by the FailTransmission channel drop policy: the
	// message is delivered to the next hop, but flagged as corrupted in
	// transit rather than silently dropped or corrupted bit-by-bit.
	Failed bool
}

// Body is a type-erased payload: it stores an any and a reflect.Type
// recorded at construction, giving Cast a type-checked downcast without
// reflection at the call site.
type Body struct {
	value    any
	typ      reflect.Type
	byteLen  int
	debugStr string
}

// NewBody wraps v as a Body. byteLen is caller-supplied (the framework has
// no opinion on wire encoding). Use WithDebug to attach a description that
// Body.String returns instead of its default rendering.
func NewBody(v any, byteLen int) Body {
	return Body{value: v, typ: reflect.TypeOf(v), byteLen: byteLen}
}

// WithDebug attaches a human-readable description, used by Body.String.
func (b Body) WithDebug(s string) Body {
	b.debugStr = s
	return b
}

// ByteLen returns the body's declared length in bytes, used by channel
// transit-duration math (bitrate is bits/s, so routing.go converts).
func (b Body) ByteLen() int { return b.byteLen }

// Clone returns a shallow copy of b. Bodies wrapping pointer-like values
// share the underlying value with the original, matching Go's normal copy
// semantics; callers needing a deep copy must implement it on their own
// payload type.
func (b Body) Clone() Body { return b }

// Cast downcasts b to T, returning ErrBodyTypeMismatch if the body does not
// hold exactly that type.
func Cast[T any](b Body) (T, error) {
	var zero T
	v, ok := b.value.(T)
	if !ok {
		return zero, ErrBodyTypeMismatch
	}
	return v, nil
}

// String implements fmt.Stringer.
func (b Body) String() string {
	if b.debugStr != "" {
		return b.debugStr
	}
	if b.typ == nil {
		return "<nil body>"
	}
	return fmt.Sprintf("%s(%d bytes)", b.typ, b.byteLen)
}

// Message is the end-to-end transported unit: a Header plus a Body.
// Ownership transfers into the next routing event as the message moves
// along a gate chain; nothing in this package retains a message after it
// has been handed to HandleMessageEvent or dropped.
type Message struct {
	Header Header
	Body   Body
}

// NewMessage builds a Message with a fresh ID and creation/send time set to
// now.
func NewMessage(kind MessageKind, src, dst string, body Body, now des.SimTime) *Message {
	return &Message{
		Header: Header{
			ID:           uuid.NewString(),
			Kind:         kind,
			CreationTime: now,
			SendTime:     now,
			SrcAddr:      src,
			DstAddr:      dst,
			Length:       body.ByteLen(),
		},
		Body: body,
	}
}

// BitLength returns the message's length in bits, used by channel transit
// time math.
func (m *Message) BitLength() int { return m.Header.Length * 8 }
