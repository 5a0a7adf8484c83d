package net

import (
	"time"

	des "github.com/desimkit/des"
)

// DropBehaviour selects what a Channel does with an incoming message while
// Busy.
type DropBehaviour int

const (
	// Drop discards the incoming message outright, emitting a diagnostic.
	Drop DropBehaviour = iota
	// Queue buffers the message in a bounded per-channel FIFO, resumed when
	// the channel next transitions to Idle.
	Queue
	// FailTransmission delivers the message downstream with
	// Header.Failed = true set instead of dropping it, modeling a
	// collision.
	FailTransmission
)

// ChannelMetrics is the immutable metric bundle attached to a Channel at
// construction.
type ChannelMetrics struct {
	BitrateBPS int64 // bits/s; must be > 0
	Latency    time.Duration
	Jitter     time.Duration // max jitter; sampled uniformly in [0, Jitter)
	Drop       DropBehaviour
	// QueueCapacity bounds the Queue drop policy's FIFO. Ignored for other
	// policies.
	QueueCapacity int
}

// Channel models a metric-carrying delay element between two gates. Its
// Busy/Idle state machine and queued-completion bookkeeping are owned
// exclusively by routing.go, which is the only code that flips busy.
type Channel struct {
	name    string
	metrics ChannelMetrics

	busy       bool
	busyUntil  des.SimTime
	fifo       []queuedTransit
}

type queuedTransit struct {
	to  *Gate
	msg *Message
}

// NewChannel constructs a Channel. Returns ErrZeroBitrate if metrics.BitrateBPS
// is not positive.
func NewChannel(name string, metrics ChannelMetrics) (*Channel, error) {
	if metrics.BitrateBPS <= 0 {
		return nil, ErrZeroBitrate
	}
	return &Channel{name: name, metrics: metrics}, nil
}

// Name returns the channel's identifying name (typically the connection's
// description, for diagnostics).
func (c *Channel) Name() string { return c.name }

// Busy reports whether the channel currently has an outstanding
// ChannelUnbusyNotif scheduled.
func (c *Channel) Busy() bool { return c.busy }

// Metrics returns the channel's immutable metric bundle.
func (c *Channel) Metrics() ChannelMetrics { return c.metrics }

// transitDuration computes the time a message of bitLength bits occupies
// the channel: bitLength / bitrate.
func (c *Channel) transitDuration(bitLength int) time.Duration {
	secs := float64(bitLength) / float64(c.metrics.BitrateBPS)
	return time.Duration(secs * float64(time.Second))
}

// sampleJitter draws a uniform sample in [0, Jitter) from rng, or zero if
// Jitter is zero.
func (c *Channel) sampleJitter(rng *des.RNG) time.Duration {
	if c.metrics.Jitter <= 0 {
		return 0
	}
	return rng.Duration(c.metrics.Jitter)
}

// markBusyUntil sets the busy flag and records the completion time.
func (c *Channel) markBusyUntil(t des.SimTime) {
	c.busy = true
	c.busyUntil = t
}

// markIdle clears the busy flag, per the ChannelUnbusyNotif handler.
func (c *Channel) markIdle() {
	c.busy = false
}

// enqueueTransit buffers a transit for the Queue drop policy. Reports
// whether it was accepted (false if QueueCapacity is already exhausted,
// in which case the caller drops the message instead).
func (c *Channel) enqueueTransit(to *Gate, msg *Message) bool {
	cap := c.metrics.QueueCapacity
	if cap > 0 && len(c.fifo) >= cap {
		return false
	}
	c.fifo = append(c.fifo, queuedTransit{to: to, msg: msg})
	return true
}

// dequeueTransit pops the oldest buffered transit, if any.
func (c *Channel) dequeueTransit() (queuedTransit, bool) {
	if len(c.fifo) == 0 {
		return queuedTransit{}, false
	}
	head := c.fifo[0]
	c.fifo = c.fifo[1:]
	return head, true
}
