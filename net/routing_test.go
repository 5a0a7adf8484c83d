package net

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	des "github.com/desimkit/des"
)

// buildSim wires sim as the Application for a fresh Runtime, via des.Builder
// (so AtSimStart/AtSimEnd run exactly as a real embedder would observe).
func buildSim(t *testing.T, sim *Sim, maxTime des.SimTime) *des.Runtime {
	t.Helper()
	rt, err := des.NewBuilder(sim).WithMaxTime(maxTime).Build()
	require.NoError(t, err)
	return rt
}

// pingPongSoftware implements a ping-pong scenario: one module sends a
// 1000-bit message every simulated second; its peer echoes every message
// it receives back along its own out gate.
type pingPongSoftware struct {
	BaseSoftware

	isSender  bool
	label     string
	outGate   string
	sent      int
	received  int
	remaining int
}

func (p *pingPongSoftware) AtSimStart(m *ModuleContext, rt *des.Runtime, stage int) error {
	if stage != 0 {
		return nil
	}
	if p.isSender {
		p.remaining = 30
		p.scheduleNext(m, rt)
	}
	return nil
}

func (p *pingPongSoftware) scheduleNext(m *ModuleContext, rt *des.Runtime) {
	if p.remaining <= 0 {
		return
	}
	_, _ = rt.AddEventIn(&pingPongTick{path: m.Path().String()}, time.Second)
}

type pingPongTick struct {
	path string
}

func (e *pingPongTick) Handle(rt *des.Runtime) error {
	sim, ok := currentSim(rt)
	if !ok {
		return nil
	}
	m, err := sim.lookup(e.path)
	if err != nil {
		return nil
	}
	soft, err := m.Software()
	if err != nil {
		return nil
	}
	p := soft.(*pingPongSoftware)

	g, err := m.Gate(p.outGate, 0)
	if err != nil {
		return nil
	}
	msg := NewMessage(0, p.label, "", NewBody(p.sent, 125), rt.Now())
	if err := Send(rt, g, msg); err != nil {
		return nil
	}
	p.sent++
	p.remaining--
	p.scheduleNext(m, rt)
	return nil
}

func (p *pingPongSoftware) HandleMessage(m *ModuleContext, rt *des.Runtime, msg *Message) error {
	p.received++
	if p.isSender {
		return nil
	}
	g, err := m.Gate(p.outGate, 0)
	if err != nil {
		return nil
	}
	reply := NewMessage(msg.Header.Kind, p.label, msg.Header.SrcAddr, NewBody(p.received, 125), rt.Now())
	p.sent++
	return Send(rt, g, reply)
}

func buildPingPongTopology(t *testing.T) (*Sim, *pingPongSoftware, *pingPongSoftware) {
	t.Helper()
	sim := New(nil)

	ping := &pingPongSoftware{isSender: true, label: "ping", outGate: "out"}
	pong := &pingPongSoftware{label: "pong", outGate: "out"}

	_, err := sim.Node("ping", ping)
	require.NoError(t, err)
	_, err = sim.Node("pong", pong)
	require.NoError(t, err)

	pingOut, err := sim.Gate("ping", "out", 1, 0)
	require.NoError(t, err)
	pongIn, err := sim.Gate("pong", "in", 1, 0)
	require.NoError(t, err)
	pongOut, err := sim.Gate("pong", "out", 1, 0)
	require.NoError(t, err)
	pingIn, err := sim.Gate("ping", "in", 1, 0)
	require.NoError(t, err)

	metrics := ChannelMetrics{BitrateBPS: 8_000_000, Latency: 10 * time.Millisecond}
	chAB, err := NewChannel("ping->pong", metrics)
	require.NoError(t, err)
	chBA, err := NewChannel("pong->ping", metrics)
	require.NoError(t, err)

	require.NoError(t, pingOut.Connect(pongIn, chAB))
	require.NoError(t, pongOut.Connect(pingIn, chBA))

	return sim, ping, pong
}

func TestPingPongRoundTrip(t *testing.T) {
	sim, ping, pong := buildPingPongTopology(t)
	rt := buildSim(t, sim, des.SimTime(31))

	result := rt.Run()

	require.Equal(t, 30, ping.sent)
	require.Equal(t, 30, ping.received)
	require.Equal(t, 30, pong.received)
	require.Equal(t, 30, pong.sent)
	require.GreaterOrEqual(t, result.Time, des.SimTime(30.020))
	require.LessOrEqual(t, result.Time, des.SimTime(30.030))
}

func TestChannelDropOnBusy(t *testing.T) {
	sim := New(nil)
	sender := &BaseSoftware{}
	receiver := &recordingSoftware{}

	_, err := sim.Node("sender", sender)
	require.NoError(t, err)
	_, err = sim.Node("receiver", receiver)
	require.NoError(t, err)

	out, err := sim.Gate("sender", "out", 1, 0)
	require.NoError(t, err)
	in, err := sim.Gate("receiver", "in", 1, 0)
	require.NoError(t, err)

	ch, err := NewChannel("s->r", ChannelMetrics{BitrateBPS: 1000, Drop: Drop})
	require.NoError(t, err)
	require.NoError(t, out.Connect(in, ch))

	rt := buildSim(t, sim, des.SimTime(2))

	msg1 := NewMessage(0, "sender", "receiver", NewBody(1, 125), des.SimTimeZero)
	_, err = rt.AddEvent(&MessageExitingConnection{Conn: out, Msg: msg1}, des.SimTimeZero)
	require.NoError(t, err)
	msg2 := NewMessage(0, "sender", "receiver", NewBody(2, 125), des.SimTime(0.5))
	_, err = rt.AddEvent(&MessageExitingConnection{Conn: out, Msg: msg2}, des.SimTime(0.5))
	require.NoError(t, err)

	rt.Run()

	require.Len(t, receiver.received, 1, "the second message should be dropped while the channel is busy")
	require.False(t, ch.Busy(), "channel must be idle again by the time the run ends")
}

// recordingSoftware records every message it receives, for assertions.
type recordingSoftware struct {
	BaseSoftware
	received []*Message
}

func (r *recordingSoftware) HandleMessage(m *ModuleContext, rt *des.Runtime, msg *Message) error {
	r.received = append(r.received, msg)
	return nil
}

// Routing over a misconfigured cycle terminates within MaxChainDepth hops
// rather than looping forever.
func TestGateChainTerminatesWithinMaxDepth(t *testing.T) {
	sim := New(nil)
	_, err := sim.Node("loop", &BaseSoftware{})
	require.NoError(t, err)

	a, err := sim.Gate("loop", "a", 1, 0)
	require.NoError(t, err)
	b, err := sim.Gate("loop", "b", 1, 0)
	require.NoError(t, err)
	require.NoError(t, a.Connect(b, nil))
	require.NoError(t, b.Connect(a, nil))

	rt := buildSim(t, sim, des.SimTime(1))

	msg := NewMessage(0, "loop", "loop", NewBody(1, 4), des.SimTimeZero)
	_, err = rt.AddEvent(&MessageExitingConnection{Conn: a, Msg: msg}, des.SimTimeZero)
	require.NoError(t, err)

	// The whole a<->b cycle unwinds within a single event dispatch (no
	// channel means no re-enqueue between hops), so exactly one event
	// should run before the queue empties.
	require.Equal(t, 1, rt.DispatchAll())
}
