package net

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	des "github.com/desimkit/des"
)

// outageSender emits one message per second for a fixed count, starting 1s
// after sim-start.
type outageSender struct {
	BaseSoftware
	outGate   string
	remaining int
	sent      int
}

func (s *outageSender) AtSimStart(m *ModuleContext, rt *des.Runtime, stage int) error {
	if stage != 0 {
		return nil
	}
	s.remaining = 10
	s.scheduleNext(m, rt)
	return nil
}

func (s *outageSender) scheduleNext(m *ModuleContext, rt *des.Runtime) {
	if s.remaining <= 0 {
		return
	}
	_, _ = rt.AddEventIn(&outageSenderTick{path: m.Path().String()}, time.Second)
}

type outageSenderTick struct{ path string }

func (e *outageSenderTick) Handle(rt *des.Runtime) error {
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
	s := soft.(*outageSender)
	g, err := m.Gate(s.outGate, 0)
	if err != nil {
		return nil
	}
	msg := NewMessage(0, e.path, "", NewBody(s.sent+1, 4), rt.Now())
	if err := Send(rt, g, msg); err != nil {
		return nil
	}
	s.sent++
	s.remaining--
	s.scheduleNext(m, rt)
	return nil
}

// outageRelay forwards everything it receives out its own out gate, and
// takes itself down for a scheduled outage window via a self-timer armed
// at sim-start.
type outageRelay struct {
	BaseSoftware
	outGate        string
	outageAt       time.Duration
	outageDuration time.Duration
}

func (r *outageRelay) AtSimStart(m *ModuleContext, rt *des.Runtime, stage int) error {
	if stage != 0 {
		return nil
	}
	_, _ = rt.AddEventIn(&outageTimer{path: m.Path().String(), duration: r.outageDuration}, r.outageAt)
	return nil
}

func (r *outageRelay) HandleMessage(m *ModuleContext, rt *des.Runtime, msg *Message) error {
	g, err := m.Gate(r.outGate, 0)
	if err != nil {
		return nil
	}
	return Send(rt, g, msg)
}

type outageTimer struct {
	path     string
	duration time.Duration
}

func (e *outageTimer) Handle(rt *des.Runtime) error {
	sim, ok := currentSim(rt)
	if !ok {
		return nil
	}
	m, err := sim.lookup(e.path)
	if err != nil {
		return nil
	}
	m.activate()
	ShutdownAndRestartIn(m, rt, e.duration, "scheduled_outage")
	req := m.deactivate()
	applyShutdown(sim, rt, m, req)
	return nil
}

type outageCounter struct {
	BaseSoftware
	received int
}

func (c *outageCounter) HandleMessage(m *ModuleContext, rt *des.Runtime, msg *Message) error {
	c.received++
	return nil
}

// Relay shutdown drops in-flight transit: ping -> transit -> pong, transit
// down from t=5.5s to t=8.5s, pong receives exactly 7 of the 10 messages
// ping sends at t=1..10s.
func TestShutdownDropsInFlightTransit(t *testing.T) {
	sim := New(nil)

	ping := &outageSender{outGate: "out"}
	transit := &outageRelay{outGate: "out", outageAt: 5500 * time.Millisecond, outageDuration: 3 * time.Second}
	pong := &outageCounter{}

	_, err := sim.Node("ping", ping)
	require.NoError(t, err)
	_, err = sim.Node("transit", transit)
	require.NoError(t, err)
	_, err = sim.Node("pong", pong)
	require.NoError(t, err)

	pingOut, err := sim.Gate("ping", "out", 1, 0)
	require.NoError(t, err)
	transitIn, err := sim.Gate("transit", "in", 1, 0)
	require.NoError(t, err)
	transitOut, err := sim.Gate("transit", "out", 1, 0)
	require.NoError(t, err)
	pongIn, err := sim.Gate("pong", "in", 1, 0)
	require.NoError(t, err)

	require.NoError(t, pingOut.Connect(transitIn, nil))
	require.NoError(t, transitOut.Connect(pongIn, nil))

	rt, err := des.NewBuilder(sim).WithMaxTime(des.SimTime(12)).Build()
	require.NoError(t, err)
	rt.Run()

	require.Equal(t, 10, ping.sent)
	require.Equal(t, 7, pong.received)
}
