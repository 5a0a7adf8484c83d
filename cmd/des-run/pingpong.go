package main

import (
	"time"

	des "github.com/desimkit/des"
	"github.com/desimkit/des/net"
)

// pingPongSoftware implements a simple ping-pong exchange: a module sends
// a 1000-bit message every simulated second; its peer echoes every
// message it receives back out through its own out gate.
type pingPongSoftware struct {
	net.BaseSoftware

	label     string
	isSender  bool
	outGate   string
	sent      int
	received  int
	remaining int // sender-only: messages left to send
}

const pingPongMessageBits = 1000

func (p *pingPongSoftware) AtSimStart(m *net.ModuleContext, rt *des.Runtime, stage int) error {
	if stage != 0 {
		return nil
	}
	if p.isSender {
		p.remaining = 30
		p.scheduleNextSend(m, rt)
	}
	return nil
}

func (p *pingPongSoftware) scheduleNextSend(m *net.ModuleContext, rt *des.Runtime) {
	if p.remaining <= 0 {
		return
	}
	_, _ = rt.AddEventIn(&sendTickEvent{path: m.Path().String()}, time.Second)
}

// sendTickEvent drives the sender's periodic send, re-enqueueing itself
// until its quota is exhausted.
type sendTickEvent struct {
	path string
}

func (e *sendTickEvent) Handle(rt *des.Runtime) error {
	sim, ok := rt.Application().(*net.Sim)
	if !ok {
		return nil
	}
	m, err := sim.Lookup(e.path)
	if err != nil {
		return nil
	}
	soft, err := m.Software()
	if err != nil {
		return nil
	}
	p, ok := soft.(*pingPongSoftware)
	if !ok {
		return nil
	}

	g, err := m.Gate(p.outGate, 0)
	if err != nil {
		return nil
	}
	body := net.NewBody(p.sent, pingPongMessageBits/8)
	msg := net.NewMessage(0, p.label, "", body, rt.Now())
	if err := net.Send(rt, g, msg); err != nil {
		return nil
	}
	p.sent++
	p.remaining--
	p.scheduleNextSend(m, rt)
	return nil
}

func (p *pingPongSoftware) HandleMessage(m *net.ModuleContext, rt *des.Runtime, msg *net.Message) error {
	p.received++
	if p.isSender {
		return nil
	}
	// Echo immediately back out this module's own out gate.
	g, err := m.Gate(p.outGate, 0)
	if err != nil {
		return nil
	}
	reply := net.NewMessage(msg.Header.Kind, p.label, msg.Header.SrcAddr, net.NewBody(p.received, pingPongMessageBits/8), rt.Now())
	p.sent++
	return net.Send(rt, g, reply)
}
