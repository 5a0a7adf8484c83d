package net

import des "github.com/desimkit/des"

// MaxChainDepth bounds how many hops MessageExitingConnection will follow
// before abandoning the chain. Misconfigured cycles are tolerated up to
// this depth, then the message is dropped with a diagnostic rather than
// looping forever.
const MaxChainDepth = 16

func currentSim(rt *des.Runtime) (*Sim, bool) {
	sim, ok := rt.Application().(*Sim)
	return sim, ok
}

// Send starts a message on its way out of gate g: enqueues a
// MessageExitingConnection at the current time.
func Send(rt *des.Runtime, g *Gate, msg *Message) error {
	_, err := rt.AddEvent(&MessageExitingConnection{Conn: g, Msg: msg}, rt.Now())
	return err
}

// MessageExitingConnection drives msg across zero or more channel-less
// hops, stopping at the first channel encountered (or the end of the
// chain).
type MessageExitingConnection struct {
	Conn  *Gate
	Msg   *Message
	depth int
}

// Handle implements des.EventValue.
func (e *MessageExitingConnection) Handle(rt *des.Runtime) error {
	sim, ok := currentSim(rt)
	if !ok {
		return ErrUninitializedModule
	}

	cur := e.Conn
	msg := e.Msg
	depth := e.depth

	owner, err := cur.Owner()
	if err == nil {
		msg.Header.LastGate = gateLabel(owner, cur)
	}

	for {
		next, hasNext := cur.Next()
		if !hasNext {
			break
		}
		if depth >= MaxChainDepth {
			sim.dropMessage("chain_too_deep", cur, msg, rt.Now())
			return nil
		}
		depth++

		nextOwner, err := next.Owner()
		if err != nil {
			sim.dropMessage("gate_owner_gone", next, msg, rt.Now())
			return nil
		}
		msg.Header.LastGate = gateLabel(nextOwner, next)
		msg.Header.HopCount++

		if !nextOwner.Active() {
			sim.dropMessage("owner_inactive", next, msg, rt.Now())
			return nil
		}

		// The channel attached to cur (via cur.Connect(next, channel))
		// governs the hop from cur to next, not any channel next itself
		// may separately have toward its own successor.
		if ch, hasChannel := cur.Channel(); hasChannel {
			return sim.enterChannel(rt, cur, next, ch, msg)
		}

		cur = next
	}

	// End of chain: deliver to the owning module's HandleMessageEvent.
	owner, err = cur.Owner()
	if err != nil {
		sim.dropMessage("gate_owner_gone", cur, msg, rt.Now())
		return nil
	}
	_, herr := rt.AddEvent(&HandleMessageEvent{ModulePath: owner.Path().String(), Msg: msg}, rt.Now())
	return herr
}

func gateLabel(owner *ModuleContext, g *Gate) string {
	return owner.Path().String() + "#" + g.Name()
}

// enterChannel implements the channel-busy branch of the routing
// algorithm: Drop/Queue/FailTransmission on Busy, otherwise mark Busy and
// schedule the unbusy notification plus the re-entry of routing at toGate
// (the hop's destination) once the transit completes.
func (sim *Sim) enterChannel(rt *des.Runtime, fromGate, toGate *Gate, ch *Channel, msg *Message) error {
	if ch.Busy() {
		switch ch.metrics.Drop {
		case Queue:
			if ch.enqueueTransit(toGate, msg) {
				return nil
			}
			sim.dropMessage("queue_full", fromGate, msg, rt.Now())
			return nil
		case FailTransmission:
			// Delivered despite the collision, flagged rather than
			// dropped. This does not touch the channel's busy
			// bookkeeping: the in-flight message already occupying the
			// channel is what governs busyUntil and the single
			// outstanding ChannelUnbusyNotif; a second concurrent
			// "successful" transit would break that invariant.
			msg.Header.Failed = true
			jitter := ch.sampleJitter(rt.RNG())
			_, err := rt.AddEvent(&MessageExitingConnection{Conn: toGate, Msg: msg}, rt.Now().Add(ch.metrics.Latency+jitter))
			return err
		default: // Drop
			sim.dropMessage("channel_busy", fromGate, msg, rt.Now())
			return nil
		}
	}
	return sim.admitToChannel(rt, toGate, ch, msg)
}

// admitToChannel marks ch busy, schedules its unbusy notification, and
// schedules the message's re-entry into routing at toGate after
// latency+jitter.
func (sim *Sim) admitToChannel(rt *des.Runtime, toGate *Gate, ch *Channel, msg *Message) error {
	jitter := ch.sampleJitter(rt.RNG())
	latencyPlusJitter := ch.metrics.Latency + jitter
	transit := ch.transitDuration(msg.BitLength())
	busyUntil := rt.Now().Add(latencyPlusJitter + transit)

	ch.markBusyUntil(busyUntil)
	if _, err := rt.AddEvent(&ChannelUnbusyNotif{Channel: ch}, busyUntil); err != nil {
		return err
	}

	_, err := rt.AddEvent(&MessageExitingConnection{Conn: toGate, Msg: msg}, rt.Now().Add(latencyPlusJitter))
	return err
}

// ChannelUnbusyNotif fires when a channel's in-flight transit completes,
// transitioning it Busy -> Idle.
type ChannelUnbusyNotif struct {
	Channel *Channel
}

// Handle implements des.EventValue.
func (e *ChannelUnbusyNotif) Handle(rt *des.Runtime) error {
	e.Channel.markIdle()
	sim, ok := currentSim(rt)
	if ok && sim.diagnostics != nil {
		sim.diagnostics.ChannelUnbusy(e.Channel.Name(), rt.Now())
	}

	if queued, ok := e.Channel.dequeueTransit(); ok && sim != nil {
		return sim.admitToChannel(rt, queued.to, e.Channel, queued.msg)
	}
	return nil
}

// HandleMessageEvent delivers msg to the owning module's processing stack
// and software handler.
type HandleMessageEvent struct {
	ModulePath string
	Msg        *Message
}

// Handle implements des.EventValue.
func (e *HandleMessageEvent) Handle(rt *des.Runtime) error {
	sim, ok := currentSim(rt)
	if !ok {
		return ErrUninitializedModule
	}
	m, err := sim.lookup(e.ModulePath)
	if err != nil {
		return err
	}
	if !m.Active() {
		sim.dropMessage("module_inactive", nil, e.Msg, rt.Now())
		return nil
	}

	software, err := m.Software()
	if err != nil {
		sim.dropMessage("module_not_initialized", nil, e.Msg, rt.Now())
		return nil
	}

	m.activate()
	handleErr := sim.dispatchWithPanicPolicy(rt, m, software, e.Msg)
	req := m.deactivate()
	applyShutdown(sim, rt, m, req)

	return handleErr
}

// dropMessage records a dropped-in-transit message as a diagnostic.
func (sim *Sim) dropMessage(reason string, g *Gate, msg *Message, at des.SimTime) {
	gatePath := ""
	if g != nil {
		if owner, err := g.Owner(); err == nil {
			gatePath = gateLabel(owner, g)
		}
	}
	if sim.diagnostics != nil {
		sim.diagnostics.MessageDropped(reason, gatePath, msg.Header.ID, at)
	}
}
