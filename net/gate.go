package net

import "weak"

// Gate is a directed endpoint on a module: a (name, pos, size) triple
// plus an optional next-hop gate and an attached channel. Gates chain
// together to form links; following Next from any gate must terminate
// within MaxChainDepth hops (routing.go enforces this).
//
// The owner back-reference is a weak.Pointer[ModuleContext]
// (stdlib "weak", Go >= 1.24) rather than a strong pointer: the module
// owns its gate slice strongly, so a gate holding a strong pointer back to
// its owner would form a reference cycle the garbage collector could still
// technically resolve, but which is better avoided by construction. A
// dangling weak pointer (owner torn down) reads as "no owner" rather than
// keeping a dead module alive.
type Gate struct {
	name string
	pos  int
	size int

	owner weak.Pointer[ModuleContext]

	next    *Gate
	channel *Channel
}

// newGate constructs a gate owned by owner.
func newGate(owner *ModuleContext, name string, pos, size int) *Gate {
	return &Gate{
		name:  name,
		pos:   pos,
		size:  size,
		owner: weak.Make(owner),
	}
}

// Name returns the gate's declared name.
func (g *Gate) Name() string { return g.name }

// Pos returns the gate's vector index (0 for a scalar gate).
func (g *Gate) Pos() int { return g.pos }

// Size returns the gate vector's declared size.
func (g *Gate) Size() int { return g.size }

// Owner resolves the weak back-reference to the owning module context.
// Returns ErrUninitializedModule if the owner has been collected (torn
// down and no longer referenced elsewhere), which should never observably
// happen while a Sim holding the module registry is alive.
func (g *Gate) Owner() (*ModuleContext, error) {
	if m := g.owner.Value(); m != nil {
		return m, nil
	}
	return nil, ErrUninitializedModule
}

// Next returns the gate's configured successor, if any.
func (g *Gate) Next() (*Gate, bool) {
	if g.next == nil {
		return nil, false
	}
	return g.next, true
}

// Channel returns the channel attached to the connection from g to its
// successor, if any.
func (g *Gate) Channel() (*Channel, bool) {
	if g.channel == nil {
		return nil, false
	}
	return g.channel, true
}

// Connect sets g's successor to next, optionally attaching a channel to
// the connection. Connecting a gate to itself is a configuration error.
func (g *Gate) Connect(next *Gate, channel *Channel) error {
	if g == next {
		return ErrSelfConnection
	}
	g.next = next
	g.channel = channel
	return nil
}
