package net

import des "github.com/desimkit/des"

// ProcessingElement is a single middleware stage in a module's processing
// stack: ordered bottom-up from the network layer toward the application
// handler, which sits above the whole stack.
type ProcessingElement interface {
	// EventStart is called on every element, bottom to top, before Incoming
	// runs on any of them.
	EventStart(m *ModuleContext, rt *des.Runtime)

	// Incoming passes msg through this element. Returning (nil, false)
	// short-circuits the remaining upward pass and the application
	// handler; returning (msg, true) (possibly a different *Message, e.g.
	// after decapsulation) continues upward.
	Incoming(m *ModuleContext, rt *des.Runtime, msg *Message) (*Message, bool)

	// EventEnd is called on every element, top to bottom, after the
	// application handler (or whichever element short-circuited) returns.
	EventEnd(m *ModuleContext, rt *des.Runtime)
}

// runStack drives msg through stack and, if it survives to the top, into
// software.HandleMessage. Returns whatever HandleMessage returned, or nil
// if an element short-circuited.
func runStack(m *ModuleContext, rt *des.Runtime, stack []ProcessingElement, software Software, msg *Message) error {
	for _, el := range stack {
		el.EventStart(m, rt)
	}

	cur := msg
	ok := true
	for _, el := range stack {
		cur, ok = el.Incoming(m, rt, cur)
		if !ok {
			break
		}
	}

	var handleErr error
	if ok {
		handleErr = software.HandleMessage(m, rt, cur)
	}

	for i := len(stack) - 1; i >= 0; i-- {
		stack[i].EventEnd(m, rt)
	}

	return handleErr
}
