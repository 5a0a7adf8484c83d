package async

import des "github.com/desimkit/des"

// TaskHandle cancels a previously registered wakeup, if it hasn't fired
// yet.
type TaskHandle struct {
	bridge *Bridge
	id     string
}

// Cancel removes the underlying task. Safe to call after the task has
// already fired (a no-op).
func (h TaskHandle) Cancel() {
	if h.bridge == nil {
		return
	}
	h.bridge.cancelTask(h.id)
}

// SleepUntil registers resume to run the next time the bridge polls at or
// after t.
func (b *Bridge) SleepUntil(t des.SimTime, resume func(rt *des.Runtime)) (TaskHandle, error) {
	id, err := b.register(t, resume)
	if err != nil {
		return TaskHandle{}, err
	}
	return TaskHandle{bridge: b, id: id}, nil
}

// Sleep registers resume to run after d of simulated time elapses from
// rt.Now().
func (b *Bridge) Sleep(rt *des.Runtime, d des.Duration, resume func(rt *des.Runtime)) (TaskHandle, error) {
	return b.SleepUntil(rt.Now().Add(d), resume)
}
