package async

import des "github.com/desimkit/des"

// TimeoutRace races a deadline wakeup against completion of some other
// work; whichever happens first wins and the other is dropped. Exactly
// one of onTimeout/onSuccess ever runs.
type TimeoutRace struct {
	resolved  bool
	handle    TaskHandle
	onTimeout func(rt *des.Runtime)
	onSuccess func(rt *des.Runtime)
}

// Timeout starts the race: onTimeout runs if Complete is not called within
// d of simulated time; otherwise a later Complete call runs onSuccess and
// cancels the pending timeout wakeup.
func (b *Bridge) Timeout(rt *des.Runtime, d des.Duration, onTimeout, onSuccess func(rt *des.Runtime)) *TimeoutRace {
	race := &TimeoutRace{onTimeout: onTimeout, onSuccess: onSuccess}
	h, err := b.Sleep(rt, d, race.fireTimeout)
	if err == nil {
		race.handle = h
	}
	return race
}

func (r *TimeoutRace) fireTimeout(rt *des.Runtime) {
	if r.resolved {
		return
	}
	r.resolved = true
	if r.onTimeout != nil {
		r.onTimeout(rt)
	}
}

// Complete reports that the raced work finished. If the timeout has
// already fired, this is a no-op; otherwise the pending timeout wakeup is
// cancelled and onSuccess runs.
func (r *TimeoutRace) Complete(rt *des.Runtime) {
	if r.resolved {
		return
	}
	r.resolved = true
	r.handle.Cancel()
	if r.onSuccess != nil {
		r.onSuccess(rt)
	}
}
