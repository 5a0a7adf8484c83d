package des

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newQueueBackends() map[string]func() EventQueue {
	return map[string]func() EventQueue{
		"heap":     func() EventQueue { return newHeapQueue() },
		"calendar": func() EventQueue { return newCalendarQueue() },
	}
}

// Dispatch order must be monotone in time and stable on ties.
func TestEventQueue_MonotoneAndStableTieBreak(t *testing.T) {
	for name, ctor := range newQueueBackends() {
		t.Run(name, func(t *testing.T) {
			q := ctor()
			q.Push(Event{Value: FuncEvent(nil), Time: 5, Seq: 1})
			q.Push(Event{Value: FuncEvent(nil), Time: 1, Seq: 2})
			q.Push(Event{Value: FuncEvent(nil), Time: 3, Seq: 3})
			// Same-time events, pushed in order A, B, C: must dispatch A, B, C.
			q.Push(Event{Value: FuncEvent(nil), Time: 1, Seq: 4}) // "A" at t=1
			q.Push(Event{Value: FuncEvent(nil), Time: 1, Seq: 5}) // "B" at t=1

			var times []SimTime
			var seqs []uint64
			for {
				e, ok := q.PopMin()
				if !ok {
					break
				}
				times = append(times, e.Time)
				seqs = append(seqs, e.Seq)
			}

			require.Len(t, times, 5)
			for i := 1; i < len(times); i++ {
				require.LessOrEqual(t, times[i-1], times[i], "monotone time violated")
			}
			// The two t=1 events (seq 2, then seq 4, then seq 5) must come out
			// in insertion (seq) order among themselves.
			var seqsAtOne []uint64
			for i, tm := range times {
				if tm == 1 {
					seqsAtOne = append(seqsAtOne, seqs[i])
				}
			}
			require.Equal(t, []uint64{2, 4, 5}, seqsAtOne)
		})
	}
}

func TestEventQueue_CancelRemovesPendingEvent(t *testing.T) {
	for name, ctor := range newQueueBackends() {
		t.Run(name, func(t *testing.T) {
			q := ctor()
			h1 := q.Push(Event{Value: FuncEvent(nil), Time: 1, Seq: 1})
			q.Push(Event{Value: FuncEvent(nil), Time: 2, Seq: 2})

			require.True(t, q.Cancel(h1))
			require.False(t, q.Cancel(h1), "cancelling twice reports no further removal")

			e, ok := q.PopMin()
			require.True(t, ok)
			require.Equal(t, SimTime(2), e.Time)

			_, ok = q.PopMin()
			require.False(t, ok)
		})
	}
}

func TestEventQueue_PeekMinTimeSkipsCancelledHead(t *testing.T) {
	for name, ctor := range newQueueBackends() {
		t.Run(name, func(t *testing.T) {
			q := ctor()
			h1 := q.Push(Event{Value: FuncEvent(nil), Time: 1, Seq: 1})
			q.Push(Event{Value: FuncEvent(nil), Time: 2, Seq: 2})
			q.Cancel(h1)

			peeked, ok := q.PeekMinTime()
			require.True(t, ok)
			require.Equal(t, SimTime(2), peeked)
			require.Equal(t, 1, q.Len())
			require.False(t, q.IsEmpty())
		})
	}
}
