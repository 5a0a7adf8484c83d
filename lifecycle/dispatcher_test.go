package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversInDescendingPriorityOrder(t *testing.T) {
	d := NewDispatcher()
	var order []string

	d.RegisterObserver(ObserverFunc{Name: "low", Prio: 0, Fn: func(Event) { order = append(order, "low") }})
	d.RegisterObserver(ObserverFunc{Name: "high", Prio: 100, Fn: func(Event) { order = append(order, "high") }})
	d.RegisterObserver(ObserverFunc{Name: "mid", Prio: 10, Fn: func(Event) { order = append(order, "mid") }})

	d.Dispatch(Event{Type: EventStart, ModulePath: "a"})

	require.Equal(t, []string{"high", "mid", "low"}, order)
}

func TestDispatcher_EqualPriorityPreservesRegistrationOrder(t *testing.T) {
	d := NewDispatcher()
	var order []string

	d.RegisterObserver(ObserverFunc{Name: "a", Prio: 5, Fn: func(Event) { order = append(order, "a") }})
	d.RegisterObserver(ObserverFunc{Name: "b", Prio: 5, Fn: func(Event) { order = append(order, "b") }})

	d.Dispatch(Event{Type: EventInit})

	require.Equal(t, []string{"a", "b"}, order)
}

func TestDispatcher_UnregisterObserverStopsDelivery(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	d.RegisterObserver(ObserverFunc{Name: "only", Fn: func(Event) { calls++ }})

	d.Dispatch(Event{Type: EventInit})
	d.UnregisterObserver("only")
	d.Dispatch(Event{Type: EventInit})

	require.Equal(t, 1, calls)
}

func TestDispatcher_MetricsCountByType(t *testing.T) {
	d := NewDispatcher()
	d.Dispatch(Event{Type: EventInit})
	d.Dispatch(Event{Type: EventInit})
	d.Dispatch(Event{Type: EventShutdown})

	snap := d.Metrics().Snapshot()
	require.Equal(t, int64(2), snap[EventInit])
	require.Equal(t, int64(1), snap[EventShutdown])
}
